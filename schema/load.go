package schema

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/features"
)

// document is the on-disk form. Cardinality is a pointer so an omitted value
// defaults to a scalar instead of silently meaning "dynamic".
type document struct {
	Scope     string             `yaml:"scope,omitempty"`
	Name      string             `yaml:"name"`
	Symbol    string             `yaml:"symbol,omitempty"`
	BaseURI   string             `yaml:"baseURI,omitempty"`
	SchemaURI string             `yaml:"schemaURI,omitempty"`
	ImageURI  string             `yaml:"imageURI,omitempty"`
	Features  []features.Feature `yaml:"features,omitempty"`
	Fields    []fieldDocument    `yaml:"fields"`
}

type fieldDocument struct {
	ID           int        `yaml:"id"`
	Key          string     `yaml:"key"`
	Type         FieldType  `yaml:"type"`
	Cardinality  *int       `yaml:"cardinality,omitempty"`
	PermissionID *int       `yaml:"permissionId,omitempty"`
	Visibility   Visibility `yaml:"visibility,omitempty"`
}

// Load decodes a YAML or JSON schema document.
func Load(r io.Reader) (*Schema, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Detail("decode schema").
			Cause(err).
			Build()
	}

	s := &Schema{
		Scope:     doc.Scope,
		Name:      doc.Name,
		Symbol:    doc.Symbol,
		BaseURI:   doc.BaseURI,
		SchemaURI: doc.SchemaURI,
		ImageURI:  doc.ImageURI,
		Features:  doc.Features,
		Fields:    make([]FieldDeclaration, len(doc.Fields)),
	}
	for i, fd := range doc.Fields {
		card := 1
		if fd.Cardinality != nil {
			card = *fd.Cardinality
		}
		s.Fields[i] = FieldDeclaration{
			ID:           fd.ID,
			Key:          fd.Key,
			Type:         fd.Type,
			Cardinality:  card,
			PermissionID: fd.PermissionID,
			Visibility:   fd.Visibility,
		}
	}
	return s, nil
}

// LoadFile reads and decodes a schema file.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Path(path).
			Detail("read schema file").
			Cause(err).
			Build()
	}
	return Load(bytes.NewReader(data))
}

// Marshal encodes a schema as YAML. Load(Marshal(s)) reproduces s.
func Marshal(s *Schema) ([]byte, error) {
	doc := document{
		Scope:     s.Scope,
		Name:      s.Name,
		Symbol:    s.Symbol,
		BaseURI:   s.BaseURI,
		SchemaURI: s.SchemaURI,
		ImageURI:  s.ImageURI,
		Features:  s.Features,
		Fields:    make([]fieldDocument, len(s.Fields)),
	}
	for i, f := range s.Fields {
		card := f.Cardinality
		doc.Fields[i] = fieldDocument{
			ID:           f.ID,
			Key:          f.Key,
			Type:         f.Type,
			Cardinality:  &card,
			PermissionID: f.PermissionID,
			Visibility:   f.Visibility,
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "encode schema")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "encode schema")
	}
	return buf.Bytes(), nil
}
