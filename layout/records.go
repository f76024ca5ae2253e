package layout

import (
	"encoding/json"

	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/schema"
)

// FieldRecord is the persisted description of one field.
// PermissionID is 0 when the field has none.
// Dynamic fields carry Cardinality 0 and a zero position.
type FieldRecord struct {
	Key          string            `json:"key"`
	ID           int               `json:"id"`
	PermissionID int               `json:"permissionId"`
	Cardinality  int               `json:"cardinality"`
	WordIndex    int               `json:"wordIndex"`
	BitOffset    int               `json:"bitOffset"`
	FieldType    schema.FieldType  `json:"fieldType"`
	Visibility   schema.Visibility `json:"visibility"`
}

// Manifest is the persisted schema read by indexers and other consumers.
type Manifest struct {
	Scope   string        `json:"scope"`
	Name    string        `json:"name"`
	Entries []FieldRecord `json:"entries"`
}

// JSON returns the indented JSON form of the manifest.
func (m *Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Records flattens a computed layout into one record per field, in declaration order.
// Array fields point at their first element.
func Records(s *schema.Schema, slots []Slot) ([]FieldRecord, error) {
	first := make(map[int]Slot, len(slots))
	for _, sl := range slots {
		if sl.ElementIndex == 0 {
			first[sl.FieldID] = sl
		}
	}

	out := make([]FieldRecord, 0, len(s.Fields))
	for _, f := range s.Fields {
		rec := FieldRecord{
			ID:          f.ID,
			Key:         f.Key,
			FieldType:   f.Type,
			Cardinality: f.Cardinality,
			Visibility:  f.Visibility,
		}
		if f.PermissionID != nil {
			rec.PermissionID = *f.PermissionID
		}
		if !f.Dynamic() {
			sl, ok := first[f.ID]
			if !ok {
				return nil, errors.Inconsistent(errors.PhaseLayout, []string{f.Key}, "field has no slot in layout")
			}
			rec.WordIndex = sl.WordIndex
			rec.BitOffset = sl.BitOffset
		}
		out = append(out, rec)
	}
	return out, nil
}

// NewManifest builds the manifest for a schema and its layout.
func NewManifest(s *schema.Schema, slots []Slot) (*Manifest, error) {
	entries, err := Records(s, slots)
	if err != nil {
		return nil, err
	}
	return &Manifest{Scope: s.Scope, Name: s.Name, Entries: entries}, nil
}
