package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/features"
)

// Visibility controls whether a field's getter is part of the public surface.
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "private"
}

func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Visibility) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "public":
		*v = Public
	case "private", "":
		*v = Private
	default:
		return fmt.Errorf("unknown visibility %q", text)
	}
	return nil
}

// FieldDeclaration is one authored field.
//
// Cardinality 1 is a scalar, N>1 a fixed-size array, and 0 an unbounded
// list of references stored outside the static layout.
type FieldDeclaration struct {
	PermissionID *int
	Key          string
	ID           int
	Cardinality  int
	Type         FieldType
	Visibility   Visibility
}

// Dynamic reports whether the field lives in a dynamic reference store.
func (f FieldDeclaration) Dynamic() bool {
	return f.Cardinality == 0
}

// Schema is the complete input to the compiler.
//
// Field order is part of the storage contract: reordering fields moves them to
// different words and breaks every reader of already packed data.
type Schema struct {
	Scope     string
	Name      string
	Symbol    string
	BaseURI   string
	SchemaURI string
	ImageURI  string
	Fields    []FieldDeclaration
	Features  []features.Feature
}

// StaticFields returns the fields with a fixed layout, in declaration order.
func (s *Schema) StaticFields() []FieldDeclaration {
	out := make([]FieldDeclaration, 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.Dynamic() {
			out = append(out, f)
		}
	}
	return out
}

// DynamicFields returns the cardinality-0 fields, in declaration order.
func (s *Schema) DynamicFields() []FieldDeclaration {
	var out []FieldDeclaration
	for _, f := range s.Fields {
		if f.Dynamic() {
			out = append(out, f)
		}
	}
	return out
}

// Field looks a field up by key.
func (s *Schema) Field(key string) (FieldDeclaration, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDeclaration{}, false
}

// Facts extracts the structural properties the feature resolver needs.
func (s *Schema) Facts() features.Facts {
	var facts features.Facts
	for _, f := range s.Fields {
		if f.Type == TypeLiteRef {
			facts.ReferenceFieldCardinalities = append(facts.ReferenceFieldCardinalities, f.Cardinality)
		}
	}
	return facts
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var reservedPrefixes = []string{"_"}

// reservedWords collide with keywords or members of the generated contract.
var reservedWords = map[string]bool{
	"abstract": true, "address": true, "anonymous": true, "assembly": true, "assert": true,
	"block": true, "bool": true, "break": true, "byte": true, "bytes": true, "calldata": true,
	"catch": true, "constant": true, "constructor": true, "continue": true, "contract": true,
	"delete": true, "do": true, "else": true, "emit": true, "enum": true, "event": true,
	"external": true, "fallback": true, "false": true, "fixed": true, "for": true,
	"function": true, "if": true, "immutable": true, "import": true, "indexed": true,
	"int": true, "interface": true, "internal": true, "is": true, "let": true, "library": true,
	"mapping": true, "memory": true, "modifier": true, "msg": true, "new": true, "now": true,
	"override": true, "payable": true, "private": true, "public": true, "pure": true,
	"receive": true, "require": true, "return": true, "returns": true, "revert": true,
	"selfdestruct": true, "storage": true, "string": true, "struct": true, "super": true,
	"this": true, "true": true, "try": true, "tx": true, "type": true, "ufixed": true,
	"uint": true, "unchecked": true, "using": true, "var": true, "view": true, "virtual": true,
	"while": true,
	// members of the generated contract
	"metadata": true, "tokenId": true, "owner": true, "scopeName": true,
}

// IsReserved reports whether key may not be used as a field key.
func IsReserved(key string) bool {
	if reservedWords[key] {
		return true
	}
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// Validate checks every declaration and reports all problems at once.
func (s *Schema) Validate() error {
	var problems errors.ValidationError

	if len(s.Fields) == 0 {
		problems.Add(errors.InvalidInput(errors.PhaseValidate, nil, "schema declares no fields"))
	}

	ids := make(map[int]string, len(s.Fields))
	keys := make(map[string]bool, len(s.Fields))
	for i, f := range s.Fields {
		path := []string{f.Key}
		if f.Key == "" {
			path = []string{"fields", strconv.Itoa(i)}
		}
		bad := func(detail string, args ...any) {
			problems.Add(errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Path(path...).
				FieldType(f.Type.String()).
				Detail(detail, args...).
				Build())
		}

		if other, dup := ids[f.ID]; dup {
			bad("id %d already used by %q", f.ID, other)
		}
		ids[f.ID] = f.Key

		switch {
		case !identifier.MatchString(f.Key):
			bad("key %q is not an identifier", f.Key)
		case IsReserved(f.Key):
			bad("key %q is reserved", f.Key)
		case keys[f.Key]:
			bad("key %q declared twice", f.Key)
		}
		keys[f.Key] = true

		if !f.Type.valid() {
			bad("unknown field type %d", uint8(f.Type))
			continue
		}
		switch {
		case f.Cardinality < 0:
			bad("cardinality %d is negative", f.Cardinality)
		case f.Type == TypeString && f.Cardinality != 1:
			problems.Add(errors.Unsupported(errors.PhaseValidate, path, f.Type.String(),
				fmt.Sprintf("string fields must be scalar, got cardinality %d", f.Cardinality)))
		case f.Cardinality == 0 && f.Type != TypeLiteRef:
			bad("cardinality 0 is only allowed for literef fields")
		}
	}

	return problems.Err()
}
