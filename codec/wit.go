package codec

import (
	"strings"
	"unicode"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/schemac/schema"
)

// WITRecord describes the decoded value shape of fields as a WIT record, for
// component-model consumers that bind the metadata getter.
// Dynamic reference fields appear as list<u64>.
func WITRecord(fields []schema.FieldDeclaration) *wit.TypeDef {
	record := &wit.Record{Fields: make([]wit.Field, 0, len(fields))}
	for _, f := range fields {
		var t wit.Type
		switch {
		case f.Dynamic():
			t = &wit.TypeDef{Kind: &wit.List{Type: witScalar(f.Type)}}
		case f.Cardinality == 1:
			t = witScalar(f.Type)
		default:
			t = &wit.TypeDef{Kind: &wit.List{Type: witScalar(f.Type)}}
		}
		record.Fields = append(record.Fields, wit.Field{Name: toKebabCase(f.Key), Type: t})
	}
	return &wit.TypeDef{Kind: record}
}

func witScalar(ft schema.FieldType) wit.Type {
	switch ft.Class() {
	case schema.ClassBool:
		return wit.Bool{}
	case schema.ClassUint:
		switch ft.BitWidth() {
		case 8:
			return wit.U8{}
		case 16:
			return wit.U16{}
		case 32:
			return wit.U32{}
		case 64:
			return wit.U64{}
		}
		return wit.String{}
	case schema.ClassInt:
		switch ft.BitWidth() {
		case 8:
			return wit.S8{}
		case 16:
			return wit.S16{}
		case 32:
			return wit.S32{}
		case 64:
			return wit.S64{}
		}
		return wit.String{}
	case schema.ClassBytes:
		return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	case schema.ClassRef:
		return wit.U64{}
	}
	return wit.String{}
}

func toKebabCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case r == '_':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
