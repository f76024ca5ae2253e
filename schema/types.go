package schema

import (
	"fmt"
	"strings"
)

// FieldType is the closed set of field types a schema may declare.
type FieldType uint8

const (
	TypeBool FieldType = iota
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeInt128
	TypeInt256
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeUint128
	TypeUint256
	TypeChar8
	TypeChar16
	TypeChar32
	TypeChar64
	TypeBytes8
	TypeBytes16
	TypeBytes32
	TypeLiteRef
	TypeAddress
	TypeString
)

// Class groups field types that share a value conversion.
type Class uint8

const (
	ClassBool Class = iota
	ClassUint
	ClassInt
	ClassText
	ClassBytes
	ClassAddress
	ClassRef
	ClassString
)

var classNames = [...]string{
	ClassBool:    "bool",
	ClassUint:    "uint",
	ClassInt:     "int",
	ClassText:    "text",
	ClassBytes:   "bytes",
	ClassAddress: "address",
	ClassRef:     "literef",
	ClassString:  "string",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

type typeInfo struct {
	name  string
	bits  int
	class Class
}

// registry is indexed by FieldType. String has no fixed width.
var registry = [...]typeInfo{
	TypeBool:    {"bool", 1, ClassBool},
	TypeInt8:    {"int8", 8, ClassInt},
	TypeInt16:   {"int16", 16, ClassInt},
	TypeInt32:   {"int32", 32, ClassInt},
	TypeInt64:   {"int64", 64, ClassInt},
	TypeInt128:  {"int128", 128, ClassInt},
	TypeInt256:  {"int256", 256, ClassInt},
	TypeUint8:   {"uint8", 8, ClassUint},
	TypeUint16:  {"uint16", 16, ClassUint},
	TypeUint32:  {"uint32", 32, ClassUint},
	TypeUint64:  {"uint64", 64, ClassUint},
	TypeUint128: {"uint128", 128, ClassUint},
	TypeUint256: {"uint256", 256, ClassUint},
	TypeChar8:   {"char8", 64, ClassText},
	TypeChar16:  {"char16", 128, ClassText},
	TypeChar32:  {"char32", 256, ClassText},
	TypeChar64:  {"char64", 512, ClassText},
	TypeBytes8:  {"bytes8", 64, ClassBytes},
	TypeBytes16: {"bytes16", 128, ClassBytes},
	TypeBytes32: {"bytes32", 256, ClassBytes},
	TypeLiteRef: {"literef", 64, ClassRef},
	TypeAddress: {"address", 160, ClassAddress},
	TypeString:  {"string", 0, ClassString},
}

func (t FieldType) valid() bool {
	return int(t) < len(registry)
}

func (t FieldType) String() string {
	if t.valid() {
		return registry[t].name
	}
	return "unknown"
}

// BitWidth returns the packed width in bits. It is 0 for string.
func (t FieldType) BitWidth() int {
	if t.valid() {
		return registry[t].bits
	}
	return 0
}

// ByteWidth returns BitWidth/8 for byte-oriented types, 0 otherwise.
func (t FieldType) ByteWidth() int {
	switch t.Class() {
	case ClassText, ClassBytes, ClassAddress:
		return t.BitWidth() / 8
	}
	return 0
}

func (t FieldType) Class() Class {
	if t.valid() {
		return registry[t].class
	}
	return ClassString
}

// Packable reports whether the type has a fixed-width packed form.
func (t FieldType) Packable() bool {
	return t.valid() && t != TypeString
}

func (t FieldType) Signed() bool {
	return t.Class() == ClassInt
}

// ParseFieldType resolves a type name such as "uint16" or "char32".
func ParseFieldType(name string) (FieldType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, info := range registry {
		if info.name == n {
			return FieldType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field type %q", name)
}

// FieldTypes returns every registered type in declaration order.
func FieldTypes() []FieldType {
	out := make([]FieldType, len(registry))
	for i := range registry {
		out[i] = FieldType(i)
	}
	return out
}

func (t FieldType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("invalid field type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
