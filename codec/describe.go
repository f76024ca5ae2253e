package codec

import (
	"github.com/wippyai/schemac/schema"
)

// Conversion names used by Op.
const (
	ConvBool    = "bool"
	ConvUint    = "uint"
	ConvInt     = "int-twos-complement"
	ConvText    = "text-right-padded"
	ConvBytes   = "bytes-right-padded"
	ConvAddress = "address"
	ConvRef     = "literef"
)

// Op is one pack/unpack step as a code emitter sees it: shift by Offset,
// mask with Mask, then apply Conversion.
type Op struct {
	Field      string `json:"field"`
	Conversion string `json:"conversion"`
	Mask       string `json:"mask"`
	Element    int    `json:"element"`
	Word       int    `json:"word"`
	Offset     int    `json:"offset"`
	Bits       int    `json:"bits"`
}

// Describe lists every element operation in layout order.
func (c *Codec) Describe() []Op {
	var ops []Op
	for _, p := range c.fields {
		conv := conversion(p.decl.Type)
		for i, e := range p.elems {
			ops = append(ops, Op{
				Field:      p.decl.Key,
				Element:    i,
				Word:       e.word,
				Offset:     int(e.offset),
				Bits:       e.bits,
				Conversion: conv,
				Mask:       e.mask.Hex(),
			})
		}
	}
	return ops
}

func conversion(ft schema.FieldType) string {
	switch ft.Class() {
	case schema.ClassBool:
		return ConvBool
	case schema.ClassUint:
		return ConvUint
	case schema.ClassInt:
		return ConvInt
	case schema.ClassText:
		return ConvText
	case schema.ClassBytes:
		return ConvBytes
	case schema.ClassAddress:
		return ConvAddress
	case schema.ClassRef:
		return ConvRef
	}
	return ""
}
