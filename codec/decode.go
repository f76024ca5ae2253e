package codec

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"unicode"
	"unicode/utf8"

	"github.com/holiman/uint256"

	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/schema"
)

// Decode unpacks every packed field from words.
func (c *Codec) Decode(words []*uint256.Int) (map[string]any, error) {
	if err := c.checkWords(errors.PhaseDecode, words); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(c.fields))
	for _, p := range c.fields {
		out[p.decl.Key] = p.decode(words)
	}
	return out, nil
}

// DecodeField unpacks a single field.
func (c *Codec) DecodeField(words []*uint256.Int, key string) (any, error) {
	p, err := c.lookup(errors.PhaseDecode, key)
	if err != nil {
		return nil, err
	}
	if err := c.checkWords(errors.PhaseDecode, words); err != nil {
		return nil, err
	}
	return p.decode(words), nil
}

func (c *Codec) checkWords(phase errors.Phase, words []*uint256.Int) error {
	if len(words) != c.words {
		return errors.Inconsistent(phase, nil,
			fmt.Sprintf("got %d words, layout has %d", len(words), c.words))
	}
	for i, w := range words {
		if w == nil {
			return errors.InvalidInput(phase, nil, fmt.Sprintf("word %d is nil", i))
		}
	}
	return nil
}

func (p *fieldPlan) decode(words []*uint256.Int) any {
	if p.scalar() {
		return p.decodeElement(words, 0)
	}
	items := make([]any, len(p.elems))
	for i := range p.elems {
		items[i] = p.decodeElement(words, i)
	}
	return items
}

func (p *fieldPlan) decodeElement(words []*uint256.Int, i int) any {
	e := p.elems[i]
	v := new(uint256.Int).Rsh(words[e.word], e.offset)
	v.And(v, e.mask)
	return fromPattern(p.decl.Type, e.bits, v)
}

// fromPattern converts an unshifted bit pattern into its decoded Go value.
func fromPattern(ft schema.FieldType, bits int, v *uint256.Int) any {
	switch ft.Class() {
	case schema.ClassBool:
		return !v.IsZero()

	case schema.ClassUint:
		if bits <= 64 {
			return v.Uint64()
		}
		return v.ToBig()

	case schema.ClassInt:
		n := v.ToBig()
		if n.Bit(bits-1) == 1 {
			n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
		}
		if bits <= 64 {
			return n.Int64()
		}
		return n

	case schema.ClassText, schema.ClassBytes:
		buf := v.Bytes32()
		raw := buf[32-ft.ByteWidth():]
		return renderBytes(bytes.TrimRight(raw, "\x00"))

	case schema.ClassAddress:
		addr := v.Bytes20()
		return "0x" + hex.EncodeToString(addr[:])

	case schema.ClassRef:
		return v.Uint64()
	}
	return nil
}

// renderBytes returns raw as text when it is clean UTF-8, otherwise as 0x hex.
func renderBytes(raw []byte) string {
	if isCleanText(raw) {
		return string(raw)
	}
	return "0x" + hex.EncodeToString(raw)
}

func isCleanText(raw []byte) bool {
	if !utf8.Valid(raw) {
		return false
	}
	for _, r := range string(raw) {
		if r == utf8.RuneError || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
