package codec

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/holiman/uint256"

	"github.com/wippyai/schemac/codec/internal/coerce"
	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/schema"
)

// Encode packs a complete set of field values into words.
// Every packed field must be present. Values for dynamic fields are ignored.
func (c *Codec) Encode(values map[string]any) ([]*uint256.Int, error) {
	unknown := make([]string, 0)
	for key := range values {
		if _, ok := c.byKey[key]; !ok && !c.dynamic[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.FieldUnknown(errors.PhaseEncode, unknown[0])
	}

	words := newWords(c.words)
	for _, p := range c.fields {
		v, ok := values[p.decl.Key]
		if !ok {
			return nil, errors.FieldMissing(errors.PhaseEncode, p.decl.Key)
		}
		if err := p.encode(words, v); err != nil {
			return nil, err
		}
	}
	return words, nil
}

// EncodeField writes one field into existing words. The field's bits are
// cleared first, so other fields sharing the words are preserved.
func (c *Codec) EncodeField(words []*uint256.Int, key string, value any) error {
	p, err := c.lookup(errors.PhaseEncode, key)
	if err != nil {
		return err
	}
	if err := c.checkWords(errors.PhaseEncode, words); err != nil {
		return err
	}

	// stage into copies so a bad element leaves words untouched
	staged := make([]*uint256.Int, len(words))
	for i, w := range words {
		staged[i] = new(uint256.Int).Set(w)
	}
	for _, e := range p.elems {
		keep := new(uint256.Int).Lsh(e.mask, e.offset)
		keep.Not(keep)
		staged[e.word].And(staged[e.word], keep)
	}
	if err := p.encode(staged, value); err != nil {
		return err
	}
	for i := range words {
		words[i].Set(staged[i])
	}
	return nil
}

func (p *fieldPlan) encode(words []*uint256.Int, value any) error {
	if p.scalar() {
		return p.encodeElement(words, 0, value)
	}

	items, ok := coerce.Slice(value)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, []string{p.decl.Key}, coerce.TypeName(value),
			fmt.Sprintf("%s[%d]", p.decl.Type, p.decl.Cardinality))
	}
	if len(items) != len(p.elems) {
		return errors.InvalidInput(errors.PhaseEncode, []string{p.decl.Key},
			fmt.Sprintf("array has %d elements, want %d", len(items), len(p.elems)))
	}
	for i, item := range items {
		if err := p.encodeElement(words, i, item); err != nil {
			return err
		}
	}
	return nil
}

func (p *fieldPlan) encodeElement(words []*uint256.Int, i int, value any) error {
	e := p.elems[i]
	pattern, err := toPattern(p.decl.Type, e.bits, p.path(i), value)
	if err != nil {
		return err
	}
	pattern.Lsh(pattern, e.offset)
	words[e.word].Or(words[e.word], pattern)
	return nil
}

// toPattern converts a value into its unshifted bit pattern of the given width.
func toPattern(ft schema.FieldType, bits int, path []string, value any) (*uint256.Int, error) {
	mismatch := func() error {
		return errors.TypeMismatch(errors.PhaseEncode, path, coerce.TypeName(value), ft.String())
	}
	outOfRange := func() error {
		return errors.OutOfRange(errors.PhaseEncode, path, value, ft.String())
	}

	switch ft.Class() {
	case schema.ClassBool:
		b, ok := coerce.Bool(value)
		if !ok {
			return nil, mismatch()
		}
		if b {
			return uint256.NewInt(1), nil
		}
		return new(uint256.Int), nil

	case schema.ClassUint, schema.ClassRef:
		n, ok := coerce.Integer(value)
		if !ok {
			return nil, mismatch()
		}
		if n.Sign() < 0 || n.BitLen() > bits {
			return nil, outOfRange()
		}
		u, _ := uint256.FromBig(n)
		return u, nil

	case schema.ClassInt:
		n, ok := coerce.Integer(value)
		if !ok {
			return nil, mismatch()
		}
		limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		minV := new(big.Int).Neg(limit)
		maxV := new(big.Int).Sub(limit, big.NewInt(1))
		if n.Cmp(minV) < 0 || n.Cmp(maxV) > 0 {
			return nil, outOfRange()
		}
		if n.Sign() < 0 {
			n.Add(n, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
		}
		u, _ := uint256.FromBig(n)
		return u, nil

	case schema.ClassText:
		raw, ok := coerce.Text(value)
		if !ok {
			return nil, mismatch()
		}
		return padded(raw, ft.ByteWidth(), outOfRange)

	case schema.ClassBytes:
		raw, ok := coerce.Bytes(value)
		if !ok {
			return nil, mismatch()
		}
		return padded(raw, ft.ByteWidth(), outOfRange)

	case schema.ClassAddress:
		addr, ok := coerce.Address(value)
		if !ok {
			if s, isText := value.(string); isText && len(strings.TrimPrefix(s, "0x")) > 2*coerce.AddressLen {
				return nil, outOfRange()
			}
			return nil, mismatch()
		}
		return new(uint256.Int).SetBytes(addr[:]), nil
	}

	return nil, errors.Unsupported(errors.PhaseEncode, path, ft.String(), "type has no packed form")
}

// padded right-pads raw with zeros to width bytes and reads it big-endian.
func padded(raw []byte, width int, outOfRange func() error) (*uint256.Int, error) {
	if len(raw) > width {
		return nil, outOfRange()
	}
	buf := make([]byte, width)
	copy(buf, raw)
	return new(uint256.Int).SetBytes(buf), nil
}
