package codec

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/layout"
	"github.com/wippyai/schemac/schema"
)

// element is one compiled slot.
type element struct {
	mask   *uint256.Int // unshifted, width bits set
	word   int
	offset uint
	bits   int
}

type fieldPlan struct {
	decl  schema.FieldDeclaration
	elems []element
}

// scalar reports whether values for the field are single values, not arrays.
func (p *fieldPlan) scalar() bool {
	return p.decl.Cardinality == 1
}

func (p *fieldPlan) path(i int) []string {
	if p.scalar() {
		return []string{p.decl.Key}
	}
	return []string{p.decl.Key, "[" + strconv.Itoa(i) + "]"}
}

// Codec converts between field values and packed words.
type Codec struct {
	byKey   map[string]*fieldPlan
	dynamic map[string]bool
	fields  []*fieldPlan
	words   int
}

// Compile binds a field list to its layout. The slots must be exactly what
// layout.Compute produced for the same fields.
func Compile(fields []schema.FieldDeclaration, slots []layout.Slot) (*Codec, error) {
	for _, f := range fields {
		if f.Type == schema.TypeString {
			return nil, errors.Unsupported(errors.PhaseCompile, []string{f.Key}, f.Type.String(),
				"string fields have no packed form")
		}
	}
	if err := layout.Verify(slots); err != nil {
		return nil, err
	}

	c := &Codec{
		byKey:   make(map[string]*fieldPlan, len(fields)),
		dynamic: make(map[string]bool),
		words:   layout.WordCount(slots),
	}

	next := 0
	for _, f := range fields {
		if f.Dynamic() {
			c.dynamic[f.Key] = true
			continue
		}
		width := f.Type.BitWidth()
		plan := &fieldPlan{decl: f, elems: make([]element, 0, f.Cardinality)}
		for e := 0; e < f.Cardinality; e++ {
			if next >= len(slots) {
				return nil, errors.Inconsistent(errors.PhaseCompile, []string{f.Key},
					fmt.Sprintf("layout ends before element %d", e))
			}
			s := slots[next]
			if s.FieldID != f.ID || s.ElementIndex != e || s.BitLength != width {
				return nil, errors.Inconsistent(errors.PhaseCompile, []string{f.Key},
					fmt.Sprintf("slot %s does not match element %d of %s", s, e, f.Type))
			}
			plan.elems = append(plan.elems, element{
				word:   s.WordIndex,
				offset: uint(s.BitOffset),
				bits:   width,
				mask:   widthMask(width),
			})
			next++
		}
		c.fields = append(c.fields, plan)
		c.byKey[f.Key] = plan
	}
	if next != len(slots) {
		return nil, errors.Inconsistent(errors.PhaseCompile, nil,
			fmt.Sprintf("layout has %d slots, fields need %d", len(slots), next))
	}

	Logger().Debug("codec compiled",
		zap.Int("fields", len(c.fields)),
		zap.Int("slots", len(slots)),
		zap.Int("words", c.words))
	return c, nil
}

// WordCount returns the number of words Encode produces and Decode expects.
func (c *Codec) WordCount() int {
	return c.words
}

// Fields returns the packed field keys in declaration order.
func (c *Codec) Fields() []string {
	keys := make([]string, len(c.fields))
	for i, p := range c.fields {
		keys[i] = p.decl.Key
	}
	return keys
}

func (c *Codec) lookup(phase errors.Phase, key string) (*fieldPlan, error) {
	p, ok := c.byKey[key]
	if !ok {
		return nil, errors.FieldUnknown(phase, key)
	}
	return p, nil
}

func widthMask(bits int) *uint256.Int {
	if bits >= layout.WordBits {
		return new(uint256.Int).Not(new(uint256.Int))
	}
	m := new(uint256.Int).Lsh(uint256.NewInt(1), uint(bits))
	return m.Sub(m, uint256.NewInt(1))
}

func newWords(n int) []*uint256.Int {
	words := make([]*uint256.Int, n)
	for i := range words {
		words[i] = new(uint256.Int)
	}
	return words
}
