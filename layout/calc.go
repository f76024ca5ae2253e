package layout

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/schema"
)

// WordBits is the width of one storage word.
const WordBits = 256

// Slot is the placement of one scalar element.
type Slot struct {
	FieldKey     string `json:"key"`
	FieldID      int    `json:"fieldId"`
	ElementIndex int    `json:"element"`
	WordIndex    int    `json:"wordIndex"`
	BitOffset    int    `json:"bitOffset"`
	BitLength    int    `json:"bitLength"`
}

// Start returns the absolute bit position of the slot.
func (s Slot) Start() int {
	return s.WordIndex*WordBits + s.BitOffset
}

// End returns the absolute bit position one past the slot.
func (s Slot) End() int {
	return s.Start() + s.BitLength
}

func (s Slot) String() string {
	return fmt.Sprintf("%s[%d]@%d:%d+%d", s.FieldKey, s.ElementIndex, s.WordIndex, s.BitOffset, s.BitLength)
}

// cursor is the fold accumulator threaded through Compute.
type cursor struct {
	word   int
	offset int
}

// place returns where an element of the given width lands and the cursor after it.
func (c cursor) place(width int) (at, next cursor) {
	if c.offset+width > WordBits {
		c = cursor{word: c.word + 1}
	}
	at = c
	c.offset += width
	if c.offset == WordBits {
		c = cursor{word: c.word + 1}
	}
	return at, c
}

// Compute assigns a slot to every element of every static field.
// The result is a pure function of the field order.
func Compute(fields []schema.FieldDeclaration) ([]Slot, error) {
	var cur cursor
	slots := make([]Slot, 0, len(fields))

	for _, f := range fields {
		if f.Cardinality < 0 {
			return nil, errors.InvalidInput(errors.PhaseLayout, []string{f.Key},
				fmt.Sprintf("cardinality %d is negative", f.Cardinality))
		}
		if f.Dynamic() {
			continue
		}
		if !f.Type.Packable() {
			return nil, errors.Unsupported(errors.PhaseLayout, []string{f.Key}, f.Type.String(),
				"type has no fixed-width packed form")
		}
		width := f.Type.BitWidth()
		if width > WordBits {
			return nil, errors.Unsupported(errors.PhaseLayout, []string{f.Key}, f.Type.String(),
				fmt.Sprintf("width %d exceeds word width %d", width, WordBits))
		}

		for e := 0; e < f.Cardinality; e++ {
			var at cursor
			at, cur = cur.place(width)
			slots = append(slots, Slot{
				FieldID:      f.ID,
				FieldKey:     f.Key,
				ElementIndex: e,
				WordIndex:    at.word,
				BitOffset:    at.offset,
				BitLength:    width,
			})
		}
	}

	return slots, nil
}

// WordCount returns the number of words the slots occupy.
func WordCount(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.WordIndex+1 > n {
			n = s.WordIndex + 1
		}
	}
	return n
}

// Verify checks that every slot fits in one word and no two slots overlap.
func Verify(slots []Slot) error {
	for _, s := range slots {
		if s.BitLength <= 0 || s.BitOffset < 0 || s.WordIndex < 0 || s.BitOffset+s.BitLength > WordBits {
			return errors.Inconsistent(errors.PhaseLayout, []string{s.FieldKey, strconv.Itoa(s.ElementIndex)},
				fmt.Sprintf("slot %s does not fit in a single word", s))
		}
	}

	sorted := make([]Slot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start() < sorted[j].Start() })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Start() < prev.End() {
			return errors.Inconsistent(errors.PhaseLayout, []string{cur.FieldKey, strconv.Itoa(cur.ElementIndex)},
				fmt.Sprintf("slot %s overlaps %s", cur, prev))
		}
	}
	return nil
}
