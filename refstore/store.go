package refstore

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"

	"github.com/wippyai/schemac/errors"
)

const (
	// RefBits is the width of one reference.
	RefBits = 64
	// RefsPerWord is the number of references packed into one word.
	RefsPerWord = 4
)

// Word is one packed storage word. Element j is sub-position j.
type Word [RefsPerWord]uint64

// Store is one entity's packed reference list. The zero value is an empty store.
type Store struct {
	index map[uint64]int // ref -> absolute position
	words []Word
	count int
}

// New returns an empty store.
func New() *Store {
	return &Store{index: make(map[uint64]int)}
}

// Count returns the number of references held.
func (s *Store) Count() int {
	if len(s.words) == 0 {
		return 0
	}
	return RefsPerWord*(len(s.words)-1) + occupancy(s.words[len(s.words)-1])
}

// Len returns the number of words in use.
func (s *Store) Len() int {
	return len(s.words)
}

func occupancy(w Word) int {
	n := 0
	for n < RefsPerWord && w[n] != 0 {
		n++
	}
	return n
}

func (s *Store) at(pos int) uint64 {
	return s.words[pos/RefsPerWord][pos%RefsPerWord]
}

func (s *Store) set(pos int, ref uint64) {
	s.words[pos/RefsPerWord][pos%RefsPerWord] = ref
}

func (s *Store) check(ref uint64) error {
	if ref == 0 {
		return errors.InvalidInput(errors.PhaseStore, nil, "reference 0 is reserved for empty slots")
	}
	if _, dup := s.index[ref]; dup {
		return errors.New(errors.PhaseStore, errors.KindInvalidInput).
			Value(ref).
			Detail("reference %d is already present", ref).
			Build()
	}
	return nil
}

// Append adds ref at the next free sub-position, starting a new word when the
// last one is full.
func (s *Store) Append(ref uint64) error {
	if err := s.check(ref); err != nil {
		return err
	}
	if s.index == nil {
		s.index = make(map[uint64]int)
	}
	pos := s.count
	if pos%RefsPerWord == 0 {
		s.words = append(s.words, Word{})
	}
	s.set(pos, ref)
	s.index[ref] = pos
	s.count++
	return nil
}

// AppendBatch fills an empty store with refs in order. It is equivalent to
// calling Append for each ref.
func (s *Store) AppendBatch(refs []uint64) error {
	if s.count > 0 {
		return errors.AlreadyPopulated(errors.PhaseStore, s.count)
	}

	seen := make(map[uint64]int, len(refs))
	for i, ref := range refs {
		if ref == 0 {
			return errors.InvalidInput(errors.PhaseStore, []string{strconv.Itoa(i)}, "reference 0 is reserved for empty slots")
		}
		if j, dup := seen[ref]; dup {
			return errors.InvalidInput(errors.PhaseStore, []string{strconv.Itoa(i)},
				fmt.Sprintf("reference %d repeats position %d", ref, j))
		}
		seen[ref] = i
	}

	words := make([]Word, (len(refs)+RefsPerWord-1)/RefsPerWord)
	for i, ref := range refs {
		words[i/RefsPerWord][i%RefsPerWord] = ref
	}
	s.words = words
	s.index = seen
	s.count = len(refs)
	return nil
}

// Remove deletes ref by moving the last reference into its position.
// Only the former last reference changes position.
func (s *Store) Remove(ref uint64) error {
	pos, ok := s.index[ref]
	if !ok {
		return errors.NotFound(errors.PhaseStore, "reference", ref)
	}

	last := s.count - 1
	if pos != last {
		moved := s.at(last)
		s.set(pos, moved)
		s.index[moved] = pos
	}
	s.set(last, 0)
	delete(s.index, ref)
	s.count--
	if s.count%RefsPerWord == 0 {
		s.words = s.words[:len(s.words)-1]
	}
	return nil
}

// ReadAt returns the reference at logical position index.
func (s *Store) ReadAt(index int) (uint64, error) {
	if index < 0 || index >= s.count {
		return 0, errors.OutOfBounds(errors.PhaseStore, nil, index, s.count)
	}
	return s.at(index), nil
}

// PageRead returns up to limit references starting at offset in physical order.
// The result is empty when offset is past the end.
func (s *Store) PageRead(offset, limit int) []uint64 {
	if offset < 0 || offset >= s.count || limit <= 0 {
		return []uint64{}
	}
	if rest := s.count - offset; limit > rest {
		limit = rest
	}
	out := make([]uint64, limit)
	for i := range out {
		out[i] = s.at(offset + i)
	}
	return out
}

// All returns every reference in physical order.
func (s *Store) All() []uint64 {
	return s.PageRead(0, s.count)
}

// Contains reports whether ref is present.
func (s *Store) Contains(ref uint64) bool {
	_, ok := s.index[ref]
	return ok
}

// WordOf returns the index of the word currently holding ref.
func (s *Store) WordOf(ref uint64) (int, bool) {
	pos, ok := s.index[ref]
	if !ok {
		return 0, false
	}
	return pos / RefsPerWord, true
}

// Words returns a snapshot of the packed words in storage form.
func (s *Store) Words() []*uint256.Int {
	out := make([]*uint256.Int, len(s.words))
	for i, w := range s.words {
		u := uint256.Int(w)
		out[i] = &u
	}
	return out
}

// Load rebuilds a store from a Words snapshot.
func Load(words []*uint256.Int) (*Store, error) {
	s := New()
	for i, u := range words {
		if u == nil {
			return nil, errors.InvalidInput(errors.PhaseStore, []string{strconv.Itoa(i)}, "word is nil")
		}
		w := Word(*u)
		n := occupancy(w)
		for j := n; j < RefsPerWord; j++ {
			if w[j] != 0 {
				return nil, errors.Inconsistent(errors.PhaseStore, []string{strconv.Itoa(i)},
					fmt.Sprintf("sub-position %d is set after an empty slot", j))
			}
		}
		if n == 0 {
			return nil, errors.Inconsistent(errors.PhaseStore, []string{strconv.Itoa(i)}, "word is empty")
		}
		if n < RefsPerWord && i != len(words)-1 {
			return nil, errors.Inconsistent(errors.PhaseStore, []string{strconv.Itoa(i)},
				"only the last word may be partial")
		}
		for j := 0; j < n; j++ {
			if err := s.Append(w[j]); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	c := &Store{
		index: make(map[uint64]int, len(s.index)),
		words: make([]Word, len(s.words)),
		count: s.count,
	}
	copy(c.words, s.words)
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}
