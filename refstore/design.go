package refstore

import (
	"fmt"

	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/schema"
)

// Operations lists the store operations a generated contract exposes, in the
// order an emitter renders them.
var Operations = []string{"append", "appendBatch", "remove", "count", "pageRead", "readAt"}

// Descriptor is the emitter-facing description of one dynamic reference field's store.
type Descriptor struct {
	FieldKey    string   `json:"fieldKey"`
	Operations  []string `json:"operations"`
	FieldID     int      `json:"fieldId"`
	RefBits     int      `json:"refBits"`
	RefsPerWord int      `json:"refsPerWord"`
}

// Design describes the store backing a cardinality-0 literef field.
func Design(f schema.FieldDeclaration) (Descriptor, error) {
	if f.Type != schema.TypeLiteRef || !f.Dynamic() {
		return Descriptor{}, errors.New(errors.PhaseStore, errors.KindInvalidInput).
			Path(f.Key).
			FieldType(f.Type.String()).
			Detail("reference store needs a literef field with cardinality 0, got cardinality %d", f.Cardinality).
			Build()
	}
	ops := make([]string, len(Operations))
	copy(ops, Operations)
	return Descriptor{
		FieldKey:    f.Key,
		FieldID:     f.ID,
		RefBits:     RefBits,
		RefsPerWord: RefsPerWord,
		Operations:  ops,
	}, nil
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s: %d x uint%d per word", d.FieldKey, d.RefsPerWord, d.RefBits)
}
