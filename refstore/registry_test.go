package refstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/schemac/errors"
)

func testRegistry() *Registry {
	return NewRegistry([]Descriptor{{FieldKey: "gear", RefBits: RefBits, RefsPerWord: RefsPerWord}})
}

func TestRegistryOpen(t *testing.T) {
	r := testRegistry()

	a, err := r.Open("gear", 1)
	require.NoError(t, err)
	again, err := r.Open("gear", 1)
	require.NoError(t, err)
	assert.Same(t, a, again)

	b, err := r.Open("gear", 2)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())

	_, err = r.Open("hats", 1)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestRegistryLookupDrop(t *testing.T) {
	r := testRegistry()

	_, ok := r.Lookup("gear", 7)
	assert.False(t, ok)

	s, err := r.Open("gear", 7)
	require.NoError(t, err)
	require.NoError(t, s.Append(42))

	got, ok := r.Lookup("gear", 7)
	require.True(t, ok)
	assert.True(t, got.Contains(42))

	assert.True(t, r.Drop("gear", 7))
	assert.False(t, r.Drop("gear", 7))
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySnapshot(t *testing.T) {
	r := testRegistry()

	s, _ := r.Open("gear", 1)
	require.NoError(t, s.AppendBatch([]uint64{1, 2, 3, 4, 5}))
	_, _ = r.Open("gear", 2)

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	words := snap[Key{Field: "gear", Entity: 1}]
	require.Len(t, words, 2)

	loaded, err := Load(words)
	require.NoError(t, err)
	assert.Equal(t, s.All(), loaded.All())
}

func TestRegistryClose(t *testing.T) {
	r := testRegistry()
	_, _ = r.Open("gear", 1)

	r.Close()
	assert.Equal(t, 0, r.Len())

	_, err := r.Open("gear", 1)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestRegistryConcurrentOpen(t *testing.T) {
	r := testRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(entity uint64) {
			defer wg.Done()
			s, err := r.Open("gear", entity%4)
			if err == nil && s == nil {
				t.Error("nil store")
			}
		}(uint64(i))
	}
	wg.Wait()
	assert.Equal(t, 4, r.Len())
}
