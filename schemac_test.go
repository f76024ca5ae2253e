package schemac

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/features"
	"github.com/wippyai/schemac/schema"
)

func TestCompileFile(t *testing.T) {
	SetLogger(zaptest.NewLogger(t))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	art, err := CompileFile("testdata/fighter.yaml")
	require.NoError(t, err)

	assert.Equal(t, 5, art.WordCount)
	assert.Equal(t, art.WordCount, art.Codec.WordCount())
	assert.Len(t, art.Slots, 13)

	require.Len(t, art.RefStores, 1)
	assert.Equal(t, "gear", art.RefStores[0].FieldKey)
	assert.Equal(t, 4, art.RefStores[0].RefsPerWord)

	assert.True(t, art.Plan.Has(features.LiteRef))
	assert.Equal(t, []features.Feature{features.LiteRef}, art.Plan.AutoEnabled)
	assert.Equal(t, []features.Mixin{
		features.MixinMintable,
		features.MixinFragmentSingle,
		features.MixinPatch,
		features.MixinLiteRef,
		features.MixinDynamicRefLibrary,
	}, art.Plan.RequiredMixins)

	require.Len(t, art.Manifest.Entries, 9)
	gear := art.Manifest.Entries[8]
	assert.Equal(t, 0, gear.Cardinality)
	assert.Equal(t, 0, gear.WordIndex)
	mentor := art.Manifest.Entries[7]
	assert.Equal(t, 4, mentor.WordIndex)
	assert.Equal(t, 0, mentor.BitOffset)
}

func TestManifestMatchesSlots(t *testing.T) {
	art, err := CompileFile("testdata/fighter.yaml")
	require.NoError(t, err)

	first := map[string][2]int{}
	for _, s := range art.Slots {
		if s.ElementIndex == 0 {
			first[s.FieldKey] = [2]int{s.WordIndex, s.BitOffset}
		}
	}
	for _, e := range art.Manifest.Entries {
		if e.Cardinality == 0 {
			continue
		}
		assert.Equal(t, first[e.Key], [2]int{e.WordIndex, e.BitOffset}, e.Key)
	}

	data, err := art.ManifestJSON()
	require.NoError(t, err)
	var doc struct {
		Scope   string           `json:"scope"`
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "arena", doc.Scope)
	assert.Equal(t, "uint16", doc.Entries[2]["fieldType"])
	assert.Equal(t, float64(1), doc.Entries[3]["permissionId"])
}

func TestCompileEncodeDecode(t *testing.T) {
	art, err := CompileFile("testdata/fighter.yaml")
	require.NoError(t, err)

	in := map[string]any{
		"alive":   true,
		"level":   12,
		"stats":   []int{10, 20, 30, 40, 50, 60},
		"power":   "1000000000000000000000",
		"title":   "Champion",
		"holder":  "0x00000000000000000000000000000000000000aa",
		"balance": -42,
		"mentor":  7,
	}
	words, err := art.Codec.Encode(in)
	require.NoError(t, err)
	require.Len(t, words, art.WordCount)

	out, err := art.Codec.Decode(words)
	require.NoError(t, err)
	assert.Equal(t, true, out["alive"])
	assert.Equal(t, uint64(12), out["level"])
	assert.Equal(t, []any{uint64(10), uint64(20), uint64(30), uint64(40), uint64(50), uint64(60)}, out["stats"])
	assert.Equal(t, "Champion", out["title"])
	assert.Equal(t, in["holder"], out["holder"])
	assert.Equal(t, int64(-42), out["balance"])
	assert.Equal(t, uint64(7), out["mentor"])
}

func TestCompileRefStore(t *testing.T) {
	art, err := CompileFile("testdata/fighter.yaml")
	require.NoError(t, err)

	store, err := art.NewRefStore("gear")
	require.NoError(t, err)
	require.NoError(t, store.AppendBatch([]uint64{1, 2, 3, 4, 5}))
	assert.Equal(t, 5, store.Count())

	_, err = art.NewRefStore("mentor")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	reg := art.NewRegistry()
	defer reg.Close()
	perEntity, err := reg.Open("gear", 9)
	require.NoError(t, err)
	require.NoError(t, perEntity.Append(3))
	_, err = reg.Open("mentor", 9)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestCompileWIT(t *testing.T) {
	art, err := CompileFile("testdata/fighter.yaml")
	require.NoError(t, err)

	rec, ok := art.WIT().Kind.(*wit.Record)
	require.True(t, ok)
	assert.Len(t, rec.Fields, len(art.Schema.Fields))
}

func TestCompileBlocksArtifact(t *testing.T) {
	base := func() *schema.Schema {
		return &schema.Schema{
			Name: "T",
			Fields: []schema.FieldDeclaration{
				{ID: 0, Key: "a", Type: schema.TypeUint8, Cardinality: 1},
				{ID: 1, Key: "refs", Type: schema.TypeLiteRef, Cardinality: 0},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(s *schema.Schema)
		kind   errors.Kind
	}{
		{"invalid schema", func(s *schema.Schema) { s.Fields[0].Key = "mapping" }, errors.KindInvalidInput},
		{"incompatible features", func(s *schema.Schema) {
			s.Features = []features.Feature{features.LiteRef, features.WeakRef}
		}, errors.KindIncompatibleFeatures},
		{"unmet precondition", func(s *schema.Schema) {
			s.Fields = s.Fields[:1]
			s.Features = []features.Feature{features.DynamicRefLibrary}
		}, errors.KindUnmetPrecondition},
		{"string field", func(s *schema.Schema) {
			s.Fields = append(s.Fields, schema.FieldDeclaration{ID: 2, Key: "bio", Type: schema.TypeString, Cardinality: 1})
		}, errors.KindUnsupportedFieldType},
		{"oversized field", func(s *schema.Schema) { s.Fields[0].Type = schema.TypeChar64 }, errors.KindUnsupportedFieldType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			art, err := Compile(s)
			require.Error(t, err)
			assert.Nil(t, art)
			assert.True(t, errors.IsKind(err, tt.kind), "got %v", err)
		})
	}

	t.Run("nil schema", func(t *testing.T) {
		art, err := Compile(nil)
		assert.Nil(t, art)
		assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
	})
}

func TestCompileFileMissing(t *testing.T) {
	art, err := CompileFile("testdata/missing.yaml")
	assert.Nil(t, art)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}
