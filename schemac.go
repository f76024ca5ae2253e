package schemac

import (
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/schemac/codec"
	"github.com/wippyai/schemac/errors"
	"github.com/wippyai/schemac/features"
	"github.com/wippyai/schemac/layout"
	"github.com/wippyai/schemac/refstore"
	"github.com/wippyai/schemac/schema"
)

// Artifact is everything an emitter needs to render a contract for one schema.
type Artifact struct {
	Schema    *schema.Schema
	Codec     *codec.Codec
	Plan      *features.Plan
	Manifest  *layout.Manifest
	Slots     []layout.Slot
	RefStores []refstore.Descriptor
	WordCount int
}

// Compile validates s and runs the full pipeline. On any error the artifact is nil.
func Compile(s *schema.Schema) (*Artifact, error) {
	if s == nil {
		return nil, errors.InvalidInput(errors.PhaseCompile, nil, "schema is nil")
	}
	log := Logger().With(zap.String("schema", s.Name))

	if err := s.Validate(); err != nil {
		return nil, err
	}

	plan, err := features.Resolve(s.Features, s.Facts())
	if err != nil {
		return nil, err
	}
	log.Debug("features resolved",
		zap.Int("mixins", len(plan.RequiredMixins)),
		zap.Int("collisions", len(plan.Collisions)))

	slots, err := layout.Compute(s.Fields)
	if err != nil {
		return nil, err
	}
	if err := layout.Verify(slots); err != nil {
		return nil, err
	}
	words := layout.WordCount(slots)
	log.Debug("layout computed", zap.Int("slots", len(slots)), zap.Int("words", words))

	c, err := codec.Compile(s.Fields, slots)
	if err != nil {
		return nil, err
	}

	dynamic := s.DynamicFields()
	stores := make([]refstore.Descriptor, 0, len(dynamic))
	for _, f := range dynamic {
		d, err := refstore.Design(f)
		if err != nil {
			return nil, err
		}
		stores = append(stores, d)
	}

	manifest, err := layout.NewManifest(s, slots)
	if err != nil {
		return nil, err
	}

	log.Info("schema compiled",
		zap.Int("fields", len(s.Fields)),
		zap.Int("words", words),
		zap.Int("refStores", len(stores)),
		zap.Stringers("features", plan.Features))

	return &Artifact{
		Schema:    s,
		Slots:     slots,
		WordCount: words,
		Codec:     c,
		Plan:      plan,
		RefStores: stores,
		Manifest:  manifest,
	}, nil
}

// CompileFile loads a YAML or JSON schema file and compiles it.
func CompileFile(path string) (*Artifact, error) {
	s, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(s)
}

// ManifestJSON returns the indented JSON form of the persisted field records.
func (a *Artifact) ManifestJSON() ([]byte, error) {
	return a.Manifest.JSON()
}

// WIT returns the decoded value shape as a WIT record.
func (a *Artifact) WIT() *wit.TypeDef {
	return codec.WITRecord(a.Schema.Fields)
}

// NewRefStore returns an empty store for the dynamic reference field key.
func (a *Artifact) NewRefStore(key string) (*refstore.Store, error) {
	for _, d := range a.RefStores {
		if d.FieldKey == key {
			return refstore.New(), nil
		}
	}
	return nil, errors.NotFound(errors.PhaseStore, "reference field", key)
}

// NewRegistry returns a registry holding one store per entity for every
// dynamic reference field of the schema.
func (a *Artifact) NewRegistry() *refstore.Registry {
	return refstore.NewRegistry(a.RefStores)
}
