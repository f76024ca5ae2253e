// Package schemac compiles declarative storage schemas into bit-exact packed
// layouts, value codecs, reference store descriptors and capability plans.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	schemac/             Root package: Compile orchestrates the pipeline below
//	├── schema/          Field types, schema declarations, YAML/JSON loading
//	├── layout/          Bitstream layout compiler and persisted field records
//	├── codec/           Pack/unpack between Go values and 256-bit words
//	├── refstore/        Dynamic reference store, four 64-bit refs per word
//	├── features/        Feature resolution into mixins and symbol collisions
//	├── errors/          Structured error types for debugging
//	└── cmd/schemac/     Command-line inspector
//
// # Quick Start
//
// Compile a schema and pack some values:
//
//	s, err := schema.LoadFile("fighter.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	art, err := schemac.Compile(s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	words, err := art.Codec.Encode(map[string]any{"alive": true, "level": 3, ...})
//	values, err := art.Codec.Decode(words)
//
// # Pipeline
//
// Compile runs every stage in order and stops at the first failure:
//
//  1. schema.Validate collects every declaration problem
//  2. features.Resolve expands the feature selection into a Plan
//  3. layout.Compute assigns slots, layout.Verify checks them
//  4. codec.Compile binds the fields to their slots
//  5. refstore.Design describes one store per cardinality-0 literef field
//  6. layout.NewManifest produces the persisted field records
//
// No partial artifact is ever returned. A schema that fails any stage produces
// no layout, no codec and no manifest.
//
// # Error Handling
//
// All errors are *errors.Error (or *errors.ValidationError wrapping several)
// carrying a phase, a kind and the field path:
//
//	if errors.IsKind(err, errors.KindValueOutOfRange) {
//	    // caller supplied a value that does not fit its declared width
//	}
//
// # Logging
//
// Each package logs through zap and is silent by default. Attach a logger with
// the package's SetLogger before compiling.
package schemac
