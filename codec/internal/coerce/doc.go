// Package coerce converts loosely typed Go values into the canonical forms the
// codec packs: *big.Int for integers, byte slices for text and bytes, and
// 20-byte arrays for addresses.
//
// Inputs arrive from JSON, YAML and Go callers alike, so every helper accepts
// the full set of native numeric kinds plus float64 holding an integral value.
//
// This package is internal to the codec.
package coerce
