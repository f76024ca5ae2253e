// Package layout computes the bit-exact storage layout of a schema.
//
// Every element of every static field is assigned a (word, offset, length)
// triple by a single cursor that walks the fields in declaration order:
//
//	word 0                                 word 1
//	┌──────┬─────────┬──────────────┐      ┌──────────────────────┐
//	│ bool │ uint8[2]│   (padding)  │      │       uint256        │
//	└──────┴─────────┴──────────────┘      └──────────────────────┘
//	 0      1         17            256     0                    256
//
// # Layout Rules
//
//   - The cursor is continuous across field boundaries.
//   - An element that does not fit in the rest of the current word moves the
//     cursor to offset 0 of the next word. Elements are never split.
//   - Reaching exactly 256 bits rolls the cursor to the next word.
//   - Cardinality-0 fields are skipped; they live in a dynamic reference store.
//   - string has no packed form and fails the computation.
//
// Field order is part of the storage contract. Compute never sorts fields, and
// reordering them produces a different layout.
//
// # Persisted Records
//
// Records flattens the layout into one entry per field. Any reader of packed
// words needs exactly this information to decode them.
package layout
