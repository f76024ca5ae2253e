// Package refstore implements the dynamic reference store: one entity's list
// of 64-bit references, packed four per 256-bit word.
//
//	word 0: [ r0 | r1 | r2 | r3 ]   sub-position j sits at bits [64j, 64j+64)
//	word 1: [ r4 | 0  | 0  | 0  ]   only the last word may be partial
//
// Append and Remove are O(1). Remove moves the last reference into the hole it
// leaves, so after a removal the physical order no longer matches append order:
//
//	append A B C D E  ->  [A B C D] [E]
//	remove B          ->  [A E C D]
//
// This reordering is part of the store's contract. Readers must not assume
// append order once any reference has been removed.
//
// Zero marks an empty sub-position and is never a valid reference. A reference
// may appear at most once.
//
// A Store is not safe for concurrent mutation; the owner serializes writes.
// Registry keeps one Store per (field, entity) and guards only its own map.
package refstore
