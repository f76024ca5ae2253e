// Package codec packs schema values into 256-bit storage words and unpacks them.
//
// A Codec is compiled once from a field list and its layout. It is immutable
// afterwards and safe for concurrent use.
//
//	slots, _ := layout.Compute(fields)
//	c, _ := codec.Compile(fields, slots)
//	words, _ := c.Encode(map[string]any{"alive": true, "power": 9000})
//	values, _ := c.Decode(words)
//
// # Bit Conventions
//
// An element of width w at offset o occupies bits [o, o+w) of its word, bit 0
// being the least significant. Encoding ORs (pattern << o) into the word;
// decoding computes (word >> o) & (2^w - 1).
//
//   - bool packs as one bit.
//   - Signed integers pack as w-bit two's complement and are sign-extended on decode.
//   - char and bytes pack big-endian, right-padded with zeros to the type width.
//     Decoding strips trailing NULs. Data that is not clean text decodes as 0x hex.
//   - address packs its 20 bytes big-endian and decodes as 0x plus 40 lowercase hex digits.
//   - literef packs as an unsigned 64-bit value.
//
// # Decoded Go Types
//
//	bool              bool
//	uint8..uint64     uint64
//	uint128, uint256  *big.Int
//	int8..int64       int64
//	int128, int256    *big.Int
//	charN, bytesN     string
//	address           string
//	literef           uint64
//	arrays            []any
//
// Cardinality-0 fields are not packed; their values live in a refstore.Store
// and are ignored by Encode.
package codec
