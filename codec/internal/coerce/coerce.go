package coerce

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/holiman/uint256"
)

// AddressLen is the byte width of an address.
const AddressLen = 20

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

func Bool(value any) (bool, bool) {
	v, ok := value.(bool)
	return v, ok
}

// Integer returns a fresh *big.Int for any integral input.
// Strings are parsed as decimal, or as hex with a 0x prefix.
func Integer(value any) (*big.Int, bool) {
	switch v := value.(type) {
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return new(big.Int).Set(v), true
	case *uint256.Int:
		if v == nil {
			return nil, false
		}
		return v.ToBig(), true
	case json.Number:
		return parseInteger(string(v))
	case string:
		return parseInteger(v)
	}
	return nil, false
}

func fromFloat(v float64) (*big.Int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return nil, false
	}
	b, _ := new(big.Float).SetFloat64(v).Int(nil)
	return b, true
}

func parseInteger(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	base := 10
	digits := s
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, false
	}
	if neg {
		b.Neg(b)
	}
	return b, true
}

// Text accepts a string or a byte slice.
func Text(value any) ([]byte, bool) {
	switch v := value.(type) {
	case string:
		return []byte(v), true
	case []byte:
		return v, true
	}
	return nil, false
}

// Bytes accepts a byte slice, a 0x-prefixed hex string taken as raw bytes,
// or any other string taken as its UTF-8 encoding.
func Bytes(value any) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		if h, ok := strings.CutPrefix(v, "0x"); ok {
			if len(h)%2 == 1 {
				h = "0" + h
			}
			b, err := hex.DecodeString(h)
			if err != nil {
				return nil, false
			}
			return b, true
		}
		return []byte(v), true
	}
	return nil, false
}

// Address accepts a hex string with an optional 0x prefix, a [20]byte,
// a byte slice of at most 20 bytes, or a non-negative *big.Int below 2^160.
// Short forms are left-padded with zeros.
func Address(value any) ([AddressLen]byte, bool) {
	var out [AddressLen]byte
	switch v := value.(type) {
	case [AddressLen]byte:
		return v, true
	case []byte:
		if len(v) > AddressLen {
			return out, false
		}
		copy(out[AddressLen-len(v):], v)
		return out, true
	case string:
		h := strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
		if h == "" || len(h) > 2*AddressLen {
			return out, false
		}
		if len(h)%2 == 1 {
			h = "0" + h
		}
		b, err := hex.DecodeString(h)
		if err != nil {
			return out, false
		}
		copy(out[AddressLen-len(b):], b)
		return out, true
	case *big.Int:
		if v == nil || v.Sign() < 0 || v.BitLen() > 8*AddressLen {
			return out, false
		}
		v.FillBytes(out[:])
		return out, true
	}
	return out, false
}

// Slice returns the elements of any slice or array value.
func Slice(value any) ([]any, bool) {
	if s, ok := value.([]any); ok {
		return s, true
	}
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
