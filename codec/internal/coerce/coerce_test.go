package coerce

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func TestInteger(t *testing.T) {
	huge, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)

	tests := []struct {
		input  any
		name   string
		want   string
		wantOK bool
	}{
		{int(-7), "int", "-7", true},
		{int8(-128), "int8 min", "-128", true},
		{uint8(255), "uint8 max", "255", true},
		{uint64(math.MaxUint64), "uint64 max", "18446744073709551615", true},
		{int64(math.MinInt64), "int64 min", "-9223372036854775808", true},

		// float64 (JSON numbers)
		{float64(42), "float64 integral", "42", true},
		{float64(-3), "float64 negative", "-3", true},
		{float64(3.5), "float64 fractional", "", false},
		{math.NaN(), "float64 nan", "", false},
		{math.Inf(1), "float64 inf", "", false},
		{float32(8), "float32 integral", "8", true},

		{huge, "big max uint256", huge.String(), true},
		{uint256.NewInt(99), "uint256", "99", true},
		{json.Number("12"), "json number", "12", true},
		{"1000", "decimal string", "1000", true},
		{"-0x10", "negative hex string", "-16", true},
		{"0xff", "hex string", "255", true},
		{" 5 ", "padded string", "5", true},
		{"12abc", "garbage string", "", false},
		{"", "empty string", "", false},
		{(*big.Int)(nil), "nil big", "", false},
		{true, "bool", "", false},
		{nil, "nil", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Integer(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Integer(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("Integer(%v) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestIntegerCopies(t *testing.T) {
	in := big.NewInt(5)
	out, _ := Integer(in)
	out.SetInt64(6)
	if in.Int64() != 5 {
		t.Error("Integer must not alias its *big.Int input")
	}
}

func TestBytes(t *testing.T) {
	tests := []struct {
		input  any
		name   string
		want   []byte
		wantOK bool
	}{
		{[]byte{1, 2}, "slice", []byte{1, 2}, true},
		{"0x0102", "hex", []byte{1, 2}, true},
		{"0x102", "odd hex", []byte{1, 2}, true},
		{"0xzz", "bad hex", nil, false},
		{"ab", "plain", []byte("ab"), true},
		{42, "int", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Bytes(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && string(got) != string(tt.want) {
				t.Errorf("got %x, want %x", got, tt.want)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	var full [AddressLen]byte
	full[0] = 0xab
	full[19] = 0x01

	tests := []struct {
		input  any
		name   string
		last   byte
		wantOK bool
	}{
		{"0x00000000000000000000000000000000000000ff", "full hex", 0xff, true},
		{"ff", "short hex", 0xff, true},
		{"0x1", "odd hex", 0x01, true},
		{full, "array", 0x01, true},
		{[]byte{0x02}, "short slice", 0x02, true},
		{make([]byte, 21), "long slice", 0, false},
		{big.NewInt(7), "big", 0x07, true},
		{big.NewInt(-1), "negative big", 0, false},
		{"0x1" + strings.Repeat("0", 40), "too many digits", 0, false},
		{"", "empty", 0, false},
		{"0xgg", "bad hex", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Address(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got[19] != tt.last {
				t.Errorf("last byte = %#x, want %#x", got[19], tt.last)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	if s, ok := Slice([]int{1, 2, 3}); !ok || len(s) != 3 || s[2] != 3 {
		t.Errorf("Slice([]int) = %v, %v", s, ok)
	}
	if s, ok := Slice([2]string{"a", "b"}); !ok || s[1] != "b" {
		t.Errorf("Slice([2]string) = %v, %v", s, ok)
	}
	if _, ok := Slice(5); ok {
		t.Error("Slice(int) should fail")
	}
	if _, ok := Slice(nil); ok {
		t.Error("Slice(nil) should fail")
	}
}

func TestTypeName(t *testing.T) {
	if TypeName(nil) != "nil" {
		t.Errorf("TypeName(nil) = %s", TypeName(nil))
	}
	if TypeName(uint8(1)) != "uint8" {
		t.Errorf("TypeName(uint8) = %s", TypeName(uint8(1)))
	}
}
