package encoding

import (
	"bytes"
	"errors"
	"math"
	"sort"
	"testing"
)

func TestVarint64RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 300, 1 << 21, 1<<35 + 7, math.MaxUint32, math.MaxUint64}
	for _, v := range values {
		buf := AppendVarint64(nil, v)
		if len(buf) != VarintLength(v) {
			t.Errorf("len(AppendVarint64(%d)) = %d, want %d", v, len(buf), VarintLength(v))
		}
		got, n, err := DecodeVarint64(buf)
		if err != nil {
			t.Fatalf("DecodeVarint64(%d): %v", v, err)
		}
		if got != v || n != len(buf) {
			t.Errorf("DecodeVarint64 = (%d, %d), want (%d, %d)", got, n, v, len(buf))
		}
	}
}

func TestDecodeVarint64Truncated(t *testing.T) {
	buf := AppendVarint64(nil, 1<<40)
	_, _, err := DecodeVarint64(buf[:len(buf)-1])
	if !errors.Is(err, ErrVarintTermination) {
		t.Errorf("err = %v, want ErrVarintTermination", err)
	}
}

func TestDecodeVarint64Overflow(t *testing.T) {
	buf := bytes.Repeat([]byte{0xff}, MaxVarint64Length)
	buf = append(buf, 0x01)
	_, _, err := DecodeVarint64(buf)
	if !errors.Is(err, ErrVarintOverflow) {
		t.Errorf("err = %v, want ErrVarintOverflow", err)
	}
}

func TestZigzag(t *testing.T) {
	tests := []struct {
		in   int64
		want uint64
	}{
		{0, 0}, {-1, 1}, {1, 2}, {-2, 3}, {math.MaxInt64, math.MaxUint64 - 1}, {math.MinInt64, math.MaxUint64},
	}
	for _, tt := range tests {
		if got := I64ToZigzag(tt.in); got != tt.want {
			t.Errorf("I64ToZigzag(%d) = %d, want %d", tt.in, got, tt.want)
		}
		if got := ZigzagToI64(tt.want); got != tt.in {
			t.Errorf("ZigzagToI64(%d) = %d, want %d", tt.want, got, tt.in)
		}
	}
}

func TestSliceSequentialReads(t *testing.T) {
	var buf []byte
	buf = AppendLengthPrefixedSlice(buf, []byte("field"))
	buf = AppendVarsignedint64(buf, -42)
	buf = AppendVarint64(buf, 7)

	s := NewSlice(buf)
	name, ok := s.GetLengthPrefixedSlice()
	if !ok || string(name) != "field" {
		t.Fatalf("GetLengthPrefixedSlice = (%q, %v), want (\"field\", true)", name, ok)
	}
	v, ok := s.GetVarsignedint64()
	if !ok || v != -42 {
		t.Fatalf("GetVarsignedint64 = (%d, %v), want (-42, true)", v, ok)
	}
	u, ok := s.GetVarint64()
	if !ok || u != 7 {
		t.Fatalf("GetVarint64 = (%d, %v), want (7, true)", u, ok)
	}
	if s.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", s.Remaining())
	}
	if _, ok := s.GetBytes(1); ok {
		t.Error("GetBytes past end should fail")
	}
}

func TestSliceLengthPrefixTooLong(t *testing.T) {
	buf := AppendVarint64(nil, 10)
	buf = append(buf, "abc"...)
	if _, ok := NewSlice(buf).GetLengthPrefixedSlice(); ok {
		t.Error("GetLengthPrefixedSlice should fail when length exceeds buffer")
	}
}

// Contract: bytewise order of ordered encodings equals numeric order.
func TestOrderedInt64PreservesOrder(t *testing.T) {
	values := []int64{math.MinInt64, -1100, -1, 0, 1, 10, 11, 1099, 1100, math.MaxInt64}
	encoded := make([][]byte, len(values))
	for i, v := range values {
		encoded[i] = AppendOrderedInt64(nil, v)
		if got := DecodeOrderedInt64(encoded[i]); got != v {
			t.Errorf("DecodeOrderedInt64 = %d, want %d", got, v)
		}
	}
	if !sort.SliceIsSorted(encoded, func(i, j int) bool { return bytes.Compare(encoded[i], encoded[j]) < 0 }) {
		t.Error("ordered encodings are not sorted bytewise")
	}
}

func TestOrderedStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "ab", "a\x00b", "\x00"} {
		buf := AppendOrderedString(nil, s)
		buf = append(buf, 0xAA)
		got, n, err := DecodeOrderedString(buf)
		if err != nil {
			t.Fatalf("DecodeOrderedString(%q): %v", s, err)
		}
		if got != s || n != len(buf)-1 {
			t.Errorf("DecodeOrderedString = (%q, %d), want (%q, %d)", got, n, s, len(buf)-1)
		}
	}
}

// Contract: a shorter field name never sorts inside the key range of a longer one.
func TestOrderedStringNoPrefixOverlap(t *testing.T) {
	a := AppendOrderedInt64(AppendOrderedString(nil, "a"), math.MaxInt64)
	ab := AppendOrderedInt64(AppendOrderedString(nil, "ab"), math.MinInt64)
	if bytes.Compare(a, ab) >= 0 {
		t.Error("keys of field \"a\" should sort before keys of field \"ab\"")
	}
}

func TestDecodeOrderedStringErrors(t *testing.T) {
	if _, _, err := DecodeOrderedString([]byte("abc")); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("unterminated: err = %v, want ErrBufferTooSmall", err)
	}
	if _, _, err := DecodeOrderedString([]byte{'a', 0x00, 0x05}); !errors.Is(err, ErrInvalidEscape) {
		t.Errorf("bad escape: err = %v, want ErrInvalidEscape", err)
	}
}
