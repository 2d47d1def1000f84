// Package encoding provides the binary primitives used by the document store's
// record and index-key formats.
//
// Record bodies use varints (7-bit groups with MSB continuation) and zigzag
// for signed values. Index keys use order-preserving fixed-width encodings so
// that bytewise comparison of two keys matches the comparison of the values
// they were built from.
package encoding

import (
	"encoding/binary"
	"errors"
)

// MaxVarint32Length is the maximum number of bytes a varint32 can occupy.
const MaxVarint32Length = 5

// MaxVarint64Length is the maximum number of bytes a varint64 can occupy.
const MaxVarint64Length = 10

var (
	// ErrBufferTooSmall is returned when the buffer doesn't have enough space.
	ErrBufferTooSmall = errors.New("encoding: buffer too small")

	// ErrVarintOverflow is returned when a varint exceeds the maximum value.
	ErrVarintOverflow = errors.New("encoding: varint overflow")

	// ErrVarintTermination is returned when varint doesn't terminate properly.
	ErrVarintTermination = errors.New("encoding: varint not terminated")
)

// AppendFixed32 appends a little-endian uint32 to dst and returns the extended slice.
func AppendFixed32(dst []byte, value uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, value)
}

// DecodeFixed32 decodes a uint32 from a 4-byte little-endian buffer.
// REQUIRES: src has at least 4 bytes.
func DecodeFixed32(src []byte) uint32 {
	return binary.LittleEndian.Uint32(src)
}

// AppendVarint64 appends a uint64 as a varint to dst and returns the extended slice.
func AppendVarint64(dst []byte, value uint64) []byte {
	for value >= 0x80 {
		dst = append(dst, byte(value)|0x80)
		value >>= 7
	}
	return append(dst, byte(value))
}

// DecodeVarint64 decodes a varint64 from src.
// Returns the decoded value and the number of bytes consumed.
// Returns (0, 0, error) on error.
func DecodeVarint64(src []byte) (value uint64, bytesRead int, err error) {
	for shift := uint(0); shift < 64; shift += 7 {
		if bytesRead >= len(src) {
			return 0, 0, ErrVarintTermination
		}
		b := src[bytesRead]
		bytesRead++
		if b < 0x80 {
			if shift == 63 && b > 1 {
				return 0, 0, ErrVarintOverflow
			}
			return value | uint64(b)<<shift, bytesRead, nil
		}
		value |= uint64(b&0x7f) << shift
	}
	return 0, 0, ErrVarintOverflow
}

// VarintLength returns the number of bytes needed to encode v as a varint.
func VarintLength(v uint64) int {
	length := 1
	for v >= 0x80 {
		v >>= 7
		length++
	}
	return length
}

// I64ToZigzag maps signed values onto unsigned ones so small magnitudes stay short.
func I64ToZigzag(v int64) uint64 {
	return (uint64(v) << 1) ^ uint64(v>>63)
}

// ZigzagToI64 converts a zigzag-encoded uint64 back to a signed int64.
func ZigzagToI64(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

// AppendVarsignedint64 appends a signed int64 using zigzag + varint encoding.
func AppendVarsignedint64(dst []byte, v int64) []byte {
	return AppendVarint64(dst, I64ToZigzag(v))
}

// AppendLengthPrefixedSlice appends value preceded by its varint length.
func AppendLengthPrefixedSlice(dst []byte, value []byte) []byte {
	dst = AppendVarint64(dst, uint64(len(value)))
	return append(dst, value...)
}

// Slice is a sequential reader over a byte slice.
type Slice struct {
	data []byte
	pos  int
}

// NewSlice creates a new Slice from a byte slice.
func NewSlice(data []byte) *Slice {
	return &Slice{data: data}
}

// Remaining returns the number of bytes remaining.
func (s *Slice) Remaining() int {
	return len(s.data) - s.pos
}

// GetVarint64 reads a varint64.
func (s *Slice) GetVarint64() (uint64, bool) {
	v, n, err := DecodeVarint64(s.data[s.pos:])
	if err != nil {
		return 0, false
	}
	s.pos += n
	return v, true
}

// GetVarsignedint64 reads a zigzag-encoded signed int64.
func (s *Slice) GetVarsignedint64() (int64, bool) {
	v, ok := s.GetVarint64()
	if !ok {
		return 0, false
	}
	return ZigzagToI64(v), true
}

// GetLengthPrefixedSlice reads a length-prefixed slice.
// The returned slice aliases the underlying buffer.
func (s *Slice) GetLengthPrefixedSlice() ([]byte, bool) {
	length, ok := s.GetVarint64()
	if !ok {
		return nil, false
	}
	return s.GetBytes(length)
}

// GetBytes reads exactly n bytes.
func (s *Slice) GetBytes(n uint64) ([]byte, bool) {
	if uint64(s.Remaining()) < n {
		return nil, false
	}
	v := s.data[s.pos : s.pos+int(n)]
	s.pos += int(n)
	return v, true
}
