package encoding

import (
	"encoding/binary"
	"errors"
)

// ErrInvalidEscape is returned when an ordered string holds an unknown escape.
var ErrInvalidEscape = errors.New("encoding: invalid escape sequence")

// OrderedInt64Length is the encoded size of an order-preserving int64.
const OrderedInt64Length = 8

// AppendOrderedInt64 appends v so that bytes.Compare on two encodings agrees
// with the numeric order of their values. The sign bit is flipped and the
// result written big-endian.
func AppendOrderedInt64(dst []byte, v int64) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(v)^(1<<63))
}

// DecodeOrderedInt64 reverses AppendOrderedInt64.
// REQUIRES: src has at least OrderedInt64Length bytes.
func DecodeOrderedInt64(src []byte) int64 {
	return int64(binary.BigEndian.Uint64(src) ^ (1 << 63))
}

// AppendOrderedString appends s so that encodings of distinct strings sort
// bytewise and no encoding is a prefix of another. The string is terminated
// with 0x00 0x01; embedded zero bytes are escaped as 0x00 0xff.
func AppendOrderedString(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			dst = append(dst, 0x00, 0xff)
			continue
		}
		dst = append(dst, s[i])
	}
	return append(dst, 0x00, 0x01)
}

// DecodeOrderedString reads a string written by AppendOrderedString and
// returns it with the number of bytes consumed.
func DecodeOrderedString(src []byte) (string, int, error) {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] != 0 {
			out = append(out, src[i])
			continue
		}
		if i+1 >= len(src) {
			return "", 0, ErrBufferTooSmall
		}
		switch src[i+1] {
		case 0x01:
			return string(out), i + 2, nil
		case 0xff:
			out = append(out, 0)
			i++
		default:
			return "", 0, ErrInvalidEscape
		}
	}
	return "", 0, ErrBufferTooSmall
}
