// Package checksum computes the trailer checksums stored with every document
// record.
//
// Two algorithms are supported: CRC32C (Castagnoli, masked before it is
// stored) and XXH3 truncated to 32 bits. The type byte of the
// record is folded into the checksum so a flipped compression byte is caught
// as well as a flipped payload byte.
package checksum

import (
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/zeebo/xxh3"
)

// Type represents the type of checksum algorithm.
type Type uint8

const (
	// TypeNoChecksum disables verification. Compute always returns 0.
	TypeNoChecksum Type = 0
	// TypeCRC32C is CRC32C (Castagnoli) checksum.
	TypeCRC32C Type = 1
	// TypeXXH3 is the low 32 bits of XXH3-64.
	TypeXXH3 Type = 4
)

// String returns a human-readable name for the checksum type.
func (t Type) String() string {
	switch t {
	case TypeNoChecksum:
		return "none"
	case TypeCRC32C:
		return "crc32c"
	case TypeXXH3:
		return "xxh3"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseType maps a configuration name to a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return TypeNoChecksum, nil
	case "crc32c":
		return TypeCRC32C, nil
	case "xxh3":
		return TypeXXH3, nil
	default:
		return 0, fmt.Errorf("checksum: unknown type %q", name)
	}
}

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// maskDelta is added to the rotated CRC when masking.
const maskDelta = 0xa282ead8

// Mask returns the masked representation of crc.
// CRCs embedded in data that is itself checksummed are masked first.
func Mask(crc uint32) uint32 {
	return ((crc >> 15) | (crc << 17)) + maskDelta
}

// Unmask returns the crc whose masked representation is maskedCRC.
func Unmask(maskedCRC uint32) uint32 {
	rot := maskedCRC - maskDelta
	return (rot >> 17) | (rot << 15)
}

// Compute returns the checksum of data followed by lastByte.
func Compute(t Type, data []byte, lastByte byte) uint32 {
	switch t {
	case TypeCRC32C:
		crc := crc32.Update(crc32.Checksum(data, crc32cTable), crc32cTable, []byte{lastByte})
		return Mask(crc)
	case TypeXXH3:
		h := xxh3.New()
		_, _ = h.Write(data)
		_, _ = h.Write([]byte{lastByte})
		return uint32(h.Sum64())
	default:
		return 0
	}
}

// Verify reports whether want matches the checksum of data and lastByte.
// TypeNoChecksum always verifies.
func Verify(t Type, data []byte, lastByte byte, want uint32) bool {
	if t == TypeNoChecksum {
		return true
	}
	return Compute(t, data, lastByte) == want
}
