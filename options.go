package docstore

import (
	"fmt"

	"github.com/aalhour/docstore/internal/checksum"
	"github.com/aalhour/docstore/internal/compression"
	"github.com/aalhour/docstore/internal/logging"
)

// Logger is an alias for the logging.Logger interface.
type Logger = logging.Logger

// CompressionType is an alias for the record compression type.
type CompressionType = compression.Type

// Compression types.
const (
	NoCompression     = compression.NoCompression
	SnappyCompression = compression.SnappyCompression
	ZlibCompression   = compression.ZlibCompression
	LZ4Compression    = compression.LZ4Compression
	ZstdCompression   = compression.ZstdCompression
)

// ChecksumType is an alias for the record checksum type.
type ChecksumType = checksum.Type

// Checksum types.
const (
	ChecksumTypeNoChecksum = checksum.TypeNoChecksum
	ChecksumTypeCRC32C     = checksum.TypeCRC32C
	ChecksumTypeXXH3       = checksum.TypeXXH3
)

// Options configures a Store.
type Options struct {
	// Compression is applied to every record written after Open.
	// Each record carries its own compression type byte.
	Compression CompressionType

	// ChecksumType protects every record. Default: CRC32C.
	ChecksumType ChecksumType

	// Logger receives index builds and drops under the [store] namespace.
	// If nil, a WARN-level stderr logger is used.
	Logger Logger
}

// DefaultOptions returns the default store options.
func DefaultOptions() *Options {
	return &Options{
		Compression:  NoCompression,
		ChecksumType: ChecksumTypeCRC32C,
		Logger:       nil, // Will use logging.OrDefault
	}
}

func (o *Options) validate() error {
	if !o.Compression.IsSupported() {
		return fmt.Errorf("%w: compression %s", ErrInvalidOptions, o.Compression)
	}
	switch o.ChecksumType {
	case ChecksumTypeNoChecksum, ChecksumTypeCRC32C, ChecksumTypeXXH3:
	default:
		return fmt.Errorf("%w: checksum %s", ErrInvalidOptions, o.ChecksumType)
	}
	return nil
}
