package stress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tailscale/hujson"

	"github.com/aalhour/docstore"
	"github.com/aalhour/docstore/internal/checksum"
	"github.com/aalhour/docstore/internal/compression"
	"github.com/aalhour/docstore/internal/logging"
)

var (
	errConfigRead    = errors.New("cannot read config file")
	errConfigInvalid = errors.New("invalid config")
)

// Duration is a time.Duration that reads and writes as a string like "90s".
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config describes one run.
type Config struct {
	// Collection is the name of the collection the run owns. It is dropped
	// before seeding and after a successful run.
	Collection string `json:"collection"`
	// Field is the indexed array field.
	Field string `json:"field"`
	// Documents is the number of seeded documents; the key space is
	// Documents*RunLength.
	Documents int `json:"documents"`
	// Iterations is the number of worker remove/reinsert cycles.
	Iterations int `json:"iterations"`
	// Repetitions is the number of probe scans.
	Repetitions int `json:"repetitions"`
	// Seed seeds the worker's random source. 0 picks a time-based seed,
	// which is logged and reported so the run can be replayed.
	Seed int64 `json:"seed"`
	// Timeout bounds the whole run. 0 disables it.
	Timeout Duration `json:"timeout"`

	// Compression and Checksum configure the store's record format.
	Compression string `json:"compression"`
	Checksum    string `json:"checksum"`

	// LogLevel is one of error, warn, info, debug.
	LogLevel string `json:"log_level"`
	// ArtifactDir receives run.json when a run fails. Empty disables it.
	ArtifactDir string `json:"artifact_dir"`
}

// DefaultConfig returns the canonical workload: 100 documents over
// [0, 1100), 1000 worker iterations, 200 probe scans.
func DefaultConfig() Config {
	return Config{
		Collection:  "jstests_removec",
		Field:       "a",
		Documents:   100,
		Iterations:  1000,
		Repetitions: 200,
		Compression: compression.NoCompression.String(),
		Checksum:    checksum.TypeCRC32C.String(),
		LogLevel:    "info",
	}
}

// KeySpace returns the size of the seeded key range.
func (c Config) KeySpace() int64 {
	return int64(c.Documents) * RunLength
}

// Validate checks that the configuration describes a runnable workload.
func (c Config) Validate() error {
	switch {
	case c.Collection == "":
		return fmt.Errorf("%w: collection must not be empty", errConfigInvalid)
	case c.Field == "":
		return fmt.Errorf("%w: field must not be empty", errConfigInvalid)
	case c.Documents <= 0:
		return fmt.Errorf("%w: documents must be positive, got %d", errConfigInvalid, c.Documents)
	case c.Iterations < 0:
		return fmt.Errorf("%w: iterations must not be negative, got %d", errConfigInvalid, c.Iterations)
	case c.Repetitions < 0:
		return fmt.Errorf("%w: repetitions must not be negative, got %d", errConfigInvalid, c.Repetitions)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout must not be negative", errConfigInvalid)
	}
	if _, err := compression.ParseType(c.Compression); err != nil {
		return fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	if _, err := checksum.ParseType(c.Checksum); err != nil {
		return fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	return nil
}

// StoreOptions returns store options for the configured record format.
func (c Config) StoreOptions(logger logging.Logger) (*docstore.Options, error) {
	ct, err := compression.ParseType(c.Compression)
	if err != nil {
		return nil, err
	}
	ck, err := checksum.ParseType(c.Checksum)
	if err != nil {
		return nil, err
	}
	opts := docstore.DefaultOptions()
	opts.Compression = ct
	opts.ChecksumType = ck
	opts.Logger = logger
	return opts, nil
}

// LoadConfig reads a JSONC (JSON with comments and trailing commas) file and
// overlays it on DefaultConfig. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", errConfigRead, path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses JSONC data over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid JSONC: %w", errConfigInvalid, err)
	}

	cfg := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
