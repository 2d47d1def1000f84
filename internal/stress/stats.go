package stress

import (
	"fmt"
	"sync/atomic"
)

// Stats tracks operation counts. Counters are updated from the worker and
// probe goroutines concurrently.
type Stats struct {
	seeded     atomic.Uint64
	iterations atomic.Uint64
	lookups    atomic.Uint64
	skips      atomic.Uint64
	removes    atomic.Uint64
	inserts    atomic.Uint64
	scans      atomic.Uint64
	scanned    atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Seeded     uint64 `json:"seeded"`
	Iterations uint64 `json:"iterations"`
	Lookups    uint64 `json:"lookups"`
	Skips      uint64 `json:"skips"`
	Removes    uint64 `json:"removes"`
	Inserts    uint64 `json:"inserts"`
	Scans      uint64 `json:"scans"`
	Scanned    uint64 `json:"scanned"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Seeded:     s.seeded.Load(),
		Iterations: s.iterations.Load(),
		Lookups:    s.lookups.Load(),
		Skips:      s.skips.Load(),
		Removes:    s.removes.Load(),
		Inserts:    s.inserts.Load(),
		Scans:      s.scans.Load(),
		Scanned:    s.scanned.Load(),
	}
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("seeded=%d iterations=%d lookups=%d skips=%d removes=%d inserts=%d scans=%d scanned=%d",
		s.Seeded, s.Iterations, s.Lookups, s.Skips, s.Removes, s.Inserts, s.Scans, s.Scanned)
}
