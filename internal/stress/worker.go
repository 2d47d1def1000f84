package stress

import (
	"context"
	"math/rand"

	"github.com/aalhour/docstore/internal/logging"
)

// MutationWorker removes and reinserts random documents as fast as it can.
// It asserts nothing; it only supplies load for the probe to observe.
type MutationWorker struct {
	coll       Collection
	field      string
	keySpace   int64
	iterations int
	seed       int64
	rng        *rand.Rand

	stats  *Stats
	logger logging.Logger
}

// NewMutationWorker creates a worker whose random source is seeded once,
// here, with seed. Replaying a seed replays the same key draws.
func NewMutationWorker(coll Collection, field string, keySpace int64, iterations int, seed int64, stats *Stats, logger logging.Logger) *MutationWorker {
	if stats == nil {
		stats = &Stats{}
	}
	return &MutationWorker{
		coll:       coll,
		field:      field,
		keySpace:   keySpace,
		iterations: iterations,
		seed:       seed,
		rng:        rand.New(rand.NewSource(seed)),
		stats:      stats,
		logger:     logging.OrDefault(logger),
	}
}

// Seed returns the seed of the worker's random source.
func (w *MutationWorker) Seed() int64 {
	return w.seed
}

// Run performs all iterations. Each draws r in [0, keySpace), looks up a
// document holding r, removes it by identity and inserts it back unchanged.
// An empty lookup skips the iteration. Any store error ends the run with a
// *MutationError; nothing is retried.
func (w *MutationWorker) Run(ctx context.Context) error {
	w.logger.Debugf("%sstarting %d iterations (seed=%d)", logging.NSMutate, w.iterations, w.seed)
	for i := range w.iterations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.step(i); err != nil {
			return err
		}
		w.stats.iterations.Add(1)
		if (i+1)%250 == 0 {
			w.logger.Debugf("%s%d/%d iterations", logging.NSMutate, i+1, w.iterations)
		}
	}
	w.logger.Debugf("%sdone: %d iterations, %d skipped", logging.NSMutate, w.iterations, w.stats.skips.Load())
	return nil
}

func (w *MutationWorker) step(i int) error {
	r := w.rng.Int63n(w.keySpace)

	w.stats.lookups.Add(1)
	doc, ok, err := w.coll.FindOne(w.field, r)
	if err != nil {
		return &MutationError{Iteration: i, Op: "findOne", Key: r, Err: err}
	}
	if !ok {
		w.stats.skips.Add(1)
		w.logger.Debugf("%siteration %d: no document holds %d, skipping", logging.NSMutate, i, r)
		return nil
	}

	if _, err := w.coll.Remove(doc.ID); err != nil {
		return &MutationError{Iteration: i, Op: "remove", Key: r, ID: doc.ID, Err: err}
	}
	w.stats.removes.Add(1)

	if _, err := w.coll.Insert(doc); err != nil {
		return &MutationError{Iteration: i, Op: "insert", Key: r, ID: doc.ID, Err: err}
	}
	w.stats.inserts.Add(1)
	return nil
}
