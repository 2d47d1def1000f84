package stress

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aalhour/docstore"
	"github.com/aalhour/docstore/internal/logging"
)

// State is the position of a Harness in its run.
//
//	Idle -> Seeded -> Mutating (worker and probe in flight) -> Drained -> Done
//
// Any failure moves the harness to Failed.
type State int32

const (
	// StateIdle is the state before Run.
	StateIdle State = iota
	// StateSeeded means the index exists and the dataset is in place.
	StateSeeded
	// StateMutating means the worker and the probe are racing.
	StateMutating
	// StateDrained means the probe finished and the worker was joined.
	StateDrained
	// StateDone means the collection was dropped after a passing run.
	StateDone
	// StateFailed means the run stopped on an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeded:
		return "seeded"
	case StateMutating:
		return "mutating"
	case StateDrained:
		return "drained"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Report summarizes a run.
type Report struct {
	Seed    int64
	State   State
	Elapsed time.Duration
	Stats   StatsSnapshot

	// FailedIn is the state the run was in when it failed. It is only
	// meaningful when State is StateFailed.
	FailedIn State

	// TeardownErr is set when the final drop failed after a successful run.
	// The run still counts as passed.
	TeardownErr error
}

// Harness runs the workload once against a collection.
type Harness struct {
	cfg    Config
	coll   Collection
	logger logging.Logger
	stats  Stats
	state  atomic.Int32
	ran    atomic.Bool
}

// New creates a harness. A zero cfg.Seed is replaced with a time-based seed,
// available from Seed before the run starts.
func New(coll Collection, cfg Config, logger logging.Logger) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Harness{cfg: cfg, coll: coll, logger: logging.OrDefault(logger)}, nil
}

// Seed returns the seed the worker will use.
func (h *Harness) Seed() int64 {
	return h.cfg.Seed
}

// State returns the current state.
func (h *Harness) State() State {
	return State(h.state.Load())
}

// Stats returns a snapshot of the run's counters.
func (h *Harness) Stats() StatsSnapshot {
	return h.stats.Snapshot()
}

func (h *Harness) transition(to State) {
	from := State(h.state.Swap(int32(to)))
	h.logger.Infof("%sstate %s -> %s", logging.NSHarness, from, to)
}

// Run seeds the collection, races the worker against the probe, joins the
// worker and drops the collection. The first error of any step ends the run
// and is returned unchanged in category: *SetupError, *MutationError,
// *CorruptionError, or ErrTimeout. A Harness runs once.
//
// On failure the collection is left as it was, for inspection.
func (h *Harness) Run(ctx context.Context) (Report, error) {
	if h.ran.Swap(true) {
		return Report{}, errors.New("stress: harness already ran")
	}
	start := time.Now()
	report := func() Report {
		return Report{Seed: h.cfg.Seed, State: h.State(), Elapsed: time.Since(start), Stats: h.stats.Snapshot()}
	}

	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(h.cfg.Timeout))
		defer cancel()
	}

	h.logger.Infof("%sstarting: collection=%q documents=%d iterations=%d repetitions=%d seed=%d",
		logging.NSHarness, h.cfg.Collection, h.cfg.Documents, h.cfg.Iterations, h.cfg.Repetitions, h.cfg.Seed)

	if err := h.setup(ctx); err != nil {
		return h.fail(ctx, report, err)
	}
	h.transition(StateSeeded)

	if err := h.mutateAndProbe(ctx); err != nil {
		return h.fail(ctx, report, err)
	}
	h.transition(StateDrained)

	r := report()
	if err := h.coll.Drop(); err != nil {
		r.TeardownErr = &TeardownError{Err: err}
		h.logger.Warnf("%s%v", logging.NSHarness, r.TeardownErr)
	}
	h.transition(StateDone)
	r.State = StateDone
	r.Elapsed = time.Since(start)
	h.logger.Infof("%spassed in %s: %s", logging.NSHarness, r.Elapsed.Round(time.Millisecond), r.Stats)
	return r, nil
}

func (h *Harness) setup(ctx context.Context) error {
	if err := h.coll.Drop(); err != nil {
		return &SetupError{Step: "drop", Err: err}
	}
	if err := h.coll.CreateIndex(docstore.IndexSpec{Field: h.cfg.Field}); err != nil {
		return &SetupError{Step: "createIndex", Err: err}
	}
	return Seed(ctx, h.coll, h.cfg.Field, h.cfg.Documents, &h.stats, h.logger)
}

// mutateAndProbe runs the worker on its own goroutine and the probe on this
// one, then joins the worker.
func (h *Harness) mutateAndProbe(ctx context.Context) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	worker := NewMutationWorker(h.coll, h.cfg.Field, h.cfg.KeySpace(), h.cfg.Iterations, h.cfg.Seed, &h.stats, h.logger)
	probe := NewConsistencyProbe(h.coll, h.cfg.Field, h.cfg.Repetitions, &h.stats, h.logger)

	// gctx is cancelled when the worker fails, which stops the probe.
	g, gctx := errgroup.WithContext(workerCtx)
	h.transition(StateMutating)
	g.Go(func() error {
		return worker.Run(gctx)
	})

	probeErr := probe.Run(gctx)
	if probeErr != nil {
		cancelWorker()
	}
	workerErr := g.Wait()

	// A real failure on either side wins over the cancellation it caused in
	// the other.
	switch {
	case probeErr != nil && !isContextErr(probeErr):
		return probeErr
	case workerErr != nil && !isContextErr(workerErr):
		return workerErr
	case probeErr != nil:
		return probeErr
	default:
		return workerErr
	}
}

func (h *Harness) fail(ctx context.Context, report func() Report, err error) (Report, error) {
	if isContextErr(err) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s in state %s: %w", ErrTimeout, time.Duration(h.cfg.Timeout), h.State(), err)
	}
	reached := h.State()
	h.transition(StateFailed)
	r := report()
	r.FailedIn = reached
	h.logger.Fatalf("%s%s failure in state %s after %s: %v", logging.NSHarness, Class(err), reached, r.Elapsed.Round(time.Millisecond), err)
	return r, err
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
