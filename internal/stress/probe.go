package stress

import (
	"context"

	"github.com/aalhour/docstore"
	"github.com/aalhour/docstore/internal/logging"
)

// ConsistencyProbe repeatedly drains a full index-hinted scan and fails on
// the first result that carries an error. Result contents and counts are not
// checked: documents move in and out of the scan while the worker runs.
type ConsistencyProbe struct {
	coll        Collection
	filter      docstore.Filter
	hint        docstore.IndexSpec
	repetitions int

	stats  *Stats
	logger logging.Logger
}

// NewConsistencyProbe creates a probe scanning field >= 0 through the index
// over field, which visits every live document.
func NewConsistencyProbe(coll Collection, field string, repetitions int, stats *Stats, logger logging.Logger) *ConsistencyProbe {
	if stats == nil {
		stats = &Stats{}
	}
	return &ConsistencyProbe{
		coll:        coll,
		filter:      docstore.Gte{Field: field, Value: 0},
		hint:        docstore.IndexSpec{Field: field},
		repetitions: repetitions,
		stats:       stats,
		logger:      logging.OrDefault(logger),
	}
}

// Run performs all repetitions, each fully drained before the next starts.
func (p *ConsistencyProbe) Run(ctx context.Context) error {
	for rep := range p.repetitions {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := p.scan(ctx, rep)
		if err != nil {
			return err
		}
		p.stats.scans.Add(1)
		if (rep+1)%50 == 0 {
			p.logger.Debugf("%s%d/%d scans, last returned %d documents", logging.NSProbe, rep+1, p.repetitions, n)
		}
	}
	return nil
}

// ctxCheckInterval is how many results are consumed between context checks.
const ctxCheckInterval = 64

func (p *ConsistencyProbe) scan(ctx context.Context, rep int) (int, error) {
	cur, err := p.coll.Scan(p.filter, p.hint)
	if err != nil {
		return 0, &CorruptionError{Repetition: rep, Item: -1, Err: err}
	}
	defer cur.Close()

	n := 0
	for r, ok := cur.Next(); ok; r, ok = cur.Next() {
		if !r.OK() {
			return n, &CorruptionError{Repetition: rep, Item: n, Err: r.Err}
		}
		n++
		p.stats.scanned.Add(1)
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}
