package stress

import (
	"context"
	"fmt"

	"github.com/aalhour/docstore"
	"github.com/aalhour/docstore/internal/logging"
)

// Seed inserts documents documents into coll, document k holding
// KeySequence(k*RunLength) in field. Together they cover
// [0, documents*RunLength) with no gaps. Seeding runs sequentially and must
// finish before any mutation starts.
func Seed(ctx context.Context, coll Collection, field string, documents int, stats *Stats, logger logging.Logger) error {
	logger = logging.OrDefault(logger)
	for k := range documents {
		if err := ctx.Err(); err != nil {
			return &SetupError{Step: "seed", Err: err}
		}
		start := int64(k) * RunLength
		if _, err := coll.Insert(docstore.NewDocument(field, KeySequence(start))); err != nil {
			return &SetupError{
				Step: "seed",
				Err:  fmt.Errorf("document %d [%d, %d): %w", k, start, start+RunLength, err),
			}
		}
		if stats != nil {
			stats.seeded.Add(1)
		}
	}
	logger.Infof("%sinserted %d documents covering [0, %d)", logging.NSSeed, documents, int64(documents)*RunLength)
	return nil
}
