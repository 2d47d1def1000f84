package docstore

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
)

// Contract: index-hinted scans running against a writer that removes and
// reinserts documents with adjacent multikey entries never yield an error
// and never yield the same document twice.
func TestConcurrentRemoveReinsertWithAdjacentKeys(t *testing.T) {
	for _, ct := range []CompressionType{NoCompression, SnappyCompression, ZstdCompression} {
		t.Run(ct.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Compression = ct
			opts.ChecksumType = ChecksumTypeXXH3
			c := openCollection(t, opts)
			if err := c.CreateIndex(IndexSpec{Field: "a"}); err != nil {
				t.Fatal(err)
			}
			for i := int64(0); i < 1100; i += 11 {
				if _, err := c.Insert(NewDocument("a", run(i))); err != nil {
					t.Fatal(err)
				}
			}

			var stop atomic.Bool
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer stop.Store(true)
				r := rand.New(rand.NewSource(42))
				for range 2000 {
					doc, ok, err := c.FindOne(Eq{Field: "a", Value: int64(r.Intn(1100))})
					if err != nil {
						t.Errorf("FindOne: %v", err)
						return
					}
					if !ok {
						continue
					}
					if _, err := c.Remove(doc.ID); err != nil {
						t.Errorf("Remove: %v", err)
						return
					}
					if _, err := c.Insert(doc); err != nil {
						t.Errorf("Insert: %v", err)
						return
					}
				}
			}()

			scans := 0
			for !stop.Load() || scans == 0 {
				cur, err := c.Find(Gte{Field: "a", Value: 0}).Hint(IndexSpec{Field: "a"}).Cursor()
				if err != nil {
					t.Fatal(err)
				}
				seen := make(map[ID]bool)
				for r, ok := cur.Next(); ok; r, ok = cur.Next() {
					if !r.OK() {
						t.Fatalf("scan %d: %v", scans, r.Err)
					}
					if seen[r.Doc.ID] {
						t.Fatalf("scan %d: document %s returned twice", scans, r.Doc.ID)
					}
					seen[r.Doc.ID] = true
				}
				scans++
			}
			wg.Wait()

			if c.Count() != 100 {
				t.Errorf("Count = %d, want 100", c.Count())
			}
			n, err := c.Find(Gte{Field: "a", Value: 0}).Hint(IndexSpec{Field: "a"}).Count()
			if err != nil || n != 100 {
				t.Errorf("final scan = (%d, %v), want (100, nil)", n, err)
			}
		})
	}
}
