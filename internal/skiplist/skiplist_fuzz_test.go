package skiplist

import (
	"bytes"
	"testing"
)

// FuzzInsertDelete replays a byte string as a sequence of inserts and deletes
// over a small key space and checks the list against a map.
func FuzzInsertDelete(f *testing.F) {
	f.Add([]byte{0x01, 0x02, 0x81, 0x03})
	f.Add([]byte{0x10, 0x90, 0x10, 0x90})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, ops []byte) {
		sl := New(BytewiseComparator)
		model := make(map[string]bool)

		for _, op := range ops {
			key := []byte{op & 0x1f}
			if op&0x80 == 0 {
				inserted := sl.Insert(key, nil)
				if inserted == model[string(key)] {
					t.Fatalf("Insert(%x) = %v with key present=%v", key, inserted, model[string(key)])
				}
				model[string(key)] = true
			} else {
				deleted := sl.Delete(key)
				if deleted != model[string(key)] {
					t.Fatalf("Delete(%x) = %v with key present=%v", key, deleted, model[string(key)])
				}
				delete(model, string(key))
			}
		}

		if sl.Count() != int64(len(model)) {
			t.Errorf("Count() = %d, want %d", sl.Count(), len(model))
		}
		var prev []byte
		n := 0
		it := sl.NewIterator()
		for it.SeekToFirst(); it.Valid(); it.Next() {
			if prev != nil && bytes.Compare(prev, it.Key()) >= 0 {
				t.Errorf("keys out of order: %x >= %x", prev, it.Key())
			}
			if !model[string(it.Key())] {
				t.Errorf("iterator returned deleted key %x", it.Key())
			}
			prev = it.Key()
			n++
		}
		if n != len(model) {
			t.Errorf("iterated %d keys, want %d", n, len(model))
		}
	})
}
