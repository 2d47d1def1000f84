package docstore

import (
	"github.com/aalhour/docstore/internal/encoding"
)

// IndexSpec names an ascending secondary index over one field.
//
// Indexes are multikey: a document contributes one entry per element of the
// indexed array. Documents without the field contribute no entries.
type IndexSpec struct {
	Field string
}

// Name returns the index name, "<field>_1".
func (s IndexSpec) Name() string {
	return s.Field + "_1"
}

// String returns the key pattern of the index, e.g. {a: 1}.
func (s IndexSpec) String() string {
	return "{" + s.Field + ": 1}"
}

// Index entries of all indexes of a collection share one ordered keyspace:
//
//	key:   [index name: ordered string][value: ordered int64][id:12]
//	value: [seq:varint] of the record the entry was written for
//
// Entries of one index are contiguous and sorted by value, then identity.
func indexPrefix(name string) []byte {
	return encoding.AppendOrderedString(nil, name)
}

func appendIndexKey(prefix []byte, v int64, id ID) []byte {
	key := make([]byte, 0, len(prefix)+encoding.OrderedInt64Length+IDLength)
	key = append(key, prefix...)
	key = encoding.AppendOrderedInt64(key, v)
	return append(key, id[:]...)
}

// decodeIndexKey splits an entry key whose index prefix has length prefixLen.
func decodeIndexKey(key []byte, prefixLen int) (int64, ID, bool) {
	var id ID
	if len(key) != prefixLen+encoding.OrderedInt64Length+IDLength {
		return 0, id, false
	}
	v := encoding.DecodeOrderedInt64(key[prefixLen:])
	copy(id[:], key[prefixLen+encoding.OrderedInt64Length:])
	return v, id, true
}

func encodeIndexValue(seq uint64) []byte {
	return encoding.AppendVarint64(nil, seq)
}

func decodeIndexValue(value []byte) (uint64, bool) {
	seq, _, err := encoding.DecodeVarint64(value)
	return seq, err == nil
}
