package docstore

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

// IDLength is the size of a document identity in bytes.
const IDLength = 12

// ID is an opaque document identity.
//
// Layout: 4-byte big-endian seconds, 5 bytes unique to the process, 3-byte
// counter. IDs created by one process are unique and roughly time-ordered.
type ID [IDLength]byte

var (
	processUnique [5]byte
	idCounter     atomic.Uint32
)

func init() {
	var seed [4]byte
	if _, err := rand.Read(processUnique[:]); err != nil {
		panic(fmt.Sprintf("docstore: read process id: %v", err))
	}
	if _, err := rand.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("docstore: read id counter seed: %v", err))
	}
	idCounter.Store(binary.BigEndian.Uint32(seed[:]))
}

// NewID returns a fresh identity.
func NewID() ID {
	var id ID
	binary.BigEndian.PutUint32(id[0:4], uint32(time.Now().Unix()))
	copy(id[4:9], processUnique[:])
	c := idCounter.Add(1)
	id[9] = byte(c >> 16)
	id[10] = byte(c >> 8)
	id[11] = byte(c)
	return id
}

// ParseID parses the hex form produced by ID.String.
func ParseID(s string) (ID, error) {
	var id ID
	if hex.DecodedLen(len(s)) != IDLength {
		return id, fmt.Errorf("%w: id %q has wrong length", ErrInvalidDocument, s)
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("%w: id %q: %v", ErrInvalidDocument, s, err)
	}
	return id, nil
}

// IsZero reports whether id is the zero identity (not yet assigned).
func (id ID) IsZero() bool {
	return id == ID{}
}

// String returns the hex encoding of id.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}
