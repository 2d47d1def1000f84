package docstore

import (
	"github.com/aalhour/docstore/internal/checksum"
	"github.com/aalhour/docstore/internal/compression"
	"github.com/aalhour/docstore/internal/encoding"
)

// Record frame layout:
//
//	[compression type:1][checksum type:1][seq:varint][payload][checksum:4]
//
// The checksum covers everything after the compression byte up to the
// trailer, with the compression byte folded in last. seq is the collection
// sequence number assigned when the record was written; index entries carry
// the same number so a reader can tell a stale entry from a bad one.
//
// Payload (before compression):
//
//	[field count:varint] then per field, sorted by name:
//	[name:length-prefixed][element count:varint][element:zigzag varint]...
const (
	frameHeaderLength  = 2
	frameTrailerLength = 4
)

func encodePayload(doc Document) []byte {
	var buf []byte
	names := doc.fieldNames()
	buf = encoding.AppendVarint64(buf, uint64(len(names)))
	for _, name := range names {
		vals := doc.Fields[name]
		buf = encoding.AppendLengthPrefixedSlice(buf, []byte(name))
		buf = encoding.AppendVarint64(buf, uint64(len(vals)))
		for _, v := range vals {
			buf = encoding.AppendVarsignedint64(buf, v)
		}
	}
	return buf
}

func decodePayload(id ID, payload []byte) (Document, error) {
	s := encoding.NewSlice(payload)
	n, ok := s.GetVarint64()
	if !ok {
		return Document{}, corruptionf("record %s: bad field count", id)
	}
	// Each field needs at least two bytes, which bounds n before allocating.
	if n > uint64(s.Remaining()) {
		return Document{}, corruptionf("record %s: field count %d exceeds payload", id, n)
	}
	doc := Document{ID: id, Fields: make(map[string][]int64, n)}
	for i := uint64(0); i < n; i++ {
		name, ok := s.GetLengthPrefixedSlice()
		if !ok {
			return Document{}, corruptionf("record %s: bad name of field %d", id, i)
		}
		count, ok := s.GetVarint64()
		if !ok || count > uint64(s.Remaining()) {
			return Document{}, corruptionf("record %s: bad element count of field %q", id, name)
		}
		vals := make([]int64, 0, count)
		for range count {
			v, ok := s.GetVarsignedint64()
			if !ok {
				return Document{}, corruptionf("record %s: truncated field %q", id, name)
			}
			vals = append(vals, v)
		}
		doc.Fields[string(name)] = vals
	}
	if s.Remaining() != 0 {
		return Document{}, corruptionf("record %s: %d trailing bytes", id, s.Remaining())
	}
	return doc, nil
}

// encodeRecord builds the stored frame for doc.
func encodeRecord(doc Document, seq uint64, ct compression.Type, ck checksum.Type) ([]byte, error) {
	payload, err := compression.Compress(ct, encodePayload(doc))
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, frameHeaderLength+encoding.VarintLength(seq)+len(payload)+frameTrailerLength)
	frame = append(frame, byte(ct), byte(ck))
	frame = encoding.AppendVarint64(frame, seq)
	frame = append(frame, payload...)
	return encoding.AppendFixed32(frame, checksum.Compute(ck, frame[1:], frame[0])), nil
}

// decodeRecord verifies a frame and returns its document and sequence number.
func decodeRecord(id ID, frame []byte) (Document, uint64, error) {
	if len(frame) < frameHeaderLength+1+frameTrailerLength {
		return Document{}, 0, corruptionf("record %s: frame too short (%d bytes)", id, len(frame))
	}
	ct := compression.Type(frame[0])
	ck := checksum.Type(frame[1])
	body := frame[:len(frame)-frameTrailerLength]
	stored := encoding.DecodeFixed32(frame[len(frame)-frameTrailerLength:])
	switch ck {
	case checksum.TypeNoChecksum, checksum.TypeCRC32C, checksum.TypeXXH3:
	default:
		return Document{}, 0, corruptionf("record %s: unknown checksum %s", id, ck)
	}
	if !checksum.Verify(ck, body[1:], body[0], stored) {
		return Document{}, 0, corruptionf("record %s: %s checksum mismatch", id, ck)
	}

	seq, n, err := encoding.DecodeVarint64(body[frameHeaderLength:])
	if err != nil {
		return Document{}, 0, corruptionf("record %s: bad sequence: %v", id, err)
	}
	if !ct.IsSupported() {
		return Document{}, 0, corruptionf("record %s: unknown compression %s", id, ct)
	}
	payload, err := compression.Decompress(ct, body[frameHeaderLength+n:])
	if err != nil {
		return Document{}, 0, corruptionf("record %s: decompress: %v", id, err)
	}
	doc, err := decodePayload(id, payload)
	if err != nil {
		return Document{}, 0, err
	}
	return doc, seq, nil
}
