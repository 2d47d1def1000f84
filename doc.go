/*
Package docstore provides an in-process document store with multikey
secondary indexes, built to be stressed by concurrent remove/reinsert
workloads.

A Store holds named collections. A Collection keeps each document as a
checksummed, optionally compressed record keyed by its identity, plus one
ordered entry per array element for every indexed field. Index scans walk
those entries in key order, resolve each against the primary record, and
report anything that does not line up as an explicit error Result.

# Concurrency

A Collection is safe for concurrent use. Writes (Insert, Remove, CreateIndex,
Drop) are serialized per collection. Reads (FindOne, cursors) never take the
write lock and observe writes as they land: a cursor skips documents removed
after it started and may or may not return documents inserted after it
started, but never returns the same document twice. Individual Cursor
instances are not safe for concurrent use.

# Stress harness

The internal/stress package and cmd/removestress drive a collection through
the adjacent-index-key removal workload: 100 documents holding overlapping
runs of 11 integers, a worker removing and reinserting random documents,
and a probe draining index-hinted scans that must never yield an error.
*/
package docstore
