// Package stress drives a collection through the adjacent-index-key removal
// workload and reports the first sign of index inconsistency.
//
// The dataset is a run of documents whose indexed field holds 11 consecutive
// integers, block k covering [11k, 11k+11). A MutationWorker removes and
// reinserts random documents on its own goroutine while a ConsistencyProbe
// drains index-hinted scans on the caller's goroutine. Any scan result that
// carries an error fails the run.
package stress

// RunLength is the number of consecutive integers in each seeded document.
const RunLength = 11

// KeySequence returns the RunLength consecutive integers starting at start.
func KeySequence(start int64) []int64 {
	seq := make([]int64, RunLength)
	for i := range seq {
		seq[i] = start + int64(i)
	}
	return seq
}
