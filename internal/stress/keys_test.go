package stress

import "testing"

func TestKeySequence(t *testing.T) {
	for i := int64(0); i < 1100; i += RunLength {
		seq := KeySequence(i)
		if len(seq) != RunLength {
			t.Fatalf("len(KeySequence(%d)) = %d, want %d", i, len(seq), RunLength)
		}
		if seq[0] != i {
			t.Errorf("KeySequence(%d)[0] = %d", i, seq[0])
		}
		for j := 1; j < len(seq); j++ {
			if seq[j] != seq[j-1]+1 {
				t.Errorf("KeySequence(%d)[%d] = %d, want %d", i, j, seq[j], seq[j-1]+1)
			}
		}
	}
}

func TestKeySequenceFreshSlices(t *testing.T) {
	a := KeySequence(0)
	a[0] = 99
	if KeySequence(0)[0] != 0 {
		t.Error("KeySequence should return a new slice each call")
	}
}
