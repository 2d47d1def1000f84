package encoding

import (
	"bytes"
	"cmp"
	"testing"
)

// FuzzOrderedKeys checks that (string, int64) composite keys compare bytewise
// in the same order as their decoded parts.
func FuzzOrderedKeys(f *testing.F) {
	f.Add("a", int64(0), "a", int64(1))
	f.Add("a", int64(-1), "a", int64(0))
	f.Add("a", int64(5), "a\x00", int64(-5))
	f.Add("", int64(1<<62), "\x00", int64(-(1 << 62)))

	f.Fuzz(func(t *testing.T, s1 string, v1 int64, s2 string, v2 int64) {
		k1 := AppendOrderedInt64(AppendOrderedString(nil, s1), v1)
		k2 := AppendOrderedInt64(AppendOrderedString(nil, s2), v2)

		want := cmp.Compare(s1, s2)
		if want == 0 {
			want = cmp.Compare(v1, v2)
		}
		if got := bytes.Compare(k1, k2); got != want {
			t.Errorf("Compare(%q/%d, %q/%d) = %d, want %d", s1, v1, s2, v2, got, want)
		}

		s, n, err := DecodeOrderedString(k1)
		if err != nil {
			t.Fatalf("DecodeOrderedString: %v", err)
		}
		if s != s1 {
			t.Errorf("decoded string = %q, want %q", s, s1)
		}
		if v := DecodeOrderedInt64(k1[n:]); v != v1 {
			t.Errorf("decoded value = %d, want %d", v, v1)
		}
	})
}
