package checksum

import (
	"hash/crc32"
	"testing"

	"github.com/zeebo/xxh3"
)

func TestMaskUnmask(t *testing.T) {
	for _, crc := range []uint32{0, 1, 0xdeadbeef, 0xffffffff} {
		if got := Unmask(Mask(crc)); got != crc {
			t.Errorf("Unmask(Mask(%#x)) = %#x", crc, got)
		}
		if crc != 0 && Mask(crc) == crc {
			t.Errorf("Mask(%#x) should differ from input", crc)
		}
	}
}

func TestComputeCRC32CMatchesStdlib(t *testing.T) {
	data := []byte("document payload")
	want := Mask(crc32.Checksum(append(append([]byte{}, data...), 0x01), crc32.MakeTable(crc32.Castagnoli)))
	if got := Compute(TypeCRC32C, data, 0x01); got != want {
		t.Errorf("Compute(crc32c) = %#x, want %#x", got, want)
	}
}

func TestComputeXXH3MatchesLibrary(t *testing.T) {
	data := []byte("document payload")
	want := uint32(xxh3.Hash(append(append([]byte{}, data...), 0x07)))
	if got := Compute(TypeXXH3, data, 0x07); got != want {
		t.Errorf("Compute(xxh3) = %#x, want %#x", got, want)
	}
}

// Contract: flipping the trailing type byte changes the checksum.
func TestComputeCoversLastByte(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	for _, ct := range []Type{TypeCRC32C, TypeXXH3} {
		if Compute(ct, data, 0x00) == Compute(ct, data, 0x01) {
			t.Errorf("%s: checksum ignores last byte", ct)
		}
	}
}

func TestVerify(t *testing.T) {
	data := []byte("abc")
	for _, ct := range []Type{TypeCRC32C, TypeXXH3} {
		sum := Compute(ct, data, 0)
		if !Verify(ct, data, 0, sum) {
			t.Errorf("%s: Verify rejected a good checksum", ct)
		}
		if Verify(ct, []byte("abd"), 0, sum) {
			t.Errorf("%s: Verify accepted a corrupted payload", ct)
		}
	}
	if !Verify(TypeNoChecksum, data, 0, 12345) {
		t.Error("TypeNoChecksum should always verify")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name    string
		want    Type
		wantErr bool
	}{
		{"crc32c", TypeCRC32C, false},
		{"XXH3", TypeXXH3, false},
		{"none", TypeNoChecksum, false},
		{"", TypeNoChecksum, false},
		{"md5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}
