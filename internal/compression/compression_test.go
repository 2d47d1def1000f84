package compression

import (
	"bytes"
	"testing"
)

var allTypes = []Type{NoCompression, SnappyCompression, ZlibCompression, LZ4Compression, ZstdCompression}

func TestRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		[]byte("a"),
		bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 64),
	}
	for _, ct := range allTypes {
		t.Run(ct.String(), func(t *testing.T) {
			for _, in := range inputs {
				compressed, err := Compress(ct, in)
				if err != nil {
					t.Fatalf("Compress: %v", err)
				}
				out, err := Decompress(ct, compressed)
				if err != nil {
					t.Fatalf("Decompress: %v", err)
				}
				if !bytes.Equal(out, in) {
					t.Errorf("round trip of %d bytes returned %d bytes", len(in), len(out))
				}
			}
		})
	}
}

func TestNoCompressionDoesNotAlias(t *testing.T) {
	in := []byte("payload")
	out, err := Compress(NoCompression, in)
	if err != nil {
		t.Fatal(err)
	}
	out[0] = 'X'
	if in[0] != 'p' {
		t.Error("Compress(NoCompression) aliased its input")
	}
}

func TestDecompressGarbage(t *testing.T) {
	garbage := []byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa}
	for _, ct := range []Type{SnappyCompression, ZlibCompression, ZstdCompression} {
		if _, err := Decompress(ct, garbage); err == nil {
			t.Errorf("%s: Decompress(garbage) succeeded", ct)
		}
	}
}

func TestUnsupportedType(t *testing.T) {
	if Type(0x3).IsSupported() {
		t.Error("Type(0x3) should not be supported")
	}
	if _, err := Compress(Type(0x3), []byte("x")); err == nil {
		t.Error("Compress with unsupported type should fail")
	}
	if _, err := Decompress(Type(0x3), []byte("x")); err == nil {
		t.Error("Decompress with unsupported type should fail")
	}
}

func TestParseType(t *testing.T) {
	for _, ct := range allTypes {
		got, err := ParseType(ct.String())
		if err != nil || got != ct {
			t.Errorf("ParseType(%q) = (%s, %v), want %s", ct.String(), got, err, ct)
		}
	}
	if got, err := ParseType("ZSTD"); err != nil || got != ZstdCompression {
		t.Errorf("ParseType(\"ZSTD\") = (%s, %v)", got, err)
	}
	if _, err := ParseType("brotli"); err == nil {
		t.Error("ParseType(\"brotli\") should fail")
	}
}
