package serialize

import "testing"

func TestBytesRoundTrips(t *testing.T) {
	ser := NewBytes("bin")

	in := []byte{1, 2, 3, 4}
	out, ok := ser.FromData(ser.ToData(in))
	if !ok {
		t.Fatal("FromData(ToData(in)) reported ok=false")
	}

	if len(out) != len(in) {
		t.Fatalf("round-tripped length = %d, want %d", len(out), len(in))
	}

	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestBytesToDataCopiesRatherThanAliases(t *testing.T) {
	ser := NewBytes("bin")

	in := []byte{9, 9}
	data := ser.ToData(in)
	in[0] = 0

	if data[0] != 9 {
		t.Fatal("ToData must copy its input, not alias it")
	}
}

func TestBytesExtensionAndUTF8(t *testing.T) {
	ser := NewBytes("raw")

	if ser.Extension() != "raw" {
		t.Fatalf("Extension() = %q, want %q", ser.Extension(), "raw")
	}

	if ser.IsUTF8() {
		t.Fatal("IsUTF8() should be false for raw bytes")
	}
}
