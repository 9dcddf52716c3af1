package serialize

import "testing"

type jsonFixture struct {
	Name  string
	Count int
}

func TestJSONRoundTrips(t *testing.T) {
	ser := NewJSON[jsonFixture]()

	in := jsonFixture{Name: "alpha", Count: 7}
	data := ser.ToData(in)

	out, ok := ser.FromData(data)
	if !ok {
		t.Fatalf("FromData(%q) failed to decode", data)
	}

	if out != in {
		t.Fatalf("FromData(ToData(%+v)) = %+v, want the original value", in, out)
	}
}

func TestJSONFromDataRejectsMalformedInput(t *testing.T) {
	ser := NewJSON[jsonFixture]()

	if _, ok := ser.FromData([]byte("not json")); ok {
		t.Fatal("FromData on malformed input should report ok=false")
	}
}

func TestJSONExtensionAndUTF8(t *testing.T) {
	ser := NewJSON[jsonFixture]()

	if ser.Extension() != "json" {
		t.Fatalf("Extension() = %q, want %q", ser.Extension(), "json")
	}

	if !ser.IsUTF8() {
		t.Fatal("IsUTF8() should be true for JSON output")
	}
}
