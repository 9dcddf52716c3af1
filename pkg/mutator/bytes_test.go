package mutator

import "testing"

func TestBytesValidateEnforcesLengthRange(t *testing.T) {
	m := NewBytes(2, 4)

	tooShort := []byte{1}
	if _, ok := m.Validate(&tooShort); ok {
		t.Fatal("Validate should reject a slice shorter than the minimum length")
	}

	tooLong := []byte{1, 2, 3, 4, 5}
	if _, ok := m.Validate(&tooLong); ok {
		t.Fatal("Validate should reject a slice longer than the maximum length")
	}

	inRange := []byte{1, 2, 3}
	if _, ok := m.Validate(&inRange); !ok {
		t.Fatal("Validate should accept a slice within range")
	}
}

func TestBytesComplexityIsLength(t *testing.T) {
	m := NewBytes(0, 256)
	v := []byte{1, 2, 3, 4, 5}

	if got := m.Complexity(&v, nil); got != 5.0 {
		t.Fatalf("Complexity() = %f, want 5.0", got)
	}
}

func TestBytesRandomMutateUnmutateRoundTrips(t *testing.T) {
	m := NewBytes(0, 256)
	original := []byte{10, 20, 30, 40}

	v := make([]byte, len(original))
	copy(v, original)

	token, _ := m.RandomMutate(&v, nil, 100)
	m.Unmutate(&v, nil, token)

	if len(v) != len(original) {
		t.Fatalf("after round trip, len = %d, want %d", len(v), len(original))
	}

	for i := range original {
		if v[i] != original[i] {
			t.Fatalf("after round trip, v[%d] = %d, want %d", i, v[i], original[i])
		}
	}
}

func TestBytesOrderedArbitraryRespectsLengthRange(t *testing.T) {
	m := NewBytes(1, 3)
	step := m.DefaultArbitraryStep()

	for {
		v, cplx, ok := m.OrderedArbitrary(&step, 100)
		if !ok {
			break
		}

		if len(v) < 1 || len(v) > 3 {
			t.Fatalf("OrderedArbitrary produced length %d outside [1,3]", len(v))
		}
		if cplx != float64(len(v)) {
			t.Fatalf("OrderedArbitrary complexity %f != length %d", cplx, len(v))
		}
	}
}
