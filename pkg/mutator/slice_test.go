package mutator

import "testing"

func TestSliceOrderedArbitraryRespectsLengthRange(t *testing.T) {
	m := NewSlice[uint8](NewInt[uint8](8), 1, 3)
	step := m.DefaultArbitraryStep()

	for {
		v, _, ok := m.OrderedArbitrary(&step, 1000)
		if !ok {
			break
		}

		if len(v) < 1 || len(v) > 3 {
			t.Fatalf("OrderedArbitrary produced length %d outside [1,3]", len(v))
		}
	}
}

func TestSliceComplexityIncludesLengthTerm(t *testing.T) {
	m := NewSlice[uint8](NewInt[uint8](8), 0, 10)

	empty := []uint8{}
	cache, ok := m.Validate(&empty)
	if !ok {
		t.Fatal("Validate failed on empty slice")
	}
	if got := m.Complexity(&empty, cache); got != sliceLengthComplexity {
		t.Fatalf("Complexity(empty) = %f, want %f", got, sliceLengthComplexity)
	}

	nonEmpty := []uint8{1, 2}
	cache2, ok := m.Validate(&nonEmpty)
	if !ok {
		t.Fatal("Validate failed on nonempty slice")
	}
	if got := m.Complexity(&nonEmpty, cache2); got <= sliceLengthComplexity {
		t.Fatalf("Complexity(nonEmpty) = %f, want > %f", got, sliceLengthComplexity)
	}
}

// A fixed-length slice (min == max == 1) forces every RandomMutate choice
// to fall back to element-level mutation, since insert/delete would
// violate the length bound. That isolates the element round trip from the
// collection-shape moves for this test.
func TestSliceFixedLengthRandomMutateRoundTrips(t *testing.T) {
	m := NewSlice[uint8](NewInt[uint8](8), 1, 1)
	v := []uint8{100}

	cache, ok := m.Validate(&v)
	if !ok {
		t.Fatal("Validate failed")
	}

	token, _ := m.RandomMutate(&v, cache, 100)
	m.Unmutate(&v, cache, token)

	if len(v) != 1 || v[0] != 100 {
		t.Fatalf("round trip = %v, want [100]", v)
	}
}

// A variable-length slice starting from empty forces RandomMutate's choice
// to 0 (insert), the only legal move when len(v) == 0. This drives the
// cache's elems array through the same grow-then-shrink cycle as *value,
// catching the desync that a value-typed (non-pointer) sliceCache or an
// insert branch that forgets to touch elems would hit as an out-of-range
// panic in Unmutate.
func TestSliceVariableLengthRandomMutateInsertRoundTrips(t *testing.T) {
	m := NewSlice[uint8](NewInt[uint8](8), 0, 4)
	v := []uint8{}

	cache, ok := m.Validate(&v)
	if !ok {
		t.Fatal("Validate failed")
	}

	token, _ := m.RandomMutate(&v, cache, 100)

	if len(v) != 1 {
		t.Fatalf("after insert, len(v) = %d, want 1", len(v))
	}

	m.Unmutate(&v, cache, token)

	if len(v) != 0 {
		t.Fatalf("round trip = %v, want []", v)
	}
}

func TestSliceValidateRejectsOutOfRangeLength(t *testing.T) {
	m := NewSlice[uint8](NewInt[uint8](8), 2, 4)

	tooShort := []uint8{1}
	if _, ok := m.Validate(&tooShort); ok {
		t.Fatal("Validate should reject a slice shorter than min length")
	}
}
