package mutator

import "testing"

type pointXY struct {
	X uint8
	Y bool
}

func newPointMutator() *Map[pointXY, Pair[uint8, bool]] {
	return NewMap[pointXY, Pair[uint8, bool]](
		NewTuple2[uint8, bool](NewInt[uint8](8), NewBool()),
		func(p pointXY) Pair[uint8, bool] { return Pair[uint8, bool]{First: p.X, Second: p.Y} },
		func(p Pair[uint8, bool]) pointXY { return pointXY{X: p.First, Y: p.Second} },
	)
}

func TestMapRoundTripsThroughRandomMutate(t *testing.T) {
	m := newPointMutator()

	value := pointXY{X: 10, Y: false}
	cache, ok := m.Validate(&value)
	if !ok {
		t.Fatal("Validate rejected a valid point")
	}

	for i := 0; i < 50; i++ {
		before := value

		token, _ := m.RandomMutate(&value, cache, m.MaxComplexity())
		m.Unmutate(&value, cache, token)

		if value != before {
			t.Fatalf("iteration %d: Unmutate did not restore %+v, got %+v", i, before, value)
		}
	}
}

func TestMapComplexityDelegatesToInner(t *testing.T) {
	m := newPointMutator()

	value := pointXY{X: 1, Y: true}
	cache, _ := m.Validate(&value)

	got := m.Complexity(&value, cache)
	want := NewInt[uint8](8).MaxComplexity() + NewBool().MaxComplexity()

	if got != want {
		t.Fatalf("Complexity = %v, want %v", got, want)
	}
}

func TestMapArbitraryProducesFromValues(t *testing.T) {
	m := newPointMutator()

	for i := 0; i < 20; i++ {
		v, cplx := m.RandomArbitrary(m.MaxComplexity())
		if cplx <= 0 {
			t.Fatalf("RandomArbitrary returned non-positive complexity %v for %+v", cplx, v)
		}
	}
}
