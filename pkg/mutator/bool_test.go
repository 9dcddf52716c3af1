package mutator

import "testing"

func TestBoolOrderedArbitraryEnumeratesBothValues(t *testing.T) {
	m := NewBool()
	step := m.DefaultArbitraryStep()

	seen := map[bool]bool{}
	for {
		v, _, ok := m.OrderedArbitrary(&step, 10)
		if !ok {
			break
		}
		seen[v] = true
	}

	if !seen[false] || !seen[true] {
		t.Fatalf("OrderedArbitrary() enumerated %v, want both false and true", seen)
	}
	if len(seen) != 2 {
		t.Fatalf("OrderedArbitrary() enumerated %d distinct values, want exactly 2", len(seen))
	}
}

func TestBoolUnmutateIsExactInverse(t *testing.T) {
	m := NewBool()
	v := false

	token, _ := m.RandomMutate(&v, nil, 10)
	if !v {
		t.Fatal("RandomMutate on a bool must flip it")
	}

	m.Unmutate(&v, nil, token)
	if v {
		t.Fatal("Unmutate did not restore the original false value")
	}
}

func TestBoolOrderedMutateFlipsThenExhausts(t *testing.T) {
	m := NewBool()
	v := true
	step := m.DefaultMutationStep(&v, nil)

	token, _, ok := m.OrderedMutate(&v, nil, &step, 10)
	if !ok {
		t.Fatal("first OrderedMutate call should succeed")
	}
	if v {
		t.Fatal("OrderedMutate did not flip true to false")
	}

	m.Unmutate(&v, nil, token)
	if !v {
		t.Fatal("Unmutate did not restore true")
	}

	if _, _, ok := m.OrderedMutate(&v, nil, &step, 10); ok {
		t.Fatal("Bool has exactly one ordered mutation; a second call should exhaust")
	}
}
