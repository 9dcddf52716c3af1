package mutator

import "testing"

func consList(heads ...uint8) List {
	out := List{}
	for i := len(heads) - 1; i >= 0; i-- {
		out = List{Present: true, Cons: &ConsCell{Head: heads[i], Tail: out}}
	}

	return out
}

func TestListDepthAndSum(t *testing.T) {
	l := consList(1, 2, 3)

	if got := l.Depth(); got != 3 {
		t.Fatalf("Depth() = %d, want 3", got)
	}

	if got := l.Sum(); got != 6 {
		t.Fatalf("Sum() = %d, want 6", got)
	}

	if got := (List{}).Depth(); got != 0 {
		t.Fatalf("Depth(Nil) = %d, want 0", got)
	}
}

func TestListMutatorRandomMutateRoundTrips(t *testing.T) {
	m := NewListMutator()
	v := consList(10, 20, 30)

	cache, ok := m.Validate(&v)
	if !ok {
		t.Fatal("Validate failed")
	}

	for i := 0; i < 50; i++ {
		token, _ := m.RandomMutate(&v, cache, 64)
		m.Unmutate(&v, cache, token)
	}

	if got := v.Depth(); got != 3 {
		t.Fatalf("after 50 mutate/unmutate round trips, Depth() = %d, want 3", got)
	}

	if got := v.Sum(); got != 60 {
		t.Fatalf("after 50 mutate/unmutate round trips, Sum() = %d, want 60", got)
	}
}

// TestListMutatorRecursingPartSubstitutesTail drives the self-referential
// path scenario S2 needs directly: RecursingPart on a Cons cell must
// surface its own Tail as the candidate substructure, and substituting it
// (the move RecursiveMutator.RandomMutate takes with probability
// recurSubstituteChance) must strictly reduce depth by exactly one.
func TestListMutatorRecursingPartSubstitutesTail(t *testing.T) {
	m := NewListMutator()
	v := consList(1, 2, 3, 4, 5)

	inner, ok := m.inner.(*listMutator)
	if !ok {
		t.Fatal("RecursiveMutator.inner is not *listMutator")
	}

	idx := inner.DefaultRecursingPartIndex(&v, nil)

	part, ok := inner.RecursingPart(inner, &v, &idx)
	if !ok {
		t.Fatal("RecursingPart(Cons) should offer the tail")
	}

	tail, ok := part.(List)
	if !ok {
		t.Fatalf("RecursingPart returned %T, want List", part)
	}

	if got := tail.Depth(); got != v.Depth()-1 {
		t.Fatalf("substructure depth = %d, want %d", got, v.Depth()-1)
	}

	if got := tail.Sum(); got != v.Sum()-int(v.Cons.Head) {
		t.Fatalf("substructure sum = %d, want %d", got, v.Sum()-int(v.Cons.Head))
	}

	nilIdx := inner.DefaultRecursingPartIndex(&List{}, nil)
	if _, ok := (&listMutator{}).RecursingPart(inner, &List{}, &nilIdx); ok {
		t.Fatal("RecursingPart(Nil) should never offer a substructure")
	}
}

// TestListMutatorRandomMutateEventuallySubstitutesWholeTail exercises
// RecursiveMutator's substitution move end-to-end: repeatedly RandomMutate
// a deep list through the wrapping RecursiveMutator (not the bare
// listMutator) until the low-probability substitution branch fires, then
// Unmutate must restore the exact original list.
func TestListMutatorRandomMutateEventuallySubstitutesWholeTail(t *testing.T) {
	m := NewListMutator()
	v := consList(1, 2, 3)
	original := v

	cache, ok := m.Validate(&v)
	if !ok {
		t.Fatal("Validate failed")
	}

	substituted := false

	for i := 0; i < 5000 && !substituted; i++ {
		token, _ := m.RandomMutate(&v, cache, 64)

		if _, ok := token.Inner().(recursiveUnmutateSubstitute); ok {
			substituted = true

			if v.Depth() >= original.Depth() {
				t.Fatalf("substitution did not shrink depth: got %d, want < %d", v.Depth(), original.Depth())
			}
		}

		m.Unmutate(&v, cache, token)
	}

	if !substituted {
		t.Fatal("RecursiveMutator never took the substitution move over 5000 RandomMutate calls")
	}

	if v.Depth() != original.Depth() || v.Sum() != original.Sum() {
		t.Fatalf("after unmutating every step, v = %+v, want depth/sum matching original %+v", v, original)
	}
}
