package mutator

import "testing"

func TestRecurToMutatorPanicsBeforeResolved(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("resolving an unwired RecurToMutator should panic")
		}
	}()

	var r RecurToMutator[uint8]
	r.resolve()
}

// TestRecursiveMutatorDelegatesWhenNeverSubstituting builds a
// RecursiveMutator whose build function never touches its RecurToMutator
// handle (the degenerate, non-recursive case), and checks the wrapper
// behaves identically to its inner mutator for the delegating methods.
func TestRecursiveMutatorDelegatesWhenNeverSubstituting(t *testing.T) {
	rm := NewRecursiveMutator[uint8](func(recur *RecurToMutator[uint8]) Mutator[uint8] {
		return NewInt[uint8](8)
	})

	v := uint8(10)
	cache, ok := rm.Validate(&v)
	if !ok {
		t.Fatal("Validate failed")
	}

	if got := rm.Complexity(&v, cache); got < rm.MinComplexity() || got > rm.MaxComplexity() {
		t.Fatalf("Complexity() = %f, outside [%f, %f]", got, rm.MinComplexity(), rm.MaxComplexity())
	}

	token, _ := rm.RandomMutate(&v, cache, 10)
	rm.Unmutate(&v, cache, token)

	if v != 10 {
		t.Fatalf("Unmutate did not restore the original value, got %d", v)
	}
}

// TestRecursiveMutatorSubstitutesSelfReferentialSubstructure is the
// companion to TestRecursiveMutatorDelegatesWhenNeverSubstituting: it wires
// the RecurToMutator handle to a genuinely self-referential type (the
// Cons/Nil list in list.go, built via NewListMutator) and drives enough
// RandomMutate calls to observe the recursiveUnmutateSubstitute move fire,
// which the never-substituting test cannot exercise by construction. See
// list_test.go's TestListMutatorRandomMutateEventuallySubstitutesWholeTail
// and TestListMutatorRecursingPartSubstitutesTail for the RecursingPart
// mechanics this move depends on.
func TestRecursiveMutatorSubstitutesSelfReferentialSubstructure(t *testing.T) {
	rm := NewListMutator()
	v := consList(1, 2, 3, 4)

	cache, ok := rm.Validate(&v)
	if !ok {
		t.Fatal("Validate failed")
	}

	for i := 0; i < 5000; i++ {
		token, _ := rm.RandomMutate(&v, cache, 64)

		if _, ok := token.Inner().(recursiveUnmutateSubstitute); ok {
			rm.Unmutate(&v, cache, token)

			return
		}

		rm.Unmutate(&v, cache, token)
	}

	t.Fatal("RecursiveMutator never substituted a self-referential substructure over 5000 RandomMutate calls")
}
