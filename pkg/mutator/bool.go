package mutator

import "math/rand"

// Bool is the mutator for the bool value type. It is a two-element finite
// mutator: OrderedArbitrary enumerates {false, true} then exhausts.
type Bool struct {
	rng *rand.Rand
}

// NewBool constructs a Bool mutator.
func NewBool() *Bool { return &Bool{rng: rand.New(rand.NewSource(1))} }

func (m *Bool) DefaultArbitraryStep() ArbitraryStep { return NewArbitraryStep(uint64(0)) }

func (m *Bool) Validate(_ *bool) (any, bool) { return nil, true }

func (m *Bool) DefaultMutationStep(_ *bool, _ any) MutationStep {
	return NewMutationStep(uint64(0))
}

func (m *Bool) MinComplexity() float64 { return 1.0 }
func (m *Bool) MaxComplexity() float64 { return 1.0 }

func (m *Bool) Complexity(_ *bool, _ any) float64 { return 1.0 }

func (m *Bool) OrderedArbitrary(step *ArbitraryStep, _ float64) (bool, float64, bool) {
	s, _ := step.Inner().(uint64)
	if s > 1 {
		return false, 0, false
	}

	*step = NewArbitraryStep(s + 1)

	return s == 1, 1.0, true
}

func (m *Bool) RandomArbitrary(_ float64) (bool, float64) {
	return m.rng.Intn(2) == 1, 1.0
}

func (m *Bool) OrderedMutate(value *bool, _ any, step *MutationStep, _ float64) (UnmutateToken, float64, bool) {
	s, _ := step.Inner().(uint64)
	if s > 0 {
		return UnmutateToken{}, 0, false
	}

	old := *value
	*value = !old
	*step = NewMutationStep(s + 1)

	return NewUnmutateToken(old), 1.0, true
}

func (m *Bool) RandomMutate(value *bool, _ any, _ float64) (UnmutateToken, float64) {
	old := *value
	*value = !old

	return NewUnmutateToken(old), 1.0
}

func (m *Bool) Unmutate(value *bool, _ any, token UnmutateToken) {
	*value = token.Inner().(bool)
}

func (m *Bool) DefaultRecursingPartIndex(_ *bool, _ any) RecursingPartIndex {
	return NewRecursingPartIndex(struct{}{})
}

func (m *Bool) RecursingPart(_ any, _ *bool, _ *RecursingPartIndex) (any, bool) {
	return nil, false
}
