package mutator

// Map adapts a Mutator[To] into a Mutator[From] through a pair of
// conversion functions, the same delegate-wrapper shape RecurToMutator
// uses for self-reference. It lets a generated product mutator, which
// operates on this package's own Pair/Triple/Quad value shapes, stand in
// for an arbitrary user-defined struct with the same field layout —
// internal/derive emits exactly this composition for a derived struct
// mutator.
//
// ToInner and FromInner must be exact inverses of each other: every
// mutating operation converts the live *From to a To, delegates, then
// converts the result back, so a lossy round trip would silently diverge
// from the value the driver actually holds.
type Map[From, To any] struct {
	Inner     Mutator[To]
	ToInner   func(From) To
	FromInner func(To) From
}

// NewMap builds a Map mutator delegating to inner via toInner/fromInner.
func NewMap[From, To any](inner Mutator[To], toInner func(From) To, fromInner func(To) From) *Map[From, To] {
	return &Map[From, To]{Inner: inner, ToInner: toInner, FromInner: fromInner}
}

func (m *Map[From, To]) DefaultArbitraryStep() ArbitraryStep {
	return m.Inner.DefaultArbitraryStep()
}

func (m *Map[From, To]) Validate(value *From) (any, bool) {
	to := m.ToInner(*value)
	return m.Inner.Validate(&to)
}

func (m *Map[From, To]) DefaultMutationStep(value *From, cache any) MutationStep {
	to := m.ToInner(*value)
	return m.Inner.DefaultMutationStep(&to, cache)
}

func (m *Map[From, To]) MinComplexity() float64 { return m.Inner.MinComplexity() }
func (m *Map[From, To]) MaxComplexity() float64 { return m.Inner.MaxComplexity() }

func (m *Map[From, To]) Complexity(value *From, cache any) float64 {
	to := m.ToInner(*value)
	return m.Inner.Complexity(&to, cache)
}

func (m *Map[From, To]) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) (From, float64, bool) {
	to, cplx, ok := m.Inner.OrderedArbitrary(step, maxCplx)
	if !ok {
		var zero From
		return zero, 0, false
	}

	return m.FromInner(to), cplx, true
}

func (m *Map[From, To]) RandomArbitrary(maxCplx float64) (From, float64) {
	to, cplx := m.Inner.RandomArbitrary(maxCplx)
	return m.FromInner(to), cplx
}

func (m *Map[From, To]) OrderedMutate(value *From, cache any, step *MutationStep, maxCplx float64) (UnmutateToken, float64, bool) {
	to := m.ToInner(*value)

	token, cplx, ok := m.Inner.OrderedMutate(&to, cache, step, maxCplx)
	if !ok {
		return UnmutateToken{}, 0, false
	}

	*value = m.FromInner(to)

	return token, cplx, true
}

func (m *Map[From, To]) RandomMutate(value *From, cache any, maxCplx float64) (UnmutateToken, float64) {
	to := m.ToInner(*value)
	token, cplx := m.Inner.RandomMutate(&to, cache, maxCplx)
	*value = m.FromInner(to)

	return token, cplx
}

func (m *Map[From, To]) Unmutate(value *From, cache any, token UnmutateToken) {
	to := m.ToInner(*value)
	m.Inner.Unmutate(&to, cache, token)
	*value = m.FromInner(to)
}

func (m *Map[From, To]) DefaultRecursingPartIndex(value *From, cache any) RecursingPartIndex {
	to := m.ToInner(*value)
	return m.Inner.DefaultRecursingPartIndex(&to, cache)
}

func (m *Map[From, To]) RecursingPart(parent any, value *From, index *RecursingPartIndex) (part any, ok bool) {
	to := m.ToInner(*value)
	return m.Inner.RecursingPart(parent, &to, index)
}
