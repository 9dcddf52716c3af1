package mutator

import "math/rand"

// Tuple3 is the product mutator over Triple[A, B, C].
type Tuple3[A, B, C any] struct {
	MA  Mutator[A]
	MB  Mutator[B]
	MC  Mutator[C]
	rng *rand.Rand
}

// NewTuple3 builds a Tuple3 mutator delegating each field to the given mutator.
func NewTuple3[A, B, C any](ma Mutator[A], mb Mutator[B], mc Mutator[C]) *Tuple3[A, B, C] {
	return &Tuple3[A, B, C]{MA: ma, MB: mb, MC: mc, rng: rand.New(rand.NewSource(1))}
}

type tuple3Cache struct{ a, b, c any }

func (m *Tuple3[A, B, C]) DefaultArbitraryStep() ArbitraryStep {
	return NewArbitraryStep(tupleArbitraryStep{})
}

func (m *Tuple3[A, B, C]) Validate(v *Triple[A, B, C]) (any, bool) {
	ca, ok := m.MA.Validate(&v.First)
	if !ok {
		return nil, false
	}

	cb, ok := m.MB.Validate(&v.Second)
	if !ok {
		return nil, false
	}

	cc, ok := m.MC.Validate(&v.Third)
	if !ok {
		return nil, false
	}

	return tuple3Cache{a: ca, b: cb, c: cc}, true
}

func (m *Tuple3[A, B, C]) DefaultMutationStep(_ *Triple[A, B, C], _ any) MutationStep {
	order := descendingByRange(
		m.MA.MaxComplexity()-m.MA.MinComplexity(),
		m.MB.MaxComplexity()-m.MB.MinComplexity(),
		m.MC.MaxComplexity()-m.MC.MinComplexity(),
	)

	return NewMutationStep(tupleMutationStep{neighbor: order})
}

func (m *Tuple3[A, B, C]) MinComplexity() float64 {
	return m.MA.MinComplexity() + m.MB.MinComplexity() + m.MC.MinComplexity()
}

func (m *Tuple3[A, B, C]) MaxComplexity() float64 {
	return m.MA.MaxComplexity() + m.MB.MaxComplexity() + m.MC.MaxComplexity()
}

func (m *Tuple3[A, B, C]) Complexity(v *Triple[A, B, C], cache any) float64 {
	c := cache.(tuple3Cache)

	return m.MA.Complexity(&v.First, c.a) + m.MB.Complexity(&v.Second, c.b) + m.MC.Complexity(&v.Third, c.c)
}

func (m *Tuple3[A, B, C]) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) (Triple[A, B, C], float64, bool) {
	s, _ := step.Inner().(tupleArbitraryStep)

	var zero Triple[A, B, C]

	if !s.started {
		s.lead = m.MA.DefaultArbitraryStep()
		s.started = true
	}

	a, ca, ok := m.MA.OrderedArbitrary(&s.lead, maxCplx)
	if !ok {
		return zero, 0, false
	}

	b, cb := m.MB.RandomArbitrary((maxCplx - ca) / 2)
	c, cc := m.MC.RandomArbitrary(maxCplx - ca - cb)
	*step = NewArbitraryStep(s)

	return Triple[A, B, C]{First: a, Second: b, Third: c}, ca + cb + cc, true
}

func (m *Tuple3[A, B, C]) RandomArbitrary(maxCplx float64) (Triple[A, B, C], float64) {
	budget := maxCplx / 3
	a, ca := m.MA.RandomArbitrary(budget)
	b, cb := m.MB.RandomArbitrary(budget)
	c, cc := m.MC.RandomArbitrary(maxCplx - ca - cb)

	return Triple[A, B, C]{First: a, Second: b, Third: c}, ca + cb + cc
}

type (
	tuple3UnmutateA struct{ token UnmutateToken }
	tuple3UnmutateB struct{ token UnmutateToken }
	tuple3UnmutateC struct{ token UnmutateToken }
)

func (m *Tuple3[A, B, C]) OrderedMutate(v *Triple[A, B, C], cache any, step *MutationStep, maxCplx float64) (UnmutateToken, float64, bool) {
	c := cache.(tuple3Cache)
	st, _ := step.Inner().(tupleMutationStep)

	if len(st.neighbor) > 0 {
		field := st.neighbor[0]
		*step = NewMutationStep(tupleMutationStep{neighbor: st.neighbor[1:]})

		switch field {
		case 0:
			as := m.MA.DefaultMutationStep(&v.First, c.a)

			tok, cplx, ok := m.MA.OrderedMutate(&v.First, c.a, &as, maxCplx)
			if !ok {
				return m.OrderedMutate(v, cache, step, maxCplx)
			}

			return NewUnmutateToken(tuple3UnmutateA{token: tok}), cplx + m.MB.Complexity(&v.Second, c.b) + m.MC.Complexity(&v.Third, c.c), true
		case 1:
			bs := m.MB.DefaultMutationStep(&v.Second, c.b)

			tok, cplx, ok := m.MB.OrderedMutate(&v.Second, c.b, &bs, maxCplx)
			if !ok {
				return m.OrderedMutate(v, cache, step, maxCplx)
			}

			return NewUnmutateToken(tuple3UnmutateB{token: tok}), cplx + m.MA.Complexity(&v.First, c.a) + m.MC.Complexity(&v.Third, c.c), true
		default:
			cs := m.MC.DefaultMutationStep(&v.Third, c.c)

			tok, cplx, ok := m.MC.OrderedMutate(&v.Third, c.c, &cs, maxCplx)
			if !ok {
				return m.OrderedMutate(v, cache, step, maxCplx)
			}

			return NewUnmutateToken(tuple3UnmutateC{token: tok}), cplx + m.MA.Complexity(&v.First, c.a) + m.MB.Complexity(&v.Second, c.b), true
		}
	}

	return m.randomMutateAsOrdered(v, c, maxCplx)
}

func (m *Tuple3[A, B, C]) randomMutateAsOrdered(v *Triple[A, B, C], c tuple3Cache, maxCplx float64) (UnmutateToken, float64, bool) {
	tok, cplx := m.RandomMutate(v, c, maxCplx)

	return tok, cplx, true
}

func (m *Tuple3[A, B, C]) RandomMutate(v *Triple[A, B, C], cache any, maxCplx float64) (UnmutateToken, float64) {
	c := cache.(tuple3Cache)
	weights := fieldWeights(
		m.MA.MaxComplexity()-m.MA.MinComplexity(),
		m.MB.MaxComplexity()-m.MB.MinComplexity(),
		m.MC.MaxComplexity()-m.MC.MinComplexity(),
	)

	switch weightedPick(m.rng, weights) {
	case 0:
		tok, cplx := m.MA.RandomMutate(&v.First, c.a, maxCplx)

		return NewUnmutateToken(tuple3UnmutateA{token: tok}), cplx + m.MB.Complexity(&v.Second, c.b) + m.MC.Complexity(&v.Third, c.c)
	case 1:
		tok, cplx := m.MB.RandomMutate(&v.Second, c.b, maxCplx)

		return NewUnmutateToken(tuple3UnmutateB{token: tok}), cplx + m.MA.Complexity(&v.First, c.a) + m.MC.Complexity(&v.Third, c.c)
	default:
		tok, cplx := m.MC.RandomMutate(&v.Third, c.c, maxCplx)

		return NewUnmutateToken(tuple3UnmutateC{token: tok}), cplx + m.MA.Complexity(&v.First, c.a) + m.MB.Complexity(&v.Second, c.b)
	}
}

func (m *Tuple3[A, B, C]) Unmutate(v *Triple[A, B, C], cache any, token UnmutateToken) {
	c := cache.(tuple3Cache)

	switch t := token.Inner().(type) {
	case tuple3UnmutateA:
		m.MA.Unmutate(&v.First, c.a, t.token)
	case tuple3UnmutateB:
		m.MB.Unmutate(&v.Second, c.b, t.token)
	case tuple3UnmutateC:
		m.MC.Unmutate(&v.Third, c.c, t.token)
	}
}

func (m *Tuple3[A, B, C]) DefaultRecursingPartIndex(_ *Triple[A, B, C], _ any) RecursingPartIndex {
	return NewRecursingPartIndex(0)
}

func (m *Tuple3[A, B, C]) RecursingPart(_ any, _ *Triple[A, B, C], _ *RecursingPartIndex) (any, bool) {
	return nil, false
}
