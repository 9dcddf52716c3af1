package mutator

import "math/rand"

// Tuple4 is the product mutator over Quad[A, B, C, D], used for
// four-field predicates such as an (u8, u8, u8, u8) integer-sum target.
type Tuple4[A, B, C, D any] struct {
	MA  Mutator[A]
	MB  Mutator[B]
	MC  Mutator[C]
	MD  Mutator[D]
	rng *rand.Rand
}

// NewTuple4 builds a Tuple4 mutator delegating each field to the given mutator.
func NewTuple4[A, B, C, D any](ma Mutator[A], mb Mutator[B], mc Mutator[C], md Mutator[D]) *Tuple4[A, B, C, D] {
	return &Tuple4[A, B, C, D]{MA: ma, MB: mb, MC: mc, MD: md, rng: rand.New(rand.NewSource(1))}
}

type tuple4Cache struct{ a, b, c, d any }

func (m *Tuple4[A, B, C, D]) DefaultArbitraryStep() ArbitraryStep {
	return NewArbitraryStep(tupleArbitraryStep{})
}

func (m *Tuple4[A, B, C, D]) Validate(v *Quad[A, B, C, D]) (any, bool) {
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

	cd, ok := m.MD.Validate(&v.Fourth)
	if !ok {
		return nil, false
	}

	return tuple4Cache{a: ca, b: cb, c: cc, d: cd}, true
}

func (m *Tuple4[A, B, C, D]) DefaultMutationStep(_ *Quad[A, B, C, D], _ any) MutationStep {
	order := descendingByRange(
		m.MA.MaxComplexity()-m.MA.MinComplexity(),
		m.MB.MaxComplexity()-m.MB.MinComplexity(),
		m.MC.MaxComplexity()-m.MC.MinComplexity(),
		m.MD.MaxComplexity()-m.MD.MinComplexity(),
	)

	return NewMutationStep(tupleMutationStep{neighbor: order})
}

func (m *Tuple4[A, B, C, D]) MinComplexity() float64 {
	return m.MA.MinComplexity() + m.MB.MinComplexity() + m.MC.MinComplexity() + m.MD.MinComplexity()
}

func (m *Tuple4[A, B, C, D]) MaxComplexity() float64 {
	return m.MA.MaxComplexity() + m.MB.MaxComplexity() + m.MC.MaxComplexity() + m.MD.MaxComplexity()
}

func (m *Tuple4[A, B, C, D]) Complexity(v *Quad[A, B, C, D], cache any) float64 {
	c := cache.(tuple4Cache)

	return m.MA.Complexity(&v.First, c.a) + m.MB.Complexity(&v.Second, c.b) +
		m.MC.Complexity(&v.Third, c.c) + m.MD.Complexity(&v.Fourth, c.d)
}

func (m *Tuple4[A, B, C, D]) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) (Quad[A, B, C, D], float64, bool) {
	s, _ := step.Inner().(tupleArbitraryStep)

	var zero Quad[A, B, C, D]

	if !s.started {
		s.lead = m.MA.DefaultArbitraryStep()
		s.started = true
	}

	a, ca, ok := m.MA.OrderedArbitrary(&s.lead, maxCplx)
	if !ok {
		return zero, 0, false
	}

	rem := maxCplx - ca
	b, cb := m.MB.RandomArbitrary(rem / 3)
	c, cc := m.MC.RandomArbitrary(rem / 3)
	d, cd := m.MD.RandomArbitrary(rem - cb - cc)
	*step = NewArbitraryStep(s)

	return Quad[A, B, C, D]{First: a, Second: b, Third: c, Fourth: d}, ca + cb + cc + cd, true
}

func (m *Tuple4[A, B, C, D]) RandomArbitrary(maxCplx float64) (Quad[A, B, C, D], float64) {
	budget := maxCplx / 4
	a, ca := m.MA.RandomArbitrary(budget)
	b, cb := m.MB.RandomArbitrary(budget)
	c, cc := m.MC.RandomArbitrary(budget)
	d, cd := m.MD.RandomArbitrary(maxCplx - ca - cb - cc)

	return Quad[A, B, C, D]{First: a, Second: b, Third: c, Fourth: d}, ca + cb + cc + cd
}

type (
	tuple4UnmutateA struct{ token UnmutateToken }
	tuple4UnmutateB struct{ token UnmutateToken }
	tuple4UnmutateC struct{ token UnmutateToken }
	tuple4UnmutateD struct{ token UnmutateToken }
)

func (m *Tuple4[A, B, C, D]) OrderedMutate(v *Quad[A, B, C, D], cache any, step *MutationStep, maxCplx float64) (UnmutateToken, float64, bool) {
	c := cache.(tuple4Cache)
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

			return NewUnmutateToken(tuple4UnmutateA{token: tok}), cplx + m.restComplexity(v, c, 0), true
		case 1:
			bs := m.MB.DefaultMutationStep(&v.Second, c.b)

			tok, cplx, ok := m.MB.OrderedMutate(&v.Second, c.b, &bs, maxCplx)
			if !ok {
				return m.OrderedMutate(v, cache, step, maxCplx)
			}

			return NewUnmutateToken(tuple4UnmutateB{token: tok}), cplx + m.restComplexity(v, c, 1), true
		case 2:
			cs := m.MC.DefaultMutationStep(&v.Third, c.c)

			tok, cplx, ok := m.MC.OrderedMutate(&v.Third, c.c, &cs, maxCplx)
			if !ok {
				return m.OrderedMutate(v, cache, step, maxCplx)
			}

			return NewUnmutateToken(tuple4UnmutateC{token: tok}), cplx + m.restComplexity(v, c, 2), true
		default:
			ds := m.MD.DefaultMutationStep(&v.Fourth, c.d)

			tok, cplx, ok := m.MD.OrderedMutate(&v.Fourth, c.d, &ds, maxCplx)
			if !ok {
				return m.OrderedMutate(v, cache, step, maxCplx)
			}

			return NewUnmutateToken(tuple4UnmutateD{token: tok}), cplx + m.restComplexity(v, c, 3), true
		}
	}

	return m.randomMutateAsOrdered(v, c, maxCplx)
}

// restComplexity sums the complexity of every field except skip, given the
// field just mutated has its complexity already folded in by the caller.
func (m *Tuple4[A, B, C, D]) restComplexity(v *Quad[A, B, C, D], c tuple4Cache, skip int) float64 {
	var total float64
	if skip != 0 {
		total += m.MA.Complexity(&v.First, c.a)
	}

	if skip != 1 {
		total += m.MB.Complexity(&v.Second, c.b)
	}

	if skip != 2 {
		total += m.MC.Complexity(&v.Third, c.c)
	}

	if skip != 3 {
		total += m.MD.Complexity(&v.Fourth, c.d)
	}

	return total
}

func (m *Tuple4[A, B, C, D]) randomMutateAsOrdered(v *Quad[A, B, C, D], c tuple4Cache, maxCplx float64) (UnmutateToken, float64, bool) {
	tok, cplx := m.RandomMutate(v, c, maxCplx)

	return tok, cplx, true
}

func (m *Tuple4[A, B, C, D]) RandomMutate(v *Quad[A, B, C, D], cache any, maxCplx float64) (UnmutateToken, float64) {
	c := cache.(tuple4Cache)
	weights := fieldWeights(
		m.MA.MaxComplexity()-m.MA.MinComplexity(),
		m.MB.MaxComplexity()-m.MB.MinComplexity(),
		m.MC.MaxComplexity()-m.MC.MinComplexity(),
		m.MD.MaxComplexity()-m.MD.MinComplexity(),
	)

	switch weightedPick(m.rng, weights) {
	case 0:
		tok, cplx := m.MA.RandomMutate(&v.First, c.a, maxCplx)

		return NewUnmutateToken(tuple4UnmutateA{token: tok}), cplx + m.restComplexity(v, c, 0)
	case 1:
		tok, cplx := m.MB.RandomMutate(&v.Second, c.b, maxCplx)

		return NewUnmutateToken(tuple4UnmutateB{token: tok}), cplx + m.restComplexity(v, c, 1)
	case 2:
		tok, cplx := m.MC.RandomMutate(&v.Third, c.c, maxCplx)

		return NewUnmutateToken(tuple4UnmutateC{token: tok}), cplx + m.restComplexity(v, c, 2)
	default:
		tok, cplx := m.MD.RandomMutate(&v.Fourth, c.d, maxCplx)

		return NewUnmutateToken(tuple4UnmutateD{token: tok}), cplx + m.restComplexity(v, c, 3)
	}
}

func (m *Tuple4[A, B, C, D]) Unmutate(v *Quad[A, B, C, D], cache any, token UnmutateToken) {
	c := cache.(tuple4Cache)

	switch t := token.Inner().(type) {
	case tuple4UnmutateA:
		m.MA.Unmutate(&v.First, c.a, t.token)
	case tuple4UnmutateB:
		m.MB.Unmutate(&v.Second, c.b, t.token)
	case tuple4UnmutateC:
		m.MC.Unmutate(&v.Third, c.c, t.token)
	case tuple4UnmutateD:
		m.MD.Unmutate(&v.Fourth, c.d, t.token)
	}
}

func (m *Tuple4[A, B, C, D]) DefaultRecursingPartIndex(_ *Quad[A, B, C, D], _ any) RecursingPartIndex {
	return NewRecursingPartIndex(0)
}

func (m *Tuple4[A, B, C, D]) RecursingPart(_ any, _ *Quad[A, B, C, D], _ *RecursingPartIndex) (any, bool) {
	return nil, false
}
