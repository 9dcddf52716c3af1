package mutator

import "math/rand"

// Pair, Triple, and Quad are the product (tuple/struct) value shapes the
// Tuple2/Tuple3/Tuple4 mutators operate over. Go has no literal tuple type,
// so these named-field structs stand in for it — the same role
// `(u8, u8, u8, u8)` plays in an integer-sum fuzz target.
type Pair[A, B any] struct {
	First  A
	Second B
}

type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

type Quad[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

// tupleArbitraryStep drives product enumeration by deterministically
// walking the first field's ArbitraryStep and drawing the remaining
// fields at random each time — a full cross-product enumeration is both
// unbounded and rarely useful for fuzzing, so only the leading field is
// enumerated in simplest-first order.
type tupleArbitraryStep struct {
	lead    ArbitraryStep
	started bool
}

type tupleMutationStep struct {
	// neighbor holds the complexity-descending field indices not yet
	// given their one guaranteed "neighbor" mutation pass.
	neighbor []int
}

// fieldWeights turns each field mutator's complexity range (max-min) into a
// selection weight for a weighted-index field-pick strategy. A zero-range
// field (e.g. a finite leaf already at max complexity) still gets a floor
// weight so it is not starved entirely.
func fieldWeights(ranges ...float64) []float64 {
	out := make([]float64, len(ranges))

	for i, r := range ranges {
		if r < 0.01 {
			r = 0.01
		}

		out[i] = r
	}

	return out
}

func weightedPick(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	x := rng.Float64() * total

	for i, w := range weights {
		if x < w {
			return i
		}

		x -= w
	}

	return len(weights) - 1
}

func descendingByRange(ranges ...float64) []int {
	idx := make([]int, len(ranges))
	for i := range idx {
		idx[i] = i
	}

	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && ranges[idx[j-1]] < ranges[idx[j]]; j-- {
			idx[j-1], idx[j] = idx[j], idx[j-1]
		}
	}

	return idx
}

// Tuple2 is the product mutator over Pair[A, B].
type Tuple2[A, B any] struct {
	MA  Mutator[A]
	MB  Mutator[B]
	rng *rand.Rand
}

// NewTuple2 builds a Tuple2 mutator delegating field A to ma and field B to mb.
func NewTuple2[A, B any](ma Mutator[A], mb Mutator[B]) *Tuple2[A, B] {
	return &Tuple2[A, B]{MA: ma, MB: mb, rng: rand.New(rand.NewSource(1))}
}

type tuple2Cache struct{ a, b any }

func (m *Tuple2[A, B]) DefaultArbitraryStep() ArbitraryStep {
	return NewArbitraryStep(tupleArbitraryStep{})
}

func (m *Tuple2[A, B]) Validate(v *Pair[A, B]) (any, bool) {
	ca, ok := m.MA.Validate(&v.First)
	if !ok {
		return nil, false
	}

	cb, ok := m.MB.Validate(&v.Second)
	if !ok {
		return nil, false
	}

	return tuple2Cache{a: ca, b: cb}, true
}

func (m *Tuple2[A, B]) DefaultMutationStep(_ *Pair[A, B], _ any) MutationStep {
	order := descendingByRange(m.MA.MaxComplexity()-m.MA.MinComplexity(), m.MB.MaxComplexity()-m.MB.MinComplexity())

	return NewMutationStep(tupleMutationStep{neighbor: order})
}

func (m *Tuple2[A, B]) MinComplexity() float64 { return m.MA.MinComplexity() + m.MB.MinComplexity() }
func (m *Tuple2[A, B]) MaxComplexity() float64 { return m.MA.MaxComplexity() + m.MB.MaxComplexity() }

func (m *Tuple2[A, B]) Complexity(v *Pair[A, B], cache any) float64 {
	c := cache.(tuple2Cache)

	return m.MA.Complexity(&v.First, c.a) + m.MB.Complexity(&v.Second, c.b)
}

func (m *Tuple2[A, B]) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) (Pair[A, B], float64, bool) {
	s, _ := step.Inner().(tupleArbitraryStep)

	var zero Pair[A, B]

	if !s.started {
		s.lead = m.MA.DefaultArbitraryStep()
		s.started = true
	}

	a, ca, ok := m.MA.OrderedArbitrary(&s.lead, maxCplx)
	if !ok {
		return zero, 0, false
	}

	b, cb := m.MB.RandomArbitrary(maxCplx - ca)
	*step = NewArbitraryStep(s)

	return Pair[A, B]{First: a, Second: b}, ca + cb, true
}

func (m *Tuple2[A, B]) RandomArbitrary(maxCplx float64) (Pair[A, B], float64) {
	budget := maxCplx / 2
	a, ca := m.MA.RandomArbitrary(budget)
	b, cb := m.MB.RandomArbitrary(maxCplx - ca)

	return Pair[A, B]{First: a, Second: b}, ca + cb
}

type tuple2UnmutateA struct{ token UnmutateToken }
type tuple2UnmutateB struct{ token UnmutateToken }

func (m *Tuple2[A, B]) OrderedMutate(v *Pair[A, B], cache any, step *MutationStep, maxCplx float64) (UnmutateToken, float64, bool) {
	c := cache.(tuple2Cache)
	st, _ := step.Inner().(tupleMutationStep)

	if len(st.neighbor) > 0 {
		field := st.neighbor[0]
		rest := st.neighbor[1:]
		*step = NewMutationStep(tupleMutationStep{neighbor: rest})

		switch field {
		case 0:
			as := m.MA.DefaultMutationStep(&v.First, c.a)

			tok, cplx, ok := m.MA.OrderedMutate(&v.First, c.a, &as, maxCplx)
			if !ok {
				return m.OrderedMutate(v, cache, step, maxCplx)
			}

			return NewUnmutateToken(tuple2UnmutateA{token: tok}), cplx + m.MB.Complexity(&v.Second, c.b), true
		default:
			bs := m.MB.DefaultMutationStep(&v.Second, c.b)

			tok, cplx, ok := m.MB.OrderedMutate(&v.Second, c.b, &bs, maxCplx)
			if !ok {
				return m.OrderedMutate(v, cache, step, maxCplx)
			}

			return NewUnmutateToken(tuple2UnmutateB{token: tok}), cplx + m.MA.Complexity(&v.First, c.a), true
		}
	}

	return m.randomMutateAsOrdered(v, c, maxCplx)
}

func (m *Tuple2[A, B]) randomMutateAsOrdered(v *Pair[A, B], c tuple2Cache, maxCplx float64) (UnmutateToken, float64, bool) {
	tok, cplx := m.RandomMutate(v, c, maxCplx)

	return tok, cplx, true
}

func (m *Tuple2[A, B]) RandomMutate(v *Pair[A, B], cache any, maxCplx float64) (UnmutateToken, float64) {
	c := cache.(tuple2Cache)
	weights := fieldWeights(m.MA.MaxComplexity()-m.MA.MinComplexity(), m.MB.MaxComplexity()-m.MB.MinComplexity())

	if weightedPick(m.rng, weights) == 0 {
		tok, cplx := m.MA.RandomMutate(&v.First, c.a, maxCplx)

		return NewUnmutateToken(tuple2UnmutateA{token: tok}), cplx + m.MB.Complexity(&v.Second, c.b)
	}

	tok, cplx := m.MB.RandomMutate(&v.Second, c.b, maxCplx)

	return NewUnmutateToken(tuple2UnmutateB{token: tok}), cplx + m.MA.Complexity(&v.First, c.a)
}

func (m *Tuple2[A, B]) Unmutate(v *Pair[A, B], cache any, token UnmutateToken) {
	c := cache.(tuple2Cache)

	switch t := token.Inner().(type) {
	case tuple2UnmutateA:
		m.MA.Unmutate(&v.First, c.a, t.token)
	case tuple2UnmutateB:
		m.MB.Unmutate(&v.Second, c.b, t.token)
	}
}

func (m *Tuple2[A, B]) DefaultRecursingPartIndex(v *Pair[A, B], cache any) RecursingPartIndex {
	return NewRecursingPartIndex(0)
}

func (m *Tuple2[A, B]) RecursingPart(_ any, _ *Pair[A, B], _ *RecursingPartIndex) (any, bool) {
	return nil, false
}
