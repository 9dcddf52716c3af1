package mutator

// Either is a general tagged union of two value kinds. Nothing else in
// this module uses it: Opt and the List mutator carry their own
// Present/payload split, and pool.And tags its indices with a file-local
// andIndex type.
type Either[L, R any] struct {
	isRight bool
	left    L
	right   R
}

// Left wraps a left-hand value.
func Left[L, R any](v L) Either[L, R] { return Either[L, R]{left: v} }

// Right wraps a right-hand value.
func Right[L, R any](v R) Either[L, R] { return Either[L, R]{isRight: true, right: v} }

// IsRight reports which side is populated.
func (e Either[L, R]) IsRight() bool { return e.isRight }

// UnwrapLeft returns the left value and whether it was present.
func (e Either[L, R]) UnwrapLeft() (L, bool) { return e.left, !e.isRight }

// UnwrapRight returns the right value and whether it was present.
func (e Either[L, R]) UnwrapRight() (R, bool) { return e.right, e.isRight }

// optionCache is the cache Opt returns from Validate: some holds the
// payload's cache when the value is Present and is nil otherwise.
type optionCache struct {
	some any
}

// Opt is the mutator for Option-shaped values, represented as (bool, T)
// where the bool discriminates Some/None. RandomArbitrary returns Some
// whenever the complexity budget allows one, which keeps structural tests
// from degenerating to all-None.
type Opt[T any] struct {
	Elem Mutator[T]
	Bool *Bool
}

// NewOpt builds an Opt mutator delegating the payload to elem.
func NewOpt[T any](elem Mutator[T]) *Opt[T] {
	return &Opt[T]{Elem: elem, Bool: NewBool()}
}

// Value is the concrete Option representation: Present discriminates
// Some(Inner) from None.
type Value[T any] struct {
	Present bool
	Inner   T
}

func (m *Opt[T]) DefaultArbitraryStep() ArbitraryStep { return NewArbitraryStep(uint64(0)) }

func (m *Opt[T]) Validate(v *Value[T]) (any, bool) {
	if !v.Present {
		return optionCache{}, true
	}

	c, ok := m.Elem.Validate(&v.Inner)
	if !ok {
		return nil, false
	}

	return optionCache{some: c}, true
}

func (m *Opt[T]) DefaultMutationStep(_ *Value[T], _ any) MutationStep {
	return NewMutationStep(uint64(0))
}

func (m *Opt[T]) MinComplexity() float64 { return 1.0 }

func (m *Opt[T]) MaxComplexity() float64 { return 1.0 + m.Elem.MaxComplexity() }

func (m *Opt[T]) Complexity(v *Value[T], cache any) float64 {
	if !v.Present {
		return 1.0
	}

	c := cache.(optionCache)

	return 1.0 + m.Elem.Complexity(&v.Inner, c.some)
}

func (m *Opt[T]) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) (Value[T], float64, bool) {
	s, _ := step.Inner().(uint64)

	if s == 0 {
		*step = NewArbitraryStep(uint64(1))

		return Value[T]{Present: false}, 1.0, true
	}

	v, c := m.Elem.RandomArbitrary(maxCplx - 1.0)
	*step = NewArbitraryStep(s + 1)

	return Value[T]{Present: true, Inner: v}, 1.0 + c, true
}

func (m *Opt[T]) RandomArbitrary(maxCplx float64) (Value[T], float64) {
	if maxCplx < m.MinComplexity() {
		return Value[T]{Present: false}, 1.0
	}

	v, c := m.Elem.RandomArbitrary(maxCplx - 1.0)

	return Value[T]{Present: true, Inner: v}, 1.0 + c
}

type (
	optUnmutateToggleOn  struct{}
	optUnmutateToggleOff struct {
		// value is stored as any because package-level types cannot close
		// over Opt[T]'s type parameter; Unmutate asserts it back to T.
		value any
	}
	optUnmutateInner struct{ token UnmutateToken }
)

func (m *Opt[T]) OrderedMutate(v *Value[T], cache any, step *MutationStep, maxCplx float64) (UnmutateToken, float64, bool) {
	s, _ := step.Inner().(uint64)
	if s > 0 {
		return UnmutateToken{}, 0, false
	}

	*step = NewMutationStep(s + 1)

	if v.Present {
		old := v.Inner
		v.Present = false

		return NewUnmutateToken(optUnmutateToggleOff{value: old}), 1.0, true
	}

	nv, c := m.Elem.RandomArbitrary(maxCplx - 1.0)
	v.Present = true
	v.Inner = nv
	_ = cache

	return NewUnmutateToken(optUnmutateToggleOn{}), 1.0 + c, true
}

func (m *Opt[T]) RandomMutate(v *Value[T], cache any, maxCplx float64) (UnmutateToken, float64) {
	if v.Present && m.Bool.rng.Intn(4) != 0 {
		c := cache.(optionCache)
		tok, cplx := m.Elem.RandomMutate(&v.Inner, c.some, maxCplx)

		return NewUnmutateToken(optUnmutateInner{token: tok}), 1.0 + cplx
	}

	if v.Present {
		old := v.Inner
		v.Present = false

		return NewUnmutateToken(optUnmutateToggleOff{value: old}), 1.0
	}

	nv, c := m.Elem.RandomArbitrary(maxCplx - 1.0)
	v.Present = true
	v.Inner = nv

	return NewUnmutateToken(optUnmutateToggleOn{}), 1.0 + c
}

func (m *Opt[T]) Unmutate(v *Value[T], cache any, token UnmutateToken) {
	switch t := token.Inner().(type) {
	case optUnmutateToggleOn:
		v.Present = false
	case optUnmutateToggleOff:
		v.Present = true
		v.Inner = t.value.(T)
	case optUnmutateInner:
		c := cache.(optionCache)
		m.Elem.Unmutate(&v.Inner, c.some, t.token)
	}
}

func (m *Opt[T]) DefaultRecursingPartIndex(_ *Value[T], _ any) RecursingPartIndex {
	return NewRecursingPartIndex(0)
}

func (m *Opt[T]) RecursingPart(_ any, _ *Value[T], _ *RecursingPartIndex) (any, bool) {
	return nil, false
}
