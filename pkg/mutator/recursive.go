package mutator

import (
	"math/rand"
	"weak"
)

// RecurToMutator is a non-owning handle to the Mutator[T] under
// construction by a RecursiveMutator. It lets a recursive type's mutator
// (a tree, a JSON-like Value, an expression AST) refer to "the whole
// mutator, recursively" at its self-referential positions without keeping
// that mutator alive forever through a reference cycle.
//
// This is the Go analogue of the ported implementation's
// Rc::new_cyclic-built Weak<M> back-reference (see DESIGN.md): Go has no
// Rc, but Go 1.24's weak package gives the same non-owning-pointer
// property directly.
type RecurToMutator[T any] struct {
	ptr weak.Pointer[Mutator[T]]
}

func (r *RecurToMutator[T]) resolve() Mutator[T] {
	p := r.ptr.Value()
	if p == nil {
		panic("mutator: RecurToMutator resolved before its RecursiveMutator finished constructing, or after it was collected")
	}

	return *p
}

func (r *RecurToMutator[T]) DefaultArbitraryStep() ArbitraryStep {
	return r.resolve().DefaultArbitraryStep()
}

func (r *RecurToMutator[T]) Validate(value *T) (any, bool) { return r.resolve().Validate(value) }

func (r *RecurToMutator[T]) DefaultMutationStep(value *T, cache any) MutationStep {
	return r.resolve().DefaultMutationStep(value, cache)
}

func (r *RecurToMutator[T]) MinComplexity() float64 { return r.resolve().MinComplexity() }
func (r *RecurToMutator[T]) MaxComplexity() float64 { return r.resolve().MaxComplexity() }

func (r *RecurToMutator[T]) Complexity(value *T, cache any) float64 {
	return r.resolve().Complexity(value, cache)
}

func (r *RecurToMutator[T]) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) (T, float64, bool) {
	return r.resolve().OrderedArbitrary(step, maxCplx)
}

func (r *RecurToMutator[T]) RandomArbitrary(maxCplx float64) (T, float64) {
	return r.resolve().RandomArbitrary(maxCplx)
}

func (r *RecurToMutator[T]) OrderedMutate(value *T, cache any, step *MutationStep, maxCplx float64) (UnmutateToken, float64, bool) {
	return r.resolve().OrderedMutate(value, cache, step, maxCplx)
}

func (r *RecurToMutator[T]) RandomMutate(value *T, cache any, maxCplx float64) (UnmutateToken, float64) {
	return r.resolve().RandomMutate(value, cache, maxCplx)
}

func (r *RecurToMutator[T]) Unmutate(value *T, cache any, token UnmutateToken) {
	r.resolve().Unmutate(value, cache, token)
}

func (r *RecurToMutator[T]) DefaultRecursingPartIndex(value *T, cache any) RecursingPartIndex {
	return r.resolve().DefaultRecursingPartIndex(value, cache)
}

func (r *RecurToMutator[T]) RecursingPart(parent any, value *T, index *RecursingPartIndex) (any, bool) {
	return r.resolve().RecursingPart(parent, value, index)
}

// recurSubstituteChance is the probability RandomMutate replaces the whole
// value with one of its own recursively-typed sub-parts instead of
// delegating to the wrapped mutator — the source algebra's "occasionally
// shrink a recursive value by climbing down into itself" move.
const recurSubstituteChance = 0.01

// RecursiveMutator wraps a Mutator[T] built over a self-referential type T,
// additionally exploring the "replace the value with one of its own
// substructures" move via RecursingPart, which a plain delegating mutator
// cannot reach on its own.
type RecursiveMutator[T any] struct {
	inner Mutator[T]
	rng   *rand.Rand
}

// NewRecursiveMutator builds the Mutator[T] for a recursive type. build is
// handed a RecurToMutator[T] to embed at T's self-referential positions; by
// the time NewRecursiveMutator returns, the handle has been wired to
// resolve to the inner mutator that build returned.
func NewRecursiveMutator[T any](build func(recur *RecurToMutator[T]) Mutator[T]) *RecursiveMutator[T] {
	recur := &RecurToMutator[T]{}
	rm := &RecursiveMutator[T]{inner: build(recur), rng: rand.New(rand.NewSource(1))}
	recur.ptr = weak.Make(&rm.inner)

	return rm
}

func (m *RecursiveMutator[T]) DefaultArbitraryStep() ArbitraryStep {
	return m.inner.DefaultArbitraryStep()
}

func (m *RecursiveMutator[T]) Validate(value *T) (any, bool) { return m.inner.Validate(value) }

func (m *RecursiveMutator[T]) DefaultMutationStep(value *T, cache any) MutationStep {
	return m.inner.DefaultMutationStep(value, cache)
}

func (m *RecursiveMutator[T]) MinComplexity() float64 { return m.inner.MinComplexity() }
func (m *RecursiveMutator[T]) MaxComplexity() float64 { return m.inner.MaxComplexity() }

func (m *RecursiveMutator[T]) Complexity(value *T, cache any) float64 {
	return m.inner.Complexity(value, cache)
}

func (m *RecursiveMutator[T]) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) (T, float64, bool) {
	return m.inner.OrderedArbitrary(step, maxCplx)
}

func (m *RecursiveMutator[T]) RandomArbitrary(maxCplx float64) (T, float64) {
	return m.inner.RandomArbitrary(maxCplx)
}

func (m *RecursiveMutator[T]) OrderedMutate(value *T, cache any, step *MutationStep, maxCplx float64) (UnmutateToken, float64, bool) {
	return m.inner.OrderedMutate(value, cache, step, maxCplx)
}

// recursiveUnmutateSubstitute stores old as any because package-level
// types cannot close over RecursiveMutator[T]'s type parameter; Unmutate
// asserts it back to T.
type recursiveUnmutateSubstitute struct {
	old   any
	cache any
}

func (m *RecursiveMutator[T]) RandomMutate(value *T, cache any, maxCplx float64) (UnmutateToken, float64) {
	if m.rng.Float64() < recurSubstituteChance {
		idx := m.inner.DefaultRecursingPartIndex(value, cache)
		if part, ok := m.inner.RecursingPart(m.inner, value, &idx); ok {
			if typed, ok := part.(T); ok {
				old := *value
				oldCache := cache
				*value = typed

				newCache, validated := m.inner.Validate(value)
				if !validated {
					*value = old

					return m.inner.RandomMutate(value, cache, maxCplx)
				}

				return NewUnmutateToken(recursiveUnmutateSubstitute{old: old, cache: oldCache}), m.inner.Complexity(value, newCache)
			}
		}
	}

	return m.inner.RandomMutate(value, cache, maxCplx)
}

func (m *RecursiveMutator[T]) Unmutate(value *T, cache any, token UnmutateToken) {
	if sub, ok := token.Inner().(recursiveUnmutateSubstitute); ok {
		*value = sub.old.(T)

		return
	}

	m.inner.Unmutate(value, cache, token)
}

func (m *RecursiveMutator[T]) DefaultRecursingPartIndex(value *T, cache any) RecursingPartIndex {
	return m.inner.DefaultRecursingPartIndex(value, cache)
}

func (m *RecursiveMutator[T]) RecursingPart(parent any, value *T, index *RecursingPartIndex) (any, bool) {
	return m.inner.RecursingPart(parent, value, index)
}
