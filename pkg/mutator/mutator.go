// Package mutator implements the compositional, incremental value-generation
// and mutation algebra the fuzzing engine is built on: typed, undoable
// mutations, deterministic enumeration, and complexity tracking over an
// arbitrary value type T.
package mutator

import "math"

// ArbitraryStep is the global progress cursor used by OrderedArbitrary to
// enumerate fresh values deterministically, starting from the simplest.
// Concrete mutators define their own step type internally and expose it
// through this opaque wrapper.
type ArbitraryStep struct {
	inner any
}

// NewArbitraryStep wraps a mutator-specific cursor value.
func NewArbitraryStep(inner any) ArbitraryStep { return ArbitraryStep{inner: inner} }

// Inner returns the wrapped cursor, for use by the mutator that created it.
func (s ArbitraryStep) Inner() any { return s.inner }

// MutationStep is the opaque per-value progress cursor used by
// OrderedMutate to enumerate mutations of one value deterministically.
type MutationStep struct {
	inner any
}

// NewMutationStep wraps a mutator-specific cursor value.
func NewMutationStep(inner any) MutationStep { return MutationStep{inner: inner} }

// Inner returns the wrapped cursor, for use by the mutator that created it.
func (s MutationStep) Inner() any { return s.inner }

// UnmutateToken reverses the last mutation applied to a (value, cache) pair.
// It must be applied exactly once, in LIFO order with respect to mutations.
type UnmutateToken struct {
	inner any
}

// NewUnmutateToken wraps a mutator-specific token value.
func NewUnmutateToken(inner any) UnmutateToken { return UnmutateToken{inner: inner} }

// Inner returns the wrapped token, for use by the mutator that created it.
func (t UnmutateToken) Inner() any { return t.inner }

// RecursingPartIndex is an opaque cursor identifying a sub-position within a
// value that is structurally equivalent to the whole, used to implement the
// "replace self by a substructure" shrinking move on recursive types.
type RecursingPartIndex struct {
	inner any
}

// NewRecursingPartIndex wraps a mutator-specific index value.
func NewRecursingPartIndex(inner any) RecursingPartIndex { return RecursingPartIndex{inner: inner} }

// Inner returns the wrapped index, for use by the mutator that created it.
func (i RecursingPartIndex) Inner() any { return i.inner }

// Mutator is the contract every value-generation/mutation implementation
// must satisfy for a value type T. Cache is an opaque per-value memoization
// attached to a value by Validate; it is valid only for the value it was
// produced from. All operations except Validate are total and must never
// panic.
//
// Because Go forbids type parameters on interface methods, the
// RecursingPart operation (generic over the sub-mutator's value and
// mutator type in the original algebra) is expressed here with `any` and a
// type assertion performed by the caller — the same technique the ported
// Rust implementation uses internally via `dyn Any` downcasting.
type Mutator[T any] interface {
	// DefaultArbitraryStep returns the initial enumeration cursor.
	DefaultArbitraryStep() ArbitraryStep

	// Validate returns the Cache for value, or ok=false if value violates
	// one of this mutator's invariants (e.g. an out-of-range enum
	// discriminant after deserialization). This is the only fallible
	// operation in the contract.
	Validate(value *T) (cache any, ok bool)

	// DefaultMutationStep returns the initial mutation cursor for value.
	DefaultMutationStep(value *T, cache any) MutationStep

	// MinComplexity and MaxComplexity bound Complexity's return value.
	MinComplexity() float64
	MaxComplexity() float64

	// Complexity assigns a nonnegative, deterministic size-proxy to value.
	Complexity(value *T, cache any) float64

	// OrderedArbitrary deterministically enumerates values from simplest
	// to most complex, respecting maxCplx. It returns ok=false once the
	// step is exhausted or no further value fits under maxCplx.
	OrderedArbitrary(step *ArbitraryStep, maxCplx float64) (value T, cplx float64, ok bool)

	// RandomArbitrary produces a probabilistic fresh value within the
	// complexity budget maxCplx.
	RandomArbitrary(maxCplx float64) (value T, cplx float64)

	// OrderedMutate performs one deterministic step of enumeration over
	// the mutations of value, respecting maxCplx. Applying Unmutate with
	// the returned token must restore value and cache exactly to their
	// pre-call state. ok=false means step is exhausted.
	OrderedMutate(value *T, cache any, step *MutationStep, maxCplx float64) (token UnmutateToken, cplx float64, ok bool)

	// RandomMutate is the non-deterministic counterpart of OrderedMutate;
	// it always succeeds.
	RandomMutate(value *T, cache any, maxCplx float64) (token UnmutateToken, cplx float64)

	// Unmutate reverses the effect of the mutation that produced token.
	Unmutate(value *T, cache any, token UnmutateToken)

	// DefaultRecursingPartIndex returns the initial cursor for
	// RecursingPart.
	DefaultRecursingPartIndex(value *T, cache any) RecursingPartIndex

	// RecursingPart iterates sub-positions of value that are
	// structurally compatible with parent, advancing index each call.
	// parent is the mutator attempting to replace a whole value with one
	// of its own sub-parts; part is the sub-value itself, returned as any
	// (the caller performs the type assertion to the expected sub-value
	// type, since Go methods cannot add new type parameters). Returns
	// ok=false once exhausted or incompatible.
	RecursingPart(parent any, value *T, index *RecursingPartIndex) (part any, ok bool)
}

// ClampComplexity clamps c into [min, max], guarding against mutators that
// compute slightly out-of-bounds values due to floating point error.
func ClampComplexity(c, min, max float64) float64 {
	if math.IsNaN(c) {
		return min
	}

	if c < min {
		return min
	}

	if c > max {
		return max
	}

	return c
}
