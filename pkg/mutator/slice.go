package mutator

import "math/rand"

// sliceLenRange bounds how many elements a Slice mutator will generate or
// grow to.
type sliceLenRange struct {
	min, max int
}

// Slice mutates []T by delegating element generation/mutation to Elem and
// additionally exploring the collection-level moves: insert a fresh
// element, delete an element, and swap two elements. Complexity is one
// base term plus the sum of element complexities plus a per-element length
// term, so that shorter slices of equally-simple elements are preferred.
type Slice[T any] struct {
	Elem     Mutator[T]
	lenRange sliceLenRange
	rng      *rand.Rand
}

// NewSlice builds a Slice mutator over elements of type T, bounded to
// [minLen, maxLen] elements inclusive.
func NewSlice[T any](elem Mutator[T], minLen, maxLen int) *Slice[T] {
	if minLen < 0 || maxLen < minLen {
		panic("mutator: invalid Slice length range")
	}

	return &Slice[T]{Elem: elem, lenRange: sliceLenRange{min: minLen, max: maxLen}, rng: rand.New(rand.NewSource(1))}
}

const sliceLengthComplexity = 1.0

// sliceCache is always boxed into the Mutator contract's `cache any` as a
// *sliceCache, never a value — length-changing mutations (insert/delete)
// must grow or shrink elems in place so every caller holding the same
// cache value (Complexity, a later OrderedMutate/RandomMutate call,
// Unmutate) observes the update. A value-typed sliceCache would let each
// such call mutate only its own local copy of the slice header, leaving
// the caller's cache desynchronized from *value.
type sliceCache struct {
	elems []any
}

func (m *Slice[T]) DefaultArbitraryStep() ArbitraryStep {
	return NewArbitraryStep(uint64(0))
}

func (m *Slice[T]) Validate(value *[]T) (any, bool) {
	v := *value
	if len(v) < m.lenRange.min || (m.lenRange.max >= 0 && len(v) > m.lenRange.max) {
		return nil, false
	}

	caches := make([]any, len(v))

	for i := range v {
		c, ok := m.Elem.Validate(&v[i])
		if !ok {
			return nil, false
		}

		caches[i] = c
	}

	return &sliceCache{elems: caches}, true
}

func (m *Slice[T]) DefaultMutationStep(_ *[]T, _ any) MutationStep {
	return NewMutationStep(uint64(0))
}

func (m *Slice[T]) MinComplexity() float64 {
	return sliceLengthComplexity + float64(m.lenRange.min)*(m.Elem.MinComplexity()+sliceLengthComplexity)
}

func (m *Slice[T]) MaxComplexity() float64 {
	if m.lenRange.max < 0 {
		return m.Elem.MaxComplexity() * 4096
	}

	return sliceLengthComplexity + float64(m.lenRange.max)*(m.Elem.MaxComplexity()+sliceLengthComplexity)
}

func (m *Slice[T]) Complexity(value *[]T, cache any) float64 {
	c := cache.(*sliceCache)
	total := sliceLengthComplexity

	v := *value
	for i := range v {
		total += m.Elem.Complexity(&v[i], c.elems[i]) + sliceLengthComplexity
	}

	return total
}

func (m *Slice[T]) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) ([]T, float64, bool) {
	s, _ := step.Inner().(uint64)
	n := m.lenRange.min + int(s)

	if m.lenRange.max >= 0 && n > m.lenRange.max {
		return nil, 0, false
	}

	out := make([]T, n)
	total := sliceLengthComplexity

	for i := 0; i < n; i++ {
		v, c := m.Elem.RandomArbitrary((maxCplx - total) / float64(n-i+1))
		out[i] = v
		total += c + sliceLengthComplexity

		if total > maxCplx {
			return nil, 0, false
		}
	}

	*step = NewArbitraryStep(s + 1)

	return out, total, true
}

func (m *Slice[T]) RandomArbitrary(maxCplx float64) ([]T, float64) {
	span := m.lenRange.max - m.lenRange.min
	n := m.lenRange.min

	if span > 0 {
		n += m.rng.Intn(span + 1)
	}

	out := make([]T, n)
	total := sliceLengthComplexity

	for i := 0; i < n; i++ {
		budget := maxCplx - total
		if budget < 0 {
			budget = 0
		}

		v, c := m.Elem.RandomArbitrary(budget / float64(n-i+1))
		out[i] = v
		total += c + sliceLengthComplexity
	}

	return out, total
}

type (
	sliceUnmutateElem struct {
		index int
		token UnmutateToken
	}
	sliceUnmutateInsert struct{ index int }
	sliceUnmutateDelete struct {
		index   int
		value   any
		cache   any
	}
	sliceUnmutateSwap struct{ i, j int }
)

// OrderedMutate advances a cursor s on every call and tries the first
// ordered mutation of element s % len; when that fails (or the slice is
// empty) it appends a fresh random element while the slice is below its
// maximum length, and otherwise reports exhaustion. It never deletes
// elements. This favors per-element edits over changes to the collection's
// shape.
func (m *Slice[T]) OrderedMutate(value *[]T, cache any, step *MutationStep, maxCplx float64) (UnmutateToken, float64, bool) {
	c := cache.(*sliceCache)
	s, _ := step.Inner().(uint64)
	v := *value

	if len(v) > 0 {
		idx := int(s) % len(v)
		es := m.Elem.DefaultMutationStep(&v[idx], c.elems[idx])

		tok, cplx, ok := m.Elem.OrderedMutate(&v[idx], c.elems[idx], &es, maxCplx)
		if ok {
			*step = NewMutationStep(s + 1)

			return NewUnmutateToken(sliceUnmutateElem{index: idx, token: tok}), cplx, true
		}
	}

	if m.lenRange.max < 0 || len(v) < m.lenRange.max {
		nv, ncplx := m.Elem.RandomArbitrary(maxCplx)
		*value = append(v, nv)
		c.elems = append(c.elems, nil)
		*step = NewMutationStep(s + 1)

		return NewUnmutateToken(sliceUnmutateInsert{index: len(v)}), ncplx, true
	}

	return UnmutateToken{}, 0, false
}

func (m *Slice[T]) RandomMutate(value *[]T, cache any, maxCplx float64) (UnmutateToken, float64) {
	c := cache.(*sliceCache)
	v := *value

	choice := m.rng.Intn(3)
	if len(v) == 0 {
		choice = 0
	}

	switch choice {
	case 0:
		if m.lenRange.max >= 0 && len(v) >= m.lenRange.max {
			return m.randomMutateElem(value, c, maxCplx)
		}

		idx := m.rng.Intn(len(v) + 1)
		nv, ncplx := m.Elem.RandomArbitrary(maxCplx)
		*value = append(v[:idx:idx], append([]T{nv}, v[idx:]...)...)
		c.elems = append(c.elems[:idx:idx], append([]any{nil}, c.elems[idx:]...)...)

		return NewUnmutateToken(sliceUnmutateInsert{index: idx}), ncplx
	case 1:
		if len(v) <= m.lenRange.min {
			return m.randomMutateElem(value, c, maxCplx)
		}

		idx := m.rng.Intn(len(v))
		old := v[idx]
		oldCache := c.elems[idx]
		*value = append(v[:idx], v[idx+1:]...)
		c.elems = append(c.elems[:idx], c.elems[idx+1:]...)

		return NewUnmutateToken(sliceUnmutateDelete{index: idx, value: old, cache: oldCache}), m.Elem.MinComplexity()
	default:
		if len(v) < 2 {
			return m.randomMutateElem(value, c, maxCplx)
		}

		i := m.rng.Intn(len(v))
		j := m.rng.Intn(len(v))
		v[i], v[j] = v[j], v[i]
		c.elems[i], c.elems[j] = c.elems[j], c.elems[i]

		return NewUnmutateToken(sliceUnmutateSwap{i: i, j: j}), 0
	}
}

func (m *Slice[T]) randomMutateElem(value *[]T, c *sliceCache, maxCplx float64) (UnmutateToken, float64) {
	v := *value
	idx := m.rng.Intn(len(v))
	tok, cplx := m.Elem.RandomMutate(&v[idx], c.elems[idx], maxCplx)

	return NewUnmutateToken(sliceUnmutateElem{index: idx, token: tok}), cplx
}

func (m *Slice[T]) Unmutate(value *[]T, cache any, token UnmutateToken) {
	c := cache.(*sliceCache)
	v := *value

	switch t := token.Inner().(type) {
	case sliceUnmutateElem:
		m.Elem.Unmutate(&v[t.index], c.elems[t.index], t.token)
	case sliceUnmutateInsert:
		*value = append(v[:t.index], v[t.index+1:]...)
		c.elems = append(c.elems[:t.index], c.elems[t.index+1:]...)
	case sliceUnmutateDelete:
		nv := append(v[:t.index:t.index], append([]T{t.value.(T)}, v[t.index:]...)...)
		*value = nv
		c.elems = append(c.elems[:t.index:t.index], append([]any{t.cache}, c.elems[t.index:]...)...)
	case sliceUnmutateSwap:
		v[t.i], v[t.j] = v[t.j], v[t.i]
		c.elems[t.i], c.elems[t.j] = c.elems[t.j], c.elems[t.i]
	}
}

func (m *Slice[T]) DefaultRecursingPartIndex(_ *[]T, _ any) RecursingPartIndex {
	return NewRecursingPartIndex(0)
}

func (m *Slice[T]) RecursingPart(_ any, _ *[]T, _ *RecursingPartIndex) (any, bool) {
	return nil, false
}
