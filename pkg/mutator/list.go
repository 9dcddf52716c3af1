package mutator

// ConsCell is the payload of the Cons constructor of a singly linked list
// of uint8: List ::= Nil | Cons(Head, Tail). Tail recurses into List
// itself, which is why List below carries it behind a pointer rather than
// by value — Go, unlike the ported implementation's Box<L>, has no way to
// spell a self-referential value type directly.
type ConsCell struct {
	Head uint8
	Tail List
}

// List is the Cons/Nil value type itself: Present discriminates Cons
// (true) from Nil (false), the same Some/None shape Value[T] uses for
// Option, but with the payload behind a pointer to break the type's
// self-reference.
type List struct {
	Present bool
	Cons    *ConsCell
}

// Depth returns the number of Cons cells, i.e. 0 for Nil.
func (l List) Depth() int {
	n := 0
	for cur := l; cur.Present; cur = cur.Cons.Tail {
		n++
	}

	return n
}

// Sum adds every Head in the list.
func (l List) Sum() int {
	total := 0
	for cur := l; cur.Present; cur = cur.Cons.Tail {
		total += int(cur.Cons.Head)
	}

	return total
}

// listCache is always boxed into the Mutator contract's `cache any` as a
// *listCache, never a value. Toggling Present (Nil <-> Cons) replaces the
// whole cell rather than growing/shrinking in place, but the shape of the
// cache still needs to change along with it — a fresh Cons needs fresh
// head/tail caches written somewhere every later caller sees, exactly the
// write-back requirement pkg/mutator/slice.go's sliceCache has for
// insert/delete. A value-typed listCache would let RandomMutate's toggle
// branches refresh only their own local copy, leaving a caller that mutates
// the node again (e.g. minify-input's loop, which holds one cache variable
// across many kept mutations) holding a cache for a cell that no longer
// exists.
type listCache struct {
	head any
	tail any
}

const listCellComplexity = 1.0

// listMutator is the Mutator[List] built by NewListMutator. It follows the
// same Present/payload split as Opt, generalized to a recursive payload by
// delegating the Tail field to a RecurToMutator instead of a concrete
// Mutator[List].
type listMutator struct {
	head *Int[uint8]
	tail *RecurToMutator[List]
	bool *Bool
}

// NewListMutator builds the Mutator[List] for a Cons/Nil list of uint8,
// exercising RecursiveMutator's self-reference wiring the way a JSON-like
// Value or an expression AST mutator would: the Tail field's mutator is
// this same listMutator (the RecursiveMutator's inner mutator), reached
// through the RecurToMutator handle.
func NewListMutator() *RecursiveMutator[List] {
	return NewRecursiveMutator(func(recur *RecurToMutator[List]) Mutator[List] {
		return &listMutator{head: NewInt[uint8](8), tail: recur, bool: NewBool()}
	})
}

func (m *listMutator) DefaultArbitraryStep() ArbitraryStep { return NewArbitraryStep(uint64(0)) }

// Validate always returns a non-nil *listCache, even for Nil, so every
// caller holds a writable cell the toggle-to-Cons branches below can fill
// in later without needing Validate to be called again first.
func (m *listMutator) Validate(v *List) (any, bool) {
	if !v.Present {
		if v.Cons != nil {
			return nil, false
		}

		return &listCache{}, true
	}

	if v.Cons == nil {
		return nil, false
	}

	hc, ok := m.head.Validate(&v.Cons.Head)
	if !ok {
		return nil, false
	}

	tc, ok := m.tail.Validate(&v.Cons.Tail)
	if !ok {
		return nil, false
	}

	return &listCache{head: hc, tail: tc}, true
}

func (m *listMutator) DefaultMutationStep(_ *List, _ any) MutationStep {
	return NewMutationStep(uint64(0))
}

func (m *listMutator) MinComplexity() float64 { return listCellComplexity }

// MaxComplexity cannot delegate to m.tail.MaxComplexity(): tail resolves
// back to this same listMutator through the weak pointer, so that call
// would recurse forever. List length is instead bounded dynamically, by
// the maxCplx budget RandomArbitrary/OrderedArbitrary thread through each
// Cons they add, not by a static per-type bound.
const listStaticMaxComplexity = 512.0

func (m *listMutator) MaxComplexity() float64 { return listStaticMaxComplexity }

func (m *listMutator) Complexity(v *List, cache any) float64 {
	if !v.Present {
		return listCellComplexity
	}

	c := cache.(*listCache)

	return listCellComplexity + m.head.Complexity(&v.Cons.Head, c.head) + m.tail.Complexity(&v.Cons.Tail, c.tail)
}

func (m *listMutator) OrderedArbitrary(step *ArbitraryStep, maxCplx float64) (List, float64, bool) {
	s, _ := step.Inner().(uint64)

	if s == 0 {
		*step = NewArbitraryStep(uint64(1))

		return List{}, listCellComplexity, true
	}

	if maxCplx < listCellComplexity+m.head.MinComplexity() {
		return List{}, 0, false
	}

	head, hc := m.head.RandomArbitrary(maxCplx / 2)
	tail, tc := m.tail.RandomArbitrary(maxCplx - listCellComplexity - hc)
	*step = NewArbitraryStep(s + 1)

	return List{Present: true, Cons: &ConsCell{Head: head, Tail: tail}}, listCellComplexity + hc + tc, true
}

func (m *listMutator) RandomArbitrary(maxCplx float64) (List, float64) {
	if maxCplx < listCellComplexity+m.head.MinComplexity() {
		return List{}, listCellComplexity
	}

	head, hc := m.head.RandomArbitrary(maxCplx / 2)
	tail, tc := m.tail.RandomArbitrary(maxCplx - listCellComplexity - hc)

	return List{Present: true, Cons: &ConsCell{Head: head, Tail: tail}}, listCellComplexity + hc + tc
}

type (
	listUnmutateToggleOn  struct{ oldCache listCache }
	listUnmutateToggleOff struct {
		old      ConsCell
		oldCache listCache
	}
	listUnmutateHead struct{ token UnmutateToken }
	listUnmutateTail struct{ token UnmutateToken }
)

// freshCell builds a new Cons cell and writes its head/tail caches into c
// in place, so every later call sharing c's boxed *listCache sees a cache
// consistent with the cell it just created.
func (m *listMutator) freshCell(c *listCache, maxCplx float64) (*ConsCell, float64) {
	head, hc := m.head.RandomArbitrary(maxCplx / 2)
	tail, tc := m.tail.RandomArbitrary(maxCplx - listCellComplexity - hc)

	headCache, _ := m.head.Validate(&head)
	tailCache, _ := m.tail.Validate(&tail)
	c.head = headCache
	c.tail = tailCache

	return &ConsCell{Head: head, Tail: tail}, hc + tc
}

func (m *listMutator) OrderedMutate(v *List, cache any, step *MutationStep, maxCplx float64) (UnmutateToken, float64, bool) {
	c := cache.(*listCache)
	s, _ := step.Inner().(uint64)

	if s > 0 {
		return UnmutateToken{}, 0, false
	}

	*step = NewMutationStep(s + 1)

	if v.Present {
		old := *v.Cons
		oldCache := *c
		v.Present = false
		v.Cons = nil
		*c = listCache{}

		return NewUnmutateToken(listUnmutateToggleOff{old: old, oldCache: oldCache}), listCellComplexity, true
	}

	oldCache := *c
	cell, payloadCplx := m.freshCell(c, maxCplx)
	v.Present = true
	v.Cons = cell

	return NewUnmutateToken(listUnmutateToggleOn{oldCache: oldCache}), listCellComplexity + payloadCplx, true
}

func (m *listMutator) RandomMutate(v *List, cache any, maxCplx float64) (UnmutateToken, float64) {
	c := cache.(*listCache)

	if v.Present {
		switch m.bool.rng.Intn(3) {
		case 0:
			tok, cplx := m.head.RandomMutate(&v.Cons.Head, c.head, maxCplx)

			return NewUnmutateToken(listUnmutateHead{token: tok}), listCellComplexity + cplx + m.tail.Complexity(&v.Cons.Tail, c.tail)
		case 1:
			tok, cplx := m.tail.RandomMutate(&v.Cons.Tail, c.tail, maxCplx-listCellComplexity)

			return NewUnmutateToken(listUnmutateTail{token: tok}), listCellComplexity + cplx + m.head.Complexity(&v.Cons.Head, c.head)
		default:
			old := *v.Cons
			oldCache := *c
			v.Present = false
			v.Cons = nil
			*c = listCache{}

			return NewUnmutateToken(listUnmutateToggleOff{old: old, oldCache: oldCache}), listCellComplexity
		}
	}

	oldCache := *c
	cell, payloadCplx := m.freshCell(c, maxCplx)
	v.Present = true
	v.Cons = cell

	return NewUnmutateToken(listUnmutateToggleOn{oldCache: oldCache}), listCellComplexity + payloadCplx
}

func (m *listMutator) Unmutate(v *List, cache any, token UnmutateToken) {
	c := cache.(*listCache)

	switch t := token.Inner().(type) {
	case listUnmutateToggleOn:
		v.Present = false
		v.Cons = nil
		*c = t.oldCache
	case listUnmutateToggleOff:
		v.Present = true
		cell := t.old
		v.Cons = &cell
		*c = t.oldCache
	case listUnmutateHead:
		m.head.Unmutate(&v.Cons.Head, c.head, t.token)
	case listUnmutateTail:
		m.tail.Unmutate(&v.Cons.Tail, c.tail, t.token)
	}
}

func (m *listMutator) DefaultRecursingPartIndex(_ *List, _ any) RecursingPartIndex {
	return NewRecursingPartIndex(uint64(0))
}

// RecursingPart offers the list's own Tail as a structurally-compatible
// substructure: a List is exactly the type of its own Tail field, the one
// self-referential position the Cons/Nil shape has. RecursiveMutator's 1%
// substitution move uses this to occasionally shrink by replacing a list
// with one of its own tails instead of waiting for element-by-element
// mutation to walk it down.
func (m *listMutator) RecursingPart(_ any, v *List, index *RecursingPartIndex) (any, bool) {
	s, _ := index.Inner().(uint64)
	if s > 0 || !v.Present {
		return nil, false
	}

	*index = NewRecursingPartIndex(uint64(1))

	return v.Cons.Tail, true
}
