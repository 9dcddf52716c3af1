package pool

import (
	"math/rand"
	"strconv"
)

type simplestCase[T any] struct {
	value      T
	complexity float64
	generation int
	owned      map[int]struct{}
	deadEnd    bool
}

// simplestStats reports how many cases are retained and how many distinct
// counters are currently owned by one of them.
type simplestStats struct {
	cases    int
	counters int
}

func (s simplestStats) String() string {
	return "cases=" + strconv.Itoa(s.cases) + " counters=" + strconv.Itoa(s.counters)
}

func (s simplestStats) CSV() []string {
	return []string{strconv.Itoa(s.cases), strconv.Itoa(s.counters)}
}

// Simplest is SimplestToActivateCounterPool: for every coverage counter it
// retains the simplest test case known to activate it — coverage-guided
// fuzzing's central admission rule.
type Simplest[T any] struct {
	cases      map[int]*simplestCase[T]
	owners     map[int]int
	nextSlot   int
	generation int
	rng        *rand.Rand
}

// NewSimplest builds an empty Simplest pool.
func NewSimplest[T any]() *Simplest[T] {
	return &Simplest[T]{
		cases:  make(map[int]*simplestCase[T]),
		owners: make(map[int]int),
		rng:    rand.New(rand.NewSource(1)),
	}
}

func (p *Simplest[T]) Len() int { return len(p.cases) }

func (p *Simplest[T]) Stats() Stats {
	return simplestStats{cases: len(p.cases), counters: len(p.owners)}
}

func (p *Simplest[T]) GetRandomIndex() (Index, bool) {
	type candidate struct {
		slot   int
		weight int
	}

	var candidates []candidate

	total := 0

	for slot, c := range p.cases {
		if c.deadEnd || len(c.owned) == 0 {
			continue
		}

		candidates = append(candidates, candidate{slot: slot, weight: len(c.owned)})
		total += len(c.owned)
	}

	if len(candidates) == 0 {
		return Index{}, false
	}

	x := p.rng.Intn(total)

	for _, c := range candidates {
		if x < c.weight {
			return NewIndex(c.slot), true
		}

		x -= c.weight
	}

	return NewIndex(candidates[len(candidates)-1].slot), true
}

func (p *Simplest[T]) Get(idx Index) *T {
	return &p.cases[idx.Inner().(int)].value
}

func (p *Simplest[T]) RetrieveAfterProcessing(idx Index, generation int) (*T, bool) {
	c, ok := p.cases[idx.Inner().(int)]
	if !ok || c.generation > generation {
		return nil, false
	}

	return &c.value, true
}

func (p *Simplest[T]) MarkTestCaseAsDeadEnd(idx Index) {
	if c, ok := p.cases[idx.Inner().(int)]; ok {
		c.deadEnd = true
	}
}

func (p *Simplest[T]) Process(observations []Observation, ref InputRef[T], clone CloneInput[T], complexity float64, handle EventHandler[T]) error {
	valuePtr := ref.Resolve(p.Get)

	var winning []int

	for _, o := range observations {
		if o.Value == 0 {
			continue
		}

		ownerSlot, hasOwner := p.owners[o.Index]
		if !hasOwner {
			winning = append(winning, o.Index)

			continue
		}

		if owner, ok := p.cases[ownerSlot]; ok && owner.complexity > complexity {
			winning = append(winning, o.Index)
		}
	}

	if len(winning) == 0 {
		return nil
	}

	p.generation++
	slot := p.nextSlot
	p.nextSlot++

	newCase := &simplestCase[T]{
		value:      clone(valuePtr),
		complexity: complexity,
		generation: p.generation,
		owned:      make(map[int]struct{}, len(winning)),
	}

	var removed []Index

	evicted := make(map[int]struct{})

	for _, k := range winning {
		if prevSlot, ok := p.owners[k]; ok {
			if prev, ok := p.cases[prevSlot]; ok {
				delete(prev.owned, k)

				if len(prev.owned) == 0 {
					if _, already := evicted[prevSlot]; !already {
						evicted[prevSlot] = struct{}{}
						removed = append(removed, NewIndex(prevSlot))
					}
				}
			}
		}

		p.owners[k] = slot
		newCase.owned[k] = struct{}{}
	}

	for slotID := range evicted {
		delete(p.cases, slotID)
	}

	p.cases[slot] = newCase

	delta := CorpusDelta[T]{
		HasAdd:     true,
		AddValue:   newCase.value,
		AddIndex:   NewIndex(slot),
		Complexity: complexity,
		Remove:     removed,
	}

	return handle(delta, p.Stats())
}

// Minify removes the costliest cases until len(p.cases) <= targetLen.
// The counters a removed case owned are left without an owner; they are
// not reassigned to another retained case, even one that also activated
// them.
func (p *Simplest[T]) Minify(targetLen int, handle EventHandler[T]) error {
	for len(p.cases) > targetLen {
		var worstSlot int

		worstComplexity := -1.0
		found := false

		for slot, c := range p.cases {
			if !found || c.complexity > worstComplexity {
				worstSlot = slot
				worstComplexity = c.complexity
				found = true
			}
		}

		if !found {
			return nil
		}

		worst := p.cases[worstSlot]
		for k := range worst.owned {
			delete(p.owners, k)
		}

		delete(p.cases, worstSlot)

		delta := CorpusDelta[T]{Remove: []Index{NewIndex(worstSlot)}}
		if err := handle(delta, p.Stats()); err != nil {
			return err
		}
	}

	return nil
}
