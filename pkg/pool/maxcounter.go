package pool

import (
	"math/rand"
	"strconv"
)

type maxCounterCase[T any] struct {
	value   T
	owned   map[int]uint64
	deadEnd bool
}

type maxCounterStats struct {
	cases    int
	counters int
}

func (s maxCounterStats) String() string { return "cases=" + strconv.Itoa(s.cases) + " counters=" + strconv.Itoa(s.counters) }
func (s maxCounterStats) CSV() []string  { return []string{strconv.Itoa(s.cases), strconv.Itoa(s.counters)} }

// MaxCounter is MaximiseEachCounterPool: for every counter it retains the
// case that produced the largest observed value on that counter, rather
// than the simplest case that merely activated it.
type MaxCounter[T any] struct {
	cases  map[int]*maxCounterCase[T]
	owners map[int]int
	next   int
	rng    *rand.Rand
}

// NewMaxCounter builds an empty MaxCounter pool.
func NewMaxCounter[T any]() *MaxCounter[T] {
	return &MaxCounter[T]{cases: make(map[int]*maxCounterCase[T]), owners: make(map[int]int), rng: rand.New(rand.NewSource(1))}
}

func (p *MaxCounter[T]) Len() int { return len(p.cases) }

func (p *MaxCounter[T]) Stats() Stats {
	return maxCounterStats{cases: len(p.cases), counters: len(p.owners)}
}

func (p *MaxCounter[T]) GetRandomIndex() (Index, bool) {
	var slots []int

	for slot, c := range p.cases {
		if !c.deadEnd {
			slots = append(slots, slot)
		}
	}

	if len(slots) == 0 {
		return Index{}, false
	}

	return NewIndex(slots[p.rng.Intn(len(slots))]), true
}

func (p *MaxCounter[T]) Get(idx Index) *T { return &p.cases[idx.Inner().(int)].value }

func (p *MaxCounter[T]) RetrieveAfterProcessing(idx Index, _ int) (*T, bool) {
	c, ok := p.cases[idx.Inner().(int)]
	if !ok {
		return nil, false
	}

	return &c.value, true
}

func (p *MaxCounter[T]) MarkTestCaseAsDeadEnd(idx Index) {
	if c, ok := p.cases[idx.Inner().(int)]; ok {
		c.deadEnd = true
	}
}

func (p *MaxCounter[T]) Process(observations []Observation, ref InputRef[T], clone CloneInput[T], complexity float64, handle EventHandler[T]) error {
	valuePtr := ref.Resolve(p.Get)

	var winning []Observation

	for _, o := range observations {
		ownerSlot, hasOwner := p.owners[o.Index]
		if !hasOwner {
			winning = append(winning, o)

			continue
		}

		if owner, ok := p.cases[ownerSlot]; ok && owner.owned[o.Index] < o.Value {
			winning = append(winning, o)
		}
	}

	if len(winning) == 0 {
		return nil
	}

	slot := p.next
	p.next++

	newCase := &maxCounterCase[T]{value: clone(valuePtr), owned: make(map[int]uint64, len(winning))}

	var removed []Index

	evicted := make(map[int]struct{})

	for _, o := range winning {
		if prevSlot, ok := p.owners[o.Index]; ok {
			if prev, ok := p.cases[prevSlot]; ok {
				delete(prev.owned, o.Index)

				if len(prev.owned) == 0 {
					if _, already := evicted[prevSlot]; !already {
						evicted[prevSlot] = struct{}{}
						removed = append(removed, NewIndex(prevSlot))
					}
				}
			}
		}

		p.owners[o.Index] = slot
		newCase.owned[o.Index] = o.Value
	}

	for slotID := range evicted {
		delete(p.cases, slotID)
	}

	p.cases[slot] = newCase

	delta := CorpusDelta[T]{HasAdd: true, AddValue: newCase.value, AddIndex: NewIndex(slot), Complexity: complexity, Remove: removed}

	return handle(delta, p.Stats())
}

func (p *MaxCounter[T]) Minify(targetLen int, handle EventHandler[T]) error {
	for len(p.cases) > targetLen {
		var worstSlot int

		worstOwned := -1
		found := false

		for slot, c := range p.cases {
			if !found || len(c.owned) < worstOwned {
				worstSlot = slot
				worstOwned = len(c.owned)
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

		if err := handle(CorpusDelta[T]{Remove: []Index{NewIndex(worstSlot)}}, p.Stats()); err != nil {
			return err
		}
	}

	return nil
}
