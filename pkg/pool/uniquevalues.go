package pool

import (
	"math/rand"
	"strconv"
)

type uniquePairCase[T any] struct {
	value   T
	deadEnd bool
}

type uniqueKey struct {
	index int
	value uint64
}

type uniqueValuesStats struct{ cases int }

func (s uniqueValuesStats) String() string { return "cases=" + strconv.Itoa(s.cases) }
func (s uniqueValuesStats) CSV() []string  { return []string{strconv.Itoa(s.cases)} }

// UniqueValues is UniqueValuesPool: for every distinct (counter index,
// counter value) pair ever observed, it retains one representative case —
// bounded by MaxCases so a high-cardinality observation stream (e.g. a
// counter that takes on thousands of distinct values) cannot grow the
// corpus without limit.
type UniqueValues[T any] struct {
	MaxCases int

	cases map[int]*uniquePairCase[T]
	seen  map[uniqueKey]int
	next  int
	rng   *rand.Rand
}

// NewUniqueValues builds an empty UniqueValues pool retaining at most
// maxCases representatives. maxCases <= 0 means unbounded.
func NewUniqueValues[T any](maxCases int) *UniqueValues[T] {
	return &UniqueValues[T]{
		MaxCases: maxCases,
		cases:    make(map[int]*uniquePairCase[T]),
		seen:     make(map[uniqueKey]int),
		rng:      rand.New(rand.NewSource(1)),
	}
}

func (p *UniqueValues[T]) Len() int { return len(p.cases) }

func (p *UniqueValues[T]) Stats() Stats { return uniqueValuesStats{cases: len(p.cases)} }

func (p *UniqueValues[T]) GetRandomIndex() (Index, bool) {
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

func (p *UniqueValues[T]) Get(idx Index) *T { return &p.cases[idx.Inner().(int)].value }

func (p *UniqueValues[T]) RetrieveAfterProcessing(idx Index, _ int) (*T, bool) {
	c, ok := p.cases[idx.Inner().(int)]
	if !ok {
		return nil, false
	}

	return &c.value, true
}

func (p *UniqueValues[T]) MarkTestCaseAsDeadEnd(idx Index) {
	if c, ok := p.cases[idx.Inner().(int)]; ok {
		c.deadEnd = true
	}
}

func (p *UniqueValues[T]) Process(observations []Observation, ref InputRef[T], clone CloneInput[T], complexity float64, handle EventHandler[T]) error {
	var fresh bool

	for _, o := range observations {
		key := uniqueKey{index: o.Index, value: o.Value}
		if _, ok := p.seen[key]; !ok {
			fresh = true

			break
		}
	}

	if !fresh {
		return nil
	}

	if p.MaxCases > 0 && len(p.cases) >= p.MaxCases {
		return nil
	}

	valuePtr := ref.Resolve(p.Get)
	slot := p.next
	p.next++
	p.cases[slot] = &uniquePairCase[T]{value: clone(valuePtr)}

	for _, o := range observations {
		key := uniqueKey{index: o.Index, value: o.Value}
		if _, ok := p.seen[key]; !ok {
			p.seen[key] = slot
		}
	}

	return handle(CorpusDelta[T]{HasAdd: true, AddValue: p.cases[slot].value, AddIndex: NewIndex(slot), Complexity: complexity}, p.Stats())
}

func (p *UniqueValues[T]) Minify(targetLen int, handle EventHandler[T]) error {
	for len(p.cases) > targetLen {
		var victim int

		found := false

		for slot := range p.cases {
			victim = slot
			found = true

			break
		}

		if !found {
			return nil
		}

		delete(p.cases, victim)

		if err := handle(CorpusDelta[T]{Remove: []Index{NewIndex(victim)}}, p.Stats()); err != nil {
			return err
		}
	}

	return nil
}
