package pool

import (
	"math/rand"
	"strconv"
)

type diverseCase[T any] struct {
	value      T
	set        map[int]struct{}
	complexity float64
	deadEnd    bool
}

type diverseStats struct{ cases int }

func (s diverseStats) String() string { return "cases=" + strconv.Itoa(s.cases) }
func (s diverseStats) CSV() []string  { return []string{strconv.Itoa(s.cases)} }

// Diverse is MostNDiversePool: it retains up to N cases chosen to maximize
// the sum of pairwise symmetric differences between their coverage sets —
// a corpus of mutually dissimilar inputs rather than individually optimal
// ones.
type Diverse[T any] struct {
	n     int
	cases map[int]*diverseCase[T]
	next  int
	rng   *rand.Rand
}

// NewDiverse builds an empty Diverse pool bounded to n retained cases.
func NewDiverse[T any](n int) *Diverse[T] {
	return &Diverse[T]{n: n, cases: make(map[int]*diverseCase[T]), rng: rand.New(rand.NewSource(1))}
}

func (p *Diverse[T]) Len() int { return len(p.cases) }

func (p *Diverse[T]) Stats() Stats { return diverseStats{cases: len(p.cases)} }

func (p *Diverse[T]) GetRandomIndex() (Index, bool) {
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

func (p *Diverse[T]) Get(idx Index) *T { return &p.cases[idx.Inner().(int)].value }

func (p *Diverse[T]) RetrieveAfterProcessing(idx Index, _ int) (*T, bool) {
	c, ok := p.cases[idx.Inner().(int)]
	if !ok {
		return nil, false
	}

	return &c.value, true
}

func (p *Diverse[T]) MarkTestCaseAsDeadEnd(idx Index) {
	if c, ok := p.cases[idx.Inner().(int)]; ok {
		c.deadEnd = true
	}
}

func symmetricDifferenceSize(a, b map[int]struct{}) int {
	size := 0

	for k := range a {
		if _, ok := b[k]; !ok {
			size++
		}
	}

	for k := range b {
		if _, ok := a[k]; !ok {
			size++
		}
	}

	return size
}

// diversityGain sums the symmetric-difference sizes a candidate set would
// add against every retained case, excluding exclude.
func (p *Diverse[T]) diversityGain(set map[int]struct{}, exclude int) int {
	total := 0

	for slot, c := range p.cases {
		if slot == exclude {
			continue
		}

		total += symmetricDifferenceSize(set, c.set)
	}

	return total
}

func (p *Diverse[T]) Process(observations []Observation, ref InputRef[T], clone CloneInput[T], complexity float64, handle EventHandler[T]) error {
	set := make(map[int]struct{}, len(observations))
	for _, o := range observations {
		if o.Value != 0 {
			set[o.Index] = struct{}{}
		}
	}

	candidateGain := p.diversityGain(set, -1)

	if len(p.cases) < p.n {
		valuePtr := ref.Resolve(p.Get)
		slot := p.next
		p.next++
		p.cases[slot] = &diverseCase[T]{value: clone(valuePtr), set: set, complexity: complexity}

		return handle(CorpusDelta[T]{HasAdd: true, AddValue: p.cases[slot].value, AddIndex: NewIndex(slot), Complexity: complexity}, p.Stats())
	}

	worstSlot := -1
	worstGain := candidateGain

	for slot, c := range p.cases {
		gain := p.diversityGain(c.set, slot)
		if gain < worstGain {
			worstGain = gain
			worstSlot = slot
		}
	}

	if worstSlot < 0 {
		return nil
	}

	delete(p.cases, worstSlot)

	valuePtr := ref.Resolve(p.Get)
	slot := p.next
	p.next++
	p.cases[slot] = &diverseCase[T]{value: clone(valuePtr), set: set, complexity: complexity}

	delta := CorpusDelta[T]{HasAdd: true, AddValue: p.cases[slot].value, AddIndex: NewIndex(slot), Complexity: complexity, Remove: []Index{NewIndex(worstSlot)}}

	return handle(delta, p.Stats())
}

func (p *Diverse[T]) Minify(targetLen int, handle EventHandler[T]) error {
	for len(p.cases) > targetLen {
		worstSlot := -1
		worstGain := 0

		first := true

		for slot, c := range p.cases {
			gain := p.diversityGain(c.set, slot)
			if first || gain < worstGain {
				worstGain = gain
				worstSlot = slot
				first = false
			}
		}

		if worstSlot < 0 {
			return nil
		}

		delete(p.cases, worstSlot)

		if err := handle(CorpusDelta[T]{Remove: []Index{NewIndex(worstSlot)}}, p.Stats()); err != nil {
			return err
		}
	}

	return nil
}
