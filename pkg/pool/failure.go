package pool

import (
	"math/rand"
	"strconv"
)

type failureCase[T any] struct {
	value     T
	signature string
}

type testFailureStats struct{ cases int }

func (s testFailureStats) String() string { return "failures=" + strconv.Itoa(s.cases) }
func (s testFailureStats) CSV() []string  { return []string{strconv.Itoa(s.cases)} }

// TestFailure is TestFailurePool: it retains one case per distinct failure
// signature (e.g. panic message, signal name) rather than optimizing for
// coverage at all. Signature extraction is supplied by the caller since
// what constitutes "the same failure" is target-specific.
type TestFailure[T any] struct {
	Signature func(observations []Observation) string

	cases map[int]*failureCase[T]
	bySig map[string]int
	next  int
	rng   *rand.Rand
}

// NewTestFailure builds an empty TestFailure pool. If signature is nil,
// a failure's signature is its number of observations, so failures with
// the same observation count share one signature.
func NewTestFailure[T any](signature func([]Observation) string) *TestFailure[T] {
	if signature == nil {
		signature = func(observations []Observation) string {
			return strconv.Itoa(len(observations))
		}
	}

	return &TestFailure[T]{
		Signature: signature,
		cases:     make(map[int]*failureCase[T]),
		bySig:     make(map[string]int),
		rng:       rand.New(rand.NewSource(1)),
	}
}

func (p *TestFailure[T]) Len() int { return len(p.cases) }

func (p *TestFailure[T]) Stats() Stats { return testFailureStats{cases: len(p.cases)} }

func (p *TestFailure[T]) GetRandomIndex() (Index, bool) {
	if len(p.cases) == 0 {
		return Index{}, false
	}

	n := p.rng.Intn(len(p.cases))

	i := 0
	for slot := range p.cases {
		if i == n {
			return NewIndex(slot), true
		}

		i++
	}

	return Index{}, false
}

func (p *TestFailure[T]) Get(idx Index) *T { return &p.cases[idx.Inner().(int)].value }

func (p *TestFailure[T]) RetrieveAfterProcessing(idx Index, _ int) (*T, bool) {
	c, ok := p.cases[idx.Inner().(int)]
	if !ok {
		return nil, false
	}

	return &c.value, true
}

func (p *TestFailure[T]) MarkTestCaseAsDeadEnd(_ Index) {}

// Process admits ref as a new failing case iff its failure signature
// (derived from observations — typically a single-counter TestFailure
// sensor observation tagged with the panic/signal identity) has not been
// seen before.
func (p *TestFailure[T]) Process(observations []Observation, ref InputRef[T], clone CloneInput[T], complexity float64, handle EventHandler[T]) error {
	if len(observations) == 0 {
		// No failure-sensor observation reached this pool: the run did not
		// fail, nothing to admit.
		return nil
	}

	sig := p.Signature(observations)
	if _, ok := p.bySig[sig]; ok {
		return nil
	}

	valuePtr := ref.Resolve(p.Get)
	slot := p.next
	p.next++
	p.cases[slot] = &failureCase[T]{value: clone(valuePtr), signature: sig}
	p.bySig[sig] = slot

	return handle(CorpusDelta[T]{HasAdd: true, AddValue: p.cases[slot].value, AddIndex: NewIndex(slot), Complexity: complexity}, p.Stats())
}

func (p *TestFailure[T]) Minify(_ int, _ EventHandler[T]) error { return nil }
