package pool

import (
	"math/rand"
	"strconv"
)

// MaxObservation is MaximiseObservationPool: it retains a single case, the
// one maximizing a scalar derived from its observations (by default, the
// sum of all observed counter values — a stand-in for whatever single
// numeric objective the caller's sensor exposes).
type MaxObservation[T any] struct {
	Scalar func(observations []Observation) uint64

	has     bool
	value   T
	best    uint64
	deadEnd bool
	rng     *rand.Rand
}

// NewMaxObservation builds an empty MaxObservation pool. If scalar is nil,
// the sum of all observed counter values is used.
func NewMaxObservation[T any](scalar func([]Observation) uint64) *MaxObservation[T] {
	if scalar == nil {
		scalar = sumObservations
	}

	return &MaxObservation[T]{Scalar: scalar, rng: rand.New(rand.NewSource(1))}
}

func sumObservations(observations []Observation) uint64 {
	var total uint64
	for _, o := range observations {
		total += o.Value
	}

	return total
}

func (p *MaxObservation[T]) Len() int {
	if p.has {
		return 1
	}

	return 0
}

type maxObservationStats struct{ best uint64 }

func (s maxObservationStats) String() string { return "best=" + strconv.FormatUint(s.best, 10) }
func (s maxObservationStats) CSV() []string  { return []string{strconv.FormatUint(s.best, 10)} }

func (p *MaxObservation[T]) Stats() Stats { return maxObservationStats{best: p.best} }

func (p *MaxObservation[T]) GetRandomIndex() (Index, bool) {
	if !p.has || p.deadEnd {
		return Index{}, false
	}

	return NewIndex(0), true
}

func (p *MaxObservation[T]) Get(_ Index) *T { return &p.value }

func (p *MaxObservation[T]) RetrieveAfterProcessing(_ Index, _ int) (*T, bool) {
	if !p.has {
		return nil, false
	}

	return &p.value, true
}

func (p *MaxObservation[T]) MarkTestCaseAsDeadEnd(_ Index) { p.deadEnd = true }

func (p *MaxObservation[T]) Process(observations []Observation, ref InputRef[T], clone CloneInput[T], complexity float64, handle EventHandler[T]) error {
	score := p.Scalar(observations)
	if p.has && score <= p.best {
		return nil
	}

	valuePtr := ref.Resolve(p.Get)
	p.value = clone(valuePtr)
	p.best = score
	p.has = true
	p.deadEnd = false

	return handle(CorpusDelta[T]{HasAdd: true, AddValue: p.value, AddIndex: NewIndex(0), Complexity: complexity}, p.Stats())
}

func (p *MaxObservation[T]) Minify(_ int, _ EventHandler[T]) error { return nil }
