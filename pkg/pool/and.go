package pool

import "math/rand"

// andIndex tags an Index as belonging to the first or second sub-pool of
// an And composition — the Go rendering of the ported algebra's
// Either<I1, I2> index type, kept local to this file rather than
// expressed via the generic Either in package mutator, since nothing else
// in And needs a general sum type.
type andIndex struct {
	fromP1 bool
	inner  Index
}

// defaultPercentChooseFirst is the bias GetRandomIndex applies toward P1
// when both sub-pools are nonempty, matching the ported algebra's default.
const defaultPercentChooseFirst = 50

// And is AndPool(P1, P2): the product pool combinator. Both sub-pools
// must share the same test case type T; each keeps its own notion of
// "interesting" and the combined pool simply routes indices, observations,
// and deltas to whichever side they belong to.
type And[T any] struct {
	P1 Pool[T]
	P2 Pool[T]

	// PercentChooseFirst biases GetRandomIndex toward P1 (0-100). NewAnd
	// sets it to 50; a value of 0 tries P2 first on every call.
	PercentChooseFirst int

	rng *rand.Rand
}

// NewAnd composes p1 and p2 with the default 50/50 sampling bias.
func NewAnd[T any](p1, p2 Pool[T]) *And[T] {
	return &And[T]{P1: p1, P2: p2, PercentChooseFirst: defaultPercentChooseFirst, rng: rand.New(rand.NewSource(1))}
}

func (a *And[T]) Len() int { return a.P1.Len() + a.P2.Len() }

// AndStats pairs both sub-pools' Stats; its String/CSV concatenate them.
type AndStats struct {
	S1 Stats
	S2 Stats
}

func (s AndStats) String() string { return s.S1.String() + "\t" + s.S2.String() }

func (s AndStats) CSV() []string { return append(append([]string{}, s.S1.CSV()...), s.S2.CSV()...) }

func (a *And[T]) Stats() Stats { return AndStats{S1: a.P1.Stats(), S2: a.P2.Stats()} }

func (a *And[T]) GetRandomIndex() (Index, bool) {
	chooseFirst := a.rng.Intn(100) < a.PercentChooseFirst

	if chooseFirst {
		if idx, ok := a.P1.GetRandomIndex(); ok {
			return NewIndex(andIndex{fromP1: true, inner: idx}), true
		}

		if idx, ok := a.P2.GetRandomIndex(); ok {
			return NewIndex(andIndex{fromP1: false, inner: idx}), true
		}

		return Index{}, false
	}

	if idx, ok := a.P2.GetRandomIndex(); ok {
		return NewIndex(andIndex{fromP1: false, inner: idx}), true
	}

	if idx, ok := a.P1.GetRandomIndex(); ok {
		return NewIndex(andIndex{fromP1: true, inner: idx}), true
	}

	return Index{}, false
}

func (a *And[T]) Get(idx Index) *T {
	ai := idx.Inner().(andIndex)
	if ai.fromP1 {
		return a.P1.Get(ai.inner)
	}

	return a.P2.Get(ai.inner)
}

func (a *And[T]) RetrieveAfterProcessing(idx Index, generation int) (*T, bool) {
	ai := idx.Inner().(andIndex)
	if ai.fromP1 {
		return a.P1.RetrieveAfterProcessing(ai.inner, generation)
	}

	return a.P2.RetrieveAfterProcessing(ai.inner, generation)
}

func (a *And[T]) MarkTestCaseAsDeadEnd(idx Index) {
	ai := idx.Inner().(andIndex)
	if ai.fromP1 {
		a.P1.MarkTestCaseAsDeadEnd(ai.inner)
	} else {
		a.P2.MarkTestCaseAsDeadEnd(ai.inner)
	}
}

func filterSide(observations []Observation, side int) []Observation {
	out := make([]Observation, 0, len(observations))

	for _, o := range observations {
		if o.Side == side {
			out = append(out, o)
		}
	}

	return out
}

// Process routes observations by Side (0 for P1, 1 for P2), resolves the
// borrowed input across whichever sub-pool ref does not originate from, and
// re-tags every delta/Stats pair the sub-pools emit with its originating
// side before forwarding to handle — the Go analogue of the ported
// algebra's lift_corpus_delta_{1,2} helpers.
func (a *And[T]) Process(observations []Observation, ref InputRef[T], clone CloneInput[T], complexity float64, handle EventHandler[T]) error {
	ref1, ref2 := a.splitRef(ref)
	obs1 := filterSide(observations, 0)
	obs2 := filterSide(observations, 1)

	err := a.P1.Process(obs1, ref1, clone, complexity, func(delta CorpusDelta[T], stats1 Stats) error {
		return handle(liftDeltaT(delta, true), AndStats{S1: stats1, S2: a.P2.Stats()})
	})
	if err != nil {
		return err
	}

	return a.P2.Process(obs2, ref2, clone, complexity, func(delta CorpusDelta[T], stats2 Stats) error {
		return handle(liftDeltaT(delta, false), AndStats{S1: a.P1.Stats(), S2: stats2})
	})
}

func liftDeltaT[T any](delta CorpusDelta[T], fromP1 bool) CorpusDelta[T] {
	out := CorpusDelta[T]{HasAdd: delta.HasAdd, AddValue: delta.AddValue, Complexity: delta.Complexity}
	if delta.HasAdd {
		out.AddIndex = NewIndex(andIndex{fromP1: fromP1, inner: delta.AddIndex})
	}

	for _, idx := range delta.Remove {
		out.Remove = append(out.Remove, NewIndex(andIndex{fromP1: fromP1, inner: idx}))
	}

	return out
}

func (a *And[T]) splitRef(ref InputRef[T]) (InputRef[T], InputRef[T]) {
	if !ref.hasIndex {
		return RefValue[T](ref.value), RefValue[T](ref.value)
	}

	ai := ref.index.Inner().(andIndex)
	if ai.fromP1 {
		return RefIndex[T](ai.inner), RefValue[T](a.P1.Get(ai.inner))
	}

	return RefValue[T](a.P2.Get(ai.inner)), RefIndex[T](ai.inner)
}

func (a *And[T]) Minify(targetLen int, handle EventHandler[T]) error {
	err := a.P1.Minify(targetLen, func(delta CorpusDelta[T], stats1 Stats) error {
		return handle(liftDeltaT(delta, true), AndStats{S1: stats1, S2: a.P2.Stats()})
	})
	if err != nil {
		return err
	}

	return a.P2.Minify(targetLen, func(delta CorpusDelta[T], stats2 Stats) error {
		return handle(liftDeltaT(delta, false), AndStats{S1: a.P1.Stats(), S2: stats2})
	})
}
