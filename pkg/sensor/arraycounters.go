package sensor

// ArrayOfCounters is a manually-instrumented sensor over a caller-owned
// []uint64: the test function writes directly into the backing array
// (typically a package-level variable) instead of relying on
// compiler-inserted coverage instrumentation. Its ObservationHandler shape
// matches Coverage's, so most pools built against one work against the
// other.
//
// Go has no const-generic array length, so where the ported algebra
// parameterizes this sensor by a compile-time N, here the array's length
// is simply len(counters) at construction time.
type ArrayOfCounters struct {
	counters []uint64
}

// NewArrayOfCounters binds an ArrayOfCounters sensor to counters. The
// caller is expected to write into counters from inside the test
// predicate between StartRecording and StopRecording.
func NewArrayOfCounters(counters []uint64) *ArrayOfCounters {
	return &ArrayOfCounters{counters: counters}
}

func (a *ArrayOfCounters) StartRecording() {
	for i := range a.counters {
		a.counters[i] = 0
	}
}

func (a *ArrayOfCounters) StopRecording() {}

func (a *ArrayOfCounters) IterateOverObservations(handle ObservationHandler) {
	for i, v := range a.counters {
		if v == 0 {
			continue
		}

		handle(i, v)
	}
}

func (a *ArrayOfCounters) Serialized() [][2][]byte { return nil }

// Len reports how many counters this sensor watches.
func (a *ArrayOfCounters) Len() int { return len(a.counters) }
