package sensor

// Coverage binds to a contiguous region of 8-bit counters — the region an
// instrumented target exports as its sanitizer-coverage map. StartRecording
// zeros it; the instrumented code increments counters at machine-register
// speed while the test runs; StopRecording is the memory barrier the
// single-threaded driver relies on before reading back.
type Coverage struct {
	counters []byte
	prev     []byte
}

// NewCoverage binds a Coverage sensor to region. The caller owns region's
// lifetime — it is typically a slice over memory exported by the
// instrumented binary at process startup (see the instrumentation contract
// this sensor implements).
func NewCoverage(region []byte) *Coverage {
	return &Coverage{counters: region, prev: make([]byte, len(region))}
}

func (c *Coverage) StartRecording() {
	for i := range c.counters {
		c.counters[i] = 0
	}
}

// StopRecording snapshots the region into prev. On most architectures a
// plain slice read after StartRecording/run is already ordered with
// respect to the instrumented writes because they execute on the same
// goroutine; this copy additionally gives IterateOverObservations a stable
// view even if the caller mutates counters again before iterating.
func (c *Coverage) StopRecording() {
	copy(c.prev, c.counters)
}

func (c *Coverage) IterateOverObservations(handle ObservationHandler) {
	for i, v := range c.prev {
		if v == 0 {
			continue
		}

		handle(i, uint64(v))
	}
}

func (c *Coverage) Serialized() [][2][]byte { return nil }

// Len reports the bound region's size, for callers that need to size a
// companion ArrayOfCounters or validate an instrumentation handshake.
func (c *Coverage) Len() int { return len(c.counters) }
