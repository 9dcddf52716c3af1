// Package sensor implements the observation side of the fuzzing feedback
// loop: recording brackets around a single test run, and the combinators
// (And, Map) that let several independent signal sources be composed into
// one without either side knowing about the other.
package sensor

// Sensor is the contract every observation source implements. H is the
// sensor-specific ObservationHandler type iterate_over_observations invokes
// once per observation; Go's lack of generic methods means H is carried as
// the interface's own type parameter rather than a method-level one.
type Sensor[H any] interface {
	// StartRecording begins a recording bracket; must be paired with
	// exactly one StopRecording before the next StartRecording.
	StartRecording()

	// StopRecording ends the bracket. Acts as a memory barrier between the
	// instrumented code's counter writes and this process's later reads.
	StopRecording()

	// IterateOverObservations streams every observation accumulated since
	// StartRecording through handle, most sensors skip zero-valued
	// counters entirely.
	IterateOverObservations(handle H)

	// Serialized returns the sensor's own persisted state, if any, as
	// (relative path, bytes) pairs — most sensors return nil.
	Serialized() [][2][]byte
}

// ObservationHandler is the common shape of a single-signal handler: one
// call per (index, value) observation.
type ObservationHandler func(index int, value uint64)

// PairHandler is AndSensor's ObservationHandler: exactly one branch fires
// per underlying observation, tagging which side it came from.
type PairHandler func(left *int, leftVal uint64, right *int, rightVal uint64)

// MapSensor wraps an inner sensor and rewrites every observation through
// Transform before it reaches the caller's handler — the same "adapter"
// role ComputeCoverage's mode switch plays for raw token counts
// (internal/testrunner/fuzz/coverage.go), generalized here into a
// composable sensor rather than a single hardcoded mode.
type MapSensor struct {
	Inner     Sensor[ObservationHandler]
	Transform func(index int, value uint64) (int, uint64)
}

// NewMapSensor builds a MapSensor delegating recording to inner and
// rewriting each observation through transform before re-emitting it.
func NewMapSensor(inner Sensor[ObservationHandler], transform func(int, uint64) (int, uint64)) *MapSensor {
	return &MapSensor{Inner: inner, Transform: transform}
}

func (m *MapSensor) StartRecording() { m.Inner.StartRecording() }
func (m *MapSensor) StopRecording()  { m.Inner.StopRecording() }

func (m *MapSensor) IterateOverObservations(handle ObservationHandler) {
	m.Inner.IterateOverObservations(func(index int, value uint64) {
		i, v := m.Transform(index, value)
		handle(i, v)
	})
}

func (m *MapSensor) Serialized() [][2][]byte { return m.Inner.Serialized() }

// AndSensor runs two sensors within the same recording bracket, presenting
// their observations to a paired handler. Grounded on the product-sensor
// shape used throughout the ported source's composition layer.
type AndSensor struct {
	S1 Sensor[ObservationHandler]
	S2 Sensor[ObservationHandler]
}

// NewAndSensor composes s1 and s2 so both record within the same bracket.
func NewAndSensor(s1, s2 Sensor[ObservationHandler]) *AndSensor {
	return &AndSensor{S1: s1, S2: s2}
}

func (a *AndSensor) StartRecording() {
	a.S1.StartRecording()
	a.S2.StartRecording()
}

func (a *AndSensor) StopRecording() {
	a.S1.StopRecording()
	a.S2.StopRecording()
}

// IterateOverObservations presents S1's observations first (right side
// nil-indexed), then S2's (left side nil-indexed). A true paired stream —
// one call per simultaneous (S1, S2) observation — would require the two
// sensors to agree on indexing, which the contract does not assume.
func (a *AndSensor) IterateOverObservations(handle PairHandler) {
	a.S1.IterateOverObservations(func(index int, value uint64) {
		i := index
		handle(&i, value, nil, 0)
	})
	a.S2.IterateOverObservations(func(index int, value uint64) {
		i := index
		handle(nil, 0, &i, value)
	})
}

func (a *AndSensor) Serialized() [][2][]byte {
	return append(a.S1.Serialized(), a.S2.Serialized()...)
}
