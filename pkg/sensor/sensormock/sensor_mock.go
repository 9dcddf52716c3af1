// Package sensormock provides a hand-written test double for
// sensor.Sensor[sensor.ObservationHandler]: each method has an optional
// Stub func and records its invocations in a Calls slice. This module has
// no mock generator; internal/derive generates mutators, not mocks.
package sensormock

import (
	"sync"

	"github.com/orizon-lang/fuzzcheck/pkg/sensor"
)

// StartRecordingCall records one StartRecording invocation.
type StartRecordingCall struct{}

// StopRecordingCall records one StopRecording invocation.
type StopRecordingCall struct{}

// IterateOverObservationsCall records one IterateOverObservations
// invocation's argument.
type IterateOverObservationsCall struct {
	ArgHandle sensor.ObservationHandler
}

// SerializedCall records one Serialized invocation.
type SerializedCall struct{}

// SensorMock is a concurrency-safe test double for sensor.Sensor.
type SensorMock struct {
	mu sync.Mutex

	StartRecordingStub func()
	StartRecordingCalls []StartRecordingCall

	StopRecordingStub func()
	StopRecordingCalls []StopRecordingCall

	IterateOverObservationsStub  func(sensor.ObservationHandler)
	IterateOverObservationsCalls []IterateOverObservationsCall

	SerializedStub func() [][2][]byte
	SerializedCalls []SerializedCall
}

func (m *SensorMock) StartRecording() {
	m.mu.Lock()
	m.StartRecordingCalls = append(m.StartRecordingCalls, StartRecordingCall{})
	stub := m.StartRecordingStub
	m.mu.Unlock()

	if stub != nil {
		stub()
	}
}

func (m *SensorMock) StopRecording() {
	m.mu.Lock()
	m.StopRecordingCalls = append(m.StopRecordingCalls, StopRecordingCall{})
	stub := m.StopRecordingStub
	m.mu.Unlock()

	if stub != nil {
		stub()
	}
}

func (m *SensorMock) IterateOverObservations(handle sensor.ObservationHandler) {
	m.mu.Lock()
	m.IterateOverObservationsCalls = append(m.IterateOverObservationsCalls, IterateOverObservationsCall{ArgHandle: handle})
	stub := m.IterateOverObservationsStub
	m.mu.Unlock()

	if stub != nil {
		stub(handle)
	}
}

func (m *SensorMock) Serialized() [][2][]byte {
	m.mu.Lock()
	m.SerializedCalls = append(m.SerializedCalls, SerializedCall{})
	stub := m.SerializedStub
	m.mu.Unlock()

	if stub != nil {
		return stub()
	}

	return nil
}

// Reset clears every stub and call record.
func (m *SensorMock) Reset() {
	m.mu.Lock()
	m.StartRecordingStub = nil
	m.StartRecordingCalls = nil
	m.StopRecordingStub = nil
	m.StopRecordingCalls = nil
	m.IterateOverObservationsStub = nil
	m.IterateOverObservationsCalls = nil
	m.SerializedStub = nil
	m.SerializedCalls = nil
	m.mu.Unlock()
}
