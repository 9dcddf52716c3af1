package sensor

import "testing"

func TestTestFailureStartRecordingClearsGlobalFlag(t *testing.T) {
	SetFailed()

	tf := NewTestFailure()
	tf.StartRecording()

	if Failed() {
		t.Fatal("StartRecording must clear the process-wide failure flag")
	}
}

func TestTestFailureObservesFlagRaisedDuringBracket(t *testing.T) {
	tf := NewTestFailure()

	tf.StartRecording()
	SetFailed()
	tf.StopRecording()

	if !tf.Failed() {
		t.Fatal("expected Failed() true after SetFailed within the bracket")
	}

	var observations int
	tf.IterateOverObservations(func(index int, value uint64) {
		observations++
		if index != 0 || value != 1 {
			t.Fatalf("observation = (%d, %d), want (0, 1)", index, value)
		}
	})

	if observations != 1 {
		t.Fatalf("IterateOverObservations called %d times, want 1", observations)
	}
}

func TestTestFailureNoObservationWhenNotRaised(t *testing.T) {
	tf := NewTestFailure()

	tf.StartRecording()
	tf.StopRecording()

	if tf.Failed() {
		t.Fatal("Failed() should be false when SetFailed was never called")
	}

	called := false
	tf.IterateOverObservations(func(index int, value uint64) { called = true })

	if called {
		t.Fatal("IterateOverObservations should not call handle when no failure was observed")
	}
}

func TestTestFailureFlagResetsAcrossBrackets(t *testing.T) {
	tf := NewTestFailure()

	tf.StartRecording()
	SetFailed()
	tf.StopRecording()

	if !tf.Failed() {
		t.Fatal("first bracket should have observed a failure")
	}

	tf.StartRecording()
	tf.StopRecording()

	if tf.Failed() {
		t.Fatal("second bracket must not inherit the first bracket's failure")
	}
}
