package sensor

import "testing"

func TestCoverageStartRecordingZeroesRegion(t *testing.T) {
	region := []byte{1, 2, 3}
	c := NewCoverage(region)

	c.StartRecording()

	for i, v := range region {
		if v != 0 {
			t.Fatalf("region[%d] = %d after StartRecording, want 0", i, v)
		}
	}
}

func TestCoverageIterateSkipsZeroCounters(t *testing.T) {
	region := make([]byte, 4)
	c := NewCoverage(region)

	c.StartRecording()
	region[1] = 5
	region[3] = 9
	c.StopRecording()

	got := map[int]uint64{}
	c.IterateOverObservations(func(index int, value uint64) {
		got[index] = value
	})

	want := map[int]uint64{1: 5, 3: 9}
	if len(got) != len(want) || got[1] != 5 || got[3] != 9 {
		t.Fatalf("IterateOverObservations() = %v, want %v", got, want)
	}
}

func TestCoverageStopRecordingSnapshotsIndependently(t *testing.T) {
	region := make([]byte, 2)
	c := NewCoverage(region)

	c.StartRecording()
	region[0] = 7
	c.StopRecording()

	// Mutating the live region after StopRecording must not affect the
	// snapshot already taken.
	region[0] = 200

	var seen uint64
	c.IterateOverObservations(func(index int, value uint64) {
		if index == 0 {
			seen = value
		}
	})

	if seen != 7 {
		t.Fatalf("observation after region mutated post-StopRecording = %d, want 7", seen)
	}
}

func TestCoverageLenReportsRegionSize(t *testing.T) {
	c := NewCoverage(make([]byte, 17))

	if got := c.Len(); got != 17 {
		t.Fatalf("Len() = %d, want 17", got)
	}
}
