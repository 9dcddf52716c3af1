package sensor

import "testing"

func TestMapSensorTransformsObservations(t *testing.T) {
	region := make([]byte, 3)
	inner := NewCoverage(region)
	m := NewMapSensor(inner, func(index int, value uint64) (int, uint64) {
		return index + 100, value * 2
	})

	m.StartRecording()
	region[0] = 3
	m.StopRecording()

	var gotIndex int
	var gotValue uint64
	m.IterateOverObservations(func(index int, value uint64) {
		gotIndex, gotValue = index, value
	})

	if gotIndex != 100 || gotValue != 6 {
		t.Fatalf("transformed observation = (%d, %d), want (100, 6)", gotIndex, gotValue)
	}
}

func TestAndSensorRunsBothWithinOneBracket(t *testing.T) {
	r1 := make([]byte, 2)
	r2 := make([]byte, 2)
	a := NewAndSensor(NewCoverage(r1), NewCoverage(r2))

	a.StartRecording()
	r1[0] = 4
	r2[1] = 8
	a.StopRecording()

	var leftSeen, rightSeen bool
	a.IterateOverObservations(func(left *int, leftVal uint64, right *int, rightVal uint64) {
		if left != nil && *left == 0 && leftVal == 4 {
			leftSeen = true
		}
		if right != nil && *right == 1 && rightVal == 8 {
			rightSeen = true
		}
	})

	if !leftSeen {
		t.Fatal("expected S1's observation (0, 4) to be presented on the left")
	}
	if !rightSeen {
		t.Fatal("expected S2's observation (1, 8) to be presented on the right")
	}
}
