package pool

import "testing"

// TestAndRoutesObservationsBySide checks that And.Process only forwards
// Side-0 observations to P1 and Side-1 observations to P2, so a case that
// improves coverage on one side admits through that side's sub-pool only.
func TestAndRoutesObservationsBySide(t *testing.T) {
	p1 := NewSimplest[int]()
	p2 := NewSimplest[int]()
	a := NewAnd[int](p1, p2)

	value := 42
	obs := []Observation{{Side: 0, Index: 5, Value: 1}}

	var deltas []CorpusDelta[int]
	err := a.Process(obs, RefValue[int](&value), cloneInt, 1.0, func(delta CorpusDelta[int], stats Stats) error {
		deltas = append(deltas, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if p1.Len() != 1 {
		t.Fatalf("P1.Len() = %d, want 1 (Side-0 observation should admit into P1)", p1.Len())
	}
	if p2.Len() != 0 {
		t.Fatalf("P2.Len() = %d, want 0 (no Side-1 observation was given)", p2.Len())
	}

	found := false
	for _, d := range deltas {
		if d.HasAdd {
			found = true
			ai := d.AddIndex.Inner().(andIndex)
			if !ai.fromP1 {
				t.Fatal("admitted delta's index should be tagged fromP1=true")
			}
		}
	}
	if !found {
		t.Fatal("expected at least one HasAdd delta for the Side-0 observation")
	}
}

// TestAndLenAggregatesBothSides checks Len sums both sub-pools after
// independent admissions on each side.
func TestAndLenAggregatesBothSides(t *testing.T) {
	p1 := NewSimplest[int]()
	p2 := NewSimplest[int]()
	a := NewAnd[int](p1, p2)

	v1, v2 := 1, 2

	if err := a.Process([]Observation{{Side: 0, Index: 1, Value: 1}}, RefValue[int](&v1), cloneInt, 1.0, noopHandler); err != nil {
		t.Fatalf("Process (side 0): %v", err)
	}
	if err := a.Process([]Observation{{Side: 1, Index: 1, Value: 1}}, RefValue[int](&v2), cloneInt, 1.0, noopHandler); err != nil {
		t.Fatalf("Process (side 1): %v", err)
	}

	if a.Len() != p1.Len()+p2.Len() {
		t.Fatalf("And.Len() = %d, want P1.Len()+P2.Len() = %d", a.Len(), p1.Len()+p2.Len())
	}
	if a.Len() == 0 {
		t.Fatal("expected both sides to have admitted their observation")
	}
}

// TestAndGetResolvesThroughTaggedIndex checks that Get dereferences an
// And-tagged index through the correct sub-pool.
func TestAndGetResolvesThroughTaggedIndex(t *testing.T) {
	p1 := NewSimplest[int]()
	p2 := NewSimplest[int]()
	a := NewAnd[int](p1, p2)

	value := 7

	var added Index
	err := a.Process([]Observation{{Side: 0, Index: 2, Value: 1}}, RefValue[int](&value), cloneInt, 1.0, func(delta CorpusDelta[int], stats Stats) error {
		if delta.HasAdd {
			added = delta.AddIndex
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	got := a.Get(added)
	if got == nil || *got != 7 {
		t.Fatalf("And.Get(added) = %v, want pointer to 7", got)
	}
}
