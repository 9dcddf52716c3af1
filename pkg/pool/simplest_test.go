package pool

import "testing"

func cloneInt(v *int) int { return *v }

func noopHandler(CorpusDelta[int], Stats) error { return nil }

// TestSimplestAdmitsOnlyCheaperOwner checks law 6
// (SimplestToActivateCounterPool optimality): a test case is retained for a
// counter only if no cheaper case already owns it, and admitting a cheaper
// case evicts the costlier one it displaces.
func TestSimplestAdmitsOnlyCheaperOwner(t *testing.T) {
	p := NewSimplest[int]()

	expensive := 100
	if err := p.Process([]Observation{{Index: 1, Value: 1}}, RefValue(&expensive), cloneInt, 10.0, noopHandler); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after first admission", p.Len())
	}

	costlier := 200
	if err := p.Process([]Observation{{Index: 1, Value: 1}}, RefValue(&costlier), cloneInt, 20.0, noopHandler); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if p.Len() != 1 {
		t.Fatalf("Len() = %d after a costlier case activated an already-owned counter, want still 1", p.Len())
	}

	cheaper := 5
	if err := p.Process([]Observation{{Index: 1, Value: 1}}, RefValue(&cheaper), cloneInt, 1.0, noopHandler); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if p.Len() != 1 {
		t.Fatalf("Len() = %d after a cheaper case displaced the owner, want 1 (old owner evicted)", p.Len())
	}

	idx, ok := p.GetRandomIndex()
	if !ok {
		t.Fatal("GetRandomIndex found nothing after an admission")
	}

	if got := *p.Get(idx); got != cheaper {
		t.Fatalf("surviving owner = %d, want the cheaper case %d", got, cheaper)
	}
}

// TestSimplestZeroValueObservationsNeverAdmit checks that an Observation
// with Value 0 (counter never hit) never triggers admission.
func TestSimplestZeroValueObservationsNeverAdmit(t *testing.T) {
	p := NewSimplest[int]()

	v := 1
	if err := p.Process([]Observation{{Index: 1, Value: 0}}, RefValue(&v), cloneInt, 1.0, noopHandler); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if p.Len() != 0 {
		t.Fatalf("Len() = %d, want 0: a zero-value observation must never admit a case", p.Len())
	}
}

// TestSimplestNoStaleIndices checks law 8: after Minify evicts a case,
// RetrieveAfterProcessing must refuse to resolve the stale index rather
// than returning a dangling or wrong value.
func TestSimplestNoStaleIndices(t *testing.T) {
	p := NewSimplest[int]()

	a := 1
	if err := p.Process([]Observation{{Index: 1, Value: 1}}, RefValue(&a), cloneInt, 1.0, noopHandler); err != nil {
		t.Fatalf("Process: %v", err)
	}

	idx, ok := p.GetRandomIndex()
	if !ok {
		t.Fatal("GetRandomIndex found nothing after admission")
	}

	generationBefore := p.generation

	b := 2
	if err := p.Process([]Observation{{Index: 2, Value: 1}}, RefValue(&b), cloneInt, 2.0, noopHandler); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if _, ok := p.RetrieveAfterProcessing(idx, generationBefore); !ok {
		t.Fatal("RetrieveAfterProcessing refused an index that was not actually evicted")
	}

	if err := p.Minify(0, noopHandler); err != nil {
		t.Fatalf("Minify: %v", err)
	}

	if _, ok := p.RetrieveAfterProcessing(idx, generationBefore); ok {
		t.Fatal("RetrieveAfterProcessing resolved an index Minify had already evicted")
	}
}
