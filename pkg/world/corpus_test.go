package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orizon-lang/fuzzcheck/pkg/pool"
	"github.com/orizon-lang/fuzzcheck/pkg/serialize"
)

func TestCorpusHandlerWritesAndRemoves(t *testing.T) {
	dir := t.TempDir()

	c, err := NewCorpus[int](dir, serialize.NewJSON[int]())
	if err != nil {
		t.Fatalf("NewCorpus: %v", err)
	}

	handle := c.Handler()

	add := pool.CorpusDelta[int]{HasAdd: true, AddValue: 42, AddIndex: pool.NewIndex(1), Complexity: 3.5}
	if err := handle(add, nil); err != nil {
		t.Fatalf("Handler(add): %v", err)
	}

	cases, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cases) != 1 || cases[0].Value != 42 {
		t.Fatalf("Load() = %+v, want one case with value 42", cases)
	}

	remove := pool.CorpusDelta[int]{Remove: []pool.Index{pool.NewIndex(1)}}
	if err := handle(remove, nil); err != nil {
		t.Fatalf("Handler(remove): %v", err)
	}

	cases, err = c.Load()
	if err != nil {
		t.Fatalf("Load after remove: %v", err)
	}

	if len(cases) != 0 {
		t.Fatalf("Load() after remove = %+v, want empty", cases)
	}
}

func TestCorpusLoadSkipsUndecodableFiles(t *testing.T) {
	dir := t.TempDir()

	c, err := NewCorpus[int](dir, serialize.NewJSON[int]())
	if err != nil {
		t.Fatalf("NewCorpus: %v", err)
	}

	handle := c.Handler()
	if err := handle(pool.CorpusDelta[int]{HasAdd: true, AddValue: 1, AddIndex: pool.NewIndex(1), Complexity: 1}, nil); err != nil {
		t.Fatalf("Handler: %v", err)
	}

	// A file that is not valid JSON for T: Load must skip it rather than
	// fail the whole directory read.
	junkPath := filepath.Join(dir, "00000000000.000000--garbage.json")
	if err := os.WriteFile(junkPath, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write junk file: %v", err)
	}

	cases, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cases) != 1 {
		t.Fatalf("Load() = %d cases, want 1 (junk file skipped)", len(cases))
	}
}

func TestCorpusSimplestReturnsLowestComplexity(t *testing.T) {
	dir := t.TempDir()

	c, err := NewCorpus[int](dir, serialize.NewJSON[int]())
	if err != nil {
		t.Fatalf("NewCorpus: %v", err)
	}

	handle := c.Handler()
	if err := handle(pool.CorpusDelta[int]{HasAdd: true, AddValue: 1, AddIndex: pool.NewIndex(1), Complexity: 9.0}, nil); err != nil {
		t.Fatalf("Handler: %v", err)
	}

	if err := handle(pool.CorpusDelta[int]{HasAdd: true, AddValue: 2, AddIndex: pool.NewIndex(2), Complexity: 1.0}, nil); err != nil {
		t.Fatalf("Handler: %v", err)
	}

	simplest, ok := c.Simplest()
	if !ok {
		t.Fatal("Simplest() found nothing")
	}

	if simplest.Value != 2 {
		t.Fatalf("Simplest().Value = %d, want 2 (complexity 1.0 is lowest)", simplest.Value)
	}
}
