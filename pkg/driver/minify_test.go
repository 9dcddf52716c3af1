package driver

import (
	"context"
	"testing"
	"time"

	"github.com/orizon-lang/fuzzcheck/pkg/mutator"
	"github.com/orizon-lang/fuzzcheck/pkg/pool"
	"github.com/orizon-lang/fuzzcheck/pkg/sensor"
	"github.com/orizon-lang/fuzzcheck/pkg/serialize"
)

// TestMinifyInputShrinksFailingInput reuses the S1 integer-sum fixture to
// check minify-input's general shrink discipline: starting from a complex
// failing input, it must keep only strictly-simpler mutations that still
// fail, converging toward the predicate's boundary rather than wandering
// arbitrarily. See TestMinifyInputShrinksRecursiveListToExactDepth below
// for scenario S2 itself, which needs a genuine recursive type.
func TestMinifyInputShrinksFailingInput(t *testing.T) {
	d := buildS1Driver(0)

	// Any quadruple summing to at least 900 fails; the simplest failing
	// value the mutator can reach is the all-zero-but-boundary case, so
	// repeated minification should drive the complexity down from the
	// seed's.
	d.Predicate = func(x *quad) bool {
		sum := uint32(x.First) + uint32(x.Second) + uint32(x.Third) + uint32(x.Fourth)
		return sum < 900
	}

	seed := quad{First: 250, Second: 250, Third: 250, Fourth: 250}
	cache, ok := d.Mutator.Validate(&seed)
	if !ok {
		t.Fatal("seed failed mutator validation")
	}
	seedCplx := d.Mutator.Complexity(&seed, cache)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	working := seed
	if err := d.Run(ctx, MinifyInput, &working); err != nil {
		t.Fatalf("Run(MinifyInput): %v", err)
	}

	workingCache, _ := d.Mutator.Validate(&working)
	workingCplx := d.Mutator.Complexity(&working, workingCache)

	if workingCplx >= seedCplx {
		t.Fatalf("minify-input did not shrink complexity: seed=%v working=%v (%f >= %f)", seed, working, workingCplx, seedCplx)
	}

	sum := uint32(working.First) + uint32(working.Second) + uint32(working.Third) + uint32(working.Fourth)
	if sum < 900 {
		t.Fatalf("minified value %v no longer fails the predicate (sum=%d)", working, sum)
	}
}

// listHeads turns a slice of heads into the Cons/Nil chain the same length
// encodes, outermost-first.
func listHeads(heads ...uint8) mutator.List {
	out := mutator.List{}
	for i := len(heads) - 1; i >= 0; i-- {
		out = mutator.List{Present: true, Cons: &mutator.ConsCell{Head: heads[i], Tail: out}}
	}

	return out
}

func cloneList(v *mutator.List) mutator.List { return *v }

func buildListDriver() *Driver[mutator.List] {
	m := mutator.NewListMutator()
	simplest := pool.NewSimplest[mutator.List]()

	return New[mutator.List](m, simplest, sensor.NewCoverage(make([]byte, 1)), serialize.NewJSON[mutator.List](),
		func(l *mutator.List) bool {
			return l.Depth() < 5 || l.Sum() != 42
		}, cloneList, Options{})
}

// TestMinifyInputShrinksRecursiveListToExactDepth is spec scenario S2: a
// linked list L ::= Nil | Cons(u8, Box<L>), predicate
// depth(l) < 5 || sum(l) != 42, minify-input shrinking any retained
// failing list down toward a minimal failing one — depth exactly 5, since
// shrinking below 5 makes depth(l) < 5 true and the predicate pass.
func TestMinifyInputShrinksRecursiveListToExactDepth(t *testing.T) {
	d := buildListDriver()

	seed := listHeads(42, 0, 0, 0, 0, 0, 0, 0)

	if seed.Depth() < 5 || seed.Sum() != 42 {
		t.Fatalf("fixture seed %+v does not satisfy the failing precondition", seed)
	}

	cache, ok := d.Mutator.Validate(&seed)
	if !ok {
		t.Fatal("seed failed mutator validation")
	}
	seedCplx := d.Mutator.Complexity(&seed, cache)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	working := seed
	if err := d.Run(ctx, MinifyInput, &working); err != nil {
		t.Fatalf("Run(MinifyInput): %v", err)
	}

	workingCache, ok := d.Mutator.Validate(&working)
	if !ok {
		t.Fatal("minified value failed mutator validation")
	}
	workingCplx := d.Mutator.Complexity(&working, workingCache)

	if workingCplx >= seedCplx {
		t.Fatalf("minify-input did not shrink complexity: seed=%+v working=%+v (%f >= %f)", seed, working, workingCplx, seedCplx)
	}

	if working.Depth() != 5 {
		t.Fatalf("minified list %+v has depth %d, want exactly 5 (the predicate's floor)", working, working.Depth())
	}

	if working.Sum() != 42 {
		t.Fatalf("minified list %+v no longer fails the predicate (sum=%d, want 42)", working, working.Sum())
	}
}
