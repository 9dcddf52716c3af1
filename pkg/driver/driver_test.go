package driver

import (
	"context"
	"os"
	"testing"

	"github.com/orizon-lang/fuzzcheck/pkg/mutator"
	"github.com/orizon-lang/fuzzcheck/pkg/pool"
	"github.com/orizon-lang/fuzzcheck/pkg/sensor"
	"github.com/orizon-lang/fuzzcheck/pkg/serialize"
	"github.com/orizon-lang/fuzzcheck/pkg/world"
)

type quad = mutator.Quad[uint8, uint8, uint8, uint8]

func cloneQuad(v *quad) quad { return *v }

// sumTarget is scenario S1: test(x) = x.0+x.1+x.2+x.3 != 1000, failing
// exactly on the quadruples whose bytes sum to 1000, such as
// (250,250,250,250). One counter per 32-wide bucket of the running sum
// gives Simplest a gradient to climb toward that sum.
func sumTarget(counters []byte) func(*quad) bool {
	return func(x *quad) bool {
		sum := uint32(x.First) + uint32(x.Second) + uint32(x.Third) + uint32(x.Fourth)

		bucket := sum / 32
		if int(bucket) < len(counters) {
			counters[bucket]++
		}

		return sum != 1000
	}
}

func buildS1Driver(maxRuns uint64) *Driver[quad] {
	m := mutator.NewTuple4[uint8, uint8, uint8, uint8](
		mutator.NewInt[uint8](8), mutator.NewInt[uint8](8),
		mutator.NewInt[uint8](8), mutator.NewInt[uint8](8),
	)

	counters := make([]byte, 33)
	cov := sensor.NewCoverage(counters)

	simplest := pool.NewSimplest[quad]()
	failures := pool.NewTestFailure[quad](nil)
	composed := pool.NewAnd[quad](simplest, failures)

	d := New[quad](m, composed, cov, serialize.NewJSON[quad](), sumTarget(counters), cloneQuad, Options{
		MaxNbrOfRuns: maxRuns,
	})
	d.FailureSensor = sensor.NewTestFailure()

	return d
}

// TestFuzzDiscoversIntegerSumFailure is scenario S1: within 200,000 runs
// the fuzzer must find a quadruple summing to exactly 1000.
func TestFuzzDiscoversIntegerSumFailure(t *testing.T) {
	d := buildS1Driver(200_000)

	if err := d.Run(context.Background(), Fuzz, nil); err != nil {
		t.Fatalf("Run(Fuzz): %v", err)
	}

	if !d.FailureObserved() {
		t.Fatal("expected the integer-sum predicate to fail within 200,000 runs")
	}
}

// TestReadReportsPredicateFailure exercises the read command directly
// against the known failing input (250,250,250,250), without going
// through the mutation loop.
func TestReadReportsPredicateFailure(t *testing.T) {
	d := buildS1Driver(0)

	failing := quad{First: 250, Second: 250, Third: 250, Fourth: 250}

	err := d.Run(context.Background(), Read, &failing)
	if err == nil {
		t.Fatal("expected Read to report a predicate failure for (250,250,250,250)")
	}

	if !d.FailureObserved() {
		t.Fatal("FailureObserved() should be true after a failing Read")
	}
}

// TestReadPassesOnNonFailingInput checks the read command's non-failure
// path: a quadruple that does not sum to 1000 must not be reported.
func TestReadPassesOnNonFailingInput(t *testing.T) {
	d := buildS1Driver(0)

	passing := quad{First: 1, Second: 1, Third: 1, Fourth: 1}

	if err := d.Run(context.Background(), Read, &passing); err != nil {
		t.Fatalf("Read on a passing input returned an error: %v", err)
	}

	if d.FailureObserved() {
		t.Fatal("FailureObserved() should be false after a passing Read")
	}
}

// TestSeedIntegratesExternalValueIntoPool checks that Seed runs the
// predicate without mutating its argument and still feeds observations
// into the pool, so a corpus-in file establishes counter ownership before
// any mutation happens to cover it again.
func TestSeedIntegratesExternalValueIntoPool(t *testing.T) {
	d := buildS1Driver(0)

	seed := quad{First: 10, Second: 10, Third: 10, Fourth: 10}

	if err := d.Seed(seed); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if d.Pool.Len() == 0 {
		t.Fatal("Seed did not admit any case into the pool despite fresh coverage")
	}

	if d.FailureObserved() {
		t.Fatal("a non-failing seed must not mark failureObserved")
	}
}

// TestHandleCrashPersistsCurrentValue exercises the deferred half of the
// crash-signal path: given the current-test pointer set the way
// runPredicate sets it, handleCrash must raise the failure flag and write
// the snapshotted bytes to an artifact, without needing a real OS signal.
func TestHandleCrashPersistsCurrentValue(t *testing.T) {
	d := buildS1Driver(0)

	dir := t.TempDir()

	artifacts, err := world.NewArtifacts[quad](dir, serialize.NewJSON[quad]())
	if err != nil {
		t.Fatalf("NewArtifacts: %v", err)
	}

	d.Artifacts = artifacts

	value := quad{First: 3, Second: 4, Third: 5, Fourth: 6}
	setCurrent(&currentHandle{serialize: func() ([]byte, string) {
		return d.Serializer.ToData(value), d.Serializer.Extension()
	}})
	defer clearCurrent()

	d.handleCrash()

	if !d.FailureObserved() {
		t.Fatal("handleCrash must mark FailureObserved")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}

	if len(entries) != 1 {
		t.Fatalf("handleCrash wrote %d artifact files, want 1", len(entries))
	}
}

// TestHandleCrashWithoutCurrentValueDoesNotPanic covers the case where a
// crash signal arrives outside any predicate bracket (e.g. during
// startup): there is nothing to snapshot, so handleCrash must still just
// raise the failure flag and return.
func TestHandleCrashWithoutCurrentValueDoesNotPanic(t *testing.T) {
	d := buildS1Driver(0)

	clearCurrent()
	d.handleCrash()

	if !d.FailureObserved() {
		t.Fatal("handleCrash must mark FailureObserved even with nothing to snapshot")
	}
}
