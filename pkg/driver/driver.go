// Package driver implements the fuzzing engine's single-threaded
// cooperative event loop: pick a test case from a pool, mutate it
// reversibly, run the predicate under signal and timeout protection, let
// the pool integrate the observations, then revert the mutation.
package driver

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/fuzzcheck/internal/errors"
	"github.com/orizon-lang/fuzzcheck/pkg/mutator"
	"github.com/orizon-lang/fuzzcheck/pkg/pool"
	"github.com/orizon-lang/fuzzcheck/pkg/sensor"
	"github.com/orizon-lang/fuzzcheck/pkg/serialize"
	"github.com/orizon-lang/fuzzcheck/pkg/world"
)

// Command selects one of the four top-level modes the driver supports.
type Command int

const (
	// Fuzz runs the feedback loop indefinitely (until a run/time limit or
	// a cancellation signal).
	Fuzz Command = iota
	// Read executes the predicate once on a given input and reports the
	// outcome, without touching the pool.
	Read
	// MinifyInput repeatedly mutates one seed input, keeping only
	// strictly-simpler mutations that still fail, until interrupted.
	MinifyInput
	// MinifyCorpus asks the pool to shrink its retained set to Options.CorpusSize.
	MinifyCorpus
)

// Options configures a Driver run. Field names mirror the CLI flags that
// set them (see cmd/fuzzcheck).
type Options struct {
	MaxInputComplexity float64
	MaxNbrOfRuns        uint64 // 0 = unlimited
	Timeout             time.Duration
	CorpusSize          int // MinifyCorpus target length
}

// Driver couples one Mutator, Pool, and Sensor over a value type T with
// the predicate under test, running the event loop described in package
// driver's doc comment.
type Driver[T any] struct {
	Mutator    mutator.Mutator[T]
	Pool       pool.Pool[T]
	Serializer serialize.Serializer[T]

	// Sensor reports observations tagged pool.Observation Side 0.
	// FailureSensor, if set, reports Side 1 observations within the same
	// recording bracket — the shape an AndPool(Simplest, TestFailure)
	// composition expects. Kept as two fields rather than one AndSensor
	// because AndSensor's IterateOverObservations takes a PairHandler,
	// not the plain ObservationHandler this driver collects through.
	Sensor        sensor.Sensor[sensor.ObservationHandler]
	FailureSensor sensor.Sensor[sensor.ObservationHandler]

	// Predicate reports whether value passes. Returning false, or
	// panicking, is a failure.
	Predicate func(value *T) bool

	Clone pool.CloneInput[T]

	// Corpus and Artifacts are optional; when set, Fuzz/MinifyCorpus
	// route pool deltas and failing inputs through them.
	Corpus    *world.Corpus[T]
	Artifacts *world.Artifacts[T]

	// CorpusInWatcher, if set, lets Fuzz absorb seeds dropped into the
	// corpus-in directory by another process while this run is live,
	// feeding each through Seed as it arrives.
	CorpusInWatcher *world.Watcher

	Options Options

	failureObserved atomic.Bool
}

// New builds a Driver from its component strategies.
func New[T any](m mutator.Mutator[T], p pool.Pool[T], s sensor.Sensor[sensor.ObservationHandler], ser serialize.Serializer[T], predicate func(*T) bool, clone pool.CloneInput[T], opts Options) *Driver[T] {
	return &Driver[T]{
		Mutator: m, Pool: p, Sensor: s, Serializer: ser,
		Predicate: predicate, Clone: clone, Options: opts,
	}
}

// FailureObserved reports whether any iteration of this Driver's run
// discovered a failing input, for the caller's exit-code decision.
func (d *Driver[T]) FailureObserved() bool { return d.failureObserved.Load() }

// eventHandler returns the EventHandler Process/Minify report deltas
// through: persisted to Corpus if one is configured, otherwise a no-op.
func (d *Driver[T]) eventHandler() pool.EventHandler[T] {
	if d.Corpus == nil {
		return func(pool.CorpusDelta[T], pool.Stats) error { return nil }
	}

	return d.Corpus.Handler()
}

// Run dispatches to the command-specific loop. ctx cancellation (by the
// caller, or internally on SIGINT/SIGTERM) stops Fuzz and MinifyInput at
// the top of their next iteration; Read and MinifyCorpus are one-shot and
// ignore ctx once started.
func (d *Driver[T]) Run(ctx context.Context, cmd Command, seed *T) error {
	switch cmd {
	case Fuzz:
		return d.runFuzz(ctx)
	case Read:
		return d.runRead(seed)
	case MinifyInput:
		return d.runMinifyInput(ctx, seed)
	case MinifyCorpus:
		return d.runMinifyCorpus()
	default:
		return fmt.Errorf("driver: unknown command %d", cmd)
	}
}

// runFuzz is the Fuzz command: the six-step loop, guarded by a shutdown
// signal listener running alongside it.
func (d *Driver[T]) runFuzz(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	sigCh := make(chan os.Signal, 4)
	notify(sigCh, shutdownSignals()...)

	g.Go(func() error {
		select {
		case <-sigCh:
			sensor.SetFailed()
			cancel()
		case <-gctx.Done():
		}

		return nil
	})

	// crashSignals is empty on platforms with no portable signal set
	// (signals_other.go); registering Notify with zero signals would
	// instead relay every signal, so the listener is only started when
	// there is a real set to watch.
	if crashes := crashSignals(); len(crashes) > 0 {
		crashCh := make(chan os.Signal, 4)
		notify(crashCh, crashes...)

		g.Go(func() error {
			select {
			case <-crashCh:
				d.handleCrash()
				cancel()
			case <-gctx.Done():
			}

			return nil
		})
	}

	if d.CorpusInWatcher != nil {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case ev, ok := <-d.CorpusInWatcher.Events():
					if !ok {
						return nil
					}

					if ev.Removed {
						continue
					}

					d.seedFromPath(ev.Path)
				}
			}
		})
	}

	g.Go(func() error {
		var runs uint64

		for {
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			if d.Options.MaxNbrOfRuns > 0 && runs >= d.Options.MaxNbrOfRuns {
				cancel()

				return nil
			}

			if _, err := d.iterate(); err != nil {
				cancel()

				return err
			}

			runs++
		}
	})

	return g.Wait()
}

// iterate runs one pass of Select/Mutate/Run/Integrate/Revert, returning
// whether the predicate failed.
func (d *Driver[T]) iterate() (failed bool, err error) {
	maxCplx := d.effectiveMaxComplexity()

	valuePtr, cache, ref, _, ok := d.selectInput(maxCplx)
	if !ok {
		return false, nil
	}

	token, newCplx := d.Mutator.RandomMutate(valuePtr, cache, maxCplx)
	if newCplx > maxCplx {
		d.Mutator.Unmutate(valuePtr, cache, token)

		return false, nil
	}

	passed, _ := d.runPredicate(valuePtr)
	observations := d.collectObservations()

	if !passed {
		failed = true
		d.failureObserved.Store(true)

		if d.Artifacts != nil {
			if _, err := d.Artifacts.Save(*valuePtr, newCplx); err != nil {
				d.Mutator.Unmutate(valuePtr, cache, token)

				return true, err
			}
		}
	}

	if err := d.Pool.Process(observations, ref, d.Clone, newCplx, d.eventHandler()); err != nil {
		d.Mutator.Unmutate(valuePtr, cache, token)

		return failed, err
	}

	d.Mutator.Unmutate(valuePtr, cache, token)

	return failed, nil
}

// selectInput implements step 1 (Select): pull an index from the pool, or
// fall back to a freshly generated value when the pool is empty.
func (d *Driver[T]) selectInput(maxCplx float64) (value *T, cache any, ref pool.InputRef[T], cplx float64, ok bool) {
	if idx, has := d.Pool.GetRandomIndex(); has {
		v := d.Pool.Get(idx)
		c, validOK := d.Mutator.Validate(v)

		if !validOK {
			// Invariant violation in mutator: treat as corpus corruption,
			// skip this input.
			return nil, nil, pool.InputRef[T]{}, 0, false
		}

		return v, c, pool.RefIndex[T](idx), d.Mutator.Complexity(v, c), true
	}

	v, genCplx := d.Mutator.RandomArbitrary(maxCplx)
	c, validOK := d.Mutator.Validate(&v)

	if !validOK {
		return nil, nil, pool.InputRef[T]{}, 0, false
	}

	return &v, c, pool.RefValue[T](&v), genCplx, true
}

func (d *Driver[T]) effectiveMaxComplexity() float64 {
	if d.Options.MaxInputComplexity > 0 {
		return d.Options.MaxInputComplexity
	}

	return d.Mutator.MaxComplexity()
}

func (d *Driver[T]) collectObservations() []pool.Observation {
	var obs []pool.Observation

	d.Sensor.IterateOverObservations(func(index int, value uint64) {
		obs = append(obs, pool.Observation{Side: 0, Index: index, Value: value})
	})

	if d.FailureSensor != nil {
		d.FailureSensor.IterateOverObservations(func(index int, value uint64) {
			obs = append(obs, pool.Observation{Side: 1, Index: index, Value: value})
		})
	}

	return obs
}

// runPredicate brackets one predicate call with the sensor's recording
// window and the process-wide current-test pointer, recovering any panic
// and converting it (like an unrecoverable signal would) into a failure.
func (d *Driver[T]) runPredicate(value *T) (passed bool, panicked bool) {
	setCurrent(&currentHandle{serialize: func() ([]byte, string) {
		return d.Serializer.ToData(*value), d.Serializer.Extension()
	}})
	defer clearCurrent()

	done := make(chan struct{})

	go func() {
		// Recover must run before either StopRecording, so that a panic's
		// SetFailed call is visible to the sensor brackets it interrupted;
		// defers run LIFO, so it is registered last.
		defer close(done)

		if d.FailureSensor != nil {
			defer d.FailureSensor.StopRecording()
		}

		defer d.Sensor.StopRecording()
		defer func() {
			if r := recover(); r != nil {
				sensor.SetFailed()
				panicked = true
			}
		}()

		d.Sensor.StartRecording()

		if d.FailureSensor != nil {
			d.FailureSensor.StartRecording()
		}

		passed = d.Predicate(value)

		if !passed {
			sensor.SetFailed()
		}
	}()

	if d.Options.Timeout > 0 {
		select {
		case <-done:
		case <-time.After(d.Options.Timeout):
			// The predicate goroutine is not killed, Go has no
			// preemptive cancellation; it is left to finish (or hang)
			// in the background and its eventual StopRecording call is
			// racy against the next iteration's StartRecording. A hung
			// predicate is already a failing one, so the process exits
			// via the artifact written here before that race matters in
			// practice.
			sensor.SetFailed()

			return false, true
		}
	} else {
		<-done
	}

	return passed, panicked
}

func (d *Driver[T]) runRead(value *T) error {
	cache, ok := d.Mutator.Validate(value)
	if !ok {
		return errors.InvariantViolation(fmt.Sprintf("%T", d.Mutator))
	}

	passed, _ := d.runPredicate(value)
	_ = cache

	if !passed {
		d.failureObserved.Store(true)

		return errors.TestFailure("predicate returned false on --input-file")
	}

	return nil
}

// Seed runs the predicate once on value without mutating it and feeds the
// resulting observations into the pool, so a corpus entry loaded from disk
// re-establishes its counter ownership instead of sitting outside the
// pool's notion of state until some later mutation happens to cover it
// again.
func (d *Driver[T]) Seed(value T) error {
	cache, ok := d.Mutator.Validate(&value)
	if !ok {
		return nil
	}

	cplx := d.Mutator.Complexity(&value, cache)

	passed, _ := d.runPredicate(&value)
	observations := d.collectObservations()

	if !passed {
		d.failureObserved.Store(true)

		if d.Artifacts != nil {
			if _, err := d.Artifacts.Save(value, cplx); err != nil {
				return err
			}
		}
	}

	return d.Pool.Process(observations, pool.RefValue[T](&value), d.Clone, cplx, d.eventHandler())
}

// handleCrash runs on runFuzz's crash-listener goroutine after a crash signal (SIGSEGV,
// SIGBUS, SIGFPE, SIGILL, SIGABRT — raised by cgo or other non-Go code a
// predicate called into; a fault in Go code itself surfaces as a panic,
// already handled by runPredicate's recover) is observed. Per spec.md
// section 5, the signal handler itself touches only the atomic
// current-test pointer and failure flag; all serialization happens here,
// once the signal has been relayed to that listener goroutine.
func (d *Driver[T]) handleCrash() {
	sensor.SetFailed()
	d.failureObserved.Store(true)

	if d.Artifacts == nil {
		return
	}

	data, ext, ok := snapshotCurrent()
	if !ok {
		return
	}

	// The mutator that produced the crashing value is not reachable from
	// this process-wide path (only its serialized bytes are), so there is
	// no Mutator.Complexity to call; byte length is the closest available
	// size-proxy for the filename's sort key.
	_, _ = d.Artifacts.SaveRaw(data, ext, float64(len(data)))
}

// seedFromPath reads and decodes path through the driver's serializer and
// feeds it to Seed, the same fate a file already present at startup would
// have met through Corpus.Load followed by Seed. A decode failure is a skip, not fatal: the
// dropped-in file may simply not be this target's shape yet.
func (d *Driver[T]) seedFromPath(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	value, ok := d.Serializer.FromData(data)
	if !ok {
		return
	}

	_ = d.Seed(value)
}
