package driver

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// runMinifyInput repeatedly mutates seed in place, keeping a mutation only
// when it is both strictly simpler than the current best and still fails
// the predicate, discarding (reverting) it otherwise. There is no target
// complexity or iteration count: like Fuzz, this runs until cancelled.
func (d *Driver[T]) runMinifyInput(ctx context.Context, seed *T) error {
	if seed == nil {
		return fmt.Errorf("driver: minify-input requires a seed value")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	sigCh := make(chan os.Signal, 4)
	notify(sigCh, shutdownSignals()...)

	g.Go(func() error {
		select {
		case <-sigCh:
			cancel()
		case <-gctx.Done():
		}

		return nil
	})

	g.Go(func() error {
		defer cancel()

		return d.minifyLoop(gctx, seed)
	})

	return g.Wait()
}

func (d *Driver[T]) minifyLoop(ctx context.Context, seed *T) error {
	best := seed
	maxCplx := d.effectiveMaxComplexity()

	cache, ok := d.Mutator.Validate(best)
	if !ok {
		return fmt.Errorf("driver: seed input fails mutator validation")
	}

	bestCplx := d.Mutator.Complexity(best, cache)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		token, newCplx := d.Mutator.RandomMutate(best, cache, maxCplx)

		if newCplx >= bestCplx {
			d.Mutator.Unmutate(best, cache, token)

			continue
		}

		passed, _ := d.runPredicate(best)

		if passed {
			d.Mutator.Unmutate(best, cache, token)

			continue
		}

		// Strictly simpler and still failing: keep it as the new best,
		// the mutation stays applied (no Unmutate).
		bestCplx = newCplx
		d.failureObserved.Store(true)

		if d.Artifacts != nil {
			if _, err := d.Artifacts.Save(*best, bestCplx); err != nil {
				return err
			}
		}
	}
}

// runMinifyCorpus asks the pool to shrink its retained set to
// Options.CorpusSize in one call, persisting every eviction it reports.
func (d *Driver[T]) runMinifyCorpus() error {
	if d.Pool == nil {
		return fmt.Errorf("driver: minify-corpus requires a pool")
	}

	return d.Pool.Minify(d.Options.CorpusSize, d.eventHandler())
}
