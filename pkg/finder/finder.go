// Package finder runs a complete search: parallel enumeration over the base
// pairs, per-worker reduction, merge and final reduction.
package finder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"rm-polyfinder/pkg/config"
	"rm-polyfinder/pkg/enumerate"
	"rm-polyfinder/pkg/hash"
	"rm-polyfinder/pkg/metrics"
	"rm-polyfinder/pkg/minimize"
	"rm-polyfinder/pkg/poly"
	"rm-polyfinder/pkg/reduce"
	"rm-polyfinder/pkg/replist"
)

// Options configure a Finder. Both fields may be nil.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Finder orchestrates runs. A Finder may run several configurations in
// sequence; each run owns all of its mutable state.
type Finder struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

// Result is the outcome of a successful run.
type Result struct {
	// Representatives are minimized, canonical and pairwise inequivalent.
	Representatives []poly.Poly

	// WorkerSizes is each worker's list length after its own reduction.
	WorkerSizes []int

	// Stats sums the enumeration counters of all workers.
	Stats enumerate.Stats

	EnumerateTime time.Duration
	TotalTime     time.Duration
}

// New returns a Finder.
func New(opts Options) *Finder {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Finder{log: log, metrics: opts.Metrics}
}

// Partition deals pairs to workers round robin: pair i goes to worker
// i mod workers. Order within a worker follows the input.
func Partition(pairs []enumerate.Pair, workers int) [][]enumerate.Pair {
	parts := make([][]enumerate.Pair, workers)
	for i, p := range pairs {
		parts[i%workers] = append(parts[i%workers], p)
	}
	return parts
}

// newMinimizer returns a minimizer whose random stream is derived from seed
// and stream. Streams 0..W-1 belong to the workers, W to the final pass.
func newMinimizer(seed uint64, stream int) *minimize.Minimizer {
	mz, err := minimize.New(poly.NewWorkspace(), hash.WorkerStream(seed, stream))
	if err != nil {
		panic(err)
	}
	return mz
}

// Run executes cfg. The first failing worker cancels the others and its
// error is returned; there is no partial result.
func (f *Finder) Run(ctx context.Context, cfg config.Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	parts := Partition(cfg.Pairs(), cfg.Workers)
	lists := make([]*replist.List, cfg.Workers)
	stats := make([]enumerate.Stats, cfg.Workers)

	f.log.Info("starting workers",
		slog.Int("workers", cfg.Workers),
		slog.Int("pairs", len(cfg.BasePairs)),
		slog.Int("weight", cfg.TargetWeight))

	g, gctx := errgroup.WithContext(ctx)
	for w := range parts {
		g.Go(func() error {
			l, s, err := f.work(gctx, cfg, w, parts[w])
			lists[w], stats[w] = l, s
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{WorkerSizes: make([]int, cfg.Workers)}
	for w, l := range lists {
		res.WorkerSizes[w] = l.Len()
		res.Stats.Leaves += stats[w].Leaves
		res.Stats.Hits += stats[w].Hits
		res.Stats.Inserted += stats[w].Inserted
		res.Stats.Duplicates += stats[w].Duplicates
	}
	merged := replist.Concat(lists...)
	f.metrics.SetListSize(metrics.StageEnumerated, res.Stats.Inserted)
	res.EnumerateTime = time.Since(start)
	f.metrics.SetListSize(metrics.StageMerged, merged.Len())
	f.log.Info("all workers done",
		slog.Int("candidates", merged.Len()),
		slog.Duration("elapsed", res.EnumerateTime))

	r := reduce.New(newMinimizer(cfg.Seed, cfg.Workers), f.log, f.metrics)
	if err := r.Apply(ctx, merged, cfg.FinalSchedule()); err != nil {
		return Result{}, fmt.Errorf("final reduction: %w", err)
	}
	f.metrics.SetListSize(metrics.StageFinal, merged.Len())

	res.Representatives = merged.Items()
	res.TotalTime = time.Since(start)
	f.log.Info("run complete",
		slog.Int("representatives", merged.Len()),
		slog.Duration("elapsed", res.TotalTime))
	return res, nil
}

// work enumerates pairs into a private list and reduces it.
func (f *Finder) work(ctx context.Context, cfg config.Config, w int, pairs []enumerate.Pair) (*replist.List, enumerate.Stats, error) {
	log := f.log.With(slog.Int("worker", w))
	mz := newMinimizer(cfg.Seed, w)
	e := enumerate.New(mz, enumerate.Options{
		Weight:  cfg.TargetWeight,
		Wait:    cfg.Wait,
		Jumps:   cfg.RandomJumps,
		Logger:  log,
		Metrics: f.metrics,
	})
	list := replist.New(cfg.MaxListCapacity)

	for i, p := range pairs {
		if err := e.Run(ctx, p, list); err != nil {
			return nil, e.Stats(), fmt.Errorf("worker %d, pair %d: %w", w, i*cfg.Workers+w, err)
		}
	}
	log.Info("worker enumerated",
		slog.Int("pairs", len(pairs)),
		slog.Int("candidates", list.Len()))

	r := reduce.New(mz, log, f.metrics)
	if err := r.Apply(ctx, list, cfg.WorkerSchedule()); err != nil {
		return nil, e.Stats(), fmt.Errorf("worker %d: %w", w, err)
	}
	log.Debug("worker reduced", slog.Int("candidates", list.Len()))
	return list, e.Stats(), nil
}
