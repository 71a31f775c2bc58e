// Package reduce shrinks a representative list by repeated minimization and
// deduplication.
package reduce

import (
	"context"
	"log/slog"
	"time"

	"rm-polyfinder/pkg/equiv"
	"rm-polyfinder/pkg/metrics"
	"rm-polyfinder/pkg/minimize"
	"rm-polyfinder/pkg/replist"
)

// Pass is one reduction step repeated Repeat times.
type Pass struct {
	Wait   int `yaml:"wait" json:"wait" validate:"min=0"`
	Jumps  int `yaml:"jumps" json:"jumps" validate:"min=0"`
	Repeat int `yaml:"repeat" json:"repeat" validate:"min=1"`
}

// Schedule is a sequence of passes run in order.
type Schedule []Pass

// Len returns the total number of Shorten calls the schedule makes.
func (s Schedule) Len() int {
	n := 0
	for _, p := range s {
		n += p.Repeat
	}
	return n
}

// FullSchedule is run on the merged list. Cheap passes come first so the
// quadratic deduplication of the expensive ones sees a shorter list.
var FullSchedule = Schedule{
	{Wait: 10, Jumps: 3, Repeat: 1},
	{Wait: 50, Jumps: 5, Repeat: 1},
	{Wait: 50, Jumps: 5, Repeat: 100},
	{Wait: 100, Jumps: 10, Repeat: 10},
	{Wait: 50, Jumps: 5, Repeat: 100},
	{Wait: 100, Jumps: 10, Repeat: 10},
}

// WorkerSchedule is run by every worker on its private list.
var WorkerSchedule = Schedule{
	{Wait: 10, Jumps: 3, Repeat: 1},
	{Wait: 20, Jumps: 4, Repeat: 1},
}

// Reducer applies schedules with one Minimizer.
// It must not be shared between goroutines.
type Reducer struct {
	mz      *minimize.Minimizer
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New returns a Reducer using mz. log and m may be nil.
func New(mz *minimize.Minimizer, log *slog.Logger, m *metrics.Metrics) *Reducer {
	if log == nil {
		log = slog.Default()
	}
	return &Reducer{mz: mz, log: log, metrics: m}
}

// Shorten minimizes every entry of list, then drops each entry equivalent to
// an earlier one. Survivors keep their relative order. It returns the number
// of entries removed.
func (r *Reducer) Shorten(list *replist.List, wait, jumps int) int {
	start := time.Now()
	n := list.Len()
	for i := 0; i < n; i++ {
		p := list.At(i)
		r.mz.QuickSimplify(&p, wait, jumps)
		list.Set(i, p)
	}

	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}
	for i := 0; i < n; i++ {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if keep[j] && equiv.Equivalent(list.At(i), list.At(j)) {
				keep[j] = false
			}
		}
	}
	list.Compact(keep)

	r.metrics.RecordMinimizerRuns(n)
	r.metrics.ObservePass(time.Since(start))
	return n - list.Len()
}

// Apply runs every pass of s over list. It checks ctx between passes.
func (r *Reducer) Apply(ctx context.Context, list *replist.List, s Schedule) error {
	for _, p := range s {
		for k := 0; k < p.Repeat; k++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			removed := r.Shorten(list, p.Wait, p.Jumps)
			if removed > 0 {
				r.log.Debug("pass removed duplicates",
					slog.Int("wait", p.Wait),
					slog.Int("jumps", p.Jumps),
					slog.Int("removed", removed),
					slog.Int("list_size", list.Len()))
			}
		}
	}
	return nil
}
