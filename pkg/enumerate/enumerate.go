// Package enumerate searches the quadratic basis for candidates whose truth
// table has a prescribed weight.
//
// A candidate combines two base polynomials over the six working variables
// with a subset Q of the quadratic basis:
//
//	x0*B1 + x1*B2 + x0*x1*(Q [+ 1])
//
// with the working variables shifted up to x2..x7. Over the four settings of
// (x0, x1) its weight is w(B1) + w(B2) + w(B1+B2+Q [+1]), so a subset is
// accepted when the last term equals the target or its complement.
package enumerate

import (
	"context"
	"errors"
	"log/slog"

	"rm-polyfinder/pkg/gf2"
	"rm-polyfinder/pkg/metrics"
	"rm-polyfinder/pkg/minimize"
	"rm-polyfinder/pkg/poly"
	"rm-polyfinder/pkg/replist"
)

// Sentinel variables tagging the provenance of materialized terms.
const (
	tagBase1 gf2.Monomial = 1 << 0
	tagBase2 gf2.Monomial = 1 << 1
	tagBoth               = tagBase1 | tagBase2
	shift                 = 2
)

// cancelDepth is the recursion depth at which the context is polled.
const cancelDepth = 8

// ErrWorkingTerm is returned by Run when a base term uses a variable outside
// the six working variables.
var ErrWorkingTerm = errors.New("enumerate: base term outside working variables")

// Pair is one pair of base polynomials over the working variables.
type Pair struct {
	Base1 poly.Poly
	Base2 poly.Poly
}

// Options configure an Enumerator.
type Options struct {
	// Weight is the weight of the full candidate over all 256 points.
	Weight int

	// Wait and Jumps parameterize the local search run on every accepted
	// candidate.
	Wait  int
	Jumps int

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Stats counts what one or more calls to Run did.
type Stats struct {
	Leaves     int
	Hits       int
	Inserted   int
	Duplicates int
}

// Enumerator walks every subset of the quadratic basis.
// It is bound to one Minimizer and must not be shared between goroutines.
type Enumerator struct {
	mz   *minimize.Minimizer
	opts Options
	log  *slog.Logger

	basis  []gf2.Monomial
	tables []gf2.Table

	// per-run state
	ctx    context.Context
	target int
	pair   Pair
	list   *replist.List
	chosen []gf2.Monomial
	cand   poly.Poly
	stats  Stats
}

// New returns an Enumerator that reduces candidates with mz.
func New(mz *minimize.Minimizer, opts Options) *Enumerator {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Enumerator{
		mz:     mz,
		opts:   opts,
		log:    log,
		basis:  gf2.QuadraticBasis[:],
		tables: gf2.BasisTables[:],
		chosen: make([]gf2.Monomial, 0, gf2.BasisSize),
		cand:   make(poly.Poly, 0, poly.MaxTerms),
	}
}

// Target returns the weight the basis part of a candidate must reach.
func Target(weight int, b1, b2 poly.Poly) int {
	return weight - gf2.HammingWeight(b1.TruthTable()) - gf2.HammingWeight(b2.TruthTable())
}

// Stats returns the totals accumulated over all runs.
func (e *Enumerator) Stats() Stats {
	return e.stats
}

// Run enumerates every basis subset for pair and inserts each accepted,
// minimized candidate into list unless an equivalent entry is present.
// It stops with the wrapped replist.ErrCapacityExceeded when list is full,
// or with the context's error once ctx is done.
func (e *Enumerator) Run(ctx context.Context, pair Pair, list *replist.List) error {
	for _, b := range []poly.Poly{pair.Base1, pair.Base2} {
		for _, m := range b {
			if m >= gf2.TableSize {
				return ErrWorkingTerm
			}
		}
	}
	before := e.stats
	e.ctx = ctx
	e.target = Target(e.opts.Weight, pair.Base1, pair.Base2)
	e.pair = pair
	e.list = list
	e.chosen = e.chosen[:0]
	defer func() {
		e.ctx, e.list = nil, nil
	}()

	err := e.walk(pair.Base1.TruthTable()^pair.Base2.TruthTable(), 0)

	d := Stats{
		Leaves:     e.stats.Leaves - before.Leaves,
		Hits:       e.stats.Hits - before.Hits,
		Inserted:   e.stats.Inserted - before.Inserted,
		Duplicates: e.stats.Duplicates - before.Duplicates,
	}
	e.opts.Metrics.RecordEnumeration(d.Leaves, d.Hits, d.Inserted, d.Duplicates)
	e.opts.Metrics.RecordMinimizerRuns(d.Hits)
	e.log.Debug("pair enumerated",
		slog.Int("target", e.target),
		slog.Int("hits", d.Hits),
		slog.Int("inserted", d.Inserted),
		slog.Int("list_size", list.Len()))
	return err
}

// walk decides basis element lev, excluded branch first.
func (e *Enumerator) walk(table gf2.Table, lev int) error {
	if lev == cancelDepth {
		if err := e.ctx.Err(); err != nil {
			return err
		}
	}
	if lev == len(e.basis) {
		return e.leaf(table)
	}
	if err := e.walk(table, lev+1); err != nil {
		return err
	}
	e.chosen = append(e.chosen, e.basis[lev])
	err := e.walk(table^e.tables[lev], lev+1)
	e.chosen = e.chosen[:len(e.chosen)-1]
	return err
}

func (e *Enumerator) leaf(table gf2.Table) error {
	e.stats.Leaves++
	w := gf2.HammingWeight(table)
	if w != e.target && w != gf2.Complement(e.target) {
		return nil
	}
	e.stats.Hits++
	e.materialize(w != e.target)
	e.mz.QuickSimplify(&e.cand, e.opts.Wait, e.opts.Jumps)
	added, err := e.list.InsertUnique(e.cand)
	if err != nil {
		return err
	}
	if added {
		e.stats.Inserted++
	} else {
		e.stats.Duplicates++
	}
	return nil
}

// materialize builds the full candidate for the current subset into e.cand.
func (e *Enumerator) materialize(complement bool) {
	e.cand = e.cand[:0]
	for _, m := range e.pair.Base1 {
		e.cand.Add(tagBase1 | m<<shift)
	}
	for _, m := range e.pair.Base2 {
		e.cand.Add(tagBase2 | m<<shift)
	}
	for _, m := range e.chosen {
		e.cand.Add(tagBoth | m<<shift)
	}
	if complement {
		e.cand.Add(tagBoth)
	}
}
