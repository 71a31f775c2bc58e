// Package minimize reduces the number of terms of a polynomial by a
// randomized local search over affine substitutions.
//
// The neighborhood is every x_v -> x_v + 1 and every x_s -> x_s + x_t. A
// descent accepts a move only when it strictly shortens the polynomial;
// random transpositions between descents let the search leave local optima.
// The search is stochastic and gives no optimality guarantee.
package minimize

import (
	"errors"

	"rm-polyfinder/pkg/gf2"
	"rm-polyfinder/pkg/poly"
	"rm-polyfinder/pkg/sampling"
)

var (
	// ErrNoWorkspace is returned by New when no workspace is supplied.
	ErrNoWorkspace = errors.New("minimize: nil workspace")

	// ErrNoSource is returned by New when no random source is supplied.
	ErrNoSource = errors.New("minimize: nil random source")
)

// Minimizer runs the local search. It owns its workspace and random source
// and must not be used from more than one goroutine.
type Minimizer struct {
	ws   *poly.Workspace
	rand sampling.ByteStream
	runs int
}

// New returns a Minimizer using ws for scratch space and src for jumps.
func New(ws *poly.Workspace, src sampling.ByteStream) (*Minimizer, error) {
	if ws == nil {
		return nil, ErrNoWorkspace
	}
	if src == nil {
		return nil, ErrNoSource
	}
	return &Minimizer{ws: ws, rand: src}, nil
}

// Runs returns the number of QuickSimplify calls made so far.
func (mz *Minimizer) Runs() int {
	return mz.runs
}

// plusOnes tries every x_v -> x_v + 1 once, keeping each improving move.
func (mz *Minimizer) plusOnes(p *poly.Poly) bool {
	improved := false
	for v := 0; v < gf2.NumVars; v++ {
		if q := mz.ws.PlusOne(*p, v); len(q) < len(*p) {
			poly.Copy(p, q)
			improved = true
		}
	}
	return improved
}

// transpositions tries every ordered x_s -> x_s + x_t once, keeping each
// improving move.
func (mz *Minimizer) transpositions(p *poly.Poly) bool {
	improved := false
	for s := 0; s < gf2.NumVars; s++ {
		for t := 0; t < gf2.NumVars; t++ {
			if s == t {
				continue
			}
			if q := mz.ws.Transposition(*p, s, t); len(q) < len(*p) {
				poly.Copy(p, q)
				improved = true
			}
		}
	}
	return improved
}

// Descend applies improving moves until none is left.
// Plus-one sweeps are repeated before any transposition sweep is tried.
func (mz *Minimizer) Descend(p *poly.Poly) {
	for mz.plusOnes(p) || mz.transpositions(p) {
	}
}

// jump applies n uniformly random transpositions regardless of their effect.
func (mz *Minimizer) jump(p *poly.Poly, n int) {
	for i := 0; i < n; i++ {
		s, t := sampling.SampleTransposition(mz.rand)
		poly.Copy(p, mz.ws.Transposition(*p, s, t))
	}
}

// Simplify runs descents separated by n random jumps and leaves in p the
// shortest polynomial seen. It stops after wait consecutive descents that
// did not beat the best; wait <= 0 leaves p unchanged.
func (mz *Minimizer) Simplify(p *poly.Poly, wait, jumps int) {
	mz.ws.SaveBest(*p)
	for stale := 0; stale < wait; {
		mz.jump(p, jumps)
		mz.Descend(p)
		if len(*p) < len(mz.ws.Best()) {
			mz.ws.SaveBest(*p)
			stale = 0
		} else {
			stale++
		}
	}
	poly.Copy(p, mz.ws.Best())
}

// QuickSimplify is Simplify followed by canonicalization.
func (mz *Minimizer) QuickSimplify(p *poly.Poly, wait, jumps int) {
	mz.runs++
	mz.Simplify(p, wait, jumps)
	poly.Canonicalize(*p)
}
