package minimize

import (
	"errors"
	"testing"

	"rm-polyfinder/pkg/hash"
	"rm-polyfinder/pkg/poly"
	"rm-polyfinder/pkg/sampling"
)

func newMinimizer(t testing.TB, seed uint64) *Minimizer {
	t.Helper()
	mz, err := New(poly.NewWorkspace(), hash.WorkerStream(seed, 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return mz
}

func weightClass(p poly.Poly) int {
	t := p.Truth256()
	w := t.Weight()
	if w > 256-w {
		return 256 - w
	}
	return w
}

func TestNewRequiresWorkspaceAndSource(t *testing.T) {
	if _, err := New(nil, hash.WorkerStream(0, 0)); !errors.Is(err, ErrNoWorkspace) {
		t.Errorf("New(nil, src) error = %v, want ErrNoWorkspace", err)
	}
	if _, err := New(poly.NewWorkspace(), nil); !errors.Is(err, ErrNoSource) {
		t.Errorf("New(ws, nil) error = %v, want ErrNoSource", err)
	}
}

// Test x1 + x2 collapses to a single variable
func TestDescendKnown(t *testing.T) {
	mz := newMinimizer(t, 1)
	p := poly.Poly{0b01, 0b10}
	mz.Descend(&p)
	if len(p) != 1 {
		t.Errorf("Descend(x1 + x2) = %v, want one term", p)
	}
}

// Test a disguised monomial is recovered by the search
func TestQuickSimplifyUndoesSubstitution(t *testing.T) {
	mz := newMinimizer(t, 2)
	p := poly.Poly{0b0111}
	p = poly.Transposition(p, 0, 3)
	p = poly.Transposition(p, 1, 4)
	p = poly.Transposition(p, 2, 5)
	if len(p) < 2 {
		t.Fatalf("setup: substitution did not grow the polynomial: %v", p)
	}
	mz.QuickSimplify(&p, 20, 2)
	if !poly.Equal(p, poly.Poly{0b0111}) {
		t.Errorf("QuickSimplify = %v, want [7]", p)
	}
}

// Test the search never lengthens a polynomial and keeps its weight class
func TestQuickSimplifyInvariants(t *testing.T) {
	mz := newMinimizer(t, 3)
	src := hash.WorkerStream(3, 1)
	for i := 0; i < 50; i++ {
		p := sampling.SamplePoly(src, 8, 30)
		before := len(p)
		class := weightClass(p)
		mz.QuickSimplify(&p, 5, 2)
		if len(p) > before {
			t.Fatalf("QuickSimplify grew %d -> %d terms", before, len(p))
		}
		if got := weightClass(p); got != class {
			t.Fatalf("weight class %d -> %d", class, got)
		}
		q := p.Clone()
		poly.Canonicalize(q)
		if !poly.Equal(p, q) {
			t.Fatalf("result %v is not canonical", p)
		}
	}
	if mz.Runs() != 50 {
		t.Errorf("Runs = %d, want 50", mz.Runs())
	}
}

// Test wait <= 0 only canonicalizes
func TestQuickSimplifyZeroWait(t *testing.T) {
	mz := newMinimizer(t, 4)
	p := poly.Poly{0b01, 0b10}
	mz.QuickSimplify(&p, 0, 5)
	if !poly.Equal(p, poly.Poly{0b01, 0b10}) {
		t.Errorf("QuickSimplify(_, 0, 5) = %v, want [1 2]", p)
	}
}

// Test pure descent is idempotent on its own output
func TestPureDescentIdempotent(t *testing.T) {
	mz := newMinimizer(t, 5)
	src := hash.WorkerStream(5, 1)
	for i := 0; i < 30; i++ {
		p := sampling.SamplePoly(src, 8, 25)
		mz.QuickSimplify(&p, 1, 0)
		once := p.Clone()
		mz.QuickSimplify(&p, 1, 0)
		if len(p) != len(once) {
			t.Fatalf("second pass changed length %d -> %d", len(once), len(p))
		}
	}
}

// Test equal seeds give equal results
func TestQuickSimplifyDeterministic(t *testing.T) {
	a, b := newMinimizer(t, 6), newMinimizer(t, 6)
	src := hash.WorkerStream(6, 9)
	for i := 0; i < 20; i++ {
		p := sampling.SamplePoly(src, 8, 30)
		q := p.Clone()
		a.QuickSimplify(&p, 10, 3)
		b.QuickSimplify(&q, 10, 3)
		if !poly.Equal(p, q) {
			t.Fatalf("same seed diverged: %v vs %v", p, q)
		}
	}
}

func BenchmarkQuickSimplify(b *testing.B) {
	mz := newMinimizer(b, 7)
	src := hash.WorkerStream(7, 1)
	base := sampling.SamplePoly(src, 8, 40)
	p := make(poly.Poly, 0, poly.MaxTerms)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		poly.Copy(&p, base)
		mz.QuickSimplify(&p, 10, 3)
	}
}
