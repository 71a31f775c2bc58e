package reduce

import (
	"context"
	"errors"
	"testing"

	"rm-polyfinder/pkg/equiv"
	"rm-polyfinder/pkg/gf2"
	"rm-polyfinder/pkg/hash"
	"rm-polyfinder/pkg/minimize"
	"rm-polyfinder/pkg/poly"
	"rm-polyfinder/pkg/replist"
)

func newReducer(t testing.TB) *Reducer {
	t.Helper()
	mz, err := minimize.New(poly.NewWorkspace(), hash.WorkerStream(3, 0))
	if err != nil {
		t.Fatal(err)
	}
	return New(mz, nil, nil)
}

func fill(t testing.TB, ps ...poly.Poly) *replist.List {
	t.Helper()
	l := replist.New(len(ps))
	for _, p := range ps {
		if err := l.Insert(p); err != nil {
			t.Fatal(err)
		}
	}
	return l
}

func TestScheduleLen(t *testing.T) {
	if got := FullSchedule.Len(); got != 222 {
		t.Errorf("FullSchedule.Len() = %d, want 222", got)
	}
	if got := WorkerSchedule.Len(); got != 2 {
		t.Errorf("WorkerSchedule.Len() = %d, want 2", got)
	}
}

func TestShortenKnown(t *testing.T) {
	r := newReducer(t)
	// x1, x2 and x7 are one class; x1*x2 is another
	l := fill(t, poly.Poly{1}, poly.Poly{3}, poly.Poly{2}, poly.Poly{0x80})

	if removed := r.Shorten(l, 1, 0); removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	want := []poly.Poly{{1}, {3}}
	if l.Len() != len(want) {
		t.Fatalf("list = %v, want %v", l.Items(), want)
	}
	for i, w := range want {
		if !poly.Equal(l.At(i), w) {
			t.Errorf("entry %d = %v, want %v", i, l.At(i), w)
		}
	}
}

// Test the list of images of a few polynomials under moves and relabellings
// collapses to pairwise inequivalent entries
func TestApplyLeavesNoEquivalentPair(t *testing.T) {
	seeds := []poly.Poly{
		{7, 0x18, 0x21},
		{0x0F, 0x30},
		{3, 0x0C, 0x30, 0xC0},
		{0x55},
	}
	var ps []poly.Poly
	for _, s := range seeds {
		ps = append(ps, s)
		ps = append(ps, poly.Transposition(s, 0, 5))
		ps = append(ps, poly.PlusOne(poly.Transposition(s, 2, 7), 3))
		perm := [gf2.NumVars]int{7, 6, 5, 4, 3, 2, 1, 0}
		var rel poly.Poly
		for _, m := range s {
			rel.Add(m.Relabel(&perm))
		}
		ps = append(ps, rel)
	}
	l := fill(t, ps...)

	r := newReducer(t)
	if err := r.Apply(context.Background(), l, WorkerSchedule); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if l.Len() == 0 || l.Len() > len(ps) {
		t.Fatalf("list length %d out of range", l.Len())
	}
	for i := 0; i < l.Len(); i++ {
		p := l.At(i)
		c := p.Clone()
		poly.Canonicalize(c)
		if !poly.Equal(p, c) {
			t.Errorf("entry %d %v is not canonical", i, p)
		}
		for j := i + 1; j < l.Len(); j++ {
			if equiv.Equivalent(p, l.At(j)) {
				t.Errorf("entries %d and %d are equivalent: %v %v", i, j, p, l.At(j))
			}
		}
	}
}

func TestApplyIsStableOnReducedList(t *testing.T) {
	l := fill(t, poly.Poly{1}, poly.Poly{3}, poly.Poly{7})
	r := newReducer(t)
	if err := r.Apply(context.Background(), l, Schedule{{Wait: 5, Jumps: 2, Repeat: 3}}); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 3 {
		t.Errorf("list = %v, want three single terms", l.Items())
	}
}

func TestApplyCancelled(t *testing.T) {
	l := fill(t, poly.Poly{1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := newReducer(t).Apply(ctx, l, FullSchedule); !errors.Is(err, context.Canceled) {
		t.Errorf("Apply error = %v, want context.Canceled", err)
	}
}
