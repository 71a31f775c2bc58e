package replist

import (
	"errors"
	"testing"

	"rm-polyfinder/pkg/gf2"
	"rm-polyfinder/pkg/poly"
)

func TestInsertUniqueSkipsEquivalent(t *testing.T) {
	l := New(10)
	added, err := l.InsertUnique(poly.Poly{0b01})
	if err != nil || !added {
		t.Fatalf("first insert: added=%v err=%v", added, err)
	}
	added, err = l.InsertUnique(poly.Poly{0b10})
	if err != nil || added {
		t.Errorf("x2 after x1: added=%v err=%v, want skipped", added, err)
	}
	added, err = l.InsertUnique(poly.Poly{0b01, 0b10})
	if err != nil || !added {
		t.Errorf("x1 + x2: added=%v err=%v, want added", added, err)
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
}

// Test the list keeps its own copy
func TestInsertCopies(t *testing.T) {
	l := New(1)
	p := poly.Poly{3}
	if err := l.Insert(p); err != nil {
		t.Fatal(err)
	}
	p[0] = 5
	if l.At(0)[0] != 3 {
		t.Errorf("entry changed with caller's slice: %v", l.At(0))
	}
}

func TestCapacityExceeded(t *testing.T) {
	l := New(2)
	for _, p := range []poly.Poly{{1}, {1, 2}} {
		if _, err := l.InsertUnique(p); err != nil {
			t.Fatalf("InsertUnique(%v): %v", p, err)
		}
	}
	_, err := l.InsertUnique(poly.Poly{1, 2, 4})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("error = %v, want ErrCapacityExceeded", err)
	}
	if l.Len() != 2 {
		t.Errorf("Len after overflow = %d, want 2", l.Len())
	}
	// a duplicate does not need room
	if added, err := l.InsertUnique(poly.Poly{2}); added || err != nil {
		t.Errorf("duplicate on full list: added=%v err=%v", added, err)
	}
}

func TestCompactPreservesOrder(t *testing.T) {
	l := New(5)
	for i := 1; i <= 5; i++ {
		_ = l.Insert(poly.New(gf2.Monomial(i)))
	}
	l.Compact([]bool{true, false, true, false, true})
	want := []int{1, 3, 5}
	if l.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", l.Len(), len(want))
	}
	for i, w := range want {
		if int(l.At(i)[0]) != w {
			t.Errorf("At(%d) = %v, want [%d]", i, l.At(i), w)
		}
	}
}

func TestConcat(t *testing.T) {
	a, b := New(3), New(3)
	_ = a.Insert(poly.Poly{1})
	_ = b.Insert(poly.Poly{2})
	_ = b.Insert(poly.Poly{3})
	c := Concat(a, b)
	if c.Len() != 3 || c.Cap() != 3 {
		t.Fatalf("Concat: Len=%d Cap=%d, want 3, 3", c.Len(), c.Cap())
	}
	for i := 0; i < 3; i++ {
		if int(c.At(i)[0]) != i+1 {
			t.Errorf("At(%d) = %v, want [%d]", i, c.At(i), i+1)
		}
	}
}
