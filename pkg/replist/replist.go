// Package replist holds lists of representative polynomials with a hard
// capacity bound.
package replist

import (
	"errors"
	"fmt"

	"rm-polyfinder/pkg/equiv"
	"rm-polyfinder/pkg/poly"
)

// ErrCapacityExceeded is returned when an insertion would grow a list past
// its capacity. A run that hits it has no valid result.
var ErrCapacityExceeded = errors.New("representative list capacity exceeded")

// List is an ordered collection of polynomials.
// A List is owned by a single goroutine at a time.
type List struct {
	items    []poly.Poly
	capacity int
}

// New returns an empty list that holds at most capacity entries.
func New(capacity int) *List {
	return &List{items: make([]poly.Poly, 0, min(capacity, 1024)), capacity: capacity}
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.items)
}

// Cap returns the capacity bound.
func (l *List) Cap() int {
	return l.capacity
}

// At returns entry i. The caller may modify it in place.
func (l *List) At(i int) poly.Poly {
	return l.items[i]
}

// Set replaces entry i with p without copying it.
func (l *List) Set(i int, p poly.Poly) {
	l.items[i] = p
}

// Items returns the entries in order. The slice aliases the list.
func (l *List) Items() []poly.Poly {
	return l.items
}

// Insert appends a copy of p without checking for duplicates.
func (l *List) Insert(p poly.Poly) error {
	if len(l.items) >= l.capacity {
		return fmt.Errorf("insert entry %d: %w (capacity %d)", len(l.items)+1, ErrCapacityExceeded, l.capacity)
	}
	l.items = append(l.items, p.Clone())
	return nil
}

// InsertUnique appends a copy of p unless an equivalent entry is already
// present. It reports whether p was added.
func (l *List) InsertUnique(p poly.Poly) (bool, error) {
	for _, q := range l.items {
		if equiv.Equivalent(q, p) {
			return false, nil
		}
	}
	if err := l.Insert(p); err != nil {
		return false, err
	}
	return true, nil
}

// Compact removes the entries whose keep flag is false, preserving the
// order of the survivors.
func (l *List) Compact(keep []bool) {
	n := 0
	for i, p := range l.items {
		if keep[i] {
			l.items[n] = p
			n++
		}
	}
	clear(l.items[n:])
	l.items = l.items[:n]
}

// Concat returns a list holding the entries of ls in order. Its capacity is
// the total number of entries.
func Concat(ls ...*List) *List {
	total := 0
	for _, l := range ls {
		total += l.Len()
	}
	out := &List{items: make([]poly.Poly, 0, total), capacity: total}
	for _, l := range ls {
		out.items = append(out.items, l.items...)
	}
	return out
}
