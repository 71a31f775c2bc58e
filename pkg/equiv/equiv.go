// Package equiv decides whether two polynomials are equal up to a
// relabelling of their variables.
package equiv

import (
	"slices"

	"rm-polyfinder/pkg/gf2"
	"rm-polyfinder/pkg/mobius"
	"rm-polyfinder/pkg/poly"
)

// Labeling maps each source variable to a target variable.
type Labeling [gf2.NumVars]int

// search holds the state of one labelling search.
type search struct {
	src     poly.Poly
	dstProf poly.Profile
	srcProf poly.Profile
	dst     mobius.Table256 // target term set
	perm    Labeling
	used    [gf2.NumVars]bool
}

// Equivalent reports whether some bijection on the 8 variables maps the
// terms of a exactly onto the terms of b.
func Equivalent(a, b poly.Poly) bool {
	_, ok := Find(a, b)
	return ok
}

// Find returns a labelling that carries a onto b, if one exists.
//
// Variables are assigned in order. A variable that occurs in k terms of a may
// only go to an unused variable that occurs in k terms of b; variables that
// occur nowhere are filled in last since they constrain no term.
func Find(a, b poly.Poly) (Labeling, bool) {
	if len(a) != len(b) {
		return Labeling{}, false
	}
	s := search{src: a, srcProf: a.Profile(), dstProf: b.Profile(), dst: b.Terms()}
	if !sameMultiset(s.srcProf, s.dstProf) {
		return Labeling{}, false
	}
	if !s.assign(0) {
		return Labeling{}, false
	}
	return s.perm, true
}

func sameMultiset(a, b poly.Profile) bool {
	slices.Sort(a[:])
	slices.Sort(b[:])
	return a == b
}

// assign labels source variable v and every variable after it.
func (s *search) assign(v int) bool {
	if v == gf2.NumVars {
		s.completeUnused()
		return s.verify()
	}
	k := s.srcProf[v]
	if k == 0 {
		return s.assign(v + 1)
	}
	for w := 0; w < gf2.NumVars; w++ {
		if s.used[w] || s.dstProf[w] != k {
			continue
		}
		s.used[w], s.perm[v] = true, w
		if s.assign(v + 1) {
			return true
		}
		s.used[w] = false
	}
	return false
}

// completeUnused pairs the variables absent from the source with the
// remaining targets in increasing order.
func (s *search) completeUnused() {
	w := 0
	for v := 0; v < gf2.NumVars; v++ {
		if s.srcProf[v] > 0 {
			continue
		}
		for s.used[w] {
			w++
		}
		s.perm[v] = w
		w++
	}
}

// verify checks every relabelled source term against the target set.
// Term counts are equal, so inclusion implies equality.
func (s *search) verify() bool {
	perm := [gf2.NumVars]int(s.perm)
	for _, m := range s.src {
		if !s.dst.Test(uint8(m.Relabel(&perm))) {
			return false
		}
	}
	return true
}
