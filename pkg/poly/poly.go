// Package poly provides Boolean polynomials over GF(2) in 8 variables.
//
// A Poly is a set of monomials under GF(2) addition: adding a monomial that is
// already present cancels it. The affine moves PlusOne and Transposition are
// evaluated through a Workspace that owns the scratch term lists.
package poly

import (
	"slices"

	"rm-polyfinder/pkg/gf2"
	"rm-polyfinder/pkg/mobius"
)

// MaxTerms is the number of distinct monomials in 8 variables.
const MaxTerms = 1 << gf2.NumVars

// Poly is a sum of distinct monomials.
type Poly []gf2.Monomial

// Profile counts, per variable, the terms that contain it.
type Profile [gf2.NumVars]int

// New returns a polynomial holding the GF(2) sum of ms.
func New(ms ...gf2.Monomial) Poly {
	p := make(Poly, 0, len(ms))
	for _, m := range ms {
		p.Add(m)
	}
	return p
}

// Add adds m to p; an existing copy of m cancels instead.
func (p *Poly) Add(m gf2.Monomial) {
	if i := slices.Index(*p, m); i >= 0 {
		*p = slices.Delete(*p, i, i+1)
		return
	}
	*p = append(*p, m)
}

// Clone returns a copy of p that shares no memory with it.
func (p Poly) Clone() Poly {
	return append(make(Poly, 0, len(p)), p...)
}

// Copy copies src into dst, reusing dst's storage.
func Copy(dst *Poly, src Poly) {
	*dst = append((*dst)[:0], src...)
}

// Equal reports whether a and b hold the same terms in the same order.
func Equal(a, b Poly) bool {
	return slices.Equal(a, b)
}

// Terms returns the term set of p as a 256-bit vector indexed by monomial.
func (p Poly) Terms() mobius.Table256 {
	var s mobius.Table256
	for _, m := range p {
		s.Flip(uint8(m))
	}
	return s
}

// Profile returns the number of terms containing each variable.
func (p Poly) Profile() Profile {
	var prof Profile
	for _, m := range p {
		for v := 0; v < gf2.NumVars; v++ {
			prof[v] += int(m>>v) & 1
		}
	}
	return prof
}

// TruthTable returns the table of p over the 6 working variables.
func (p Poly) TruthTable() gf2.Table {
	var t gf2.Table
	for _, m := range p {
		t ^= gf2.MonomialTruth(m)
	}
	return t
}

// Truth256 returns the table of p over all 8 variables.
func (p Poly) Truth256() mobius.Table256 {
	t := p.Terms()
	mobius.Transform(&t)
	return t
}

// Canonicalize relabels the variables of p so that the profile is
// non-increasing, then sorts the terms. It works in place and is idempotent.
func Canonicalize(p Poly) {
	prof := p.Profile()
	for swapped := true; swapped; {
		swapped = false
		for i := 0; i < gf2.NumVars-1; i++ {
			if prof[i] < prof[i+1] {
				for j, m := range p {
					p[j] = m.SwapVars(i, i+1)
				}
				prof[i], prof[i+1] = prof[i+1], prof[i]
				swapped = true
			}
		}
	}
	slices.Sort(p)
}

// Merge stores in dst the GF(2) sum of a and b: a monomial survives iff it
// occurs an odd number of times across both inputs. Survivors of a keep their
// order and are followed by the survivors of b. dst must not alias a or b.
func Merge(dst *Poly, a, b Poly) {
	var parity, emitted mobius.Table256
	for _, m := range a {
		parity.Flip(uint8(m))
	}
	for _, m := range b {
		parity.Flip(uint8(m))
	}
	out := (*dst)[:0]
	for _, src := range [2]Poly{a, b} {
		for _, m := range src {
			if parity.Test(uint8(m)) && !emitted.Test(uint8(m)) {
				emitted.Set(uint8(m))
				out = append(out, m)
			}
		}
	}
	*dst = out
}
