// Package mobius provides the binary Möbius transform over 8 variables.
//
// The transform maps the algebraic normal form of a Boolean function (the set
// of its monomials) to its truth table and back; it is its own inverse.
package mobius

import (
	"math/bits"

	"rm-polyfinder/pkg/gf2"
)

// N is the number of assignments of 8 variables.
const N = 1 << gf2.NumVars

// Table256 is a 256-bit vector indexed by assignments (or monomials).
type Table256 [4]uint64

// lowHalf[v] selects, inside one word, the positions whose bit v is clear.
var lowHalf = [6]uint64{
	0x5555555555555555,
	0x3333333333333333,
	0x0F0F0F0F0F0F0F0F,
	0x00FF00FF00FF00FF,
	0x0000FFFF0000FFFF,
	0x00000000FFFFFFFF,
}

// Set sets position i.
func (t *Table256) Set(i uint8) {
	t[i>>6] |= 1 << (i & 63)
}

// Flip toggles position i.
func (t *Table256) Flip(i uint8) {
	t[i>>6] ^= 1 << (i & 63)
}

// Test reports whether position i is set.
func (t *Table256) Test(i uint8) bool {
	return t[i>>6]&(1<<(i&63)) != 0
}

// Weight returns the number of set positions.
func (t *Table256) Weight() int {
	return bits.OnesCount64(t[0]) + bits.OnesCount64(t[1]) +
		bits.OnesCount64(t[2]) + bits.OnesCount64(t[3])
}

// Transform computes the Möbius transform in place.
// Layer v adds every position with bit v clear into its partner with bit v set.
func Transform(t *Table256) {
	for v := 0; v < 6; v++ {
		m := lowHalf[v]
		s := uint(1) << v
		for w := range t {
			t[w] ^= (t[w] & m) << s
		}
	}
	// Variable 7 selects odd words, variable 8 the upper two words.
	t[1] ^= t[0]
	t[3] ^= t[2]
	t[2] ^= t[0]
	t[3] ^= t[1]
}

// FromMonomials returns the truth table of the sum of ms.
// Repeated monomials cancel.
func FromMonomials(ms []gf2.Monomial) Table256 {
	var t Table256
	for _, m := range ms {
		t.Flip(uint8(m))
	}
	Transform(&t)
	return t
}

// Restrict returns the 6-variable table obtained by holding variables 7 and 8 at 0.
func Restrict(t *Table256) gf2.Table {
	return gf2.Table(t[0])
}
