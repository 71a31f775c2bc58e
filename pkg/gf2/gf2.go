// Package gf2 provides monomial and truth-table arithmetic over GF(2).
//
// A monomial over at most 8 Boolean variables is a bitmask: bit v set means
// x_(v+1) participates in the product. The zero mask is the constant 1.
// Truth tables cover the 6 working variables only and fit in a uint64.
package gf2

const (
	// NumVars is the number of variables a monomial can carry.
	NumVars = 8

	// TableVars is the number of variables covered by a Table.
	TableVars = 6

	// TableSize is the number of assignments in a Table (2^TableVars).
	TableSize = 1 << TableVars

	// BasisSize is the number of linear and quadratic monomials over TableVars.
	BasisSize = TableVars + TableVars*(TableVars-1)/2 // 21

	// Constant is the monomial of degree zero.
	Constant Monomial = 0
)

// Monomial is a product of variables encoded as a bitmask.
type Monomial uint8

// Table is a truth table over the 6 working variables.
// Bit i is the value at the assignment whose variable v is bit v of i.
type Table uint64

// Var returns the monomial x_(v+1).
func Var(v int) Monomial {
	return Monomial(1) << v
}

// Has reports whether variable v occurs in m.
func (m Monomial) Has(v int) bool {
	return m&(1<<v) != 0
}

// Degree returns the number of variables in m.
func (m Monomial) Degree() int {
	return int(byteWeight[m])
}

// SwapVars exchanges the roles of variables i and j in m.
func (m Monomial) SwapVars(i, j int) Monomial {
	bi := (m >> i) & 1
	bj := (m >> j) & 1
	if bi == bj {
		return m
	}
	return m ^ (1<<i | 1<<j)
}

// Relabel moves every variable v of m to perm[v].
func (m Monomial) Relabel(perm *[NumVars]int) Monomial {
	var out Monomial
	for v := 0; v < NumVars; v++ {
		if m&(1<<v) != 0 {
			out |= 1 << perm[v]
		}
	}
	return out
}

// byteWeight[b] is the number of set bits in b.
var byteWeight [256]uint8

// QuadraticBasis lists x1..x6 followed by x_i*x_j for i < j.
var QuadraticBasis [BasisSize]Monomial

// BasisTables[k] is the truth table of QuadraticBasis[k].
var BasisTables [BasisSize]Table

func init() {
	for b := 1; b < 256; b++ {
		byteWeight[b] = byteWeight[b>>1] + uint8(b&1)
	}

	k := 0
	for i := 0; i < TableVars; i++ {
		QuadraticBasis[k] = Var(i)
		k++
	}
	for i := 0; i < TableVars; i++ {
		for j := i + 1; j < TableVars; j++ {
			QuadraticBasis[k] = Var(i) | Var(j)
			k++
		}
	}
	for k, m := range QuadraticBasis {
		BasisTables[k] = MonomialTruth(m)
	}
}

// MonomialTruth returns the truth table of m.
// Bit i is set iff every variable of m is set in i; monomials using
// variables 7 or 8 evaluate to 0 everywhere since those inputs are held at 0.
func MonomialTruth(m Monomial) Table {
	var t Table
	for i := 0; i < TableSize; i++ {
		if m&^Monomial(i) == 0 {
			t |= 1 << i
		}
	}
	return t
}

// HammingWeight returns the number of ones in t using a byte lookup.
func HammingWeight(t Table) int {
	w := 0
	for i := 0; i < 8; i++ {
		w += int(byteWeight[uint8(t)])
		t >>= 8
	}
	return w
}

// Complement returns the weight of the complemented table for weight w.
func Complement(w int) int {
	return TableSize - w
}
