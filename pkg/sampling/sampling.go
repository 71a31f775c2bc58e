// Package sampling draws moves and polynomials from a byte stream.
package sampling

import (
	"rm-polyfinder/pkg/gf2"
	"rm-polyfinder/pkg/poly"
)

// ByteStream is a source of uniformly distributed bytes.
// *hash.Stream satisfies it.
type ByteStream interface {
	Byte() byte
}

// SampleTransposition returns a uniform ordered pair of distinct variables.
// Each byte yields one candidate pair from its two low 3-bit fields; pairs
// with equal fields are rejected.
func SampleTransposition(s ByteStream) (src, dst int) {
	for {
		b := s.Byte()
		if a, c := int(b&7), int(b>>3&7); a != c {
			return a, c
		}
	}
}

// SampleMonomial returns a uniform monomial over the first vars variables.
func SampleMonomial(s ByteStream, vars int) gf2.Monomial {
	return gf2.Monomial(s.Byte()) & (1<<vars - 1)
}

// SamplePoly returns a polynomial built from n uniform monomials over the
// first vars variables. Repeated draws cancel, so the result may be shorter.
func SamplePoly(s ByteStream, vars, n int) poly.Poly {
	p := make(poly.Poly, 0, n)
	for i := 0; i < n; i++ {
		p.Add(SampleMonomial(s, vars))
	}
	return p
}
