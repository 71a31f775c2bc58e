// Package encoding renders polynomials as text and packs them into bytes.
package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"rm-polyfinder/pkg/gf2"
	"rm-polyfinder/pkg/poly"
)

var (
	// ErrSyntax is returned by Parse for malformed input.
	ErrSyntax = errors.New("encoding: invalid polynomial syntax")

	// ErrShortBuffer is returned by UnpackPoly when the input ends early.
	ErrShortBuffer = errors.New("encoding: short buffer")
)

// FormatMonomial writes m as a product of 1-based variable names.
// The constant monomial is "1".
func FormatMonomial(m gf2.Monomial) string {
	if m == gf2.Constant {
		return "1"
	}
	var b strings.Builder
	for v := 0; v < gf2.NumVars; v++ {
		if m.Has(v) {
			if b.Len() > 0 {
				b.WriteByte('*')
			}
			b.WriteByte('x')
			b.WriteString(strconv.Itoa(v + 1))
		}
	}
	return b.String()
}

// Format writes p as a sum of products, e.g. "x1*x3 + x2".
// The empty polynomial is "0".
func Format(p poly.Poly) string {
	if len(p) == 0 {
		return "0"
	}
	terms := make([]string, len(p))
	for i, m := range p {
		terms[i] = FormatMonomial(m)
	}
	return strings.Join(terms, " + ")
}

// FormatList writes ps as a bracketed list, one polynomial per line.
func FormatList(ps []poly.Poly) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range ps {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(Format(p))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseMonomial parses a product such as "x1*x3" or the constant "1".
func ParseMonomial(s string) (gf2.Monomial, error) {
	s = strings.TrimSpace(s)
	if s == "1" {
		return gf2.Constant, nil
	}
	var m gf2.Monomial
	for _, f := range strings.Split(s, "*") {
		f = strings.TrimSpace(f)
		if len(f) < 2 || f[0] != 'x' {
			return 0, fmt.Errorf("%w: factor %q", ErrSyntax, f)
		}
		v, err := strconv.Atoi(f[1:])
		if err != nil || v < 1 || v > gf2.NumVars {
			return 0, fmt.Errorf("%w: variable %q", ErrSyntax, f)
		}
		m |= gf2.Var(v - 1)
	}
	return m, nil
}

// Parse parses a sum of products written by Format. Repeated terms cancel.
func Parse(s string) (poly.Poly, error) {
	s = strings.TrimSpace(s)
	if s == "0" || s == "" {
		return poly.Poly{}, nil
	}
	var p poly.Poly
	for _, t := range strings.Split(s, "+") {
		m, err := ParseMonomial(t)
		if err != nil {
			return nil, err
		}
		p.Add(m)
	}
	return p, nil
}

// PackPoly packs p into bytes: a two byte little-endian term count followed
// by one byte per term.
func PackPoly(p poly.Poly) []byte {
	out := make([]byte, 0, 2+len(p))
	out = append(out, byte(len(p)), byte(len(p)>>8))
	for _, m := range p {
		out = append(out, byte(m))
	}
	return out
}

// UnpackPoly decodes one polynomial from the front of bs and returns the
// remaining bytes.
func UnpackPoly(bs []byte) (poly.Poly, []byte, error) {
	if len(bs) < 2 {
		return nil, nil, ErrShortBuffer
	}
	n := int(bs[0]) | int(bs[1])<<8
	bs = bs[2:]
	if n > poly.MaxTerms || len(bs) < n {
		return nil, nil, fmt.Errorf("%w: need %d terms, have %d bytes", ErrShortBuffer, n, len(bs))
	}
	p := make(poly.Poly, n)
	for i := range p {
		p[i] = gf2.Monomial(bs[i])
	}
	return p, bs[n:], nil
}

// PackList packs every polynomial of ps with PackPoly, back to back.
func PackList(ps []poly.Poly) []byte {
	var out []byte
	for _, p := range ps {
		out = append(out, PackPoly(p)...)
	}
	return out
}

// UnpackList decodes a sequence written by PackList.
func UnpackList(bs []byte) ([]poly.Poly, error) {
	var ps []poly.Poly
	for len(bs) > 0 {
		p, rest, err := UnpackPoly(bs)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", len(ps), err)
		}
		ps = append(ps, p)
		bs = rest
	}
	return ps, nil
}
