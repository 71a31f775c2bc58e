package poly

import "rm-polyfinder/pkg/gf2"

// Workspace holds the scratch term lists used to evaluate moves.
// A Workspace must not be shared between goroutines.
type Workspace struct {
	replica Poly // result of the last move
	buffer  Poly // transformed images of the affected terms
	best    Poly // best polynomial seen by a search
}

// NewWorkspace allocates a Workspace sized for any 8-variable polynomial.
func NewWorkspace() *Workspace {
	return &Workspace{
		replica: make(Poly, 0, MaxTerms),
		buffer:  make(Poly, 0, MaxTerms),
		best:    make(Poly, 0, MaxTerms),
	}
}

// PlusOne returns p under the substitution x_v -> x_v + 1.
// Every term t containing v gains the partner t without v. Partners equal to
// the constant are dropped: the constant only complements the table.
// The result aliases workspace memory and is valid until the next move, so p
// must not itself be a move result of ws.
func (ws *Workspace) PlusOne(p Poly, v int) Poly {
	bit := gf2.Var(v)
	ws.buffer = ws.buffer[:0]
	for _, m := range p {
		if m&bit != 0 {
			if img := m &^ bit; img != gf2.Constant {
				ws.buffer = append(ws.buffer, img)
			}
		}
	}
	Merge(&ws.replica, p, ws.buffer)
	return ws.replica
}

// Transposition returns p under the substitution x_s -> x_s + x_t, s != t.
// Every term containing s gains the image with s removed and t set; t is set
// unconditionally since x_t*x_t = x_t. The result aliases workspace memory.
func (ws *Workspace) Transposition(p Poly, s, t int) Poly {
	sb, tb := gf2.Var(s), gf2.Var(t)
	ws.buffer = ws.buffer[:0]
	for _, m := range p {
		if m&sb != 0 {
			ws.buffer = append(ws.buffer, m&^sb|tb)
		}
	}
	Merge(&ws.replica, p, ws.buffer)
	return ws.replica
}

// SaveBest records p as the best polynomial seen so far.
func (ws *Workspace) SaveBest(p Poly) {
	Copy(&ws.best, p)
}

// Best returns the polynomial recorded by SaveBest.
// The result aliases workspace memory.
func (ws *Workspace) Best() Poly {
	return ws.best
}

// PlusOne returns a new polynomial equal to p under x_v -> x_v + 1.
func PlusOne(p Poly, v int) Poly {
	return NewWorkspace().PlusOne(p, v).Clone()
}

// Transposition returns a new polynomial equal to p under x_s -> x_s + x_t.
func Transposition(p Poly, s, t int) Poly {
	return NewWorkspace().Transposition(p, s, t).Clone()
}
