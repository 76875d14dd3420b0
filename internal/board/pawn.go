package board

// PawnPiece advances one square, two from its unmoved state, and captures diagonally,
// including en passant.
type PawnPiece struct{ base }

func (p *PawnPiece) Kind() Kind { return Pawn }

func (p *PawnPiece) Clone() Piece {
	c := *p
	return &c
}

func (p *PawnPiece) String() string { return Symbol(Pawn, p.color) }

// enPassantRow is the row a pawn of color c must stand on to capture en passant.
func enPassantRow(g *Grid, c Color) int {
	if c == White {
		return g.Rows()/2 - 1
	}
	return g.Rows() / 2
}

func (p *PawnPiece) PossibleMoves(g *Grid, pos Position, ctx Context) MoveMatrix {
	mat := g.NewMoveMatrix()
	dir := p.color.forward()

	one := pos.Offset(dir, 0)
	if g.Contains(one) && !g.Occupied(one) {
		mat.set(one)

		two := pos.Offset(2*dir, 0)
		if p.moves == 0 && g.Contains(two) && !g.Occupied(two) {
			mat.set(two)
		}
	}

	for _, dc := range [2]int{-1, 1} {
		diag := pos.Offset(dir, dc)
		if g.Contains(diag) && p.isOpponent(g, diag) {
			mat.set(diag)
		}
	}

	if ctx == nil || pos.Row != enPassantRow(g, p.color) {
		return mat
	}
	ep, ok := ctx.EnPassantTarget()
	if !ok || ep.Row != pos.Row || (ep.Col != pos.Col-1 && ep.Col != pos.Col+1) {
		return mat
	}
	if victim := g.Piece(ep); victim == nil || victim.Kind() != Pawn || victim.Color() == p.color {
		return mat
	}
	if dest := ep.Offset(dir, 0); g.Contains(dest) {
		mat.set(dest)
	}
	return mat
}
