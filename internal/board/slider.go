package board

var (
	orthogonal = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal   = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

// slide marks squares along each direction until the edge, stopping before a
// friendly piece and on an opponent piece.
func (b *base) slide(g *Grid, pos Position, mat MoveMatrix, dirs [][2]int) {
	for _, d := range dirs {
		p := pos.Offset(d[0], d[1])
		for g.Contains(p) {
			if !g.Occupied(p) {
				mat.set(p)
				p = p.Offset(d[0], d[1])
				continue
			}
			if b.isOpponent(g, p) {
				mat.set(p)
			}
			break
		}
	}
}

// RookPiece slides along ranks and files.
type RookPiece struct{ base }

func (r *RookPiece) Kind() Kind { return Rook }

func (r *RookPiece) Clone() Piece {
	c := *r
	return &c
}

func (r *RookPiece) String() string { return Symbol(Rook, r.color) }

func (r *RookPiece) PossibleMoves(g *Grid, pos Position, _ Context) MoveMatrix {
	mat := g.NewMoveMatrix()
	r.slide(g, pos, mat, orthogonal)
	return mat
}

// BishopPiece slides along diagonals.
type BishopPiece struct{ base }

func (b *BishopPiece) Kind() Kind { return Bishop }

func (b *BishopPiece) Clone() Piece {
	c := *b
	return &c
}

func (b *BishopPiece) String() string { return Symbol(Bishop, b.color) }

func (b *BishopPiece) PossibleMoves(g *Grid, pos Position, _ Context) MoveMatrix {
	mat := g.NewMoveMatrix()
	b.slide(g, pos, mat, diagonal)
	return mat
}

// QueenPiece combines the rook and bishop patterns.
type QueenPiece struct{ base }

func (q *QueenPiece) Kind() Kind { return Queen }

func (q *QueenPiece) Clone() Piece {
	c := *q
	return &c
}

func (q *QueenPiece) String() string { return Symbol(Queen, q.color) }

func (q *QueenPiece) PossibleMoves(g *Grid, pos Position, _ Context) MoveMatrix {
	mat := g.NewMoveMatrix()
	q.slide(g, pos, mat, orthogonal)
	q.slide(g, pos, mat, diagonal)
	return mat
}
