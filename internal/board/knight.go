package board

// KnightPiece jumps in an L shape.
type KnightPiece struct{ base }

var knightJumps = [][2]int{
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
}

func (n *KnightPiece) Kind() Kind { return Knight }

func (n *KnightPiece) Clone() Piece {
	c := *n
	return &c
}

func (n *KnightPiece) String() string { return Symbol(Knight, n.color) }

func (n *KnightPiece) PossibleMoves(g *Grid, pos Position, _ Context) MoveMatrix {
	mat := g.NewMoveMatrix()
	n.step(g, pos, mat, knightJumps)
	return mat
}

// step marks each single-offset destination that is on the grid and not friendly.
func (b *base) step(g *Grid, pos Position, mat MoveMatrix, offsets [][2]int) {
	for _, d := range offsets {
		p := pos.Offset(d[0], d[1])
		if g.Contains(p) && b.canLand(g, p) {
			mat.set(p)
		}
	}
}
