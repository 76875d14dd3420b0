package board

// KingPiece steps one square in any direction and may castle while unmoved.
type KingPiece struct{ base }

var kingSteps = [][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// Castling rook columns, relative to the king's original column.
const (
	kingsideRookOffset  = 3
	queensideRookOffset = -4
)

func (k *KingPiece) Kind() Kind { return King }

func (k *KingPiece) Clone() Piece {
	c := *k
	return &c
}

func (k *KingPiece) String() string { return Symbol(King, k.color) }

func (k *KingPiece) PossibleMoves(g *Grid, pos Position, ctx Context) MoveMatrix {
	mat := g.NewMoveMatrix()
	k.step(g, pos, mat, kingSteps)

	if k.moves != 0 || ctx == nil || ctx.InCheck(k.color) {
		return mat
	}
	for _, offset := range [2]int{kingsideRookOffset, queensideRookOffset} {
		if k.canCastle(g, pos, offset) {
			dir := 1
			if offset < 0 {
				dir = -1
			}
			mat.set(pos.Offset(0, 2*dir))
		}
	}
	return mat
}

// canCastle checks the unmoved rook at pos+offset and that every square between is empty.
func (k *KingPiece) canCastle(g *Grid, pos Position, offset int) bool {
	rookPos := pos.Offset(0, offset)
	if !g.Contains(rookPos) {
		return false
	}
	rook := g.Piece(rookPos)
	if rook == nil || rook.Kind() != Rook || rook.Color() != k.color || rook.MoveCount() != 0 {
		return false
	}
	dir := 1
	if offset < 0 {
		dir = -1
	}
	for c := pos.Col + dir; c != rookPos.Col; c += dir {
		if g.Occupied(Position{Row: pos.Row, Col: c}) {
			return false
		}
	}
	return true
}
