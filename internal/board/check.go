package board

// kingPosition locates the king of color c.
func (m *Match) kingPosition(c Color) (Position, bool) {
	for _, pos := range m.occupiedSquares() {
		p := m.pieceAtIndexed(pos)
		if p.Kind() == King && p.Color() == c {
			return pos, true
		}
	}
	return Position{}, false
}

// isInCheck reports whether any opposing piece can reach c's king.
// A missing king counts as in check.
func (m *Match) isInCheck(c Color) bool {
	king, ok := m.kingPosition(c)
	if !ok {
		return true
	}
	for _, pos := range m.occupiedSquares() {
		p := m.pieceAtIndexed(pos)
		if p.Color() == c {
			continue
		}
		if p.PossibleMoves(m.grid, pos, m).At(king) {
			return true
		}
	}
	return false
}

// isInCheckmate tries every reachable square of every piece of color c and
// reports whether none of them gets the king out of check.
func (m *Match) isInCheckmate(c Color) bool {
	if !m.isInCheck(c) {
		return false
	}
	for _, from := range m.occupiedSquares() {
		p := m.pieceAtIndexed(from)
		if p.Color() != c {
			continue
		}
		for _, to := range p.PossibleMoves(m.grid, from, m).Positions() {
			mv := m.execute(from, to)
			stillInCheck := m.isInCheck(c)
			m.undo(mv)
			if !stillInCheck {
				return false
			}
		}
	}
	return true
}

// IsInCheck reports whether color c's king is attacked in the current position.
func (m *Match) IsInCheck(c Color) bool {
	return m.isInCheck(c)
}

// IsInCheckmate reports whether color c is in check with no escaping move.
// The match is left exactly as it was.
func (m *Match) IsInCheckmate(c Color) bool {
	return m.isInCheckmate(c)
}
