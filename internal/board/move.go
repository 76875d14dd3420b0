package board

// appliedMove records everything execute changed so undo can invert it exactly.
type appliedMove struct {
	from  Position
	to    Position
	piece Piece

	// captured is nil when nothing was taken. capturedAt differs from to
	// only for en passant.
	captured   Piece
	capturedAt Position

	castled  bool
	rookFrom Position
	rookTo   Position
}

// enPassant reports whether the move captured a pawn that was not on the target square.
func (mv appliedMove) enPassant() bool {
	return mv.captured != nil && mv.capturedAt != mv.to
}

// execute applies a move without validating it.
func (m *Match) execute(from, to Position) appliedMove {
	piece := m.take(from)
	if piece == nil {
		panic(invariantf("execute: no piece at (%s)", from))
	}
	piece.increaseMoveCount()
	mv := appliedMove{from: from, to: to, piece: piece}

	if captured := m.take(to); captured != nil {
		mv.captured, mv.capturedAt = captured, to
	} else if piece.Kind() == Pawn && from.Col != to.Col {
		behind := to.Offset(-piece.Color().forward(), 0)
		if captured := m.take(behind); captured != nil {
			mv.captured, mv.capturedAt = captured, behind
		}
	}

	m.put(piece, to)

	if piece.Kind() == King && abs(to.Col-from.Col) == 2 {
		mv.castled = true
		if to.Col > from.Col {
			mv.rookFrom, mv.rookTo = from.Offset(0, kingsideRookOffset), from.Offset(0, 1)
		} else {
			mv.rookFrom, mv.rookTo = from.Offset(0, queensideRookOffset), from.Offset(0, -1)
		}
		rook := m.take(mv.rookFrom)
		if rook == nil {
			panic(invariantf("execute: castling rook missing at (%s)", mv.rookFrom))
		}
		rook.increaseMoveCount()
		m.put(rook, mv.rookTo)
	}

	if mv.captured != nil {
		m.captured = append(m.captured, mv.captured.Clone())
	}
	return mv
}

// undo reverses execute, step by step in the opposite order.
func (m *Match) undo(mv appliedMove) {
	if mv.captured != nil {
		if len(m.captured) == 0 {
			panic(invariantf("undo: capture history is empty"))
		}
		m.captured = m.captured[:len(m.captured)-1]
	}

	if mv.castled {
		rook := m.take(mv.rookTo)
		if rook == nil {
			panic(invariantf("undo: castled rook missing at (%s)", mv.rookTo))
		}
		rook.decreaseMoveCount()
		m.put(rook, mv.rookFrom)
	}

	piece := m.take(mv.to)
	if piece == nil || piece != mv.piece {
		panic(invariantf("undo: moved piece missing at (%s)", mv.to))
	}
	piece.decreaseMoveCount()
	m.put(piece, mv.from)

	if mv.captured != nil {
		m.put(mv.captured, mv.capturedAt)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
