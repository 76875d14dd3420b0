package board

import (
	"slices"
)

// Match is the authoritative state of one game. It is not safe for concurrent
// use; callers sharing a match across goroutines must serialize access.
type Match struct {
	grid      *Grid
	turn      int
	current   Color
	check     bool
	checked   Color
	checkmate bool

	enPassant    Position
	hasEnPassant bool

	// occupied indexes the grid's non-empty cells. The grid is authoritative;
	// only put and take mutate either of them.
	occupied map[Position]struct{}
	captured []Piece
	history  []MoveRecord
}

// MoveRecord describes a committed move.
type MoveRecord struct {
	Source    Square
	Target    Square
	Piece     Kind
	Color     Color
	Captured  Piece
	EnPassant bool
	Castle    bool
}

// String returns the move in coordinate form, e.g. "e2e4".
func (r MoveRecord) String() string {
	return r.Source.String() + r.Target.String()
}

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewMatch creates a match in the standard starting position with White to move.
func NewMatch() *Match {
	m := newEmptyMatch()
	for col, k := range backRank {
		m.setup(NewPiece(k, Black), Position{Row: 0, Col: col})
		m.setup(NewPiece(Pawn, Black), Position{Row: 1, Col: col})
		m.setup(NewPiece(Pawn, White), Position{Row: Size - 2, Col: col})
		m.setup(NewPiece(k, White), Position{Row: Size - 1, Col: col})
	}
	m.reindex()
	return m
}

func newEmptyMatch() *Match {
	g, err := NewGrid(Size, Size)
	if err != nil {
		panic(err)
	}
	return &Match{
		grid:     g,
		turn:     1,
		current:  White,
		occupied: make(map[Position]struct{}),
	}
}

// setup places a piece during construction; reindex must follow.
func (m *Match) setup(p Piece, pos Position) {
	if err := m.grid.Place(p, pos); err != nil {
		panic(invariantf("setup: %v", err))
	}
}

// reindex rebuilds the occupied-square index from the grid.
func (m *Match) reindex() {
	clear(m.occupied)
	for r := 0; r < m.grid.Rows(); r++ {
		for c := 0; c < m.grid.Cols(); c++ {
			if pos := (Position{Row: r, Col: c}); m.grid.Occupied(pos) {
				m.occupied[pos] = struct{}{}
			}
		}
	}
}

// put places p on pos and records the square as occupied.
func (m *Match) put(p Piece, pos Position) {
	if err := m.grid.Place(p, pos); err != nil {
		panic(invariantf("%v", err))
	}
	m.occupied[pos] = struct{}{}
}

// take removes and returns whatever is on pos.
func (m *Match) take(pos Position) Piece {
	p := m.grid.Remove(pos)
	if p != nil {
		delete(m.occupied, pos)
	}
	return p
}

// occupiedSquares returns the indexed squares in row-major order.
func (m *Match) occupiedSquares() []Position {
	out := make([]Position, 0, len(m.occupied))
	for pos := range m.occupied {
		out = append(out, pos)
	}
	slices.SortFunc(out, func(a, b Position) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})
	return out
}

// pieceAtIndexed returns the piece on an indexed square, panicking if the index is stale.
func (m *Match) pieceAtIndexed(pos Position) Piece {
	p := m.grid.Piece(pos)
	if p == nil {
		panic(invariantf("occupied index lists empty square (%s)", pos))
	}
	return p
}

// Turn returns the half-move number, starting at 1.
func (m *Match) Turn() int { return m.turn }

// ActiveColor returns the color to move.
func (m *Match) ActiveColor() Color { return m.current }

// Check reports whether the last move left the opponent in check. That is
// the side to move, except after checkmate, where it is the mated side.
func (m *Match) Check() bool { return m.check }

// Checkmate reports whether the game has ended by checkmate.
func (m *Match) Checkmate() bool { return m.checkmate }

// Winner returns the winning color once checkmate is set.
func (m *Match) Winner() (Color, bool) {
	if !m.checkmate {
		return White, false
	}
	return m.current, true
}

// InCheck implements Context.
func (m *Match) InCheck(c Color) bool {
	return m.check && m.checked == c
}

// EnPassantTarget implements Context.
func (m *Match) EnPassantTarget() (Position, bool) {
	return m.enPassant, m.hasEnPassant
}

// Grid returns the match's grid. Callers must treat it as read-only.
func (m *Match) Grid() *Grid { return m.grid }

// PieceAt returns the piece on sq, or nil.
func (m *Match) PieceAt(sq Square) Piece {
	return m.grid.Piece(sq.Position())
}

// Captured returns copies of the captured pieces in capture order.
func (m *Match) Captured() []Piece {
	out := make([]Piece, len(m.captured))
	for i, p := range m.captured {
		out[i] = p.Clone()
	}
	return out
}

// CapturedBy returns copies of the pieces color c has taken from its opponent.
func (m *Match) CapturedBy(c Color) []Piece {
	var out []Piece
	for _, p := range m.captured {
		if p.Color() != c {
			out = append(out, p.Clone())
		}
	}
	return out
}

// History returns the committed moves in order.
func (m *Match) History() []MoveRecord {
	out := slices.Clone(m.history)
	for i := range out {
		if out[i].Captured != nil {
			out[i].Captured = out[i].Captured.Clone()
		}
	}
	return out
}

// PossibleMoves validates the piece on square as a move source for the side to
// move and returns the squares it can reach.
func (m *Match) PossibleMoves(square string) (MoveMatrix, error) {
	from, err := PositionOf(square)
	if err != nil {
		return nil, err
	}
	if m.checkmate {
		return nil, ErrGameOver
	}
	if err := m.validateSource(from); err != nil {
		return nil, err
	}
	return m.possibleMoves(from), nil
}

func (m *Match) possibleMoves(from Position) MoveMatrix {
	return m.pieceAtIndexed(from).PossibleMoves(m.grid, from, m)
}

// PerformMove plays source to target, both in algebraic notation, for the side to move.
// Malformed squares fail with *ParseError; rejected moves with *MoveError wrapping
// one of the rule errors. It returns the captured piece, if any.
func (m *Match) PerformMove(source, target string) (Piece, error) {
	from, err := PositionOf(source)
	if err != nil {
		return nil, err
	}
	to, err := PositionOf(target)
	if err != nil {
		return nil, err
	}
	captured, err := m.Move(from, to)
	if err != nil {
		return nil, &MoveError{Source: source, Target: target, Err: err}
	}
	return captured, nil
}

// Move plays from to to, given as grid addresses.
func (m *Match) Move(from, to Position) (Piece, error) {
	if m.checkmate {
		return nil, ErrGameOver
	}
	if err := m.validateSource(from); err != nil {
		return nil, err
	}
	if err := m.validateTarget(from, to); err != nil {
		return nil, err
	}

	mv := m.execute(from, to)
	if m.isInCheck(m.current) {
		m.undo(mv)
		return nil, ErrSelfCheck
	}

	if mv.piece.Kind() == Pawn && abs(to.Row-from.Row) == 2 {
		m.enPassant, m.hasEnPassant = to, true
	} else {
		m.enPassant, m.hasEnPassant = Position{}, false
	}

	var captured Piece
	if mv.captured != nil {
		captured = mv.captured.Clone()
	}
	m.history = append(m.history, MoveRecord{
		Source:    SquareOf(from),
		Target:    SquareOf(to),
		Piece:     mv.piece.Kind(),
		Color:     mv.piece.Color(),
		Captured:  captured,
		EnPassant: mv.enPassant(),
		Castle:    mv.castled,
	})

	opponent := m.current.Other()
	m.check, m.checked = m.isInCheck(opponent), opponent
	if m.isInCheckmate(opponent) {
		m.checkmate = true
	} else {
		m.nextTurn()
	}
	return mv.captured, nil
}

func (m *Match) validateSource(from Position) error {
	p := m.grid.Piece(from)
	if p == nil {
		return ErrNoPieceAtSource
	}
	if p.Color() != m.current {
		return ErrNotYourPiece
	}
	if !m.possibleMoves(from).Any() {
		return ErrNoLegalMoves
	}
	return nil
}

func (m *Match) validateTarget(from, to Position) error {
	moves := m.possibleMoves(from)
	if !m.grid.Contains(to) {
		return ErrTargetOutOfBounds
	}
	if !moves.At(to) {
		return ErrIllegalTarget
	}
	return nil
}

func (m *Match) nextTurn() {
	m.turn++
	m.current = m.current.Other()
}
