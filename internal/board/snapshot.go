package board

// PieceView is the presentation form of a piece.
type PieceView struct {
	Symbol string `json:"symbol"`
	Kind   string `json:"kind"`
	Color  Color  `json:"color"`
}

// ViewOf returns the presentation form of p.
func ViewOf(p Piece) PieceView {
	return PieceView{Symbol: p.String(), Kind: p.Kind().String(), Color: p.Color()}
}

// Snapshot is the queryable state of a match, detached from the live match.
// Board is indexed [row][col] with row 0 holding rank 8; nil cells are empty.
type Snapshot struct {
	Board       [][]*PieceView `json:"board"`
	ActiveColor Color          `json:"active_color"`
	Turn        int            `json:"turn"`
	Check       bool           `json:"check"`
	Checkmate   bool           `json:"checkmate"`
	Winner      *Color         `json:"winner,omitempty"`
	EnPassant   string         `json:"en_passant,omitempty"`
	// CapturedByWhite holds black pieces taken by White, in capture order; likewise CapturedByBlack.
	CapturedByWhite []PieceView `json:"captured_by_white"`
	CapturedByBlack []PieceView `json:"captured_by_black"`
	Moves           []string    `json:"moves"`
}

// Snapshot captures the current state for rendering or broadcast.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Board:           make([][]*PieceView, m.grid.Rows()),
		ActiveColor:     m.current,
		Turn:            m.turn,
		Check:           m.check,
		Checkmate:       m.checkmate,
		CapturedByWhite: []PieceView{},
		CapturedByBlack: []PieceView{},
		Moves:           make([]string, 0, len(m.history)),
	}
	for r := range s.Board {
		s.Board[r] = make([]*PieceView, m.grid.Cols())
		for c := range s.Board[r] {
			if p := m.grid.Piece(Position{Row: r, Col: c}); p != nil {
				v := ViewOf(p)
				s.Board[r][c] = &v
			}
		}
	}
	if w, ok := m.Winner(); ok {
		s.Winner = &w
	}
	if m.hasEnPassant {
		s.EnPassant = SquareOf(m.enPassant).String()
	}
	for _, p := range m.captured {
		if p.Color() == Black {
			s.CapturedByWhite = append(s.CapturedByWhite, ViewOf(p))
		} else {
			s.CapturedByBlack = append(s.CapturedByBlack, ViewOf(p))
		}
	}
	for _, rec := range m.history {
		s.Moves = append(s.Moves, rec.String())
	}
	return s
}

// At returns the view of the piece on sq, or nil.
func (s Snapshot) At(sq Square) *PieceView {
	p := sq.Position()
	if p.Row < 0 || p.Row >= len(s.Board) || p.Col < 0 || p.Col >= len(s.Board[p.Row]) {
		return nil
	}
	return s.Board[p.Row][p.Col]
}
