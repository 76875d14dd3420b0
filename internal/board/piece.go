package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// forward is the row delta of a pawn advance. Row 0 holds rank 8, so White moves up.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	switch string(b) {
	case "White", "white", "w":
		*c = White
	case "Black", "black", "b":
		*c = Black
	default:
		return &ParseError{Input: string(b), Reason: "unknown color"}
	}
	return nil
}

// Kind identifies a piece variant.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece kind name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the kind (lowercase).
func (k Kind) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k'}
	if int(k) >= len(chars) {
		return ' '
	}
	return chars[k]
}

var symbols = [2][6]string{
	{"♙", "♘", "♗", "♖", "♕", "♔"},
	{"♟", "♞", "♝", "♜", "♛", "♚"},
}

// Symbol returns the Unicode chess glyph for a piece of kind k and color c.
func Symbol(k Kind, c Color) string {
	if int(k) > int(King) || c > Black {
		return "?"
	}
	return symbols[c][k]
}

// Context is the match state a piece may consult while generating moves.
type Context interface {
	// EnPassantTarget returns the square of the pawn that just advanced two ranks.
	EnPassantTarget() (Position, bool)
	// InCheck reports whether the match currently marks color c as in check.
	InCheck(c Color) bool
}

// Piece is the capability shared by all six variants.
type Piece interface {
	Color() Color
	Kind() Kind
	MoveCount() int
	// PossibleMoves marks every square the piece could reach from pos,
	// ignoring whether the move would leave its own king in check.
	PossibleMoves(g *Grid, pos Position, ctx Context) MoveMatrix
	// Clone returns an independent copy of the piece.
	Clone() Piece
	String() string

	increaseMoveCount()
	decreaseMoveCount()
}

// NewPiece creates an unmoved piece of the given kind and color.
func NewPiece(k Kind, c Color) Piece {
	b := base{color: c}
	switch k {
	case Pawn:
		return &PawnPiece{b}
	case Knight:
		return &KnightPiece{b}
	case Bishop:
		return &BishopPiece{b}
	case Rook:
		return &RookPiece{b}
	case Queen:
		return &QueenPiece{b}
	case King:
		return &KingPiece{b}
	}
	panic(invariantf("unknown piece kind %d", k))
}

// base holds the state every variant carries.
type base struct {
	color Color
	moves int
}

func (b *base) Color() Color   { return b.color }
func (b *base) MoveCount() int { return b.moves }

func (b *base) increaseMoveCount() { b.moves++ }

func (b *base) decreaseMoveCount() {
	if b.moves == 0 {
		panic(invariantf("move counter of %s piece would go negative", b.color))
	}
	b.moves--
}

// isOpponent reports whether pos holds a piece of the other color.
func (b *base) isOpponent(g *Grid, pos Position) bool {
	p := g.Piece(pos)
	return p != nil && p.Color() != b.color
}

// canLand reports whether pos is empty or holds an opponent piece.
func (b *base) canLand(g *Grid, pos Position) bool {
	p := g.Piece(pos)
	return p == nil || p.Color() != b.color
}

// PieceFromChar converts a FEN character to an unmoved piece, or nil.
func PieceFromChar(c byte) Piece {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	switch c {
	case 'P':
		return NewPiece(Pawn, color)
	case 'N':
		return NewPiece(Knight, color)
	case 'B':
		return NewPiece(Bishop, color)
	case 'R':
		return NewPiece(Rook, color)
	case 'Q':
		return NewPiece(Queen, color)
	case 'K':
		return NewPiece(King, color)
	default:
		return nil
	}
}

// fenChar returns the FEN character of p: uppercase for white, lowercase for black.
func fenChar(p Piece) byte {
	ch := p.Kind().Char()
	if p.Color() == White {
		ch -= 'a' - 'A'
	}
	return ch
}
