package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewMatchFromFEN builds a match from a FEN string. Move counters are derived so
// that castling and double-step eligibility agree with the FEN fields, and the
// check and checkmate flags are computed for the side to move.
func NewMatchFromFEN(fen string) (*Match, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	m := newEmptyMatch()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(m, parts[0]); err != nil {
		return nil, err
	}
	m.reindex()
	for _, c := range [2]Color{White, Black} {
		kings := 0
		for _, pos := range m.occupiedSquares() {
			if p := m.grid.Piece(pos); p.Kind() == King && p.Color() == c {
				kings++
			}
		}
		if kings != 1 {
			return nil, fmt.Errorf("%w: %s must have exactly one king", ErrInvalidFEN, c)
		}
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		m.current = White
	case "b":
		m.current = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	// Parse castling rights (field 2)
	if err := applyCastlingRights(m, parts[2]); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid en passant square: %s", ErrInvalidFEN, parts[3])
		}
		mover := m.current.Other()
		pawnAt := sq.Position().Offset(mover.forward(), 0)
		if !m.grid.Contains(pawnAt) {
			return nil, fmt.Errorf("%w: en passant square %s has no pawn beyond it", ErrInvalidFEN, sq)
		}
		if p := m.grid.Piece(pawnAt); p == nil || p.Kind() != Pawn || p.Color() != mover {
			return nil, fmt.Errorf("%w: no %s pawn in front of en passant square %s", ErrInvalidFEN, mover, sq)
		}
		m.enPassant, m.hasEnPassant = pawnAt, true
	}

	// Half-move clock (field 4) is accepted but not tracked.

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("%w: invalid full-move number: %s", ErrInvalidFEN, parts[5])
		}
		m.turn = 2*fmn - 1
		if m.current == Black {
			m.turn++
		}
	} else if m.current == Black {
		m.turn = 2
	}

	m.check, m.checked = m.isInCheck(m.current), m.current
	m.checkmate = m.isInCheckmate(m.current)
	if m.checkmate {
		// The side that delivered mate is recorded as the active color.
		m.current = m.current.Other()
	}
	return m, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(m *Match, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != Size {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for row, rankStr := range ranks {
		col := 0
		for _, c := range rankStr {
			if col >= Size {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, Size-row)
			}
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			piece := PieceFromChar(byte(c))
			if piece == nil {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, c)
			}
			// Pawns off their home row have already moved.
			if piece.Kind() == Pawn && row != homePawnRow(piece.Color()) {
				piece.increaseMoveCount()
			}
			m.setup(piece, Position{Row: row, Col: col})
			col++
		}
		if col != Size {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, Size-row, col)
		}
	}
	return nil
}

func homePawnRow(c Color) int {
	if c == White {
		return Size - 2
	}
	return 1
}

func homeRow(c Color) int {
	if c == White {
		return Size - 1
	}
	return 0
}

const kingHomeCol = 4

// applyCastlingRights marks kings and rooks as moved unless a castling right keeps them fresh.
func applyCastlingRights(m *Match, castling string) error {
	fresh := map[Position]bool{}
	if castling != "-" {
		for _, c := range castling {
			var color Color
			var offset int
			switch c {
			case 'K':
				color, offset = White, kingsideRookOffset
			case 'Q':
				color, offset = White, queensideRookOffset
			case 'k':
				color, offset = Black, kingsideRookOffset
			case 'q':
				color, offset = Black, queensideRookOffset
			default:
				return fmt.Errorf("%w: invalid castling character: %c", ErrInvalidFEN, c)
			}
			king := Position{Row: homeRow(color), Col: kingHomeCol}
			fresh[king] = true
			fresh[king.Offset(0, offset)] = true
		}
	}

	for _, pos := range m.occupiedSquares() {
		p := m.grid.Piece(pos)
		if (p.Kind() == King || p.Kind() == Rook) && !fresh[pos] {
			p.increaseMoveCount()
		}
	}
	return nil
}

// FEN returns the FEN representation of the match. The half-move clock is always 0.
func (m *Match) FEN() string {
	var sb strings.Builder

	// Piece placement
	for row := 0; row < Size; row++ {
		empty := 0
		for col := 0; col < Size; col++ {
			p := m.grid.Piece(Position{Row: row, Col: col})
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(fenChar(p))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < Size-1 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if m.current == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(m.castlingRights())

	// En passant
	sb.WriteByte(' ')
	if m.hasEnPassant {
		pawn := m.grid.Piece(m.enPassant)
		if pawn == nil {
			panic(invariantf("en passant target (%s) is empty", m.enPassant))
		}
		sb.WriteString(SquareOf(m.enPassant.Offset(-pawn.Color().forward(), 0)).String())
	} else {
		sb.WriteByte('-')
	}

	sb.WriteString(" 0 ")
	sb.WriteString(strconv.Itoa((m.turn + 1) / 2))
	return sb.String()
}

// castlingRights lists the castling options still open by move counters.
func (m *Match) castlingRights() string {
	var s string
	for _, right := range []struct {
		ch     byte
		color  Color
		offset int
	}{
		{'K', White, kingsideRookOffset},
		{'Q', White, queensideRookOffset},
		{'k', Black, kingsideRookOffset},
		{'q', Black, queensideRookOffset},
	} {
		kingPos := Position{Row: homeRow(right.color), Col: kingHomeCol}
		king := m.grid.Piece(kingPos)
		rook := m.grid.Piece(kingPos.Offset(0, right.offset))
		if king == nil || king.Kind() != King || king.Color() != right.color || king.MoveCount() != 0 {
			continue
		}
		if rook == nil || rook.Kind() != Rook || rook.Color() != right.color || rook.MoveCount() != 0 {
			continue
		}
		s += string(right.ch)
	}
	if s == "" {
		return "-"
	}
	return s
}
