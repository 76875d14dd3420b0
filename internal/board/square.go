// Package board implements the chess rules engine: grid storage, per-piece
// move generation and the match state machine.
package board

import "fmt"

// Size is the side length of the standard board.
const Size = 8

// Square is a board square in algebraic notation: file 'a'..'h', rank 1..8.
type Square struct {
	File byte
	Rank int
}

// NewSquare creates a square from a file letter and rank number.
func NewSquare(file byte, rank int) (Square, error) {
	if file < 'a' || file > 'a'+Size-1 || rank < 1 || rank > Size {
		return Square{}, &ParseError{
			Input:  fmt.Sprintf("%c%d", file, rank),
			Reason: "valid values are from a1 to h8",
		}
	}
	return Square{File: file, Rank: rank}, nil
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
// Exactly one lowercase file letter followed by one rank digit is accepted.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, &ParseError{Input: s, Reason: "expected format is like 'a1'"}
	}
	if s[0] < 'a' || s[0] > 'a'+Size-1 {
		return Square{}, &ParseError{Input: s, Reason: "file must be a letter from a to h"}
	}
	if s[1] < '1' || s[1] > '0'+Size {
		return Square{}, &ParseError{Input: s, Reason: "rank must be a digit from 1 to 8"}
	}
	return Square{File: s[0], Rank: int(s[1] - '0')}, nil
}

// MustSquare is like ParseSquare but panics on malformed input. Intended for literals.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// Position converts the square to a grid address: rank 8 is row 0 and file a is column 0.
func (sq Square) Position() Position {
	return Position{Row: Size - sq.Rank, Col: int(sq.File - 'a')}
}

// SquareOf converts a grid address back to algebraic notation.
func SquareOf(p Position) Square {
	return Square{File: byte('a' + p.Col), Rank: Size - p.Row}
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	return fmt.Sprintf("%c%d", sq.File, sq.Rank)
}

// PositionOf parses s and returns its grid address.
func PositionOf(s string) (Position, error) {
	sq, err := ParseSquare(s)
	if err != nil {
		return Position{}, err
	}
	return sq.Position(), nil
}
