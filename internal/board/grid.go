package board

import "fmt"

// Grid is rectangular piece storage. Every cell holds at most one piece.
type Grid struct {
	rows  int
	cols  int
	cells [][]Piece
}

// NewGrid creates an empty rows×cols grid.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d, need at least 1 row and 1 column", ErrInvalidDimensions, rows, cols)
	}
	cells := make([][]Piece, rows)
	for r := range cells {
		cells[r] = make([]Piece, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Contains reports whether pos is a valid address on this grid.
func (g *Grid) Contains(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.rows && pos.Col >= 0 && pos.Col < g.cols
}

func (g *Grid) mustContain(pos Position) {
	if !g.Contains(pos) {
		panic(invariantf("position (%s) not on the %dx%d grid", pos, g.rows, g.cols))
	}
}

// Piece returns the piece at pos, or nil if the cell is empty.
// It panics with *InvariantError if pos is off the grid.
func (g *Grid) Piece(pos Position) Piece {
	g.mustContain(pos)
	return g.cells[pos.Row][pos.Col]
}

// Occupied reports whether pos holds a piece.
func (g *Grid) Occupied(pos Position) bool {
	return g.Piece(pos) != nil
}

// Place puts p on pos. It fails with ErrOccupiedSquare if the cell is taken.
func (g *Grid) Place(p Piece, pos Position) error {
	if g.Occupied(pos) {
		return fmt.Errorf("%w: (%s)", ErrOccupiedSquare, pos)
	}
	g.cells[pos.Row][pos.Col] = p
	return nil
}

// Remove empties pos and returns what was there, possibly nil.
func (g *Grid) Remove(pos Position) Piece {
	g.mustContain(pos)
	p := g.cells[pos.Row][pos.Col]
	g.cells[pos.Row][pos.Col] = nil
	return p
}

// NewMoveMatrix returns an all-false matrix sized to the grid.
func (g *Grid) NewMoveMatrix() MoveMatrix {
	return NewMoveMatrix(g.rows, g.cols)
}
