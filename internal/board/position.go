package board

import "fmt"

// Position addresses a grid cell. Row 0 is the top of the board (rank 8
// for the standard game) and column 0 is the a-file.
type Position struct {
	Row int
	Col int
}

// Pos is shorthand for Position{Row: row, Col: col}.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// Offset returns the position shifted by dr rows and dc columns.
func (p Position) Offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// String returns "row, col".
func (p Position) String() string {
	return fmt.Sprintf("%d, %d", p.Row, p.Col)
}

// less orders positions row-major.
func (p Position) less(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// MoveMatrix marks reachable cells; it has the same dimensions as the grid it was computed on.
type MoveMatrix [][]bool

// NewMoveMatrix returns an all-false rows×cols matrix.
func NewMoveMatrix(rows, cols int) MoveMatrix {
	cells := make([]bool, rows*cols)
	m := make(MoveMatrix, rows)
	for r := range m {
		m[r] = cells[r*cols : (r+1)*cols : (r+1)*cols]
	}
	return m
}

// At reports whether p is marked. Positions outside the matrix are never marked.
func (m MoveMatrix) At(p Position) bool {
	if p.Row < 0 || p.Row >= len(m) || p.Col < 0 || p.Col >= len(m[p.Row]) {
		return false
	}
	return m[p.Row][p.Col]
}

func (m MoveMatrix) set(p Position) {
	m[p.Row][p.Col] = true
}

// Any reports whether at least one cell is marked.
func (m MoveMatrix) Any() bool {
	for _, row := range m {
		for _, v := range row {
			if v {
				return true
			}
		}
	}
	return false
}

// Positions returns the marked cells in row-major order.
func (m MoveMatrix) Positions() []Position {
	var out []Position
	for r, row := range m {
		for c, v := range row {
			if v {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// Count returns the number of marked cells.
func (m MoveMatrix) Count() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}
