// Package control turns board clicks into moves for the graphical view and
// maps between board cells and screen pixels.
package control

import (
	"fmt"

	"github.com/hailam/chessduel/internal/board"
)

// Geometry places a board on screen. Row 0 is drawn at the top unless
// Flipped, in which case the board is seen from Black's side.
type Geometry struct {
	X, Y       int // top-left corner
	Square     int // side of one cell in pixels
	Rows, Cols int
	Flipped    bool
}

// Width is the board's width in pixels.
func (g Geometry) Width() int { return g.Cols * g.Square }

// Height is the board's height in pixels.
func (g Geometry) Height() int { return g.Rows * g.Square }

// Corner returns the top-left pixel of the cell at pos.
func (g Geometry) Corner(pos board.Position) (x, y int) {
	row, col := pos.Row, pos.Col
	if g.Flipped {
		row, col = g.Rows-1-row, g.Cols-1-col
	}
	return g.X + col*g.Square, g.Y + row*g.Square
}

// CellAt returns the cell under pixel (x, y), or false off the board.
func (g Geometry) CellAt(x, y int) (board.Position, bool) {
	x, y = x-g.X, y-g.Y
	if x < 0 || y < 0 || x >= g.Width() || y >= g.Height() {
		return board.Position{}, false
	}
	row, col := y/g.Square, x/g.Square
	if g.Flipped {
		row, col = g.Rows-1-row, g.Cols-1-col
	}
	return board.Pos(row, col), true
}

// Controller runs select-then-move input over a match: clicking one of the
// mover's pieces selects it and marks its targets, clicking a target plays
// the move and any other click drops the selection.
type Controller struct {
	match     *board.Match
	selected  *board.Position
	reachable board.MoveMatrix
	message   string
}

func New(m *board.Match) *Controller {
	return &Controller{match: m}
}

// Match returns the match being played.
func (c *Controller) Match() *board.Match { return c.match }

// Selected returns the selected cell, if any.
func (c *Controller) Selected() (board.Position, bool) {
	if c.selected == nil {
		return board.Position{}, false
	}
	return *c.selected, true
}

// Reachable returns the targets of the selected piece; nil without a selection.
func (c *Controller) Reachable() board.MoveMatrix { return c.reachable }

// Message is the outcome of the last click: the move played or why it failed.
func (c *Controller) Message() string { return c.message }

// Click handles a press on cell pos.
func (c *Controller) Click(pos board.Position) {
	sq := board.SquareOf(pos).String()

	if p := c.match.Grid().Piece(pos); p != nil && p.Color() == c.match.ActiveColor() && !c.match.Checkmate() {
		if c.selected != nil && *c.selected == pos {
			c.Clear()
			return
		}
		moves, err := c.match.PossibleMoves(sq)
		if err != nil {
			c.Clear()
			c.message = err.Error()
			return
		}
		c.selected, c.reachable = &pos, moves
		c.message = ""
		return
	}

	if c.selected == nil {
		if _, err := c.match.PossibleMoves(sq); err != nil {
			c.message = err.Error()
		}
		return
	}

	from := board.SquareOf(*c.selected).String()
	c.Clear()
	mover := c.match.ActiveColor()
	if _, err := c.match.PerformMove(from, sq); err != nil {
		c.message = err.Error()
		return
	}
	c.message = fmt.Sprintf("%s played %s%s", mover, from, sq)
}

// Clear drops the selection.
func (c *Controller) Clear() {
	c.selected, c.reachable = nil, nil
}

// LastMove returns the cells of the most recent move.
func (c *Controller) LastMove() (from, to board.Position, ok bool) {
	h := c.match.History()
	if len(h) == 0 {
		return board.Position{}, board.Position{}, false
	}
	last := h[len(h)-1]
	return last.Source.Position(), last.Target.Position(), true
}

// KingInCheck returns the cell of the checked king, if any.
func (c *Controller) KingInCheck() (board.Position, bool) {
	if !c.match.Check() {
		return board.Position{}, false
	}
	side := c.match.ActiveColor()
	if w, ok := c.match.Winner(); ok {
		side = w.Other()
	}
	g := c.match.Grid()
	for r := 0; r < g.Rows(); r++ {
		for col := 0; col < g.Cols(); col++ {
			pos := board.Pos(r, col)
			if p := g.Piece(pos); p != nil && p.Kind() == board.King && p.Color() == side {
				return pos, true
			}
		}
	}
	return board.Position{}, false
}
