// Package render draws board snapshots as terminal text or SVG.
package render

import (
	"strconv"
	"strings"

	"github.com/hailam/chessduel/internal/board"
)

// Options controls how a board is drawn.
type Options struct {
	// Perspective is the color at the bottom of the board.
	Perspective board.Color
	// Highlight marks reachable squares. It may be nil.
	Highlight board.MoveMatrix
	// Captured adds the captured-piece lines above and below the board.
	Captured bool
}

// gridPos maps a display cell to the grid position it shows. Black sees the
// board rotated half a turn.
func gridPos(dr, dc, rows, cols int, p board.Color) board.Position {
	if p == board.Black {
		return board.Pos(rows-1-dr, cols-1-dc)
	}
	return board.Pos(dr, dc)
}

// Text renders s as a framed text board with rank and file labels.
// Highlighted squares carry a trailing '*'.
func Text(s board.Snapshot, opts Options) string {
	rows := len(s.Board)
	if rows == 0 {
		return ""
	}
	cols := len(s.Board[0])
	border := strings.Repeat("─", 2*cols+1)

	var b strings.Builder
	if opts.Captured {
		writeCaptured(&b, "White captured:", s.CapturedByWhite)
	}

	b.WriteString("  ┌" + border + "┐\n")
	for dr := 0; dr < rows; dr++ {
		rank := strconv.Itoa(rows - gridPos(dr, 0, rows, cols, opts.Perspective).Row)
		b.WriteString(rank + " │ ")
		for dc := 0; dc < cols; dc++ {
			pos := gridPos(dr, dc, rows, cols, opts.Perspective)
			if v := s.Board[pos.Row][pos.Col]; v != nil {
				b.WriteString(v.Symbol)
			} else {
				b.WriteString("·")
			}
			if opts.Highlight.At(pos) {
				b.WriteByte('*')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString("│ " + rank + "\n")
	}
	b.WriteString("  └" + border + "┘\n")

	files := make([]string, cols)
	for dc := range files {
		files[dc] = string(rune('a' + gridPos(0, dc, rows, cols, opts.Perspective).Col))
	}
	b.WriteString("    " + strings.Join(files, " ") + "\n")

	if opts.Captured {
		writeCaptured(&b, "Black captured:", s.CapturedByBlack)
	}
	return b.String()
}

func writeCaptured(b *strings.Builder, label string, pieces []board.PieceView) {
	b.WriteString(label + " ")
	if len(pieces) == 0 {
		b.WriteString("(none)")
	}
	for i, p := range pieces {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.Symbol)
	}
	b.WriteByte('\n')
}

// Status summarizes whose turn it is and any check or checkmate.
func Status(s board.Snapshot) string {
	if s.Checkmate && s.Winner != nil {
		return "Checkmate! " + s.Winner.String() + " wins."
	}
	line := "Turn " + strconv.Itoa(s.Turn) + ": " + s.ActiveColor.String() + " to move"
	if s.Check {
		line += " (check)"
	}
	return line
}
