package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/chessduel/internal/board"
)

// SVGOptions sizes an SVG board.
type SVGOptions struct {
	Options
	// Square is the side of one square in pixels. Zero means 60.
	Square int
}

const (
	lightSquare = "fill:#f0d9b5"
	darkSquare  = "fill:#b58863"
	markStyle   = "fill:#6a9f3a;fill-opacity:0.45"
	labelStyle  = "font-family:sans-serif;font-size:%dpx;fill:#333;text-anchor:middle"
	pieceStyle  = "font-family:serif;font-size:%dpx;text-anchor:middle;dominant-baseline:central"
)

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVG writes s as an SVG image with a margin for rank and file labels.
func SVG(w io.Writer, s board.Snapshot, opts SVGOptions) error {
	rows := len(s.Board)
	if rows == 0 {
		return fmt.Errorf("render: empty board")
	}
	cols := len(s.Board[0])
	sq := opts.Square
	if sq <= 0 {
		sq = 60
	}
	margin := sq / 2

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(cols*sq+2*margin, rows*sq+2*margin)
	canvas.Title(Status(s))

	for dr := 0; dr < rows; dr++ {
		for dc := 0; dc < cols; dc++ {
			pos := gridPos(dr, dc, rows, cols, opts.Perspective)
			x, y := margin+dc*sq, margin+dr*sq

			style := lightSquare
			if (pos.Row+pos.Col)%2 == 1 {
				style = darkSquare
			}
			canvas.Rect(x, y, sq, sq, style)
			if opts.Highlight.At(pos) {
				canvas.Rect(x, y, sq, sq, markStyle)
			}
			if v := s.Board[pos.Row][pos.Col]; v != nil {
				canvas.Text(x+sq/2, y+sq/2, v.Symbol, fmt.Sprintf(pieceStyle, sq*3/4))
			}
		}
	}

	label := fmt.Sprintf(labelStyle, margin*2/3)
	for dr := 0; dr < rows; dr++ {
		rank := fmt.Sprint(rows - gridPos(dr, 0, rows, cols, opts.Perspective).Row)
		canvas.Text(margin/2, margin+dr*sq+sq/2+margin/4, rank, label)
	}
	for dc := 0; dc < cols; dc++ {
		file := string(rune('a' + gridPos(0, dc, rows, cols, opts.Perspective).Col))
		canvas.Text(margin+dc*sq+sq/2, rows*sq+margin+margin*2/3, file, label)
	}

	canvas.End()
	return ew.err
}
