// Package tui is a full-screen terminal board for hot-seat play.
//
// Arrow keys move the cursor, Enter or Space picks a piece and then its
// target, Esc drops the selection and q quits.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/render"
)

var (
	styleLight     = tcell.StyleDefault.Background(tcell.NewRGBColor(240, 217, 181)).Foreground(tcell.ColorBlack)
	styleDark      = tcell.StyleDefault.Background(tcell.NewRGBColor(181, 136, 99)).Foreground(tcell.ColorBlack)
	styleCursor    = tcell.StyleDefault.Background(tcell.ColorSteelBlue).Foreground(tcell.ColorWhite)
	styleSelected  = tcell.StyleDefault.Background(tcell.ColorGoldenrod).Foreground(tcell.ColorBlack)
	styleReachable = tcell.StyleDefault.Background(tcell.ColorOliveDrab).Foreground(tcell.ColorBlack)
	styleText      = tcell.StyleDefault
)

const (
	boardTop  = 1
	boardLeft = 2
	cellWidth = 3
)

// View draws a match on a tcell screen and turns key presses into moves.
type View struct {
	screen tcell.Screen
	match  *board.Match

	cursor    board.Position
	selected  *board.Position
	highlight board.MoveMatrix
	message   string
	quit      bool
}

// New creates a view. The screen must already be initialized.
func New(screen tcell.Screen, m *board.Match) *View {
	return &View{
		screen: screen,
		match:  m,
		cursor: board.MustSquare("e2").Position(),
	}
}

// Run draws and handles events until the user quits.
func (v *View) Run() {
	v.Draw()
	for !v.quit {
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			v.HandleKey(ev)
		case nil:
			// Screen finalized.
			return
		}
		v.Draw()
	}
}

// HandleKey applies one key press.
func (v *View) HandleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		v.moveCursor(-1, 0)
	case tcell.KeyDown:
		v.moveCursor(1, 0)
	case tcell.KeyLeft:
		v.moveCursor(0, -1)
	case tcell.KeyRight:
		v.moveCursor(0, 1)
	case tcell.KeyEnter:
		v.activate()
	case tcell.KeyEscape:
		v.clearSelection()
		v.message = ""
	case tcell.KeyCtrlC:
		v.quit = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			v.activate()
		case 'q', 'Q':
			v.quit = true
		}
	}
}

// Done reports whether the user asked to quit.
func (v *View) Done() bool {
	return v.quit
}

func (v *View) moveCursor(dr, dc int) {
	next := v.cursor.Offset(dr, dc)
	if v.match.Grid().Contains(next) {
		v.cursor = next
	}
}

func (v *View) clearSelection() {
	v.selected = nil
	v.highlight = nil
}

// activate selects the piece under the cursor, or moves the selected piece there.
func (v *View) activate() {
	sq := board.SquareOf(v.cursor).String()

	if v.selected == nil {
		moves, err := v.match.PossibleMoves(sq)
		if err != nil {
			v.message = "Error: " + err.Error()
			return
		}
		from := v.cursor
		v.selected, v.highlight = &from, moves
		v.message = ""
		return
	}

	from := board.SquareOf(*v.selected).String()
	v.clearSelection()
	if from == sq {
		return
	}
	mover := v.match.ActiveColor()
	if _, err := v.match.PerformMove(from, sq); err != nil {
		v.message = "Error: " + err.Error()
		return
	}
	v.message = fmt.Sprintf("%s played %s%s", mover, from, sq)
}

// Draw renders the whole screen.
func (v *View) Draw() {
	v.screen.Clear()
	snap := v.match.Snapshot()

	v.drawCaptured(0, "White captured:", snap.CapturedByWhite)
	for r := range snap.Board {
		y := boardTop + r
		v.drawText(0, y, fmt.Sprint(len(snap.Board)-r), styleText)
		for c, piece := range snap.Board[r] {
			pos := board.Pos(r, c)
			glyph := ' '
			if piece != nil {
				glyph = []rune(piece.Symbol)[0]
			}
			x := boardLeft + c*cellWidth
			style := v.cellStyle(pos)
			v.screen.SetContent(x, y, ' ', nil, style)
			v.screen.SetContent(x+1, y, glyph, nil, style)
			v.screen.SetContent(x+2, y, ' ', nil, style)
		}
	}
	bottom := boardTop + len(snap.Board)
	for c := range snap.Board[0] {
		v.screen.SetContent(boardLeft+c*cellWidth+1, bottom, rune('a'+c), nil, styleText)
	}
	v.drawCaptured(bottom+1, "Black captured:", snap.CapturedByBlack)
	v.drawText(0, bottom+2, render.Status(snap), styleText)
	v.drawText(0, bottom+3, v.message, styleText)
	v.screen.Show()
}

func (v *View) cellStyle(pos board.Position) tcell.Style {
	switch {
	case pos == v.cursor:
		return styleCursor
	case v.selected != nil && pos == *v.selected:
		return styleSelected
	case v.highlight.At(pos):
		return styleReachable
	case (pos.Row+pos.Col)%2 == 1:
		return styleDark
	default:
		return styleLight
	}
}

func (v *View) drawCaptured(y int, label string, pieces []board.PieceView) {
	line := label
	for _, p := range pieces {
		line += " " + p.Symbol
	}
	v.drawText(0, y, line, styleText)
}

func (v *View) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
