package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/render"
)

// Panel dimensions
const (
	PanelPadding  = 20
	LineHeight    = 22
	ThumbSize     = 22
	ButtonHeight  = 32
	MoveRowHeight = 20
)

var (
	panelBg        = color.RGBA{38, 40, 45, 255}
	sectionBg      = color.RGBA{48, 52, 58, 255}
	buttonBg       = color.RGBA{50, 54, 60, 255}
	buttonHoverBg  = color.RGBA{65, 70, 78, 255}
	accentColor    = color.RGBA{76, 175, 120, 255}
	textPrimary    = color.RGBA{240, 240, 245, 255}
	textSecondary  = color.RGBA{160, 165, 175, 255}
	textMuted      = color.RGBA{120, 125, 135, 255}
	dividerColor   = color.RGBA{60, 65, 72, 255}
	moveRowAlt     = color.RGBA{44, 48, 54, 255}
	statusGameOver = color.RGBA{255, 200, 80, 255}
)

// Panel is the side bar: players, status, captures, move list and a flip button.
type Panel struct {
	game    *Game
	x, w    int
	flipBtn rect
	hovered bool
}

type rect struct{ X, Y, W, H int }

// NewPanel lays out the panel to the right of the board.
func NewPanel(g *Game, x, w int) *Panel {
	return &Panel{
		game:    g,
		x:       x,
		w:       w,
		flipBtn: rect{x + PanelPadding, ScreenHeight - PanelPadding - ButtonHeight, w - 2*PanelPadding, ButtonHeight},
	}
}

// HandleInput consumes clicks on the panel and reports whether it did.
func (p *Panel) HandleInput(in *InputHandler) bool {
	b := p.flipBtn
	p.hovered = in.IsInBounds(b.X, b.Y, b.W, b.H)
	if p.hovered && in.Clicked() {
		p.game.Flip()
		return true
	}
	return false
}

// Draw renders the panel for snapshot snap.
func (p *Panel) Draw(screen *ebiten.Image, r *Renderer, snap board.Snapshot) {
	vector.DrawFilledRect(screen, float32(p.x), 0, float32(p.w), ScreenHeight, panelBg, false)
	x := p.x + PanelPadding
	y := PanelPadding

	drawText(screen, "ChessDuel", boldFace, x, y, textPrimary)
	y += 34

	y = p.drawPlayer(screen, r, board.Black, p.game.black, snap.CapturedByBlack, snap, x, y)
	y = p.drawPlayer(screen, r, board.White, p.game.white, snap.CapturedByWhite, snap, x, y)

	p.divider(screen, y)
	y += 12
	statusColor := textPrimary
	if snap.Checkmate {
		statusColor = statusGameOver
	}
	drawText(screen, render.Status(snap), regularFace, x, y, statusColor)
	y += LineHeight
	if msg := p.game.ctl.Message(); msg != "" {
		drawText(screen, truncate(msg, 38), smallFace, x, y, textSecondary)
	}
	y += LineHeight

	p.divider(screen, y)
	y += 12
	p.drawMoves(screen, snap.Moves, x, y, p.flipBtn.Y-PanelPadding)
	p.drawButton(screen)
}

// drawPlayer shows a name, a marker when it is that side's turn and the pieces it took.
func (p *Panel) drawPlayer(screen *ebiten.Image, r *Renderer, c board.Color, name string, took []board.PieceView, snap board.Snapshot, x, y int) int {
	vector.DrawFilledRect(screen, float32(x-6), float32(y-4), float32(p.w-2*PanelPadding+12), LineHeight+ThumbSize+12, sectionBg, false)
	if snap.ActiveColor == c && !snap.Checkmate {
		vector.DrawFilledCircle(screen, float32(x+4), float32(y+9), 4, accentColor, true)
	}
	drawText(screen, fmt.Sprintf("%s (%s)", truncate(name, 20), c), regularFace, x+14, y, textPrimary)
	y += LineHeight

	cx := x
	for _, pv := range took {
		if cx+ThumbSize > p.x+p.w-PanelPadding {
			break
		}
		r.DrawThumbnail(screen, pv, cx, y, ThumbSize)
		cx += ThumbSize - 4
	}
	return y + ThumbSize + 16
}

// drawMoves lists the moves two per row, scrolled so the latest stay visible.
func (p *Panel) drawMoves(screen *ebiten.Image, moves []string, x, top, bottom int) {
	if len(moves) == 0 {
		drawText(screen, "No moves yet", smallFace, x, top, textMuted)
		return
	}
	rows := (len(moves) + 1) / 2
	visible := (bottom - top) / MoveRowHeight
	first := 0
	if rows > visible {
		first = rows - visible
	}
	y := top
	for i := first; i < rows; i++ {
		if i%2 == 1 {
			vector.DrawFilledRect(screen, float32(x-6), float32(y-2), float32(p.w-2*PanelPadding+12), MoveRowHeight, moveRowAlt, false)
		}
		drawText(screen, fmt.Sprintf("%d.", i+1), smallFace, x, y, textMuted)
		drawText(screen, moves[2*i], smallFace, x+40, y, textPrimary)
		if 2*i+1 < len(moves) {
			drawText(screen, moves[2*i+1], smallFace, x+130, y, textPrimary)
		}
		y += MoveRowHeight
	}
}

func (p *Panel) drawButton(screen *ebiten.Image) {
	b := p.flipBtn
	bg := buttonBg
	if p.hovered {
		bg = buttonHoverBg
	}
	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), bg, false)
	label := "Flip board (F)"
	w, h := measureText(label, regularFace)
	drawText(screen, label, regularFace, b.X+(b.W-int(w))/2, b.Y+(b.H-int(h))/2, textPrimary)
}

func (p *Panel) divider(screen *ebiten.Image, y int) {
	vector.DrawFilledRect(screen, float32(p.x+PanelPadding), float32(y), float32(p.w-2*PanelPadding), 1, dividerColor, false)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
