// Package ui is a hot-seat chess window built on Ebitengine.
package ui

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/ui/control"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	PanelWidth   = ScreenWidth - BoardSize
)

// Game implements ebiten.Game for two players sharing one window.
type Game struct {
	ctl          *control.Controller
	geom         control.Geometry
	white, black string

	renderer *Renderer
	input    *InputHandler
	panel    *Panel
}

// NewGame creates a window over m. The player names are shown in the panel.
func NewGame(m *board.Match, white, black string) (*Game, error) {
	g := m.Grid()
	side := max(g.Rows(), g.Cols())
	geom := control.Geometry{Square: BoardSize / side, Rows: g.Rows(), Cols: g.Cols()}

	r, err := NewRenderer(geom.Square)
	if err != nil {
		return nil, err
	}
	game := &Game{
		ctl:      control.New(m),
		geom:     geom,
		white:    white,
		black:    black,
		renderer: r,
		input:    NewInputHandler(),
	}
	game.panel = NewPanel(game, BoardSize, PanelWidth)
	return game, nil
}

// Update handles one frame of input.
func (g *Game) Update() error {
	g.input.Update()

	if KeyPressed(ebiten.KeyEscape, ebiten.KeyQ) {
		return ebiten.Termination
	}
	if KeyPressed(ebiten.KeyF) {
		g.Flip()
	}
	if g.panel.HandleInput(g.input) {
		return nil
	}
	if g.input.Clicked() {
		if pos, ok := g.geom.CellAt(g.input.MousePosition()); ok {
			g.ctl.Click(pos)
		} else {
			g.ctl.Clear()
		}
	}
	return nil
}

// Draw renders the board and the panel.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.renderer.Theme().Background)
	snap := g.ctl.Match().Snapshot()

	g.renderer.DrawBoard(screen, g.geom)
	g.renderer.DrawHighlights(screen, g.geom, g.ctl)
	g.renderer.DrawPieces(screen, g.geom, snap)
	g.panel.Draw(screen, g.renderer, snap)
}

// Layout keeps a fixed logical size; Ebitengine scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Flip turns the board around.
func (g *Game) Flip() {
	g.geom.Flipped = !g.geom.Flipped
}

// Run opens the window and blocks until it is closed or the players quit.
func Run(m *board.Match, white, black string) error {
	game, err := NewGame(m, white, black)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("ChessDuel")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
