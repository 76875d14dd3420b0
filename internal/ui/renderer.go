package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/ui/control"
	"github.com/hailam/chessduel/internal/ui/sprite"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	Background     color.RGBA
	TextColor      color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180}, // Yellow highlight
		LegalMoveColor: color.RGBA{130, 151, 105, 200}, // Green dots
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		CheckColor:     color.RGBA{255, 100, 100, 180}, // Red
		Background:     color.RGBA{40, 44, 52, 255},
		TextColor:      color.RGBA{220, 220, 220, 255},
	}
}

type pieceKey struct {
	kind  board.Kind
	color board.Color
}

// Renderer draws the board, highlights and pieces.
type Renderer struct {
	theme   *Theme
	sprites *sprite.Set
	pieces  map[pieceKey]*ebiten.Image
	thumbs  map[pieceKey]*ebiten.Image
}

// NewRenderer rasterizes the piece set for squares of squareSize pixels.
func NewRenderer(squareSize int) (*Renderer, error) {
	set, err := sprite.NewSet(squareSize)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		theme:   DefaultTheme(),
		sprites: set,
		pieces:  make(map[pieceKey]*ebiten.Image),
		thumbs:  make(map[pieceKey]*ebiten.Image),
	}
	for _, c := range []board.Color{board.White, board.Black} {
		for k := board.Pawn; k <= board.King; k++ {
			r.pieces[pieceKey{k, c}] = ebiten.NewImageFromImage(set.Image(k, c))
		}
	}
	return r, nil
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// DrawBoard draws the squares and the file and rank labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image, g control.Geometry) {
	sz := float32(g.Square)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			c := r.theme.LightSquare
			if (row+col)%2 == 1 {
				c = r.theme.DarkSquare
			}
			x, y := g.Corner(board.Pos(row, col))
			vector.DrawFilledRect(screen, float32(x), float32(y), sz, sz, c, false)
		}
	}

	// Labels sit on the bottom row and the left column, in the opposite square color.
	for col := 0; col < g.Cols; col++ {
		pos := board.Pos(g.Rows-1, col)
		if g.Flipped {
			pos.Row = 0
		}
		x, y := g.Corner(pos)
		label := string(rune('a' + col))
		drawText(screen, label, smallFace, x+g.Square-10, y+g.Square-15, r.labelColor(pos))
	}
	for row := 0; row < g.Rows; row++ {
		pos := board.Pos(row, 0)
		if g.Flipped {
			pos.Col = g.Cols - 1
		}
		x, y := g.Corner(pos)
		drawText(screen, board.SquareOf(pos).String()[1:], smallFace, x+3, y+2, r.labelColor(pos))
	}
}

func (r *Renderer) labelColor(pos board.Position) color.RGBA {
	if (pos.Row+pos.Col)%2 == 1 {
		return r.theme.LightSquare
	}
	return r.theme.DarkSquare
}

// DrawHighlights marks the last move, a checked king, the selection and its targets.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, g control.Geometry, ctl *control.Controller) {
	if from, to, ok := ctl.LastMove(); ok {
		r.highlightSquare(screen, g, from, r.theme.LastMoveColor)
		r.highlightSquare(screen, g, to, r.theme.LastMoveColor)
	}
	if king, ok := ctl.KingInCheck(); ok {
		r.highlightSquare(screen, g, king, r.theme.CheckColor)
	}
	if sel, ok := ctl.Selected(); ok {
		r.highlightSquare(screen, g, sel, r.theme.SelectedSquare)
	}
	for _, pos := range ctl.Reachable().Positions() {
		x, y := g.Corner(pos)
		half := float32(g.Square) / 2
		vector.DrawFilledCircle(screen, float32(x)+half, float32(y)+half, float32(g.Square)*0.15, r.theme.LegalMoveColor, true)
	}
}

func (r *Renderer) highlightSquare(screen *ebiten.Image, g control.Geometry, pos board.Position, c color.RGBA) {
	x, y := g.Corner(pos)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(g.Square), float32(g.Square), c, false)
}

// DrawPieces draws every piece of the snapshot.
func (r *Renderer) DrawPieces(screen *ebiten.Image, g control.Geometry, snap board.Snapshot) {
	for row, cells := range snap.Board {
		for col, p := range cells {
			if p == nil {
				continue
			}
			x, y := g.Corner(board.Pos(row, col))
			r.drawPieceAt(screen, *p, x, y)
		}
	}
}

func (r *Renderer) drawPieceAt(screen *ebiten.Image, p board.PieceView, x, y int) {
	kind, ok := sprite.KindOf(p.Kind)
	if !ok {
		return
	}
	img := r.pieces[pieceKey{kind, p.Color}]
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	scale := 1.0 / r.sprites.Scale()
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// DrawThumbnail draws a small piece icon of size pixels at (x, y).
func (r *Renderer) DrawThumbnail(screen *ebiten.Image, p board.PieceView, x, y, size int) {
	kind, ok := sprite.KindOf(p.Kind)
	if !ok {
		return
	}
	k := pieceKey{kind, p.Color}
	img := r.thumbs[k]
	if img == nil || img.Bounds().Dx() != size {
		img = ebiten.NewImageFromImage(r.sprites.Thumbnail(kind, p.Color, size))
		r.thumbs[k] = img
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}
