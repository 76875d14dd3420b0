// Package sprite rasterizes the embedded SVG piece art.
package sprite

import (
	"bytes"
	"embed"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/hailam/chessduel/internal/board"
)

//go:embed pieces/*.svg
var pieceAssets embed.FS

var kinds = []board.Kind{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King}

// Asset returns the embedded file name for a piece, e.g. "pieces/wN.svg".
func Asset(k board.Kind, c board.Color) string {
	prefix := "w"
	if c == board.Black {
		prefix = "b"
	}
	return fmt.Sprintf("pieces/%s%c.svg", prefix, k.Char()-'a'+'A')
}

// Render draws the piece art into a size×size image.
func Render(k board.Kind, c board.Color, size int) (*image.RGBA, error) {
	path := Asset(k, c)
	data, err := pieceAssets.ReadFile(path)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

type key struct {
	kind  board.Kind
	color board.Color
}

// Set holds all twelve pieces rendered at Scale times the display size, so
// they stay sharp when drawn scaled down.
type Set struct {
	size   int
	scale  float64
	pieces map[key]*image.RGBA
}

// DefaultScale is the oversampling factor used by NewSet.
const DefaultScale = 3.0

// NewSet renders every piece for display at size pixels.
func NewSet(size int) (*Set, error) {
	s := &Set{size: size, scale: DefaultScale, pieces: make(map[key]*image.RGBA)}
	renderSize := int(float64(size) * s.scale)
	for _, c := range []board.Color{board.White, board.Black} {
		for _, k := range kinds {
			img, err := Render(k, c, renderSize)
			if err != nil {
				return nil, err
			}
			s.pieces[key{k, c}] = img
		}
	}
	return s, nil
}

// Size is the display size in pixels.
func (s *Set) Size() int { return s.size }

// Scale is the factor between the stored images and the display size.
func (s *Set) Scale() float64 { return s.scale }

// Image returns the oversampled image of a piece, or nil for an unknown kind.
func (s *Set) Image(k board.Kind, c board.Color) *image.RGBA {
	return s.pieces[key{k, c}]
}

// Thumbnail resamples a piece down to size pixels.
func (s *Set) Thumbnail(k board.Kind, c board.Color, size int) *image.RGBA {
	src := s.Image(k, c)
	if src == nil {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// KindOf maps a piece view's kind name back to its Kind.
func KindOf(name string) (board.Kind, bool) {
	for _, k := range kinds {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
