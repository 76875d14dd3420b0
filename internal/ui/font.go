package ui

import (
	"bytes"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularFace *text.GoTextFace
	boldFace    *text.GoTextFace
	smallFace   *text.GoTextFace
)

const (
	defaultFontSize = 14.0
	titleFontSize   = 18.0
	labelFontSize   = 11.0
)

func init() {
	initFonts()
}

func initFonts() {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("ui: load regular font: %v", err)
		return
	}
	regularFace = &text.GoTextFace{Source: regular, Size: defaultFontSize}
	smallFace = &text.GoTextFace{Source: regular, Size: labelFontSize}

	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		log.Printf("ui: load bold font: %v", err)
		return
	}
	boldFace = &text.GoTextFace{Source: bold, Size: titleFontSize}
}

// drawText draws s with its top-left corner at (x, y). A nil face draws nothing.
func drawText(dst *ebiten.Image, s string, face *text.GoTextFace, x, y int, c color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}

// measureText returns the size of s in face.
func measureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
