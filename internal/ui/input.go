package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler samples mouse and keyboard state once per frame.
type InputHandler struct {
	mouseX, mouseY  int
	leftJustPressed bool
}

func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update reads this frame's input. Call it once at the start of Game.Update.
func (ih *InputHandler) Update() {
	ih.mouseX, ih.mouseY = ebiten.CursorPosition()
	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

// MousePosition returns the cursor in logical screen coordinates.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// Clicked reports whether the left button went down this frame.
func (ih *InputHandler) Clicked() bool {
	return ih.leftJustPressed
}

// IsInBounds reports whether the cursor is inside the rectangle.
func (ih *InputHandler) IsInBounds(x, y, w, h int) bool {
	return ih.mouseX >= x && ih.mouseX < x+w && ih.mouseY >= y && ih.mouseY < y+h
}

// KeyPressed reports whether any of keys went down this frame.
func KeyPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
