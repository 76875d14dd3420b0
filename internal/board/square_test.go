package board

import (
	"errors"
	"testing"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		want Position
	}{
		{"a8", Pos(0, 0)},
		{"h8", Pos(0, 7)},
		{"a1", Pos(7, 0)},
		{"h1", Pos(7, 7)},
		{"e4", Pos(4, 4)},
		{"e2", Pos(6, 4)},
	}
	for _, tt := range tests {
		sq, err := ParseSquare(tt.in)
		if err != nil {
			t.Errorf("ParseSquare(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got := sq.Position(); got != tt.want {
			t.Errorf("ParseSquare(%q).Position() = %v, want %v", tt.in, got, tt.want)
		}
		if back := SquareOf(tt.want).String(); back != tt.in {
			t.Errorf("SquareOf(%v) = %q, want %q", tt.want, back, tt.in)
		}
	}
}

func TestParseSquareRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "e", "e44", "i1", "a0", "a9", "E2", "2e", " e2", "ee"} {
		_, err := ParseSquare(in)
		if err == nil {
			t.Errorf("ParseSquare(%q) expected error", in)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) || !errors.Is(err, ErrParse) {
			t.Errorf("ParseSquare(%q) error = %v, want *ParseError", in, err)
		}
		if IsRuleError(err) {
			t.Errorf("ParseSquare(%q) error classified as a rule error", in)
		}
	}
}

func TestNewSquare(t *testing.T) {
	if _, err := NewSquare('h', 8); err != nil {
		t.Errorf("NewSquare('h', 8) unexpected error: %v", err)
	}
	if _, err := NewSquare('h', 9); !errors.Is(err, ErrParse) {
		t.Errorf("NewSquare('h', 9) error = %v, want ErrParse", err)
	}
	if _, err := NewSquare('x', 1); !errors.Is(err, ErrParse) {
		t.Errorf("NewSquare('x', 1) error = %v, want ErrParse", err)
	}
}
