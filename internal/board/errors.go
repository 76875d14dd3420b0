package board

import (
	"errors"
	"fmt"
)

// Game-rule errors. A move rejected with one of these leaves the match unchanged.
var (
	ErrNoPieceAtSource   = errors.New("there is no piece on source position")
	ErrNotYourPiece      = errors.New("the chosen piece is not yours")
	ErrNoLegalMoves      = errors.New("there are no possible moves for the chosen piece")
	ErrTargetOutOfBounds = errors.New("target position is not on the board")
	ErrIllegalTarget     = errors.New("the chosen piece can't move to target position")
	ErrSelfCheck         = errors.New("you can't put yourself in check")
	ErrGameOver          = errors.New("the game is over")
)

// Construction errors.
var (
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrOccupiedSquare    = errors.New("there is already a piece on position")
	ErrInvalidFEN        = errors.New("invalid FEN")
)

// ErrParse is wrapped by every *ParseError.
var ErrParse = errors.New("parse error")

// ErrInvariant is wrapped by every *InvariantError.
var ErrInvariant = errors.New("broken invariant")

// MoveError reports why a requested move was rejected.
type MoveError struct {
	Source string
	Target string
	Err    error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s%s: %v", e.Source, e.Target, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// ParseError reports malformed square notation. It never describes a rule violation.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid square %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// InvariantError is the panic value used when the engine detects state it cannot trust,
// such as an off-grid address or a missing piece during execute/undo.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "broken invariant: " + e.Msg
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}

// IsRuleError reports whether err is one of the game-rule rejections.
func IsRuleError(err error) bool {
	for _, target := range []error{
		ErrNoPieceAtSource, ErrNotYourPiece, ErrNoLegalMoves,
		ErrTargetOutOfBounds, ErrIllegalTarget, ErrSelfCheck, ErrGameOver,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
