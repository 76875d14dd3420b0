// Package notation replays recorded games through an independent referee to
// produce PGN and to cross-check the engine's verdicts.
package notation

import (
	"errors"
	"fmt"

	"github.com/corentings/chess/v2"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/storage"
)

// ErrRejected is returned when the referee refuses a move the engine accepted.
var ErrRejected = errors.New("referee rejected move")

// Verdict is the referee's view of a replayed game.
type Verdict struct {
	// SAN holds each move in standard algebraic notation.
	SAN       []string
	Outcome   chess.Outcome
	Checkmate bool
	// Winner is nil unless the game ended decisively.
	Winner *board.Color
}

// replay plays coordinate moves ("e2e4") from startFEN.
func replay(startFEN string, moves []string) (*chess.Game, []string, error) {
	var game *chess.Game
	if startFEN == "" || startFEN == board.StartFEN {
		game = chess.NewGame()
	} else {
		opt, err := chess.FEN(startFEN)
		if err != nil {
			return nil, nil, fmt.Errorf("start position: %w", err)
		}
		game = chess.NewGame(opt)
	}

	san := make([]string, 0, len(moves))
	for i, mv := range moves {
		pos := game.Position()
		move, err := chess.UCINotation{}.Decode(pos, mv)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: ply %d %s: %v", ErrRejected, i+1, mv, err)
		}
		san = append(san, chess.AlgebraicNotation{}.Encode(pos, move))
		if err := game.Move(move, nil); err != nil {
			return nil, nil, fmt.Errorf("%w: ply %d %s: %v", ErrRejected, i+1, mv, err)
		}
	}
	return game, san, nil
}

// Verify replays moves from startFEN and reports how the referee scores the result.
func Verify(startFEN string, moves []string) (Verdict, error) {
	game, san, err := replay(startFEN, moves)
	if err != nil {
		return Verdict{}, err
	}

	v := Verdict{SAN: san, Outcome: game.Outcome(), Checkmate: game.Method() == chess.Checkmate}
	switch v.Outcome {
	case chess.WhiteWon:
		w := board.White
		v.Winner = &w
	case chess.BlackWon:
		w := board.Black
		v.Winner = &w
	}
	return v, nil
}

// PGN renders rec as PGN text with the Event, Date, White, Black and Result tags.
func PGN(rec storage.GameRecord) (string, error) {
	game, _, err := replay(rec.StartFEN, rec.Moves)
	if err != nil {
		return "", err
	}

	game.AddTagPair("Event", "chessduel match")
	if !rec.Started.IsZero() {
		game.AddTagPair("Date", rec.Started.Format("2006.01.02"))
	}
	game.AddTagPair("White", rec.White)
	game.AddTagPair("Black", rec.Black)
	if rec.StartFEN != "" && rec.StartFEN != board.StartFEN {
		game.AddTagPair("SetUp", "1")
		game.AddTagPair("FEN", rec.StartFEN)
	}
	game.AddTagPair("Result", string(game.Outcome()))
	return game.String(), nil
}
