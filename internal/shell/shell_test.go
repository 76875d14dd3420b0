package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/storage"
)

func runScript(t *testing.T, fen string, lines ...string) (*Shell, string) {
	t.Helper()
	var out bytes.Buffer
	s, err := New(fen, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return s, out.String()
}

func TestShellPlaysToCheckmate(t *testing.T) {
	s, out := runScript(t, "", "f2f3", "move e7 e5", "m g2g4", "d8h4", "history", "e1f2", "quit", "board")

	if !s.Match().Checkmate() {
		t.Fatalf("expected checkmate:\n%s", out)
	}
	for _, want := range []string{
		"Checkmate! Black wins.",
		"1. f2f3 e7e5\n2. g2g4 d8h4\n",
		"Error: move e1f2: " + board.ErrGameOver.Error(),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	rec := s.Record()
	if rec.Winner == nil || *rec.Winner != board.Black || len(rec.Moves) != 4 {
		t.Errorf("record = %+v", rec)
	}
}

func TestShellReportsErrors(t *testing.T) {
	_, out := runScript(t, "", "e2e5", "e7e5", "z9z9", "move e2", "moves e3", "castle")

	for _, want := range []string{
		"Error: move e2e5: " + board.ErrIllegalTarget.Error(),
		"Error: move e7e5: " + board.ErrNotYourPiece.Error(),
		`Error: invalid square "z9"`,
		"Usage: move <source> <target>",
		"Error: " + board.ErrNoPieceAtSource.Error(),
		"Unknown command: castle",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestShellMovesHighlights(t *testing.T) {
	_, out := runScript(t, "", "moves b1")
	if !strings.Contains(out, "b1: a3 c3") {
		t.Errorf("missing target list:\n%s", out)
	}
	if !strings.Contains(out, "3 │ ·*· ·*· · · · · │ 3") {
		t.Errorf("targets not marked on the board:\n%s", out)
	}
}

func TestShellFENAndPosition(t *testing.T) {
	s, out := runScript(t, "", "position startpos moves e2e4 c7c5", "fen", "new", "fen")

	want := "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2"
	if !strings.Contains(out, want) {
		t.Errorf("output lacks %q:\n%s", want, out)
	}
	// new restarts from the position set by the last position command.
	if got := s.Match().FEN(); got != board.StartFEN {
		t.Errorf("after new FEN = %q", got)
	}

	s, _ = runScript(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1 moves a1a8")
	if !s.Match().Checkmate() {
		t.Error("position ... moves a1a8 should mate")
	}

	_, out = runScript(t, "", "position fen 8/8/8 w - - 0 1", "position startpos moves e2e5")
	if !strings.Contains(out, "Invalid FEN") || !strings.Contains(out, "Invalid move") {
		t.Errorf("bad position commands not reported:\n%s", out)
	}
}

func TestShellPGN(t *testing.T) {
	_, out := runScript(t, "", "f2f3", "e7e5", "g2g4", "d8h4", "pgn")
	for _, want := range []string{`[White "White"]`, `[Result "0-1"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("PGN lacks %q:\n%s", want, out)
		}
	}
}

func TestShellHelpAndEmptyHistory(t *testing.T) {
	_, out := runScript(t, "", "", "help", "history")
	if !strings.Contains(out, "Commands:") || !strings.Contains(out, "No moves yet") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestShellGames(t *testing.T) {
	_, out := runScript(t, "", "games")
	if !strings.Contains(out, "Game recording is off") {
		t.Errorf("unexpected output:\n%s", out)
	}

	store, err := storage.Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	var buf bytes.Buffer
	s, err := New("", strings.NewReader("f2f3\ne7e5\ng2g4\nd8h4\n"), &buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordGame(s.Record()); err != nil {
		t.Fatal(err)
	}

	buf.Reset()
	s, err = New("", strings.NewReader("games\n"), &buf)
	if err != nil {
		t.Fatal(err)
	}
	s.Store = store
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"White vs Black  4 moves  Black won", "1 games, 0 White wins, 1 Black wins, 0 unfinished"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("games output lacks %q:\n%s", want, buf.String())
		}
	}
}

func TestNewRejectsBadFEN(t *testing.T) {
	if _, err := New("nonsense", strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Error("expected error")
	}
}
