// Package shell is a line-oriented command interpreter for playing a match
// on one terminal.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/notation"
	"github.com/hailam/chessduel/internal/render"
	"github.com/hailam/chessduel/internal/storage"
)

// Shell reads commands from in and writes boards and replies to out.
type Shell struct {
	match    *board.Match
	startFEN string
	started  time.Time

	// Player names used for records and PGN.
	White string
	Black string

	// Store, when set, backs the games command.
	Store *storage.Storage

	in  io.Reader
	out io.Writer
}

// New creates a shell over a match starting from startFEN.
func New(startFEN string, in io.Reader, out io.Writer) (*Shell, error) {
	if startFEN == "" {
		startFEN = board.StartFEN
	}
	m, err := board.NewMatchFromFEN(startFEN)
	if err != nil {
		return nil, err
	}
	return &Shell{
		match:    m,
		startFEN: startFEN,
		started:  time.Now(),
		White:    "White",
		Black:    "Black",
		in:       in,
		out:      out,
	}, nil
}

// Match returns the match being played.
func (s *Shell) Match() *board.Match {
	return s.match
}

// Record returns the current game as a storage record.
func (s *Shell) Record() storage.GameRecord {
	return storage.RecordOf(s.match, s.White, s.Black, s.startFEN, s.started)
}

// Run starts the command loop. It returns on "quit" or end of input.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)

	s.handleBoard()
	s.prompt()
	for scanner.Scan() {
		if !s.Exec(scanner.Text()) {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *Shell) prompt() {
	if !s.match.Checkmate() {
		fmt.Fprintf(s.out, "%s> ", s.match.ActiveColor())
	}
}

// Exec runs one command line. It reports false once the shell should exit.
func (s *Shell) Exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "move", "m":
		s.handleMove(args)
	case "moves":
		s.handleMoves(args)
	case "board", "d":
		s.handleBoard()
	case "fen":
		fmt.Fprintln(s.out, s.match.FEN())
	case "pgn":
		s.handlePGN()
	case "history":
		s.handleHistory()
	case "new":
		s.handleNewGame()
	case "position":
		s.handlePosition(args)
	case "games":
		s.handleGames()
	case "help":
		s.handleHelp()
	case "quit", "exit":
		return false
	default:
		// Bare coordinate moves: "e2e4".
		if len(parts) == 1 && len(cmd) == 4 {
			s.handleMove([]string{cmd[:2], cmd[2:]})
			return true
		}
		fmt.Fprintf(s.out, "Unknown command: %s (try help)\n", cmd)
	}
	return true
}

// handleMove accepts "e2 e4" or "e2e4".
func (s *Shell) handleMove(args []string) {
	if len(args) == 1 && len(args[0]) == 4 {
		args = []string{args[0][:2], args[0][2:]}
	}
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: move <source> <target>")
		return
	}

	captured, err := s.match.PerformMove(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if captured != nil {
		fmt.Fprintf(s.out, "Captured %s %s\n", captured.Color(), captured.Kind())
	}
	s.handleBoard()
}

// handleMoves shows the board with the squares reachable from one square marked.
func (s *Shell) handleMoves(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: moves <square>")
		return
	}
	moves, err := s.match.PossibleMoves(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	fmt.Fprint(s.out, render.Text(s.match.Snapshot(), render.Options{
		Perspective: s.match.ActiveColor(),
		Highlight:   moves,
	}))
	targets := make([]string, 0, moves.Count())
	for _, p := range moves.Positions() {
		targets = append(targets, board.SquareOf(p).String())
	}
	fmt.Fprintf(s.out, "%s: %s\n", args[0], strings.Join(targets, " "))
}

func (s *Shell) handleBoard() {
	snap := s.match.Snapshot()
	fmt.Fprint(s.out, render.Text(snap, render.Options{Captured: true}))
	fmt.Fprintln(s.out, render.Status(snap))
}

func (s *Shell) handlePGN() {
	pgn, err := notation.PGN(s.Record())
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, pgn)
}

// handleHistory prints moves paired by full move: "1. e2e4 e7e5".
func (s *Shell) handleHistory() {
	history := s.match.History()
	if len(history) == 0 {
		fmt.Fprintln(s.out, "No moves yet")
		return
	}
	for i := 0; i < len(history); i += 2 {
		line := fmt.Sprintf("%d. %s", i/2+1, history[i])
		if i+1 < len(history) {
			line += " " + history[i+1].String()
		}
		fmt.Fprintln(s.out, line)
	}
}

// handleNewGame restarts from the shell's starting position.
func (s *Shell) handleNewGame() {
	m, err := board.NewMatchFromFEN(s.startFEN)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.match = m
	s.started = time.Now()
	s.handleBoard()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (s *Shell) handlePosition(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: position startpos|fen <fen> [moves ...]")
		return
	}

	fenEnd := len(args)
	for i, arg := range args {
		if arg == "moves" {
			fenEnd = i
			break
		}
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		fen = strings.Join(args[1:fenEnd], " ")
	default:
		fmt.Fprintf(s.out, "Unknown position type: %s\n", args[0])
		return
	}

	m, err := board.NewMatchFromFEN(fen)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid FEN: %v\n", err)
		return
	}

	// Apply moves
	if fenEnd < len(args) {
		for _, mv := range args[fenEnd+1:] {
			if len(mv) != 4 {
				fmt.Fprintf(s.out, "Invalid move: %s\n", mv)
				return
			}
			if _, err := m.PerformMove(mv[:2], mv[2:]); err != nil {
				fmt.Fprintf(s.out, "Invalid move: %v\n", err)
				return
			}
		}
	}

	s.match = m
	s.startFEN = fen
	s.started = time.Now()
	s.handleBoard()
}

// handleGames lists recorded games and the running totals.
func (s *Shell) handleGames() {
	if s.Store == nil {
		fmt.Fprintln(s.out, "Game recording is off")
		return
	}
	games, err := s.Store.ListGames()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	for _, g := range games {
		result := "unfinished"
		if g.Winner != nil {
			result = g.Winner.String() + " won"
		}
		fmt.Fprintf(s.out, "%s  %s  %s vs %s  %d moves  %s\n",
			g.ID, g.Started.Format(time.DateTime), g.White, g.Black, len(g.Moves), result)
	}
	stats, err := s.Store.LoadStats()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%d games, %d White wins, %d Black wins, %d unfinished\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Unfinished)
}

func (s *Shell) handleHelp() {
	fmt.Fprint(s.out, `Commands:
  move <src> <dst>   play a move (or just type e2e4)
  moves <square>     show where a piece can go
  board              show the board
  fen                print the position as FEN
  pgn                print the game as PGN
  history            list the moves played
  games              list recorded games
  new                start over
  position startpos|fen <fen> [moves ...]
  quit               leave
`)
}
