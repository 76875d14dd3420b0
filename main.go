// ChessDuel - two players, one terminal or window
package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/config"
	"github.com/hailam/chessduel/internal/render"
	"github.com/hailam/chessduel/internal/shell"
	"github.com/hailam/chessduel/internal/storage"
	"github.com/hailam/chessduel/internal/tui"
	"github.com/hailam/chessduel/internal/ui"
)

func main() {
	cfg, err := config.ParseLocal(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	store, err := cfg.OpenStorage()
	if err != nil {
		log.Printf("Warning: game recording disabled: %v", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var rec storage.GameRecord
	var m *board.Match
	switch {
	case cfg.GUI:
		m, rec, err = playGUI(cfg)
	case cfg.TUI:
		m, rec, err = playTUI(cfg)
	default:
		m, rec, err = playShell(cfg, store)
	}
	if err != nil {
		log.Fatal(err)
	}

	if cfg.SVGPath != "" {
		if err := writeSVG(cfg.SVGPath, m); err != nil {
			log.Printf("Warning: could not write %s: %v", cfg.SVGPath, err)
		}
	}
	if store != nil && len(rec.Moves) > 0 {
		if err := store.RecordGame(rec); err != nil {
			log.Printf("Warning: game not saved: %v", err)
		} else {
			log.Printf("Game saved")
		}
	}
}

func playShell(cfg config.Config, store *storage.Storage) (*board.Match, storage.GameRecord, error) {
	sh, err := shell.New(cfg.StartFEN, os.Stdin, os.Stdout)
	if err != nil {
		return nil, storage.GameRecord{}, err
	}
	sh.White, sh.Black = cfg.White, cfg.Black
	sh.Store = store
	if err := sh.Run(); err != nil {
		return nil, storage.GameRecord{}, err
	}
	return sh.Match(), sh.Record(), nil
}

func startMatch(cfg config.Config) (*board.Match, string, error) {
	fen := cfg.StartFEN
	if fen == "" {
		fen = board.StartFEN
	}
	m, err := board.NewMatchFromFEN(fen)
	return m, fen, err
}

func playGUI(cfg config.Config) (*board.Match, storage.GameRecord, error) {
	m, fen, err := startMatch(cfg)
	if err != nil {
		return nil, storage.GameRecord{}, err
	}
	started := time.Now()
	if err := ui.Run(m, cfg.White, cfg.Black); err != nil {
		return nil, storage.GameRecord{}, err
	}
	return m, storage.RecordOf(m, cfg.White, cfg.Black, fen, started), nil
}

func playTUI(cfg config.Config) (*board.Match, storage.GameRecord, error) {
	m, fen, err := startMatch(cfg)
	if err != nil {
		return nil, storage.GameRecord{}, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, storage.GameRecord{}, err
	}
	if err := screen.Init(); err != nil {
		return nil, storage.GameRecord{}, err
	}
	started := time.Now()
	tui.New(screen, m).Run()
	screen.Fini()

	return m, storage.RecordOf(m, cfg.White, cfg.Black, fen, started), nil
}

func writeSVG(path string, m *board.Match) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.SVG(f, m.Snapshot(), render.SVGOptions{}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
