package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chessduel/internal/board"
)

func openMemory(t *testing.T) *Storage {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open in-memory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func foolsMate(t *testing.T) *board.Match {
	t.Helper()
	m := board.NewMatch()
	for _, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		if _, err := m.PerformMove(mv[:2], mv[2:]); err != nil {
			t.Fatalf("%s: %v", mv, err)
		}
	}
	return m
}

func TestStorage(t *testing.T) {
	s := openMemory(t)
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("RecordOf", func(t *testing.T) {
		rec := RecordOf(foolsMate(t), "alice", "bob", board.StartFEN, started)
		if !rec.Checkmate || rec.Winner == nil || *rec.Winner != board.Black {
			t.Errorf("Expected Black checkmate, got checkmate=%v winner=%v", rec.Checkmate, rec.Winner)
		}
		if diff := cmp.Diff([]string{"f2f3", "e7e5", "g2g4", "d8h4"}, rec.Moves); diff != "" {
			t.Errorf("Moves mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		rec := RecordOf(foolsMate(t), "alice", "bob", board.StartFEN, started)
		id, err := s.SaveGame(&rec)
		if err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
		if id == "" || rec.ID != id {
			t.Fatalf("Expected ID to be assigned, got %q / %q", id, rec.ID)
		}

		got, err := s.LoadGame(id)
		if err != nil {
			t.Fatalf("LoadGame: %v", err)
		}
		if diff := cmp.Diff(rec, *got); diff != "" {
			t.Errorf("Loaded record mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("MissingGame", func(t *testing.T) {
		if _, err := s.LoadGame("nope"); !errors.Is(err, ErrGameNotFound) {
			t.Errorf("Expected ErrGameNotFound, got %v", err)
		}
	})
}

func TestRecordGameUpdatesStats(t *testing.T) {
	s := openMemory(t)

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 0 || stats.DecisiveRate() != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	started := time.Now().Add(-time.Minute)
	mated := RecordOf(foolsMate(t), "a", "b", board.StartFEN, started)

	abandoned := RecordOf(board.NewMatch(), "c", "d", board.StartFEN, started)

	white := board.White
	whiteWin := GameRecord{White: "e", Black: "f", Moves: []string{"e2e4"}, Winner: &white, Checkmate: true,
		Started: started, Finished: started.Add(time.Second)}

	for _, rec := range []GameRecord{mated, abandoned, whiteWin} {
		if err := s.RecordGame(rec); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	stats, err = s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{GamesPlayed: 3, WhiteWins: 1, BlackWins: 1, Unfinished: 1, LongestGame: 4}
	if diff := cmp.Diff(want, *stats, cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".TotalPlayTime"
	}, cmp.Ignore())); diff != "" {
		t.Errorf("Stats mismatch (-want +got):\n%s", diff)
	}
	if stats.TotalPlayTime <= 0 {
		t.Errorf("Expected play time to accumulate, got %v", stats.TotalPlayTime)
	}

	games, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 3 {
		t.Fatalf("Expected 3 games, got %d", len(games))
	}
	for i, who := range []string{"a", "c", "e"} {
		if games[i].White != who {
			t.Errorf("games[%d].White = %q, want %q (creation order)", i, games[i].White, who)
		}
	}
}

func TestStoragePersists(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	rec := RecordOf(foolsMate(t), "alice", "bob", board.StartFEN, time.Now())
	if err := s.RecordGame(rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	games, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 || games[0].White != "alice" {
		t.Fatalf("Expected alice's game after reopen, got %+v", games)
	}
	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.BlackWins != 1 {
		t.Errorf("Expected 1 black win, got %d", stats.BlackWins)
	}

	next := GameRecord{White: "carol"}
	if _, err := s.SaveGame(&next); err != nil {
		t.Fatal(err)
	}
	if next.ID <= games[0].ID {
		t.Errorf("Expected IDs to keep increasing across reopen: %s after %s", next.ID, games[0].ID)
	}
}

func TestDataPaths(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)
	t.Setenv("APPDATA", xdg)

	dataDir, err := DataDir("")
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("DataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	custom := filepath.Join(t.TempDir(), "games")
	got, err := DataDir(custom)
	if err != nil {
		t.Fatalf("DataDir(%s) failed: %v", custom, err)
	}
	if got != custom {
		t.Errorf("DataDir override = %s, want %s", got, custom)
	}

	dbDir, err := DatabaseDir(custom)
	if err != nil {
		t.Fatalf("DatabaseDir failed: %v", err)
	}
	if dbDir != filepath.Join(custom, "db") {
		t.Errorf("DatabaseDir = %s, want it under %s", dbDir, custom)
	}
	if _, err := os.Stat(dbDir); err != nil {
		t.Errorf("Database directory was not created: %v", err)
	}

	t.Logf("Data directory: %s", dataDir)
}

func TestPlatformBase(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", "/home/ann")
	t.Setenv("USERPROFILE", "/home/ann")

	tests := []struct {
		goos string
		want string
	}{
		{"linux", xdg},
		{"freebsd", xdg},
		{"windows", filepath.Join("/home/ann", "AppData", "Roaming")},
		{"darwin", filepath.Join("/home/ann", "Library", "Application Support")},
	}
	for _, tt := range tests {
		got, err := platformBase(tt.goos)
		if err != nil {
			t.Fatalf("platformBase(%s): %v", tt.goos, err)
		}
		if got != tt.want {
			t.Errorf("platformBase(%s) = %s, want %s", tt.goos, got, tt.want)
		}
	}
}
