package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessduel/internal/board"
)

// Storage keys
const (
	keyStats    = "stats"
	keyGameSeq  = "seq/game"
	prefixGames = "game/"
)

// ErrGameNotFound is returned by LoadGame for an unknown ID.
var ErrGameNotFound = errors.New("game not found")

// GameRecord is a finished or abandoned game.
type GameRecord struct {
	ID        string       `json:"id"`
	White     string       `json:"white"`
	Black     string       `json:"black"`
	StartFEN  string       `json:"start_fen"`
	Moves     []string     `json:"moves"`
	Winner    *board.Color `json:"winner,omitempty"`
	Checkmate bool         `json:"checkmate"`
	Started   time.Time    `json:"started"`
	Finished  time.Time    `json:"finished"`
}

// RecordOf builds a record of m as it stands now. startFEN is the position the match began from.
func RecordOf(m *board.Match, white, black, startFEN string, started time.Time) GameRecord {
	rec := GameRecord{
		White:     white,
		Black:     black,
		StartFEN:  startFEN,
		Checkmate: m.Checkmate(),
		Started:   started,
		Finished:  time.Now(),
	}
	for _, mv := range m.History() {
		rec.Moves = append(rec.Moves, mv.String())
	}
	if w, ok := m.Winner(); ok {
		rec.Winner = &w
	}
	return rec
}

// Duration returns how long the game lasted.
func (r GameRecord) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Stats are running totals over recorded games.
type Stats struct {
	GamesPlayed   int           `json:"games_played"`
	WhiteWins     int           `json:"white_wins"`
	BlackWins     int           `json:"black_wins"`
	Unfinished    int           `json:"unfinished"`
	TotalPlayTime time.Duration `json:"total_play_time"`
	LongestGame   int           `json:"longest_game"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewStorage opens the database in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := DatabaseDir("")
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Storage{db: db, seq: seq}, nil
}

// Close releases the ID sequence and closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	var errs []error
	if s.seq != nil {
		errs = append(errs, s.seq.Release())
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

func gameKey(id string) []byte {
	return []byte(prefixGames + id)
}

// nextID hands out zero-padded IDs so keys iterate in creation order.
func (s *Storage) nextID() (string, error) {
	n, err := s.seq.Next()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%012d", n+1), nil
}

// SaveGame stores rec, assigning an ID when it has none. It returns the ID.
func (s *Storage) SaveGame(rec *GameRecord) (string, error) {
	if rec.ID == "" {
		id, err := s.nextID()
		if err != nil {
			return "", err
		}
		rec.ID = id
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
	return rec.ID, err
}

// LoadGame returns the record stored under id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListGames returns every stored record, oldest first.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGames)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			games = append(games, rec)
		}
		return nil
	})

	return games, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*Stats, error) {
	stats := &Stats{}
	err := s.db.View(func(txn *badger.Txn) error {
		return loadStats(txn, stats)
	})
	return stats, err
}

func loadStats(txn *badger.Txn, stats *Stats) error {
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil // Use empty stats
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
}

// RecordGame stores a game and folds it into the statistics in one transaction.
func (s *Storage) RecordGame(rec GameRecord) error {
	if rec.ID == "" {
		id, err := s.nextID()
		if err != nil {
			return err
		}
		rec.ID = id
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var stats Stats
		if err := loadStats(txn, &stats); err != nil {
			return err
		}

		stats.GamesPlayed++
		stats.TotalPlayTime += rec.Duration()
		stats.LongestGame = max(stats.LongestGame, len(rec.Moves))
		switch {
		case rec.Winner == nil:
			stats.Unfinished++
		case *rec.Winner == board.White:
			stats.WhiteWins++
		default:
			stats.BlackWins++
		}

		encoded, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(keyStats), encoded); err != nil {
			return err
		}
		return txn.Set(gameKey(rec.ID), data)
	})
}

// DecisiveRate returns the share of recorded games that ended in checkmate, as a percentage (0-100)
func (s *Stats) DecisiveRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.WhiteWins+s.BlackWins) / float64(s.GamesPlayed) * 100
}
