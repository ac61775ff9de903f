// Package storage provides persistent storage for user preferences and
// cumulative game statistics, backed by BadgerDB.
package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
)

// UserPreferences stores durable player settings.
type UserPreferences struct {
	Username   string    `json:"username"`
	StartLevel int       `json:"start_level"`
	AutoPlay   bool      `json:"auto_play"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences.
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:   "Player",
		StartLevel: 0,
		AutoPlay:   true,
		LastPlayed: time.Now(),
	}
}

// GameStats stores cumulative statistics across games.
type GameStats struct {
	GamesPlayed   int           `json:"games_played"`
	TotalPieces   int           `json:"total_pieces"`
	TotalLines    int           `json:"total_lines"`
	TotalTetrises int           `json:"total_tetrises"`
	TotalScore    int           `json:"total_score"`
	BestScore     int           `json:"best_score"`
	BestLines     int           `json:"best_lines"`
	TotalPlayTime time.Duration `json:"total_play_time"`
}

// NewGameStats returns empty game statistics.
func NewGameStats() *GameStats {
	return &GameStats{}
}

// GameRecord represents the outcome of one completed game.
type GameRecord struct {
	Pieces   int
	Lines    int
	Tetrises int
	Score    int
	Duration time.Duration
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch.
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			firstLaunch = true
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences.
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads user preferences, returning defaults if not
// found.
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// SaveStats saves game statistics.
func (s *Storage) SaveStats(stats *GameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads game statistics, returning empty stats if not found.
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordGame folds a completed game into the cumulative statistics.
func (s *Storage) RecordGame(rec GameRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPieces += rec.Pieces
	stats.TotalLines += rec.Lines
	stats.TotalTetrises += rec.Tetrises
	stats.TotalScore += rec.Score
	stats.TotalPlayTime += rec.Duration
	if rec.Score > stats.BestScore {
		stats.BestScore = rec.Score
	}
	if rec.Lines > stats.BestLines {
		stats.BestLines = rec.Lines
	}

	return s.SaveStats(stats)
}

// AverageLines returns the mean lines cleared per game.
func (s *GameStats) AverageLines() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalLines) / float64(s.GamesPlayed)
}

// AverageScore returns the mean score per game.
func (s *GameStats) AverageScore() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.GamesPlayed)
}
