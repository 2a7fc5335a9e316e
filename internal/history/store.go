// Package history persists generated campaigns so they can be reloaded into
// the dashboard later. Rows are written one at a time; a corrupt row is
// skipped on read, never fatal.
package history

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"adgen/internal/logging"
	"adgen/internal/types"
)

// Repository is the persistence surface the orchestrator depends on.
type Repository interface {
	Load() ([]types.HistoryItem, error)
	Append(item types.HistoryItem) error
	Delete(id string) error
	Clear() error
}

// Store is the SQLite-backed Repository.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
	id           TEXT PRIMARY KEY,
	timestamp    INTEGER NOT NULL,
	input_summary TEXT NOT NULL,
	input_type   TEXT NOT NULL,
	result       TEXT NOT NULL,
	landing_page TEXT
);
CREATE INDEX IF NOT EXISTS idx_campaigns_timestamp ON campaigns(timestamp DESC);
`

// NewStore opens (or creates) the history database at dbPath. Pass
// ":memory:" for an ephemeral store.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A pooled :memory: connection would get its own empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	logging.History("store opened at %s", dbPath)
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns all saved campaigns, newest first. Rows whose payload no
// longer parses are skipped and logged; a read that finds nothing usable
// returns an empty list, not an error.
func (s *Store) Load() ([]types.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// rowid breaks same-millisecond timestamp ties in insertion order.
	rows, err := s.db.Query(`SELECT id, timestamp, input_summary, input_type, result, landing_page FROM campaigns ORDER BY timestamp DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	items := []types.HistoryItem{}
	for rows.Next() {
		var (
			item        types.HistoryItem
			inputType   string
			resultJSON  string
			landingJSON sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Timestamp, &item.InputSummary, &inputType, &resultJSON, &landingJSON); err != nil {
			logging.HistoryWarn("skipping unreadable row: %v", err)
			continue
		}
		if err := json.Unmarshal([]byte(resultJSON), &item.Result); err != nil {
			logging.HistoryWarn("skipping corrupt campaign row %s: %v", item.ID, err)
			continue
		}
		if landingJSON.Valid && landingJSON.String != "" {
			var page types.LandingPageContent
			if err := json.Unmarshal([]byte(landingJSON.String), &page); err != nil {
				logging.HistoryWarn("dropping corrupt landing page for row %s: %v", item.ID, err)
			} else {
				item.LandingPage = &page
			}
		}
		item.InputType = types.InputType(inputType)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	logging.HistoryDebug("loaded %d items", len(items))
	return items, nil
}

// Append saves one campaign. A missing ID or timestamp is filled in.
func (s *Store) Append(item types.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = NewID()
	}
	if item.Timestamp == 0 {
		item.Timestamp = time.Now().UnixMilli()
	}

	resultJSON, err := json.Marshal(item.Result)
	if err != nil {
		return fmt.Errorf("failed to encode campaign: %w", err)
	}
	var landingJSON sql.NullString
	if item.LandingPage != nil {
		data, err := json.Marshal(item.LandingPage)
		if err != nil {
			return fmt.Errorf("failed to encode landing page: %w", err)
		}
		landingJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO campaigns (id, timestamp, input_summary, input_type, result, landing_page) VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Timestamp, item.InputSummary, string(item.InputType), string(resultJSON), landingJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}

	logging.History("saved campaign %s (%s)", item.ID, item.InputSummary)
	return nil
}

// Delete removes one campaign by id. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM campaigns WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// Clear removes all saved campaigns.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM campaigns`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	logging.History("history cleared")
	return nil
}

// NewID derives a history id from the current time plus a short random
// suffix, so ids sort roughly by creation and survive same-millisecond
// collisions.
func NewID() string {
	suffix := make([]byte, 3)
	rand.Read(suffix)
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
