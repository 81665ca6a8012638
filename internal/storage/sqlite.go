// Package storage provides SQLite-based persistence for recorded replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-flappy/internal/replay"
)

// Lookup errors.
var (
	ErrReplayNotFound    = errors.New("storage: replay not found")
	ErrAmbiguousReplayID = errors.New("storage: replay id prefix matches more than one replay")
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for replay persistence.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			screen_w INTEGER NOT NULL,
			screen_h INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			inputs BLOB NOT NULL,
			config TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_game_created ON replays(game_id, created_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.addColumn("replays", "config", "TEXT NOT NULL DEFAULT ''")
}

// addColumn adds a column to a table created by an older schema.
func (s *Store) addColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid, notNull, primaryKey int
		var name, typ string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &primaryKey); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay stores a recorded session, replacing any replay with the same ID.
func (s *Store) SaveReplay(r replay.Replay) error {
	inputs, err := replay.EncodeEntries(r.Entries)
	if err != nil {
		return fmt.Errorf("storage: cannot save replay: %w", err)
	}

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO replays
		 (id, game_id, seed, tick_rate, screen_w, screen_h, ticks, inputs, config, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.GameID, r.Seed, r.TickRate, r.ScreenW, r.ScreenH, r.Ticks, inputs, string(r.Config),
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save replay: %w", err)
	}
	return nil
}

// Replay retrieves a replay by its full ID or a unique prefix of it.
func (s *Store) Replay(id string) (replay.Replay, error) {
	if id == "" {
		return replay.Replay{}, ErrReplayNotFound
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, seed, tick_rate, screen_w, screen_h, ticks, inputs, config, created_at
		 FROM replays
		 WHERE id = ? OR id LIKE ? ESCAPE '\'
		 LIMIT 2`,
		id, escapeLike(id)+"%",
	)
	if err != nil {
		return replay.Replay{}, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	defer rows.Close()

	var found []replay.Replay
	for rows.Next() {
		r, inputs, err := scanReplay(rows, true)
		if err != nil {
			return replay.Replay{}, err
		}
		if r.Entries, err = replay.DecodeEntries(inputs); err != nil {
			return replay.Replay{}, fmt.Errorf("storage: replay %s: %w", r.ID, err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return replay.Replay{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(found) {
	case 0:
		return replay.Replay{}, ErrReplayNotFound
	case 1:
		return found[0], nil
	default:
		return replay.Replay{}, ErrAmbiguousReplayID
	}
}

// RecentReplays lists the newest replays for the given game without their
// recorded inputs.
func (s *Store) RecentReplays(gameID string, limit int) ([]replay.Replay, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, seed, tick_rate, screen_w, screen_h, ticks, created_at
		 FROM replays
		 WHERE game_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var replays []replay.Replay
	for rows.Next() {
		r, _, err := scanReplay(rows, false)
		if err != nil {
			return nil, err
		}
		replays = append(replays, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return replays, nil
}

// DeleteReplay removes the replay with the given full ID.
func (s *Store) DeleteReplay(id string) error {
	result, err := s.db.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	if n == 0 {
		return ErrReplayNotFound
	}
	return nil
}

func scanReplay(rows *sql.Rows, withInputs bool) (replay.Replay, []byte, error) {
	var r replay.Replay
	var inputs []byte
	var config string
	var createdAt any

	dest := []any{&r.ID, &r.GameID, &r.Seed, &r.TickRate, &r.ScreenW, &r.ScreenH, &r.Ticks}
	if withInputs {
		dest = append(dest, &inputs, &config)
	}
	dest = append(dest, &createdAt)

	if err := rows.Scan(dest...); err != nil {
		return replay.Replay{}, nil, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	if config != "" {
		r.Config = []byte(config)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, inputs, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
