package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/replay"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testReplay(id string, created time.Time) replay.Replay {
	return replay.Replay{
		ID:       id,
		GameID:   "flappy",
		Seed:     1234,
		TickRate: 60,
		ScreenW:  80,
		ScreenH:  24,
		Ticks:    300,
		Config:   []byte("pipes:\n  gap: 170\n"),
		Entries: []replay.Entry{
			{Tick: 0, Actions: []core.Action{core.ActionJump}},
			{Tick: 45, Actions: []core.Action{core.ActionJump, core.ActionPause}},
		},
		CreatedAt: created,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SaveReplay(testReplay("aaaa-1", time.Now())); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	store.Close()

	// Migrations must be idempotent
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := store.Replay("aaaa-1"); err != nil {
		t.Errorf("replay should survive reopening: %v", err)
	}
}

func TestSaveAndLoadReplay(t *testing.T) {
	store := openTestStore(t)
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	if err := store.SaveReplay(testReplay("0f1e2d3c-aaaa", created)); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}

	r, err := store.Replay("0f1e2d3c-aaaa")
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}

	if r.GameID != "flappy" || r.Seed != 1234 || r.TickRate != 60 || r.ScreenW != 80 || r.ScreenH != 24 || r.Ticks != 300 {
		t.Errorf("unexpected header: %+v", r)
	}
	if len(r.Entries) != 2 || r.Entries[1].Tick != 45 || len(r.Entries[1].Actions) != 2 {
		t.Errorf("unexpected entries: %+v", r.Entries)
	}
	if string(r.Config) != "pipes:\n  gap: 170\n" {
		t.Errorf("Config = %q", r.Config)
	}
	if !r.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, expected %v", r.CreatedAt, created)
	}
}

func TestOpenAddsConfigColumn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE replays (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			screen_w INTEGER NOT NULL,
			screen_h INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			inputs BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		INSERT INTO replays (id, game_id, seed, tick_rate, screen_w, screen_h, ticks, inputs)
		VALUES ('old-1', 'flappy', 7, 60, 80, 24, 10, '[]');
	`)
	db.Close()
	if err != nil {
		t.Fatalf("creating the old schema failed: %v", err)
	}

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	old, err := store.Replay("old-1")
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if old.Config != nil {
		t.Errorf("old replay Config = %q, expected none", old.Config)
	}

	if err := store.SaveReplay(testReplay("new-1", time.Now())); err != nil {
		t.Fatalf("SaveReplay() after migration failed: %v", err)
	}
	r, err := store.Replay("new-1")
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if len(r.Config) == 0 {
		t.Error("config should be stored after migration")
	}
}

func TestReplayPrefixLookup(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	for _, id := range []string{"abc123-one", "abc999-two", "def000-three"} {
		if err := store.SaveReplay(testReplay(id, now)); err != nil {
			t.Fatalf("SaveReplay(%s) failed: %v", id, err)
		}
	}

	r, err := store.Replay("def")
	if err != nil || r.ID != "def000-three" {
		t.Errorf("Replay(def) = %q, %v", r.ID, err)
	}

	if _, err := store.Replay("abc"); !errors.Is(err, ErrAmbiguousReplayID) {
		t.Errorf("Replay(abc) error = %v, expected ambiguous", err)
	}

	if _, err := store.Replay("zzz"); !errors.Is(err, ErrReplayNotFound) {
		t.Errorf("Replay(zzz) error = %v, expected not found", err)
	}

	// LIKE wildcards are literal
	if _, err := store.Replay("%"); !errors.Is(err, ErrReplayNotFound) {
		t.Errorf("Replay(%%) error = %v, expected not found", err)
	}

	if _, err := store.Replay(""); !errors.Is(err, ErrReplayNotFound) {
		t.Errorf("Replay(\"\") error = %v, expected not found", err)
	}
}

func TestRecentReplays(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		if err := store.SaveReplay(testReplay(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}

	other := testReplay("other-game", base.Add(10*time.Hour))
	other.GameID = "other"
	if err := store.SaveReplay(other); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}

	recent, err := store.RecentReplays("flappy", 2)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 replays, got %d", len(recent))
	}
	if recent[0].ID != "third" || recent[1].ID != "second" {
		t.Errorf("Expected newest first, got %s, %s", recent[0].ID, recent[1].ID)
	}
	if recent[0].Entries != nil {
		t.Error("listing should not load inputs")
	}

	all, err := store.RecentReplays("flappy", 0)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 replays with default limit, got %d", len(all))
	}
}

func TestSaveReplayReplaces(t *testing.T) {
	store := openTestStore(t)
	r := testReplay("same", time.Now())

	if err := store.SaveReplay(r); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	r.Ticks = 900
	if err := store.SaveReplay(r); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}

	got, err := store.Replay("same")
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if got.Ticks != 900 {
		t.Errorf("Ticks = %d, expected the second save to win", got.Ticks)
	}
}

func TestDeleteReplay(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveReplay(testReplay("doomed", time.Now())); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}

	if err := store.DeleteReplay("doomed"); err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}
	if _, err := store.Replay("doomed"); !errors.Is(err, ErrReplayNotFound) {
		t.Errorf("deleted replay still found: %v", err)
	}
	if err := store.DeleteReplay("doomed"); !errors.Is(err, ErrReplayNotFound) {
		t.Errorf("second delete error = %v, expected not found", err)
	}
}

func TestParseTime(t *testing.T) {
	ts := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"time value", ts, ts},
		{"sqlite text", "2026-05-06 07:08:09", ts},
		{"rfc3339", "2026-05-06T07:08:09Z", ts},
		{"garbage", "yesterday", time.Time{}},
		{"nil", nil, time.Time{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseTime(tc.in); !got.Equal(tc.want) {
				t.Errorf("parseTime(%v) = %v, expected %v", tc.in, got, tc.want)
			}
		})
	}
}
