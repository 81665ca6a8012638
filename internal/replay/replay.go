// Package replay records the input of a play session and plays it back.
//
// A game is deterministic for a given configuration, seed, screen size and
// tick rate, so a replay only stores those plus the ticks on which an action
// was pressed.
package replay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Entry is the set of actions pressed on one tick.
type Entry struct {
	Tick    int           `json:"t"`
	Actions []core.Action `json:"a"`
}

// Replay is a recorded session.
type Replay struct {
	ID        string
	GameID    string
	Seed      int64
	TickRate  int
	ScreenW   int
	ScreenH   int
	Ticks     int    // Total ticks recorded
	Config    []byte // Game configuration as YAML; empty if not recorded
	Entries   []Entry
	CreatedAt time.Time
}

// RuntimeConfig returns the configuration the session was played with.
func (r Replay) RuntimeConfig() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  r.ScreenW,
		ScreenH:  r.ScreenH,
		TickRate: r.TickRate,
		Seed:     r.Seed,
	}
}

// Duration returns the simulated length of the session.
func (r Replay) Duration() time.Duration {
	if r.TickRate <= 0 {
		return 0
	}
	return time.Duration(r.Ticks) * time.Second / time.Duration(r.TickRate)
}

// ShortID returns the first block of the replay's UUID.
func (r Replay) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}

// EncodeEntries serializes entries for storage.
func EncodeEntries(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot encode inputs: %w", err)
	}
	return data, nil
}

// DecodeEntries parses entries written by EncodeEntries.
// Entries must be in strictly increasing tick order.
func DecodeEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("replay: cannot decode inputs: %w", err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Tick <= entries[i-1].Tick {
			return nil, fmt.Errorf("replay: inputs out of order at tick %d", entries[i].Tick)
		}
	}
	return entries, nil
}

// Recorder captures the input frames fed to a game.
type Recorder struct {
	replay Replay
	config []byte
	saved  int // Ticks covered by the last save
}

// NewRecorder starts a recording with a fresh ID.
func NewRecorder(gameID string, rc core.RuntimeConfig) *Recorder {
	r := &Recorder{}
	r.replay.GameID = gameID
	r.Restart(rc)
	return r
}

// SetConfig sets the game configuration stored with this and every later
// recording.
func (r *Recorder) SetConfig(data []byte) {
	r.config = append([]byte(nil), data...)
	r.replay.Config = r.config
}

// Restart discards everything recorded so far and starts over under a new
// ID with the given configuration. Called when the game is reset.
func (r *Recorder) Restart(rc core.RuntimeConfig) {
	r.replay = Replay{
		ID:        uuid.NewString(),
		GameID:    r.replay.GameID,
		Seed:      rc.Seed,
		TickRate:  rc.TickRate,
		ScreenW:   rc.ScreenW,
		ScreenH:   rc.ScreenH,
		Config:    r.config,
		CreatedAt: time.Now(),
	}
	r.saved = 0
}

// Record appends the frame for the next tick.
func (r *Recorder) Record(in core.InputFrame) {
	tick := r.replay.Ticks
	r.replay.Ticks++
	if in.Empty() {
		return
	}

	var actions []core.Action
	for _, a := range core.GameActions {
		if in.Has(a) {
			actions = append(actions, a)
		}
	}
	if len(actions) > 0 {
		r.replay.Entries = append(r.replay.Entries, Entry{Tick: tick, Actions: actions})
	}
}

// Ticks returns how many ticks have been recorded.
func (r *Recorder) Ticks() int {
	return r.replay.Ticks
}

// Unsaved reports whether ticks were recorded since the last MarkSaved.
func (r *Recorder) Unsaved() bool {
	return r.replay.Ticks > r.saved
}

// MarkSaved notes that everything recorded so far has been stored.
func (r *Recorder) MarkSaved() {
	r.saved = r.replay.Ticks
}

// Replay returns a copy of the recording.
func (r *Recorder) Replay() Replay {
	out := r.replay
	out.Entries = append([]Entry(nil), r.replay.Entries...)
	out.Config = append([]byte(nil), r.replay.Config...)
	return out
}

// Player feeds a replay's input frames back, one per tick.
type Player struct {
	replay Replay
	tick   int
	next   int
}

// NewPlayer creates a player positioned at the first tick.
func NewPlayer(r Replay) *Player {
	return &Player{replay: r}
}

// Next returns the frame for the current tick and advances.
// It returns false once every recorded tick has been played.
func (p *Player) Next() (core.InputFrame, bool) {
	if p.Done() {
		return core.InputFrame{}, false
	}

	in := core.NewInputFrame()
	if p.next < len(p.replay.Entries) && p.replay.Entries[p.next].Tick == p.tick {
		for _, a := range p.replay.Entries[p.next].Actions {
			in.Set(a)
		}
		p.next++
	}
	p.tick++
	return in, true
}

// Done reports whether playback has finished.
func (p *Player) Done() bool {
	return p.tick >= p.replay.Ticks
}

// Progress returns the current and total tick counts.
func (p *Player) Progress() (tick, total int) {
	return p.tick, p.replay.Ticks
}

// Replay returns the replay being played.
func (p *Player) Replay() Replay {
	return p.replay
}
