package replay

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 99}
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder("flappy", testConfig())

	rec.Record(frame())
	rec.Record(frame(core.ActionJump))
	rec.Record(frame())
	rec.Record(frame(core.ActionPause, core.ActionJump))
	rec.Record(frame(core.ActionQuit)) // Not a game action

	r := rec.Replay()

	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", r.ID, err)
	}
	if r.GameID != "flappy" || r.Seed != 99 || r.ScreenW != 80 || r.ScreenH != 24 || r.TickRate != 60 {
		t.Errorf("unexpected header: %+v", r)
	}
	if r.Ticks != 5 || rec.Ticks() != 5 {
		t.Errorf("Ticks = %d, expected 5", r.Ticks)
	}
	if len(r.Entries) != 2 {
		t.Fatalf("entries = %v, expected 2", r.Entries)
	}
	if r.Entries[0].Tick != 1 || r.Entries[1].Tick != 3 {
		t.Errorf("entry ticks = %d, %d", r.Entries[0].Tick, r.Entries[1].Tick)
	}
	// Stable action order regardless of how the frame was filled
	if a := r.Entries[1].Actions; len(a) != 2 || a[0] != core.ActionJump || a[1] != core.ActionPause {
		t.Errorf("actions = %v, expected [Jump Pause]", a)
	}
}

func TestRecorderRestart(t *testing.T) {
	rec := NewRecorder("flappy", testConfig())
	rec.Record(frame(core.ActionJump))
	first := rec.Replay().ID

	rc := testConfig()
	rc.ScreenW = 100
	rec.Restart(rc)

	r := rec.Replay()
	if r.ID == first {
		t.Error("restart should assign a new ID")
	}
	if r.Ticks != 0 || len(r.Entries) != 0 {
		t.Error("restart should discard recorded input")
	}
	if r.ScreenW != 100 || r.GameID != "flappy" {
		t.Errorf("restart should keep the game and take the new size: %+v", r)
	}
}

func TestRecorderKeepsConfigAcrossRestart(t *testing.T) {
	rec := NewRecorder("flappy", testConfig())
	yaml := []byte("pipes:\n  gap: 200\n")
	rec.SetConfig(yaml)
	yaml[0] = 'x'

	if got := string(rec.Replay().Config); got != "pipes:\n  gap: 200\n" {
		t.Errorf("Config = %q", got)
	}

	rec.Restart(testConfig())
	if got := string(rec.Replay().Config); got != "pipes:\n  gap: 200\n" {
		t.Errorf("Config after restart = %q", got)
	}
}

func TestRecorderUnsaved(t *testing.T) {
	rec := NewRecorder("flappy", testConfig())
	if rec.Unsaved() {
		t.Error("empty recording should not need saving")
	}

	rec.Record(frame())
	if !rec.Unsaved() {
		t.Error("recorded tick should need saving")
	}
	rec.MarkSaved()
	if rec.Unsaved() {
		t.Error("MarkSaved should clear Unsaved")
	}

	rec.Record(frame(core.ActionJump))
	if !rec.Unsaved() {
		t.Error("ticks after a save should need saving")
	}

	rec.MarkSaved()
	rec.Restart(testConfig())
	rec.Record(frame())
	if !rec.Unsaved() {
		t.Error("a restarted recording should need saving")
	}
}

func TestReplayCopyIsIndependent(t *testing.T) {
	rec := NewRecorder("flappy", testConfig())
	rec.Record(frame(core.ActionJump))
	snapshot := rec.Replay()

	rec.Record(frame(core.ActionJump))

	if len(snapshot.Entries) != 1 {
		t.Error("later recording should not change an earlier snapshot")
	}
}

func TestPlayerRoundTrip(t *testing.T) {
	inputs := []core.InputFrame{
		frame(),
		frame(core.ActionJump),
		frame(),
		frame(),
		frame(core.ActionRestart),
		frame(),
	}

	rec := NewRecorder("flappy", testConfig())
	for _, in := range inputs {
		rec.Record(in)
	}

	p := NewPlayer(rec.Replay())
	for i, expected := range inputs {
		got, ok := p.Next()
		if !ok {
			t.Fatalf("player ended early at tick %d", i)
		}
		for _, a := range core.GameActions {
			if got.Has(a) != expected.Has(a) {
				t.Errorf("tick %d: %v = %v, expected %v", i, a, got.Has(a), expected.Has(a))
			}
		}
	}

	if _, ok := p.Next(); ok {
		t.Error("player should be done")
	}
	if tick, total := p.Progress(); tick != 6 || total != 6 {
		t.Errorf("Progress() = %d/%d, expected 6/6", tick, total)
	}
}

func TestEncodeDecode(t *testing.T) {
	entries := []Entry{
		{Tick: 3, Actions: []core.Action{core.ActionJump}},
		{Tick: 40, Actions: []core.Action{core.ActionJump, core.ActionPause}},
	}

	data, err := EncodeEntries(entries)
	if err != nil {
		t.Fatalf("EncodeEntries() failed: %v", err)
	}
	if string(data) != `[{"t":3,"a":[1]},{"t":40,"a":[1,4]}]` {
		t.Errorf("encoded = %s", data)
	}

	back, err := DecodeEntries(data)
	if err != nil {
		t.Fatalf("DecodeEntries() failed: %v", err)
	}
	if len(back) != 2 || back[1].Tick != 40 || back[1].Actions[1] != core.ActionPause {
		t.Errorf("decoded = %+v", back)
	}

	empty, err := EncodeEntries(nil)
	if err != nil || string(empty) != "[]" {
		t.Errorf("EncodeEntries(nil) = %s, %v", empty, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "nope"},
		{"out of order", `[{"t":5,"a":[1]},{"t":5,"a":[1]}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeEntries([]byte(tc.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDuration(t *testing.T) {
	r := Replay{TickRate: 60, Ticks: 150}
	if d := r.Duration(); d != 2500*time.Millisecond {
		t.Errorf("Duration() = %v, expected 2.5s", d)
	}
	if d := (Replay{Ticks: 10}).Duration(); d != 0 {
		t.Errorf("Duration() without tick rate = %v", d)
	}
}
