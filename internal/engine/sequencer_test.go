package engine

import "testing"

const (
	cueRed Cue = iota + 1
	cueWhite
	cueSky
	cueDone
	cueSpawn
)

func advanceFor(s *Sequencer, seconds float64) []Fired {
	var all []Fired
	ticks := int(seconds*60 + 0.5)
	for i := 0; i < ticks; i++ {
		all = append(all, s.Advance(dt)...)
	}
	return all
}

func cues(fired []Fired) []Cue {
	out := make([]Cue, len(fired))
	for i, f := range fired {
		out[i] = f.Cue
	}
	return out
}

func TestTimelineBuilder(t *testing.T) {
	flash := Sequence().Do(cueRed).Wait(0.05).Do(cueWhite).Wait(0.05).Do(cueSky)
	tl := flash.Repeat(4).Then(Sequence().Do(cueDone))

	if len(tl.Cues) != 13 {
		t.Fatalf("expected 13 cues, got %d", len(tl.Cues))
	}
	if tl.Duration < 0.4-cueEpsilon || tl.Duration > 0.4+cueEpsilon {
		t.Errorf("Duration = %f, expected 0.4", tl.Duration)
	}
	last := tl.Cues[len(tl.Cues)-1]
	if last.Cue != cueDone || last.At < 0.4-cueEpsilon {
		t.Errorf("last cue = %+v, expected done at 0.4", last)
	}

	// Builders must not share backing arrays
	a := Sequence().Do(cueRed)
	b := a.Do(cueWhite)
	c := a.Do(cueSky)
	if b.Cues[1].Cue != cueWhite || c.Cues[1].Cue != cueSky {
		t.Error("appending to a timeline should not modify its siblings")
	}
}

func TestSequencerFiresInOrder(t *testing.T) {
	s := NewSequencer()
	s.Run("flash", Sequence().Do(cueRed).Wait(0.05).Do(cueWhite).Wait(0.05).Do(cueSky))

	first := s.Advance(dt)
	if len(first) != 1 || first[0].Cue != cueRed || first[0].Key != "flash" {
		t.Fatalf("first advance = %+v, expected red", first)
	}

	rest := cues(advanceFor(s, 0.2))
	expected := []Cue{cueWhite, cueSky}
	if len(rest) != len(expected) || rest[0] != expected[0] || rest[1] != expected[1] {
		t.Errorf("remaining cues = %v, expected %v", rest, expected)
	}
	if s.Running("flash") {
		t.Error("finished timeline should be removed")
	}
}

func TestSequencerFinalCueTiming(t *testing.T) {
	s := NewSequencer()
	flash := Sequence().Do(cueRed).Wait(0.05).Do(cueWhite).Wait(0.05).Do(cueSky)
	s.Run("flash", flash.Repeat(4).Then(Sequence().Do(cueDone)))

	doneAt := -1
	for tick := 1; tick <= 60; tick++ {
		for _, f := range s.Advance(dt) {
			if f.Cue == cueDone {
				doneAt = tick
			}
		}
	}

	// 0.4s at 60 ticks per second
	if doneAt != 24 {
		t.Errorf("done cue fired at tick %d, expected 24", doneAt)
	}
}

func TestSequencerRepeatForever(t *testing.T) {
	s := NewSequencer()
	s.Run("spawn", Sequence().Do(cueSpawn).Wait(2.0).RepeatForever())

	spawned := len(advanceFor(s, 9.5))
	if spawned != 5 {
		t.Errorf("spawned %d times in 9.5s, expected 5 (t=0,2,4,6,8)", spawned)
	}
	if !s.Running("spawn") {
		t.Error("forever timeline should keep running")
	}

	// A single large step covering several periods fires once per period
	s.Run("spawn", Sequence().Do(cueSpawn).Wait(1.0).RepeatForever())
	if got := len(s.Advance(3.5)); got != 4 {
		t.Errorf("Advance(3.5) fired %d cues, expected 4", got)
	}
}

func TestSequencerRunReplacesKey(t *testing.T) {
	s := NewSequencer()
	s.Run("flash", Sequence().Wait(1).Do(cueRed))
	s.Run("flash", Sequence().Do(cueWhite))

	fired := s.Advance(dt)
	if len(fired) != 1 || fired[0].Cue != cueWhite {
		t.Errorf("replaced timeline should not fire, got %+v", fired)
	}
	if len(advanceFor(s, 2)) != 0 {
		t.Error("old timeline under the same key should be gone")
	}
}

func TestSequencerCancel(t *testing.T) {
	s := NewSequencer()
	s.Run("a", Sequence().Wait(0.1).Do(cueRed))
	s.Run("b", Sequence().Wait(0.1).Do(cueWhite))
	s.Cancel("a")

	fired := cues(advanceFor(s, 0.5))
	if len(fired) != 1 || fired[0] != cueWhite {
		t.Errorf("only b should fire, got %v", fired)
	}

	s.Run("c", Sequence().Do(cueSky).Wait(1).RepeatForever())
	s.CancelAll()
	if len(s.Advance(dt)) != 0 || s.Running("c") {
		t.Error("CancelAll should stop everything")
	}
}

func TestSequencerRemaining(t *testing.T) {
	s := NewSequencer()
	s.Run("wait", Sequence().Wait(1).Do(cueDone))
	s.Advance(0.25)

	if got := s.Remaining("wait"); got < 0.75-cueEpsilon || got > 0.75+cueEpsilon {
		t.Errorf("Remaining = %f, expected 0.75", got)
	}
	if s.Remaining("missing") != 0 {
		t.Error("Remaining for an unknown key should be zero")
	}
}

func TestRepeatForeverRequiresDuration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RepeatForever on a zero-length timeline should panic")
		}
	}()
	Sequence().Do(cueSpawn).RepeatForever()
}
