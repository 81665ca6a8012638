package engine

import "math"

// Cue identifies something a timeline asks its owner to do. The owner defines
// the values and handles them when the sequencer reports them as fired.
type Cue int

// TimedCue is a cue at an offset, in seconds, from the start of a timeline.
type TimedCue struct {
	At  float64
	Cue Cue
}

// Timeline is an ordered list of cues. A forever timeline restarts every
// Duration seconds until cancelled.
type Timeline struct {
	Cues     []TimedCue
	Duration float64
	Forever  bool
}

// cueEpsilon absorbs float drift from summing fixed tick durations.
const cueEpsilon = 1e-9

// Sequence starts an empty timeline builder.
func Sequence() Timeline {
	return Timeline{}
}

// Do appends a cue at the current end of the timeline.
func (t Timeline) Do(c Cue) Timeline {
	t.Cues = append(cloneCues(t.Cues), TimedCue{At: t.Duration, Cue: c})
	return t
}

// Wait extends the timeline by d seconds.
func (t Timeline) Wait(d float64) Timeline {
	t.Duration += d
	return t
}

// Then appends other after the end of t.
func (t Timeline) Then(other Timeline) Timeline {
	if t.Forever {
		panic("engine: Then after a forever timeline")
	}
	cues := cloneCues(t.Cues)
	for _, c := range other.Cues {
		cues = append(cues, TimedCue{At: t.Duration + c.At, Cue: c.Cue})
	}
	return Timeline{Cues: cues, Duration: t.Duration + other.Duration, Forever: other.Forever}
}

// Repeat plays the timeline n times back to back.
func (t Timeline) Repeat(n int) Timeline {
	out := Timeline{}
	for i := 0; i < n; i++ {
		out = out.Then(t)
	}
	return out
}

// RepeatForever loops the timeline until cancelled.
func (t Timeline) RepeatForever() Timeline {
	if t.Duration <= 0 {
		panic("engine: forever timeline needs a positive duration")
	}
	t.Cues = cloneCues(t.Cues)
	t.Forever = true
	return t
}

func cloneCues(c []TimedCue) []TimedCue {
	return append([]TimedCue(nil), c...)
}

// Fired is a cue reported by Advance, tagged with the key it ran under.
type Fired struct {
	Key string
	Cue Cue
}

type run struct {
	key     string
	tl      Timeline
	elapsed float64
	next    int
}

// Sequencer runs keyed timelines against an explicitly advanced clock.
// Starting a timeline under a key that is already running replaces it.
type Sequencer struct {
	runs []*run
}

// NewSequencer creates an idle sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Run starts tl under key. Cues at offset zero fire on the next Advance.
func (s *Sequencer) Run(key string, tl Timeline) {
	s.Cancel(key)
	s.runs = append(s.runs, &run{key: key, tl: tl})
}

// Cancel stops the timeline running under key, if any.
func (s *Sequencer) Cancel(key string) {
	for i, r := range s.runs {
		if r.key == key {
			s.runs = append(s.runs[:i], s.runs[i+1:]...)
			return
		}
	}
}

// CancelAll stops every timeline.
func (s *Sequencer) CancelAll() {
	s.runs = nil
}

// Running reports whether a timeline is active under key.
func (s *Sequencer) Running(key string) bool {
	for _, r := range s.runs {
		if r.key == key {
			return true
		}
	}
	return false
}

// Advance moves every timeline forward by dt seconds and returns the cues
// that came due, in start order of their timelines and cue order within each.
// Finished timelines are removed.
func (s *Sequencer) Advance(dt float64) []Fired {
	var fired []Fired
	active := s.runs[:0]

	for _, r := range s.runs {
		r.elapsed += dt
		fired = r.collect(fired)
		if r.tl.Forever {
			// Loop as many times as dt covers.
			for r.elapsed+cueEpsilon >= r.tl.Duration {
				r.elapsed -= r.tl.Duration
				r.next = 0
				fired = r.collect(fired)
			}
			active = append(active, r)
			continue
		}
		if r.next < len(r.tl.Cues) || r.elapsed+cueEpsilon < r.tl.Duration {
			active = append(active, r)
		}
	}

	// Clear stale pointers left past the new length.
	for i := len(active); i < len(s.runs); i++ {
		s.runs[i] = nil
	}
	s.runs = active
	return fired
}

func (r *run) collect(fired []Fired) []Fired {
	for r.next < len(r.tl.Cues) && r.tl.Cues[r.next].At <= r.elapsed+cueEpsilon {
		fired = append(fired, Fired{Key: r.key, Cue: r.tl.Cues[r.next].Cue})
		r.next++
	}
	return fired
}

// Remaining returns the seconds left on the timeline under key, or zero.
// Forever timelines report the time to their next loop.
func (s *Sequencer) Remaining(key string) float64 {
	for _, r := range s.runs {
		if r.key == key {
			return math.Max(r.tl.Duration-r.elapsed, 0)
		}
	}
	return 0
}
