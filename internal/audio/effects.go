// Package audio plays short synthesized sound cues for game events.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// Cue timings.
const (
	flapDuration  = 70 * time.Millisecond
	noteDuration  = 90 * time.Millisecond
	crashDuration = 350 * time.Millisecond
	attack        = 5 * time.Millisecond
)

// oscillator generates a wave whose frequency glides linearly from freq to
// endFreq over its duration.
type oscillator struct {
	freq, endFreq float64
	phase         float64
	duration      int
	position      int
	wave          WaveType
	rate          beep.SampleRate
	rng           *rand.Rand
}

// NewOscillator creates a constant-pitch oscillator.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding from freq to endFreq.
func NewSweep(freq, endFreq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + int64(duration))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		progress := float64(o.position) / float64(o.duration)
		freq := o.freq + (o.endFreq-o.freq)*progress
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in over attack and out over the rest of duration.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	total    int
}

// NewEnvelope shapes s with a linear attack and a linear release to silence.
func NewEnvelope(s beep.Streamer, duration, attack time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		} else if release := e.total - e.attack; release > 0 {
			vol = float64(e.total-e.position) / float64(release)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// CreateFlapSound is a quick upward chirp.
func CreateFlapSound(rate beep.SampleRate, volume float64) beep.Streamer {
	chirp := NewSweep(500, 950, flapDuration, WaveSine, rate)
	return newVolume(NewEnvelope(chirp, flapDuration, attack, rate), volume)
}

// CreateScoreSound is a two-note chime.
func CreateScoreSound(rate beep.SampleRate, volume float64) beep.Streamer {
	n1 := NewEnvelope(NewOscillator(987.77, noteDuration, WaveSquare, rate), noteDuration, attack, rate)
	n2 := NewEnvelope(NewOscillator(1318.51, noteDuration, WaveSquare, rate), noteDuration, attack, rate)
	return newVolume(beep.Seq(n1, n2), volume*0.5)
}

// CreateCrashSound is a burst of noise over a falling rumble.
func CreateCrashSound(rate beep.SampleRate, volume float64) beep.Streamer {
	noise := NewEnvelope(NewOscillator(0, crashDuration, WaveNoise, rate), crashDuration, attack, rate)
	rumble := NewEnvelope(NewSweep(140, 50, crashDuration, WaveSine, rate), crashDuration, attack, rate)
	return newVolume(beep.Mix(newVolume(noise, 0.4), newVolume(rumble, 0.6)), volume)
}

// SoundFor returns the cue for a game event, or nil when the event is silent.
func SoundFor(e core.Event, rate beep.SampleRate, volume float64) beep.Streamer {
	switch e {
	case core.EventFlap:
		return CreateFlapSound(rate, volume)
	case core.EventScore:
		return CreateScoreSound(rate, volume)
	case core.EventCrash:
		return CreateCrashSound(rate, volume)
	default:
		return nil
	}
}
