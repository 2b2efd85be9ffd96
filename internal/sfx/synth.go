package sfx

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType selects an oscillator shape
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator emits a fixed-length mono wave on both channels
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a streamer that ends after duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
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
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope shapes s over duration. Attack and release are clamped so
// they never overlap.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	if att+rel > total {
		att = total * att / (att + rel)
		rel = total - att
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: total - att - rel,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.attackSamples + e.sustainSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		} else if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; Log2(0) is -Inf so zero means silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// tone is one enveloped oscillator note
func tone(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	attack := 2 * time.Millisecond
	release := d * 3 / 4
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, attack, release, rate)
}

// Cue timbres. Frequencies are equal-tempered pitches.
const (
	fireDuration    = 60 * time.Millisecond
	scatterDuration = 140 * time.Millisecond
	hitDuration     = 90 * time.Millisecond
	noteDuration    = 70 * time.Millisecond
	wallDuration    = 120 * time.Millisecond
	clickDuration   = 20 * time.Millisecond
	winNoteDuration = 140 * time.Millisecond
)

// Synthesize builds a fresh streamer for the cue at the given master
// volume. It returns nil for CueNone.
func Synthesize(c Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer

	switch c {
	case CueFire:
		s = tone(659.25, fireDuration, WaveSquare, rate) // E5
	case CueScatter:
		s = beep.Mix(
			newVolume(tone(0, scatterDuration, WaveNoise, rate), 0.7),
			newVolume(tone(98, scatterDuration, WaveSaw, rate), 0.3),
		)
	case CueHit:
		s = tone(196, hitDuration, WaveSine, rate) // G3
	case CueRefill:
		s = beep.Seq(
			tone(523.25, noteDuration, WaveSquare, rate), // C5
			tone(783.99, noteDuration, WaveSquare, rate), // G5
		)
	case CueWallBuilt:
		s = tone(130.81, wallDuration, WaveSaw, rate) // C3
	case CueWallPhased:
		s = beep.Seq(
			tone(1174.66, noteDuration, WaveSine, rate), // D6
			tone(880, noteDuration, WaveSine, rate),     // A5
		)
	case CueSwitch:
		s = tone(1500, clickDuration, WaveSquare, rate)
	case CueWin:
		s = beep.Seq(
			tone(523.25, winNoteDuration, WaveSine, rate),
			tone(659.25, winNoteDuration, WaveSine, rate),
			tone(783.99, winNoteDuration, WaveSine, rate),
			tone(1046.50, 2*winNoteDuration, WaveSine, rate),
		)
	default:
		return nil
	}

	return newVolume(s, volume)
}
