package sfx

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"circle-arena/internal/config"
	"circle-arena/internal/game"

	"github.com/gopxl/beep"
)

// drain streams s to the end and returns the sample count and peak level
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0

	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for j := 0; j < n; j++ {
			for _, v := range buf[j] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("Sample %d is not finite: %v", total+j, v)
				}
				peak = math.Max(peak, math.Abs(v))
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("Stream never ended")
	return 0, 0
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(44100)

	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		osc := NewOscillator(440, 100*time.Millisecond, wave, rate)
		n, peak := drain(t, osc)

		if n != rate.N(100*time.Millisecond) {
			t.Errorf("Wave %d: expected %d samples, got %d", wave, rate.N(100*time.Millisecond), n)
		}
		if peak > 1.0 {
			t.Errorf("Wave %d: peak %f out of range", wave, peak)
		}
		if osc.Err() != nil {
			t.Errorf("Wave %d: expected no error, got %v", wave, osc.Err())
		}
	}
}

func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	d := 100 * time.Millisecond

	// square wave is constantly +-1 so the envelope is visible directly
	env := NewEnvelope(NewOscillator(1, d, WaveSquare, rate), d, 10*time.Millisecond, 20*time.Millisecond, rate)

	buf := make([][2]float64, 100)
	n, _ := env.Stream(buf)
	if n != 100 {
		t.Fatalf("Expected 100 samples, got %d", n)
	}

	tests := []struct {
		idx  int
		want float64
	}{
		{0, 0},     // attack starts silent
		{5, 0.5},   // halfway up
		{50, 1},    // sustain
		{90, 0.5},  // halfway down
		{99, 0.05}, // last sample
	}
	for _, tt := range tests {
		if got := math.Abs(buf[tt.idx][0]); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Sample %d: expected %v, got %v", tt.idx, tt.want, got)
		}
	}
}

func TestEnvelopeClampsOverlap(t *testing.T) {
	rate := beep.SampleRate(1000)
	d := 10 * time.Millisecond

	env := NewEnvelope(NewOscillator(1, d, WaveSquare, rate), d, 20*time.Millisecond, 20*time.Millisecond, rate)
	n, peak := drain(t, env)

	if n != 10 {
		t.Errorf("Expected 10 samples, got %d", n)
	}
	if peak > 1.0 {
		t.Errorf("Overlapping envelope should not amplify, peak %f", peak)
	}
}

func TestSynthesizeAllCues(t *testing.T) {
	rate := beep.SampleRate(22050)
	cues := []Cue{CueFire, CueScatter, CueHit, CueRefill, CueWallBuilt, CueWallPhased, CueSwitch, CueWin}

	for _, c := range cues {
		t.Run(c.String(), func(t *testing.T) {
			s := Synthesize(c, rate, 0.5)
			if s == nil {
				t.Fatal("Expected a streamer")
			}

			n, peak := drain(t, s)
			if n == 0 {
				t.Error("Cue produced no samples")
			}
			if peak > 0.5+1e-9 {
				t.Errorf("Peak %f exceeds master volume", peak)
			}
			if peak == 0 {
				t.Error("Cue is silent")
			}
		})
	}
}

func TestSynthesizeMuted(t *testing.T) {
	s := Synthesize(CueWin, beep.SampleRate(22050), 0)
	if _, peak := drain(t, s); peak != 0 {
		t.Errorf("Zero volume should be silent, peak %f", peak)
	}

	if Synthesize(CueNone, beep.SampleRate(22050), 1) != nil {
		t.Error("CueNone should not synthesize")
	}
}

func TestCueForEvent(t *testing.T) {
	fire := func(pellets int) game.Event {
		payload, _ := json.Marshal(game.FirePayload{Pellets: pellets})
		return game.Event{Type: game.EventTypeFire, Payload: payload}
	}

	tests := []struct {
		name string
		ev   game.Event
		want Cue
	}{
		{"sidearm", fire(1), CueFire},
		{"scattergun", fire(6), CueScatter},
		{"hit", game.Event{Type: game.EventTypeHit}, CueHit},
		{"refill", game.Event{Type: game.EventTypeRefill}, CueRefill},
		{"wall built", game.Event{Type: game.EventTypeWallBuilt}, CueWallBuilt},
		{"wall phased", game.Event{Type: game.EventTypeWallPhased}, CueWallPhased},
		{"switch", game.Event{Type: game.EventTypeWeaponSwitch}, CueSwitch},
		{"win", game.Event{Type: game.EventTypeWin}, CueWin},
		{"tick", game.Event{Type: game.EventTypeTick}, CueNone},
		{"restored", game.Event{Type: game.EventTypeWallRestored}, CueNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CueForEvent(tt.ev); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPlayerWithoutInitIsSilent(t *testing.T) {
	p := NewPlayer(config.AudioConfig{Enabled: false})

	if err := p.Init(); err != nil {
		t.Fatalf("Disabled init should not fail: %v", err)
	}

	// must not touch the speaker
	p.HandleEvent(game.Event{Type: game.EventTypeWin})
	p.Play(CueFire)
	p.Close()

	if p.mixer.Len() != 0 {
		t.Errorf("Expected empty mixer, got %d", p.mixer.Len())
	}
	if p.rate != beep.SampleRate(config.DefaultAudio().SampleRate) {
		t.Errorf("Expected default sample rate, got %d", p.rate)
	}
}
