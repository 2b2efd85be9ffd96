package sfx

import (
	"log"
	"sync"
	"time"

	"circle-arena/internal/config"
	"circle-arena/internal/game"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// maxVoices caps overlapping cues; a scattergun volley hitting at once
// would otherwise stack six copies
const maxVoices = 8

// Player mixes cues into the system speaker
type Player struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a player. Nothing is opened until Init.
func NewPlayer(cfg config.AudioConfig) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = config.DefaultAudio().SampleRate
	}
	return &Player{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		mixer: &beep.Mixer{},
	}
}

// Init opens the speaker. A disabled config leaves the player silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.cfg.Enabled {
		return nil
	}

	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true

	log.Printf("🔊 Audio ready (%d Hz, volume %.2f)", p.cfg.SampleRate, p.cfg.Volume)
	return nil
}

// Play starts a cue. Safe from any goroutine; never blocks on playback.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	s := Synthesize(c, p.rate, p.cfg.Volume)
	if s == nil {
		return
	}

	speaker.Lock()
	if p.mixer.Len() < maxVoices {
		p.mixer.Add(s)
	}
	speaker.Unlock()
}

// HandleEvent plays the cue for a match event. It matches the engine
// callback signature.
func (p *Player) HandleEvent(ev game.Event) {
	p.Play(CueForEvent(ev))
}

// Close silences everything and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	p.initialized = false
}
