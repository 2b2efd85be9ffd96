package game

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActionKind is a discrete, edge-triggered input for a single tick
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionFire
	ActionBuild
	ActionPhase
	ActionSelectWeapon
)

// String returns the wire name of the action
func (k ActionKind) String() string {
	switch k {
	case ActionFire:
		return "fire"
	case ActionBuild:
		return "build"
	case ActionPhase:
		return "phase"
	case ActionSelectWeapon:
		return "select"
	default:
		return "none"
	}
}

// MarshalText encodes the action by name
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes an action name
func (k *ActionKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "fire":
		*k = ActionFire
	case "build":
		*k = ActionBuild
	case "phase":
		*k = ActionPhase
	case "select":
		*k = ActionSelectWeapon
	default:
		return fmt.Errorf("unknown action %q", string(b))
	}
	return nil
}

// Action is one discrete input event. Slot is the 1-based catalog slot for
// ActionSelectWeapon and ignored otherwise.
type Action struct {
	Kind ActionKind `json:"kind"`
	Slot int        `json:"slot,omitempty"`
}

// Fire, Build, Phase and SelectWeapon are shorthand constructors
func Fire() Action              { return Action{Kind: ActionFire} }
func Build() Action             { return Action{Kind: ActionBuild} }
func Phase() Action             { return Action{Kind: ActionPhase} }
func SelectWeapon(n int) Action { return Action{Kind: ActionSelectWeapon, Slot: n} }

// InputSnapshot is everything the simulation reads from the outside world
// for one tick. Actions are applied in order.
type InputSnapshot struct {
	Axes    MoveAxes `json:"axes"`
	Pointer Vec2     `json:"pointer"`
	Actions []Action `json:"actions,omitempty"`
}

// EngineOptions are per-match settings that are not part of the rules
type EngineOptions struct {
	// Seed for the match RNG; 0 picks a time-based seed
	Seed int64

	// MaxPendingActions bounds actions queued by SubmitInput between ticks
	MaxPendingActions int
}

// DefaultEngineOptions returns time-seeded options
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{MaxPendingActions: 64}
}

// TickStats summarizes one tick for metrics hooks
type TickStats struct {
	Tick           uint64
	Duration       time.Duration
	Projectiles    int
	Walls          int
	PhasingWalls   int
	OpponentHealth float64
	Shots          int // accepted fire requests this tick
	Pellets        int
	Hits           int
	Damage         float64
	State          MatchState
}

// MatchInfo describes the current match
type MatchInfo struct {
	ID        string     `json:"id"`
	Seed      int64      `json:"seed"`
	Tick      uint64     `json:"tick"`
	NowMs     int64      `json:"nowMs"`
	State     MatchState `json:"state"`
	StartedAt time.Time  `json:"startedAt"`
	Shots     int        `json:"shots"`
	Hits      int        `json:"hits"`
	Walls     int        `json:"walls"`
	Running   bool       `json:"running"`
}

// Engine is the fixed-rate simulation loop for one match.
//
// It can be driven two ways: a frontend that owns its own frame clock calls
// Step once per frame, or a server calls Start and feeds SubmitInput from
// any goroutine. Either way the tick is the only writer of match state.
type Engine struct {
	mu    sync.RWMutex
	rules Rules
	opts  EngineOptions

	matchID   string
	seed      int64
	startedAt time.Time
	rng       *rand.Rand

	tick  uint64
	state MatchState

	player   *Player
	opponent *Opponent
	combat   *CombatController
	walls    *WallSet

	// Held input, replaced by each submission
	axes    MoveAxes
	pointer Vec2
	// Discrete actions waiting for the next tick
	pending []Action

	shots int
	hits  int

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	snapshotPool *SnapshotPool
	eventLog     *EventLog

	onEvent func(Event)
	// OnTick is called at the end of every tick while the lock is held.
	// It must not call back into the engine.
	OnTick func(TickStats)
}

// NewEngine creates an engine with a fresh match
func NewEngine(rules Rules, opts EngineOptions) *Engine {
	if rules.Catalog == nil {
		rules.Catalog = DefaultCatalog()
	}
	if rules.TickRate <= 0 {
		rules.TickRate = TickRate
	}
	if opts.MaxPendingActions <= 0 {
		opts.MaxPendingActions = 64
	}

	e := &Engine{
		rules:        rules,
		opts:         opts,
		pending:      make([]Action, 0, opts.MaxPendingActions),
		stopChan:     make(chan struct{}),
		snapshotPool: NewSnapshotPool(rules.MaxWalls),
		eventLog:     NewEventLog(),
	}
	e.resetLocked(opts.Seed)
	return e
}

// resetLocked builds a new match in place. Caller holds mu (or owns e).
func (e *Engine) resetLocked(seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := e.rules
	bounds := r.Bounds()

	e.matchID = uuid.NewString()
	e.seed = seed
	e.startedAt = time.Now()
	e.rng = rand.New(rand.NewSource(seed))
	e.tick = 0
	e.state = MatchPlaying
	e.shots = 0
	e.hits = 0
	e.axes = MoveAxes{}
	e.pending = e.pending[:0]

	e.player = NewPlayer(Vec2{r.Width / 4, r.Height / 2}, r.PlayerRadius, r.PlayerSpeed, bounds)
	e.pointer = e.player.Position.Add(e.player.Facing)
	e.opponent = NewOpponent(Vec2{r.Width * 3 / 4, r.Height / 2}, r.OpponentRadius, r.OpponentSpeed, bounds, e.rng)
	e.combat = NewCombatController(r.Catalog, e.rng, r.TickMs(0))
	e.walls = NewWallSet(r.Width, r.Height, r.MaxWalls)

	e.emit(EventTypeMatchStart, SourceArena, MatchStartPayload{
		Seed:    seed,
		Width:   r.Width,
		Height:  r.Height,
		Weapons: r.Catalog.Len(),
	})
	e.produceSnapshot()
}

// Reset abandons the current match and starts a new one with a new ID.
// seed 0 picks a time-based seed.
func (e *Engine) Reset(seed int64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked(seed)
	log.Printf("🔄 New match %s (seed %d)", e.matchID, e.seed)
	return e.matchID
}

// Start begins the game loop on its own ticker
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.ticker = time.NewTicker(time.Second / time.Duration(e.rules.TickRate))
	ticker, stop := e.ticker, e.stopChan
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				e.runTick()
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🎮 Arena engine started at %d TPS (match %s)", e.rules.TickRate, e.MatchID())
}

// Stop stops the game loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Arena engine stopped")
}

// SubmitInput records input for the next tick. Held movement and pointer
// replace the previous values; actions queue in order until consumed.
// Actions beyond MaxPendingActions are dropped.
func (e *Engine) SubmitInput(in InputSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.axes = in.Axes
	e.pointer = in.Pointer
	for _, a := range in.Actions {
		if len(e.pending) >= e.opts.MaxPendingActions {
			break
		}
		e.pending = append(e.pending, a)
	}
}

// runTick consumes queued input and advances one tick
func (e *Engine) runTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advance(e.pending)
	e.pending = e.pending[:0]
}

// Step advances exactly one tick with the given input and returns the new
// render state. Any actions queued by SubmitInput are applied first.
// The returned state is reused by later ticks; Clone it to keep it.
func (e *Engine) Step(in InputSnapshot) *RenderState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.axes = in.Axes
	e.pointer = in.Pointer
	actions := append(e.pending, in.Actions...)
	e.advance(actions)
	e.pending = actions[:0]

	return e.snapshotPool.AcquireRead()
}

// advance runs one tick in the fixed order: refill, actions, player,
// opponent, projectiles, wall timers, win check. Caller holds mu.
func (e *Engine) advance(actions []Action) {
	start := time.Now()
	e.tick++
	now := e.rules.TickMs(e.tick)

	stats := TickStats{Tick: e.tick}

	if e.state == MatchPlaying {
		if e.combat.Refill(now) {
			cs := e.combat.State()
			e.emit(EventTypeRefill, SourcePlayer, RefillPayload{WeaponID: cs.Weapon.ID, Ammo: cs.Ammo})
		}

		for _, a := range actions {
			e.applyAction(a, now, &stats)
		}

		e.player.Move(e.axes, e.walls)
		e.opponent.Update(e.walls)

		for _, h := range e.combat.Advance(e.opponent, e.rules.Bounds()) {
			e.hits++
			stats.Hits++
			stats.Damage += h.Damage
			e.emit(EventTypeHit, SourcePlayer, HitPayload{
				WeaponID:       h.Weapon,
				Damage:         h.Damage,
				Distance:       h.Distance,
				OpponentHealth: e.opponent.Health,
			})
		}
	}

	if restored := e.walls.Tick(); restored > 0 {
		e.emit(EventTypeWallRestored, SourceArena, WallRestoredPayload{Count: restored})
	}

	if e.state == MatchPlaying && !e.opponent.IsAlive() {
		e.state = MatchWon
		e.emit(EventTypeWin, SourceArena, WinPayload{
			Ticks:  e.tick,
			Shots:  e.shots,
			Hits:   e.hits,
			Walls:  e.walls.Len(),
			TimeMs: now,
		})
		log.Printf("🏆 Match %s won at tick %d (%d shots, %d hits)", e.matchID, e.tick, e.shots, e.hits)
	}

	e.emit(EventTypeTick, SourceArena, TickPayload{
		RNGSeed:     e.seed,
		NowMs:       now,
		Projectiles: len(e.combat.Projectiles()),
		Walls:       e.walls.Len(),
	})

	e.produceSnapshot()

	if e.OnTick != nil {
		stats.Duration = time.Since(start)
		stats.Projectiles = len(e.combat.Projectiles())
		stats.Walls = e.walls.Len()
		for _, w := range e.walls.All() {
			if !w.Solid() {
				stats.PhasingWalls++
			}
		}
		stats.OpponentHealth = e.opponent.Health
		stats.State = e.state
		e.OnTick(stats)
	}
}

// applyAction handles one discrete input. Requests that cannot be honored
// right now are silent no-ops.
func (e *Engine) applyAction(a Action, now int64, stats *TickStats) {
	switch a.Kind {
	case ActionFire:
		angle := e.player.AimAngle(e.pointer)
		spawned := e.combat.Fire(e.player.Position, e.player.Radius, angle, now)
		if spawned == nil {
			return
		}
		e.shots++
		stats.Shots++
		stats.Pellets += len(spawned)
		cs := e.combat.State()
		e.emit(EventTypeFire, SourcePlayer, FirePayload{
			WeaponID:  cs.Weapon.ID,
			AimAngle:  angle,
			Pellets:   len(spawned),
			AmmoLeft:  cs.Ammo,
			Reloading: cs.Reloading,
		})

	case ActionBuild:
		w := e.walls.Add(e.player.BuildRect())
		if w == nil {
			return
		}
		e.emit(EventTypeWallBuilt, SourcePlayer, wallPayload(w))

	case ActionPhase:
		reach := PhaseRangeFactor * e.player.Radius
		w := e.walls.PhaseFacing(e.player.Position, e.player.Facing, reach)
		if w == nil {
			return
		}
		e.emit(EventTypeWallPhased, SourcePlayer, wallPayload(w))

	case ActionSelectWeapon:
		if !e.combat.Switch(a.Slot, now) {
			return
		}
		cs := e.combat.State()
		e.emit(EventTypeWeaponSwitch, SourcePlayer, WeaponSwitchPayload{
			Slot:     a.Slot,
			WeaponID: cs.Weapon.ID,
			Ammo:     cs.Ammo,
		})
	}
}

func wallPayload(w *Wall) WallPayload {
	return WallPayload{WallID: w.ID, X: w.Rect.X, Y: w.Rect.Y, W: w.Rect.W, H: w.Rect.H}
}

// emit records an event in the log and hands it to the callback
func (e *Engine) emit(t EventType, source string, payload interface{}) {
	if !e.eventLog.Running() && e.onEvent == nil {
		return
	}
	ev := NewEvent(t, e.tick, source, payload)
	ev.MatchID = e.matchID
	e.eventLog.Emit(ev)
	if e.onEvent != nil && t != EventTypeTick {
		e.onEvent(ev)
	}
}

// produceSnapshot publishes the current state to the render pool
func (e *Engine) produceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	snap.Tick = e.tick
	snap.NowMs = e.rules.TickMs(e.tick)
	snap.MatchID = e.matchID
	snap.Width = e.rules.Width
	snap.Height = e.rules.Height

	snap.Player = e.player.ToSnapshot(e.pointer)
	snap.Opponent = e.opponent.ToSnapshot()
	snap.OpponentAlive = e.opponent.IsAlive()

	for _, p := range e.combat.Projectiles() {
		snap.Projectiles = append(snap.Projectiles, p.ToSnapshot())
	}
	for _, w := range e.walls.All() {
		snap.Walls = append(snap.Walls, w.ToSnapshot())
	}

	snap.Combat = e.combat.ToSnapshot()
	snap.State = e.state
	snap.Won = e.state == MatchWon

	e.snapshotPool.PublishWrite()
}

// GetSnapshot returns the latest published state without locking.
// Suitable for a render loop on the same goroutine as Step; readers on
// other goroutines should use SnapshotCopy.
func (e *Engine) GetSnapshot() *RenderState {
	return e.snapshotPool.AcquireRead()
}

// SnapshotCopy returns a private copy of the latest state
func (e *Engine) SnapshotCopy() *RenderState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotPool.AcquireRead().Clone()
}

// SetCallbacks sets the event callback. It runs on the tick goroutine with
// the engine lock held and must not block or call back into the engine.
func (e *Engine) SetCallbacks(onEvent func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEvent = onEvent
}

// MatchID returns the current match ID
func (e *Engine) MatchID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.matchID
}

// State returns the match state
func (e *Engine) State() MatchState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Info returns a summary of the current match
func (e *Engine) Info() MatchInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return MatchInfo{
		ID:        e.matchID,
		Seed:      e.seed,
		Tick:      e.tick,
		NowMs:     e.rules.TickMs(e.tick),
		State:     e.state,
		StartedAt: e.startedAt,
		Shots:     e.shots,
		Hits:      e.hits,
		Walls:     e.walls.Len(),
		Running:   e.running,
	}
}

// Rules returns the rules the engine was built with
func (e *Engine) Rules() Rules {
	return e.rules
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log statistics for monitoring
func (e *Engine) GetEventLogStats() EventLogStats {
	return e.eventLog.GetStats()
}
