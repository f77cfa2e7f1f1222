package game

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures an Engine. Zero values get working defaults.
type Options struct {
	Viewport Viewport
	Assets   AssetSource
	Feedback FeedbackSink
	Observer Observer
	Events   *EventLog
	Logger   *zap.Logger
	Limits   Limits

	// TickRate drives Start; hosts with their own refresh callback call
	// Frame directly and ignore it.
	TickRate int
	// AfterFrame runs on the ticker goroutine after each Start-driven frame.
	AfterFrame func(frame uint64)

	Seed  int64
	Clock func() time.Time
}

// Engine owns every entity collection and drives one frame per call to Frame.
type Engine struct {
	mu sync.Mutex

	state     GameState
	mode      GameMode
	targetHue float64
	paused    bool

	spheres    []*Sphere
	particles  []*Particle
	characters []*PopCharacter
	spirits    []*PenaltySpirit

	scheduler *Scheduler
	rng       *rand.Rand
	rngSeed   int64
	frame     uint64

	view     Viewport
	assets   AssetSource
	feedback FeedbackSink
	observer Observer
	events   *EventLog
	log      *zap.Logger
	limits   Limits

	// render panics are logged at most once a second
	panicLogLimiter *rate.Limiter

	tickRate   int
	afterFrame func(frame uint64)
	running    bool
	ticker     *time.Ticker
	stopChan   chan struct{}
	doneChan   chan struct{}
}

// NewEngine creates an engine in the menu state.
func NewEngine(opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	view := opts.Viewport
	if view == nil {
		view = FixedViewport{W: 1280, H: 720}
	}
	feedback := opts.Feedback
	if feedback == nil {
		feedback = NopFeedback{}
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tickRate := opts.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	limits := opts.Limits.withDefaults()

	return &Engine{
		state:           StateMenu,
		mode:            ModeNormal,
		spheres:         make([]*Sphere, 0, 16),
		particles:       make([]*Particle, 0, limits.MaxParticles),
		characters:      make([]*PopCharacter, 0, 4),
		spirits:         make([]*PenaltySpirit, 0, SpiritBatchMin+SpiritBatchRange),
		scheduler:       NewScheduler(opts.Clock),
		rng:             rand.New(rand.NewSource(seed)),
		rngSeed:         seed,
		view:            view,
		assets:          opts.Assets,
		feedback:        feedback,
		observer:        observer,
		events:          opts.Events,
		log:             logger,
		limits:          limits,
		panicLogLimiter: rate.NewLimiter(1, 1),
		tickRate:        tickRate,
		afterFrame:      opts.AfterFrame,
	}
}

// Start drives Frame from a ticker goroutine until Stop. Used by headless hosts.
// The loop can be started again after Stop.
func (e *Engine) Start(s Surface) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))
	e.stopChan = make(chan struct{})
	e.doneChan = make(chan struct{})
	ticker, stop, done := e.ticker, e.stopChan, e.doneChan
	e.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				frame := e.Frame(s)
				if e.afterFrame != nil {
					e.afterFrame(frame)
				}
			case <-stop:
				return
			}
		}
	}()

	e.log.Info("🎮 Game loop started", zap.Int("tickRate", e.tickRate), zap.Int64("seed", e.rngSeed))
}

// Stop halts the ticker goroutine and waits for it to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.ticker.Stop()
	stop, done := e.stopChan, e.doneChan
	e.mu.Unlock()

	close(stop)
	<-done
	e.log.Info("🛑 Game loop stopped", zap.Uint64("frames", e.FrameCount()))
}

// Frame advances and renders one tick. While paused it does nothing. Returns
// the frame number.
func (e *Engine) Frame(s Surface) uint64 {
	start := time.Now()

	e.mu.Lock()
	if e.paused {
		frame := e.frame
		e.mu.Unlock()
		return frame
	}
	e.frame++

	if e.state == StatePlaying {
		if e.scheduler.Tick(e.rng, len(e.spheres)) && len(e.spheres) < e.limits.MaxSpheres {
			e.spheres = append(e.spheres, NewSphere(e.rng, e.view, e.mode, e.targetHue))
		}
		ResolveCollisions(e.spheres)
		e.updateSpheres()
	}
	e.updateParticles()
	e.updateCharacters()
	e.updateSpirits()

	s.Clear()
	e.render(s)

	frame := e.frame
	counts := e.countsLocked()
	e.mu.Unlock()

	e.observer.FrameRendered(time.Since(start), counts)
	return frame
}

// updateSpheres advances spheres and drops the ones past the cull margin,
// keeping spawn order.
func (e *Engine) updateSpheres() {
	n := 0
	for _, sp := range e.spheres {
		sp.Advance()
		if !sp.Expired() {
			e.spheres[n] = sp
			n++
		}
	}
	clear(e.spheres[n:])
	e.spheres = e.spheres[:n]
}

func (e *Engine) updateParticles() {
	n := 0
	for _, p := range e.particles {
		p.Advance()
		if !p.Expired() {
			e.particles[n] = p
			n++
		}
	}
	clear(e.particles[n:])
	e.particles = e.particles[:n]
}

func (e *Engine) updateCharacters() {
	n := 0
	for _, c := range e.characters {
		c.Advance()
		if !c.Expired() {
			e.characters[n] = c
			n++
		}
	}
	clear(e.characters[n:])
	e.characters = e.characters[:n]
}

func (e *Engine) updateSpirits() {
	n := 0
	for _, sp := range e.spirits {
		sp.Advance()
		if !sp.Expired() {
			e.spirits[n] = sp
			n++
		}
	}
	clear(e.spirits[n:])
	e.spirits = e.spirits[:n]
}

// render draws back to front: spheres (oldest first, so the newest is on top
// and matches hit-test order), particles, characters, spirits.
func (e *Engine) render(s Surface) {
	for _, sp := range e.spheres {
		e.renderSafe("sphere", s, sp)
	}
	for _, p := range e.particles {
		e.renderSafe("particle", s, p)
	}
	for _, c := range e.characters {
		e.renderSafe("character", s, c)
	}
	for _, sp := range e.spirits {
		e.renderSafe("spirit", s, sp)
	}
}

// renderSafe isolates one entity's render so a panic cannot abort the frame.
func (e *Engine) renderSafe(kind string, s Surface, ent Entity) {
	depth := -1
	unwinder, canUnwind := s.(stackUnwinder)
	if canUnwind {
		depth = unwinder.Depth()
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if canUnwind {
			unwinder.Unwind(depth)
		}
		e.observer.RenderRecovered(kind)
		if e.panicLogLimiter.Allow() {
			e.log.Warn("⚠️ Entity render failed",
				zap.String("kind", kind),
				zap.String("panic", fmt.Sprint(r)),
				zap.Uint64("frame", e.frame),
			)
		}
	}()

	ent.Render(s)
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// StartLevel switches to Playing in mode with empty collections. Color-find
// levels get a fresh target hue.
func (e *Engine) StartLevel(mode GameMode) {
	e.mu.Lock()
	e.state = StatePlaying
	e.mode = mode
	e.resetLocked()
	payload := LevelPayload{Mode: mode.String(), TargetHue: e.targetHue}
	frame := e.frame
	e.mu.Unlock()

	e.events.EmitSimple(EventTypeLevelStart, frame, "lifecycle", payload)
	e.log.Info("▶️ Level started", zap.Stringer("mode", mode), zap.Float64("targetHue", payload.TargetHue))
	e.feedback.LevelStarted(mode)
}

// Reset clears every collection and re-rolls the color-find target.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.resetLocked()
	payload := LevelPayload{Mode: e.mode.String(), TargetHue: e.targetHue}
	frame := e.frame
	e.mu.Unlock()

	e.events.EmitSimple(EventTypeReset, frame, "lifecycle", payload)
}

func (e *Engine) resetLocked() {
	e.clearLocked()
	if e.mode == ModeColorFind {
		e.targetHue = math.Floor(e.rng.Float64() * 360)
	}
}

// ReturnToMenu stops the simulation and clears every collection. Idempotent.
func (e *Engine) ReturnToMenu() {
	e.mu.Lock()
	e.state = StateMenu
	e.clearLocked()
	frame := e.frame
	e.mu.Unlock()

	e.events.EmitSimple(EventTypeMenu, frame, "lifecycle", nil)
}

func (e *Engine) clearLocked() {
	clear(e.spheres)
	e.spheres = e.spheres[:0]
	clear(e.particles)
	e.particles = e.particles[:0]
	clear(e.characters)
	e.characters = e.characters[:0]
	clear(e.spirits)
	e.spirits = e.spirits[:0]
}

// Pause suspends Frame and input without discarding anything.
func (e *Engine) Pause() {
	e.setPaused(true)
}

// Resume lifts a Pause.
func (e *Engine) Resume() {
	e.setPaused(false)
}

func (e *Engine) setPaused(paused bool) {
	e.mu.Lock()
	if e.paused == paused {
		e.mu.Unlock()
		return
	}
	e.paused = paused
	state := e.state
	frame := e.frame
	e.mu.Unlock()

	if paused {
		e.events.EmitSimple(EventTypePause, frame, "lifecycle", nil)
	} else {
		e.events.EmitSimple(EventTypeResume, frame, "lifecycle", nil)
	}
	e.feedback.PauseChanged(paused, state)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current screen state.
func (e *Engine) State() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Mode returns the current level mode.
func (e *Engine) Mode() GameMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// TargetHue returns the color-find target hue.
func (e *Engine) TargetHue() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.targetHue
}

// Paused reports whether the engine is suspended.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// FrameCount returns the number of frames simulated.
func (e *Engine) FrameCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// Counts returns the current collection sizes.
func (e *Engine) Counts() Counts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.countsLocked()
}

func (e *Engine) countsLocked() Counts {
	return Counts{
		Spheres:    len(e.spheres),
		Particles:  len(e.particles),
		Characters: len(e.characters),
		Spirits:    len(e.spirits),
	}
}

// Spheres returns copies of the active spheres in spawn order.
func (e *Engine) Spheres() []Sphere {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Sphere, len(e.spheres))
	for i, sp := range e.spheres {
		out[i] = *sp
	}
	return out
}

// PopulationTarget returns the scheduler's current goal.
func (e *Engine) PopulationTarget() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scheduler.Target()
}

// AddSphere places a sphere directly, bypassing the scheduler. The sphere
// uses the engine viewport.
func (e *Engine) AddSphere(x, y, radius, hue float64, isTarget bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.spheres) >= e.limits.MaxSpheres {
		return false
	}
	e.spheres = append(e.spheres, &Sphere{
		X:        x,
		Y:        y,
		Radius:   radius,
		Hue:      hue,
		IsTarget: isTarget,
		view:     e.view,
	})
	return true
}

// GetEventLogStats returns journal counters, or nil without a journal.
func (e *Engine) GetEventLogStats() map[string]interface{} {
	if e.events == nil {
		return nil
	}
	return e.events.GetStats()
}
