// Package host wires the engine, canvas, overlay and feedback sinks into one
// controller that window and headless front ends drive with actions, taps
// and focus changes.
package host

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"bubble-pop/internal/config"
	"bubble-pop/internal/game"
	"bubble-pop/internal/render"
	"bubble-pop/internal/speech"
)

// Action is a host-level command, usually bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionStartNormal
	ActionStartColorFind
	ActionReset
	ActionMenu
	ActionTogglePause
	ActionToggleFullscreen
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionStartNormal:
		return "start_normal"
	case ActionStartColorFind:
		return "start_color_find"
	case ActionReset:
		return "reset"
	case ActionMenu:
		return "menu"
	case ActionTogglePause:
		return "toggle_pause"
	case ActionToggleFullscreen:
		return "toggle_fullscreen"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Options configures a Controller.
type Options struct {
	Config   config.AppConfig
	Logger   *zap.Logger
	Assets   game.AssetSource
	Feedback []game.FeedbackSink // extra sinks, e.g. audio
	Observer game.Observer
	Events   *game.EventLog
	Clock    func() time.Time
	Seed     int64
	FontPath string

	// AfterFrame is handed to the engine for Start-driven (headless) loops.
	AfterFrame func(frame uint64)
}

// Controller owns one game session and its presentation.
type Controller struct {
	engine   *game.Engine
	canvas   *render.Canvas
	overlay  *render.Overlay
	narrator *speech.Narrator
	log      *zap.Logger

	mu          sync.Mutex
	userPaused  bool
	focusPaused bool
	lastFrame   uint64
	frozenDrawn bool
}

// NewController builds the canvas, narrator and engine from opts.
func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config

	canvas := render.NewCanvas(cfg.Video.Width, cfg.Video.Height)
	narrator := speech.NewNarrator(cfg.Speech.Language, opts.Clock, log.Named("speech"))

	sinks := game.Feedbacks{narrator}
	sinks = append(sinks, opts.Feedback...)

	engine := game.NewEngine(game.Options{
		Viewport:   canvas,
		Assets:     opts.Assets,
		Feedback:   sinks,
		Observer:   opts.Observer,
		Events:     opts.Events,
		Logger:     log.Named("engine"),
		Limits:     game.LimitsFrom(cfg.Limits),
		TickRate:   cfg.Video.FPS,
		AfterFrame: opts.AfterFrame,
		Seed:       opts.Seed,
		Clock:      opts.Clock,
	})

	return &Controller{
		engine:   engine,
		canvas:   canvas,
		overlay:  render.NewOverlay(opts.FontPath, log.Named("overlay")),
		narrator: narrator,
		log:      log,
	}
}

// Engine returns the game engine.
func (c *Controller) Engine() *game.Engine { return c.engine }

// Canvas returns the off-screen canvas frames are drawn into.
func (c *Controller) Canvas() *render.Canvas { return c.canvas }

// Narrator returns the speech sink.
func (c *Controller) Narrator() *speech.Narrator { return c.narrator }

// Dispatch applies a game action. Window-level actions (fullscreen, quit)
// are left to the caller and reported as unhandled.
func (c *Controller) Dispatch(a Action) bool {
	switch a {
	case ActionStartNormal:
		c.start(game.ModeNormal)
	case ActionStartColorFind:
		c.start(game.ModeColorFind)
	case ActionReset:
		if c.engine.State() != game.StatePlaying {
			return false
		}
		c.engine.Reset()
	case ActionMenu:
		c.mu.Lock()
		c.userPaused = false
		c.mu.Unlock()
		c.engine.ReturnToMenu()
		c.syncPause()
	case ActionTogglePause:
		if c.engine.State() != game.StatePlaying {
			return false
		}
		c.mu.Lock()
		c.userPaused = !c.userPaused
		c.mu.Unlock()
		c.syncPause()
	default:
		return false
	}
	c.log.Debug("action", zap.Stringer("action", a))
	return true
}

func (c *Controller) start(mode game.GameMode) {
	c.mu.Lock()
	c.userPaused = false
	c.mu.Unlock()
	c.engine.StartLevel(mode)
	c.syncPause()
}

// Tap handles a press at canvas coordinates. On the menu it picks a mode
// button; in play it hit-tests spheres.
func (c *Controller) Tap(x, y float64) game.TapResult {
	if c.engine.State() == game.StateMenu {
		w, h := c.canvas.Size()
		for _, b := range render.MenuButtons(w, h) {
			if b.Contains(x, y) {
				c.start(b.Mode)
				break
			}
		}
		return game.TapResult{}
	}
	return c.engine.HandleTap(x, y)
}

// Touches handles simultaneous contact points in canvas coordinates.
func (c *Controller) Touches(points []game.Point) []game.TapResult {
	if c.engine.State() == game.StateMenu && len(points) > 0 {
		c.Tap(points[0].X, points[0].Y)
		return make([]game.TapResult, len(points))
	}
	return c.engine.HandleTouches(points)
}

// FocusChanged pauses when the window loses focus or is hidden and resumes
// when it comes back, unless the player paused by hand.
func (c *Controller) FocusChanged(focused bool) {
	c.mu.Lock()
	c.focusPaused = !focused
	c.mu.Unlock()
	c.syncPause()
}

func (c *Controller) syncPause() {
	c.mu.Lock()
	want := c.userPaused || c.focusPaused
	c.mu.Unlock()

	if want == c.engine.Paused() {
		return
	}
	if want {
		c.engine.Pause()
	} else {
		c.engine.Resume()
	}
}

// Frame advances the game one tick and draws the overlay on top. While the
// engine is paused the canvas is left alone after the first veiled frame.
func (c *Controller) Frame() uint64 {
	n := c.engine.Frame(c.canvas)

	c.mu.Lock()
	frozen := n == c.lastFrame
	skip := frozen && c.frozenDrawn
	c.lastFrame = n
	c.frozenDrawn = frozen
	c.mu.Unlock()

	if !skip {
		c.DrawOverlay()
	}
	return n
}

// DrawOverlay draws the HUD over the current canvas contents.
func (c *Controller) DrawOverlay() {
	c.overlay.Draw(c.canvas, c.HUD())
}

// HUD snapshots the host state shown by the overlay.
func (c *Controller) HUD() render.HUD {
	caption, alpha := c.narrator.Caption()
	return render.HUD{
		State:        c.engine.State(),
		Mode:         c.engine.Mode(),
		TargetHue:    c.engine.TargetHue(),
		Paused:       c.engine.Paused(),
		Caption:      caption,
		CaptionAlpha: alpha,
		MenuTitle:    c.narrator.Text(speech.KeyMenuTitle),
		MenuHint:     c.narrator.Text(speech.KeyMenuHint),
		ModeLabels: [2]string{
			c.narrator.ModeName(game.ModeNormal),
			c.narrator.ModeName(game.ModeColorFind),
		},
		PausedLabel: c.narrator.Text(speech.KeyPaused),
	}
}
