package host

import (
	"sync"
	"testing"
	"time"

	"bubble-pop/internal/config"
	"bubble-pop/internal/game"
	"bubble-pop/internal/render"
)

type levelSink struct {
	game.NopFeedback
	mu     sync.Mutex
	levels []game.GameMode
	pauses []bool
}

func (s *levelSink) LevelStarted(m game.GameMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels = append(s.levels, m)
}

func (s *levelSink) PauseChanged(p bool, _ game.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses = append(s.pauses, p)
}

func newTestController(t *testing.T, sinks ...game.FeedbackSink) *Controller {
	t.Helper()
	cfg := config.Default()
	cfg.Video.Width, cfg.Video.Height = 640, 480
	clk := time.Unix(5000, 0)
	return NewController(Options{
		Config:   cfg,
		Feedback: sinks,
		Seed:     11,
		Clock:    func() time.Time { return clk },
	})
}

// TestMenuTapStartsMode verifies the menu buttons start the matching mode
func TestMenuTapStartsMode(t *testing.T) {
	for _, mode := range []game.GameMode{game.ModeNormal, game.ModeColorFind} {
		t.Run(mode.String(), func(t *testing.T) {
			sink := &levelSink{}
			c := newTestController(t, sink)
			w, h := c.Canvas().Size()

			c.Tap(1, 1) // outside both buttons
			if c.Engine().State() != game.StateMenu {
				t.Fatal("tap outside buttons left the menu")
			}

			b := render.MenuButtons(w, h)[mode]
			c.Tap(b.X+b.W/2, b.Y+b.H/2)

			if c.Engine().State() != game.StatePlaying || c.Engine().Mode() != mode {
				t.Fatalf("state %v mode %v", c.Engine().State(), c.Engine().Mode())
			}
			if len(sink.levels) != 1 || sink.levels[0] != mode {
				t.Errorf("sink levels %v", sink.levels)
			}
		})
	}
}

// TestDispatch checks the keyboard actions
func TestDispatch(t *testing.T) {
	c := newTestController(t)
	e := c.Engine()

	if c.Dispatch(ActionReset) {
		t.Error("reset handled in the menu")
	}
	if c.Dispatch(ActionToggleFullscreen) || c.Dispatch(ActionQuit) {
		t.Error("window actions should be left to the caller")
	}

	c.Dispatch(ActionStartColorFind)
	if e.Mode() != game.ModeColorFind {
		t.Fatalf("mode %v", e.Mode())
	}

	c.Dispatch(ActionTogglePause)
	if !e.Paused() {
		t.Fatal("toggle did not pause")
	}
	c.Dispatch(ActionTogglePause)
	if e.Paused() {
		t.Fatal("toggle did not resume")
	}

	c.Dispatch(ActionTogglePause)
	c.Dispatch(ActionMenu)
	if e.State() != game.StateMenu || e.Paused() {
		t.Errorf("menu left state %v paused %v", e.State(), e.Paused())
	}
}

// TestFocusPause verifies focus loss pauses and a manual pause survives refocus
func TestFocusPause(t *testing.T) {
	sink := &levelSink{}
	c := newTestController(t, sink)
	e := c.Engine()
	c.Dispatch(ActionStartNormal)

	c.FocusChanged(false)
	if !e.Paused() {
		t.Fatal("blur did not pause")
	}
	c.FocusChanged(true)
	if e.Paused() {
		t.Fatal("focus did not resume")
	}

	c.Dispatch(ActionTogglePause)
	c.FocusChanged(false)
	c.FocusChanged(true)
	if !e.Paused() {
		t.Error("refocus overrode a manual pause")
	}

	if len(sink.pauses) != 3 {
		t.Errorf("pause notifications %v, want 3", sink.pauses)
	}
}

// TestStartClearsManualPause verifies a new level always runs
func TestStartClearsManualPause(t *testing.T) {
	c := newTestController(t)
	c.Dispatch(ActionStartNormal)
	c.Dispatch(ActionTogglePause)
	c.Dispatch(ActionStartColorFind)
	if c.Engine().Paused() {
		t.Error("new level started paused")
	}
}

// TestFrameFreezesWhilePaused verifies the veil is drawn once, not stacked
func TestFrameFreezesWhilePaused(t *testing.T) {
	c := newTestController(t)
	c.Dispatch(ActionStartNormal)
	c.Frame()
	c.Dispatch(ActionTogglePause)

	c.Frame()
	first := c.Canvas().Image().RGBAAt(5, 5)
	c.Frame()
	c.Frame()
	if got := c.Canvas().Image().RGBAAt(5, 5); got != first {
		t.Errorf("paused frame changed %v -> %v", first, got)
	}
}

// TestHUDReflectsSession verifies the overlay snapshot
func TestHUDReflectsSession(t *testing.T) {
	c := newTestController(t)
	hud := c.HUD()
	if hud.State != game.StateMenu || hud.MenuTitle == "" || hud.ModeLabels[1] != "色さがし" {
		t.Errorf("menu HUD %+v", hud)
	}

	c.Dispatch(ActionStartColorFind)
	hud = c.HUD()
	if hud.Mode != game.ModeColorFind || hud.TargetHue != c.Engine().TargetHue() {
		t.Errorf("play HUD %+v", hud)
	}
	if hud.Caption != "おなじ色、探せるかな？" || hud.CaptionAlpha != 1 {
		t.Errorf("intro caption %q alpha %v", hud.Caption, hud.CaptionAlpha)
	}
}

// TestTouchesInPlay verifies multi-touch reaches the engine
func TestTouchesInPlay(t *testing.T) {
	c := newTestController(t)
	c.Dispatch(ActionStartNormal)
	e := c.Engine()
	e.AddSphere(100, 100, 50, 10, true)
	e.AddSphere(500, 300, 50, 20, true)

	res := c.Touches([]game.Point{{X: 100, Y: 100}, {X: 500, Y: 300}})
	if len(res) != 2 || !res[0].Hit || !res[1].Hit {
		t.Errorf("touch results %+v", res)
	}
}
