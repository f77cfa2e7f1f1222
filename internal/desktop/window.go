// Package desktop runs the game in a GLFW window, uploading the software
// canvas to an OpenGL texture every frame.
package desktop

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"bubble-pop/internal/config"
	"bubble-pop/internal/host"
)

// Suspender is an output that can be paused while the window is hidden.
type Suspender interface {
	Suspend()
	Resume()
}

// Options configures Run.
type Options struct {
	Video      config.VideoConfig
	Controller *host.Controller
	Audio      Suspender // may be nil
	Logger     *zap.Logger
}

// keyActions binds keys to host actions.
var keyActions = map[glfw.Key]host.Action{
	glfw.Key1:      host.ActionStartNormal,
	glfw.KeyKP1:    host.ActionStartNormal,
	glfw.Key2:      host.ActionStartColorFind,
	glfw.KeyKP2:    host.ActionStartColorFind,
	glfw.KeyR:      host.ActionReset,
	glfw.KeyEscape: host.ActionMenu,
	glfw.KeySpace:  host.ActionTogglePause,
	glfw.KeyP:      host.ActionTogglePause,
	glfw.KeyF:      host.ActionToggleFullscreen,
	glfw.KeyF11:    host.ActionToggleFullscreen,
	glfw.KeyQ:      host.ActionQuit,
}

type window struct {
	win  *glfw.Window
	opts Options
	log  *zap.Logger

	fullscreen bool
	windowed   [4]int // x, y, w, h before going fullscreen
}

// Run opens the window and drives the controller until the window closes
// or ctx is cancelled. It must be called from the main goroutine.
func Run(ctx context.Context, opts Options) error {
	runtime.LockOSThread()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	v := opts.Video
	win, err := glfw.CreateWindow(v.Width, v.Height, v.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	if v.VSync {
		glfw.SwapInterval(1)
	}

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)

	b, err := newBlitter(v.Width, v.Height)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer b.delete()

	w := &window{win: win, opts: opts, log: log}
	w.installCallbacks()
	if v.Fullscreen {
		w.toggleFullscreen()
	}

	log.Info("🪟 Window opened",
		zap.String("gl", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Int("width", v.Width),
		zap.Int("height", v.Height))

	ctrl := opts.Controller
	ticker := time.NewTicker(time.Second / time.Duration(max(v.FPS, 1)))
	defer ticker.Stop()

	for !win.ShouldClose() {
		select {
		case <-ctx.Done():
			win.SetShouldClose(true)
			continue
		case <-ticker.C:
		}

		glfw.PollEvents()
		ctrl.Frame()

		b.upload(ctrl.Canvas().Image())
		fbW, fbH := win.GetFramebufferSize()
		b.draw(host.Fit(float64(v.Width), float64(v.Height), float64(fbW), float64(fbH)), fbW, fbH)
		win.SwapBuffers()
	}

	log.Info("🪟 Window closed", zap.Uint64("frames", ctrl.Engine().FrameCount()))
	return nil
}

func (w *window) installCallbacks() {
	ctrl := w.opts.Controller

	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch a := keyActions[key]; a {
		case host.ActionNone:
		case host.ActionToggleFullscreen:
			w.toggleFullscreen()
		case host.ActionQuit:
			w.win.SetShouldClose(true)
		default:
			ctrl.Dispatch(a)
		}
	})

	w.win.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft || action != glfw.Press {
			return
		}
		x, y := win.GetCursorPos()
		winW, winH := win.GetSize()
		p := host.Fit(float64(w.opts.Video.Width), float64(w.opts.Video.Height), float64(winW), float64(winH))
		if cx, cy, ok := p.ToCanvas(x, y); ok {
			ctrl.Tap(cx, cy)
		}
	})

	w.win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		ctrl.FocusChanged(focused)
	})

	w.win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		ctrl.FocusChanged(!iconified)
		if w.opts.Audio == nil {
			return
		}
		if iconified {
			w.opts.Audio.Suspend()
		} else {
			w.opts.Audio.Resume()
		}
	})
}

func (w *window) toggleFullscreen() {
	if w.fullscreen {
		r := w.windowed
		w.win.SetMonitor(nil, r[0], r[1], r[2], r[3], 0)
		w.fullscreen = false
		return
	}

	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		w.log.Warn("⚠️ No monitor for fullscreen")
		return
	}
	x, y := w.win.GetPos()
	width, height := w.win.GetSize()
	w.windowed = [4]int{x, y, width, height}

	mode := monitor.GetVideoMode()
	w.win.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	w.fullscreen = true
}
