// =============================================================================
// BUBBLE POP - SOAK RUNNER
// =============================================================================
// Runs the game headless on the engine's own ticker with synthetic taps, for
// leak and performance checks. Frames are drawn off-screen; snapshots can be
// written as PNG. Audio feedback runs through the mixer without a device.
//
// USAGE:
//
//	go run ./cmd/soak -duration 10m -mode color_find -debug
//
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bubble-pop/internal/app"
	"bubble-pop/internal/game"
	"bubble-pop/internal/host"
	"bubble-pop/internal/metrics"
	"bubble-pop/internal/render"
)

type soakStats struct {
	taps      atomic.Uint64
	hits      atomic.Uint64
	snapshots atomic.Uint64
}

func main() {
	configPath := flag.String("config", "popper.toml", "TOML config file (optional)")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	modeName := flag.String("mode", "normal", "game mode: normal or color_find")
	tapEvery := flag.Int("tap-every", 15, "frames between synthetic taps")
	missRate := flag.Float64("miss-rate", 0.3, "fraction of taps aimed at empty space")
	snapshotDir := flag.String("snapshot-dir", "", "write PNG snapshots here (empty disables)")
	snapshotEvery := flag.Int("snapshot-every", 600, "frames between snapshots")
	debugServer := flag.Bool("debug", false, "serve pprof, metrics and state on the debug address")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	cfg, log, err := app.Bootstrap(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	if *debugServer {
		cfg.Debug.Enabled = true
	}

	mode := game.ModeNormal
	if *modeName == game.ModeColorFind.String() {
		mode = game.ModeColorFind
	}

	log.Info("================================")
	log.Info("  BUBBLE POP - SOAK")
	log.Info("================================")
	log.Info("🎬 Config",
		zap.Int("width", cfg.Video.Width),
		zap.Int("height", cfg.Video.Height),
		zap.Int("fps", cfg.Video.FPS),
		zap.Stringer("mode", mode),
		zap.Duration("duration", *duration),
		zap.Int64("seed", *seed))

	if *snapshotDir != "" {
		if err := os.MkdirAll(*snapshotDir, 0o755); err != nil {
			log.Fatal("❌ Snapshot directory", zap.Error(err))
		}
	}

	lib, assetsDone, err := app.LoadAssets(cfg.Assets, true, log)
	if err != nil {
		log.Fatal("❌ Failed to load asset manifest", zap.Error(err))
	}
	<-assetsDone

	snd := app.StartAudio(cfg.Audio, false, *seed, log)
	defer snd.Close()

	events := game.NewEventLog(log.Named("events"))
	events.Start()
	defer events.Stop()

	m := metrics.New(events)

	var feedback []game.FeedbackSink
	if snd != nil {
		feedback = append(feedback, snd.Feedback)
	}

	var stats soakStats
	rng := rand.New(rand.NewSource(*seed))
	var ctrl *host.Controller

	afterFrame := func(frame uint64) {
		ctrl.DrawOverlay()
		if snd != nil {
			drainAudio(snd, cfg.Video.FPS)
		}
		if *tapEvery > 0 && frame%uint64(*tapEvery) == 0 {
			tap(ctrl, rng, *missRate, &stats)
		}
		if *snapshotDir != "" && *snapshotEvery > 0 && frame%uint64(*snapshotEvery) == 0 {
			if err := writeSnapshot(ctrl.Canvas(), *snapshotDir, frame); err != nil {
				log.Warn("⚠️ Snapshot failed", zap.Error(err))
			} else {
				stats.snapshots.Add(1)
			}
		}
	}

	ctrl = host.NewController(host.Options{
		Config:     cfg,
		Logger:     log,
		Assets:     lib,
		Feedback:   feedback,
		Observer:   m,
		Events:     events,
		Seed:       *seed,
		AfterFrame: afterFrame,
	})

	debug, err := metrics.StartDebugServer(cfg.Debug, metrics.NewDebugRouter(m, ctrl.Engine()), log.Named("debug"))
	if err != nil {
		log.Warn("⚠️ Debug server failed to start", zap.Error(err))
	}

	engine := ctrl.Engine()
	if mode == game.ModeColorFind {
		ctrl.Dispatch(host.ActionStartColorFind)
	} else {
		ctrl.Dispatch(host.ActionStartNormal)
	}
	engine.Start(ctrl.Canvas())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	// Stats logging
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	log.Info("Soak running! Press Ctrl+C to stop.")
	started := time.Now()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			logStats(log, engine, &stats, time.Since(started))
		}
	}

	log.Info("Shutting down soak...")
	engine.Stop()
	if debug != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := debug.Shutdown(shutdownCtx); err != nil {
			log.Warn("⚠️ Debug server shutdown", zap.Error(err))
		}
		cancel()
	}
	logStats(log, engine, &stats, time.Since(started))
	log.Info("Soak stopped!")
}

// tap aims at a random live sphere, or at empty space with probability miss.
func tap(ctrl *host.Controller, rng *rand.Rand, miss float64, stats *soakStats) {
	w, h := ctrl.Canvas().Size()
	x, y := rng.Float64()*w, rng.Float64()*h

	if spheres := ctrl.Engine().Spheres(); len(spheres) > 0 && rng.Float64() >= miss {
		s := spheres[rng.Intn(len(spheres))]
		x, y = s.X, s.Y
	}

	stats.taps.Add(1)
	if ctrl.Tap(x, y).Hit {
		stats.hits.Add(1)
	}
}

// drainAudio pulls one frame's worth of PCM so queued effects expire as they
// would on a device.
func drainAudio(a *app.Audio, fps int) {
	frames := a.Mixer.SampleRate() / fps
	buf := make([]byte, frames*a.Mixer.Channels()*2)
	a.Mixer.Read(buf)
}

func writeSnapshot(c *render.Canvas, dir string, frame uint64) error {
	f, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame_%08d.png", frame)))
	if err != nil {
		return err
	}
	if err := png.Encode(f, c.Image()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func logStats(log *zap.Logger, engine *game.Engine, stats *soakStats, uptime time.Duration) {
	c := engine.Counts()
	log.Info("📊 Soak stats",
		zap.Duration("uptime", uptime.Round(time.Second)),
		zap.Uint64("frames", engine.FrameCount()),
		zap.Int("spheres", c.Spheres),
		zap.Int("particles", c.Particles),
		zap.Int("characters", c.Characters),
		zap.Int("spirits", c.Spirits),
		zap.Uint64("taps", stats.taps.Load()),
		zap.Uint64("hits", stats.hits.Load()),
		zap.Uint64("snapshots", stats.snapshots.Load()),
		zap.Any("events", engine.GetEventLogStats()))
}
