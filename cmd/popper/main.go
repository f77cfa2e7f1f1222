// =============================================================================
// BUBBLE POP - DESKTOP
// =============================================================================
// Opens a window, plays pops and chimes through the audio device and draws
// the game with OpenGL. The optional debug server exposes pprof, Prometheus
// metrics and the live game state on localhost.
//
// USAGE:
//
//	go run ./cmd/popper -config popper.toml
//
// KEYS:
//
//	1 / 2      start normal / color-find
//	R          new round        Esc   back to menu
//	Space, P   pause            F     fullscreen      Q   quit
//
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bubble-pop/internal/app"
	"bubble-pop/internal/desktop"
	"bubble-pop/internal/game"
	"bubble-pop/internal/host"
	"bubble-pop/internal/metrics"
)

func main() {
	configPath := flag.String("config", "popper.toml", "TOML config file (optional)")
	fontPath := flag.String("font", "", "TTF/OTF font for captions (falls back to system fonts)")
	seed := flag.Int64("seed", 0, "random seed (0 uses the clock)")
	flag.Parse()

	cfg, log, err := app.Bootstrap(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("================================")
	log.Info("  BUBBLE POP")
	log.Info("================================")
	log.Info("🎬 Video",
		zap.Int("width", cfg.Video.Width),
		zap.Int("height", cfg.Video.Height),
		zap.Int("fps", cfg.Video.FPS),
		zap.String("language", cfg.Speech.Language))

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	lib, _, err := app.LoadAssets(cfg.Assets, true, log)
	if err != nil {
		log.Fatal("❌ Failed to load asset manifest", zap.Error(err))
	}

	snd := app.StartAudio(cfg.Audio, true, *seed, log)
	defer snd.Close()

	events := game.NewEventLog(log.Named("events"))
	events.Start()
	defer events.Stop()

	m := metrics.New(events)

	var feedback []game.FeedbackSink
	if snd != nil {
		feedback = append(feedback, snd.Feedback)
	}

	ctrl := host.NewController(host.Options{
		Config:   cfg,
		Logger:   log,
		Assets:   lib,
		Feedback: feedback,
		Observer: m,
		Events:   events,
		Seed:     *seed,
		FontPath: *fontPath,
	})

	debug, err := metrics.StartDebugServer(cfg.Debug, metrics.NewDebugRouter(m, ctrl.Engine()), log.Named("debug"))
	if err != nil {
		log.Warn("⚠️ Debug server failed to start", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := desktop.Options{
		Video:      cfg.Video,
		Controller: ctrl,
		Logger:     log.Named("window"),
	}
	if snd != nil {
		opts.Audio = snd
	}

	if err := desktop.Run(ctx, opts); err != nil {
		log.Error("❌ Window failed", zap.Error(err))
	}

	log.Info("Shutting down...")
	if debug != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := debug.Shutdown(shutdownCtx); err != nil {
			log.Warn("⚠️ Debug server shutdown", zap.Error(err))
		}
		cancel()
	}
	log.Info("👋 Bye!", zap.Any("events", events.GetStats()))
}
