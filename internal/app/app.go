// Package app holds the start-up steps shared by the commands: environment,
// configuration, logging and asset loading.
package app

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bubble-pop/internal/assets"
	"bubble-pop/internal/config"
	"bubble-pop/internal/logging"
)

// Bootstrap loads .env (from the parent directory or the working directory),
// the config file at path and builds the logger it describes.
func Bootstrap(path string) (config.AppConfig, *zap.Logger, error) {
	envLoaded := godotenv.Load("../.env") == nil || godotenv.Load(".env") == nil

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return cfg, nil, fmt.Errorf("logger: %w", err)
	}
	if !envLoaded {
		log.Debug("No .env file found, using environment variables")
	}
	return cfg, log, nil
}

// LoadAssets starts decoding the images under cfg.Dir. When placeholders is
// set, entries that fail are replaced with generated sprites once loading
// settles. The returned channel closes at that point.
func LoadAssets(cfg config.AssetConfig, placeholders bool, log *zap.Logger) (*assets.Library, <-chan struct{}, error) {
	log = logging.OrNop(log)
	fsys := os.DirFS(cfg.Dir)

	m := assets.DefaultManifest()
	if cfg.Manifest != "" {
		loaded, err := assets.LoadManifest(fsys, cfg.Manifest)
		if err != nil {
			return nil, nil, err
		}
		m = loaded
	}

	lib := assets.NewLibrary(fsys, m, cfg.Workers, log.Named("assets"))
	lib.Load()

	done := make(chan struct{})
	go func() {
		defer close(done)
		lib.Wait()
		if placeholders {
			if filled := lib.FillPlaceholders(); len(filled) > 0 {
				log.Warn("⚠️ Using placeholder sprites", zap.Strings("names", filled))
			}
		}
		ready, failed, _ := lib.Stats()
		log.Info("🖼️ Assets loaded", zap.Int("ready", ready), zap.Int("failed", failed), zap.String("dir", cfg.Dir))
	}()
	return lib, done, nil
}
