// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for window, audio, asset and limit settings.
//
// Values are resolved in three layers: built-in defaults, an optional TOML
// file, then environment variables (POP_*). Hosts load .env before calling Load.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// VIDEO & CANVAS CONFIGURATION
// =============================================================================

// VideoConfig holds window and canvas settings.
type VideoConfig struct {
	Width      int    `toml:"width"`  // Canvas width in pixels
	Height     int    `toml:"height"` // Canvas height in pixels
	FPS        int    `toml:"fps"`    // Tick rate for the headless runner
	VSync      bool   `toml:"vsync"`
	Fullscreen bool   `toml:"fullscreen"`
	Title      string `toml:"title"`
}

// DefaultVideo returns the default video configuration.
func DefaultVideo() VideoConfig {
	return VideoConfig{
		Width:  1280,
		Height: 720,
		FPS:    60,
		VSync:  true,
		Title:  "Bubble Pop",
	}
}

// =============================================================================
// GAME RESOURCE LIMITS
// =============================================================================

// ResourceLimits caps the entity collections so a tap storm cannot grow them
// without bound. Zero means the default.
type ResourceLimits struct {
	MaxSpheres    int `toml:"max_spheres"`
	MaxParticles  int `toml:"max_particles"`
	MaxCharacters int `toml:"max_characters"`
	MaxSpirits    int `toml:"max_spirits"`
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxSpheres:    64,
		MaxParticles:  600,
		MaxCharacters: 24,
		MaxSpirits:    120,
	}
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds mixer and device settings.
type AudioConfig struct {
	Enabled     bool    `toml:"enabled"`
	SampleRate  int     `toml:"sample_rate"`
	Channels    int     `toml:"channels"`
	MusicPath   string  `toml:"music_path"`
	MusicVolume float64 `toml:"music_volume"` // 0.0-1.0, background loop
	SFXVolume   float64 `toml:"sfx_volume"`   // 0.0-1.0, pops and chimes
}

// DefaultAudio returns the default audio configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{
		Enabled:     true,
		SampleRate:  44100,
		Channels:    2,
		MusicPath:   "assets/sounds/bgm.ogg",
		MusicVolume: 0.1,
		SFXVolume:   0.5,
	}
}

// =============================================================================
// ASSET & SPEECH CONFIGURATION
// =============================================================================

// AssetConfig locates character images and their manifest.
type AssetConfig struct {
	Dir      string `toml:"dir"`
	Manifest string `toml:"manifest"` // Relative to Dir; empty uses the built-in table
	Workers  int    `toml:"workers"`  // Concurrent decoders
}

// DefaultAssets returns the default asset configuration.
func DefaultAssets() AssetConfig {
	return AssetConfig{
		Dir:      "assets/images",
		Manifest: "",
		Workers:  4,
	}
}

// SpeechConfig selects the caption/voice language.
type SpeechConfig struct {
	Language string `toml:"language"` // BCP 47 tag, e.g. "ja-JP"
}

// DefaultSpeech returns the default speech configuration.
func DefaultSpeech() SpeechConfig {
	return SpeechConfig{Language: "ja-JP"}
}

// =============================================================================
// LOGGING & DEBUG CONFIGURATION
// =============================================================================

// LoggingConfig selects log level and encoder.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // "json" or "console"
}

// DefaultLogging returns the default logging configuration.
func DefaultLogging() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "console"}
}

// DebugConfig configures the local observability server.
type DebugConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"` // Forced to localhost
}

// DefaultDebug returns safe defaults (disabled, localhost).
func DefaultDebug() DebugConfig {
	return DebugConfig{
		Enabled:    false,
		ListenAddr: "127.0.0.1:6060",
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Video   VideoConfig    `toml:"video"`
	Audio   AudioConfig    `toml:"audio"`
	Assets  AssetConfig    `toml:"assets"`
	Speech  SpeechConfig   `toml:"speech"`
	Logging LoggingConfig  `toml:"logging"`
	Debug   DebugConfig    `toml:"debug"`
	Limits  ResourceLimits `toml:"limits"`
}

// Default returns the complete built-in configuration.
func Default() AppConfig {
	return AppConfig{
		Video:   DefaultVideo(),
		Audio:   DefaultAudio(),
		Assets:  DefaultAssets(),
		Speech:  DefaultSpeech(),
		Logging: DefaultLogging(),
		Debug:   DefaultDebug(),
		Limits:  DefaultLimits(),
	}
}

// Load resolves defaults, then the TOML file at path (skipped when path is
// empty or the file does not exist), then environment overrides.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// optional file
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c AppConfig) Validate() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Video.Width, c.Video.Height)
	}
	if c.Video.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.Video.FPS)
	}
	if c.Audio.MusicVolume < 0 || c.Audio.MusicVolume > 1 {
		return fmt.Errorf("music volume %.2f out of range", c.Audio.MusicVolume)
	}
	if c.Audio.SFXVolume < 0 || c.Audio.SFXVolume > 1 {
		return fmt.Errorf("sfx volume %.2f out of range", c.Audio.SFXVolume)
	}
	l := c.Limits
	if l.MaxSpheres < 0 || l.MaxParticles < 0 || l.MaxCharacters < 0 || l.MaxSpirits < 0 {
		return fmt.Errorf("negative resource limit %+v", l)
	}
	return nil
}

// applyEnv overlays POP_* environment variables. Environment wins over file.
func applyEnv(cfg *AppConfig) {
	if w := getEnvInt("POP_WIDTH", 0); w > 0 {
		cfg.Video.Width = w
	}
	if h := getEnvInt("POP_HEIGHT", 0); h > 0 {
		cfg.Video.Height = h
	}
	if fps := getEnvInt("POP_FPS", 0); fps > 0 {
		cfg.Video.FPS = fps
	}
	if v, ok := getEnvBool("POP_FULLSCREEN"); ok {
		cfg.Video.Fullscreen = v
	}

	if v, ok := getEnvBool("POP_AUDIO_ENABLED"); ok {
		cfg.Audio.Enabled = v
	}
	if v := getEnvFloat("POP_MUSIC_VOLUME", -1); v >= 0 {
		cfg.Audio.MusicVolume = v
	}
	if v := getEnvFloat("POP_SFX_VOLUME", -1); v >= 0 {
		cfg.Audio.SFXVolume = v
	}
	if p := os.Getenv("POP_MUSIC_PATH"); p != "" {
		cfg.Audio.MusicPath = p
	}

	if d := os.Getenv("POP_ASSET_DIR"); d != "" {
		cfg.Assets.Dir = d
	}
	if m := os.Getenv("POP_ASSET_MANIFEST"); m != "" {
		cfg.Assets.Manifest = m
	}
	if l := os.Getenv("POP_LANGUAGE"); l != "" {
		cfg.Speech.Language = l
	}

	if l := os.Getenv("POP_LOG_LEVEL"); l != "" {
		cfg.Logging.Level = l
	}
	if f := os.Getenv("POP_LOG_FORMAT"); f != "" {
		cfg.Logging.Format = f
	}

	if v, ok := getEnvBool("POP_DEBUG"); ok {
		cfg.Debug.Enabled = v
	}
	if a := os.Getenv("POP_DEBUG_ADDR"); a != "" {
		cfg.Debug.ListenAddr = a
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string) (bool, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
