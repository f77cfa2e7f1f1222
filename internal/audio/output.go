package audio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"go.uber.org/zap"
)

// deviceReadyTimeout bounds the wait for the platform audio device.
const deviceReadyTimeout = 3 * time.Second

// Output plays a PCM source on the default audio device.
type Output struct {
	ctx    *oto.Context
	player oto.Player
	log    *zap.Logger
}

// NewOutput opens the device for signed 16-bit stereo/mono PCM and starts
// pulling from src. Only one Output may exist per process.
func NewOutput(src io.Reader, sampleRate, channels int, log *zap.Logger) (*Output, error) {
	if log == nil {
		log = zap.NewNop()
	}

	ctx, ready, err := oto.NewContext(sampleRate, channels, oto.FormatSignedInt16LE)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(deviceReadyTimeout):
		return nil, errors.New("audio device not ready")
	}

	player := ctx.NewPlayer(src)
	player.Play()

	log.Info("🔊 Audio output started",
		zap.Int("sample_rate", sampleRate),
		zap.Int("channels", channels))
	return &Output{ctx: ctx, player: player, log: log}, nil
}

// Suspend pauses the device, e.g. while the window is iconified.
func (o *Output) Suspend() {
	if err := o.ctx.Suspend(); err != nil {
		o.log.Warn("⚠️ Audio suspend failed", zap.Error(err))
	}
}

// Resume restarts a suspended device.
func (o *Output) Resume() {
	if err := o.ctx.Resume(); err != nil {
		o.log.Warn("⚠️ Audio resume failed", zap.Error(err))
	}
}

// Close stops playback.
func (o *Output) Close() error {
	if err := o.player.Err(); err != nil {
		o.log.Warn("⚠️ Audio player reported an error", zap.Error(err))
	}
	return o.player.Close()
}
