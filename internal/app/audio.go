package app

import (
	"go.uber.org/zap"

	"bubble-pop/internal/audio"
	"bubble-pop/internal/config"
	"bubble-pop/internal/logging"
)

// Audio bundles the mixer, music, device output and the game feedback sink.
// Output is nil when no device was requested or none could be opened.
type Audio struct {
	Mixer    *audio.Mixer
	Music    *audio.MusicPlayer
	Output   *audio.Output
	Feedback *audio.Feedback
}

// StartAudio builds the audio pipeline. A missing device or music file is
// logged and the game continues silently. It returns nil when audio is
// disabled in cfg.
func StartAudio(cfg config.AudioConfig, openDevice bool, seed int64, log *zap.Logger) *Audio {
	log = logging.OrNop(log).Named("audio")
	if !cfg.Enabled {
		log.Info("🔇 Audio disabled")
		return nil
	}

	mixer := audio.NewMixer(cfg, log)
	music := audio.NewMusicPlayer(cfg.MusicPath, cfg.MusicVolume, mixer.SampleRate(), log)
	mixer.SetMusic(music)

	a := &Audio{
		Mixer:    mixer,
		Music:    music,
		Feedback: audio.NewFeedback(mixer, music, seed, log),
	}

	if openDevice {
		out, err := audio.NewOutput(mixer, mixer.SampleRate(), mixer.Channels(), log)
		if err != nil {
			log.Warn("⚠️ Audio device unavailable, continuing without sound", zap.Error(err))
		} else {
			a.Output = out
		}
	}
	return a
}

// Suspend pauses the device, if any.
func (a *Audio) Suspend() {
	if a != nil && a.Output != nil {
		a.Output.Suspend()
	}
}

// Resume restarts the device, if any.
func (a *Audio) Resume() {
	if a != nil && a.Output != nil {
		a.Output.Resume()
	}
}

// Close releases the device and the music file.
func (a *Audio) Close() {
	if a == nil {
		return
	}
	if a.Output != nil {
		a.Output.Close()
	}
	a.Music.Close()
}
