package audio

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"bubble-pop/internal/game"
)

const (
	// SpecialChance is the probability of a special chime on a correct pop.
	SpecialChance = 0.2
	// popEchoDelay separates the two layered pop sounds.
	popEchoDelay = 20 * time.Millisecond
)

// Feedback turns engine notifications into sounds. It stays muted until
// the first level starts.
type Feedback struct {
	mixer *Mixer
	music *MusicPlayer

	mu      sync.Mutex
	rng     *rand.Rand
	enabled bool

	log *zap.Logger
}

// NewFeedback creates the audio sink. music may be nil.
func NewFeedback(mixer *Mixer, music *MusicPlayer, seed int64, log *zap.Logger) *Feedback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Feedback{
		mixer: mixer,
		music: music,
		rng:   rand.New(rand.NewSource(seed)),
		log:   log,
	}
}

// Enabled reports whether audio has been unlocked.
func (f *Feedback) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

// LevelStarted unlocks audio on first use and (re)starts the music loop.
func (f *Feedback) LevelStarted(mode game.GameMode) {
	f.mu.Lock()
	first := !f.enabled
	f.enabled = true
	f.mu.Unlock()

	if first {
		f.log.Info("🔊 Audio enabled", zap.String("mode", mode.String()))
	}
	if f.music != nil {
		f.music.Start()
	}
}

// Popped plays the pop for a tapped sphere. In color-find mode a target
// adds the correct chime and a miss plays only the wrong buzz.
func (f *Feedback) Popped(ev game.PopEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled {
		return
	}

	if ev.Mode == game.ModeColorFind {
		if !ev.IsTarget {
			f.mixer.Queue(SoundWrong, 0, 1)
			return
		}
		f.mixer.Queue(SoundCorrect, 0, 1)
	}

	if ev.IsTarget && f.rng.Float64() < SpecialChance {
		f.mixer.Queue(SpecialSounds[f.rng.Intn(len(SpecialSounds))], 0, 1)
	}

	f.mixer.Queue(SoundPop, 0, 1)
	f.mixer.Queue(SoundPop, popEchoDelay, 1)
}

// PauseChanged pauses the music, and resumes it only while a level runs.
func (f *Feedback) PauseChanged(paused bool, state game.GameState) {
	if f.music == nil || !f.Enabled() {
		return
	}
	if paused {
		f.music.Pause()
		return
	}
	if state == game.StatePlaying {
		f.music.Resume()
	}
}

func (f *Feedback) CharacterSpawned(game.SpeechCue) {}

func (f *Feedback) PenaltySpawned(int) {}
