package game

import "time"

// PopEvent reports a popped sphere to the feedback sink.
type PopEvent struct {
	X, Y     float64
	Hue      float64
	IsTarget bool
	Mode     GameMode
}

// FeedbackSink receives fire-and-forget notifications for audio and speech.
// Calls are made outside the engine lock.
type FeedbackSink interface {
	Popped(ev PopEvent)
	CharacterSpawned(cue SpeechCue)
	PenaltySpawned(count int)
	LevelStarted(mode GameMode)
	PauseChanged(paused bool, state GameState)
}

// NopFeedback ignores every notification.
type NopFeedback struct{}

func (NopFeedback) Popped(PopEvent)              {}
func (NopFeedback) CharacterSpawned(SpeechCue)   {}
func (NopFeedback) PenaltySpawned(int)           {}
func (NopFeedback) LevelStarted(GameMode)        {}
func (NopFeedback) PauseChanged(bool, GameState) {}

// Feedbacks fans every notification out to each sink in order.
type Feedbacks []FeedbackSink

func (fs Feedbacks) Popped(ev PopEvent) {
	for _, f := range fs {
		f.Popped(ev)
	}
}

func (fs Feedbacks) CharacterSpawned(cue SpeechCue) {
	for _, f := range fs {
		f.CharacterSpawned(cue)
	}
}

func (fs Feedbacks) PenaltySpawned(count int) {
	for _, f := range fs {
		f.PenaltySpawned(count)
	}
}

func (fs Feedbacks) LevelStarted(mode GameMode) {
	for _, f := range fs {
		f.LevelStarted(mode)
	}
}

func (fs Feedbacks) PauseChanged(paused bool, state GameState) {
	for _, f := range fs {
		f.PauseChanged(paused, state)
	}
}

// Observer receives engine metrics.
type Observer interface {
	FrameRendered(d time.Duration, c Counts)
	SpherePopped(target bool)
	RenderRecovered(kind string)
}

type nopObserver struct{}

func (nopObserver) FrameRendered(time.Duration, Counts) {}
func (nopObserver) SpherePopped(bool)                   {}
func (nopObserver) RenderRecovered(string)              {}
