package game

import "testing"

// TestFeedbacksFanOut verifies every sink sees every notification
func TestFeedbacksFanOut(t *testing.T) {
	a, b := &recordFeedback{}, &recordFeedback{}
	fs := Feedbacks{a, b}

	fs.LevelStarted(ModeColorFind)
	fs.Popped(PopEvent{IsTarget: true})
	fs.CharacterSpawned(SpeechCue{Kind: CueNamed, Label: "x"})
	fs.PenaltySpawned(17)
	fs.PauseChanged(true, StatePlaying)

	for i, f := range []*recordFeedback{a, b} {
		if len(f.levels) != 1 || len(f.pops) != 1 || len(f.cues) != 1 || len(f.penalties) != 1 || len(f.pauses) != 1 {
			t.Errorf("sink %d missed notifications: %+v", i, f)
		}
	}
}

// TestEngineFansOutToSinks verifies the engine accepts a composed sink
func TestEngineFansOutToSinks(t *testing.T) {
	a, b := &recordFeedback{}, &recordFeedback{}
	e := NewEngine(Options{Viewport: FixedViewport{W: 400, H: 400}, Feedback: Feedbacks{a, b}, Seed: 1})
	e.StartLevel(ModeNormal)
	if len(a.levels) != 1 || len(b.levels) != 1 {
		t.Fatalf("level start not fanned out: %v %v", a.levels, b.levels)
	}
}
