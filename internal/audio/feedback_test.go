package audio

import (
	"testing"

	"bubble-pop/internal/game"
)

func drain(m *Mixer) []Sound {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sound, len(m.active))
	for i, s := range m.active {
		out[i] = s.sound
	}
	m.active = nil
	return out
}

func count(sounds []Sound, want Sound) int {
	n := 0
	for _, s := range sounds {
		if s == want {
			n++
		}
	}
	return n
}

// TestFeedbackMutedBeforeFirstLevel verifies pops are silent until audio is unlocked
func TestFeedbackMutedBeforeFirstLevel(t *testing.T) {
	m := newTestMixer(t, 2)
	f := NewFeedback(m, nil, 1, nil)

	f.Popped(game.PopEvent{IsTarget: true})
	if got := drain(m); len(got) != 0 {
		t.Fatalf("queued %v before audio was enabled", got)
	}

	f.LevelStarted(game.ModeNormal)
	if !f.Enabled() {
		t.Fatal("level start did not enable audio")
	}
}

// TestFeedbackPopSounds checks the per-mode sound selection
func TestFeedbackPopSounds(t *testing.T) {
	tests := []struct {
		name        string
		ev          game.PopEvent
		wantPops    int
		wantCorrect int
		wantWrong   int
	}{
		{"normal pop", game.PopEvent{IsTarget: true, Mode: game.ModeNormal}, 2, 0, 0},
		{"color-find correct", game.PopEvent{IsTarget: true, Mode: game.ModeColorFind}, 2, 1, 0},
		{"color-find wrong", game.PopEvent{IsTarget: false, Mode: game.ModeColorFind}, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMixer(t, 2)
			f := NewFeedback(m, nil, 7, nil)
			f.LevelStarted(tt.ev.Mode)

			f.Popped(tt.ev)
			got := drain(m)
			if n := count(got, SoundPop); n != tt.wantPops {
				t.Errorf("pops %d, want %d (%v)", n, tt.wantPops, got)
			}
			if n := count(got, SoundCorrect); n != tt.wantCorrect {
				t.Errorf("correct %d, want %d", n, tt.wantCorrect)
			}
			if n := count(got, SoundWrong); n != tt.wantWrong {
				t.Errorf("wrong %d, want %d", n, tt.wantWrong)
			}
		})
	}
}

// TestFeedbackDoublePopDelay verifies the second pop is offset by 20ms
func TestFeedbackDoublePopDelay(t *testing.T) {
	m := newTestMixer(t, 2)
	f := NewFeedback(m, nil, 3, nil)
	f.LevelStarted(game.ModeNormal)
	f.Popped(game.PopEvent{IsTarget: true})

	m.mu.Lock()
	defer m.mu.Unlock()
	var delays []int
	for _, s := range m.active {
		if s.sound == SoundPop {
			delays = append(delays, s.delay)
		}
	}
	if len(delays) != 2 || delays[0] != 0 || delays[1] != 882 {
		t.Errorf("pop delays %v, want [0 882]", delays)
	}
}

// TestFeedbackSpecialChance verifies roughly one in five correct pops chimes
func TestFeedbackSpecialChance(t *testing.T) {
	m := newTestMixer(t, 2)
	f := NewFeedback(m, nil, 42, nil)
	f.LevelStarted(game.ModeNormal)

	const trials = 2000
	specials := 0
	for i := 0; i < trials; i++ {
		f.Popped(game.PopEvent{IsTarget: true})
		for _, s := range drain(m) {
			if s >= SoundSpecialKawaii {
				specials++
			}
		}
	}
	if rate := float64(specials) / trials; rate < 0.15 || rate > 0.25 {
		t.Errorf("special rate %.3f, want ~0.2", rate)
	}
}

// TestFeedbackMusicFollowsPause verifies the loop pauses and only resumes in play
func TestFeedbackMusicFollowsPause(t *testing.T) {
	m := newTestMixer(t, 2)
	mp := newMusicFromStream(constantStream(t, 0.5, 100), testFormat, 0.1, 44100, nil)
	f := NewFeedback(m, mp, 1, nil)

	f.PauseChanged(false, game.StatePlaying)
	if mp.Playing() {
		t.Fatal("music started before audio was enabled")
	}

	f.LevelStarted(game.ModeNormal)
	if !mp.Playing() {
		t.Fatal("music not started with the level")
	}

	f.PauseChanged(true, game.StatePlaying)
	if mp.Playing() {
		t.Error("music playing while paused")
	}
	f.PauseChanged(false, game.StateMenu)
	if mp.Playing() {
		t.Error("music resumed in the menu")
	}
	f.PauseChanged(false, game.StatePlaying)
	if !mp.Playing() {
		t.Error("music not resumed in play")
	}
}
