package game

import (
	"testing"
)

// TestCharacterGrowsToTarget verifies scale increases strictly until it reaches the target
func TestCharacterGrowsToTarget(t *testing.T) {
	assets := newMapAssets()
	assets.add(sprite("hero", 200, 200), true)
	c := NewPopCharacter(newRNG(1), FixedViewport{W: 800, H: 600}, assets, 400, 300)

	if c.TargetScale != CharacterBaseScale {
		t.Fatalf("target scale %.2f, want %.2f", c.TargetScale, CharacterBaseScale)
	}

	prev := c.Scale
	for i := 0; i < 20; i++ {
		c.Advance()
		if c.Scale < c.TargetScale && c.Scale <= prev {
			t.Fatalf("scale did not increase at tick %d: %.3f -> %.3f", i, prev, c.Scale)
		}
		if c.Scale > c.TargetScale {
			t.Fatalf("scale overshot: %.3f > %.3f", c.Scale, c.TargetScale)
		}
		prev = c.Scale
	}
	if c.Scale != c.TargetScale {
		t.Errorf("scale %.3f never reached target %.3f", c.Scale, c.TargetScale)
	}
}

// TestCharacterFitsViewport verifies the sprite is scaled into 75% of the view and kept on screen
func TestCharacterFitsViewport(t *testing.T) {
	view := FixedViewport{W: 800, H: 600}

	tests := []struct {
		name string
		w, h int
		x, y float64
	}{
		{"small near left edge", 100, 100, 5, 300},
		{"small near bottom right", 100, 100, 795, 595},
		{"huge sprite", 4000, 3000, 400, 300},
		{"tall sprite at top", 200, 2000, 400, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets := newMapAssets()
			assets.add(sprite("hero", tt.w, tt.h), true)
			c := NewPopCharacter(newRNG(2), view, assets, tt.x, tt.y)

			curW := float64(tt.w) * c.TargetScale
			curH := float64(tt.h) * c.TargetScale
			if curW > view.W*0.75+1e-9 || curH > view.H*0.75+1e-9 {
				t.Errorf("sprite %.1fx%.1f exceeds 75%% of viewport", curW, curH)
			}
			if c.X-curW/2 < 0 || c.X+curW/2 > view.W {
				t.Errorf("x=%.1f leaves sprite off screen (half width %.1f)", c.X, curW/2)
			}
			if c.Y-curH/2 < 0 || c.Y+curH/2 > view.H {
				t.Errorf("y=%.1f leaves sprite off screen (half height %.1f)", c.Y, curH/2)
			}
		})
	}
}

// TestCharacterSpriteSheet verifies grid assets pick a cell and use full scale
func TestCharacterSpriteSheet(t *testing.T) {
	assets := newMapAssets()
	a := sprite("sheet", 280, 240)
	a.Grid = &Grid{Cols: 7, Rows: 8}
	assets.add(a, true)

	for seed := int64(0); seed < 30; seed++ {
		c := NewPopCharacter(newRNG(seed), FixedViewport{W: 1280, H: 720}, assets, 640, 360)
		if c.TargetScale != CharacterSheetScale {
			t.Fatalf("sheet target scale %.2f, want 1", c.TargetScale)
		}
		if c.Col < 0 || c.Col >= 7 || c.Row < 0 || c.Row >= 8 {
			t.Fatalf("cell (%d,%d) outside 7x8 grid", c.Col, c.Row)
		}
	}

	c := NewPopCharacter(newRNG(5), FixedViewport{W: 1280, H: 720}, assets, 640, 360)
	c.Opacity = 1
	surf := &recordSurface{}
	c.Render(surf)
	if surf.images != 1 {
		t.Fatalf("expected one blit, got %d", surf.images)
	}
	if surf.lastSrc.Dx() != 40 || surf.lastSrc.Dy() != 30 {
		t.Errorf("cell size %v, want 40x30", surf.lastSrc.Size())
	}
	if surf.lastDest != [2]float64{-20, -15} {
		t.Errorf("blit origin %v, want centred", surf.lastDest)
	}
}

// TestCharacterCue verifies speech line selection
func TestCharacterCue(t *testing.T) {
	named := sprite("named", 50, 50)
	named.Label = "Hero"
	sheet := sprite("sheet", 40, 40)
	sheet.Grid = &Grid{Cols: 4, Rows: 4}
	plain := sprite("plain", 50, 50)

	tests := []struct {
		name  string
		asset Asset
		ready bool
		mode  GameMode
		want  SpeechCue
	}{
		{"color find wins", named, true, ModeColorFind, SpeechCue{Kind: CueColorFind, Mode: ModeColorFind}},
		{"sprite sheet", sheet, true, ModeNormal, SpeechCue{Kind: CueSpriteSheet}},
		{"named", named, true, ModeNormal, SpeechCue{Kind: CueNamed, Label: "Hero"}},
		{"unlabelled", plain, true, ModeNormal, SpeechCue{Kind: CueGeneric}},
		{"not loaded", named, false, ModeNormal, SpeechCue{Kind: CueGeneric}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets := newMapAssets()
			assets.add(tt.asset, tt.ready)
			c := NewPopCharacter(newRNG(1), FixedViewport{W: 800, H: 600}, assets, 100, 100)
			if got := c.Cue(tt.mode); got != tt.want {
				t.Errorf("Cue() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestCharacterLazyAsset verifies an unready sprite renders nothing and is picked up later
func TestCharacterLazyAsset(t *testing.T) {
	assets := newMapAssets()
	assets.add(sprite("late", 60, 60), false)
	c := NewPopCharacter(newRNG(1), FixedViewport{W: 800, H: 600}, assets, 100, 100)

	surf := &recordSurface{}
	c.Advance()
	c.Render(surf)
	if surf.images != 0 || c.Ready() {
		t.Fatal("unready asset should not render")
	}

	assets.setReady("late")
	c.Advance()
	c.Render(surf)
	if !c.Ready() || surf.images != 1 {
		t.Fatal("asset was not picked up once ready")
	}
}

// TestCharacterLifecycle verifies hold, flee and fade
func TestCharacterLifecycle(t *testing.T) {
	assets := newMapAssets()
	assets.add(sprite("hero", 50, 50), true)
	c := NewPopCharacter(newRNG(9), FixedViewport{W: 800, H: 600}, assets, 400, 300)
	x0, y0 := c.X, c.Y

	for i := 0; i < CharacterHoldTicks; i++ {
		c.Advance()
	}
	if c.X != x0 || c.Y != y0 {
		t.Fatal("character moved during hold")
	}
	if c.Life != CharacterLife {
		t.Fatal("life drained during hold")
	}

	c.Advance()
	if c.X == x0 && c.Y == y0 {
		t.Fatal("character did not flee after hold")
	}

	ticks := 0
	for !c.Expired() {
		c.Advance()
		ticks++
		if ticks > 1000 {
			t.Fatal("character never expired")
		}
		if c.YOffset < -bobAmplitude || c.YOffset > bobAmplitude {
			t.Fatalf("bob offset %.2f out of range", c.YOffset)
		}
	}
	// 3 life units at 1/60 per tick, then 25 ticks of fade
	if ticks < 170 || ticks > 210 {
		t.Errorf("flee lasted %d ticks, want about 205", ticks)
	}
}

// TestPickCharacterPrefersReady verifies unready assets are skipped when any is ready
func TestPickCharacterPrefersReady(t *testing.T) {
	assets := newMapAssets()
	assets.add(sprite("a", 10, 10), false)
	assets.add(sprite("b", 10, 10), true)
	assets.add(sprite("c", 10, 10), false)

	rng := newRNG(4)
	for i := 0; i < 50; i++ {
		if got := pickCharacter(rng, assets); got != "b" {
			t.Fatalf("picked %q, want b", got)
		}
	}
	if got := pickCharacter(rng, nil); got != "" {
		t.Errorf("nil source picked %q", got)
	}
}
