package game

import (
	"math"
	"math/rand"
)

// PopCharacter timing and layout.
const (
	CharacterBaseScale  = 0.65
	CharacterSheetScale = 1.0
	CharacterGrowStep   = 0.08
	CharacterHoldTicks  = 120
	CharacterLife       = 4.0
	CharacterFade       = 0.04
	CharacterMaxFill    = 0.75 // fraction of the viewport a sprite may cover
	CharacterEdgePad    = 10.0

	lifePerTick     = 1.0 / 60
	bobAmplitude    = 5.0
	bobPhasePerTick = 0.02 * 1000.0 / 60.0
)

// CueKind selects the line spoken when a character appears.
type CueKind uint8

const (
	CueGeneric     CueKind = iota // no label available
	CueNamed                      // speak the character's label
	CueSpriteSheet                // sprite-sheet character
	CueColorFind                  // any character in color-find mode
)

// SpeechCue is passed to the feedback sink when a character spawns.
type SpeechCue struct {
	Kind  CueKind
	Label string
	Mode  GameMode
}

// PopCharacter is the mascot that grows in, holds, then runs off screen.
type PopCharacter struct {
	Name        string
	X, Y        float64
	VX, VY      float64
	YOffset     float64
	Scale       float64
	TargetScale float64
	Rotation    float64
	Opacity     float64
	Life        float64
	Wait        int
	Col, Row    int

	asset     Asset
	ready     bool
	fleeTicks int

	rng    *rand.Rand
	view   Viewport
	assets AssetSource
}

// NewPopCharacter places a random character at (x, y).
func NewPopCharacter(rng *rand.Rand, view Viewport, assets AssetSource, x, y float64) *PopCharacter {
	angle := rng.Float64() * math.Pi * 2
	speed := 6 + rng.Float64()*8

	c := &PopCharacter{
		Name:        pickCharacter(rng, assets),
		X:           x,
		Y:           y,
		VX:          math.Cos(angle) * speed,
		VY:          math.Sin(angle) * speed,
		TargetScale: CharacterBaseScale,
		Rotation:    (rng.Float64() - 0.5) * 0.1,
		Opacity:     1,
		Life:        CharacterLife,
		Wait:        CharacterHoldTicks,
		rng:         rng,
		view:        view,
		assets:      assets,
	}
	c.pickUpAsset()
	return c
}

// pickCharacter prefers assets that have finished loading and falls back to
// any declared name so a late load is still picked up.
func pickCharacter(rng *rand.Rand, assets AssetSource) string {
	if assets == nil {
		return ""
	}
	names := assets.Characters()
	ready := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := assets.Lookup(n); ok {
			ready = append(ready, n)
		}
	}
	if len(ready) > 0 {
		return ready[rng.Intn(len(ready))]
	}
	if len(names) > 0 {
		return names[rng.Intn(len(names))]
	}
	return ""
}

// pickUpAsset binds the sprite once it is ready and fits it to the viewport.
func (c *PopCharacter) pickUpAsset() {
	if c.ready || c.assets == nil || c.Name == "" {
		return
	}
	a, ok := c.assets.Lookup(c.Name)
	if !ok || a.Image == nil {
		return
	}
	c.asset = a
	c.ready = true
	if a.Grid != nil && a.Grid.Cols > 0 && a.Grid.Rows > 0 {
		c.Col = c.rng.Intn(a.Grid.Cols)
		c.Row = c.rng.Intn(a.Grid.Rows)
		c.TargetScale = CharacterSheetScale
	}
	c.fit()
	if c.Scale > c.TargetScale {
		c.Scale = c.TargetScale
	}
}

// fit caps the target scale to CharacterMaxFill of the viewport and moves the
// character so the whole sprite is on screen.
func (c *PopCharacter) fit() {
	w, h := c.view.Size()
	nw, nh := c.asset.CellSize()
	if nw <= 0 || nh <= 0 {
		return
	}

	maxW, maxH := w*CharacterMaxFill, h*CharacterMaxFill
	curW, curH := nw*c.TargetScale, nh*c.TargetScale
	if curW > maxW || curH > maxH {
		c.TargetScale *= math.Min(maxW/curW, maxH/curH)
		curW, curH = nw*c.TargetScale, nh*c.TargetScale
	}

	halfW, halfH := curW/2, curH/2
	if c.X-halfW < 0 {
		c.X = halfW + CharacterEdgePad
	}
	if c.X+halfW > w {
		c.X = w - halfW - CharacterEdgePad
	}
	if c.Y-halfH < 0 {
		c.Y = halfH + CharacterEdgePad
	}
	if c.Y+halfH > h {
		c.Y = h - halfH - CharacterEdgePad
	}
}

// Cue returns the speech cue for this character in mode.
func (c *PopCharacter) Cue(mode GameMode) SpeechCue {
	switch {
	case mode == ModeColorFind:
		return SpeechCue{Kind: CueColorFind, Mode: mode}
	case c.ready && c.asset.Grid != nil:
		return SpeechCue{Kind: CueSpriteSheet, Mode: mode}
	case c.ready && c.asset.Label != "":
		return SpeechCue{Kind: CueNamed, Label: c.asset.Label, Mode: mode}
	default:
		return SpeechCue{Kind: CueGeneric, Mode: mode}
	}
}

// Ready reports whether the sprite has been bound.
func (c *PopCharacter) Ready() bool { return c.ready }

// Advance runs the grow-in, hold and flee phases.
func (c *PopCharacter) Advance() {
	c.pickUpAsset()

	if c.Scale < c.TargetScale {
		c.Scale = math.Min(c.Scale+CharacterGrowStep, c.TargetScale)
	}

	if c.Wait > 0 {
		c.Wait--
	} else {
		c.X += c.VX
		c.Y += c.VY
		c.fleeTicks++
		c.YOffset = math.Sin(float64(c.fleeTicks)*bobPhasePerTick) * bobAmplitude
		c.Life -= lifePerTick
	}

	if c.Life < 1 {
		c.Opacity -= CharacterFade
	}
}

// Expired reports whether the character has fully faded.
func (c *PopCharacter) Expired() bool {
	return c.Opacity <= 0
}

// Render draws the sprite (or its sheet cell) centred on the character.
func (c *PopCharacter) Render(s Surface) {
	if c.Opacity <= 0 || !c.ready {
		return
	}
	src := c.asset.Cell(c.Col, c.Row)

	s.Push()
	s.SetAlpha(math.Max(0, c.Opacity))
	s.Translate(c.X, c.Y+c.YOffset)
	s.Rotate(c.Rotation)
	s.Scale(c.Scale, c.Scale)
	s.DrawImage(c.asset.Image, src, -float64(src.Dx())/2, -float64(src.Dy())/2)
	s.Pop()
}
