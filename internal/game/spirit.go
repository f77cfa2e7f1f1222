package game

import (
	"math"
	"math/rand"
)

// Penalty spirit tuning.
const (
	SpiritEdgeMargin = 200.0
	SpiritAimSpread  = 0.6 // aim inside the central 60% of the viewport
	SpiritFade       = 0.025
	SpiritBatchMin   = 15
	SpiritBatchRange = 10
)

// PenaltySpirit is a spinning sprite that sweeps across the screen after a
// wrong pick.
type PenaltySpirit struct {
	X, Y     float64
	VX, VY   float64
	Rotation float64
	Spin     float64
	Scale    float64
	Opacity  float64
	Life     float64

	name   string
	assets AssetSource
}

// NewPenaltySpirit spawns a spirit off a random edge aimed at the centre region.
func NewPenaltySpirit(rng *rand.Rand, view Viewport, assets AssetSource) *PenaltySpirit {
	w, h := view.Size()
	sp := &PenaltySpirit{
		assets:  assets,
		Opacity: 1,
	}
	if assets != nil {
		sp.name = assets.SpiritName()
	}

	switch Edge(rng.Intn(4)) {
	case EdgeBottom:
		sp.X, sp.Y = rng.Float64()*w, h+SpiritEdgeMargin
	case EdgeTop:
		sp.X, sp.Y = rng.Float64()*w, -SpiritEdgeMargin
	case EdgeLeft:
		sp.X, sp.Y = -SpiritEdgeMargin, rng.Float64()*h
	default:
		sp.X, sp.Y = w+SpiritEdgeMargin, rng.Float64()*h
	}

	tx := w/2 + (rng.Float64()-0.5)*w*SpiritAimSpread
	ty := h/2 + (rng.Float64()-0.5)*h*SpiritAimSpread
	speed := 6 + rng.Float64()*10
	dx, dy := direction(sp.X, sp.Y, tx, ty)
	sp.VX, sp.VY = dx*speed, dy*speed

	sp.Rotation = rng.Float64() * math.Pi * 2
	sp.Spin = (rng.Float64() - 0.5) * 0.2
	sp.Scale = 0.5 + rng.Float64()*0.6
	sp.Life = 1.8 + rng.Float64()
	return sp
}

// SpiritBatchSize rolls the number of spirits for one wrong pick (15-24).
func SpiritBatchSize(rng *rand.Rand) int {
	return SpiritBatchMin + rng.Intn(SpiritBatchRange)
}

// direction returns the unit vector from (x0, y0) to (x1, y1). Coincident
// points yield +x.
func direction(x0, y0, x1, y1 float64) (float64, float64) {
	dx, dy := x1-x0, y1-y0
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return 1, 0
	}
	return dx / dist, dy / dist
}

// Advance moves, spins and ages the spirit.
func (sp *PenaltySpirit) Advance() {
	sp.X += sp.VX
	sp.Y += sp.VY
	sp.Rotation += sp.Spin
	sp.Life -= lifePerTick
	if sp.Life < 1 {
		sp.Opacity -= SpiritFade
	}
}

// Expired reports whether the spirit has faded.
func (sp *PenaltySpirit) Expired() bool {
	return sp.Opacity <= 0
}

// Render draws the spirit sprite once its asset is loaded.
func (sp *PenaltySpirit) Render(s Surface) {
	if sp.Opacity <= 0 || sp.assets == nil {
		return
	}
	a, ok := sp.assets.Lookup(sp.name)
	if !ok || a.Image == nil {
		return
	}
	b := a.Image.Bounds()

	s.Push()
	s.SetAlpha(math.Max(0, sp.Opacity))
	s.Translate(sp.X, sp.Y)
	s.Rotate(sp.Rotation)
	s.Scale(sp.Scale, sp.Scale)
	s.DrawImage(a.Image, b, -float64(b.Dx())/2, -float64(b.Dy())/2)
	s.Pop()
}
