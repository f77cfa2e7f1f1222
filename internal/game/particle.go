package game

import (
	"image/color"
	"math"
	"math/rand"
)

// Particle burst tuning.
const (
	BurstSize       = 20
	ParticleGravity = 0.2
	ParticleDamping = 0.98
)

// Particle is a short-lived confetti dot.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Color  color.Color
	Life   float64
	Decay  float64
}

// NewParticle launches a particle from (x, y) in a random direction.
func NewParticle(rng *rand.Rand, x, y float64, c color.Color) *Particle {
	angle := rng.Float64() * math.Pi * 2
	force := rng.Float64()*12 + 4
	return &Particle{
		X:      x,
		Y:      y,
		VX:     math.Cos(angle) * force,
		VY:     math.Sin(angle) * force,
		Radius: rng.Float64()*6 + 3,
		Color:  c,
		Life:   1.0,
		Decay:  0.015 + rng.Float64()*0.02,
	}
}

// Burst returns BurstSize particles colored from hue.
func Burst(rng *rand.Rand, x, y, hue float64) []*Particle {
	c := VividColor(hue)
	out := make([]*Particle, BurstSize)
	for i := range out {
		out[i] = NewParticle(rng, x, y, c)
	}
	return out
}

// Advance moves the particle and applies gravity and drag.
func (p *Particle) Advance() {
	p.X += p.VX
	p.Y += p.VY
	p.Life -= p.Decay
	p.VY += ParticleGravity
	p.VX *= ParticleDamping
}

// Expired reports whether the particle has faded out.
func (p *Particle) Expired() bool {
	return p.Life <= 0
}

// Render draws the particle with its remaining life as alpha.
func (p *Particle) Render(s Surface) {
	if p.Life <= 0 {
		return
	}
	s.Push()
	s.SetAlpha(p.Life)
	s.FillCircle(p.X, p.Y, p.Radius, p.Color)
	s.Pop()
}
