package game

import (
	"math"
	"math/rand"
)

// Sphere spawn and lifetime constants.
const (
	SphereMinRadius   = 45.0
	SphereRadiusRange = 35.0
	TargetChance      = 0.3   // color-find: probability a new sphere carries the target hue
	CullMargin        = 300.0 // distance past an edge before a sphere is dropped
	HitPadding        = 25.0  // tap tolerance added to the radius

	sphereMinSpeed   = 2.0
	sphereSpeedRange = 3.0
	outlineWidth     = 4.0
)

// Edge identifies a canvas side.
type Edge uint8

const (
	EdgeBottom Edge = iota
	EdgeTop
	EdgeLeft
	EdgeRight
)

// Sphere is a tappable ball.
type Sphere struct {
	X, Y     float64
	VX, VY   float64
	Radius   float64
	Hue      float64
	IsTarget bool

	view Viewport
}

// NewSphere rolls a sphere just outside a random edge, heading inward.
func NewSphere(rng *rand.Rand, view Viewport, mode GameMode, targetHue float64) *Sphere {
	s := &Sphere{
		Radius:   SphereMinRadius + rng.Float64()*SphereRadiusRange,
		Hue:      rng.Float64() * 360,
		IsTarget: true,
		view:     view,
	}

	if mode == ModeColorFind {
		if rng.Float64() < TargetChance {
			s.Hue = targetHue
		} else {
			s.IsTarget = false
		}
	}

	w, h := view.Size()
	margin := s.Radius * 2
	inward := sphereMinSpeed + rng.Float64()*sphereSpeedRange

	switch Edge(rng.Intn(4)) {
	case EdgeBottom:
		s.X = rng.Float64()*(w-margin) + s.Radius
		s.Y = h + s.Radius
		s.VX = (rng.Float64() - 0.5) * 2
		s.VY = -inward
	case EdgeTop:
		s.X = rng.Float64()*(w-margin) + s.Radius
		s.Y = -s.Radius
		s.VX = (rng.Float64() - 0.5) * 2
		s.VY = inward
	case EdgeLeft:
		s.X = -s.Radius
		s.Y = rng.Float64()*(h-margin) + s.Radius
		s.VX = inward
		s.VY = (rng.Float64() - 0.5) * 2
	default:
		s.X = w + s.Radius
		s.Y = rng.Float64()*(h-margin) + s.Radius
		s.VX = -inward
		s.VY = (rng.Float64() - 0.5) * 2
	}

	return s
}

// Advance integrates one tick and bounces off the canvas edges. A component
// is only negated while it still points outward, so a sphere resting on an
// edge never flips twice.
func (s *Sphere) Advance() {
	s.X += s.VX
	s.Y += s.VY

	w, h := s.view.Size()
	if s.X-s.Radius < 0 && s.VX < 0 {
		s.VX = -s.VX
	}
	if s.X+s.Radius > w && s.VX > 0 {
		s.VX = -s.VX
	}
	if s.Y-s.Radius < 0 && s.VY < 0 {
		s.VY = -s.VY
	}
	if s.Y+s.Radius > h && s.VY > 0 {
		s.VY = -s.VY
	}
}

// Expired reports whether the sphere drifted past the cull margin.
func (s *Sphere) Expired() bool {
	w, h := s.view.Size()
	return s.X < -CullMargin || s.X > w+CullMargin ||
		s.Y < -CullMargin || s.Y > h+CullMargin
}

// Contains reports whether a tap at (x, y) hits the sphere.
func (s *Sphere) Contains(x, y float64) bool {
	return math.Hypot(x-s.X, y-s.Y) < s.Radius+HitPadding
}

// Render draws the body, a white outline and a highlight.
func (s *Sphere) Render(surf Surface) {
	if s.IsTarget {
		surf.FillCircle(s.X, s.Y, s.Radius, VividColor(s.Hue))
	} else {
		surf.FillCircle(s.X, s.Y, s.Radius, MutedColor(s.Hue))
	}
	surf.StrokeCircle(s.X, s.Y, s.Radius, outlineWidth, sphereOutline)
	surf.FillCircle(s.X-s.Radius*0.3, s.Y-s.Radius*0.3, s.Radius*0.25, sphereShine)
}
