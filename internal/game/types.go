package game

import (
	"image"
	"math"

	"bubble-pop/internal/config"
)

// GameState is the top-level screen state.
type GameState uint8

const (
	StateMenu GameState = iota
	StatePlaying
)

// String returns human-readable state
func (s GameState) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// GameMode selects the rules for a level.
type GameMode uint8

const (
	// ModeNormal: every sphere is a target.
	ModeNormal GameMode = iota
	// ModeColorFind: only spheres matching the target hue are rewarded.
	ModeColorFind
)

// String returns human-readable mode
func (m GameMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeColorFind:
		return "color_find"
	default:
		return "unknown"
	}
}

// Point is a canvas-local coordinate.
type Point struct {
	X, Y float64
}

// Viewport reports the current canvas size. It is read every frame.
type Viewport interface {
	Size() (w, h float64)
}

// FixedViewport is a Viewport with constant dimensions.
type FixedViewport struct {
	W, H float64
}

// Size implements Viewport.
func (v FixedViewport) Size() (float64, float64) { return v.W, v.H }

// Entity is the per-kind simulation contract driven by the Engine.
// Render must not mutate simulation state.
type Entity interface {
	Advance()
	Render(s Surface)
	Expired() bool
}

// Counts is a snapshot of collection sizes.
type Counts struct {
	Spheres    int
	Particles  int
	Characters int
	Spirits    int
}

// Grid describes a sprite sheet layout.
type Grid struct {
	Cols int
	Rows int
}

// Asset is a processed, read-only sprite.
type Asset struct {
	Name  string
	Image image.Image
	Grid  *Grid
	Label string
}

// CellSize returns the size of one frame (the whole image when there is no grid).
func (a Asset) CellSize() (float64, float64) {
	if a.Image == nil {
		return 0, 0
	}
	b := a.Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if a.Grid != nil && a.Grid.Cols > 0 && a.Grid.Rows > 0 {
		w /= float64(a.Grid.Cols)
		h /= float64(a.Grid.Rows)
	}
	return w, h
}

// Cell returns the source rectangle of grid cell (col, row), or the full
// bounds for a plain sprite.
func (a Asset) Cell(col, row int) image.Rectangle {
	b := a.Image.Bounds()
	if a.Grid == nil || a.Grid.Cols <= 0 || a.Grid.Rows <= 0 {
		return b
	}
	sw, sh := a.CellSize()
	x0 := b.Min.X + int(math.Floor(float64(col)*sw))
	y0 := b.Min.Y + int(math.Floor(float64(row)*sh))
	x1 := b.Min.X + int(math.Floor(float64(col+1)*sw))
	y1 := b.Min.Y + int(math.Floor(float64(row+1)*sh))
	return image.Rect(x0, y0, x1, y1)
}

// AssetSource resolves named sprites. Lookup must be safe to call before
// the asset has finished loading; the bool reports readiness.
type AssetSource interface {
	Lookup(name string) (Asset, bool)
	// Characters lists every declared character asset, ready or not.
	Characters() []string
	// SpiritName is the asset used for penalty spirits.
	SpiritName() string
}

// Limits caps the entity collections.
type Limits struct {
	MaxSpheres    int
	MaxParticles  int
	MaxCharacters int
	MaxSpirits    int
}

// LimitsFrom converts configured caps. Zero fields fall back to the defaults.
func LimitsFrom(c config.ResourceLimits) Limits {
	return Limits{
		MaxSpheres:    c.MaxSpheres,
		MaxParticles:  c.MaxParticles,
		MaxCharacters: c.MaxCharacters,
		MaxSpirits:    c.MaxSpirits,
	}
}

// DefaultLimits returns the default caps from config.DefaultLimits.
func DefaultLimits() Limits {
	return LimitsFrom(config.DefaultLimits())
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxSpheres <= 0 {
		l.MaxSpheres = d.MaxSpheres
	}
	if l.MaxParticles <= 0 {
		l.MaxParticles = d.MaxParticles
	}
	if l.MaxCharacters <= 0 {
		l.MaxCharacters = d.MaxCharacters
	}
	if l.MaxSpirits <= 0 {
		l.MaxSpirits = d.MaxSpirits
	}
	return l
}
