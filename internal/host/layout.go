package host

import "math"

// Placement is where the canvas lands inside a window, letterboxed to keep
// its aspect ratio. Units are whatever the window reports (pixels or
// screen coordinates); the same units must be used for ToCanvas.
type Placement struct {
	X, Y  float64
	W, H  float64
	Scale float64 // window units per canvas pixel
}

// Fit centres a canvasW x canvasH canvas in a winW x winH window.
func Fit(canvasW, canvasH, winW, winH float64) Placement {
	if canvasW <= 0 || canvasH <= 0 || winW <= 0 || winH <= 0 {
		return Placement{}
	}
	scale := math.Min(winW/canvasW, winH/canvasH)
	w, h := canvasW*scale, canvasH*scale
	return Placement{
		X:     (winW - w) / 2,
		Y:     (winH - h) / 2,
		W:     w,
		H:     h,
		Scale: scale,
	}
}

// ToCanvas maps a window point into canvas coordinates. ok is false when
// the point falls in the letterbox bars.
func (p Placement) ToCanvas(x, y float64) (cx, cy float64, ok bool) {
	if p.Scale <= 0 {
		return 0, 0, false
	}
	cx = (x - p.X) / p.Scale
	cy = (y - p.Y) / p.Scale
	ok = x >= p.X && x < p.X+p.W && y >= p.Y && y < p.Y+p.H
	return cx, cy, ok
}
