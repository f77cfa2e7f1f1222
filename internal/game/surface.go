package game

import (
	"image"
	"image/color"
)

// Surface is the 2D drawing context the core renders into.
//
// Transforms and alpha are scoped by Push/Pop. SetAlpha multiplies into the
// alpha of the current scope.
type Surface interface {
	Clear()
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(angle float64)
	Scale(sx, sy float64)
	SetAlpha(a float64)
	FillCircle(x, y, r float64, c color.Color)
	StrokeCircle(x, y, r, lineWidth float64, c color.Color)
	// DrawImage blits the src crop of img at native size with its top-left
	// corner at (dx, dy) in the current transform.
	DrawImage(img image.Image, src image.Rectangle, dx, dy float64)
}

// stackUnwinder is implemented by surfaces that can restore their transform
// stack after a render panic.
type stackUnwinder interface {
	Depth() int
	Unwind(depth int)
}
