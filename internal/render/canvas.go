// Package render implements the game drawing surface on top of gg, with
// sprite blits done by x/image/draw so they honour rotation, scale and alpha.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"bubble-pop/internal/game"
)

// Canvas is an off-screen RGBA surface.
type Canvas struct {
	dc         *gg.Context
	background color.Color

	alpha      float64
	alphaStack []float64
}

var _ game.Surface = (*Canvas)(nil)

// NewCanvas creates a w×h canvas cleared to a transparent background.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		dc:         gg.NewContext(w, h),
		background: color.Transparent,
		alpha:      1,
		alphaStack: make([]float64, 0, 8),
	}
}

// SetBackground sets the Clear color.
func (c *Canvas) SetBackground(bg color.Color) {
	c.background = bg
}

// Resize replaces the backing image when the size changes.
func (c *Canvas) Resize(w, h int) {
	if w == c.dc.Width() && h == c.dc.Height() {
		return
	}
	c.dc = gg.NewContext(w, h)
	c.alpha = 1
	c.alphaStack = c.alphaStack[:0]
}

// Size implements game.Viewport.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.dc.Width()), float64(c.dc.Height())
}

// Image returns the backing image. It is reused across frames.
func (c *Canvas) Image() *image.RGBA {
	return c.dc.Image().(*image.RGBA)
}

// Context exposes the gg context for overlays.
func (c *Canvas) Context() *gg.Context {
	return c.dc
}

// Clear fills the canvas with the background color and resets the transform.
func (c *Canvas) Clear() {
	c.dc.Identity()
	c.dc.SetColor(c.background)
	c.dc.Clear()
}

// Push saves the transform and alpha.
func (c *Canvas) Push() {
	c.dc.Push()
	c.alphaStack = append(c.alphaStack, c.alpha)
}

// Pop restores the last Push. Unbalanced pops are ignored.
func (c *Canvas) Pop() {
	if len(c.alphaStack) == 0 {
		return
	}
	c.dc.Pop()
	c.alpha = c.alphaStack[len(c.alphaStack)-1]
	c.alphaStack = c.alphaStack[:len(c.alphaStack)-1]
}

// Depth returns the number of open Push calls.
func (c *Canvas) Depth() int {
	return len(c.alphaStack)
}

// Unwind pops until Depth is depth.
func (c *Canvas) Unwind(depth int) {
	for len(c.alphaStack) > depth {
		c.Pop()
	}
}

func (c *Canvas) Translate(x, y float64) { c.dc.Translate(x, y) }
func (c *Canvas) Rotate(angle float64)   { c.dc.Rotate(angle) }
func (c *Canvas) Scale(sx, sy float64)   { c.dc.Scale(sx, sy) }

// SetAlpha multiplies a (clamped to [0,1]) into the current alpha.
func (c *Canvas) SetAlpha(a float64) {
	c.alpha *= clamp01(a)
}

// Alpha returns the effective alpha.
func (c *Canvas) Alpha() float64 {
	return c.alpha
}

// FillCircle fills a circle.
func (c *Canvas) FillCircle(x, y, r float64, col color.Color) {
	c.dc.DrawCircle(x, y, r)
	c.dc.SetColor(fade(col, c.alpha))
	c.dc.Fill()
}

// StrokeCircle outlines a circle.
func (c *Canvas) StrokeCircle(x, y, r, lineWidth float64, col color.Color) {
	c.dc.DrawCircle(x, y, r)
	c.dc.SetLineWidth(lineWidth)
	c.dc.SetColor(fade(col, c.alpha))
	c.dc.Stroke()
}

// DrawImage blits the src crop of img with its top-left at (dx, dy) in user
// space. The current transform is turned into a source-to-device affine.
func (c *Canvas) DrawImage(img image.Image, src image.Rectangle, dx, dy float64) {
	if img == nil || src.Empty() || c.alpha <= 0 {
		return
	}
	src = src.Intersect(img.Bounds())
	if src.Empty() {
		return
	}

	ox, oy := c.dc.TransformPoint(0, 0)
	ax, ay := c.dc.TransformPoint(1, 0)
	bx, by := c.dc.TransformPoint(0, 1)
	ax, ay = ax-ox, ay-oy
	bx, by = bx-ox, by-oy

	// source pixel (sx, sy) lands at user (dx + sx - src.Min.X, dy + sy - src.Min.Y)
	tx := dx - float64(src.Min.X)
	ty := dy - float64(src.Min.Y)
	m := f64.Aff3{
		ax, bx, ox + ax*tx + bx*ty,
		ay, by, oy + ay*tx + by*ty,
	}

	var opts *draw.Options
	if c.alpha < 1 {
		opts = &draw.Options{
			SrcMask: image.NewUniform(color.Alpha16{A: uint16(math.Round(c.alpha * 0xffff))}),
		}
	}
	draw.BiLinear.Transform(c.Image(), m, img, src, draw.Over, opts)
}

// fade scales the alpha of col by a.
func fade(col color.Color, a float64) color.Color {
	if a >= 1 {
		return col
	}
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * clamp01(a)))
	return n
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
