package game

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Sphere and particle palettes.
const (
	vividSaturation = 0.80
	vividLightness  = 0.65
	mutedSaturation = 0.05
	mutedLightness  = 0.70
)

var (
	sphereOutline = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	sphereShine   = color.NRGBA{R: 255, G: 255, B: 255, A: 128}
)

// VividColor is the rewarded-sphere color for hue (degrees).
func VividColor(hue float64) colorful.Color {
	return colorful.Hsl(hue, vividSaturation, vividLightness).Clamped()
}

// MutedColor is the desaturated non-target color for hue.
func MutedColor(hue float64) colorful.Color {
	return colorful.Hsl(hue, mutedSaturation, mutedLightness).Clamped()
}
