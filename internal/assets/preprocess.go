package assets

import (
	"image"

	"golang.org/x/image/draw"
)

// WhiteThreshold is the channel value above which a pixel counts as background.
const WhiteThreshold = 220

// RemoveWhiteBackground returns a copy of img with near-white pixels made
// fully transparent. A pixel is cleared when R, G and B all exceed
// WhiteThreshold. Colour channels are left untouched and the input is not
// modified.
func RemoveWhiteBackground(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	pix := out.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		if pix[i] > WhiteThreshold && pix[i+1] > WhiteThreshold && pix[i+2] > WhiteThreshold {
			pix[i+3] = 0
		}
	}
	return out
}
