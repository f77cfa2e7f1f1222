package render

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"bubble-pop/internal/game"
)

// HUD is the per-frame host state shown on top of the game.
type HUD struct {
	State     game.GameState
	Mode      game.GameMode
	TargetHue float64
	Paused    bool
	Caption   string
	// CaptionAlpha fades the caption out (0 hides it).
	CaptionAlpha float64
	MenuTitle    string
	MenuHint     string
	// ModeLabels name the normal and color-find menu buttons.
	ModeLabels  [2]string
	PausedLabel string
}

// MenuButton is a clickable mode choice on the menu screen.
type MenuButton struct {
	Mode       game.GameMode
	X, Y, W, H float64
}

// Contains reports whether (x, y) is inside the button.
func (b MenuButton) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// MenuButtons lays out the two mode buttons for a w x h canvas.
func MenuButtons(w, h float64) [2]MenuButton {
	bw, bh := math.Min(w*0.3, 320), 90.0
	const gap = 40
	y := h/2 + 40
	return [2]MenuButton{
		{Mode: game.ModeNormal, X: w/2 - gap/2 - bw, Y: y, W: bw, H: bh},
		{Mode: game.ModeColorFind, X: w/2 + gap/2, Y: y, W: bw, H: bh},
	}
}

// Overlay draws the menu, the color-find swatch and speech captions.
type Overlay struct {
	small font.Face
	large font.Face
	log   *zap.Logger
}

// fontCandidates are tried in order; CJK fonts come first so captions render.
var fontCandidates = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/System/Library/Fonts/ヒラギノ角ゴシック W4.ttc",
	"C:\\Windows\\Fonts\\meiryo.ttc",
	"C:\\Windows\\Fonts\\YuGothM.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// NewOverlay loads fontPath (or the first available system font) and falls
// back to the embedded Go font.
func NewOverlay(fontPath string, log *zap.Logger) *Overlay {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Overlay{log: log}

	data, src := readFont(fontPath)
	if data == nil {
		data, src = goregular.TTF, "gofont"
		log.Warn("⚠️ No system font found, captions may miss glyphs")
	}

	small, large, err := faces(data)
	if err != nil && src != "gofont" {
		log.Warn("⚠️ Font unusable, using embedded font", zap.String("path", src), zap.Error(err))
		small, large, err = faces(goregular.TTF)
		src = "gofont"
	}
	if err != nil {
		log.Error("❌ Embedded font failed", zap.Error(err))
		return o
	}
	o.small, o.large = small, large
	log.Info("✅ Fonts loaded", zap.String("source", src))
	return o
}

func readFont(fontPath string) ([]byte, string) {
	paths := fontCandidates
	if fontPath != "" {
		paths = append([]string{fontPath}, paths...)
	}
	if matches, _ := filepath.Glob("*.tt[fc]"); len(matches) > 0 {
		paths = append(paths, matches...)
	}
	for _, p := range paths {
		if data, err := os.ReadFile(p); err == nil {
			return data, p
		}
	}
	return nil, ""
}

func faces(data []byte) (font.Face, font.Face, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, nil, err
	}
	f, err := coll.Font(0)
	if err != nil {
		return nil, nil, err
	}
	small, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, nil, err
	}
	large, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 56, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, nil, err
	}
	return small, large, nil
}

// Draw renders hud onto c in device space.
func (o *Overlay) Draw(c *Canvas, hud HUD) {
	dc := c.Context()
	dc.Push()
	defer dc.Pop()
	dc.Identity()

	w, h := float64(dc.Width()), float64(dc.Height())

	switch {
	case hud.State == game.StateMenu:
		dc.SetColor(color.NRGBA{20, 24, 40, 200})
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
		o.text(c, o.large, hud.MenuTitle, w/2, h/2-80, color.White)
		o.text(c, o.small, hud.MenuHint, w/2, h/2-10, color.NRGBA{220, 220, 230, 255})
		for i, b := range MenuButtons(w, h) {
			hue := 200.0
			if b.Mode == game.ModeColorFind {
				hue = 330
			}
			dc.SetColor(game.VividColor(hue))
			dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 24)
			dc.Fill()
			o.text(c, o.small, hud.ModeLabels[i], b.X+b.W/2, b.Y+b.H/2, color.White)
		}

	case hud.Mode == game.ModeColorFind:
		dc.SetColor(color.White)
		dc.DrawCircle(56, 56, 36)
		dc.Fill()
		dc.SetColor(game.VividColor(hud.TargetHue))
		dc.DrawCircle(56, 56, 30)
		dc.Fill()
	}

	if hud.Caption != "" && hud.CaptionAlpha > 0 {
		a := uint8(255 * clamp01(hud.CaptionAlpha))
		dc.SetColor(color.NRGBA{0, 0, 0, a / 2})
		dc.DrawRoundedRectangle(w*0.2, h-110, w*0.6, 70, 16)
		dc.Fill()
		o.text(c, o.small, hud.Caption, w/2, h-75, color.NRGBA{255, 255, 255, a})
	}

	if hud.Paused {
		dc.SetColor(color.NRGBA{0, 0, 0, 120})
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
		o.text(c, o.large, hud.PausedLabel, w/2, h/2, color.White)
	}
}

func (o *Overlay) text(c *Canvas, face font.Face, s string, x, y float64, col color.Color) {
	if face == nil || s == "" {
		return
	}
	dc := c.Context()
	dc.SetFontFace(face)
	dc.SetColor(col)
	dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}
