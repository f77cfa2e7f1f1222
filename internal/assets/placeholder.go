package assets

import (
	"hash/fnv"
	"image"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// placeholderSize is the edge of a generated sprite (one cell for sheets).
const placeholderSize = 96

// FillPlaceholders registers a generated sprite for every entry that failed
// to load, so the game stays playable without image files. Returns the names
// that were filled.
func (l *Library) FillPlaceholders() []string {
	missing := l.Missing()
	for _, name := range missing {
		l.mu.RLock()
		e := l.entries[name]
		l.mu.RUnlock()
		if err := l.Put(name, Placeholder(e)); err != nil {
			continue
		}
	}
	return missing
}

// Placeholder draws a face on a white background for e, one per grid cell.
// The hue is derived from the entry name so it is stable across runs.
func Placeholder(e Entry) image.Image {
	cols, rows := 1, 1
	if e.Grid != nil {
		cols, rows = e.Grid.Cols, e.Grid.Rows
	}
	dc := gg.NewContext(cols*placeholderSize, rows*placeholderSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	h := fnv.New32a()
	h.Write([]byte(e.Name))
	hue := float64(h.Sum32() % 360)

	r := placeholderSize * 0.4
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cx := (float64(col) + 0.5) * placeholderSize
			cy := (float64(row) + 0.5) * placeholderSize
			body := colorful.Hsl(hue+float64(row*cols+col)*7, 0.7, 0.5)
			if e.Role == RoleSpirit {
				body = colorful.Hsl(270, 0.4, 0.25)
			}

			dc.DrawCircle(cx, cy, r)
			dc.SetColor(body)
			dc.Fill()

			dc.SetRGB(0.1, 0.1, 0.1)
			dc.DrawCircle(cx-r*0.35, cy-r*0.2, r*0.12)
			dc.DrawCircle(cx+r*0.35, cy-r*0.2, r*0.12)
			dc.Fill()
			dc.SetLineWidth(3)
			dc.DrawArc(cx, cy+r*0.1, r*0.4, 0.2, 2.94)
			dc.Stroke()
		}
	}
	return dc.Image()
}
