package host

import "testing"

// TestFit checks letterboxing for wider, taller and matching windows
func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		winW, winH float64
		want       Placement
	}{
		{"same size", 1280, 720, Placement{0, 0, 1280, 720, 1}},
		{"double", 2560, 1440, Placement{0, 0, 2560, 1440, 2}},
		{"wider window", 1920, 720, Placement{320, 0, 1280, 720, 1}},
		{"taller window", 640, 720, Placement{0, 180, 640, 360, 0.5}},
		{"minimized", 0, 0, Placement{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(1280, 720, tt.winW, tt.winH); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestToCanvas checks window to canvas mapping and the bars
func TestToCanvas(t *testing.T) {
	p := Fit(1280, 720, 1920, 720)

	x, y, ok := p.ToCanvas(960, 360)
	if !ok || x != 640 || y != 360 {
		t.Errorf("centre mapped to (%v,%v,%v)", x, y, ok)
	}
	if _, _, ok := p.ToCanvas(100, 360); ok {
		t.Error("left bar should not map")
	}

	p = Fit(1280, 720, 640, 360)
	x, y, _ = p.ToCanvas(320, 180)
	if x != 640 || y != 360 {
		t.Errorf("half-size window mapped to (%v,%v)", x, y)
	}

	if _, _, ok := (Placement{}).ToCanvas(1, 1); ok {
		t.Error("empty placement should not map")
	}
}
