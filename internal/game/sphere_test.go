package game

import (
	"math"
	"testing"
)

// TestNewSphereSpawnPolicy verifies radius, hue and edge placement ranges
func TestNewSphereSpawnPolicy(t *testing.T) {
	view := FixedViewport{W: 800, H: 600}
	rng := newRNG(1)
	edges := map[string]int{}

	for i := 0; i < 2000; i++ {
		s := NewSphere(rng, view, ModeNormal, 0)

		if s.Radius < 45 || s.Radius >= 80 {
			t.Fatalf("radius %.2f out of [45,80)", s.Radius)
		}
		if s.Hue < 0 || s.Hue >= 360 {
			t.Fatalf("hue %.2f out of [0,360)", s.Hue)
		}
		if !s.IsTarget {
			t.Fatal("normal mode spheres must all be targets")
		}

		switch {
		case s.Y == view.H+s.Radius:
			edges["bottom"]++
			if s.VY > -2 || s.VY <= -5 || math.Abs(s.VX) > 1 {
				t.Fatalf("bottom velocity (%.2f,%.2f)", s.VX, s.VY)
			}
			if s.X < s.Radius || s.X > view.W-s.Radius {
				t.Fatalf("bottom x %.2f outside corner margin", s.X)
			}
		case s.Y == -s.Radius:
			edges["top"]++
			if s.VY < 2 || s.VY >= 5 {
				t.Fatalf("top vy %.2f", s.VY)
			}
		case s.X == -s.Radius:
			edges["left"]++
			if s.VX < 2 || s.VX >= 5 || math.Abs(s.VY) > 1 {
				t.Fatalf("left velocity (%.2f,%.2f)", s.VX, s.VY)
			}
			if s.Y < s.Radius || s.Y > view.H-s.Radius {
				t.Fatalf("left y %.2f outside corner margin", s.Y)
			}
		case s.X == view.W+s.Radius:
			edges["right"]++
			if s.VX > -2 || s.VX <= -5 {
				t.Fatalf("right vx %.2f", s.VX)
			}
		default:
			t.Fatalf("sphere not placed on an edge: (%.2f,%.2f) r=%.2f", s.X, s.Y, s.Radius)
		}
	}

	for _, e := range []string{"bottom", "top", "left", "right"} {
		if edges[e] == 0 {
			t.Errorf("edge %s never chosen", e)
		}
	}
}

// TestNewSphereColorFind verifies roughly 30% of spheres carry the target hue
func TestNewSphereColorFind(t *testing.T) {
	view := FixedViewport{W: 800, H: 600}
	rng := newRNG(7)
	const n = 5000
	targets := 0
	for i := 0; i < n; i++ {
		s := NewSphere(rng, view, ModeColorFind, 200)
		if s.IsTarget {
			targets++
			if s.Hue != 200 {
				t.Fatalf("target sphere hue %.2f, want 200", s.Hue)
			}
		}
	}
	ratio := float64(targets) / n
	if ratio < 0.26 || ratio > 0.34 {
		t.Errorf("target ratio %.3f, want ~0.3", ratio)
	}
}

// TestSphereBounceFlipsOnce verifies a component is negated only while moving outward
func TestSphereBounceFlipsOnce(t *testing.T) {
	view := FixedViewport{W: 400, H: 300}

	tests := []struct {
		name   string
		sphere Sphere
		axisX  bool
	}{
		{"left wall", Sphere{X: 52, Y: 150, VX: -4, Radius: 50}, true},
		{"right wall", Sphere{X: 348, Y: 150, VX: 4, Radius: 50}, true},
		{"top wall", Sphere{X: 200, Y: 52, VY: -4, Radius: 50}, false},
		{"bottom wall", Sphere{X: 200, Y: 248, VY: 4, Radius: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.sphere
			s.view = view
			before := s.VX
			if !tt.axisX {
				before = s.VY
			}

			flips := 0
			prev := before
			for i := 0; i < 5; i++ {
				s.Advance()
				cur := s.VX
				if !tt.axisX {
					cur = s.VY
				}
				if math.Signbit(cur) != math.Signbit(prev) {
					flips++
				}
				prev = cur
			}
			if flips != 1 {
				t.Errorf("expected exactly one flip, got %d", flips)
			}
		})
	}
}

// TestSphereEnteringIsNotReflectedBack verifies an inbound sphere keeps heading in
func TestSphereEnteringIsNotReflectedBack(t *testing.T) {
	s := Sphere{X: -50, Y: 100, VX: 3, Radius: 50, view: FixedViewport{W: 400, H: 300}}
	for i := 0; i < 10; i++ {
		s.Advance()
		if s.VX <= 0 {
			t.Fatalf("inbound sphere reflected at tick %d", i)
		}
	}
}

// TestSphereExpired verifies the cull margin
func TestSphereExpired(t *testing.T) {
	view := FixedViewport{W: 400, H: 300}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"on screen", 200, 150, false},
		{"spawn position", -80, 150, false},
		{"at margin", -300, 150, false},
		{"past left", -301, 150, true},
		{"past right", 701, 150, true},
		{"past top", 200, -301, true},
		{"past bottom", 200, 601, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sphere{X: tt.x, Y: tt.y, Radius: 50, view: view}
			if got := s.Expired(); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSphereContains verifies the padded hit radius
func TestSphereContains(t *testing.T) {
	s := Sphere{X: 100, Y: 100, Radius: 50}
	if !s.Contains(110, 110) {
		t.Error("centre-adjacent tap should hit")
	}
	if !s.Contains(174, 100) {
		t.Error("tap inside padding should hit")
	}
	if s.Contains(175, 100) {
		t.Error("tap at radius+padding should miss")
	}
}

// TestSphereRenderColors verifies targets are vivid and non-targets muted
func TestSphereRenderColors(t *testing.T) {
	surf := &recordSurface{}
	(&Sphere{X: 10, Y: 10, Radius: 50, Hue: 120, IsTarget: true}).Render(surf)
	(&Sphere{X: 10, Y: 10, Radius: 50, Hue: 120}).Render(surf)

	if surf.fills != 4 || surf.strokes != 2 {
		t.Fatalf("fills=%d strokes=%d, want 4 and 2", surf.fills, surf.strokes)
	}
	if surf.colors[0] != VividColor(120) {
		t.Error("target body should use the vivid palette")
	}
	if surf.colors[2] != MutedColor(120) {
		t.Error("non-target body should use the muted palette")
	}
}
