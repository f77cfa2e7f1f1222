package game

import (
	"math"
	"testing"
)

// TestResolvePairConservesMomentum verifies momentum along the normal and separation
func TestResolvePairConservesMomentum(t *testing.T) {
	tests := []struct {
		name string
		a, b Sphere
	}{
		{"head on", Sphere{X: 100, Y: 100, VX: 3, Radius: 50}, Sphere{X: 180, Y: 100, VX: -2, Radius: 70}},
		{"glancing", Sphere{X: 100, Y: 100, VX: 2, VY: 1, Radius: 45}, Sphere{X: 150, Y: 160, VX: -1, VY: -3, Radius: 60}},
		{"same mass", Sphere{X: 0, Y: 0, VX: 4, Radius: 50}, Sphere{X: 60, Y: 0, Radius: 50}},
		{"diagonal overlap", Sphere{X: 10, Y: 10, VX: -1, VY: 2, Radius: 80}, Sphere{X: 60, Y: 70, VX: 0.5, VY: -0.5, Radius: 45}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.a, tt.b
			nx, ny := b.X-a.X, b.Y-a.Y
			d := math.Hypot(nx, ny)
			nx, ny = nx/d, ny/d

			before := a.Radius*(a.VX*nx+a.VY*ny) + b.Radius*(b.VX*nx+b.VY*ny)
			if !resolvePair(&a, &b) {
				t.Fatal("expected collision")
			}
			after := a.Radius*(a.VX*nx+a.VY*ny) + b.Radius*(b.VX*nx+b.VY*ny)

			if math.Abs(before-after) > 1e-9 {
				t.Errorf("normal momentum %.6f -> %.6f", before, after)
			}

			dist := math.Hypot(b.X-a.X, b.Y-a.Y)
			if dist < a.Radius+b.Radius-1e-9 {
				t.Errorf("still overlapping: dist %.6f < %.1f", dist, a.Radius+b.Radius)
			}
		})
	}
}

// TestResolvePairTangentialUnchanged verifies velocity along the tangent is kept
func TestResolvePairTangentialUnchanged(t *testing.T) {
	a := Sphere{X: 0, Y: 0, VX: 1, VY: 3, Radius: 50}
	b := Sphere{X: 90, Y: 0, VX: -1, VY: -2, Radius: 50}
	resolvePair(&a, &b)
	if math.Abs(a.VY-3) > 1e-9 || math.Abs(b.VY+2) > 1e-9 {
		t.Errorf("tangential velocity changed: a.vy=%.3f b.vy=%.3f", a.VY, b.VY)
	}
	// equal masses swap the normal components
	if math.Abs(a.VX+1) > 1e-9 || math.Abs(b.VX-1) > 1e-9 {
		t.Errorf("normal velocity not exchanged: a.vx=%.3f b.vx=%.3f", a.VX, b.VX)
	}
}

// TestResolvePairApart verifies separated spheres are untouched
func TestResolvePairApart(t *testing.T) {
	a := Sphere{X: 0, Y: 0, VX: 1, Radius: 50}
	b := Sphere{X: 100, Y: 0, VX: -1, Radius: 50}
	if resolvePair(&a, &b) {
		t.Fatal("touching spheres should not collide")
	}
	if a.VX != 1 || b.VX != -1 || a.X != 0 || b.X != 100 {
		t.Error("non-colliding spheres were modified")
	}
}

// TestResolvePairCoincident verifies identical centres do not produce NaN
func TestResolvePairCoincident(t *testing.T) {
	a := Sphere{X: 50, Y: 50, Radius: 50}
	b := Sphere{X: 50, Y: 50, Radius: 50}
	resolvePair(&a, &b)
	for _, v := range []float64{a.X, a.Y, a.VX, a.VY, b.X, b.Y, b.VX, b.VY} {
		if math.IsNaN(v) {
			t.Fatal("NaN after resolving coincident spheres")
		}
	}
	if math.Hypot(b.X-a.X, b.Y-a.Y) < 100-1e-9 {
		t.Error("coincident spheres were not separated")
	}
}

// TestResolveCollisionsReducesOverlap verifies a three-way pile-up shrinks
func TestResolveCollisionsReducesOverlap(t *testing.T) {
	spheres := []*Sphere{
		{X: 100, Y: 100, Radius: 50},
		{X: 140, Y: 100, Radius: 50},
		{X: 120, Y: 130, Radius: 50},
	}
	overlap := func() float64 {
		total := 0.0
		for i := range spheres {
			for j := i + 1; j < len(spheres); j++ {
				d := math.Hypot(spheres[j].X-spheres[i].X, spheres[j].Y-spheres[i].Y)
				if o := spheres[i].Radius + spheres[j].Radius - d; o > 0 {
					total += o
				}
			}
		}
		return total
	}

	prev := overlap()
	for pass := 0; pass < 5; pass++ {
		ResolveCollisions(spheres)
		cur := overlap()
		if cur > prev+1e-9 {
			t.Fatalf("overlap grew on pass %d: %.3f -> %.3f", pass, prev, cur)
		}
		prev = cur
	}
}
