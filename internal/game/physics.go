package game

import "math"

// ResolveCollisions runs one elastic collision pass over every unordered pair
// of spheres, in index order. Mass is proportional to radius.
func ResolveCollisions(spheres []*Sphere) {
	for i := 0; i < len(spheres); i++ {
		for j := i + 1; j < len(spheres); j++ {
			resolvePair(spheres[i], spheres[j])
		}
	}
}

// resolvePair bounces a and b if they overlap and pushes them apart by half
// the overlap each. Reports whether they collided.
func resolvePair(a, b *Sphere) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Hypot(dx, dy)
	minDist := a.Radius + b.Radius
	if dist >= minDist {
		return false
	}

	// atan2(0, 0) is 0, so coincident centres separate along +x.
	angle := math.Atan2(dy, dx)
	sin, cos := math.Sin(angle), math.Cos(angle)

	// rotate into the contact frame
	vx1 := a.VX*cos + a.VY*sin
	vy1 := a.VY*cos - a.VX*sin
	vx2 := b.VX*cos + b.VY*sin
	vy2 := b.VY*cos - b.VX*sin

	m1, m2 := a.Radius, b.Radius
	vx1f := ((m1-m2)*vx1 + 2*m2*vx2) / (m1 + m2)
	vx2f := ((m2-m1)*vx2 + 2*m1*vx1) / (m1 + m2)

	a.VX = vx1f*cos - vy1*sin
	a.VY = vy1*cos + vx1f*sin
	b.VX = vx2f*cos - vy2*sin
	b.VY = vy2*cos + vx2f*sin

	overlap := minDist - dist
	mx := overlap / 2 * cos
	my := overlap / 2 * sin
	a.X -= mx
	a.Y -= my
	b.X += mx
	b.Y += my
	return true
}
