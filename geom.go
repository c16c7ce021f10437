package lantern

import "math"

// Line is a directed line segment from A to B.
type Line struct {
	A, B Vec2
}

// Length returns the segment's length.
func (l Line) Length() float64 {
	return math.Hypot(l.B.X-l.A.X, l.B.Y-l.A.Y)
}

// Reversed returns the segment with its endpoints swapped.
func (l Line) Reversed() Line {
	return Line{l.B, l.A}
}

// noIntersection is the sentinel ray parameter meaning "the ray reaches its
// full length without hitting the segment".
const noIntersection = 1.0

// intersectionEpsilon guards the determinant in RaySegmentIntersection.
// Zero-length segments and segments parallel to the ray produce a near-zero
// determinant; those cases fall back to "no intersection" instead of
// dividing by it.
const intersectionEpsilon = 1e-7

// RaySegmentIntersection intersects the ray origin + dir*s (0 <= s <= 1)
// with the segment p–q. It returns the smallest valid ray parameter s, or
// 1.0 when the ray does not hit the segment within its length.
//
// The ray direction carries the ray's full length, so the result is the hit
// distance as a fraction of that length. This is the CPU twin of the
// shadow-map fragment shader's intersection; the two must agree.
//
//	ray(s)  = origin + dir * s        (0 <= s <= 1)
//	line(t) = p + (q - p) * t         (0 <= t <= 1)
//
// Solving ray(s) = line(t) via Cramer's rule on
// M = [[dir.x, p.x-q.x], [dir.y, p.y-q.y]].
func RaySegmentIntersection(origin, dir, p, q Vec2) float64 {
	det := dir.X*(p.Y-q.Y) + dir.Y*(q.X-p.X)
	if math.Abs(det) < intersectionEpsilon {
		return noIntersection
	}

	r := p.Sub(origin)
	s := ((p.Y-q.Y)*r.X + (q.X-p.X)*r.Y) / det
	t := (dir.X*r.Y - dir.Y*r.X) / det

	if s >= 0 && s <= 1 && t >= 0 && t <= 1 {
		return s
	}
	return noIntersection
}

// Circle is a circle centered at Center.
type Circle struct {
	Center Vec2
	Radius float64
}

// ContainsPoint reports whether p lies inside or on the circle.
func (c Circle) ContainsPoint(p Vec2) bool {
	d := p.Sub(c.Center)
	return d.Dot(d) <= c.Radius*c.Radius
}

// Overlaps reports whether two circles intersect. Touching counts.
func (c Circle) Overlaps(o Circle) bool {
	d := o.Center.Sub(c.Center)
	r := c.Radius + o.Radius
	return d.Dot(d) <= r*r
}

// OverlapsRect reports whether the circle intersects the rectangle.
func (c Circle) OverlapsRect(r Rect) bool {
	nx := math.Max(r.X, math.Min(c.Center.X, r.X+r.Width))
	ny := math.Max(r.Y, math.Min(c.Center.Y, r.Y+r.Height))
	dx := c.Center.X - nx
	dy := c.Center.Y - ny
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Points returns numSegments points on the circle, starting at startAngle
// and proceeding clockwise in screen coordinates.
func (c Circle) Points(startAngle float64, numSegments int) []Vec2 {
	points := make([]Vec2, numSegments)
	for i := range points {
		a := startAngle + 2*math.Pi*float64(i)/float64(numSegments)
		points[i] = Vec2{
			c.Center.X + math.Cos(a)*c.Radius,
			c.Center.Y + math.Sin(a)*c.Radius,
		}
	}
	return points
}

// RotatedRect is a rectangle with center, size, and rotation in radians.
type RotatedRect struct {
	Center Vec2
	Size   Vec2
	Angle  float64
}

// Corners returns the four corner points in clockwise order starting at the
// rotated top-left.
func (r RotatedRect) Corners() [4]Vec2 {
	cos := math.Cos(r.Angle)
	sin := math.Sin(r.Angle)
	hw := r.Size.X / 2
	hh := r.Size.Y / 2

	local := [4]Vec2{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}
	var out [4]Vec2
	for i, p := range local {
		out[i] = Vec2{
			r.Center.X + p.X*cos - p.Y*sin,
			r.Center.Y + p.X*sin + p.Y*cos,
		}
	}
	return out
}

// Lines returns the four edges in clockwise winding order.
func (r RotatedRect) Lines() [4]Line {
	c := r.Corners()
	return [4]Line{
		{c[0], c[1]},
		{c[1], c[2]},
		{c[2], c[3]},
		{c[3], c[0]},
	}
}

// Rect returns the axis-aligned bounding rectangle.
func (r RotatedRect) Rect() Rect {
	c := r.Corners()
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := minX, minY
	for _, p := range c[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// normalizeAngle wraps an angle to (-π, π].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
