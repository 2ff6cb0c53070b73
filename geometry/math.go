// Package geometry provides pure point and segment math for the plan editor.
package geometry

import "math"

// Epsilon is the tolerance used for floating point comparisons.
const Epsilon = 1e-6

// Point represents a 2D coordinate in plan units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by v.
func (p Point) Add(v Point) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Length returns the vector length of p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// NearlyEqual reports whether two points coincide within Epsilon.
func NearlyEqual(a, b Point) bool {
	return math.Abs(a.X-b.X) < Epsilon && math.Abs(a.Y-b.Y) < Epsilon
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Angle returns the angle of the vector from a to b in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Lerp returns the point at parameter t along the segment from a to b.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ProjectOntoSegment projects p onto the segment from a to b. It returns the
// unclamped projection parameter t (t=0 at a, t=1 at b) and the closest point
// on the segment itself, with t clamped to [0,1] for the point. A degenerate
// segment (a == b) yields t=0 and point a.
func ProjectOntoSegment(p, a, b Point) (t float64, closest Point) {
	d := b.Sub(a)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq < Epsilon*Epsilon {
		return 0, a
	}
	t = ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / lenSq
	closest = Lerp(a, b, Clamp(t, 0, 1))
	return t, closest
}

// DistanceToSegment returns the distance from p to the closest point on the
// segment from a to b. Off-segment queries measure to the nearest endpoint.
func DistanceToSegment(p, a, b Point) float64 {
	_, closest := ProjectOntoSegment(p, a, b)
	return Distance(p, closest)
}

// PerpendicularDistance returns the distance from p to the infinite line
// through a and b. A degenerate line yields the distance to a.
func PerpendicularDistance(p, a, b Point) float64 {
	d := b.Sub(a)
	length := d.Length()
	if length < Epsilon {
		return Distance(p, a)
	}
	return math.Abs(d.Y*(p.X-a.X)-d.X*(p.Y-a.Y)) / length
}

// SnapAngle snaps the segment from origin to p to the nearest multiple of
// step radians, preserving the segment length.
func SnapAngle(origin, p Point, step float64) Point {
	if step <= 0 {
		return p
	}
	length := Distance(origin, p)
	angle := Angle(origin, p)
	snapped := math.Round(angle/step) * step
	return Point{
		X: origin.X + length*math.Cos(snapped),
		Y: origin.Y + length*math.Sin(snapped),
	}
}

// SnapToGrid snaps p to the nearest grid point with the given pitch.
func SnapToGrid(p Point, pitch float64) Point {
	if pitch <= 0 {
		return p
	}
	return Point{
		X: math.Round(p.X/pitch) * pitch,
		Y: math.Round(p.Y/pitch) * pitch,
	}
}

// SnapDistance snaps the segment from origin to p so its length becomes the
// nearest multiple of pitch, preserving direction.
func SnapDistance(origin, p Point, pitch float64) Point {
	if pitch <= 0 {
		return p
	}
	length := Distance(origin, p)
	if length < Epsilon {
		return p
	}
	snapped := math.Round(length/pitch) * pitch
	dir := p.Sub(origin).Scale(1 / length)
	return origin.Add(dir.Scale(snapped))
}

// PolygonArea returns the absolute area enclosed by the given vertex loop
// using the shoelace formula. Fewer than three vertices yield zero.
func PolygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}
