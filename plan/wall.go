package plan

import "wallplan/geometry"

// Wall is a graph edge between two nodes. The endpoint coordinates are
// cached on the wall and must always equal the positions of the referenced
// nodes; the graph refreshes them whenever a node moves.
type Wall struct {
	ID         WallID
	Start, End NodeID
	StartPoint Point
	EndPoint   Point
	Thickness  float64
	Height     float64

	selected    bool
	highlighted bool
}

// NewWall creates a wall between two nodes with cached endpoints taken from
// the given positions.
func NewWall(start, end NodeID, a, b Point, thickness, height float64) *Wall {
	return &Wall{
		ID:         NewWallID(),
		Start:      start,
		End:        end,
		StartPoint: a,
		EndPoint:   b,
		Thickness:  thickness,
		Height:     height,
	}
}

// Length returns the wall length.
func (w *Wall) Length() float64 {
	return geometry.Distance(w.StartPoint, w.EndPoint)
}

// Angle returns the wall direction angle in radians.
func (w *Wall) Angle() float64 {
	return geometry.Angle(w.StartPoint, w.EndPoint)
}

// Direction returns the unit direction vector from start to end. A
// zero-length wall yields the zero vector.
func (w *Wall) Direction() Point {
	d := w.EndPoint.Sub(w.StartPoint)
	length := d.Length()
	if length < geometry.Epsilon {
		return Point{}
	}
	return d.Scale(1 / length)
}

// PointAt returns the point at parameter t along the wall (t=0 start, t=1 end).
func (w *Wall) PointAt(t float64) Point {
	return geometry.Lerp(w.StartPoint, w.EndPoint, t)
}

// Project returns the projection parameter of p onto the wall axis
// (unclamped) and the closest on-segment point.
func (w *Wall) Project(p Point) (t float64, closest Point) {
	return geometry.ProjectOntoSegment(p, w.StartPoint, w.EndPoint)
}

// ClosestPoint returns the nearest point on the wall segment to p.
func (w *Wall) ClosestPoint(p Point) Point {
	_, closest := w.Project(p)
	return closest
}

// HasNode reports whether the wall references the given node id.
func (w *Wall) HasNode(id NodeID) bool {
	return w.Start == id || w.End == id
}

// OtherNode returns the opposite endpoint of the given node id, or "" when
// the wall does not reference it.
func (w *Wall) OtherNode(id NodeID) NodeID {
	switch id {
	case w.Start:
		return w.End
	case w.End:
		return w.Start
	}
	return ""
}

// ContainsPoint reports whether p lies on the wall body: segment distance at
// most thickness/2. The projection is clamped, so queries beyond the ends
// measure against the nearest endpoint.
func (w *Wall) ContainsPoint(p Point) bool {
	return geometry.DistanceToSegment(p, w.StartPoint, w.EndPoint) <= w.Thickness/2
}

// SetSelected marks the wall as selected for rendering.
func (w *Wall) SetSelected(v bool) { w.selected = v }

// SetHighlighted marks the wall as hover-highlighted for rendering.
func (w *Wall) SetHighlighted(v bool) { w.highlighted = v }

// Selected reports the selection flag.
func (w *Wall) Selected() bool { return w.selected }

// Render draws the wall centre line on the given layer.
func (w *Wall) Render(layer Layer) {
	layer.Line(w.StartPoint, w.EndPoint, Style{Selected: w.selected, Highlighted: w.highlighted})
}
