package plan

import (
	"math"

	"wallplan/geometry"
)

// OpenDirection is the swing direction of a door leaf.
type OpenDirection int

const (
	OpenInward OpenDirection = iota
	OpenOutward
)

// String returns the direction name for display.
func (d OpenDirection) String() string {
	if d == OpenOutward {
		return "outward"
	}
	return "inward"
}

// Toggle returns the opposite direction.
func (d OpenDirection) Toggle() OpenDirection {
	if d == OpenInward {
		return OpenOutward
	}
	return OpenInward
}

// Connector is a lightweight sub-node owned by an opening. It tracks one of
// the opening's two endpoints so the endpoint can be grabbed and dragged
// directly.
type Connector struct {
	ID       NodeID
	Position Point
}

// Opening is the shared body of doors and windows: a span attached to a wall
// by id, positioned by its absolute centre point, with two connector
// sub-nodes at its ends.
type Opening struct {
	ID       OpeningID
	Wall     WallID
	Position Point   // centre, absolute plan coordinates
	Angle    float64 // radians, follows the owning wall's direction
	Width    float64
	Height   float64
	Flipped  bool
	Ordinal  int // stable per-store number, assigned at registration

	A, B Connector

	selected    bool
	highlighted bool
}

func newOpening(wall WallID, center Point, angle, width, height float64) Opening {
	o := Opening{
		ID:       NewOpeningID(),
		Wall:     wall,
		Position: center,
		Angle:    angle,
		Width:    width,
		Height:   height,
		A:        Connector{ID: NewNodeID()},
		B:        Connector{ID: NewNodeID()},
	}
	o.placeConnectors()
	return o
}

// placeConnectors positions both connectors symmetrically about the centre
// along the opening axis, preserving width.
func (o *Opening) placeConnectors() {
	half := o.Width / 2
	dir := Point{X: math.Cos(o.Angle), Y: math.Sin(o.Angle)}
	o.A.Position = o.Position.Sub(dir.Scale(half))
	o.B.Position = o.Position.Add(dir.Scale(half))
}

// UpdatePosition moves the opening centre and both connectors symmetrically
// about it.
func (o *Opening) UpdatePosition(p Point) {
	o.Position = p
	o.placeConnectors()
}

// UpdateWallReference reassigns the opening to a wall and realigns its angle
// to the wall's direction vector. Width is untouched.
func (o *Opening) UpdateWallReference(w *Wall) {
	o.Wall = w.ID
	o.Angle = w.Angle()
	o.placeConnectors()
}

// flip swaps the connector identities and rotates the opening half a turn.
func (o *Opening) flip() {
	o.A, o.B = o.B, o.A
	o.Angle = normalizeAngle(o.Angle + math.Pi)
	o.Flipped = !o.Flipped
	o.placeConnectors()
}

// RelativeOn returns the opening centre's position as a fraction of the
// wall's length, clamped to [0,1].
func (o *Opening) RelativeOn(w *Wall) float64 {
	t, _ := w.Project(o.Position)
	return geometry.Clamp(t, 0, 1)
}

// Endpoints returns the two connector positions.
func (o *Opening) Endpoints() (Point, Point) {
	return o.A.Position, o.B.Position
}

// openingHitSlack widens opening hit testing slightly beyond the wall body.
const openingHitSlack = 6

// ContainsPoint reports whether p falls on the opening span.
func (o *Opening) ContainsPoint(p Point) bool {
	return geometry.DistanceToSegment(p, o.A.Position, o.B.Position) <= openingHitSlack
}

// ConnectorAt returns the connector whose position is within the node pick
// radius of p, or nil.
func (o *Opening) ConnectorAt(p Point) *Connector {
	if geometry.Distance(o.A.Position, p) <= NodeHitRadius {
		return &o.A
	}
	if geometry.Distance(o.B.Position, p) <= NodeHitRadius {
		return &o.B
	}
	return nil
}

// SetSelected marks the opening as selected for rendering.
func (o *Opening) SetSelected(v bool) { o.selected = v }

// SetHighlighted marks the opening as hover-highlighted for rendering.
func (o *Opening) SetHighlighted(v bool) { o.highlighted = v }

// Selected reports the selection flag.
func (o *Opening) Selected() bool { return o.selected }

func (o *Opening) style() Style {
	return Style{Selected: o.selected, Highlighted: o.highlighted}
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Door is an opening with a swing direction.
type Door struct {
	Opening
	OpenDirection OpenDirection
}

// NewDoor creates a door centred at the given point on the wall.
func NewDoor(wall WallID, center Point, angle, width, height float64) *Door {
	return &Door{Opening: newOpening(wall, center, angle, width, height)}
}

// Flip mirrors the door: connector identities swap, the angle rotates half a
// turn and the swing direction toggles.
func (d *Door) Flip() {
	d.flip()
	d.OpenDirection = d.OpenDirection.Toggle()
}

// Render draws the door span and swing marker.
func (d *Door) Render(layer Layer) {
	layer.Line(d.A.Position, d.B.Position, d.style())
	glyph := 'D'
	if d.OpenDirection == OpenOutward {
		glyph = 'd'
	}
	layer.Marker(d.Position, glyph, d.style())
}

// Window is an opening without a swing.
type Window struct {
	Opening
}

// NewWindow creates a window centred at the given point on the wall.
func NewWindow(wall WallID, center Point, angle, width, height float64) *Window {
	return &Window{Opening: newOpening(wall, center, angle, width, height)}
}

// Flip mirrors the window, swapping its connector identities.
func (w *Window) Flip() {
	w.flip()
}

// Render draws the window span.
func (w *Window) Render(layer Layer) {
	layer.Line(w.A.Position, w.B.Position, w.style())
	layer.Marker(w.Position, 'W', w.style())
}
