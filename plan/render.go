package plan

// Style carries the visual state flags a renderer may honour.
type Style struct {
	Selected    bool
	Highlighted bool
	Preview     bool
}

// Layer is the drawing surface contract. The core calls it but never
// implements drawing itself; the host shell (terminal, canvas, websocket
// viewer) provides the implementation.
type Layer interface {
	Line(a, b Point, style Style)
	Marker(p Point, glyph rune, style Style)
	Label(p Point, text string, style Style)
}

// Renderable is the surface every graph-owned entity exposes to the host
// renderer.
type Renderable interface {
	Render(layer Layer)
	ContainsPoint(p Point) bool
	SetSelected(bool)
	SetHighlighted(bool)
}
