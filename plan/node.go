package plan

import "wallplan/geometry"

// Node is a graph vertex: a wall endpoint or junction. Wall membership is
// kept as an ordered id list so queries iterate deterministically.
type Node struct {
	ID       NodeID
	Position Point

	walls       []WallID
	selected    bool
	highlighted bool
}

// NewNode creates a node at the given position with a fresh id.
func NewNode(pos Point) *Node {
	return &Node{ID: NewNodeID(), Position: pos}
}

// AttachWall registers a wall id on this node. Duplicate ids are ignored.
func (n *Node) AttachWall(id WallID) {
	for _, w := range n.walls {
		if w == id {
			return
		}
	}
	n.walls = append(n.walls, id)
}

// DetachWall removes a wall id from this node. Unknown ids are a no-op.
func (n *Node) DetachWall(id WallID) {
	for i, w := range n.walls {
		if w == id {
			n.walls = append(n.walls[:i], n.walls[i+1:]...)
			return
		}
	}
}

// Walls returns the connected wall ids in attachment order.
func (n *Node) Walls() []WallID {
	out := make([]WallID, len(n.walls))
	copy(out, n.walls)
	return out
}

// HasWall reports whether the wall id is attached to this node.
func (n *Node) HasWall(id WallID) bool {
	for _, w := range n.walls {
		if w == id {
			return true
		}
	}
	return false
}

// Degree returns the number of connected walls.
func (n *Node) Degree() int { return len(n.walls) }

// ContainsPoint reports whether p falls within the node pick radius.
func (n *Node) ContainsPoint(p Point) bool {
	return geometry.Distance(n.Position, p) <= NodeHitRadius
}

// SetSelected marks the node as selected for rendering.
func (n *Node) SetSelected(v bool) { n.selected = v }

// SetHighlighted marks the node as hover-highlighted for rendering.
func (n *Node) SetHighlighted(v bool) { n.highlighted = v }

// Selected reports the selection flag.
func (n *Node) Selected() bool { return n.selected }

// Render draws the node marker on the given layer.
func (n *Node) Render(layer Layer) {
	layer.Marker(n.Position, '+', Style{Selected: n.selected, Highlighted: n.highlighted})
}
