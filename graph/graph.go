// Package graph owns the wall-graph topology: every node and wall in the
// plan, and the create/remove/split/merge operations over them. It is the
// single source of truth; stores and tools hold ids into it, never pointers
// across mutations.
package graph

import (
	"fmt"

	"wallplan/event"
	"wallplan/geometry"
	"wallplan/plan"
)

// CountSource supplies the door/window/room census for change notifications.
// The session wires this to the opening and room stores.
type CountSource func() plan.Counts

// WallGraph is an arena of nodes and walls keyed by id. Iteration follows
// insertion order so closest-entity queries break ties deterministically
// (first found at minimal distance).
type WallGraph struct {
	cfg plan.Config

	nodes     map[plan.NodeID]*plan.Node
	walls     map[plan.WallID]*plan.Wall
	nodeOrder []plan.NodeID
	wallOrder []plan.WallID

	bus    *event.Bus
	counts CountSource
}

// New creates an empty graph. The bus may be nil for headless use.
func New(cfg plan.Config, bus *event.Bus) *WallGraph {
	return &WallGraph{
		cfg:   cfg,
		nodes: make(map[plan.NodeID]*plan.Node),
		walls: make(map[plan.WallID]*plan.Wall),
		bus:   bus,
	}
}

// SetCountSource wires the opening/room census used in change notifications.
func (g *WallGraph) SetCountSource(src CountSource) {
	g.counts = src
}

// Config returns the editing thresholds the graph was built with.
func (g *WallGraph) Config() plan.Config { return g.cfg }

// notifyChanged emits a graph:changed census after any mutation.
func (g *WallGraph) notifyChanged() {
	if g.bus == nil {
		return
	}
	counts := plan.Counts{}
	if g.counts != nil {
		counts = g.counts()
	}
	counts.Nodes = len(g.nodes)
	counts.Walls = len(g.walls)
	g.bus.Emit(event.GraphChanged{Counts: counts})
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Node returns the node with the given id, or nil.
func (g *WallGraph) Node(id plan.NodeID) *plan.Node { return g.nodes[id] }

// Wall returns the wall with the given id, or nil.
func (g *WallGraph) Wall(id plan.WallID) *plan.Wall { return g.walls[id] }

// Nodes returns all nodes in insertion order.
func (g *WallGraph) Nodes() []*plan.Node {
	out := make([]*plan.Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Walls returns all walls in insertion order.
func (g *WallGraph) Walls() []*plan.Wall {
	out := make([]*plan.Wall, 0, len(g.wallOrder))
	for _, id := range g.wallOrder {
		out = append(out, g.walls[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *WallGraph) NodeCount() int { return len(g.nodes) }

// WallCount returns the number of walls.
func (g *WallGraph) WallCount() int { return len(g.walls) }

// FindClosestNode scans all nodes and returns the nearest one within
// threshold of p, or nil. Nodes listed in exclude are skipped. Ties at equal
// distance resolve to the first node in insertion order.
func (g *WallGraph) FindClosestNode(p plan.Point, threshold float64, exclude ...plan.NodeID) *plan.Node {
	skip := make(map[plan.NodeID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var best *plan.Node
	bestDist := threshold
	for _, id := range g.nodeOrder {
		if skip[id] {
			continue
		}
		n := g.nodes[id]
		d := geometry.Distance(n.Position, p)
		if d < bestDist || (best == nil && d <= threshold) {
			best = n
			bestDist = d
		}
	}
	return best
}

// FindNearestWall returns the wall whose segment is nearest to p within
// threshold, or nil. Ties resolve to the first wall in insertion order.
func (g *WallGraph) FindNearestWall(p plan.Point, threshold float64, exclude ...plan.WallID) *plan.Wall {
	skip := make(map[plan.WallID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var best *plan.Wall
	bestDist := threshold
	for _, id := range g.wallOrder {
		if skip[id] {
			continue
		}
		w := g.walls[id]
		d := geometry.DistanceToSegment(p, w.StartPoint, w.EndPoint)
		if d < bestDist || (best == nil && d <= threshold) {
			best = w
			bestDist = d
		}
	}
	return best
}

// NodeAt returns the first node whose pick radius contains p, or nil.
func (g *WallGraph) NodeAt(p plan.Point) *plan.Node {
	for _, id := range g.nodeOrder {
		if g.nodes[id].ContainsPoint(p) {
			return g.nodes[id]
		}
	}
	return nil
}

// WallAt returns the first wall whose body contains p, or nil.
func (g *WallGraph) WallAt(p plan.Point) *plan.Wall {
	for _, id := range g.wallOrder {
		if g.walls[id].ContainsPoint(p) {
			return g.walls[id]
		}
	}
	return nil
}

// WallBetween returns the wall connecting the two nodes in either direction,
// or nil.
func (g *WallGraph) WallBetween(a, b plan.NodeID) *plan.Wall {
	na := g.nodes[a]
	if na == nil {
		return nil
	}
	for _, wid := range na.Walls() {
		w := g.walls[wid]
		if w != nil && w.HasNode(b) {
			return w
		}
	}
	return nil
}

// WallsOfNode returns the walls attached to a node in attachment order.
func (g *WallGraph) WallsOfNode(id plan.NodeID) []*plan.Wall {
	n := g.nodes[id]
	if n == nil {
		return nil
	}
	var out []*plan.Wall
	for _, wid := range n.Walls() {
		if w := g.walls[wid]; w != nil {
			out = append(out, w)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// CreateNode creates a node at the given position. It always succeeds.
func (g *WallGraph) CreateNode(p plan.Point) *plan.Node {
	n := plan.NewNode(p)
	g.insertNode(n)
	g.notifyChanged()
	return n
}

// insertNode registers an existing node, preserving its id (used by restore
// and undo paths).
func (g *WallGraph) insertNode(n *plan.Node) {
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

// RestoreNode re-registers a previously removed node under its original id.
func (g *WallGraph) RestoreNode(n *plan.Node) {
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	g.insertNode(n)
	g.notifyChanged()
}

// CreateWall creates a wall between two existing nodes. It fails with an
// ErrInvalidTopology-wrapped error when either node is missing, the nodes are
// identical, the span is shorter than the minimum wall length, or a wall
// already connects the pair.
func (g *WallGraph) CreateWall(start, end plan.NodeID) (*plan.Wall, error) {
	return g.CreateWallWithProps(start, end, g.cfg.WallThickness, g.cfg.WallHeight)
}

// CreateWallWithProps is CreateWall with explicit thickness and height.
func (g *WallGraph) CreateWallWithProps(start, end plan.NodeID, thickness, height float64) (*plan.Wall, error) {
	ns := g.nodes[start]
	ne := g.nodes[end]
	if ns == nil || ne == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTopology, ErrNodeNotFound)
	}
	if start == end {
		return nil, fmt.Errorf("%w: wall endpoints are the same node", ErrInvalidTopology)
	}
	if geometry.Distance(ns.Position, ne.Position) < g.cfg.MinWallLength {
		return nil, fmt.Errorf("%w: wall shorter than minimum length %.0f", ErrInvalidTopology, g.cfg.MinWallLength)
	}
	if g.WallBetween(start, end) != nil {
		return nil, fmt.Errorf("%w: wall already exists between nodes", ErrInvalidTopology)
	}

	w := plan.NewWall(start, end, ns.Position, ne.Position, thickness, height)
	g.insertWall(w)
	g.notifyChanged()
	return w, nil
}

// insertWall registers a wall and links it on both endpoint nodes.
func (g *WallGraph) insertWall(w *plan.Wall) {
	g.walls[w.ID] = w
	g.wallOrder = append(g.wallOrder, w.ID)
	if n := g.nodes[w.Start]; n != nil {
		n.AttachWall(w.ID)
	}
	if n := g.nodes[w.End]; n != nil {
		n.AttachWall(w.ID)
	}
}

// RestoreWall re-registers a previously removed wall under its original id,
// refreshing the cached endpoints from the current node positions.
func (g *WallGraph) RestoreWall(w *plan.Wall) {
	if _, ok := g.walls[w.ID]; ok {
		return
	}
	if ns := g.nodes[w.Start]; ns != nil {
		w.StartPoint = ns.Position
	}
	if ne := g.nodes[w.End]; ne != nil {
		w.EndPoint = ne.Position
	}
	g.insertWall(w)
	g.notifyChanged()
}

// RemoveWall detaches the wall from both endpoint nodes and deletes it. The
// nodes remain. Removing an unknown id is a no-op; the second removal of the
// same id neither fails nor re-notifies.
func (g *WallGraph) RemoveWall(id plan.WallID) *plan.Wall {
	w, ok := g.walls[id]
	if !ok {
		return nil
	}
	if n := g.nodes[w.Start]; n != nil {
		n.DetachWall(id)
	}
	if n := g.nodes[w.End]; n != nil {
		n.DetachWall(id)
	}
	delete(g.walls, id)
	g.wallOrder = removeID(g.wallOrder, id)
	g.notifyChanged()
	return w
}

// RemoveNode cascades: every wall connected to the node is removed first,
// then the node itself. The removed walls are returned for undo capture and
// opening cleanup. Removing an unknown id is a no-op.
func (g *WallGraph) RemoveNode(id plan.NodeID) []*plan.Wall {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	var removed []*plan.Wall
	for _, wid := range n.Walls() {
		if w := g.RemoveWall(wid); w != nil {
			removed = append(removed, w)
		}
	}
	delete(g.nodes, id)
	g.nodeOrder = removeNodeID(g.nodeOrder, id)
	g.notifyChanged()
	return removed
}

// SetNodePosition moves a node and refreshes the cached endpoints of every
// connected wall.
func (g *WallGraph) SetNodePosition(id plan.NodeID, p plan.Point) error {
	n := g.nodes[id]
	if n == nil {
		return ErrNodeNotFound
	}
	n.Position = p
	for _, wid := range n.Walls() {
		w := g.walls[wid]
		if w == nil {
			continue
		}
		if w.Start == id {
			w.StartPoint = p
		}
		if w.End == id {
			w.EndPoint = p
		}
	}
	g.notifyChanged()
	return nil
}

// SplitResult reports the pieces produced by SplitWall.
type SplitResult struct {
	Removed  *plan.Wall
	NewNode  *plan.Node
	SegmentA *plan.Wall // original start -> new node
	SegmentB *plan.Wall // new node -> original end
}

// SplitWall replaces one wall with two new walls joined at a new node placed
// at the given point, preserving thickness and height. Callers are
// responsible for validating the split point beforehand; attached openings
// must be reassigned by the command layer using the returned pieces.
func (g *WallGraph) SplitWall(id plan.WallID, p plan.Point) (*SplitResult, error) {
	w, ok := g.walls[id]
	if !ok {
		return nil, ErrWallNotFound
	}
	start, end := w.Start, w.End
	thickness, height := w.Thickness, w.Height

	g.RemoveWall(id)
	mid := plan.NewNode(p)
	g.insertNode(mid)

	segA := plan.NewWall(start, mid.ID, g.nodes[start].Position, p, thickness, height)
	g.insertWall(segA)
	segB := plan.NewWall(mid.ID, end, p, g.nodes[end].Position, thickness, height)
	g.insertWall(segB)

	g.notifyChanged()
	return &SplitResult{Removed: w, NewNode: mid, SegmentA: segA, SegmentB: segB}, nil
}

// MergeResult reports the wall rerouting performed by MergeNodes. Replaced
// maps each removed wall id to its replacement; a nil value means the wall
// collapsed (it connected source to target, or duplicated an existing wall).
type MergeResult struct {
	Source   *plan.Node
	Removed  []*plan.Wall
	Replaced map[plan.WallID]*plan.Wall
}

// MergeNodes reroutes every wall attached to source through target, then
// deletes source. A wall from source to target collapses; a rerouted wall
// duplicating an existing target wall collapses as well.
func (g *WallGraph) MergeNodes(source, target plan.NodeID) (*MergeResult, error) {
	src := g.nodes[source]
	dst := g.nodes[target]
	if src == nil || dst == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTopology, ErrNodeNotFound)
	}
	if source == target {
		return nil, fmt.Errorf("%w: cannot merge a node into itself", ErrInvalidTopology)
	}

	result := &MergeResult{Source: src, Replaced: make(map[plan.WallID]*plan.Wall)}
	for _, wid := range src.Walls() {
		w := g.walls[wid]
		if w == nil {
			continue
		}
		other := w.OtherNode(source)
		g.RemoveWall(wid)
		result.Removed = append(result.Removed, w)

		if other == target || g.WallBetween(target, other) != nil {
			result.Replaced[wid] = nil
			continue
		}
		nw := plan.NewWall(target, other, dst.Position, g.nodes[other].Position, w.Thickness, w.Height)
		g.insertWall(nw)
		result.Replaced[wid] = nw
	}

	delete(g.nodes, source)
	g.nodeOrder = removeNodeID(g.nodeOrder, source)
	g.notifyChanged()
	return result, nil
}

// Clear drops all nodes and walls.
func (g *WallGraph) Clear() {
	g.nodes = make(map[plan.NodeID]*plan.Node)
	g.walls = make(map[plan.WallID]*plan.Wall)
	g.nodeOrder = nil
	g.wallOrder = nil
	g.notifyChanged()
}

func removeID(ids []plan.WallID, id plan.WallID) []plan.WallID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeNodeID(ids []plan.NodeID, id plan.NodeID) []plan.NodeID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
