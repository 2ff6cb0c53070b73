package graph

import (
	"fmt"

	"wallplan/geometry"
	"wallplan/plan"
)

// CheckIntegrity verifies the graph's referential invariants and returns one
// error per violation. An empty slice means the graph is consistent:
//
//   - every wall's endpoint nodes exist and list the wall back;
//   - every id in a node's wall list resolves to a wall referencing the node;
//   - cached wall endpoints equal the referenced node positions.
func (g *WallGraph) CheckIntegrity() []error {
	var errs []error

	for _, id := range g.wallOrder {
		w := g.walls[id]
		endpoints := []struct {
			which string
			node  plan.NodeID
			point plan.Point
		}{
			{"start", w.Start, w.StartPoint},
			{"end", w.End, w.EndPoint},
		}
		for _, ep := range endpoints {
			n := g.nodes[ep.node]
			if n == nil {
				errs = append(errs, fmt.Errorf("wall %s: %s node %s missing", w.ID, ep.which, ep.node))
				continue
			}
			if !n.HasWall(w.ID) {
				errs = append(errs, fmt.Errorf("wall %s: %s node %s does not list it", w.ID, ep.which, ep.node))
			}
			if !geometry.NearlyEqual(n.Position, ep.point) {
				errs = append(errs, fmt.Errorf("wall %s: cached %s point %v differs from node position %v", w.ID, ep.which, ep.point, n.Position))
			}
		}
	}

	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		for _, wid := range n.Walls() {
			w := g.walls[wid]
			if w == nil {
				errs = append(errs, fmt.Errorf("node %s: wall %s missing", n.ID, wid))
				continue
			}
			if !w.HasNode(n.ID) {
				errs = append(errs, fmt.Errorf("node %s: wall %s does not reference it", n.ID, wid))
			}
		}
	}

	return errs
}
