package store

import (
	"wallplan/event"
	"wallplan/plan"
)

// SelectionStore is the cross-tool shared selection set. It is ephemeral
// state rebuilt through notifications, never persisted. Every mutation
// broadcasts the full selection snapshot.
type SelectionStore struct {
	bus     *event.Bus
	nodes   []plan.NodeID
	walls   []plan.WallID
	doors   []plan.OpeningID
	windows []plan.OpeningID
}

// NewSelectionStore creates an empty selection.
func NewSelectionStore(bus *event.Bus) *SelectionStore {
	return &SelectionStore{bus: bus}
}

// SelectNode adds a node to the selection.
func (s *SelectionStore) SelectNode(id plan.NodeID) {
	if !containsNode(s.nodes, id) {
		s.nodes = append(s.nodes, id)
		s.broadcast()
	}
}

// DeselectNode removes a node from the selection.
func (s *SelectionStore) DeselectNode(id plan.NodeID) {
	for i, v := range s.nodes {
		if v == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			s.broadcast()
			return
		}
	}
}

// SelectWall adds a wall to the selection.
func (s *SelectionStore) SelectWall(id plan.WallID) {
	if !containsWall(s.walls, id) {
		s.walls = append(s.walls, id)
		s.broadcast()
	}
}

// DeselectWall removes a wall from the selection.
func (s *SelectionStore) DeselectWall(id plan.WallID) {
	for i, v := range s.walls {
		if v == id {
			s.walls = append(s.walls[:i], s.walls[i+1:]...)
			s.broadcast()
			return
		}
	}
}

// SelectDoor adds a door to the selection.
func (s *SelectionStore) SelectDoor(id plan.OpeningID) {
	if !containsOpening(s.doors, id) {
		s.doors = append(s.doors, id)
		s.broadcast()
	}
}

// SelectWindow adds a window to the selection.
func (s *SelectionStore) SelectWindow(id plan.OpeningID) {
	if !containsOpening(s.windows, id) {
		s.windows = append(s.windows, id)
		s.broadcast()
	}
}

// DeselectDoor removes a door from the selection.
func (s *SelectionStore) DeselectDoor(id plan.OpeningID) {
	for i, v := range s.doors {
		if v == id {
			s.doors = append(s.doors[:i], s.doors[i+1:]...)
			s.broadcast()
			return
		}
	}
}

// DeselectWindow removes a window from the selection.
func (s *SelectionStore) DeselectWindow(id plan.OpeningID) {
	for i, v := range s.windows {
		if v == id {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			s.broadcast()
			return
		}
	}
}

// IsNodeSelected reports node membership.
func (s *SelectionStore) IsNodeSelected(id plan.NodeID) bool { return containsNode(s.nodes, id) }

// IsWallSelected reports wall membership.
func (s *SelectionStore) IsWallSelected(id plan.WallID) bool { return containsWall(s.walls, id) }

// IsDoorSelected reports door membership.
func (s *SelectionStore) IsDoorSelected(id plan.OpeningID) bool { return containsOpening(s.doors, id) }

// IsWindowSelected reports window membership.
func (s *SelectionStore) IsWindowSelected(id plan.OpeningID) bool {
	return containsOpening(s.windows, id)
}

// Nodes returns the selected node ids in selection order.
func (s *SelectionStore) Nodes() []plan.NodeID {
	out := make([]plan.NodeID, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Walls returns the selected wall ids in selection order.
func (s *SelectionStore) Walls() []plan.WallID {
	out := make([]plan.WallID, len(s.walls))
	copy(out, s.walls)
	return out
}

// Doors returns the selected door ids in selection order.
func (s *SelectionStore) Doors() []plan.OpeningID {
	out := make([]plan.OpeningID, len(s.doors))
	copy(out, s.doors)
	return out
}

// Windows returns the selected window ids in selection order.
func (s *SelectionStore) Windows() []plan.OpeningID {
	out := make([]plan.OpeningID, len(s.windows))
	copy(out, s.windows)
	return out
}

// IsEmpty reports whether nothing is selected.
func (s *SelectionStore) IsEmpty() bool {
	return len(s.nodes) == 0 && len(s.walls) == 0 && len(s.doors) == 0 && len(s.windows) == 0
}

// Clear empties the selection and broadcasts once.
func (s *SelectionStore) Clear() {
	if s.IsEmpty() {
		return
	}
	s.nodes = nil
	s.walls = nil
	s.doors = nil
	s.windows = nil
	s.broadcast()
}

func (s *SelectionStore) snapshot() event.SelectionChanged {
	return event.SelectionChanged{
		Nodes:   s.Nodes(),
		Walls:   s.Walls(),
		Doors:   s.Doors(),
		Windows: s.Windows(),
	}
}

func (s *SelectionStore) broadcast() {
	if s.bus != nil {
		s.bus.Emit(s.snapshot())
	}
}

func containsNode(ids []plan.NodeID, id plan.NodeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsWall(ids []plan.WallID, id plan.WallID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsOpening(ids []plan.OpeningID, id plan.OpeningID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
