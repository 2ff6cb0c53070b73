// Package store contains the per-kind registries for doors, windows and
// rooms, and the cross-tool selection store. Registries assign stable ordinal
// numbers at registration and emit change notifications on the bus.
package store

import (
	"wallplan/event"
	"wallplan/plan"
)

// DoorStore owns every door in the session.
type DoorStore struct {
	bus   *event.Bus
	doors map[plan.OpeningID]*plan.Door
	order []plan.OpeningID
	next  int // next ordinal, never reused within a session
}

// NewDoorStore creates an empty door registry.
func NewDoorStore(bus *event.Bus) *DoorStore {
	return &DoorStore{bus: bus, doors: make(map[plan.OpeningID]*plan.Door)}
}

// Add registers a door, assigning the next ordinal when it has none.
func (s *DoorStore) Add(d *plan.Door) {
	if d.Ordinal == 0 {
		s.next++
		d.Ordinal = s.next
	} else if d.Ordinal > s.next {
		s.next = d.Ordinal
	}
	s.doors[d.ID] = d
	s.order = append(s.order, d.ID)
	s.notify(d.ID, false)
}

// Remove deletes a door and returns it, or nil for unknown ids.
func (s *DoorStore) Remove(id plan.OpeningID) *plan.Door {
	d, ok := s.doors[id]
	if !ok {
		return nil
	}
	delete(s.doors, id)
	s.order = removeOpeningID(s.order, id)
	s.notify(id, true)
	return d
}

// Get returns the door with the given id, or nil.
func (s *DoorStore) Get(id plan.OpeningID) *plan.Door { return s.doors[id] }

// All returns every door in registration order.
func (s *DoorStore) All() []*plan.Door {
	out := make([]*plan.Door, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.doors[id])
	}
	return out
}

// OnWall returns the doors attached to the given wall in registration order.
func (s *DoorStore) OnWall(wall plan.WallID) []*plan.Door {
	var out []*plan.Door
	for _, id := range s.order {
		if d := s.doors[id]; d.Wall == wall {
			out = append(out, d)
		}
	}
	return out
}

// At returns the first door whose span contains p, or nil.
func (s *DoorStore) At(p plan.Point) *plan.Door {
	for _, id := range s.order {
		if s.doors[id].ContainsPoint(p) {
			return s.doors[id]
		}
	}
	return nil
}

// Count returns the number of doors.
func (s *DoorStore) Count() int { return len(s.doors) }

// Notify re-emits a change notification for an in-place mutation (move,
// flip, wall reassignment).
func (s *DoorStore) Notify(id plan.OpeningID) { s.notify(id, false) }

// Clear drops all doors. The ordinal counter keeps running so reused
// sessions never repeat numbers.
func (s *DoorStore) Clear() {
	s.doors = make(map[plan.OpeningID]*plan.Door)
	s.order = nil
}

func (s *DoorStore) notify(id plan.OpeningID, removed bool) {
	if s.bus != nil {
		s.bus.Emit(event.DoorChanged{ID: id, Removed: removed})
	}
}

// WindowStore owns every window in the session.
type WindowStore struct {
	bus     *event.Bus
	windows map[plan.OpeningID]*plan.Window
	order   []plan.OpeningID
	next    int
}

// NewWindowStore creates an empty window registry.
func NewWindowStore(bus *event.Bus) *WindowStore {
	return &WindowStore{bus: bus, windows: make(map[plan.OpeningID]*plan.Window)}
}

// Add registers a window, assigning the next ordinal when it has none.
func (s *WindowStore) Add(w *plan.Window) {
	if w.Ordinal == 0 {
		s.next++
		w.Ordinal = s.next
	} else if w.Ordinal > s.next {
		s.next = w.Ordinal
	}
	s.windows[w.ID] = w
	s.order = append(s.order, w.ID)
	s.notify(w.ID, false)
}

// Remove deletes a window and returns it, or nil for unknown ids.
func (s *WindowStore) Remove(id plan.OpeningID) *plan.Window {
	w, ok := s.windows[id]
	if !ok {
		return nil
	}
	delete(s.windows, id)
	s.order = removeOpeningID(s.order, id)
	s.notify(id, true)
	return w
}

// Get returns the window with the given id, or nil.
func (s *WindowStore) Get(id plan.OpeningID) *plan.Window { return s.windows[id] }

// All returns every window in registration order.
func (s *WindowStore) All() []*plan.Window {
	out := make([]*plan.Window, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.windows[id])
	}
	return out
}

// OnWall returns the windows attached to the given wall in registration order.
func (s *WindowStore) OnWall(wall plan.WallID) []*plan.Window {
	var out []*plan.Window
	for _, id := range s.order {
		if w := s.windows[id]; w.Wall == wall {
			out = append(out, w)
		}
	}
	return out
}

// At returns the first window whose span contains p, or nil.
func (s *WindowStore) At(p plan.Point) *plan.Window {
	for _, id := range s.order {
		if s.windows[id].ContainsPoint(p) {
			return s.windows[id]
		}
	}
	return nil
}

// Count returns the number of windows.
func (s *WindowStore) Count() int { return len(s.windows) }

// Notify re-emits a change notification for an in-place mutation.
func (s *WindowStore) Notify(id plan.OpeningID) { s.notify(id, false) }

// Clear drops all windows, keeping the ordinal counter.
func (s *WindowStore) Clear() {
	s.windows = make(map[plan.OpeningID]*plan.Window)
	s.order = nil
}

func (s *WindowStore) notify(id plan.OpeningID, removed bool) {
	if s.bus != nil {
		s.bus.Emit(event.WindowChanged{ID: id, Removed: removed})
	}
}

func removeOpeningID(ids []plan.OpeningID, id plan.OpeningID) []plan.OpeningID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
