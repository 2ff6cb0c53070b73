package store

import (
	"fmt"

	"wallplan/event"
	"wallplan/plan"
)

// RoomStore owns every room aggregate in the session.
type RoomStore struct {
	bus   *event.Bus
	rooms map[plan.RoomID]*plan.Room
	order []plan.RoomID
	next  int
}

// NewRoomStore creates an empty room registry.
func NewRoomStore(bus *event.Bus) *RoomStore {
	return &RoomStore{bus: bus, rooms: make(map[plan.RoomID]*plan.Room)}
}

// Add registers a room, assigning the next ordinal and a default name when
// they are unset.
func (s *RoomStore) Add(r *plan.Room) {
	if r.Ordinal == 0 {
		s.next++
		r.Ordinal = s.next
	} else if r.Ordinal > s.next {
		s.next = r.Ordinal
	}
	if r.Name == "" {
		r.Name = fmt.Sprintf("Room %d", r.Ordinal)
	}
	s.rooms[r.ID] = r
	s.order = append(s.order, r.ID)
	s.notify(r.ID, false)
}

// Remove deletes a room and returns it, or nil for unknown ids.
func (s *RoomStore) Remove(id plan.RoomID) *plan.Room {
	r, ok := s.rooms[id]
	if !ok {
		return nil
	}
	delete(s.rooms, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.notify(id, true)
	return r
}

// Get returns the room with the given id, or nil.
func (s *RoomStore) Get(id plan.RoomID) *plan.Room { return s.rooms[id] }

// All returns every room in registration order.
func (s *RoomStore) All() []*plan.Room {
	out := make([]*plan.Room, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rooms[id])
	}
	return out
}

// WithWall returns the rooms whose boundary includes the given wall.
func (s *RoomStore) WithWall(wall plan.WallID) []*plan.Room {
	var out []*plan.Room
	for _, id := range s.order {
		if r := s.rooms[id]; r.HasWall(wall) {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of rooms.
func (s *RoomStore) Count() int { return len(s.rooms) }

// Notify re-emits a change notification for an in-place mutation (rename,
// area refresh, boundary rewrite).
func (s *RoomStore) Notify(id plan.RoomID) { s.notify(id, false) }

// Clear drops all rooms, keeping the ordinal counter.
func (s *RoomStore) Clear() {
	s.rooms = make(map[plan.RoomID]*plan.Room)
	s.order = nil
}

func (s *RoomStore) notify(id plan.RoomID, removed bool) {
	if s.bus != nil {
		s.bus.Emit(event.RoomChanged{ID: id, Removed: removed})
	}
}
