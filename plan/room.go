package plan

// Room is a derived aggregate built from a closed wall cycle. It is
// recomputed from the graph rather than independently mutated; Area is
// refreshed by the command service whenever a member wall moves.
type Room struct {
	ID      RoomID
	Walls   []WallID // ordered cycle
	Name    string
	Ordinal int
	Area    float64

	selected    bool
	highlighted bool
}

// NewRoom creates a room over the given ordered wall cycle.
func NewRoom(walls []WallID, name string) *Room {
	ids := make([]WallID, len(walls))
	copy(ids, walls)
	return &Room{ID: NewRoomID(), Walls: ids, Name: name}
}

// HasWall reports whether the wall id is part of the room boundary.
func (r *Room) HasWall(id WallID) bool {
	for _, w := range r.Walls {
		if w == id {
			return true
		}
	}
	return false
}

// SetSelected marks the room as selected for rendering.
func (r *Room) SetSelected(v bool) { r.selected = v }

// SetHighlighted marks the room as hover-highlighted for rendering.
func (r *Room) SetHighlighted(v bool) { r.highlighted = v }

// Selected reports the selection flag.
func (r *Room) Selected() bool { return r.selected }
