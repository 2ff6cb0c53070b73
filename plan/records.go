package plan

// Storage records are the flat, id-keyed shapes entities round-trip through.
// Openings persist a relative offset (fraction of wall length) instead of
// absolute coordinates and are recomputed against their wall on load.

// NodeRecord is the persisted shape of a Node.
type NodeRecord struct {
	ID NodeID  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// WallRecord is the persisted shape of a Wall.
type WallRecord struct {
	ID        WallID  `json:"id"`
	Start     NodeID  `json:"start"`
	End       NodeID  `json:"end"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
	Thickness float64 `json:"thickness"`
	Height    float64 `json:"height"`
}

// OpeningRecord is the persisted shape shared by doors and windows.
type OpeningRecord struct {
	ID      OpeningID `json:"id"`
	Wall    WallID    `json:"wall"`
	Offset  float64   `json:"offset"` // centre position as fraction of wall length
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Flipped bool      `json:"flipped,omitempty"`
	Ordinal int       `json:"ordinal"`
}

// DoorRecord is the persisted shape of a Door.
type DoorRecord struct {
	OpeningRecord
	OpenDirection OpenDirection `json:"open_direction"`
}

// WindowRecord is the persisted shape of a Window.
type WindowRecord struct {
	OpeningRecord
}

// RoomRecord is the persisted shape of a Room.
type RoomRecord struct {
	ID      RoomID   `json:"id"`
	Walls   []WallID `json:"walls"`
	Name    string   `json:"name,omitempty"`
	Ordinal int      `json:"ordinal"`
}

// ToRecord returns the node's storage record.
func (n *Node) ToRecord() NodeRecord {
	return NodeRecord{ID: n.ID, X: n.Position.X, Y: n.Position.Y}
}

// NodeFromRecord rebuilds a node from its storage record.
func NodeFromRecord(rec NodeRecord) *Node {
	return &Node{ID: rec.ID, Position: Point{X: rec.X, Y: rec.Y}}
}

// ToRecord returns the wall's storage record.
func (w *Wall) ToRecord() WallRecord {
	return WallRecord{
		ID:        w.ID,
		Start:     w.Start,
		End:       w.End,
		X1:        w.StartPoint.X,
		Y1:        w.StartPoint.Y,
		X2:        w.EndPoint.X,
		Y2:        w.EndPoint.Y,
		Thickness: w.Thickness,
		Height:    w.Height,
	}
}

// WallFromRecord rebuilds a wall from its storage record.
func WallFromRecord(rec WallRecord) *Wall {
	return &Wall{
		ID:         rec.ID,
		Start:      rec.Start,
		End:        rec.End,
		StartPoint: Point{X: rec.X1, Y: rec.Y1},
		EndPoint:   Point{X: rec.X2, Y: rec.Y2},
		Thickness:  rec.Thickness,
		Height:     rec.Height,
	}
}

func (o *Opening) toRecord(w *Wall) OpeningRecord {
	return OpeningRecord{
		ID:      o.ID,
		Wall:    o.Wall,
		Offset:  o.RelativeOn(w),
		Width:   o.Width,
		Height:  o.Height,
		Flipped: o.Flipped,
		Ordinal: o.Ordinal,
	}
}

func openingFromRecord(rec OpeningRecord, w *Wall) Opening {
	o := Opening{
		ID:      rec.ID,
		Wall:    rec.Wall,
		Angle:   w.Angle(),
		Width:   rec.Width,
		Height:  rec.Height,
		Flipped: rec.Flipped,
		Ordinal: rec.Ordinal,
		A:       Connector{ID: NewNodeID()},
		B:       Connector{ID: NewNodeID()},
	}
	o.Position = w.PointAt(rec.Offset)
	o.placeConnectors()
	return o
}

// ToRecord returns the door's storage record. The owning wall is needed to
// compute the relative offset.
func (d *Door) ToRecord(w *Wall) DoorRecord {
	return DoorRecord{OpeningRecord: d.toRecord(w), OpenDirection: d.OpenDirection}
}

// DoorFromRecord rebuilds a door against its referenced wall.
func DoorFromRecord(rec DoorRecord, w *Wall) *Door {
	return &Door{Opening: openingFromRecord(rec.OpeningRecord, w), OpenDirection: rec.OpenDirection}
}

// ToRecord returns the window's storage record.
func (win *Window) ToRecord(w *Wall) WindowRecord {
	return WindowRecord{OpeningRecord: win.toRecord(w)}
}

// WindowFromRecord rebuilds a window against its referenced wall.
func WindowFromRecord(rec WindowRecord, w *Wall) *Window {
	return &Window{Opening: openingFromRecord(rec.OpeningRecord, w)}
}

// ToRecord returns the room's storage record.
func (r *Room) ToRecord() RoomRecord {
	walls := make([]WallID, len(r.Walls))
	copy(walls, r.Walls)
	return RoomRecord{ID: r.ID, Walls: walls, Name: r.Name, Ordinal: r.Ordinal}
}

// RoomFromRecord rebuilds a room from its storage record.
func RoomFromRecord(rec RoomRecord) *Room {
	walls := make([]WallID, len(rec.Walls))
	copy(walls, rec.Walls)
	return &Room{ID: rec.ID, Walls: walls, Name: rec.Name, Ordinal: rec.Ordinal}
}
