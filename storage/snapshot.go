// Package storage serializes whole plans. A Snapshot is the flat JSON record
// form of a session's entities; ProjectStore persists named snapshots in a
// SQLite database. Openings are stored by relative position along their wall
// and recomputed against the restored wall on load.
package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"wallplan/plan"
	"wallplan/session"
)

// Snapshot is the serialized form of one plan.
type Snapshot struct {
	Nodes   []plan.NodeRecord   `json:"nodes"`
	Walls   []plan.WallRecord   `json:"walls"`
	Doors   []plan.DoorRecord   `json:"doors"`
	Windows []plan.WindowRecord `json:"windows"`
	Rooms   []plan.RoomRecord   `json:"rooms"`
}

// Capture snapshots the session's current entities.
func Capture(s *session.Session) *Snapshot {
	snap := &Snapshot{}
	for _, n := range s.Graph.Nodes() {
		snap.Nodes = append(snap.Nodes, n.ToRecord())
	}
	for _, w := range s.Graph.Walls() {
		snap.Walls = append(snap.Walls, w.ToRecord())
	}
	for _, d := range s.Doors.All() {
		if w := s.Graph.Wall(d.Wall); w != nil {
			snap.Doors = append(snap.Doors, d.ToRecord(w))
		}
	}
	for _, win := range s.Windows.All() {
		if w := s.Graph.Wall(win.Wall); w != nil {
			snap.Windows = append(snap.Windows, win.ToRecord(w))
		}
	}
	for _, r := range s.Rooms.All() {
		snap.Rooms = append(snap.Rooms, r.ToRecord())
	}
	return snap
}

// Restore replaces the session's contents with the snapshot. Every record
// reference is checked up front, so a snapshot with a dangling reference is
// rejected without touching the session. The command history is cleared; a
// restored plan starts a fresh undo timeline.
func Restore(s *session.Session, snap *Snapshot) error {
	nodes := make(map[plan.NodeID]bool, len(snap.Nodes))
	for _, rec := range snap.Nodes {
		nodes[rec.ID] = true
	}
	walls := make(map[plan.WallID]bool, len(snap.Walls))
	for _, rec := range snap.Walls {
		if !nodes[rec.Start] || !nodes[rec.End] {
			return fmt.Errorf("wall %s references missing node", rec.ID)
		}
		walls[rec.ID] = true
	}
	for _, rec := range snap.Doors {
		if !walls[rec.Wall] {
			return fmt.Errorf("door %s references missing wall %s", rec.ID, rec.Wall)
		}
	}
	for _, rec := range snap.Windows {
		if !walls[rec.Wall] {
			return fmt.Errorf("window %s references missing wall %s", rec.ID, rec.Wall)
		}
	}

	s.Clear()
	for _, rec := range snap.Nodes {
		s.Graph.RestoreNode(plan.NodeFromRecord(rec))
	}
	for _, rec := range snap.Walls {
		s.Graph.RestoreWall(plan.WallFromRecord(rec))
	}
	for _, rec := range snap.Doors {
		s.Doors.Add(plan.DoorFromRecord(rec, s.Graph.Wall(rec.Wall)))
	}
	for _, rec := range snap.Windows {
		s.Windows.Add(plan.WindowFromRecord(rec, s.Graph.Wall(rec.Wall)))
	}
	for _, rec := range snap.Rooms {
		s.Rooms.Add(plan.RoomFromRecord(rec))
	}
	s.Service.RefreshAreas()
	return nil
}

// Encode writes the snapshot as indented JSON.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Decode reads a snapshot from JSON.
func Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}
