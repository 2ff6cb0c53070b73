package command

import (
	"wallplan/event"
	"wallplan/graph"
	"wallplan/plan"
)

// openingState is a point-in-time capture of an opening's attachment, taken
// around topology changes so undo and redo can put the opening back exactly.
type openingState struct {
	door bool
	id   plan.OpeningID
	wall plan.WallID
	pos  plan.Point
}

// captureOpeningsOn snapshots every opening attached to the given walls.
func (s *Service) captureOpeningsOn(walls ...plan.WallID) []openingState {
	var states []openingState
	for _, wid := range walls {
		for _, d := range s.doors.OnWall(wid) {
			states = append(states, openingState{door: true, id: d.ID, wall: wid, pos: d.Position})
		}
		for _, w := range s.windows.OnWall(wid) {
			states = append(states, openingState{id: w.ID, wall: wid, pos: w.Position})
		}
	}
	return states
}

// applyOpeningStates reattaches captured openings. Openings or walls that no
// longer exist are skipped.
func (s *Service) applyOpeningStates(states []openingState) {
	for _, st := range states {
		w := s.graph.Wall(st.wall)
		if w == nil {
			continue
		}
		if st.door {
			d := s.doors.Get(st.id)
			if d == nil {
				continue
			}
			d.UpdateWallReference(w)
			d.UpdatePosition(st.pos)
			s.doors.Notify(d.ID)
			continue
		}
		win := s.windows.Get(st.id)
		if win == nil {
			continue
		}
		win.UpdateWallReference(w)
		win.UpdatePosition(st.pos)
		s.windows.Notify(win.ID)
	}
}

// roomState is a point-in-time capture of a room's boundary, taken before a
// topology change that may rewrite or delete the room.
type roomState struct {
	room  *plan.Room
	walls []plan.WallID
	area  float64
}

// captureRoomsWith snapshots every room whose boundary touches the given
// walls, each room once.
func (s *Service) captureRoomsWith(walls ...plan.WallID) []roomState {
	seen := make(map[plan.RoomID]bool)
	var states []roomState
	for _, wid := range walls {
		for _, r := range s.rooms.WithWall(wid) {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			boundary := make([]plan.WallID, len(r.Walls))
			copy(boundary, r.Walls)
			states = append(states, roomState{room: r, walls: boundary, area: r.Area})
		}
	}
	return states
}

// restoreRooms puts captured rooms back, re-registering any that were
// deleted as degenerate in the meantime.
func (s *Service) restoreRooms(states []roomState) {
	for _, st := range states {
		if s.rooms.Get(st.room.ID) == nil {
			s.rooms.Add(st.room)
		}
		st.room.Walls = append([]plan.WallID(nil), st.walls...)
		st.room.Area = st.area
		s.rooms.Notify(st.room.ID)
	}
}

// restoreRemovedOpenings re-registers openings dropped by a cascade.
func (s *Service) restoreRemovedOpenings(removed RemovedOpenings) {
	for _, d := range removed.Doors {
		s.doors.Add(d)
	}
	for _, w := range removed.Windows {
		s.windows.Add(w)
	}
}

// dropRemovedOpenings re-deletes openings a redo must drop again.
func (s *Service) dropRemovedOpenings(removed RemovedOpenings) {
	for _, d := range removed.Doors {
		if s.doors.Remove(d.ID) != nil {
			s.selection.DeselectDoor(d.ID)
		}
	}
	for _, w := range removed.Windows {
		if s.windows.Remove(w.ID) != nil {
			s.selection.DeselectWindow(w.ID)
		}
	}
}

// undoSplit collapses the two segments back into the original wall and
// reattaches the openings at their pre-split positions.
func (s *Service) undoSplit(res *graph.SplitResult, pre []openingState) {
	s.graph.RemoveWall(res.SegmentA.ID)
	s.graph.RemoveWall(res.SegmentB.ID)
	s.graph.RemoveNode(res.NewNode.ID)
	s.graph.RestoreWall(res.Removed)
	s.replaceWallInRooms(res.SegmentA.ID, []plan.WallID{res.Removed.ID})
	s.replaceWallInRooms(res.SegmentB.ID, nil)
	s.applyOpeningStates(pre)
	s.emit(event.WallRemoved{ID: res.SegmentA.ID})
	s.emit(event.WallRemoved{ID: res.SegmentB.ID})
	s.emit(event.WallCreated{ID: res.Removed.ID})
	s.refreshRoomAreas()
}

// redoSplit replays a split with the original segment and node ids.
func (s *Service) redoSplit(res *graph.SplitResult, post []openingState) {
	s.graph.RemoveWall(res.Removed.ID)
	s.graph.RestoreNode(res.NewNode)
	s.graph.RestoreWall(res.SegmentA)
	s.graph.RestoreWall(res.SegmentB)
	s.replaceWallInRooms(res.Removed.ID, []plan.WallID{res.SegmentA.ID, res.SegmentB.ID})
	s.applyOpeningStates(post)
	s.emit(event.WallRemoved{ID: res.Removed.ID})
	s.emit(event.WallCreated{ID: res.SegmentA.ID})
	s.emit(event.WallCreated{ID: res.SegmentB.ID})
	s.refreshRoomAreas()
}

// undoMerge restores the source node, its original walls, the openings that
// followed or were dropped, and the room boundaries.
func (s *Service) undoMerge(res *graph.MergeResult, pre []openingState, dropped RemovedOpenings, rooms []roomState) {
	for _, repl := range res.Replaced {
		if repl != nil {
			s.graph.RemoveWall(repl.ID)
			s.emit(event.WallRemoved{ID: repl.ID})
		}
	}
	s.graph.RestoreNode(res.Source)
	for _, w := range res.Removed {
		s.graph.RestoreWall(w)
		s.emit(event.WallCreated{ID: w.ID})
	}
	s.restoreRemovedOpenings(dropped)
	s.applyOpeningStates(pre)
	s.restoreRooms(rooms)
	s.emit(event.NodeUpdated{ID: res.Source.ID, Position: res.Source.Position})
	s.refreshRoomAreas()
}

// redoMerge replays a merge with the original replacement wall ids.
func (s *Service) redoMerge(res *graph.MergeResult, post []openingState, dropped RemovedOpenings) {
	for _, w := range res.Removed {
		s.graph.RemoveWall(w.ID)
		s.emit(event.WallRemoved{ID: w.ID})
	}
	s.graph.RemoveNode(res.Source.ID)
	for old, repl := range res.Replaced {
		if repl == nil {
			s.detachWallFromRooms(old)
			continue
		}
		s.graph.RestoreWall(repl)
		s.replaceWallInRooms(old, []plan.WallID{repl.ID})
		s.emit(event.WallCreated{ID: repl.ID})
	}
	s.dropRemovedOpenings(dropped)
	s.applyOpeningStates(post)
	s.selection.DeselectNode(res.Source.ID)
	s.refreshRoomAreas()
}
