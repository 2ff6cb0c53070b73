// Package command encapsulates every graph mutation as an undoable unit.
// Concrete commands run against a Service façade that wraps WallGraph and
// store mutations, emits the matching domain notifications and keeps
// dependent openings reconciled; a Manager maintains the history stacks.
package command

import (
	"fmt"

	"wallplan/event"
	"wallplan/geometry"
	"wallplan/graph"
	"wallplan/plan"
	"wallplan/store"
	"wallplan/validation"
)

// Service is the mutation façade shared by all commands. Commands never
// touch rendering; they mutate through the service, which notifies the bus.
type Service struct {
	cfg       plan.Config
	graph     *graph.WallGraph
	doors     *store.DoorStore
	windows   *store.WindowStore
	rooms     *store.RoomStore
	selection *store.SelectionStore
	validator *validation.Validator
	bus       *event.Bus
}

// NewService wires the façade over the session's graph and stores.
func NewService(cfg plan.Config, g *graph.WallGraph, doors *store.DoorStore, windows *store.WindowStore,
	rooms *store.RoomStore, selection *store.SelectionStore, validator *validation.Validator, bus *event.Bus) *Service {
	return &Service{
		cfg:       cfg,
		graph:     g,
		doors:     doors,
		windows:   windows,
		rooms:     rooms,
		selection: selection,
		validator: validator,
		bus:       bus,
	}
}

// Graph exposes the underlying graph for read-only queries.
func (s *Service) Graph() *graph.WallGraph { return s.graph }

// Doors exposes the door registry.
func (s *Service) Doors() *store.DoorStore { return s.doors }

// Windows exposes the window registry.
func (s *Service) Windows() *store.WindowStore { return s.windows }

// Rooms exposes the room registry.
func (s *Service) Rooms() *store.RoomStore { return s.rooms }

// Selection exposes the shared selection store.
func (s *Service) Selection() *store.SelectionStore { return s.selection }

// Validator exposes the placement validator.
func (s *Service) Validator() *validation.Validator { return s.validator }

// Config returns the editing thresholds.
func (s *Service) Config() plan.Config { return s.cfg }

func (s *Service) emit(ev event.Event) {
	if s.bus != nil {
		s.bus.Emit(ev)
	}
}

// ---------------------------------------------------------------------------
// Node and wall mutations
// ---------------------------------------------------------------------------

// CreateNode creates a node at the given position.
func (s *Service) CreateNode(p plan.Point) *plan.Node {
	return s.graph.CreateNode(p)
}

// RestoreNode re-registers a node under its original id (undo/redo path).
func (s *Service) RestoreNode(n *plan.Node) {
	s.graph.RestoreNode(n)
	s.emit(event.NodeUpdated{ID: n.ID, Position: n.Position})
}

// RemoveNode cascades wall and opening removal, then deletes the node.
func (s *Service) RemoveNode(id plan.NodeID) []*plan.Wall {
	removed := s.graph.RemoveNode(id)
	for _, w := range removed {
		s.dropOpeningsOn(w.ID)
		s.detachWallFromRooms(w.ID)
		s.emit(event.WallRemoved{ID: w.ID})
	}
	s.selection.DeselectNode(id)
	s.refreshRoomAreas()
	return removed
}

// MoveNode repositions a node, refreshes the cached endpoints of its walls
// and repositions every opening on those walls by relative-position
// preservation: an opening 60% along the wall stays 60% along it.
func (s *Service) MoveNode(id plan.NodeID, p plan.Point) error {
	n := s.graph.Node(id)
	if n == nil {
		return graph.ErrNodeNotFound
	}

	// Snapshot wall geometry before the move for relative repositioning.
	type prevGeom struct {
		start, end plan.Point
	}
	prev := make(map[plan.WallID]prevGeom)
	for _, w := range s.graph.WallsOfNode(id) {
		prev[w.ID] = prevGeom{start: w.StartPoint, end: w.EndPoint}
	}

	if err := s.graph.SetNodePosition(id, p); err != nil {
		return err
	}

	for _, w := range s.graph.WallsOfNode(id) {
		g := prev[w.ID]
		s.reconcileWallMove(w, g.start, g.end)
	}
	s.refreshRoomAreas()
	s.emit(event.NodeUpdated{ID: id, Position: p})
	return nil
}

// CreateWall creates a wall with default properties between two nodes.
func (s *Service) CreateWall(start, end plan.NodeID) (*plan.Wall, error) {
	return s.CreateWallWithProps(start, end, s.cfg.WallThickness, s.cfg.WallHeight)
}

// CreateWallWithProps creates a wall with explicit thickness and height.
func (s *Service) CreateWallWithProps(start, end plan.NodeID, thickness, height float64) (*plan.Wall, error) {
	w, err := s.graph.CreateWallWithProps(start, end, thickness, height)
	if err != nil {
		return nil, err
	}
	s.emit(event.WallCreated{ID: w.ID})
	return w, nil
}

// RestoreWall re-registers a wall under its original id (undo/redo path).
func (s *Service) RestoreWall(w *plan.Wall) {
	s.graph.RestoreWall(w)
	s.emit(event.WallCreated{ID: w.ID})
}

// RemovedOpenings captures the openings deleted by a cascading wall removal
// so undo can restore them.
type RemovedOpenings struct {
	Doors   []*plan.Door
	Windows []*plan.Window
}

// DeleteWall removes a wall and cascades removal of its openings. The
// endpoint nodes remain. Unknown ids are a no-op.
func (s *Service) DeleteWall(id plan.WallID) (*plan.Wall, RemovedOpenings) {
	removed := s.dropOpeningsOn(id)
	w := s.graph.RemoveWall(id)
	if w == nil {
		return nil, removed
	}
	s.detachWallFromRooms(id)
	s.selection.DeselectWall(id)
	s.refreshRoomAreas()
	s.emit(event.WallRemoved{ID: id})
	return w, removed
}

// dropOpeningsOn removes every opening attached to the wall.
func (s *Service) dropOpeningsOn(id plan.WallID) RemovedOpenings {
	var removed RemovedOpenings
	for _, d := range s.doors.OnWall(id) {
		if s.doors.Remove(d.ID) != nil {
			s.selection.DeselectDoor(d.ID)
			removed.Doors = append(removed.Doors, d)
		}
	}
	for _, w := range s.windows.OnWall(id) {
		if s.windows.Remove(w.ID) != nil {
			s.selection.DeselectWindow(w.ID)
			removed.Windows = append(removed.Windows, w)
		}
	}
	return removed
}

// SplitWall replaces a wall with two segments joined at a new node and
// reassigns each affected opening to whichever segment it projects onto.
// The split point must have been validated by the caller.
func (s *Service) SplitWall(id plan.WallID, p plan.Point) (*graph.SplitResult, error) {
	affectedDoors := s.doors.OnWall(id)
	affectedWindows := s.windows.OnWall(id)

	result, err := s.graph.SplitWall(id, p)
	if err != nil {
		return nil, err
	}
	segments := []*plan.Wall{result.SegmentA, result.SegmentB}
	for _, d := range affectedDoors {
		s.reassignOpening(&d.Opening, segments)
		s.doors.Notify(d.ID)
	}
	for _, w := range affectedWindows {
		s.reassignOpening(&w.Opening, segments)
		s.windows.Notify(w.ID)
	}
	s.replaceWallInRooms(id, []plan.WallID{result.SegmentA.ID, result.SegmentB.ID})
	s.selection.DeselectWall(id)
	s.refreshRoomAreas()
	s.emit(event.WallRemoved{ID: id})
	s.emit(event.WallCreated{ID: result.SegmentA.ID})
	s.emit(event.WallCreated{ID: result.SegmentB.ID})
	return result, nil
}

// MergeNodes reroutes every wall of source through target and deletes
// source. Openings follow their walls to the replacements; openings on walls
// that collapse move to the surviving wall between the same pair when one
// exists, otherwise they are removed.
func (s *Service) MergeNodes(source, target plan.NodeID) (*graph.MergeResult, RemovedOpenings, error) {
	// Openings per wall must be captured before the topology changes.
	type pending struct {
		doors   []*plan.Door
		windows []*plan.Window
		other   plan.NodeID
	}
	srcWalls := s.graph.WallsOfNode(source)
	pendings := make(map[plan.WallID]pending, len(srcWalls))
	for _, w := range srcWalls {
		pendings[w.ID] = pending{
			doors:   s.doors.OnWall(w.ID),
			windows: s.windows.OnWall(w.ID),
			other:   w.OtherNode(source),
		}
	}

	result, err := s.graph.MergeNodes(source, target)
	if err != nil {
		return nil, RemovedOpenings{}, err
	}

	// Walk the source walls in registration order so reattachment and the
	// events it emits come out the same on every run.
	var dropped RemovedOpenings
	for _, sw := range srcWalls {
		wid := sw.ID
		pend := pendings[wid]
		dest := result.Replaced[wid]
		if dest == nil && pend.other != target {
			// Rerouted wall duplicated an existing one; reattach there.
			dest = s.graph.WallBetween(target, pend.other)
		}
		if dest == nil {
			// The wall collapsed into the merged node; its openings go too.
			for _, d := range pend.doors {
				if s.doors.Remove(d.ID) != nil {
					s.selection.DeselectDoor(d.ID)
					dropped.Doors = append(dropped.Doors, d)
				}
			}
			for _, w := range pend.windows {
				if s.windows.Remove(w.ID) != nil {
					s.selection.DeselectWindow(w.ID)
					dropped.Windows = append(dropped.Windows, w)
				}
			}
			s.detachWallFromRooms(wid)
			continue
		}
		for _, d := range pend.doors {
			s.reassignOpening(&d.Opening, []*plan.Wall{dest})
			s.doors.Notify(d.ID)
		}
		for _, w := range pend.windows {
			s.reassignOpening(&w.Opening, []*plan.Wall{dest})
			s.windows.Notify(w.ID)
		}
		s.replaceWallInRooms(wid, []plan.WallID{dest.ID})
	}

	s.selection.DeselectNode(source)
	for _, w := range result.Removed {
		s.emit(event.WallRemoved{ID: w.ID})
	}
	for _, sw := range srcWalls {
		if w := result.Replaced[sw.ID]; w != nil {
			s.emit(event.WallCreated{ID: w.ID})
		}
	}
	s.refreshRoomAreas()
	return result, dropped, nil
}

// ---------------------------------------------------------------------------
// Opening reconciliation
// ---------------------------------------------------------------------------

// reconcileWallMove repositions every opening on w after its endpoints moved
// from (oldStart, oldEnd), preserving each opening's relative position along
// the wall.
func (s *Service) reconcileWallMove(w *plan.Wall, oldStart, oldEnd plan.Point) {
	oldLength := geometry.Distance(oldStart, oldEnd)
	apply := func(o *plan.Opening) {
		rel := 0.5
		if oldLength > geometry.Epsilon {
			rel = geometry.Clamp(geometry.Distance(o.Position, oldStart)/oldLength, 0, 1)
		}
		o.UpdateWallReference(w)
		o.UpdatePosition(w.PointAt(rel))
	}
	for _, d := range s.doors.OnWall(w.ID) {
		apply(&d.Opening)
		s.doors.Notify(d.ID)
	}
	for _, win := range s.windows.OnWall(w.ID) {
		apply(&win.Opening)
		s.windows.Notify(win.ID)
	}
}

// splitProjectionTolerance absorbs floating rounding at segment boundaries
// when reassigning openings after a split.
const splitProjectionTolerance = 0.01

// reassignOpening attaches the opening to whichever candidate segment it
// projects onto (projection parameter within [-0.01, 1.01]) with minimal
// perpendicular distance. When no segment accepts it, the closest segment by
// perpendicular distance wins and the projection is clamped, so an opening is
// never left unattached.
func (s *Service) reassignOpening(o *plan.Opening, segments []*plan.Wall) {
	var best *plan.Wall
	bestT := 0.0
	bestDist := 0.0
	accepted := false

	for _, seg := range segments {
		t, _ := seg.Project(o.Position)
		dist := geometry.PerpendicularDistance(o.Position, seg.StartPoint, seg.EndPoint)
		inRange := t >= -splitProjectionTolerance && t <= 1+splitProjectionTolerance
		switch {
		case inRange && (!accepted || dist < bestDist):
			best, bestT, bestDist, accepted = seg, t, dist, true
		case !accepted && (best == nil || dist < bestDist):
			best, bestT, bestDist = seg, t, dist
		}
	}
	if best == nil {
		return
	}
	o.UpdateWallReference(best)
	o.UpdatePosition(best.PointAt(geometry.Clamp(bestT, 0, 1)))
}

// ---------------------------------------------------------------------------
// Doors and windows
// ---------------------------------------------------------------------------

// PlaceDoor validates and places a door centred at the nearest point on the
// wall. Validation rejections return the reason; the graph stays unchanged.
func (s *Service) PlaceDoor(wallID plan.WallID, at plan.Point) (*plan.Door, error) {
	w := s.graph.Wall(wallID)
	if w == nil {
		return nil, graph.ErrWallNotFound
	}
	center := w.ClosestPoint(at)
	if err := s.validator.ValidateDoorPlacement(w, center, s.cfg.DoorWidth, ""); err != nil {
		return nil, err
	}
	d := plan.NewDoor(wallID, center, w.Angle(), s.cfg.DoorWidth, s.cfg.DoorHeight)
	s.doors.Add(d)
	return d, nil
}

// RestoreDoor re-registers a door keeping its id and ordinal (undo path).
func (s *Service) RestoreDoor(d *plan.Door) {
	s.doors.Add(d)
}

// RemoveDoor deletes a door, or returns nil for unknown ids.
func (s *Service) RemoveDoor(id plan.OpeningID) *plan.Door {
	d := s.doors.Remove(id)
	if d != nil {
		s.selection.DeselectDoor(id)
	}
	return d
}

// MoveDoor validates and moves a door, possibly onto another wall.
func (s *Service) MoveDoor(id plan.OpeningID, wallID plan.WallID, at plan.Point) error {
	d := s.doors.Get(id)
	if d == nil {
		return fmt.Errorf("door %s not found", id)
	}
	w := s.graph.Wall(wallID)
	if w == nil {
		return graph.ErrWallNotFound
	}
	center := w.ClosestPoint(at)
	if err := s.validator.ValidateDoorPlacement(w, center, d.Width, d.ID); err != nil {
		return err
	}
	d.UpdateWallReference(w)
	d.UpdatePosition(center)
	s.doors.Notify(id)
	return nil
}

// FlipDoor mirrors a door in place.
func (s *Service) FlipDoor(id plan.OpeningID) error {
	d := s.doors.Get(id)
	if d == nil {
		return fmt.Errorf("door %s not found", id)
	}
	d.Flip()
	s.doors.Notify(id)
	return nil
}

// PlaceWindow validates and places a window centred at the nearest point on
// the wall.
func (s *Service) PlaceWindow(wallID plan.WallID, at plan.Point) (*plan.Window, error) {
	w := s.graph.Wall(wallID)
	if w == nil {
		return nil, graph.ErrWallNotFound
	}
	center := w.ClosestPoint(at)
	if err := s.validator.ValidateWindowPlacement(w, center, s.cfg.WindowWidth, ""); err != nil {
		return nil, err
	}
	win := plan.NewWindow(wallID, center, w.Angle(), s.cfg.WindowWidth, s.cfg.WindowHeight)
	s.windows.Add(win)
	return win, nil
}

// RestoreWindow re-registers a window keeping its id and ordinal (undo path).
func (s *Service) RestoreWindow(w *plan.Window) {
	s.windows.Add(w)
}

// RemoveWindow deletes a window, or returns nil for unknown ids.
func (s *Service) RemoveWindow(id plan.OpeningID) *plan.Window {
	w := s.windows.Remove(id)
	if w != nil {
		s.selection.DeselectWindow(id)
	}
	return w
}

// MoveWindow validates and moves a window, possibly onto another wall.
func (s *Service) MoveWindow(id plan.OpeningID, wallID plan.WallID, at plan.Point) error {
	win := s.windows.Get(id)
	if win == nil {
		return fmt.Errorf("window %s not found", id)
	}
	w := s.graph.Wall(wallID)
	if w == nil {
		return graph.ErrWallNotFound
	}
	center := w.ClosestPoint(at)
	if err := s.validator.ValidateWindowPlacement(w, center, win.Width, win.ID); err != nil {
		return err
	}
	win.UpdateWallReference(w)
	win.UpdatePosition(center)
	s.windows.Notify(id)
	return nil
}

// FlipWindow mirrors a window in place.
func (s *Service) FlipWindow(id plan.OpeningID) error {
	win := s.windows.Get(id)
	if win == nil {
		return fmt.Errorf("window %s not found", id)
	}
	win.Flip()
	s.windows.Notify(id)
	return nil
}

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

// CreateRoom registers a room over an ordered wall cycle and computes its
// area from the boundary polygon.
func (s *Service) CreateRoom(walls []plan.WallID, name string) (*plan.Room, error) {
	for _, id := range walls {
		if s.graph.Wall(id) == nil {
			return nil, graph.ErrWallNotFound
		}
	}
	r := plan.NewRoom(walls, name)
	r.Area = s.roomArea(r)
	s.rooms.Add(r)
	return r, nil
}

// RestoreRoom re-registers a room keeping its id and ordinal (undo path).
func (s *Service) RestoreRoom(r *plan.Room) {
	s.rooms.Add(r)
}

// RemoveRoom deletes a room aggregate. Its walls remain.
func (s *Service) RemoveRoom(id plan.RoomID) *plan.Room {
	return s.rooms.Remove(id)
}

// roomArea computes the polygon area of the room's wall cycle by walking the
// shared nodes of consecutive walls. Broken cycles yield zero.
func (s *Service) roomArea(r *plan.Room) float64 {
	if len(r.Walls) < 3 {
		return 0
	}
	var pts []plan.Point
	for i := range r.Walls {
		a := s.graph.Wall(r.Walls[i])
		b := s.graph.Wall(r.Walls[(i+1)%len(r.Walls)])
		if a == nil || b == nil {
			return 0
		}
		shared := sharedNode(a, b)
		if shared == "" {
			return 0
		}
		n := s.graph.Node(shared)
		if n == nil {
			return 0
		}
		pts = append(pts, n.Position)
	}
	return geometry.PolygonArea(pts)
}

func sharedNode(a, b *plan.Wall) plan.NodeID {
	if a.Start == b.Start || a.Start == b.End {
		return a.Start
	}
	if a.End == b.Start || a.End == b.End {
		return a.End
	}
	return ""
}

// RefreshAreas recomputes every room's area, for callers that rebuilt the
// graph wholesale (snapshot restore).
func (s *Service) RefreshAreas() { s.refreshRoomAreas() }

// refreshRoomAreas recomputes every room's area. Plans are small enough that
// a full sweep beats tracking wall-to-room dirtiness.
func (s *Service) refreshRoomAreas() {
	for _, r := range s.rooms.All() {
		area := s.roomArea(r)
		if area != r.Area {
			r.Area = area
			s.rooms.Notify(r.ID)
		}
	}
}

// replaceWallInRooms rewrites room boundaries after a split or merge
// replaced one wall with others.
func (s *Service) replaceWallInRooms(old plan.WallID, replacement []plan.WallID) {
	for _, r := range s.rooms.WithWall(old) {
		var walls []plan.WallID
		for _, id := range r.Walls {
			if id == old {
				walls = append(walls, replacement...)
			} else {
				walls = append(walls, id)
			}
		}
		r.Walls = walls
		s.rooms.Notify(r.ID)
	}
}

// detachWallFromRooms drops a removed wall from room boundaries. A room left
// with fewer than three walls is degenerate and is removed.
func (s *Service) detachWallFromRooms(id plan.WallID) {
	for _, r := range s.rooms.WithWall(id) {
		var walls []plan.WallID
		for _, wid := range r.Walls {
			if wid != id {
				walls = append(walls, wid)
			}
		}
		r.Walls = walls
		if len(r.Walls) < 3 {
			s.rooms.Remove(r.ID)
			continue
		}
		s.rooms.Notify(r.ID)
	}
}
