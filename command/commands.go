package command

import (
	"fmt"

	"wallplan/graph"
	"wallplan/plan"
	"wallplan/validation"
)

// CreateNode places a standalone node.
type CreateNode struct {
	svc  *Service
	pos  plan.Point
	node *plan.Node
}

// NewCreateNode builds the command.
func NewCreateNode(svc *Service, pos plan.Point) *CreateNode {
	return &CreateNode{svc: svc, pos: pos}
}

func (c *CreateNode) Name() string { return "create node" }

func (c *CreateNode) Execute() error {
	c.node = c.svc.CreateNode(c.pos)
	return nil
}

func (c *CreateNode) Undo() error {
	c.svc.RemoveNode(c.node.ID)
	return nil
}

func (c *CreateNode) Redo() error {
	c.svc.RestoreNode(c.node)
	return nil
}

// MoveNode repositions a node, dragging its walls and their openings along.
type MoveNode struct {
	svc  *Service
	id   plan.NodeID
	to   plan.Point
	from plan.Point
}

// NewMoveNode builds the command.
func NewMoveNode(svc *Service, id plan.NodeID, to plan.Point) *MoveNode {
	return &MoveNode{svc: svc, id: id, to: to}
}

func (c *MoveNode) Name() string { return "move node" }

func (c *MoveNode) Execute() error {
	n := c.svc.Graph().Node(c.id)
	if n == nil {
		return graph.ErrNodeNotFound
	}
	c.from = n.Position
	return c.svc.MoveNode(c.id, c.to)
}

func (c *MoveNode) Undo() error { return c.svc.MoveNode(c.id, c.from) }
func (c *MoveNode) Redo() error { return c.svc.MoveNode(c.id, c.to) }

// CreateWall connects two existing nodes.
type CreateWall struct {
	svc        *Service
	start, end plan.NodeID
	wall       *plan.Wall
}

// NewCreateWall builds the command.
func NewCreateWall(svc *Service, start, end plan.NodeID) *CreateWall {
	return &CreateWall{svc: svc, start: start, end: end}
}

func (c *CreateWall) Name() string { return "create wall" }

func (c *CreateWall) Execute() error {
	w, err := c.svc.CreateWall(c.start, c.end)
	if err != nil {
		return err
	}
	c.wall = w
	return nil
}

func (c *CreateWall) Undo() error {
	c.svc.DeleteWall(c.wall.ID)
	return nil
}

func (c *CreateWall) Redo() error {
	c.svc.RestoreWall(c.wall)
	return nil
}

// DeleteWall removes a wall, cascading removal of its openings. Endpoint
// nodes stay in place.
type DeleteWall struct {
	svc      *Service
	id       plan.WallID
	wall     *plan.Wall
	openings RemovedOpenings
	rooms    []roomState
}

// NewDeleteWall builds the command.
func NewDeleteWall(svc *Service, id plan.WallID) *DeleteWall {
	return &DeleteWall{svc: svc, id: id}
}

func (c *DeleteWall) Name() string { return "delete wall" }

func (c *DeleteWall) Execute() error {
	c.rooms = c.svc.captureRoomsWith(c.id)
	w, openings := c.svc.DeleteWall(c.id)
	if w == nil {
		return graph.ErrWallNotFound
	}
	c.wall, c.openings = w, openings
	return nil
}

func (c *DeleteWall) Undo() error {
	c.svc.RestoreWall(c.wall)
	c.svc.restoreRemovedOpenings(c.openings)
	c.svc.restoreRooms(c.rooms)
	c.svc.refreshRoomAreas()
	return nil
}

func (c *DeleteWall) Redo() error {
	_, _ = c.svc.DeleteWall(c.id)
	return nil
}

// RemoveNode deletes a node with a full cascade over its walls and their
// openings.
type RemoveNode struct {
	svc      *Service
	id       plan.NodeID
	node     *plan.Node
	walls    []*plan.Wall
	openings RemovedOpenings
	rooms    []roomState
}

// NewRemoveNode builds the command.
func NewRemoveNode(svc *Service, id plan.NodeID) *RemoveNode {
	return &RemoveNode{svc: svc, id: id}
}

func (c *RemoveNode) Name() string { return "remove node" }

func (c *RemoveNode) Execute() error {
	n := c.svc.Graph().Node(c.id)
	if n == nil {
		return graph.ErrNodeNotFound
	}
	c.node = n
	attached := c.svc.Graph().WallsOfNode(c.id)
	wallIDs := make([]plan.WallID, 0, len(attached))
	for _, w := range attached {
		wallIDs = append(wallIDs, w.ID)
		c.openings.Doors = append(c.openings.Doors, c.svc.Doors().OnWall(w.ID)...)
		c.openings.Windows = append(c.openings.Windows, c.svc.Windows().OnWall(w.ID)...)
	}
	c.rooms = c.svc.captureRoomsWith(wallIDs...)
	c.walls = c.svc.RemoveNode(c.id)
	return nil
}

func (c *RemoveNode) Undo() error {
	c.svc.RestoreNode(c.node)
	for _, w := range c.walls {
		c.svc.RestoreWall(w)
	}
	c.svc.restoreRemovedOpenings(c.openings)
	c.svc.restoreRooms(c.rooms)
	c.svc.refreshRoomAreas()
	return nil
}

func (c *RemoveNode) Redo() error {
	c.svc.RemoveNode(c.id)
	return nil
}

// SplitWall divides a wall in two at a point on its body.
type SplitWall struct {
	svc    *Service
	id     plan.WallID
	at     plan.Point
	result *graph.SplitResult
	pre    []openingState
	post   []openingState
}

// NewSplitWall builds the command.
func NewSplitWall(svc *Service, id plan.WallID, at plan.Point) *SplitWall {
	return &SplitWall{svc: svc, id: id, at: at}
}

func (c *SplitWall) Name() string { return "split wall" }

func (c *SplitWall) Execute() error {
	w := c.svc.Graph().Wall(c.id)
	if w == nil {
		return graph.ErrWallNotFound
	}
	if err := c.svc.Validator().ValidSplitPoint(w, c.at); err != nil {
		return err
	}
	c.pre = c.svc.captureOpeningsOn(c.id)
	result, err := c.svc.SplitWall(c.id, c.at)
	if err != nil {
		return err
	}
	c.result = result
	c.post = c.svc.captureOpeningsOn(result.SegmentA.ID, result.SegmentB.ID)
	return nil
}

func (c *SplitWall) Undo() error {
	c.svc.undoSplit(c.result, c.pre)
	return nil
}

func (c *SplitWall) Redo() error {
	c.svc.redoSplit(c.result, c.post)
	return nil
}

// MergeNodes absorbs the source node into the target, rerouting walls.
type MergeNodes struct {
	svc            *Service
	source, target plan.NodeID
	result         *graph.MergeResult
	pre            []openingState
	post           []openingState
	dropped        RemovedOpenings
	rooms          []roomState
}

// NewMergeNodes builds the command.
func NewMergeNodes(svc *Service, source, target plan.NodeID) *MergeNodes {
	return &MergeNodes{svc: svc, source: source, target: target}
}

func (c *MergeNodes) Name() string { return "merge nodes" }

func (c *MergeNodes) Execute() error {
	srcWalls := c.svc.Graph().WallsOfNode(c.source)
	ids := make([]plan.WallID, 0, len(srcWalls))
	for _, w := range srcWalls {
		ids = append(ids, w.ID)
	}
	c.pre = c.svc.captureOpeningsOn(ids...)
	c.rooms = c.svc.captureRoomsWith(ids...)

	result, dropped, err := c.svc.MergeNodes(c.source, c.target)
	if err != nil {
		return err
	}
	c.result, c.dropped = result, dropped

	var survivors []plan.WallID
	for _, w := range result.Replaced {
		if w != nil {
			survivors = append(survivors, w.ID)
		}
	}
	for _, w := range c.svc.Graph().WallsOfNode(c.target) {
		survivors = append(survivors, w.ID)
	}
	c.post = c.svc.captureOpeningsOn(dedupeWallIDs(survivors)...)
	return nil
}

func (c *MergeNodes) Undo() error {
	c.svc.undoMerge(c.result, c.pre, c.dropped, c.rooms)
	return nil
}

func (c *MergeNodes) Redo() error {
	c.svc.redoMerge(c.result, c.post, c.dropped)
	return nil
}

func dedupeWallIDs(ids []plan.WallID) []plan.WallID {
	seen := make(map[plan.WallID]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// PlaceDoor places a door on a wall at the projection of the given point.
type PlaceDoor struct {
	svc  *Service
	wall plan.WallID
	at   plan.Point
	door *plan.Door
}

// NewPlaceDoor builds the command.
func NewPlaceDoor(svc *Service, wall plan.WallID, at plan.Point) *PlaceDoor {
	return &PlaceDoor{svc: svc, wall: wall, at: at}
}

func (c *PlaceDoor) Name() string { return "place door" }

func (c *PlaceDoor) Execute() error {
	d, err := c.svc.PlaceDoor(c.wall, c.at)
	if err != nil {
		return err
	}
	c.door = d
	return nil
}

func (c *PlaceDoor) Undo() error {
	c.svc.RemoveDoor(c.door.ID)
	return nil
}

func (c *PlaceDoor) Redo() error {
	c.svc.RestoreDoor(c.door)
	return nil
}

// MoveDoor relocates a door, possibly onto a different wall.
type MoveDoor struct {
	svc      *Service
	id       plan.OpeningID
	wall     plan.WallID
	at       plan.Point
	prevWall plan.WallID
	prevPos  plan.Point
}

// NewMoveDoor builds the command.
func NewMoveDoor(svc *Service, id plan.OpeningID, wall plan.WallID, at plan.Point) *MoveDoor {
	return &MoveDoor{svc: svc, id: id, wall: wall, at: at}
}

func (c *MoveDoor) Name() string { return "move door" }

func (c *MoveDoor) Execute() error {
	d := c.svc.Doors().Get(c.id)
	if d == nil {
		return fmt.Errorf("door %s not found", c.id)
	}
	c.prevWall, c.prevPos = d.Wall, d.Position
	return c.svc.MoveDoor(c.id, c.wall, c.at)
}

func (c *MoveDoor) Undo() error { return c.svc.MoveDoor(c.id, c.prevWall, c.prevPos) }
func (c *MoveDoor) Redo() error { return c.svc.MoveDoor(c.id, c.wall, c.at) }

// FlipDoor mirrors a door and toggles its opening direction. Flipping is its
// own inverse.
type FlipDoor struct {
	svc *Service
	id  plan.OpeningID
}

// NewFlipDoor builds the command.
func NewFlipDoor(svc *Service, id plan.OpeningID) *FlipDoor {
	return &FlipDoor{svc: svc, id: id}
}

func (c *FlipDoor) Name() string   { return "flip door" }
func (c *FlipDoor) Execute() error { return c.svc.FlipDoor(c.id) }
func (c *FlipDoor) Undo() error    { return c.svc.FlipDoor(c.id) }
func (c *FlipDoor) Redo() error    { return c.svc.FlipDoor(c.id) }

// RemoveDoor deletes a door.
type RemoveDoor struct {
	svc  *Service
	id   plan.OpeningID
	door *plan.Door
}

// NewRemoveDoor builds the command.
func NewRemoveDoor(svc *Service, id plan.OpeningID) *RemoveDoor {
	return &RemoveDoor{svc: svc, id: id}
}

func (c *RemoveDoor) Name() string { return "remove door" }

func (c *RemoveDoor) Execute() error {
	d := c.svc.RemoveDoor(c.id)
	if d == nil {
		return fmt.Errorf("door %s not found", c.id)
	}
	c.door = d
	return nil
}

func (c *RemoveDoor) Undo() error {
	c.svc.RestoreDoor(c.door)
	return nil
}

func (c *RemoveDoor) Redo() error {
	c.svc.RemoveDoor(c.id)
	return nil
}

// PlaceWindow places a window on a wall at the projection of the given point.
type PlaceWindow struct {
	svc    *Service
	wall   plan.WallID
	at     plan.Point
	window *plan.Window
}

// NewPlaceWindow builds the command.
func NewPlaceWindow(svc *Service, wall plan.WallID, at plan.Point) *PlaceWindow {
	return &PlaceWindow{svc: svc, wall: wall, at: at}
}

func (c *PlaceWindow) Name() string { return "place window" }

func (c *PlaceWindow) Execute() error {
	w, err := c.svc.PlaceWindow(c.wall, c.at)
	if err != nil {
		return err
	}
	c.window = w
	return nil
}

func (c *PlaceWindow) Undo() error {
	c.svc.RemoveWindow(c.window.ID)
	return nil
}

func (c *PlaceWindow) Redo() error {
	c.svc.RestoreWindow(c.window)
	return nil
}

// MoveWindow relocates a window, possibly onto a different wall.
type MoveWindow struct {
	svc      *Service
	id       plan.OpeningID
	wall     plan.WallID
	at       plan.Point
	prevWall plan.WallID
	prevPos  plan.Point
}

// NewMoveWindow builds the command.
func NewMoveWindow(svc *Service, id plan.OpeningID, wall plan.WallID, at plan.Point) *MoveWindow {
	return &MoveWindow{svc: svc, id: id, wall: wall, at: at}
}

func (c *MoveWindow) Name() string { return "move window" }

func (c *MoveWindow) Execute() error {
	w := c.svc.Windows().Get(c.id)
	if w == nil {
		return fmt.Errorf("window %s not found", c.id)
	}
	c.prevWall, c.prevPos = w.Wall, w.Position
	return c.svc.MoveWindow(c.id, c.wall, c.at)
}

func (c *MoveWindow) Undo() error { return c.svc.MoveWindow(c.id, c.prevWall, c.prevPos) }
func (c *MoveWindow) Redo() error { return c.svc.MoveWindow(c.id, c.wall, c.at) }

// FlipWindow mirrors a window in place.
type FlipWindow struct {
	svc *Service
	id  plan.OpeningID
}

// NewFlipWindow builds the command.
func NewFlipWindow(svc *Service, id plan.OpeningID) *FlipWindow {
	return &FlipWindow{svc: svc, id: id}
}

func (c *FlipWindow) Name() string   { return "flip window" }
func (c *FlipWindow) Execute() error { return c.svc.FlipWindow(c.id) }
func (c *FlipWindow) Undo() error    { return c.svc.FlipWindow(c.id) }
func (c *FlipWindow) Redo() error    { return c.svc.FlipWindow(c.id) }

// RemoveWindow deletes a window.
type RemoveWindow struct {
	svc    *Service
	id     plan.OpeningID
	window *plan.Window
}

// NewRemoveWindow builds the command.
func NewRemoveWindow(svc *Service, id plan.OpeningID) *RemoveWindow {
	return &RemoveWindow{svc: svc, id: id}
}

func (c *RemoveWindow) Name() string { return "remove window" }

func (c *RemoveWindow) Execute() error {
	w := c.svc.RemoveWindow(c.id)
	if w == nil {
		return fmt.Errorf("window %s not found", c.id)
	}
	c.window = w
	return nil
}

func (c *RemoveWindow) Undo() error {
	c.svc.RestoreWindow(c.window)
	return nil
}

func (c *RemoveWindow) Redo() error {
	c.svc.RemoveWindow(c.id)
	return nil
}

// CreateRoom registers a room over an existing wall cycle.
type CreateRoom struct {
	svc   *Service
	walls []plan.WallID
	name  string
	room  *plan.Room
}

// NewCreateRoom builds the command.
func NewCreateRoom(svc *Service, walls []plan.WallID, name string) *CreateRoom {
	return &CreateRoom{svc: svc, walls: walls, name: name}
}

func (c *CreateRoom) Name() string { return "create room" }

func (c *CreateRoom) Execute() error {
	r, err := c.svc.CreateRoom(c.walls, c.name)
	if err != nil {
		return err
	}
	c.room = r
	return nil
}

func (c *CreateRoom) Undo() error {
	c.svc.RemoveRoom(c.room.ID)
	return nil
}

func (c *CreateRoom) Redo() error {
	c.svc.RestoreRoom(c.room)
	return nil
}

// RemoveRoom deletes a room aggregate, leaving its walls in place.
type RemoveRoom struct {
	svc  *Service
	id   plan.RoomID
	room *plan.Room
}

// NewRemoveRoom builds the command.
func NewRemoveRoom(svc *Service, id plan.RoomID) *RemoveRoom {
	return &RemoveRoom{svc: svc, id: id}
}

func (c *RemoveRoom) Name() string { return "remove room" }

func (c *RemoveRoom) Execute() error {
	r := c.svc.RemoveRoom(c.id)
	if r == nil {
		return fmt.Errorf("room %s not found", c.id)
	}
	c.room = r
	return nil
}

func (c *RemoveRoom) Undo() error {
	c.svc.RestoreRoom(c.room)
	return nil
}

func (c *RemoveRoom) Redo() error {
	c.svc.RemoveRoom(c.id)
	return nil
}

// CreateRectRoom draws an axis-aligned rectangular room: four corner nodes,
// four walls and the room aggregate, all in one undoable step.
type CreateRectRoom struct {
	svc   *Service
	a, b  plan.Point
	name  string
	nodes []*plan.Node
	walls []*plan.Wall
	room  *plan.Room
}

// NewCreateRectRoom builds the command from two drag corners.
func NewCreateRectRoom(svc *Service, a, b plan.Point, name string) *CreateRectRoom {
	return &CreateRectRoom{svc: svc, a: a, b: b, name: name}
}

func (c *CreateRectRoom) Name() string { return "create room" }

func (c *CreateRectRoom) Execute() error {
	minLen := c.svc.Config().MinWallLength
	if abs(c.b.X-c.a.X) < minLen || abs(c.b.Y-c.a.Y) < minLen {
		return fmt.Errorf("%w: room sides must be at least %.1f", validation.ErrWallTooShort, minLen)
	}

	corners := []plan.Point{
		c.a,
		{X: c.b.X, Y: c.a.Y},
		c.b,
		{X: c.a.X, Y: c.b.Y},
	}
	c.nodes = c.nodes[:0]
	for _, p := range corners {
		c.nodes = append(c.nodes, c.svc.CreateNode(p))
	}
	c.walls = c.walls[:0]
	for i := range c.nodes {
		wall, err := c.svc.CreateWall(c.nodes[i].ID, c.nodes[(i+1)%len(c.nodes)].ID)
		if err != nil {
			c.rollback()
			return err
		}
		c.walls = append(c.walls, wall)
	}
	ids := make([]plan.WallID, len(c.walls))
	for i, wall := range c.walls {
		ids[i] = wall.ID
	}
	room, err := c.svc.CreateRoom(ids, c.name)
	if err != nil {
		c.rollback()
		return err
	}
	c.room = room
	return nil
}

func (c *CreateRectRoom) rollback() {
	for _, wall := range c.walls {
		c.svc.DeleteWall(wall.ID)
	}
	for _, n := range c.nodes {
		c.svc.RemoveNode(n.ID)
	}
	c.walls, c.nodes = nil, nil
}

func (c *CreateRectRoom) Undo() error {
	c.svc.RemoveRoom(c.room.ID)
	for _, wall := range c.walls {
		c.svc.DeleteWall(wall.ID)
	}
	for _, n := range c.nodes {
		c.svc.RemoveNode(n.ID)
	}
	return nil
}

func (c *CreateRectRoom) Redo() error {
	for _, n := range c.nodes {
		c.svc.RestoreNode(n)
	}
	for _, wall := range c.walls {
		c.svc.RestoreWall(wall)
	}
	c.svc.RestoreRoom(c.room)
	c.svc.refreshRoomAreas()
	return nil
}

// HealNode removes a degree-2 node and fuses its two walls into one,
// carrying the openings over to the fused wall.
type HealNode struct {
	svc      *Service
	id       plan.NodeID
	node     *plan.Node
	walls    []*plan.Wall
	fused    *plan.Wall
	pre      []openingState
	openings RemovedOpenings
	rooms    []roomState
}

// NewHealNode builds the command.
func NewHealNode(svc *Service, id plan.NodeID) *HealNode {
	return &HealNode{svc: svc, id: id}
}

func (c *HealNode) Name() string { return "heal node" }

func (c *HealNode) Execute() error {
	n := c.svc.Graph().Node(c.id)
	if n == nil {
		return graph.ErrNodeNotFound
	}
	walls := c.svc.Graph().WallsOfNode(c.id)
	if len(walls) != 2 {
		return fmt.Errorf("%w: node has %d walls, need 2", graph.ErrInvalidTopology, len(walls))
	}
	c.node = n
	a, b := walls[0], walls[1]
	na, nb := a.OtherNode(c.id), b.OtherNode(c.id)
	c.pre = c.svc.captureOpeningsOn(a.ID, b.ID)
	c.rooms = c.svc.captureRoomsWith(a.ID, b.ID)
	c.openings = RemovedOpenings{
		Doors:   append(c.svc.Doors().OnWall(a.ID), c.svc.Doors().OnWall(b.ID)...),
		Windows: append(c.svc.Windows().OnWall(a.ID), c.svc.Windows().OnWall(b.ID)...),
	}

	c.walls = c.svc.RemoveNode(c.id)
	fused, err := c.svc.CreateWallWithProps(na, nb, a.Thickness, a.Height)
	if err != nil {
		// The fused span was illegal; put the topology back.
		c.svc.RestoreNode(c.node)
		for _, w := range c.walls {
			c.svc.RestoreWall(w)
		}
		c.svc.restoreRemovedOpenings(c.openings)
		c.svc.applyOpeningStates(c.pre)
		c.svc.restoreRooms(c.rooms)
		return err
	}
	c.fused = fused
	c.reattachOpenings()
	c.svc.replaceWallInRooms(a.ID, []plan.WallID{fused.ID})
	c.svc.replaceWallInRooms(b.ID, nil)
	c.svc.refreshRoomAreas()
	return nil
}

// reattachOpenings restores the cascaded-away openings onto the fused wall at
// the point nearest their old position.
func (c *HealNode) reattachOpenings() {
	for _, d := range c.openings.Doors {
		c.svc.RestoreDoor(d)
		c.svc.reassignOpening(&d.Opening, []*plan.Wall{c.fused})
		c.svc.Doors().Notify(d.ID)
	}
	for _, w := range c.openings.Windows {
		c.svc.RestoreWindow(w)
		c.svc.reassignOpening(&w.Opening, []*plan.Wall{c.fused})
		c.svc.Windows().Notify(w.ID)
	}
}

func (c *HealNode) Undo() error {
	c.svc.DeleteWall(c.fused.ID)
	c.svc.RestoreNode(c.node)
	for _, w := range c.walls {
		c.svc.RestoreWall(w)
	}
	c.svc.restoreRemovedOpenings(c.openings)
	c.svc.applyOpeningStates(c.pre)
	c.svc.restoreRooms(c.rooms)
	c.svc.refreshRoomAreas()
	return nil
}

func (c *HealNode) Redo() error {
	c.svc.RemoveNode(c.id)
	c.svc.RestoreWall(c.fused)
	c.reattachOpenings()
	if len(c.walls) == 2 {
		c.svc.replaceWallInRooms(c.walls[0].ID, []plan.WallID{c.fused.ID})
		c.svc.replaceWallInRooms(c.walls[1].ID, nil)
	}
	c.svc.refreshRoomAreas()
	return nil
}

// Batch groups commands into one history entry. A mid-batch failure unwinds
// the already-executed prefix so the model never holds a half-applied batch.
type Batch struct {
	name string
	cmds []Command
}

// NewBatch builds a composite command.
func NewBatch(name string, cmds ...Command) *Batch {
	return &Batch{name: name, cmds: cmds}
}

func (b *Batch) Name() string { return b.name }

func (b *Batch) Execute() error {
	for i, cmd := range b.cmds {
		if err := cmd.Execute(); err != nil {
			for j := i - 1; j >= 0; j-- {
				if uerr := b.cmds[j].Undo(); uerr != nil {
					return fmt.Errorf("unwinding %s after %s failed: %v (original: %w)",
						b.cmds[j].Name(), cmd.Name(), uerr, err)
				}
			}
			return err
		}
	}
	return nil
}

func (b *Batch) Undo() error {
	for i := len(b.cmds) - 1; i >= 0; i-- {
		if err := b.cmds[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) Redo() error {
	for _, cmd := range b.cmds {
		if err := cmd.Redo(); err != nil {
			return err
		}
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
