package tool

import (
	"math"
	"testing"

	"wallplan/command"
	"wallplan/event"
	"wallplan/graph"
	"wallplan/plan"
	"wallplan/store"
	"wallplan/validation"
)

type testRig struct {
	svc     *command.Service
	history *command.Manager
	bus     *event.Bus
}

func newRig() *testRig {
	cfg := plan.DefaultConfig()
	bus := event.NewBus()
	g := graph.New(cfg, bus)
	doors := store.NewDoorStore(bus)
	windows := store.NewWindowStore(bus)
	rooms := store.NewRoomStore(bus)
	sel := store.NewSelectionStore(bus)
	v := validation.New(cfg, g, doors, windows)
	svc := command.NewService(cfg, g, doors, windows, rooms, sel, v, bus)
	return &testRig{svc: svc, history: command.NewManager(), bus: bus}
}

func drag(t Tool, from, to plan.Point, mods Modifiers) {
	t.HandlePointer(PointerEvent{Kind: PointerDown, Pos: from, Mods: mods})
	t.HandlePointer(PointerEvent{Kind: PointerMove, Pos: to, Mods: mods})
	t.HandlePointer(PointerEvent{Kind: PointerUp, Pos: to, Mods: mods})
}

func TestWallToolDrawsWall(t *testing.T) {
	r := newRig()
	wt := NewWallTool(r.svc, r.history, r.bus)
	wt.Activate()

	drag(wt, plan.Point{X: 0, Y: 0}, plan.Point{X: 200, Y: 0}, Modifiers{})

	if r.svc.Graph().WallCount() != 1 || r.svc.Graph().NodeCount() != 2 {
		t.Fatalf("drag should create one wall and two nodes: %d walls, %d nodes",
			r.svc.Graph().WallCount(), r.svc.Graph().NodeCount())
	}
	if !r.history.CanUndo() {
		t.Error("the draw should be one undoable history entry")
	}
}

func TestWallToolSnapsToExistingNode(t *testing.T) {
	r := newRig()
	n := r.svc.CreateNode(plan.Point{X: 0, Y: 0})
	wt := NewWallTool(r.svc, r.history, r.bus)
	wt.Activate()

	// Both endpoints fall inside the 20 unit snap radius of their nodes but
	// outside the node hit radius, so the drag draws instead of moving.
	end := r.svc.CreateNode(plan.Point{X: 200, Y: 0})
	drag(wt, plan.Point{X: 12, Y: 12}, plan.Point{X: 190, Y: 10}, Modifiers{})

	if r.svc.Graph().NodeCount() != 2 {
		t.Errorf("snap should reuse both nodes, got %d", r.svc.Graph().NodeCount())
	}
	if r.svc.Graph().WallBetween(n.ID, end.ID) == nil {
		t.Error("the wall should connect the snapped nodes")
	}
}

func TestWallToolRejectsShortDrag(t *testing.T) {
	r := newRig()
	wt := NewWallTool(r.svc, r.history, r.bus)
	wt.Activate()

	drag(wt, plan.Point{X: 0, Y: 0}, plan.Point{X: 4, Y: 0}, Modifiers{})

	if r.svc.Graph().WallCount() != 0 || r.svc.Graph().NodeCount() != 0 {
		t.Error("too-short drag should leave the graph untouched")
	}
	if r.history.Len() != 0 {
		t.Error("rejected drag should not enter the history")
	}
}

func TestWallToolMergeOverMove(t *testing.T) {
	r := newRig()
	a := r.svc.CreateNode(plan.Point{X: 0, Y: 0})
	b := r.svc.CreateNode(plan.Point{X: 300, Y: 0})
	c := r.svc.CreateNode(plan.Point{X: 300, Y: 300})
	r.svc.CreateWall(b.ID, c.ID)

	wt := NewWallTool(r.svc, r.history, r.bus)
	wt.Activate()

	// Dragging node c to within snap range of node a merges them instead of
	// just moving c next to a.
	drag(wt, c.Position, plan.Point{X: 5, Y: 5}, Modifiers{})

	if r.svc.Graph().Node(c.ID) != nil {
		t.Error("dragged node should be merged away")
	}
	if r.svc.Graph().WallBetween(a.ID, b.ID) == nil {
		t.Error("the dragged wall should be rerouted onto the merge target")
	}
	if a.Position.X != 0 || a.Position.Y != 0 {
		t.Error("the merge target should stay where it was")
	}
}

func TestWallToolCtrlClickSplits(t *testing.T) {
	r := newRig()
	a := r.svc.CreateNode(plan.Point{X: 0, Y: 0})
	b := r.svc.CreateNode(plan.Point{X: 200, Y: 0})
	r.svc.CreateWall(a.ID, b.ID)

	wt := NewWallTool(r.svc, r.history, r.bus)
	wt.Activate()

	wt.HandlePointer(PointerEvent{Kind: PointerDown, Pos: plan.Point{X: 80, Y: 2}, Mods: Modifiers{Ctrl: true}})
	wt.HandlePointer(PointerEvent{Kind: PointerUp, Pos: plan.Point{X: 80, Y: 2}, Mods: Modifiers{Ctrl: true}})

	if r.svc.Graph().WallCount() != 2 || r.svc.Graph().NodeCount() != 3 {
		t.Errorf("ctrl-click should split the wall: %d walls, %d nodes",
			r.svc.Graph().WallCount(), r.svc.Graph().NodeCount())
	}
	r.history.Undo()
	if r.svc.Graph().WallCount() != 1 || r.svc.Graph().NodeCount() != 2 {
		t.Error("undo should rejoin the split")
	}
}

func TestWallToolMovesNode(t *testing.T) {
	r := newRig()
	a := r.svc.CreateNode(plan.Point{X: 0, Y: 0})
	b := r.svc.CreateNode(plan.Point{X: 200, Y: 0})
	w, _ := r.svc.CreateWall(a.ID, b.ID)

	wt := NewWallTool(r.svc, r.history, r.bus)
	wt.Activate()

	drag(wt, b.Position, plan.Point{X: 400, Y: 100}, Modifiers{})

	if b.Position.X != 400 || b.Position.Y != 100 {
		t.Errorf("node should follow the drag, at %v", b.Position)
	}
	if math.Abs(w.EndPoint.X-400) > 1e-9 {
		t.Error("wall endpoint should track the moved node")
	}
}

func TestConstrainTargetModifiers(t *testing.T) {
	cfg := plan.DefaultConfig()
	origin := plan.Point{X: 0, Y: 0}

	// Ctrl snaps to the nearest 90 degree axis.
	got := constrainTarget(cfg, origin, plan.Point{X: 100, Y: 12}, Modifiers{Ctrl: true})
	if math.Abs(got.Y) > 1e-6 {
		t.Errorf("ctrl should flatten onto the x axis, got %v", got)
	}

	// Shift snaps to 15 degree steps: 50 degrees rounds to 45.
	p := plan.Point{X: 100 * math.Cos(50 * math.Pi / 180), Y: 100 * math.Sin(50 * math.Pi / 180)}
	got = constrainTarget(cfg, origin, p, Modifiers{Shift: true})
	angle := math.Atan2(got.Y, got.X)
	if math.Abs(angle-math.Pi/4) > 1e-6 {
		t.Errorf("shift should snap 50 degrees to 45, got %f degrees", angle*180/math.Pi)
	}

	// Ctrl wins when both are held.
	got = constrainTarget(cfg, origin, p, Modifiers{Ctrl: true, Shift: true})
	angle = math.Atan2(got.Y, got.X)
	if math.Abs(angle-math.Pi/2) > 1e-6 {
		t.Errorf("ctrl+shift should use the 90 degree step, got %f degrees", angle*180/math.Pi)
	}

	// Alt snaps the point and the distance onto the grid pitch.
	got = constrainTarget(cfg, origin, plan.Point{X: 97, Y: 0}, Modifiers{Alt: true})
	if math.Abs(got.X-100) > 1e-6 || math.Abs(got.Y) > 1e-6 {
		t.Errorf("alt should land on the grid, got %v", got)
	}
}

func TestDoorToolPlacesDoor(t *testing.T) {
	r := newRig()
	a := r.svc.CreateNode(plan.Point{X: 0, Y: 0})
	b := r.svc.CreateNode(plan.Point{X: 300, Y: 0})
	w, _ := r.svc.CreateWall(a.ID, b.ID)

	dt := NewDoorTool(r.svc, r.history, r.bus)
	dt.Activate()

	// Press on the wall, release over the placement point.
	dt.HandlePointer(PointerEvent{Kind: PointerDown, Pos: plan.Point{X: 150, Y: 2}})
	dt.HandlePointer(PointerEvent{Kind: PointerUp, Pos: plan.Point{X: 150, Y: 2}})

	doors := r.svc.Doors().All()
	if len(doors) != 1 {
		t.Fatalf("expected 1 door, got %d", len(doors))
	}
	if doors[0].Wall != w.ID {
		t.Error("door should attach to the pressed wall")
	}
	if math.Abs(doors[0].Position.X-150) > 1e-6 || math.Abs(doors[0].Position.Y) > 1e-6 {
		t.Errorf("door centre should project onto the wall, got %v", doors[0].Position)
	}
}

func TestDoorToolDragsExistingDoor(t *testing.T) {
	r := newRig()
	a := r.svc.CreateNode(plan.Point{X: 0, Y: 0})
	b := r.svc.CreateNode(plan.Point{X: 400, Y: 0})
	w, _ := r.svc.CreateWall(a.ID, b.ID)
	d, err := r.svc.PlaceDoor(w.ID, plan.Point{X: 100, Y: 0})
	if err != nil {
		t.Fatalf("PlaceDoor failed: %v", err)
	}

	dt := NewDoorTool(r.svc, r.history, r.bus)
	dt.Activate()

	drag(dt, plan.Point{X: 100, Y: 0}, plan.Point{X: 250, Y: 0}, Modifiers{})

	if math.Abs(d.Position.X-250) > 1e-6 {
		t.Errorf("drag should move the door to x=250, got %f", d.Position.X)
	}
	if r.svc.Doors().Count() != 1 {
		t.Error("drag should move, not duplicate, the door")
	}
}

func TestRoomToolDragsRectangle(t *testing.T) {
	r := newRig()
	rt := NewRoomTool(r.svc, r.history, r.bus)
	rt.Activate()

	drag(rt, plan.Point{X: 0, Y: 0}, plan.Point{X: 400, Y: 300}, Modifiers{})

	if r.svc.Rooms().Count() != 1 {
		t.Fatalf("expected 1 room, got %d", r.svc.Rooms().Count())
	}
	if r.svc.Graph().WallCount() != 4 || r.svc.Graph().NodeCount() != 4 {
		t.Error("rectangle should create 4 walls and 4 nodes")
	}
}

func TestSelectToolPriorityAndToggle(t *testing.T) {
	r := newRig()
	a := r.svc.CreateNode(plan.Point{X: 0, Y: 0})
	b := r.svc.CreateNode(plan.Point{X: 300, Y: 0})
	w, _ := r.svc.CreateWall(a.ID, b.ID)
	d, err := r.svc.PlaceDoor(w.ID, plan.Point{X: 150, Y: 0})
	if err != nil {
		t.Fatalf("PlaceDoor failed: %v", err)
	}

	st := NewSelectTool(r.svc)
	st.Activate()
	sel := r.svc.Selection()

	// A click over the door selects the door, not the wall underneath.
	st.HandlePointer(PointerEvent{Kind: PointerDown, Pos: plan.Point{X: 150, Y: 0}})
	if !sel.IsDoorSelected(d.ID) || sel.IsWallSelected(w.ID) {
		t.Error("door should win the hit priority over its wall")
	}

	// A plain click on the wall body replaces the selection.
	st.HandlePointer(PointerEvent{Kind: PointerDown, Pos: plan.Point{X: 40, Y: 0}})
	if sel.IsDoorSelected(d.ID) || !sel.IsWallSelected(w.ID) {
		t.Error("plain click should replace the selection with the wall")
	}

	// Shift-click adds; shift-clicking again toggles off.
	st.HandlePointer(PointerEvent{Kind: PointerDown, Pos: plan.Point{X: 150, Y: 0}, Mods: Modifiers{Shift: true}})
	if !sel.IsDoorSelected(d.ID) || !sel.IsWallSelected(w.ID) {
		t.Error("shift-click should extend the selection")
	}
	st.HandlePointer(PointerEvent{Kind: PointerDown, Pos: plan.Point{X: 150, Y: 0}, Mods: Modifiers{Shift: true}})
	if sel.IsDoorSelected(d.ID) {
		t.Error("second shift-click should toggle the door off")
	}

	// A click over empty space clears everything.
	st.HandlePointer(PointerEvent{Kind: PointerDown, Pos: plan.Point{X: 150, Y: 200}})
	if !sel.IsEmpty() {
		t.Error("empty-space click should clear the selection")
	}
}

func TestRemoveToolDeletesSelection(t *testing.T) {
	r := newRig()
	a := r.svc.CreateNode(plan.Point{X: 0, Y: 0})
	b := r.svc.CreateNode(plan.Point{X: 300, Y: 0})
	w, _ := r.svc.CreateWall(a.ID, b.ID)
	r.svc.Selection().SelectWall(w.ID)

	rt := NewRemoveTool(r.svc, r.history)
	rt.RemoveSelection()

	if r.svc.Graph().WallCount() != 0 {
		t.Error("selected wall should be removed")
	}
	if r.svc.Graph().NodeCount() != 0 {
		t.Error("orphaned endpoints should be swept with the wall")
	}
	r.history.Undo()
	if r.svc.Graph().Wall(w.ID) == nil || r.svc.Graph().NodeCount() != 2 {
		t.Error("undo should bring the wall and nodes back")
	}
}

func TestManagerSwitchAndRestore(t *testing.T) {
	r := newRig()
	bus := r.bus
	m := NewManager(bus)
	wt := NewWallTool(r.svc, r.history, bus)
	st := NewSelectTool(r.svc)
	m.Register(st)
	m.Register(wt)

	if m.Active() != st {
		t.Fatal("first registered tool should start active")
	}

	var switches []event.ToolChanged
	bus.Subscribe(event.KindToolChanged, func(ev event.Event) {
		switches = append(switches, ev.(event.ToolChanged))
	})

	if !m.Switch("wall") {
		t.Fatal("switch to a registered tool should succeed")
	}
	if m.Active() != wt {
		t.Error("wall tool should be active")
	}
	if len(switches) != 1 || switches[0].Previous != "select" {
		t.Error("switch should announce the previous tool")
	}

	if m.Switch("bogus") {
		t.Error("unknown tool name should be rejected")
	}
	if !m.RestorePrevious() || m.Active() != st {
		t.Error("restore should return to the select tool")
	}
}
