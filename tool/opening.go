package tool

import (
	"log"

	"wallplan/command"
	"wallplan/event"
	"wallplan/plan"
)

// openingSnapDistance is how far a dragged opening may be released from a
// wall and still snap onto it.
const openingSnapDistance = 20.0

type openingMode int

const (
	openIdle openingMode = iota
	openSelectingWall
	openDragging
)

// openingTool is the shared state machine behind the door and window tools.
// Pointer-down off any opening enters wall selection with continuous
// hit-testing; pointer-down on an existing opening starts a drag that keeps
// the grab offset and snaps back onto the nearest wall on release.
type openingTool struct {
	name    string
	svc     *command.Service
	history *command.Manager
	bus     *event.Bus

	mode      openingMode
	hoverWall plan.WallID
	dragID    plan.OpeningID
	offset    plan.Point

	grab     func(p plan.Point) (plan.OpeningID, plan.Point, bool)
	place    func(wall plan.WallID, at plan.Point) command.Command
	move     func(id plan.OpeningID, wall plan.WallID, at plan.Point) command.Command
	validate func(w *plan.Wall, center plan.Point, ignore plan.OpeningID) error
}

func (t *openingTool) Name() string { return t.name }

func (t *openingTool) Activate() { t.reset() }

func (t *openingTool) Deactivate() {
	t.reset()
	t.clearPreview()
}

func (t *openingTool) reset() {
	t.mode = openIdle
	t.hoverWall = ""
	t.dragID = ""
}

func (t *openingTool) HandlePointer(ev PointerEvent) {
	switch t.mode {
	case openIdle:
		if ev.Kind != PointerDown {
			return
		}
		if id, pos, ok := t.grab(ev.Pos); ok {
			t.mode = openDragging
			t.dragID = id
			t.offset = pos.Sub(ev.Pos)
			return
		}
		t.mode = openSelectingWall
		t.hover(ev.Pos)
	case openSelectingWall:
		t.handleSelecting(ev)
	case openDragging:
		t.handleDragging(ev)
	}
}

func (t *openingTool) handleSelecting(ev PointerEvent) {
	switch ev.Kind {
	case PointerMove:
		t.hover(ev.Pos)
	case PointerUp:
		wall := t.hoverWall
		t.reset()
		t.clearPreview()
		if wall == "" {
			return
		}
		if err := t.history.Execute(t.place(wall, ev.Pos)); err != nil {
			log.Printf("place %s rejected: %v", t.name, err)
		}
	}
}

// hover hit-tests the first wall under the cursor and previews the placement
// point on it.
func (t *openingTool) hover(p plan.Point) {
	w := t.svc.Graph().WallAt(p)
	if w == nil {
		t.hoverWall = ""
		t.clearPreview()
		return
	}
	t.hoverWall = w.ID
	center := w.ClosestPoint(p)
	valid := t.validate(w, center, "") == nil
	t.preview(center, valid)
}

func (t *openingTool) handleDragging(ev PointerEvent) {
	target := ev.Pos.Add(t.offset)
	switch ev.Kind {
	case PointerMove:
		if w := t.svc.Graph().FindNearestWall(target, openingSnapDistance); w != nil {
			center := w.ClosestPoint(target)
			t.preview(center, t.validate(w, center, t.dragID) == nil)
			return
		}
		t.preview(target, false)
	case PointerUp:
		id := t.dragID
		t.reset()
		t.clearPreview()
		w := t.svc.Graph().FindNearestWall(target, openingSnapDistance)
		if w == nil {
			log.Printf("move %s aborted: no wall within %.0f", t.name, openingSnapDistance)
			return
		}
		if err := t.history.Execute(t.move(id, w.ID, target)); err != nil {
			log.Printf("move %s rejected: %v", t.name, err)
		}
	}
}

func (t *openingTool) preview(at plan.Point, valid bool) {
	if t.bus != nil {
		t.bus.Emit(event.PreviewChanged{Active: true, From: at, To: at, Valid: valid, Tool: t.name})
	}
}

func (t *openingTool) clearPreview() {
	if t.bus != nil {
		t.bus.Emit(event.PreviewChanged{Tool: t.name})
	}
}

// NewDoorTool builds the door placement tool.
func NewDoorTool(svc *command.Service, history *command.Manager, bus *event.Bus) Tool {
	t := &openingTool{name: "door", svc: svc, history: history, bus: bus}
	t.grab = func(p plan.Point) (plan.OpeningID, plan.Point, bool) {
		if d := svc.Doors().At(p); d != nil {
			return d.ID, d.Position, true
		}
		return "", plan.Point{}, false
	}
	t.place = func(wall plan.WallID, at plan.Point) command.Command {
		return command.NewPlaceDoor(svc, wall, at)
	}
	t.move = func(id plan.OpeningID, wall plan.WallID, at plan.Point) command.Command {
		return command.NewMoveDoor(svc, id, wall, at)
	}
	t.validate = func(w *plan.Wall, center plan.Point, ignore plan.OpeningID) error {
		width := svc.Config().DoorWidth
		if ignore != "" {
			if d := svc.Doors().Get(ignore); d != nil {
				width = d.Width
			}
		}
		return svc.Validator().ValidateDoorPlacement(w, center, width, ignore)
	}
	return t
}

// NewWindowTool builds the window placement tool.
func NewWindowTool(svc *command.Service, history *command.Manager, bus *event.Bus) Tool {
	t := &openingTool{name: "window", svc: svc, history: history, bus: bus}
	t.grab = func(p plan.Point) (plan.OpeningID, plan.Point, bool) {
		if w := svc.Windows().At(p); w != nil {
			return w.ID, w.Position, true
		}
		return "", plan.Point{}, false
	}
	t.place = func(wall plan.WallID, at plan.Point) command.Command {
		return command.NewPlaceWindow(svc, wall, at)
	}
	t.move = func(id plan.OpeningID, wall plan.WallID, at plan.Point) command.Command {
		return command.NewMoveWindow(svc, id, wall, at)
	}
	t.validate = func(w *plan.Wall, center plan.Point, ignore plan.OpeningID) error {
		width := svc.Config().WindowWidth
		if ignore != "" {
			if win := svc.Windows().Get(ignore); win != nil {
				width = win.Width
			}
		}
		return svc.Validator().ValidateWindowPlacement(w, center, width, ignore)
	}
	return t
}
