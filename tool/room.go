package tool

import (
	"log"

	"wallplan/command"
	"wallplan/event"
	"wallplan/geometry"
	"wallplan/plan"
)

type roomMode int

const (
	roomIdle roomMode = iota
	roomDragging
)

// RoomTool drags out an axis-aligned rectangle and commits it as four nodes,
// four walls and a room in a single history entry.
type RoomTool struct {
	svc     *command.Service
	history *command.Manager
	bus     *event.Bus

	mode   roomMode
	corner plan.Point
}

// NewRoomTool builds the room tool.
func NewRoomTool(svc *command.Service, history *command.Manager, bus *event.Bus) *RoomTool {
	return &RoomTool{svc: svc, history: history, bus: bus}
}

func (t *RoomTool) Name() string { return "room" }

func (t *RoomTool) Activate() { t.mode = roomIdle }

func (t *RoomTool) Deactivate() {
	t.mode = roomIdle
	t.clearPreview()
}

func (t *RoomTool) HandlePointer(ev PointerEvent) {
	switch t.mode {
	case roomIdle:
		if ev.Kind != PointerDown {
			return
		}
		t.mode = roomDragging
		t.corner = t.snap(ev)
	case roomDragging:
		switch ev.Kind {
		case PointerMove:
			opposite := t.snap(ev)
			valid := t.sidesLongEnough(opposite)
			if t.bus != nil {
				t.bus.Emit(event.PreviewChanged{Active: true, From: t.corner, To: opposite, Valid: valid, Tool: t.Name()})
			}
		case PointerUp:
			opposite := t.snap(ev)
			t.mode = roomIdle
			t.clearPreview()
			if err := t.history.Execute(command.NewCreateRectRoom(t.svc, t.corner, opposite, "")); err != nil {
				log.Printf("create room rejected: %v", err)
			}
		}
	}
}

func (t *RoomTool) snap(ev PointerEvent) plan.Point {
	if ev.Mods.Alt {
		return geometry.SnapToGrid(ev.Pos, t.svc.Config().GridPitch)
	}
	return ev.Pos
}

func (t *RoomTool) sidesLongEnough(opposite plan.Point) bool {
	min := t.svc.Config().MinWallLength
	dx := opposite.X - t.corner.X
	dy := opposite.Y - t.corner.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx >= min && dy >= min
}

func (t *RoomTool) clearPreview() {
	if t.bus != nil {
		t.bus.Emit(event.PreviewChanged{Tool: t.Name()})
	}
}
