package tool

import (
	"wallplan/command"
)

// SelectTool builds the shared selection set by hit-testing clicks. Openings
// win over nodes, nodes over walls. A plain click replaces the selection,
// shift-click adds to it, and clicking empty space clears it.
type SelectTool struct {
	svc *command.Service
}

// NewSelectTool builds the select tool.
func NewSelectTool(svc *command.Service) *SelectTool {
	return &SelectTool{svc: svc}
}

func (t *SelectTool) Name() string { return "select" }

func (t *SelectTool) Activate() {}

func (t *SelectTool) Deactivate() {}

func (t *SelectTool) HandlePointer(ev PointerEvent) {
	if ev.Kind != PointerDown {
		return
	}
	sel := t.svc.Selection()
	if !ev.Mods.Shift {
		sel.Clear()
	}

	if d := t.svc.Doors().At(ev.Pos); d != nil {
		if ev.Mods.Shift && sel.IsDoorSelected(d.ID) {
			sel.DeselectDoor(d.ID)
		} else {
			sel.SelectDoor(d.ID)
		}
		return
	}
	if w := t.svc.Windows().At(ev.Pos); w != nil {
		if ev.Mods.Shift && sel.IsWindowSelected(w.ID) {
			sel.DeselectWindow(w.ID)
		} else {
			sel.SelectWindow(w.ID)
		}
		return
	}
	if n := t.svc.Graph().NodeAt(ev.Pos); n != nil {
		if ev.Mods.Shift && sel.IsNodeSelected(n.ID) {
			sel.DeselectNode(n.ID)
		} else {
			sel.SelectNode(n.ID)
		}
		return
	}
	if w := t.svc.Graph().WallAt(ev.Pos); w != nil {
		if ev.Mods.Shift && sel.IsWallSelected(w.ID) {
			sel.DeselectWall(w.ID)
		} else {
			sel.SelectWall(w.ID)
		}
		return
	}
	// Empty space: a plain click already cleared above.
}
