package tool

import (
	"log"

	"wallplan/command"
	"wallplan/event"
	"wallplan/plan"
)

type wallMode int

const (
	wallIdle wallMode = iota
	wallDrawing
	wallMovingNode
)

// WallTool draws walls and drags nodes. Pointer-down on empty space starts a
// wall; pointer-down on a node starts a node drag. Releasing a drag within
// the snap threshold of another node merges instead of moving.
type WallTool struct {
	svc     *command.Service
	history *command.Manager
	bus     *event.Bus

	mode       wallMode
	anchor     plan.Point
	dragID     plan.NodeID
	dragOrigin plan.Point
	target     plan.Point
}

// NewWallTool builds the wall tool.
func NewWallTool(svc *command.Service, history *command.Manager, bus *event.Bus) *WallTool {
	return &WallTool{svc: svc, history: history, bus: bus}
}

func (t *WallTool) Name() string { return "wall" }

func (t *WallTool) Activate() { t.mode = wallIdle }

func (t *WallTool) Deactivate() {
	t.mode = wallIdle
	t.clearPreview()
}

func (t *WallTool) HandlePointer(ev PointerEvent) {
	switch t.mode {
	case wallIdle:
		if ev.Kind != PointerDown {
			return
		}
		if n := t.svc.Graph().NodeAt(ev.Pos); n != nil {
			t.mode = wallMovingNode
			t.dragID = n.ID
			t.dragOrigin = n.Position
			t.target = n.Position
			return
		}
		// Ctrl-click on a wall body splits it in place.
		if ev.Mods.Ctrl {
			if w := t.svc.Graph().WallAt(ev.Pos); w != nil {
				at := w.ClosestPoint(ev.Pos)
				if err := t.history.Execute(command.NewSplitWall(t.svc, w.ID, at)); err != nil {
					log.Printf("split wall rejected: %v", err)
				}
				return
			}
		}
		t.mode = wallDrawing
		t.anchor = ev.Pos
		t.target = ev.Pos
	case wallDrawing:
		t.handleDrawing(ev)
	case wallMovingNode:
		t.handleMovingNode(ev)
	}
}

func (t *WallTool) handleDrawing(ev PointerEvent) {
	cfg := t.svc.Config()
	switch ev.Kind {
	case PointerMove:
		t.target = t.resolveEnd(ev)
		valid := t.svc.Validator().ValidWallSpan(t.anchor, t.target) == nil
		t.preview(t.anchor, t.target, valid)
	case PointerUp:
		t.target = t.resolveEnd(ev)
		t.mode = wallIdle
		t.clearPreview()

		startID := plan.NodeID("")
		startPos := t.anchor
		if n := t.svc.Graph().FindClosestNode(t.anchor, cfg.SnapThreshold); n != nil {
			startID, startPos = n.ID, n.Position
		}
		endID := plan.NodeID("")
		if n := t.svc.Graph().FindClosestNode(t.target, cfg.SnapThreshold); n != nil && n.ID != startID {
			endID, t.target = n.ID, n.Position
		}
		if err := t.svc.Validator().ValidWallSpan(startPos, t.target); err != nil {
			log.Printf("draw wall rejected: %v", err)
			return
		}
		cmd := command.NewDrawWall(t.svc, startID, startPos, endID, t.target)
		if err := t.history.Execute(cmd); err != nil {
			log.Printf("draw wall rejected: %v", err)
		}
	}
}

// resolveEnd applies modifier constraints to the pointer position and then
// snaps onto any node within the snap threshold. Node snap wins over the
// angle and grid constraints.
func (t *WallTool) resolveEnd(ev PointerEvent) plan.Point {
	cfg := t.svc.Config()
	target := constrainTarget(cfg, t.anchor, ev.Pos, ev.Mods)
	if n := t.svc.Graph().FindClosestNode(ev.Pos, cfg.SnapThreshold); n != nil {
		return n.Position
	}
	return target
}

func (t *WallTool) handleMovingNode(ev PointerEvent) {
	cfg := t.svc.Config()
	switch ev.Kind {
	case PointerMove:
		t.target = constrainTarget(cfg, t.dragOrigin, ev.Pos, ev.Mods)
		t.preview(t.dragOrigin, t.target, true)
	case PointerUp:
		t.target = constrainTarget(cfg, t.dragOrigin, ev.Pos, ev.Mods)
		t.mode = wallIdle
		t.clearPreview()

		// Merge takes priority over move.
		if other := t.svc.Graph().FindClosestNode(t.target, cfg.SnapThreshold, t.dragID); other != nil {
			if err := t.history.Execute(command.NewMergeNodes(t.svc, t.dragID, other.ID)); err != nil {
				log.Printf("merge nodes rejected: %v", err)
			}
			return
		}
		if t.target == t.dragOrigin {
			return
		}
		if err := t.history.Execute(command.NewMoveNode(t.svc, t.dragID, t.target)); err != nil {
			log.Printf("move node rejected: %v", err)
		}
	}
}

func (t *WallTool) preview(from, to plan.Point, valid bool) {
	if t.bus != nil {
		t.bus.Emit(event.PreviewChanged{Active: true, From: from, To: to, Valid: valid, Tool: t.Name()})
	}
}

func (t *WallTool) clearPreview() {
	if t.bus != nil {
		t.bus.Emit(event.PreviewChanged{Tool: t.Name()})
	}
}
