package tool

import (
	"log"

	"wallplan/command"
	"wallplan/plan"
)

// RemoveTool deletes things. Activating it (or pressing Delete) removes the
// whole current selection in dependency order; with the tool active, a click
// removes the entity under the cursor. A degree-2 node heals its through-line
// instead of leaving a gap.
type RemoveTool struct {
	svc     *command.Service
	history *command.Manager
}

// NewRemoveTool builds the remove tool.
func NewRemoveTool(svc *command.Service, history *command.Manager) *RemoveTool {
	return &RemoveTool{svc: svc, history: history}
}

func (t *RemoveTool) Name() string { return "remove" }

func (t *RemoveTool) Activate() {
	t.RemoveSelection()
}

func (t *RemoveTool) Deactivate() {}

// RemoveSelection deletes every selected entity as one history entry. An
// empty selection is a no-op. Also bound to the Delete key by the shell.
func (t *RemoveTool) RemoveSelection() {
	sel := t.svc.Selection()
	if sel.IsEmpty() {
		return
	}
	cmd := command.NewRemoveEntities(t.svc, sel.Doors(), sel.Windows(), sel.Walls(), sel.Nodes())
	if err := t.history.Execute(cmd); err != nil {
		log.Printf("remove selection failed: %v", err)
	}
}

func (t *RemoveTool) HandlePointer(ev PointerEvent) {
	if ev.Kind != PointerDown {
		return
	}
	svc := t.svc
	var cmd command.Command
	switch {
	case svc.Doors().At(ev.Pos) != nil:
		cmd = command.NewRemoveEntities(svc, []plan.OpeningID{svc.Doors().At(ev.Pos).ID}, nil, nil, nil)
	case svc.Windows().At(ev.Pos) != nil:
		cmd = command.NewRemoveEntities(svc, nil, []plan.OpeningID{svc.Windows().At(ev.Pos).ID}, nil, nil)
	case svc.Graph().NodeAt(ev.Pos) != nil:
		cmd = command.NewRemoveEntities(svc, nil, nil, nil, []plan.NodeID{svc.Graph().NodeAt(ev.Pos).ID})
	case svc.Graph().WallAt(ev.Pos) != nil:
		cmd = command.NewRemoveEntities(svc, nil, nil, []plan.WallID{svc.Graph().WallAt(ev.Pos).ID}, nil)
	default:
		return
	}
	if err := t.history.Execute(cmd); err != nil {
		log.Printf("remove failed: %v", err)
	}
}
