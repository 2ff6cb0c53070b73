package script

import (
	"testing"

	"wallplan/plan"
	"wallplan/session"
)

func newEngine() (*Engine, *session.Session) {
	s := session.New(plan.DefaultConfig())
	return NewEngine(s.Service, s.History, s.Clear), s
}

func TestScriptBuildsPlan(t *testing.T) {
	e, s := newEngine()

	errs := e.Run(`
		(def a (node 0 0))
		(def b (node 400 0))
		(def w (wall a b))
		(door w 0.25)
		(window w 0.75)
	`)
	if len(errs) != 0 {
		t.Fatalf("script failed: %v", errs)
	}
	if s.Graph.NodeCount() != 2 || s.Graph.WallCount() != 1 {
		t.Errorf("expected 2 nodes and 1 wall, got %d and %d", s.Graph.NodeCount(), s.Graph.WallCount())
	}
	if s.Doors.Count() != 1 || s.Windows.Count() != 1 {
		t.Error("script should place one door and one window")
	}
	d := s.Doors.All()[0]
	if d.Position.X != 100 {
		t.Errorf("door at fraction 0.25 of a 400 wall should sit at x=100, got %f", d.Position.X)
	}
}

func TestScriptedPlanIsUndoable(t *testing.T) {
	e, s := newEngine()

	if errs := e.Run(`(def a (node 0 0)) (def b (node 200 0)) (wall a b)`); len(errs) != 0 {
		t.Fatalf("script failed: %v", errs)
	}
	if s.History.Len() != 3 {
		t.Errorf("each builtin should be one history entry, got %d", s.History.Len())
	}
	s.History.Undo()
	if s.Graph.WallCount() != 0 {
		t.Error("undo should revert the scripted wall")
	}
	s.History.Undo()
	s.History.Undo()
	if s.Graph.NodeCount() != 0 {
		t.Error("undoing everything should empty the graph")
	}
}

func TestScriptUndoBuiltin(t *testing.T) {
	e, s := newEngine()

	if errs := e.Run(`(node 0 0) (node 100 0) (undo)`); len(errs) != 0 {
		t.Fatalf("script failed: %v", errs)
	}
	if s.Graph.NodeCount() != 1 {
		t.Errorf("the (undo) builtin should revert the last node, got %d nodes", s.Graph.NodeCount())
	}
	if !s.History.CanRedo() {
		t.Error("the undone entry should be redoable")
	}
}

func TestScriptSplitBuiltin(t *testing.T) {
	e, s := newEngine()

	errs := e.Run(`
		(def a (node 0 0))
		(def b (node 200 0))
		(def w (wall a b))
		(split w 0.5)
	`)
	if len(errs) != 0 {
		t.Fatalf("script failed: %v", errs)
	}
	if s.Graph.NodeCount() != 3 || s.Graph.WallCount() != 2 {
		t.Errorf("split should leave 3 nodes and 2 walls, got %d and %d",
			s.Graph.NodeCount(), s.Graph.WallCount())
	}
}

func TestScriptRejectsBadWall(t *testing.T) {
	e, s := newEngine()

	errs := e.Run(`(wall "ghost-a" "ghost-b")`)
	if len(errs) == 0 {
		t.Fatal("expected an error for unknown node ids")
	}
	if s.Graph.WallCount() != 0 {
		t.Error("failed builtin should not mutate the graph")
	}
}

func TestScriptParseErrorCarriesLine(t *testing.T) {
	e, _ := newEngine()

	errs := e.Run("(node 0 0)\n(wall")
	if len(errs) == 0 {
		t.Fatal("expected a parse error")
	}
	if errs[0].Error() == "" {
		t.Error("error should carry a message")
	}
}

func TestEmptyScriptIsNoOp(t *testing.T) {
	e, s := newEngine()
	if errs := e.Run("  \n\t "); errs != nil {
		t.Errorf("blank source should be a no-op, got %v", errs)
	}
	if s.History.Len() != 0 {
		t.Error("blank source should leave the history empty")
	}
}
