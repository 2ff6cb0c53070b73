package session

import (
	"testing"

	"wallplan/plan"
)

func TestSessionWiring(t *testing.T) {
	s := New(plan.DefaultConfig())

	if s.Tools.Active() == nil || s.Tools.Active().Name() != "select" {
		t.Error("the select tool should start active")
	}
	want := []string{"select", "wall", "door", "window", "room", "remove"}
	got := s.Tools.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tool %d should be %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSessionCounts(t *testing.T) {
	s := New(plan.DefaultConfig())
	a := s.Service.CreateNode(plan.Point{X: 0, Y: 0})
	b := s.Service.CreateNode(plan.Point{X: 300, Y: 0})
	w, err := s.Service.CreateWall(a.ID, b.ID)
	if err != nil {
		t.Fatalf("CreateWall failed: %v", err)
	}
	if _, err := s.Service.PlaceDoor(w.ID, plan.Point{X: 150, Y: 0}); err != nil {
		t.Fatalf("PlaceDoor failed: %v", err)
	}

	c := s.Counts()
	if c.Nodes != 2 || c.Walls != 1 || c.Doors != 1 || c.Windows != 0 || c.Rooms != 0 {
		t.Errorf("unexpected census: %+v", c)
	}
}

func TestSelectionFlagsFollowStore(t *testing.T) {
	s := New(plan.DefaultConfig())
	a := s.Service.CreateNode(plan.Point{X: 0, Y: 0})
	b := s.Service.CreateNode(plan.Point{X: 300, Y: 0})
	w, _ := s.Service.CreateWall(a.ID, b.ID)

	s.Selection.SelectWall(w.ID)
	if !w.Selected() {
		t.Error("selecting a wall should set its render flag")
	}
	s.Selection.SelectNode(a.ID)
	if !a.Selected() || b.Selected() {
		t.Error("only the selected node should carry the flag")
	}
	s.Selection.Clear()
	if w.Selected() || a.Selected() {
		t.Error("clearing the selection should drop all flags")
	}
}

func TestSessionClear(t *testing.T) {
	s := New(plan.DefaultConfig())
	a := s.Service.CreateNode(plan.Point{X: 0, Y: 0})
	b := s.Service.CreateNode(plan.Point{X: 300, Y: 0})
	w, _ := s.Service.CreateWall(a.ID, b.ID)
	s.Service.PlaceDoor(w.ID, plan.Point{X: 150, Y: 0})
	s.Selection.SelectWall(w.ID)

	s.Clear()
	c := s.Counts()
	if c.Nodes != 0 || c.Walls != 0 || c.Doors != 0 {
		t.Errorf("clear should empty the plan: %+v", c)
	}
	if !s.Selection.IsEmpty() {
		t.Error("clear should empty the selection")
	}
	if s.History.CanUndo() {
		t.Error("clear should drop the history")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s1 := New(plan.DefaultConfig())
	s2 := New(plan.DefaultConfig())

	s1.Service.CreateNode(plan.Point{X: 0, Y: 0})
	if s2.Graph.NodeCount() != 0 {
		t.Error("sessions must not share state")
	}
}
