package store

import (
	"testing"

	"wallplan/event"
	"wallplan/plan"
)

func TestDoorStoreOrdinals(t *testing.T) {
	s := NewDoorStore(nil)
	d1 := plan.NewDoor("w1", plan.Point{X: 50, Y: 0}, 0, 80, 200)
	d2 := plan.NewDoor("w1", plan.Point{X: 200, Y: 0}, 0, 80, 200)
	s.Add(d1)
	s.Add(d2)

	if d1.Ordinal != 1 || d2.Ordinal != 2 {
		t.Errorf("ordinals should run 1,2: got %d,%d", d1.Ordinal, d2.Ordinal)
	}

	// A removed door re-added with its ordinal keeps it, and the counter
	// never hands the number out again.
	s.Remove(d1.ID)
	s.Add(d1)
	if d1.Ordinal != 1 {
		t.Errorf("restored door should keep ordinal 1, got %d", d1.Ordinal)
	}
	d3 := plan.NewDoor("w2", plan.Point{X: 0, Y: 0}, 0, 80, 200)
	s.Add(d3)
	if d3.Ordinal != 3 {
		t.Errorf("fresh door should get ordinal 3, got %d", d3.Ordinal)
	}
}

func TestDoorStoreQueries(t *testing.T) {
	s := NewDoorStore(nil)
	d1 := plan.NewDoor("w1", plan.Point{X: 50, Y: 0}, 0, 80, 200)
	d2 := plan.NewDoor("w2", plan.Point{X: 300, Y: 0}, 0, 80, 200)
	s.Add(d1)
	s.Add(d2)

	if got := s.OnWall("w1"); len(got) != 1 || got[0] != d1 {
		t.Error("OnWall should return only the wall's doors")
	}
	if got := s.At(plan.Point{X: 50, Y: 0}); got != d1 {
		t.Error("At should hit the door span")
	}
	if got := s.At(plan.Point{X: 150, Y: 100}); got != nil {
		t.Error("At should miss empty space")
	}
	if s.Remove("ghost") != nil {
		t.Error("removing an unknown id should return nil")
	}
}

func TestDoorStoreClearKeepsCounter(t *testing.T) {
	s := NewDoorStore(nil)
	s.Add(plan.NewDoor("w1", plan.Point{}, 0, 80, 200))
	s.Clear()
	if s.Count() != 0 {
		t.Fatal("clear should empty the store")
	}
	d := plan.NewDoor("w1", plan.Point{}, 0, 80, 200)
	s.Add(d)
	if d.Ordinal != 2 {
		t.Errorf("ordinal counter should survive clear, got %d", d.Ordinal)
	}
}

func TestRoomStoreDefaultName(t *testing.T) {
	s := NewRoomStore(nil)
	r1 := plan.NewRoom([]plan.WallID{"a", "b", "c"}, "")
	r2 := plan.NewRoom([]plan.WallID{"d", "e", "f"}, "kitchen")
	s.Add(r1)
	s.Add(r2)

	if r1.Name != "Room 1" {
		t.Errorf("unnamed room should get a default name, got %q", r1.Name)
	}
	if r2.Name != "kitchen" {
		t.Errorf("explicit name should be kept, got %q", r2.Name)
	}
	if got := s.WithWall("b"); len(got) != 1 || got[0] != r1 {
		t.Error("WithWall should find the room by boundary wall")
	}
}

func TestSelectionStoreBroadcast(t *testing.T) {
	bus := event.NewBus()
	s := NewSelectionStore(bus)

	var snapshots []event.SelectionChanged
	cancel := bus.Subscribe(event.KindSelectionChanged, func(ev event.Event) {
		snapshots = append(snapshots, ev.(event.SelectionChanged))
	})
	defer cancel()

	s.SelectNode("n1")
	s.SelectWall("w1")
	s.SelectNode("n1") // already selected, no broadcast
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 broadcasts, got %d", len(snapshots))
	}
	last := snapshots[len(snapshots)-1]
	if len(last.Nodes) != 1 || len(last.Walls) != 1 {
		t.Error("broadcast should carry the full selection snapshot")
	}

	s.DeselectNode("n1")
	if s.IsNodeSelected("n1") {
		t.Error("deselect should remove membership")
	}
	s.Clear()
	if !s.IsEmpty() {
		t.Error("clear should empty the selection")
	}
	s.Clear() // already empty, no broadcast
	if len(snapshots) != 4 {
		t.Errorf("expected 4 broadcasts total, got %d", len(snapshots))
	}
}

func TestSelectionStoreOpenings(t *testing.T) {
	s := NewSelectionStore(nil)
	s.SelectDoor("d1")
	s.SelectWindow("win1")

	if !s.IsDoorSelected("d1") || !s.IsWindowSelected("win1") {
		t.Error("openings should be selectable")
	}
	s.DeselectDoor("d1")
	s.DeselectWindow("win1")
	if !s.IsEmpty() {
		t.Error("deselecting everything should leave the selection empty")
	}
}
