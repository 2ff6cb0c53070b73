package event

import (
	"testing"

	"wallplan/plan"
)

func TestBusSubscribeEmit(t *testing.T) {
	b := NewBus()
	var got []Event
	b.Subscribe(KindWallCreated, func(ev Event) { got = append(got, ev) })

	b.Emit(WallCreated{ID: "w1"})
	b.Emit(WallRemoved{ID: "w1"}) // different kind, not delivered
	b.Emit(WallCreated{ID: "w2"})

	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(got))
	}
	if got[0].(WallCreated).ID != "w1" || got[1].(WallCreated).ID != "w2" {
		t.Error("events should arrive in emit order")
	}
}

func TestBusCancel(t *testing.T) {
	b := NewBus()
	count := 0
	cancel := b.Subscribe(KindGraphChanged, func(Event) { count++ })

	b.Emit(GraphChanged{Counts: plan.Counts{Nodes: 1}})
	cancel()
	b.Emit(GraphChanged{Counts: plan.Counts{Nodes: 2}})

	if count != 1 {
		t.Errorf("cancelled handler should not run, count=%d", count)
	}
	// Cancelling twice is harmless.
	cancel()
}

func TestBusUnsubscribeDuringDispatch(t *testing.T) {
	b := NewBus()
	var cancel func()
	first := 0
	second := 0
	cancel = b.Subscribe(KindToolChanged, func(Event) {
		first++
		cancel()
	})
	b.Subscribe(KindToolChanged, func(Event) { second++ })

	b.Emit(ToolChanged{Name: "wall"})
	b.Emit(ToolChanged{Name: "door"})

	if first != 1 {
		t.Errorf("self-cancelling handler should run once, ran %d", first)
	}
	if second != 2 {
		t.Errorf("sibling handler should see both events, saw %d", second)
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindGraphChanged, "graph:changed"},
		{KindNodeUpdated, "node:updated"},
		{KindWallCreated, "wall:created"},
		{KindWallRemoved, "wall:removed"},
		{KindDoorChanged, "door:changed"},
		{KindWindowChanged, "window:changed"},
		{KindRoomChanged, "room:changed"},
		{KindSelectionChanged, "selection:changed"},
		{KindPreviewChanged, "canvas:preview"},
		{KindToolChanged, "tool:changed"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestBusClear(t *testing.T) {
	b := NewBus()
	count := 0
	b.Subscribe(KindNodeUpdated, func(Event) { count++ })
	b.Clear()
	b.Emit(NodeUpdated{ID: "n1"})
	if count != 0 {
		t.Error("cleared bus should deliver nothing")
	}
}
