package validation

import (
	"errors"
	"testing"

	"wallplan/event"
	"wallplan/graph"
	"wallplan/plan"
	"wallplan/store"
)

type fixture struct {
	g       *graph.WallGraph
	doors   *store.DoorStore
	windows *store.WindowStore
	v       *Validator
}

func newFixture() *fixture {
	cfg := plan.DefaultConfig()
	bus := event.NewBus()
	g := graph.New(cfg, bus)
	doors := store.NewDoorStore(bus)
	windows := store.NewWindowStore(bus)
	return &fixture{
		g:       g,
		doors:   doors,
		windows: windows,
		v:       New(cfg, g, doors, windows),
	}
}

func (f *fixture) wall(t *testing.T, a, b plan.Point) *plan.Wall {
	t.Helper()
	na := f.g.CreateNode(a)
	nb := f.g.CreateNode(b)
	w, err := f.g.CreateWall(na.ID, nb.ID)
	if err != nil {
		t.Fatalf("CreateWall failed: %v", err)
	}
	return w
}

func TestValidWallSpan(t *testing.T) {
	f := newFixture()
	if err := f.v.ValidWallSpan(plan.Point{X: 0, Y: 0}, plan.Point{X: 100, Y: 0}); err != nil {
		t.Errorf("100 unit span should pass: %v", err)
	}
	err := f.v.ValidWallSpan(plan.Point{X: 0, Y: 0}, plan.Point{X: 5, Y: 0})
	if !errors.Is(err, ErrWallTooShort) {
		t.Errorf("expected ErrWallTooShort, got %v", err)
	}
}

func TestValidWall(t *testing.T) {
	f := newFixture()
	a := f.g.CreateNode(plan.Point{X: 0, Y: 0})
	b := f.g.CreateNode(plan.Point{X: 100, Y: 0})
	c := f.g.CreateNode(plan.Point{X: 3, Y: 0})
	f.g.CreateWall(a.ID, b.ID)

	tests := []struct {
		name       string
		start, end plan.NodeID
		want       error
	}{
		{"missing node", a.ID, plan.NodeID("ghost"), ErrMissingNode},
		{"same node", a.ID, a.ID, ErrSameNode},
		{"too short", a.ID, c.ID, ErrWallTooShort},
		{"duplicate", b.ID, a.ID, ErrDuplicateWall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.v.ValidWall(tt.start, tt.end); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if err := f.v.ValidWall(b.ID, c.ID); err != nil {
		t.Errorf("valid pair rejected: %v", err)
	}
}

func TestValidSplitPoint(t *testing.T) {
	f := newFixture()
	w := f.wall(t, plan.Point{X: 0, Y: 0}, plan.Point{X: 200, Y: 0})

	if err := f.v.ValidSplitPoint(w, plan.Point{X: 100, Y: 0}); err != nil {
		t.Errorf("midpoint split rejected: %v", err)
	}
	if err := f.v.ValidSplitPoint(w, plan.Point{X: 100, Y: 40}); !errors.Is(err, ErrOffWall) {
		t.Errorf("expected ErrOffWall, got %v", err)
	}
	// Inside the 10 unit placement margin from the start.
	if err := f.v.ValidSplitPoint(w, plan.Point{X: 5, Y: 0}); !errors.Is(err, ErrTooCloseToEnd) {
		t.Errorf("expected ErrTooCloseToEnd, got %v", err)
	}
}

func TestDoorPlacementMargins(t *testing.T) {
	f := newFixture()
	w := f.wall(t, plan.Point{X: 0, Y: 0}, plan.Point{X: 200, Y: 0})
	width := 80.0

	// Centre at 100: span 60..140, both margins comfortably kept.
	if err := f.v.ValidateDoorPlacement(w, plan.Point{X: 100, Y: 0}, width, ""); err != nil {
		t.Errorf("centred door rejected: %v", err)
	}
	// Centre at 45: span start 5 is inside the 10 unit margin.
	if err := f.v.ValidateDoorPlacement(w, plan.Point{X: 45, Y: 0}, width, ""); !errors.Is(err, ErrTooCloseToEnd) {
		t.Errorf("expected ErrTooCloseToEnd, got %v", err)
	}
	// Centre at 50 is the exact boundary and still passes.
	if err := f.v.ValidateDoorPlacement(w, plan.Point{X: 50, Y: 0}, width, ""); err != nil {
		t.Errorf("boundary placement rejected: %v", err)
	}
}

func TestDoorPlacementNarrowWall(t *testing.T) {
	f := newFixture()
	w := f.wall(t, plan.Point{X: 0, Y: 0}, plan.Point{X: 60, Y: 0})

	err := f.v.ValidateDoorPlacement(w, plan.Point{X: 30, Y: 0}, 80, "")
	if !errors.Is(err, ErrWallTooNarrow) {
		t.Errorf("expected ErrWallTooNarrow, got %v", err)
	}
}

func TestOpeningClearance(t *testing.T) {
	f := newFixture()
	w := f.wall(t, plan.Point{X: 0, Y: 0}, plan.Point{X: 400, Y: 0})

	d := plan.NewDoor(w.ID, plan.Point{X: 100, Y: 0}, 0, 80, 200)
	f.doors.Add(d)

	// Centres 90 apart is the exact minimum for two 80 wide spans.
	if err := f.v.ValidateDoorPlacement(w, plan.Point{X: 190, Y: 0}, 80, ""); err != nil {
		t.Errorf("placement at minimum clearance rejected: %v", err)
	}
	if err := f.v.ValidateDoorPlacement(w, plan.Point{X: 150, Y: 0}, 80, ""); !errors.Is(err, ErrOpeningOverlap) {
		t.Errorf("expected ErrOpeningOverlap, got %v", err)
	}
	// Windows keep clearance from doors on the same wall.
	if err := f.v.ValidateWindowPlacement(w, plan.Point{X: 120, Y: 0}, 100, ""); !errors.Is(err, ErrOpeningOverlap) {
		t.Errorf("expected window/door overlap, got %v", err)
	}
	// The ignore id lets a door validate its own move.
	if err := f.v.ValidateDoorPlacement(w, plan.Point{X: 110, Y: 0}, 80, d.ID); err != nil {
		t.Errorf("self-move should skip the moving door: %v", err)
	}
}
