// Package validation implements the placement and geometry legality checks
// run before any graph mutation: minimum wall length, split-point validity,
// opening margins and overlap. Rejections are ordinary error values; callers
// abort the interaction and log, they never panic.
package validation

import (
	"errors"
	"fmt"

	"wallplan/geometry"
	"wallplan/graph"
	"wallplan/plan"
	"wallplan/store"
)

// Rejection categories. Wrapped errors carry the concrete measurements.
var (
	ErrWallTooShort   = errors.New("wall shorter than minimum length")
	ErrDuplicateWall  = errors.New("wall already exists between nodes")
	ErrSameNode       = errors.New("wall endpoints are the same node")
	ErrMissingNode    = errors.New("wall endpoint node missing")
	ErrOffWall        = errors.New("point does not lie on the wall")
	ErrTooCloseToEnd  = errors.New("too close to a wall endpoint")
	ErrWallTooNarrow  = errors.New("wall shorter than the opening span")
	ErrOpeningOverlap = errors.New("opening overlaps another opening")
)

// Validator bundles the graph and opening stores needed for legality checks.
type Validator struct {
	cfg     plan.Config
	graph   *graph.WallGraph
	doors   *store.DoorStore
	windows *store.WindowStore
}

// New creates a validator over the given graph and stores.
func New(cfg plan.Config, g *graph.WallGraph, doors *store.DoorStore, windows *store.WindowStore) *Validator {
	return &Validator{cfg: cfg, graph: g, doors: doors, windows: windows}
}

// ValidWallSpan checks only the geometric span between two points. Used for
// live previews before any node exists.
func (v *Validator) ValidWallSpan(a, b plan.Point) error {
	if d := geometry.Distance(a, b); d < v.cfg.MinWallLength {
		return fmt.Errorf("%w: %.1f < %.1f", ErrWallTooShort, d, v.cfg.MinWallLength)
	}
	return nil
}

// ValidWall checks the full topology of a prospective wall between two
// existing nodes: distinct nodes, minimum span, no duplicate pair.
func (v *Validator) ValidWall(start, end plan.NodeID) error {
	ns := v.graph.Node(start)
	ne := v.graph.Node(end)
	if ns == nil || ne == nil {
		return ErrMissingNode
	}
	if start == end {
		return ErrSameNode
	}
	if err := v.ValidWallSpan(ns.Position, ne.Position); err != nil {
		return err
	}
	if v.graph.WallBetween(start, end) != nil {
		return ErrDuplicateWall
	}
	return nil
}

// ValidSplitPoint checks that p lies on the wall body and is farther than the
// placement margin from both endpoints.
func (v *Validator) ValidSplitPoint(w *plan.Wall, p plan.Point) error {
	tolerance := w.Thickness / 2
	if tolerance < 1 {
		tolerance = 1
	}
	if d := geometry.DistanceToSegment(p, w.StartPoint, w.EndPoint); d > tolerance {
		return fmt.Errorf("%w: %.1f off axis", ErrOffWall, d)
	}
	margin := v.cfg.PlacementMargin
	if geometry.Distance(p, w.StartPoint) <= margin || geometry.Distance(p, w.EndPoint) <= margin {
		return ErrTooCloseToEnd
	}
	return nil
}

// ValidateDoorPlacement checks a door span centred at center on the wall:
// the wall must fit the span, both span ends must keep the placement margin
// from the wall ends, and no other opening on the wall may come closer than
// the sum of half-widths plus the margin. The opening with id ignore is
// skipped so an opening can validate its own move.
func (v *Validator) ValidateDoorPlacement(w *plan.Wall, center plan.Point, width float64, ignore plan.OpeningID) error {
	if err := v.validateSpan(w, center, width); err != nil {
		return err
	}
	return v.checkClearance(w, center, width, ignore)
}

// ValidateWindowPlacement is ValidateDoorPlacement for windows. Windows keep
// clearance from both sibling windows and doors on the same wall.
func (v *Validator) ValidateWindowPlacement(w *plan.Wall, center plan.Point, width float64, ignore plan.OpeningID) error {
	if err := v.validateSpan(w, center, width); err != nil {
		return err
	}
	return v.checkClearance(w, center, width, ignore)
}

// validateSpan checks the wall fits the opening and the margins to both ends.
func (v *Validator) validateSpan(w *plan.Wall, center plan.Point, width float64) error {
	length := w.Length()
	if length < width {
		return fmt.Errorf("%w: wall %.1f, opening %.1f", ErrWallTooNarrow, length, width)
	}
	t, _ := w.Project(center)
	along := t * length
	margin := v.cfg.PlacementMargin
	if along-width/2 < margin || length-(along+width/2) < margin {
		return ErrTooCloseToEnd
	}
	return nil
}

// checkClearance rejects placements closer than (widthA+widthB)/2 + margin
// to any other opening on the wall.
func (v *Validator) checkClearance(w *plan.Wall, center plan.Point, width float64, ignore plan.OpeningID) error {
	margin := v.cfg.PlacementMargin
	check := func(otherID plan.OpeningID, otherCenter plan.Point, otherWidth float64) error {
		if otherID == ignore {
			return nil
		}
		gap := geometry.Distance(center, otherCenter)
		minGap := (width+otherWidth)/2 + margin
		if gap < minGap {
			return fmt.Errorf("%w: centres %.1f apart, need %.1f", ErrOpeningOverlap, gap, minGap)
		}
		return nil
	}

	for _, d := range v.doors.OnWall(w.ID) {
		if err := check(d.ID, d.Position, d.Width); err != nil {
			return err
		}
	}
	for _, win := range v.windows.OnWall(w.ID) {
		if err := check(win.ID, win.Position, win.Width); err != nil {
			return err
		}
	}
	return nil
}
