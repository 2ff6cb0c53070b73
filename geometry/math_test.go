package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{1, 1}, Point{1, 1}, 0},
		{"horizontal", Point{0, 0}, Point{100, 0}, 100},
		{"vertical", Point{0, 0}, Point{0, 50}, 50},
		{"diagonal 3-4-5", Point{0, 0}, Point{3, 4}, 5},
		{"negative coords", Point{-3, -4}, Point{0, 0}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestProjectOntoSegment(t *testing.T) {
	a := Point{0, 0}
	b := Point{100, 0}

	// Midpoint projection.
	tval, closest := ProjectOntoSegment(Point{50, 10}, a, b)
	if !almostEqual(tval, 0.5) {
		t.Errorf("expected t=0.5, got %v", tval)
	}
	if !NearlyEqual(closest, Point{50, 0}) {
		t.Errorf("expected closest (50,0), got %v", closest)
	}

	// Beyond the end: t is unclamped but the closest point is clamped.
	tval, closest = ProjectOntoSegment(Point{150, 0}, a, b)
	if !almostEqual(tval, 1.5) {
		t.Errorf("expected t=1.5, got %v", tval)
	}
	if !NearlyEqual(closest, Point{100, 0}) {
		t.Errorf("expected clamped closest (100,0), got %v", closest)
	}

	// Degenerate segment.
	tval, closest = ProjectOntoSegment(Point{5, 5}, a, a)
	if tval != 0 || !NearlyEqual(closest, a) {
		t.Errorf("degenerate segment: got t=%v closest=%v", tval, closest)
	}
}

func TestDistanceToSegment(t *testing.T) {
	a := Point{0, 0}
	b := Point{100, 0}

	if d := DistanceToSegment(Point{50, 30}, a, b); !almostEqual(d, 30) {
		t.Errorf("perpendicular distance = %v, want 30", d)
	}
	// Off the segment end measures to the endpoint.
	if d := DistanceToSegment(Point{103, 4}, a, b); !almostEqual(d, 5) {
		t.Errorf("endpoint distance = %v, want 5", d)
	}
}

func TestSnapAngle(t *testing.T) {
	origin := Point{0, 0}

	// 80 degrees snapped to 90 degree steps lands on the Y axis.
	p := Point{math.Cos(80 * math.Pi / 180) * 100, math.Sin(80*math.Pi/180) * 100}
	snapped := SnapAngle(origin, p, math.Pi/2)
	if !almostEqual(snapped.X, 0) || !almostEqual(snapped.Y, 100) {
		t.Errorf("snap to 90: got %v, want (0,100)", snapped)
	}

	// Length is preserved.
	if d := Distance(origin, snapped); !almostEqual(d, 100) {
		t.Errorf("snap changed length: %v", d)
	}

	// 20 degrees snapped to 15 degree steps.
	p = Point{math.Cos(20 * math.Pi / 180) * 50, math.Sin(20*math.Pi/180) * 50}
	snapped = SnapAngle(origin, p, 15*math.Pi/180)
	got := Angle(origin, snapped)
	if !almostEqual(got, 15*math.Pi/180) {
		t.Errorf("snap to 15: angle %v, want %v", got, 15*math.Pi/180)
	}
}

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		in    Point
		pitch float64
		want  Point
	}{
		{Point{14, 16}, 10, Point{10, 20}},
		{Point{15, 15}, 10, Point{20, 20}},
		{Point{-4, -6}, 10, Point{-0, -10}},
		{Point{7, 7}, 0, Point{7, 7}}, // zero pitch is a no-op
	}
	for _, tt := range tests {
		if got := SnapToGrid(tt.in, tt.pitch); !NearlyEqual(got, tt.want) {
			t.Errorf("SnapToGrid(%v, %v) = %v, want %v", tt.in, tt.pitch, got, tt.want)
		}
	}
}

func TestSnapDistance(t *testing.T) {
	origin := Point{0, 0}
	p := Point{23, 0}
	snapped := SnapDistance(origin, p, 10)
	if !NearlyEqual(snapped, Point{20, 0}) {
		t.Errorf("SnapDistance = %v, want (20,0)", snapped)
	}
}

func TestPolygonArea(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if a := PolygonArea(square); !almostEqual(a, 100) {
		t.Errorf("square area = %v, want 100", a)
	}
	// Winding order does not matter.
	reversed := []Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	if a := PolygonArea(reversed); !almostEqual(a, 100) {
		t.Errorf("reversed square area = %v, want 100", a)
	}
	if a := PolygonArea([]Point{{0, 0}, {1, 1}}); a != 0 {
		t.Errorf("degenerate polygon area = %v, want 0", a)
	}
}
