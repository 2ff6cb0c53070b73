// Package plan contains the fundamental types of the floor-plan editing core:
// nodes, walls, openings, rooms and the configuration defaults shared by the
// graph, validation and tool layers.
package plan

import (
	"math"

	"github.com/google/uuid"

	"wallplan/geometry"
)

// Point is re-exported so callers of the plan layer do not need to import
// geometry for coordinates.
type Point = geometry.Point

// NodeID identifies a graph vertex.
type NodeID string

// WallID identifies a graph edge.
type WallID string

// OpeningID identifies a door or window.
type OpeningID string

// RoomID identifies a room aggregate.
type RoomID string

// NewNodeID returns a fresh unique node id.
func NewNodeID() NodeID { return NodeID(uuid.NewString()) }

// NewWallID returns a fresh unique wall id.
func NewWallID() WallID { return WallID(uuid.NewString()) }

// NewOpeningID returns a fresh unique opening id.
func NewOpeningID() OpeningID { return OpeningID(uuid.NewString()) }

// NewRoomID returns a fresh unique room id.
func NewRoomID() RoomID { return RoomID(uuid.NewString()) }

// Config holds the tunable editing thresholds. All values are in plan units
// (1 unit = 1 cm at default scale).
type Config struct {
	MinWallLength   float64 // walls shorter than this are rejected
	SnapThreshold   float64 // node/wall snap and hit-test radius
	PlacementMargin float64 // opening clearance from wall ends and neighbours
	GridPitch       float64 // alt-modifier grid snap pitch
	WallThickness   float64 // default wall thickness
	WallHeight      float64 // default wall height
	DoorWidth       float64
	DoorHeight      float64
	WindowWidth     float64
	WindowHeight    float64
}

// DefaultConfig returns the standard editing thresholds.
func DefaultConfig() Config {
	return Config{
		MinWallLength:   10,
		SnapThreshold:   20,
		PlacementMargin: 10,
		GridPitch:       10,
		WallThickness:   10,
		WallHeight:      280,
		DoorWidth:       80,
		DoorHeight:      200,
		WindowWidth:     100,
		WindowHeight:    120,
	}
}

// Counts is the entity census carried by graph change notifications.
type Counts struct {
	Nodes   int `json:"nodes"`
	Walls   int `json:"walls"`
	Doors   int `json:"doors"`
	Windows int `json:"windows"`
	Rooms   int `json:"rooms"`
}

// Angle snap steps applied by the drawing tools' modifier keys.
const (
	AngleStepRight = math.Pi / 2  // ctrl: nearest 90 degrees
	AngleStepFine  = math.Pi / 12 // shift: nearest 15 degrees
)

// NodeHitRadius is the pick radius for bare nodes in plan units.
const NodeHitRadius = 8
