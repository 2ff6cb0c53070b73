package command

import "wallplan/plan"

// Result getters for callers that need the created entity after Execute,
// such as the script engine threading ids between builtins.

// Node returns the created node, nil before Execute.
func (c *CreateNode) Node() *plan.Node { return c.node }

// Wall returns the created wall, nil before Execute.
func (c *CreateWall) Wall() *plan.Wall { return c.wall }

// Wall returns the created wall, nil before Execute.
func (c *DrawWall) Wall() *plan.Wall { return c.wall }

// Result returns the split outcome, nil before Execute.
func (c *SplitWall) Result() *SplitOutcome {
	if c.result == nil {
		return nil
	}
	return &SplitOutcome{
		NewNode:  c.result.NewNode,
		SegmentA: c.result.SegmentA,
		SegmentB: c.result.SegmentB,
	}
}

// SplitOutcome is the caller-visible result of a SplitWall command.
type SplitOutcome struct {
	NewNode  *plan.Node
	SegmentA *plan.Wall
	SegmentB *plan.Wall
}

// Door returns the placed door, nil before Execute.
func (c *PlaceDoor) Door() *plan.Door { return c.door }

// Window returns the placed window, nil before Execute.
func (c *PlaceWindow) Window() *plan.Window { return c.window }

// Room returns the created room, nil before Execute.
func (c *CreateRoom) Room() *plan.Room { return c.room }

// Room returns the created room, nil before Execute.
func (c *CreateRectRoom) Room() *plan.Room { return c.room }
