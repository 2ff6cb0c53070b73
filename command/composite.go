package command

import (
	"errors"
	"log"

	"wallplan/plan"
)

// DrawWall is the wall tool's commit: resolve or create both endpoint nodes
// and connect them, all as one history entry. An endpoint with a node id
// reuses that node; an empty id creates a node at the endpoint position.
type DrawWall struct {
	svc      *Service
	startID  plan.NodeID
	startPos plan.Point
	endID    plan.NodeID
	endPos   plan.Point

	createdStart *plan.Node
	createdEnd   *plan.Node
	wall         *plan.Wall
}

// NewDrawWall builds the command. Pass empty node ids for endpoints that need
// fresh nodes.
func NewDrawWall(svc *Service, startID plan.NodeID, startPos plan.Point, endID plan.NodeID, endPos plan.Point) *DrawWall {
	return &DrawWall{svc: svc, startID: startID, startPos: startPos, endID: endID, endPos: endPos}
}

func (c *DrawWall) Name() string { return "draw wall" }

func (c *DrawWall) Execute() error {
	start, end := c.startID, c.endID
	if start == "" {
		c.createdStart = c.svc.CreateNode(c.startPos)
		start = c.createdStart.ID
	}
	if end == "" {
		c.createdEnd = c.svc.CreateNode(c.endPos)
		end = c.createdEnd.ID
	}
	if err := c.svc.Validator().ValidWall(start, end); err != nil {
		c.unwindNodes()
		return err
	}
	w, err := c.svc.CreateWall(start, end)
	if err != nil {
		c.unwindNodes()
		return err
	}
	c.wall = w
	return nil
}

func (c *DrawWall) unwindNodes() {
	if c.createdStart != nil {
		c.svc.RemoveNode(c.createdStart.ID)
		c.createdStart = nil
	}
	if c.createdEnd != nil {
		c.svc.RemoveNode(c.createdEnd.ID)
		c.createdEnd = nil
	}
}

func (c *DrawWall) Undo() error {
	c.svc.DeleteWall(c.wall.ID)
	if c.createdStart != nil {
		c.svc.RemoveNode(c.createdStart.ID)
	}
	if c.createdEnd != nil {
		c.svc.RemoveNode(c.createdEnd.ID)
	}
	return nil
}

func (c *DrawWall) Redo() error {
	if c.createdStart != nil {
		c.svc.RestoreNode(c.createdStart)
	}
	if c.createdEnd != nil {
		c.svc.RestoreNode(c.createdEnd)
	}
	c.svc.RestoreWall(c.wall)
	return nil
}

// RemoveEntities deletes a set of selected entities in dependency order:
// openings before walls, walls before nodes. Nodes are treated by degree at
// the moment of removal: degree 2 heals the through-line, everything else
// cascades. Endpoint nodes orphaned by a wall removal are swept too.
//
// Sub-command failures are logged and skipped; the entry stays undoable over
// whatever did apply. A removal where nothing applies fails instead, so the
// history never records a no-op entry.
type RemoveEntities struct {
	svc     *Service
	doors   []plan.OpeningID
	windows []plan.OpeningID
	walls   []plan.WallID
	nodes   []plan.NodeID

	executed []Command
}

// NewRemoveEntities builds the command from the current selection snapshot.
func NewRemoveEntities(svc *Service, doors, windows []plan.OpeningID, walls []plan.WallID, nodes []plan.NodeID) *RemoveEntities {
	return &RemoveEntities{svc: svc, doors: doors, windows: windows, walls: walls, nodes: nodes}
}

func (c *RemoveEntities) Name() string { return "remove selection" }

func (c *RemoveEntities) run(cmd Command) {
	if err := cmd.Execute(); err != nil {
		log.Printf("%s skipped: %v", cmd.Name(), err)
		return
	}
	c.executed = append(c.executed, cmd)
}

func (c *RemoveEntities) Execute() error {
	c.executed = c.executed[:0]

	for _, id := range c.doors {
		if c.svc.Doors().Get(id) != nil {
			c.run(NewRemoveDoor(c.svc, id))
		}
	}
	for _, id := range c.windows {
		if c.svc.Windows().Get(id) != nil {
			c.run(NewRemoveWindow(c.svc, id))
		}
	}

	// Collect endpoint nodes before their walls go, then sweep the orphans.
	var endpoints []plan.NodeID
	seen := make(map[plan.NodeID]bool)
	for _, id := range c.walls {
		w := c.svc.Graph().Wall(id)
		if w == nil {
			continue
		}
		for _, nid := range []plan.NodeID{w.Start, w.End} {
			if !seen[nid] {
				seen[nid] = true
				endpoints = append(endpoints, nid)
			}
		}
		c.run(NewDeleteWall(c.svc, id))
	}
	selected := make(map[plan.NodeID]bool, len(c.nodes))
	for _, id := range c.nodes {
		selected[id] = true
	}
	for _, id := range endpoints {
		if selected[id] {
			continue
		}
		if n := c.svc.Graph().Node(id); n != nil && n.Degree() == 0 {
			c.run(NewRemoveNode(c.svc, id))
		}
	}

	for _, id := range c.nodes {
		n := c.svc.Graph().Node(id)
		if n == nil {
			continue
		}
		if n.Degree() == 2 {
			heal := NewHealNode(c.svc, id)
			if err := heal.Execute(); err == nil {
				c.executed = append(c.executed, heal)
				continue
			} else {
				log.Printf("heal node %s fell back to cascade: %v", id, err)
			}
		}
		c.run(NewRemoveNode(c.svc, id))
	}
	if len(c.executed) == 0 {
		return errors.New("nothing removable in selection")
	}
	return nil
}

func (c *RemoveEntities) Undo() error {
	for i := len(c.executed) - 1; i >= 0; i-- {
		if err := c.executed[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

func (c *RemoveEntities) Redo() error {
	for _, cmd := range c.executed {
		if err := cmd.Redo(); err != nil {
			return err
		}
	}
	return nil
}
