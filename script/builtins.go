package script

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"wallplan/command"
	"wallplan/plan"
)

// register installs the plan builtins into a sandbox. Ids flow between
// builtins as plain strings.
func (e *Engine) register(env *zygo.Zlisp) {
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("node requires x and y, got %d arguments", len(args))
		}
		x, err := toFloat(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: x: %w", err)
		}
		y, err := toFloat(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: y: %w", err)
		}
		cmd := command.NewCreateNode(e.svc, plan.Point{X: x, Y: y})
		if err := e.history.Execute(cmd); err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpStr{S: string(cmd.Node().ID)}, nil
	})

	env.AddFunction("wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("wall requires two node ids, got %d arguments", len(args))
		}
		start, err := toStr(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall: start: %w", err)
		}
		end, err := toStr(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall: end: %w", err)
		}
		cmd := command.NewCreateWall(e.svc, plan.NodeID(start), plan.NodeID(end))
		if err := e.history.Execute(cmd); err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpStr{S: string(cmd.Wall().ID)}, nil
	})

	env.AddFunction("door", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		wallID, at, err := e.openingArgs("door", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		cmd := command.NewPlaceDoor(e.svc, wallID, at)
		if err := e.history.Execute(cmd); err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpStr{S: string(cmd.Door().ID)}, nil
	})

	env.AddFunction("window", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		wallID, at, err := e.openingArgs("window", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		cmd := command.NewPlaceWindow(e.svc, wallID, at)
		if err := e.history.Execute(cmd); err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpStr{S: string(cmd.Window().ID)}, nil
	})

	env.AddFunction("split", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		wallID, at, err := e.openingArgs("split", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		cmd := command.NewSplitWall(e.svc, wallID, at)
		if err := e.history.Execute(cmd); err != nil {
			return zygo.SexpNull, err
		}
		res := cmd.Result()
		return &zygo.SexpStr{S: string(res.NewNode.ID)}, nil
	})

	env.AddFunction("room", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("room requires at least three wall ids, got %d", len(args))
		}
		walls := make([]plan.WallID, 0, len(args))
		for i, arg := range args {
			id, err := toStr(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("room: wall %d: %w", i+1, err)
			}
			walls = append(walls, plan.WallID(id))
		}
		cmd := command.NewCreateRoom(e.svc, walls, "")
		if err := e.history.Execute(cmd); err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpStr{S: string(cmd.Room().ID)}, nil
	})

	env.AddFunction("undo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return zygo.SexpNull, e.history.Undo()
	})

	env.AddFunction("redo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return zygo.SexpNull, e.history.Redo()
	})

	env.AddFunction("clear", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if e.clear != nil {
			e.clear()
		}
		return zygo.SexpNull, nil
	})
}

// openingArgs parses the (wall-id t) argument pair shared by door, window
// and split: t is the fraction along the wall where the action lands.
func (e *Engine) openingArgs(builtin string, args []zygo.Sexp) (plan.WallID, plan.Point, error) {
	if len(args) != 2 {
		return "", plan.Point{}, fmt.Errorf("%s requires a wall id and a position fraction, got %d arguments", builtin, len(args))
	}
	id, err := toStr(args[0])
	if err != nil {
		return "", plan.Point{}, fmt.Errorf("%s: wall: %w", builtin, err)
	}
	t, err := toFloat(args[1])
	if err != nil {
		return "", plan.Point{}, fmt.Errorf("%s: position: %w", builtin, err)
	}
	w := e.svc.Graph().Wall(plan.WallID(id))
	if w == nil {
		return "", plan.Point{}, fmt.Errorf("%s: no wall %q", builtin, id)
	}
	return w.ID, w.PointAt(t), nil
}
