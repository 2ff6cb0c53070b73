// Package script exposes the command layer as a small Lisp surface for batch
// plan construction. Scripts run in a sandboxed zygomys environment with
// builtins for nodes, walls, openings, rooms and history control; every
// mutation goes through the command history, so a scripted plan is fully
// undoable.
//
// Example:
//
//	(def a (node 0 0))
//	(def b (node 400 0))
//	(def w (wall a b))
//	(door w 0.5)
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"wallplan/command"
)

// EvalError is one script failure, tagged with the source line when zygomys
// reports it.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates plan scripts against a live session.
type Engine struct {
	svc     *command.Service
	history *command.Manager
	clear   func()
}

// NewEngine creates an engine bound to the session's command layer. clear is
// invoked by the (clear) builtin and may be nil.
func NewEngine(svc *command.Service, history *command.Manager, clear func()) *Engine {
	return &Engine{svc: svc, history: history, clear: clear}
}

// Run evaluates the source in a fresh sandbox. Parse and runtime failures
// come back as EvalErrors; mutations executed before a runtime failure stay
// applied (and undoable).
func (e *Engine) Run(source string) []EvalError {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	e.register(env)

	if err := env.LoadString(source); err != nil {
		return tagErrors(err)
	}
	if _, err := env.Run(); err != nil {
		return tagErrors(err)
	}
	return nil
}

var lineErrPattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// tagErrors extracts a source line from a zygomys error message when one is
// present.
func tagErrors(err error) []EvalError {
	msg := err.Error()
	if m := lineErrPattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}

func toFloat(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", s)
}

func toStr(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected a string, got %T", s)
}
