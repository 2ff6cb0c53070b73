// Package tool implements the per-tool interaction state machines. Each tool
// is a small mode enum driven by pointer events; tools translate gestures
// into command executions and publish live preview data on the bus. Tools
// never mutate the graph directly.
package tool

import (
	"wallplan/event"
	"wallplan/geometry"
	"wallplan/plan"
)

// PointerKind distinguishes the three pointer phases tools care about.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// Modifiers carries the keyboard state attached to a pointer event.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

// PointerEvent is a normalized pointer event in plan coordinates.
type PointerEvent struct {
	Kind PointerKind
	Pos  plan.Point
	Mods Modifiers
}

// Tool is one interaction state machine. Deactivate must leave the tool in
// its idle state with any preview cleared.
type Tool interface {
	Name() string
	Activate()
	Deactivate()
	HandlePointer(ev PointerEvent)
}

// constrainTarget applies the modifier constraints to a computed target
// point: ctrl snaps the origin angle to 90 degree steps, shift to 15 degree
// steps (ctrl wins when both are held), and alt additionally snaps position
// and distance to the grid pitch.
func constrainTarget(cfg plan.Config, origin, p plan.Point, mods Modifiers) plan.Point {
	out := p
	switch {
	case mods.Ctrl:
		out = geometry.SnapAngle(origin, out, plan.AngleStepRight)
	case mods.Shift:
		out = geometry.SnapAngle(origin, out, plan.AngleStepFine)
	}
	if mods.Alt {
		out = geometry.SnapToGrid(out, cfg.GridPitch)
		out = geometry.SnapDistance(origin, out, cfg.GridPitch)
	}
	return out
}

// Manager owns the tool registry and the active tool, and remembers the
// previously active tool so a transient tool can hand control back.
type Manager struct {
	bus      *event.Bus
	tools    map[string]Tool
	order    []string
	active   Tool
	previous string
}

// NewManager creates an empty tool registry.
func NewManager(bus *event.Bus) *Manager {
	return &Manager{bus: bus, tools: make(map[string]Tool)}
}

// Register adds a tool under its name. The first registered tool becomes
// active.
func (m *Manager) Register(t Tool) {
	if _, ok := m.tools[t.Name()]; !ok {
		m.order = append(m.order, t.Name())
	}
	m.tools[t.Name()] = t
	if m.active == nil {
		m.active = t
		t.Activate()
	}
}

// Names returns the registered tool names in registration order.
func (m *Manager) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Active returns the current tool, or nil before any registration.
func (m *Manager) Active() Tool { return m.active }

// Get returns the named tool, or nil.
func (m *Manager) Get(name string) Tool { return m.tools[name] }

// Switch activates the named tool. Unknown names and switching to the active
// tool are no-ops.
func (m *Manager) Switch(name string) bool {
	next, ok := m.tools[name]
	if !ok || next == m.active {
		return ok
	}
	prev := ""
	if m.active != nil {
		prev = m.active.Name()
		m.active.Deactivate()
	}
	m.previous = prev
	m.active = next
	next.Activate()
	if m.bus != nil {
		m.bus.Emit(event.ToolChanged{Name: name, Previous: prev})
	}
	return true
}

// RestorePrevious switches back to the tool active before the last switch.
func (m *Manager) RestorePrevious() bool {
	if m.previous == "" {
		return false
	}
	return m.Switch(m.previous)
}

// HandlePointer forwards a pointer event to the active tool.
func (m *Manager) HandlePointer(ev PointerEvent) {
	if m.active != nil {
		m.active.HandlePointer(ev)
	}
}
