// Package session assembles one independent editing session: the bus, the
// wall graph, the opening and room stores, validation, the command history
// and the tool set, all explicitly constructed and wired together. Nothing
// in the module is a process-wide singleton; tests and multi-document shells
// build as many sessions as they need.
package session

import (
	"sync"

	"wallplan/command"
	"wallplan/event"
	"wallplan/graph"
	"wallplan/plan"
	"wallplan/store"
	"wallplan/tool"
	"wallplan/validation"
)

// Session owns every store and service of one open plan. Editing is
// single-threaded; goroutines that share a session with the interactive
// shell serialize their access through Do.
type Session struct {
	mu sync.Mutex

	Config    plan.Config
	Bus       *event.Bus
	Graph     *graph.WallGraph
	Doors     *store.DoorStore
	Windows   *store.WindowStore
	Rooms     *store.RoomStore
	Selection *store.SelectionStore
	Validator *validation.Validator
	History   *command.Manager
	Service   *command.Service
	Tools     *tool.Manager
}

// New builds a fully wired session with the default tool set. The select
// tool starts active.
func New(cfg plan.Config) *Session {
	bus := event.NewBus()
	g := graph.New(cfg, bus)
	doors := store.NewDoorStore(bus)
	windows := store.NewWindowStore(bus)
	rooms := store.NewRoomStore(bus)
	selection := store.NewSelectionStore(bus)
	validator := validation.New(cfg, g, doors, windows)
	svc := command.NewService(cfg, g, doors, windows, rooms, selection, validator, bus)
	history := command.NewManager()
	tools := tool.NewManager(bus)

	s := &Session{
		Config:    cfg,
		Bus:       bus,
		Graph:     g,
		Doors:     doors,
		Windows:   windows,
		Rooms:     rooms,
		Selection: selection,
		Validator: validator,
		History:   history,
		Service:   svc,
		Tools:     tools,
	}
	g.SetCountSource(s.Counts)

	tools.Register(tool.NewSelectTool(svc))
	tools.Register(tool.NewWallTool(svc, history, bus))
	tools.Register(tool.NewDoorTool(svc, history, bus))
	tools.Register(tool.NewWindowTool(svc, history, bus))
	tools.Register(tool.NewRoomTool(svc, history, bus))
	tools.Register(tool.NewRemoveTool(svc, history))

	bus.Subscribe(event.KindSelectionChanged, s.syncSelectionFlags)
	return s
}

// Do runs fn with exclusive access to the session. The shell's event loop
// and any background goroutine touching the session (the broadcast bridge's
// debounce timer, websocket readers) must route every read and mutation
// through here.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Counts reports the entity totals across the graph and stores.
func (s *Session) Counts() plan.Counts {
	return plan.Counts{
		Nodes:   s.Graph.NodeCount(),
		Walls:   s.Graph.WallCount(),
		Doors:   s.Doors.Count(),
		Windows: s.Windows.Count(),
		Rooms:   s.Rooms.Count(),
	}
}

// Clear resets the session to an empty plan: graph, stores, selection and
// history. Bus subscriptions survive.
func (s *Session) Clear() {
	s.Selection.Clear()
	s.History.Clear()
	s.Graph.Clear()
	s.Doors.Clear()
	s.Windows.Clear()
	s.Rooms.Clear()
}

// syncSelectionFlags mirrors the selection set onto the entities' render
// flags after every selection change.
func (s *Session) syncSelectionFlags(ev event.Event) {
	sc, ok := ev.(event.SelectionChanged)
	if !ok {
		return
	}
	inNodes := make(map[plan.NodeID]bool, len(sc.Nodes))
	for _, id := range sc.Nodes {
		inNodes[id] = true
	}
	inWalls := make(map[plan.WallID]bool, len(sc.Walls))
	for _, id := range sc.Walls {
		inWalls[id] = true
	}
	inDoors := make(map[plan.OpeningID]bool, len(sc.Doors))
	for _, id := range sc.Doors {
		inDoors[id] = true
	}
	inWindows := make(map[plan.OpeningID]bool, len(sc.Windows))
	for _, id := range sc.Windows {
		inWindows[id] = true
	}

	for _, n := range s.Graph.Nodes() {
		n.SetSelected(inNodes[n.ID])
	}
	for _, w := range s.Graph.Walls() {
		w.SetSelected(inWalls[w.ID])
	}
	for _, d := range s.Doors.All() {
		d.SetSelected(inDoors[d.ID])
	}
	for _, w := range s.Windows.All() {
		w.SetSelected(inWindows[w.ID])
	}
}
