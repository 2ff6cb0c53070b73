// Package event provides the notification bus connecting the graph, stores,
// tools and the external rendering layer. Events form a closed set of typed
// payloads; handlers switch on the concrete type instead of casting from any.
package event

import "wallplan/plan"

// Kind discriminates the closed set of event types.
type Kind int

const (
	KindGraphChanged Kind = iota
	KindNodeUpdated
	KindWallCreated
	KindWallRemoved
	KindDoorChanged
	KindWindowChanged
	KindRoomChanged
	KindSelectionChanged
	KindPreviewChanged
	KindToolChanged
)

// String returns the event name used in logs and wire envelopes.
func (k Kind) String() string {
	switch k {
	case KindGraphChanged:
		return "graph:changed"
	case KindNodeUpdated:
		return "node:updated"
	case KindWallCreated:
		return "wall:created"
	case KindWallRemoved:
		return "wall:removed"
	case KindDoorChanged:
		return "door:changed"
	case KindWindowChanged:
		return "window:changed"
	case KindRoomChanged:
		return "room:changed"
	case KindSelectionChanged:
		return "selection:changed"
	case KindPreviewChanged:
		return "canvas:preview"
	case KindToolChanged:
		return "tool:changed"
	default:
		return "unknown"
	}
}

// Event is implemented by every payload in the closed set.
type Event interface {
	Kind() Kind
}

// GraphChanged reports the entity census after any graph mutation.
type GraphChanged struct {
	Counts plan.Counts `json:"counts"`
}

func (GraphChanged) Kind() Kind { return KindGraphChanged }

// NodeUpdated reports a node position change.
type NodeUpdated struct {
	ID       plan.NodeID `json:"id"`
	Position plan.Point  `json:"position"`
}

func (NodeUpdated) Kind() Kind { return KindNodeUpdated }

// WallCreated reports a new wall.
type WallCreated struct {
	ID plan.WallID `json:"id"`
}

func (WallCreated) Kind() Kind { return KindWallCreated }

// WallRemoved reports a removed wall.
type WallRemoved struct {
	ID plan.WallID `json:"id"`
}

func (WallRemoved) Kind() Kind { return KindWallRemoved }

// DoorChanged reports a door placement, move, flip or removal.
type DoorChanged struct {
	ID      plan.OpeningID `json:"id"`
	Removed bool           `json:"removed,omitempty"`
}

func (DoorChanged) Kind() Kind { return KindDoorChanged }

// WindowChanged reports a window placement, move, flip or removal.
type WindowChanged struct {
	ID      plan.OpeningID `json:"id"`
	Removed bool           `json:"removed,omitempty"`
}

func (WindowChanged) Kind() Kind { return KindWindowChanged }

// RoomChanged reports a room creation, rename, area refresh or removal.
type RoomChanged struct {
	ID      plan.RoomID `json:"id"`
	Removed bool        `json:"removed,omitempty"`
}

func (RoomChanged) Kind() Kind { return KindRoomChanged }

// SelectionChanged carries the full selection snapshot.
type SelectionChanged struct {
	Nodes   []plan.NodeID    `json:"nodes"`
	Walls   []plan.WallID    `json:"walls"`
	Doors   []plan.OpeningID `json:"doors"`
	Windows []plan.OpeningID `json:"windows"`
}

func (SelectionChanged) Kind() Kind { return KindSelectionChanged }

// PreviewChanged carries the active tool's live preview segment.
type PreviewChanged struct {
	Active bool       `json:"active"`
	From   plan.Point `json:"from"`
	To     plan.Point `json:"to"`
	Valid  bool       `json:"valid"`
	Tool   string     `json:"tool"`
}

func (PreviewChanged) Kind() Kind { return KindPreviewChanged }

// ToolChanged reports an active tool switch.
type ToolChanged struct {
	Name     string `json:"name"`
	Previous string `json:"previous,omitempty"`
}

func (ToolChanged) Kind() Kind { return KindToolChanged }

// Handler receives events of the kind it subscribed to.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus is a synchronous publish/subscribe dispatcher. Emit runs handlers in
// subscription order on the caller's goroutine; handlers must not re-enter
// graph mutation (the editing model is single-threaded and cooperative).
type Bus struct {
	handlers map[Kind][]subscription
	nextID   int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]subscription)}
}

// Subscribe registers a handler for a kind and returns its cancel function.
func (b *Bus) Subscribe(kind Kind, h Handler) func() {
	b.nextID++
	id := b.nextID
	b.handlers[kind] = append(b.handlers[kind], subscription{id: id, handler: h})
	return func() {
		subs := b.handlers[kind]
		for i, s := range subs {
			if s.id == id {
				b.handlers[kind] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit dispatches the event to all handlers of its kind.
func (b *Bus) Emit(ev Event) {
	subs := b.handlers[ev.Kind()]
	// Snapshot so a handler unsubscribing mid-dispatch stays safe.
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	for _, s := range snapshot {
		s.handler(ev)
	}
}

// Clear drops all subscriptions.
func (b *Bus) Clear() {
	b.handlers = make(map[Kind][]subscription)
}
