package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/coder/websocket"

	"wallplan/event"
	"wallplan/plan"
	"wallplan/session"
	"wallplan/storage"
)

// Envelope is the wire frame for every outbound message.
type Envelope struct {
	Sequence uint64 `json:"sequence"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

// Intent is the wire frame for inbound client requests.
type Intent struct {
	Type string `json:"type"`
}

// Server bridges a session's bus onto a websocket hub. Graph changes go out
// debounced with a full snapshot; selection and tool changes go out
// immediately. The debounce timer and the websocket readers run on their own
// goroutines, so every session access here goes through Session.Do.
type Server struct {
	sess     *session.Session
	hub      *Hub
	notifier *event.RenderNotifier
	seq      atomic.Uint64
	cancels  []func()
}

// NewServer wires the bridge. Close releases the bus subscriptions.
func NewServer(sess *session.Session) *Server {
	s := &Server{sess: sess, hub: NewHub()}
	s.notifier = event.NewRenderNotifier(sess.Bus, func(counts plan.Counts) {
		s.pushSnapshot(counts)
	})
	s.cancels = append(s.cancels,
		sess.Bus.Subscribe(event.KindSelectionChanged, func(ev event.Event) {
			s.push("selection:changed", ev)
		}),
		sess.Bus.Subscribe(event.KindToolChanged, func(ev event.Event) {
			s.push("tool:changed", ev)
		}),
	)
	return s
}

// Hub exposes the client registry.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) push(kind string, payload any) {
	data, err := json.Marshal(Envelope{
		Sequence: s.seq.Add(1),
		Type:     kind,
		Payload:  payload,
	})
	if err != nil {
		log.Printf("broadcast encode failed: %v", err)
		return
	}
	s.hub.Broadcast(data)
}

type snapshotPayload struct {
	Counts plan.Counts       `json:"counts"`
	Plan   *storage.Snapshot `json:"plan"`
}

func (s *Server) pushSnapshot(counts plan.Counts) {
	var snap *storage.Snapshot
	s.sess.Do(func() { snap = storage.Capture(s.sess) })
	s.push("graph:changed", snapshotPayload{Counts: counts, Plan: snap})
}

// Handler returns the websocket endpoint. New clients get the current plan
// immediately, then live updates. Inbound undo/redo intents drive the
// session's history.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		s.hub.Add(conn)

		var payload snapshotPayload
		s.sess.Do(func() {
			payload = snapshotPayload{Counts: s.sess.Counts(), Plan: storage.Capture(s.sess)}
		})
		hello, _ := json.Marshal(Envelope{
			Sequence: s.seq.Add(1),
			Type:     "graph:changed",
			Payload:  payload,
		})
		_ = conn.Write(r.Context(), websocket.MessageText, hello)

		go s.readLoop(conn)
	})
}

func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.hub.Remove(conn)
	defer conn.Close(websocket.StatusNormalClosure, "")
	for {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			return
		}
		var intent Intent
		if err := json.Unmarshal(data, &intent); err != nil {
			continue
		}
		switch intent.Type {
		case "request_undo":
			s.sess.Do(func() {
				if err := s.sess.History.Undo(); err != nil {
					log.Printf("remote undo failed: %v", err)
				}
			})
		case "request_redo":
			s.sess.Do(func() {
				if err := s.sess.History.Redo(); err != nil {
					log.Printf("remote redo failed: %v", err)
				}
			})
		}
	}
}

// Close drops the bus subscriptions and the debounce notifier.
func (s *Server) Close() {
	s.notifier.Close()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}
