package broadcast

import (
	"testing"

	"wallplan/plan"
	"wallplan/session"
)

// Snapshot capture runs on the debounce timer goroutine while the shell
// mutates the plan on its own goroutine. Both sides serialize through
// Session.Do, so interleaving them must never corrupt the graph or trip the
// race detector.
func TestSnapshotConcurrentWithEditing(t *testing.T) {
	sess := session.New(plan.DefaultConfig())
	srv := NewServer(sess)
	defer srv.Close()

	const walls = 40
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < walls; i++ {
			sess.Do(func() {
				a := sess.Service.CreateNode(plan.Point{X: float64(i) * 50, Y: 0})
				b := sess.Service.CreateNode(plan.Point{X: float64(i) * 50, Y: 100})
				if _, err := sess.Service.CreateWall(a.ID, b.ID); err != nil {
					t.Errorf("CreateWall failed: %v", err)
				}
			})
		}
	}()
	for i := 0; i < walls; i++ {
		srv.pushSnapshot(plan.Counts{})
	}
	<-done

	sess.Do(func() {
		if got := sess.Graph.NodeCount(); got != 2*walls {
			t.Errorf("node count = %d, want %d", got, 2*walls)
		}
		if got := sess.Graph.WallCount(); got != walls {
			t.Errorf("wall count = %d, want %d", got, walls)
		}
	})
}

// Remote undo intents arrive on websocket read goroutines; the history walk
// they trigger must hold the same session lock as local editing.
func TestRemoteUndoSerializedWithEditing(t *testing.T) {
	sess := session.New(plan.DefaultConfig())
	srv := NewServer(sess)
	defer srv.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			srv.pushSnapshot(plan.Counts{})
			sess.Do(func() {
				if err := sess.History.Undo(); err != nil {
					t.Errorf("undo failed: %v", err)
				}
			})
		}
	}()
	for i := 0; i < 20; i++ {
		sess.Do(func() {
			a := sess.Service.CreateNode(plan.Point{X: float64(i) * 50, Y: 200})
			b := sess.Service.CreateNode(plan.Point{X: float64(i) * 50, Y: 320})
			if _, err := sess.Service.CreateWall(a.ID, b.ID); err != nil {
				t.Errorf("CreateWall failed: %v", err)
			}
		})
	}
	<-done

	sess.Do(func() {
		for _, err := range sess.Graph.CheckIntegrity() {
			t.Errorf("graph integrity broken after concurrent undo: %v", err)
		}
	})
}
