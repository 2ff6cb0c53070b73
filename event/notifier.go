package event

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"wallplan/plan"
)

// RenderWindow is the coalescing window for redraw notifications, one frame
// at 60fps.
const RenderWindow = 16 * time.Millisecond

// RenderNotifier listens for GraphChanged events and invokes the redraw
// callback at most once per window, with the latest counts. Bursts of graph
// mutations (a merge cascading several wall replacements, say) collapse into
// a single redraw.
type RenderNotifier struct {
	mu     sync.Mutex
	last   plan.Counts
	bounce func(func())
	redraw func(plan.Counts)
	cancel func()
}

// NewRenderNotifier subscribes a debounced redraw callback to the bus.
func NewRenderNotifier(bus *Bus, redraw func(plan.Counts)) *RenderNotifier {
	n := &RenderNotifier{
		bounce: debounce.New(RenderWindow),
		redraw: redraw,
	}
	n.cancel = bus.Subscribe(KindGraphChanged, func(ev Event) {
		gc, ok := ev.(GraphChanged)
		if !ok {
			return
		}
		n.mu.Lock()
		n.last = gc.Counts
		n.mu.Unlock()
		n.bounce(n.fire)
	})
	return n
}

func (n *RenderNotifier) fire() {
	n.mu.Lock()
	counts := n.last
	n.mu.Unlock()
	n.redraw(counts)
}

// Close unsubscribes the notifier from the bus.
func (n *RenderNotifier) Close() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}
