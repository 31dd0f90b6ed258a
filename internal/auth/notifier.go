package auth

import "sync"

// Event describes a session state change.
type Event struct {
	Type   string
	UserID string
	Email  string
}

const (
	EventLogin  = "login"
	EventLogout = "logout"
)

// Notifier fans session events out to subscribers. Callbacks run on the
// calling goroutine in subscription order.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

// Subscribe registers a callback and returns its unsubscribe func. The
// unsubscribe func is idempotent.
func (n *Notifier) Subscribe(fn func(Event)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(Event))
	}
	id := n.next
	n.next++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Notify delivers the event to every current subscriber.
func (n *Notifier) Notify(e Event) {
	n.mu.Lock()
	fns := make([]func(Event), 0, len(n.subs))
	// Map order is random; keep delivery in subscription order.
	for i := 0; i < n.next; i++ {
		if fn, ok := n.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
