package web

import "sync"

// sessionGate is the server-side analog of disabling a submit button
// while a request is outstanding: at most one upstream action per
// session at a time, best effort. It never queues; a second action
// while one is pending is rejected and the user tries again.
type sessionGate struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newSessionGate() *sessionGate {
	return &sessionGate{active: make(map[string]struct{})}
}

// begin reports whether the session may start an upstream action.
// A true return must be paired with end.
func (g *sessionGate) begin(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[id]; busy {
		return false
	}
	g.active[id] = struct{}{}
	return true
}

// end releases the session's slot. Safe to call for an id that never
// began.
func (g *sessionGate) end(id string) {
	g.mu.Lock()
	delete(g.active, id)
	g.mu.Unlock()
}
