// Package fetch suppresses the effect of late-arriving responses.
// A view takes a ticket before each fetch; by the time the response
// lands, the ticket may have been superseded by a newer fetch or the
// view may have gone away, and the effect is dropped. The in-flight
// request itself is not cancelled.
package fetch

import (
	"sync"

	"github.com/google/uuid"
)

type Ticket string

// Guard serializes effect application for one view.
type Guard struct {
	mu      sync.Mutex
	current Ticket
	closed  bool
}

func NewGuard() *Guard {
	return &Guard{}
}

// Begin issues a fresh ticket and invalidates all earlier ones.
func (g *Guard) Begin() Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = Ticket(uuid.NewString())
	return g.current
}

// Apply runs fn only when t is still the current ticket and the guard
// is open. Reports whether the effect was applied.
func (g *Guard) Apply(t Ticket, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || t != g.current || t == "" {
		return false
	}
	fn()
	return true
}

// Close drops all outstanding tickets; called when the view unmounts.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.current = ""
}
