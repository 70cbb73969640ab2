package routing

import "github.com/Kwesikendy/academyos/core/session"

// Decision is the terminal outcome of one gate evaluation; Loading is
// the only non-terminal state and is re-evaluated once the session
// finishes resolving.
type Decision int

const (
	Loading Decision = iota
	Allow
	RedirectToLogin
	RedirectToUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToUnauthorized:
		return "redirect-to-unauthorized"
	}
	return "unknown"
}

// Outcome carries the decision plus the originally requested path for
// RedirectToLogin, so login can return the user there after success.
type Outcome struct {
	Decision Decision
	ReturnTo string
	Rule     Rule
}

// Evaluate decides whether the session may reach path. Pure and
// idempotent: same snapshot + path always gives the same outcome.
//
// Public routes render regardless of session state, loading included.
// For everything else a still-resolving session suspends (redirecting
// prematurely would bounce a logged-in user to login on every refresh),
// and the login check strictly precedes the role check.
func Evaluate(snap session.Snapshot, path string) Outcome {
	rule := Classify(path)
	if rule.Visibility == Public {
		return Outcome{Decision: Allow, Rule: rule}
	}
	if snap.Loading {
		return Outcome{Decision: Loading, Rule: rule}
	}
	if !snap.Authenticated() {
		return Outcome{Decision: RedirectToLogin, ReturnTo: path, Rule: rule}
	}
	if rule.Visibility == Authenticated {
		return Outcome{Decision: Allow, Rule: rule}
	}
	if rule.AllowsRole(snap.Role()) {
		return Outcome{Decision: Allow, Rule: rule}
	}
	return Outcome{Decision: RedirectToUnauthorized, Rule: rule}
}

// Gate binds the evaluation to a live session store.
type Gate struct {
	session *session.Store
}

func NewGate(store *session.Store) *Gate {
	return &Gate{session: store}
}

// Evaluate gates path against the store's current snapshot.
func (g *Gate) Evaluate(path string) Outcome {
	return Evaluate(g.session.Snapshot(), path)
}
