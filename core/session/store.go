package session

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"

	"github.com/Kwesikendy/academyos/core"
)

var (
	// ErrAuthRejected is reported (possibly wrapped) by AuthAPI
	// implementations when the backend rejects the bearer token or the
	// supplied credentials. Any other error is treated as transient.
	ErrAuthRejected = errors.New("authentication rejected")

	ErrNotAuthenticated = errors.New("not authenticated")
)

// IsAuthRejected reports whether err means the backend rejected our
// credential (as opposed to a transient failure).
func IsAuthRejected(err error) bool {
	return errors.Is(err, ErrAuthRejected)
}

type (
	// AuthAPI is the authentication collaborator consumed by the Store.
	AuthAPI interface {
		Login(ctx context.Context, creds Login) (Credential, error)
		Register(ctx context.Context, acct NewAccount) (Credential, error)
		Me(ctx context.Context) (Identity, error)
		Logout(ctx context.Context) error
	}

	// CredentialStore persists the bearer token + cached identity across
	// restarts. The session Store is its only writer.
	CredentialStore interface {
		GetCredential() (*Credential, error)
		PutCredential(Credential) error
		ClearCredential() error
	}

	// Store is the single source of truth for "who is using the app
	// right now". Many readers, one writer; readers observe immutable
	// snapshots and may subscribe for change notifications.
	Store struct {
		auth     AuthAPI
		creds    CredentialStore
		validate *validator.Validate
		logger   core.Logger

		mu       sync.RWMutex
		identity *Identity
		token    string
		loading  bool

		subMu   sync.Mutex
		subs    map[int]func(Snapshot)
		nextSub int
	}
)

func NewStore(auth AuthAPI, creds CredentialStore, validate *validator.Validate, logger core.Logger) *Store {
	return &Store{
		auth:     auth,
		creds:    creds,
		validate: validate,
		logger:   logger,
		loading:  true, // until Resolve completes
		subs:     make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current session state as a point-in-time value.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Loading: s.loading}
	if s.identity != nil {
		ident := *s.identity
		snap.Identity = &ident
	}
	return snap
}

// Token exposes the current bearer token to the API client.
// Empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn to be called with a fresh snapshot after every
// session change. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	snap := s.Snapshot()
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// Login authenticates against the auth collaborator. On success the
// credential is persisted and the session populated; on failure the
// session is left untouched and the reason surfaced to the caller
// (no retry here; the form decides).
func (s *Store) Login(ctx context.Context, creds Login) error {
	if err := creds.Validate(s.validate); err != nil {
		return err
	}
	cred, err := s.auth.Login(ctx, creds)
	if err != nil {
		if IsAuthRejected(err) {
			return core.NewValidationError(errors.New("invalid credentials"))
		}
		return pkgerrors.Wrap(err, "logging in")
	}
	s.establish(cred)
	return nil
}

// Register creates a new account and opens a session for it.
func (s *Store) Register(ctx context.Context, acct NewAccount) error {
	if err := acct.Validate(s.validate); err != nil {
		return err
	}
	cred, err := s.auth.Register(ctx, acct)
	if err != nil {
		return pkgerrors.Wrap(err, "registering")
	}
	s.establish(cred)
	return nil
}

func (s *Store) establish(cred Credential) {
	if err := s.creds.PutCredential(cred); err != nil {
		// a failed write only costs the instant paint on next start
		s.logger.Warn("persisting credential", err)
	}
	s.mu.Lock()
	ident := cred.Identity
	s.identity = &ident
	s.token = cred.Token
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Logout clears the persisted credential and the session identity.
// It always succeeds locally; the server call is best-effort.
func (s *Store) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		s.logger.Debug("server-side logout", err)
	}
	s.clear()
}

// Expire clears the session after the backend rejected the bearer token
// on any call. Wired to the API client's auth-reject hook.
func (s *Store) Expire() {
	s.clear()
}

func (s *Store) clear() {
	if err := s.creds.ClearCredential(); err != nil {
		s.logger.Warn("clearing credential", err)
	}
	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Resolve seeds the session from the persisted credential, then
// confirms it against the auth collaborator. Called once at startup;
// the gate's first non-loading decision waits on it.
//
// A rejected token clears everything as Logout would. A transient
// failure keeps the optimistic cached identity so a flaky network does
// not log the user out. Either way loading always ends false.
func (s *Store) Resolve(ctx context.Context) {
	cred, err := s.creds.GetCredential()
	if err != nil {
		s.logger.Warn("reading persisted credential", err)
	}
	if cred == nil {
		s.mu.Lock()
		s.identity = nil
		s.token = ""
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return
	}

	// optimistic paint from the cached copy
	s.mu.Lock()
	ident := cred.Identity
	s.identity = &ident
	s.token = cred.Token
	s.mu.Unlock()
	s.notify()

	me, err := s.auth.Me(ctx)
	if err != nil {
		if IsAuthRejected(err) {
			s.clear()
			return
		}
		s.logger.Warn("confirming session", err)
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return
	}

	// refresh the cached copy with what the backend confirmed
	if err = s.creds.PutCredential(Credential{Token: cred.Token, Identity: me}); err != nil {
		s.logger.Warn("refreshing cached identity", err)
	}
	s.mu.Lock()
	s.identity = &me
	s.loading = false
	s.mu.Unlock()
	s.notify()
}
