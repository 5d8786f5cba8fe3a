package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

// ErrNoCredentials is returned by RenewTokens when no complete credential
// pair is stored.
var ErrNoCredentials = errors.New("no stored credentials")

// Observer receives a session snapshot after every change.
type Observer func(models.Session)

// SessionManager owns the client session. Create one per process with
// NewSessionManager and Close it on shutdown.
type SessionManager struct {
	api   client.Client
	store credentials.Store
	log   logging.Logger

	mu          sync.Mutex
	user        *models.User
	loading     bool
	initialized bool

	observers map[int]Observer
	nextObsID int
}

// NewSessionManager returns a session in the loading state. Initialize
// resolves it.
func NewSessionManager(api client.Client, store credentials.Store, log logging.Logger) *SessionManager {
	return &SessionManager{
		api:       api,
		store:     store,
		log:       log.With("component", "session"),
		loading:   true,
		observers: make(map[int]Observer),
	}
}

// Snapshot returns a copy of the current state.
func (m *SessionManager) Snapshot() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *SessionManager) snapshotLocked() models.Session {
	return models.Session{User: m.user.Clone(), Loading: m.loading}
}

// Subscribe registers fn and returns the function that removes it.
func (m *SessionManager) Subscribe(fn Observer) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextObsID
	m.nextObsID++
	m.observers[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.observers, id)
			m.mu.Unlock()
		})
	}
}

// commit applies fn under the lock, then notifies observers with the
// resulting snapshot before returning.
func (m *SessionManager) commit(fn func()) {
	m.mu.Lock()
	fn()
	snap := m.snapshotLocked()
	obs := make([]Observer, 0, len(m.observers))
	for id := 0; id < m.nextObsID; id++ {
		if o, ok := m.observers[id]; ok {
			obs = append(obs, o)
		}
	}
	m.mu.Unlock()

	for _, o := range obs {
		o(snap)
	}
}

// Initialize resolves the session from the stored credential pair. It runs
// once; later calls return nil without touching the network.
//
// A token the API rejects as unauthorized is cleared silently. Any other
// failure leaves the tokens in place, resolves the session as signed out,
// and is returned to the caller.
func (m *SessionManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.initialized = true
	m.mu.Unlock()

	var (
		user   *models.User
		result error
	)

	_, state := m.loadPair(ctx)
	switch state {
	case credentials.PairInconsistent:
		m.log.Warn(ctx, "inconsistent credential pair found")
	case credentials.PairComplete:
		u, err := m.api.CurrentUser(ctx)
		switch {
		case err == nil:
			user = u
		case errors.Is(err, client.ErrUnauthorized):
			m.log.Info(ctx, "stored token rejected, clearing credentials")
			m.clearPair(ctx)
		default:
			m.log.Warn(ctx, "session resolution failed", "error", err)
			result = fmt.Errorf("resolve session: %w", err)
		}
	}

	m.commit(func() {
		m.user = user
		m.loading = false
	})
	m.log.Info(ctx, "session initialized", "authenticated", user != nil, "role", roleOf(user))
	return result
}

// Login authenticates, stores the returned pair and sets the user. On
// failure the session is left untouched and the API error is returned as is.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*models.User, error) {
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.establish(ctx, res); err != nil {
		return nil, err
	}
	m.log.Info(ctx, "logged in", "user_id", res.User.ID, "role", res.User.Role.String())
	return res.User.Clone(), nil
}

// Register creates a taxpayer account and signs it in, like Login.
func (m *SessionManager) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	res, err := m.api.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if err := m.establish(ctx, res); err != nil {
		return nil, err
	}
	m.log.Info(ctx, "registered", "user_id", res.User.ID)
	return res.User.Clone(), nil
}

func (m *SessionManager) establish(ctx context.Context, res *models.AuthResult) error {
	if err := credentials.SavePair(ctx, m.store, res.Tokens); err != nil {
		m.log.Error(ctx, "storing credentials failed", "error", err)
		m.clearPair(ctx)
		return fmt.Errorf("store credentials: %w", err)
	}
	user := res.User.Clone()
	m.commit(func() {
		m.user = user
		m.loading = false
	})
	return nil
}

// Logout clears the credential pair and the user. It never calls the
// network and may be called any number of times.
func (m *SessionManager) Logout(ctx context.Context) {
	m.clearPair(ctx)

	m.mu.Lock()
	hadUser := m.user != nil
	m.mu.Unlock()
	if !hadUser {
		return
	}

	m.commit(func() { m.user = nil })
	m.log.Info(ctx, "logged out")
}

// HandleUnauthorized logs the session out when err is client.ErrUnauthorized
// and reports whether it did.
func (m *SessionManager) HandleUnauthorized(ctx context.Context, err error) bool {
	if !errors.Is(err, client.ErrUnauthorized) {
		return false
	}
	m.log.Info(ctx, "token rejected, forcing logout")
	m.Logout(ctx)
	return true
}

// UpdateLocalUser merges patch into the current user without a network
// round-trip. It does nothing when nobody is signed in.
func (m *SessionManager) UpdateLocalUser(patch models.UserPatch) {
	m.mu.Lock()
	signedIn := m.user != nil
	m.mu.Unlock()
	if !signedIn {
		return
	}
	m.commit(func() {
		if m.user != nil {
			patch.Apply(m.user)
		}
	})
}

// Refresh re-fetches the current user. The session is loading while the
// request is in flight. An unauthorized answer signs the session out.
func (m *SessionManager) Refresh(ctx context.Context) error {
	if _, state := m.loadPair(ctx); state != credentials.PairComplete {
		m.commit(func() {
			m.user = nil
			m.loading = false
		})
		return nil
	}

	m.commit(func() { m.loading = true })

	u, err := m.api.CurrentUser(ctx)
	switch {
	case err == nil:
		m.commit(func() {
			m.user = u
			m.loading = false
		})
		return nil
	case errors.Is(err, client.ErrUnauthorized):
		m.clearPair(ctx)
		m.commit(func() {
			m.user = nil
			m.loading = false
		})
		return err
	default:
		m.commit(func() { m.loading = false })
		return fmt.Errorf("refresh session: %w", err)
	}
}

// RenewTokens exchanges the stored refresh token for a new pair. The user is
// not changed. A rejected refresh token signs the session out.
func (m *SessionManager) RenewTokens(ctx context.Context) error {
	pair, state := m.loadPair(ctx)
	if state != credentials.PairComplete {
		return ErrNoCredentials
	}

	next, err := m.api.RefreshTokens(ctx, pair.Refresh)
	if err != nil {
		if m.HandleUnauthorized(ctx, err) {
			return err
		}
		return fmt.Errorf("renew tokens: %w", err)
	}
	if err := credentials.SavePair(ctx, m.store, next); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	m.log.Info(ctx, "tokens renewed")
	return nil
}

// Close drops all subscribers.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = make(map[int]Observer)
}

func (m *SessionManager) loadPair(ctx context.Context) (models.TokenPair, credentials.PairState) {
	pair, state, err := credentials.LoadPair(ctx, m.store)
	if err != nil {
		m.log.Error(ctx, "inconsistent credential pair left in store", "error", err)
	}
	return pair, state
}

func (m *SessionManager) clearPair(ctx context.Context) {
	if err := credentials.ClearPair(ctx, m.store); err != nil {
		m.log.Warn(ctx, "clearing credentials failed", "error", err)
	}
}

func roleOf(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Role.String()
}
