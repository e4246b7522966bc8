// Package session owns the auth token and current user profile, persisted
// across restarts. Identity changes are broadcast so dependent state (the
// client store, the host application) can react.
package session

import (
	"context"
	"sync"

	"github.com/nncoach/client-core/internal/model"
	"github.com/nncoach/client-core/internal/storage"
	logx "github.com/nncoach/client-core/pkg/logger"
)

const (
	tokenKey = "nncoach_token"
	userKey  = "nncoach_user"
)

// EventKind describes an identity transition.
type EventKind int

const (
	// EventSaved fires after a login/signup or a profile refresh.
	EventSaved EventKind = iota
	// EventCleared fires after an ordinary logout.
	EventCleared
	// EventInvalidated fires when the server rejected the session; the
	// host decides how to react (a hard navigation is one valid choice).
	EventInvalidated
)

// Event is delivered synchronously to subscribers, in subscription order.
type Event struct {
	Kind   EventKind
	Reason string
}

// Manager is the identity provider. It caches the persisted session in
// memory; storage is only read at construction time.
type Manager struct {
	mu    sync.RWMutex
	kv    storage.KV
	token string
	user  *model.Profile
	subs  []func(Event)
}

// NewManager loads any persisted session from kv. A corrupt persisted
// profile is dropped silently and the session starts as guest.
func NewManager(kv storage.KV) *Manager {
	m := &Manager{kv: kv}
	ctx := context.Background()

	if raw, ok, err := kv.Get(ctx, tokenKey); err == nil && ok {
		m.token = string(raw)
	}
	var user model.Profile
	if storage.ReadJSON(ctx, kv, userKey, &user) {
		m.user = &user
	}
	return m
}

// Subscribe registers fn for identity change events. Subscribers are
// invoked after the manager's own state is consistent, so re-reading the
// session from inside a subscriber is safe.
func (m *Manager) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Token returns the current auth token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// CurrentUser returns a copy of the cached profile, or nil.
func (m *Manager) CurrentUser() *model.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Clone()
}

// LoggedIn reports whether a token is present.
func (m *Manager) LoggedIn() bool {
	return m.Token() != ""
}

// Save replaces the session after a successful login or signup.
func (m *Manager) Save(ctx context.Context, token string, user *model.Profile) {
	m.mu.Lock()
	m.token = token
	m.user = user.Clone()
	if err := m.kv.Set(ctx, tokenKey, []byte(token)); err != nil {
		logx.Warn().Err(err).Msg("failed to persist session token")
	}
	if err := storage.WriteJSON(ctx, m.kv, userKey, user); err != nil {
		logx.Warn().Err(err).Msg("failed to persist session user")
	}
	m.mu.Unlock()

	m.notify(Event{Kind: EventSaved})
}

// UpdateUser refreshes the cached profile after a profile mutation
// response. A nil user is ignored.
func (m *Manager) UpdateUser(ctx context.Context, user *model.Profile) {
	if user == nil {
		return
	}
	m.mu.Lock()
	m.user = user.Clone()
	if err := storage.WriteJSON(ctx, m.kv, userKey, user); err != nil {
		logx.Warn().Err(err).Msg("failed to persist session user")
	}
	m.mu.Unlock()

	m.notify(Event{Kind: EventSaved})
}

// Clear destroys the session on an ordinary logout.
func (m *Manager) Clear(ctx context.Context) {
	m.clear(ctx)
	m.notify(Event{Kind: EventCleared})
}

// Invalidate destroys the session because the server rejected it.
func (m *Manager) Invalidate(ctx context.Context, reason string) {
	m.clear(ctx)
	logx.Info().Str("reason", reason).Msg("session invalidated")
	m.notify(Event{Kind: EventInvalidated, Reason: reason})
}

func (m *Manager) clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	if err := m.kv.Delete(ctx, tokenKey); err != nil {
		logx.Warn().Err(err).Msg("failed to delete session token")
	}
	if err := m.kv.Delete(ctx, userKey); err != nil {
		logx.Warn().Err(err).Msg("failed to delete session user")
	}
}

// notify runs outside the lock so subscribers may call back into the
// manager.
func (m *Manager) notify(ev Event) {
	m.mu.RLock()
	subs := make([]func(Event), len(m.subs))
	copy(subs, m.subs)
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
