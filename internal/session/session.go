// Package session holds the process-wide authentication state. The Manager
// is the only writer of the bearer token and the current user.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/internal/api"
	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/internal/tokenstore"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
	"github.com/getmentor/mentor-match-client/pkg/jwt"
	"github.com/getmentor/mentor-match-client/pkg/logger"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
)

// ErrNoSession is returned by operations that need a logged-in user
var ErrNoSession = fmt.Errorf("no active session: %w", apperrors.ErrAuth)

// Backend is the subset of the API client the session depends on
type Backend interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Signup(ctx context.Context, req models.SignupRequest) error
	Me(ctx context.Context) (*models.User, error)
}

// Manager owns the session
type Manager struct {
	backend Backend
	store   tokenstore.Store

	mu            sync.RWMutex
	token         string
	user          *models.User
	bootstrapping bool
	expiresAt     time.Time

	bootOnce sync.Once
	ready    chan struct{}

	subMu       sync.Mutex
	subscribers map[int]chan Event
	nextSubID   int
}

// NewManager creates a session that is bootstrapping until Bootstrap settles
func NewManager(backend Backend, store tokenstore.Store) *Manager {
	return &Manager{
		backend:       backend,
		store:         store,
		bootstrapping: true,
		ready:         make(chan struct{}),
		subscribers:   make(map[int]chan Event),
	}
}

// Token returns the held bearer token, or "" when logged out
func (m *Manager) Token(_ context.Context) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Snapshot returns an immutable copy of the session state
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		User:          cloneUser(m.user),
		Bootstrapping: m.bootstrapping,
		ExpiresAt:     m.expiresAt,
	}
}

// Ready is closed once Bootstrap has settled
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Bootstrap restores the session from the persisted token. It runs at most
// once per process; later calls wait for the first one and return.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.bootOnce.Do(func() {
		defer func() {
			m.mu.Lock()
			m.bootstrapping = false
			m.mu.Unlock()
			close(m.ready)
			m.publish(EventBootstrapped)
		}()

		token, err := m.store.Load(ctx)
		if errors.Is(err, tokenstore.ErrNoToken) {
			metrics.SessionEvents.WithLabelValues("bootstrap", "anonymous").Inc()
			return
		}
		if err != nil {
			logger.Warn("Failed to load persisted token", zap.Error(err))
			metrics.SessionEvents.WithLabelValues("bootstrap", "error").Inc()
			return
		}

		user, err := m.backend.Me(api.WithToken(ctx, token))

		// The store is written under mu so a session committed meanwhile
		// is never overwritten or deleted by a stale restore.
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.token != "" {
			logger.Info("Session established during bootstrap, keeping it")
			metrics.SessionEvents.WithLabelValues("bootstrap", "superseded").Inc()
			return
		}
		if err != nil {
			logger.Info("Persisted token rejected, clearing it", zap.Error(err))
			if clearErr := m.store.Clear(ctx); clearErr != nil {
				logger.Error("Failed to clear persisted token", zap.Error(clearErr))
			}
			metrics.SessionEvents.WithLabelValues("bootstrap", "error").Inc()
			return
		}

		m.token = token
		m.user = user
		m.expiresAt = jwt.ExpiresAt(token)

		logger.Info("Session restored", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
		metrics.SessionEvents.WithLabelValues("bootstrap", "success").Inc()
	})
	<-m.ready
}

// Login exchanges credentials for a token, fetches the identity and only
// then commits both. On failure the session is left unchanged. It waits for
// Bootstrap to settle first.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := m.waitReady(ctx); err != nil {
		return nil, err
	}

	token, err := m.backend.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		metrics.SessionEvents.WithLabelValues("login", "error").Inc()
		return nil, err
	}

	user, err := m.backend.Me(api.WithToken(ctx, token))
	if err != nil {
		metrics.SessionEvents.WithLabelValues("login", "error").Inc()
		return nil, err
	}

	m.mu.Lock()
	if err := m.store.Save(ctx, token); err != nil {
		m.mu.Unlock()
		logger.Error("Failed to persist token", zap.Error(err))
		metrics.SessionEvents.WithLabelValues("login", "error").Inc()
		return nil, err
	}
	m.token = token
	m.user = user
	m.expiresAt = jwt.ExpiresAt(token)
	m.mu.Unlock()

	logger.Info("Logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	metrics.SessionEvents.WithLabelValues("login", "success").Inc()
	m.publish(EventLoggedIn)

	return cloneUser(user), nil
}

// Signup creates an account without touching the session
func (m *Manager) Signup(ctx context.Context, req models.SignupRequest) error {
	err := m.backend.Signup(ctx, req)
	metrics.SessionEvents.WithLabelValues("signup", metrics.StatusLabel(err)).Inc()
	return err
}

// UpdateUser replaces the current user with a server response the caller
// already obtained. It is ignored when logged out or when the id differs.
func (m *Manager) UpdateUser(user models.User) {
	m.mu.Lock()
	if m.token == "" || m.user == nil {
		m.mu.Unlock()
		logger.Debug("Ignoring user update without a session")
		return
	}
	if m.user.ID != user.ID {
		m.mu.Unlock()
		logger.Warn("Ignoring user update for a different identity",
			zap.Int64("current_id", m.user.ID),
			zap.Int64("update_id", user.ID))
		return
	}
	m.user = cloneUser(&user)
	m.mu.Unlock()

	m.publish(EventUserUpdated)
}

// Refresh re-fetches the identity. Overlapping calls are tolerated, the
// last response wins as long as the token did not change meanwhile.
func (m *Manager) Refresh(ctx context.Context) (*models.User, error) {
	token := m.Token(ctx)
	if token == "" {
		return nil, ErrNoSession
	}

	user, err := m.backend.Me(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.token != token {
		m.mu.Unlock()
		return nil, ErrNoSession
	}
	m.user = user
	m.mu.Unlock()

	m.publish(EventUserUpdated)
	return cloneUser(user), nil
}

// Logout clears the token and user and removes the persisted token. It is
// safe to call without a session. It waits for Bootstrap to settle first.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.waitReady(ctx); err != nil {
		return err
	}

	m.clear()

	err := m.store.Clear(ctx)
	if err != nil {
		logger.Error("Failed to clear persisted token", zap.Error(err))
	}
	metrics.SessionEvents.WithLabelValues("logout", metrics.StatusLabel(err)).Inc()
	m.publish(EventLoggedOut)
	return err
}

// Invalidate drops the session after the backend rejected its token
func (m *Manager) Invalidate(ctx context.Context) {
	if m.Token(ctx) == "" {
		return
	}

	m.clear()
	if err := m.store.Clear(ctx); err != nil {
		logger.Error("Failed to clear persisted token", zap.Error(err))
	}

	logger.Info("Session invalidated by backend")
	metrics.SessionEvents.WithLabelValues("invalidate", "success").Inc()
	m.publish(EventLoggedOut)
}

func (m *Manager) waitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.expiresAt = time.Time{}
	m.mu.Unlock()
}

func cloneUser(user *models.User) *models.User {
	if user == nil {
		return nil
	}
	clone := *user
	if user.Profile.Skills != nil {
		clone.Profile.Skills = append([]string(nil), user.Profile.Skills...)
	}
	return &clone
}
