package views

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/internal/session"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
	"github.com/getmentor/mentor-match-client/pkg/logger"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
)

// RequestsAPI is the backend surface of the requests screen
type RequestsAPI interface {
	IncomingRequests(ctx context.Context) ([]models.MatchRequest, error)
	OutgoingRequests(ctx context.Context) ([]models.MatchRequest, error)
	AcceptRequest(ctx context.Context, id int64) (*models.MatchRequest, error)
	RejectRequest(ctx context.Context, id int64) (*models.MatchRequest, error)
	CancelRequest(ctx context.Context, id int64) (*models.MatchRequest, error)
}

// SessionReader exposes the current session
type SessionReader interface {
	Snapshot() session.Snapshot
}

// RequestsState is what the requests screen renders
type RequestsState struct {
	Loading   bool                  `json:"loading"`
	Role      models.Role           `json:"role"`
	Requests  []models.MatchRequest `json:"requests"`
	Pending   map[int64]bool        `json:"pending"`
	LastError string                `json:"lastError,omitempty"`
}

// RequestsView shows incoming requests to mentors and outgoing requests to
// mentees. Every successful action is followed by a full refetch.
type RequestsView struct {
	Lifecycle

	api      RequestsAPI
	session  SessionReader
	notifier Notifier
	actions  ActionTracker

	mu       sync.Mutex
	requests []models.MatchRequest
	loading  bool
	lastErr  error
}

func NewRequestsView(client RequestsAPI, session SessionReader, notifier Notifier) *RequestsView {
	return &RequestsView{
		api:      client,
		session:  session,
		notifier: notifier,
		loading:  true,
	}
}

// Mount fetches the list for the current role
func (v *RequestsView) Mount(ctx context.Context) {
	v.load(ctx, v.mount())
}

func (v *RequestsView) load(ctx context.Context, gen uint64) {
	defer func() {
		if v.alive(gen) {
			v.mu.Lock()
			v.loading = false
			v.mu.Unlock()
		}
	}()

	var (
		requests []models.MatchRequest
		err      error
	)
	switch v.session.Snapshot().Role() {
	case models.RoleMentor:
		requests, err = v.api.IncomingRequests(ctx)
	case models.RoleMentee:
		requests, err = v.api.OutgoingRequests(ctx)
	default:
		return
	}

	if !v.alive(gen) {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		logger.Error("Failed to load match requests", zap.Error(err))
		v.requests = []models.MatchRequest{}
		v.lastErr = err
		return
	}
	v.requests = requests
	v.lastErr = nil
}

// requestAction describes one of the three transitions
type requestAction struct {
	name     string
	target   models.MatchStatus
	call     func(ctx context.Context, id int64) (*models.MatchRequest, error)
	success  string
	fallback string
}

// Accept accepts a pending incoming request
func (v *RequestsView) Accept(ctx context.Context, id int64) error {
	return v.act(ctx, id, requestAction{
		name:     "accept",
		target:   models.StatusAccepted,
		call:     v.api.AcceptRequest,
		success:  "Request accepted!",
		fallback: "Failed to accept request.",
	})
}

// Reject rejects a pending incoming request
func (v *RequestsView) Reject(ctx context.Context, id int64) error {
	return v.act(ctx, id, requestAction{
		name:     "reject",
		target:   models.StatusRejected,
		call:     v.api.RejectRequest,
		success:  "Request rejected.",
		fallback: "Failed to reject request.",
	})
}

// Cancel withdraws a pending outgoing request
func (v *RequestsView) Cancel(ctx context.Context, id int64) error {
	return v.act(ctx, id, requestAction{
		name:     "cancel",
		target:   models.StatusCancelled,
		call:     v.api.CancelRequest,
		success:  "Request cancelled.",
		fallback: "Failed to cancel request.",
	})
}

// act runs one transition. The item's flag stays set until the refetch
// after the call has finished, whether the call succeeded or not.
func (v *RequestsView) act(ctx context.Context, id int64, action requestAction) error {
	if err := v.allowed(id, action.target); err != nil {
		notifyFailure(v.notifier, err, action.fallback)
		return err
	}

	if !v.actions.Begin(id) {
		return ErrActionInFlight
	}
	defer v.actions.End(id)

	gen := v.current()
	_, err := action.call(ctx, id)
	metrics.MatchRequestActions.WithLabelValues(action.name, metrics.StatusLabel(err)).Inc()
	if err != nil {
		notifyFailure(v.notifier, err, action.fallback)
		return err
	}

	v.load(ctx, gen)
	notify(v.notifier, LevelSuccess, action.success)
	return nil
}

// allowed checks the listed status and the actor's role before any call
func (v *RequestsView) allowed(id int64, target models.MatchStatus) error {
	role := v.session.Snapshot().Role()

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, req := range v.requests {
		if req.ID != id {
			continue
		}
		if !req.Status.CanTransitionTo(target, role) {
			return apperrors.ValidationError("status", "This request can no longer be changed.")
		}
		return nil
	}
	return apperrors.ValidationError("id", "Unknown request.")
}

// State returns what the screen renders
func (v *RequestsView) State() RequestsState {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := RequestsState{
		Loading:  v.loading,
		Role:     v.session.Snapshot().Role(),
		Requests: append([]models.MatchRequest{}, v.requests...),
		Pending:  v.actions.Snapshot(),
	}
	if v.lastErr != nil {
		state.LastError = apperrors.MessageOr(v.lastErr, "Failed to load requests.")
	}
	return state
}

// Reset drops everything loaded for the previous user
func (v *RequestsView) Reset() {
	v.Unmount()
	v.actions.reset()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.requests = nil
	v.loading = true
	v.lastErr = nil
}
