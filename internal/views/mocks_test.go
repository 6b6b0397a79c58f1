package views

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/getmentor/mentor-match-client/internal/api"
	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/internal/session"
	"github.com/getmentor/mentor-match-client/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// MockBackend is a mock implementation of Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListMentors(ctx context.Context, query api.MentorQuery) ([]models.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockBackend) CreateMatchRequest(ctx context.Context, mentorID int64, message string) (*models.MatchRequest, error) {
	args := m.Called(ctx, mentorID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchRequest), args.Error(1)
}

func (m *MockBackend) IncomingRequests(ctx context.Context) ([]models.MatchRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchRequest), args.Error(1)
}

func (m *MockBackend) OutgoingRequests(ctx context.Context) ([]models.MatchRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchRequest), args.Error(1)
}

func (m *MockBackend) AcceptRequest(ctx context.Context, id int64) (*models.MatchRequest, error) {
	return m.transition("AcceptRequest", ctx, id)
}

func (m *MockBackend) RejectRequest(ctx context.Context, id int64) (*models.MatchRequest, error) {
	return m.transition("RejectRequest", ctx, id)
}

func (m *MockBackend) CancelRequest(ctx context.Context, id int64) (*models.MatchRequest, error) {
	return m.transition("CancelRequest", ctx, id)
}

func (m *MockBackend) transition(method string, ctx context.Context, id int64) (*models.MatchRequest, error) {
	args := m.MethodCalled(method, ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchRequest), args.Error(1)
}

func (m *MockBackend) UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockBackend) Conversations(ctx context.Context) ([]models.Conversation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *MockBackend) MessagesWith(ctx context.Context, userID int64) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockBackend) SendMessage(ctx context.Context, req models.MessageCreate) (*models.Message, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockBackend) UnreadCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// fakeSession is an in-memory Session
type fakeSession struct {
	mu         sync.Mutex
	user       *models.User
	loginErr   error
	signupErr  error
	refreshErr error
	updates    []models.User
	signups    []models.SignupRequest
	refreshes  int
}

func (s *fakeSession) Login(_ context.Context, email, _ string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	s.user = &models.User{ID: 1, Email: email, Role: models.RoleMentee}
	return s.user, nil
}

func (s *fakeSession) Signup(_ context.Context, req models.SignupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signups = append(s.signups, req)
	return s.signupErr
}

func (s *fakeSession) Snapshot() session.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return session.Snapshot{}
	}
	user := *s.user
	return session.Snapshot{User: &user}
}

func (s *fakeSession) UpdateUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, user)
	s.user = &user
}

func (s *fakeSession) Refresh(context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return s.user, nil
}

func lastNotice(t interface{ Helper() }, inbox *Inbox) Notice {
	t.Helper()
	notices := inbox.Drain()
	if len(notices) == 0 {
		return Notice{}
	}
	return notices[len(notices)-1]
}
