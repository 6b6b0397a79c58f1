package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/internal/session"
	"github.com/getmentor/mentor-match-client/pkg/logger"
)

func init() {
	if err := logger.Initialize(logger.Config{Level: "debug", Environment: "development"}); err != nil {
		panic(err)
	}
}

type MockUnreadAPI struct {
	mock.Mock
}

func (m *MockUnreadAPI) UnreadCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type staticSession struct {
	user *models.User
}

func (s staticSession) Snapshot() session.Snapshot {
	return session.Snapshot{User: s.user}
}

type recordingSink struct {
	mu     sync.Mutex
	counts []int
}

func (s *recordingSink) SetUnread(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = append(s.counts, count)
}

func (s *recordingSink) seen() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.counts...)
}

var mentee = &models.User{ID: 9, Email: "mentee@example.com", Role: models.RoleMentee}

func TestPoller_Poll(t *testing.T) {
	client := new(MockUnreadAPI)
	client.On("UnreadCount", mock.Anything).Return(3, nil).Once()
	sink := &recordingSink{}

	p := NewPoller(client, staticSession{user: mentee}, time.Minute, sink)
	p.Poll(context.Background())

	assert.Equal(t, 3, p.Last())
	assert.Equal(t, []int{3}, sink.seen())
	client.AssertExpectations(t)
}

func TestPoller_Poll_LoggedOut(t *testing.T) {
	client := new(MockUnreadAPI)
	sink := &recordingSink{}

	p := NewPoller(client, staticSession{}, time.Minute, sink)
	p.Poll(context.Background())

	assert.Empty(t, client.Calls)
	assert.Empty(t, sink.seen())
}

func TestPoller_Poll_FailureKeepsLastValue(t *testing.T) {
	client := new(MockUnreadAPI)
	client.On("UnreadCount", mock.Anything).Return(2, nil).Once()
	client.On("UnreadCount", mock.Anything).Return(0, errors.New("backend down")).Once()
	sink := &recordingSink{}

	p := NewPoller(client, staticSession{user: mentee}, time.Minute, sink)
	p.Poll(context.Background())
	p.Poll(context.Background())

	assert.Equal(t, 2, p.Last())
	assert.Equal(t, []int{2}, sink.seen())

	p.Reset()
	assert.Equal(t, 0, p.Last())
}

func TestPoller_StartRunsOnSchedule(t *testing.T) {
	client := new(MockUnreadAPI)
	client.On("UnreadCount", mock.Anything).Return(1, nil)
	sink := &recordingSink{}

	p := NewPoller(client, staticSession{user: mentee}, time.Second, sink)
	require.NoError(t, p.Start())
	t.Cleanup(func() { p.Stop(context.Background()) })

	assert.Eventually(t, func() bool { return len(sink.seen()) > 0 }, 5*time.Second, 50*time.Millisecond)
}

func TestPoller_DisabledInterval(t *testing.T) {
	client := new(MockUnreadAPI)
	p := NewPoller(client, staticSession{user: mentee}, 0)

	require.NoError(t, p.Start())
	p.Stop(context.Background())

	assert.Empty(t, client.Calls)
}

func TestPoller_BacksOffWhileBackendIsDown(t *testing.T) {
	client := new(MockUnreadAPI)
	client.On("UnreadCount", mock.Anything).Return(0, errors.New("connection refused")).Times(3)

	p := NewPoller(client, staticSession{user: mentee}, time.Minute)
	for i := 0; i < 5; i++ {
		p.Poll(context.Background())
	}

	client.AssertNumberOfCalls(t, "UnreadCount", 3)
}
