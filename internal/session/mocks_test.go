package session

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/getmentor/mentor-match-client/internal/api"
	"github.com/getmentor/mentor-match-client/internal/models"
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

func (m *MockBackend) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Signup(ctx context.Context, req models.SignupRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBackend) Me(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// withToken matches a context carrying the given override token
func withToken(token string) any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		got, ok := api.TokenFromContext(ctx)
		return ok && got == token
	})
}

// failingStore fails every write
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Load(context.Context) (string, error) { return "", errStoreDown }
func (failingStore) Save(context.Context, string) error   { return errStoreDown }
func (failingStore) Clear(context.Context) error          { return errStoreDown }
