package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

func TestExecute_TripsOnServerFailures(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig("test"))
	calls := 0
	failing := func() (int, error) {
		calls++
		return 0, apperrors.NewAPIError(503, "")
	}

	for i := 0; i < 3; i++ {
		_, err := Execute(cb, failing)
		assert.ErrorIs(t, err, apperrors.ErrServer)
	}
	require.True(t, IsCircuitOpen(cb))

	_, err := Execute(cb, failing)
	assert.ErrorIs(t, err, ErrOpenState)
	assert.Equal(t, 3, calls)
}

func TestExecute_ClientErrorsDoNotTrip(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig("test"))

	for i := 0; i < 5; i++ {
		_, err := Execute(cb, func() (string, error) {
			return "", apperrors.NewAPIError(401, "Invalid token")
		})
		assert.ErrorIs(t, err, apperrors.ErrAuth)
	}

	assert.False(t, IsCircuitOpen(cb))
}

func TestExecute_ReturnsValue(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig("test"))

	got, err := Execute(cb, func() (int, error) { return 7, nil })

	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestExecute_UnknownErrorsCountAsFailures(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig("test"))

	for i := 0; i < 3; i++ {
		_, _ = Execute(cb, func() (int, error) { return 0, errors.New("boom") })
	}

	assert.True(t, IsCircuitOpen(cb))
}
