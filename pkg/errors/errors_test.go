package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected error
	}{
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnprocessableEntity, ErrValidation},
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrAuthorization},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
		{http.StatusTeapot, ErrServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, KindForStatus(tt.status))
		})
	}
}

func TestAPIError_UnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("accept request: %w", NewAPIError(http.StatusNotFound, "Request not found"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, ErrNotFound, KindOf(err))
	assert.Equal(t, "Request not found", MessageOr(err, "fallback"))
}

func TestMessageOr(t *testing.T) {
	assert.Equal(t, "fallback", MessageOr(NewAPIError(http.StatusInternalServerError, ""), "fallback"))
	assert.Equal(t, "fallback", MessageOr(NetworkError("login", fmt.Errorf("dial tcp: refused")), "fallback"))
	assert.Equal(t, "message is required", MessageOr(ValidationError("message", "message is required"), "fallback"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrNetwork, KindOf(NetworkError("me", fmt.Errorf("timeout"))))
	assert.Equal(t, ErrValidation, KindOf(ValidationError("email", "Invalid email format")))
	assert.Equal(t, ErrServer, KindOf(fmt.Errorf("something odd")))
}
