package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getmentor/mentor-match-client/internal/views"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

// attachError attaches err to the gin context so the observability
// middleware includes the reason in the request log
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck // c.Error returns *gin.Error, not error
	}
}

// respondError sends an error JSON response and attaches the error
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with a details field
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// statusFor maps an error kind to the status the local front answers with.
// Backend and transport failures are both bad gateways from our side.
func statusFor(err error) int {
	if errors.Is(err, views.ErrActionInFlight) {
		return http.StatusConflict
	}
	switch apperrors.KindOf(err) {
	case apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrAuth:
		return http.StatusUnauthorized
	case apperrors.ErrAuthorization:
		return http.StatusForbidden
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// respondFailure answers a failed view action. The notice the view raised
// travels with the response.
func respondFailure(c *gin.Context, inbox *views.Inbox, err error) {
	attachError(c, err)
	c.JSON(statusFor(err), gin.H{
		"error":   apperrors.MessageOr(err, http.StatusText(statusFor(err))),
		"notices": inbox.Drain(),
	})
}

// respond answers 200 with body plus the pending notices
func respond(c *gin.Context, inbox *views.Inbox, body gin.H) {
	respondWithStatus(c, http.StatusOK, inbox, body)
}

func respondWithStatus(c *gin.Context, status int, inbox *views.Inbox, body gin.H) {
	body["notices"] = inbox.Drain()
	c.JSON(status, body)
}
