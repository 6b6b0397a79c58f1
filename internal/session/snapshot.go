package session

import (
	"time"

	"github.com/getmentor/mentor-match-client/internal/models"
)

// Snapshot is a point-in-time copy of the session
type Snapshot struct {
	User          *models.User `json:"user"`
	Bootstrapping bool         `json:"isBootstrapping"`
	ExpiresAt     time.Time    `json:"expiresAt,omitzero"`
}

// Authenticated reports whether a validated identity is held
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// Role returns the user's role, or "" when logged out
func (s Snapshot) Role() models.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
