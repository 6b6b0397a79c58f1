package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getmentor/mentor-match-client/internal/api"
	"github.com/getmentor/mentor-match-client/internal/models"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

// AvatarSource yields profile pictures, usually through the avatar cache
type AvatarSource interface {
	Get(ctx context.Context, role models.Role, id int64) (*api.Image, error)
}

// AvatarHandler proxies profile pictures so the UI never holds the token
type AvatarHandler struct {
	avatars AvatarSource
}

func NewAvatarHandler(avatars AvatarSource) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

// Get handles GET /avatars/:role/:id. Users without a picture are
// redirected to the backend's placeholder.
func (h *AvatarHandler) Get(c *gin.Context) {
	role := models.Role(c.Param("role"))
	if !role.Valid() {
		respondError(c, http.StatusBadRequest, "Invalid role", nil)
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	img, err := h.avatars.Get(c.Request.Context(), role, id)
	if err != nil {
		respondError(c, statusFor(err), apperrors.MessageOr(err, "Failed to load image"), err)
		return
	}

	if img.RedirectURL != "" {
		c.Redirect(http.StatusFound, img.RedirectURL)
		return
	}
	c.Header("Cache-Control", "private, max-age=60")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
