package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/getmentor/mentor-match-client/internal/avatar"
	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/internal/views"
)

// AvatarInvalidator forgets a cached profile picture
type AvatarInvalidator interface {
	Invalidate(role models.Role, id int64)
}

// ProfileHandler saves the profile form and uploads avatars
type ProfileHandler struct {
	screens *views.Screens
	session SessionControl
	avatars AvatarInvalidator
	objects avatar.ObjectClient // nil when no object storage is configured
}

func NewProfileHandler(screens *views.Screens, sess SessionControl, avatars AvatarInvalidator, objects avatar.ObjectClient) *ProfileHandler {
	return &ProfileHandler{screens: screens, session: sess, avatars: avatars, objects: objects}
}

type objectAvatarBody struct {
	Bucket string `json:"bucket" binding:"required"`
	Key    string `json:"key" binding:"required"`
}

// Update handles PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var form views.ProfileForm
	if !bindJSON(c, &form) {
		return
	}

	if err := h.screens.Profile.Save(c.Request.Context(), form); err != nil {
		respondFailure(c, h.screens.Inbox, err)
		return
	}

	respond(c, h.screens.Inbox, gin.H{"state": h.screens.Profile.State()})
}

// UploadAvatar handles POST /api/profile/avatar. The image comes either as
// a multipart "image" file or, when object storage is configured, as a JSON
// bucket/key reference.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	src, ok := h.avatarSource(c)
	if !ok {
		return
	}

	if err := h.screens.Profile.UploadAvatar(c.Request.Context(), src); err != nil {
		respondFailure(c, h.screens.Inbox, err)
		return
	}

	if user := h.session.Snapshot().User; user != nil && h.avatars != nil {
		h.avatars.Invalidate(user.Role, user.ID)
	}
	respond(c, h.screens.Inbox, gin.H{"state": h.screens.Profile.State()})
}

func (h *ProfileHandler) avatarSource(c *gin.Context) (avatar.Source, bool) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if h.objects == nil {
			respondError(c, http.StatusBadRequest, "Object storage is not configured", nil)
			return nil, false
		}
		var body objectAvatarBody
		if !bindJSON(c, &body) {
			return nil, false
		}
		return avatar.S3Source{Client: h.objects, Bucket: body.Bucket, Key: body.Key}, true
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Missing image file", err)
		return nil, false
	}
	if header.Size > avatar.MaxSize {
		respondError(c, http.StatusBadRequest, avatar.ErrTooLarge.Reason, avatar.ErrTooLarge)
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read image file", err)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, avatar.MaxSize+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read image file", err)
		return nil, false
	}

	return avatar.BytesSource{Data: data, MIMEType: header.Header.Get("Content-Type")}, true
}
