package views

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/getmentor/mentor-match-client/internal/avatar"
	"github.com/getmentor/mentor-match-client/internal/models"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestProfileView_FormSeededFromSession(t *testing.T) {
	sess := mentorSession()
	sess.user.Profile = models.Profile{Name: "Bob", Bio: "Backend", Skills: []string{"Go", "SQL"}}

	v := NewProfileView(new(MockBackend), sess, NewInbox())

	assert.Equal(t, ProfileForm{Name: "Bob", Bio: "Backend", Skills: "Go, SQL"}, v.Form())
}

func TestProfileView_Save_MentorSendsSkills(t *testing.T) {
	backend := new(MockBackend)
	sess := mentorSession()
	inbox := NewInbox()
	v := NewProfileView(backend, sess, inbox)

	updated := &models.User{ID: 5, Email: "mentor@example.com", Role: models.RoleMentor, Profile: models.Profile{Name: "Bob", Skills: []string{"Go", "SQL"}}}
	backend.On("UpdateProfile", mock.Anything, models.ProfileUpdateRequest{
		Name:   "Bob",
		Bio:    "",
		Skills: []string{"Go", "SQL"},
	}).Return(updated, nil).Once()

	require.NoError(t, v.Save(context.Background(), ProfileForm{Name: "Bob", Skills: " Go, ,SQL "}))

	require.Len(t, sess.updates, 1)
	assert.Equal(t, *updated, sess.updates[0])
	assert.Equal(t, 1, sess.refreshes)
	assert.Equal(t, "Profile updated successfully.", lastNotice(t, inbox).Message)
	backend.AssertExpectations(t)
}

func TestProfileView_Save_MenteeOmitsSkills(t *testing.T) {
	backend := new(MockBackend)
	v := NewProfileView(backend, menteeSession(), NewInbox())

	backend.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(req models.ProfileUpdateRequest) bool {
		return req.Skills == nil && req.Name == "Mina"
	})).Return(&models.User{ID: 9, Role: models.RoleMentee}, nil).Once()

	require.NoError(t, v.Save(context.Background(), ProfileForm{Name: "Mina", Skills: "Go"}))
	backend.AssertExpectations(t)
}

func TestProfileView_Save_RefreshFailureIgnored(t *testing.T) {
	backend := new(MockBackend)
	sess := menteeSession()
	sess.refreshErr = errors.New("backend down")
	inbox := NewInbox()
	v := NewProfileView(backend, sess, inbox)

	backend.On("UpdateProfile", mock.Anything, mock.Anything).Return(&models.User{ID: 9, Role: models.RoleMentee}, nil).Once()

	err := v.Save(context.Background(), ProfileForm{Name: "Mina"})

	assert.NoError(t, err)
	notice := lastNotice(t, inbox)
	assert.Equal(t, LevelSuccess, notice.Level)
	assert.Equal(t, "Profile updated successfully.", notice.Message)
}

func TestProfileView_Save_Failure(t *testing.T) {
	backend := new(MockBackend)
	sess := menteeSession()
	inbox := NewInbox()
	v := NewProfileView(backend, sess, inbox)

	backend.On("UpdateProfile", mock.Anything, mock.Anything).Return(nil, apperrors.NewAPIError(500, "")).Once()

	err := v.Save(context.Background(), ProfileForm{Name: "Mina"})

	assert.ErrorIs(t, err, apperrors.ErrServer)
	assert.Equal(t, "Failed to update profile.", lastNotice(t, inbox).Message)
	assert.Empty(t, sess.updates)
	assert.Equal(t, 0, sess.refreshes)
	assert.Equal(t, "Mina", v.Form().Name, "the form keeps the input")
}

func TestProfileView_UploadAvatar(t *testing.T) {
	backend := new(MockBackend)
	sess := menteeSession()
	v := NewProfileView(backend, sess, NewInbox())
	v.SetForm(ProfileForm{Name: "Mina", Bio: "Learning Go"})

	backend.On("UpdateProfile", mock.Anything, models.ProfileUpdateRequest{
		Name:  "Mina",
		Bio:   "Learning Go",
		Image: avatar.Encode(pngBytes),
	}).Return(&models.User{ID: 9, Role: models.RoleMentee}, nil).Once()

	require.NoError(t, v.UploadAvatar(context.Background(), avatar.BytesSource{Data: pngBytes, MIMEType: "image/png"}))
	backend.AssertExpectations(t)
}

func TestProfileView_UploadAvatar_RejectedBeforeNetwork(t *testing.T) {
	big := filepath.Join(t.TempDir(), "big.png")
	data := make([]byte, avatar.MaxSize+1)
	copy(data, pngBytes)
	require.NoError(t, os.WriteFile(big, data, 0o600))

	tests := []struct {
		name     string
		src      avatar.Source
		expected error
		message  string
	}{
		{"too large", avatar.FileSource{Path: big}, avatar.ErrTooLarge, "Image must be 1 MB or smaller"},
		{"gif", avatar.BytesSource{Data: []byte("GIF89a\x01\x00"), MIMEType: "image/gif"}, avatar.ErrUnsupportedType, "Only JPG and PNG images are allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := new(MockBackend)
			inbox := NewInbox()
			v := NewProfileView(backend, menteeSession(), inbox)

			err := v.UploadAvatar(context.Background(), tt.src)

			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, tt.message, lastNotice(t, inbox).Message)
			assert.Empty(t, backend.Calls)
		})
	}
}

func TestProfileView_NoSession(t *testing.T) {
	backend := new(MockBackend)
	v := NewProfileView(backend, &fakeSession{}, NewInbox())

	err := v.Save(context.Background(), ProfileForm{Name: "X"})

	assert.ErrorIs(t, err, apperrors.ErrAuth)
	assert.Empty(t, backend.Calls)
}
