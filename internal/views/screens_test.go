package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/getmentor/mentor-match-client/internal/models"
)

func TestScreens_EnterMountsOnlyTheTarget(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListMentors", mock.Anything, mock.Anything).Return([]models.User{}, nil)
	backend.On("OutgoingRequests", mock.Anything).Return([]models.MatchRequest{}, nil)
	screens := NewScreens(backend, menteeSession())
	ctx := context.Background()

	screens.Enter(ctx, "/mentors?skill=go")
	assert.True(t, screens.Mentors.Mounted())
	assert.False(t, screens.Requests.Mounted())

	screens.Enter(ctx, "/requests/")
	assert.False(t, screens.Mentors.Mounted())
	assert.True(t, screens.Requests.Mounted())

	screens.Enter(ctx, "/profile")
	assert.False(t, screens.Mentors.Mounted())
	assert.False(t, screens.Requests.Mounted())
	assert.False(t, screens.Messages.Mounted())
}

func TestScreens_Reset(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListMentors", mock.Anything, mock.Anything).Return([]models.User{mentorWith(5, "Bob")}, nil)
	sess := menteeSession()
	screens := NewScreens(backend, sess)
	ctx := context.Background()

	screens.Enter(ctx, "/mentors")
	screens.Mentors.SetDraft(5, "Hi")
	screens.Messages.SetUnread(4)
	screens.Profile.SetForm(ProfileForm{Name: "Edited"})

	screens.Reset()
	sess.user = nil

	assert.False(t, screens.Mentors.Mounted())
	assert.Empty(t, screens.Mentors.Visible())
	assert.Empty(t, screens.Mentors.Draft(5))
	assert.Equal(t, 0, screens.Messages.State().Unread)
	assert.Equal(t, ProfileForm{}, screens.Profile.Form())
}
