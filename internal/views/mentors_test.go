package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/getmentor/mentor-match-client/internal/api"
	"github.com/getmentor/mentor-match-client/internal/models"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

func mentorWith(id int64, name string, skills ...string) models.User {
	return models.User{
		ID:      id,
		Email:   name + "@example.com",
		Role:    models.RoleMentor,
		Profile: models.Profile{Name: name, Skills: skills},
	}
}

func names(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile.Name)
	}
	return out
}

func TestFilterBySkill(t *testing.T) {
	mentors := []models.User{
		mentorWith(1, "A", "Go"),
		mentorWith(2, "B", "Go", "SQL"),
		mentorWith(3, "C", "Python"),
	}

	tests := []struct {
		term     string
		expected []string
	}{
		{"go", []string{"A", "B"}},
		{"GO", []string{"A", "B"}},
		{"q", []string{"B"}},
		{"", []string{"A", "B", "C"}},
		{"   ", []string{"A", "B", "C"}},
		{"rust", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.expected, names(FilterBySkill(mentors, tt.term)))
		})
	}
}

func TestFilterBySkill_MentorWithoutSkills(t *testing.T) {
	mentors := []models.User{mentorWith(1, "NoSkills")}

	assert.Empty(t, FilterBySkill(mentors, "go"))
	assert.Len(t, FilterBySkill(mentors, ""), 1)
}

func TestSortMentors_ByName(t *testing.T) {
	mentors := []models.User{mentorWith(1, "Bob"), mentorWith(2, "alice"), mentorWith(3, "Carol")}

	SortMentors(mentors, SortName, language.Und)

	assert.Equal(t, []string{"alice", "Bob", "Carol"}, names(mentors))
}

func TestSortMentors_BySkill(t *testing.T) {
	mentors := []models.User{
		mentorWith(1, "X", "Python"),
		mentorWith(2, "Y", "go", "SQL"),
		mentorWith(3, "Z"),
	}

	SortMentors(mentors, SortSkill, language.Und)

	assert.Equal(t, []string{"Z", "Y", "X"}, names(mentors))
}

func TestSortMentors_NoneKeepsServerOrder(t *testing.T) {
	mentors := []models.User{mentorWith(1, "Bob"), mentorWith(2, "alice")}

	SortMentors(mentors, SortNone, language.Und)

	assert.Equal(t, []string{"Bob", "alice"}, names(mentors))
}

func TestSortMentors_Stable(t *testing.T) {
	mentors := []models.User{mentorWith(1, "Sam"), mentorWith(2, "Sam"), mentorWith(3, "Al")}

	SortMentors(mentors, SortName, language.Und)

	assert.Equal(t, []int64{3, 1, 2}, []int64{mentors[0].ID, mentors[1].ID, mentors[2].ID})
}

func TestMentorsView_MountAndVisible(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListMentors", mock.Anything, api.MentorQuery{}).Return([]models.User{
		mentorWith(1, "Bob", "Go"),
		mentorWith(2, "alice", "Go", "SQL"),
		mentorWith(3, "Carol", "Python"),
	}, nil).Once()

	v := NewMentorsView(backend, NewInbox())
	assert.True(t, v.State().Loading)

	v.Mount(context.Background())
	v.SetSearch("go")
	require.NoError(t, v.SetSort(SortName))

	state := v.State()
	assert.False(t, state.Loading)
	assert.Equal(t, []string{"alice", "Bob"}, names(state.Mentors))
	assert.Empty(t, state.LastError)

	assert.Error(t, v.SetSort("rating"))
}

func TestMentorsView_ServerFilterForwardsQuery(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListMentors", mock.Anything, api.MentorQuery{Skill: "go", OrderBy: "name"}).Return([]models.User{
		mentorWith(1, "Carol", "Python"),
		mentorWith(2, "Bob", "Go"),
	}, nil).Once()

	v := NewMentorsView(backend, NewInbox(), WithServerFilter(true))
	v.SetSearch(" go ")
	require.NoError(t, v.SetSort(SortName))
	v.Mount(context.Background())

	// the local pass still filters what the server returned
	assert.Equal(t, []string{"Bob"}, names(v.Visible()))
	backend.AssertExpectations(t)
}

func TestMentorsView_MountFailureLeavesEmptyList(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListMentors", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAPIError(500, "")).Once()
	inbox := NewInbox()

	v := NewMentorsView(backend, inbox)
	v.Mount(context.Background())

	state := v.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Mentors)
	assert.NotNil(t, state.Mentors)
	assert.Equal(t, "Failed to load mentors.", state.LastError)
	assert.Empty(t, inbox.Drain(), "list failures are not blocking notices")
}

func TestMentorsView_LateResultDiscardedAfterUnmount(t *testing.T) {
	backend := new(MockBackend)
	v := NewMentorsView(backend, NewInbox())
	backend.On("ListMentors", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { v.Unmount() }).
		Return([]models.User{mentorWith(1, "Bob")}, nil).Once()

	v.Mount(context.Background())

	state := v.State()
	assert.Empty(t, state.Mentors)
	assert.True(t, state.Loading, "unmounted view keeps its pre-fetch state")
}

func TestMentorsView_SendRequest_EmptyMessage(t *testing.T) {
	backend := new(MockBackend)
	inbox := NewInbox()
	v := NewMentorsView(backend, inbox)

	for _, draft := range []string{"", "  \n\t"} {
		v.SetDraft(5, draft)
		err := v.SendRequest(context.Background(), 5)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		notice := lastNotice(t, inbox)
		assert.Equal(t, LevelError, notice.Level)
		assert.Equal(t, "Please enter a message.", notice.Message)
	}

	backend.AssertNotCalled(t, "CreateMatchRequest", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, backend.Calls)
}

func TestMentorsView_SendRequest_Success(t *testing.T) {
	backend := new(MockBackend)
	inbox := NewInbox()
	v := NewMentorsView(backend, inbox)
	backend.On("ListMentors", mock.Anything, mock.Anything).Return([]models.User{mentorWith(5, "Bob")}, nil).Once()
	v.Mount(context.Background())

	backend.On("CreateMatchRequest", mock.Anything, int64(5), "Hi").
		Run(func(mock.Arguments) {
			assert.True(t, v.State().Pending[5], "flag set while the call is in flight")
			assert.ErrorIs(t, v.SendRequest(context.Background(), 5), ErrActionInFlight)
		}).
		Return(&models.MatchRequest{ID: 1, MentorID: 5, MenteeID: 9, Message: "Hi", Status: models.StatusPending}, nil).Once()

	v.SetDraft(5, "Hi")
	require.NoError(t, v.SendRequest(context.Background(), 5))

	assert.Equal(t, Notice{Level: LevelSuccess, Message: "Match request sent!"}, stripTime(lastNotice(t, inbox)))
	assert.Empty(t, v.Draft(5))
	assert.False(t, v.State().Pending[5])
	backend.AssertExpectations(t)
}

func TestMentorsView_SendRequest_Failure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"backend message", apperrors.NewAPIError(400, "Request already exists"), "Request already exists"},
		{"no message", apperrors.NewAPIError(500, ""), "Failed to send request."},
		{"network", apperrors.NetworkError("create_match_request", context.DeadlineExceeded), "Failed to send request."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := new(MockBackend)
			inbox := NewInbox()
			v := NewMentorsView(backend, inbox)
			backend.On("CreateMatchRequest", mock.Anything, int64(5), "Hi").Return(nil, tt.err).Once()

			v.SetDraft(5, "Hi")
			err := v.SendRequest(context.Background(), 5)

			assert.Error(t, err)
			notice := lastNotice(t, inbox)
			assert.Equal(t, LevelError, notice.Level)
			assert.Equal(t, tt.expected, notice.Message)
			assert.Equal(t, "Hi", v.Draft(5), "the form stays editable after a failure")
			assert.False(t, v.State().Pending[5])
		})
	}
}

func TestMentorsView_Reset(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListMentors", mock.Anything, mock.Anything).Return([]models.User{mentorWith(5, "Bob")}, nil).Once()
	v := NewMentorsView(backend, NewInbox())
	v.Mount(context.Background())
	v.SetDraft(5, "Hi")
	v.SetSearch("go")

	v.Reset()

	state := v.State()
	assert.Empty(t, state.Mentors)
	assert.Empty(t, state.Drafts)
	assert.Empty(t, state.Search)
	assert.False(t, v.Mounted())
}

func stripTime(n Notice) Notice {
	return Notice{Level: n.Level, Message: n.Message}
}
