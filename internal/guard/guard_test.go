package guard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/internal/session"
)

var (
	anonymous     = session.Snapshot{}
	bootstrapping = session.Snapshot{Bootstrapping: true}
	mentor        = session.Snapshot{User: &models.User{ID: 1, Role: models.RoleMentor}}
	mentee        = session.Snapshot{User: &models.User{ID: 2, Role: models.RoleMentee}}
)

func TestEvaluate_Table(t *testing.T) {
	paths := []string{PathLogin, PathSignup, PathProfile, PathMentors, PathRequests, PathMessages, PathRoot}

	expected := map[string]map[string]Decision{
		"unauthenticated": {
			PathLogin:    render(),
			PathSignup:   render(),
			PathProfile:  redirect(PathLogin),
			PathMentors:  redirect(PathLogin),
			PathRequests: redirect(PathLogin),
			PathMessages: redirect(PathLogin),
			PathRoot:     redirect(PathLogin),
		},
		"mentor": {
			PathLogin:    redirect(PathProfile),
			PathSignup:   redirect(PathProfile),
			PathProfile:  render(),
			PathMentors:  redirect(PathProfile),
			PathRequests: render(),
			PathMessages: render(),
			PathRoot:     redirect(PathProfile),
		},
		"mentee": {
			PathLogin:    redirect(PathProfile),
			PathSignup:   redirect(PathProfile),
			PathProfile:  render(),
			PathMentors:  render(),
			PathRequests: render(),
			PathMessages: render(),
			PathRoot:     redirect(PathProfile),
		},
	}
	sessions := map[string]session.Snapshot{
		"unauthenticated": anonymous,
		"mentor":          mentor,
		"mentee":          mentee,
	}

	for name, snap := range sessions {
		for _, p := range paths {
			t.Run(fmt.Sprintf("%s %s", name, p), func(t *testing.T) {
				assert.Equal(t, expected[name][p], Evaluate(snap, p))
			})
		}
	}
}

func TestEvaluate_BootstrappingIsAlwaysLoading(t *testing.T) {
	for _, p := range []string{PathLogin, PathSignup, PathProfile, PathMentors, PathRequests, PathMessages, PathRoot, "/nowhere"} {
		d := Evaluate(bootstrapping, p)
		assert.Equal(t, Loading, d.Outcome, p)
		assert.Empty(t, d.RedirectTo, p)
	}

	// a user restored mid-bootstrap still waits
	restoring := mentee
	restoring.Bootstrapping = true
	assert.Equal(t, Loading, Evaluate(restoring, PathMentors).Outcome)
}

func TestEvaluate_ExactlyOneOutcome(t *testing.T) {
	for _, snap := range []session.Snapshot{anonymous, bootstrapping, mentor, mentee} {
		for _, p := range []string{PathLogin, PathSignup, PathProfile, PathMentors, PathRequests, PathMessages, PathRoot, "/unknown", ""} {
			d := Evaluate(snap, p)
			switch d.Outcome {
			case Loading, Render:
				assert.Empty(t, d.RedirectTo)
			case Redirect:
				assert.Contains(t, []string{PathLogin, PathProfile}, d.RedirectTo)
			default:
				t.Fatalf("unexpected outcome %v", d.Outcome)
			}
		}
	}
}

func TestEvaluate_UnknownPaths(t *testing.T) {
	assert.Equal(t, redirect(PathLogin), Evaluate(anonymous, "/admin"))
	assert.Equal(t, redirect(PathProfile), Evaluate(mentor, "/admin"))
	assert.Equal(t, redirect(PathProfile), Evaluate(mentee, "/admin"))
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"/mentors/":         "/mentors",
		"/mentors?skill=go": "/mentors",
		"mentors":           "/mentors",
		"/a/../login":       "/login",
		"":                  "/",
		"/#top":             "/",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, Normalize(input), input)
	}

	assert.Equal(t, render(), Evaluate(mentee, "/mentors/?skill=go"))
}

func TestNavigation(t *testing.T) {
	assert.Equal(t, []NavItem{
		{Path: PathProfile, Label: "Profile"},
		{Path: PathMentors, Label: "Mentors"},
		{Path: PathRequests, Label: "Sent requests"},
		{Path: PathMessages, Label: "Messages"},
	}, Navigation(mentee))

	assert.Equal(t, []NavItem{
		{Path: PathProfile, Label: "Profile"},
		{Path: PathRequests, Label: "Received requests"},
		{Path: PathMessages, Label: "Messages"},
	}, Navigation(mentor))

	assert.Len(t, Navigation(anonymous), 2)
}
