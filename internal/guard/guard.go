// Package guard decides which view a session may render for a path
package guard

import (
	"path"
	"strings"

	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/internal/session"
)

// View paths
const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathSignup   = "/signup"
	PathProfile  = "/profile"
	PathMentors  = "/mentors"
	PathRequests = "/requests"
	PathMessages = "/messages"
)

// Outcome is the kind of routing decision
type Outcome int

const (
	// Loading renders a neutral placeholder while the session bootstraps
	Loading Outcome = iota
	Render
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating a path. RedirectTo is set only for
// Redirect.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

func render() Decision                { return Decision{Outcome: Render} }
func redirect(target string) Decision { return Decision{Outcome: Redirect, RedirectTo: target} }

// Evaluate maps a session snapshot and a requested path to exactly one
// decision. Unknown paths send the user to their landing view.
func Evaluate(snap session.Snapshot, requested string) Decision {
	if snap.Bootstrapping {
		return Decision{Outcome: Loading}
	}

	p := Normalize(requested)

	if !snap.Authenticated() {
		switch p {
		case PathLogin, PathSignup:
			return render()
		default:
			return redirect(PathLogin)
		}
	}

	switch p {
	case PathLogin, PathSignup, PathRoot:
		return redirect(PathProfile)
	case PathMentors:
		if snap.Role() != models.RoleMentee {
			return redirect(PathProfile)
		}
		return render()
	case PathProfile, PathRequests, PathMessages:
		return render()
	default:
		return redirect(PathProfile)
	}
}

// Normalize strips the query and fragment, cleans the path and removes any
// trailing slash
func Normalize(requested string) string {
	if i := strings.IndexAny(requested, "?#"); i >= 0 {
		requested = requested[:i]
	}
	if !strings.HasPrefix(requested, "/") {
		requested = "/" + requested
	}
	return path.Clean(requested)
}

// NavItem is an entry of the navigation bar
type NavItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// Navigation returns the navigation entries available to the session. The
// mentors list is offered to mentees only and the requests label follows
// the role.
func Navigation(snap session.Snapshot) []NavItem {
	if !snap.Authenticated() {
		return []NavItem{
			{Path: PathLogin, Label: "Login"},
			{Path: PathSignup, Label: "Sign up"},
		}
	}

	items := []NavItem{{Path: PathProfile, Label: "Profile"}}
	if snap.Role() == models.RoleMentee {
		items = append(items, NavItem{Path: PathMentors, Label: "Mentors"})
	}

	requestsLabel := "Sent requests"
	if snap.Role() == models.RoleMentor {
		requestsLabel = "Received requests"
	}
	items = append(items,
		NavItem{Path: PathRequests, Label: requestsLabel},
		NavItem{Path: PathMessages, Label: "Messages"},
	)
	return items
}
