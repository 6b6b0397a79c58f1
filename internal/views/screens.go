package views

import (
	"context"

	"github.com/getmentor/mentor-match-client/internal/guard"
)

// Backend is everything the screens need from the API client
type Backend interface {
	MentorsAPI
	RequestsAPI
	MessagesAPI
	ProfileAPI
}

// Session is everything the screens need from the session
type Session interface {
	Authenticator
	ProfileSession
}

// Screens holds one controller per screen and tracks which one is shown.
// Only the shown list screen is mounted.
type Screens struct {
	Inbox    *Inbox
	Login    *LoginView
	Signup   *SignupView
	Profile  *ProfileView
	Mentors  *MentorsView
	Requests *RequestsView
	Messages *MessagesView
}

func NewScreens(backend Backend, session Session, mentorOpts ...MentorsOption) *Screens {
	inbox := NewInbox()
	return &Screens{
		Inbox:    inbox,
		Login:    NewLoginView(session, inbox),
		Signup:   NewSignupView(session, inbox),
		Profile:  NewProfileView(backend, session, inbox),
		Mentors:  NewMentorsView(backend, inbox, mentorOpts...),
		Requests: NewRequestsView(backend, session, inbox),
		Messages: NewMessagesView(backend, inbox),
	}
}

// Enter shows the screen at path: the other list screens are unmounted and
// the target one fetches its data
func (s *Screens) Enter(ctx context.Context, path string) {
	path = guard.Normalize(path)

	if path != guard.PathMentors {
		s.Mentors.Unmount()
	}
	if path != guard.PathRequests {
		s.Requests.Unmount()
	}
	if path != guard.PathMessages {
		s.Messages.Unmount()
	}

	switch path {
	case guard.PathMentors:
		s.Mentors.Mount(ctx)
	case guard.PathRequests:
		s.Requests.Mount(ctx)
	case guard.PathMessages:
		s.Messages.Mount(ctx)
	}
}

// Reset clears all per-user state, used when the session ends
func (s *Screens) Reset() {
	s.Profile.Reset()
	s.Mentors.Reset()
	s.Requests.Reset()
	s.Messages.Reset()
}
