package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/getmentor/mentor-match-client/internal/guard"
	"github.com/getmentor/mentor-match-client/internal/session"
	"github.com/getmentor/mentor-match-client/internal/views"
)

// SessionControl is the session surface of the local front
type SessionControl interface {
	Snapshot() session.Snapshot
	Logout(ctx context.Context) error
}

// UnreadCounter exposes the last polled unread count
type UnreadCounter interface {
	Last() int
}

// ScreenHandler serves the state of each screen. The route guard has
// already decided that the screen may render.
type ScreenHandler struct {
	screens *views.Screens
	session SessionControl
	unread  UnreadCounter
}

func NewScreenHandler(screens *views.Screens, sess SessionControl, unread UnreadCounter) *ScreenHandler {
	return &ScreenHandler{screens: screens, session: sess, unread: unread}
}

// Login handles GET /login
func (h *ScreenHandler) Login(c *gin.Context) {
	h.screens.Enter(c.Request.Context(), guard.PathLogin)
	respond(c, h.screens.Inbox, gin.H{
		"screen":     guard.PathLogin,
		"submitting": h.screens.Login.Submitting(),
	})
}

// Signup handles GET /signup
func (h *ScreenHandler) Signup(c *gin.Context) {
	h.screens.Enter(c.Request.Context(), guard.PathSignup)
	respond(c, h.screens.Inbox, gin.H{
		"screen":     guard.PathSignup,
		"submitting": h.screens.Signup.Submitting(),
		"roles":      []string{"mentee", "mentor"},
	})
}

// Profile handles GET /profile
func (h *ScreenHandler) Profile(c *gin.Context) {
	h.screens.Enter(c.Request.Context(), guard.PathProfile)
	respond(c, h.screens.Inbox, gin.H{
		"screen": guard.PathProfile,
		"state":  h.screens.Profile.State(),
	})
}

// Mentors handles GET /mentors. Optional search and sort query parameters
// are applied before the list is fetched.
func (h *ScreenHandler) Mentors(c *gin.Context) {
	if search, ok := c.GetQuery("search"); ok {
		h.screens.Mentors.SetSearch(search)
	}
	if sort, ok := c.GetQuery("sort"); ok {
		if err := h.screens.Mentors.SetSort(views.SortKey(sort)); err != nil {
			respondError(c, statusFor(err), "Invalid sort key", err)
			return
		}
	}

	h.screens.Enter(c.Request.Context(), guard.PathMentors)
	respond(c, h.screens.Inbox, gin.H{
		"screen": guard.PathMentors,
		"state":  h.screens.Mentors.State(),
	})
}

// Requests handles GET /requests
func (h *ScreenHandler) Requests(c *gin.Context) {
	h.screens.Enter(c.Request.Context(), guard.PathRequests)
	respond(c, h.screens.Inbox, gin.H{
		"screen": guard.PathRequests,
		"state":  h.screens.Requests.State(),
	})
}

// Messages handles GET /messages
func (h *ScreenHandler) Messages(c *gin.Context) {
	h.screens.Enter(c.Request.Context(), guard.PathMessages)
	respond(c, h.screens.Inbox, gin.H{
		"screen": guard.PathMessages,
		"state":  h.screens.Messages.State(),
	})
}

// State handles GET /api/state: the session, the navigation it allows and
// any notices not yet shown
func (h *ScreenHandler) State(c *gin.Context) {
	snap := h.session.Snapshot()
	unread := 0
	if snap.Authenticated() && h.unread != nil {
		unread = h.unread.Last()
	}

	respond(c, h.screens.Inbox, gin.H{
		"session":     snap,
		"navigation":  guard.Navigation(snap),
		"unreadCount": unread,
	})
}
