package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/getmentor/mentor-match-client/internal/views"
)

// MentorsHandler handles the mentor list actions of a mentee
type MentorsHandler struct {
	screens *views.Screens
}

func NewMentorsHandler(screens *views.Screens) *MentorsHandler {
	return &MentorsHandler{screens: screens}
}

type filtersBody struct {
	Search *string        `json:"search"`
	Sort   *views.SortKey `json:"sort"`
}

type draftBody struct {
	Message string `json:"message"`
}

// Filters handles PUT /api/mentors/filters. The list is filtered and
// sorted locally, nothing is refetched.
func (h *MentorsHandler) Filters(c *gin.Context) {
	var body filtersBody
	if !bindJSON(c, &body) {
		return
	}

	if body.Sort != nil {
		if err := h.screens.Mentors.SetSort(*body.Sort); err != nil {
			respondError(c, statusFor(err), "Invalid sort key", err)
			return
		}
	}
	if body.Search != nil {
		h.screens.Mentors.SetSearch(*body.Search)
	}

	respond(c, h.screens.Inbox, gin.H{"state": h.screens.Mentors.State()})
}

// SetDraft handles PUT /api/mentors/:id/draft
func (h *MentorsHandler) SetDraft(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body draftBody
	if !bindJSON(c, &body) {
		return
	}

	h.screens.Mentors.SetDraft(id, body.Message)
	respond(c, h.screens.Inbox, gin.H{"state": h.screens.Mentors.State()})
}

// SendRequest handles POST /api/mentors/:id/request. An optional message in
// the body replaces the stored draft first.
func (h *MentorsHandler) SendRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if c.Request.ContentLength > 0 {
		var body draftBody
		if !bindJSON(c, &body) {
			return
		}
		h.screens.Mentors.SetDraft(id, body.Message)
	}

	if err := h.screens.Mentors.SendRequest(c.Request.Context(), id); err != nil {
		respondFailure(c, h.screens.Inbox, err)
		return
	}

	respond(c, h.screens.Inbox, gin.H{"state": h.screens.Mentors.State()})
}
