package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/getmentor/mentor-match-client/internal/views"
)

// RequestsHandler handles accept, reject and cancel of match requests
type RequestsHandler struct {
	screens *views.Screens
}

func NewRequestsHandler(screens *views.Screens) *RequestsHandler {
	return &RequestsHandler{screens: screens}
}

// Accept handles POST /api/requests/:id/accept
func (h *RequestsHandler) Accept(c *gin.Context) {
	h.act(c, h.screens.Requests.Accept)
}

// Reject handles POST /api/requests/:id/reject
func (h *RequestsHandler) Reject(c *gin.Context) {
	h.act(c, h.screens.Requests.Reject)
}

// Cancel handles POST /api/requests/:id/cancel
func (h *RequestsHandler) Cancel(c *gin.Context) {
	h.act(c, h.screens.Requests.Cancel)
}

func (h *RequestsHandler) act(c *gin.Context, action func(ctx context.Context, id int64) error) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := action(c.Request.Context(), id); err != nil {
		respondFailure(c, h.screens.Inbox, err)
		return
	}

	respond(c, h.screens.Inbox, gin.H{"state": h.screens.Requests.State()})
}
