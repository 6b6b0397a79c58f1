package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/getmentor/mentor-match-client/internal/views"
)

// MessagesHandler opens conversations and sends direct messages
type MessagesHandler struct {
	screens *views.Screens
}

func NewMessagesHandler(screens *views.Screens) *MessagesHandler {
	return &MessagesHandler{screens: screens}
}

type messageBody struct {
	Content string `json:"content"`
}

// Open handles GET /api/messages/:peer
func (h *MessagesHandler) Open(c *gin.Context) {
	peer, ok := pathID(c, "peer")
	if !ok {
		return
	}

	if err := h.screens.Messages.Open(c.Request.Context(), peer); err != nil {
		respondFailure(c, h.screens.Inbox, err)
		return
	}

	respond(c, h.screens.Inbox, gin.H{"state": h.screens.Messages.State()})
}

// Send handles POST /api/messages/:peer
func (h *MessagesHandler) Send(c *gin.Context) {
	peer, ok := pathID(c, "peer")
	if !ok {
		return
	}
	var body messageBody
	if !bindJSON(c, &body) {
		return
	}

	if err := h.screens.Messages.Send(c.Request.Context(), peer, body.Content); err != nil {
		respondFailure(c, h.screens.Inbox, err)
		return
	}

	respond(c, h.screens.Inbox, gin.H{"state": h.screens.Messages.State()})
}
