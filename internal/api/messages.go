package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getmentor/mentor-match-client/internal/models"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
)

// SendMessage sends a direct message to a matched peer
func (c *Client) SendMessage(ctx context.Context, req models.MessageCreate) (*models.Message, error) {
	var sent models.Message
	err := c.do(ctx, request{
		operation: "send_message",
		method:    http.MethodPost,
		path:      "/messages",
		body:      &req,
	}, &sent)
	if err != nil {
		return nil, err
	}
	return &sent, nil
}

// MessagesWith returns the message history with one peer
func (c *Client) MessagesWith(ctx context.Context, userID int64) ([]models.Message, error) {
	if userID <= 0 {
		return nil, apperrors.ValidationError("userId", "peer id must be positive")
	}

	messages := []models.Message{}
	err := c.do(ctx, request{
		operation: "messages_with",
		method:    http.MethodGet,
		path:      fmt.Sprintf("/messages/%d", userID),
	}, &messages)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Conversations lists peers with their last message and unread count
func (c *Client) Conversations(ctx context.Context) ([]models.Conversation, error) {
	conversations := []models.Conversation{}
	err := c.do(ctx, request{
		operation: "conversations",
		method:    http.MethodGet,
		path:      "/conversations",
	}, &conversations)
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// UnreadCount returns the aggregate number of unread messages
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out models.UnreadCount
	err := c.do(ctx, request{
		operation: "unread_count",
		method:    http.MethodGet,
		path:      "/messages/unread-count",
	}, &out)
	if err != nil {
		return 0, err
	}

	metrics.UnreadMessages.Set(float64(out.UnreadCount))
	return out.UnreadCount, nil
}
