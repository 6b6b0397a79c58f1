package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getmentor/mentor-match-client/internal/models"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

// CreateMatchRequest sends a mentoring request to a mentor
func (c *Client) CreateMatchRequest(ctx context.Context, mentorID int64, message string) (*models.MatchRequest, error) {
	var created models.MatchRequest
	err := c.do(ctx, request{
		operation: "create_match_request",
		method:    http.MethodPost,
		path:      "/match-requests",
		body:      &models.MatchRequestCreate{MentorID: mentorID, Message: message},
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// IncomingRequests lists requests received by the current mentor
func (c *Client) IncomingRequests(ctx context.Context) ([]models.MatchRequest, error) {
	return c.listRequests(ctx, "incoming_requests", "/match-requests/incoming")
}

// OutgoingRequests lists requests sent by the current mentee
func (c *Client) OutgoingRequests(ctx context.Context) ([]models.MatchRequest, error) {
	return c.listRequests(ctx, "outgoing_requests", "/match-requests/outgoing")
}

// AcceptRequest accepts a pending request as its mentor
func (c *Client) AcceptRequest(ctx context.Context, id int64) (*models.MatchRequest, error) {
	return c.transition(ctx, "accept_request", http.MethodPut, id, "/accept")
}

// RejectRequest rejects a pending request as its mentor
func (c *Client) RejectRequest(ctx context.Context, id int64) (*models.MatchRequest, error) {
	return c.transition(ctx, "reject_request", http.MethodPut, id, "/reject")
}

// CancelRequest withdraws a pending request as its mentee
func (c *Client) CancelRequest(ctx context.Context, id int64) (*models.MatchRequest, error) {
	return c.transition(ctx, "cancel_request", http.MethodDelete, id, "")
}

func (c *Client) listRequests(ctx context.Context, operation, path string) ([]models.MatchRequest, error) {
	requests := []models.MatchRequest{}
	err := c.do(ctx, request{
		operation: operation,
		method:    http.MethodGet,
		path:      path,
	}, &requests)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) transition(ctx context.Context, operation, method string, id int64, suffix string) (*models.MatchRequest, error) {
	if id <= 0 {
		return nil, apperrors.ValidationError("id", "request id must be positive")
	}

	var updated models.MatchRequest
	err := c.do(ctx, request{
		operation: operation,
		method:    method,
		path:      fmt.Sprintf("/match-requests/%d%s", id, suffix),
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
