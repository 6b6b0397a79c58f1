package api

import (
	"context"
	"net/http"

	"github.com/getmentor/mentor-match-client/internal/models"
)

// UpdateProfile saves name, bio, skills and avatar, returning the updated user
func (c *Client) UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest) (*models.User, error) {
	var user models.User
	err := c.do(ctx, request{
		operation: "update_profile",
		method:    http.MethodPut,
		path:      "/profile",
		body:      &req,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
