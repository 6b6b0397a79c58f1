package api

import (
	"context"
	"net/http"

	"github.com/getmentor/mentor-match-client/internal/models"
)

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var out models.TokenResponse
	err := c.do(ctx, request{
		operation: "login",
		method:    http.MethodPost,
		path:      "/login",
		body:      &req,
		anonymous: true,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

// Signup creates an account. The session is not touched: the user logs in
// afterwards.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) error {
	return c.do(ctx, request{
		operation: "signup",
		method:    http.MethodPost,
		path:      "/signup",
		body:      &req,
		anonymous: true,
	}, nil)
}

// Me fetches the identity of the token holder
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	err := c.do(ctx, request{
		operation: "me",
		method:    http.MethodGet,
		path:      "/me",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
