package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getmentor/mentor-match-client/internal/models"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

// Image is a profile picture as served by the backend. Users without a
// stored avatar get a redirect to a placeholder instead of bytes.
type Image struct {
	Data        []byte
	ContentType string
	RedirectURL string
}

// ProfileImage fetches the avatar of a user
func (c *Client) ProfileImage(ctx context.Context, role models.Role, id int64) (*Image, error) {
	if !role.Valid() {
		return nil, apperrors.ValidationError("role", "role must be mentor or mentee")
	}
	if id <= 0 {
		return nil, apperrors.ValidationError("id", "user id must be positive")
	}

	req := request{
		operation: "profile_image",
		method:    http.MethodGet,
		path:      fmt.Sprintf("/images/%s/%d", role, id),
	}
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.status >= 300 && resp.status < 400:
		location := resp.header.Get("Location")
		if location == "" {
			return nil, fmt.Errorf("%w: redirect without location", ErrInvalidResponse)
		}
		return &Image{RedirectURL: location}, nil
	case resp.status >= 200 && resp.status < 300:
		contentType := resp.header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(resp.body)
		}
		return &Image{Data: resp.body, ContentType: contentType}, nil
	default:
		return nil, c.failure(ctx, req, resp)
	}
}
