package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/getmentor/mentor-match-client/internal/models"
)

// MentorQuery holds the optional server-side filter and sort of /mentors
type MentorQuery struct {
	Skill   string
	OrderBy string
}

func (q MentorQuery) values() url.Values {
	values := url.Values{}
	if q.Skill != "" {
		values.Set("skill", q.Skill)
	}
	if q.OrderBy != "" {
		values.Set("order_by", q.OrderBy)
	}
	return values
}

// ListMentors returns all mentors, optionally filtered and sorted by the backend
func (c *Client) ListMentors(ctx context.Context, query MentorQuery) ([]models.User, error) {
	mentors := []models.User{}
	err := c.do(ctx, request{
		operation: "list_mentors",
		method:    http.MethodGet,
		path:      "/mentors",
		query:     query.values(),
	}, &mentors)
	if err != nil {
		return nil, err
	}
	return mentors, nil
}
