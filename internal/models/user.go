package models

import "strings"

// Role is one of the two fixed user roles
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleMentor || r == RoleMentee
}

// Profile is the public part of a user
type Profile struct {
	Name     string   `json:"name" validate:"max=200"`
	Bio      string   `json:"bio"`
	ImageURL string   `json:"imageUrl"`
	Skills   []string `json:"skills,omitempty"`
}

// User is the backend-owned account as returned by /me, /profile and /mentors
type User struct {
	ID      int64   `json:"id" validate:"gt=0"`
	Email   string  `json:"email" validate:"required"`
	Role    Role    `json:"role" validate:"oneof=mentor mentee"`
	Profile Profile `json:"profile"`
}

// IsMentor reports whether the user advertises skills
func (u *User) IsMentor() bool {
	return u != nil && u.Role == RoleMentor
}

// IsMentee reports whether the user may browse and request mentors
func (u *User) IsMentee() bool {
	return u != nil && u.Role == RoleMentee
}

// Initial returns the first letter of the display name, used as avatar fallback
func (u *User) Initial() string {
	if u == nil {
		return "U"
	}
	for _, r := range strings.TrimSpace(u.Profile.Name) {
		return strings.ToUpper(string(r))
	}
	return "U"
}

// ParseSkills splits a comma-separated skills input, trimming entries and
// dropping blanks
func ParseSkills(input string) []string {
	skills := []string{}
	for _, skill := range strings.Split(input, ",") {
		skill = strings.TrimSpace(skill)
		if skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

// JoinSkills renders skills back into the form input representation
func JoinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
