package models

// LoginRequest is the payload of POST /login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the payload of POST /signup
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Role     Role   `json:"role" validate:"required,oneof=mentor mentee"`
}

// TokenResponse is the response of POST /login
type TokenResponse struct {
	Token string `json:"token" validate:"required"`
}

// ProfileUpdateRequest is the payload of PUT /profile. Image carries the
// avatar as standard base64 without a data URI prefix.
type ProfileUpdateRequest struct {
	Name   string   `json:"name" validate:"required,notblank,max=100"`
	Bio    string   `json:"bio" validate:"max=5000"`
	Image  string   `json:"image,omitempty" validate:"omitempty,base64"`
	Skills []string `json:"skills,omitempty" validate:"omitempty,max=30,dive,notblank,max=50"`
}
