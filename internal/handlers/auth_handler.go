package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getmentor/mentor-match-client/internal/guard"
	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/internal/views"
)

// AuthHandler handles login, signup and logout
type AuthHandler struct {
	screens *views.Screens
	session SessionControl
}

func NewAuthHandler(screens *views.Screens, sess SessionControl) *AuthHandler {
	return &AuthHandler{screens: screens, session: sess}
}

type signupBody struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name" binding:"required,max=100"`
	Role     models.Role `json:"role" binding:"omitempty,oneof=mentor mentee"`
}

// rejectAuthenticated answers 409 when a user is already logged in. Switching
// accounts goes through logout so per-user state is dropped first.
func (h *AuthHandler) rejectAuthenticated(c *gin.Context) bool {
	if !h.session.Snapshot().Authenticated() {
		return false
	}
	respondWithStatus(c, http.StatusConflict, h.screens.Inbox, gin.H{
		"error": "Already logged in",
		"next":  guard.PathProfile,
	})
	return true
}

// Login handles POST /api/login. Blank fields are reported by the view.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.rejectAuthenticated(c) {
		return
	}

	var form views.LoginForm
	if !bindJSON(c, &form) {
		return
	}

	next, err := h.screens.Login.Submit(c.Request.Context(), form)
	if err != nil {
		respondFailure(c, h.screens.Inbox, err)
		return
	}

	respond(c, h.screens.Inbox, gin.H{
		"next":    next,
		"session": h.session.Snapshot(),
	})
}

// Signup handles POST /api/signup. The user is sent to the login screen.
func (h *AuthHandler) Signup(c *gin.Context) {
	if h.rejectAuthenticated(c) {
		return
	}

	var body signupBody
	if !bindJSON(c, &body) {
		return
	}

	next, err := h.screens.Signup.Submit(c.Request.Context(), views.SignupForm{
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
		Role:     body.Role,
	})
	if err != nil {
		respondFailure(c, h.screens.Inbox, err)
		return
	}

	respondWithStatus(c, http.StatusCreated, h.screens.Inbox, gin.H{"next": next})
}

// Logout handles POST /api/logout. It always succeeds locally.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		attachError(c, err)
	}
	respond(c, h.screens.Inbox, gin.H{"next": guard.PathLogin})
}
