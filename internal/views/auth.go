package views

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/getmentor/mentor-match-client/internal/guard"
	"github.com/getmentor/mentor-match-client/internal/models"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

// Authenticator is the session surface used by the login and signup views
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Signup(ctx context.Context, req models.SignupRequest) error
}

// LoginForm is the input of the login screen
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginView submits credentials. The form stays editable after a failure.
type LoginView struct {
	session    Authenticator
	notifier   Notifier
	submitting atomic.Bool
}

func NewLoginView(session Authenticator, notifier Notifier) *LoginView {
	return &LoginView{session: session, notifier: notifier}
}

// Submitting reports whether a login is in flight
func (v *LoginView) Submitting() bool {
	return v.submitting.Load()
}

// Submit logs in and returns the path to navigate to
func (v *LoginView) Submit(ctx context.Context, form LoginForm) (string, error) {
	if strings.TrimSpace(form.Email) == "" || form.Password == "" {
		err := apperrors.ValidationError("email", "Please enter your email and password.")
		notifyFailure(v.notifier, err, "")
		return "", err
	}
	if !v.submitting.CompareAndSwap(false, true) {
		return "", ErrActionInFlight
	}
	defer v.submitting.Store(false)

	if _, err := v.session.Login(ctx, strings.TrimSpace(form.Email), form.Password); err != nil {
		notifyFailure(v.notifier, err, "Login failed.")
		return "", err
	}
	return guard.PathProfile, nil
}

// SignupForm is the input of the signup screen
type SignupForm struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// SignupView creates an account. Success sends the user to the login screen.
type SignupView struct {
	session    Authenticator
	notifier   Notifier
	submitting atomic.Bool
}

func NewSignupView(session Authenticator, notifier Notifier) *SignupView {
	return &SignupView{session: session, notifier: notifier}
}

func (v *SignupView) Submitting() bool {
	return v.submitting.Load()
}

// Submit creates the account and returns the path to navigate to
func (v *SignupView) Submit(ctx context.Context, form SignupForm) (string, error) {
	if form.Role == "" {
		form.Role = models.RoleMentee
	}
	if !v.submitting.CompareAndSwap(false, true) {
		return "", ErrActionInFlight
	}
	defer v.submitting.Store(false)

	err := v.session.Signup(ctx, models.SignupRequest{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Name:     form.Name,
		Role:     form.Role,
	})
	if err != nil {
		notifyFailure(v.notifier, err, "Sign up failed.")
		return "", err
	}

	notify(v.notifier, LevelSuccess, "Account created. Please log in.")
	return guard.PathLogin, nil
}
