package views

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/internal/avatar"
	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/internal/session"
	"github.com/getmentor/mentor-match-client/pkg/logger"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
)

// ProfileAPI is the backend surface of the profile screen
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest) (*models.User, error)
}

// ProfileSession is the session surface of the profile screen
type ProfileSession interface {
	Snapshot() session.Snapshot
	UpdateUser(user models.User)
	Refresh(ctx context.Context) (*models.User, error)
}

// ProfileForm holds the editable fields. Skills is the comma separated
// input as typed.
type ProfileForm struct {
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Skills string `json:"skills"`
}

// ProfileState is what the profile screen renders
type ProfileState struct {
	User   *models.User `json:"user"`
	Form   ProfileForm  `json:"form"`
	Saving bool         `json:"saving"`
}

// ProfileView edits the current user's profile and avatar
type ProfileView struct {
	api      ProfileAPI
	session  ProfileSession
	notifier Notifier
	saving   atomic.Bool

	mu     sync.Mutex
	form   ProfileForm
	seeded bool
}

func NewProfileView(client ProfileAPI, session ProfileSession, notifier Notifier) *ProfileView {
	return &ProfileView{api: client, session: session, notifier: notifier}
}

// Form returns the current form, seeded from the session user on first use
func (v *ProfileView) Form() ProfileForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seed()
	return v.form
}

func (v *ProfileView) seed() {
	if v.seeded {
		return
	}
	if user := v.session.Snapshot().User; user != nil {
		v.form = ProfileForm{
			Name:   user.Profile.Name,
			Bio:    user.Profile.Bio,
			Skills: models.JoinSkills(user.Profile.Skills),
		}
		v.seeded = true
	}
}

// SetForm replaces the edited fields without saving
func (v *ProfileView) SetForm(form ProfileForm) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = form
	v.seeded = true
}

// Save stores form as the current input and submits it
func (v *ProfileView) Save(ctx context.Context, form ProfileForm) error {
	v.SetForm(form)
	err := v.submit(ctx, form, "")
	metrics.ProfileUpdates.WithLabelValues(metrics.StatusLabel(err)).Inc()
	return err
}

// UploadAvatar validates the image locally, then submits it together with
// the current form. Invalid images never reach the backend.
func (v *ProfileView) UploadAvatar(ctx context.Context, src avatar.Source) error {
	encoded, err := avatar.Prepare(ctx, src)
	if err != nil {
		notifyFailure(v.notifier, err, "Failed to read image.")
		metrics.ProfilePictureUploads.WithLabelValues("rejected").Inc()
		return err
	}

	err = v.submit(ctx, v.Form(), encoded)
	metrics.ProfilePictureUploads.WithLabelValues(metrics.StatusLabel(err)).Inc()
	return err
}

func (v *ProfileView) submit(ctx context.Context, form ProfileForm, image string) error {
	snap := v.session.Snapshot()
	if !snap.Authenticated() {
		return session.ErrNoSession
	}
	if !v.saving.CompareAndSwap(false, true) {
		return ErrActionInFlight
	}
	defer v.saving.Store(false)

	req := models.ProfileUpdateRequest{
		Name:  form.Name,
		Bio:   form.Bio,
		Image: image,
	}
	if snap.User.IsMentor() {
		req.Skills = models.ParseSkills(form.Skills)
	}

	updated, err := v.api.UpdateProfile(ctx, req)
	if err != nil {
		notifyFailure(v.notifier, err, "Failed to update profile.")
		return err
	}

	v.session.UpdateUser(*updated)
	notify(v.notifier, LevelSuccess, "Profile updated successfully.")

	// best effort: the save already succeeded
	if _, err := v.session.Refresh(ctx); err != nil {
		logger.Debug("Identity refresh after profile save failed", zap.Error(err))
	}
	return nil
}

// State returns what the screen renders
func (v *ProfileView) State() ProfileState {
	return ProfileState{
		User:   v.session.Snapshot().User,
		Form:   v.Form(),
		Saving: v.saving.Load(),
	}
}

// Reset forgets the edited form so the next user starts from their profile
func (v *ProfileView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = ProfileForm{}
	v.seeded = false
}
