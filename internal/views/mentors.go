package views

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/getmentor/mentor-match-client/internal/api"
	"github.com/getmentor/mentor-match-client/internal/models"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
	"github.com/getmentor/mentor-match-client/pkg/logger"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
)

// MentorsAPI is the backend surface of the mentors screen
type MentorsAPI interface {
	ListMentors(ctx context.Context, query api.MentorQuery) ([]models.User, error)
	CreateMatchRequest(ctx context.Context, mentorID int64, message string) (*models.MatchRequest, error)
}

// MentorsState is what the mentors screen renders
type MentorsState struct {
	Loading   bool             `json:"loading"`
	Mentors   []models.User    `json:"mentors"`
	Search    string           `json:"search"`
	Sort      SortKey          `json:"sort"`
	Drafts    map[int64]string `json:"drafts"`
	Pending   map[int64]bool   `json:"pending"`
	LastError string           `json:"lastError,omitempty"`
}

// MentorsView lists mentors for a mentee, filters and sorts them locally and
// sends match requests
type MentorsView struct {
	Lifecycle

	api          MentorsAPI
	notifier     Notifier
	serverFilter bool
	locale       language.Tag
	actions      ActionTracker

	mu      sync.Mutex
	mentors []models.User
	loading bool
	lastErr error
	search  string
	sortBy  SortKey
	drafts  map[int64]string
}

// MentorsOption configures a MentorsView
type MentorsOption func(*MentorsView)

// WithServerFilter forwards search and sort to the backend as well. The
// local pass still decides what is shown.
func WithServerFilter(enabled bool) MentorsOption {
	return func(v *MentorsView) { v.serverFilter = enabled }
}

// WithLocale sets the collation locale for sorting
func WithLocale(tag language.Tag) MentorsOption {
	return func(v *MentorsView) { v.locale = tag }
}

func NewMentorsView(client MentorsAPI, notifier Notifier, opts ...MentorsOption) *MentorsView {
	v := &MentorsView{
		api:      client,
		notifier: notifier,
		locale:   language.Und,
		loading:  true,
		drafts:   make(map[int64]string),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount fetches the mentor list. Loading is cleared whatever the outcome;
// a failed fetch leaves an empty list.
func (v *MentorsView) Mount(ctx context.Context) {
	gen := v.mount()

	v.mu.Lock()
	v.loading = true
	query := v.query()
	v.mu.Unlock()

	mentors, err := v.api.ListMentors(ctx, query)

	defer func() {
		if v.alive(gen) {
			v.mu.Lock()
			v.loading = false
			v.mu.Unlock()
		}
	}()

	if !v.alive(gen) {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		logger.Error("Failed to load mentors", zap.Error(err))
		v.mentors = []models.User{}
		v.lastErr = err
		return
	}
	v.mentors = mentors
	v.lastErr = nil
}

func (v *MentorsView) query() api.MentorQuery {
	if !v.serverFilter {
		return api.MentorQuery{}
	}
	return api.MentorQuery{Skill: strings.TrimSpace(v.search), OrderBy: string(v.sortBy)}
}

// SetSearch changes the skill search term
func (v *MentorsView) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = term
}

// SetSort changes the ordering
func (v *MentorsView) SetSort(key SortKey) error {
	if !key.Valid() {
		return apperrors.ValidationError("sort", "sort must be one of: name, skill")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sortBy = key
	return nil
}

// Visible returns the filtered and sorted mentors
func (v *MentorsView) Visible() []models.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible()
}

func (v *MentorsView) visible() []models.User {
	out := FilterBySkill(v.mentors, v.search)
	SortMentors(out, v.sortBy, v.locale)
	return out
}

// SetDraft stores the request message typed for a mentor
func (v *MentorsView) SetDraft(mentorID int64, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drafts[mentorID] = text
}

// Draft returns the request message typed for a mentor
func (v *MentorsView) Draft(mentorID int64) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.drafts[mentorID]
}

// SendRequest sends the drafted message to a mentor. A blank draft is
// rejected without a network call.
func (v *MentorsView) SendRequest(ctx context.Context, mentorID int64) error {
	message := v.Draft(mentorID)
	if strings.TrimSpace(message) == "" {
		err := apperrors.ValidationError("message", "Please enter a message.")
		notifyFailure(v.notifier, err, "")
		return err
	}

	if !v.actions.Begin(mentorID) {
		return ErrActionInFlight
	}
	defer v.actions.End(mentorID)

	gen := v.current()
	_, err := v.api.CreateMatchRequest(ctx, mentorID, message)
	metrics.MatchRequestActions.WithLabelValues("create", metrics.StatusLabel(err)).Inc()
	if err != nil {
		notifyFailure(v.notifier, err, "Failed to send request.")
		return err
	}

	notify(v.notifier, LevelSuccess, "Match request sent!")
	if v.alive(gen) {
		v.mu.Lock()
		v.drafts[mentorID] = ""
		v.mu.Unlock()
	}
	return nil
}

// State returns what the screen renders
func (v *MentorsView) State() MentorsState {
	v.mu.Lock()
	defer v.mu.Unlock()

	drafts := make(map[int64]string, len(v.drafts))
	for id, text := range v.drafts {
		if text != "" {
			drafts[id] = text
		}
	}

	state := MentorsState{
		Loading: v.loading,
		Mentors: v.visible(),
		Search:  v.search,
		Sort:    v.sortBy,
		Drafts:  drafts,
		Pending: v.actions.Snapshot(),
	}
	if v.lastErr != nil {
		state.LastError = apperrors.MessageOr(v.lastErr, "Failed to load mentors.")
	}
	return state
}

// Reset drops everything loaded for the previous user
func (v *MentorsView) Reset() {
	v.Unmount()
	v.actions.reset()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.mentors = nil
	v.loading = true
	v.lastErr = nil
	v.search = ""
	v.sortBy = SortNone
	v.drafts = make(map[int64]string)
}
