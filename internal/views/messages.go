package views

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/internal/models"
	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
	"github.com/getmentor/mentor-match-client/pkg/logger"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
)

// MessagesAPI is the backend surface of the messages screen
type MessagesAPI interface {
	Conversations(ctx context.Context) ([]models.Conversation, error)
	MessagesWith(ctx context.Context, userID int64) ([]models.Message, error)
	SendMessage(ctx context.Context, req models.MessageCreate) (*models.Message, error)
	UnreadCount(ctx context.Context) (int, error)
}

// MessagesState is what the messages screen renders
type MessagesState struct {
	Loading       bool                  `json:"loading"`
	Conversations []models.Conversation `json:"conversations"`
	Peer          int64                 `json:"peer,omitempty"`
	History       []models.Message      `json:"history"`
	Unread        int                   `json:"unreadCount"`
	Pending       map[int64]bool        `json:"pending"`
	LastError     string                `json:"lastError,omitempty"`
}

// MessagesView lists conversations, shows the history with one peer and
// sends direct messages
type MessagesView struct {
	Lifecycle

	api      MessagesAPI
	notifier Notifier
	actions  ActionTracker

	mu            sync.Mutex
	loading       bool
	conversations []models.Conversation
	peer          int64
	history       []models.Message
	unread        int
	lastErr       error
}

func NewMessagesView(client MessagesAPI, notifier Notifier) *MessagesView {
	return &MessagesView{api: client, notifier: notifier, loading: true}
}

// Mount loads the conversation list and the unread count
func (v *MessagesView) Mount(ctx context.Context) {
	gen := v.mount()
	v.loadConversations(ctx, gen)
	v.loadUnread(ctx, gen)
}

func (v *MessagesView) loadConversations(ctx context.Context, gen uint64) {
	defer func() {
		if v.alive(gen) {
			v.mu.Lock()
			v.loading = false
			v.mu.Unlock()
		}
	}()

	conversations, err := v.api.Conversations(ctx)
	if !v.alive(gen) {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		logger.Error("Failed to load conversations", zap.Error(err))
		v.conversations = []models.Conversation{}
		v.lastErr = err
		return
	}
	v.conversations = conversations
	v.lastErr = nil
}

func (v *MessagesView) loadUnread(ctx context.Context, gen uint64) {
	count, err := v.api.UnreadCount(ctx)
	if err != nil {
		logger.Warn("Failed to load unread count", zap.Error(err))
		return
	}
	if v.alive(gen) {
		v.SetUnread(count)
	}
}

// Open loads the history with one peer
func (v *MessagesView) Open(ctx context.Context, peerID int64) error {
	gen := v.current()

	history, err := v.api.MessagesWith(ctx, peerID)
	if !v.alive(gen) {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.peer = peerID
	if err != nil {
		logger.Error("Failed to load message history", zap.Int64("peer_id", peerID), zap.Error(err))
		v.history = []models.Message{}
		v.lastErr = err
		return err
	}
	v.history = history
	v.lastErr = nil
	return nil
}

// Send delivers a message and refreshes the history and conversation list.
// A blank message is rejected without a network call.
func (v *MessagesView) Send(ctx context.Context, peerID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		err := apperrors.ValidationError("content", "Please enter a message.")
		notifyFailure(v.notifier, err, "")
		return err
	}

	if !v.actions.Begin(peerID) {
		return ErrActionInFlight
	}
	defer v.actions.End(peerID)

	gen := v.current()
	_, err := v.api.SendMessage(ctx, models.MessageCreate{ReceiverID: peerID, Content: text})
	metrics.MessagesSent.WithLabelValues(metrics.StatusLabel(err)).Inc()
	if err != nil {
		notifyFailure(v.notifier, err, "Failed to send message.")
		return err
	}

	if v.alive(gen) {
		_ = v.Open(ctx, peerID) //nolint:errcheck // failure is logged and kept in LastError
		v.loadConversations(ctx, gen)
	}
	return nil
}

// SetUnread records the latest unread count, also fed by the poller
func (v *MessagesView) SetUnread(count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.unread = count
}

// State returns what the screen renders
func (v *MessagesView) State() MessagesState {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := MessagesState{
		Loading:       v.loading,
		Conversations: append([]models.Conversation{}, v.conversations...),
		Peer:          v.peer,
		History:       append([]models.Message{}, v.history...),
		Unread:        v.unread,
		Pending:       v.actions.Snapshot(),
	}
	if v.lastErr != nil {
		state.LastError = apperrors.MessageOr(v.lastErr, "Failed to load messages.")
	}
	return state
}

// Reset drops everything loaded for the previous user
func (v *MessagesView) Reset() {
	v.Unmount()
	v.actions.reset()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = true
	v.conversations = nil
	v.peer = 0
	v.history = nil
	v.unread = 0
	v.lastErr = nil
}
