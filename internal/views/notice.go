package views

import (
	"sync"
	"time"

	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

// Level is the severity of a notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a blocking notification the user has to acknowledge
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notices raised by views
type Notifier interface {
	Notify(n Notice)
}

// Inbox collects notices until the front drains them into a response
type Inbox struct {
	mu      sync.Mutex
	notices []Notice
}

func NewInbox() *Inbox {
	return &Inbox{}
}

func (i *Inbox) Notify(n Notice) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	i.mu.Lock()
	i.notices = append(i.notices, n)
	i.mu.Unlock()
}

// Drain returns and removes all pending notices, oldest first
func (i *Inbox) Drain() []Notice {
	i.mu.Lock()
	defer i.mu.Unlock()
	drained := i.notices
	i.notices = nil
	if drained == nil {
		return []Notice{}
	}
	return drained
}

func notify(n Notifier, level Level, message string) {
	n.Notify(Notice{Level: level, Message: message})
}

// notifyFailure surfaces the backend message verbatim, or fallback
func notifyFailure(n Notifier, err error, fallback string) {
	notify(n, LevelError, apperrors.MessageOr(err, fallback))
}
