package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/internal/session"
	"github.com/getmentor/mentor-match-client/pkg/logger"
)

// resetter forgets state that belonged to the previous user
type resetter interface {
	Reset()
}

type flusher interface {
	Flush()
}

// watchSession drops per-user state whenever the identity behind the
// session changes, so the next user never sees the previous one's lists,
// drafts or pictures. Events may be coalesced, so the snapshot identity is
// compared as well as the event kind.
func watchSession(ctx context.Context, events <-chan session.Event, screens resetter, avatars flusher, unread resetter) {
	var (
		seen    bool
		current int64
	)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}

			id := userID(event.Snapshot)
			changed := seen && id != current
			seen, current = true, id

			if !changed && event.Kind != session.EventLoggedIn && event.Kind != session.EventLoggedOut {
				continue
			}
			screens.Reset()
			avatars.Flush()
			unread.Reset()
			logger.Info("Per-user state cleared", zap.String("event", string(event.Kind)), zap.Int64("user_id", id))
		}
	}
}

// userID is zero for an anonymous snapshot
func userID(snap session.Snapshot) int64 {
	if snap.User == nil {
		return 0
	}
	return snap.User.ID
}
