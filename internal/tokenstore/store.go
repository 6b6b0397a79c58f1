// Package tokenstore persists the session bearer token across restarts.
// Only the session manager writes to a Store.
package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/getmentor/mentor-match-client/config"
)

// ErrNoToken is returned by Load when no token is persisted
var ErrNoToken = errors.New("no persisted token")

// Store is durable storage for a single token
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// New builds the store selected by configuration
func New(ctx context.Context, cfg config.TokenStoreConfig) (Store, error) {
	switch cfg.Store {
	case config.TokenStoreFile:
		return NewFileStore(cfg.File)
	case config.TokenStoreRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Profile), nil
	case config.TokenStoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", cfg.Store)
	}
}
