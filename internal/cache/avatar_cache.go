package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/getmentor/mentor-match-client/internal/api"
	"github.com/getmentor/mentor-match-client/internal/models"
	"github.com/getmentor/mentor-match-client/pkg/logger"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
)

const avatarCacheName = "avatars"

// ImageFetcher loads a profile picture from the backend
type ImageFetcher interface {
	ProfileImage(ctx context.Context, role models.Role, id int64) (*api.Image, error)
}

// AvatarCache keeps recently served profile pictures in memory. Entries
// belong to the logged-in user's view of the backend and are flushed when
// the session ends.
type AvatarCache struct {
	cache   *gocache.Cache
	fetcher ImageFetcher
}

// NewAvatarCache creates a cache whose entries live for ttl. A non-positive
// ttl disables caching.
func NewAvatarCache(fetcher ImageFetcher, ttl time.Duration) *AvatarCache {
	var store *gocache.Cache
	if ttl > 0 {
		store = gocache.New(ttl, 2*ttl)
	}
	return &AvatarCache{cache: store, fetcher: fetcher}
}

func avatarKey(role models.Role, id int64) string {
	return fmt.Sprintf("%s:%d", role, id)
}

// Get returns the picture from cache or fetches it on a miss. Failures are
// not cached.
func (ac *AvatarCache) Get(ctx context.Context, role models.Role, id int64) (*api.Image, error) {
	key := avatarKey(role, id)

	if ac.cache != nil {
		if data, found := ac.cache.Get(key); found {
			if img, ok := data.(*api.Image); ok {
				metrics.CacheHits.WithLabelValues(avatarCacheName).Inc()
				return img, nil
			}
			logger.Error("Invalid avatar cache data type", zap.String("key", key))
			ac.cache.Delete(key)
		}
		metrics.CacheMisses.WithLabelValues(avatarCacheName).Inc()
	}

	img, err := ac.fetcher.ProfileImage(ctx, role, id)
	if err != nil {
		return nil, err
	}

	if ac.cache != nil {
		ac.cache.SetDefault(key, img)
	}
	return img, nil
}

// Invalidate drops one user's picture, used after they upload a new one
func (ac *AvatarCache) Invalidate(role models.Role, id int64) {
	if ac.cache != nil {
		ac.cache.Delete(avatarKey(role, id))
	}
}

// Flush drops every entry
func (ac *AvatarCache) Flush() {
	if ac.cache != nil {
		ac.cache.Flush()
		logger.Debug("Avatar cache flushed")
	}
}

// Len returns the number of cached pictures
func (ac *AvatarCache) Len() int {
	if ac.cache == nil {
		return 0
	}
	return ac.cache.ItemCount()
}
