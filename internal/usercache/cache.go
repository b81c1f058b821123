package usercache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yungbote/neurobridge-onboarding/internal/domain/user"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
)

// Loader fetches the current user record. The user profile client
// satisfies it; the caller's token travels on ctx.
type Loader interface {
	ReloadCurrentUser(ctx context.Context) (*user.User, error)
}

// Cache keeps recently loaded user records keyed by id.
type Cache struct {
	log    *logger.Logger
	loader Loader
	users  *expirable.LRU[uuid.UUID, *user.User]
}

func New(log *logger.Logger, loader Loader, size int, ttl time.Duration) (*Cache, error) {
	if log == nil {
		return nil, errors.New("usercache: logger required")
	}
	if loader == nil {
		return nil, errors.New("usercache: loader required")
	}
	if size <= 0 {
		size = 4096
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{
		log:    log.With("service", "UserCache"),
		loader: loader,
		users:  expirable.NewLRU[uuid.UUID, *user.User](size, nil, ttl),
	}, nil
}

// Refresh reloads the user and replaces the cached entry. The entry is
// dropped on failure so stale profiling state is not served.
func (c *Cache) Refresh(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := c.loader.ReloadCurrentUser(ctx)
	if err != nil {
		c.users.Remove(userID)
		return nil, fmt.Errorf("refresh user: %w", err)
	}
	if u.ID != userID {
		c.log.Warn("reloaded user does not match caller", "user_id", userID, "loaded_user_id", u.ID)
		return nil, fmt.Errorf("refresh user: loaded %s, want %s", u.ID, userID)
	}
	c.users.Add(userID, u)
	return u, nil
}

func (c *Cache) Get(userID uuid.UUID) (*user.User, bool) {
	return c.users.Get(userID)
}

// Load returns the cached user, refreshing on a miss.
func (c *Cache) Load(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	if u, ok := c.Get(userID); ok {
		return u, nil
	}
	return c.Refresh(ctx, userID)
}
