package cache

import (
	"context"
	"time"

	"github.com/ona-rest/ona/internal/models"
	"github.com/ona-rest/ona/internal/utils"
)

const publishedKey = "news:published"

// Store caches the public article listing and counts failed admin logins
type Store interface {
	// GetPublished returns the cached published listing; ok is false on a miss
	GetPublished(ctx context.Context) (articles []models.Article, ok bool, err error)
	SetPublished(ctx context.Context, articles []models.Article, ttl time.Duration) error
	InvalidatePublished(ctx context.Context) error

	// RecordFailedLogin increments the counter for key and returns the count inside the window
	RecordFailedLogin(ctx context.Context, key string, window time.Duration) (int64, error)
	FailedLogins(ctx context.Context, key string) (int64, error)
	ResetFailedLogins(ctx context.Context, key string) error

	Close() error
}

// loginKey hashes the client key so raw addresses never land in redis
func loginKey(key string) string {
	return "login:failed:" + utils.Hash(key)
}
