package storage

import (
	"context"
	"errors"

	"github.com/ona-rest/ona/internal/models"
)

// ErrNotFound is returned when no article matches the id
var ErrNotFound = errors.New("article not found")

// Filter narrows List results
type Filter struct {
	PublishedOnly bool
	Limit         int64
}

// ArticleStore persists news articles
type ArticleStore interface {
	// List returns matching articles, newest first
	List(ctx context.Context, filter Filter) ([]models.Article, error)
	Get(ctx context.Context, id string) (*models.Article, error)
	// Create assigns the id and timestamps on a
	Create(ctx context.Context, a *models.Article) error
	// Update applies the patch and returns the updated article
	Update(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}
