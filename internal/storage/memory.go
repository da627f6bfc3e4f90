package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ona-rest/ona/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryURI selects the in-memory store instead of MongoDB
const MemoryURI = "memory"

// MemoryStore keeps articles in process memory. Used for local development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	articles map[string]models.Article
	now      func() time.Time
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles: make(map[string]models.Article),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) List(ctx context.Context, filter Filter) ([]models.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if filter.PublishedOnly && !a.Published {
			continue
		}
		out = append(out, a)
	}

	// Newest first; ids are ObjectIDs so they break ties in creation order
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && int64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryStore) Create(ctx context.Context, a *models.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a.ID = primitive.NewObjectID().Hex()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.articles[a.ID] = *a
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&a)
	a.UpdatedAt = s.now()
	s.articles[id] = a
	return &a, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return ErrNotFound
	}
	delete(s.articles, id)
	return nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}
