package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ona-rest/ona/internal/models"
)

type entry struct {
	articles  []models.Article
	count     int64
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryClient provides an in-process implementation used when Redis is not configured
type MemoryClient struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (m *MemoryClient) Close() error {
	return nil
}

func (m *MemoryClient) lookup(key string) (entry, bool) {
	e, ok := m.data[key]
	if !ok {
		return entry{}, false
	}
	if e.expired(m.now()) {
		delete(m.data, key)
		return entry{}, false
	}
	return e, true
}

func (m *MemoryClient) GetPublished(ctx context.Context) ([]models.Article, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(publishedKey)
	if !ok {
		return nil, false, nil
	}
	out := make([]models.Article, len(e.articles))
	copy(out, e.articles)
	return out, true, nil
}

func (m *MemoryClient) SetPublished(ctx context.Context, articles []models.Article, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]models.Article, len(articles))
	copy(stored, articles)

	e := entry{articles: stored}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.data[publishedKey] = e
	return nil
}

func (m *MemoryClient) InvalidatePublished(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, publishedKey)
	return nil
}

func (m *MemoryClient) RecordFailedLogin(ctx context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := loginKey(key)
	e, ok := m.lookup(k)
	if !ok {
		e = entry{expiresAt: m.now().Add(window)}
	}
	e.count++
	m.data[k] = e
	return e.count, nil
}

func (m *MemoryClient) FailedLogins(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, _ := m.lookup(loginKey(key))
	return e.count, nil
}

func (m *MemoryClient) ResetFailedLogins(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, loginKey(key))
	return nil
}
