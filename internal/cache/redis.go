package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ona-rest/ona/internal/models"
	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client *redis.Client
	prefix string
}

func NewRedisClient(ctx context.Context, url, prefix string) (*RedisClient, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		prefix: prefix,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) GetPublished(ctx context.Context) ([]models.Article, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+publishedKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get error: %w", err)
	}

	var articles []models.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached articles: %w", err)
	}
	return articles, true, nil
}

func (r *RedisClient) SetPublished(ctx context.Context, articles []models.Article, ttl time.Duration) error {
	data, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("failed to encode articles: %w", err)
	}
	return r.client.Set(ctx, r.prefix+publishedKey, data, ttl).Err()
}

func (r *RedisClient) InvalidatePublished(ctx context.Context) error {
	return r.client.Del(ctx, r.prefix+publishedKey).Err()
}

func (r *RedisClient) RecordFailedLogin(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := r.prefix + loginKey(key)

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr error: %w", err)
	}

	// The window starts at the first failure
	if n == 1 {
		if err := r.client.Expire(ctx, k, window).Err(); err != nil {
			return n, fmt.Errorf("redis expire error: %w", err)
		}
	}
	return n, nil
}

func (r *RedisClient) FailedLogins(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, r.prefix+loginKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get error: %w", err)
	}
	return n, nil
}

func (r *RedisClient) ResetFailedLogins(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+loginKey(key)).Err()
}
