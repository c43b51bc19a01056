package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Domenick1991/travelquote/config"
	"github.com/Domenick1991/travelquote/internal/domain"
)

// RedisCache keeps async job status and the cached recent-quotations list.
// Job entries expire after jobTTL so finished jobs do not accumulate.
type RedisCache struct {
	client    *redis.Client
	jobTTL    time.Duration
	recentTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, jobTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		jobTTL,
		cfg.RecentTTL(),
	)
}

func NewRedisCacheWithClient(client *redis.Client, jobTTL, recentTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, jobTTL: jobTTL, recentTTL: recentTTL}
}

func (c *RedisCache) SaveJob(ctx context.Context, job *domain.GenerationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, jobKey(job.ID), payload, c.jobTTL).Err()
}

func (c *RedisCache) GetJob(ctx context.Context, id string) (*domain.GenerationJob, error) {
	data, err := c.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}

	var job domain.GenerationJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetRecent returns nil, nil on a cache miss.
func (c *RedisCache) GetRecent(ctx context.Context) ([]domain.QuotationSummary, error) {
	data, err := c.client.Get(ctx, recentKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var summaries []domain.QuotationSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *RedisCache) SetRecent(ctx context.Context, summaries []domain.QuotationSummary) error {
	payload, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, recentKey(), payload, c.recentTTL).Err()
}

func (c *RedisCache) InvalidateRecent(ctx context.Context) error {
	return c.client.Del(ctx, recentKey()).Err()
}

func recentKey() string {
	return "cache:quotations:recent"
}

func jobKey(id string) string {
	return "quotation:job:" + id
}
