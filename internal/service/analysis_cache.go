package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crypto-match/internal/domain"
)

const defaultAnalysisCacheTTL = time.Hour

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// redisAnalysisCache guarda UserAnalysis serializado como JSON con TTL.
type redisAnalysisCache struct {
	client redisKVClient
	ttl    time.Duration
	prefix string
}

// NewRedisAnalysisCache devuelve nil si no hay cliente; el matchmaker trabaja sin cache.
func NewRedisAnalysisCache(client *redis.Client, ttl time.Duration) AnalysisCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultAnalysisCacheTTL
	}
	return &redisAnalysisCache{
		client: client,
		ttl:    ttl,
		prefix: "fid:analysis:",
	}
}

func (c *redisAnalysisCache) key(fid int64) string {
	return c.prefix + FIDKey(fid)
}

func (c *redisAnalysisCache) Get(ctx context.Context, fid int64) (domain.UserAnalysis, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.key(fid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.UserAnalysis{}, false, nil
	}
	if err != nil {
		return domain.UserAnalysis{}, false, fmt.Errorf("redis get analysis: %w", err)
	}

	var analysis domain.UserAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return domain.UserAnalysis{}, false, fmt.Errorf("decode cached analysis: %w", err)
	}
	return analysis, true, nil
}

func (c *redisAnalysisCache) Set(ctx context.Context, analysis domain.UserAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := c.client.Set(ctx, c.key(analysis.FID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set analysis: %w", err)
	}
	return nil
}
