package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"crypto-match/internal/repository"
)

type postgresRateLimiter struct {
	repo   repository.RateLimitRepository
	window time.Duration
	max    int
}

// NewPostgresRateLimiter usa la tabla rate_limits cuando no hay Redis. Si la base falla, deja pasar.
func NewPostgresRateLimiter(repo repository.RateLimitRepository, window time.Duration, max int) RateLimiter {
	if repo == nil {
		return nil
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	if max <= 0 {
		max = defaultRateLimitMax
	}
	return &postgresRateLimiter{repo: repo, window: window, max: max}
}

func (l *postgresRateLimiter) Allow(key string) bool {
	fid, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	if err != nil || fid <= 0 {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	count, err := l.repo.Hit(ctx, fid, l.window)
	if err != nil {
		return true
	}
	return count <= l.max
}
