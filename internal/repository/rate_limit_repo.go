package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RateLimitRepository cuenta requests por FID en una ventana fija.
type RateLimitRepository interface {
	Hit(ctx context.Context, fid int64, window time.Duration) (int, error)
}

type PgRateLimitRepository struct {
	pool *pgxpool.Pool
}

func NewPgRateLimitRepository(pool *pgxpool.Pool) *PgRateLimitRepository {
	return &PgRateLimitRepository{pool: pool}
}

// Hit incrementa el contador del FID y devuelve el valor resultante.
// Si la ventana vencio, el contador vuelve a 1.
func (r *PgRateLimitRepository) Hit(ctx context.Context, fid int64, window time.Duration) (int, error) {
	const query = `
		INSERT INTO rate_limits (fid, request_count, last_reset)
		VALUES ($1, 1, NOW())
		ON CONFLICT (fid)
		DO UPDATE SET
			request_count = CASE
				WHEN rate_limits.last_reset < NOW() - make_interval(secs => $2) THEN 1
				ELSE rate_limits.request_count + 1
			END,
			last_reset = CASE
				WHEN rate_limits.last_reset < NOW() - make_interval(secs => $2) THEN NOW()
				ELSE rate_limits.last_reset
			END
		RETURNING request_count
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, fid, window.Seconds()).Scan(&count); err != nil {
		return 0, fmt.Errorf("rate limit hit %d: %w", fid, err)
	}
	return count, nil
}
