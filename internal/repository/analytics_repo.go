package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-match/internal/domain"
)

const popularPersonalitiesLimit = 5

type AnalyticsRepository interface {
	Log(ctx context.Context, event domain.AnalyticsEvent) error
	Summary(ctx context.Context, days int) (domain.AnalyticsSummary, error)
}

type PgAnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnalyticsRepository(pool *pgxpool.Pool) *PgAnalyticsRepository {
	return &PgAnalyticsRepository{pool: pool}
}

func (r *PgAnalyticsRepository) Log(ctx context.Context, event domain.AnalyticsEvent) error {
	const query = `
		INSERT INTO analytics (id, event_type, fid, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	id := uuid.New()
	if event.ID != "" {
		parsed, err := uuid.Parse(event.ID)
		if err != nil {
			return fmt.Errorf("event id: %w", err)
		}
		id = parsed
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	_, err = r.pool.Exec(ctx, query, id, event.EventType, event.FID, data, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("log event %s: %w", event.EventType, err)
	}
	return nil
}

// Summary agrega usuarios, matches y arquetipos mas frecuentes de los ultimos days dias.
func (r *PgAnalyticsRepository) Summary(ctx context.Context, days int) (domain.AnalyticsSummary, error) {
	if days <= 0 {
		days = 7
	}
	summary := domain.AnalyticsSummary{Days: days, PopularPersonalities: []domain.PersonalityCount{}}

	const usersQuery = `SELECT COUNT(*) FROM users WHERE created_at > NOW() - make_interval(days => $1)`
	if err := r.pool.QueryRow(ctx, usersQuery, days).Scan(&summary.TotalUsers); err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("count users: %w", err)
	}

	const matchesQuery = `SELECT COUNT(*) FROM matches WHERE created_at > NOW() - make_interval(days => $1)`
	if err := r.pool.QueryRow(ctx, matchesQuery, days).Scan(&summary.TotalMatches); err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("count matches: %w", err)
	}

	const popularQuery = `
		SELECT personality_type, COUNT(*) AS count
		FROM users
		WHERE created_at > NOW() - make_interval(days => $1)
		GROUP BY personality_type
		ORDER BY count DESC, personality_type ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, popularQuery, days, popularPersonalitiesLimit)
	if err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("popular personalities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc domain.PersonalityCount
		if err := rows.Scan(&pc.PersonalityType, &pc.Count); err != nil {
			return domain.AnalyticsSummary{}, err
		}
		summary.PopularPersonalities = append(summary.PopularPersonalities, pc)
	}
	return summary, rows.Err()
}
