package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-match/internal/domain"
)

// MatchRepository guarda los matches calculados para poder paginarlos sin recalcular.
type MatchRepository interface {
	Save(ctx context.Context, match domain.MatchResult) error
	TopMatches(ctx context.Context, userFID int64, limit int) ([]domain.MatchResult, error)
}

type PgMatchRepository struct {
	pool *pgxpool.Pool
}

func NewPgMatchRepository(pool *pgxpool.Pool) *PgMatchRepository {
	return &PgMatchRepository{pool: pool}
}

func (r *PgMatchRepository) Save(ctx context.Context, match domain.MatchResult) error {
	const query = `
		INSERT INTO matches (user_fid, match_fid, compatibility_score, match_details)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_fid, match_fid)
		DO UPDATE SET
			compatibility_score = EXCLUDED.compatibility_score,
			match_details = EXCLUDED.match_details,
			created_at = NOW()
	`
	details, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		match.UserFID,
		match.MatchFID,
		match.CompatibilityScore,
		details,
	)
	if err != nil {
		return fmt.Errorf("save match %d/%d: %w", match.UserFID, match.MatchFID, err)
	}
	return nil
}

// TopMatches devuelve los matches guardados de mayor a menor; empates por orden de insercion.
func (r *PgMatchRepository) TopMatches(ctx context.Context, userFID int64, limit int) ([]domain.MatchResult, error) {
	const query = `
		SELECT match_details
		FROM matches
		WHERE user_fid = $1
		ORDER BY compatibility_score DESC, id ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userFID, limit)
	if err != nil {
		return nil, fmt.Errorf("query matches %d: %w", userFID, err)
	}
	defer rows.Close()

	var out []domain.MatchResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var m domain.MatchResult
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, fmt.Errorf("decode match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
