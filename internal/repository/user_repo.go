package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-match/internal/domain"
)

// UserRepository persiste el ultimo analisis de cada FID.
type UserRepository interface {
	Save(ctx context.Context, analysis domain.UserAnalysis) error
	GetByFID(ctx context.Context, fid int64) (domain.UserAnalysis, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Save(ctx context.Context, analysis domain.UserAnalysis) error {
	const query = `
		INSERT INTO users (fid, username, personality_type, personality_scores, analysis, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (fid)
		DO UPDATE SET
			username = EXCLUDED.username,
			personality_type = EXCLUDED.personality_type,
			personality_scores = EXCLUDED.personality_scores,
			analysis = EXCLUDED.analysis,
			updated_at = NOW()
	`
	scores, err := json.Marshal(analysis.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		analysis.FID,
		analysis.Username,
		analysis.PersonalityType,
		scores,
		payload,
	)
	if err != nil {
		return fmt.Errorf("save user %d: %w", analysis.FID, err)
	}
	return nil
}

func (r *PgUserRepository) GetByFID(ctx context.Context, fid int64) (domain.UserAnalysis, error) {
	const query = `
		SELECT analysis
		FROM users
		WHERE fid = $1
	`
	var payload []byte
	err := r.pool.QueryRow(ctx, query, fid).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserAnalysis{}, ErrNotFound
	}
	if err != nil {
		return domain.UserAnalysis{}, fmt.Errorf("get user %d: %w", fid, err)
	}

	var analysis domain.UserAnalysis
	if err := json.Unmarshal(payload, &analysis); err != nil {
		return domain.UserAnalysis{}, fmt.Errorf("decode user %d: %w", fid, err)
	}
	return analysis, nil
}
