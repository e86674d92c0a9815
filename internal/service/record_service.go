package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"crypto-match/internal/domain"
	"crypto-match/internal/repository"
)

var ErrStorageDisabled = errors.New("storage not configured")

// RecordService persiste analisis, matches y eventos de analytics.
// Las escrituras son best-effort: un fallo se loguea y el request sigue.
// Cualquier repositorio puede ser nil.
type RecordService struct {
	users     repository.UserRepository
	matches   repository.MatchRepository
	analytics repository.AnalyticsRepository
	logger    *zap.Logger
}

func NewRecordService(
	users repository.UserRepository,
	matches repository.MatchRepository,
	analytics repository.AnalyticsRepository,
	logger *zap.Logger,
) *RecordService {
	return &RecordService{
		users:     users,
		matches:   matches,
		analytics: analytics,
		logger:    logger,
	}
}

func (s *RecordService) SaveAnalysis(ctx context.Context, analysis domain.UserAnalysis) {
	if s == nil || s.users == nil {
		return
	}
	if err := s.users.Save(ctx, analysis); err != nil {
		s.logger.Warn("save analysis failed", zap.Int64("fid", analysis.FID), zap.Error(err))
	}
}

func (s *RecordService) SaveMatches(ctx context.Context, matches []domain.MatchResult) {
	if s == nil || s.matches == nil {
		return
	}
	// Cada escritura es independiente: un fallo no corta el resto.
	for _, m := range matches {
		if err := s.matches.Save(ctx, m); err != nil {
			s.logger.Warn("save match failed",
				zap.Int64("user_fid", m.UserFID),
				zap.Int64("match_fid", m.MatchFID),
				zap.Error(err),
			)
		}
	}
}

// StoredMatches devuelve los matches guardados; ok es false si no hay storage o no hay filas.
func (s *RecordService) StoredMatches(ctx context.Context, userFID int64, limit int) ([]domain.MatchResult, bool) {
	if s == nil || s.matches == nil {
		return nil, false
	}
	matches, err := s.matches.TopMatches(ctx, userFID, limit)
	if err != nil {
		s.logger.Warn("load stored matches failed", zap.Int64("user_fid", userFID), zap.Error(err))
		return nil, false
	}
	return matches, len(matches) > 0
}

func (s *RecordService) StoredAnalysis(ctx context.Context, fid int64) (domain.UserAnalysis, bool) {
	if s == nil || s.users == nil {
		return domain.UserAnalysis{}, false
	}
	analysis, err := s.users.GetByFID(ctx, fid)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("load stored analysis failed", zap.Int64("fid", fid), zap.Error(err))
		}
		return domain.UserAnalysis{}, false
	}
	return analysis, true
}

func (s *RecordService) LogEvent(ctx context.Context, eventType string, fid int64, data map[string]any) {
	if s == nil || s.analytics == nil {
		return
	}
	event := domain.AnalyticsEvent{
		EventType: eventType,
		FID:       fid,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.analytics.Log(ctx, event); err != nil {
		s.logger.Warn("log analytics failed", zap.String("event_type", eventType), zap.Int64("fid", fid), zap.Error(err))
	}
}

func (s *RecordService) Summary(ctx context.Context, days int) (domain.AnalyticsSummary, error) {
	if s == nil || s.analytics == nil {
		return domain.AnalyticsSummary{}, ErrStorageDisabled
	}
	return s.analytics.Summary(ctx, days)
}
