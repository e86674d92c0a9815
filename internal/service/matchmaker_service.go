package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"crypto-match/internal/catalog"
	"crypto-match/internal/domain"
	"crypto-match/internal/farcaster"
	"crypto-match/internal/metrics"
)

const (
	candidateBatchSize = 20
	defaultMatchLimit  = 5
	sampledComedyLines = 2
	listedFlags        = 3
)

var (
	ErrInvalidFID = errors.New("invalid fid")
	ErrNoMatches  = errors.New("no matches found")
)

// ContentRenderer genera el texto humoristico de un match. No puede fallar:
// cualquier degradacion se resuelve dentro del renderer.
type ContentRenderer interface {
	Render(ctx context.Context, user, match domain.UserAnalysis, score int) domain.MatchContent
}

// AnalysisCache guarda analisis recientes por FID. Es opcional.
type AnalysisCache interface {
	Get(ctx context.Context, fid int64) (domain.UserAnalysis, bool, error)
	Set(ctx context.Context, analysis domain.UserAnalysis) error
}

// MatchmakerService orquesta analisis, puntaje y ranking de candidatos.
type MatchmakerService struct {
	client     farcaster.Client
	catalog    *catalog.Catalog
	classifier *PersonalityClassifier
	engine     *CompatibilityEngine
	candidates *CandidateSource
	renderer   ContentRenderer
	cache      AnalysisCache
	metrics    *metrics.Metrics
	logger     *zap.Logger
	picker     *picker
	batchSize  int
}

func NewMatchmakerService(
	client farcaster.Client,
	c *catalog.Catalog,
	renderer ContentRenderer,
	cache AnalysisCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *MatchmakerService {
	return &MatchmakerService{
		client:     client,
		catalog:    c,
		classifier: NewPersonalityClassifier(c),
		engine:     NewCompatibilityEngine(c),
		candidates: NewCandidateSource(client, logger),
		renderer:   renderer,
		cache:      cache,
		metrics:    m,
		logger:     logger,
		picker:     newPicker(),
		batchSize:  candidateBatchSize,
	}
}

// Personalities lista los arquetipos disponibles en orden de catalogo.
func (s *MatchmakerService) Personalities() []domain.PersonalitySummary {
	return s.catalog.Summaries()
}

// AnalyzeUser obtiene los datos del usuario y determina su arquetipo.
func (s *MatchmakerService) AnalyzeUser(ctx context.Context, fid int64) (domain.UserAnalysis, error) {
	if fid <= 0 {
		return domain.UserAnalysis{}, ErrInvalidFID
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, fid)
		if err != nil {
			s.logger.Debug("analysis cache get failed", zap.Int64("fid", fid), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	data, err := s.client.UserData(ctx, fid)
	if err != nil {
		return domain.UserAnalysis{}, fmt.Errorf("fetch user data %d: %w", fid, err)
	}
	if data.FID == 0 {
		data.FID = fid
	}

	analysis, err := s.AnalyzeUserData(data)
	if err != nil {
		return domain.UserAnalysis{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, analysis); err != nil {
			s.logger.Debug("analysis cache set failed", zap.Int64("fid", fid), zap.Error(err))
		}
	}
	return analysis, nil
}

// AnalyzeUserData puntua y clasifica un registro ya obtenido.
func (s *MatchmakerService) AnalyzeUserData(data domain.UserData) (domain.UserAnalysis, error) {
	scores := ScoreTraits(data)

	personalityID, err := s.classifier.Classify(scores)
	if err != nil {
		return domain.UserAnalysis{}, fmt.Errorf("classify fid %d: %w", data.FID, err)
	}
	profile, ok := s.catalog.Get(personalityID)
	if !ok {
		return domain.UserAnalysis{}, fmt.Errorf("classify fid %d: personality %q missing from catalog", data.FID, personalityID)
	}

	username := data.Username
	if username == "" {
		username = fmt.Sprintf("user_%d", data.FID)
	}

	s.metrics.ObserveAnalysis(profile.ID)

	return domain.UserAnalysis{
		FID:              data.FID,
		Username:         username,
		DisplayName:      data.DisplayName,
		PfpURL:           data.PfpURL,
		PersonalityType:  profile.ID,
		PersonalityName:  profile.Name,
		PersonalityEmoji: profile.Emoji,
		Description:      profile.Description,
		Scores:           scores,
		Traits:           profile.Traits,
		ComedyLines:      s.picker.sample(profile.ComedyLines, sampledComedyLines),
		RedFlags:         firstN(profile.RedFlags, listedFlags),
		GreenFlags:       firstN(profile.GreenFlags, listedFlags),
		AnalyzedAt:       time.Now().UTC(),
	}, nil
}

// FindMatches devuelve los limit candidatos mas compatibles con fid.
// Solo falla si el propio usuario no puede analizarse o si no queda ningun candidato.
func (s *MatchmakerService) FindMatches(ctx context.Context, fid int64, limit int) ([]domain.MatchResult, error) {
	started := time.Now()
	if limit <= 0 {
		limit = defaultMatchLimit
	}

	user, err := s.AnalyzeUser(ctx, fid)
	if err != nil {
		s.metrics.ObserveMatchRequest("error", started)
		return nil, err
	}

	candidates := s.candidates.Candidates(ctx, fid)
	matches := s.Rank(ctx, user, candidates, limit)
	if len(matches) == 0 {
		s.metrics.ObserveMatchRequest("no_matches", started)
		return nil, ErrNoMatches
	}

	for i := range matches {
		content := s.renderer.Render(ctx, user, *matches[i].MatchAnalysis, matches[i].CompatibilityScore)
		matches[i].Content = &content
	}

	s.metrics.ObserveMatchRequest("ok", started)
	return matches, nil
}

// Rank puntua los candidatos en lotes concurrentes y devuelve el top-limit.
// Un candidato que falla se descarta; el orden de candidatos desempata.
func (s *MatchmakerService) Rank(ctx context.Context, user domain.UserAnalysis, candidates []int64, limit int) []domain.MatchResult {
	if limit <= 0 {
		limit = defaultMatchLimit
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	slots := make([]*domain.MatchResult, len(candidates))
	dropped := 0
	var droppedMu sync.Mutex

	for start := 0; start < len(candidates); start += s.batchSize {
		end := min(start+s.batchSize, len(candidates))

		var g errgroup.Group
		for i := start; i < end; i++ {
			fid := candidates[i]
			g.Go(func() error {
				if fid == user.FID {
					return nil
				}
				match, err := s.scoreCandidate(ctx, user, fid)
				if err != nil {
					s.logger.Debug("candidate dropped", zap.Int64("match_fid", fid), zap.Error(err))
					droppedMu.Lock()
					dropped++
					droppedMu.Unlock()
					return nil
				}
				slots[i] = &match
				return nil
			})
		}
		_ = g.Wait()
	}

	results := make([]domain.MatchResult, 0, len(candidates))
	for _, m := range slots {
		if m != nil {
			results = append(results, *m)
		}
	}
	s.metrics.ObserveCandidates(len(results), dropped)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompatibilityScore > results[j].CompatibilityScore
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// ResolveFID acepta un FID numerico o un username (con o sin "@").
// Los usernames solo se resuelven si el cliente implementa farcaster.UserResolver.
func (s *MatchmakerService) ResolveFID(ctx context.Context, ref string) (int64, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "@")
	if ref == "" {
		return 0, ErrInvalidFID
	}
	if fid, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if fid <= 0 {
			return 0, ErrInvalidFID
		}
		return fid, nil
	}

	resolver, ok := s.client.(farcaster.UserResolver)
	if !ok {
		return 0, ErrInvalidFID
	}
	user, err := resolver.UserByUsername(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("resolve username %q: %w", ref, err)
	}
	return user.FID, nil
}

// MatchDetails calcula la compatibilidad de un par concreto con su contenido completo.
func (s *MatchmakerService) MatchDetails(ctx context.Context, userFID, matchFID int64) (domain.MatchDetails, error) {
	user, err := s.AnalyzeUser(ctx, userFID)
	if err != nil {
		return domain.MatchDetails{}, err
	}
	match, err := s.scoreCandidate(ctx, user, matchFID)
	if err != nil {
		return domain.MatchDetails{}, err
	}
	content := s.renderer.Render(ctx, user, *match.MatchAnalysis, match.CompatibilityScore)
	match.Content = &content

	return domain.MatchDetails{
		MatchResult:  match,
		UserAnalysis: user,
	}, nil
}

// BatchAnalyze analiza varios FIDs en paralelo; los que fallan no aparecen en el resultado.
func (s *MatchmakerService) BatchAnalyze(ctx context.Context, fids []int64) map[int64]domain.UserAnalysis {
	out := make(map[int64]domain.UserAnalysis, len(fids))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.batchSize)
	for _, fid := range fids {
		g.Go(func() error {
			analysis, err := s.AnalyzeUser(ctx, fid)
			if err != nil {
				s.logger.Debug("batch analysis failed", zap.Int64("fid", fid), zap.Error(err))
				return nil
			}
			mu.Lock()
			out[fid] = analysis
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *MatchmakerService) scoreCandidate(ctx context.Context, user domain.UserAnalysis, matchFID int64) (domain.MatchResult, error) {
	candidate, err := s.AnalyzeUser(ctx, matchFID)
	if err != nil {
		return domain.MatchResult{}, err
	}

	result := s.engine.Compare(user, candidate)
	return domain.MatchResult{
		UserFID:            user.FID,
		MatchFID:           matchFID,
		MatchUsername:      candidate.Username,
		MatchDisplayName:   candidate.DisplayName,
		MatchPfpURL:        candidate.PfpURL,
		CompatibilityScore: result.Score,
		Breakdown:          result.Breakdown,
		MatchAnalysis:      &candidate,
	}, nil
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return append([]string(nil), items...)
	}
	return append([]string(nil), items[:n]...)
}
