package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crypto-match/internal/domain"
	"crypto-match/internal/frame"
	"crypto-match/internal/metrics"
	"crypto-match/internal/service"
)

const storedMatchLimit = 10

// FrameHandler atiende el flujo de frames: analisis, matches, detalle y share.
type FrameHandler struct {
	logger     *zap.Logger
	builder    *frame.Builder
	matcher    *service.MatchmakerService
	records    *service.RecordService
	limiter    service.RateLimiter
	metrics    *metrics.Metrics
	matchLimit int
}

func NewFrameHandler(
	logger *zap.Logger,
	builder *frame.Builder,
	matcher *service.MatchmakerService,
	records *service.RecordService,
	limiter service.RateLimiter,
	m *metrics.Metrics,
	matchLimit int,
) *FrameHandler {
	if matchLimit <= 0 {
		matchLimit = 5
	}
	return &FrameHandler{
		logger:     logger,
		builder:    builder,
		matcher:    matcher,
		records:    records,
		limiter:    limiter,
		metrics:    m,
		matchLimit: matchLimit,
	}
}

// Index maneja GET /: pagina HTML con el frame inicial.
func (h *FrameHandler) Index(c *gin.Context) {
	page, err := h.builder.HTML(h.builder.Start(), "")
	if err != nil {
		h.logger.Error("render start page failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "could not render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// Analyze maneja POST /api/analyze.
func (h *FrameHandler) Analyze(c *gin.Context) {
	fid, ok := h.bindFID(c)
	if !ok {
		return
	}

	if h.limiter != nil && !h.limiter.Allow(service.FIDKey(fid)) {
		h.metrics.ObserveRateLimited()
		h.logger.Info("analyze rate limited", zap.Int64("fid", fid))
		c.JSON(http.StatusOK, h.builder.RateLimited())
		return
	}

	ctx := c.Request.Context()
	analysis, err := h.matcher.AnalyzeUser(ctx, fid)
	if err != nil {
		h.logger.Error("analyze user failed", zap.Int64("fid", fid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, h.builder.Error())
		return
	}

	h.records.SaveAnalysis(ctx, analysis)
	h.records.LogEvent(ctx, domain.EventPersonalityAnalyzed, fid, map[string]any{
		"personality_type": analysis.PersonalityType,
	})

	c.JSON(http.StatusOK, h.builder.PersonalityResult(analysis))
}

// FindMatches maneja POST /api/find-matches.
func (h *FrameHandler) FindMatches(c *gin.Context) {
	fid, ok := h.bindFID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	matches, err := h.matcher.FindMatches(ctx, fid, h.matchLimit)
	if err != nil {
		if errors.Is(err, service.ErrNoMatches) {
			c.JSON(http.StatusOK, h.builder.NoMatches())
			return
		}
		h.logger.Error("find matches failed", zap.Int64("fid", fid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, h.builder.Error())
		return
	}

	h.records.SaveMatches(ctx, matches)
	h.records.LogEvent(ctx, domain.EventMatchesFound, fid, map[string]any{
		"match_count": len(matches),
		"top_score":   matches[0].CompatibilityScore,
	})

	c.JSON(http.StatusOK, h.builder.Matches(matches, 0))
}

// Match maneja POST /api/match/:index.
func (h *FrameHandler) Match(c *gin.Context) {
	fid, index, ok := h.bindIndexed(c)
	if !ok {
		return
	}
	matches, err := h.loadMatches(c.Request.Context(), fid)
	if err != nil {
		h.logger.Error("load matches failed", zap.Int64("fid", fid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, h.builder.Error())
		return
	}
	c.JSON(http.StatusOK, h.builder.Matches(matches, index))
}

// MatchDetails maneja POST /api/match-details/:index.
func (h *FrameHandler) MatchDetails(c *gin.Context) {
	fid, index, ok := h.bindIndexed(c)
	if !ok {
		return
	}
	matches, err := h.loadMatches(c.Request.Context(), fid)
	if err != nil {
		h.logger.Error("load matches failed", zap.Int64("fid", fid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, h.builder.Error())
		return
	}
	if index >= len(matches) {
		c.JSON(http.StatusOK, h.builder.NoMatches())
		return
	}
	c.JSON(http.StatusOK, h.builder.MatchDetails(matches[index], index))
}

// Share maneja POST /api/share/:index.
func (h *FrameHandler) Share(c *gin.Context) {
	fid, index, ok := h.bindIndexed(c)
	if !ok {
		return
	}
	h.share(c, fid, index)
}

// ShareDetails maneja POST /api/share-details; comparte el mejor match.
func (h *FrameHandler) ShareDetails(c *gin.Context) {
	fid, ok := h.bindFID(c)
	if !ok {
		return
	}
	h.share(c, fid, 0)
}

// Info maneja POST /api/info. No requiere FID.
func (h *FrameHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.builder.Info())
}

func (h *FrameHandler) share(c *gin.Context, fid int64, index int) {
	ctx := c.Request.Context()
	matches, err := h.loadMatches(ctx, fid)
	if err != nil {
		h.logger.Error("load matches failed", zap.Int64("fid", fid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, h.builder.Error())
		return
	}
	if index >= len(matches) {
		c.JSON(http.StatusOK, h.builder.Error())
		return
	}

	match := matches[index]
	h.records.LogEvent(ctx, domain.EventMatchShared, fid, map[string]any{
		"match_fid":           match.MatchFID,
		"compatibility_score": match.CompatibilityScore,
	})
	c.JSON(http.StatusOK, h.builder.Share(match))
}

// loadMatches usa los matches guardados y, si no hay, los recalcula sin persistirlos.
// Sin matches devuelve una lista vacia y nil.
func (h *FrameHandler) loadMatches(ctx context.Context, fid int64) ([]domain.MatchResult, error) {
	if stored, ok := h.records.StoredMatches(ctx, fid, storedMatchLimit); ok {
		return stored, nil
	}
	matches, err := h.matcher.FindMatches(ctx, fid, h.matchLimit)
	if err != nil {
		if errors.Is(err, service.ErrNoMatches) {
			return nil, nil
		}
		return nil, err
	}
	return matches, nil
}

// bindFID lee untrustedData.fid; si falta responde 400 con el frame de error.
func (h *FrameHandler) bindFID(c *gin.Context) (int64, bool) {
	var action domain.FrameAction
	if err := c.ShouldBindJSON(&action); err != nil {
		h.logger.Warn("invalid frame action", zap.Error(err))
		c.JSON(http.StatusBadRequest, h.builder.Error())
		return 0, false
	}
	if action.UntrustedData.FID <= 0 {
		h.logger.Warn("frame action without fid")
		c.JSON(http.StatusBadRequest, h.builder.Error())
		return 0, false
	}
	return action.UntrustedData.FID, true
}

func (h *FrameHandler) bindIndexed(c *gin.Context) (int64, int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, h.builder.Error())
		return 0, 0, false
	}
	fid, ok := h.bindFID(c)
	if !ok {
		return 0, 0, false
	}
	return fid, index, true
}
