package http

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crypto-match/internal/domain"
	"crypto-match/internal/farcaster"
	"crypto-match/internal/frame"
	"crypto-match/internal/service"
)

const (
	serviceName       = "Crypto Compatibility Engine"
	serviceVersion    = "1.0.0"
	analyticsDays     = 7
	maxBatchFIDs      = 50
	placeholderImage  = "placeholder.png"
	imageContentType  = "image/png"
	manifestColor     = "#6366f1"
	manifestShortName = "CryptoMatch"
)

var imageKinds = map[string]struct{}{
	"personality": {},
	"match":       {},
	"details":     {},
	"share":       {},
}

// APIHandler expone la API JSON, el manifest de la mini app y las imagenes.
type APIHandler struct {
	logger    *zap.Logger
	matcher   *service.MatchmakerService
	records   *service.RecordService
	baseURL   string
	imagesDir string
}

func NewAPIHandler(
	logger *zap.Logger,
	matcher *service.MatchmakerService,
	records *service.RecordService,
	baseURL string,
	staticDir string,
) *APIHandler {
	return &APIHandler{
		logger:    logger,
		matcher:   matcher,
		records:   records,
		baseURL:   strings.TrimRight(baseURL, "/"),
		imagesDir: filepath.Join(staticDir, "images"),
	}
}

// Health maneja GET /api/health.
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": serviceVersion,
		"service": serviceName,
	})
}

// Personalities maneja GET /api/personalities.
func (h *APIHandler) Personalities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"personalities": h.matcher.Personalities()})
}

// User maneja GET /api/user/:fid.
func (h *APIHandler) User(c *gin.Context) {
	fid, ok := parseFIDParam(c, "fid")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	analysis, err := h.matcher.AnalyzeUser(ctx, fid)
	if err != nil {
		if stored, found := h.records.StoredAnalysis(ctx, fid); found && !errors.Is(err, farcaster.ErrUserNotFound) {
			h.logger.Warn("serving stored analysis", zap.Int64("fid", fid), zap.Error(err))
			c.JSON(http.StatusOK, stored)
			return
		}
		h.writeLookupError(c, fid, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// BatchUsers maneja POST /api/users/batch. Los FIDs que fallan se omiten.
func (h *APIHandler) BatchUsers(c *gin.Context) {
	var req struct {
		FIDs []int64 `json:"fids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid batch request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if len(req.FIDs) > maxBatchFIDs {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many fids"})
		return
	}

	analyses := h.matcher.BatchAnalyze(c.Request.Context(), req.FIDs)
	out := make([]domain.UserAnalysis, 0, len(analyses))
	for _, fid := range req.FIDs {
		if a, ok := analyses[fid]; ok {
			out = append(out, a)
			delete(analyses, fid)
		}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": out, "requested": len(req.FIDs)})
}

// Compatibility maneja GET /api/compatibility/:fid1/:fid2.
func (h *APIHandler) Compatibility(c *gin.Context) {
	fid1, ok := parseFIDParam(c, "fid1")
	if !ok {
		return
	}
	fid2, ok := parseFIDParam(c, "fid2")
	if !ok {
		return
	}

	details, err := h.matcher.MatchDetails(c.Request.Context(), fid1, fid2)
	if err != nil {
		h.writeLookupError(c, fid2, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Analytics maneja GET /api/analytics. Protegido por token admin cuando hay secreto.
func (h *APIHandler) Analytics(c *gin.Context) {
	days := analyticsDays
	if raw := c.Query("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			days = v
		}
	}

	summary, err := h.records.Summary(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, service.ErrStorageDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics not available"})
			return
		}
		h.logger.Error("analytics summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load analytics"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Manifest maneja GET /.well-known/farcaster.json.
func (h *APIHandler) Manifest(c *gin.Context) {
	splash := h.baseURL + "/static/images/splash.png"
	c.JSON(http.StatusOK, gin.H{
		"accountAssociation": gin.H{
			"header":    "",
			"payload":   "",
			"signature": "",
		},
		"frame": gin.H{
			"version":  "next",
			"imageUrl": h.baseURL + "/static/images/og-image.png",
			"button": gin.H{
				"title": "Find Your Match 💕",
				"action": gin.H{
					"type":                  "launch_frame",
					"name":                  "Crypto Compatibility",
					"url":                   h.baseURL,
					"splashImageUrl":        splash,
					"splashBackgroundColor": manifestColor,
				},
			},
		},
		"name":                  serviceName,
		"shortName":             manifestShortName,
		"description":           "Find your crypto soulmate! Personality analysis and smart matching for crypto degens 💎🤝",
		"homeUrl":               h.baseURL,
		"iconUrl":               h.baseURL + "/static/images/icon-512.png",
		"splashImageUrl":        splash,
		"splashBackgroundColor": manifestColor,
		"webhookUrl":            h.baseURL + "/api/webhook",
	})
}

// Webhook maneja POST /api/webhook con eventos de la mini app.
func (h *APIHandler) Webhook(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid payload"})
		return
	}

	h.logger.Info("mini app webhook received", zap.Int("fields", len(body)))
	h.records.LogEvent(c.Request.Context(), domain.EventMiniAppEvent, 0, body)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Webhook received"})
}

// GenerateImage maneja GET /api/generate-image/:kind. Valida el payload y sirve el placeholder.
func (h *APIHandler) GenerateImage(c *gin.Context) {
	if _, ok := imageKinds[c.Param("kind")]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown image kind"})
		return
	}
	var payload map[string]any
	if err := frame.DecodeData(c.Query("data"), &payload); err != nil {
		h.logger.Warn("invalid image data", zap.String("kind", c.Param("kind")), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data"})
		return
	}
	c.Data(http.StatusOK, imageContentType, h.readImage(placeholderImage))
}

// Image maneja GET /images/:name. Imagen faltante responde un PNG vacio.
func (h *APIHandler) Image(c *gin.Context) {
	c.Data(http.StatusOK, imageContentType, h.readImage(c.Param("name")))
}

func (h *APIHandler) readImage(name string) []byte {
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(h.imagesDir, name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn("read image failed", zap.String("name", name), zap.Error(err))
		}
		return nil
	}
	return data
}

func (h *APIHandler) writeLookupError(c *gin.Context, fid int64, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidFID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fid"})
	case errors.Is(err, farcaster.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		h.logger.Error("user lookup failed", zap.Int64("fid", fid), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not fetch user data"})
	}
}

func parseFIDParam(c *gin.Context, name string) (int64, bool) {
	fid, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || fid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fid"})
		return 0, false
	}
	return fid, true
}
