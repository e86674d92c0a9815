package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"crypto-match/internal/service"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	frameH *FrameHandler,
	apiH *APIHandler,
	tokens *service.AdminTokenService,
	staticDir string,
) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/", frameH.Index)

	frames := r.Group("/api")
	frames.POST("/analyze", frameH.Analyze)
	frames.POST("/find-matches", frameH.FindMatches)
	frames.POST("/match/:index", frameH.Match)
	frames.POST("/match-details/:index", frameH.MatchDetails)
	frames.POST("/share/:index", frameH.Share)
	frames.POST("/share-details", frameH.ShareDetails)
	frames.POST("/info", frameH.Info)

	api := r.Group("/api")
	api.GET("/health", apiH.Health)
	api.GET("/personalities", apiH.Personalities)
	api.GET("/user/:fid", apiH.User)
	api.POST("/users/batch", apiH.BatchUsers)
	api.GET("/compatibility/:fid1/:fid2", apiH.Compatibility)
	api.GET("/analytics", AdminAuthMiddleware(tokens), apiH.Analytics)
	api.POST("/webhook", apiH.Webhook)
	api.GET("/generate-image/:kind", apiH.GenerateImage)

	r.GET("/.well-known/farcaster.json", apiH.Manifest)
	r.GET("/images/:name", apiH.Image)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if staticDir != "" {
		r.Static("/static", staticDir)
	}

	return r
}

// requestIDMiddleware propaga X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
