package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"crypto-match/internal/catalog"
	"crypto-match/internal/config"
	"crypto-match/internal/db"
	"crypto-match/internal/farcaster"
	"crypto-match/internal/frame"
	apihttp "crypto-match/internal/http"
	"crypto-match/internal/llm"
	"crypto-match/internal/metrics"
	"crypto-match/internal/repository"
	"crypto-match/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	personalities, templates := loadCatalogs(cfg, logger)
	m := metrics.NewMetrics()

	var client farcaster.Client
	if cfg.MockMode() {
		logger.Warn("farcaster api key not configured, using mock data")
		client = farcaster.NewMockClient()
	} else {
		client = farcaster.NewNeynarClient(cfg.FarcasterBaseURL, cfg.FarcasterAPIKey, cfg.FarcasterRPS, logger)
	}

	var (
		userRepo      repository.UserRepository
		matchRepo     repository.MatchRepository
		analyticsRepo repository.AnalyticsRepository
		rateRepo      repository.RateLimitRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("database unavailable, running without persistence", zap.Error(err))
		} else {
			defer pool.Close()
			userRepo = repository.NewPgUserRepository(pool)
			matchRepo = repository.NewPgMatchRepository(pool)
			analyticsRepo = repository.NewPgAnalyticsRepository(pool)
			rateRepo = repository.NewPgRateLimitRepository(pool)
		}
	}

	var (
		limiter service.RateLimiter
		cache   service.AnalysisCache
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitMaxRequests)
			cache = service.NewRedisAnalysisCache(redisClient, cfg.AnalysisCacheTTL)
		}
		cancel()
		defer redisClient.Close()
	}
	if limiter == nil && rateRepo != nil {
		limiter = service.NewPostgresRateLimiter(rateRepo, cfg.RateLimitWindow, cfg.RateLimitMaxRequests)
	}
	if limiter == nil {
		limiter = service.NewMemoryRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMaxRequests)
	}

	var llmClient llm.LLMClient
	if cfg.LLMAPIKey != "" {
		llmClient = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, llm.Options{
			SystemPrompt: service.ComedySystemPrompt,
			Temperature:  0.9,
			MaxTokens:    100,
		}, logger)
	} else {
		logger.Info("llm api key not configured, using template comedy only")
	}

	renderer := service.NewComedyGenerator(templates, llmClient, m, logger)
	matcher := service.NewMatchmakerService(client, personalities, renderer, cache, m, logger)
	records := service.NewRecordService(userRepo, matchRepo, analyticsRepo, logger)

	adminTokens := service.NewAdminTokenService(cfg.AdminJWTSecret, 24*time.Hour)
	if !adminTokens.Enabled() {
		logger.Warn("admin jwt secret not configured, analytics endpoint is open")
	}

	builder := frame.NewBuilder(cfg.BaseURL)
	frameHandler := apihttp.NewFrameHandler(logger, builder, matcher, records, limiter, m, cfg.MatchLimit)
	apiHandler := apihttp.NewAPIHandler(logger, matcher, records, cfg.BaseURL, cfg.StaticDir)
	router := apihttp.NewRouter(logger, frameHandler, apiHandler, adminTokens, cfg.StaticDir)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.HTTPPort),
			zap.String("base_url", cfg.BaseURL),
			zap.Bool("mock_data", cfg.MockMode()),
			zap.Int("personalities", personalities.Len()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}

// loadCatalogs carga catalogo y plantillas; un archivo configurado reemplaza al embebido.
func loadCatalogs(cfg *config.Config, logger *zap.Logger) (*catalog.Catalog, *catalog.ComedyTemplates) {
	var (
		personalities *catalog.Catalog
		err           error
	)
	if cfg.CatalogPath != "" {
		personalities, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		personalities, err = catalog.LoadDefault()
	}
	if err != nil {
		logger.Fatal("load personality catalog", zap.Error(err))
	}

	var templates *catalog.ComedyTemplates
	if cfg.TemplatesPath != "" {
		templates, err = catalog.LoadTemplatesFile(cfg.TemplatesPath)
	} else {
		templates, err = catalog.LoadDefaultTemplates()
	}
	if err != nil {
		logger.Fatal("load comedy templates", zap.Error(err))
	}
	return personalities, templates
}

func connectDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(ctxPing, pool); err != nil {
		pool.Close()
		return nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
