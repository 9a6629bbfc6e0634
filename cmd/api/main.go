package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"edupath/internal/catalog"
	"edupath/internal/config"
	"edupath/internal/db"
	apihttp "edupath/internal/http"
	"edupath/internal/llm"
	"edupath/internal/metrics"
	"edupath/internal/recommend"
	"edupath/internal/repository"
	"edupath/internal/service"
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

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	cat, err := catalog.Default()
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}

	stores, closeStores, err := openStores(ctx, cfg, cat)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err), zap.String("driver", cfg.StorageDriver))
	}
	defer closeStores()
	if seeded, err := stores.SeedIfEmpty(ctx, cat); err != nil {
		logger.Fatal("seed catalog", zap.Error(err))
	} else if seeded {
		logger.Info("catalog seeded", zap.String("driver", cfg.StorageDriver))
	}

	var (
		redisClient  *redis.Client
		tokenStore   service.RefreshTokenStore
		sessionStore service.QuizSessionStore
		limiter      = service.NewMemoryRateLimiter(cfg.AdviceRateWindow(), cfg.AdviceRateLimit)
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}
	if redisClient != nil {
		defer redisClient.Close()
		stores = stores.WithCache(redisClient, cfg.CatalogCacheTTL())
		tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		sessionStore = service.NewRedisQuizSessionStore(redisClient)
		limiter = service.NewRedisRateLimiter(redisClient, "edupath:advice:rl:", cfg.AdviceRateWindow(), cfg.AdviceRateLimit)
	}

	streams := recommend.DefaultStreamTable()
	if cfg.StreamsFile != "" {
		if streams, err = recommend.LoadStreamTable(cfg.StreamsFile); err != nil {
			logger.Fatal("load stream table", zap.Error(err), zap.String("path", cfg.StreamsFile))
		}
	}
	engine, err := recommend.NewEngine(streams, recommend.WithAcademicQuestion(cfg.AcademicQuestionID))
	if err != nil {
		logger.Fatal("build engine", zap.Error(err))
	}

	llmClient, closeLLM := newLLMClient(ctx, cfg, logger)
	defer closeLLM()

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	assessmentSvc := service.NewAssessmentService(logger, engine, service.AssessmentRepos{
		Questions:       stores.Questions,
		Colleges:        stores.Colleges,
		Courses:         stores.Courses,
		Scholarships:    stores.Scholarships,
		Answers:         stores.Answers,
		Recommendations: stores.Recommendations,
	}, m)
	quizSvc := service.NewQuizSessionService(logger, assessmentSvc, sessionStore, cfg.QuizSessionTTL())
	advisorySvc := service.NewAdvisoryService(logger, llmClient, stores.CareerPaths, stores.Timeline, assessmentSvc, limiter, m)
	userSvc := service.NewUserService(logger, stores.Users)

	router := apihttp.NewRouter(logger, jwtSvc, reg, apihttp.Handlers{
		Users:           apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		Assessment:      apihttp.NewAssessmentHandler(logger, assessmentSvc),
		Quiz:            apihttp.NewQuizHandler(logger, quizSvc),
		Directory:       apihttp.NewDirectoryHandler(logger, stores.Colleges, stores.CareerPaths, stores.Timeline),
		Advisory:        apihttp.NewAdvisoryHandler(logger, advisorySvc),
		Recommendations: apihttp.NewRecommendationHandler(logger, assessmentSvc),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("storage", cfg.StorageDriver),
		zap.Bool("redis", redisClient != nil),
		zap.Bool("advisory", advisorySvc.Enabled()),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

// openStores elige el backend segun STORAGE_DRIVER.
func openStores(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) (repository.Stores, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		if err := db.ApplyPostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return repository.Stores{}, nil, err
		}
		return repository.NewPgStores(pool), closePool(pool), nil
	case config.StorageSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		return repository.NewSQLiteStores(conn, cat), closeSQL(conn), nil
	default:
		return repository.NewMemoryStores(cat), func() {}, nil
	}
}

func closePool(pool *pgxpool.Pool) func() { return pool.Close }

func closeSQL(conn *sql.DB) func() { return func() { _ = conn.Close() } }

// newLLMClient devuelve nil (interfaz) si no hay credenciales: el advisory queda deshabilitado.
func newLLMClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.LLMClient, func()) {
	if !cfg.LLMEnabled() {
		logger.Info("llm not configured, advisory disabled")
		return nil, func() {}
	}
	if cfg.LLMProvider == config.LLMProviderGemini {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("gemini client init failed, advisory disabled", zap.Error(err))
			return nil, func() {}
		}
		return llm.NewBreakerClient(client, logger, cfg.LLMBreakerFailures, cfg.LLMBreakerCooldown()), func() { _ = client.Close() }
	}
	client := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	return llm.NewBreakerClient(client, logger, cfg.LLMBreakerFailures, cfg.LLMBreakerCooldown()), func() {}
}
