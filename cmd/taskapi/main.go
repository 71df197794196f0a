package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/talhabinhussain/fullstack-todo-app/internal/application/auth"
	"github.com/talhabinhussain/fullstack-todo-app/internal/config"
	infraauth "github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/auth"
	httprouter "github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/http"
	"github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/http/handlers"
	"github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/http/middleware"
	"github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/persistence/postgres"
	"github.com/talhabinhussain/fullstack-todo-app/internal/infrastructure/security"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}
	if err := postgres.RunMigrations(ctx, cfg.Database.URL); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)

	hasher := security.NewBcryptHasher(cfg.Bcrypt.Cost)
	issuer, err := infraauth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Algorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("create token issuer")
	}

	registerUC := auth.NewRegister(userRepo, hasher, issuer, cfg.AccessTokenTTL())
	loginUC := auth.NewLogin(userRepo, hasher, issuer, cfg.AccessTokenTTL())

	authHandler := handlers.NewAuthHandler(registerUC, loginUC, log)
	tasksHandler := handlers.NewTasksHandler(taskRepo, log)
	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.PerIP, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.IsDevelopment()))
	corsMiddleware := middleware.CORS(cfg.CORS.AllowedOrigins, nil, nil)
	requireAuth := middleware.NewAuthenticator(issuer).Handler

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:   authHandler,
		TasksHandler:  tasksHandler,
		HealthHandler: healthHandler,
		RequireAuth:   requireAuth,
		RequireOwner:  middleware.RequireOwner,
		Log:           log,
		Secure:        secureMiddleware,
		CORS:          corsMiddleware,
		IPRateLimit:   ipLimit,
		Metrics:       true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}
