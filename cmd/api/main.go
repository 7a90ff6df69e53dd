// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kenfackariol/ITCare/internal/admin"
	"github.com/kenfackariol/ITCare/internal/auth"
	"github.com/kenfackariol/ITCare/internal/breakdown"
	"github.com/kenfackariol/ITCare/internal/config"
	"github.com/kenfackariol/ITCare/internal/core"
	"github.com/kenfackariol/ITCare/internal/health"
	"github.com/kenfackariol/ITCare/internal/material"
	"github.com/kenfackariol/ITCare/internal/middleware"
	"github.com/kenfackariol/ITCare/internal/server"
	"github.com/kenfackariol/ITCare/internal/user"
	"github.com/kenfackariol/ITCare/internal/validation"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	genKeys := flag.Bool("genkeys", false, "write an ES256 key pair and exit")
	privateKey := flag.String("private-key", "keys/private.pem", "private key output path")
	publicKey := flag.String("public-key", "keys/public.pem", "public key output path")
	flag.Parse()

	if *genKeys {
		if err := auth.GenerateKeyPair(*privateKey, *publicKey); err != nil {
			slog.Error("generate key pair", "error", err)
			os.Exit(1)
		}
		slog.Info("key pair written", "private", *privateKey, "public", *publicKey)
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	config.LoadDotEnv(".env")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(os.Stdout, cfg.Log, cfg.App.Name)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"api_prefix", cfg.APIPrefix(),
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize telemetry", "error", err)
	} else if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}()
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	algorithm := "ES256"
	if cfg.JWT.UsesSecret() {
		algorithm = "HS256"
	}
	logger.Info("JWT manager initialized",
		"algorithm", algorithm,
		"expires_in", cfg.JWT.AccessTokenExpire,
	)

	validator := validation.New()

	userSvc := user.NewService(user.NewRepository(db.DB), validator)
	authSvc := auth.NewService(jwtManager, userSvc, validator)
	materialSvc := material.NewService(material.NewRepository(db.DB), validator)
	breakdownSvc := breakdown.NewService(
		breakdown.NewRepository(db.DB),
		materialSvc,
		userSvc,
		validator,
	)

	healthHandler := health.NewHandler(cfg.App.Version,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.Stats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Counters: map[string]admin.Counter{
			"users":      userSvc.Count,
			"materials":  materialSvc.Count,
			"breakdowns": breakdownSvc.Count,
		},
	})

	var limiter func(next http.Handler) http.Handler
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
		})
		defer rl.Close()
		limiter = rl.Handler
	}

	var authLimiter func(next http.Handler) http.Handler
	if cfg.RateLimit.Enabled && cfg.RateLimit.Auth.Requests > 0 {
		rl := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Auth.Requests,
				cfg.RateLimit.Auth.Burst,
				cfg.RateLimit.Auth.Window,
			),
			KeyFunc: middleware.KeyByIPScoped("auth"),
		})
		defer rl.Close()
		authLimiter = rl.Handler
	}

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	srv.Mount(server.Routes{
		Config:      cfg,
		Logger:      logger,
		Tokens:      jwtManager,
		Principals:  userSvc,
		Auth:        auth.NewHandler(authSvc),
		Users:       user.NewHandler(userSvc),
		Materials:   material.NewHandler(materialSvc),
		Breakdowns:  breakdown.NewHandler(breakdownSvc),
		Admin:       adminHandler,
		Limiter:     limiter,
		AuthLimiter: authLimiter,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}
