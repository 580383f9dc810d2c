// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/startup-perks/internal/admin"
	"github.com/carterperez-dev/startup-perks/internal/auth"
	"github.com/carterperez-dev/startup-perks/internal/claim"
	"github.com/carterperez-dev/startup-perks/internal/config"
	"github.com/carterperez-dev/startup-perks/internal/core"
	"github.com/carterperez-dev/startup-perks/internal/deal"
	"github.com/carterperez-dev/startup-perks/internal/health"
	"github.com/carterperez-dev/startup-perks/internal/seed"
	"github.com/carterperez-dev/startup-perks/internal/server"
	"github.com/carterperez-dev/startup-perks/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

var connectDatabase = core.NewDatabase

// openDatabase connects and, when enabled, applies migrations. A failed
// migration closes the connection before returning.
func openDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*core.Database, error) {
	db, err := connectDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	if !cfg.AutoMigrate {
		return db, nil
	}

	if err := db.Migrate(ctx); err != nil {
		if cerr := db.Close(); cerr != nil {
			logger.Error("database close error", "error", cerr)
		}
		return nil, err
	}
	logger.Info("database migrations applied")

	return db, nil
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()

	// Redis is optional at runtime: without it logout cannot revoke tokens
	// and rate limits are enforced per process.
	var (
		redisConn   *core.Redis
		redisClient *redis.Client
		revocations auth.RevocationStore
	)
	if r, redisErr := core.NewRedis(ctx, cfg.Redis); redisErr != nil {
		logger.Warn("redis unavailable, continuing without it", "error", redisErr)
	} else {
		redisConn = r
		redisClient = r.Client
		revocations = auth.NewRedisRevocationStore(r.Client)
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	}
	defer func() {
		if err := redisConn.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}()

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	hasher, err := core.NewPasswordHasher(cfg.Security.BcryptCost)
	if err != nil {
		return err
	}
	logger.Info("password hasher initialized", "bcrypt_cost", hasher.Cost())

	userRepo := user.NewRepository(db.DB)
	dealRepo := deal.NewRepository(db.DB)
	claimRepo := claim.NewRepository(db.DB)

	userSvc := user.NewService(userRepo)
	dealSvc := deal.NewService(dealRepo)
	claimSvc := claim.NewService(claimRepo, dealSvc, userSvc)
	authSvc := auth.NewService(jwtManager, hasher, userSvc, revocations)
	seeder := seed.NewSeeder(seed.NewSQLStore(db.DB), logger)

	deps := []health.Dependency{{Name: "database", Checker: db}}
	adminCfg := admin.HandlerConfig{
		DBStats: db.Stats,
		DBPing:  db.Ping,
		Users:   userSvc,
		Deals:   dealSvc,
		Claims:  claimSvc,
	}
	if redisConn != nil {
		deps = append(deps, health.Dependency{Name: "redis", Checker: redisConn})
		adminCfg.RedisStats = redisConn.PoolStats
		adminCfg.RedisPing = redisConn.Ping
	}
	healthHandler := health.NewHandler(deps...)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	mountRoutes(srv.Router(), routeDeps{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		JWT:         jwtManager,
		Auth:        authSvc,
		Deals:       dealSvc,
		Claims:      claimSvc,
		Seeder:      seeder,
		Health:      healthHandler,
		Admin:       admin.NewHandler(adminCfg),
	})

	if cfg.Seed.Enabled {
		logger.Warn("seed endpoint enabled", "path", "/api/seed")
	}
	if cfg.Admin.APIKey == "" {
		logger.Info("admin stats disabled, ADMIN_API_KEY not set")
	}

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
