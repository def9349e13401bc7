package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/membershield/membershield/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err = bootstrap.ValidateConfig(&cfg); err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting membershield service",
		"db_host", cfg.Postgres.Host,
		"db_name", cfg.Postgres.Name,
		"redirect_url", cfg.Discord.RedirectURL,
		"replay_backend", replayBackend(cfg.Replay.UseRedis))

	db, err := bootstrap.ConnectDB(cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	deps := &bootstrap.ServiceDeps{
		Config: &cfg,
		DB:     db,
		Logger: logger,
	}
	if cfg.Replay.UseRedis {
		redisClient, redisErr := bootstrap.ConnectRedis(cfg.Redis, logger)
		if redisErr != nil {
			return redisErr
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
		deps.RedisClient = redisClient
	}

	services, err := bootstrap.NewServices(deps)
	if err != nil {
		return err
	}

	return bootstrap.RunHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func replayBackend(useRedis bool) string {
	if useRedis {
		return "redis"
	}
	return "memory"
}
