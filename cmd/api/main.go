package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Arijit634/job-management-api/internal/blacklist"
	"github.com/Arijit634/job-management-api/internal/bootstrap"
	"github.com/Arijit634/job-management-api/internal/config"
	"github.com/Arijit634/job-management-api/internal/db"
	httptransport "github.com/Arijit634/job-management-api/internal/http"
	"github.com/Arijit634/job-management-api/internal/http/handler"
	"github.com/Arijit634/job-management-api/internal/http/middleware"
	"github.com/Arijit634/job-management-api/internal/identity"
	"github.com/Arijit634/job-management-api/internal/repository"
	"github.com/Arijit634/job-management-api/internal/server"
	"github.com/Arijit634/job-management-api/internal/service"
	"github.com/Arijit634/job-management-api/internal/telemetry"
	"github.com/Arijit634/job-management-api/internal/token"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newUserRepository,
			newJobRepository,
			newTokenCodec,
			newBlacklistStore,
			newDirectory,
			service.NewAuthService,
			service.NewJobService,
			handler.NewAuthHandler,
			handler.NewJobHandler,
			newAuthMiddleware,
			newRateLimiter,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureAdmin, startBlacklistSweeper, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return repository.NewPostgresUserRepo(pool)
}

func newJobRepository(pool *pgxpool.Pool) repository.JobRepository {
	return repository.NewPostgresJobRepo(pool)
}

func newTokenCodec(cfg config.Config) *token.Codec {
	return token.NewCodec(cfg.TokenSecret, cfg.ServiceName)
}

func newBlacklistStore(codec *token.Codec, logger *zap.Logger) *blacklist.Store {
	return blacklist.NewStore(codec.Expiry, logger)
}

func newDirectory(users repository.UserRepository) identity.Directory {
	return identity.NewRepoDirectory(users)
}

func newAuthMiddleware(store *blacklist.Store, codec *token.Codec, directory identity.Directory, logger *zap.Logger) *middleware.Auth {
	return &middleware.Auth{Blacklist: store, Codec: codec, Directory: directory, Logger: logger}
}

func newRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimitRPM)
}

func startBlacklistSweeper(lc fx.Lifecycle, store *blacklist.Store, cfg config.Config) {
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				store.Run(runCtx, cfg.BlacklistSweepEvery)
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
