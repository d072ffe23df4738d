// Package app wires configuration, storage, pipelines and the HTTP
// server together, and owns the process lifecycle.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkstash/internal/config"
	"linkstash/internal/fetch"
	"linkstash/internal/httpserver"
	"linkstash/internal/httpserver/deps"
	"linkstash/internal/logger"
	"linkstash/internal/pipeline"
	"linkstash/internal/redis"
	"linkstash/internal/scheduler"
	"linkstash/internal/store"
	"linkstash/internal/store/memory"
	"linkstash/internal/store/postgres"
	redisstore "linkstash/internal/store/redis"
	"linkstash/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
	store  store.Store
	titles *scheduler.TitleWorker
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	st, err := openStore(cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s store: %v", cfg.StoreDriver, err)
		os.Exit(1)
	}
	loggerClient.Info("store initialized", logger.String("driver", cfg.StoreDriver))

	var titles *scheduler.TitleWorker
	if cfg.TitleFetchEnabled {
		fetcher := fetch.NewTitleFetcher(cfg.TitleFetchRPS, cfg.TitleFetchTimeout)
		titles = scheduler.NewTitleWorker(st, fetcher, loggerClient, cfg.TitleQueueSize)
	} else {
		loggerClient.Info("title fetching disabled, placeholder titles will stick")
	}

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		Store:        st,
		Importer:     pipeline.NewImporter(st, loggerClient),
		Exporter:     pipeline.NewExporter(st, loggerClient),
		Titles:       titles,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		server: server,
		store:  st,
		titles: titles,
	}
}

// openStore builds the configured storage backend.
func openStore(cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store, data will not survive a restart")
		return memory.NewStore(), nil

	case config.DriverRedis:
		client, err := redis.Connect(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil

	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return postgres.NewStore(ctx, cfg.PostgresURL)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting linkstash v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("linkstash %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.titles != nil {
		a.titles.Start(ctx)
		a.logger.Info("title worker started")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.logger.Error("failed to stop http server cleanly", logger.Error(err))
	}

	if a.titles != nil {
		a.titles.Stop()
		a.logger.Info("title worker stopped")
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close store", logger.Error(err))
	}

	a.logger.Info("✅ Shutdown complete")
	return nil
}
