package main

import (
	"context"
	"fmt"
	"francoggm/donations-go-redis/internal/app/donation"
	"francoggm/donations-go-redis/internal/app/export"
	"francoggm/donations-go-redis/internal/app/frequency"
	"francoggm/donations-go-redis/internal/app/provider"
	"francoggm/donations-go-redis/internal/app/report"
	"francoggm/donations-go-redis/internal/app/server"
	"francoggm/donations-go-redis/internal/app/server/handlers"
	"francoggm/donations-go-redis/internal/config"
	"francoggm/donations-go-redis/internal/logging"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

type objectStore interface {
	export.ObjectStore
	report.ObjectReader
}

func main() {
	cfg := config.NewConfig()
	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning, slog.String("environment", cfg.Environment))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := registrationTable(cfg)
	if err != nil {
		return err
	}

	frequencies, err := frequency.NewRegistry(table.Frequencies...)
	if err != nil {
		return err
	}

	providers, err := provider.Build(frequencies, table.Providers, provider.Gateways{
		CardURL:          cfg.Gateways.CardURL,
		CardSecret:       cfg.Gateways.CardSecret,
		HostedURL:        cfg.Gateways.HostedURL,
		HostedMerchantID: cfg.Gateways.HostedMerchantID,
		HostedSecret:     cfg.Gateways.HostedSecret,
		RedirectURL:      cfg.Gateways.RedirectURL,
		Timeout:          cfg.Server.PaymentTimeout,
		Breaker:          provider.DefaultBreakerConfig(),
		RedirectEnabled:  cfg.Gateways.RedirectEnabled,
		TestEnabled:      cfg.TestProviderEnabled(),
	})
	if err != nil {
		return err
	}

	store, closeStore, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	queue := export.NewQueue(cfg.Export.Enabled, store, cfg.Export.Timeout, logger)
	reader := report.NewReader(store, cfg.Export.Timeout)

	pipeline := donation.NewPipeline(donation.Config{
		PaymentTimeout: cfg.Server.PaymentTimeout,
		ExportTimeout:  cfg.Export.Timeout,
	}, frequencies, providers, queue, logger)

	srv := server.NewServer(cfg, handlers.NewHandlers(pipeline, frequencies, providers, reader, logger))

	logger.Info("server starting",
		slog.String("port", cfg.Server.Port),
		slog.String("environment", cfg.Environment),
		slog.Int("frequencies", len(frequencies.List())),
		slog.Int("providers", len(providers.List())),
		slog.String("export_backend", cfg.Export.Backend),
		slog.Bool("export_enabled", cfg.Export.Enabled),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func registrationTable(cfg *config.Config) (*config.RegistrationTable, error) {
	table := &config.RegistrationTable{}
	if cfg.RegistryFile != "" {
		loaded, err := config.LoadRegistrationTable(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}
		table = loaded
	}

	if len(table.Frequencies) == 0 {
		table.Frequencies = provider.DefaultFrequencies()
	}
	if len(table.Providers) == 0 {
		table.Providers = provider.DefaultDefinitions()
	}

	return table, nil
}

// newObjectStore returns nil when the configured backend has no destination;
// the queue then reports the environment as not provisioned.
func newObjectStore(ctx context.Context, cfg *config.Config) (objectStore, func(), error) {
	switch cfg.Export.Backend {
	case "http":
		if cfg.Export.Endpoint == "" {
			return nil, func() {}, nil
		}
		return export.NewHTTPStore(cfg.Export.Endpoint, cfg.Export.Token, cfg.Export.Timeout), func() {}, nil
	default:
		cacheOpts := redis.Options{
			Addr:         fmt.Sprintf("%s:%s", cfg.Cache.Host, cfg.Cache.Port),
			Password:     cfg.Cache.Password,
			DB:           0,
			PoolSize:     cfg.Cache.PoolSize,
			MinIdleConns: 5,
			PoolTimeout:  cfg.Export.Timeout,
		}

		rdb := redis.NewClient(&cacheOpts)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		return export.NewRedisStore(rdb), func() { rdb.Close() }, nil
	}
}
