package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/VincentIliano/QuizMaster/internal/config"
	"github.com/VincentIliano/QuizMaster/internal/database"
	"github.com/VincentIliano/QuizMaster/internal/engine"
	"github.com/VincentIliano/QuizMaster/internal/handler/health"
	"github.com/VincentIliano/QuizMaster/internal/metrics"
	"github.com/VincentIliano/QuizMaster/internal/migrations"
	"github.com/VincentIliano/QuizMaster/internal/relay"
	"github.com/VincentIliano/QuizMaster/internal/server"
	"github.com/VincentIliano/QuizMaster/internal/storage"
)

const relayBuffer = 256

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// store is what the engine persists to and /healthz probes.
type store interface {
	engine.Store
	health.Checker
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Store ---
	var st store
	switch cfg.Store {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("creating database dir: %w", err)
		}
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("connecting to sqlite: %w", err)
		}
		defer db.Close()

		version, err := migrations.Run(ctx, db)
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		st = storage.NewDocStore(db)
		logger.Info("using sqlite store", "path", cfg.DBPath, "schema_version", version)
	default:
		files, err := storage.NewFileStore(cfg.DataDir, cfg.RoundsFile, cfg.StateFile)
		if err != nil {
			return fmt.Errorf("opening file store: %w", err)
		}
		st = files
		logger.Info("using file store", "dir", cfg.DataDir, "rounds", cfg.RoundsFile)
	}
	checks := map[string]health.Checker{"store": st}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Relays ---
	var relays []*relay.Async
	if cfg.RedisURL != "" {
		rdb, err := relay.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		pub := relay.NewRedis(rdb, cfg.RedisChannel)
		relays = append(relays, relay.NewAsync("redis", pub, relayBuffer, logger))
		checks["redis"] = pub
		logger.Info("relaying events to redis", "channel", cfg.RedisChannel)
	}
	if cfg.NATSURL != "" {
		nc, err := relay.OpenNATS(cfg.NATSURL, logger)
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer nc.Close()

		pub := relay.NewNATS(nc, cfg.NATSSubject)
		relays = append(relays, relay.NewAsync("nats", pub, relayBuffer, logger))
		checks["nats"] = pub
		logger.Info("relaying events to nats", "subject", cfg.NATSSubject)
	}
	hubRelays := make([]server.Relay, 0, len(relays))
	for _, r := range relays {
		r.OnDrop = func(name string) { m.RelayDropped.WithLabelValues(name).Inc() }
		hubRelays = append(hubRelays, r)
	}

	// --- Engine ---
	broker := server.NewBroker()
	game := engine.New(ctx, st, engine.Options{
		Clock:             clockwork.NewRealClock(),
		Notifier:          server.NewHub(broker, m, logger, hubRelays...),
		Logger:            logger,
		FalseStartPenalty: cfg.FalseStartPenalty,
	})
	defer game.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Options{
		Engine:     game,
		Broker:     broker,
		Metrics:    m,
		Gatherer:   reg,
		Checks:     checks,
		ConsoleDir: cfg.ConsoleDir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	for _, r := range relays {
		g.Go(func() error { return r.Run(gctx) })
	}

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
