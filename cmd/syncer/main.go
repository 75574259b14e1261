package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"video_syncer/internal/config"
	"video_syncer/internal/publisher"
	"video_syncer/internal/scheduler"
	"video_syncer/internal/service"
	"video_syncer/internal/source/youtube"
	"video_syncer/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	daemon := flag.Bool("daemon", false, "keep running and sync on an interval")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Publisher is optional: no RabbitMQ URL means no CMS events.
	var pub service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	videoStore := postgres.NewVideoStore(db)
	syncStateStore := postgres.NewSyncStateStore(db)
	txManager := postgres.NewTransactionManager(db)

	source := youtube.New(youtube.Config{
		APIKey:          cfg.YouTube.APIKey,
		ChannelID:       cfg.YouTube.ChannelID,
		BaseURL:         cfg.YouTube.BaseURL,
		OEmbedURL:       cfg.YouTube.OEmbedURL,
		PageSize:        cfg.YouTube.PageSize,
		ShortsThreshold: cfg.YouTube.ShortsThreshold,
		Timeout:         cfg.YouTube.Timeout,
		MaxAttempts:     cfg.YouTube.Retry.MaxAttempts,
		InitialBackoff:  cfg.YouTube.Retry.InitialBackoff,
		MaxBackoff:      cfg.YouTube.Retry.MaxBackoff,
	}, logger)

	syncService := service.NewSyncService(
		source,
		videoStore,
		syncStateStore,
		txManager,
		pub,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if !*daemon {
		stats, err := syncService.Sync(ctx)
		if err != nil {
			logger.Error("sync failed", "error", err)
			os.Exit(1)
		}
		logger.Info("sync complete",
			"fetched", stats.Fetched,
			"inserted", stats.Inserted,
			"updated", stats.Updated,
		)
		return
	}

	logger.Info("starting video syncer",
		"source", source.Name(),
		"interval", cfg.Sync.Interval,
	)

	sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, logger)
	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
