package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/lanternhq/lantern/internal/alertengine"
	"github.com/lanternhq/lantern/internal/backup"
	"github.com/lanternhq/lantern/internal/chat"
	"github.com/lanternhq/lantern/internal/duckdb"
	"github.com/lanternhq/lantern/internal/httpserver"
	"github.com/lanternhq/lantern/internal/ingest"
	"github.com/lanternhq/lantern/internal/journal"
)

// runServer starts the analytics store and the HTTP API.
func runServer(cfg appConfig) error {
	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Initialize DuckDB store
	store, err := duckdb.NewStore(cfg.DBPath, logger, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	defer store.Close()

	// Open the upload journal for crash-safe replay.
	var uploadJournal *journal.Journal
	if cfg.JournalEnabled {
		uploadJournal, err = journal.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("failed to open upload journal: %w", err)
		}
		defer uploadJournal.Close()
	}

	engine := buildAlertEngine(cfg)
	ingestor := ingest.New(store, uploadJournal, engine, logger)
	if err := ingestor.ReplayJournal(); err != nil {
		return fmt.Errorf("failed to replay upload journal: %w", err)
	}

	// Start retention cleaner for automatic upload expiry
	retentionCleaner := duckdb.NewRetentionCleaner(store, logger, duckdb.RetentionConfig{
		RetentionDays: cfg.LogRetention,
	})
	if retentionCleaner != nil {
		defer retentionCleaner.Stop()
	}

	// Start periodic backups when enabled.
	backupManager, err := backup.NewManager(store, backup.Config{
		Enabled:        cfg.BackupEnabled,
		Interval:       cfg.BackupInterval,
		LocalDir:       cfg.BackupLocalDir,
		KeepLast:       cfg.BackupKeepLast,
		BucketURL:      cfg.BackupBucketURL,
		S3Endpoint:     cfg.BackupS3Endpoint,
		S3Region:       cfg.BackupS3Region,
		S3AccessKey:    cfg.BackupS3AccessKey,
		S3SecretKey:    cfg.BackupS3SecretKey,
		S3SessionToken: cfg.BackupS3SessionToken,
		S3UseSSL:       cfg.BackupS3UseSSL,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize backups: %w", err)
	}
	if backupManager != nil {
		defer backupManager.Stop()
	}

	// Chat stays disabled unless a model is configured.
	var responder httpserver.Responder
	if cfg.ChatModel != "" {
		client, err := chat.NewClient(chat.Config{
			Endpoint:  cfg.ChatEndpoint,
			Model:     cfg.ChatModel,
			Token:     cfg.ChatToken,
			MaxTokens: cfg.ChatMaxTokens,
			Timeout:   cfg.ChatTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize chat client: %w", err)
		}
		responder = client
	}

	// Start HTTP API server if enabled
	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(httpserver.Config{
			Addr:           cfg.APIAddr,
			MaxUploadBytes: cfg.MaxUploadBytes,
		}, store, ingestor, responder, logger)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	logger.Info("lantern started",
		zap.String("version", version),
		zap.String("db_path", cfg.DBPath),
		zap.Bool("api_enabled", cfg.APIEnabled),
		zap.String("api_addr", cfg.APIAddr),
		zap.Bool("chat_enabled", responder != nil),
		zap.String("config_file", cfg.ConfigPath))

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	// Use errgroup for concurrent goroutine lifecycle management.
	g, gctx := errgroup.WithContext(ctx)

	// Wait for context cancellation (from signal handler) in the errgroup
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn("server exited with error", zap.Error(err))
	}

	cancel()

	// If we reach here, graceful shutdown succeeded within the deadline.
	// The signal goroutine (if active) dies with the process.
	signal.Stop(sigCh)

	return nil
}

// buildAlertEngine wires the configured rules. The error-count rule is
// always on; keyword rules come from config.
func buildAlertEngine(cfg appConfig) *alertengine.Engine {
	rules := []alertengine.Rule{
		alertengine.NewErrorCountRule(cfg.AlertWindowMinutes, cfg.AlertThreshold),
	}
	for _, kw := range cfg.AlertKeywords {
		if kw == "" {
			continue
		}
		rules = append(rules, alertengine.NewKeywordMatchRule(kw, cfg.AlertWindowMinutes, cfg.AlertThreshold))
	}
	return alertengine.New(rules...)
}

func buildLogger(debug bool) (*zap.Logger, error) {
	conf := zap.NewProductionConfig()
	conf.Encoding = "console"
	conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	conf.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if debug {
		conf.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return conf.Build()
}
