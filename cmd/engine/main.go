package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/microsoc/command-centre/internal/api/routes"
	"github.com/microsoc/command-centre/internal/blocklist"
	"github.com/microsoc/command-centre/internal/classifier"
	"github.com/microsoc/command-centre/internal/config"
	"github.com/microsoc/command-centre/internal/database"
	"github.com/microsoc/command-centre/internal/intel"
	"github.com/microsoc/command-centre/internal/logger"
	"github.com/microsoc/command-centre/internal/queue"
	"github.com/microsoc/command-centre/internal/relay"
	"github.com/microsoc/command-centre/internal/server"
	"github.com/microsoc/command-centre/internal/services"
	"github.com/microsoc/command-centre/internal/storage"
	"github.com/microsoc/command-centre/internal/version"
	"github.com/microsoc/command-centre/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log().Fatalf("load config: %v", err)
	}

	// Logging with rotation, teed to stdout.
	logDir := filepath.Join(filepath.Dir(cfg.DatabasePath), "logs")
	_ = os.MkdirAll(logDir, 0o755)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "engine.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.Log().Infof("starting %s version %s", version.Name, version.Full())

	// Persistent verdict store. Optional: a failed open is a degraded mode,
	// the pipeline keeps running memory-only.
	var store *storage.LogStore
	if db, err := database.Open(cfg.DatabasePath); err != nil {
		logger.Log().Warnf("database unavailable, running without persistence: %v", err)
	} else if store, err = storage.New(db); err != nil {
		store = nil
		logger.Log().Warnf("store migration failed, running without persistence: %v", err)
	}

	// Queue probes Redis once; fallback is the in-process buffer.
	q := queue.New(cfg.RedisAddr())

	bl := blocklist.New()
	cls := classifier.New(bl, intelScorer(cfg))
	alerts := services.NewAlertService(cfg.AlertURL)

	delivery := worker.New(q, store, relay.New(cfg.RelayURL), cls)
	if err := delivery.Start(); err != nil {
		logger.Log().Fatalf("start delivery worker: %v", err)
	}
	defer delivery.Stop()

	srv := server.New(cfg, routes.Deps{
		Classifier:    cls,
		Blocklist:     bl,
		Queue:         q,
		Store:         store,
		Alerts:        alerts,
		BlockDuration: cfg.BlockDuration,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		logger.Log().Fatalf("server error: %v", err)
	}
}

// intelScorer returns the reputation collaborator or nil when unconfigured.
// A nil interface value must stay nil inside the classifier, hence the
// indirection instead of passing intel.New directly.
func intelScorer(cfg config.Config) classifier.IntelScorer {
	if c := intel.New(cfg.IntelURL); c != nil {
		return c
	}
	return nil
}
