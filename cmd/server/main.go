package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	httpadapter "clearvide/internal/adapter/http"
	repo "clearvide/internal/adapter/repository"
	"clearvide/internal/config"
	"clearvide/internal/infrastructure/migration"
	"clearvide/internal/usecase"
	"clearvide/pkg/ai"
	"clearvide/pkg/identity"
	infra "clearvide/pkg/infrastructure"
	"clearvide/pkg/logger"
	"clearvide/pkg/payments"
)

// Persisted sessions untouched for this long are dropped.
const sessionRetention = 90 * 24 * time.Hour

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)
	cfg.LogConfig(zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, closeKV := openSessionStore(ctx, cfg, zapLogger)
	defer closeKV()

	// export history is optional
	var pool *pgxpool.Pool
	if cfg.Export.DatabaseURL != "" {
		pool, err = infra.NewExportsPool(ctx, cfg.Export.DatabaseURL)
		if err != nil {
			zapLogger.Warn("export history database not available", zap.Error(err))
		} else {
			defer pool.Close()
			if err := migration.RunMigrations(ctx, pool, zapLogger); err != nil {
				zapLogger.Fatal("Failed to run migrations", zap.Error(err))
			}
		}
	}

	var engine usecase.PDFEngine
	switch cfg.Export.Engine {
	case "playwright":
		pw := infra.NewPlaywrightRenderer(zapLogger)
		defer pw.Close()
		engine = pw
	default:
		engine = infra.NewChromedpRenderer(cfg.Export.ChromePath)
	}

	idp, err := identity.NewClient(cfg.Identity.APIURL, cfg.Identity.SecretKey, cfg.Identity.JWTKey, 0, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize identity client", zap.Error(err))
	}
	aiClient := ai.NewClient(cfg.AI.BaseURL, cfg.AI.Timeout, zapLogger)
	stripe := payments.NewStripe(payments.StripeConfig{
		SecretKey:        cfg.Stripe.SecretKey,
		WebhookSecret:    cfg.Stripe.WebhookSecret,
		TemplatesPriceID: cfg.Stripe.TemplatesPriceID,
		ProPriceID:       cfg.Stripe.ProPriceID,
	}, zapLogger)

	registry := usecase.NewRegistry(kv, idp, cfg.Session.IdleTTL, zapLogger)
	if err := registry.Start(cfg.Session.EvictSchedule); err != nil {
		zapLogger.Fatal("Failed to schedule session eviction", zap.Error(err))
	}

	h := httpadapter.NewHandler(httpadapter.Deps{
		Registry:     registry,
		Assistant:    usecase.NewAssistant(aiClient, zapLogger),
		Exporter:     usecase.NewExporter(engine, repo.NewExportsRepo(pool), cfg.Export.ArchiveDir, zapLogger),
		Billing:      usecase.NewBilling(stripe, idp, cfg.AppURL, zapLogger),
		Admin:        usecase.NewAdmin(idp, cfg.IsAdmin),
		Auth:         idp,
		CookieSecure: cfg.Session.CookieSecure,
		Log:          zapLogger,
	})

	app := fiber.New(fiber.Config{
		AppName:               "clearvide",
		DisableStartupMessage: true,
		BodyLimit:             8 * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          120 * time.Second,
	})
	h.Register(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zapLogger.Info("Server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	registry.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zapLogger.Warn("Shutdown error", zap.Error(err))
	}
	zapLogger.Info("Server gracefully stopped")
}

// openSessionStore returns the durable session store selected by config and
// a func releasing it.
func openSessionStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (usecase.KeyValue, func()) {
	switch cfg.Session.Store {
	case "redis":
		client, err := infra.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			zapLogger.Fatal("Redis", zap.Error(err))
		}
		zapLogger.Info("session store: redis")
		return repo.NewRedisKV(client, sessionRetention), func() { client.Close() }
	case "sqlite":
		db, err := infra.OpenSQLite(cfg.Session.SQLitePath)
		if err != nil {
			zapLogger.Fatal("SQLite", zap.Error(err))
		}
		kv, err := repo.NewSQLiteKV(ctx, db)
		if err != nil {
			zapLogger.Fatal("SQLite schema", zap.Error(err))
		}
		purge := cron.New()
		if _, err := purge.AddFunc("@daily", func() {
			n, err := kv.PurgeBefore(context.Background(), time.Now().Add(-sessionRetention))
			if err != nil {
				zapLogger.Warn("purge sessions", zap.Error(err))
				return
			}
			zapLogger.Info("purged stale sessions", zap.Int64("count", n))
		}); err != nil {
			zapLogger.Fatal("schedule purge", zap.Error(err))
		}
		purge.Start()
		zapLogger.Info("session store: sqlite", zap.String("path", cfg.Session.SQLitePath))
		return kv, func() {
			<-purge.Stop().Done()
			db.Close()
		}
	}
	zapLogger.Info("session store: memory")
	return repo.NewMemoryKV(), func() {}
}
