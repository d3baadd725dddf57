package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Ferpoks/telegram-cv-bot/internal/convert"
	"github.com/Ferpoks/telegram-cv-bot/internal/dialog"
	"github.com/Ferpoks/telegram-cv-bot/internal/entitlement"
	"github.com/Ferpoks/telegram-cv-bot/internal/render"
	"github.com/Ferpoks/telegram-cv-bot/internal/server"
	"github.com/Ferpoks/telegram-cv-bot/internal/services/health"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/config"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/storage/db"
	"github.com/Ferpoks/telegram-cv-bot/internal/store"
	"github.com/Ferpoks/telegram-cv-bot/internal/telegram"
)

// App holds the shared dependencies of the bot process.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Repo     store.Repo
	Gate     *entitlement.Gate
	Bot      *dialog.Bot
	Client   *telegram.Client
	Poller   *telegram.Poller
	Pipeline *convert.Pipeline
}

// Build prepares shared dependencies. A missing or unreachable database
// degrades to in-memory state in dev-like environments only.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var (
		repo       store.Repo
		onceStore  entitlement.OnceStore
		quotaStore entitlement.QuotaStore
	)
	if sqlDB != nil {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		repo = &store.PGRepo{DB: sqlDB}
		onceStore = &entitlement.PGOnceStore{DB: sqlDB}
		quotaStore = &entitlement.PGQuotaStore{DB: sqlDB}
	} else {
		repo = store.NewMemoryRepo()
		onceStore = entitlement.NewMemoryOnceStore()
		quotaStore = entitlement.NewMemoryQuotaStore()
	}

	gate := entitlement.NewGate(
		buildPolicy(cfg, onceStore, quotaStore),
		repo,
		cfg.OwnerID,
		cfg.OwnerUsername,
	)

	pipeline := &convert.Pipeline{
		Remote: convert.NewRemoteClient(cfg.DocRaptorAPIKey),
		Local:  convert.NewLocalRenderer(cfg.EnableLocalPDF),
	}

	client := telegram.NewClient(cfg.BotToken)
	bot := dialog.NewBot(client, repo, gate, render.NewResolver(cfg.AssetsDir), pipeline, dialog.Options{
		OwnerID:       cfg.OwnerID,
		OwnerUsername: cfg.OwnerUsername,
		UpgradeURL:    cfg.UpgradeURL,
		ExportsDir:    cfg.ExportsDir,
	})

	return &App{
		Config:   cfg,
		Router:   server.NewEngine(health.NewService("cvbot")),
		DB:       sqlDB,
		Repo:     repo,
		Gate:     gate,
		Bot:      bot,
		Client:   client,
		Poller:   telegram.NewPoller(client),
		Pipeline: pipeline,
	}, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory state")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory state: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildPolicy(cfg config.Config, once entitlement.OnceStore, quota entitlement.QuotaStore) entitlement.Policy {
	if cfg.QuotaPolicy == "daily" {
		limit := cfg.QuotaDailyLimit
		if limit < 1 {
			limit = 1
		}
		return &entitlement.DailyQuota{Store: quota, Limit: limit}
	}
	return &entitlement.LifetimeOnce{Store: once}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
