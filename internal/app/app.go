package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/foodlog/foodlog"
	"github.com/foodlog/foodlog/internal/config"
	"github.com/foodlog/foodlog/internal/db"
	"github.com/foodlog/foodlog/internal/feed"
	"github.com/foodlog/foodlog/internal/repository"
	"github.com/foodlog/foodlog/internal/service"
	"github.com/foodlog/foodlog/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Redis          *redis.Client
	Hub            *feed.Hub
	Relay          *feed.RedisRelay
	AuthService    *service.AuthService
	UserService    *service.UserService
	FoodService    *service.FoodService
	EmailService   *service.EmailService
	ContentService *service.ContentService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	buckets, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Assemble(ctx, cfg, database, buckets)
}

// Assemble wires repositories, services and the change feed on top of an
// open database and buckets.
func Assemble(ctx context.Context, cfg *config.Config, database *sqlx.DB, buckets *storage.Buckets) (*App, error) {
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	foodRepository := repository.NewFoodRepository(database)

	hub := feed.NewHub()
	a := &App{Cfg: cfg, DB: database, Hub: hub}

	var publisher feed.Publisher = hub
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		a.Relay = feed.NewRedisRelay(a.Redis, hub)
		err = a.Relay.Start(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to start feed relay: %w", err)
		}
		publisher = a.Relay
		slog.Info("change feed relayed through redis")
	}

	a.EmailService = service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)

	avatarFiles := service.NewFileService(buckets.Avatars, cfg.S3AvatarBucket)
	foodFiles := service.NewFileService(buckets.Foods, cfg.S3FoodBucket)

	a.AuthService = service.NewAuthService(
		userRepository,
		profileRepository,
		avatarFiles,
		a.EmailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	a.UserService = service.NewUserService(
		userRepository,
		profileRepository,
		a.AuthService,
		avatarFiles,
		service.NewAvatarResolver(buckets.Avatars, cfg.AvatarSignedURLExpiry),
	)
	a.FoodService = service.NewFoodService(
		foodRepository,
		foodFiles,
		service.NewFoodImageResolver(buckets.Foods),
		publisher,
		cfg.FoodFetchLimit,
		cfg.FoodPageSize,
	)

	a.ContentService = service.NewContentService(contentFS(cfg.ContentPath))
	err := a.ContentService.LoadPages()
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	return a, nil
}

// contentFS prefers a content directory on disk and falls back to the embedded pages.
func contentFS(path string) fs.FS {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return os.DirFS(path)
	}
	sub, err := fs.Sub(foodlog.ContentFS, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

func (a *App) Close() error {
	if a.Redis != nil {
		err := a.Redis.Close()
		if err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}
	return db.Close(a.DB)
}
