package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"perfumeadmin/internal/config"
	"perfumeadmin/internal/database"
	handlers "perfumeadmin/internal/handler"
	"perfumeadmin/internal/repository"
	"perfumeadmin/internal/repository/mongodb"
	"perfumeadmin/internal/service"
	"perfumeadmin/internal/storage"
)

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Repository *repository.Repository
	Services   *service.Service
	Assets     storage.AssetStore
	DB         handlers.HealthChecker

	closeDB func(ctx context.Context) error
}

// New connects the document store and the asset store selected by the config and builds
// the services on top of them.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	switch cfg.DB.Driver {
	case config.DriverMongo:
		m, err := database.ConnectMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		a.Repository = mongodb.NewRepository(m.Database)
		a.DB = m
		a.closeDB = m.Close
	case config.DriverPostgres:
		db, err := database.ConnectDB(ctx, cfg.DB, logger)
		if err != nil {
			return nil, err
		}
		a.Repository = repository.NewRepository(db.DB)
		a.DB = db
		a.closeDB = func(context.Context) error { return db.CloseDB() }
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DB.Driver)
	}

	assets, err := newAssetStore(ctx, cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Assets = assets

	a.Services = service.NewService(a.Repository, cfg, assets, logger)
	return a, nil
}

func newAssetStore(ctx context.Context, cfg *config.Config) (storage.AssetStore, error) {
	switch cfg.Assets.Driver {
	case config.AssetDriverMinIO:
		return storage.NewMinIOStore(ctx, cfg.MinIO)
	case config.AssetDriverMemory:
		return storage.NewMemoryStore(fmt.Sprintf("http://localhost:%d/assets", cfg.Server.Port)), nil
	}
	return nil, fmt.Errorf("unknown ASSET_DRIVER %q", cfg.Assets.Driver)
}

// AssetSource returns the store the router serves /assets from. It is nil unless the assets
// live in memory.
func (a *App) AssetSource() handlers.AssetSource {
	if ms, ok := a.Assets.(*storage.MemoryStore); ok {
		return ms
	}
	return nil
}

// Bootstrap creates the configured admin account. It does nothing when ADMIN_EMAIL is unset.
func (a *App) Bootstrap(ctx context.Context) error {
	admin := a.Config.Admin
	if admin.Email == "" {
		return nil
	}
	if err := a.Services.Auth.EnsureAdmin(ctx, admin.Name, admin.Email, admin.Password); err != nil {
		return fmt.Errorf("failed to bootstrap admin %s: %w", admin.Email, err)
	}
	a.Logger.Info("admin account ready", zap.String("email", admin.Email))
	return nil
}

func (a *App) Close(ctx context.Context) error {
	if a.closeDB == nil {
		return nil
	}
	return a.closeDB(ctx)
}
