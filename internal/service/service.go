package service

import (
	"go.uber.org/zap"

	"perfumeadmin/internal/config"
	"perfumeadmin/internal/repository"
	"perfumeadmin/internal/storage"
)

type Service struct {
	Product    ProductService
	Blog       BlogService
	User       UserService
	Auth       AuthService
	Analytics  AnalyticsService
	Reconciler *AssetReconciler
}

func NewService(rep *repository.Repository, cfg *config.Config, assets storage.AssetStore, logger *zap.Logger) *Service {
	manager := NewAssetManager(assets, rep.Upload, cfg.Assets.UploadConcurrency, logger)

	return &Service{
		Product:    NewProductService(rep.Product, manager, logger),
		Blog:       NewBlogService(rep.Blog, manager, logger),
		User:       NewUserService(rep.User, logger),
		Auth:       NewAuthService(rep.User, cfg, logger),
		Analytics:  NewAnalyticsService(rep.Stats),
		Reconciler: NewAssetReconciler(rep.Upload, assets,
			[]AssetReferencer{rep.Product, rep.Blog},
			cfg.Reconcile.Grace, cfg.Reconcile.Workers, logger),
	}
}
