package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"perfumeadmin/internal/service"
	"perfumeadmin/internal/storage"
)

// HealthChecker is implemented by both database connections.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// AssetSource serves uploaded objects by key. Only the in-memory asset store needs it; MinIO
// serves its own URLs.
type AssetSource interface {
	Get(key string) (*storage.Payload, bool)
}

type Handlers struct {
	ProductService   service.ProductService
	BlogService      service.BlogService
	UserService      service.UserService
	AuthService      service.AuthService
	AnalyticsService service.AnalyticsService
	DB               HealthChecker
	Assets           AssetSource
	Validate         *validator.Validate
	Logger           *zap.Logger
}

func NewHandlers(services *service.Service, db HealthChecker, logger *zap.Logger) *Handlers {
	return &Handlers{
		ProductService:   services.Product,
		BlogService:      services.Blog,
		UserService:      services.User,
		AuthService:      services.Auth,
		AnalyticsService: services.Analytics,
		DB:               db,
		Validate:         validator.New(validator.WithRequiredStructEnabled()),
		Logger:           logger,
	}
}
