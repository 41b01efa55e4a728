package repository

import (
	"context"
	"time"

	"perfumeadmin/internal/models"
)

// Repositories return errs.NotFound for missing entities and wrapped driver errors otherwise.

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, productID string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	ListFeatured(ctx context.Context) ([]models.Product, error)
	Sample(ctx context.Context, size int) ([]models.ProductPreview, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, productID string) error
	// ReferencesAsset reports whether any product stores url as an image.
	ReferencesAsset(ctx context.Context, url string) (bool, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, blogID string) (*models.Blog, error)
	// List returns blogs newest first.
	List(ctx context.Context) ([]models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, blogID string) error
	ReferencesAsset(ctx context.Context, url string) (bool, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, userID string, role models.Role) error
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
}

// UploadRepository is the asset upload log used to reconcile orphaned assets.
type UploadRepository interface {
	// Save inserts the upload or overwrites the status of an existing entry with the same URL.
	Save(ctx context.Context, upload *models.Upload) error
	// SetStatus updates the status of every listed URL that is present in the log.
	SetStatus(ctx context.Context, status models.UploadStatus, urls ...string) error
	Forget(ctx context.Context, url string) error
	// ListReclaimable returns orphaned uploads and pending uploads created before pendingBefore.
	ListReclaimable(ctx context.Context, pendingBefore time.Time, limit int) ([]models.Upload, error)
}

type StatsRepository interface {
	Analytics(ctx context.Context) (*models.Analytics, error)
}

type Repository struct {
	Product ProductRepository
	Blog    BlogRepository
	User    UserRepository
	Upload  UploadRepository
	Stats   StatsRepository
}
