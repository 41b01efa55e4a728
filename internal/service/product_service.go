package service

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
	"perfumeadmin/internal/repository"
	"perfumeadmin/internal/storage"
)

// DefaultSampleSize is the number of recommendations returned when the caller does not ask
// for a specific count.
const DefaultSampleSize = 4

type ProductService interface {
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, productID string, in models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, productID string) error
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, productID string) (*models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	// GetFeatured returns a NotFound error when no product is featured.
	GetFeatured(ctx context.Context) ([]models.Product, error)
	GetRandomSample(ctx context.Context, size int) ([]models.ProductPreview, error)
	ToggleFeatured(ctx context.Context, productID string) (*models.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	assets      *AssetManager
	logger      *zap.Logger
}

func NewProductService(productRepo repository.ProductRepository, assets *AssetManager, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		assets:      assets,
		logger:      logger,
	}
}

func (s *productService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	if err := validateInput(in); err != nil {
		return nil, err
	}

	images, uploaded, err := s.assets.resolve(ctx, in.Images, models.FolderProducts)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Images:      images,
		ProductLink: in.ProductLink,
		IsFeatured:  in.IsFeatured,
		ComingSoon:  in.ComingSoon,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, storageError("Failed to create product", err)
	}

	s.assets.commit(ctx, uploaded)

	s.logger.Info("product created",
		zap.String("productId", product.ID),
		zap.Int("images", len(product.Images)),
	)

	return product, nil
}

func (s *productService) Update(ctx context.Context, productID string, in models.ProductUpdate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storageError("Failed to load product", err)
	}

	removedList := models.NewLinkSet(in.RemovedImages...)
	removed := toSet(removedList)

	sources := make([]string, 0, len(in.Images))
	for _, src := range in.Images {
		if _, ok := removed[strings.TrimSpace(src)]; !ok {
			sources = append(sources, src)
		}
	}

	images, uploaded, err := s.assets.resolve(ctx, sources, models.FolderProducts)
	if err != nil {
		return nil, err
	}

	prior := product.Images
	var dropped []string

	switch {
	case in.ClearImages:
		product.Images = images
		keep := toSet(images)
		for _, url := range prior {
			if _, ok := keep[url]; !ok {
				dropped = append(dropped, url)
			}
		}
	case len(images) > 0:
		product.Images = images
	default:
		// an empty image list keeps the stored set minus what was explicitly removed
		kept := make([]string, 0, len(prior))
		for _, url := range prior {
			if _, ok := removed[url]; !ok {
				kept = append(kept, url)
			}
		}
		product.Images = kept
	}

	// only assets this product stored are destroyed
	for _, url := range removedList {
		if !slices.Contains(prior, url) || !storage.IsRemoteURL(url) {
			continue
		}
		if !slices.Contains(dropped, url) && !slices.Contains(product.Images, url) {
			dropped = append(dropped, url)
		}
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		product.Name = name
	}
	if description := strings.TrimSpace(in.Description); description != "" {
		product.Description = description
	}
	if category := strings.TrimSpace(in.Category); category != "" {
		product.Category = category
	}
	if in.ComingSoon != nil {
		product.ComingSoon = *in.ComingSoon
	}
	if in.ProductLink != nil {
		product.ProductLink = *in.ProductLink
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, storageError("Failed to update product", err)
	}

	s.assets.commit(ctx, uploaded)
	s.assets.destroyAll(ctx, dropped, models.FolderProducts)

	return product, nil
}

func (s *productService) Delete(ctx context.Context, productID string) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return storageError("Failed to load product", err)
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return storageError("Failed to delete product", err)
	}

	s.assets.destroyAll(ctx, product.Images, models.FolderProducts)

	s.logger.Info("product deleted", zap.String("productId", productID))
	return nil
}

func (s *productService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, storageError("Failed to fetch products", err)
	}
	return products, nil
}

func (s *productService) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storageError("Failed to fetch product", err)
	}
	return product, nil
}

func (s *productService) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.productRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, storageError("Failed to fetch products by category", err)
	}
	return products, nil
}

func (s *productService) GetFeatured(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.ListFeatured(ctx)
	if err != nil {
		return nil, storageError("Failed to fetch featured products", err)
	}
	if len(products) == 0 {
		return nil, errs.NotFound("No featured products found")
	}
	return products, nil
}

func (s *productService) GetRandomSample(ctx context.Context, size int) ([]models.ProductPreview, error) {
	if size <= 0 {
		size = DefaultSampleSize
	}

	previews, err := s.productRepo.Sample(ctx, size)
	if err != nil {
		return nil, storageError("Failed to fetch recommendations", err)
	}
	return previews, nil
}

func (s *productService) ToggleFeatured(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storageError("Failed to load product", err)
	}

	product.IsFeatured = !product.IsFeatured

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, storageError("Failed to update product", err)
	}
	return product, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
