package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"perfumeadmin/internal/models"
	"perfumeadmin/internal/repository"
)

type BlogService interface {
	Create(ctx context.Context, in models.BlogInput) (*models.Blog, error)
	// Update overwrites every field with the input, empty title and description included. The
	// previous image is left in the asset store.
	Update(ctx context.Context, blogID string, in models.BlogInput) (*models.Blog, error)
	Delete(ctx context.Context, blogID string) error
	List(ctx context.Context) ([]models.Blog, error)
	GetByID(ctx context.Context, blogID string) (*models.Blog, error)
}

type blogService struct {
	blogRepo repository.BlogRepository
	assets   *AssetManager
	logger   *zap.Logger
}

func NewBlogService(blogRepo repository.BlogRepository, assets *AssetManager, logger *zap.Logger) BlogService {
	return &blogService{
		blogRepo: blogRepo,
		assets:   assets,
		logger:   logger,
	}
}

// prepare validates the input and uploads an inline image. It returns the URLs uploaded by
// this call. Only the listed fields are validated when fields is not empty.
func (s *blogService) prepare(ctx context.Context, in *models.BlogInput, fields ...string) ([]string, error) {
	in.BlogTitle = strings.TrimSpace(in.BlogTitle)
	in.BlogDescription = strings.TrimSpace(in.BlogDescription)
	in.BlogImage = strings.TrimSpace(in.BlogImage)

	if err := validateInput(in, fields...); err != nil {
		return nil, err
	}

	images, uploaded, err := s.assets.resolve(ctx, []string{in.BlogImage}, models.FolderBlogs)
	if err != nil {
		return nil, err
	}

	in.BlogImage = images[0]
	return uploaded, nil
}

func (s *blogService) Create(ctx context.Context, in models.BlogInput) (*models.Blog, error) {
	uploaded, err := s.prepare(ctx, &in)
	if err != nil {
		return nil, err
	}

	blog := &models.Blog{
		BlogTitle:       in.BlogTitle,
		BlogDescription: in.BlogDescription,
		BlogImage:       in.BlogImage,
	}

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, storageError("Failed to create blog", err)
	}

	s.assets.commit(ctx, uploaded)

	s.logger.Info("blog created", zap.String("blogId", blog.ID))
	return blog, nil
}

func (s *blogService) Update(ctx context.Context, blogID string, in models.BlogInput) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, storageError("Failed to load blog", err)
	}

	// title and description may be overwritten with empty values; the image must stay a URL
	uploaded, err := s.prepare(ctx, &in, "BlogImage")
	if err != nil {
		return nil, err
	}

	blog.BlogTitle = in.BlogTitle
	blog.BlogDescription = in.BlogDescription
	blog.BlogImage = in.BlogImage

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, storageError("Failed to update blog", err)
	}

	s.assets.commit(ctx, uploaded)
	return blog, nil
}

func (s *blogService) Delete(ctx context.Context, blogID string) error {
	if err := s.blogRepo.Delete(ctx, blogID); err != nil {
		return storageError("Failed to delete blog", err)
	}

	s.logger.Info("blog deleted", zap.String("blogId", blogID))
	return nil
}

func (s *blogService) List(ctx context.Context) ([]models.Blog, error) {
	blogs, err := s.blogRepo.List(ctx)
	if err != nil {
		return nil, storageError("Failed to fetch blogs", err)
	}
	return blogs, nil
}

func (s *blogService) GetByID(ctx context.Context, blogID string) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, storageError("Failed to fetch blog", err)
	}
	return blog, nil
}
