package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
)

type blogRepository struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	query := `
		INSERT INTO blogs (id, blog_title, blog_description, blog_image, created_at, updated_at)
		VALUES (:id, :blog_title, :blog_description, :blog_image, :created_at, :updated_at)
	`

	blog.ID = uuid.New().String()
	now := time.Now().UTC()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, blog)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, blogID string) (*models.Blog, error) {
	if !validID(blogID) {
		return nil, errs.NotFound("Blog not found")
	}

	var blog models.Blog
	err := r.db.GetContext(ctx, &blog, `SELECT * FROM blogs WHERE id = $1`, blogID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("Blog not found")
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}

	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context) ([]models.Blog, error) {
	blogs := []models.Blog{}

	err := r.db.SelectContext(ctx, &blogs, `SELECT * FROM blogs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}

	return blogs, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	if !validID(blog.ID) {
		return errs.NotFound("Blog not found")
	}

	query := `
		UPDATE blogs SET
			blog_title = :blog_title,
			blog_description = :blog_description,
			blog_image = :blog_image,
			updated_at = :updated_at
		WHERE id = :id
	`

	blog.UpdatedAt = time.Now().UTC()

	result, err := r.db.NamedExecContext(ctx, query, blog)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return errs.NotFound("Blog not found")
	}

	return nil
}

func (r *blogRepository) Delete(ctx context.Context, blogID string) error {
	if !validID(blogID) {
		return errs.NotFound("Blog not found")
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, blogID)
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return errs.NotFound("Blog not found")
	}

	return nil
}

func (r *blogRepository) ReferencesAsset(ctx context.Context, url string) (bool, error) {
	var found bool
	err := r.db.GetContext(ctx, &found, `SELECT EXISTS (SELECT 1 FROM blogs WHERE blog_image = $1)`, url)
	if err != nil {
		return false, fmt.Errorf("failed to check blog images: %w", err)
	}
	return found, nil
}
