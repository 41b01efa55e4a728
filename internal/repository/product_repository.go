package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
)

type productRepository struct {
	db *sqlx.DB
}

type productRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Category    string         `db:"category"`
	Images      pq.StringArray `db:"images"`
	ProductLink pq.StringArray `db:"product_link"`
	IsFeatured  bool           `db:"is_featured"`
	ComingSoon  bool           `db:"coming_soon"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type previewRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Images      pq.StringArray `db:"images"`
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

func toProductRow(p *models.Product) productRow {
	return productRow{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Images:      pq.StringArray(p.Images),
		ProductLink: pq.StringArray(p.ProductLink),
		IsFeatured:  p.IsFeatured,
		ComingSoon:  p.ComingSoon,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r productRow) toModel() models.Product {
	p := models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Images:      []string(r.Images),
		ProductLink: models.LinkSet(r.ProductLink),
		IsFeatured:  r.IsFeatured,
		ComingSoon:  r.ComingSoon,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	p.Normalize()
	return p
}

func toProducts(rows []productRow) []models.Product {
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products
		(id, name, description, category, images, product_link, is_featured, coming_soon, created_at, updated_at)
		VALUES
		(:id, :name, :description, :category, :images, :product_link, :is_featured, :coming_soon, :created_at, :updated_at)
	`

	product.Normalize()
	product.ID = uuid.New().String()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, toProductRow(product))
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	if !validID(productID) {
		return nil, errs.NotFound("Product not found")
	}

	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM products WHERE id = $1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("Product not found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product := row.toModel()
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM products ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return toProducts(rows), nil
}

func (r *productRepository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var rows []productRow
	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM products WHERE category = $1 ORDER BY created_at`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}

	return toProducts(rows), nil
}

func (r *productRepository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM products WHERE is_featured = true ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}

	return toProducts(rows), nil
}

func (r *productRepository) Sample(ctx context.Context, size int) ([]models.ProductPreview, error) {
	var rows []previewRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, name, description, images FROM products ORDER BY random() LIMIT $1`, size)
	if err != nil {
		return nil, fmt.Errorf("failed to sample products: %w", err)
	}

	previews := make([]models.ProductPreview, 0, len(rows))
	for _, row := range rows {
		images := []string(row.Images)
		if images == nil {
			images = []string{}
		}
		previews = append(previews, models.ProductPreview{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Images:      images,
		})
	}

	return previews, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	if !validID(product.ID) {
		return errs.NotFound("Product not found")
	}

	query := `
		UPDATE products SET
			name = :name,
			description = :description,
			category = :category,
			images = :images,
			product_link = :product_link,
			is_featured = :is_featured,
			coming_soon = :coming_soon,
			updated_at = :updated_at
		WHERE id = :id
	`

	product.Normalize()
	product.UpdatedAt = time.Now().UTC()

	result, err := r.db.NamedExecContext(ctx, query, toProductRow(product))
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return errs.NotFound("Product not found")
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, productID string) error {
	if !validID(productID) {
		return errs.NotFound("Product not found")
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return errs.NotFound("Product not found")
	}

	return nil
}

func (r *productRepository) ReferencesAsset(ctx context.Context, url string) (bool, error) {
	var found bool
	err := r.db.GetContext(ctx, &found, `SELECT EXISTS (SELECT 1 FROM products WHERE $1 = ANY(images))`, url)
	if err != nil {
		return false, fmt.Errorf("failed to check product images: %w", err)
	}
	return found, nil
}
