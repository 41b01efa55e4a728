package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"perfumeadmin/internal/models"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Analytics(ctx context.Context) (*models.Analytics, error) {
	var analytics models.Analytics

	err := r.db.GetContext(ctx, &analytics, `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM blogs) AS blogs,
			(SELECT COUNT(*) FROM products WHERE is_featured) AS featured_products
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count collections: %w", err)
	}

	return &analytics, nil
}
