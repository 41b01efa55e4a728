package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"perfumeadmin/internal/models"
)

type uploadRepository struct {
	db *sqlx.DB
}

func NewUploadRepository(db *sqlx.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Save(ctx context.Context, upload *models.Upload) error {
	query := `
		INSERT INTO asset_uploads (url, public_id, folder, status, created_at, updated_at)
		VALUES (:url, :public_id, :folder, :status, :created_at, :updated_at)
		ON CONFLICT (url) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = now
	}
	upload.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, upload)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}

	return nil
}

func (r *uploadRepository) SetStatus(ctx context.Context, status models.UploadStatus, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}

	query := `UPDATE asset_uploads SET status = $1, updated_at = $2 WHERE url = ANY($3)`

	_, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), pq.Array(urls))
	if err != nil {
		return fmt.Errorf("failed to update upload status: %w", err)
	}

	return nil
}

func (r *uploadRepository) Forget(ctx context.Context, url string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM asset_uploads WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("failed to forget upload: %w", err)
	}

	return nil
}

func (r *uploadRepository) ListReclaimable(ctx context.Context, pendingBefore time.Time, limit int) ([]models.Upload, error) {
	query := `
		SELECT * FROM asset_uploads
		WHERE status = $1 OR (status = $2 AND created_at < $3)
		ORDER BY created_at
		LIMIT $4
	`

	uploads := []models.Upload{}
	err := r.db.SelectContext(ctx, &uploads, query, models.UploadOrphaned, models.UploadPending, pendingBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reclaimable uploads: %w", err)
	}

	return uploads, nil
}
