package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"perfumeadmin/internal/models"
	"perfumeadmin/internal/repository"
	"perfumeadmin/internal/storage"
)

const reconcileBatchSize = 200

// AssetReferencer reports whether a stored entity points at an asset URL.
type AssetReferencer interface {
	ReferencesAsset(ctx context.Context, url string) (bool, error)
}

// AssetReconciler destroys assets that no entity references: uploads recorded as orphaned and
// uploads still pending after the grace period. An upload that an entity still stores is
// marked committed instead.
type AssetReconciler struct {
	uploads repository.UploadRepository
	store   storage.AssetStore
	refs    []AssetReferencer
	grace   time.Duration
	workers int
	logger  *zap.Logger
}

func NewAssetReconciler(uploads repository.UploadRepository, store storage.AssetStore, refs []AssetReferencer, grace time.Duration, workers int, logger *zap.Logger) *AssetReconciler {
	if workers <= 0 {
		workers = 1
	}
	return &AssetReconciler{
		uploads: uploads,
		store:   store,
		refs:    refs,
		grace:   grace,
		workers: workers,
		logger:  logger,
	}
}

// Run processes one batch and returns how many assets were reclaimed.
func (r *AssetReconciler) Run(ctx context.Context) (int, error) {
	uploads, err := r.uploads.ListReclaimable(ctx, time.Now().Add(-r.grace), reconcileBatchSize)
	if err != nil {
		return 0, err
	}
	if len(uploads) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(r.workers)
	if err != nil {
		return 0, fmt.Errorf("failed to create reconcile pool: %w", err)
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		reclaimed atomic.Int64
	)

	for _, upload := range uploads {
		upload := upload
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if r.reclaim(ctx, upload) {
				reclaimed.Add(1)
			}
		})
		if err != nil {
			wg.Done()
			r.logger.Error("failed to submit reconcile task", zap.String("url", upload.URL), zap.Error(err))
		}
	}

	wg.Wait()

	n := int(reclaimed.Load())
	r.logger.Info("asset reconcile finished",
		zap.Int("candidates", len(uploads)),
		zap.Int("reclaimed", n),
	)
	return n, nil
}

func (r *AssetReconciler) referenced(ctx context.Context, url string) (bool, error) {
	for _, ref := range r.refs {
		found, err := ref.ReferencesAsset(ctx, url)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

func (r *AssetReconciler) reclaim(ctx context.Context, upload models.Upload) bool {
	inUse, err := r.referenced(ctx, upload.URL)
	if err != nil {
		r.logger.Warn("failed to check asset references", zap.String("url", upload.URL), zap.Error(err))
		return false
	}
	if inUse {
		// the entity was written but its upload log entry never got committed
		if err := r.uploads.SetStatus(ctx, models.UploadCommitted, upload.URL); err != nil {
			r.logger.Warn("failed to commit referenced upload", zap.String("url", upload.URL), zap.Error(err))
		}
		return false
	}

	publicID := upload.PublicID
	if publicID == "" {
		publicID = storage.PublicIDFromURL(upload.URL, upload.Folder)
	}

	err = r.store.Destroy(ctx, publicID)
	if err != nil && !errors.Is(err, storage.ErrAssetNotFound) {
		r.logger.Warn("failed to reclaim asset",
			zap.String("url", upload.URL),
			zap.String("publicId", publicID),
			zap.Error(err),
		)
		if upload.Status != models.UploadOrphaned {
			if err := r.uploads.SetStatus(ctx, models.UploadOrphaned, upload.URL); err != nil {
				r.logger.Warn("failed to mark upload orphaned", zap.String("url", upload.URL), zap.Error(err))
			}
		}
		return false
	}

	if err := r.uploads.Forget(ctx, upload.URL); err != nil {
		r.logger.Warn("failed to forget upload", zap.String("url", upload.URL), zap.Error(err))
	}
	return true
}
