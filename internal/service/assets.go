package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
	"perfumeadmin/internal/repository"
	"perfumeadmin/internal/storage"
)

// AssetManager moves image references through their lifecycle: inline payloads are uploaded
// and recorded as pending, committed once the owning entity is written, and destroyed
// best-effort when dropped.
type AssetManager struct {
	store       storage.AssetStore
	uploads     repository.UploadRepository
	concurrency int
	logger      *zap.Logger
}

func NewAssetManager(store storage.AssetStore, uploads repository.UploadRepository, concurrency int, logger *zap.Logger) *AssetManager {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &AssetManager{
		store:       store,
		uploads:     uploads,
		concurrency: concurrency,
		logger:      logger,
	}
}

// resolve returns sources with every inline payload replaced by its uploaded URL, in input
// order, plus the URLs that were uploaded by this call. Nothing is uploaded when any source is
// invalid. An upload failure aborts; the uploads that did succeed stay pending in the log.
func (a *AssetManager) resolve(ctx context.Context, sources []string, folder string) ([]string, []string, error) {
	resolved := make([]string, len(sources))
	payloads := make([]string, len(sources))
	inline := make([]int, 0, len(sources))

	for i, src := range sources {
		src = strings.TrimSpace(src)
		switch {
		case storage.IsInlinePayload(src):
			if _, err := storage.ParseDataURI(src); err != nil {
				return nil, nil, errs.Validation("Invalid image payload")
			}
			payloads[i] = src
			inline = append(inline, i)
		case storage.IsRemoteURL(src):
			resolved[i] = src
		default:
			return nil, nil, errs.Validation("Images must be URLs or inline data URIs")
		}
	}

	if len(inline) == 0 {
		return resolved, nil, nil
	}

	var mu sync.Mutex
	uploaded := make([]string, 0, len(inline))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for _, i := range inline {
		i := i
		g.Go(func() error {
			url, err := a.store.Upload(gctx, payloads[i], folder)
			if err != nil {
				return err
			}
			resolved[i] = url
			a.record(ctx, url, folder, models.UploadPending)

			mu.Lock()
			uploaded = append(uploaded, url)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Error("image upload failed", zap.String("folder", folder), zap.Error(err))
		return nil, nil, errs.Asset("Failed to upload image", err)
	}

	return resolved, uploaded, nil
}

// commit marks uploads as referenced by a persisted entity.
func (a *AssetManager) commit(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	if err := a.uploads.SetStatus(ctx, models.UploadCommitted, urls...); err != nil {
		a.logger.Warn("failed to commit uploads", zap.Strings("urls", urls), zap.Error(err))
	}
}

// destroy never fails the caller. A failed destroy is logged and left to the reconciler.
func (a *AssetManager) destroy(ctx context.Context, url, folder string) {
	publicID := storage.PublicIDFromURL(url, folder)

	err := a.store.Destroy(ctx, publicID)
	switch {
	case err == nil, errors.Is(err, storage.ErrAssetNotFound):
		if err != nil {
			a.logger.Debug("asset already gone", zap.String("url", url), zap.String("publicId", publicID))
		}
		if err := a.uploads.Forget(ctx, url); err != nil {
			a.logger.Warn("failed to forget upload", zap.String("url", url), zap.Error(err))
		}
	default:
		a.logger.Warn("failed to destroy asset",
			zap.String("url", url),
			zap.String("publicId", publicID),
			zap.Error(err),
		)
		a.record(ctx, url, folder, models.UploadOrphaned)
	}
}

func (a *AssetManager) destroyAll(ctx context.Context, urls []string, folder string) {
	for _, url := range urls {
		a.destroy(ctx, url, folder)
	}
}

func (a *AssetManager) record(ctx context.Context, url, folder string, status models.UploadStatus) {
	err := a.uploads.Save(ctx, &models.Upload{
		URL:      url,
		PublicID: storage.PublicIDFromURL(url, folder),
		Folder:   folder,
		Status:   status,
	})
	if err != nil {
		a.logger.Warn("failed to record upload",
			zap.String("url", url),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}
