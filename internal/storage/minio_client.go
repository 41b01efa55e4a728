package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"perfumeadmin/internal/config"
)

// MinIOStore keeps assets in a single bucket, one prefix per folder.
type MinIOStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOStore(ctx context.Context, cfg config.MinIO) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.BucketName, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.BucketName, err)
		}
	}

	return &MinIOStore{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}, nil
}

func (m *MinIOStore) Upload(ctx context.Context, payload string, folder string) (string, error) {
	decoded, err := ParseDataURI(payload)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), decoded.Extension)

	_, err = m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(decoded.Data), int64(len(decoded.Data)),
		minio.PutObjectOptions{
			ContentType: decoded.ContentType,
			UserMetadata: map[string]string{
				"folder":      folder,
				"uploaded-at": time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, objectName), nil
}

// Destroy removes every object whose key starts with "<publicID>.", which covers whatever
// extension the upload picked.
func (m *MinIOStore) Destroy(ctx context.Context, publicID string) error {
	objects := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    publicID + ".",
		Recursive: true,
	})

	removed := 0
	for object := range objects {
		if object.Err != nil {
			return fmt.Errorf("failed to list objects in MinIO: %w", object.Err)
		}

		err := m.client.RemoveObject(ctx, m.bucket, object.Key, minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
		if err != nil {
			return fmt.Errorf("failed to remove %s from MinIO: %w", object.Key, err)
		}
		removed++
	}

	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, publicID)
	}

	return nil
}
