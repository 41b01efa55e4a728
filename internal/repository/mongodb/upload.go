package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"perfumeadmin/internal/models"
	"perfumeadmin/internal/repository"
)

type uploadRepository struct {
	collection *mongo.Collection
}

// uploadDoc is keyed by URL so re-saving an upload overwrites its status.
type uploadDoc struct {
	URL       string              `bson:"_id"`
	PublicID  string              `bson:"publicId"`
	Folder    string              `bson:"folder"`
	Status    models.UploadStatus `bson:"status"`
	CreatedAt time.Time           `bson:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

func NewUploadRepository(collection *mongo.Collection) repository.UploadRepository {
	return &uploadRepository{collection: collection}
}

func (r *uploadRepository) Save(ctx context.Context, upload *models.Upload) error {
	now := time.Now().UTC()
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = now
	}
	upload.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{"status": upload.Status, "updatedAt": now},
		"$setOnInsert": bson.M{
			"publicId":  upload.PublicID,
			"folder":    upload.Folder,
			"createdAt": upload.CreatedAt,
		},
	}

	_, err := r.collection.UpdateByID(ctx, upload.URL, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}

	return nil
}

func (r *uploadRepository) SetStatus(ctx context.Context, status models.UploadStatus, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}

	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": urls}},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update upload status: %w", err)
	}

	return nil
}

func (r *uploadRepository) Forget(ctx context.Context, url string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": url})
	if err != nil {
		return fmt.Errorf("failed to forget upload: %w", err)
	}
	return nil
}

func (r *uploadRepository) ListReclaimable(ctx context.Context, pendingBefore time.Time, limit int) ([]models.Upload, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"status": models.UploadOrphaned},
		bson.M{"status": models.UploadPending, "createdAt": bson.M{"$lt": pendingBefore}},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reclaimable uploads: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []uploadDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode uploads: %w", err)
	}

	uploads := make([]models.Upload, 0, len(docs))
	for _, d := range docs {
		uploads = append(uploads, models.Upload{
			URL:       d.URL,
			PublicID:  d.PublicID,
			Folder:    d.Folder,
			Status:    d.Status,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return uploads, nil
}
