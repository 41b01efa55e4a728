// Package mongodb implements the repositories on top of a MongoDB database.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"perfumeadmin/internal/database"
	"perfumeadmin/internal/repository"
)

func NewRepository(db *mongo.Database) *repository.Repository {
	return &repository.Repository{
		Product: NewProductRepository(db.Collection(database.CollectionProducts)),
		Blog:    NewBlogRepository(db.Collection(database.CollectionBlogs)),
		User:    NewUserRepository(db.Collection(database.CollectionUsers)),
		Upload:  NewUploadRepository(db.Collection(database.CollectionUploads)),
		Stats: NewStatsRepository(
			db.Collection(database.CollectionUsers),
			db.Collection(database.CollectionProducts),
			db.Collection(database.CollectionBlogs),
		),
	}
}

// objectID parses a hex id. ok is false for anything that is not a valid ObjectID.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func exists(ctx context.Context, collection *mongo.Collection, filter bson.M) (bool, error) {
	err := collection.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	}
	return false, fmt.Errorf("failed to query %s: %w", collection.Name(), err)
}
