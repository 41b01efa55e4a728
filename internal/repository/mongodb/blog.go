package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
	"perfumeadmin/internal/repository"
)

type blogRepository struct {
	collection *mongo.Collection
}

type blogDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	BlogTitle       string             `bson:"blogTitle"`
	BlogDescription string             `bson:"blogDescription"`
	BlogImage       string             `bson:"blogImage"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func NewBlogRepository(collection *mongo.Collection) repository.BlogRepository {
	return &blogRepository{collection: collection}
}

func (d blogDoc) toModel() models.Blog {
	return models.Blog{
		ID:              d.ID.Hex(),
		BlogTitle:       d.BlogTitle,
		BlogDescription: d.BlogDescription,
		BlogImage:       d.BlogImage,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	now := time.Now().UTC()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, blogDoc{
		BlogTitle:       blog.BlogTitle,
		BlogDescription: blog.BlogDescription,
		BlogImage:       blog.BlogImage,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		blog.ID = oid.Hex()
	}

	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, blogID string) (*models.Blog, error) {
	oid, ok := objectID(blogID)
	if !ok {
		return nil, errs.NotFound("Blog not found")
	}

	var doc blogDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Blog not found")
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}

	blog := doc.toModel()
	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context) ([]models.Blog, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []blogDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode blogs: %w", err)
	}

	blogs := make([]models.Blog, 0, len(docs))
	for _, d := range docs {
		blogs = append(blogs, d.toModel())
	}
	return blogs, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	oid, ok := objectID(blog.ID)
	if !ok {
		return errs.NotFound("Blog not found")
	}

	blog.UpdatedAt = time.Now().UTC()

	result, err := r.collection.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"blogTitle":       blog.BlogTitle,
		"blogDescription": blog.BlogDescription,
		"blogImage":       blog.BlogImage,
		"updatedAt":       blog.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}

	if result.MatchedCount == 0 {
		return errs.NotFound("Blog not found")
	}

	return nil
}

func (r *blogRepository) Delete(ctx context.Context, blogID string) error {
	oid, ok := objectID(blogID)
	if !ok {
		return errs.NotFound("Blog not found")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	if result.DeletedCount == 0 {
		return errs.NotFound("Blog not found")
	}

	return nil
}

func (r *blogRepository) ReferencesAsset(ctx context.Context, url string) (bool, error) {
	return exists(ctx, r.collection, bson.M{"blogImage": url})
}
