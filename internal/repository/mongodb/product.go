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

type productRepository struct {
	collection *mongo.Collection
}

// productDoc is the stored shape. productLink is decoded raw because older documents hold a
// single string instead of an array, and image is a legacy single-image field.
type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Images      []string           `bson:"images"`
	Image       string             `bson:"image,omitempty"`
	ProductLink bson.RawValue      `bson:"productLink"`
	IsFeatured  bool               `bson:"isFeatured"`
	ComingSoon  bool               `bson:"comingSoon"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func NewProductRepository(collection *mongo.Collection) repository.ProductRepository {
	return &productRepository{collection: collection}
}

func decodeLinks(raw bson.RawValue) models.LinkSet {
	switch raw.Type {
	case bson.TypeString:
		return models.NewLinkSet(raw.StringValue())
	case bson.TypeArray:
		values, err := raw.Array().Values()
		if err != nil {
			return models.NewLinkSet()
		}
		links := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.StringValueOK(); ok {
				links = append(links, s)
			}
		}
		return models.NewLinkSet(links...)
	}
	return models.NewLinkSet()
}

func (d productDoc) toModel() models.Product {
	images := d.Images
	if len(images) == 0 && d.Image != "" {
		images = []string{d.Image}
	}
	p := models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Images:      images,
		ProductLink: decodeLinks(d.ProductLink),
		IsFeatured:  d.IsFeatured,
		ComingSoon:  d.ComingSoon,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	p.Normalize()
	return p
}

func productFields(p *models.Product) bson.M {
	return bson.M{
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"images":      p.Images,
		"productLink": []string(p.ProductLink),
		"isFeatured":  p.IsFeatured,
		"comingSoon":  p.ComingSoon,
		"updatedAt":   p.UpdatedAt,
	}
}

func (r *productRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.Normalize()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	doc := productFields(product)
	doc["createdAt"] = now

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	oid, ok := objectID(productID)
	if !ok {
		return nil, errs.NotFound("Product not found")
	}

	var doc productDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Product not found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product := doc.toModel()
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]models.Product, error) {
	products, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := r.find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return products, nil
}

func (r *productRepository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	products, err := r.find(ctx, bson.M{"isFeatured": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Sample(ctx context.Context, size int) ([]models.ProductPreview, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "images", Value: 1},
			{Key: "image", Value: 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode sampled products: %w", err)
	}

	previews := make([]models.ProductPreview, 0, len(docs))
	for _, d := range docs {
		p := d.toModel()
		previews = append(previews, models.ProductPreview{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Images:      p.Images,
		})
	}
	return previews, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	oid, ok := objectID(product.ID)
	if !ok {
		return errs.NotFound("Product not found")
	}

	product.Normalize()
	product.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set":   productFields(product),
		"$unset": bson.M{"image": ""},
	}

	result, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return errs.NotFound("Product not found")
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, productID string) error {
	oid, ok := objectID(productID)
	if !ok {
		return errs.NotFound("Product not found")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return errs.NotFound("Product not found")
	}

	return nil
}

// ReferencesAsset also matches the legacy single image field.
func (r *productRepository) ReferencesAsset(ctx context.Context, url string) (bool, error) {
	filter := bson.M{"$or": bson.A{bson.M{"images": url}, bson.M{"image": url}}}
	return exists(ctx, r.collection, filter)
}
