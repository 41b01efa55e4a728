package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"perfumeadmin/internal/models"
	"perfumeadmin/internal/repository"
)

type statsRepository struct {
	users    *mongo.Collection
	products *mongo.Collection
	blogs    *mongo.Collection
}

func NewStatsRepository(users, products, blogs *mongo.Collection) repository.StatsRepository {
	return &statsRepository{users: users, products: products, blogs: blogs}
}

func (r *statsRepository) Analytics(ctx context.Context) (*models.Analytics, error) {
	var analytics models.Analytics

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int64, collection *mongo.Collection, filter bson.M) {
		g.Go(func() error {
			n, err := collection.CountDocuments(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", collection.Name(), err)
			}
			*dst = n
			return nil
		})
	}

	count(&analytics.Users, r.users, bson.M{})
	count(&analytics.Products, r.products, bson.M{})
	count(&analytics.Blogs, r.blogs, bson.M{})
	count(&analytics.FeaturedProducts, r.products, bson.M{"isFeatured": true})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &analytics, nil
}
