package client

import (
	"context"
	"slices"

	"perfumeadmin/internal/models"
)

type ProductState struct {
	Products []models.Product
	// Current is the product selected for editing.
	Current *models.Product
	Loading bool
	Error   string
}

func cloneProductState(s ProductState) ProductState {
	s.Products = slices.Clone(s.Products)
	if s.Current != nil {
		current := *s.Current
		s.Current = &current
	}
	return s
}

// ProductStore caches the product collection. Mutations merge the server response into the
// cache; a failed call leaves the collection untouched and records the failure message.
type ProductStore struct {
	api      *API
	notifier Notifier
	st       store[ProductState]
}

func NewProductStore(api *API, notifier Notifier) *ProductStore {
	return &ProductStore{
		api:      api,
		notifier: notifier,
		st:       store[ProductState]{clone: cloneProductState},
	}
}

func (s *ProductStore) State() ProductState {
	return s.st.snapshot()
}

func (s *ProductStore) OnChange(fn func(ProductState)) {
	s.st.subscribe(fn)
}

func (s *ProductStore) SetCurrent(product *models.Product) {
	s.st.set(func(st *ProductState) { st.Current = product })
}

func (s *ProductStore) begin() {
	s.st.set(func(st *ProductState) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *ProductStore) fail(err error, fallback string) error {
	message := FailureMessage(err, fallback)
	s.st.set(func(st *ProductState) {
		st.Loading = false
		st.Error = message
	})
	s.notifier.Error(message)
	return err
}

func (s *ProductStore) replace(products []models.Product) {
	s.st.set(func(st *ProductState) {
		st.Products = products
		st.Loading = false
	})
}

func (s *ProductStore) Fetch(ctx context.Context) error {
	s.begin()
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return s.fail(err, "Failed to fetch products")
	}
	s.replace(products)
	return nil
}

func (s *ProductStore) FetchFeatured(ctx context.Context) error {
	s.begin()
	products, err := s.api.ListFeaturedProducts(ctx)
	if err != nil {
		return s.fail(err, "Failed to fetch featured products")
	}
	s.replace(products)
	return nil
}

func (s *ProductStore) FetchByCategory(ctx context.Context, category string) error {
	s.begin()
	products, err := s.api.ListProductsByCategory(ctx, category)
	if err != nil {
		return s.fail(err, "Failed to fetch products")
	}
	s.replace(products)
	return nil
}

func (s *ProductStore) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	s.begin()
	product, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		return nil, s.fail(err, "Failed to create product")
	}

	s.st.set(func(st *ProductState) {
		st.Products = append(st.Products, *product)
		st.Loading = false
	})
	s.notifier.Success("Product created successfully")
	return product, nil
}

// Update replaces the cached product and clears the editing selection.
func (s *ProductStore) Update(ctx context.Context, productID string, in models.ProductUpdate) (*models.Product, error) {
	s.begin()
	product, err := s.api.UpdateProduct(ctx, productID, in)
	if err != nil {
		return nil, s.fail(err, "Failed to update product")
	}

	s.st.set(func(st *ProductState) {
		for i := range st.Products {
			if st.Products[i].ID == productID {
				st.Products[i] = *product
			}
		}
		st.Current = nil
		st.Loading = false
	})
	s.notifier.Success("Product updated")
	return product, nil
}

func (s *ProductStore) Delete(ctx context.Context, productID string) error {
	s.begin()
	if err := s.api.DeleteProduct(ctx, productID); err != nil {
		return s.fail(err, "Failed to delete product")
	}

	s.st.set(func(st *ProductState) {
		st.Products = slices.DeleteFunc(st.Products, func(p models.Product) bool { return p.ID == productID })
		if st.Current != nil && st.Current.ID == productID {
			st.Current = nil
		}
		st.Loading = false
	})
	s.notifier.Success("Product deleted")
	return nil
}

// ToggleFeatured patches only isFeatured into the cached product.
func (s *ProductStore) ToggleFeatured(ctx context.Context, productID string) error {
	s.begin()
	product, err := s.api.ToggleFeatured(ctx, productID)
	if err != nil {
		return s.fail(err, "Failed to update product")
	}

	s.st.set(func(st *ProductState) {
		for i := range st.Products {
			if st.Products[i].ID == productID {
				st.Products[i].IsFeatured = product.IsFeatured
			}
		}
		st.Loading = false
	})
	s.notifier.Success("Product updated")
	return nil
}
