package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
	"perfumeadmin/internal/storage"
)

type productFixture struct {
	repo    *MockProductRepository
	uploads *MockUploadRepository
	store   *MockAssetStore
	logs    *observer.ObservedLogs
	service ProductService
}

func newProductFixture(concurrency int) *productFixture {
	core, logs := observer.New(zapcore.WarnLevel)
	f := &productFixture{
		repo:    new(MockProductRepository),
		uploads: new(MockUploadRepository),
		store:   new(MockAssetStore),
		logs:    logs,
	}
	assets := NewAssetManager(f.store, f.uploads, concurrency, zap.New(core))
	f.service = NewProductService(f.repo, assets, zap.New(core))
	return f
}

func inline(n byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', n})
}

func boolPtr(v bool) *bool {
	return &v
}

func existingProduct() *models.Product {
	return &models.Product{
		ID:          "p1",
		Name:        "Rose Oil",
		Description: "d",
		Category:    "Ethereal Petals",
		Images:      []string{"https://assets.test/products/old.png", "https://assets.test/products/keep.png"},
		ProductLink: models.LinkSet{"https://x.com/p"},
		ComingSoon:  true,
	}
}

func TestProductService_CreateScenario(t *testing.T) {
	memory := storage.NewMemoryStore("https://assets.test")
	uploads := new(MockUploadRepository)
	repo := new(MockProductRepository)
	service := NewProductService(repo, NewAssetManager(memory, uploads, 4, zap.NewNop()), zap.NewNop())

	stored := &models.Product{}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(*models.Product)
			p.ID = "p1"
			p.Normalize()
			*stored = *p
		}).
		Return(nil)
	repo.On("GetByID", mock.Anything, "p1").Return(stored, nil)

	uploads.On("Save", mock.Anything, mock.MatchedBy(func(u *models.Upload) bool {
		return u.Status == models.UploadPending && u.Folder == models.FolderProducts
	})).Return(nil).Once()
	uploads.On("SetStatus", mock.Anything, models.UploadCommitted, mock.AnythingOfType("[]string")).Return(nil).Once()

	var in models.ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Rose Oil",
		"description": "d",
		"category": "Ethereal Petals",
		"images": ["data:image/png;base64,AAA"],
		"productLink": "https://x.com/p"
	}`), &in))

	product, err := service.Create(context.Background(), in)

	require.NoError(t, err)
	require.Len(t, product.Images, 1)
	assert.True(t, strings.HasPrefix(product.Images[0], "https://assets.test/products/"))
	assert.True(t, strings.HasSuffix(product.Images[0], ".png"))
	assert.Equal(t, models.LinkSet{"https://x.com/p"}, product.ProductLink)
	assert.False(t, product.ComingSoon)
	assert.Len(t, memory.Keys(), 1)

	fetched, err := service.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, in.Name, fetched.Name)
	assert.Equal(t, in.Description, fetched.Description)
	assert.Equal(t, in.Category, fetched.Category)
	assert.Equal(t, product.Images, fetched.Images)

	uploads.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestProductService_Create(t *testing.T) {
	tests := []struct {
		name       string
		input      models.ProductInput
		mockSetup  func(f *productFixture)
		wantKind   error
		wantImages []string
	}{
		{
			name:     "missing required fields",
			input:    models.ProductInput{Name: "Rose", Category: "   "},
			wantKind: errs.ErrValidation,
		},
		{
			name:     "image that is neither url nor payload",
			input:    models.ProductInput{Name: "Rose", Description: "d", Category: "c", Images: []string{"rose.png"}},
			wantKind: errs.ErrValidation,
		},
		{
			name:     "malformed payload",
			input:    models.ProductInput{Name: "Rose", Description: "d", Category: "c", Images: []string{"data:image/png;base64"}},
			wantKind: errs.ErrValidation,
		},
		{
			name: "urls pass through and duplicate links collapse",
			input: models.ProductInput{
				Name: "Rose", Description: "d", Category: "c",
				Images:      []string{"https://cdn.test/a.png"},
				ProductLink: models.NewLinkSet("https://x.com/p", "https://x.com/p"),
			},
			mockSetup: func(f *productFixture) {
				f.repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
					return len(p.ProductLink) == 1
				})).Return(nil)
			},
			wantImages: []string{"https://cdn.test/a.png"},
		},
		{
			name:  "store failure",
			input: models.ProductInput{Name: "Rose", Description: "d", Category: "c"},
			mockSetup: func(f *productFixture) {
				f.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
			},
			wantKind: errs.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductFixture(2)
			f.uploads.allowUploadLog()
			if tt.mockSetup != nil {
				tt.mockSetup(f)
			}

			product, err := f.service.Create(context.Background(), tt.input)

			if tt.wantKind != nil {
				assert.ErrorIs(t, err, tt.wantKind)
				assert.Nil(t, product)
				if tt.wantKind == errs.ErrValidation {
					f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				}
				f.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantImages, product.Images)
			f.repo.AssertExpectations(t)
		})
	}
}

func TestProductService_CreateKeepsUploadOrder(t *testing.T) {
	f := newProductFixture(4)
	f.uploads.allowUploadLog()

	payloads := []string{inline(1), inline(2), inline(3)}
	f.store.On("Upload", mock.Anything, payloads[0], "products").
		After(30*time.Millisecond).Return("https://assets.test/products/one.png", nil)
	f.store.On("Upload", mock.Anything, payloads[1], "products").
		After(10*time.Millisecond).Return("https://assets.test/products/two.png", nil)
	f.store.On("Upload", mock.Anything, payloads[2], "products").
		Return("https://assets.test/products/three.png", nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	product, err := f.service.Create(context.Background(), models.ProductInput{
		Name: "Rose", Description: "d", Category: "c",
		Images: []string{payloads[0], "https://cdn.test/static.png", payloads[1], payloads[2]},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://assets.test/products/one.png",
		"https://cdn.test/static.png",
		"https://assets.test/products/two.png",
		"https://assets.test/products/three.png",
	}, product.Images)
}

func TestProductService_CreateUploadFailureLeavesPendingLog(t *testing.T) {
	f := newProductFixture(1)

	f.store.On("Upload", mock.Anything, inline(1), "products").
		Return("https://assets.test/products/first.png", nil)
	f.store.On("Upload", mock.Anything, inline(2), "products").
		Return("", errors.New("asset host unavailable"))
	f.uploads.On("Save", mock.Anything, mock.MatchedBy(func(u *models.Upload) bool {
		return u.URL == "https://assets.test/products/first.png" &&
			u.PublicID == "products/first" &&
			u.Status == models.UploadPending
	})).Return(nil).Once()

	product, err := f.service.Create(context.Background(), models.ProductInput{
		Name: "Rose", Description: "d", Category: "c",
		Images: []string{inline(1), inline(2)},
	})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, errs.ErrAsset)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.uploads.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	f.uploads.AssertExpectations(t)
}

func TestProductService_Update(t *testing.T) {
	tests := []struct {
		name        string
		update      models.ProductUpdate
		mockSetup   func(f *productFixture)
		wantImages  []string
		wantName    string
		wantComing  bool
		wantLinks   models.LinkSet
		wantDestroy []string
	}{
		{
			name:       "omitted images keep the stored set",
			update:     models.ProductUpdate{Name: "Rose Oil 2"},
			wantImages: []string{"https://assets.test/products/old.png", "https://assets.test/products/keep.png"},
			wantName:   "Rose Oil 2",
			wantComing: true,
			wantLinks:  models.LinkSet{"https://x.com/p"},
		},
		{
			name:       "empty images keep the stored set",
			update:     models.ProductUpdate{Images: []string{}},
			wantImages: []string{"https://assets.test/products/old.png", "https://assets.test/products/keep.png"},
			wantName:   "Rose Oil",
			wantComing: true,
			wantLinks:  models.LinkSet{"https://x.com/p"},
		},
		{
			name:   "non-empty images replace the stored set",
			update: models.ProductUpdate{Images: []string{"https://assets.test/products/keep.png", inline(7)}},
			mockSetup: func(f *productFixture) {
				f.store.On("Upload", mock.Anything, inline(7), "products").
					Return("https://assets.test/products/new.png", nil)
			},
			wantImages: []string{"https://assets.test/products/keep.png", "https://assets.test/products/new.png"},
			wantName:   "Rose Oil",
			wantComing: true,
			wantLinks:  models.LinkSet{"https://x.com/p"},
		},
		{
			name:        "removed image with empty images drops only the removed url",
			update:      models.ProductUpdate{RemovedImages: []string{"https://assets.test/products/old.png"}, Images: []string{}},
			wantImages:  []string{"https://assets.test/products/keep.png"},
			wantName:    "Rose Oil",
			wantComing:  true,
			wantLinks:   models.LinkSet{"https://x.com/p"},
			wantDestroy: []string{"products/old"},
		},
		{
			name: "removed images are filtered out of the new set",
			update: models.ProductUpdate{
				RemovedImages: []string{"https://assets.test/products/old.png"},
				Images:        []string{"https://assets.test/products/old.png", "https://assets.test/products/keep.png"},
			},
			wantImages:  []string{"https://assets.test/products/keep.png"},
			wantName:    "Rose Oil",
			wantComing:  true,
			wantLinks:   models.LinkSet{"https://x.com/p"},
			wantDestroy: []string{"products/old"},
		},
		{
			name: "removed entries the product never stored are not destroyed",
			update: models.ProductUpdate{RemovedImages: []string{
				"https://assets.test/products/old.png",
				"https://assets.test/products/other-product.png",
				inline(3),
			}},
			wantImages:  []string{"https://assets.test/products/keep.png"},
			wantName:    "Rose Oil",
			wantComing:  true,
			wantLinks:   models.LinkSet{"https://x.com/p"},
			wantDestroy: []string{"products/old"},
		},
		{
			name:        "clear sentinel empties the set",
			update:      models.ProductUpdate{ClearImages: true},
			wantImages:  []string{},
			wantName:    "Rose Oil",
			wantComing:  true,
			wantLinks:   models.LinkSet{"https://x.com/p"},
			wantDestroy: []string{"products/old", "products/keep"},
		},
		{
			name: "explicit false and empty links overwrite",
			update: models.ProductUpdate{
				ComingSoon:  boolPtr(false),
				ProductLink: &models.LinkSet{},
			},
			wantImages: []string{"https://assets.test/products/old.png", "https://assets.test/products/keep.png"},
			wantName:   "Rose Oil",
			wantComing: false,
			wantLinks:  models.LinkSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductFixture(2)
			f.uploads.allowUploadLog()
			f.repo.On("GetByID", mock.Anything, "p1").Return(existingProduct(), nil)
			f.repo.On("Update", mock.Anything, mock.Anything).Return(nil)
			for _, id := range tt.wantDestroy {
				f.store.On("Destroy", mock.Anything, id).Return(nil).Once()
			}
			if tt.mockSetup != nil {
				tt.mockSetup(f)
			}

			product, err := f.service.Update(context.Background(), "p1", tt.update)

			require.NoError(t, err)
			assert.Equal(t, tt.wantImages, product.Images)
			assert.Equal(t, tt.wantName, product.Name)
			assert.Equal(t, tt.wantComing, product.ComingSoon)
			assert.Equal(t, tt.wantLinks, product.ProductLink)
			f.store.AssertExpectations(t)
			if len(tt.wantDestroy) == 0 {
				f.store.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProductService_UpdateDestroyFailureIsNotFatal(t *testing.T) {
	f := newProductFixture(2)
	f.repo.On("GetByID", mock.Anything, "p1").Return(existingProduct(), nil)
	f.repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.store.On("Destroy", mock.Anything, "products/old").Return(errors.New("asset host unavailable"))
	f.uploads.On("Save", mock.Anything, mock.MatchedBy(func(u *models.Upload) bool {
		return u.URL == "https://assets.test/products/old.png" && u.Status == models.UploadOrphaned
	})).Return(nil).Once()

	product, err := f.service.Update(context.Background(), "p1", models.ProductUpdate{
		RemovedImages: []string{"https://assets.test/products/old.png"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://assets.test/products/keep.png"}, product.Images)
	f.uploads.AssertExpectations(t)

	warnings := f.logs.FilterMessage("failed to destroy asset").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "products/old", warnings[0].ContextMap()["publicId"])
}

func TestProductService_UpdateNotFound(t *testing.T) {
	f := newProductFixture(2)
	f.repo.On("GetByID", mock.Anything, "missing").Return(nil, errs.NotFound("Product not found"))

	product, err := f.service.Update(context.Background(), "missing", models.ProductUpdate{Name: "x"})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_DeleteSucceedsWhenEveryDestroyFails(t *testing.T) {
	f := newProductFixture(2)
	f.uploads.allowUploadLog()
	f.repo.On("GetByID", mock.Anything, "p1").Return(existingProduct(), nil)
	f.repo.On("Delete", mock.Anything, "p1").Return(nil)
	f.store.On("Destroy", mock.Anything, mock.Anything).Return(errors.New("asset host unavailable"))

	err := f.service.Delete(context.Background(), "p1")

	require.NoError(t, err)
	f.repo.AssertCalled(t, "Delete", mock.Anything, "p1")
	f.store.AssertNumberOfCalls(t, "Destroy", 2)
	f.store.AssertCalled(t, "Destroy", mock.Anything, "products/old")
	f.store.AssertCalled(t, "Destroy", mock.Anything, "products/keep")
	assert.Equal(t, 2, f.logs.FilterMessage("failed to destroy asset").Len())
}

func TestProductService_DeleteNotFound(t *testing.T) {
	f := newProductFixture(2)
	f.repo.On("GetByID", mock.Anything, "missing").Return(nil, errs.NotFound("Product not found"))

	err := f.service.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, errs.ErrNotFound)
	f.store.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
}

func TestProductService_Queries(t *testing.T) {
	t.Run("no featured products is not found", func(t *testing.T) {
		f := newProductFixture(1)
		f.repo.On("ListFeatured", mock.Anything).Return([]models.Product{}, nil)

		products, err := f.service.GetFeatured(context.Background())

		assert.Nil(t, products)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("sample defaults to four", func(t *testing.T) {
		f := newProductFixture(1)
		f.repo.On("Sample", mock.Anything, DefaultSampleSize).Return([]models.ProductPreview{{ID: "p1"}}, nil)

		previews, err := f.service.GetRandomSample(context.Background(), 0)

		require.NoError(t, err)
		assert.Len(t, previews, 1)
		f.repo.AssertExpectations(t)
	})

	t.Run("category passes through", func(t *testing.T) {
		f := newProductFixture(1)
		f.repo.On("ListByCategory", mock.Anything, "Mystic Horizon").Return([]models.Product{{ID: "p1"}}, nil)

		products, err := f.service.GetByCategory(context.Background(), "Mystic Horizon")

		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("list storage failure", func(t *testing.T) {
		f := newProductFixture(1)
		f.repo.On("List", mock.Anything).Return(nil, errors.New("timeout"))

		_, err := f.service.List(context.Background())

		assert.ErrorIs(t, err, errs.ErrStorage)
		assert.Equal(t, "Failed to fetch products", errs.Message(err))
	})
}

func TestProductService_ToggleFeatured(t *testing.T) {
	f := newProductFixture(1)
	f.repo.On("GetByID", mock.Anything, "p1").Return(existingProduct(), nil)
	f.repo.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.IsFeatured
	})).Return(nil)

	product, err := f.service.ToggleFeatured(context.Background(), "p1")

	require.NoError(t, err)
	assert.True(t, product.IsFeatured)
	f.repo.AssertExpectations(t)
}
