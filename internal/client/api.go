// Package client is the admin back-office client: a typed API over HTTP and the stores that
// cache what the admin screens show.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/guonaihong/gout"

	"perfumeadmin/internal/models"
)

// APIError is a non-2xx response. Detail holds the server's error field.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Detail  string `json:"error"`
}

func (e *APIError) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Message != "":
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// FailureMessage picks the server error field, then its message, then fallback.
func FailureMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return fallback
}

type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	User        models.User `json:"user"`
}

type API struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewAPI targets baseURL, the server root including the /api prefix.
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (a *API) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// do sends body as JSON and decodes a 2xx response into out. A *[]byte out receives the raw body.
func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	var (
		text string
		code int
	)

	flow := gout.New(a.httpClient).
		SetMethod(method).
		SetURL(a.baseURL + path).
		WithContext(ctx)

	if token := a.Token(); token != "" {
		flow = flow.SetHeader(gout.H{"Authorization": "Bearer " + token})
	}
	if body != nil {
		flow = flow.SetJSON(body)
	}

	if err := flow.BindBody(&text).Code(&code).Do(); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	raw := []byte(text)

	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: code}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if b, ok := out.(*[]byte); ok {
		*b = raw
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// Login stores the returned access token for later calls.
func (a *API) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := a.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	a.SetToken(resp.AccessToken)
	return &resp, nil
}

func (a *API) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *API) ListProducts(ctx context.Context) ([]models.Product, error) {
	var resp struct {
		Products []models.Product `json:"products"`
	}
	if err := a.do(ctx, http.MethodGet, "/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (a *API) ListFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := a.do(ctx, http.MethodGet, "/products/featured", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (a *API) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var resp struct {
		Products []models.Product `json:"products"`
	}
	if err := a.do(ctx, http.MethodGet, "/products/category/"+url.PathEscape(category), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (a *API) Recommendations(ctx context.Context) ([]models.ProductPreview, error) {
	var previews []models.ProductPreview
	if err := a.do(ctx, http.MethodGet, "/products/recommendations", nil, &previews); err != nil {
		return nil, err
	}
	return previews, nil
}

func (a *API) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := a.do(ctx, http.MethodPost, "/products", in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (a *API) UpdateProduct(ctx context.Context, productID string, in models.ProductUpdate) (*models.Product, error) {
	var product models.Product
	if err := a.do(ctx, http.MethodPut, "/products/"+url.PathEscape(productID), in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (a *API) ToggleFeatured(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := a.do(ctx, http.MethodPatch, "/products/"+url.PathEscape(productID), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (a *API) DeleteProduct(ctx context.Context, productID string) error {
	return a.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(productID), nil, nil)
}

func (a *API) ListBlogs(ctx context.Context) ([]models.Blog, error) {
	var resp struct {
		Blogs []models.Blog `json:"blogs"`
	}
	if err := a.do(ctx, http.MethodGet, "/blogs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Blogs, nil
}

type blogResponse struct {
	Blog models.Blog `json:"blog"`
}

func (a *API) GetBlog(ctx context.Context, blogID string) (*models.Blog, error) {
	var resp blogResponse
	if err := a.do(ctx, http.MethodGet, "/blogs/"+url.PathEscape(blogID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Blog, nil
}

func (a *API) CreateBlog(ctx context.Context, in models.BlogInput) (*models.Blog, error) {
	var resp blogResponse
	if err := a.do(ctx, http.MethodPost, "/blogs", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Blog, nil
}

func (a *API) UpdateBlog(ctx context.Context, blogID string, in models.BlogInput) (*models.Blog, error) {
	var resp blogResponse
	if err := a.do(ctx, http.MethodPut, "/blogs/"+url.PathEscape(blogID), in, &resp); err != nil {
		return nil, err
	}
	return &resp.Blog, nil
}

func (a *API) DeleteBlog(ctx context.Context, blogID string) error {
	return a.do(ctx, http.MethodDelete, "/blogs/"+url.PathEscape(blogID), nil, nil)
}

func (a *API) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := a.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *API) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	return a.do(ctx, http.MethodPut, "/users/"+url.PathEscape(userID)+"/role", map[string]models.Role{"role": role}, nil)
}

func (a *API) Analytics(ctx context.Context) (*models.Analytics, error) {
	var resp struct {
		AnalyticsData models.Analytics `json:"analyticsData"`
	}
	if err := a.do(ctx, http.MethodGet, "/analytics", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.AnalyticsData, nil
}

// ExportAnalytics returns the CSV export body.
func (a *API) ExportAnalytics(ctx context.Context) ([]byte, error) {
	var body []byte
	if err := a.do(ctx, http.MethodGet, "/analytics/export", nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}
