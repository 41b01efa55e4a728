package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"perfumeadmin/internal/models"
)

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch products")
		return
	}

	writeSuccess(w, map[string]interface{}{"products": products}, http.StatusOK)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.ProductService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch product")
		return
	}

	writeSuccess(w, map[string]interface{}{"product": product}, http.StatusOK)
}

func (h *Handlers) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.GetByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch products")
		return
	}

	writeSuccess(w, map[string]interface{}{"products": products}, http.StatusOK)
}

func (h *Handlers) GetFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.GetFeatured(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch featured products")
		return
	}

	writeSuccess(w, products, http.StatusOK)
}

// GetRecommendations returns a random sample; ?size= overrides the default count.
func (h *Handlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "size must be a positive integer", nil)
			return
		}
		size = n
	}

	previews, err := h.ProductService.GetRandomSample(r.Context(), size)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch recommendations")
		return
	}

	writeSuccess(w, previews, http.StatusOK)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}

	product, err := h.ProductService.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create product")
		return
	}

	writeSuccess(w, product, http.StatusCreated)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductUpdate
	if !decodeJSON(w, r, &in) {
		return
	}

	product, err := h.ProductService.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update product")
		return
	}

	writeSuccess(w, product, http.StatusOK)
}

func (h *Handlers) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	product, err := h.ProductService.ToggleFeatured(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update product")
		return
	}

	writeSuccess(w, product, http.StatusOK)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.ProductService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete product")
		return
	}

	writeSuccess(w, map[string]string{"message": "Product deleted successfully"}, http.StatusOK)
}
