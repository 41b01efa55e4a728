package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"perfumeadmin/internal/models"
)

func (h *Handlers) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.BlogService.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch blogs")
		return
	}

	writeSuccess(w, map[string]interface{}{"blogs": blogs}, http.StatusOK)
}

func (h *Handlers) GetBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.BlogService.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch blog")
		return
	}

	writeSuccess(w, map[string]interface{}{"blog": blog}, http.StatusOK)
}

func (h *Handlers) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var in models.BlogInput
	if !decodeJSON(w, r, &in) {
		return
	}

	blog, err := h.BlogService.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create blog")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Blog created successfully",
		"blog":    blog,
	}, http.StatusCreated)
}

// UpdateBlog replaces every field with the request body.
func (h *Handlers) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	var in models.BlogInput
	if !decodeJSON(w, r, &in) {
		return
	}

	blog, err := h.BlogService.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update blog")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Blog updated successfully",
		"blog":    blog,
	}, http.StatusOK)
}

func (h *Handlers) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := h.BlogService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete blog")
		return
	}

	writeSuccess(w, map[string]string{"message": "Blog deleted successfully"}, http.StatusOK)
}
