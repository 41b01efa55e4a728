package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"perfumeadmin/internal/config"
	"perfumeadmin/internal/middleware"
)

// NewRouter registers every route and wraps the router with the common middleware.
func NewRouter(h *Handlers, cfg config.Server) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found", nil)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	authed := middleware.Auth(h.AuthService)
	admin := middleware.AdminOnly(h.AuthService)
	adminFunc := func(fn http.HandlerFunc) http.Handler { return admin(fn) }

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if h.Assets != nil {
		router.PathPrefix(assetsPrefix).HandlerFunc(h.ServeAsset).Methods(http.MethodGet, http.MethodHead)
	}

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.Handle("/auth/me", authed(http.HandlerFunc(h.Me))).Methods(http.MethodGet)

	// fixed segments before /products/{id}
	api.HandleFunc("/products/featured", h.GetFeaturedProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/recommendations", h.GetRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/products/category/{category}", h.GetProductsByCategory).Methods(http.MethodGet)
	api.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	api.Handle("/products", adminFunc(h.CreateProduct)).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	api.Handle("/products/{id}", adminFunc(h.UpdateProduct)).Methods(http.MethodPut)
	api.Handle("/products/{id}", adminFunc(h.ToggleFeatured)).Methods(http.MethodPatch)
	api.Handle("/products/{id}", adminFunc(h.DeleteProduct)).Methods(http.MethodDelete)

	api.HandleFunc("/blogs", h.ListBlogs).Methods(http.MethodGet)
	api.Handle("/blogs", adminFunc(h.CreateBlog)).Methods(http.MethodPost)
	api.HandleFunc("/blogs/{id}", h.GetBlog).Methods(http.MethodGet)
	api.Handle("/blogs/{id}", adminFunc(h.UpdateBlog)).Methods(http.MethodPut)
	api.Handle("/blogs/{id}", adminFunc(h.DeleteBlog)).Methods(http.MethodDelete)

	api.Handle("/users", adminFunc(h.ListUsers)).Methods(http.MethodGet)
	api.Handle("/users/{id}/role", adminFunc(h.SetUserRole)).Methods(http.MethodPut)

	api.Handle("/analytics", adminFunc(h.GetAnalytics)).Methods(http.MethodGet)
	api.Handle("/analytics/export", adminFunc(h.ExportAnalytics)).Methods(http.MethodGet)

	return middleware.Chain(router,
		middleware.Logging(h.Logger),
		middleware.Recover(h.Logger),
		middleware.CORS(cfg.CORSOrigin),
		middleware.MaxBody(cfg.MaxBodySize),
	)
}
