package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"blgs-backend/internal/handlers"
	"blgs-backend/internal/middleware"
)

// New wires the HTTP surface. chatLimiter may be nil to disable rate limiting.
func New(
	chatHandler *handlers.ChatHandler,
	catalogHandler *handlers.CatalogHandler,
	chatLimiter *middleware.RateLimiter,
	frontendURLs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(frontendURLs))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── Chat Routes ────
		r.Route("/chat", func(r chi.Router) {
			if chatLimiter != nil {
				r.Use(chatLimiter.Middleware)
			}
			r.Post("/", chatHandler.Send)
			r.Delete("/{id}", chatHandler.Clear)
		})

		// ──── Business Facts Routes ────
		r.Get("/catalog", catalogHandler.Catalog)
		r.Get("/services", catalogHandler.Services)
		r.Get("/faq", catalogHandler.FAQ)
		r.Route("/pricing", func(r chi.Router) {
			r.Get("/", catalogHandler.Pricing)
			r.Get("/{id}", catalogHandler.Plan)
		})
	})

	return r
}
