package api

import (
	"crossrates/internal/optimizer/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Post("/api/v1/optimization-matrix", h.OptimizationMatrix)
	router.Post("/api/v1/quote-preview", h.QuotePreview)
	router.Get("/api/v1/wallets", h.GetWallets)
	router.Get("/api/v1/status", h.GetStatus)

	router.Route("/api/v1/directory", func(r chi.Router) {
		r.Get("/", h.ListDirectory)
		r.Post("/", h.AddDirectoryEntry)
		r.Get("/resolve/{publicName}", h.ResolveDirectoryEntry)
		r.Get("/owner/{owner}", h.ListDirectoryByOwner)
		r.Put("/{publicName}", h.UpdateDirectoryEntry)
		r.Delete("/{publicName}", h.DeleteDirectoryEntry)
	})

	return router
}
