package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	// Websocket connections outlive any request timeout
	if h.Hub != nil {
		r.Get("/ws/boards/{id}", h.handleBoardSocket)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		if h.staticServer != nil {
			r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
		}

		// Public pages
		r.Get("/", h.handleIndex)
		r.Get("/menu/{id}", h.handleMenuPage)
		r.Get("/menu/{id}/qr.png", h.handleBoardQR)
		r.Get("/plates", h.handlePlatePage)
		r.Get("/plates/*", h.handlePlatePage)

		// Public API
		r.Get("/api/public/boards/{id}", h.handleGetPublicBoard)
		r.Get("/api/public/boards/{id}/render", h.handleRenderPublicBoard)
		r.Post("/api/public/boards/{id}/session", h.handleNewSession)
		r.Post("/api/reviews", h.handleCreateReview)
		r.Post("/api/reviews/check", h.handleCheckReviews)
		r.Get("/api/items/{id}/reviews", h.handleListReviews)
		r.Get("/api/items/{id}/reviews/stats", h.handleReviewStats)
		r.Get("/api/colors/convert", h.handleConvertColor)
		r.Get("/api/colors/suggest", h.handleSuggestPalette)
		r.Get("/api/plates/*", h.handleGetPlate)

		// Auth routes (public)
		r.Get("/dashboard/login", h.handleLoginPage)
		r.Post("/dashboard/login", h.handleLogin)
		r.Post("/dashboard/logout", h.handleLogout)

		// Dashboard pages (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuth)
			r.Get("/dashboard", h.handleDashboardBoards)
			r.Get("/dashboard/boards/{id}", h.handleDashboardEditor)
			r.Get("/dashboard/boards/{id}/stats", h.handleDashboardStats)
			r.Get("/dashboard/settings", h.handleDashboardSettings)
		})

		// Owner API (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			// Boards
			r.Get("/api/boards", h.handleListBoards)
			r.Post("/api/boards", h.handleCreateBoard)
			r.Post("/api/boards/from-template", h.handleCreateFromTemplate)
			r.Get("/api/templates", h.handleListTemplates)
			r.Get("/api/boards/{id}", h.handleGetBoard)
			r.Put("/api/boards/{id}", h.handleUpdateBoard)
			r.Delete("/api/boards/{id}", h.handleDeleteBoard)
			r.Put("/api/boards/{id}/items/{itemID}/status", h.handleSetItemStatus)
			r.Post("/api/boards/{id}/sections/{sid}/classify", h.handleClassifySection)
			r.Post("/api/boards/{id}/reorder", h.handleReorder)
			r.Get("/api/boards/{id}/stats", h.handleBoardStats)
			r.Get("/api/boards/{id}/coverage", h.handleBoardCoverage)
			r.Get("/api/boards/{id}/share", h.handleShareLink)

			// Export / import
			r.Get("/api/export", h.handleExport)
			r.Post("/api/import", h.handleImport)
			r.Post("/api/seed", h.handleSeed)

			// Color picker history
			r.Get("/api/palette/recent", h.handleRecentColors)
			r.Post("/api/palette/recent", h.handleAddRecentColor)
			r.Get("/api/palette/favorites", h.handleFavoriteColors)
			r.Post("/api/palette/favorites/toggle", h.handleToggleFavorite)

			// Plates
			r.Get("/api/plates", h.handleListPlates)
			r.Put("/api/plates/*", h.handleSavePlate)

			// Settings
			r.Get("/api/settings", h.handleGetSettings)
			r.Post("/api/settings", h.handleUpdateSettings)
			r.Put("/api/settings", h.handleUpdateSettings)
			r.Post("/api/settings/reset", h.handleResetTables)
		})
	})

	return r
}
