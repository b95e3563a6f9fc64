package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"vignan-assistant-backend/internal/handlers"
	"vignan-assistant-backend/internal/middleware"
)

// New builds the HTTP surface. Forwarded client IP headers are honored only when
// trustProxy is set, i.e. the service runs behind a reverse proxy that overwrites them.
func New(
	chatHandler *handlers.ChatHandler,
	chatLimiter middleware.Limiter,
	portalAuth *middleware.PortalAuth,
	frontendURL string,
	trustProxy bool,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	if trustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.CORS(frontendURL))

	r.Get("/", chatHandler.Root)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", chatHandler.Health)
		r.Get("/provider", chatHandler.Provider)

		// ──── Chat Routes ────
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(chatLimiter))
			r.Use(portalAuth.Middleware)
			r.Post("/chat", chatHandler.Chat)
			r.Get("/chat/ws", chatHandler.ChatSocket)
		})
	})

	return r
}
