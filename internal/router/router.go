package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"aws-tutor/internal/handlers"
	"aws-tutor/internal/middleware"
)

// New builds the tutor API.
func New(
	logger *zap.Logger,
	chatLimiter *middleware.RateLimiter,
	chatHandler *handlers.ChatHandler,
	rootHandler *handlers.RootHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(frontendURL))

	r.Get("/health", handlers.Health)
	r.Get("/", rootHandler.Welcome)
	r.Get("/config", rootHandler.Config)

	r.Group(func(r chi.Router) {
		r.Use(chatLimiter.Middleware)
		r.Post("/chat", chatHandler.AskQuestion)
	})

	return r
}
