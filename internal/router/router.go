package router

import (
	"net/http"

	"weblarek/internal/handler"
	"weblarek/internal/middleware"

	"github.com/rs/zerolog"
)

// APIPrefix is the root of the shop endpoints.
const APIPrefix = "/api/weblarek"

// ContentPrefix is where product images are served from when a content directory is set.
const ContentPrefix = "/content/weblarek/"

// Options configures the router.
type Options struct {
	APIKey string
	// CDNDir enables static file serving under ContentPrefix.
	CDNDir string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	opts Options,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET "+APIPrefix+"/product/{$}", productHandler.GetAll)
	mux.HandleFunc("GET "+APIPrefix+"/product", productHandler.GetAll)
	mux.HandleFunc("GET "+APIPrefix+"/product/{id}", productHandler.GetByID)
	mux.HandleFunc("POST "+APIPrefix+"/order", orderHandler.Create)
	mux.HandleFunc("POST "+APIPrefix+"/order/{$}", orderHandler.Create)
	mux.HandleFunc("GET "+APIPrefix+"/order/{id}", orderHandler.GetByID)

	if opts.CDNDir != "" {
		logger.Info().Str("dir", opts.CDNDir).Msg("serving static content")
		mux.Handle("GET "+ContentPrefix, http.StripPrefix(ContentPrefix, http.FileServer(http.Dir(opts.CDNDir))))
	}

	// Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(opts.APIKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
