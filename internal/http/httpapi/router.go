package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tensorbridge/internal/http/handlers"
	"tensorbridge/internal/middleware"
)

// NewRouter wires the HTTP surface: health probe and the image generation
// endpoint.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/images", app.GenerateImage)

	return r
}
