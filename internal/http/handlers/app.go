package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"tensorbridge/internal/infra"
)

// ImageGenerator is the inbound collaborator contract: one prompt in, image
// bytes out.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// App bundles the handler dependencies.
type App struct {
	Images ImageGenerator
	Logger infra.Logger
}

func NewApp(images ImageGenerator, logger infra.Logger) *App {
	return &App{Images: images, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
