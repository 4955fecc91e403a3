package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tensorbridge/internal/domain"
	"tensorbridge/internal/imagegen"
	"tensorbridge/internal/providers/tensorart"
)

type generateImageRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateImage runs one submit-poll-download cycle and streams the artifact
// back. Errors are reduced to their user-facing messages; kinds map to
// status codes so callers can distinguish bad input, remote refusal and
// timeout.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	data, err := a.Images.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: image generation failed")
		a.json(w, statusFor(err), map[string]string{"error": imagegen.UserMessage(err)})
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidPrompt):
		return http.StatusBadRequest
	case errors.Is(err, tensorart.ErrPollTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
