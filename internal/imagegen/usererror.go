package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"tensorbridge/internal/domain"
	"tensorbridge/internal/providers/tensorart"
)

// UserMessage maps an error kind to a message safe to show the end user.
// Authentication and crypto failures never leak key material or signatures;
// remote FAILED/CANCELED surfaces the remote message directly.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, domain.ErrInvalidPrompt) {
		return err.Error()
	}

	if errors.Is(err, tensorart.ErrKeyLoad) || errors.Is(err, tensorart.ErrSigning) {
		return "Authentication error. Please contact the bot administrator."
	}
	var apiErr *tensorart.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden {
			return "Authentication error. Please contact the bot administrator."
		}
		return truncated("The image service reported an error: " + apiErr.Message)
	}

	if isTimeout(err) || errors.Is(err, tensorart.ErrPollTimeout) {
		return "The server took too long to respond. Please try again later."
	}

	var failed *tensorart.JobFailedError
	if errors.As(err, &failed) {
		if failed.Message != "" {
			return truncated("Image generation failed: " + failed.Message)
		}
		return "Image generation failed."
	}

	return truncated("An error occurred: " + err.Error())
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncated(msg string) string {
	const limit = 160
	if len(msg) > limit {
		return fmt.Sprintf("%s...", msg[:limit])
	}
	return msg
}
