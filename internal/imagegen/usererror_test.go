package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"tensorbridge/internal/domain"
	"tensorbridge/internal/providers/tensorart"
)

func TestUserMessageAuthErrorsStayGeneric(t *testing.T) {
	cases := []error{
		fmt.Errorf("wrapped: %w", tensorart.ErrKeyLoad),
		fmt.Errorf("wrapped: %w", tensorart.ErrSigning),
		&tensorart.APIError{Status: http.StatusUnauthorized, Code: "AUTH_FAILED", Message: "sig abc123 rejected"},
	}
	for _, err := range cases {
		msg := UserMessage(err)
		if msg != "Authentication error. Please contact the bot administrator." {
			t.Fatalf("error %v: message = %q", err, msg)
		}
		if strings.Contains(msg, "abc123") {
			t.Fatalf("message leaks signature details: %q", msg)
		}
	}
}

func TestUserMessageTimeouts(t *testing.T) {
	for _, err := range []error{
		tensorart.ErrPollTimeout,
		context.DeadlineExceeded,
		fmt.Errorf("tensorart: http request: %w", context.DeadlineExceeded),
	} {
		if msg := UserMessage(err); msg != "The server took too long to respond. Please try again later." {
			t.Fatalf("error %v: message = %q", err, msg)
		}
	}
}

func TestUserMessageRemoteFailureSurfacesMessage(t *testing.T) {
	err := &tensorart.JobFailedError{Status: domain.JobStatusFailed, Message: "model unavailable"}
	if msg := UserMessage(err); !strings.Contains(msg, "model unavailable") {
		t.Fatalf("remote message not surfaced: %q", msg)
	}
}

func TestUserMessageInvalidPrompt(t *testing.T) {
	_, err := NormalizePrompt("")
	if msg := UserMessage(err); !strings.Contains(msg, "prompt") {
		t.Fatalf("prompt error message = %q", msg)
	}
}

func TestUserMessageTruncatesLongErrors(t *testing.T) {
	err := errors.New(strings.Repeat("x", 1000))
	if msg := UserMessage(err); len(msg) > 200 {
		t.Fatalf("message not truncated: %d bytes", len(msg))
	}
}
