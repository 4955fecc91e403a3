package imagegen

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"tensorbridge/internal/domain"
	"tensorbridge/internal/providers/tensorart"
)

// sequenceTransport replays one canned response per request.
type sequenceTransport struct {
	responses []*http.Response
	requests  []*http.Request
}

func (s *sequenceTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, r)
	if len(s.responses) == 0 {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(`{"message":"script exhausted"}`)),
		}, nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func canned(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestService(t *testing.T, transport *sequenceTransport) *Service {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pemData := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	client, err := tensorart.NewClient(tensorart.Options{
		AppID:         "app-1",
		APIKey:        "key-1",
		PrivateKeyPEM: pemData,
		Endpoint:      "https://api.example.test",
		HTTPClient:    &http.Client{Transport: transport},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	orch := tensorart.NewOrchestrator(tensorart.OrchestratorOptions{
		Client:      client,
		MaxAttempts: 5,
		Sleep:       func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
	})
	svc, err := NewService(Options{
		Client:       client,
		Orchestrator: orch,
		ModelID:      "model-1",
		Width:        768,
		Height:       768,
		NewRequestID: func() string { return "req-fixed" },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGenerateImageEndToEnd(t *testing.T) {
	transport := &sequenceTransport{responses: []*http.Response{
		canned(http.StatusOK, `{"jobId":"abc"}`),
		canned(http.StatusOK, `{"jobId":"abc","status":"PENDING"}`),
		canned(http.StatusOK, `{"jobId":"abc","status":"COMPLETED","resources":[{"url":"https://cdn.example.test/img.png"}]}`),
		canned(http.StatusOK, "\x89PNG-bytes"),
	}}
	svc := newTestService(t, transport)

	data, err := svc.GenerateImage(context.Background(), "a horse on a cloud")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(data) != "\x89PNG-bytes" {
		t.Fatalf("image bytes = %q", data)
	}

	if len(transport.requests) != 4 {
		t.Fatalf("requests = %d, want submit + 2 polls + download", len(transport.requests))
	}
	if transport.requests[0].URL.Path != "/v1/jobs" {
		t.Fatalf("submit path = %q", transport.requests[0].URL.Path)
	}
	if transport.requests[3].URL.Host != "cdn.example.test" {
		t.Fatalf("download host = %q", transport.requests[3].URL.Host)
	}
}

func TestGenerateImageRejectsInvalidPromptBeforeSubmitting(t *testing.T) {
	transport := &sequenceTransport{}
	svc := newTestService(t, transport)

	_, err := svc.GenerateImage(context.Background(), " ")
	if !errors.Is(err, domain.ErrInvalidPrompt) {
		t.Fatalf("want ErrInvalidPrompt, got %v", err)
	}
	if len(transport.requests) != 0 {
		t.Fatalf("invalid prompt must not reach the network")
	}
}

func TestGenerateImagePropagatesRemoteFailure(t *testing.T) {
	transport := &sequenceTransport{responses: []*http.Response{
		canned(http.StatusOK, `{"jobId":"abc"}`),
		canned(http.StatusOK, `{"jobId":"abc","status":"FAILED","message":"model unavailable"}`),
	}}
	svc := newTestService(t, transport)

	_, err := svc.GenerateImage(context.Background(), "a horse on a cloud")
	var failed *tensorart.JobFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("want JobFailedError, got %v", err)
	}
	if failed.Message != "model unavailable" {
		t.Fatalf("remote message = %q", failed.Message)
	}
}
