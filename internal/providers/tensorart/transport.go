package tensorart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultRequestTimeout = 90 * time.Second

// RawResponse is the unclassified outcome of a single HTTP call.
type RawResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport executes a single GET or POST with a bounded total-call timeout.
// It never retries: retry policy belongs to the orchestrator, so a transport
// failure surfaces immediately and distinctly from an application error.
type Transport struct {
	httpClient *http.Client
}

// NewTransport wraps the given client, or constructs one with the timeout
// when nil.
func NewTransport(client *http.Client, timeout time.Duration) *Transport {
	if client == nil {
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Transport{httpClient: client}
}

// Send performs the call and returns the raw status, headers and body.
// Methods other than GET and POST fail before any network I/O.
func (t *Transport) Send(ctx context.Context, method, url string, header http.Header, body []byte) (*RawResponse, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case http.MethodGet, http.MethodPost:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("tensorart: build request: %w", err)
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tensorart: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tensorart: read response: %w", err)
	}
	return &RawResponse{Status: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}
