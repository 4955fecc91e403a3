package tensorart

import (
	"errors"
	"fmt"

	"tensorbridge/internal/domain"
)

var (
	// ErrKeyLoad indicates the private key material could not be parsed as
	// either PKCS#1 or PKCS#8 PEM.
	ErrKeyLoad = errors.New("tensorart: private key could not be parsed")

	// ErrSigning indicates the signing operation itself failed. A signature
	// is never returned alongside it.
	ErrSigning = errors.New("tensorart: request signing failed")

	// ErrUnsupportedMethod is returned before any network I/O for methods
	// other than GET and POST.
	ErrUnsupportedMethod = errors.New("tensorart: unsupported http method")

	// ErrMissingJobID flags an otherwise-successful submission response that
	// carried no job id. A contract violation by the remote service, not a
	// remote-reported failure.
	ErrMissingJobID = errors.New("tensorart: submission response carried no job id")

	// ErrMissingResource flags a COMPLETED job with no attached resources.
	// Completion without an artifact is a contract violation, not success.
	ErrMissingResource = errors.New("tensorart: completed job carried no resource url")

	// ErrPollTimeout indicates the bounded polling loop exhausted its
	// attempts before the job reached a terminal status. Distinct from a
	// remote-reported failure.
	ErrPollTimeout = errors.New("tensorart: job did not reach a terminal status in time")
)

// APIError is a failure reported by the remote service, through the HTTP
// status channel, the in-body code channel, or both. Status is zero when the
// HTTP status was successful and only the in-body code signalled failure.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("tensorart: api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("tensorart: api error (%s): %s", e.Code, e.Message)
}

// InvalidResponseError is returned when the response body is not JSON.
// Snippet carries a truncated copy of the raw body for diagnostics.
type InvalidResponseError struct {
	Status  int
	Snippet string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("tensorart: invalid response (not JSON) at status %d: %q", e.Status, e.Snippet)
}

// JobFailedError is a terminal FAILED or CANCELED status reported while
// polling. Message carries the remote service's message verbatim.
type JobFailedError struct {
	Status  domain.JobStatus
	Message string
}

func (e *JobFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tensorart: job %s", e.Status)
	}
	return fmt.Sprintf("tensorart: job %s: %s", e.Status, e.Message)
}
