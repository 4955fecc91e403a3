package tensorart

import (
	"encoding/json"
	"strings"
)

const bodySnippetLimit = 200

// envelope covers the two failure channels the remote service uses: the
// HTTP status, and an in-body code/message pair whose code is numeric in
// some responses and a string in others.
type envelope struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
}

// Classify normalizes a raw response into the parsed JSON body or a typed
// error. Both failure channels are checked: status >= 400 is always an
// error, and a success status still fails when the in-body code is set to a
// non-ok sentinel. The remote's success signal is not fully captured by the
// HTTP status alone.
func Classify(resp *RawResponse) (json.RawMessage, error) {
	if !json.Valid(resp.Body) {
		return nil, &InvalidResponseError{Status: resp.Status, Snippet: snippet(resp.Body)}
	}

	var env envelope
	// A valid-JSON body that is not an object leaves the envelope zero,
	// which classifies as success below.
	_ = json.Unmarshal(resp.Body, &env)

	code := decodeCode(env.Code)
	message := env.Message

	if resp.Status >= 400 {
		if code == "" {
			code = "UNKNOWN"
		}
		if message == "" {
			message = "unknown error"
		}
		return nil, &APIError{Status: resp.Status, Code: code, Message: message}
	}
	if !okCode(code) {
		return nil, &APIError{Code: code, Message: message}
	}
	return json.RawMessage(resp.Body), nil
}

// decodeCode accepts both numeric and string code fields.
func decodeCode(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return strings.TrimSpace(string(raw))
}

// okCode reports whether an in-body code counts as success.
func okCode(code string) bool {
	switch strings.ToUpper(code) {
	case "", "0", "OK", "SUCCESS":
		return true
	}
	return false
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodySnippetLimit {
		return s[:bodySnippetLimit] + "..."
	}
	return s
}
