package tensorart

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const apiKeyHeader = "X-API-Key"

// AuthBuilder assembles the authenticated header set for one request:
// Authorization in the scheme's exact layout, JSON content type, API key,
// and the content-digest header when the scheme names one. Credentials are
// read-only after construction.
type AuthBuilder struct {
	appID    string
	apiKey   string
	signer   *Signer
	now      func() time.Time
	newNonce func() string
}

// NewAuthBuilder wires the builder to a signer and the immutable credential
// pair.
func NewAuthBuilder(appID, apiKey string, signer *Signer) *AuthBuilder {
	return &AuthBuilder{
		appID:    appID,
		apiKey:   apiKey,
		signer:   signer,
		now:      time.Now,
		newNonce: uuid.NewString,
	}
}

// BuildHeaders signs the request with a fresh epoch-seconds timestamp and,
// when the scheme requires one, a fresh random nonce. Freshness is what
// prevents replay of an identical signing context.
func (b *AuthBuilder) BuildHeaders(method, path string, body []byte) (http.Header, error) {
	nonce := ""
	if b.signer.Scheme().UseNonce {
		nonce = b.newNonce()
	}
	return b.BuildHeadersAt(method, path, body, b.now().Unix(), nonce)
}

// BuildHeadersAt signs with an explicit timestamp and nonce. The same
// context yields the same Authorization value; callers own freshness.
func (b *AuthBuilder) BuildHeadersAt(method, path string, body []byte, timestamp int64, nonce string) (http.Header, error) {
	sig, err := b.signer.Sign(method, path, body, timestamp, nonce)
	if err != nil {
		return nil, err
	}

	scheme := b.signer.Scheme()
	header := http.Header{}
	header.Set("Authorization", b.authorizationValue(scheme, timestamp, nonce, sig))
	header.Set("Content-Type", "application/json")
	header.Set(apiKeyHeader, b.apiKey)
	if scheme.DigestHeader != "" && len(body) > 0 {
		header.Set(scheme.DigestHeader, scheme.ContentDigest(body))
	}
	return header, nil
}

func (b *AuthBuilder) authorizationValue(scheme Scheme, timestamp int64, nonce, signature string) string {
	ts := strconv.FormatInt(timestamp, 10)
	var fields []string
	if scheme.KeyValue {
		fields = append(fields, "app_id="+b.appID)
		if scheme.UseNonce {
			fields = append(fields, "nonce="+nonce)
		}
		fields = append(fields, "timestamp="+ts, "signature="+signature)
	} else {
		fields = append(fields, b.appID)
		if scheme.UseNonce {
			fields = append(fields, nonce)
		}
		fields = append(fields, ts, signature)
	}
	return scheme.AuthPrefix + strings.Join(fields, scheme.Delimiter)
}

// maskHeaders copies the header set with the signature reduced to a short
// prefix and the API key fully redacted. Diagnostic output must never carry
// either in cleartext.
func maskHeaders(h http.Header) http.Header {
	masked := h.Clone()
	if auth := masked.Get("Authorization"); auth != "" {
		masked.Set("Authorization", maskSignature(auth))
	}
	if masked.Get(apiKeyHeader) != "" {
		masked.Set(apiKeyHeader, "***")
	}
	return masked
}

func maskSignature(auth string) string {
	cut := func(sig string) string {
		if len(sig) <= 8 {
			return "***"
		}
		return sig[:8] + "***"
	}
	if i := strings.LastIndex(auth, "signature="); i >= 0 {
		return auth[:i] + "signature=" + cut(auth[i+len("signature="):])
	}
	if i := strings.LastIndexAny(auth, ".,"); i >= 0 {
		return auth[:i+1] + cut(auth[i+1:])
	}
	return fmt.Sprintf("%.8s***", auth)
}
