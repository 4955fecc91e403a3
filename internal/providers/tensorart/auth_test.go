package tensorart

import (
	"strings"
	"testing"
)

func TestBuildHeadersAtIsDeterministic(t *testing.T) {
	signer, _ := testSigner(t, SchemeSHA256Nonce)
	builder := NewAuthBuilder("app-1", "key-1", signer)
	body := []byte(`{"requestId":"r1"}`)

	first, err := builder.BuildHeadersAt("POST", "/v1/jobs", body, 1700000000, "n1")
	if err != nil {
		t.Fatalf("build headers: %v", err)
	}
	second, err := builder.BuildHeadersAt("POST", "/v1/jobs", body, 1700000000, "n1")
	if err != nil {
		t.Fatalf("build headers: %v", err)
	}
	if first.Get("Authorization") != second.Get("Authorization") {
		t.Fatalf("same timestamp and nonce produced different Authorization values")
	}
}

func TestBuildHeadersFreshness(t *testing.T) {
	signer, _ := testSigner(t, SchemeSHA256Nonce)
	builder := NewAuthBuilder("app-1", "key-1", signer)

	first, err := builder.BuildHeaders("POST", "/v1/jobs", []byte(`{}`))
	if err != nil {
		t.Fatalf("build headers: %v", err)
	}
	second, err := builder.BuildHeaders("POST", "/v1/jobs", []byte(`{}`))
	if err != nil {
		t.Fatalf("build headers: %v", err)
	}
	if first.Get("Authorization") == second.Get("Authorization") {
		t.Fatalf("fresh nonce expected a different Authorization value per call")
	}
}

func TestAuthorizationLayoutKeyValue(t *testing.T) {
	signer, _ := testSigner(t, SchemeSHA256Nonce)
	builder := NewAuthBuilder("app-1", "key-1", signer)

	header, err := builder.BuildHeadersAt("POST", "/v1/jobs", []byte(`{}`), 1700000000, "n1")
	if err != nil {
		t.Fatalf("build headers: %v", err)
	}
	auth := header.Get("Authorization")
	if !strings.HasPrefix(auth, "TAMS-SHA256-RSA ") {
		t.Fatalf("missing scheme prefix: %q", auth)
	}
	fields := strings.Split(strings.TrimPrefix(auth, "TAMS-SHA256-RSA "), ",")
	want := []string{"app_id=app-1", "nonce=n1", "timestamp=1700000000"}
	if len(fields) != 4 {
		t.Fatalf("want 4 fields, got %d: %q", len(fields), auth)
	}
	for i, w := range want {
		if fields[i] != w {
			t.Fatalf("field %d = %q, want %q", i, fields[i], w)
		}
	}
	if !strings.HasPrefix(fields[3], "signature=") || len(fields[3]) <= len("signature=") {
		t.Fatalf("signature field malformed: %q", fields[3])
	}

	if ct := header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	if header.Get(apiKeyHeader) != "key-1" {
		t.Fatalf("api key header missing")
	}
	if header.Get(SchemeSHA256Nonce.DigestHeader) == "" {
		t.Fatalf("digest header missing for body-bearing request")
	}
}

func TestAuthorizationLayoutLegacy(t *testing.T) {
	signer, _ := testSigner(t, SchemeLegacyMD5)
	builder := NewAuthBuilder("app-1", "key-1", signer)

	header, err := builder.BuildHeadersAt("GET", "/v1/jobs/j1", nil, 1700000000, "")
	if err != nil {
		t.Fatalf("build headers: %v", err)
	}
	auth := header.Get("Authorization")
	fields := strings.SplitN(auth, ".", 3)
	if len(fields) != 3 {
		t.Fatalf("want appID.timestamp.signature, got %q", auth)
	}
	if fields[0] != "app-1" || fields[1] != "1700000000" || fields[2] == "" {
		t.Fatalf("legacy layout mismatch: %q", auth)
	}
	if header.Get("X-Content-Digest") != "" {
		t.Fatalf("legacy scheme should not set a digest header")
	}
}

func TestMaskHeadersRedactsSecrets(t *testing.T) {
	signer, _ := testSigner(t, SchemeSHA256Nonce)
	builder := NewAuthBuilder("app-1", "secret-key", signer)

	header, err := builder.BuildHeadersAt("POST", "/v1/jobs", []byte(`{}`), 1700000000, "n1")
	if err != nil {
		t.Fatalf("build headers: %v", err)
	}
	fullAuth := header.Get("Authorization")

	masked := maskHeaders(header)
	if masked.Get(apiKeyHeader) != "***" {
		t.Fatalf("api key not redacted: %q", masked.Get(apiKeyHeader))
	}
	maskedAuth := masked.Get("Authorization")
	if maskedAuth == fullAuth {
		t.Fatalf("authorization value not masked")
	}
	if !strings.HasSuffix(maskedAuth, "***") {
		t.Fatalf("masked authorization should end with ***: %q", maskedAuth)
	}
	if !strings.Contains(maskedAuth, "app_id=app-1") {
		t.Fatalf("non-secret fields should survive masking: %q", maskedAuth)
	}
	// The original header must be untouched.
	if header.Get("Authorization") != fullAuth {
		t.Fatalf("masking mutated the source headers")
	}
}
