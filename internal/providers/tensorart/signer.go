package tensorart

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Signer produces the canonical string-to-sign for a request and signs it
// with the application's RSA private key. The key is immutable after
// construction, so a single Signer is safe for concurrent use.
type Signer struct {
	key    *rsa.PrivateKey
	scheme Scheme
}

// NewSigner parses the PEM-encoded private key and binds it to a signing
// scheme.
func NewSigner(pemData []byte, scheme Scheme) (*Signer, error) {
	key, err := parsePrivateKey(pemData)
	if err != nil {
		return nil, err
	}
	return &Signer{key: key, scheme: scheme}, nil
}

// LoadKeyMaterial resolves private key bytes from a file path or an inline
// base64 blob. Exactly one source is expected; the path wins when both are
// set.
func LoadKeyMaterial(path, inlineBase64 string) ([]byte, error) {
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("tensorart: read private key file: %w", err)
		}
		return data, nil
	}
	if inlineBase64 = strings.TrimSpace(inlineBase64); inlineBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(inlineBase64)
		if err != nil {
			return nil, fmt.Errorf("tensorart: decode inline private key: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("tensorart: private key material is required")
}

// parsePrivateKey accepts PKCS#1 and PKCS#8 PEM encodings, trying PKCS#1
// first.
func parsePrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKeyLoad)
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: not PKCS#1 or PKCS#8: %v", ErrKeyLoad, err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: PKCS#8 key is not RSA", ErrKeyLoad)
	}
	return key, nil
}

// StringToSign assembles the fixed-order, newline-joined canonical string:
// method, path, timestamp, nonce (when the scheme uses one), content digest.
// Order and separator are exact wire contract.
func (s *Signer) StringToSign(method, path string, body []byte, timestamp int64, nonce string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	parts := []string{method, path, strconv.FormatInt(timestamp, 10)}
	if s.scheme.UseNonce {
		parts = append(parts, nonce)
	}
	parts = append(parts, s.scheme.ContentDigest(body))
	return strings.Join(parts, "\n")
}

// Sign signs the canonical string with RSA PKCS#1 v1.5 over a SHA-256 digest
// and returns the base64-encoded signature.
func (s *Signer) Sign(method, path string, body []byte, timestamp int64, nonce string) (string, error) {
	if s == nil || s.key == nil {
		return "", fmt.Errorf("%w: no private key", ErrSigning)
	}
	canonical := s.StringToSign(method, path, body, timestamp, nonce)
	digest := sha256.Sum256([]byte(canonical))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Scheme returns the wire arrangement the signer is bound to.
func (s *Signer) Scheme() Scheme {
	return s.scheme
}
