package tensorart

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DigestAlgorithm selects the content-digest hash the signing scheme binds
// the request body with.
type DigestAlgorithm string

const (
	DigestMD5    DigestAlgorithm = "md5"
	DigestSHA256 DigestAlgorithm = "sha256"
)

// Scheme captures one wire arrangement of the remote signing contract:
// digest algorithm, nonce requirement, field delimiter and Authorization
// layout. The remote service's documentation is authoritative for which
// arrangement a deployment must use; the scheme is therefore configuration,
// selected by name, never hardcoded into call sites.
type Scheme struct {
	Name      string
	Digest    DigestAlgorithm
	UseNonce  bool
	Delimiter string

	// AuthPrefix is prepended to the Authorization value, e.g. a scheme
	// identifier followed by a space. Empty for bare layouts.
	AuthPrefix string

	// KeyValue selects "app_id=...,timestamp=...,signature=..." fields
	// instead of bare delimiter-joined values.
	KeyValue bool

	// DigestHeader, when set, names a header that carries the content digest
	// alongside the signature.
	DigestHeader string
}

// SchemeLegacyMD5 is the nonce-less arrangement: MD5 content digest and a
// bare dot-joined "appID.timestamp.signature" Authorization value.
var SchemeLegacyMD5 = Scheme{
	Name:      "legacy-md5",
	Digest:    DigestMD5,
	UseNonce:  false,
	Delimiter: ".",
}

// SchemeSHA256Nonce is the named-scheme arrangement: SHA-256 content digest,
// a random nonce, and comma-joined key=value Authorization fields.
var SchemeSHA256Nonce = Scheme{
	Name:         "sha256-nonce",
	Digest:       DigestSHA256,
	UseNonce:     true,
	Delimiter:    ",",
	AuthPrefix:   "TAMS-SHA256-RSA ",
	KeyValue:     true,
	DigestHeader: "X-Content-Digest",
}

// SchemeByName resolves a configured scheme name to its arrangement.
func SchemeByName(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SchemeSHA256Nonce.Name:
		return SchemeSHA256Nonce, nil
	case SchemeLegacyMD5.Name:
		return SchemeLegacyMD5, nil
	}
	return Scheme{}, fmt.Errorf("tensorart: unknown signing scheme %q", name)
}

// ContentDigest hashes the exact byte sequence that will be transmitted.
// Digesting any other representation of the body produces a signature the
// server rejects. Empty for empty bodies.
func (s Scheme) ContentDigest(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	switch s.Digest {
	case DigestMD5:
		sum := md5.Sum(body)
		return hex.EncodeToString(sum[:])
	default:
		sum := sha256.Sum256(body)
		return hex.EncodeToString(sum[:])
	}
}
