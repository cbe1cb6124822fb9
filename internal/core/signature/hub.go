// Package signature authenticates inbound webhook deliveries.
//
// Both verifiers work on the raw request body exactly as it came off the wire.
// Re-encoding a parsed payload changes the bytes and every check would fail.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// HubHeader carries the Meta webhook signature.
const HubHeader = "X-Hub-Signature-256"

const algorithmSHA256 = "sha256"

var (
	ErrMissingSignature   = errors.New("signature header is missing")
	ErrMalformedSignature = errors.New("signature header is malformed")
	ErrSignatureMismatch  = errors.New("signature does not match payload")
)

// Signature is a parsed `<algorithm>=<hexdigest>` header value.
type Signature struct {
	Algorithm string
	Digest    []byte
}

// ParseHub parses an X-Hub-Signature-256 value. The header must contain
// exactly one '=' with a supported algorithm on the left and a hex encoded
// SHA-256 digest (either case) on the right.
func ParseHub(header string) (Signature, error) {
	if header == "" {
		return Signature{}, ErrMissingSignature
	}
	if strings.Count(header, "=") != 1 {
		return Signature{}, ErrMalformedSignature
	}
	algo, hexDigest, _ := strings.Cut(header, "=")
	if algo != algorithmSHA256 || hexDigest == "" {
		return Signature{}, ErrMalformedSignature
	}
	digest, err := hex.DecodeString(hexDigest)
	if err != nil || len(digest) != sha256.Size {
		return Signature{}, ErrMalformedSignature
	}
	return Signature{Algorithm: algo, Digest: digest}, nil
}

// VerifyHub checks rawBody against the header using HMAC-SHA256 keyed by secret.
func VerifyHub(rawBody []byte, header, secret string) error {
	sig, err := ParseHub(header)
	if err != nil {
		return err
	}
	if secret == "" {
		return ErrSignatureMismatch
	}
	if !hmac.Equal(sig.Digest, computeHub(rawBody, secret)) {
		return ErrSignatureMismatch
	}
	return nil
}

// SignHub returns the header value a provider would send for body.
func SignHub(body []byte, secret string) string {
	return algorithmSHA256 + "=" + hex.EncodeToString(computeHub(body, secret))
}

func computeHub(body []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// Reason is a short label for metrics and logs.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingSignature):
		return "missing"
	case errors.Is(err, ErrMalformedSignature):
		return "malformed"
	case errors.Is(err, ErrSignatureMismatch):
		return "mismatch"
	default:
		return "unknown"
	}
}
