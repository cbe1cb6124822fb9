package whatsapp

import (
	"crypto/subtle"
	"errors"
)

// ModeSubscribe is the only hub.mode Meta sends during webhook registration.
const ModeSubscribe = "subscribe"

var (
	ErrMissingParameters = errors.New("missing hub.mode or hub.verify_token")
	ErrTokenMismatch     = errors.New("verification token mismatch")
)

// HandleChallenge answers Meta's subscription handshake. It returns the
// challenge verbatim when mode is "subscribe" and token matches expected.
func HandleChallenge(mode, token, challenge, expected string) (string, error) {
	if mode == "" || token == "" {
		return "", ErrMissingParameters
	}
	if mode != ModeSubscribe || expected == "" {
		return "", ErrTokenMismatch
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return "", ErrTokenMismatch
	}
	return challenge, nil
}
