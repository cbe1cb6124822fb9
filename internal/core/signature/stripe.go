package signature

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeHeader carries the Stripe webhook signature (`t=...,v1=...`).
const StripeHeader = "Stripe-Signature"

// StripeVerifier checks Stripe-Signature headers and decodes the event.
type StripeVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewStripeVerifier(webhookSecret string) *StripeVerifier {
	return &StripeVerifier{secret: webhookSecret, tolerance: webhook.DefaultTolerance}
}

// WithTolerance overrides the accepted timestamp age.
func (v *StripeVerifier) WithTolerance(d time.Duration) *StripeVerifier {
	v.tolerance = d
	return v
}

// Configured is false when no webhook secret was provided.
func (v *StripeVerifier) Configured() bool {
	return v != nil && v.secret != ""
}

// ConstructEvent verifies the signature over rawBody and decodes the event.
// Errors are mapped onto this package's sentinel errors.
func (v *StripeVerifier) ConstructEvent(rawBody []byte, header string) (stripe.Event, error) {
	if header == "" {
		return stripe.Event{}, ErrMissingSignature
	}
	if !v.Configured() {
		return stripe.Event{}, ErrSignatureMismatch
	}
	if !hasTimestamp(header) {
		return stripe.Event{}, fmt.Errorf("%w: no integer t= element", ErrMalformedSignature)
	}

	event, err := webhook.ConstructEventWithOptions(rawBody, header, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, mapStripeError(err)
	}
	return event, nil
}

// hasTimestamp reports whether header carries a `t=<unix seconds>` element.
// stripe-go treats a missing timestamp as zero and reports it as too old.
func hasTimestamp(header string) bool {
	for _, pair := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || key != "t" {
			continue
		}
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	}
	return false
}

func mapStripeError(err error) error {
	switch {
	case errors.Is(err, webhook.ErrNotSigned):
		return ErrMissingSignature
	case errors.Is(err, webhook.ErrInvalidHeader):
		return fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	case errors.Is(err, webhook.ErrNoValidSignature), errors.Is(err, webhook.ErrTooOld):
		return fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
	default:
		// signature was fine but the body is not a Stripe event
		return err
	}
}
