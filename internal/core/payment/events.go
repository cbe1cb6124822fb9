package payment

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/apperror"
)

// Stripe event types the relay reacts to.
const (
	EventTypeCheckoutCompleted = "checkout.session.completed"
	EventTypePaymentSucceeded  = "payment_intent.succeeded"
	EventTypePaymentFailed     = "payment_intent.payment_failed"
)

type EventKind int

const (
	EventIgnored EventKind = iota
	EventCheckoutCompleted
	EventPaymentSucceeded
	EventPaymentFailed
)

func (k EventKind) String() string {
	switch k {
	case EventCheckoutCompleted:
		return "checkout_completed"
	case EventPaymentSucceeded:
		return "payment_succeeded"
	case EventPaymentFailed:
		return "payment_failed"
	default:
		return "ignored"
	}
}

// Event is a verified Stripe event reduced to what the relay needs.
type Event struct {
	Kind     EventKind
	Type     string
	EventID  string
	ObjectID string

	OrderID       string
	CustomerPhone string
	PhoneNumberID string

	Amount        int64 // minor units
	Currency      string
	ReceiptURL    string
	FailureReason string
	PaymentStatus string
}

// ParseEvent decodes data.object for the handled event types. Other types
// come back as EventIgnored.
func ParseEvent(e stripe.Event) (Event, error) {
	out := Event{Kind: EventIgnored, Type: string(e.Type), EventID: e.ID}

	switch string(e.Type) {
	case EventTypeCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := decodeObject(e, &session); err != nil {
			return out, err
		}
		out.Kind = EventCheckoutCompleted
		out.ObjectID = session.ID
		out.Amount = session.AmountTotal
		out.Currency = string(session.Currency)
		out.PaymentStatus = string(session.PaymentStatus)
		out.applyMetadata(session.Metadata)

	case EventTypePaymentSucceeded, EventTypePaymentFailed:
		var pi stripe.PaymentIntent
		if err := decodeObject(e, &pi); err != nil {
			return out, err
		}
		out.ObjectID = pi.ID
		out.Amount = pi.Amount
		out.Currency = string(pi.Currency)
		out.PaymentStatus = string(pi.Status)
		out.applyMetadata(pi.Metadata)

		if string(e.Type) == EventTypePaymentSucceeded {
			out.Kind = EventPaymentSucceeded
			if pi.LatestCharge != nil {
				out.ReceiptURL = pi.LatestCharge.ReceiptURL
			}
		} else {
			out.Kind = EventPaymentFailed
			if pi.LastPaymentError != nil {
				out.FailureReason = pi.LastPaymentError.Msg
			}
		}
	}

	return out, nil
}

func (e *Event) applyMetadata(md map[string]string) {
	e.OrderID = md[MetadataOrderID]
	e.CustomerPhone = md[MetadataCustomerPhone]
	e.PhoneNumberID = md[MetadataPhoneNumberID]
	if e.OrderID == "" {
		e.OrderID = e.ObjectID
	}
}

func decodeObject(e stripe.Event, v interface{}) error {
	if e.Data == nil || len(e.Data.Raw) == 0 {
		return apperror.Validation("invalid stripe event", fmt.Errorf("event %s has no data.object", e.ID))
	}
	if err := json.Unmarshal(e.Data.Raw, v); err != nil {
		return apperror.Validation("invalid stripe event", fmt.Errorf("decode %s object: %w", e.Type, err))
	}
	return nil
}
