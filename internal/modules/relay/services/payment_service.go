package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/templates"
)

// PaymentService relays Stripe payment outcomes back to the customer on WhatsApp.
type PaymentService struct {
	sender        MessageSender
	phoneNumberID string
}

func NewPaymentService(sender MessageSender, phoneNumberID string) *PaymentService {
	return &PaymentService{sender: sender, phoneNumberID: phoneNumberID}
}

func (s *PaymentService) Handle(ctx context.Context, event payment.Event) error {
	switch event.Kind {
	case payment.EventCheckoutCompleted:
		log.Info().
			Str("session_id", event.ObjectID).
			Str("order_id", event.OrderID).
			Str("payment_status", event.PaymentStatus).
			Int64("amount_total", event.Amount).
			Msg("✅ Checkout session completed")
		return nil

	case payment.EventPaymentSucceeded:
		return s.notify(ctx, event, templates.KindPaymentSuccess, templates.Params{
			OrderID:    event.OrderID,
			Amount:     event.Amount,
			Currency:   event.Currency,
			ReceiptURL: event.ReceiptURL,
		})

	case payment.EventPaymentFailed:
		log.Warn().
			Str("payment_intent", event.ObjectID).
			Str("reason", event.FailureReason).
			Msg("⚠️ Payment intent failed")
		return s.notify(ctx, event, templates.KindPaymentFailure, templates.Params{
			OrderID:       event.OrderID,
			FailureReason: event.FailureReason,
		})

	default:
		log.Info().Str("type", event.Type).Msg("⏭️ Unhandled Stripe event type")
		return nil
	}
}

func (s *PaymentService) notify(ctx context.Context, event payment.Event, kind templates.Kind, params templates.Params) error {
	if event.CustomerPhone == "" {
		log.Warn().
			Str("type", event.Type).
			Str("object_id", event.ObjectID).
			Msg("⚠️ Payment event has no customer phone in metadata, skipping notification")
		return nil
	}

	phoneNumberID := event.PhoneNumberID
	if phoneNumberID == "" {
		phoneNumberID = s.phoneNumberID
	}
	if phoneNumberID == "" {
		return missingPhoneNumberID(event.CustomerPhone)
	}

	body, err := templates.ResolveOrDefault(kind, params)
	if err != nil {
		log.Warn().Err(err).Str("template", string(kind)).Msg("⚠️ Template resolution failed, sending default response")
		kind = templates.KindDefault
	}

	return deliver(ctx, s.sender, phoneNumberID, event.CustomerPhone, kind, body)
}
