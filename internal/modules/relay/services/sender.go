package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/templates"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/apperror"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/metrics"
)

// MessageSender is the outbound side of the WhatsApp Cloud API.
type MessageSender interface {
	Send(ctx context.Context, phoneNumberID, to string, body templates.TextBody) (*whatsapp.SendResponse, error)
	MarkAsRead(ctx context.Context, phoneNumberID, messageID string) error
}

// deliver sends exactly once and records the outcome under the template label.
func deliver(ctx context.Context, sender MessageSender, phoneNumberID, to string, kind templates.Kind, body templates.TextBody) error {
	resp, err := sender.Send(ctx, phoneNumberID, to, body)
	if err != nil {
		metrics.OutboundMessagesTotal.WithLabelValues(string(kind), "failed").Inc()
		log.Error().Err(err).
			Str("to", to).
			Str("template", string(kind)).
			Msg("❌ Failed to send WhatsApp message")
		return apperror.Upstream("failed to send WhatsApp message", err)
	}

	metrics.OutboundMessagesTotal.WithLabelValues(string(kind), "sent").Inc()
	log.Info().
		Str("to", to).
		Str("template", string(kind)).
		Str("message_id", resp.MessageID()).
		Msg("📤 Reply sent")
	return nil
}

func missingPhoneNumberID(to string) error {
	return apperror.Internal("no WhatsApp phone number id to reply from", fmt.Errorf("cannot reply to %s: phone number id unknown", to))
}
