package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/order"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/templates"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/metrics"
)

// MessageService answers classified WhatsApp notifications.
type MessageService struct {
	sender        MessageSender
	links         payment.LinkCreator
	phoneNumberID string
	markAsRead    bool
}

// NewMessageService creates a message service. links may be nil, in which
// case order confirmations go out without a payment link. phoneNumberID is
// used when a notification carries no metadata.phone_number_id.
func NewMessageService(sender MessageSender, links payment.LinkCreator, phoneNumberID string, markAsRead bool) *MessageService {
	return &MessageService{
		sender:        sender,
		links:         links,
		phoneNumberID: phoneNumberID,
		markAsRead:    markAsRead,
	}
}

// Handle sends at most one reply per event. Status updates, unrecognized
// payloads and unsupported message types are logged and acknowledged.
func (s *MessageService) Handle(ctx context.Context, event whatsapp.Event) error {
	switch event.Kind {
	case whatsapp.EventStatusUpdate:
		log.Info().
			Str("status", event.Status.Status).
			Str("message_id", event.Status.ID).
			Str("recipient", event.Status.RecipientID).
			Msg("📬 Message status update")
		return nil
	case whatsapp.EventMessage:
		return s.handleMessage(ctx, event)
	default:
		log.Info().Msg("⏭️ Skipping unrecognized webhook payload")
		return nil
	}
}

func (s *MessageService) handleMessage(ctx context.Context, event whatsapp.Event) error {
	msg := event.Message
	phoneNumberID := event.PhoneNumberID
	if phoneNumberID == "" {
		phoneNumberID = s.phoneNumberID
	}

	log.Info().
		Str("from", msg.From).
		Str("type", msg.Type).
		Str("message_id", msg.ID).
		Msg("📨 Incoming WhatsApp message")

	switch msg.Type {
	case whatsapp.MessageTypeText, whatsapp.MessageTypeOrder:
	default:
		log.Warn().Str("type", msg.Type).Str("from", msg.From).Msg("⚠️ Unsupported message type, acknowledging only")
		return nil
	}

	if phoneNumberID == "" {
		return missingPhoneNumberID(msg.From)
	}

	if s.markAsRead && msg.ID != "" {
		if err := s.sender.MarkAsRead(ctx, phoneNumberID, msg.ID); err != nil {
			log.Warn().Err(err).Str("message_id", msg.ID).Msg("⚠️ Failed to mark message as read")
		}
	}

	if msg.Type == whatsapp.MessageTypeOrder {
		return s.handleOrder(ctx, phoneNumberID, msg)
	}

	body, _ := templates.ResolveOrDefault(templates.KindDefault, templates.Params{})
	return deliver(ctx, s.sender, phoneNumberID, msg.From, templates.KindDefault, body)
}

func (s *MessageService) handleOrder(ctx context.Context, phoneNumberID string, msg *whatsapp.Message) error {
	var items []order.Item
	if msg.Order != nil {
		items = msg.Order.ProductItems
	}

	orderID := msg.ID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	params := templates.Params{Items: items, OrderID: orderID}

	if total, err := order.Total(items); err == nil {
		log.Info().
			Str("order_id", orderID).
			Int("items", len(items)).
			Str("total", total.String()).
			Str("currency", order.Currency(items)).
			Msg("🛒 Order received")
		params.PaymentLink = s.paymentLink(ctx, payment.LinkRequest{
			OrderID:       orderID,
			CustomerPhone: msg.From,
			PhoneNumberID: phoneNumberID,
			Items:         items,
		})
	}

	kind := templates.KindOrderConfirmation
	body, err := templates.ResolveOrDefault(kind, params)
	if err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("⚠️ Could not build order confirmation, sending default response")
		kind = templates.KindDefault
	}

	return deliver(ctx, s.sender, phoneNumberID, msg.From, kind, body)
}

// paymentLink returns "" when no gateway is configured or creation fails.
func (s *MessageService) paymentLink(ctx context.Context, req payment.LinkRequest) string {
	if s.links == nil {
		return ""
	}

	link, err := s.links.CreatePaymentLink(ctx, req)
	if err != nil {
		metrics.PaymentLinksTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).
			Str("order_id", req.OrderID).
			Str("gateway", s.links.Name()).
			Msg("❌ Failed to create payment link, confirming order without it")
		return ""
	}

	metrics.PaymentLinksTotal.WithLabelValues("created").Inc()
	return link
}
