package whatsapp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/order"
)

// ObjectWhatsAppBusinessAccount is the only top-level object this service handles.
const ObjectWhatsAppBusinessAccount = "whatsapp_business_account"

var (
	ErrInvalidPayload = errors.New("webhook body is not valid JSON")
	ErrMissingObject  = errors.New("webhook body has no object field")
)

// WebhookPayload is a Cloud API webhook notification.
// Documentation: https://developers.facebook.com/docs/whatsapp/cloud-api/webhooks/components
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
	WaID string `json:"wa_id"`
}

// Message types the relay answers; everything else is acknowledged only.
const (
	MessageTypeText  = "text"
	MessageTypeOrder = "order"
)

type Message struct {
	From      string        `json:"from"`
	ID        string        `json:"id"`
	Timestamp string        `json:"timestamp"`
	Type      string        `json:"type"`
	Text      *TextMessage  `json:"text,omitempty"`
	Order     *OrderMessage `json:"order,omitempty"`
}

type TextMessage struct {
	Body string `json:"body"`
}

type OrderMessage struct {
	CatalogID    string       `json:"catalog_id"`
	Text         string       `json:"text,omitempty"`
	ProductItems []order.Item `json:"product_items"`
}

type Status struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
}

// DecodePayload parses a raw webhook body. A body that is not JSON, or that
// has no object field, is rejected.
func DecodePayload(raw []byte) (*WebhookPayload, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if payload.Object == "" {
		return nil, ErrMissingObject
	}
	return &payload, nil
}
