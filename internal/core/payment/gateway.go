package payment

import (
	"context"
	"errors"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/order"
)

// Metadata keys stored on the checkout session and its payment intent.
// Payment webhooks read them back to find the customer to notify.
const (
	MetadataOrderID       = "order_id"
	MetadataCustomerPhone = "customer_phone"
	MetadataPhoneNumberID = "phone_number_id"
)

var ErrMissingOrderID = errors.New("payment link requires an order id")

// LinkCreator creates a hosted payment page for an order.
// This allows us to swap the payment provider without touching the relay services.
type LinkCreator interface {
	// CreatePaymentLink returns the URL the customer pays at
	CreatePaymentLink(ctx context.Context, req LinkRequest) (string, error)

	// Name returns the gateway provider name
	Name() string
}

// LinkRequest is the order a payment link is created for
type LinkRequest struct {
	OrderID       string       `json:"order_id"`
	CustomerPhone string       `json:"customer_phone"`
	PhoneNumberID string       `json:"phone_number_id"`
	Items         []order.Item `json:"items"`
}

func (r LinkRequest) metadata() map[string]string {
	md := map[string]string{MetadataOrderID: r.OrderID}
	if r.CustomerPhone != "" {
		md[MetadataCustomerPhone] = r.CustomerPhone
	}
	if r.PhoneNumberID != "" {
		md[MetadataPhoneNumberID] = r.PhoneNumberID
	}
	return md
}
