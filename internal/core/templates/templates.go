// Package templates turns a message kind plus parameters into the text body
// sent back through WhatsApp.
package templates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/order"
)

type Kind string

const (
	KindDefault           Kind = "default_response"
	KindOrderConfirmation Kind = "order_confirmation"
	KindPaymentSuccess    Kind = "payment_success"
	KindPaymentFailure    Kind = "payment_failure"
)

// DefaultText is the acknowledgment sent for plain messages and whenever a
// template cannot be resolved.
const DefaultText = "Thank you for your message!"

var ErrMissingOrderID = errors.New("order id is required")

// TextBody is the literal outbound text.
type TextBody struct {
	Body string
}

// Params holds every value a template may substitute. Templates read only
// the fields they need; the rest are ignored.
type Params struct {
	Items       []order.Item
	PaymentLink string

	OrderID       string
	Amount        int64 // minor units
	Currency      string
	ReceiptURL    string
	FailureReason string
}

// Resolve renders kind with params. Only a missing item sequence (order
// confirmation) or a missing order id (payment templates) is an error.
func Resolve(kind Kind, p Params) (TextBody, error) {
	switch kind {
	case KindOrderConfirmation:
		return orderConfirmation(p)
	case KindPaymentSuccess:
		return paymentSuccess(p)
	case KindPaymentFailure:
		return paymentFailure(p)
	case KindDefault:
		return Default(), nil
	default:
		log.Warn().Str("kind", string(kind)).Msg("⚠️ Unknown template kind, using default response")
		return Default(), nil
	}
}

// ResolveOrDefault never fails: on a resolution error it returns the default
// body together with the error so the caller can log it.
func ResolveOrDefault(kind Kind, p Params) (TextBody, error) {
	body, err := Resolve(kind, p)
	if err != nil {
		return Default(), err
	}
	return body, nil
}

func Default() TextBody {
	return TextBody{Body: DefaultText}
}

func orderConfirmation(p Params) (TextBody, error) {
	total, err := order.Total(p.Items)
	if err != nil {
		return TextBody{}, err
	}

	lines := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		lines = append(lines, fmt.Sprintf("%s: %d x %s %s", item.ProductID, item.Quantity, itemCurrency(item, p.Items), item.UnitPrice.String()))
	}

	var b strings.Builder
	b.WriteString("Thank you for your order!\n\nOrder Details:\n")
	b.WriteString(strings.Join(lines, "\n"))
	fmt.Fprintf(&b, "\n\nTotal Amount: %s %s", order.Currency(p.Items), total.String())
	if p.PaymentLink != "" {
		fmt.Fprintf(&b, "\nPayment Link: %s", p.PaymentLink)
	}
	return TextBody{Body: b.String()}, nil
}

func itemCurrency(item order.Item, items []order.Item) string {
	if item.Currency != "" {
		return item.Currency
	}
	return order.Currency(items)
}

func paymentSuccess(p Params) (TextBody, error) {
	if p.OrderID == "" {
		return TextBody{}, ErrMissingOrderID
	}
	receipt := p.ReceiptURL
	if receipt == "" {
		receipt = "Not available"
	}
	body := fmt.Sprintf("Payment successful! 🎉\n\nOrder: %s\nAmount: %s\nReceipt: %s",
		p.OrderID, formatAmount(p.Amount, p.Currency), receipt)
	return TextBody{Body: body}, nil
}

func paymentFailure(p Params) (TextBody, error) {
	if p.OrderID == "" {
		return TextBody{}, ErrMissingOrderID
	}
	reason := p.FailureReason
	if reason == "" {
		reason = "Unknown error"
	}
	body := fmt.Sprintf("Payment failed ❌\n\nOrder: %s\nReason: %s\nPlease try again or contact support.",
		p.OrderID, reason)
	return TextBody{Body: body}, nil
}

// formatAmount renders minor units as "<CUR> <major>", e.g. 6649 gbp -> "GBP 66.49",
// 1000 jpy -> "JPY 1000".
func formatAmount(minor int64, currency string) string {
	amount := order.FromMinorUnits(minor, currency).String()
	if currency == "" {
		return amount
	}
	return strings.ToUpper(currency) + " " + amount
}
