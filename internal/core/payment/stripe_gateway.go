package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/order"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/apperror"
)

// StripeGateway creates Stripe Checkout Sessions for WhatsApp orders.
type StripeGateway struct {
	client     *client.API
	successURL string
	cancelURL  string
}

// StripeGatewayConfig holds configuration for the Stripe gateway
type StripeGatewayConfig struct {
	SecretKey  string
	APIBaseURL string // empty means api.stripe.com
	SuccessURL string
	CancelURL  string
	HTTPClient *http.Client
	Logger     stripe.LeveledLoggerInterface
}

// NewStripeGateway creates a gateway with its own client. Network retries are
// disabled: a failed session creation is reported, not repeated.
func NewStripeGateway(cfg StripeGatewayConfig) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	backendConfig := &stripe.BackendConfig{
		HTTPClient:        cfg.HTTPClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     cfg.Logger,
	}
	if cfg.APIBaseURL != "" {
		backendConfig.URL = stripe.String(strings.TrimRight(cfg.APIBaseURL, "/"))
	}

	sc := &client.API{}
	sc.Init(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	})

	return &StripeGateway{
		client:     sc,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}, nil
}

func (g *StripeGateway) Name() string {
	return "stripe"
}

// CreatePaymentLink creates a Checkout Session in payment mode with one line
// item per order item and returns its hosted URL.
func (g *StripeGateway) CreatePaymentLink(ctx context.Context, req LinkRequest) (string, error) {
	if req.OrderID == "" {
		return "", apperror.Validation("invalid order", ErrMissingOrderID)
	}
	if err := order.Validate(req.Items); err != nil {
		return "", apperror.Validation("invalid order", err)
	}

	metadata := req.metadata()
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         lineItems(req.Items),
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(req.OrderID),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	session, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		return "", mapStripeError(err)
	}

	log.Info().
		Str("order_id", req.OrderID).
		Str("session_id", session.ID).
		Msg("💳 Stripe checkout session created")
	return session.URL, nil
}

func lineItems(items []order.Item) []*stripe.CheckoutSessionLineItemParams {
	currency := strings.ToLower(order.Currency(items))
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		itemCurrency := currency
		if item.Currency != "" {
			itemCurrency = strings.ToLower(item.Currency)
		}
		out = append(out, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(itemCurrency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.ProductID),
				},
				UnitAmount: stripe.Int64(order.MinorUnits(item.UnitPrice, itemCurrency)),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	return out
}

// mapStripeError converts stripe-go errors into upstream errors.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return apperror.Upstream("payment provider rejected the request",
			fmt.Errorf("stripe %s (status %d): %s: %w", stripeErr.Type, stripeErr.HTTPStatusCode, stripeErr.Msg, err))
	}
	return apperror.Upstream("payment provider unavailable", err)
}
