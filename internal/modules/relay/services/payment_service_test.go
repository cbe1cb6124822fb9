package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/templates"
)

func TestPaymentService_SucceededNotifiesCustomer(t *testing.T) {
	sender := new(mockSender)
	want := templates.TextBody{Body: "Payment successful! 🎉\n\nOrder: wamid.order1\nAmount: GBP 66.49\nReceipt: Not available"}
	sender.On("Send", mock.Anything, phoneID, "16505551234", want).Return(okResponse(), nil).Once()

	svc := NewPaymentService(sender, "")
	err := svc.Handle(context.Background(), payment.Event{
		Kind:          payment.EventPaymentSucceeded,
		Type:          payment.EventTypePaymentSucceeded,
		OrderID:       "wamid.order1",
		CustomerPhone: "16505551234",
		PhoneNumberID: phoneID,
		Amount:        6649,
		Currency:      "gbp",
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestPaymentService_FailedUsesConfiguredPhoneNumberID(t *testing.T) {
	sender := new(mockSender)
	var sent templates.TextBody
	sender.On("Send", mock.Anything, "configured-id", "447700900123", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(3).(templates.TextBody) }).
		Return(okResponse(), nil).Once()

	svc := NewPaymentService(sender, "configured-id")
	err := svc.Handle(context.Background(), payment.Event{
		Kind:          payment.EventPaymentFailed,
		OrderID:       "o3",
		CustomerPhone: "447700900123",
		FailureReason: "Your card was declined.",
	})
	require.NoError(t, err)
	assert.Contains(t, sent.Body, "Reason: Your card was declined.")
	sender.AssertExpectations(t)
}

func TestPaymentService_NoNotification(t *testing.T) {
	sender := new(mockSender)
	svc := NewPaymentService(sender, phoneID)
	ctx := context.Background()

	require.NoError(t, svc.Handle(ctx, payment.Event{Kind: payment.EventCheckoutCompleted, OrderID: "o1"}))
	require.NoError(t, svc.Handle(ctx, payment.Event{Kind: payment.EventIgnored, Type: "charge.refunded"}))
	require.NoError(t, svc.Handle(ctx, payment.Event{Kind: payment.EventPaymentSucceeded, OrderID: "o1"}))

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
