package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/order"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/templates"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/apperror"
)

const phoneID = "106540352242922"

func textEvent(body string) whatsapp.Event {
	return whatsapp.Event{
		Kind:          whatsapp.EventMessage,
		PhoneNumberID: phoneID,
		Message: &whatsapp.Message{
			From: "16505551234",
			ID:   "wamid.in1",
			Type: whatsapp.MessageTypeText,
			Text: &whatsapp.TextMessage{Body: body},
		},
	}
}

func orderEvent(items []order.Item) whatsapp.Event {
	return whatsapp.Event{
		Kind:          whatsapp.EventMessage,
		PhoneNumberID: phoneID,
		Message: &whatsapp.Message{
			From:  "16505551234",
			ID:    "wamid.order1",
			Type:  whatsapp.MessageTypeOrder,
			Order: &whatsapp.OrderMessage{CatalogID: "c1", ProductItems: items},
		},
	}
}

func items() []order.Item {
	return []order.Item{
		{ProductID: "salad001", Quantity: 2, UnitPrice: decimal.RequireFromString("11"), Currency: "GBP"},
		{ProductID: "pizza001", Quantity: 1, UnitPrice: decimal.RequireFromString("10"), Currency: "GBP"},
	}
}

func okResponse() *whatsapp.SendResponse {
	return &whatsapp.SendResponse{MessagingProduct: "whatsapp"}
}

func TestMessageService_TextSendsDefaultOnce(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, phoneID, "16505551234", templates.TextBody{Body: "Thank you for your message!"}).
		Return(okResponse(), nil).Once()

	svc := NewMessageService(sender, nil, "", false)
	require.NoError(t, svc.Handle(context.Background(), textEvent("hi")))

	sender.AssertExpectations(t)
	sender.AssertNumberOfCalls(t, "Send", 1)
	sender.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMessageService_MarksAsReadWhenEnabled(t *testing.T) {
	sender := new(mockSender)
	sender.On("MarkAsRead", mock.Anything, phoneID, "wamid.in1").Return(errors.New("boom")).Once()
	sender.On("Send", mock.Anything, phoneID, "16505551234", mock.Anything).Return(okResponse(), nil).Once()

	svc := NewMessageService(sender, nil, "", true)
	require.NoError(t, svc.Handle(context.Background(), textEvent("hi")))

	sender.AssertExpectations(t)
}

func TestMessageService_OrderWithPaymentLink(t *testing.T) {
	sender := new(mockSender)
	links := new(mockLinks)

	links.On("CreatePaymentLink", mock.Anything, mock.MatchedBy(func(req payment.LinkRequest) bool {
		return req.OrderID == "wamid.order1" && req.CustomerPhone == "16505551234" && req.PhoneNumberID == phoneID && len(req.Items) == 2
	})).Return("https://checkout.stripe.com/c/pay/cs_1", nil).Once()

	var sent templates.TextBody
	sender.On("Send", mock.Anything, phoneID, "16505551234", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(3).(templates.TextBody) }).
		Return(okResponse(), nil).Once()

	svc := NewMessageService(sender, links, "", false)
	require.NoError(t, svc.Handle(context.Background(), orderEvent(items())))

	assert.Equal(t, "Thank you for your order!\n\nOrder Details:\n"+
		"salad001: 2 x GBP 11\npizza001: 1 x GBP 10\n\n"+
		"Total Amount: GBP 32\nPayment Link: https://checkout.stripe.com/c/pay/cs_1", sent.Body)
	sender.AssertExpectations(t)
	links.AssertExpectations(t)
}

func TestMessageService_OrderLinkFailureStillConfirms(t *testing.T) {
	sender := new(mockSender)
	links := new(mockLinks)
	links.On("CreatePaymentLink", mock.Anything, mock.Anything).Return("", apperror.Upstream("stripe down", nil)).Once()

	var sent templates.TextBody
	sender.On("Send", mock.Anything, phoneID, "16505551234", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(3).(templates.TextBody) }).
		Return(okResponse(), nil).Once()

	svc := NewMessageService(sender, links, "", false)
	require.NoError(t, svc.Handle(context.Background(), orderEvent(items())))

	assert.Contains(t, sent.Body, "Total Amount: GBP 32")
	assert.NotContains(t, sent.Body, "Payment Link")
	sender.AssertExpectations(t)
}

func TestMessageService_EmptyOrderFallsBackToDefault(t *testing.T) {
	sender := new(mockSender)
	links := new(mockLinks)
	sender.On("Send", mock.Anything, phoneID, "16505551234", templates.TextBody{Body: templates.DefaultText}).
		Return(okResponse(), nil).Once()

	svc := NewMessageService(sender, links, "", false)
	require.NoError(t, svc.Handle(context.Background(), orderEvent(nil)))

	sender.AssertExpectations(t)
	links.AssertNotCalled(t, "CreatePaymentLink", mock.Anything, mock.Anything)
}

func TestMessageService_SendFailureIsUpstream(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, phoneID, "16505551234", mock.Anything).
		Return(nil, &whatsapp.SendError{HTTPStatus: 401, ProviderMessage: "bad token"}).Once()

	svc := NewMessageService(sender, nil, "", false)
	err := svc.Handle(context.Background(), textEvent("hi"))

	require.Error(t, err)
	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(err))
	var sendErr *whatsapp.SendError
	assert.True(t, errors.As(err, &sendErr))
}

func TestMessageService_NoReplyCases(t *testing.T) {
	sender := new(mockSender)
	svc := NewMessageService(sender, nil, "", false)
	ctx := context.Background()

	image := textEvent("")
	image.Message.Type = "image"
	image.Message.Text = nil

	status := whatsapp.Event{
		Kind:          whatsapp.EventStatusUpdate,
		PhoneNumberID: phoneID,
		Status:        &whatsapp.Status{ID: "wamid.out1", Status: "delivered", RecipientID: "16505551234"},
	}

	require.NoError(t, svc.Handle(ctx, image))
	require.NoError(t, svc.Handle(ctx, status))
	require.NoError(t, svc.Handle(ctx, whatsapp.Event{Kind: whatsapp.EventUnrecognized}))

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMessageService_FallsBackToConfiguredPhoneNumberID(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, "configured-id", "16505551234", mock.Anything).Return(okResponse(), nil).Once()

	event := textEvent("hi")
	event.PhoneNumberID = ""

	svc := NewMessageService(sender, nil, "configured-id", false)
	require.NoError(t, svc.Handle(context.Background(), event))
	sender.AssertExpectations(t)

	err := NewMessageService(sender, nil, "", false).Handle(context.Background(), event)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
