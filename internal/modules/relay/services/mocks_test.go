package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/templates"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/whatsapp"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, phoneNumberID, to string, body templates.TextBody) (*whatsapp.SendResponse, error) {
	args := m.Called(ctx, phoneNumberID, to, body)
	resp, _ := args.Get(0).(*whatsapp.SendResponse)
	return resp, args.Error(1)
}

func (m *mockSender) MarkAsRead(ctx context.Context, phoneNumberID, messageID string) error {
	args := m.Called(ctx, phoneNumberID, messageID)
	return args.Error(0)
}

type mockLinks struct {
	mock.Mock
}

func (m *mockLinks) CreatePaymentLink(ctx context.Context, req payment.LinkRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockLinks) Name() string { return "mock" }
