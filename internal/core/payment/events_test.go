package payment

import (
	"encoding/json"
	"testing"

	"github.com/stripe/stripe-go/v79"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/apperror"
)

func event(t *testing.T, typ, object string) stripe.Event {
	t.Helper()
	raw := `{"id":"evt_1","object":"event","type":"` + typ + `","data":{"object":` + object + `}}`
	var e stripe.Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	return e
}

func TestParseEvent_PaymentSucceeded(t *testing.T) {
	e := event(t, EventTypePaymentSucceeded, `{
		"id":"pi_1","object":"payment_intent","amount":6649,"currency":"gbp","status":"succeeded",
		"latest_charge":{"id":"ch_1","object":"charge","receipt_url":"https://pay.stripe.com/receipts/r_1"},
		"metadata":{"order_id":"wamid.order1","customer_phone":"16505551234","phone_number_id":"106540352242922"}
	}`)

	got, err := ParseEvent(e)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, got.Kind)
	assert.Equal(t, "evt_1", got.EventID)
	assert.Equal(t, "pi_1", got.ObjectID)
	assert.Equal(t, int64(6649), got.Amount)
	assert.Equal(t, "gbp", got.Currency)
	assert.Equal(t, "https://pay.stripe.com/receipts/r_1", got.ReceiptURL)
	assert.Equal(t, "wamid.order1", got.OrderID)
	assert.Equal(t, "16505551234", got.CustomerPhone)
	assert.Equal(t, "106540352242922", got.PhoneNumberID)
}

func TestParseEvent_PaymentSucceededUnexpandedCharge(t *testing.T) {
	e := event(t, EventTypePaymentSucceeded, `{"id":"pi_2","object":"payment_intent","amount":100,"currency":"usd","latest_charge":"ch_2"}`)

	got, err := ParseEvent(e)
	require.NoError(t, err)
	assert.Empty(t, got.ReceiptURL)
	assert.Equal(t, "pi_2", got.OrderID)
	assert.Empty(t, got.CustomerPhone)
}

func TestParseEvent_PaymentFailed(t *testing.T) {
	e := event(t, EventTypePaymentFailed, `{
		"id":"pi_3","object":"payment_intent","amount":999,"currency":"gbp","status":"requires_payment_method",
		"last_payment_error":{"type":"card_error","code":"card_declined","message":"Your card was declined."},
		"metadata":{"order_id":"o3","customer_phone":"447700900123"}
	}`)

	got, err := ParseEvent(e)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentFailed, got.Kind)
	assert.Equal(t, "Your card was declined.", got.FailureReason)
	assert.Equal(t, "o3", got.OrderID)
}

func TestParseEvent_CheckoutCompleted(t *testing.T) {
	e := event(t, EventTypeCheckoutCompleted, `{
		"id":"cs_1","object":"checkout.session","amount_total":6649,"currency":"gbp","payment_status":"paid",
		"metadata":{"order_id":"o1"}
	}`)

	got, err := ParseEvent(e)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, got.Kind)
	assert.Equal(t, "paid", got.PaymentStatus)
	assert.Equal(t, int64(6649), got.Amount)
	assert.Equal(t, "o1", got.OrderID)
}

func TestParseEvent_Ignored(t *testing.T) {
	got, err := ParseEvent(event(t, "charge.refunded", `{"id":"ch_1","object":"charge"}`))
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, got.Kind)
	assert.Equal(t, "charge.refunded", got.Type)
}

func TestParseEvent_UndecodableObject(t *testing.T) {
	e := stripe.Event{ID: "evt_bad", Type: EventTypePaymentSucceeded, Data: &stripe.EventData{Raw: json.RawMessage(`{"amount":"lots"}`)}}
	_, err := ParseEvent(e)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = ParseEvent(stripe.Event{ID: "evt_empty", Type: EventTypePaymentFailed})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "payment_succeeded", EventPaymentSucceeded.String())
	assert.Equal(t, "ignored", EventIgnored.String())
}
