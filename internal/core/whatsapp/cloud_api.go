// internal/core/whatsapp/cloud_api.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/templates"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/metrics"
)

// CloudAPIClient sends messages through the WhatsApp Cloud API (Official Business API).
// Documentation: https://developers.facebook.com/docs/whatsapp/cloud-api/reference/messages
type CloudAPIClient struct {
	baseURL     string // e.g. https://graph.facebook.com
	apiVersion  string // e.g. v18.0
	accessToken string // Meta Business Access Token
	client      *http.Client
}

// SendResponse is the Cloud API answer to a successful send.
type SendResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// MessageID is the wamid of the first accepted message, if any.
func (r *SendResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

// SendError describes a rejected or failed send. HTTPStatus is zero when the
// request never got a response.
type SendError struct {
	ProviderMessage string
	HTTPStatus      int
	Code            int
	FBTraceID       string
	Err             error
}

func (e *SendError) Error() string {
	if e.HTTPStatus == 0 {
		return fmt.Sprintf("cloud api request failed: %v", e.Err)
	}
	return fmt.Sprintf("cloud api error (status %d, code %d): %s", e.HTTPStatus, e.Code, e.ProviderMessage)
}

func (e *SendError) Unwrap() error { return e.Err }

type apiErrorBody struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

// NewCloudAPIClient creates a client. An empty version defaults to v18.0 and
// a zero timeout to 30s.
func NewCloudAPIClient(baseURL, apiVersion, accessToken string, timeout time.Duration) *CloudAPIClient {
	if apiVersion == "" {
		apiVersion = "v18.0"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CloudAPIClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiVersion:  apiVersion,
		accessToken: accessToken,
		client:      &http.Client{Timeout: timeout},
	}
}

// Send delivers a text body to one recipient from the given business phone
// number. One attempt, no retry.
func (p *CloudAPIClient) Send(ctx context.Context, phoneNumberID, to string, body templates.TextBody) (*SendResponse, error) {
	if phoneNumberID == "" {
		return nil, &SendError{ProviderMessage: "phone number id is required", Err: fmt.Errorf("phone number id is required")}
	}

	payload := textPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               cleanPhoneNumber(to),
		Type:             "text",
	}
	payload.Text.Body = body.Body

	var resp SendResponse
	if err := p.post(ctx, phoneNumberID, payload, &resp); err != nil {
		return nil, err
	}

	log.Info().
		Str("to", payload.To).
		Str("message_id", resp.MessageID()).
		Msg("✅ Cloud API message sent")
	return &resp, nil
}

// MarkAsRead marks an inbound message as read, showing blue ticks to the sender.
func (p *CloudAPIClient) MarkAsRead(ctx context.Context, phoneNumberID, messageID string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}
	return p.post(ctx, phoneNumberID, payload, nil)
}

func (p *CloudAPIClient) messagesURL(phoneNumberID string) string {
	return fmt.Sprintf("%s/%s/%s/messages", p.baseURL, p.apiVersion, phoneNumberID)
}

// post is a helper to make API requests
func (p *CloudAPIClient) post(ctx context.Context, phoneNumberID string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.messagesURL(phoneNumberID), bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	metrics.OutboundRequestDuration.WithLabelValues("whatsapp").Observe(time.Since(start).Seconds())
	if err != nil {
		return &SendError{ProviderMessage: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &SendError{HTTPStatus: resp.StatusCode, ProviderMessage: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newSendError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &SendError{HTTPStatus: resp.StatusCode, ProviderMessage: "failed to decode response", Err: err}
		}
	}
	return nil
}

func newSendError(status int, body []byte) *SendError {
	sendErr := &SendError{HTTPStatus: status, ProviderMessage: strings.TrimSpace(string(body))}

	var apiErr apiErrorBody
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		sendErr.ProviderMessage = apiErr.Error.Message
		sendErr.Code = apiErr.Error.Code
		sendErr.FBTraceID = apiErr.Error.FBTraceID
	}
	if sendErr.ProviderMessage == "" {
		sendErr.ProviderMessage = http.StatusText(status)
	}
	return sendErr
}

// cleanPhoneNumber strips a JID suffix (@c.us, @s.whatsapp.net) and a leading '+'.
// The Cloud API expects bare international numbers.
func cleanPhoneNumber(phone string) string {
	if i := strings.IndexByte(phone, '@'); i >= 0 {
		phone = phone[:i]
	}
	return strings.TrimPrefix(strings.TrimSpace(phone), "+")
}
