package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/signature"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/utils"
)

const orderMessage = `{
  "from": %q,
  "id": "wamid.HBgMOTE5NTM1NTMyODI2FQIAEhgWM0VCMDgyQ0FCRTI2Njk0QzkyNDRBMQA=",
  "timestamp": %q,
  "type": "order",
  "order": {
    "catalog_id": "517815408011938",
    "text": "",
    "product_items": [
      {"product_retailer_id": "salad001", "quantity": 2, "item_price": 11, "currency": "GBP"},
      {"product_retailer_id": "sandwich001", "quantity": 1, "item_price": 9.99, "currency": "GBP"},
      {"product_retailer_id": "pasta001", "quantity": 1, "item_price": 7.5, "currency": "GBP"},
      {"product_retailer_id": "burger001", "quantity": 2, "item_price": 8.5, "currency": "GBP"},
      {"product_retailer_id": "pizza001", "quantity": 1, "item_price": 10, "currency": "GBP"}
    ]
  }
}`

const textMessage = `{
  "from": %q,
  "id": "wamid.test-text",
  "timestamp": %q,
  "type": "text",
  "text": {"body": %q}
}`

const envelope = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "595236046999775",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "15551772564", "phone_number_id": %q},
        "contacts": [{"profile": {"name": "Test Customer"}, "wa_id": %q}],
        "messages": [%s]
      }
    }]
  }]
}`

// Posts a signed sample delivery to a running relay.
func main() {
	_ = godotenv.Load()
	utils.InitLogger("development", "info")

	var (
		target        string
		kind          string
		text          string
		from          string
		phoneNumberID string
		secret        string
	)
	flag.StringVar(&target, "url", "http://localhost:3000/webhook", "Webhook URL")
	flag.StringVar(&kind, "type", "order", "Message type to send (order, text)")
	flag.StringVar(&text, "text", "hi", "Body for -type text")
	flag.StringVar(&from, "from", "919535532826", "Customer phone number")
	flag.StringVar(&phoneNumberID, "phone-number-id", envOr("WHATSAPP_PHONE_NUMBER_ID", "617573451429692"), "Business phone number id")
	flag.StringVar(&secret, "secret", os.Getenv("WHATSAPP_APP_SECRET"), "App secret used to sign the body")
	flag.Parse()

	if secret == "" {
		log.Fatal().Msg("❌ -secret or WHATSAPP_APP_SECRET is required")
	}

	ts := fmt.Sprint(time.Now().Unix())
	var message string
	switch kind {
	case "order":
		message = fmt.Sprintf(orderMessage, from, ts)
	case "text":
		message = fmt.Sprintf(textMessage, from, ts, text)
	default:
		log.Fatal().Str("type", kind).Msg("❌ Unknown message type")
	}

	body := []byte(fmt.Sprintf(envelope, phoneNumberID, from, message))
	if !json.Valid(body) {
		log.Fatal().Msg("❌ Generated payload is not valid JSON")
	}

	req, err := http.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signature.HubHeader, signature.SignHub(body, secret))

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Request failed")
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	log.Info().
		Int("status", resp.StatusCode).
		Str("body", string(respBody)).
		Msg("📨 Webhook response")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
