package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDoc(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "WhatsApp Order Relay API", doc.Info.Title)
	assert.Contains(t, doc.Paths["/health"], "get")
	assert.Contains(t, doc.Paths["/webhook"], "get")
	assert.Contains(t, doc.Paths["/webhook"], "post")
	assert.Contains(t, doc.Paths["/webhook/stripe"], "post")

	for _, name := range []string{"whatsapp.WebhookPayload", "whatsapp.Value", "whatsapp.OrderMessage", "order.Item"} {
		assert.Contains(t, doc.Definitions, name)
	}
}
