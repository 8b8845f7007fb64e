package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendReceiptRequest_ToOrder(t *testing.T) {
	body := `{
		"businessName": "Acme",
		"receiptNumber": "R1",
		"customerName": "Jane Doe",
		"customerPhone": "+911234567890",
		"items": [
			{"description": "Oil Filter", "quantity": 2, "price": "150.00"},
			{"description": "Labour", "quantity": "1", "price": 99.5},
			{"description": "Free", "quantity": null, "price": {"x": 1}},
			{"description": "Flag", "quantity": true}
		]
	}`

	var req SendReceiptRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	order := req.ToOrder()
	assert.Equal(t, "Acme", order.BusinessName)
	assert.Equal(t, "+911234567890", order.CustomerPhone)
	require.Len(t, order.Items, 4)

	assert.Equal(t, "2", order.Items[0].Quantity)
	assert.Equal(t, "150.00", order.Items[0].Price)
	assert.Equal(t, "1", order.Items[1].Quantity)
	assert.Equal(t, "99.5", order.Items[1].Price)
	assert.Equal(t, "", order.Items[2].Quantity)
	assert.Equal(t, "", order.Items[2].Price)
	assert.Equal(t, "true", order.Items[3].Quantity)
	assert.Equal(t, "", order.Items[3].Price)
}

func TestSendReceiptRequest_LooseDescription(t *testing.T) {
	body := `{"items": [
		{"description": 1234, "quantity": 1, "price": 5},
		{"description": null, "quantity": 1, "price": 5},
		{"description": {"name": "x"}, "quantity": 1, "price": 5},
		{"description": "Oil Filter"}
	]}`

	var req SendReceiptRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	items := req.ToOrder().Items
	require.Len(t, items, 4)
	assert.Equal(t, "1234", items[0].Description)
	assert.Equal(t, "", items[1].Description)
	assert.Equal(t, "", items[2].Description)
	assert.Equal(t, "Oil Filter", items[3].Description)
}

func TestSendReceiptRequest_NoItems(t *testing.T) {
	var req SendReceiptRequest
	require.NoError(t, json.Unmarshal([]byte(`{"customerName":"Jane"}`), &req))

	assert.Empty(t, req.ToOrder().Items)
}
