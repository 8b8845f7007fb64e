package request

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/sangkips/receipt-relay/internal/domain/entity"
)

// Loose accepts a JSON number, string, boolean or null and keeps its text.
// Amount coercion decides later what the text is worth.
type Loose string

func (l *Loose) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Loose(s)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		// objects and arrays are not numbers; coerced as missing
		*l = ""
	default:
		*l = Loose(data)
	}
	return nil
}

// ReceiptItemRequest is one line of a receipt request.
type ReceiptItemRequest struct {
	Description Loose `json:"description"`
	Quantity    Loose `json:"quantity"`
	Price       Loose `json:"price"`
}

// SendReceiptRequest is the request body for generating and sending a receipt.
type SendReceiptRequest struct {
	BusinessName    string               `json:"businessName"`
	GSTIN           string               `json:"gstin"`
	BusinessAddress string               `json:"businessAddress"`
	ReceiptNumber   string               `json:"receiptNumber"`
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	CustomerAddress string               `json:"customerAddress"`
	PaymentMethod   string               `json:"paymentMethod"`
	Notes           string               `json:"notes"`
	Items           []ReceiptItemRequest `json:"items"`
}

// ToOrder maps the request onto the domain order.
func (r SendReceiptRequest) ToOrder() entity.Order {
	items := make([]entity.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entity.LineItem{
			Description: string(it.Description),
			Quantity:    strings.TrimSpace(string(it.Quantity)),
			Price:       strings.TrimSpace(string(it.Price)),
		})
	}

	return entity.Order{
		BusinessName:    r.BusinessName,
		BusinessAddress: r.BusinessAddress,
		GSTIN:           r.GSTIN,
		ReceiptNumber:   r.ReceiptNumber,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerAddress: r.CustomerAddress,
		PaymentMethod:   r.PaymentMethod,
		Notes:           r.Notes,
		Items:           items,
	}
}
