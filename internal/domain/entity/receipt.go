package entity

import "github.com/shopspring/decimal"

// LineItem is one raw line of an incoming order. Quantity and Price hold the
// text the client sent and are coerced when totals are computed.
type LineItem struct {
	Description string
	Quantity    string
	Price       string
}

// Order is the input of one receipt delivery. It is built once per request
// and not modified afterwards.
type Order struct {
	BusinessName    string
	BusinessAddress string
	GSTIN           string
	ReceiptNumber   string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   string
	Notes           string
	Items           []LineItem
}

// ReceiptLine is a LineItem after coercion, with its amount recomputed.
type ReceiptLine struct {
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// ReceiptTotals is the computed money side of a receipt.
// Subtotal and Total are equal: there is no tax or discount stage.
type ReceiptTotals struct {
	Lines    []ReceiptLine
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}
