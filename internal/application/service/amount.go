package service

import (
	"math"
	"strings"

	"github.com/sangkips/receipt-relay/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	defaultDescription = "No description"
	// Numbers outside these bounds are treated as unusable input.
	maxNumberLength   = 64
	maxIntegerDigits  = 20
	maxFractionDigits = 30
)

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// ComputeTotals coerces every line item and sums the recomputed amounts.
// It never fails: an unusable quantity counts as 1 and an unusable price as 0.
// Each amount is rounded to 2 places before it is added, so the printed rows
// always add up to the printed total.
func ComputeTotals(items []entity.LineItem) entity.ReceiptTotals {
	totals := entity.ReceiptTotals{
		Lines:    make([]entity.ReceiptLine, 0, len(items)),
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
	}

	sum := decimal.Zero
	for _, item := range items {
		line := coerceLine(item)
		sum = sum.Add(line.Amount)
		totals.Lines = append(totals.Lines, line)
	}

	totals.Subtotal = sum
	totals.Total = sum
	return totals
}

func coerceLine(item entity.LineItem) entity.ReceiptLine {
	description := strings.TrimSpace(item.Description)
	if description == "" {
		description = defaultDescription
	}

	qty := coerceQuantity(item.Quantity)
	price := coercePrice(item.Price)

	return entity.ReceiptLine{
		Description: description,
		Quantity:    qty,
		UnitPrice:   price,
		Amount:      price.Mul(decimal.NewFromInt(qty)).Round(2),
	}
}

// parseBounded parses raw as a decimal of at most maxIntegerDigits integer
// digits and maxFractionDigits fraction digits. Exponent forms such as
// "1e10000000" parse cheaply but expand to millions of digits when printed,
// so they are rejected here.
func parseBounded(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxNumberLength {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	exp := int(d.Exponent())
	if exp < -maxFractionDigits || exp > maxIntegerDigits {
		return decimal.Zero, false
	}
	if d.NumDigits()+exp > maxIntegerDigits {
		return decimal.Zero, false
	}
	return d, true
}

// coerceQuantity accepts positive whole numbers only.
func coerceQuantity(raw string) int64 {
	d, ok := parseBounded(raw)
	if !ok {
		return 1
	}
	if !d.IsInteger() || d.Sign() <= 0 || d.GreaterThan(maxQuantity) {
		return 1
	}
	return d.IntPart()
}

func coercePrice(raw string) decimal.Decimal {
	d, ok := parseBounded(raw)
	if !ok || d.Sign() < 0 {
		return decimal.Zero
	}
	return d
}

// FormatMoney renders an amount with a currency prefix and 2 decimal places.
func FormatMoney(currency string, d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}
