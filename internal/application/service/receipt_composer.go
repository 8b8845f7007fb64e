package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/receipt-relay/internal/config"
	"github.com/sangkips/receipt-relay/internal/domain/entity"
	"github.com/sangkips/receipt-relay/pkg/document"
)

const (
	receiptDateLayout    = "02/01/2006"
	defaultPaymentMethod = "Cash"
	defaultCurrency      = "₹"
	fallbackText         = "N/A"
	fallbackBusiness     = "Business"
	fallbackCustomer     = "Customer"
)

// ReceiptComposer turns an order into a renderable receipt document.
type ReceiptComposer struct {
	letterhead config.Letterhead
	now        func() time.Time
}

// NewReceiptComposer creates a composer printing the given letterhead.
func NewReceiptComposer(letterhead config.Letterhead) *ReceiptComposer {
	if letterhead.Currency == "" {
		letterhead.Currency = defaultCurrency
	}
	return &ReceiptComposer{letterhead: letterhead, now: time.Now}
}

// WithClock replaces the wall clock used for the receipt date.
func (c *ReceiptComposer) WithClock(now func() time.Time) *ReceiptComposer {
	c.now = now
	return c
}

// Compose builds the receipt document for an order. The date printed is the
// clock reading taken here, not the time the request arrived.
func (c *ReceiptComposer) Compose(order entity.Order) (document.Document, entity.ReceiptTotals) {
	totals := ComputeTotals(order.Items)
	lh := c.letterhead

	receiptNo := orDefault(order.ReceiptNumber, fallbackText)
	doc := document.New("Receipt " + receiptNo)

	doc.Header.LogoURL = lh.LogoURL
	doc.Header.BusinessName = orDefault(order.BusinessName, fallbackBusiness)
	doc.Header.Heading = lh.Heading
	doc.Header.Title = lh.Title

	doc.Detail("Receipt No:", receiptNo).
		Detail("Date:", c.now().Format(receiptDateLayout))
	if addr := strings.TrimSpace(order.BusinessAddress); addr != "" {
		doc.Detail("Address:", addr)
	}

	doc.Party("Customer:", orDefault(order.CustomerName, fallbackCustomer)).
		Party("Phone:", orDefault(order.CustomerPhone, fallbackText))
	if addr := strings.TrimSpace(order.CustomerAddress); addr != "" {
		doc.Party("Address:", addr)
	}

	doc.Columns("Description", "Qty", "Price", "Amount")
	for _, line := range totals.Lines {
		doc.Row(
			line.Description,
			strconv.FormatInt(line.Quantity, 10),
			FormatMoney(lh.Currency, line.UnitPrice),
			FormatMoney(lh.Currency, line.Amount),
		)
	}
	doc.Total("Subtotal:", FormatMoney(lh.Currency, totals.Subtotal)).
		Total("Total:", FormatMoney(lh.Currency, totals.Total))

	doc.Footer.PaymentTitle = "Payment Details"
	doc.Payment("Amount Paid:", FormatMoney(lh.Currency, totals.Total)).
		Payment("Payment Method:", orDefault(order.PaymentMethod, defaultPaymentMethod))
	doc.Footer.Notes = strings.TrimSpace(order.Notes)
	doc.Footer.ThankYou = lh.ThankYou

	if lh.ContactPhone != "" {
		doc.FooterLine("For any queries, contact:", lh.ContactPhone)
	}
	if gstin := orDefault(order.GSTIN, lh.GSTIN); gstin != "" {
		doc.FooterLine("GSTIN:", gstin)
	}

	return *doc, totals
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
