package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is one POS receipt as delivered by the upstream feed.
// Receipts with RefundFor set are refunds and contribute nothing
// to shift aggregation.
type Receipt struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	RefundFor *string         `json:"refund_for,omitempty"`
	Lines     []RawLineItem   `json:"line_items"`
	Modifiers []RawModifier   `json:"modifiers"`
	Total     decimal.Decimal `json:"total"`
}

// IsRefund reports whether this receipt reverses an earlier sale.
func (r *Receipt) IsRefund() bool {
	return r.RefundFor != nil && *r.RefundFor != ""
}

// RawLineItem is one sold line on one receipt. Immutable; fetched fresh
// from the POS feed on every rebuild.
type RawLineItem struct {
	ReceiptID string          `json:"receipt_id"`
	LineIndex int             `json:"line_index"`
	SKU       *string         `json:"sku,omitempty"`
	RawName   string          `json:"raw_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Timestamp time.Time       `json:"timestamp"`
}

// Key identifies this exact line occurrence on its receipt. Two identical
// burgers on one receipt are two distinct keys.
func (l *RawLineItem) Key() string {
	return fmt.Sprintf("%s:%d", l.ReceiptID, l.LineIndex)
}

// RawModifier is a modifier attached to a specific sold-line occurrence.
// BaseLineKey carries receiptID:lineIndex so that the same modifier on two
// physically distinct sold items stays distinct.
type RawModifier struct {
	ReceiptID   string          `json:"receipt_id"`
	BaseLineKey string          `json:"base_line_key"`
	ModifierID  *string         `json:"modifier_id,omitempty"`
	RawName     string          `json:"raw_name"`
	Quantity    int             `json:"quantity"`
	PriceImpact decimal.Decimal `json:"price_impact"`
}
