package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Observation sources. Each shift has three independent views of the same
// facts; reconciliation compares them without trusting any one of them.
const (
	SourceStaff  = "staff"
	SourcePOS    = "pos"
	SourceLedger = "ledger"
)

// ShiftObservation is the canonical shape every source is normalized
// into before comparison. A field the source cannot observe stays zero;
// Present marks whether the source reported at all.
type ShiftObservation struct {
	Source        string          `json:"source"`
	Present       bool            `json:"present"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	CashSales     decimal.Decimal `json:"cash_sales"`
	QRSales       decimal.Decimal `json:"qr_sales"`
	ExpensesTotal decimal.Decimal `json:"expenses_total"`
	CashBanked    decimal.Decimal `json:"cash_banked"`
	QRBanked      decimal.Decimal `json:"qr_banked"`
	StartingCash  decimal.Decimal `json:"starting_cash"`
	ClosingCash   decimal.Decimal `json:"closing_cash"`
	Stock         StockPosition   `json:"stock"`
}

// StockPosition carries the physical-count side of an observation.
// PrevEnd and Purchased come from the stock ledger; Actual is the
// end-of-shift physical count.
type StockPosition struct {
	RollsPrevEnd   int     `json:"rolls_prev_end"`
	RollsPurchased int     `json:"rolls_purchased"`
	RollsSold      int     `json:"rolls_sold"`
	RollsActual    int     `json:"rolls_actual"`
	MeatPrevGrams  float64 `json:"meat_prev_grams"`
	MeatPurchased  float64 `json:"meat_purchased_grams"`
	MeatSoldGrams  float64 `json:"meat_sold_grams"`
	MeatActual     float64 `json:"meat_actual_grams"`
}

// ReconciliationRecord is the full three-way comparison for one shift.
// Created fresh on each analysis request; the latest record per date may
// be cached but is always re-derivable from the observation sources.
type ReconciliationRecord struct {
	Date        string                     `json:"date"`
	Staff       ShiftObservation           `json:"staff"`
	POS         ShiftObservation           `json:"pos"`
	Ledger      ShiftObservation           `json:"ledger"`
	Variances   map[string]decimal.Decimal `json:"variances"`
	Flags       []string                   `json:"flags"`
	Balanced    bool                       `json:"balanced"`
	Expenses    map[string]decimal.Decimal `json:"expenses_by_category"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// Expense is one lodged expense line for a shift date.
type Expense struct {
	ID          int             `json:"id"`
	ShiftDate   string          `json:"shift_date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// StaffShiftForm is the staff-entered closing form, loaded verbatim.
type StaffShiftForm struct {
	ShiftDate    string          `json:"shift_date"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	CashBanked   decimal.Decimal `json:"cash_banked"`
	QRBanked     decimal.Decimal `json:"qr_banked"`
	StartingCash decimal.Decimal `json:"starting_cash"`
	ClosingCash  decimal.Decimal `json:"closing_cash"`
}

// ShiftPayment is one POS payments-breakdown row for a shift date.
type ShiftPayment struct {
	ShiftDate string          `json:"shift_date"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
}

// Payment methods recognized in the POS breakdown.
const (
	PaymentCash = "cash"
	PaymentQR   = "qr"
)

// StockLedgerEntry is one physical stock line (rolls or meat) for a date.
type StockLedgerEntry struct {
	ShiftDate string  `json:"shift_date"`
	Item      string  `json:"item"`
	PrevEnd   float64 `json:"prev_end"`
	Purchased float64 `json:"purchased"`
	Actual    float64 `json:"actual"`
}

// Stock ledger item keys.
const (
	StockRolls = "rolls"
	StockMeat  = "meat"
)
