package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/backoffice/internal/models"
)

var ErrStaffFormNotFound = errors.New("staff shift form not found")

// GetStaffShiftForm retrieves the staff-entered closing form for a date.
func (db *DB) GetStaffShiftForm(ctx context.Context, date string) (*models.StaffShiftForm, error) {
	form := &models.StaffShiftForm{ShiftDate: date}

	err := db.Pool.QueryRow(ctx, `
		SELECT total_sales, cash_banked, qr_banked, starting_cash, closing_cash
		FROM staff_shift_forms
		WHERE shift_date = $1
	`, date).Scan(
		&form.TotalSales, &form.CashBanked, &form.QRBanked,
		&form.StartingCash, &form.ClosingCash,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaffFormNotFound
		}
		return nil, err
	}

	return form, nil
}

// GetShiftPayments returns the POS payments breakdown for a date.
func (db *DB) GetShiftPayments(ctx context.Context, date string) ([]models.ShiftPayment, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT method, amount
		FROM shift_payments
		WHERE shift_date = $1
		ORDER BY method
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.ShiftPayment{}
	for rows.Next() {
		p := models.ShiftPayment{ShiftDate: date}
		if err := rows.Scan(&p.Method, &p.Amount); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// GetStockLedger returns the physical stock lines for a date keyed by item.
func (db *DB) GetStockLedger(ctx context.Context, date string) (map[string]models.StockLedgerEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT item, prev_end, purchased, actual
		FROM stock_ledger
		WHERE shift_date = $1
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := make(map[string]models.StockLedgerEntry)
	for rows.Next() {
		entry := models.StockLedgerEntry{ShiftDate: date}
		if err := rows.Scan(&entry.Item, &entry.PrevEnd, &entry.Purchased, &entry.Actual); err != nil {
			return nil, err
		}
		ledger[entry.Item] = entry
	}

	return ledger, rows.Err()
}

// GetExpenses returns the lodged expenses for a shift date.
func (db *DB) GetExpenses(ctx context.Context, date string) ([]models.Expense, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, description, amount
		FROM expenses
		WHERE shift_date = $1
		ORDER BY id
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e := models.Expense{ShiftDate: date}
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}
