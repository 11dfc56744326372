package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/backoffice/internal/config"
	"github.com/foxxcyber/backoffice/internal/database"
	"github.com/foxxcyber/backoffice/internal/models"
)

// Tolerances holds the fixed variance bands a shift is judged against.
type Tolerances struct {
	CashFloor decimal.Decimal // minimum absolute cash variance before flagging
	CashRate  decimal.Decimal // relative variance band on payment comparisons
	Drawer    decimal.Decimal // absolute cash-drawer balance band
	MeatGrams float64         // absolute meat variance band
}

// Reconciler compares the three independent observations of one shift —
// staff form, POS-derived totals, stock ledger — and reports variances
// against the tolerance bands. Pure read/compare/report: being out of
// tolerance is normal output, never an error.
type Reconciler struct {
	db  *database.DB
	tol Tolerances
	log *logrus.Entry
}

// NewReconciler builds the engine with bands from config.
func NewReconciler(db *database.DB, cfg *config.Config) *Reconciler {
	return &Reconciler{
		db: db,
		tol: Tolerances{
			CashFloor: decimal.NewFromFloat(cfg.CashVarianceFloor),
			CashRate:  decimal.NewFromFloat(cfg.CashVarianceRate),
			Drawer:    decimal.NewFromFloat(cfg.DrawerTolerance),
			MeatGrams: cfg.MeatVarianceGrams,
		},
		log: logrus.WithField("component", "reconciler"),
	}
}

// Reconcile loads the three observations for a date and compares them.
// The latest record per date is cached for dashboard reads, but a cache
// write failure never fails the request.
func (r *Reconciler) Reconcile(ctx context.Context, date string) (*models.ReconciliationRecord, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	staff, err := r.loadStaffObservation(ctx, date)
	if err != nil {
		return nil, err
	}
	pos, err := r.loadPOSObservation(ctx, date)
	if err != nil {
		return nil, err
	}
	ledger, err := r.loadLedgerObservation(ctx, date)
	if err != nil {
		return nil, err
	}

	expenses, err := r.db.GetExpenses(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("loading expenses for %s: %w", date, err)
	}
	table, err := r.db.LoadExpenseCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading expense categories: %w", err)
	}
	byCategory := NewExpenseClassifier(table).Totals(expenses)
	for _, amount := range byCategory {
		staff.ExpensesTotal = staff.ExpensesTotal.Add(amount)
	}

	record := Compare(date, staff, pos, ledger, r.tol)
	record.Expenses = byCategory

	if err := r.db.SaveReconciliationResult(ctx, record); err != nil {
		r.log.WithField("date", date).WithError(err).Warn("failed to cache reconciliation result")
	}

	return record, nil
}

// Compare is the pure three-way comparison over already-loaded
// observations.
func Compare(date string, staff, pos, ledger models.ShiftObservation, tol Tolerances) *models.ReconciliationRecord {
	record := &models.ReconciliationRecord{
		Date:        date,
		Staff:       staff,
		POS:         pos,
		Ledger:      ledger,
		Variances:   map[string]decimal.Decimal{},
		Flags:       []string{},
		GeneratedAt: time.Now().UTC(),
	}

	if staff.Present && pos.Present {
		compareMoney(record, "total_sales", staff.TotalSales, pos.TotalSales, tol)
		compareMoney(record, "cash_banked", staff.CashBanked, pos.CashBanked, tol)
		compareMoney(record, "qr_banked", staff.QRBanked, pos.QRBanked, tol)

		// Absolute drawer balance check: expected closing cash is what
		// the drawer should hold after cash sales net of expenses.
		expectedCash := staff.StartingCash.Add(pos.CashSales).Sub(staff.ExpensesTotal)
		drawerDiff := staff.ClosingCash.Sub(expectedCash)
		record.Variances["cash_drawer"] = drawerDiff
		if drawerDiff.Abs().GreaterThan(tol.Drawer) {
			record.Flags = append(record.Flags, fmt.Sprintf(
				"cash drawer out of balance: expected %s, counted %s (diff %s, tolerance %s)",
				expectedCash.StringFixed(2), staff.ClosingCash.StringFixed(2),
				drawerDiff.StringFixed(2), tol.Drawer.StringFixed(2)))
		}
	} else {
		if !staff.Present {
			record.Flags = append(record.Flags, "staff shift form missing: cash checks skipped")
		}
		if !pos.Present {
			record.Flags = append(record.Flags, "pos aggregates missing: cash checks skipped")
		}
	}

	if ledger.Present && pos.Present {
		rollsExpected := ledger.Stock.RollsPrevEnd + ledger.Stock.RollsPurchased - pos.Stock.RollsSold
		rollsVariance := ledger.Stock.RollsActual - rollsExpected
		record.Variances["rolls"] = decimal.NewFromInt(int64(rollsVariance))
		if rollsVariance != 0 {
			record.Flags = append(record.Flags, fmt.Sprintf(
				"roll count variance: expected %d, counted %d (variance %+d)",
				rollsExpected, ledger.Stock.RollsActual, rollsVariance))
		}

		meatExpected := ledger.Stock.MeatPrevGrams + ledger.Stock.MeatPurchased - pos.Stock.MeatSoldGrams
		meatVariance := ledger.Stock.MeatActual - meatExpected
		record.Variances["meat_grams"] = decimal.NewFromFloat(meatVariance)
		if meatVariance > tol.MeatGrams || meatVariance < -tol.MeatGrams {
			record.Flags = append(record.Flags, fmt.Sprintf(
				"meat variance: expected %.0fg, counted %.0fg (variance %+.0fg, tolerance %.0fg)",
				meatExpected, ledger.Stock.MeatActual, meatVariance, tol.MeatGrams))
		}
	} else if !ledger.Present {
		record.Flags = append(record.Flags, "stock ledger missing: stock checks skipped")
	}

	record.Balanced = len(record.Flags) == 0
	return record
}

// compareMoney applies the relative-or-floor band to one staff/POS pair.
func compareMoney(record *models.ReconciliationRecord, field string, staffValue, posValue decimal.Decimal, tol Tolerances) {
	variance := staffValue.Sub(posValue)
	record.Variances[field] = variance

	band := posValue.Abs().Mul(tol.CashRate)
	if band.LessThan(tol.CashFloor) {
		band = tol.CashFloor
	}
	if variance.Abs().GreaterThan(band) {
		record.Flags = append(record.Flags, fmt.Sprintf(
			"%s variance: staff %s vs pos %s (diff %s, tolerance %s)",
			field, staffValue.StringFixed(2), posValue.StringFixed(2),
			variance.StringFixed(2), band.StringFixed(2)))
	}
}

func (r *Reconciler) loadStaffObservation(ctx context.Context, date string) (models.ShiftObservation, error) {
	obs := models.ShiftObservation{Source: models.SourceStaff}

	form, err := r.db.GetStaffShiftForm(ctx, date)
	if err != nil {
		if errors.Is(err, database.ErrStaffFormNotFound) {
			return obs, nil
		}
		return obs, fmt.Errorf("loading staff form for %s: %w", date, err)
	}

	obs.Present = true
	obs.TotalSales = form.TotalSales
	obs.CashBanked = form.CashBanked
	obs.QRBanked = form.QRBanked
	obs.StartingCash = form.StartingCash
	obs.ClosingCash = form.ClosingCash
	return obs, nil
}

func (r *Reconciler) loadPOSObservation(ctx context.Context, date string) (models.ShiftObservation, error) {
	obs := models.ShiftObservation{Source: models.SourcePOS}

	payments, err := r.db.GetShiftPayments(ctx, date)
	if err != nil {
		return obs, fmt.Errorf("loading payments for %s: %w", date, err)
	}
	for _, p := range payments {
		obs.TotalSales = obs.TotalSales.Add(p.Amount)
		switch p.Method {
		case models.PaymentCash:
			obs.CashSales = obs.CashSales.Add(p.Amount)
		case models.PaymentQR:
			obs.QRSales = obs.QRSales.Add(p.Amount)
		}
	}
	// What the POS says should have been banked is what it took in.
	obs.CashBanked = obs.CashSales
	obs.QRBanked = obs.QRSales

	items, err := r.db.GetItemAggregates(ctx, date, "")
	if err != nil {
		return obs, fmt.Errorf("loading aggregates for %s: %w", date, err)
	}
	for _, item := range items {
		obs.Stock.RollsSold += item.RollsConsumed
		obs.Stock.MeatSoldGrams += item.RedMeatGrams
	}

	obs.Present = len(payments) > 0 || len(items) > 0
	return obs, nil
}

func (r *Reconciler) loadLedgerObservation(ctx context.Context, date string) (models.ShiftObservation, error) {
	obs := models.ShiftObservation{Source: models.SourceLedger}

	ledger, err := r.db.GetStockLedger(ctx, date)
	if err != nil {
		return obs, fmt.Errorf("loading stock ledger for %s: %w", date, err)
	}
	if len(ledger) == 0 {
		return obs, nil
	}

	obs.Present = true
	if rolls, ok := ledger[models.StockRolls]; ok {
		obs.Stock.RollsPrevEnd = int(rolls.PrevEnd)
		obs.Stock.RollsPurchased = int(rolls.Purchased)
		obs.Stock.RollsActual = int(rolls.Actual)
	}
	if meat, ok := ledger[models.StockMeat]; ok {
		obs.Stock.MeatPrevGrams = meat.PrevEnd
		obs.Stock.MeatPurchased = meat.Purchased
		obs.Stock.MeatActual = meat.Actual
	}
	return obs, nil
}
