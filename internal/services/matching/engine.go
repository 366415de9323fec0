package matching

import (
	"sort"
	"time"

	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/services/currency"

	"github.com/shopspring/decimal"
)

const (
	// AcceptThreshold is the minimum composite score an assignment needs.
	AcceptThreshold = 30.0

	// windowDays pads the candidate window on both sides. Fixed policy,
	// not user-configurable.
	windowDays = 30
)

type Engine struct {
	converter *currency.Converter
}

func NewEngine(converter *currency.Converter) *Engine {
	return &Engine{converter: converter}
}

// Candidate pairs a transaction with its score breakdown.
type Candidate struct {
	Transaction models.Transaction
	Score       Score
}

// ExpectedAmounts converts the invoice total to base currency at each
// candidate date (issue, paid, due; invoice date alone if none are set).
// An empty map means the invoice has no convertible amount and cannot be
// matched.
func (e *Engine) ExpectedAmounts(inv *models.Invoice) (map[time.Time]decimal.Decimal, error) {
	dates := []*time.Time{inv.IssueDate, inv.PaidAt, inv.DueDate}
	any := false
	for _, d := range dates {
		if d != nil {
			any = true
		}
	}
	if !any {
		dates = []*time.Time{inv.InvoiceDate}
	}

	expected := make(map[time.Time]decimal.Decimal)
	for _, d := range dates {
		if d == nil {
			continue
		}
		day := dateOnly(*d)
		if _, seen := expected[day]; seen {
			continue
		}
		amount, ok, err := e.converter.ConvertToBase(inv.TotalAmount, inv.Currency, day)
		if err != nil {
			return nil, err
		}
		if ok {
			expected[day] = amount
		}
	}
	return expected, nil
}

// Window derives the candidate search range from the invoice dates,
// padded by windowDays on each side.
func Window(inv *models.Invoice, now time.Time) (time.Time, time.Time) {
	startBase := now
	if inv.IssueDate != nil {
		startBase = *inv.IssueDate
	} else if inv.InvoiceDate != nil {
		startBase = *inv.InvoiceDate
	}

	endBase := startBase
	if inv.DueDate != nil {
		endBase = *inv.DueDate
	} else if inv.PaidAt != nil {
		endBase = *inv.PaidAt
	}

	start := dateOnly(startBase).AddDate(0, 0, -windowDays)
	end := dateOnly(endBase).AddDate(0, 0, windowDays)
	return start, end
}

// Best ranks candidates by composite score descending and returns the
// winner, or nil for an empty slice. Ties break deterministically: the
// transaction dated closest to the invoice's primary date wins, then the
// lower id.
func Best(inv *models.Invoice, candidates []Candidate) *Candidate {
	if len(candidates) == 0 {
		return nil
	}

	primary := inv.IssueDate
	if primary == nil {
		primary = inv.InvoiceDate
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score.Composite != b.Score.Composite {
			return a.Score.Composite > b.Score.Composite
		}
		if primary != nil {
			da := dateDistance(effectiveDate(&a.Transaction), *primary)
			db := dateDistance(effectiveDate(&b.Transaction), *primary)
			if da != db {
				return da < db
			}
		}
		return a.Transaction.ID.String() < b.Transaction.ID.String()
	})
	return &candidates[0]
}

// effectiveDate is the transaction date with booking date as fallback.
func effectiveDate(tx *models.Transaction) *time.Time {
	if tx.TransactionDate != nil {
		return tx.TransactionDate
	}
	return tx.BookingDate
}

func dateDistance(d *time.Time, ref time.Time) float64 {
	if d == nil {
		return float64(1<<31 - 1)
	}
	days := d.Sub(ref).Hours() / 24
	if days < 0 {
		days = -days
	}
	return days
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
