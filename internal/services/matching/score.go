package matching

import (
	"math"
	"strings"
	"time"

	"invoice-reconciliation-backend/internal/models"

	"github.com/shopspring/decimal"
)

const (
	amountWeight      = 0.5
	dateWeight        = 0.3
	descriptionWeight = 0.2

	// dateDecayPerDay takes the date sub-score from 100 to 0 across the
	// 30-day window.
	dateDecayPerDay = 100.0 / 30.0
)

// Score is the breakdown of a candidate's composite score, all in [0,100].
type Score struct {
	Amount      float64 `json:"amount_score"`
	Date        float64 `json:"date_score"`
	Description float64 `json:"description_score"`
	Composite   float64 `json:"composite_score"`
}

// Score computes the weighted composite for one candidate transaction.
// Data-quality problems (missing dates, unavailable rates) degrade to zero
// sub-scores; only rate-lookup failures surface as errors.
func (e *Engine) Score(inv *models.Invoice, tx *models.Transaction, expected map[time.Time]decimal.Decimal) (Score, error) {
	amount, err := e.amountScore(tx, expected)
	if err != nil {
		return Score{}, err
	}

	s := Score{
		Amount:      amount,
		Date:        dateScore(inv, tx),
		Description: descriptionScore(inv, tx),
	}
	s.Composite = round2(amountWeight*s.Amount + dateWeight*s.Date + descriptionWeight*s.Description)
	return s, nil
}

func (e *Engine) amountScore(tx *models.Transaction, expected map[time.Time]decimal.Decimal) (float64, error) {
	txDate := effectiveDate(tx)
	if txDate == nil {
		return 0, nil
	}

	converted, ok, err := e.converter.ConvertToBase(tx.Amount.Abs(), tx.Currency, dateOnly(*txDate))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	best := 0.0
	for _, exp := range expected {
		if exp.IsZero() {
			continue
		}
		percentDiff := converted.Sub(exp).Abs().Div(exp.Abs()).InexactFloat64() * 100
		if score := 100 - percentDiff; score > best {
			best = score
		}
	}
	return best, nil
}

func dateScore(inv *models.Invoice, tx *models.Transaction) float64 {
	txDate := effectiveDate(tx)
	if txDate == nil {
		return 0
	}

	best := 0.0
	for _, d := range []*time.Time{inv.IssueDate, inv.PaidAt, inv.DueDate, inv.InvoiceDate} {
		if d == nil {
			continue
		}
		daysDiff := math.Abs(dateOnly(*txDate).Sub(dateOnly(*d)).Hours() / 24)
		if score := 100 - daysDiff*dateDecayPerDay; score > best {
			best = score
		}
	}
	return best
}

func descriptionScore(inv *models.Invoice, tx *models.Transaction) float64 {
	seller := strings.ToLower(strings.TrimSpace(inv.SellerName))
	if seller == "" {
		return 0
	}

	description := strings.ToLower(tx.Description)
	merchant := strings.ToLower(tx.MerchantName)

	score := 0.0
	if description != "" && strings.Contains(description, seller) {
		score += 50
	}
	if merchant != "" && strings.Contains(merchant, seller) {
		score += 50
	}

	// Partial credit for individual seller words found in either field.
	var longWords, matched int
	for _, word := range strings.Fields(seller) {
		if len(word) <= 3 {
			continue
		}
		longWords++
		if strings.Contains(description, word) || strings.Contains(merchant, word) {
			matched++
		}
	}
	if longWords > 0 {
		score += float64(matched) / float64(longWords) * 50
	}

	return math.Min(score, 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
