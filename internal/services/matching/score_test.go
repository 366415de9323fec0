package matching

import (
	"testing"
	"time"

	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/services/currency"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRates struct {
	rates map[string]decimal.Decimal // currency -> flat rate, any date
}

func (s *stubRates) FindOnDate(cur string, date time.Time) (*models.ExchangeRate, error) {
	if r, ok := s.rates[cur]; ok {
		return &models.ExchangeRate{Currency: cur, Date: date, Rate: r}, nil
	}
	return nil, nil
}

func (s *stubRates) FindLatestOnOrBefore(cur string, date time.Time) (*models.ExchangeRate, error) {
	return s.FindOnDate(cur, date)
}

func newTestEngine(rates map[string]decimal.Decimal) *Engine {
	return NewEngine(currency.NewConverter(&stubRates{rates: rates}, "PLN"))
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func plnInvoice(total string) *models.Invoice {
	return &models.Invoice{
		ID:          uuid.New(),
		SellerName:  "Acme Corp",
		IssueDate:   dayPtr("2024-01-10"),
		TotalAmount: decimal.RequireFromString(total),
		Currency:    "PLN",
	}
}

func debit(amount, txDate string) *models.Transaction {
	tx := &models.Transaction{
		ID:       uuid.New(),
		Type:     models.TransactionTypeDebit,
		Amount:   decimal.RequireFromString(amount),
		Currency: "PLN",
	}
	if txDate != "" {
		tx.TransactionDate = dayPtr(txDate)
	}
	return tx
}

func TestExpectedAmountsPrefersInvoiceDates(t *testing.T) {
	e := newTestEngine(map[string]decimal.Decimal{"EUR": decimal.RequireFromString("4.50")})

	inv := &models.Invoice{
		IssueDate:   dayPtr("2024-01-10"),
		DueDate:     dayPtr("2024-01-24"),
		InvoiceDate: dayPtr("2024-01-09"),
		TotalAmount: decimal.NewFromInt(100),
		Currency:    "EUR",
	}

	expected, err := e.ExpectedAmounts(inv)
	require.NoError(t, err)
	// invoice_date is only a fallback; issue and due convert.
	require.Len(t, expected, 2)
	assert.True(t, expected[day("2024-01-10")].Equal(decimal.NewFromInt(450)))
	assert.True(t, expected[day("2024-01-24")].Equal(decimal.NewFromInt(450)))
}

func TestExpectedAmountsFallsBackToInvoiceDate(t *testing.T) {
	e := newTestEngine(map[string]decimal.Decimal{"EUR": decimal.RequireFromString("4.50")})

	inv := &models.Invoice{
		InvoiceDate: dayPtr("2024-01-09"),
		TotalAmount: decimal.NewFromInt(100),
		Currency:    "EUR",
	}

	expected, err := e.ExpectedAmounts(inv)
	require.NoError(t, err)
	require.Len(t, expected, 1)
	assert.True(t, expected[day("2024-01-09")].Equal(decimal.NewFromInt(450)))
}

func TestExpectedAmountsEmptyWithoutRates(t *testing.T) {
	e := newTestEngine(nil)

	inv := &models.Invoice{
		IssueDate:   dayPtr("2024-01-10"),
		TotalAmount: decimal.NewFromInt(100),
		Currency:    "USD",
	}

	expected, err := e.ExpectedAmounts(inv)
	require.NoError(t, err)
	assert.Empty(t, expected)
}

func TestWindowPadsInvoiceDates(t *testing.T) {
	inv := &models.Invoice{
		IssueDate: dayPtr("2024-01-10"),
		DueDate:   dayPtr("2024-01-24"),
	}

	start, end := Window(inv, day("2024-06-01"))
	assert.Equal(t, day("2023-12-11"), start)
	assert.Equal(t, day("2024-02-23"), end)
}

func TestWindowFallsBackToNow(t *testing.T) {
	now := day("2024-06-01")
	start, end := Window(&models.Invoice{}, now)
	assert.Equal(t, day("2024-05-02"), start)
	assert.Equal(t, day("2024-07-01"), end)
}

func TestAmountScoreFormula(t *testing.T) {
	e := newTestEngine(nil)
	expected := map[time.Time]decimal.Decimal{
		day("2024-01-10"): decimal.NewFromInt(450),
	}

	tests := []struct {
		name   string
		amount string
		want   float64
	}{
		{"exact match", "-450.00", 100},
		{"50 percent over", "-675.00", 50},
		{"100 percent over", "-900.00", 0},
		{"150 percent over", "-1125.00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := e.amountScore(debit(tt.amount, "2024-01-10"), expected)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, score, 0.001)
		})
	}
}

func TestAmountScoreZeroWhenConversionFails(t *testing.T) {
	e := newTestEngine(nil)
	expected := map[time.Time]decimal.Decimal{
		day("2024-01-10"): decimal.NewFromInt(450),
	}

	tx := debit("-450.00", "2024-01-10")
	tx.Currency = "USD" // no rate available

	score, err := e.amountScore(tx, expected)
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestAmountScoreTakesBestExpected(t *testing.T) {
	e := newTestEngine(nil)
	expected := map[time.Time]decimal.Decimal{
		day("2024-01-10"): decimal.NewFromInt(450),
		day("2024-01-24"): decimal.NewFromInt(300),
	}

	score, err := e.amountScore(debit("-300.00", "2024-01-11"), expected)
	require.NoError(t, err)
	assert.InDelta(t, 100, score, 0.001)
}

func TestDateScoreFormula(t *testing.T) {
	inv := plnInvoice("450.00")

	tests := []struct {
		name   string
		txDate string
		want   float64
	}{
		{"same day", "2024-01-10", 100},
		{"fifteen days", "2024-01-25", 50},
		{"thirty days", "2024-02-09", 0},
		{"beyond window", "2024-03-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dateScore(inv, debit("-450.00", tt.txDate))
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestDateScoreUsesBookingDateFallback(t *testing.T) {
	inv := plnInvoice("450.00")

	tx := debit("-450.00", "")
	assert.Zero(t, dateScore(inv, tx))

	tx.BookingDate = dayPtr("2024-01-10")
	assert.InDelta(t, 100, dateScore(inv, tx), 0.001)
}

func TestDateScoreTakesClosestInvoiceDate(t *testing.T) {
	inv := plnInvoice("450.00")
	inv.DueDate = dayPtr("2024-02-09")

	// 30 days from issue, 0 from due.
	got := dateScore(inv, debit("-450.00", "2024-02-09"))
	assert.InDelta(t, 100, got, 0.001)
}

func TestDescriptionScore(t *testing.T) {
	tests := []struct {
		name        string
		seller      string
		description string
		merchant    string
		want        float64
	}{
		{"empty seller", "", "ACME CORP PAYMENT", "", 0},
		{"full match everywhere", "Acme Corp", "ACME CORP PAYMENT", "Acme Corp", 100},
		{"description only", "Acme Corp", "acme corp payment", "", 100},
		{"words reordered", "Acme Corp", "corp acme payment", "", 50},
		{"single word hit", "Acme Corp", "payment to acme", "", 25},
		{"no overlap", "Acme Corp", "grocery store", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &models.Invoice{SellerName: tt.seller}
			tx := &models.Transaction{Description: tt.description, MerchantName: tt.merchant}
			assert.InDelta(t, tt.want, descriptionScore(inv, tx), 0.001)
		})
	}
}

func TestCompositeScoreScenario(t *testing.T) {
	// EUR invoice, PLN transaction one day later, matching description.
	e := newTestEngine(map[string]decimal.Decimal{"EUR": decimal.RequireFromString("4.50")})

	inv := &models.Invoice{
		ID:          uuid.New(),
		SellerName:  "Acme Corp",
		IssueDate:   dayPtr("2024-01-10"),
		TotalAmount: decimal.NewFromInt(100),
		Currency:    "EUR",
	}
	tx := debit("-450.00", "2024-01-11")
	tx.Description = "ACME CORP PAYMENT"
	tx.MerchantName = "Acme Corp"

	expected, err := e.ExpectedAmounts(inv)
	require.NoError(t, err)

	score, err := e.Score(inv, tx, expected)
	require.NoError(t, err)

	assert.InDelta(t, 100, score.Amount, 0.001)
	assert.InDelta(t, 96.667, score.Date, 0.01)
	assert.InDelta(t, 100, score.Description, 0.001)
	assert.InDelta(t, 99.0, score.Composite, 0.001)
}

func TestBestRanksByCompositeWithDeterministicTieBreak(t *testing.T) {
	inv := plnInvoice("450.00")

	near := debit("-450.00", "2024-01-11")
	far := debit("-450.00", "2024-01-20")

	candidates := []Candidate{
		{Transaction: *far, Score: Score{Composite: 80}},
		{Transaction: *near, Score: Score{Composite: 80}},
		{Transaction: *debit("-450.00", "2024-01-10"), Score: Score{Composite: 40}},
	}

	best := Best(inv, candidates)
	require.NotNil(t, best)
	assert.Equal(t, near.ID, best.Transaction.ID)

	assert.Nil(t, Best(inv, nil))
}
