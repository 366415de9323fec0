package currency

import (
	"testing"
	"time"

	"invoice-reconciliation-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRates struct {
	exact  map[string]models.ExchangeRate // currency|date -> rate
	latest map[string]models.ExchangeRate // currency -> rate
}

func (s *stubRates) FindOnDate(currency string, date time.Time) (*models.ExchangeRate, error) {
	if r, ok := s.exact[currency+"|"+date.Format("2006-01-02")]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *stubRates) FindLatestOnOrBefore(currency string, date time.Time) (*models.ExchangeRate, error) {
	if r, ok := s.latest[currency]; ok && !r.Date.After(date) {
		return &r, nil
	}
	return nil, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestConvertSameCurrencyShortCircuits(t *testing.T) {
	// No rate data at all: base-currency amounts must still pass through.
	conv := NewConverter(&stubRates{}, "PLN")

	amount := decimal.RequireFromString("123.45")
	got, ok, err := conv.ConvertToBase(amount, "pln", day("2024-01-10"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(amount))
}

func TestConvertZeroAmountOrEmptyCurrency(t *testing.T) {
	conv := NewConverter(&stubRates{}, "PLN")

	_, ok, err := conv.ConvertToBase(decimal.Zero, "EUR", day("2024-01-10"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = conv.ConvertToBase(decimal.NewFromInt(100), "", day("2024-01-10"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConvertUsesExactDateRate(t *testing.T) {
	rates := &stubRates{
		exact: map[string]models.ExchangeRate{
			"EUR|2024-01-10": {Currency: "EUR", Date: day("2024-01-10"), Rate: decimal.RequireFromString("4.50")},
		},
	}
	conv := NewConverter(rates, "PLN")

	got, ok, err := conv.ConvertToBase(decimal.NewFromInt(100), "EUR", day("2024-01-10"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "450", got.String())
}

func TestConvertFallsBackToLatestRate(t *testing.T) {
	rates := &stubRates{
		latest: map[string]models.ExchangeRate{
			"EUR": {Currency: "EUR", Date: day("2024-01-05"), Rate: decimal.RequireFromString("4.40")},
		},
	}
	conv := NewConverter(rates, "PLN")

	got, ok, err := conv.ConvertToBase(decimal.NewFromInt(100), "EUR", day("2024-01-10"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "440", got.String())
}

func TestConvertMissingRateIsNotAnError(t *testing.T) {
	conv := NewConverter(&stubRates{}, "PLN")

	_, ok, err := conv.ConvertToBase(decimal.NewFromInt(100), "USD", day("2024-01-10"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConvertRoundsToTwoDecimals(t *testing.T) {
	rates := &stubRates{
		exact: map[string]models.ExchangeRate{
			"EUR|2024-01-10": {Currency: "EUR", Date: day("2024-01-10"), Rate: decimal.RequireFromString("4.3333")},
		},
	}
	conv := NewConverter(rates, "PLN")

	got, _, err := conv.ConvertToBase(decimal.RequireFromString("10.01"), "EUR", day("2024-01-10"))
	require.NoError(t, err)
	// 10.01 * 4.3333 = 43.376333
	assert.Equal(t, "43.38", got.String())
}
