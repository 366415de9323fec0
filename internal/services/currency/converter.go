package currency

import (
	"strings"
	"time"

	"invoice-reconciliation-backend/internal/models"

	"github.com/shopspring/decimal"
)

// RateSource looks up exchange rates. Satisfied by
// repository.ExchangeRateRepository.
type RateSource interface {
	FindOnDate(currency string, date time.Time) (*models.ExchangeRate, error)
	FindLatestOnOrBefore(currency string, date time.Time) (*models.ExchangeRate, error)
}

type Converter struct {
	rates RateSource
	base  string
}

func NewConverter(rates RateSource, baseCurrency string) *Converter {
	return &Converter{rates: rates, base: baseCurrency}
}

func (c *Converter) Base() string {
	return c.base
}

// ConvertToBase converts amount in cur to the base currency as quoted on
// date, falling back to the most recent quote on or before date. ok is
// false when the amount cannot be converted (zero amount, empty currency,
// no rate) — that is missing data, not an error. Only lookup failures
// return a non-nil error.
func (c *Converter) ConvertToBase(amount decimal.Decimal, cur string, date time.Time) (decimal.Decimal, bool, error) {
	if amount.IsZero() || cur == "" {
		return decimal.Zero, false, nil
	}
	if strings.EqualFold(cur, c.base) {
		return amount, true, nil
	}

	rate, err := c.rates.FindOnDate(cur, date)
	if err != nil {
		return decimal.Zero, false, err
	}
	if rate == nil {
		rate, err = c.rates.FindLatestOnOrBefore(cur, date)
		if err != nil {
			return decimal.Zero, false, err
		}
	}
	if rate == nil {
		return decimal.Zero, false, nil
	}

	return amount.Mul(rate.Rate).Round(2), true, nil
}
