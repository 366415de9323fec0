package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate holds the foreign→base multiplier for a currency on a date.
// Reference data, never written by the engine.
type ExchangeRate struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Currency string          `gorm:"index:idx_rates_currency_date"`
	Date     time.Time       `gorm:"index:idx_rates_currency_date"`
	Rate     decimal.Decimal `gorm:"type:numeric"`
}
