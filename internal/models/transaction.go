package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// Transaction is a bank ledger entry. Read-only from the engine's side;
// only debits are eligible match candidates.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;index"`
	Type            string          `gorm:"index"`
	Amount          decimal.Decimal `gorm:"type:numeric"`
	Currency        string
	TransactionDate *time.Time      `gorm:"index"`
	BookingDate     *time.Time
	Description     string
	MerchantName    string
	CreatedAt       time.Time
}
