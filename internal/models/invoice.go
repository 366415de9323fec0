package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is owned by upstream ingestion. The engine only writes the three
// assignment fields (TransactionID, MatchScore, MatchedAt) and always sets
// or clears them together.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;index"`
	SellerName  string          `gorm:"index"`
	IssueDate   *time.Time
	DueDate     *time.Time
	PaidAt      *time.Time
	InvoiceDate *time.Time
	TotalAmount decimal.Decimal `gorm:"type:numeric"`
	Currency    string

	TransactionID *uuid.UUID `gorm:"type:uuid;index"`
	MatchScore    *float64
	MatchedAt     *time.Time

	CreatedAt time.Time
}
