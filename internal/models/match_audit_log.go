package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AuditActionMatched  = "matched"
	AuditActionCleared  = "cleared"
	AuditActionConflict = "conflict"
)

// MatchAuditLog records every engine decision so an assignment (or its
// absence) can be explained after the fact.
type MatchAuditLog struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	InvoiceID     uuid.UUID  `gorm:"type:uuid;index"`
	TransactionID *uuid.UUID `gorm:"type:uuid"`
	Action        string
	Score         float64
	Details       datatypes.JSON
	CreatedAt     time.Time
}
