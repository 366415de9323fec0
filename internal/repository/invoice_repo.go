package repository

import (
	"errors"
	"time"

	"invoice-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTransactionClaimed is returned when an assignment would take a
// transaction that a different invoice already holds.
var ErrTransactionClaimed = errors.New("transaction already claimed by another invoice")

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Expose DB if needed
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

func (r *InvoiceRepository) GetByID(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindHolder returns the invoice (other than excludeID) currently holding
// transactionID, or nil if the transaction is unclaimed.
func (r *InvoiceRepository) FindHolder(transactionID, excludeID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.
		Where("transaction_id = ?", transactionID).
		Where("id <> ?", excludeID).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// AssignTransaction writes the three assignment fields in one DB
// transaction, re-checking exclusivity before the write instead of trusting
// an earlier read. Returns ErrTransactionClaimed if another invoice got
// there first.
func (r *InvoiceRepository) AssignTransaction(invoice *models.Invoice, transactionID uuid.UUID, score float64, matchedAt time.Time) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var holders int64
		if err := tx.Model(&models.Invoice{}).
			Where("transaction_id = ?", transactionID).
			Where("id <> ?", invoice.ID).
			Count(&holders).Error; err != nil {
			return err
		}
		if holders > 0 {
			return ErrTransactionClaimed
		}
		return tx.Model(&models.Invoice{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]interface{}{
				"transaction_id": transactionID,
				"match_score":    score,
				"matched_at":     matchedAt,
			}).Error
	})
	if err != nil {
		return err
	}
	invoice.TransactionID = &transactionID
	invoice.MatchScore = &score
	invoice.MatchedAt = &matchedAt
	return nil
}

// ClearAssignment nulls all three assignment fields together.
func (r *InvoiceRepository) ClearAssignment(invoice *models.Invoice) error {
	err := r.db.Model(&models.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"transaction_id": nil,
			"match_score":    nil,
			"matched_at":     nil,
		}).Error
	if err != nil {
		return err
	}
	invoice.TransactionID = nil
	invoice.MatchScore = nil
	invoice.MatchedAt = nil
	return nil
}

// ListByUser returns a user's invoices, oldest first, for batch runs.
func (r *InvoiceRepository) ListByUser(userID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) CreateAuditLog(entry *models.MatchAuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}
