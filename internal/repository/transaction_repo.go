package repository

import (
	"time"

	"invoice-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// FindCandidates returns the user's debit transactions dated within
// [start, end], excluding any already claimed by a different invoice. The
// invoice's own prior assignment stays in the result so a re-run can keep
// or replace it.
func (r *TransactionRepository) FindCandidates(userID, invoiceID uuid.UUID, start, end time.Time) ([]models.Transaction, error) {
	claimed := r.db.Model(&models.Invoice{}).
		Select("transaction_id").
		Where("user_id = ?", userID).
		Where("id <> ?", invoiceID).
		Where("transaction_id IS NOT NULL")

	var txs []models.Transaction
	err := r.db.
		Where("user_id = ?", userID).
		Where("type = ?", models.TransactionTypeDebit).
		Where("transaction_date >= ? AND transaction_date <= ?", start, end).
		Where("id NOT IN (?)", claimed).
		Find(&txs).Error
	return txs, err
}

func (r *TransactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.First(&tx, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
