package repository

import (
	"errors"
	"time"

	"invoice-reconciliation-backend/internal/models"

	"gorm.io/gorm"
)

type ExchangeRateRepository struct {
	db *gorm.DB
}

func NewExchangeRateRepository(db *gorm.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

// FindOnDate returns the rate quoted exactly on date, or nil when none
// exists. A missing rate is data absence, not an error.
func (r *ExchangeRateRepository) FindOnDate(currency string, date time.Time) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := r.db.
		Where("currency = ?", currency).
		Where("date = ?", date).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// FindLatestOnOrBefore returns the most recent rate quoted on or before
// date, or nil when the currency has no usable quote at all.
func (r *ExchangeRateRepository) FindLatestOnOrBefore(currency string, date time.Time) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := r.db.
		Where("currency = ?", currency).
		Where("date <= ?", date).
		Order("date DESC").
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
