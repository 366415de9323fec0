package reconciliation

import (
	"github.com/google/uuid"

	"invoice-reconciliation-backend/internal/models"
)

// BatchReport accumulates per-invoice outcomes of a batch run. Individual
// failures are recorded and the run continues; nothing is retried here.
type BatchReport struct {
	Processed int         `json:"processed"`
	Matched   int         `json:"matched"`
	Unmatched int         `json:"unmatched"`
	Conflicts int         `json:"conflicts"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}

type BatchItem struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	Reason    string    `json:"reason,omitempty"`
	Score     float64   `json:"score,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ReconcileAll runs the engine over every invoice of the user, oldest
// first so earlier invoices get first claim on contested transactions.
func (s *Service) ReconcileAll(userID uuid.UUID) (*BatchReport, error) {
	invoices, err := s.invoiceRepo.ListByUser(userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list invoices for batch run")
		return nil, err
	}

	report := &BatchReport{}
	for i := range invoices {
		outcome, err := s.Reconcile(invoices[i].ID)
		report.Processed++
		item := BatchItem{InvoiceID: invoices[i].ID}
		switch {
		case err != nil:
			report.Failed++
			item.Error = err.Error()
		case outcome.Matched:
			report.Matched++
			item.Reason = outcome.Reason
			item.Score = outcome.Score
		case outcome.Conflict:
			report.Conflicts++
			item.Reason = outcome.Reason
		default:
			report.Unmatched++
			item.Reason = outcome.Reason
		}
		report.Items = append(report.Items, item)
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Int("processed", report.Processed).
		Int("matched", report.Matched).
		Int("unmatched", report.Unmatched).
		Int("conflicts", report.Conflicts).
		Int("failed", report.Failed).
		Msg("batch reconciliation completed")
	return report, nil
}

type Stats struct {
	Total       int64   `json:"total"`
	TotalAmount float64 `json:"total_amount"`

	MatchedCount int64   `json:"matched_count"`
	MatchedSum   float64 `json:"matched_sum"`

	UnmatchedCount int64   `json:"unmatched_count"`
	UnmatchedSum   float64 `json:"unmatched_sum"`
}

type statRow struct {
	Matched bool
	Count   int64
	Sum     float64
}

// GetStats aggregates assignment state over a user's invoices.
func (s *Service) GetStats(userID uuid.UUID) (Stats, error) {
	var stats Stats
	var rows []statRow

	err := s.invoiceRepo.DB().Model(&models.Invoice{}).
		Where("user_id = ?", userID).
		Select("transaction_id IS NOT NULL AS matched, COUNT(*) AS count, COALESCE(SUM(total_amount),0) AS sum").
		Group("transaction_id IS NOT NULL").
		Scan(&rows).Error
	if err != nil {
		return stats, err
	}

	for _, r := range rows {
		stats.Total += r.Count
		stats.TotalAmount += r.Sum

		if r.Matched {
			stats.MatchedCount = r.Count
			stats.MatchedSum = r.Sum
		} else {
			stats.UnmatchedCount = r.Count
			stats.UnmatchedSum = r.Sum
		}
	}

	return stats, nil
}
