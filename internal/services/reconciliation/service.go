package reconciliation

import (
	"encoding/json"
	"errors"
	"time"

	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/services/matching"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Outcome reasons for unmatched invoices.
const (
	ReasonMatched             = "matched"
	ReasonNoConvertibleAmount = "no_convertible_amount"
	ReasonNoCandidates        = "no_candidates"
	ReasonBelowThreshold      = "below_threshold"
	ReasonConflict            = "conflict"
	ReasonManualClear         = "manual_clear"
)

// Outcome is the result of one reconciliation run. A no-match is a normal
// outcome, never an error.
type Outcome struct {
	InvoiceID     uuid.UUID  `json:"invoice_id"`
	Matched       bool       `json:"matched"`
	Conflict      bool       `json:"conflict"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	Score         float64    `json:"score,omitempty"`
	Reason        string     `json:"reason"`
}

type Service struct {
	invoiceRepo     *repository.InvoiceRepository
	transactionRepo *repository.TransactionRepository
	engine          *matching.Engine
	log             zerolog.Logger

	// now is swappable so tests can pin the fallback window base.
	now func() time.Time
}

func NewService(
	invoiceRepo *repository.InvoiceRepository,
	transactionRepo *repository.TransactionRepository,
	engine *matching.Engine,
	log zerolog.Logger,
) *Service {
	return &Service{
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		engine:          engine,
		log:             log,
		now:             time.Now,
	}
}

// Reconcile finds the best-scoring transaction for the invoice and persists
// the assignment, or clears it when nothing qualifies. Re-running on
// unchanged data reproduces the same decision.
func (s *Service) Reconcile(invoiceID uuid.UUID) (*Outcome, error) {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("failed to load invoice")
		return nil, err
	}

	expected, err := s.engine.ExpectedAmounts(invoice)
	if err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("expected amount lookup failed")
		return nil, err
	}
	if len(expected) == 0 {
		return s.clear(invoice, ReasonNoConvertibleAmount)
	}

	start, end := matching.Window(invoice, s.now())
	transactions, err := s.transactionRepo.FindCandidates(invoice.UserID, invoice.ID, start, end)
	if err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("candidate query failed")
		return nil, err
	}
	if len(transactions) == 0 {
		return s.clear(invoice, ReasonNoCandidates)
	}

	var candidates []matching.Candidate
	for i := range transactions {
		score, err := s.engine.Score(invoice, &transactions[i], expected)
		if err != nil {
			s.log.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("candidate scoring failed")
			return nil, err
		}
		if score.Composite == 0 {
			continue
		}
		candidates = append(candidates, matching.Candidate{Transaction: transactions[i], Score: score})
	}

	best := matching.Best(invoice, candidates)
	if best == nil || best.Score.Composite < matching.AcceptThreshold {
		return s.clear(invoice, ReasonBelowThreshold)
	}

	holder, err := s.invoiceRepo.FindHolder(best.Transaction.ID, invoice.ID)
	if err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("conflict check failed")
		return nil, err
	}
	if holder != nil {
		return s.conflict(invoice, best, holder.ID)
	}

	err = s.invoiceRepo.AssignTransaction(invoice, best.Transaction.ID, best.Score.Composite, s.now())
	if errors.Is(err, repository.ErrTransactionClaimed) {
		// Lost the race between the holder check and the write.
		return s.conflict(invoice, best, uuid.Nil)
	}
	if err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("failed to persist assignment")
		return nil, err
	}

	if err := s.audit(invoice, models.AuditActionMatched, &best.Transaction.ID, best.Score.Composite, best.Score); err != nil {
		return nil, err
	}

	txID := best.Transaction.ID
	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("transaction_id", txID.String()).
		Float64("score", best.Score.Composite).
		Msg("invoice matched")

	return &Outcome{
		InvoiceID:     invoice.ID,
		Matched:       true,
		TransactionID: &txID,
		Score:         best.Score.Composite,
		Reason:        ReasonMatched,
	}, nil
}

// GetInvoice fetches the invoice including its assignment fields.
func (s *Service) GetInvoice(invoiceID uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(invoiceID)
}

// ClearMatch removes an assignment on request (admin action). Audited like
// any engine decision.
func (s *Service) ClearMatch(invoiceID uuid.UUID) (*Outcome, error) {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	return s.clear(invoice, ReasonManualClear)
}

func (s *Service) clear(invoice *models.Invoice, reason string) (*Outcome, error) {
	hadAssignment := invoice.TransactionID != nil
	if err := s.invoiceRepo.ClearAssignment(invoice); err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoice.ID.String()).Msg("failed to clear assignment")
		return nil, err
	}
	if hadAssignment {
		if err := s.audit(invoice, models.AuditActionCleared, nil, 0, map[string]string{"reason": reason}); err != nil {
			return nil, err
		}
	}
	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("reason", reason).
		Msg("invoice left unmatched")
	return &Outcome{InvoiceID: invoice.ID, Reason: reason}, nil
}

// conflict clears the invoice rather than stealing the transaction from
// its current holder.
func (s *Service) conflict(invoice *models.Invoice, best *matching.Candidate, holderID uuid.UUID) (*Outcome, error) {
	if err := s.invoiceRepo.ClearAssignment(invoice); err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoice.ID.String()).Msg("failed to clear assignment")
		return nil, err
	}
	txID := best.Transaction.ID
	if err := s.audit(invoice, models.AuditActionConflict, &txID, best.Score.Composite, best.Score); err != nil {
		return nil, err
	}
	s.log.Warn().
		Str("invoice_id", invoice.ID.String()).
		Str("transaction_id", txID.String()).
		Str("holder_invoice_id", holderID.String()).
		Float64("score", best.Score.Composite).
		Msg("best candidate already claimed by another invoice")
	return &Outcome{InvoiceID: invoice.ID, Conflict: true, Reason: ReasonConflict}, nil
}

func (s *Service) audit(invoice *models.Invoice, action string, transactionID *uuid.UUID, score float64, details interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	entry := &models.MatchAuditLog{
		InvoiceID:     invoice.ID,
		TransactionID: transactionID,
		Action:        action,
		Score:         score,
		Details:       payload,
	}
	if err := s.invoiceRepo.CreateAuditLog(entry); err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoice.ID.String()).Msg("failed to write audit log")
		return err
	}
	return nil
}
