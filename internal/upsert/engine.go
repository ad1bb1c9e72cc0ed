package upsert

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/erpbridge/invoice-intake/internal/models"
)

// InvoiceStore defines the persistence operations the engine needs.
// Implemented by repository.InvoiceRepository.
type InvoiceStore interface {
	ExistsByInvoiceID(ctx context.Context, invoiceID string) (bool, error)
	Insert(ctx context.Context, inv *models.ValidatedInvoice, now time.Time) error
	Update(ctx context.Context, inv *models.ValidatedInvoice, now time.Time) error
}

// Engine decides insert vs. update for validated invoices. The existence
// check and the write are two statements, not one atomic step; the UNIQUE
// constraint on t_idno is the correctness backstop when two requests race on
// the same unseen key, and the loser surfaces a DuplicateKey StoreError.
type Engine struct {
	store  InvoiceStore
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a new upsert engine.
func NewEngine(store InvoiceStore, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Apply upserts a validated invoice keyed by t_idno and returns the action
// taken. Every store failure comes back as a *StoreError; nothing is retried
// here.
func (e *Engine) Apply(ctx context.Context, inv *models.ValidatedInvoice) (*models.UpsertOutcome, error) {
	exists, err := e.store.ExistsByInvoiceID(ctx, inv.InvoiceID)
	if err != nil {
		return nil, classify(err)
	}

	now := e.now()

	if !exists {
		if err := e.store.Insert(ctx, inv, now); err != nil {
			return nil, classify(err)
		}
		e.logger.Info("Inserted vendor invoice",
			zap.String("invoice_id", inv.InvoiceID),
			zap.Float64("amount", inv.AmountValue))
		return &models.UpsertOutcome{Action: models.ActionInserted, AffectedRecords: 1}, nil
	}

	if err := e.store.Update(ctx, inv, now); err != nil {
		return nil, classify(err)
	}
	e.logger.Info("Updated vendor invoice",
		zap.String("invoice_id", inv.InvoiceID),
		zap.Float64("amount", inv.AmountValue))
	return &models.UpsertOutcome{Action: models.ActionUpdated, AffectedRecords: 1}, nil
}
