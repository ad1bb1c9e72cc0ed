package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erpbridge/invoice-intake/internal/models"
)

// InvoiceRepository handles vendor invoice database operations
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// ExistsByInvoiceID reports whether a row with the given natural key exists.
// Point lookup on the unique t_idno index, single round trip.
func (r *InvoiceRepository) ExistsByInvoiceID(ctx context.Context, invoiceID string) (bool, error) {
	query := `SELECT 1 FROM vendor_invoices WHERE t_idno = ? LIMIT 1`

	var one int
	err := r.db.QueryRowContext(ctx, query, invoiceID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Failed to check invoice existence",
			zap.String("invoice_id", invoiceID), zap.Error(err))
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return true, nil
}

// Insert writes a new invoice row with all business columns and stamps the
// creation and update metadata to now and the fixed actor code.
func (r *InvoiceRepository) Insert(ctx context.Context, inv *models.ValidatedInvoice, now time.Time) error {
	query := `
		INSERT INTO vendor_invoices (
			t_idno, t_amti, t_orno, t_cprj, t_ccur, t_cpay, t_ptyp, t_ifbp,
			t_ninv, t_isup, t_invd, t_amth_1, t_amth_2, t_amth_3, t_refr,
			t_stin, t_paym, t_dim1, t_dim2, t_dim3, t_dim4, t_dim5,
			t_bkrn, t_bank, t_refcntd, t_refcntu, t_sync, t_rrmk,
			created_at, created_by, updated_at, updated_by, cancelled, cancelled_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.InvoiceID,
		inv.Amount,
		inv.OrderNo,
		inv.CostCenter,
		inv.Currency,
		inv.PaymentMethod,
		inv.PaymentType,
		inv.BusinessPartner,
		inv.SequenceNo,
		inv.SupplierID,
		inv.InvoiceDate,
		inv.SecondaryAmt1,
		inv.SecondaryAmt2,
		inv.SecondaryAmt3,
		inv.Reference,
		inv.StatusIndicator,
		inv.PaymentRef,
		inv.Dim1,
		inv.Dim2,
		inv.Dim3,
		inv.Dim4,
		inv.Dim5,
		inv.BankRouting,
		inv.BankCode,
		inv.RefCountD,
		inv.RefCountU,
		inv.SyncFlag,
		inv.Remark,
		now,
		models.ActorCode,
		now,
		models.ActorCode,
		models.CancelledNo,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to insert invoice",
			zap.String("invoice_id", inv.InvoiceID), zap.Error(err))
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	return nil
}

// Update rewrites the mutable business columns of an existing row and
// refreshes only the update metadata. The natural key and creation metadata
// are never touched.
func (r *InvoiceRepository) Update(ctx context.Context, inv *models.ValidatedInvoice, now time.Time) error {
	query := `
		UPDATE vendor_invoices SET
			t_amti = ?, t_orno = ?, t_cprj = ?, t_ccur = ?, t_cpay = ?,
			t_ptyp = ?, t_ifbp = ?, t_ninv = ?, t_isup = ?, t_invd = ?,
			t_amth_1 = ?, t_amth_2 = ?, t_amth_3 = ?, t_refr = ?, t_stin = ?,
			t_paym = ?, t_dim1 = ?, t_dim2 = ?, t_dim3 = ?, t_dim4 = ?,
			t_dim5 = ?, t_bkrn = ?, t_bank = ?, t_refcntd = ?, t_refcntu = ?,
			t_sync = ?, t_rrmk = ?,
			updated_at = ?, updated_by = ?
		WHERE t_idno = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.Amount,
		inv.OrderNo,
		inv.CostCenter,
		inv.Currency,
		inv.PaymentMethod,
		inv.PaymentType,
		inv.BusinessPartner,
		inv.SequenceNo,
		inv.SupplierID,
		inv.InvoiceDate,
		inv.SecondaryAmt1,
		inv.SecondaryAmt2,
		inv.SecondaryAmt3,
		inv.Reference,
		inv.StatusIndicator,
		inv.PaymentRef,
		inv.Dim1,
		inv.Dim2,
		inv.Dim3,
		inv.Dim4,
		inv.Dim5,
		inv.BankRouting,
		inv.BankCode,
		inv.RefCountD,
		inv.RefCountU,
		inv.SyncFlag,
		inv.Remark,
		now,
		models.ActorCode,
		inv.InvoiceID,
	)
	if err != nil {
		r.logger.Error("Failed to update invoice",
			zap.String("invoice_id", inv.InvoiceID), zap.Error(err))
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	return nil
}

// GetByInvoiceID retrieves a stored invoice by its natural key.
func (r *InvoiceRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*models.StoredInvoice, error) {
	query := selectColumns + ` WHERE t_idno = ?`

	row := r.db.QueryRowContext(ctx, query, invoiceID)
	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice",
			zap.String("invoice_id", invoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return inv, nil
}

// List retrieves all stored invoices ordered by natural key.
func (r *InvoiceRepository) List(ctx context.Context) ([]*models.StoredInvoice, error) {
	query := selectColumns + ` ORDER BY t_idno`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.StoredInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

const selectColumns = `
	SELECT id, t_idno, t_amti, t_orno, t_cprj, t_ccur, t_cpay, t_ptyp, t_ifbp,
		t_ninv, t_isup, t_invd, t_amth_1, t_amth_2, t_amth_3, t_refr,
		t_stin, t_paym, t_dim1, t_dim2, t_dim3, t_dim4, t_dim5,
		t_bkrn, t_bank, t_refcntd, t_refcntu, t_sync, t_rrmk,
		created_at, created_by, updated_at, updated_by, cancelled, cancelled_at
	FROM vendor_invoices`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvoice(row rowScanner) (*models.StoredInvoice, error) {
	var inv models.StoredInvoice
	var cancelledAt sql.NullTime

	err := row.Scan(
		&inv.ID,
		&inv.InvoiceID,
		&inv.Amount,
		&inv.OrderNo,
		&inv.CostCenter,
		&inv.Currency,
		&inv.PaymentMethod,
		&inv.PaymentType,
		&inv.BusinessPartner,
		&inv.SequenceNo,
		&inv.SupplierID,
		&inv.InvoiceDate,
		&inv.SecondaryAmt1,
		&inv.SecondaryAmt2,
		&inv.SecondaryAmt3,
		&inv.Reference,
		&inv.StatusIndicator,
		&inv.PaymentRef,
		&inv.Dim1,
		&inv.Dim2,
		&inv.Dim3,
		&inv.Dim4,
		&inv.Dim5,
		&inv.BankRouting,
		&inv.BankCode,
		&inv.RefCountD,
		&inv.RefCountU,
		&inv.SyncFlag,
		&inv.Remark,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.UpdatedAt,
		&inv.UpdatedBy,
		&inv.Cancelled,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		inv.CancelledAt = &cancelledAt.Time
	}

	return &inv, nil
}
