package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/erpbridge/invoice-intake/internal/models"
)

// InvoiceLister provides the stored invoices for export.
// Implemented by repository.InvoiceRepository.
type InvoiceLister interface {
	List(ctx context.Context) ([]*models.StoredInvoice, error)
}

// ExcelExporter renders the stored vendor invoices as an xlsx workbook for
// the accounting team.
type ExcelExporter struct {
	lister InvoiceLister
	logger *zap.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(lister InvoiceLister, logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{
		lister: lister,
		logger: logger,
	}
}

const sheetName = "Vendor Invoices"

var headers = []string{
	"Invoice ID", "Amount", "Currency", "Order No", "Cost Center",
	"Business Partner", "Supplier", "Invoice Date", "Payment Method",
	"Payment Type", "Status", "Dim 1", "Created At", "Updated At",
}

// Export builds a workbook with one row per stored invoice. The caller owns
// the returned file and must Close it.
func (e *ExcelExporter) Export(ctx context.Context) (*excelize.File, error) {
	invoices, err := e.lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices for export: %w", err)
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		e.setCell(f, cell, header)
	}

	for i, inv := range invoices {
		row := i + 2
		values := []interface{}{
			inv.InvoiceID,
			inv.Amount,
			inv.Currency,
			inv.OrderNo,
			inv.CostCenter,
			inv.BusinessPartner,
			inv.SupplierID,
			inv.InvoiceDate,
			inv.PaymentMethod,
			inv.PaymentType,
			inv.StatusIndicator,
			inv.Dim1,
			inv.CreatedAt.Format("2006-01-02 15:04:05"),
			inv.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			e.setCell(f, cell, value)
		}
	}

	e.logger.Info("Built invoice export workbook", zap.Int("rows", len(invoices)))
	return f, nil
}

func (e *ExcelExporter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}
