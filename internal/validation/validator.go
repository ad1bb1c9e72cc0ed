package validation

import (
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/erpbridge/invoice-intake/internal/models"
)

// Validator checks inbound vendor invoices before they reach the store.
// Checks run in a fixed order: required fields, amount, business partner,
// cost center. The order is observable through which error a multiply-invalid
// input surfaces, so it must not change.
type Validator struct {
	partners    BusinessPartnerRegistry
	costCenters CostCenterRegistry
	logger      *zap.Logger
}

// NewValidator creates a validator with the given referential registries.
func NewValidator(partners BusinessPartnerRegistry, costCenters CostCenterRegistry, logger *zap.Logger) *Validator {
	return &Validator{
		partners:    partners,
		costCenters: costCenters,
		logger:      logger,
	}
}

// NewStubValidator creates a validator with the stub registries, which only
// require the referenced ids to be non-blank.
func NewStubValidator(logger *zap.Logger) *Validator {
	return NewValidator(StubPartnerRegistry{}, StubCostCenterRegistry{}, logger)
}

// Validate checks the record and returns a ValidatedInvoice with defaults
// applied and the amount parsed. It is a pure function of its input; no store
// interaction happens here.
func (v *Validator) Validate(rec *models.VendorInvoiceRecord) (*models.ValidatedInvoice, error) {
	// Required fields first, collecting every missing name rather than
	// stopping at the first.
	var missing []string
	for _, name := range models.RequiredFields {
		if models.IsBlank(rec.FieldValue(name)) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		v.logger.Debug("Validation rejected invoice",
			zap.String("invoice_id", rec.InvoiceID),
			zap.Strings("missing_fields", missing))
		return nil, &ValidationError{Err: ErrMissingFields, Fields: missing}
	}

	// ParseFloat accepts "NaN" and "Inf", and NaN fails every comparison,
	// so non-finite values need explicit rejection.
	amount, err := strconv.ParseFloat(rec.Amount, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		v.logger.Debug("Validation rejected invoice amount",
			zap.String("invoice_id", rec.InvoiceID),
			zap.String("amount", rec.Amount))
		return nil, &ValidationError{Err: ErrInvalidAmount, Fields: []string{models.FieldAmount}}
	}

	ok, err := v.partners.Exists(rec.BusinessPartner)
	if err != nil {
		return nil, fmt.Errorf("business partner lookup failed: %w", err)
	}
	if !ok {
		return nil, &ValidationError{Err: ErrUnknownBusinessPartner, Fields: []string{models.FieldBusinessPartner}}
	}

	ok, err = v.costCenters.Exists(rec.CostCenter)
	if err != nil {
		return nil, fmt.Errorf("cost center lookup failed: %w", err)
	}
	if !ok {
		return nil, &ValidationError{Err: ErrUnknownCostCenter, Fields: []string{models.FieldCostCenter}}
	}

	validated := &models.ValidatedInvoice{
		VendorInvoiceRecord: *rec,
		AmountValue:         amount,
	}
	validated.ApplyDefaults()

	return validated, nil
}
