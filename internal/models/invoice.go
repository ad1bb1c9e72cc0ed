package models

import "strings"

// VendorInvoiceRecord is the wire-format vendor invoice as submitted by the
// upstream ERP connector. Every field travels as text, amounts and flags
// included; the t_* JSON names are part of the external contract and must not
// change.
type VendorInvoiceRecord struct {
	InvoiceID       string `json:"t_idno"` // unique invoice identifier (natural key)
	Amount          string `json:"t_amti"` // invoice amount
	OrderNo         string `json:"t_orno"` // order/reference number
	CostCenter      string `json:"t_cprj"` // cost-center/project code
	Currency        string `json:"t_ccur"` // currency code
	PaymentMethod   string `json:"t_cpay"` // payment method code
	PaymentType     string `json:"t_ptyp"` // payment type
	BusinessPartner string `json:"t_ifbp"` // business-partner id
	SequenceNo      string `json:"t_ninv"` // invoice sequence number
	SupplierID      string `json:"t_isup"` // supplier id
	InvoiceDate     string `json:"t_invd"` // invoice date, free text
	SecondaryAmt1   string `json:"t_amth_1"`
	SecondaryAmt2   string `json:"t_amth_2"`
	SecondaryAmt3   string `json:"t_amth_3"`
	Reference       string `json:"t_refr"` // free-text reference
	StatusIndicator string `json:"t_stin"` // status indicator
	PaymentRef      string `json:"t_paym"` // payment reference
	Dim1            string `json:"t_dim1"` // dimension/analytic codes
	Dim2            string `json:"t_dim2"`
	Dim3            string `json:"t_dim3"`
	Dim4            string `json:"t_dim4"`
	Dim5            string `json:"t_dim5"`
	BankRouting     string `json:"t_bkrn"` // bank routing number
	BankCode        string `json:"t_bank"` // bank code
	RefCountD       string `json:"t_Refcntd"`
	RefCountU       string `json:"t_Refcntu"`
	SyncFlag        string `json:"t_sync"` // sync flag
	Remark          string `json:"t_rrmk"` // remark
}

// Wire field names used in validation messages.
const (
	FieldInvoiceID       = "t_idno"
	FieldAmount          = "t_amti"
	FieldOrderNo         = "t_orno"
	FieldCostCenter      = "t_cprj"
	FieldCurrency        = "t_ccur"
	FieldPaymentMethod   = "t_cpay"
	FieldPaymentType     = "t_ptyp"
	FieldBusinessPartner = "t_ifbp"
)

// RequiredFields lists the wire names that must be present and non-blank,
// in the order they are reported when missing.
var RequiredFields = []string{
	FieldInvoiceID,
	FieldAmount,
	FieldOrderNo,
	FieldCostCenter,
	FieldCurrency,
	FieldPaymentMethod,
	FieldPaymentType,
}

// Upsert action outcomes reported to callers.
const (
	ActionInserted = "INSERTED"
	ActionUpdated  = "UPDATED"
)

// System column values stamped by the upsert engine.
const (
	// ActorCode identifies the intake service as the creating/updating actor.
	ActorCode = 2

	// CancelledNo is the "not cancelled" flag value written on insert.
	CancelledNo = "0"
)

// Defaults for optional fields that arrive blank. Fields not listed default
// to the empty string.
const (
	DefaultSequenceNo      = "0"
	DefaultSecondaryAmt    = "0"
	DefaultStatusIndicator = "1"
	DefaultRefCount        = "0"
	DefaultSyncFlag        = "2"
)

// IsBlank reports whether a wire value counts as absent for validation.
// Whitespace-only input is blank.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FieldValue returns the wire value for a required field name.
func (r *VendorInvoiceRecord) FieldValue(name string) string {
	switch name {
	case FieldInvoiceID:
		return r.InvoiceID
	case FieldAmount:
		return r.Amount
	case FieldOrderNo:
		return r.OrderNo
	case FieldCostCenter:
		return r.CostCenter
	case FieldCurrency:
		return r.Currency
	case FieldPaymentMethod:
		return r.PaymentMethod
	case FieldPaymentType:
		return r.PaymentType
	case FieldBusinessPartner:
		return r.BusinessPartner
	}
	return ""
}

// ApplyDefaults fills defaults for blank optional fields and derives t_dim1
// from t_cprj when the caller supplied no value. The derivation must behave
// identically on the insert and the update path, so it lives here rather
// than in the engine.
func (r *VendorInvoiceRecord) ApplyDefaults() {
	if IsBlank(r.SequenceNo) {
		r.SequenceNo = DefaultSequenceNo
	}
	if IsBlank(r.SecondaryAmt1) {
		r.SecondaryAmt1 = DefaultSecondaryAmt
	}
	if IsBlank(r.SecondaryAmt2) {
		r.SecondaryAmt2 = DefaultSecondaryAmt
	}
	if IsBlank(r.SecondaryAmt3) {
		r.SecondaryAmt3 = DefaultSecondaryAmt
	}
	if IsBlank(r.StatusIndicator) {
		r.StatusIndicator = DefaultStatusIndicator
	}
	if IsBlank(r.RefCountD) {
		r.RefCountD = DefaultRefCount
	}
	if IsBlank(r.RefCountU) {
		r.RefCountU = DefaultRefCount
	}
	if IsBlank(r.SyncFlag) {
		r.SyncFlag = DefaultSyncFlag
	}
	if IsBlank(r.Dim1) {
		r.Dim1 = r.CostCenter
	}
}

// ValidatedInvoice is a VendorInvoiceRecord that passed all validator checks.
// AmountValue carries the parsed numeric amount; the embedded record keeps
// the stringly-typed wire values for persistence.
type ValidatedInvoice struct {
	VendorInvoiceRecord
	AmountValue float64
}

// UpsertOutcome reports the action taken by the upsert engine. The engine
// only ever touches a single row, so AffectedRecords is 1 by convention.
type UpsertOutcome struct {
	Action          string `json:"action"`
	AffectedRecords int    `json:"affectedRecords"`
}
