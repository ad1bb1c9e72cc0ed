package models

import "time"

// StoredInvoice is a vendor invoice row as persisted, business columns plus
// the store-managed system columns.
type StoredInvoice struct {
	ID int64 `json:"id"`
	VendorInvoiceRecord
	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   int        `json:"created_by"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UpdatedBy   int        `json:"updated_by"`
	Cancelled   string     `json:"cancelled"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
