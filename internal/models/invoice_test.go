package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	rec := VendorInvoiceRecord{CostCenter: "CC100"}
	rec.ApplyDefaults()

	assert.Equal(t, "0", rec.SequenceNo)
	assert.Equal(t, "0", rec.SecondaryAmt1)
	assert.Equal(t, "0", rec.SecondaryAmt2)
	assert.Equal(t, "0", rec.SecondaryAmt3)
	assert.Equal(t, "1", rec.StatusIndicator)
	assert.Equal(t, "0", rec.RefCountD)
	assert.Equal(t, "0", rec.RefCountU)
	assert.Equal(t, "2", rec.SyncFlag)
	assert.Equal(t, "CC100", rec.Dim1)

	// Unlisted optionals stay empty.
	assert.Equal(t, "", rec.SupplierID)
	assert.Equal(t, "", rec.Remark)
}

func TestApplyDefaults_KeepsSuppliedValues(t *testing.T) {
	rec := VendorInvoiceRecord{
		CostCenter:      "CC100",
		SequenceNo:      "7",
		StatusIndicator: "9",
		Dim1:            "D1",
	}
	rec.ApplyDefaults()

	assert.Equal(t, "7", rec.SequenceNo)
	assert.Equal(t, "9", rec.StatusIndicator)
	assert.Equal(t, "D1", rec.Dim1)
}

func TestWireFieldNames(t *testing.T) {
	payload := `{
		"t_idno": "INV1", "t_amti": "150.00", "t_orno": "PO9",
		"t_cprj": "CC1", "t_ccur": "USD", "t_cpay": "WIRE",
		"t_ptyp": "STD", "t_ifbp": "BP1",
		"t_Refcntd": "3", "t_Refcntu": "4",
		"some_unknown_field": "ignored"
	}`

	var rec VendorInvoiceRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))

	assert.Equal(t, "INV1", rec.InvoiceID)
	assert.Equal(t, "150.00", rec.Amount)
	assert.Equal(t, "WIRE", rec.PaymentMethod)
	assert.Equal(t, "3", rec.RefCountD)
	assert.Equal(t, "4", rec.RefCountU)
}

func TestFieldValue(t *testing.T) {
	rec := VendorInvoiceRecord{
		InvoiceID:       "INV1",
		Amount:          "10",
		OrderNo:         "PO9",
		CostCenter:      "CC1",
		Currency:        "EUR",
		PaymentMethod:   "WIRE",
		PaymentType:     "STD",
		BusinessPartner: "BP1",
	}

	want := map[string]string{
		FieldInvoiceID:       "INV1",
		FieldAmount:          "10",
		FieldOrderNo:         "PO9",
		FieldCostCenter:      "CC1",
		FieldCurrency:        "EUR",
		FieldPaymentMethod:   "WIRE",
		FieldPaymentType:     "STD",
		FieldBusinessPartner: "BP1",
	}

	// Every required name must resolve to its populated field.
	for _, name := range RequiredFields {
		assert.Equal(t, want[name], rec.FieldValue(name), "field %s", name)
	}

	assert.Equal(t, "BP1", rec.FieldValue(FieldBusinessPartner))
	assert.Equal(t, "", rec.FieldValue("t_nope"))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("\t\n"))
	assert.False(t, IsBlank("x"))
	assert.False(t, IsBlank(" x "))
}
