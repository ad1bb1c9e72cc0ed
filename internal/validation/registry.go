package validation

import "github.com/erpbridge/invoice-intake/internal/models"

// BusinessPartnerRegistry answers whether a business-partner id is known.
// The real lookup lives in the ERP master data service; the intake service
// only carries a stub until that integration lands.
type BusinessPartnerRegistry interface {
	Exists(partnerID string) (bool, error)
}

// CostCenterRegistry answers whether a cost-center/project code is known.
type CostCenterRegistry interface {
	Exists(costCenter string) (bool, error)
}

// StubPartnerRegistry accepts any non-blank business-partner id.
type StubPartnerRegistry struct{}

func (StubPartnerRegistry) Exists(partnerID string) (bool, error) {
	return !models.IsBlank(partnerID), nil
}

// StubCostCenterRegistry accepts any non-blank cost-center code.
type StubCostCenterRegistry struct{}

func (StubCostCenterRegistry) Exists(costCenter string) (bool, error) {
	return !models.IsBlank(costCenter), nil
}
