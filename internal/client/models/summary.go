package models

import "time"

// Summary is the taxpayer's account summary from GET /dashboard/summary/.
type Summary struct {
	TotalTaxDue        Amount `json:"total_tax_due"`
	PaidAmount         Amount `json:"paid_amount"`
	OutstandingBalance Amount `json:"outstanding_balance"`
	NextPaymentDueDate string `json:"next_payment_due_date,omitempty"`
	Status             string `json:"status"`
}

// AdminMetrics is GET /admin/metrics/.
type AdminMetrics struct {
	TotalRegisteredTaxpayers  int    `json:"total_registered_taxpayers"`
	TotalPropertiesBusinesses int    `json:"total_properties_businesses"`
	TotalTaxAssessed          Amount `json:"total_tax_assessed"`
	TotalRevenueCollected     Amount `json:"total_revenue_collected"`
	OutstandingTaxAmount      Amount `json:"outstanding_tax_amount"`
	OverdueAccounts           int    `json:"overdue_accounts"`
}

// TaxAccount is an entry of GET /admin/unpaid-users/.
type TaxAccount struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	TaxType            int64      `json:"tax_type,omitempty"`
	TaxTypeName        string     `json:"tax_type_name,omitempty"`
	TotalTaxDue        Amount     `json:"total_tax_due"`
	PaidAmount         Amount     `json:"paid_amount"`
	OutstandingBalance Amount     `json:"outstanding_balance"`
	NextPaymentDueDate string     `json:"next_payment_due_date,omitempty"`
	Status             string     `json:"status"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}
