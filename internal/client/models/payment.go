package models

import (
	"regexp"
	"time"
)

// PaymentStatus is the lifecycle state of a payment request.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "Pending"
	PaymentApproved   PaymentStatus = "Approved"
	PaymentProcessing PaymentStatus = "Processing"
	PaymentCompleted  PaymentStatus = "Completed"
	PaymentFailed     PaymentStatus = "Failed"
	PaymentRejected   PaymentStatus = "Rejected"
	PaymentCancelled  PaymentStatus = "Cancelled"
)

// Payment methods.
const (
	MethodMobileMoney   = "Mobile Money"
	MethodPesapal       = "Pesapal"
	MethodControlNumber = "Generate Control Number"
)

// ControlNumberPattern matches a control number issued by the backend:
// "TXN" followed by ten upper-case letters or digits.
var ControlNumberPattern = regexp.MustCompile(`^TXN[A-Z0-9]{10}$`)

// Payment is a payment request as listed by GET /payments/.
type Payment struct {
	ID                int64         `json:"id"`
	User              int64         `json:"user,omitempty"`
	TaxAccount        int64         `json:"tax_account,omitempty"`
	Amount            Amount        `json:"amount"`
	PaymentMethod     string        `json:"payment_method"`
	Status            PaymentStatus `json:"status"`
	ControlNumber     string        `json:"control_number,omitempty"`
	ProviderReference string        `json:"provider_reference,omitempty"`
	RejectionReason   string        `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         *time.Time    `json:"updated_at,omitempty"`
	CompletedAt       *time.Time    `json:"completed_at,omitempty"`
}

// Reference is what the tables show in the reference column.
func (p Payment) Reference() string {
	switch {
	case p.ControlNumber != "":
		return p.ControlNumber
	case p.ProviderReference != "":
		return p.ProviderReference
	default:
		return "-"
	}
}

// ControlNumberResult is the body of POST /payments/generate_control_number/.
type ControlNumberResult struct {
	Message       string `json:"message,omitempty"`
	ControlNumber string `json:"control_number"`
}

// PaymentResult is the body of the payment action endpoints.
type PaymentResult struct {
	Message string  `json:"message,omitempty"`
	Payment Payment `json:"payment"`
}
