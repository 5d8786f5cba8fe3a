package apitest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

func (b *Backend) handleListPayments(w http.ResponseWriter, r *http.Request, acc *account) {
	isAdmin := acc.user.Role == models.RoleAdministrator
	list := b.sortedPayments(func(p *models.Payment) bool {
		return isAdmin || p.User == acc.user.ID
	})
	writeJSON(w, http.StatusOK, map[string]any{"count": len(list), "results": list})
}

func (b *Backend) handleGenerateControlNumber(w http.ResponseWriter, r *http.Request, acc *account) {
	if acc.profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Tax account not found"})
		return
	}
	now := b.Now().UTC()
	p := &models.Payment{
		ID:            b.id(),
		User:          acc.user.ID,
		TaxAccount:    acc.tax.ID,
		PaymentMethod: models.MethodControlNumber,
		Status:        models.PaymentPending,
		ControlNumber: newControlNumber(),
		CreatedAt:     now,
	}
	b.payments = append(b.payments, p)
	writeJSON(w, http.StatusCreated, models.ControlNumberResult{Message: "Control number generated", ControlNumber: p.ControlNumber})
}

func (b *Backend) handlePayWithControlNumber(w http.ResponseWriter, r *http.Request, acc *account) {
	var req struct {
		ControlNumber string        `json:"control_number"`
		Amount        models.Amount `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please enter a valid amount."})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Amount must be greater than 0."})
		return
	}

	cn := strings.ToUpper(strings.TrimSpace(req.ControlNumber))
	var target *models.Payment
	for _, p := range b.payments {
		if p.ControlNumber == cn && p.User == acc.user.ID {
			target = p
			break
		}
	}
	if target == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid control number."})
		return
	}
	if target.Amount > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "This control number has already been used."})
		return
	}

	now := b.Now().UTC()
	target.Amount = req.Amount
	target.Status = models.PaymentPending
	target.UpdatedAt = &now
	writeJSON(w, http.StatusOK, models.PaymentResult{Message: "Payment submitted for verification", Payment: *target})
}

func (b *Backend) findPayment(w http.ResponseWriter, r *http.Request) *models.Payment {
	id, ok := pathID(r)
	if ok {
		for _, p := range b.payments {
			if p.ID == id {
				return p
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	return nil
}

// settle credits p to its owner's tax account once.
func (b *Backend) settle(p *models.Payment) {
	if p.CompletedAt != nil {
		return
	}
	now := b.Now().UTC()
	p.CompletedAt = &now
	p.UpdatedAt = &now
	if owner, ok := b.accounts[p.User]; ok {
		owner.tax.PaidAmount += p.Amount
		owner.tax.OutstandingBalance -= p.Amount
		if owner.tax.OutstandingBalance < 0 {
			owner.tax.OutstandingBalance = 0
		}
	}
}

func (b *Backend) handleApprove(w http.ResponseWriter, r *http.Request, _ *account) {
	p := b.findPayment(w, r)
	if p == nil {
		return
	}
	if p.Status != models.PaymentPending {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Only pending payments can be approved."})
		return
	}
	p.Status = models.PaymentApproved
	b.settle(p)
	writeJSON(w, http.StatusOK, models.PaymentResult{Message: "Payment approved", Payment: *p})
}

func (b *Backend) handleReject(w http.ResponseWriter, r *http.Request, _ *account) {
	p := b.findPayment(w, r)
	if p == nil {
		return
	}
	var req struct {
		Reason string `json:"rejection_reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if p.Status != models.PaymentPending {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Only pending payments can be rejected."})
		return
	}
	now := b.Now().UTC()
	p.Status = models.PaymentRejected
	p.RejectionReason = req.Reason
	p.UpdatedAt = &now
	writeJSON(w, http.StatusOK, models.PaymentResult{Message: "Payment rejected", Payment: *p})
}

func (b *Backend) handleMarkPaid(w http.ResponseWriter, r *http.Request, acc *account) {
	p := b.findPayment(w, r)
	if p == nil {
		return
	}
	if p.User != acc.user.ID && acc.user.Role != models.RoleAdministrator {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Permission denied"})
		return
	}
	p.Status = models.PaymentCompleted
	b.settle(p)
	writeJSON(w, http.StatusOK, models.PaymentResult{Message: "Payment marked as paid", Payment: *p})
}
