package apitest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

func (b *Backend) handleMetrics(w http.ResponseWriter, r *http.Request, _ *account) {
	var m models.AdminMetrics
	for _, acc := range b.accounts {
		if acc.user.Role != models.RoleTaxpayer {
			continue
		}
		m.TotalRegisteredTaxpayers++
		if acc.profile != nil && acc.profile.TaxpayerType != "" {
			m.TotalPropertiesBusinesses++
		}
		m.TotalTaxAssessed += acc.tax.TotalTaxDue
		m.OutstandingTaxAmount += acc.tax.OutstandingBalance
		if acc.tax.Status == "Overdue" || acc.tax.OutstandingBalance > 0 {
			m.OverdueAccounts++
		}
	}
	for _, p := range b.payments {
		if p.Status == models.PaymentCompleted || p.Status == models.PaymentApproved {
			m.TotalRevenueCollected += p.Amount
		}
	}
	writeJSON(w, http.StatusOK, m)
}

func (b *Backend) handleListUsers(w http.ResponseWriter, r *http.Request, _ *account) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	role := r.URL.Query().Get("role")

	users := make([]models.User, 0, len(b.accounts))
	for _, acc := range b.accounts {
		if role != "" && acc.user.Role.String() != role {
			continue
		}
		if search != "" {
			hay := strings.ToLower(acc.user.Email)
			if acc.profile != nil {
				hay += " " + strings.ToLower(acc.profile.FirstName+" "+acc.profile.LastName)
			}
			if !strings.Contains(hay, search) {
				continue
			}
		}
		users = append(users, b.publicUser(acc))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	writeJSON(w, http.StatusOK, map[string]any{"count": len(users), "results": users})
}

func (b *Backend) handleUserStatus(w http.ResponseWriter, r *http.Request, _ *account) {
	id, _ := pathID(r)
	target, ok := b.accounts[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	var req struct {
		Status string `json:"account_status"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Status != models.AccountActive && req.Status != models.AccountInactive {
		fieldError(w, "account_status", "Status must be Active or Inactive.")
		return
	}
	target.user.AccountStatus = req.Status
	writeJSON(w, http.StatusOK, map[string]any{"message": "User status updated", "user": b.publicUser(target)})
}

func (b *Backend) handleDeleteUser(w http.ResponseWriter, r *http.Request, acc *account) {
	id, _ := pathID(r)
	if _, ok := b.accounts[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	if id == acc.user.ID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "You cannot delete your own account."})
		return
	}
	delete(b.accounts, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) handleUnpaid(w http.ResponseWriter, r *http.Request, _ *account) {
	list := make([]models.TaxAccount, 0)
	for _, acc := range b.accounts {
		if acc.user.Role == models.RoleTaxpayer && (acc.tax.OutstandingBalance > 0 || acc.tax.Status == "Overdue") {
			list = append(list, acc.tax)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OutstandingBalance > list[j].OutstandingBalance })
	writeJSON(w, http.StatusOK, list)
}
