package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"golang.org/x/crypto/bcrypt"
)

// NewServer starts an httptest server in front of b. The API base URL is
// srv.URL.
func NewServer(b *Backend) *httptest.Server {
	return httptest.NewServer(b.Handler())
}

// Handler returns the REST routes.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", b.handleRoot)

	mux.HandleFunc("POST /auth/login/{$}", b.handleLogin)
	mux.HandleFunc("POST /auth/register/{$}", b.handleRegister)
	mux.HandleFunc("POST /auth/refresh/{$}", b.handleRefresh)
	mux.HandleFunc("GET /auth/me/{$}", b.authed(b.handleMe))

	mux.HandleFunc("GET /profile/{$}", b.authed(b.handleProfile))
	mux.HandleFunc("PATCH /profile/{$}", b.authed(b.handleUpdateProfile))

	mux.HandleFunc("GET /dashboard/summary/{$}", b.authed(b.handleSummary))

	mux.HandleFunc("GET /payments/{$}", b.authed(b.handleListPayments))
	mux.HandleFunc("POST /payments/generate_control_number/{$}", b.authed(b.handleGenerateControlNumber))
	mux.HandleFunc("POST /payments/pay_with_control_number/{$}", b.authed(b.handlePayWithControlNumber))
	mux.HandleFunc("POST /payments/{id}/approve/{$}", b.admin(b.handleApprove))
	mux.HandleFunc("POST /payments/{id}/reject/{$}", b.admin(b.handleReject))
	mux.HandleFunc("POST /payments/{id}/mark_paid/{$}", b.authed(b.handleMarkPaid))

	mux.HandleFunc("GET /admin/metrics/{$}", b.admin(b.handleMetrics))
	mux.HandleFunc("GET /admin/users/{$}", b.admin(b.handleListUsers))
	mux.HandleFunc("PATCH /admin/users/{id}/status/{$}", b.admin(b.handleUserStatus))
	mux.HandleFunc("DELETE /admin/users/{id}/delete/{$}", b.admin(b.handleDeleteUser))
	mux.HandleFunc("GET /admin/unpaid-users/{$}", b.admin(b.handleUnpaid))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, acc *account)

// authed resolves the bearer token. Handlers run with b.mu held.
func (b *Backend) authed(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		userID, err := parseToken(token, tokenAccess, b.secret, b.Now())
		acc, found := b.accounts[userID]
		if err != nil || !found || acc.user.AccountStatus != models.AccountActive {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		h(w, r, acc)
	}
}

func (b *Backend) admin(h userHandler) http.HandlerFunc {
	return b.authed(func(w http.ResponseWriter, r *http.Request, acc *account) {
		if acc.user.Role != models.RoleAdministrator {
			writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
			return
		}
		h(w, r, acc)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fieldError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string][]string{field: {msg}})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func (b *Backend) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"payments":     "/payments/",
		"tax-types":    "/tax-types/",
		"tax-accounts": "/tax-accounts/",
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"Must include email and password."}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.byEmail(req.Email)
	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)) != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"Invalid email or password."}})
		return
	}
	if acc.user.AccountStatus != models.AccountActive {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"User account is not active."}})
		return
	}

	now := b.Now().UTC()
	acc.user.LastLoginTime = &now

	tokens, err := b.issue(acc.user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	u := acc.user
	writeJSON(w, http.StatusOK, models.AuthResult{Message: "Login successful", User: u, Tokens: tokens})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed request."})
		return
	}

	if errs := reg.Validate(); len(errs) > 0 {
		body := make(map[string][]string, len(errs))
		for k, v := range errs {
			body[k] = []string{v}
		}
		writeJSON(w, http.StatusBadRequest, body)
		return
	}

	b.mu.Lock()
	if b.byEmail(reg.Email) != nil {
		b.mu.Unlock()
		fieldError(w, "email", "This email is already registered.")
		return
	}
	for _, acc := range b.accounts {
		if acc.profile != nil && acc.profile.NationalID == reg.NationalID {
			b.mu.Unlock()
			fieldError(w, "national_id_number", "This national ID number is already registered.")
			return
		}
	}
	b.mu.Unlock()

	u := b.AddUser(reg.Email, reg.Password, models.RoleTaxpayer, "")

	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.accounts[u.ID]
	acc.profile = &models.Profile{
		ID:               u.ID,
		Email:            reg.Email,
		FirstName:        reg.FirstName,
		MiddleName:       reg.MiddleName,
		LastName:         reg.LastName,
		Gender:           reg.Gender,
		DateOfBirth:      reg.DateOfBirth,
		MobilePhone:      reg.MobilePhone,
		NationalID:       reg.NationalID,
		Ward:             reg.Ward,
		StreetVillage:    reg.StreetVillage,
		HouseNumber:      reg.HouseNumber,
		TaxpayerType:     reg.TaxpayerType,
		PropertyLocation: reg.PropertyLocation,
		BusinessName:     reg.BusinessName,
		RegistrationDate: acc.profile.RegistrationDate,
	}
	acc.user.FullName = acc.profile.DisplayName()

	tokens, err := b.issue(u.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, models.AuthResult{Message: "Registration successful", User: acc.user, Tokens: tokens})
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	defer b.mu.Unlock()

	userID, err := parseToken(req.Refresh, tokenRefresh, b.secret, b.Now())
	if _, ok := b.accounts[userID]; err != nil || !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	tokens, err := b.issue(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request, acc *account) {
	writeJSON(w, http.StatusOK, b.publicUser(acc))
}

func (b *Backend) handleProfile(w http.ResponseWriter, r *http.Request, acc *account) {
	if acc.profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Profile not found"})
		return
	}
	p := *acc.profile
	p.FullName = p.DisplayName()
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) handleUpdateProfile(w http.ResponseWriter, r *http.Request, acc *account) {
	if acc.profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Profile not found"})
		return
	}
	var upd models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed request."})
		return
	}
	if upd.FirstName != nil && strings.TrimSpace(*upd.FirstName) == "" {
		fieldError(w, "first_name", "This field may not be blank.")
		return
	}
	if upd.LastName != nil && strings.TrimSpace(*upd.LastName) == "" {
		fieldError(w, "last_name", "This field may not be blank.")
		return
	}

	p := acc.profile
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{upd.FirstName, &p.FirstName},
		{upd.MiddleName, &p.MiddleName},
		{upd.LastName, &p.LastName},
		{upd.MobilePhone, &p.MobilePhone},
		{upd.Ward, &p.Ward},
		{upd.StreetVillage, &p.StreetVillage},
		{upd.HouseNumber, &p.HouseNumber},
		{upd.PropertyLocation, &p.PropertyLocation},
		{upd.BusinessName, &p.BusinessName},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	acc.user.FullName = p.DisplayName()

	out := *p
	out.FullName = p.DisplayName()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleSummary(w http.ResponseWriter, r *http.Request, acc *account) {
	t := acc.tax
	status := t.Status
	if status == "" {
		status = "Active"
	}
	writeJSON(w, http.StatusOK, models.Summary{
		TotalTaxDue:        t.TotalTaxDue,
		PaidAmount:         t.PaidAmount,
		OutstandingBalance: t.OutstandingBalance,
		NextPaymentDueDate: t.NextPaymentDueDate,
		Status:             status,
	})
}
