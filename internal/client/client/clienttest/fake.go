// Package clienttest provides a programmable client.Client for unit tests.
package clienttest

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// ErrNotStubbed is returned by any Fake method without a stub.
var ErrNotStubbed = errors.New("clienttest: method not stubbed")

var _ client.Client = (*Fake)(nil)

// Fake records calls by method name and delegates to the matching Func
// field. Unset fields return ErrNotStubbed.
type Fake struct {
	mu    sync.Mutex
	calls []string

	LoginFunc                 func(ctx context.Context, email, password string) (*models.AuthResult, error)
	RegisterFunc              func(ctx context.Context, reg models.Registration) (*models.AuthResult, error)
	CurrentUserFunc           func(ctx context.Context) (*models.User, error)
	RefreshTokensFunc         func(ctx context.Context, refresh string) (models.TokenPair, error)
	DashboardSummaryFunc      func(ctx context.Context) (*models.Summary, error)
	ListPaymentsFunc          func(ctx context.Context) ([]models.Payment, error)
	GenerateControlNumberFunc func(ctx context.Context) (string, error)
	PayWithControlNumberFunc  func(ctx context.Context, cn string, amount models.Amount) (*models.PaymentResult, error)
	ApprovePaymentFunc        func(ctx context.Context, id int64) (*models.PaymentResult, error)
	RejectPaymentFunc         func(ctx context.Context, id int64, reason string) (*models.PaymentResult, error)
	MarkPaymentPaidFunc       func(ctx context.Context, id int64) (*models.PaymentResult, error)
	AdminMetricsFunc          func(ctx context.Context) (*models.AdminMetrics, error)
	ListUsersFunc             func(ctx context.Context, search string) ([]models.User, error)
	UpdateUserStatusFunc      func(ctx context.Context, id int64, status string) error
	DeleteUserFunc            func(ctx context.Context, id int64) error
	UnpaidUsersFunc           func(ctx context.Context) ([]models.TaxAccount, error)
	ProfileFunc               func(ctx context.Context) (*models.Profile, error)
	UpdateProfileFunc         func(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error)
	PingFunc                  func(ctx context.Context) error
}

func (f *Fake) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

// Calls returns the recorded method names in call order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Count returns how many times name was called.
func (f *Fake) Count(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *Fake) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	f.record("Login")
	if f.LoginFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.LoginFunc(ctx, email, password)
}

func (f *Fake) Register(ctx context.Context, reg models.Registration) (*models.AuthResult, error) {
	f.record("Register")
	if f.RegisterFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.RegisterFunc(ctx, reg)
}

func (f *Fake) CurrentUser(ctx context.Context) (*models.User, error) {
	f.record("CurrentUser")
	if f.CurrentUserFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.CurrentUserFunc(ctx)
}

func (f *Fake) RefreshTokens(ctx context.Context, refresh string) (models.TokenPair, error) {
	f.record("RefreshTokens")
	if f.RefreshTokensFunc == nil {
		return models.TokenPair{}, ErrNotStubbed
	}
	return f.RefreshTokensFunc(ctx, refresh)
}

func (f *Fake) DashboardSummary(ctx context.Context) (*models.Summary, error) {
	f.record("DashboardSummary")
	if f.DashboardSummaryFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.DashboardSummaryFunc(ctx)
}

func (f *Fake) ListPayments(ctx context.Context) ([]models.Payment, error) {
	f.record("ListPayments")
	if f.ListPaymentsFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.ListPaymentsFunc(ctx)
}

func (f *Fake) GenerateControlNumber(ctx context.Context) (string, error) {
	f.record("GenerateControlNumber")
	if f.GenerateControlNumberFunc == nil {
		return "", ErrNotStubbed
	}
	return f.GenerateControlNumberFunc(ctx)
}

func (f *Fake) PayWithControlNumber(ctx context.Context, cn string, amount models.Amount) (*models.PaymentResult, error) {
	f.record("PayWithControlNumber")
	if f.PayWithControlNumberFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.PayWithControlNumberFunc(ctx, cn, amount)
}

func (f *Fake) ApprovePayment(ctx context.Context, id int64) (*models.PaymentResult, error) {
	f.record("ApprovePayment")
	if f.ApprovePaymentFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.ApprovePaymentFunc(ctx, id)
}

func (f *Fake) RejectPayment(ctx context.Context, id int64, reason string) (*models.PaymentResult, error) {
	f.record("RejectPayment")
	if f.RejectPaymentFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.RejectPaymentFunc(ctx, id, reason)
}

func (f *Fake) MarkPaymentPaid(ctx context.Context, id int64) (*models.PaymentResult, error) {
	f.record("MarkPaymentPaid")
	if f.MarkPaymentPaidFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.MarkPaymentPaidFunc(ctx, id)
}

func (f *Fake) AdminMetrics(ctx context.Context) (*models.AdminMetrics, error) {
	f.record("AdminMetrics")
	if f.AdminMetricsFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.AdminMetricsFunc(ctx)
}

func (f *Fake) ListUsers(ctx context.Context, search string) ([]models.User, error) {
	f.record("ListUsers")
	if f.ListUsersFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.ListUsersFunc(ctx, search)
}

func (f *Fake) UpdateUserStatus(ctx context.Context, id int64, status string) error {
	f.record("UpdateUserStatus")
	if f.UpdateUserStatusFunc == nil {
		return ErrNotStubbed
	}
	return f.UpdateUserStatusFunc(ctx, id, status)
}

func (f *Fake) DeleteUser(ctx context.Context, id int64) error {
	f.record("DeleteUser")
	if f.DeleteUserFunc == nil {
		return ErrNotStubbed
	}
	return f.DeleteUserFunc(ctx, id)
}

func (f *Fake) UnpaidUsers(ctx context.Context) ([]models.TaxAccount, error) {
	f.record("UnpaidUsers")
	if f.UnpaidUsersFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.UnpaidUsersFunc(ctx)
}

func (f *Fake) Profile(ctx context.Context) (*models.Profile, error) {
	f.record("Profile")
	if f.ProfileFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.ProfileFunc(ctx)
}

func (f *Fake) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	f.record("UpdateProfile")
	if f.UpdateProfileFunc == nil {
		return nil, ErrNotStubbed
	}
	return f.UpdateProfileFunc(ctx, upd)
}

func (f *Fake) Ping(ctx context.Context) error {
	f.record("Ping")
	if f.PingFunc == nil {
		return nil
	}
	return f.PingFunc(ctx)
}
