package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/crosstab"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/notify"
	"github.com/dmitrijs2005/taxdesk/internal/client/router"
	"github.com/dmitrijs2005/taxdesk/internal/common"
)

var errDown = &client.APIError{Kind: client.ErrNetworkOrServer, StatusCode: 500}

func TestNew_EveryRouteHasAView(t *testing.T) {
	e := newEnv(t)
	for _, r := range router.Routes() {
		v, ok := New(r.Path, e.deps)
		assert.True(t, ok, r.Path)
		assert.NotNil(t, v, r.Path)
	}
	_, ok := New("/nowhere", e.deps)
	assert.False(t, ok)
}

func TestMoneyAndDates(t *testing.T) {
	assert.Equal(t, "TZS 1,250,000", Money(1250000))
	assert.Equal(t, "TZS 1,250.5", Money(1250.5))
	assert.Equal(t, "TZS 0", Money(0))
	assert.Equal(t, "31 Dec 2026", Date("2026-12-31"))
	assert.Equal(t, "N/A", Date(""))
	assert.Equal(t, "someday", Date("someday"))
	assert.Equal(t, "Never", Ago(nil))
	assert.Equal(t, "N/A", NA("  "))
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "secret-pass")
	require.NoError(t, e.session.Initialize(ctx))
	e.api.LoginFunc = func(_ context.Context, email, password string) (*models.AuthResult, error) {
		assert.Equal(t, "asha@example.tz", email)
		assert.Equal(t, "secret-pass", password)
		return &models.AuthResult{User: *taxpayerUser(), Tokens: models.TokenPair{Access: "a", Refresh: "r"}}, nil
	}

	v := NewLogin(e.deps)
	handled, err := v.Handle(ctx, "login", []string{"asha@example.tz"})
	require.True(t, handled)
	require.NoError(t, err)

	assert.Equal(t, models.RoleTaxpayer, e.session.Snapshot().User.Role)
	assert.Equal(t, []string{"Password"}, e.prompt.asked)
}

func TestLogin_RejectedShowsFormError(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "asha@example.tz", "wrong")
	require.NoError(t, e.session.Initialize(ctx))
	e.api.LoginFunc = func(context.Context, string, string) (*models.AuthResult, error) {
		return nil, &client.APIError{Kind: client.ErrInvalidCredentials, StatusCode: 400, Message: "Invalid email or password."}
	}

	v := NewLogin(e.deps)
	_, err := v.Handle(ctx, "login", nil)
	require.NoError(t, err)

	assert.Contains(t, e.out.String(), "Invalid email or password.")
	assert.Nil(t, e.session.Snapshot().User)
	assert.Empty(t, e.notes.Entries(), "form errors are inline, not alerts")
}

func TestLogin_RegisterNavigates(t *testing.T) {
	e := newEnv(t)
	v := NewLogin(e.deps)

	handled, err := v.Handle(context.Background(), "register", nil)
	require.True(t, handled)
	require.NoError(t, err)
	assert.Equal(t, []string{"/register"}, e.navigate)

	handled, _ = v.Handle(context.Background(), "bogus", nil)
	assert.False(t, handled)
}

func registrationAnswers(email string) []string {
	return []string{
		"Asha", "", "Mushi", "female", "1990-01-01", "0712000000",
		"19900101-12345-00001-22", "Kijitonyama", "Mpakani", "12",
		"business", "Asha Traders", "Plot 4",
		email, "s3cretpass", "s3cretpass", "yes",
	}
}

func TestRegister_ClientValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, registrationAnswers("not-an-email")...)
	v := NewRegister(e.deps)

	_, err := v.Handle(ctx, "register", nil)
	require.NoError(t, err)

	assert.Contains(t, e.out.String(), "Email Address: Invalid email format")
	assert.Zero(t, e.api.Count("Register"))
}

func TestRegister_ServerFieldErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, registrationAnswers("asha@example.tz")...)
	var got models.Registration
	e.api.RegisterFunc = func(_ context.Context, reg models.Registration) (*models.AuthResult, error) {
		got = reg
		return nil, &client.ValidationError{Fields: map[string]string{"email": "A user with this email already exists."}}
	}
	v := NewRegister(e.deps)

	_, err := v.Handle(ctx, "register", nil)
	require.NoError(t, err)

	assert.Equal(t, "Female", got.Gender)
	assert.Equal(t, "Business", got.TaxpayerType)
	assert.Equal(t, "Asha Traders", got.BusinessName)
	assert.True(t, got.Declaration)
	assert.Contains(t, e.out.String(), "Email Address: A user with this email already exists.")
	assert.Nil(t, e.session.Snapshot().User)
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, registrationAnswers("asha@example.tz")...)
	e.api.RegisterFunc = func(context.Context, models.Registration) (*models.AuthResult, error) {
		return &models.AuthResult{User: *taxpayerUser(), Tokens: models.TokenPair{Access: "a", Refresh: "r"}}, nil
	}
	v := NewRegister(e.deps)

	_, err := v.Handle(ctx, "register", nil)
	require.NoError(t, err)

	assert.Contains(t, e.out.String(), "Registration successful!")
	assert.NotNil(t, e.session.Snapshot().User)
}

func TestRegister_SkipsBusinessNameForOtherTypes(t *testing.T) {
	answers := registrationAnswers("asha@example.tz")
	answers = append(answers[:10], append([]string{"individual"}, answers[12:]...)...)
	e := newEnv(t, answers...)
	v := NewRegister(e.deps)

	_, err := v.Handle(context.Background(), "register", nil)
	require.NoError(t, err)
	assert.NotContains(t, e.prompt.asked, "Business Name")
}

func TestDashboard_LoadFailureThenRetry(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signIn(t, taxpayerUser())
	e.api.DashboardSummaryFunc = func(context.Context) (*models.Summary, error) { return nil, errDown }
	stubPayments(e)

	v := NewDashboard(e.deps)
	require.NoError(t, v.Mount(ctx))
	defer v.Unmount()
	assert.Contains(t, e.out.String(), "Failed to load dashboard data. Please try again.")

	stubSummary(e, 1000)
	e.out.Reset()
	_, err := v.Handle(ctx, "retry", nil)
	require.NoError(t, err)
	out := e.out.String()
	assert.Contains(t, out, "TZS 1,000")
	assert.Contains(t, out, "Asha Mushi")
	assert.Contains(t, out, "19900101-12345-00001-22")
}

func TestDashboard_UnauthorizedPassesThrough(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, taxpayerUser())
	e.api.DashboardSummaryFunc = func(context.Context) (*models.Summary, error) {
		return nil, &client.APIError{Kind: client.ErrUnauthorized, StatusCode: 401}
	}
	stubPayments(e)

	v := NewDashboard(e.deps)
	err := v.Mount(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestDashboard_ShowsFiveMostRecent(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, taxpayerUser())
	stubSummary(e, 0)
	var ps []models.Payment
	for i := 1; i <= 7; i++ {
		ps = append(ps, models.Payment{ID: int64(100 + i), Amount: 10, Status: models.PaymentCompleted, CreatedAt: time.Now()})
	}
	stubPayments(e, ps...)

	v := NewDashboard(e.deps)
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	assert.Len(t, v.payments, 5)
	assert.Contains(t, e.out.String(), "#105")
	assert.NotContains(t, e.out.String(), "#106")
}

func TestDashboard_RefreshesOnPaymentSignal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signIn(t, taxpayerUser())
	stubSummary(e, 0)
	stubPayments(e)

	v := NewDashboard(e.deps)
	require.NoError(t, v.Mount(ctx))
	require.Equal(t, 1, e.api.Count("DashboardSummary"))

	require.NoError(t, crosstab.Publish(ctx, e.store, time.Now()))
	require.Eventually(t, func() bool {
		_, ok := e.store.Get(ctx, common.PaymentSubmittedKey)
		return !ok
	}, time.Second, 5*time.Millisecond)

	v.Unmount()
	// The poster appends from the watcher goroutine; Unmount waited for it.
	require.Len(t, e.posted, 1)

	// A refresh queued before unmount is dropped.
	require.NoError(t, e.posted[0](ctx))
	assert.Equal(t, 1, e.api.Count("DashboardSummary"))
}

func TestSummary_PostedRefreshReloads(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signIn(t, taxpayerUser())
	stubSummary(e, 500)

	v := NewSummary(e.deps)
	require.NoError(t, v.Mount(ctx))
	defer v.Unmount()

	require.NoError(t, crosstab.Publish(ctx, e.store, time.Now()))
	require.Eventually(t, func() bool {
		_, ok := e.store.Get(ctx, common.PaymentSubmittedKey)
		return !ok
	}, time.Second, 5*time.Millisecond)

	v.watch.stop()
	require.Len(t, e.posted, 1)
	v.watch.active = true
	require.NoError(t, e.posted[0](ctx))
	assert.Equal(t, 2, e.api.Count("DashboardSummary"))
	assert.Contains(t, e.out.String(), "Summary refreshed")
}

func TestPayment_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no amount", []string{"TXNABCDEFGHIJ", "abc"}, "Please enter a valid amount."},
		{"zero", []string{"TXNABCDEFGHIJ", "0"}, "Please enter a valid amount."},
		{"not a number", []string{"TXNABCDEFGHIJ", "NaN"}, "Please enter a valid amount."},
		{"infinite", []string{"TXNABCDEFGHIJ", "Inf"}, "Please enter a valid amount."},
		{"below outstanding", []string{"TXNABCDEFGHIJ", "100"}, "Amount must be at least TZS 1,500 (your outstanding balance)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.signIn(t, taxpayerUser())
			stubSummary(e, 1500)
			stubPayments(e)
			v := NewPayment(e.deps)
			require.NoError(t, v.Mount(context.Background()))

			_, err := v.Handle(context.Background(), "pay", tt.args)
			require.NoError(t, err)
			assert.Contains(t, e.out.String(), tt.want)
			assert.Zero(t, e.api.Count("PayWithControlNumber"))
		})
	}
}

func TestPayment_EmptyControlNumber(t *testing.T) {
	e := newEnv(t, "")
	e.signIn(t, taxpayerUser())
	stubSummary(e, 0)
	stubPayments(e)
	v := NewPayment(e.deps)
	require.NoError(t, v.Mount(context.Background()))

	_, err := v.Handle(context.Background(), "pay", nil)
	require.NoError(t, err)
	assert.Contains(t, e.out.String(), "Please enter a control number.")
}

func TestPayment_GenerateThenPay(t *testing.T) {
	ctx := context.Background()
	// Enter keeps the generated number; then the amount.
	e := newEnv(t, "", "1,500")
	e.signIn(t, taxpayerUser())
	stubSummary(e, 1500)
	stubPayments(e)
	e.api.GenerateControlNumberFunc = func(context.Context) (string, error) { return "TXNABCDEFGHIJ", nil }
	var paid struct {
		cn     string
		amount models.Amount
	}
	e.api.PayWithControlNumberFunc = func(_ context.Context, cn string, amount models.Amount) (*models.PaymentResult, error) {
		paid.cn, paid.amount = cn, amount
		return &models.PaymentResult{Message: "ok"}, nil
	}

	v := NewPayment(e.deps)
	require.NoError(t, v.Mount(ctx))
	_, err := v.Handle(ctx, "generate", nil)
	require.NoError(t, err)
	assert.Contains(t, e.out.String(), "TXNABCDEFGHIJ")

	_, err = v.Handle(ctx, "pay", nil)
	require.NoError(t, err)

	assert.Equal(t, "TXNABCDEFGHIJ", paid.cn)
	assert.Equal(t, models.Amount(1500), paid.amount)
	assert.Contains(t, e.out.String(), "Payment submitted! Awaiting admin verification.")

	at, ok := crosstab.Consume(ctx, e.store)
	require.True(t, ok)
	assert.Equal(t, int64(1_700_000_000_000), at.UnixMilli())
	assert.Empty(t, v.generated)
}

func TestPayment_ServerRejects(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signIn(t, taxpayerUser())
	stubSummary(e, 0)
	stubPayments(e)
	e.api.PayWithControlNumberFunc = func(context.Context, string, models.Amount) (*models.PaymentResult, error) {
		return nil, &client.APIError{Kind: client.ErrNetworkOrServer, StatusCode: 400, Message: "Invalid control number."}
	}
	v := NewPayment(e.deps)
	require.NoError(t, v.Mount(ctx))

	_, err := v.Handle(ctx, "pay", []string{"txnbad", "10"})
	require.NoError(t, err)
	assert.Contains(t, e.out.String(), "Invalid control number.")
	_, ok := e.store.Get(ctx, common.PaymentSubmittedKey)
	assert.False(t, ok)
}

func TestPayment_GenerateFailure(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, taxpayerUser())
	stubSummary(e, 0)
	stubPayments(e)
	e.api.GenerateControlNumberFunc = func(context.Context) (string, error) { return "", errDown }
	v := NewPayment(e.deps)
	require.NoError(t, v.Mount(context.Background()))

	_, err := v.Handle(context.Background(), "generate", nil)
	require.NoError(t, err)
	assert.Contains(t, e.out.String(), "Failed to generate control number.")
}

func TestProfile_EditSendsChangedFieldsAndUpdatesSession(t *testing.T) {
	ctx := context.Background()
	// First name changes, everything else is kept.
	e := newEnv(t, "Amina", "", "", "", "", "", "", "", "")
	e.signIn(t, taxpayerUser())
	current := &models.Profile{FirstName: "Asha", LastName: "Mushi", Ward: "Kijitonyama"}
	e.api.ProfileFunc = func(context.Context) (*models.Profile, error) { return current, nil }
	var sent models.ProfileUpdate
	e.api.UpdateProfileFunc = func(_ context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
		sent = upd
		p := *current
		p.FirstName = *upd.FirstName
		return &p, nil
	}

	v := NewProfile(e.deps)
	require.NoError(t, v.Mount(ctx))
	_, err := v.Handle(ctx, "edit", nil)
	require.NoError(t, err)

	require.NotNil(t, sent.FirstName)
	assert.Equal(t, "Amina", *sent.FirstName)
	assert.Nil(t, sent.LastName)
	assert.Nil(t, sent.Ward)
	assert.Equal(t, "Amina Mushi", e.session.Snapshot().User.FullName)
	assert.Contains(t, e.out.String(), "Profile updated successfully!")
}

func TestProfile_NothingChanged(t *testing.T) {
	e := newEnv(t, "", "", "", "", "", "", "", "", "")
	e.signIn(t, taxpayerUser())
	e.api.ProfileFunc = func(context.Context) (*models.Profile, error) { return &models.Profile{FirstName: "Asha"}, nil }

	v := NewProfile(e.deps)
	require.NoError(t, v.Mount(context.Background()))
	_, err := v.Handle(context.Background(), "edit", nil)
	require.NoError(t, err)

	assert.Zero(t, e.api.Count("UpdateProfile"))
	last, _ := e.notes.Last()
	assert.Equal(t, notify.LevelInfo, last.Level)
}

func TestProfile_NotFound(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, taxpayerUser())
	e.api.ProfileFunc = func(context.Context) (*models.Profile, error) {
		return nil, &client.APIError{Kind: client.ErrNetworkOrServer, StatusCode: 404, Message: "Profile not found"}
	}

	v := NewProfile(e.deps)
	require.NoError(t, v.Mount(context.Background()))
	assert.Contains(t, e.out.String(), "Profile not found")
}

func adminEnv(t *testing.T, answers ...string) *env {
	e := newEnv(t, answers...)
	e.signIn(t, &models.User{ID: 1, Email: "admin@example.tz", Role: models.RoleAdministrator})
	e.api.AdminMetricsFunc = func(context.Context) (*models.AdminMetrics, error) {
		return &models.AdminMetrics{TotalRegisteredTaxpayers: 3, TotalTaxAssessed: 750000}, nil
	}
	e.api.ListPaymentsFunc = func(context.Context) ([]models.Payment, error) {
		return []models.Payment{
			{ID: 11, Amount: 1000, Status: models.PaymentPending, ControlNumber: "TXNAAAAAAAAAA"},
			{ID: 12, Amount: 2000, Status: models.PaymentCompleted},
		}, nil
	}
	e.api.ListUsersFunc = func(_ context.Context, search string) ([]models.User, error) {
		users := []models.User{
			{ID: 7, Email: "asha@example.tz", Role: models.RoleTaxpayer, AccountStatus: models.AccountActive},
			{ID: 8, Email: "juma@example.tz", Role: models.RoleTaxpayer, AccountStatus: models.AccountInactive},
		}
		if search != "" {
			return users[:1], nil
		}
		return users, nil
	}
	e.api.UnpaidUsersFunc = func(context.Context) ([]models.TaxAccount, error) {
		return []models.TaxAccount{
			{ID: 1, Email: "asha@example.tz", TotalTaxDue: 250000, PaidAmount: 50000, OutstandingBalance: 200000, Status: "Active"},
			{ID: 2, Email: "juma@example.tz", TotalTaxDue: 100000, OutstandingBalance: 100000, Status: "Active"},
		}, nil
	}
	return e
}

func TestAdmin_MountShowsPendingOnly(t *testing.T) {
	e := adminEnv(t)
	v := NewAdmin(e.deps)
	require.NoError(t, v.Mount(context.Background()))

	require.Len(t, v.pending, 1)
	assert.Equal(t, int64(11), v.pending[0].ID)
	out := e.out.String()
	assert.Contains(t, out, "TZS 750,000")
	assert.Contains(t, out, "2 accounts with an outstanding balance")
}

func TestAdmin_ApproveAndReject(t *testing.T) {
	ctx := context.Background()
	e := adminEnv(t, "Wrong amount")
	var approved, rejected int64
	var reason string
	e.api.ApprovePaymentFunc = func(_ context.Context, id int64) (*models.PaymentResult, error) {
		approved = id
		return &models.PaymentResult{}, nil
	}
	e.api.RejectPaymentFunc = func(_ context.Context, id int64, r string) (*models.PaymentResult, error) {
		rejected, reason = id, r
		return &models.PaymentResult{Message: "Payment rejected"}, nil
	}
	v := NewAdmin(e.deps)
	require.NoError(t, v.Mount(ctx))

	_, err := v.Handle(ctx, "approve", []string{"#11"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), approved)
	last, _ := e.notes.Last()
	assert.Equal(t, notify.Entry{Level: notify.LevelSuccess, Title: "Payment approved."}, last)

	_, err = v.Handle(ctx, "reject", []string{"11"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), rejected)
	assert.Equal(t, "Wrong amount", reason)
	last, _ = e.notes.Last()
	assert.Equal(t, "Payment rejected", last.Title)

	_, err = v.Handle(ctx, "approve", []string{"abc"})
	require.NoError(t, err)
	assert.Contains(t, e.out.String(), `Invalid id "abc".`)
}

func TestAdmin_ActionErrorIsAlert(t *testing.T) {
	e := adminEnv(t)
	e.api.MarkPaymentPaidFunc = func(context.Context, int64) (*models.PaymentResult, error) {
		return nil, &client.APIError{Kind: client.ErrNetworkOrServer, StatusCode: 400, Message: "Only approved payments can be marked as paid."}
	}
	v := NewAdmin(e.deps)
	require.NoError(t, v.Mount(context.Background()))

	_, err := v.Handle(context.Background(), "mark-paid", []string{"11"})
	require.NoError(t, err)
	last, _ := e.notes.Last()
	assert.Equal(t, notify.LevelError, last.Level)
	assert.Equal(t, "Only approved payments can be marked as paid.", last.Text)
}

func TestUsers_ToggleConfirmed(t *testing.T) {
	ctx := context.Background()
	e := adminEnv(t, "yes")
	var status string
	e.api.UpdateUserStatusFunc = func(_ context.Context, id int64, s string) error {
		assert.Equal(t, int64(7), id)
		status = s
		return nil
	}
	v := NewUsers(e.deps)
	require.NoError(t, v.Mount(ctx))

	_, err := v.Handle(ctx, "toggle", []string{"7"})
	require.NoError(t, err)

	assert.Equal(t, models.AccountInactive, status)
	entries := e.notes.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, notify.Entry{Level: notify.LevelQuestion, Title: "Deactivate User", Text: `Are you sure you want to deactivate "asha@example.tz"?`}, entries[0])
	assert.Equal(t, notify.Entry{Level: notify.LevelSuccess, Title: "User Deactivated", Text: "asha@example.tz has been deactivated successfully."}, entries[1])
}

func TestUsers_ToggleCancelled(t *testing.T) {
	e := adminEnv(t, "cancel")
	v := NewUsers(e.deps)
	require.NoError(t, v.Mount(context.Background()))

	_, err := v.Handle(context.Background(), "toggle", []string{"8"})
	require.NoError(t, err)
	assert.Zero(t, e.api.Count("UpdateUserStatus"))
}

func TestUsers_DeleteFailure(t *testing.T) {
	e := adminEnv(t, "y")
	e.api.DeleteUserFunc = func(context.Context, int64) error {
		return &client.APIError{Kind: client.ErrNetworkOrServer, StatusCode: 400, Message: "You cannot delete your own account."}
	}
	v := NewUsers(e.deps)
	require.NoError(t, v.Mount(context.Background()))

	_, err := v.Handle(context.Background(), "delete", []string{"8"})
	require.NoError(t, err)
	last, _ := e.notes.Last()
	assert.Equal(t, notify.Entry{Level: notify.LevelError, Title: "Delete Failed", Text: "You cannot delete your own account."}, last)
}

func TestUsers_SearchAndUnknownID(t *testing.T) {
	ctx := context.Background()
	e := adminEnv(t)
	v := NewUsers(e.deps)
	require.NoError(t, v.Mount(ctx))

	_, err := v.Handle(ctx, "search", []string{"asha"})
	require.NoError(t, err)
	assert.Len(t, v.users, 1)

	_, err = v.Handle(ctx, "delete", []string{"8"})
	require.NoError(t, err)
	assert.Contains(t, e.out.String(), "No user #8 in the list.")
	assert.Zero(t, e.api.Count("DeleteUser"))
}

func TestUnpaid_Totals(t *testing.T) {
	e := adminEnv(t)
	v := NewUnpaid(e.deps)
	require.NoError(t, v.Mount(context.Background()))

	out := e.out.String()
	assert.Contains(t, out, "TZS 300,000")
	assert.Contains(t, out, "juma@example.tz")
}

func TestUnpaid_LoadError(t *testing.T) {
	e := adminEnv(t)
	e.api.UnpaidUsersFunc = func(context.Context) ([]models.TaxAccount, error) { return nil, errors.New("boom") }
	v := NewUnpaid(e.deps)
	require.NoError(t, v.Mount(context.Background()))
	assert.Contains(t, e.out.String(), "Failed to load unpaid accounts.")
}
