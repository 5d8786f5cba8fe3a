package views

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/router"
)

const recentPayments = 5

// Dashboard is the taxpayer home page.
type Dashboard struct {
	d     Deps
	watch paymentWatch

	summary  *models.Summary
	payments []models.Payment
	loadErr  string
}

func NewDashboard(d Deps) *Dashboard {
	return &Dashboard{d: d}
}

func (v *Dashboard) Mount(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	v.watch.start(ctx, v.d, v.refresh)
	v.Render()
	return nil
}

func (v *Dashboard) load(ctx context.Context) error {
	var (
		summary  *models.Summary
		payments []models.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = v.d.API.DashboardSummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = v.d.API.ListPayments(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Log.Warn(ctx, "dashboard load failed", "error", err)
		v.loadErr = "Failed to load dashboard data. Please try again."
		return nil
	}

	v.loadErr = ""
	v.summary = summary
	if len(payments) > recentPayments {
		payments = payments[:recentPayments]
	}
	v.payments = payments
	return nil
}

func (v *Dashboard) refresh(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	muted(v.d.Out, "A payment was submitted. Dashboard refreshed.")
	v.Render()
	return nil
}

func (v *Dashboard) Render() {
	w := v.d.Out
	heading(w, "Dashboard")
	if v.loadErr != "" {
		formError(w, v.loadErr)
		muted(w, "Type 'retry' to try again.")
		return
	}

	user := v.d.Session.Snapshot().User
	var profile *models.Profile
	if user != nil {
		fmt.Fprintf(w, "%s  %s\n", valueStyle.Render(user.DisplayName()), badge(user.Role.String()))
		profile = user.Profile
	}

	s := v.summary
	if s == nil {
		s = &models.Summary{}
	}
	section(w, "Tax Summary")
	summaryCards(w, s)

	section(w, "Tax Account Details")
	if profile == nil {
		profile = &models.Profile{}
	}
	cards(w,
		card{"Tax Type", "Property Tax"},
		card{"National ID", NA(profile.NationalID)},
		card{"Mobile Phone", NA(profile.MobilePhone)},
		card{"Ward", NA(profile.Ward)},
		card{"Street/Village", NA(profile.StreetVillage)},
		card{"House Number", NA(profile.HouseNumber)},
	)

	section(w, "Recent Payments")
	if len(v.payments) == 0 {
		muted(w, "No payments yet.")
	} else {
		paymentTable(w, v.payments)
	}
	muted(w, "Type 'go "+router.PaymentPath+"' to view all payments.")
}

func (v *Dashboard) Commands() []Command {
	return []Command{
		{Name: "retry", Help: "reload the dashboard"},
		{Name: "refresh", Help: "reload the dashboard"},
	}
}

func (v *Dashboard) Handle(ctx context.Context, cmd string, _ []string) (bool, error) {
	switch cmd {
	case "retry", "refresh":
		if err := v.load(ctx); err != nil {
			return true, err
		}
		v.Render()
		return true, nil
	default:
		return false, nil
	}
}

func (v *Dashboard) Unmount() {
	v.watch.stop()
}

func summaryCards(w io.Writer, s *models.Summary) {
	cards(w,
		card{"Total Tax Due", Money(s.TotalTaxDue)},
		card{"Paid Amount", Money(s.PaidAmount)},
		card{"Outstanding Balance", Money(s.OutstandingBalance)},
		card{"Next Payment Due", Date(s.NextPaymentDueDate)},
		card{"Account Status", badge(NA(s.Status))},
	)
}

func paymentTable(w io.Writer, ps []models.Payment) {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{
			fmt.Sprintf("#%d", p.ID),
			p.CreatedAt.Format("02 Jan 2006"),
			p.Reference(),
			Money(p.Amount),
			p.PaymentMethod,
			badge(string(p.Status)),
		})
	}
	table(w, []string{"ID", "Date", "Reference", "Amount", "Method", "Status"}, rows)
}
