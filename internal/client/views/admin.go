package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/notify"
)

const recentUsers = 5

// Admin is the administrator home page: metrics, the payment review queue,
// recent users and the unpaid count.
type Admin struct {
	d Deps

	metrics *models.AdminMetrics
	pending []models.Payment
	users   []models.User
	unpaid  []models.TaxAccount
	loadErr string
}

func NewAdmin(d Deps) *Admin {
	return &Admin{d: d}
}

func (v *Admin) Mount(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	v.Render()
	return nil
}

func (v *Admin) load(ctx context.Context) error {
	var (
		metrics  *models.AdminMetrics
		payments []models.Payment
		users    []models.User
		unpaid   []models.TaxAccount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		metrics, err = v.d.API.AdminMetrics(gctx)
		return err
	})
	g.Go(func() (err error) {
		payments, err = v.d.API.ListPayments(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = v.d.API.ListUsers(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		unpaid, err = v.d.API.UnpaidUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Log.Warn(ctx, "admin data load failed", "error", err)
		v.loadErr = "Failed to load admin data."
		return nil
	}

	v.loadErr = ""
	v.metrics = metrics
	v.pending = v.pending[:0]
	for _, p := range payments {
		if p.Status == models.PaymentPending {
			v.pending = append(v.pending, p)
		}
	}
	if len(users) > recentUsers {
		users = users[:recentUsers]
	}
	v.users = users
	v.unpaid = unpaid
	return nil
}

func (v *Admin) Render() {
	w := v.d.Out
	heading(w, "Admin Dashboard")
	if v.loadErr != "" {
		formError(w, v.loadErr)
		muted(w, "Type 'refresh' to try again.")
		return
	}

	if m := v.metrics; m != nil {
		cards(w,
			card{"Total Registered Taxpayers", strconv.Itoa(m.TotalRegisteredTaxpayers)},
			card{"Total Properties/Businesses", strconv.Itoa(m.TotalPropertiesBusinesses)},
			card{"Total Tax Assessed", Money(m.TotalTaxAssessed)},
			card{"Total Revenue Collected", Money(m.TotalRevenueCollected)},
			card{"Outstanding Tax Amount", Money(m.OutstandingTaxAmount)},
			card{"Overdue Accounts", strconv.Itoa(m.OverdueAccounts)},
		)
	}

	section(w, "Payments Awaiting Review")
	if len(v.pending) == 0 {
		muted(w, "Nothing to review.")
	} else {
		paymentTable(w, v.pending)
		muted(w, "Type 'approve <id>', 'reject <id> [reason]' or 'mark-paid <id>'.")
	}

	section(w, "Recent Users")
	userTable(w, v.users)

	section(w, "Unpaid Users")
	fmt.Fprintf(w, "  %d accounts with an outstanding balance. Type 'go /unpaid' for details.\n", len(v.unpaid))
}

func (v *Admin) Commands() []Command {
	return []Command{
		{Name: "approve", Args: "<id>", Help: "approve a pending payment"},
		{Name: "reject", Args: "<id> [reason]", Help: "reject a pending payment"},
		{Name: "mark-paid", Args: "<id>", Help: "mark a payment as paid"},
		{Name: "refresh", Help: "reload the dashboard"},
	}
}

func (v *Admin) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	switch cmd {
	case "approve":
		return true, v.act(ctx, args, "Payment approved.", func(id int64) (*models.PaymentResult, error) {
			return v.d.API.ApprovePayment(ctx, id)
		})
	case "reject":
		return true, v.reject(ctx, args)
	case "mark-paid":
		return true, v.act(ctx, args, "Payment marked as paid.", func(id int64) (*models.PaymentResult, error) {
			return v.d.API.MarkPaymentPaid(ctx, id)
		})
	case "refresh", "retry":
		if err := v.load(ctx); err != nil {
			return true, err
		}
		v.Render()
		return true, nil
	default:
		return false, nil
	}
}

func (v *Admin) Unmount() {}

func (v *Admin) reject(ctx context.Context, args []string) error {
	reason := ""
	if len(args) > 1 {
		reason = strings.Join(args[1:], " ")
	} else if len(args) == 1 {
		var err error
		if reason, err = v.d.Prompt.Ask(ctx, "Rejection reason"); err != nil {
			return err
		}
	}
	return v.act(ctx, args[:min(len(args), 1)], "Payment rejected.", func(id int64) (*models.PaymentResult, error) {
		return v.d.API.RejectPayment(ctx, id, strings.TrimSpace(reason))
	})
}

func (v *Admin) act(ctx context.Context, args []string, done string, fn func(id int64) (*models.PaymentResult, error)) error {
	id, ok := parseID(v.d, args)
	if !ok {
		return nil
	}
	res, err := fn(id)
	if err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Notify.Error("", client.Message(err, ""))
		return nil
	}
	msg := done
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	v.d.Notify.Toast(notify.LevelSuccess, msg)
	if err := v.load(ctx); err != nil {
		return err
	}
	v.Render()
	return nil
}

func parseID(d Deps, args []string) (int64, bool) {
	if len(args) == 0 {
		formError(d.Out, "An id is required.")
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		formError(d.Out, fmt.Sprintf("Invalid id %q.", args[0]))
		return 0, false
	}
	return id, true
}
