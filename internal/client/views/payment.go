package views

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/crosstab"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// Payment lets a taxpayer generate a control number and pay with it.
type Payment struct {
	d Deps

	summary   *models.Summary
	payments  []models.Payment
	generated string

	message string
	failed  bool
}

func NewPayment(d Deps) *Payment {
	return &Payment{d: d}
}

func (v *Payment) Mount(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	v.Render()
	return nil
}

func (v *Payment) load(ctx context.Context) error {
	var (
		summary  *models.Summary
		payments []models.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, err = v.d.API.ListPayments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = v.d.API.DashboardSummary(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Log.Warn(ctx, "payment data load failed", "error", err)
		return nil
	}
	v.summary = summary
	v.payments = payments
	return nil
}

func (v *Payment) outstanding() models.Amount {
	if v.summary == nil {
		return 0
	}
	return v.summary.OutstandingBalance
}

func (v *Payment) Render() {
	w := v.d.Out
	heading(w, "Payments")

	if v.summary != nil {
		cards(w,
			card{"Total Tax Due", Money(v.summary.TotalTaxDue)},
			card{"Paid Amount", Money(v.summary.PaidAmount)},
			card{"Outstanding", Money(v.outstanding())},
			card{"Next Payment Due", Date(v.summary.NextPaymentDueDate)},
		)
	}

	section(w, "Make a Payment")
	fmt.Fprintln(w, "  1. Type 'generate' to get a control number.")
	fmt.Fprintln(w, "  2. Type 'pay [control-number] [amount]' to pay with it.")
	if v.outstanding() > 0 {
		fmt.Fprintf(w, "  Outstanding balance: %s\n", errorStyle.Render(Money(v.outstanding())))
	}
	if v.generated != "" {
		fmt.Fprintf(w, "  Your control number: %s\n", valueStyle.Render(v.generated))
	}
	v.printMessage()

	section(w, "Payment History")
	if len(v.payments) == 0 {
		muted(w, "No payments yet.")
		return
	}
	paymentTable(w, v.payments)
}

func (v *Payment) printMessage() {
	switch {
	case v.message == "":
	case v.failed:
		formError(v.d.Out, v.message)
	default:
		formOK(v.d.Out, v.message)
	}
}

func (v *Payment) Commands() []Command {
	return []Command{
		{Name: "generate", Help: "generate a control number"},
		{Name: "pay", Args: "[control-number] [amount]", Help: "pay with a control number"},
		{Name: "refresh", Help: "reload payments"},
	}
}

func (v *Payment) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	switch cmd {
	case "generate":
		return true, v.generate(ctx)
	case "pay":
		return true, v.pay(ctx, args)
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

func (v *Payment) Unmount() {}

func (v *Payment) setMessage(msg string, failed bool) {
	v.message, v.failed = msg, failed
	v.printMessage()
}

func (v *Payment) generate(ctx context.Context) error {
	v.message = ""
	cn, err := v.d.API.GenerateControlNumber(ctx)
	if err != nil {
		if passthrough(err) {
			return err
		}
		v.setMessage(client.Message(err, "Failed to generate control number."), true)
		return nil
	}
	v.generated = cn
	fmt.Fprintf(v.d.Out, "Your control number: %s\n", valueStyle.Render(cn))
	return nil
}

func (v *Payment) pay(ctx context.Context, args []string) error {
	v.message = ""

	cn, amountText := "", ""
	if len(args) > 0 {
		cn = args[0]
	}
	if len(args) > 1 {
		amountText = args[1]
	}

	var err error
	if cn == "" {
		if cn, _, err = askDefault(ctx, v.d, "Control Number", v.generated); err != nil {
			return err
		}
	}
	cn = strings.ToUpper(strings.TrimSpace(cn))
	if cn == "" {
		v.setMessage("Please enter a control number.", true)
		return nil
	}

	if amountText == "" {
		label := "Amount (TZS)"
		if o := v.outstanding(); o > 0 {
			label = fmt.Sprintf("Amount (TZS, min: %s)", strings.TrimPrefix(Money(o), "TZS "))
		}
		if amountText, err = v.d.Prompt.Ask(ctx, label); err != nil {
			return err
		}
	}
	amount, err := models.ParseAmount(amountText)
	if err != nil || amount <= 0 {
		v.setMessage("Please enter a valid amount.", true)
		return nil
	}
	if o := v.outstanding(); o > 0 && amount < o {
		v.setMessage(fmt.Sprintf("Amount must be at least %s (your outstanding balance).", Money(o)), true)
		return nil
	}

	if _, err := v.d.API.PayWithControlNumber(ctx, cn, amount); err != nil {
		if passthrough(err) {
			return err
		}
		v.setMessage(client.Message(err, "Payment failed. Please check your control number and try again."), true)
		return nil
	}

	v.generated = ""
	if err := crosstab.Publish(ctx, v.d.Store, v.d.now()); err != nil {
		v.d.Log.Warn(ctx, "publishing payment signal failed", "error", err)
	}
	v.d.Log.Info(ctx, "payment submitted", "control_number", cn)

	if err := v.load(ctx); err != nil {
		return err
	}
	v.message, v.failed = "Payment submitted! Awaiting admin verification. Your account will be updated once approved.", false
	v.Render()
	return nil
}
