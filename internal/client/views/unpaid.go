package views

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// Unpaid lists tax accounts with an outstanding balance.
type Unpaid struct {
	d        Deps
	accounts []models.TaxAccount
	loadErr  string
}

func NewUnpaid(d Deps) *Unpaid {
	return &Unpaid{d: d}
}

func (v *Unpaid) Mount(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	v.Render()
	return nil
}

func (v *Unpaid) load(ctx context.Context) error {
	list, err := v.d.API.UnpaidUsers(ctx)
	if err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Log.Warn(ctx, "unpaid list failed", "error", err)
		v.loadErr = client.Message(err, "Failed to load unpaid accounts.")
		return nil
	}
	v.loadErr = ""
	v.accounts = list
	return nil
}

func (v *Unpaid) Render() {
	w := v.d.Out
	heading(w, "Unpaid Accounts")
	if v.loadErr != "" {
		formError(w, v.loadErr)
		return
	}
	if len(v.accounts) == 0 {
		muted(w, "Every account is paid up.")
		return
	}

	var due, paid, outstanding models.Amount
	rows := make([][]string, 0, len(v.accounts))
	for _, a := range v.accounts {
		due += a.TotalTaxDue
		paid += a.PaidAmount
		outstanding += a.OutstandingBalance
		rows = append(rows, []string{
			a.Email,
			NA(a.TaxTypeName),
			Money(a.TotalTaxDue),
			Money(a.PaidAmount),
			Money(a.OutstandingBalance),
			badge(NA(a.Status)),
		})
	}
	table(w, []string{"Email", "Tax Type", "Total Due", "Paid", "Outstanding", "Status"}, rows)

	section(w, "Summary")
	cards(w,
		card{"Accounts", fmt.Sprintf("%d", len(v.accounts))},
		card{"Total Due", Money(due)},
		card{"Total Paid", Money(paid)},
		card{"Total Outstanding", Money(outstanding)},
	)
}

func (v *Unpaid) Commands() []Command {
	return []Command{{Name: "refresh", Help: "reload the list"}}
}

func (v *Unpaid) Handle(ctx context.Context, cmd string, _ []string) (bool, error) {
	if cmd != "refresh" && cmd != "retry" {
		return false, nil
	}
	if err := v.load(ctx); err != nil {
		return true, err
	}
	v.Render()
	return true, nil
}

func (v *Unpaid) Unmount() {}
