package views

import (
	"context"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// Summary shows the tax account totals and follows payment signals like
// the dashboard does.
type Summary struct {
	d     Deps
	watch paymentWatch

	summary *models.Summary
	loadErr string
}

func NewSummary(d Deps) *Summary {
	return &Summary{d: d}
}

func (v *Summary) Mount(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	v.watch.start(ctx, v.d, v.refresh)
	v.Render()
	return nil
}

func (v *Summary) load(ctx context.Context) error {
	s, err := v.d.API.DashboardSummary(ctx)
	if err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Log.Warn(ctx, "summary load failed", "error", err)
		v.loadErr = "Failed to load tax summary."
		return nil
	}
	v.loadErr = ""
	v.summary = s
	return nil
}

func (v *Summary) refresh(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	muted(v.d.Out, "A payment was submitted. Summary refreshed.")
	v.Render()
	return nil
}

func (v *Summary) Render() {
	heading(v.d.Out, "Tax Summary")
	if v.loadErr != "" {
		formError(v.d.Out, v.loadErr)
		muted(v.d.Out, "Type 'refresh' to try again.")
		return
	}
	s := v.summary
	if s == nil {
		s = &models.Summary{}
	}
	summaryCards(v.d.Out, s)
}

func (v *Summary) Commands() []Command {
	return []Command{{Name: "refresh", Help: "reload the summary"}}
}

func (v *Summary) Handle(ctx context.Context, cmd string, _ []string) (bool, error) {
	if cmd != "refresh" && cmd != "retry" {
		return false, nil
	}
	if err := v.load(ctx); err != nil {
		return true, err
	}
	v.Render()
	return true, nil
}

func (v *Summary) Unmount() {
	v.watch.stop()
}
