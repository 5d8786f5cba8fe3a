package views

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/crosstab"
)

// paymentWatch reloads a view when another client submits a payment. It
// lives from Mount to Unmount of its view.
type paymentWatch struct {
	w      *crosstab.Watcher
	active bool
}

func (p *paymentWatch) start(ctx context.Context, d Deps, reload func(ctx context.Context) error) {
	p.stop()
	p.active = true
	p.w = crosstab.Start(ctx, d.Store, d.PollInterval, d.Log, func(time.Time) {
		d.Post(func(ctx context.Context) error {
			// The view may have been torn down while this was queued.
			if !p.active {
				return nil
			}
			return reload(ctx)
		})
	})
}

func (p *paymentWatch) stop() {
	p.active = false
	p.w.Stop()
	p.w = nil
}
