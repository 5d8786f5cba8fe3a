// Package crosstab passes the "payment submitted" signal between client
// processes that share one credential store.
//
// The signal is a single key holding a millisecond timestamp. Whoever reads
// it first removes it, so each submission triggers at most one refresh.
package crosstab

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

// DefaultInterval is how often a Watcher polls.
const DefaultInterval = time.Second

// Publish records that a payment was just submitted.
func Publish(ctx context.Context, store credentials.Store, now time.Time) error {
	return store.Set(ctx, common.PaymentSubmittedKey, strconv.FormatInt(now.UnixMilli(), 10))
}

// Consume takes the pending signal, if any. A value that is not a timestamp
// still counts as a signal and reports the zero time.
func Consume(ctx context.Context, store credentials.Store) (time.Time, bool) {
	v, ok := store.Take(ctx, common.PaymentSubmittedKey)
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, true
	}
	return time.UnixMilli(ms), true
}

// Watcher polls for the signal until stopped.
type Watcher struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start clears any stale signal and then polls store every interval,
// calling onSignal from the polling goroutine for each signal consumed.
// Stop must be called when the owner goes away.
func Start(ctx context.Context, store credentials.Store, interval time.Duration, log logging.Logger, onSignal func(at time.Time)) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	Consume(ctx, store)

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Debug(ctx, "payment signal watcher started", "interval", interval.String())
		for {
			select {
			case <-ctx.Done():
				log.Debug(context.Background(), "payment signal watcher stopped")
				return
			case <-ticker.C:
				if at, ok := Consume(ctx, store); ok {
					log.Info(ctx, "payment signal received", "at", at.Format(time.RFC3339))
					onSignal(at)
				}
			}
		}
	}()

	return w
}

// Stop ends polling and waits for the goroutine to exit. It is safe to call
// more than once.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		w.cancel()
		<-w.done
	})
}
