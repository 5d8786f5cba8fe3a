package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/notify"
	"github.com/dmitrijs2005/taxdesk/internal/client/router"
	"github.com/dmitrijs2005/taxdesk/internal/client/services"
	"github.com/dmitrijs2005/taxdesk/internal/common"
)

// mailbox queues work for the event loop. post never blocks, so a watcher
// can always post and then be stopped by the loop.
type mailbox struct {
	mu    sync.Mutex
	queue []func(ctx context.Context) error
	wake  chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{wake: make(chan struct{}, 1)}
}

func (m *mailbox) post(fn func(ctx context.Context) error) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *mailbox) take() []func(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queue
	m.queue = nil
	return q
}

// flush runs queued work, including work queued while it runs. It reports
// whether anything ran.
func (a *App) flush(ctx context.Context) bool {
	ran := false
	for {
		q := a.mail.take()
		if len(q) == 0 {
			return ran
		}
		ran = true
		for _, fn := range q {
			a.handleErr(ctx, fn(ctx))
		}
	}
}

// loop is the read–eval–print loop. Background work posted to the mailbox
// runs between commands, or while the user has not typed anything yet.
func (a *App) loop(ctx context.Context) error {
	a.flush(ctx)
	for {
		fmt.Fprint(a.out, a.promptText())
		pending := a.term.request(false)

	wait:
		for {
			select {
			case <-ctx.Done():
				return nil

			case <-a.mail.wake:
				if a.flush(ctx) {
					fmt.Fprint(a.out, a.promptText())
				}

			case res := <-pending:
				if res.err != nil {
					if errors.Is(res.err, io.EOF) {
						fmt.Fprintln(a.out, "\nBye!")
						return nil
					}
					return fmt.Errorf("reading command: %w", res.err)
				}
				if quit := a.exec(ctx, res.line); quit {
					fmt.Fprintln(a.out, "Bye!")
					return nil
				}
				a.flush(ctx)
				break wait
			}
		}
	}
}

func (a *App) promptText() string {
	s := a.router.Current().Path
	if u := a.session.Snapshot().User; u != nil {
		s += " " + u.Email
	}
	if a.mode == ModeOffline {
		s += " offline"
	}
	return fmt.Sprintf("taxdesk (%s)> ", s)
}

// exec runs one command line and reports whether the user asked to quit.
func (a *App) exec(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "exit", "quit":
		return true

	case "help", "?":
		a.help()

	case "go", "open":
		if len(args) == 0 {
			fmt.Fprintln(a.out, "Usage: go <path>")
			return false
		}
		a.router.Navigate(ctx, args[0])

	case "nav":
		a.nav()

	case "status":
		a.status(ctx)

	case "reload":
		a.router.Reload(ctx)

	case "refresh-session":
		a.handleErr(ctx, a.session.Refresh(ctx))

	case "renew":
		err := a.session.RenewTokens(ctx)
		switch {
		case err == nil:
			a.notify.Toast(notify.LevelSuccess, "Session renewed.")
		case errors.Is(err, services.ErrNoCredentials):
			fmt.Fprintln(a.out, "You are not signed in.")
		default:
			a.handleErr(ctx, err)
		}

	case "logout":
		a.session.Logout(ctx)

	default:
		if a.view != nil {
			if handled, err := a.view.Handle(ctx, cmd, args); handled {
				a.handleErr(ctx, err)
				return false
			}
		}
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
	return false
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Commands:")
	if a.view != nil {
		for _, c := range a.view.Commands() {
			usage := strings.TrimSpace(c.Name + " " + c.Args)
			fmt.Fprintf(a.out, "  %-26s %s\n", usage, c.Help)
		}
	}
	global := [][2]string{
		{"go <path>", "open a page"},
		{"nav", "list the pages you can open"},
		{"status", "show who is signed in"},
		{"reload", "re-open the current page"},
	}
	if a.session.Snapshot().User != nil {
		global = append(global,
			[2]string{"refresh-session", "re-fetch your account"},
			[2]string{"renew", "renew your session tokens"},
			[2]string{"logout", "sign out"},
		)
	}
	global = append(global, [2]string{"exit", "leave the program"})
	for _, g := range global {
		fmt.Fprintf(a.out, "  %-26s %s\n", g[0], g[1])
	}
}

func (a *App) nav() {
	u := a.session.Snapshot().User
	if u == nil {
		fmt.Fprintf(a.out, "  %-12s %s\n  %-12s %s\n", router.LoginPath, "Login", router.RegisterPath, "Register")
		return
	}
	current := a.router.Current().Path
	for _, r := range router.Nav(u.Role) {
		marker := " "
		if r.Path == current {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %-12s %s\n", marker, r.Path, r.Title)
	}
}

func (a *App) status(ctx context.Context) {
	s := a.session.Snapshot()
	switch {
	case s.Loading:
		fmt.Fprintln(a.out, "Resolving session...")
	case s.User == nil:
		fmt.Fprintln(a.out, "Not signed in.")
	default:
		fmt.Fprintf(a.out, "Signed in as %s (%s)\n", s.User.Email, s.User.Role)
		if tok, ok := a.store.Get(ctx, common.AccessTokenKey); ok {
			if exp, err := client.TokenExpiry(tok); err == nil {
				verb := "expires"
				if exp.Before(time.Now()) {
					verb = "expired"
				}
				fmt.Fprintf(a.out, "Access token %s %s\n", verb, humanize.Time(exp))
			}
		}
	}
	if a.mode != "" {
		fmt.Fprintf(a.out, "API: %s (%s)\n", a.mode, a.config.APIBaseURL)
	}
}
