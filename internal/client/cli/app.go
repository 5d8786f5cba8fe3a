package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/config"
	"github.com/dmitrijs2005/taxdesk/internal/client/notify"
	"github.com/dmitrijs2005/taxdesk/internal/client/repositories"
	"github.com/dmitrijs2005/taxdesk/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/taxdesk/internal/client/router"
	"github.com/dmitrijs2005/taxdesk/internal/client/services"
	"github.com/dmitrijs2005/taxdesk/internal/client/views"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

// Mode is the last known reachability of the API.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// App is one client session: the terminal equivalent of a browser tab.
type App struct {
	config  *config.Config
	log     logging.Logger
	api     client.Client
	store   credentials.Store
	session *services.SessionManager
	router  *router.Router
	notify  notify.Notifier
	term    *terminal
	out     io.Writer
	mail    *mailbox

	view views.View
	mode Mode

	closers []io.Closer
}

// NewApp opens the local database and builds every component from c.
// Logs go to c.LogFile so they never mix with the screen.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, logCloser, err := logging.NewFileLogger(c.LogFile, c.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := repositories.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	store := credentials.NewSQLiteStore(db, log)

	api, err := client.NewHTTPClient(c.APIBaseURL, credentials.AccessToken{Store: store}, log, client.WithTimeout(c.RequestTimeout))
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}

	a := newApp(c, api, store, log, os.Stdin, os.Stdout, int(os.Stdin.Fd()))
	a.closers = append(a.closers, db, logCloser)
	return a, nil
}

func newApp(c *config.Config, api client.Client, store credentials.Store, log logging.Logger, in io.Reader, out io.Writer, fd int) *App {
	session := services.NewSessionManager(api, store, log)
	a := &App{
		config:  c,
		log:     log,
		api:     api,
		store:   store,
		session: session,
		router:  router.New(session, c.StartPath, log),
		notify:  notify.NewConsole(out),
		term:    newTerminal(in, out, fd),
		out:     out,
		mail:    newMailbox(),
	}
	a.router.OnChange(a.routeChanged)
	return a
}

func (a *App) deps() views.Deps {
	return views.Deps{
		API:     a.api,
		Session: a.session,
		Store:   a.store,
		Notify:  a.notify,
		Prompt:  prompter{t: a.term},
		Out:     a.out,
		Log:     a.log,
		Navigate: func(ctx context.Context, p string) {
			a.router.Navigate(ctx, p)
		},
		Post:         a.mail.post,
		PollInterval: a.config.PollInterval,
	}
}

// Run resolves the session and serves commands until the user exits or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	go a.term.serve(ctx)

	fmt.Fprintln(a.out, "Welcome to taxdesk (type 'help' for commands)")

	a.handleErr(ctx, a.show(ctx, a.router.Current()))
	if err := a.session.Initialize(ctx); err != nil {
		a.log.Warn(ctx, "session not restored", "error", err)
		a.notify.Warning("Offline", "Could not reach the tax service. Type 'refresh-session' to try again.")
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.StatusInterval)

	return a.loop(ctx)
}

// routeChanged queues the view switch on the event loop. Router changes can
// fire from inside a command handler, which must finish first.
func (a *App) routeChanged(res router.Result) {
	a.mail.post(func(ctx context.Context) error {
		cur := a.router.Current()
		if cur.Path != res.Path || cur.Decision != res.Decision || cur.Forbidden != res.Forbidden {
			// A newer change is queued behind this one.
			return nil
		}
		return a.show(ctx, res)
	})
}

// show unmounts the current view and mounts the one res points at.
func (a *App) show(ctx context.Context, res router.Result) error {
	if a.view != nil {
		a.view.Unmount()
		a.view = nil
	}

	switch {
	case res.Forbidden:
		a.notify.Error("Access denied", "You do not have access to this page.")
		return nil
	case !res.Rendered():
		fmt.Fprintln(a.out, "Loading...")
		return nil
	}

	v, ok := views.New(res.Path, a.deps())
	if !ok {
		a.log.Error(ctx, "no view for route", "path", res.Path)
		return nil
	}
	a.view = v
	a.log.Debug(ctx, "view mounted", "path", res.Path)
	return v.Mount(ctx)
}

// handleErr reports err the way every page does: an unauthorized answer
// ends the session, anything else becomes an error alert.
func (a *App) handleErr(ctx context.Context, err error) {
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
	case errors.Is(err, views.ErrAborted):
		fmt.Fprintln(a.out, "Cancelled.")
	case a.session.HandleUnauthorized(ctx, err):
		a.notify.Warning("Session expired", "Please log in again.")
	default:
		a.log.Error(ctx, "command failed", "error", err)
		a.notify.Error("", client.Message(err, notify.DefaultErrorText))
	}
}

// StartOnlineStatusWatcher pings the API every interval and reports when it
// becomes unreachable or comes back. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last Mode
	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(pctx)
			cancel()

			mode := ModeOnline
			if err != nil {
				mode = ModeOffline
			}
			if mode != last {
				last = mode
				a.mail.post(func(ctx context.Context) error {
					a.setMode(ctx, mode)
					return nil
				})
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.mode == mode {
		return
	}
	prev := a.mode
	a.mode = mode
	a.log.Info(ctx, "api reachability changed", "mode", string(mode))

	switch {
	case mode == ModeOffline:
		a.notify.Toast(notify.LevelWarning, "The tax service is unreachable.")
	case prev == ModeOffline:
		a.notify.Toast(notify.LevelSuccess, "Back online.")
	}
}

// Close releases the database and log file. Safe to call more than once.
func (a *App) Close() {
	if a.view != nil {
		a.view.Unmount()
		a.view = nil
	}
	a.router.Close()
	a.session.Close()
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}
