package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/notify"
	"github.com/dmitrijs2005/taxdesk/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/taxdesk/internal/client/router"
	"github.com/dmitrijs2005/taxdesk/internal/client/services"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
)

// ErrAborted is returned by a Prompter when input ends before an answer.
var ErrAborted = errors.New("input aborted")

// Prompter reads answers from the user.
type Prompter interface {
	Ask(ctx context.Context, label string) (string, error)
	AskSecret(ctx context.Context, label string) (string, error)
}

// Deps is what every view is built from.
type Deps struct {
	API     client.Client
	Session *services.SessionManager
	Store   credentials.Store
	Notify  notify.Notifier
	Prompt  Prompter
	Out     io.Writer
	Log     logging.Logger

	// Navigate moves to another path through the router.
	Navigate func(ctx context.Context, path string)
	// Post queues fn on the event loop. Background work uses it to touch
	// view state. Errors fn returns are handled like command errors.
	Post func(fn func(ctx context.Context) error)

	PollInterval time.Duration
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// Command documents one view command for help output.
type Command struct {
	Name string
	Args string
	Help string
}

// View is one page.
type View interface {
	// Mount loads the page and prints it.
	Mount(ctx context.Context) error
	// Render prints the current state without loading.
	Render()
	Commands() []Command
	// Handle runs cmd. It reports false when cmd is not a command of this
	// view.
	Handle(ctx context.Context, cmd string, args []string) (bool, error)
	Unmount()
}

// New returns the view for path.
func New(path string, d Deps) (View, bool) {
	switch path {
	case router.LoginPath:
		return NewLogin(d), true
	case router.RegisterPath:
		return NewRegister(d), true
	case router.DashboardPath:
		return NewDashboard(d), true
	case router.SummaryPath:
		return NewSummary(d), true
	case router.ProfilePath:
		return NewProfile(d), true
	case router.PaymentPath:
		return NewPayment(d), true
	case router.AdminPath:
		return NewAdmin(d), true
	case router.UsersPath:
		return NewUsers(d), true
	case router.UnpaidPath:
		return NewUnpaid(d), true
	default:
		return nil, false
	}
}

// passthrough reports whether err must go back to the caller instead of
// being shown by the view. Unauthorized errors end the session, which is
// not a view's decision.
func passthrough(err error) bool {
	return errors.Is(err, client.ErrUnauthorized) || errors.Is(err, context.Canceled)
}

// confirm shows a question and reads a yes/no answer.
func confirm(ctx context.Context, d Deps, title, text, yes, no string) (bool, error) {
	d.Notify.Question(title, text, yes, no)
	ans, err := d.Prompt.Ask(ctx, "")
	if err != nil {
		return false, err
	}
	ans = strings.ToLower(strings.TrimSpace(ans))
	return ans == "y" || ans == "yes" || (yes != "" && ans == strings.ToLower(yes)), nil
}

// askDefault prompts with the current value shown. An empty answer keeps it.
func askDefault(ctx context.Context, d Deps, label, current string) (string, bool, error) {
	prompt := label
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", label, current)
	}
	ans, err := d.Prompt.Ask(ctx, prompt)
	if err != nil {
		return "", false, err
	}
	ans = strings.TrimSpace(ans)
	if ans == "" || ans == current {
		return current, false, nil
	}
	return ans, true, nil
}
