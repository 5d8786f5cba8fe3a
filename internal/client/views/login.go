package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/router"
)

// Login is the sign-in page.
type Login struct {
	d     Deps
	error string
}

func NewLogin(d Deps) *Login {
	return &Login{d: d}
}

func (v *Login) Mount(context.Context) error {
	v.Render()
	return nil
}

func (v *Login) Render() {
	heading(v.d.Out, "Login")
	if v.error != "" {
		formError(v.d.Out, v.error)
	}
	fmt.Fprintln(v.d.Out, "Type 'login' to sign in.")
	muted(v.d.Out, "Don't have an account? Type 'register' to register here.")
}

func (v *Login) Commands() []Command {
	return []Command{
		{Name: "login", Args: "[email]", Help: "sign in"},
		{Name: "register", Help: "open the registration form"},
	}
}

func (v *Login) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	switch cmd {
	case "login":
		return true, v.submit(ctx, args)
	case "register":
		v.d.Navigate(ctx, router.RegisterPath)
		return true, nil
	default:
		return false, nil
	}
}

func (v *Login) Unmount() {}

func (v *Login) submit(ctx context.Context, args []string) error {
	v.error = ""

	email := ""
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = v.d.Prompt.Ask(ctx, "Email"); err != nil {
			return err
		}
	}
	email = strings.TrimSpace(email)

	password, err := v.d.Prompt.AskSecret(ctx, "Password")
	if err != nil {
		return err
	}
	if email == "" || password == "" {
		v.error = "Email and password are required"
		formError(v.d.Out, v.error)
		return nil
	}

	fmt.Fprintln(v.d.Out, "Logging in...")
	if _, err := v.d.Session.Login(ctx, email, password); err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Log.Info(ctx, "login failed", "email", email, "error", err)
		v.error = client.Message(err, "Invalid email or password")
		formError(v.d.Out, v.error)
	}
	return nil
}
