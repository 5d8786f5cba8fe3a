package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// Users is the administrator's user management page.
type Users struct {
	d      Deps
	search string
	users  []models.User
}

func NewUsers(d Deps) *Users {
	return &Users{d: d}
}

func (v *Users) Mount(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	v.Render()
	return nil
}

func (v *Users) load(ctx context.Context) error {
	users, err := v.d.API.ListUsers(ctx, v.search)
	if err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Log.Warn(ctx, "user list failed", "search", v.search, "error", err)
		v.d.Notify.Error("", client.Message(err, "Failed to load users."))
		return nil
	}
	v.users = users
	return nil
}

func (v *Users) Render() {
	w := v.d.Out
	heading(w, "User Management")
	if v.search != "" {
		muted(w, fmt.Sprintf("Search: %q (type 'search' with no term to clear)", v.search))
	}
	userTable(w, v.users)
}

func (v *Users) Commands() []Command {
	return []Command{
		{Name: "search", Args: "[term]", Help: "filter users by email or name"},
		{Name: "toggle", Args: "<id>", Help: "activate or deactivate a user"},
		{Name: "delete", Args: "<id>", Help: "delete a user"},
		{Name: "refresh", Help: "reload the list"},
	}
}

func (v *Users) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	switch cmd {
	case "search":
		v.search = strings.TrimSpace(strings.Join(args, " "))
		return true, v.reload(ctx)
	case "toggle":
		return true, v.toggle(ctx, args)
	case "delete":
		return true, v.delete(ctx, args)
	case "refresh", "retry":
		return true, v.reload(ctx)
	default:
		return false, nil
	}
}

func (v *Users) Unmount() {}

func (v *Users) reload(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	v.Render()
	return nil
}

func (v *Users) find(args []string) (models.User, bool) {
	id, ok := parseID(v.d, args)
	if !ok {
		return models.User{}, false
	}
	for _, u := range v.users {
		if u.ID == id {
			return u, true
		}
	}
	formError(v.d.Out, fmt.Sprintf("No user #%d in the list.", id))
	return models.User{}, false
}

func (v *Users) toggle(ctx context.Context, args []string) error {
	u, ok := v.find(args)
	if !ok {
		return nil
	}

	newStatus, action := models.AccountActive, "Activate"
	if u.AccountStatus == models.AccountActive {
		newStatus, action = models.AccountInactive, "Deactivate"
	}
	lower := strings.ToLower(action)

	yes, err := confirm(ctx, v.d,
		action+" User",
		fmt.Sprintf("Are you sure you want to %s %q?", lower, u.Email),
		"Yes, "+action, "Cancel")
	if err != nil || !yes {
		return err
	}

	if err := v.d.API.UpdateUserStatus(ctx, u.ID, newStatus); err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Notify.Error(action+" Failed", client.Message(err, "Failed to "+lower+" user."))
		return nil
	}
	v.d.Notify.Success("User "+action+"d", fmt.Sprintf("%s has been %sd successfully.", u.Email, lower))
	return v.reload(ctx)
}

func (v *Users) delete(ctx context.Context, args []string) error {
	u, ok := v.find(args)
	if !ok {
		return nil
	}

	yes, err := confirm(ctx, v.d,
		"Delete User",
		fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", u.Email),
		"Yes, Delete", "Cancel")
	if err != nil || !yes {
		return err
	}

	if err := v.d.API.DeleteUser(ctx, u.ID); err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Notify.Error("Delete Failed", client.Message(err, "Failed to delete user."))
		return nil
	}
	v.d.Notify.Success("User Deleted", u.Email+" has been deleted successfully.")
	return v.reload(ctx)
}

func userTable(w io.Writer, users []models.User) {
	if len(users) == 0 {
		muted(w, "No users found.")
		return
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		joined := "N/A"
		if u.DateJoined != nil {
			joined = u.DateJoined.Format("02 Jan 2006")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", u.ID),
			u.Email,
			u.Role.String(),
			badge(NA(u.AccountStatus)),
			Ago(u.LastLoginTime),
			joined,
		})
	}
	table(w, []string{"#", "Email", "Role", "Account Status", "Last Login", "Joined"}, rows)
}
