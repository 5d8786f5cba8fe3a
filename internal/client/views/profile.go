package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

type profileField struct {
	label string
	get   func(p *models.Profile) string
	set   func(u *models.ProfileUpdate, v string)
}

func strp(s string) *string { return &s }

// profileFields are the editable fields in form order.
var profileFields = []profileField{
	{"First Name", func(p *models.Profile) string { return p.FirstName }, func(u *models.ProfileUpdate, v string) { u.FirstName = strp(v) }},
	{"Middle Name", func(p *models.Profile) string { return p.MiddleName }, func(u *models.ProfileUpdate, v string) { u.MiddleName = strp(v) }},
	{"Last Name", func(p *models.Profile) string { return p.LastName }, func(u *models.ProfileUpdate, v string) { u.LastName = strp(v) }},
	{"Mobile Phone", func(p *models.Profile) string { return p.MobilePhone }, func(u *models.ProfileUpdate, v string) { u.MobilePhone = strp(v) }},
	{"Ward", func(p *models.Profile) string { return p.Ward }, func(u *models.ProfileUpdate, v string) { u.Ward = strp(v) }},
	{"Street/Village", func(p *models.Profile) string { return p.StreetVillage }, func(u *models.ProfileUpdate, v string) { u.StreetVillage = strp(v) }},
	{"House Number", func(p *models.Profile) string { return p.HouseNumber }, func(u *models.ProfileUpdate, v string) { u.HouseNumber = strp(v) }},
	{"Property Location", func(p *models.Profile) string { return p.PropertyLocation }, func(u *models.ProfileUpdate, v string) { u.PropertyLocation = strp(v) }},
	{"Business Name", func(p *models.Profile) string { return p.BusinessName }, func(u *models.ProfileUpdate, v string) { u.BusinessName = strp(v) }},
}

// Profile shows and edits the taxpayer profile.
type Profile struct {
	d       Deps
	profile *models.Profile
	loadErr string
}

func NewProfile(d Deps) *Profile {
	return &Profile{d: d}
}

func (v *Profile) Mount(ctx context.Context) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	v.Render()
	return nil
}

func (v *Profile) load(ctx context.Context) error {
	p, err := v.d.API.Profile(ctx)
	if err != nil {
		if passthrough(err) {
			return err
		}
		v.d.Log.Warn(ctx, "profile load failed", "error", err)
		v.loadErr = client.Message(err, "Failed to load profile.")
		return nil
	}
	v.loadErr = ""
	v.profile = p
	return nil
}

func (v *Profile) Render() {
	w := v.d.Out
	heading(w, "Profile")
	if v.loadErr != "" {
		formError(w, v.loadErr)
		return
	}
	p := v.profile
	if p == nil {
		return
	}

	fmt.Fprintln(w, valueStyle.Render(NA(p.DisplayName())))
	section(w, "Personal Information")
	cards(w,
		card{"Email", NA(p.Email)},
		card{"Gender", NA(p.Gender)},
		card{"Date of Birth", Date(p.DateOfBirth)},
		card{"Mobile Phone", NA(p.MobilePhone)},
		card{"National ID", NA(p.NationalID)},
	)
	section(w, "Address")
	cards(w,
		card{"Ward", NA(p.Ward)},
		card{"Street/Village", NA(p.StreetVillage)},
		card{"House Number", NA(p.HouseNumber)},
	)
	section(w, "Taxpayer Details")
	cards(w,
		card{"Taxpayer Type", NA(p.TaxpayerType)},
		card{"Business Name", NA(p.BusinessName)},
		card{"Property Location", NA(p.PropertyLocation)},
	)
	if p.RegistrationDate != nil {
		cards(w, card{"Registered", p.RegistrationDate.Format("02 Jan 2006")})
	}
	muted(w, "Type 'edit' to change your profile.")
}

func (v *Profile) Commands() []Command {
	return []Command{
		{Name: "edit", Help: "edit your profile"},
		{Name: "refresh", Help: "reload the profile"},
	}
}

func (v *Profile) Handle(ctx context.Context, cmd string, _ []string) (bool, error) {
	switch cmd {
	case "edit":
		return true, v.edit(ctx)
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

func (v *Profile) Unmount() {}

func (v *Profile) edit(ctx context.Context) error {
	if v.profile == nil {
		formError(v.d.Out, NA(v.loadErr))
		return nil
	}

	muted(v.d.Out, "Press Enter to keep the current value.")
	var upd models.ProfileUpdate
	for _, f := range profileFields {
		val, changed, err := askDefault(ctx, v.d, f.label, f.get(v.profile))
		if err != nil {
			return err
		}
		if changed {
			f.set(&upd, val)
		}
	}
	if upd.Empty() {
		v.d.Notify.Info("", "Nothing to update.")
		return nil
	}

	p, err := v.d.API.UpdateProfile(ctx, upd)
	var verr *client.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		fieldErrors(v.d.Out, verr.Fields)
		return nil
	case passthrough(err):
		return err
	default:
		formError(v.d.Out, client.Message(err, "Failed to update profile"))
		return nil
	}

	v.profile = p
	name := p.DisplayName()
	v.d.Session.UpdateLocalUser(models.UserPatch{FullName: &name, Profile: p})
	formOK(v.d.Out, "Profile updated successfully!")
	v.Render()
	return nil
}
