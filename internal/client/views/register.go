package views

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/client/client"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/router"
)

type regField struct {
	key    string
	label  string
	secret bool
	set    func(r *models.Registration, v string)
}

// regFields is the form in display order. Keys match the API field names.
var regFields = []regField{
	{key: "first_name", label: "First Name *", set: func(r *models.Registration, v string) { r.FirstName = v }},
	{key: "middle_name", label: "Middle Name", set: func(r *models.Registration, v string) { r.MiddleName = v }},
	{key: "last_name", label: "Last Name *", set: func(r *models.Registration, v string) { r.LastName = v }},
	{key: "gender", label: "Gender * (Male/Female)", set: func(r *models.Registration, v string) { r.Gender = titleCase(v) }},
	{key: "date_of_birth", label: "Date of Birth * (YYYY-MM-DD)", set: func(r *models.Registration, v string) { r.DateOfBirth = v }},
	{key: "mobile_phone", label: "Mobile Phone Number *", set: func(r *models.Registration, v string) { r.MobilePhone = v }},
	{key: "national_id_number", label: "National ID Number / NIDA Number *", set: func(r *models.Registration, v string) { r.NationalID = v }},
	{key: "ward", label: "Ward *", set: func(r *models.Registration, v string) { r.Ward = v }},
	{key: "street_village", label: "Street / Village *", set: func(r *models.Registration, v string) { r.StreetVillage = v }},
	{key: "house_number", label: "House Number", set: func(r *models.Registration, v string) { r.HouseNumber = v }},
	{key: "taxpayer_type", label: "Taxpayer Type * (Business/Organization)", set: func(r *models.Registration, v string) { r.TaxpayerType = titleCase(v) }},
	{key: "business_name", label: "Business Name", set: func(r *models.Registration, v string) { r.BusinessName = v }},
	{key: "property_location", label: "Property Location *", set: func(r *models.Registration, v string) { r.PropertyLocation = v }},
	{key: "email", label: "Email Address *", set: func(r *models.Registration, v string) { r.Email = v }},
	{key: "password", label: "Password *", secret: true, set: func(r *models.Registration, v string) { r.Password = v }},
	{key: "password_confirm", label: "Confirm Password *", secret: true, set: func(r *models.Registration, v string) { r.PasswordConfirm = v }},
}

const declarationText = "I confirm that the information provided is true and correct."

// Register is the taxpayer registration form.
type Register struct {
	d      Deps
	errors map[string]string
}

func NewRegister(d Deps) *Register {
	return &Register{d: d}
}

func (v *Register) Mount(context.Context) error {
	v.Render()
	return nil
}

func (v *Register) Render() {
	heading(v.d.Out, "Register")
	v.printErrors()
	fmt.Fprintln(v.d.Out, "Type 'register' to fill in the form.")
	muted(v.d.Out, "Already have an account? Type 'login' to log in.")
}

func (v *Register) Commands() []Command {
	return []Command{
		{Name: "register", Help: "fill in and submit the form"},
		{Name: "login", Help: "back to the login page"},
	}
}

func (v *Register) Handle(ctx context.Context, cmd string, _ []string) (bool, error) {
	switch cmd {
	case "register":
		return true, v.submit(ctx)
	case "login":
		v.d.Navigate(ctx, router.LoginPath)
		return true, nil
	default:
		return false, nil
	}
}

func (v *Register) Unmount() {}

func (v *Register) submit(ctx context.Context) error {
	reg, err := v.fill(ctx)
	if err != nil {
		return err
	}

	v.errors = reg.Validate()
	if len(v.errors) > 0 {
		v.printErrors()
		return nil
	}

	fmt.Fprintln(v.d.Out, "Registering...")
	_, err = v.d.Session.Register(ctx, reg)
	var verr *client.ValidationError
	switch {
	case err == nil:
		formOK(v.d.Out, "Registration successful! Redirecting...")
		return nil
	case errors.As(err, &verr):
		v.errors = verr.Fields
	case passthrough(err):
		return err
	default:
		v.d.Log.Warn(ctx, "registration failed", "error", err)
		v.errors = map[string]string{"general": client.Message(err, "Registration failed. Please try again.")}
	}
	v.printErrors()
	return nil
}

func (v *Register) fill(ctx context.Context) (models.Registration, error) {
	var reg models.Registration
	for _, f := range regFields {
		if f.key == "business_name" && !reg.NeedsBusinessName() {
			continue
		}
		ask := v.d.Prompt.Ask
		if f.secret {
			ask = v.d.Prompt.AskSecret
		}
		ans, err := ask(ctx, f.label)
		if err != nil {
			return models.Registration{}, err
		}
		f.set(&reg, strings.TrimSpace(ans))
	}

	ans, err := v.d.Prompt.Ask(ctx, declarationText+" (yes/no)")
	if err != nil {
		return models.Registration{}, err
	}
	ans = strings.ToLower(strings.TrimSpace(ans))
	reg.Declaration = ans == "y" || ans == "yes"
	return reg, nil
}

func (v *Register) printErrors() {
	if len(v.errors) == 0 {
		return
	}
	if msg, ok := v.errors["general"]; ok {
		formError(v.d.Out, msg)
	}

	order := make(map[string]int, len(regFields))
	for i, f := range regFields {
		order[f.key] = i
	}
	keys := make([]string, 0, len(v.errors))
	for k := range v.errors {
		if k != "general" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iok := order[keys[i]]
		oj, jok := order[keys[j]]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		formError(v.d.Out, fieldLabel(k)+": "+v.errors[k])
	}
}

func fieldLabel(key string) string {
	for _, f := range regFields {
		if f.key == key {
			label, _, _ := strings.Cut(f.label, " *")
			label, _, _ = strings.Cut(label, " (")
			return label
		}
	}
	if key == "declaration" {
		return "Declaration"
	}
	return key
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
