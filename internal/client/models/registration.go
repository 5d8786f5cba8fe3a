package models

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest password the backend accepts.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Registration is the POST /auth/register/ body.
type Registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Declaration     bool   `json:"declaration"`

	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
	MobilePhone string `json:"mobile_phone"`

	NationalID string `json:"national_id_number"`

	Ward          string `json:"ward"`
	StreetVillage string `json:"street_village"`
	HouseNumber   string `json:"house_number"`

	TaxpayerType     string `json:"taxpayer_type"`
	PropertyLocation string `json:"property_location"`
	BusinessName     string `json:"business_name"`
}

// Validate runs the client-side form checks and returns field -> message.
// An empty map means the form may be submitted.
func (r Registration) Validate() map[string]string {
	errs := make(map[string]string)

	switch {
	case strings.TrimSpace(r.Email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(r.Email):
		errs["email"] = "Invalid email format"
	}

	switch {
	case r.Password == "":
		errs["password"] = "Password is required"
	case len(r.Password) < MinPasswordLength:
		errs["password"] = "Password must be at least 8 characters"
	}

	if r.Password != r.PasswordConfirm {
		errs["password_confirm"] = "Passwords do not match"
	}

	required := []struct {
		field string
		value string
	}{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"gender", r.Gender},
		{"date_of_birth", r.DateOfBirth},
		{"mobile_phone", r.MobilePhone},
		{"national_id_number", r.NationalID},
		{"ward", r.Ward},
		{"street_village", r.StreetVillage},
		{"taxpayer_type", r.TaxpayerType},
		{"property_location", r.PropertyLocation},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs[f.field] = "This field is required"
		}
	}

	if r.NeedsBusinessName() && strings.TrimSpace(r.BusinessName) == "" {
		errs["business_name"] = "Business name is required for Business or Organization type"
	}

	if !r.Declaration {
		errs["declaration"] = "You must confirm that the information provided is true and correct"
	}

	return errs
}

// NeedsBusinessName reports whether the taxpayer type requires a business name.
func (r Registration) NeedsBusinessName() bool {
	return r.TaxpayerType == TaxpayerBusiness || r.TaxpayerType == TaxpayerOrganization
}
