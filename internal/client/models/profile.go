package models

import (
	"strings"
	"time"
)

// Taxpayer types.
const (
	TaxpayerBusiness     = "Business"
	TaxpayerOrganization = "Organization"
)

// Profile is the taxpayer profile returned by /profile/ and embedded in
// /auth/me/ for taxpayers.
type Profile struct {
	ID               int64      `json:"id,omitempty"`
	Email            string     `json:"email,omitempty"`
	FullName         string     `json:"full_name,omitempty"`
	FirstName        string     `json:"first_name"`
	MiddleName       string     `json:"middle_name,omitempty"`
	LastName         string     `json:"last_name"`
	Gender           string     `json:"gender"`
	DateOfBirth      string     `json:"date_of_birth"`
	MobilePhone      string     `json:"mobile_phone"`
	NationalID       string     `json:"national_id_number"`
	Ward             string     `json:"ward"`
	StreetVillage    string     `json:"street_village"`
	HouseNumber      string     `json:"house_number,omitempty"`
	TaxpayerType     string     `json:"taxpayer_type"`
	PropertyLocation string     `json:"property_location"`
	BusinessName     string     `json:"business_name,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
}

// DisplayName returns full_name, or the joined name parts.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if n := strings.TrimSpace(p.FullName); n != "" {
		return n
	}
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ProfileUpdate is the PATCH /profile/ body. Only non-nil fields are sent.
type ProfileUpdate struct {
	FirstName        *string `json:"first_name,omitempty"`
	MiddleName       *string `json:"middle_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	MobilePhone      *string `json:"mobile_phone,omitempty"`
	Ward             *string `json:"ward,omitempty"`
	StreetVillage    *string `json:"street_village,omitempty"`
	HouseNumber      *string `json:"house_number,omitempty"`
	PropertyLocation *string `json:"property_location,omitempty"`
	BusinessName     *string `json:"business_name,omitempty"`
}

// Empty reports whether nothing would be changed.
func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.MiddleName == nil && u.LastName == nil &&
		u.MobilePhone == nil && u.Ward == nil && u.StreetVillage == nil &&
		u.HouseNumber == nil && u.PropertyLocation == nil && u.BusinessName == nil
}
