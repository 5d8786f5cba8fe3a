package models

import (
	"encoding/json"
)

// Role is the closed set of account roles known to the client.
type Role int

const (
	// RoleUnknown is any role string the client does not recognise.
	RoleUnknown Role = iota
	RoleTaxpayer
	RoleMunicipalOfficer
	RoleAdministrator
)

// AllRoles lists every known role, in display order.
var AllRoles = []Role{RoleTaxpayer, RoleMunicipalOfficer, RoleAdministrator}

func (r Role) String() string {
	switch r {
	case RoleTaxpayer:
		return "Taxpayer"
	case RoleMunicipalOfficer:
		return "Municipal Officer"
	case RoleAdministrator:
		return "Administrator"
	case RoleUnknown:
		return "Unknown"
	}
	return "Unknown"
}

// ParseRole maps a wire role name to a Role. Unrecognised names give
// RoleUnknown.
func ParseRole(s string) Role {
	switch s {
	case "Taxpayer":
		return RoleTaxpayer
	case "Municipal Officer":
		return RoleMunicipalOfficer
	case "Administrator":
		return RoleAdministrator
	default:
		return RoleUnknown
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON never fails on an unexpected role name; it yields RoleUnknown.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*r = RoleUnknown
		return nil
	}
	*r = ParseRole(s)
	return nil
}
