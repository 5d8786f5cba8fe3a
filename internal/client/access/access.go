package access

import (
	"fmt"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// Well-known paths.
const (
	LoginPath    = "/login"
	AdminHome    = "/admin"
	TaxpayerHome = "/dashboard"
)

// Kind is the outcome of a gate decision.
type Kind int

const (
	ShowLoading Kind = iota
	Redirect
	Render
)

func (k Kind) String() string {
	switch k {
	case ShowLoading:
		return "show_loading"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Decision is what the gate tells the router to do. Target is set only for
// Redirect.
type Decision struct {
	Kind   Kind
	Target string
}

func (d Decision) String() string {
	if d.Kind == Redirect {
		return "redirect " + d.Target
	}
	return d.Kind.String()
}

// RoleSet is the set of roles a route admits. A nil RoleSet leaves the role
// undeclared and admits any authenticated user. A non-nil empty set admits
// nobody.
type RoleSet []models.Role

// AnyAuthenticated is the undeclared role set.
var AnyAuthenticated RoleSet

// Roles builds a declared RoleSet. Roles() with no arguments is empty, not
// AnyAuthenticated.
func Roles(roles ...models.Role) RoleSet {
	return append(RoleSet{}, roles...)
}

// Allows reports whether r is in the set. A nil set allows every role.
func (s RoleSet) Allows(r models.Role) bool {
	if s == nil {
		return true
	}
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}

// Decide applies the gate: loading first, then authentication, then role.
func Decide(s models.Session, allowed RoleSet) Decision {
	if s.Loading {
		return Decision{Kind: ShowLoading}
	}
	if s.User == nil {
		return Decision{Kind: Redirect, Target: LoginPath}
	}
	if !allowed.Allows(s.User.Role) {
		return Decision{Kind: Redirect, Target: RoleHome(s.User.Role)}
	}
	return Decision{Kind: Render}
}

// RoleHome is the landing path for a role. Roles the client does not know
// land on the taxpayer home.
func RoleHome(r models.Role) string {
	switch r {
	case models.RoleAdministrator:
		return AdminHome
	case models.RoleTaxpayer, models.RoleMunicipalOfficer, models.RoleUnknown:
		return TaxpayerHome
	default:
		return TaxpayerHome
	}
}
