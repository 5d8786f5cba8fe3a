package router

import (
	"path"
	"strings"

	"github.com/dmitrijs2005/taxdesk/internal/client/access"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

// Paths of every view.
const (
	RootPath      = "/"
	LoginPath     = access.LoginPath
	RegisterPath  = "/register"
	DashboardPath = access.TaxpayerHome
	SummaryPath   = "/summary"
	ProfilePath   = "/profile"
	PaymentPath   = "/payment"
	AdminPath     = access.AdminHome
	UsersPath     = "/users"
	UnpaidPath    = "/unpaid"
)

var (
	staff  = access.Roles(models.RoleTaxpayer, models.RoleMunicipalOfficer)
	admins = access.Roles(models.RoleAdministrator)
)

// Route describes one view. Public routes are reachable only while signed
// out. Protected routes go through the gate with Allowed.
type Route struct {
	Path    string
	Title   string
	Public  bool
	Allowed access.RoleSet
}

var table = []Route{
	{Path: LoginPath, Title: "Login", Public: true},
	{Path: RegisterPath, Title: "Register", Public: true},

	{Path: DashboardPath, Title: "Dashboard", Allowed: staff},
	{Path: SummaryPath, Title: "Tax Summary", Allowed: staff},
	{Path: ProfilePath, Title: "Profile", Allowed: staff},
	{Path: PaymentPath, Title: "Payments", Allowed: staff},

	{Path: AdminPath, Title: "Dashboard", Allowed: admins},
	{Path: UsersPath, Title: "User Management", Allowed: admins},
	{Path: UnpaidPath, Title: "Unpaid Users", Allowed: admins},
}

// Routes returns a copy of the route table.
func Routes() []Route {
	out := make([]Route, len(table))
	copy(out, table)
	return out
}

// Lookup finds the route for p after normalizing it.
func Lookup(p string) (Route, bool) {
	p = Normalize(p)
	for _, r := range table {
		if r.Path == p {
			return r, true
		}
	}
	return Route{}, false
}

// Nav lists the protected routes role may open, in menu order.
func Nav(role models.Role) []Route {
	var out []Route
	for _, r := range table {
		if !r.Public && r.Allowed.Allows(role) {
			out = append(out, r)
		}
	}
	return out
}

// Normalize turns user input such as "payment/", "/payment?x=1" or "" into a
// clean absolute path.
func Normalize(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
