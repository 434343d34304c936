// Package guard decides whether the current client may open a view and,
// when it may not, where it is sent instead.
package guard

import (
	"slices"

	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/session"
)

const (
	PathHome            = "/"
	PathLogin           = "/auth/login"
	PathSignup          = "/auth/signup"
	PathVendor          = "/vendors/:id"
	PathCart            = "/cart"
	PathCheckout        = "/checkout"
	PathOrders          = "/orders"
	PathVendorDashboard = "/vendor/dashboard"
	PathAdminDashboard  = "/admin/dashboard"
)

// Shoppers are the roles allowed to check out and see their orders.
var Shoppers = []models.Role{models.RoleUser, models.RoleVendor, models.RoleAdmin}

// View is a navigable page. A nil Roles slice marks a public view.
type View struct {
	Name  string
	Path  string
	Roles []models.Role
}

func (v View) Guarded() bool { return v.Roles != nil }

var Views = []View{
	{Name: "home", Path: PathHome},
	{Name: "login", Path: PathLogin},
	{Name: "signup", Path: PathSignup},
	{Name: "vendor", Path: PathVendor},
	{Name: "cart", Path: PathCart},
	{Name: "checkout", Path: PathCheckout, Roles: Shoppers},
	{Name: "orders", Path: PathOrders, Roles: Shoppers},
	{Name: "vendor-dashboard", Path: PathVendorDashboard, Roles: []models.Role{models.RoleVendor}},
	{Name: "admin-dashboard", Path: PathAdminDashboard, Roles: []models.Role{models.RoleAdmin}},
}

// Lookup finds a view by name.
func Lookup(name string) (View, bool) {
	for _, v := range Views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

type Kind int

const (
	Allow Kind = iota
	Loading
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "allow"
	}
}

// Decision is the outcome of a guard check. From is set when the client is
// sent to login and records where it was headed.
type Decision struct {
	Kind Kind
	To   string
	From string
}

// LandingFor is where a role is sent when it lands on a view it may not open.
func LandingFor(role models.Role) string {
	switch role {
	case models.RoleVendor:
		return PathVendorDashboard
	case models.RoleAdmin:
		return PathAdminDashboard
	default:
		return PathHome
	}
}

// Decide applies the guard to a target view restricted to allowed roles.
func Decide(state session.State, role models.Role, allowed []models.Role, target string) Decision {
	switch state {
	case session.StateResolving:
		return Decision{Kind: Loading}
	case session.StateAnonymous:
		return Decision{Kind: Redirect, To: PathLogin, From: target}
	}

	if allowed != nil && !slices.Contains(allowed, role) {
		return Decision{Kind: Redirect, To: LandingFor(role)}
	}
	return Decision{Kind: Allow}
}
