package checkout

import "github.com/noah-isme/shopfront/internal/common"

// Landing routes after a successful checkout.
const (
	RouteCustomer = "/customer"
	RouteEmployee = "/employee"
	RouteLogin    = "/login"
)

// RouteForRole maps an auth role to its post-checkout landing page. Unknown or
// empty roles land on login.
func RouteForRole(role string) string {
	switch role {
	case common.RoleCustomer:
		return RouteCustomer
	case common.RoleAdmin, common.RoleDriver, common.RoleAssistant:
		return RouteEmployee
	default:
		return RouteLogin
	}
}
