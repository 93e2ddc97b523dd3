// Package authz holds the authorization rules that sit beside token
// verification: which routes are public (RouteGate) and which resources a
// verified caller may act on (OwnershipGuard).
//
//	gate := authz.NewRouteGate(authz.DefaultRoutePolicy(), "")
//	gate.IsPublic("POST", "/api/v1/users") // true
//	gate.IsPublic("GET", "/api/v1/users")  // false
package authz
