// Package users fronts the user data service: registration, listing,
// lookup, profile update, deletion and account verification.
//
// Access rules are applied by the router, not here: registration and
// verification are public, everything else needs a bearer token, and update
// and delete are additionally restricted to the account owner.
package users
