// Package middleware provides net/http middleware that guards routes
// behind permission checks.
//
// The Authorizer wraps a permissions client and produces standard
// func(http.Handler) http.Handler middleware, so it composes with
// gorilla/mux routers and plain ServeMux alike:
//
//	authz := middleware.NewAuthorizer(client)
//	router.Handle("/invoices", authz.RequirePermission(
//		"read:invoices", middleware.OrgRefFromVar("org_ref"),
//	)(invoicesHandler))
//
// The person being checked is taken from the X-Person-ID header by
// default; services that authenticate upstream can install their own
// PersonExtractor instead.
package middleware
