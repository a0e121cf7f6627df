package middleware

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/osplatform/permissions-client/pkg/observability"
	"github.com/osplatform/permissions-client/pkg/permissions"
)

// PersonIDHeader names the request header the default extractor reads
// the person ID from.
const PersonIDHeader = "X-Person-ID"

// PersonExtractor pulls the person to check from a request. An empty
// return means the request is unauthenticated.
type PersonExtractor func(*http.Request) string

// HeaderPersonExtractor reads PersonIDHeader, falling back to a person
// ID already stored on the request context.
func HeaderPersonExtractor(r *http.Request) string {
	if personID := r.Header.Get(PersonIDHeader); personID != "" {
		return personID
	}
	return observability.GetPersonID(r.Context())
}

// RefExtractor pulls the reference a check targets from a request.
type RefExtractor func(*http.Request) (permissions.RefSpec, error)

// OrgRefFromVar extracts an org reference from a gorilla/mux path
// variable.
func OrgRefFromVar(name string) RefExtractor {
	return func(r *http.Request) (permissions.RefSpec, error) {
		ref := mux.Vars(r)[name]
		if ref == "" {
			return permissions.RefSpec{}, fmt.Errorf("missing %q path variable", name)
		}
		return permissions.OrgRef(ref), nil
	}
}

// OrgRefFromQuery extracts an org reference from a query parameter.
func OrgRefFromQuery(name string) RefExtractor {
	return func(r *http.Request) (permissions.RefSpec, error) {
		ref := r.URL.Query().Get(name)
		if ref == "" {
			return permissions.RefSpec{}, fmt.Errorf("missing %q query parameter", name)
		}
		return permissions.OrgRef(ref), nil
	}
}

// Authorizer builds permission-checking middleware around a client.
type Authorizer struct {
	client  *permissions.Client
	extract PersonExtractor
	logger  *observability.Logger
}

// AuthorizerOption customizes an Authorizer.
type AuthorizerOption func(*Authorizer)

// WithPersonExtractor replaces the default header-based extractor.
func WithPersonExtractor(extract PersonExtractor) AuthorizerOption {
	return func(a *Authorizer) { a.extract = extract }
}

// WithLogger sets the authorizer's logger.
func WithLogger(logger *observability.Logger) AuthorizerOption {
	return func(a *Authorizer) { a.logger = logger }
}

// NewAuthorizer wraps a permissions client.
func NewAuthorizer(client *permissions.Client, opts ...AuthorizerOption) *Authorizer {
	a := &Authorizer{
		client:  client,
		extract: HeaderPersonExtractor,
		logger:  observability.NewLogger(observability.InfoLevel, nil),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RequireGlobalPermission admits only persons holding scope globally.
func (a *Authorizer) RequireGlobalPermission(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			personID, ok := a.requirePerson(w, r)
			if !ok {
				return
			}

			allowed, err := a.client.HasGlobalPermission(r.Context(), personID, scope)
			a.finish(w, r, next, personID, allowed, err)
		})
	}
}

// RequirePermission admits only persons holding scope on the reference
// extracted from the request.
func (a *Authorizer) RequirePermission(scope string, ref RefExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			personID, ok := a.requirePerson(w, r)
			if !ok {
				return
			}

			spec, err := ref(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			allowed, err := a.client.HasPermission(r.Context(), personID, scope, spec)
			a.finish(w, r, next, personID, allowed, err)
		})
	}
}

// RequireAllPermissions admits only persons holding scope on every
// reference extracted from the request.
func (a *Authorizer) RequireAllPermissions(scope string, refs func(*http.Request) ([]permissions.RefSpec, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			personID, ok := a.requirePerson(w, r)
			if !ok {
				return
			}

			specs, err := refs(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			allowed, err := a.client.HasAllPermissions(r.Context(), personID, scope, specs)
			a.finish(w, r, next, personID, allowed, err)
		})
	}
}

func (a *Authorizer) requirePerson(w http.ResponseWriter, r *http.Request) (string, bool) {
	personID := a.extract(r)
	if personID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return "", false
	}
	return personID, true
}

func (a *Authorizer) finish(w http.ResponseWriter, r *http.Request, next http.Handler, personID string, allowed bool, err error) {
	if err != nil {
		a.logger.WithError(err).WithField("person_id", personID).Warn("permission check failed")
		if permissions.IsClientError(err) {
			http.Error(w, "Invalid permission check", http.StatusBadRequest)
			return
		}
		http.Error(w, "Permission check failed", http.StatusInternalServerError)
		return
	}

	if !allowed {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	next.ServeHTTP(w, r.WithContext(observability.WithPersonID(r.Context(), personID)))
}
