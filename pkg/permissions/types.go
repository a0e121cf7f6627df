package permissions

import "context"

// FetchedPermissionsDoc is the document shape returned by the remote
// permissions API. Keys are raw reference keys: an org ref string, the
// literal "global", or "{type}:{id}" for location references. Values are
// the scopes granted on that reference.
type FetchedPermissionsDoc map[string][]string

// CachedPermissionsDoc is the on-cache representation. Keys are fully
// qualified cache keys, values are the scopes for one reference joined
// with "|" and followed by a trailing "|", so "scope|" containment
// cannot false-positive on a scope-name prefix.
type CachedPermissionsDoc map[string]string

// Gateway is the capability set the Client needs from the permissions
// authority. pkg/oscore provides the HTTP implementation; OS Core itself
// can satisfy it with local function calls.
//
// Implementations must distinguish malformed requests from backend
// failures by returning *ClientError and *ServerError respectively.
type Gateway interface {
	// FetchPermissions returns the person's scopes for one org ref,
	// alongside their global scopes.
	FetchPermissions(ctx context.Context, personID, orgRef string) (FetchedPermissionsDoc, error)

	// FetchPermissionsForLocation returns the person's scopes for one
	// (location id, location type) pair, alongside their global scopes.
	FetchPermissionsForLocation(ctx context.Context, personID string, locationID int, locationType RefType) (FetchedPermissionsDoc, error)

	// FetchAllPermissions returns every reference the person holds
	// scopes on, the global reference included.
	FetchAllPermissions(ctx context.Context, personID string) (FetchedPermissionsDoc, error)

	// FetchOrgRefsForPermission returns the raw reference keys on which
	// the person holds scope.
	FetchOrgRefsForPermission(ctx context.Context, personID, scope string) ([]string, error)

	// FetchPersonsWithPermission returns the ids of every person holding
	// scope on the given org ref.
	FetchPersonsWithPermission(ctx context.Context, scope, orgRef string) ([]string, error)

	// FetchPersonsWithPermissionForLocation returns the ids of every
	// person holding scope on the given location.
	FetchPersonsWithPermissionForLocation(ctx context.Context, scope string, locationType RefType, locationID int) ([]string, error)
}
