// Package permissions provides a cache-aware client for consuming the
// OS Core permissions API.
//
// # Overview
//
// Services ask "does person P have scope S on reference R?" through the
// Client. The Client answers from a short-lived cache when it can, and
// falls back to a remote fetch through the Gateway interface when it
// cannot, writing the fetched document back for subsequent calls.
//
// # References
//
// A permission check targets a RefSpec: an opaque org ref (usually a
// UUID), a numeric location id tagged with a location type ("company"
// or "vendor"), or the global pseudo-reference:
//
//	permissions.OrgRef("7f9c0a34-...")
//	permissions.LocationRef(42, permissions.RefTypeCompany)
//	permissions.GlobalRef()
//
// # Checking Permissions
//
//	client, err := permissions.NewClient(permissions.Options{
//		Gateway:  gateway,
//		Store:    store,
//		CacheTTL: 2 * time.Minute,
//	})
//
//	ok, err := client.HasPermission(ctx, personID, "read:invoices", permissions.OrgRef(orgRef))
//	ok, err = client.HasAllPermissions(ctx, personID, "read:orders",
//		[]permissions.RefSpec{permissions.LocationRef(1, permissions.RefTypeCompany),
//			permissions.LocationRef(2, permissions.RefTypeCompany)})
//	ok, err = client.HasGlobalPermission(ctx, personID, "admin:all")
//
// A scope granted on the global reference satisfies any check, no matter
// which reference the check names.
//
// # Caching
//
// Cached entries are keyed per (person, reference) and expire on a TTL;
// there is no explicit invalidation. A batched read is a hit only when
// every requested key is present, the person's global entry included. A
// partial hit is treated as a full miss so a check never evaluates
// against incomplete state. Pass a nil Store to disable caching.
//
// # Errors
//
// Remote and cache failures surface as *ClientError (malformed request)
// or *ServerError (backend failure). Neither is retried. A cache miss is
// not an error.
//
// # Related Packages
//
//   - pkg/oscore: HTTP Gateway implementation
//   - pkg/cache: Store implementations (Redis, in-memory)
//   - pkg/events: post-completion event hooks
//   - pkg/observability: metrics handle consumed by the Client
package permissions
