package permissions

import "strings"

// CachePrefix namespaces every cache key written by this package.
const CachePrefix = "permissions_client"

// scopeSeparator joins and terminates the scopes stored under one cache
// key. The trailing separator makes "scope|" containment exact.
const scopeSeparator = "|"

// cacheKey returns the cache key for one (person, reference) pair:
// "{prefix}:{person}:{ref}" or "{prefix}:{person}:{ref}:{type}" when the
// reference carries a location type.
func cacheKey(personID string, spec RefSpec) string {
	if spec.Type != "" {
		return CachePrefix + ":" + personID + ":" + spec.Ref + ":" + string(spec.Type)
	}
	return CachePrefix + ":" + personID + ":" + spec.Ref
}

// globalCacheKey returns the key holding the person's global scopes.
func globalCacheKey(personID string) string {
	return CachePrefix + ":" + personID + ":" + globalRef
}

// transformForCache converts a fetched document into cache entries for
// personID. Raw keys containing a colon split into (type, id); anything
// else, the "global" literal included, is an org ref with no type. An
// empty scope list stores as the bare separator.
func transformForCache(personID string, doc FetchedPermissionsDoc) CachedPermissionsDoc {
	cached := make(CachedPermissionsDoc, len(doc))
	for rawKey, scopes := range doc {
		spec := RefSpec{Ref: rawKey}
		if i := strings.Index(rawKey, ":"); i >= 0 {
			spec = RefSpec{Ref: rawKey[i+1:], Type: RefType(rawKey[:i])}
		}
		cached[cacheKey(personID, spec)] = strings.Join(scopes, scopeSeparator) + scopeSeparator
	}
	return cached
}

// containsScope reports whether a cached scope string grants scope.
func containsScope(cachedScopes, scope string) bool {
	return strings.Contains(cachedScopes, scope+scopeSeparator)
}
