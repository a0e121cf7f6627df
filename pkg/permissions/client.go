package permissions

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/osplatform/permissions-client/pkg/cache"
	"github.com/osplatform/permissions-client/pkg/events"
	"github.com/osplatform/permissions-client/pkg/observability"
)

// DefaultCacheTTL is the expiry applied to cache entries when Options
// does not set one.
const DefaultCacheTTL = 120 * time.Second

// EventCheckCompleted is emitted through the registrar after every
// public Client call completes.
const EventCheckCompleted = "permission_check_completed"

// CheckEvent is the payload broadcast on EventCheckCompleted.
type CheckEvent struct {
	Call     string
	PersonID string
	Scope    string
	Refs     []RefSpec
	Result   bool
}

// OrgRefs partitions the references on which a person holds a scope, by
// raw-key prefix: plain org refs, company location ids, vendor location
// ids.
type OrgRefs struct {
	OrgRefs    []string
	CompanyIDs []int
	VendorIDs  []int
}

// Options configures a Client. Gateway is required; everything else has
// a usable default.
type Options struct {
	// Gateway talks to the permissions authority.
	Gateway Gateway

	// Store is the cache backend. Nil disables caching: every check
	// fetches remotely and writes nothing back.
	Store cache.Store

	// CacheTTL is the expiry on written cache entries. Zero means
	// DefaultCacheTTL.
	CacheTTL time.Duration

	// Registrar receives one EventCheckCompleted per public call. Nil
	// means a registrar with no handlers.
	Registrar *events.Registrar

	// Metrics counts checks, cache hits/misses and remote fetches. Nil
	// means a handle on a private throwaway registry.
	Metrics *observability.Metrics

	// Logger defaults to an info-level stderr logger.
	Logger *observability.Logger
}

// Client answers permission questions against OS Core, caching fetched
// permission documents for Options.CacheTTL.
//
// The Client holds no state of its own across calls; concurrent use is
// as safe as the underlying Store and Gateway. Two callers racing on a
// cold cache may both fetch and both write, which is fine because
// entries are idempotent within one refresh period.
type Client struct {
	gateway   Gateway
	store     cache.Store
	ttl       time.Duration
	registrar *events.Registrar
	metrics   *observability.Metrics
	logger    *observability.Logger
}

// NewClient validates opts and builds a Client. All dependencies are
// bound here; there is no lazy initialization on first use.
func NewClient(opts Options) (*Client, error) {
	if opts.Gateway == nil {
		return nil, NewClientError("permissions: Options.Gateway is required", nil)
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Registrar == nil {
		opts.Registrar = events.NewRegistrar()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewUnregisteredMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	return &Client{
		gateway:   opts.Gateway,
		store:     opts.Store,
		ttl:       opts.CacheTTL,
		registrar: opts.Registrar,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}, nil
}

// HasGlobalPermission reports whether the person holds scope on the
// global reference.
func (c *Client) HasGlobalPermission(ctx context.Context, personID, scope string) (bool, error) {
	start := time.Now()
	ok, err := c.resolve(ctx, personID, scope, []RefSpec{GlobalRef()})
	return ok, c.complete("has_global_permission", personID, scope, []RefSpec{GlobalRef()}, ok, err, start)
}

// HasPermission reports whether the person holds scope on ref, or
// globally. A global grant satisfies the check regardless of what the
// reference's own entry says.
func (c *Client) HasPermission(ctx context.Context, personID, scope string, ref RefSpec) (bool, error) {
	start := time.Now()
	ok, err := c.resolve(ctx, personID, scope, []RefSpec{ref})
	return ok, c.complete("has_permission", personID, scope, []RefSpec{ref}, ok, err, start)
}

// HasAllPermissions reports whether the person holds scope on every one
// of refs. A global grant satisfies the whole check at once.
func (c *Client) HasAllPermissions(ctx context.Context, personID, scope string, refs []RefSpec) (bool, error) {
	start := time.Now()
	ok, err := c.resolve(ctx, personID, scope, refs)
	return ok, c.complete("has_all_permissions", personID, scope, refs, ok, err, start)
}

// GetOrgRefsForPermission returns every reference on which the person
// holds scope. A scope-to-references index cannot be derived from the
// per-reference cache, so this always asks the gateway.
func (c *Client) GetOrgRefsForPermission(ctx context.Context, personID, scope string) (*OrgRefs, error) {
	start := time.Now()
	rawKeys, err := c.gateway.FetchOrgRefsForPermission(ctx, personID, scope)
	if err != nil {
		return nil, c.complete("get_org_refs_for_permission", personID, scope, nil, false, err, start)
	}
	c.metrics.RemoteFetch("org_refs_for_permission")

	refs, err := c.partitionRawKeys(rawKeys)
	if err != nil {
		return nil, c.complete("get_org_refs_for_permission", personID, scope, nil, false, err, start)
	}
	return refs, c.complete("get_org_refs_for_permission", personID, scope, nil, true, nil, start)
}

// GetPersonsWithPermission returns the ids of every person holding scope
// on ref. The local cache is keyed by person, not by reference, so this
// always asks the gateway.
func (c *Client) GetPersonsWithPermission(ctx context.Context, scope string, ref RefSpec) ([]string, error) {
	start := time.Now()

	var persons []string
	var err error
	if ref.Type != "" {
		var id int
		id, err = strconv.Atoi(ref.Ref)
		if err != nil {
			err = NewClientError("invalid location id "+strconv.Quote(ref.Ref), err)
		} else {
			persons, err = c.gateway.FetchPersonsWithPermissionForLocation(ctx, scope, ref.Type, id)
		}
	} else {
		persons, err = c.gateway.FetchPersonsWithPermission(ctx, scope, ref.Ref)
	}
	if err != nil {
		return nil, c.complete("get_persons_with_permission", "", scope, []RefSpec{ref}, false, err, start)
	}
	c.metrics.RemoteFetch("persons_with_permission")
	return persons, c.complete("get_persons_with_permission", "", scope, []RefSpec{ref}, true, nil, start)
}

// resolve runs the shared cache-read / fetch / write-back / evaluate
// sequence for the per-person predicate checks.
func (c *Client) resolve(ctx context.Context, personID, scope string, specs []RefSpec) (bool, error) {
	if len(specs) == 0 {
		return false, NewClientError("at least one reference is required", nil)
	}

	doc, err := c.cacheRead(ctx, personID, specs)
	if err != nil {
		return false, err
	}
	if doc == nil {
		fetched, err := c.fetch(ctx, personID, specs)
		if err != nil {
			return false, err
		}
		doc = transformForCache(personID, fetched)
		if err := c.cacheWrite(ctx, doc); err != nil {
			return false, err
		}
	}

	return c.evaluate(personID, scope, specs, doc), nil
}

// cacheRead issues one batched read for the person's global key plus one
// key per non-global spec. The read counts as a hit only when every
// requested key came back; anything less is a full miss. Returns nil
// with no error on a miss or when caching is disabled.
func (c *Client) cacheRead(ctx context.Context, personID string, specs []RefSpec) (CachedPermissionsDoc, error) {
	if c.store == nil {
		return nil, nil
	}

	keys := []string{globalCacheKey(personID)}
	for _, spec := range specs {
		if !spec.IsGlobal() {
			keys = append(keys, cacheKey(personID, spec))
		}
	}

	fetched, err := c.store.GetMany(ctx, keys)
	if err != nil {
		return nil, NewServerError("error reading from cache", err)
	}

	if len(fetched) != len(keys) {
		c.logger.WithField("person_id", personID).Debugf("not all keys found in cache, got %d of %d", len(fetched), len(keys))
		c.metrics.CacheMiss()
		return nil, nil
	}

	c.logger.WithField("person_id", personID).Debug("successful cache read")
	c.metrics.CacheHit()
	return CachedPermissionsDoc(fetched), nil
}

// fetch selects the one gateway call that covers the requested specs.
// Multi-reference checks and the lone global reference go through the
// comprehensive fetch-all; a single reference uses the targeted fetch,
// which keeps the common case's payload small.
func (c *Client) fetch(ctx context.Context, personID string, specs []RefSpec) (FetchedPermissionsDoc, error) {
	switch {
	case len(specs) > 1 || specs[0].IsGlobal():
		c.metrics.RemoteFetch("all_permissions")
		c.logger.WithField("person_id", personID).Debug("fetching all permissions from OS Core")
		return c.gateway.FetchAllPermissions(ctx, personID)
	case specs[0].Type != "":
		id, err := strconv.Atoi(specs[0].Ref)
		if err != nil {
			return nil, NewClientError("invalid location id "+strconv.Quote(specs[0].Ref), err)
		}
		c.metrics.RemoteFetch("permissions_for_location")
		c.logger.WithField("person_id", personID).WithField("ref", specs[0].String()).Debug("fetching location permissions from OS Core")
		return c.gateway.FetchPermissionsForLocation(ctx, personID, id, specs[0].Type)
	default:
		c.metrics.RemoteFetch("permissions")
		c.logger.WithField("person_id", personID).WithField("ref", specs[0].Ref).Debug("fetching org permissions from OS Core")
		return c.gateway.FetchPermissions(ctx, personID, specs[0].Ref)
	}
}

// cacheWrite writes the transformed document back in one batch. Write
// failures surface as a ServerError, not as a silent miss.
func (c *Client) cacheWrite(ctx context.Context, doc CachedPermissionsDoc) error {
	if c.store == nil {
		return nil
	}
	c.logger.Debugf("writing %d cache entries", len(doc))
	if err := c.store.SetMany(ctx, doc, c.ttl); err != nil {
		return NewServerError("error writing to cache", err)
	}
	return nil
}

// evaluate applies the predicate to the cached document: a global grant
// short-circuits to true, otherwise every requested reference's entry
// must contain the scope. Absent entries evaluate as "not granted", not
// as errors.
func (c *Client) evaluate(personID, scope string, specs []RefSpec, doc CachedPermissionsDoc) bool {
	if containsScope(doc[globalCacheKey(personID)], scope) {
		return true
	}
	for _, spec := range specs {
		if !containsScope(doc[cacheKey(personID, spec)], scope) {
			return false
		}
	}
	return true
}

// partitionRawKeys splits raw reference keys into org refs and typed
// location id sets.
func (c *Client) partitionRawKeys(rawKeys []string) (*OrgRefs, error) {
	refs := &OrgRefs{}
	for _, rawKey := range rawKeys {
		spec := RefSpec{Ref: rawKey}
		if i := strings.IndexByte(rawKey, ':'); i >= 0 {
			spec = RefSpec{Ref: rawKey[i+1:], Type: RefType(rawKey[:i])}
		}

		switch spec.Type {
		case "":
			refs.OrgRefs = append(refs.OrgRefs, spec.Ref)
		case RefTypeCompany, RefTypeVendor:
			id, err := strconv.Atoi(spec.Ref)
			if err != nil {
				return nil, NewServerError("malformed reference key "+strconv.Quote(rawKey), err)
			}
			if spec.Type == RefTypeCompany {
				refs.CompanyIDs = append(refs.CompanyIDs, id)
			} else {
				refs.VendorIDs = append(refs.VendorIDs, id)
			}
		default:
			c.logger.WithField("raw_key", rawKey).Debug("skipping reference with unknown location type")
		}
	}
	return refs, nil
}

// complete records the call's metric and, when the call succeeded,
// broadcasts its completion event. A failure raised by a callback-error
// handler inside Emit is the one event failure that propagates to the
// caller.
func (c *Client) complete(call, personID, scope string, refs []RefSpec, result bool, callErr error, start time.Time) error {
	label := strconv.FormatBool(result)
	if callErr != nil {
		label = "error"
	}
	c.metrics.ObserveCheck(call, label, scope, time.Since(start))

	if callErr != nil {
		return callErr
	}
	return c.registrar.Emit(EventCheckCompleted, CheckEvent{
		Call:     call,
		PersonID: personID,
		Scope:    scope,
		Refs:     refs,
		Result:   result,
	})
}
