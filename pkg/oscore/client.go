// Package oscore implements the permissions.Gateway interface against
// the OS Core HTTP API.
package oscore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/osplatform/permissions-client/pkg/observability"
	"github.com/osplatform/permissions-client/pkg/permissions"
	"github.com/osplatform/permissions-client/pkg/transport"
)

// Client talks to OS Core's permissions endpoints over HTTP. It maps
// 4xx responses to permissions.ClientError and every other failure to
// permissions.ServerError, as the Gateway contract requires.
type Client struct {
	http   *transport.Client
	logger *observability.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the client's logger.
func WithLogger(logger *observability.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient wraps a transport client pointed at the OS Core base URL.
func NewClient(http *transport.Client, opts ...Option) *Client {
	c := &Client{
		http:   http,
		logger: observability.NewLogger(observability.InfoLevel, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ permissions.Gateway = (*Client)(nil)

// FetchPermissions returns the person's scopes for one org ref.
func (c *Client) FetchPermissions(ctx context.Context, personID, orgRef string) (permissions.FetchedPermissionsDoc, error) {
	c.logger.WithField("person_id", personID).WithField("org_ref", orgRef).Debug("fetching permissions from OS Core")

	var doc permissions.FetchedPermissionsDoc
	err := c.http.Get(ctx, personPermissionsPath(personID), url.Values{"org_ref": {orgRef}}, &doc)
	return doc, wrapErr(err)
}

// FetchPermissionsForLocation returns the person's scopes for one
// location.
func (c *Client) FetchPermissionsForLocation(ctx context.Context, personID string, locationID int, locationType permissions.RefType) (permissions.FetchedPermissionsDoc, error) {
	c.logger.WithField("person_id", personID).
		WithField("location_id", locationID).
		WithField("location_type", string(locationType)).
		Debug("fetching location permissions from OS Core")

	query := url.Values{
		"location_id":   {strconv.Itoa(locationID)},
		"location_type": {string(locationType)},
	}
	var doc permissions.FetchedPermissionsDoc
	err := c.http.Get(ctx, personPermissionsPath(personID), query, &doc)
	return doc, wrapErr(err)
}

// FetchAllPermissions returns every reference the person holds scopes
// on. Same endpoint as the targeted fetches, with no narrowing params.
func (c *Client) FetchAllPermissions(ctx context.Context, personID string) (permissions.FetchedPermissionsDoc, error) {
	c.logger.WithField("person_id", personID).Debug("fetching all permissions from OS Core")

	var doc permissions.FetchedPermissionsDoc
	err := c.http.Get(ctx, personPermissionsPath(personID), nil, &doc)
	return doc, wrapErr(err)
}

// FetchOrgRefsForPermission returns the raw reference keys on which the
// person holds scope.
func (c *Client) FetchOrgRefsForPermission(ctx context.Context, personID, scope string) ([]string, error) {
	c.logger.WithField("person_id", personID).WithField("scope", scope).Debug("fetching org refs for permission from OS Core")

	var rawKeys []string
	err := c.http.Get(ctx, personPermissionsPath(personID)+"/org-refs", url.Values{"scope": {scope}}, &rawKeys)
	return rawKeys, wrapErr(err)
}

// FetchPersonsWithPermission returns every person holding scope on the
// given org ref.
func (c *Client) FetchPersonsWithPermission(ctx context.Context, scope, orgRef string) ([]string, error) {
	c.logger.WithField("scope", scope).WithField("org_ref", orgRef).Debug("fetching persons with permission from OS Core")

	query := url.Values{"scope": {scope}, "org_ref": {orgRef}}
	var persons []string
	err := c.http.Get(ctx, "/api/v1/permissions/people", query, &persons)
	return persons, wrapErr(err)
}

// FetchPersonsWithPermissionForLocation returns every person holding
// scope on the given location.
func (c *Client) FetchPersonsWithPermissionForLocation(ctx context.Context, scope string, locationType permissions.RefType, locationID int) ([]string, error) {
	c.logger.WithField("scope", scope).
		WithField("location_id", locationID).
		WithField("location_type", string(locationType)).
		Debug("fetching persons with location permission from OS Core")

	query := url.Values{
		"scope":         {scope},
		"location_id":   {strconv.Itoa(locationID)},
		"location_type": {string(locationType)},
	}
	var persons []string
	err := c.http.Get(ctx, "/api/v1/permissions/people", query, &persons)
	return persons, wrapErr(err)
}

func personPermissionsPath(personID string) string {
	return fmt.Sprintf("/api/v1/people/%s/permissions", url.PathEscape(personID))
}

// wrapErr translates transport failures into the gateway error
// taxonomy: 4xx means the request was malformed, everything else is a
// backend failure.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var statusErr *transport.StatusError
	if errors.As(err, &statusErr) && statusErr.IsClientStatus() {
		return permissions.NewClientError("invalid request", err)
	}
	return permissions.NewServerError("server error", err)
}
