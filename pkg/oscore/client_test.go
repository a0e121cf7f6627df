package oscore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osplatform/permissions-client/pkg/permissions"
	"github.com/osplatform/permissions-client/pkg/transport"
)

// fakeOSCore serves the permissions endpoints from a fixed dataset and
// records the query parameters of the last request.
type fakeOSCore struct {
	server    *httptest.Server
	lastQuery url.Values

	docs    map[string]permissions.FetchedPermissionsDoc
	orgRefs map[string][]string
	persons []string
}

func newFakeOSCore(t *testing.T) *fakeOSCore {
	t.Helper()

	f := &fakeOSCore{
		docs: map[string]permissions.FetchedPermissionsDoc{
			"person-1": {
				"org":       {"read:invoices", "pay:invoices"},
				"company:1": {"read:invoices"},
				"global":    {"admin:platform"},
			},
		},
		orgRefs: map[string][]string{
			"person-1": {"org", "company:1"},
		},
		persons: []string{"person-1", "person-2"},
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/people/{person_id}/permissions", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery = r.URL.Query()
		doc, ok := f.docs[mux.Vars(r)["person_id"]]
		if !ok {
			http.Error(w, "person not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(doc)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/people/{person_id}/permissions/org-refs", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery = r.URL.Query()
		if r.URL.Query().Get("scope") == "" {
			http.Error(w, "scope is required", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(f.orgRefs[mux.Vars(r)["person_id"]])
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/permissions/people", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery = r.URL.Query()
		json.NewEncoder(w).Encode(f.persons)
	}).Methods(http.MethodGet)

	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeOSCore) client(t *testing.T) *Client {
	t.Helper()
	httpClient, err := transport.New(f.server.URL)
	require.NoError(t, err)
	return NewClient(httpClient)
}

func TestFetchPermissions(t *testing.T) {
	fake := newFakeOSCore(t)
	client := fake.client(t)

	doc, err := client.FetchPermissions(context.Background(), "person-1", "org")
	require.NoError(t, err)

	assert.Equal(t, "org", fake.lastQuery.Get("org_ref"))
	assert.Equal(t, []string{"read:invoices", "pay:invoices"}, doc["org"])
}

func TestFetchPermissionsForLocation(t *testing.T) {
	fake := newFakeOSCore(t)
	client := fake.client(t)

	doc, err := client.FetchPermissionsForLocation(context.Background(), "person-1", 1, permissions.RefTypeCompany)
	require.NoError(t, err)

	assert.Equal(t, "1", fake.lastQuery.Get("location_id"))
	assert.Equal(t, "company", fake.lastQuery.Get("location_type"))
	assert.Equal(t, []string{"read:invoices"}, doc["company:1"])
}

func TestFetchAllPermissions(t *testing.T) {
	fake := newFakeOSCore(t)
	client := fake.client(t)

	doc, err := client.FetchAllPermissions(context.Background(), "person-1")
	require.NoError(t, err)

	assert.Empty(t, fake.lastQuery)
	assert.Len(t, doc, 3)
	assert.Equal(t, []string{"admin:platform"}, doc["global"])
}

func TestFetchOrgRefsForPermission(t *testing.T) {
	fake := newFakeOSCore(t)
	client := fake.client(t)

	refs, err := client.FetchOrgRefsForPermission(context.Background(), "person-1", "read:invoices")
	require.NoError(t, err)

	assert.Equal(t, "read:invoices", fake.lastQuery.Get("scope"))
	assert.Equal(t, []string{"org", "company:1"}, refs)
}

func TestFetchPersonsWithPermission(t *testing.T) {
	fake := newFakeOSCore(t)
	client := fake.client(t)

	persons, err := client.FetchPersonsWithPermission(context.Background(), "read:invoices", "org")
	require.NoError(t, err)

	assert.Equal(t, "read:invoices", fake.lastQuery.Get("scope"))
	assert.Equal(t, "org", fake.lastQuery.Get("org_ref"))
	assert.Equal(t, []string{"person-1", "person-2"}, persons)
}

func TestFetchPersonsWithPermissionForLocation(t *testing.T) {
	fake := newFakeOSCore(t)
	client := fake.client(t)

	persons, err := client.FetchPersonsWithPermissionForLocation(context.Background(), "read:invoices", permissions.RefTypeVendor, 7)
	require.NoError(t, err)

	assert.Equal(t, "read:invoices", fake.lastQuery.Get("scope"))
	assert.Equal(t, "7", fake.lastQuery.Get("location_id"))
	assert.Equal(t, "vendor", fake.lastQuery.Get("location_type"))
	assert.Equal(t, []string{"person-1", "person-2"}, persons)
}

func TestPersonIDIsPathEscaped(t *testing.T) {
	fake := newFakeOSCore(t)
	fake.docs["person 1"] = permissions.FetchedPermissionsDoc{"org": {"read:invoices"}}
	client := fake.client(t)

	doc, err := client.FetchPermissions(context.Background(), "person 1", "org")
	require.NoError(t, err)
	assert.Equal(t, []string{"read:invoices"}, doc["org"])
}

func TestNotFoundIsClientError(t *testing.T) {
	fake := newFakeOSCore(t)
	client := fake.client(t)

	_, err := client.FetchPermissions(context.Background(), "missing", "org")
	require.Error(t, err)
	assert.True(t, permissions.IsClientError(err))
	assert.False(t, permissions.IsServerError(err))
}

func TestBadRequestIsClientError(t *testing.T) {
	fake := newFakeOSCore(t)
	client := fake.client(t)

	_, err := client.FetchOrgRefsForPermission(context.Background(), "person-1", "")
	require.Error(t, err)
	assert.True(t, permissions.IsClientError(err))
}

func TestServerFailureIsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	httpClient, err := transport.New(server.URL)
	require.NoError(t, err)
	client := NewClient(httpClient)

	_, err = client.FetchAllPermissions(context.Background(), "person-1")
	require.Error(t, err)
	assert.True(t, permissions.IsServerError(err))
	assert.False(t, permissions.IsClientError(err))
}

func TestUnreachableServerIsServerError(t *testing.T) {
	httpClient, err := transport.New("http://127.0.0.1:1")
	require.NoError(t, err)
	client := NewClient(httpClient)

	_, err = client.FetchAllPermissions(context.Background(), "person-1")
	require.Error(t, err)
	assert.True(t, permissions.IsServerError(err))
}
