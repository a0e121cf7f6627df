// Command permcheck runs a single permission check from the command
// line, using the same configuration a service embedding the client
// would use.
//
//	PERMCLIENT_OSCORE_URL=https://oscore.internal \
//	permcheck -person 7f9c... -scope read:invoices -ref 52a1...
//	permcheck -person 7f9c... -scope read:orders -location-id 42 -location-type company
//	permcheck -person 7f9c... -scope admin:all -global
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/osplatform/permissions-client/pkg/cache"
	"github.com/osplatform/permissions-client/pkg/config"
	"github.com/osplatform/permissions-client/pkg/oscore"
	"github.com/osplatform/permissions-client/pkg/permissions"
	"github.com/osplatform/permissions-client/pkg/token"
	"github.com/osplatform/permissions-client/pkg/transport"
)

func main() {
	person := flag.String("person", "", "Person id to check")
	scope := flag.String("scope", "", "Permission scope, e.g. read:invoices")
	ref := flag.String("ref", "", "Org ref (UUID) to check against")
	locationID := flag.Int("location-id", 0, "Location id to check against")
	locationType := flag.String("location-type", "", "Location type: company or vendor")
	global := flag.Bool("global", false, "Check the global reference")
	allRefs := flag.String("all", "", "Comma-separated org refs; requires the scope on every one")
	flag.Parse()

	if *person == "" || *scope == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := cache.New(cfg.Cache.Store)
	if err != nil {
		log.Fatalf("Failed to initialize cache backend: %v", err)
	}

	transportOpts := []transport.Option{transport.WithTimeout(cfg.OSCore.RequestTimeout)}
	if cfg.Auth.Settings.Domain != "" {
		manager, err := token.NewManager(cfg.Auth.Settings, token.NewMemoryStorage())
		if err != nil {
			log.Fatalf("Failed to initialize token manager: %v", err)
		}
		transportOpts = append(transportOpts, transport.WithAuthenticator(token.NewAuthenticator(manager, "oscore")))
	}

	httpClient, err := transport.New(cfg.OSCore.BaseURL, transportOpts...)
	if err != nil {
		log.Fatalf("Failed to initialize transport: %v", err)
	}

	client, err := permissions.NewClient(permissions.Options{
		Gateway:  oscore.NewClient(httpClient),
		Store:    store,
		CacheTTL: cfg.Cache.TTL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize permissions client: %v", err)
	}

	ctx := context.Background()

	ok, err := runCheck(ctx, client, *person, *scope, *ref, *locationID, *locationType, *global, *allRefs)
	if err != nil {
		log.Fatalf("Check failed: %v", err)
	}

	fmt.Println(ok)
	if !ok {
		os.Exit(1)
	}
}

func runCheck(ctx context.Context, client *permissions.Client, person, scope, ref string, locationID int, locationType string, global bool, allRefs string) (bool, error) {
	switch {
	case global:
		return client.HasGlobalPermission(ctx, person, scope)

	case allRefs != "":
		var refs []permissions.RefSpec
		for _, r := range strings.Split(allRefs, ",") {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			refs = append(refs, permissions.OrgRef(r))
		}
		return client.HasAllPermissions(ctx, person, scope, refs)

	case locationType != "":
		return client.HasPermission(ctx, person, scope,
			permissions.LocationRef(locationID, permissions.RefType(locationType)))

	case ref != "":
		if _, err := uuid.Parse(ref); err != nil {
			return false, fmt.Errorf("org ref %q is not a UUID: %w", ref, err)
		}
		return client.HasPermission(ctx, person, scope, permissions.OrgRef(ref))

	default:
		return false, fmt.Errorf("one of -ref, -location-type, -global, or -all is required")
	}
}
