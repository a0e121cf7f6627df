// Package token acquires and refreshes the service-to-service bearer
// tokens the transport layer attaches to OS Core requests, using the
// OAuth client-credentials flow.
package token

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/osplatform/permissions-client/pkg/observability"
)

// Settings configures the client-credentials flow. Audiences maps a
// service name to the API identifier (audience) a token is minted for.
type Settings struct {
	Domain       string
	ClientID     string
	ClientSecret string
	Audiences    map[string]string

	// TokenURL overrides the URL derived from Domain. Mostly useful in
	// tests pointed at a local token server.
	TokenURL string
}

// tokenURL returns the endpoint tokens are minted from.
func (s Settings) tokenURL() string {
	if s.TokenURL != "" {
		return s.TokenURL
	}
	return fmt.Sprintf("https://%s/oauth/token", s.Domain)
}

// Validate reports the first missing required field.
func (s Settings) Validate() error {
	if s.Domain == "" && s.TokenURL == "" {
		return fmt.Errorf("token: Settings.Domain or Settings.TokenURL is required")
	}
	if s.ClientID == "" {
		return fmt.Errorf("token: Settings.ClientID is required")
	}
	if s.ClientSecret == "" {
		return fmt.Errorf("token: Settings.ClientSecret is required")
	}
	if len(s.Audiences) == 0 {
		return fmt.Errorf("token: Settings.Audiences must name at least one service")
	}
	return nil
}

// Manager hands out access tokens per service, reusing stored tokens
// until a refresh replaces them. Storage expiry, not the manager,
// decides when a stored token stops being served.
type Manager struct {
	settings Settings
	storage  Storage
	metrics  *observability.Metrics
	logger   *observability.Logger
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithMetrics counts refresh attempts on the given handle.
func WithMetrics(m *observability.Metrics) ManagerOption {
	return func(mgr *Manager) { mgr.metrics = m }
}

// WithLogger sets the manager's logger.
func WithLogger(logger *observability.Logger) ManagerOption {
	return func(mgr *Manager) { mgr.logger = logger }
}

// NewManager validates settings and builds a Manager.
func NewManager(settings Settings, storage Storage, opts ...ManagerOption) (*Manager, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, fmt.Errorf("token: storage is required")
	}

	m := &Manager{
		settings: settings,
		storage:  storage,
		metrics:  observability.NewUnregisteredMetrics(),
		logger:   observability.NewLogger(observability.InfoLevel, nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Token returns the stored token for service, refreshing when nothing
// is stored.
func (m *Manager) Token(ctx context.Context, service string) (string, error) {
	stored, err := m.storage.Get(ctx, storageKey(service))
	if err != nil {
		return "", fmt.Errorf("failed to read stored token for %q: %w", service, err)
	}
	if stored != "" {
		return stored, nil
	}
	return m.RefreshToken(ctx, service)
}

// RefreshToken mints a fresh token for service and stores it.
func (m *Manager) RefreshToken(ctx context.Context, service string) (string, error) {
	audience, ok := m.settings.Audiences[service]
	if !ok {
		return "", fmt.Errorf("unknown service %q", service)
	}

	m.logger.WithField("service", service).Debug("refreshing access token")

	cfg := &clientcredentials.Config{
		ClientID:     m.settings.ClientID,
		ClientSecret: m.settings.ClientSecret,
		TokenURL:     m.settings.tokenURL(),
		EndpointParams: url.Values{
			"audience": {audience},
		},
		AuthStyle: oauth2.AuthStyleInParams,
	}

	tok, err := cfg.Token(ctx)
	if err != nil {
		m.metrics.TokenRefresh(service, "error")
		return "", fmt.Errorf("failed to refresh token for %q: %w", service, err)
	}

	if err := m.storage.Set(ctx, storageKey(service), tok.AccessToken); err != nil {
		m.metrics.TokenRefresh(service, "error")
		return "", fmt.Errorf("failed to store token for %q: %w", service, err)
	}

	m.metrics.TokenRefresh(service, "ok")
	return tok.AccessToken, nil
}

// RefreshAll refreshes every configured service's token, continuing
// past individual failures and returning the first one encountered.
func (m *Manager) RefreshAll(ctx context.Context) error {
	var firstErr error
	for service := range m.settings.Audiences {
		if _, err := m.RefreshToken(ctx, service); err != nil {
			m.logger.WithError(err).WithField("service", service).Warn("token refresh failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func storageKey(service string) string {
	return "token:" + service
}
