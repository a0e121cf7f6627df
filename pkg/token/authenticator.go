package token

import "net/http"

// Authenticator stamps a bearer token for one service onto outgoing
// requests. It satisfies transport.Authenticator.
type Authenticator struct {
	manager *Manager
	service string
}

// NewAuthenticator binds a manager to the service whose token should be
// attached.
func NewAuthenticator(manager *Manager, service string) *Authenticator {
	return &Authenticator{manager: manager, service: service}
}

// Authenticate sets the Authorization header on r.
func (a *Authenticator) Authenticate(r *http.Request) error {
	tok, err := a.manager.Token(r.Context(), a.service)
	if err != nil {
		return err
	}
	r.Header.Set("Authorization", "Bearer "+tok)
	return nil
}
