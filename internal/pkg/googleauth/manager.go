package googleauth

import (
	"context"
	"log"
	"strings"

	"github.com/saifgs/sheetbridge/internal/pkg/env"
)

// Manager owns the three auth methods and resolves the active token. The
// priority order reproduces the original behavior: client credentials win
// over the bridge. The service-account fallback is off unless explicitly
// enabled, since the original had it disabled with unclear intent.
type Manager struct {
	ServiceAccount *ServiceAccount
	Bridge         *Bridge
	Client         *ClientCredentials

	redirectURI string
	priority    []Method
}

// NewManager wires the three methods against one credential store.
func NewManager(store CredentialStore) *Manager {
	redirectURI := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000"), "/") + "/api/saifgs/v1/oauth/callback"
	cryptSecret := env.GetEnv("AUTH_SECRET", "")

	m := &Manager{
		ServiceAccount: NewServiceAccount(store),
		Bridge:         NewBridge(store),
		Client:         NewClientCredentials(store, cryptSecret, redirectURI),
		redirectURI:    redirectURI,
	}

	m.priority = []Method{m.Client, m.Bridge}
	if env.GetEnv("GOOGLE_SA_FALLBACK", "false") == "true" {
		m.priority = append(m.priority, m.ServiceAccount)
	}
	return m
}

// NewManagerWithPriority builds a manager over explicit methods, in
// resolution order. Used by tests and custom wiring.
func NewManagerWithPriority(methods ...Method) *Manager {
	return &Manager{priority: methods}
}

// ActiveToken returns the first usable token in priority order. A method
// that is configured but cannot produce a token (failed refresh, transient
// error) is skipped so a lower-priority method can still serve.
func (m *Manager) ActiveToken(ctx context.Context) (string, error) {
	for _, method := range m.priority {
		status, err := method.Status()
		if err != nil {
			log.Printf("token resolution: %s status check failed: %v", method.Name(), err)
			continue
		}
		if status == StatusNotConnected {
			continue
		}
		token, err := method.Token(ctx)
		if err != nil {
			log.Printf("token resolution: %s produced no token: %v", method.Name(), err)
			continue
		}
		return token, nil
	}
	return "", ErrNotConnected
}

// RedirectURI returns the callback URL registered with the OAuth providers.
func (m *Manager) RedirectURI() string {
	return m.redirectURI
}

// MethodByName returns the method matching the state discriminator.
func (m *Manager) MethodByName(name string) (Method, bool) {
	switch name {
	case MethodServiceAccount:
		if m.ServiceAccount != nil {
			return m.ServiceAccount, true
		}
	case MethodBridge:
		if m.Bridge != nil {
			return m.Bridge, true
		}
	case MethodClientCredentials:
		if m.Client != nil {
			return m.Client, true
		}
	}
	return nil, false
}

func logBestEffort(what string, err error) {
	log.Printf("%s failed (continuing): %v", what, err)
}
