package googleauth

import (
	"sync"

	"github.com/saifgs/sheetbridge/app/repository"
)

// Credential slot names in the flat settings store. One group per auth
// method; each method owns its slots exclusively.
const (
	// Service account
	SlotServiceAccountFile  = "google_service_account_file"
	SlotServiceAccountToken = "google_service_account_token"

	// Bridge (auto-connect)
	SlotBridgeAccessToken  = "google_bridge_access_token"
	SlotBridgeRefreshToken = "google_bridge_refresh_token"
	SlotBridgeExpiry       = "google_bridge_expiry"
	SlotBridgeEmail        = "google_bridge_email"

	// Client credentials
	SlotClientID           = "google_client_id"
	SlotClientSecret       = "google_client_secret" // encrypted
	SlotClientAccessToken  = "google_client_access_token"
	SlotClientRefreshToken = "google_client_refresh_token" // encrypted
	SlotClientExpiry       = "google_client_expiry"
	SlotClientEmail        = "google_client_email"
)

// CredentialStore abstracts the named slots credential state lives in, so
// auth methods never read ambient global configuration directly.
type CredentialStore interface {
	Get(slot string) (string, error)
	Set(slot, value string) error
	Delete(slot string) error
}

// settingStore backs CredentialStore with the settings repository.
type settingStore struct {
	settings repository.SettingRepository
}

// NewSettingStore wraps the setting repository as a credential store.
func NewSettingStore(settings repository.SettingRepository) CredentialStore {
	return &settingStore{settings: settings}
}

func (s *settingStore) Get(slot string) (string, error) {
	return s.settings.GetValue(slot)
}

func (s *settingStore) Set(slot, value string) error {
	return s.settings.SetValue(slot, value)
}

func (s *settingStore) Delete(slot string) error {
	return s.settings.DeleteValue(slot)
}

// MemoryStore is an in-memory CredentialStore used by tests.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]string
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string]string{}}
}

func (m *MemoryStore) Get(slot string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[slot], nil
}

func (m *MemoryStore) Set(slot, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = value
	return nil
}

func (m *MemoryStore) Delete(slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}
