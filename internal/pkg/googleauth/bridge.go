package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/saifgs/sheetbridge/internal/pkg/env"
)

const defaultBridgeBaseURL = "https://connect.saifgs.app"

// Bridge delegates the Google OAuth dance to an operator-run bridge server
// that holds the Google Cloud client registration, so customers connect
// without creating their own Cloud project ("auto-connect").
type Bridge struct {
	store      CredentialStore
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

type bridgeTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Email        string `json:"email"`
}

// NewBridge creates the bridge auth method, reading the bridge base URL
// from the environment.
func NewBridge(store CredentialStore) *Bridge {
	return &Bridge{
		store:      store,
		baseURL:    strings.TrimRight(env.GetEnv("BRIDGE_BASE_URL", defaultBridgeBaseURL), "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// Name returns the method discriminator.
func (b *Bridge) Name() string { return MethodBridge }

// AuthorizeURL builds the bridge's authorization redirect carrying our
// state parameter end to end.
func (b *Bridge) AuthorizeURL(state, redirectURI string) (string, error) {
	u, err := url.Parse(b.baseURL + "/oauth/authorize")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", OAuthScopes)
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// HandleCallback exchanges the authorization code at the bridge and stores
// the resulting token set.
func (b *Bridge) HandleCallback(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("oauth code is required")
	}
	out, err := b.post(ctx, "/oauth/exchange", url.Values{"code": {strings.TrimSpace(code)}})
	if err != nil {
		return err
	}
	return b.storeTokens(out)
}

// Status reports the connection state derived from stored slots.
func (b *Bridge) Status() (ConnStatus, error) {
	access, err := b.store.Get(SlotBridgeAccessToken)
	if err != nil {
		return StatusNotConnected, err
	}
	if access == "" {
		return StatusNotConnected, nil
	}
	expiry, ok := parseExpiry(mustGet(b.store, SlotBridgeExpiry))
	if !ok || IsExpired(expiry, b.now()) {
		return StatusExpired, nil
	}
	return StatusConnected, nil
}

// Token returns the stored access token, refreshing through the bridge
// when it is expired.
func (b *Bridge) Token(ctx context.Context) (string, error) {
	access, err := b.store.Get(SlotBridgeAccessToken)
	if err != nil {
		return "", err
	}
	if access == "" {
		return "", ErrNotConnected
	}
	expiry, ok := parseExpiry(mustGet(b.store, SlotBridgeExpiry))
	if ok && !IsExpired(expiry, b.now()) {
		return access, nil
	}
	if err := b.Refresh(ctx); err != nil {
		return "", err
	}
	return b.store.Get(SlotBridgeAccessToken)
}

// Refresh calls the bridge's refresh endpoint with the stored refresh token.
func (b *Bridge) Refresh(ctx context.Context) error {
	refresh, err := b.store.Get(SlotBridgeRefreshToken)
	if err != nil {
		return err
	}
	if refresh == "" {
		return ErrNoRefresh
	}
	out, err := b.post(ctx, "/oauth/refresh", url.Values{"refresh_token": {refresh}})
	if err != nil {
		return err
	}
	// The bridge may rotate the refresh token; keep the old one otherwise.
	if out.RefreshToken == "" {
		out.RefreshToken = refresh
	}
	return b.storeTokens(out)
}

// Revoke tells the bridge to revoke the grant (best-effort) and wipes the
// local slots.
func (b *Bridge) Revoke(ctx context.Context) error {
	if refresh, err := b.store.Get(SlotBridgeRefreshToken); err == nil && refresh != "" {
		if _, err := b.post(ctx, "/oauth/revoke", url.Values{"refresh_token": {refresh}}); err != nil {
			// Local disconnect still proceeds.
			logBestEffort("bridge revoke", err)
		}
	}
	for _, slot := range []string{SlotBridgeAccessToken, SlotBridgeRefreshToken, SlotBridgeExpiry, SlotBridgeEmail} {
		if err := b.store.Delete(slot); err != nil {
			return err
		}
	}
	return nil
}

// Email returns the connected account email, empty when not connected.
func (b *Bridge) Email() string {
	return mustGet(b.store, SlotBridgeEmail)
}

func (b *Bridge) storeTokens(out *bridgeTokenResponse) error {
	expiry := b.now().Add(time.Duration(out.ExpiresIn) * time.Second)
	pairs := map[string]string{
		SlotBridgeAccessToken:  out.AccessToken,
		SlotBridgeRefreshToken: out.RefreshToken,
		SlotBridgeExpiry:       formatExpiry(expiry),
	}
	if out.Email != "" {
		pairs[SlotBridgeEmail] = out.Email
	}
	for slot, value := range pairs {
		if err := b.store.Set(slot, value); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bridge) post(ctx context.Context, path string, form url.Values) (*bridgeTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bridge request %s failed: status=%d body=%s", path, resp.StatusCode, string(body))
	}

	var out bridgeTokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return nil, errors.New("bridge returned empty access_token")
	}
	return &out, nil
}

func mustGet(store CredentialStore, slot string) string {
	value, err := store.Get(slot)
	if err != nil {
		return ""
	}
	return value
}
