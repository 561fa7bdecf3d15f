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

	"github.com/saifgs/sheetbridge/internal/pkg/crypt"
	"github.com/saifgs/sheetbridge/internal/pkg/env"
)

const (
	defaultGoogleAuthorizeURL = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultGoogleTokenURL     = "https://oauth2.googleapis.com/token"
	defaultGoogleRevokeURL    = "https://oauth2.googleapis.com/revoke"
	defaultGoogleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// ClientCredentials drives the standard authorization-code flow directly
// against Google with a customer-supplied client id and secret. The secret
// and the refresh token are encrypted at rest.
type ClientCredentials struct {
	store CredentialStore
	// cryptSecret keys the at-rest encryption of secret material.
	cryptSecret string

	authorizeURL string
	tokenURL     string
	revokeURL    string
	userInfoURL  string
	redirectURI  string

	httpClient *http.Client
	now        func() time.Time
}

// NewClientCredentials creates the direct-OAuth auth method. Endpoint URLs
// are env-overridable so tests can point at a local server.
func NewClientCredentials(store CredentialStore, cryptSecret, redirectURI string) *ClientCredentials {
	return &ClientCredentials{
		store:        store,
		cryptSecret:  cryptSecret,
		authorizeURL: env.GetEnv("GOOGLE_AUTHORIZE_URL", defaultGoogleAuthorizeURL),
		tokenURL:     env.GetEnv("GOOGLE_TOKEN_URL", defaultGoogleTokenURL),
		revokeURL:    env.GetEnv("GOOGLE_REVOKE_URL", defaultGoogleRevokeURL),
		userInfoURL:  env.GetEnv("GOOGLE_USERINFO_URL", defaultGoogleUserInfoURL),
		redirectURI:  redirectURI,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		now:          time.Now,
	}
}

// Name returns the method discriminator.
func (c *ClientCredentials) Name() string { return MethodClientCredentials }

// SaveCredentials validates and stores the customer's client id and secret.
// The secret is encrypted before it touches the settings table.
func (c *ClientCredentials) SaveCredentials(clientID, clientSecret string) error {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return errors.New("client id and client secret are required")
	}
	if !strings.HasSuffix(clientID, ".apps.googleusercontent.com") {
		return errors.New("client id must end with .apps.googleusercontent.com")
	}

	encrypted, err := crypt.Encrypt(clientSecret, c.cryptSecret)
	if err != nil {
		return err
	}
	if err := c.store.Set(SlotClientID, clientID); err != nil {
		return err
	}
	return c.store.Set(SlotClientSecret, encrypted)
}

// HasCredentials reports whether a client id/secret pair is stored.
func (c *ClientCredentials) HasCredentials() bool {
	return mustGet(c.store, SlotClientID) != "" && mustGet(c.store, SlotClientSecret) != ""
}

// ClientID returns the stored client id, empty when none is saved.
func (c *ClientCredentials) ClientID() string {
	return mustGet(c.store, SlotClientID)
}

// AuthorizeURL builds Google's consent-screen URL with our state parameter.
// access_type=offline and prompt=consent force a refresh token grant.
func (c *ClientCredentials) AuthorizeURL(state string) (string, error) {
	clientID := mustGet(c.store, SlotClientID)
	if clientID == "" {
		return "", errors.New("client credentials are not configured")
	}
	u, err := url.Parse(c.authorizeURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", clientID)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("scope", OAuthScopes)
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// HandleCallback exchanges the authorization code, stores the token set and
// captures the connected account email via the userinfo endpoint.
func (c *ClientCredentials) HandleCallback(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("oauth code is required")
	}
	clientID, clientSecret, err := c.loadCredentials()
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("code", strings.TrimSpace(code))
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("redirect_uri", c.redirectURI)

	out, err := c.postToken(ctx, form)
	if err != nil {
		return err
	}
	if err := c.storeTokens(out); err != nil {
		return err
	}

	if email, err := c.fetchEmail(ctx, out.AccessToken); err != nil {
		logBestEffort("google userinfo", err)
	} else if email != "" {
		if err := c.store.Set(SlotClientEmail, email); err != nil {
			return err
		}
	}
	return nil
}

// Status reports the connection state derived from stored slots.
func (c *ClientCredentials) Status() (ConnStatus, error) {
	access, err := c.store.Get(SlotClientAccessToken)
	if err != nil {
		return StatusNotConnected, err
	}
	if access == "" {
		return StatusNotConnected, nil
	}
	expiry, ok := parseExpiry(mustGet(c.store, SlotClientExpiry))
	if !ok || IsExpired(expiry, c.now()) {
		return StatusExpired, nil
	}
	return StatusConnected, nil
}

// Token returns the stored access token, refreshing it first when expired.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	access, err := c.store.Get(SlotClientAccessToken)
	if err != nil {
		return "", err
	}
	if access == "" {
		return "", ErrNotConnected
	}
	expiry, ok := parseExpiry(mustGet(c.store, SlotClientExpiry))
	if ok && !IsExpired(expiry, c.now()) {
		return access, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return "", err
	}
	return c.store.Get(SlotClientAccessToken)
}

// Refresh exchanges the stored (encrypted) refresh token for a new access
// token.
func (c *ClientCredentials) Refresh(ctx context.Context) error {
	refresh, err := c.refreshToken()
	if err != nil {
		return err
	}
	clientID, clientSecret, err := c.loadCredentials()
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refresh)
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)

	out, err := c.postToken(ctx, form)
	if err != nil {
		return err
	}
	// Google does not return a refresh token on refresh grants.
	if out.RefreshToken == "" {
		out.RefreshToken = refresh
	}
	return c.storeTokens(out)
}

// Revoke revokes the grant at Google (best-effort) and wipes the token
// slots. The saved client id/secret stay so the admin can reconnect.
func (c *ClientCredentials) Revoke(ctx context.Context) error {
	if access, err := c.store.Get(SlotClientAccessToken); err == nil && access != "" {
		form := url.Values{"token": {access}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.revokeURL, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if resp, err := c.httpClient.Do(req); err != nil {
				logBestEffort("google revoke", err)
			} else {
				resp.Body.Close()
			}
		}
	}
	for _, slot := range []string{SlotClientAccessToken, SlotClientRefreshToken, SlotClientExpiry, SlotClientEmail} {
		if err := c.store.Delete(slot); err != nil {
			return err
		}
	}
	return nil
}

// Email returns the connected account email, empty when not connected.
func (c *ClientCredentials) Email() string {
	return mustGet(c.store, SlotClientEmail)
}

func (c *ClientCredentials) loadCredentials() (string, string, error) {
	clientID := mustGet(c.store, SlotClientID)
	encrypted := mustGet(c.store, SlotClientSecret)
	if clientID == "" || encrypted == "" {
		return "", "", errors.New("client credentials are not configured")
	}
	clientSecret, err := crypt.Decrypt(encrypted, c.cryptSecret)
	if err != nil {
		return "", "", fmt.Errorf("decrypt client secret: %w", err)
	}
	return clientID, clientSecret, nil
}

func (c *ClientCredentials) refreshToken() (string, error) {
	encrypted := mustGet(c.store, SlotClientRefreshToken)
	if encrypted == "" {
		return "", ErrNoRefresh
	}
	refresh, err := crypt.Decrypt(encrypted, c.cryptSecret)
	if err != nil {
		return "", fmt.Errorf("decrypt refresh token: %w", err)
	}
	return refresh, nil
}

func (c *ClientCredentials) storeTokens(out *googleTokenResponse) error {
	expiry := c.now().Add(time.Duration(out.ExpiresIn) * time.Second)
	if err := c.store.Set(SlotClientAccessToken, out.AccessToken); err != nil {
		return err
	}
	if err := c.store.Set(SlotClientExpiry, formatExpiry(expiry)); err != nil {
		return err
	}
	if out.RefreshToken != "" {
		encrypted, err := crypt.Encrypt(out.RefreshToken, c.cryptSecret)
		if err != nil {
			return err
		}
		if err := c.store.Set(SlotClientRefreshToken, encrypted); err != nil {
			return err
		}
	}
	return nil
}

type googleTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func (c *ClientCredentials) postToken(ctx context.Context, form url.Values) (*googleTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("google token request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out googleTokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return nil, errors.New("google token request returned empty access_token")
	}
	return &out, nil
}

func (c *ClientCredentials) fetchEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("google userinfo failed: status=%d", resp.StatusCode)
	}

	var out struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.Email, nil
}
