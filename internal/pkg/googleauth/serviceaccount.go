package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scopes requested by all three auth methods.
const OAuthScopes = "https://www.googleapis.com/auth/spreadsheets https://www.googleapis.com/auth/drive.readonly https://www.googleapis.com/auth/userinfo.email"

const assertionLifetime = time.Hour

// serviceAccountKey is the subset of an uploaded service-account JSON file
// this flow needs. Validated at upload time before the file is persisted.
type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

type serviceAccountToken struct {
	AccessToken string `json:"access_token"`
	Expiry      int64  `json:"expiry"`
}

// ServiceAccount authenticates as a non-human principal by signing an RS256
// JWT assertion from the uploaded key file and exchanging it for an access
// token. There is no refresh token; an expired token is replaced by signing
// a fresh assertion.
type ServiceAccount struct {
	store      CredentialStore
	httpClient *http.Client
	// tokenURL overrides the key file's token_uri when set (tests).
	tokenURL string
	now      func() time.Time
}

// NewServiceAccount creates the service-account auth method.
func NewServiceAccount(store CredentialStore) *ServiceAccount {
	return &ServiceAccount{
		store:      store,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

// Name returns the method discriminator.
func (s *ServiceAccount) Name() string { return MethodServiceAccount }

// Status reports the connection state derived from stored slots.
func (s *ServiceAccount) Status() (ConnStatus, error) {
	path, err := s.store.Get(SlotServiceAccountFile)
	if err != nil {
		return StatusNotConnected, err
	}
	if strings.TrimSpace(path) == "" {
		return StatusNotConnected, nil
	}
	token, ok, err := s.cachedToken()
	if err != nil {
		return StatusNotConnected, err
	}
	if !ok || IsExpired(time.Unix(token.Expiry, 0), s.now()) {
		return StatusExpired, nil
	}
	return StatusConnected, nil
}

// Token returns the cached access token, signing and exchanging a new
// assertion when the cache is empty or expired.
func (s *ServiceAccount) Token(ctx context.Context) (string, error) {
	token, ok, err := s.cachedToken()
	if err != nil {
		return "", err
	}
	if ok && !IsExpired(time.Unix(token.Expiry, 0), s.now()) {
		return token.AccessToken, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return "", err
	}
	token, ok, err = s.cachedToken()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotConnected
	}
	return token.AccessToken, nil
}

// Refresh signs a fresh assertion and exchanges it at the token endpoint.
func (s *ServiceAccount) Refresh(ctx context.Context) error {
	key, err := s.loadKey()
	if err != nil {
		return err
	}

	assertion, err := s.signAssertion(key)
	if err != nil {
		return err
	}

	endpoint := s.tokenURL
	if endpoint == "" {
		endpoint = key.TokenURI
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("service account token exchange failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return errors.New("service account token exchange returned empty access_token")
	}

	cached := serviceAccountToken{
		AccessToken: out.AccessToken,
		Expiry:      s.now().Add(time.Duration(out.ExpiresIn) * time.Second).Unix(),
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return s.store.Set(SlotServiceAccountToken, string(raw))
}

// Revoke drops the key file reference and cached token. Service-account
// tokens are short-lived and not revocable server-side in a meaningful way.
func (s *ServiceAccount) Revoke(ctx context.Context) error {
	if err := s.store.Delete(SlotServiceAccountToken); err != nil {
		return err
	}
	return s.store.Delete(SlotServiceAccountFile)
}

func (s *ServiceAccount) signAssertion(key *serviceAccountKey) (string, error) {
	rsaKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(key.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("invalid service account private key: %w", err)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   key.ClientEmail,
		"scope": OAuthScopes,
		"aud":   key.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(rsaKey)
}

func (s *ServiceAccount) loadKey() (*serviceAccountKey, error) {
	path, err := s.store.Get(SlotServiceAccountFile)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, ErrNotConnected
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	key, err := ParseServiceAccountKey(raw)
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (s *ServiceAccount) cachedToken() (serviceAccountToken, bool, error) {
	raw, err := s.store.Get(SlotServiceAccountToken)
	if err != nil {
		return serviceAccountToken{}, false, err
	}
	if raw == "" {
		return serviceAccountToken{}, false, nil
	}
	var token serviceAccountToken
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return serviceAccountToken{}, false, nil
	}
	return token, token.AccessToken != "", nil
}

// ParseServiceAccountKey validates an uploaded service-account JSON file.
// Rejected files are never persisted.
func ParseServiceAccountKey(raw []byte) (*serviceAccountKey, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("malformed service account JSON: %w", err)
	}
	if strings.TrimSpace(key.ClientEmail) == "" {
		return nil, errors.New("service account JSON is missing client_email")
	}
	if strings.TrimSpace(key.PrivateKey) == "" {
		return nil, errors.New("service account JSON is missing private_key")
	}
	if strings.TrimSpace(key.TokenURI) == "" {
		return nil, errors.New("service account JSON is missing token_uri")
	}
	return &key, nil
}
