package googleauth

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ConnStatus is the connection state of one auth method.
type ConnStatus string

const (
	StatusNotConnected ConnStatus = "not_connected"
	StatusConnected    ConnStatus = "connected"
	StatusExpired      ConnStatus = "expired"
)

// Method names, also used as the discriminator inside the OAuth state
// parameter so callbacks are never disambiguated by query-string sniffing.
const (
	MethodServiceAccount    = "service_account"
	MethodBridge            = "bridge"
	MethodClientCredentials = "client_credentials"
)

// ExpiryBuffer is subtracted from the real expiry before comparison, so a
// token is refreshed proactively instead of failing mid-request.
const ExpiryBuffer = 300 * time.Second

var (
	ErrNotConnected = errors.New("google account not connected")
	ErrNoRefresh    = errors.New("no refresh token available, reconnect required")
)

// Method is one of the three token-acquisition flows. All three keep their
// state in CredentialStore slots and share the same lifecycle:
// not_connected -> connected -> expired -> (refresh) -> connected.
type Method interface {
	Name() string
	Status() (ConnStatus, error)
	// Token returns a usable access token, refreshing first when the
	// stored one is expired.
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
	// Revoke drops local state and best-effort revokes server-side.
	Revoke(ctx context.Context) error
}

// IsExpired reports whether a token with the given expiry needs a refresh
// at time now. The boundary is deliberate: now == expiry-buffer is still
// valid, one second later is not.
func IsExpired(expiry, now time.Time) bool {
	return now.After(expiry.Add(-ExpiryBuffer))
}

func parseExpiry(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}

func formatExpiry(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
