package googleauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func writeTestServiceAccountFile(t *testing.T, tokenURI string) (string, *rsa.PublicKey) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})

	raw, err := json.Marshal(map[string]string{
		"client_email": "robot@project.iam.gserviceaccount.com",
		"private_key":  string(keyPEM),
		"token_uri":    tokenURI,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "service-account.json")
	require.NoError(t, os.WriteFile(path, raw, 0600))
	return path, &priv.PublicKey
}

func TestParseServiceAccountKey(t *testing.T) {
	_, err := ParseServiceAccountKey([]byte("{not json"))
	require.Error(t, err)

	_, err = ParseServiceAccountKey([]byte(`{"client_email":"a@b.c","private_key":"x"}`))
	require.Error(t, err, "missing token_uri must be rejected")

	key, err := ParseServiceAccountKey([]byte(`{"client_email":"a@b.c","private_key":"x","token_uri":"https://t"}`))
	require.NoError(t, err)
	require.Equal(t, "a@b.c", key.ClientEmail)
}

func TestServiceAccountTokenSignsAndCaches(t *testing.T) {
	var pub *rsa.PublicKey
	exchanges := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		require.NoError(t, r.ParseForm())
		require.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.Form.Get("grant_type"))

		assertion := r.Form.Get("assertion")
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(assertion, claims, func(tok *jwt.Token) (any, error) {
			require.IsType(t, &jwt.SigningMethodRSA{}, tok.Method)
			return pub, nil
		})
		require.NoError(t, err, "assertion must verify against the service account key")
		require.Equal(t, "robot@project.iam.gserviceaccount.com", claims["iss"])
		require.Equal(t, OAuthScopes, claims["scope"])

		json.NewEncoder(w).Encode(map[string]any{"access_token": "sa-token", "expires_in": 3600})
	}))
	defer srv.Close()

	path, pubKey := writeTestServiceAccountFile(t, srv.URL)
	pub = pubKey

	store := NewMemoryStore()
	require.NoError(t, store.Set(SlotServiceAccountFile, path))

	sa := NewServiceAccount(store)
	token, err := sa.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sa-token", token)

	// Second call must serve the cached token without another exchange.
	token, err = sa.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sa-token", token)
	require.Equal(t, 1, exchanges)

	status, err := sa.Status()
	require.NoError(t, err)
	require.Equal(t, StatusConnected, status)
}

func TestServiceAccountReSignsWhenExpired(t *testing.T) {
	exchanges := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		json.NewEncoder(w).Encode(map[string]any{"access_token": "sa-token", "expires_in": 3600})
	}))
	defer srv.Close()

	path, _ := writeTestServiceAccountFile(t, srv.URL)
	store := NewMemoryStore()
	require.NoError(t, store.Set(SlotServiceAccountFile, path))

	sa := NewServiceAccount(store)
	_, err := sa.Token(context.Background())
	require.NoError(t, err)

	sa.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	status, err := sa.Status()
	require.NoError(t, err)
	require.Equal(t, StatusExpired, status)

	_, err = sa.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, exchanges, "expired token must trigger a fresh assertion")
}

func TestServiceAccountNotConnected(t *testing.T) {
	sa := NewServiceAccount(NewMemoryStore())

	status, err := sa.Status()
	require.NoError(t, err)
	require.Equal(t, StatusNotConnected, status)

	_, err = sa.Token(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
}
