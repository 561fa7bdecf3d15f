package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"
)

func signHex(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func signBase64(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"form_id":"7"}`)
	secret := "shared-secret"

	tests := []struct {
		name      string
		signature string
		secret    string
		want      bool
	}{
		{"valid hex", signHex(payload, secret), secret, true},
		{"valid base64", signBase64(payload, secret), secret, true},
		{"uppercase hex", strings.ToUpper(signHex(payload, secret)), secret, true},
		{"wrong secret", signHex(payload, "other"), secret, false},
		{"empty signature", "", secret, false},
		{"empty secret", signHex(payload, secret), "", false},
		{"garbage", "not-a-signature", secret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyWebhookSignature(payload, tt.signature, tt.secret)
			if got != tt.want {
				t.Fatalf("VerifyWebhookSignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyWebhookSignatureTamperedPayload(t *testing.T) {
	secret := "shared-secret"
	sig := signHex([]byte(`{"id":1}`), secret)
	if VerifyWebhookSignature([]byte(`{"id":2}`), sig, secret) {
		t.Fatal("tampered payload must not verify")
	}
}
