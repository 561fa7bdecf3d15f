package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saifgs/sheetbridge/internal/pkg/env"
)

// SignatureHeader carries the sender's HMAC of the raw request body.
const SignatureHeader = "X-SheetBridge-Signature"

// VerifyWebhookSignature checks an HMAC-SHA256 body signature. The header
// value may be hex or base64 encoded; WooCommerce sends base64.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	if decoded, err := hex.DecodeString(strings.ToLower(sig)); err == nil {
		if hmac.Equal(expected, decoded) {
			return true
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(sig); err == nil {
		if hmac.Equal(expected, decoded) {
			return true
		}
	}
	return false
}

// WebhookSignatureMiddleware rejects webhook deliveries whose body signature
// does not match the shared secret. The WooCommerce signature header is
// accepted as an alias.
func WebhookSignatureMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := env.GetEnv("WEBHOOK_SECRET", "")
		if secret == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Webhook secret is not configured"})
		}

		header := c.Get(SignatureHeader)
		if header == "" {
			header = c.Get("X-WC-Webhook-Signature")
		}
		if !VerifyWebhookSignature(c.Body(), header, secret) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid webhook signature"})
		}
		return c.Next()
	}
}
