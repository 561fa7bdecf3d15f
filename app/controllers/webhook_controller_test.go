package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func webhookTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhooks/cf7", HandleCF7Webhook)
	app.Post("/webhooks/wpforms", HandleWPFormsWebhook)
	app.Post("/webhooks/gravityforms", HandleGravityFormsWebhook)
	app.Post("/webhooks/woocommerce", HandleWooCommerceWebhook)
	return app
}

func TestWebhookRejectsMalformedPayloads(t *testing.T) {
	app := webhookTestApp()

	tests := []struct {
		name string
		path string
		body string
	}{
		{"wpforms invalid json", "/webhooks/wpforms", "{not json"},
		{"wpforms missing form id", "/webhooks/wpforms", `{"fields":[]}`},
		{"gravityforms invalid json", "/webhooks/gravityforms", "{not json"},
		{"gravityforms missing form id", "/webhooks/gravityforms", `{"entry":{}}`},
		{"woocommerce invalid json", "/webhooks/woocommerce", "{not json"},
		{"woocommerce missing order id", "/webhooks/woocommerce", `{"status":"processing"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCF7WebhookRequiresMultipart(t *testing.T) {
	app := webhookTestApp()

	req := httptest.NewRequest("POST", "/webhooks/cf7", strings.NewReader(`{"your-name":"Jane"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeliveryIDPrefersHeader(t *testing.T) {
	app := fiber.New()
	var got string
	app.Post("/probe", func(c *fiber.Ctx) error {
		got = deliveryID(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/probe", nil)
	req.Header.Set("X-Delivery-ID", "delivery-42")
	_, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, "delivery-42", got)

	req = httptest.NewRequest("POST", "/probe", nil)
	_, err = app.Test(req)
	assert.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "delivery-42", got)
}
