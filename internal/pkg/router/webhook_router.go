package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saifgs/sheetbridge/app/controllers"
	"github.com/saifgs/sheetbridge/internal/pkg/middleware"
)

type WebhookRouter struct {
}

func (h WebhookRouter) InstallRouter(app *fiber.App) {
	webhooks := app.Group("/webhooks")

	// CF7 posts browser-originated multipart data and cannot sign the body;
	// that route stays unsigned.
	webhooks.Post("/cf7", controllers.HandleCF7Webhook)

	signed := webhooks.Group("", middleware.WebhookSignatureMiddleware())
	signed.Post("/wpforms", controllers.HandleWPFormsWebhook)
	signed.Post("/gravityforms", controllers.HandleGravityFormsWebhook)
	signed.Post("/woocommerce", controllers.HandleWooCommerceWebhook)
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}
