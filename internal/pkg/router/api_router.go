package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/saifgs/sheetbridge/app/controllers"
	"github.com/saifgs/sheetbridge/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	base := app.Group("/api/saifgs/v1", limiter.New(limiter.Config{Max: 120}))

	// The OAuth provider redirects the admin's browser here; no API key.
	base.Get("/oauth/callback", controllers.HandleOAuthCallback)

	v1 := base.Group("", middleware.APIKeyAuthMiddleware())

	// integrations
	v1.Get("/integration-list", controllers.HandleIntegrationList)
	v1.Post("/integration-list", controllers.HandleIntegrationDelete)
	v1.Post("/integrated-form", controllers.HandleIntegratedFormSave)
	v1.Post("/integrated-edit-form", controllers.HandleIntegratedEditForm)

	// plugin catalog + discovery
	v1.Get("/integrated-plugins-list", controllers.HandlePluginsList)
	v1.Post("/integrated-plugins-list", controllers.HandlePluginsToggle)
	v1.Post("/plugins-form-field-data", controllers.HandlePluginsFormFieldData)
	v1.Post("/plugins-form-data", controllers.HandlePluginsFormData)

	// google sheet proxies
	v1.Get("/google-drive-sheets", controllers.HandleGoogleDriveSheets)
	v1.Post("/google-sheet-tab", controllers.HandleGoogleSheetTab)

	// connection lifecycle
	v1.Get("/get-auto-connect-status", controllers.HandleGetAutoConnectStatus)
	v1.Post("/initiate-auto-connect", controllers.HandleInitiateAutoConnect)
	v1.Post("/deactivate-auto-connect", controllers.HandleDeactivateAutoConnect)
	v1.Get("/get-client-credentials", controllers.HandleGetClientCredentials)
	v1.Post("/save-client-credentials", controllers.HandleSaveClientCredentials)
	v1.Post("/revoke-client-credentials", controllers.HandleRevokeClientCredentials)
	v1.Get("/check-token-status", controllers.HandleCheckTokenStatus)
	v1.Post("/refresh-client-token", controllers.HandleRefreshClientToken)

	// settings + uploads
	v1.Post("/save-settings", controllers.HandleSaveSettings)
	v1.Get("/get-integration-setting", controllers.HandleGetIntegrationSetting)
	v1.Post("/remove-file", controllers.HandleRemoveFile)

	// mirrored contact form entries
	v1.Get("/contact-forms", controllers.HandleContactForms)
	v1.Get("/contact-forms/:id/entries", controllers.HandleContactFormEntries)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
