package controllers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/saifgs/sheetbridge/internal/pkg/googleauth"
)

// HandleGetAutoConnectStatus reports whether the managed bridge connection
// is active and which account it is bound to.
func HandleGetAutoConnectStatus(c *fiber.Ctx) error {
	bridge := getAuthManager().Bridge
	status, err := bridge.Status()
	if err != nil {
		log.Printf("bridge status check failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read connection status")
	}
	return c.JSON(fiber.Map{
		"status": status,
		"email":  bridge.Email(),
	})
}

// HandleInitiateAutoConnect starts the bridge OAuth flow and returns the
// authorize URL the admin UI redirects to.
func HandleInitiateAutoConnect(c *fiber.Ctx) error {
	manager := getAuthManager()
	state, err := googleauth.NewState(googleauth.MethodBridge)
	if err != nil {
		log.Printf("oauth state creation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to start connection")
	}
	url, err := manager.Bridge.AuthorizeURL(state, manager.RedirectURI())
	if err != nil {
		log.Printf("bridge authorize url failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to start connection")
	}
	return c.JSON(fiber.Map{"url": url})
}

// HandleDeactivateAutoConnect revokes the bridge connection.
func HandleDeactivateAutoConnect(c *fiber.Ctx) error {
	if err := getAuthManager().Bridge.Revoke(c.Context()); err != nil {
		log.Printf("bridge revoke failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to disconnect")
	}
	return c.JSON(fiber.Map{"status": googleauth.StatusNotConnected})
}

// HandleGetClientCredentials returns the stored OAuth client configuration.
// The secret never leaves the server.
func HandleGetClientCredentials(c *fiber.Ctx) error {
	client := getAuthManager().Client
	status, err := client.Status()
	if err != nil {
		log.Printf("client credentials status check failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read connection status")
	}
	return c.JSON(fiber.Map{
		"configured": client.HasCredentials(),
		"client_id":  client.ClientID(),
		"status":     status,
		"email":      client.Email(),
	})
}

type saveClientCredentialsRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// HandleSaveClientCredentials stores a customer-supplied OAuth client and
// returns the authorize URL for the consent flow.
func HandleSaveClientCredentials(c *fiber.Ctx) error {
	var req saveClientCredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "client_id and client_secret are required")
	}

	client := getAuthManager().Client
	if err := client.SaveCredentials(req.ClientID, req.ClientSecret); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	state, err := googleauth.NewState(googleauth.MethodClientCredentials)
	if err != nil {
		log.Printf("oauth state creation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to start connection")
	}
	url, err := client.AuthorizeURL(state)
	if err != nil {
		log.Printf("client authorize url failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to start connection")
	}
	return c.JSON(fiber.Map{"url": url})
}

// HandleRevokeClientCredentials revokes the client-credentials tokens. The
// client id and secret stay stored so the admin can reconnect.
func HandleRevokeClientCredentials(c *fiber.Ctx) error {
	if err := getAuthManager().Client.Revoke(c.Context()); err != nil {
		log.Printf("client credentials revoke failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to disconnect")
	}
	return c.JSON(fiber.Map{"status": googleauth.StatusNotConnected})
}

// HandleCheckTokenStatus reports the connection state of every auth method
// plus which one currently serves API calls.
func HandleCheckTokenStatus(c *fiber.Ctx) error {
	manager := getAuthManager()

	methods := fiber.Map{}
	for _, method := range []googleauth.Method{manager.Client, manager.Bridge, manager.ServiceAccount} {
		status, err := method.Status()
		if err != nil {
			log.Printf("status check failed for %s: %v", method.Name(), err)
			status = googleauth.StatusNotConnected
		}
		methods[method.Name()] = status
	}

	active := ""
	if _, err := manager.ActiveToken(c.Context()); err == nil {
		for _, method := range []googleauth.Method{manager.Client, manager.Bridge, manager.ServiceAccount} {
			if status, err := method.Status(); err == nil && status == googleauth.StatusConnected {
				active = method.Name()
				break
			}
		}
	}

	return c.JSON(fiber.Map{"methods": methods, "active": active})
}

// HandleRefreshClientToken forces a refresh of the client-credentials
// access token.
func HandleRefreshClientToken(c *fiber.Ctx) error {
	client := getAuthManager().Client
	if err := client.Refresh(c.Context()); err != nil {
		log.Printf("client token refresh failed: %v", err)
		return jsonError(c, fiber.StatusBadGateway, "refresh_failed", "Token refresh failed")
	}
	status, _ := client.Status()
	return c.JSON(fiber.Map{"status": status})
}

// callbackHandler is implemented by the auth methods that complete an
// authorization-code exchange.
type callbackHandler interface {
	HandleCallback(ctx context.Context, code string) error
}

// HandleOAuthCallback lands the provider redirect. The method discriminator
// travels in the state parameter; no query-shape sniffing.
func HandleOAuthCallback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		return jsonError(c, fiber.StatusBadRequest, "oauth_denied", "Authorization was denied: "+errParam)
	}
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing code or state")
	}

	methodName, err := googleauth.ConsumeState(state)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_state", "Invalid or expired state")
	}

	method, ok := getAuthManager().MethodByName(methodName)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid_state", "Unknown auth method")
	}
	handler, ok := method.(callbackHandler)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid_state", "Method does not support callbacks")
	}

	if err := handler.HandleCallback(c.Context(), code); err != nil {
		log.Printf("oauth callback exchange failed for %s: %v", methodName, err)
		return jsonError(c, fiber.StatusBadGateway, "exchange_failed", "Token exchange failed")
	}
	return c.JSON(fiber.Map{"connected": true, "method": methodName})
}
