package controllers

import (
	"log"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/saifgs/sheetbridge/app/repository"
	"github.com/saifgs/sheetbridge/internal/pkg/googleauth"
)

// HandleSaveSettings accepts the service-account key upload. The JSON is
// validated before anything is written; a previously stored key file is
// replaced and removed from disk.
func HandleSaveSettings(c *fiber.Ctx) error {
	file, err := c.FormFile("service_account_file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "service_account_file is required")
	}

	store := getUploadStore()
	path, err := store.SaveServiceAccountJSON(file)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	settings := repository.GetGlobalFactory().GetSettingRepository()
	previous, err := settings.GetValue(googleauth.SlotServiceAccountFile)
	if err != nil {
		log.Printf("previous service account lookup failed: %v", err)
	}
	if err := settings.SetValue(googleauth.SlotServiceAccountFile, path); err != nil {
		log.Printf("service account slot write failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store service account")
	}
	// A new key invalidates any cached token of the old one.
	if err := settings.DeleteValue(googleauth.SlotServiceAccountToken); err != nil {
		log.Printf("service account token clear failed: %v", err)
	}
	if previous != "" && previous != path {
		if err := store.Remove(previous); err != nil {
			log.Printf("stale service account file removal failed: %v", err)
		}
	}

	return c.JSON(fiber.Map{"file": filepath.Base(path)})
}

// HandleGetIntegrationSetting reports the service-level settings the admin
// UI renders: whether a service-account key is stored and the fallback
// toggle state.
func HandleGetIntegrationSetting(c *fiber.Ctx) error {
	settings := repository.GetGlobalFactory().GetSettingRepository()
	path, err := settings.GetValue(googleauth.SlotServiceAccountFile)
	if err != nil {
		log.Printf("service account lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load settings")
	}

	status, err := getAuthManager().ServiceAccount.Status()
	if err != nil {
		log.Printf("service account status check failed: %v", err)
		status = googleauth.StatusNotConnected
	}

	response := fiber.Map{
		"service_account_configured": path != "",
		"service_account_status":     status,
	}
	if path != "" {
		response["service_account_file"] = filepath.Base(path)
	}
	return c.JSON(response)
}

// HandleRemoveFile deletes the stored service-account key and clears its
// credential slots.
func HandleRemoveFile(c *fiber.Ctx) error {
	settings := repository.GetGlobalFactory().GetSettingRepository()
	path, err := settings.GetValue(googleauth.SlotServiceAccountFile)
	if err != nil {
		log.Printf("service account lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load settings")
	}
	if path == "" {
		return jsonError(c, fiber.StatusNotFound, "not_found", "No service account file is stored")
	}

	if err := getUploadStore().Remove(path); err != nil {
		log.Printf("service account file removal failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to remove file")
	}
	if err := settings.DeleteValue(googleauth.SlotServiceAccountFile); err != nil {
		log.Printf("service account slot clear failed: %v", err)
	}
	if err := settings.DeleteValue(googleauth.SlotServiceAccountToken); err != nil {
		log.Printf("service account token clear failed: %v", err)
	}
	return c.JSON(fiber.Map{"removed": true})
}
