package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/saifgs/sheetbridge/app/models"
	"github.com/saifgs/sheetbridge/app/repository"
)

// HandlePluginsList returns the source-plugin catalog with per-plugin
// usability flags.
func HandlePluginsList(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetPluginRepository()
	plugins, err := repo.GetAll()
	if err != nil {
		log.Printf("plugin list failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plugins")
	}
	return c.JSON(fiber.Map{"plugins": plugins})
}

type pluginToggleRequest struct {
	Key             string `json:"key" validate:"required"`
	UsabilityStatus bool   `json:"usability_status"`
}

// HandlePluginsToggle enables or disables one source plugin. A disabled
// plugin's webhook events are rejected by the sync pipeline.
func HandlePluginsToggle(c *fiber.Ctx) error {
	var req pluginToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "key is required")
	}

	repo := repository.GetGlobalFactory().GetPluginRepository()
	if _, err := repo.GetByKey(req.Key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Unknown plugin")
		}
		log.Printf("plugin lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load plugin")
	}
	if err := repo.SetUsability(req.Key, req.UsabilityStatus); err != nil {
		log.Printf("plugin toggle failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update plugin")
	}
	return c.JSON(fiber.Map{"key": req.Key, "usability_status": req.UsabilityStatus})
}

type formFieldDataRequest struct {
	PluginID string `json:"plugin_id" validate:"required"`
	SourceID string `json:"source_id" validate:"required"`
}

// HandlePluginsFormFieldData returns the field names known for one form
// source, used to populate the mapping editor. Contact Form 7 fields come
// from the newest mirrored entry; the other plugins deliver their fields in
// the webhook payload only, so the stored column map is the best source.
func HandlePluginsFormFieldData(c *fiber.Ctx) error {
	var req formFieldDataRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "plugin_id and source_id are required")
	}

	if req.PluginID == models.PluginCF7 {
		fields, err := cf7FieldNames(req.SourceID)
		if err != nil {
			log.Printf("cf7 field discovery failed: %v", err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load form fields")
		}
		return c.JSON(fiber.Map{"fields": fields})
	}

	fields := []string{}
	seen := map[string]bool{}
	repo := repository.GetGlobalFactory().GetIntegrationRepository()
	integrations, err := repo.FindForSource(req.PluginID, req.SourceID)
	if err != nil {
		log.Printf("field discovery failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load form fields")
	}
	for _, integration := range integrations {
		for _, entry := range integration.GoogleSheetColumnMap {
			if entry.SourceFieldIndex == nil || seen[*entry.SourceFieldIndex] {
				continue
			}
			seen[*entry.SourceFieldIndex] = true
			fields = append(fields, *entry.SourceFieldIndex)
		}
	}
	return c.JSON(fiber.Map{"fields": fields})
}

func cf7FieldNames(formID string) ([]string, error) {
	repo := repository.GetGlobalFactory().GetEntryRepository()
	entries, err := repo.GetByFormID(formID, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []string{}, nil
	}
	fields := make([]string, 0, len(entries[0].Meta))
	for _, meta := range entries[0].Meta {
		fields = append(fields, meta.MetaKey)
	}
	return fields, nil
}

type formDataRequest struct {
	PluginID string `json:"plugin_id" validate:"required"`
}

// HandlePluginsFormData returns the known form sources of one plugin.
// WooCommerce always exposes its single order stream.
func HandlePluginsFormData(c *fiber.Ctx) error {
	var req formDataRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "plugin_id is required")
	}

	if req.PluginID == models.PluginWooCommerce {
		return c.JSON(fiber.Map{"forms": []string{"shop_order"}})
	}

	if req.PluginID == models.PluginCF7 {
		formIDs, err := repository.GetGlobalFactory().GetEntryRepository().FormIDs()
		if err != nil {
			log.Printf("cf7 form discovery failed: %v", err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load forms")
		}
		return c.JSON(fiber.Map{"forms": formIDs})
	}

	// Other plugins: collect the source ids already used by integrations.
	repo := repository.GetGlobalFactory().GetIntegrationRepository()
	integrations, _, err := repo.List(repository.IntegrationListFilter{PluginID: req.PluginID, Limit: 500})
	if err != nil {
		log.Printf("form discovery failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load forms")
	}
	forms := []string{}
	seen := map[string]bool{}
	for _, integration := range integrations {
		if !seen[integration.SourceID] {
			seen[integration.SourceID] = true
			forms = append(forms, integration.SourceID)
		}
	}
	return c.JSON(fiber.Map{"forms": forms})
}
