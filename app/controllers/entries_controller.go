package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/saifgs/sheetbridge/app/repository"
)

// HandleContactForms lists the Contact Form 7 forms that mirrored entries
// exist for, with per-form entry counts.
func HandleContactForms(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetEntryRepository()
	formIDs, err := repo.FormIDs()
	if err != nil {
		log.Printf("contact form listing failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load forms")
	}

	forms := make([]fiber.Map, 0, len(formIDs))
	for _, formID := range formIDs {
		count, err := repo.CountByFormID(formID)
		if err != nil {
			log.Printf("entry count failed for form %s: %v", formID, err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load forms")
		}
		forms = append(forms, fiber.Map{"form_id": formID, "entry_count": count})
	}
	return c.JSON(fiber.Map{"forms": forms})
}

// HandleContactFormEntries returns the mirrored entries of one form, newest
// first, paginated.
func HandleContactFormEntries(c *fiber.Ctx) error {
	formID := c.Params("id")
	if formID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Form id is required")
	}
	offset, limit, page := pagination(c, 25, 100)

	repo := repository.GetGlobalFactory().GetEntryRepository()
	entries, err := repo.GetByFormID(formID, offset, limit)
	if err != nil {
		log.Printf("entry listing failed for form %s: %v", formID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load entries")
	}
	total, err := repo.CountByFormID(formID)
	if err != nil {
		log.Printf("entry count failed for form %s: %v", formID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load entries")
	}

	return c.JSON(fiber.Map{
		"form_id":  formID,
		"entries":  entries,
		"total":    total,
		"page":     page,
		"per_page": limit,
	})
}
