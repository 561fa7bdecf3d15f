package controllers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saifgs/sheetbridge/app/models"
	"github.com/saifgs/sheetbridge/app/repository"
	"github.com/saifgs/sheetbridge/internal/pkg/adapters"
)

// webhookAccepted is the uniform webhook response. Sync failures are logged
// server-side and never surface to the sender; a retry from the source
// plugin would duplicate the row, not repair it.
func webhookAccepted(c *fiber.Ctx) error {
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"received": true})
}

// deliveryID identifies one webhook delivery for the audit trail. Senders
// that do not set the header get a generated id.
func deliveryID(c *fiber.Ctx) string {
	if id := c.Get("X-Delivery-ID"); id != "" {
		return id
	}
	return uuid.New().String()
}

// HandleCF7Webhook ingests one Contact Form 7 submission as multipart form
// data. Attachments are relocated into the public uploads directory and the
// field value becomes the file's public URL. Every submission is mirrored
// into the local entries table whether or not a sheet sync happens.
func HandleCF7Webhook(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Multipart form data is required")
	}

	formID := ""
	if values := form.Value["_wpcf7"]; len(values) > 0 {
		formID = values[0]
	}
	if formID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "_wpcf7 form id is missing")
	}

	fields := adapters.ExtractCF7(form.Value)

	store := getUploadStore()
	for name, files := range form.File {
		if len(files) == 0 {
			continue
		}
		url, err := store.SaveAttachment(files[0])
		if err != nil {
			log.Printf("cf7 attachment relocation failed for field %s: %v", name, err)
			continue
		}
		fields[name] = url
	}

	// Mirror first; the local entry must exist even when the sync fails.
	entry := &models.Entry{FormID: formID}
	if err := repository.GetGlobalFactory().GetEntryRepository().Create(entry, fields); err != nil {
		log.Printf("cf7 entry mirror failed for form %s: %v", formID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store submission")
	}

	sourceRowID := strconv.FormatUint(uint64(entry.ID), 10)
	if err := getSyncer().SyncSubmission(c.Context(), models.PluginCF7, formID, sourceRowID, fields); err != nil {
		log.Printf("cf7 sheet sync failed for form %s: %v", formID, err)
	}
	return webhookAccepted(c)
}

// HandleWPFormsWebhook ingests one WPForms submission.
func HandleWPFormsWebhook(c *fiber.Ctx) error {
	var payload adapters.WPFormsPayload
	if err := c.BodyParser(&payload); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if payload.FormID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "form_id is required")
	}

	fields := adapters.ExtractWPForms(&payload)
	if err := getSyncer().SyncSubmission(c.Context(), models.PluginWPForms, payload.FormID, deliveryID(c), fields); err != nil {
		log.Printf("wpforms sheet sync failed for form %s: %v", payload.FormID, err)
	}
	return webhookAccepted(c)
}

// HandleGravityFormsWebhook ingests one Gravity Forms entry.
func HandleGravityFormsWebhook(c *fiber.Ctx) error {
	var payload adapters.GravityPayload
	if err := c.BodyParser(&payload); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if payload.FormID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "form_id is required")
	}

	fields := adapters.ExtractGravityForms(&payload)
	if err := getSyncer().SyncSubmission(c.Context(), models.PluginGravityForms, payload.FormID, deliveryID(c), fields); err != nil {
		log.Printf("gravityforms sheet sync failed for form %s: %v", payload.FormID, err)
	}
	return webhookAccepted(c)
}

// HandleWooCommerceWebhook ingests one WooCommerce order event. Only orders
// whose status matches an integration's configured list are synced.
func HandleWooCommerceWebhook(c *fiber.Ctx) error {
	var order adapters.WooOrder
	if err := c.BodyParser(&order); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if order.ID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Order id is required")
	}

	if err := getSyncer().SyncOrder(c.Context(), &order); err != nil {
		log.Printf("woocommerce sheet sync failed for order %d: %v", order.ID, err)
	}
	return webhookAccepted(c)
}
