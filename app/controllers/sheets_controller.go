package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/saifgs/sheetbridge/internal/pkg/google"
	"github.com/saifgs/sheetbridge/internal/pkg/googleauth"
)

// HandleGoogleDriveSheets lists the connected account's spreadsheets for
// the integration form's sheet picker.
func HandleGoogleDriveSheets(c *fiber.Ctx) error {
	files, err := getGoogleClient().DriveSpreadsheets(c.Context())
	if err != nil {
		return googleProxyError(c, "drive listing", err)
	}
	return c.JSON(fiber.Map{"sheets": files})
}

type sheetTabRequest struct {
	GoogleWorkSheetID string `json:"google_work_sheet_id" validate:"required"`
}

// HandleGoogleSheetTab lists the tabs of one spreadsheet.
func HandleGoogleSheetTab(c *fiber.Ctx) error {
	var req sheetTabRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "google_work_sheet_id is required")
	}

	tabs, err := getGoogleClient().SheetTabs(c.Context(), req.GoogleWorkSheetID)
	if err != nil {
		return googleProxyError(c, "sheet tab listing", err)
	}
	return c.JSON(fiber.Map{"tabs": tabs})
}

// googleProxyError maps Google API failures onto the admin error envelope.
// A missing token is the caller's problem, everything else is upstream.
func googleProxyError(c *fiber.Ctx, what string, err error) error {
	if errors.Is(err, googleauth.ErrNotConnected) {
		return jsonError(c, fiber.StatusUnauthorized, "not_connected", "No Google account is connected")
	}
	var apiErr *google.APIError
	if errors.As(err, &apiErr) {
		log.Printf("%s failed upstream: %v", what, apiErr)
		return jsonError(c, fiber.StatusBadGateway, "google_api_error", "Google API request failed")
	}
	log.Printf("%s failed: %v", what, err)
	return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Google API request failed")
}
