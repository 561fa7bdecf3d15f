package controllers

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/saifgs/sheetbridge/app/models"
	"github.com/saifgs/sheetbridge/app/repository"
	"github.com/saifgs/sheetbridge/internal/pkg/cache"
	"github.com/saifgs/sheetbridge/internal/pkg/mapping"
)

// listCacheTTL bounds the integration list cache. Saves and deletes do not
// invalidate it; stale lists age out.
const listCacheTTL = 10 * time.Minute

const dateLayout = "2006-01-02"

type integrationListResponse struct {
	Integrations []models.Integration `json:"integrations"`
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	PerPage      int                  `json:"per_page"`
}

// HandleIntegrationList lists integrations with optional title, plugin and
// date-range filters. Results are served from a read-through cache keyed by
// the full filter combination.
func HandleIntegrationList(c *fiber.Ctx) error {
	filter := repository.IntegrationListFilter{
		Title:    c.Query("title"),
		PluginID: c.Query("plugin_id"),
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "date_from must be YYYY-MM-DD")
		}
		filter.DateFrom = t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "date_to must be YYYY-MM-DD")
		}
		// make the upper bound inclusive for the whole day
		filter.DateTo = t.Add(24*time.Hour - time.Second)
	}
	var page int
	filter.Offset, filter.Limit, page = pagination(c, 20, 100)

	cacheKey := integrationListCacheKey(filter)
	var cached integrationListResponse
	if err := cache.GetJSON(cacheKey, &cached); err == nil {
		return c.JSON(cached)
	} else if !cache.IsMiss(err) {
		log.Printf("integration list cache read failed: %v", err)
	}

	repo := repository.GetGlobalFactory().GetIntegrationRepository()
	integrations, total, err := repo.List(filter)
	if err != nil {
		log.Printf("integration list failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load integrations")
	}

	response := integrationListResponse{
		Integrations: integrations,
		Total:        total,
		Page:         page,
		PerPage:      filter.Limit,
	}
	if err := cache.SetJSON(cacheKey, response, listCacheTTL); err != nil {
		log.Printf("integration list cache write failed: %v", err)
	}
	return c.JSON(response)
}

func integrationListCacheKey(filter repository.IntegrationListFilter) string {
	raw := fmt.Sprintf("%s|%s|%d|%d|%d|%d",
		filter.Title, filter.PluginID,
		filter.DateFrom.Unix(), filter.DateTo.Unix(),
		filter.Offset, filter.Limit)
	sum := sha1.Sum([]byte(raw))
	return "integrations:list:" + hex.EncodeToString(sum[:])
}

type integrationDeleteRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1"`
}

// HandleIntegrationDelete bulk-deletes integrations by id.
func HandleIntegrationDelete(c *fiber.Ctx) error {
	var req integrationDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "ids must contain at least one integration id")
	}

	repo := repository.GetGlobalFactory().GetIntegrationRepository()
	if err := repo.Delete(req.IDs); err != nil {
		log.Printf("integration delete failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete integrations")
	}
	return c.JSON(fiber.Map{"deleted": len(req.IDs)})
}

type integratedFormRequest struct {
	ID                 uint              `json:"id"`
	Title              string            `json:"title" validate:"required,max=255"`
	PluginID           string            `json:"plugin_id" validate:"required"`
	SourceID           string            `json:"source_id" validate:"required"`
	OrderStatuses      models.StringList `json:"order_status"`
	GoogleWorkSheetID  string            `json:"google_work_sheet_id" validate:"required"`
	GoogleSheetTabID   string            `json:"google_sheet_tab_id" validate:"required"`
	ColumnMap          models.ColumnMap  `json:"google_sheet_column_map" validate:"required,min=1"`
	DisableIntegration bool              `json:"disable_integration"`
}

// HandleIntegratedFormSave creates or updates one integration. The stored
// column range is always recomputed from the submitted map, never taken from
// the client.
func HandleIntegratedFormSave(c *fiber.Ctx) error {
	var req integratedFormRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	plugins := repository.GetGlobalFactory().GetPluginRepository()
	if _, err := plugins.GetByKey(req.PluginID); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown plugin id")
	}

	repo := repository.GetGlobalFactory().GetIntegrationRepository()
	integration := &models.Integration{
		ID:                     req.ID,
		Title:                  req.Title,
		PluginID:               req.PluginID,
		SourceID:               req.SourceID,
		OrderStatuses:          req.OrderStatuses,
		GoogleWorkSheetID:      req.GoogleWorkSheetID,
		GoogleSheetTabID:       req.GoogleSheetTabID,
		GoogleSheetColumnMap:   req.ColumnMap,
		GoogleSheetColumnRange: mapping.ColumnRange(req.ColumnMap),
		DisableIntegration:     req.DisableIntegration,
	}

	if req.ID == 0 {
		if err := repo.Create(integration); err != nil {
			log.Printf("integration create failed: %v", err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save integration")
		}
		return c.Status(fiber.StatusCreated).JSON(integration)
	}

	if _, err := repo.GetByID(req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Integration not found")
		}
		log.Printf("integration lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load integration")
	}
	if err := repo.Update(integration); err != nil {
		log.Printf("integration update failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save integration")
	}
	return c.JSON(integration)
}

type integratedEditFormRequest struct {
	ID uint `json:"id" validate:"required"`
}

// HandleIntegratedEditForm loads one integration for editing and reconciles
// its column map against the sheet's current header row: entries beyond the
// header count are trimmed, headers without an entry are appended unmapped.
// The repaired map is persisted locally; the sheet is never written.
func HandleIntegratedEditForm(c *fiber.Ctx) error {
	var req integratedEditFormRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "id is required")
	}

	repo := repository.GetGlobalFactory().GetIntegrationRepository()
	integration, err := repo.GetByID(req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Integration not found")
		}
		log.Printf("integration lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load integration")
	}

	headers, err := getGoogleClient().HeaderRow(c.Context(), integration.GoogleWorkSheetID, integration.GoogleSheetTabID)
	if err != nil {
		// The edit form still works without the live sheet; headers stay
		// unreconciled.
		log.Printf("header row fetch failed for integration %d: %v", integration.ID, err)
		return c.JSON(fiber.Map{"integration": integration, "sheet_headers": nil})
	}

	reconciled := reconcileColumnMap(integration.GoogleSheetColumnMap, headers)
	if len(reconciled) != len(integration.GoogleSheetColumnMap) {
		integration.GoogleSheetColumnMap = reconciled
		integration.GoogleSheetColumnRange = mapping.ColumnRange(reconciled)
		if err := repo.Update(integration); err != nil {
			log.Printf("column map repair persist failed for integration %d: %v", integration.ID, err)
		}
	}

	return c.JSON(fiber.Map{"integration": integration, "sheet_headers": headers})
}

// reconcileColumnMap trims map entries past the sheet's header count and
// appends one unmapped entry per header column the map does not cover yet.
func reconcileColumnMap(entries models.ColumnMap, headers []string) models.ColumnMap {
	if len(entries) > len(headers) {
		entries = entries[:len(headers)]
	}
	for i := len(entries); i < len(headers); i++ {
		entries = append(entries, models.ColumnMapEntry{
			Key:              i,
			GoogleSheetIndex: mapping.ColumnLocation(i),
		})
	}
	return entries
}
