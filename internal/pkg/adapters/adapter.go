package adapters

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/saifgs/sheetbridge/app/models"
	"github.com/saifgs/sheetbridge/app/repository"
	"github.com/saifgs/sheetbridge/internal/pkg/mapping"
)

// mappingTTL bounds how long a resolved column map is served from cache on
// the event path. Integration edits do not invalidate it.
const mappingTTL = 10 * time.Minute

var (
	ErrPluginDisabled = errors.New("source plugin is disabled")
	ErrNoIntegration  = errors.New("no integration configured for source")
	ErrEmptyData      = errors.New("resolved data is empty")
)

// SheetWriter is the slice of the Google client the sync pipeline needs.
type SheetWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, rangeA1 string, values []string) (string, error)
}

// Syncer runs the shared pipeline behind every adapter: look up the
// integrations for the event source, resolve the column map, append the
// row, record the audit entry. Errors never block the caller's own flow;
// webhook handlers log and swallow them.
type Syncer struct {
	integrations repository.IntegrationRepository
	rows         repository.IntegrationRowRepository
	plugins      repository.PluginRepository
	sheets       SheetWriter
	counter      func(integrationID uint) error
}

// NewSyncer wires the sync pipeline.
func NewSyncer(
	integrations repository.IntegrationRepository,
	rows repository.IntegrationRowRepository,
	plugins repository.PluginRepository,
	sheets SheetWriter,
) *Syncer {
	return &Syncer{
		integrations: integrations,
		rows:         rows,
		plugins:      plugins,
		sheets:       sheets,
	}
}

// WithCounter attaches a per-integration synced-row counter, incremented
// once per successful append.
func (s *Syncer) WithCounter(counter func(integrationID uint) error) *Syncer {
	s.counter = counter
	return s
}

// SyncSubmission appends one row per enabled integration of the given form
// source. Used by the three form adapters.
func (s *Syncer) SyncSubmission(ctx context.Context, pluginID, sourceID, sourceRowID string, fields map[string]string) error {
	if err := s.checkPlugin(pluginID); err != nil {
		return err
	}

	integrations, err := s.integrations.FindForSource(pluginID, sourceID)
	if err != nil {
		return err
	}
	if len(integrations) == 0 {
		return ErrNoIntegration
	}

	var firstErr error
	for i := range integrations {
		if err := s.appendRow(ctx, &integrations[i], sourceRowID, fields); err != nil {
			log.Printf("sheet sync failed for integration %d: %v", integrations[i].ID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// SyncOrder appends one row per enabled WooCommerce integration whose
// configured status list contains the order's status.
func (s *Syncer) SyncOrder(ctx context.Context, order *WooOrder) error {
	if err := s.checkPlugin(models.PluginWooCommerce); err != nil {
		return err
	}

	integrations, err := s.integrations.FindForSource(models.PluginWooCommerce, order.SourceID())
	if err != nil {
		return err
	}
	if len(integrations) == 0 {
		return ErrNoIntegration
	}

	fields := ExtractWooCommerce(order)
	synced := false
	var firstErr error
	for i := range integrations {
		integration := &integrations[i]
		if !integration.OrderStatuses.Contains(order.Status) {
			continue
		}
		synced = true
		if err := s.appendRow(ctx, integration, fmt.Sprintf("%d", order.ID), fields); err != nil {
			log.Printf("sheet sync failed for integration %d: %v", integration.ID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if !synced && firstErr == nil {
		return ErrNoIntegration
	}
	return firstErr
}

func (s *Syncer) appendRow(ctx context.Context, integration *models.Integration, sourceRowID string, fields map[string]string) error {
	entries, err := mapping.CachedColumnMap(
		integration.PluginID, integration.SourceID, integration.GoogleSheetTabID,
		mapping.ModeInsert, mappingTTL,
		func() (models.ColumnMap, error) {
			stored, err := s.integrations.GetByID(integration.ID)
			if err != nil {
				return nil, err
			}
			return stored.GoogleSheetColumnMap, nil
		},
	)
	if err != nil {
		return err
	}

	values := mapping.Resolve(entries, fields)
	if len(values) == 0 {
		return ErrEmptyData
	}

	rangeA1 := integration.GoogleSheetTabID + "!" + integration.GoogleSheetColumnRange
	updatedRange, err := s.sheets.AppendValues(ctx, integration.GoogleWorkSheetID, rangeA1, values)
	if err != nil {
		return err
	}

	row := &models.IntegrationRow{
		IntegrationID:    integration.ID,
		SheetID:          integration.GoogleWorkSheetID,
		SheetTabID:       integration.GoogleSheetTabID,
		SheetTabRowRange: updatedRange,
		SourceRowID:      sourceRowID,
	}
	if err := s.rows.Create(row); err != nil {
		// The sheet append already happened; the missing audit row is
		// logged but does not fail the sync.
		log.Printf("audit row insert failed for integration %d: %v", integration.ID, err)
	}
	if s.counter != nil {
		if err := s.counter(integration.ID); err != nil {
			log.Printf("synced-row counter increment failed for integration %d: %v", integration.ID, err)
		}
	}
	return nil
}

func (s *Syncer) checkPlugin(pluginID string) error {
	plugin, err := s.plugins.GetByKey(pluginID)
	if err != nil {
		return err
	}
	if !plugin.UsabilityStatus {
		return ErrPluginDisabled
	}
	return nil
}
