package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/saifgs/sheetbridge/app/models"
	"github.com/saifgs/sheetbridge/app/repository"
)

type fakeIntegrationRepo struct {
	integrations []models.Integration
}

func (f *fakeIntegrationRepo) Create(integration *models.Integration) error { return nil }

func (f *fakeIntegrationRepo) GetByID(id uint) (*models.Integration, error) {
	for i := range f.integrations {
		if f.integrations[i].ID == id {
			return &f.integrations[i], nil
		}
	}
	return nil, errors.New("integration not found")
}

func (f *fakeIntegrationRepo) Update(integration *models.Integration) error { return nil }
func (f *fakeIntegrationRepo) Delete(ids []uint) error                      { return nil }

func (f *fakeIntegrationRepo) List(filter repository.IntegrationListFilter) ([]models.Integration, int64, error) {
	return f.integrations, int64(len(f.integrations)), nil
}

func (f *fakeIntegrationRepo) FindForSource(pluginID, sourceID string) ([]models.Integration, error) {
	var out []models.Integration
	for _, in := range f.integrations {
		if in.PluginID == pluginID && in.SourceID == sourceID && !in.DisableIntegration {
			out = append(out, in)
		}
	}
	return out, nil
}

type fakeRowRepo struct {
	rows []models.IntegrationRow
}

func (f *fakeRowRepo) Create(row *models.IntegrationRow) error {
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeRowRepo) GetByIntegrationID(integrationID uint, offset, limit int) ([]models.IntegrationRow, error) {
	return f.rows, nil
}

func (f *fakeRowRepo) CountByIntegrationID(integrationID uint) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakePluginRepo struct {
	usable map[string]bool
}

func (f *fakePluginRepo) GetAll() ([]models.SupportedPlugin, error) { return nil, nil }

func (f *fakePluginRepo) GetByKey(key string) (*models.SupportedPlugin, error) {
	usable, ok := f.usable[key]
	if !ok {
		return nil, errors.New("unknown plugin")
	}
	return &models.SupportedPlugin{Key: key, UsabilityStatus: usable}, nil
}

func (f *fakePluginRepo) SetUsability(key string, usable bool) error  { return nil }
func (f *fakePluginRepo) Seed(plugins []models.SupportedPlugin) error { return nil }

type fakeWriter struct {
	spreadsheetID string
	rangeA1       string
	values        []string
	calls         int
	err           error
}

func (f *fakeWriter) AppendValues(ctx context.Context, spreadsheetID, rangeA1 string, values []string) (string, error) {
	f.calls++
	f.spreadsheetID = spreadsheetID
	f.rangeA1 = rangeA1
	f.values = values
	if f.err != nil {
		return "", f.err
	}
	return "Sheet1!A5:B5", nil
}

func strPtr(s string) *string { return &s }

func testIntegration(id uint, pluginID, sourceID string) models.Integration {
	return models.Integration{
		ID:                id,
		Title:             "Test",
		PluginID:          pluginID,
		SourceID:          sourceID,
		GoogleWorkSheetID: "sheet-abc",
		GoogleSheetTabID:  "Sheet1",
		GoogleSheetColumnMap: models.ColumnMap{
			{Key: 0, GoogleSheetIndex: "A1", SourceFieldIndex: strPtr("your-name")},
			{Key: 1, GoogleSheetIndex: "B1", SourceFieldIndex: strPtr("your-email")},
		},
		GoogleSheetColumnRange: "A1:B1",
	}
}

func TestSyncSubmissionAppendsResolvedRow(t *testing.T) {
	integrations := &fakeIntegrationRepo{
		integrations: []models.Integration{testIntegration(1, models.PluginCF7, "cf7-sync-1")},
	}
	rows := &fakeRowRepo{}
	writer := &fakeWriter{}
	syncer := NewSyncer(integrations, rows, &fakePluginRepo{usable: map[string]bool{models.PluginCF7: true}}, writer)

	fields := ExtractCF7(map[string][]string{
		"your-name":  {"Jane"},
		"your-email": {"jane@x.com"},
		"_wpcf7":     {"123"},
	})
	err := syncer.SyncSubmission(context.Background(), models.PluginCF7, "cf7-sync-1", "entry-9", fields)
	if err != nil {
		t.Fatalf("SyncSubmission() error = %v", err)
	}

	if writer.spreadsheetID != "sheet-abc" || writer.rangeA1 != "Sheet1!A1:B1" {
		t.Fatalf("append target = %q %q", writer.spreadsheetID, writer.rangeA1)
	}
	if len(writer.values) != 2 || writer.values[0] != "Jane" || writer.values[1] != "jane@x.com" {
		t.Fatalf("appended values = %v", writer.values)
	}
	if len(rows.rows) != 1 {
		t.Fatalf("audit rows = %d", len(rows.rows))
	}
	row := rows.rows[0]
	if row.IntegrationID != 1 || row.SheetTabRowRange != "Sheet1!A5:B5" || row.SourceRowID != "entry-9" {
		t.Fatalf("audit row = %+v", row)
	}
}

func TestSyncSubmissionDisabledPlugin(t *testing.T) {
	syncer := NewSyncer(&fakeIntegrationRepo{}, &fakeRowRepo{}, &fakePluginRepo{usable: map[string]bool{models.PluginCF7: false}}, &fakeWriter{})

	err := syncer.SyncSubmission(context.Background(), models.PluginCF7, "cf7-sync-2", "e1", map[string]string{"a": "b"})
	if !errors.Is(err, ErrPluginDisabled) {
		t.Fatalf("err = %v, want ErrPluginDisabled", err)
	}
}

func TestSyncSubmissionNoIntegration(t *testing.T) {
	syncer := NewSyncer(&fakeIntegrationRepo{}, &fakeRowRepo{}, &fakePluginRepo{usable: map[string]bool{models.PluginWPForms: true}}, &fakeWriter{})

	err := syncer.SyncSubmission(context.Background(), models.PluginWPForms, "wpf-sync-1", "e1", map[string]string{"a": "b"})
	if !errors.Is(err, ErrNoIntegration) {
		t.Fatalf("err = %v, want ErrNoIntegration", err)
	}
}

func TestSyncSubmissionSkipsDisabledIntegrations(t *testing.T) {
	disabled := testIntegration(2, models.PluginCF7, "cf7-sync-3")
	disabled.DisableIntegration = true
	integrations := &fakeIntegrationRepo{integrations: []models.Integration{disabled}}
	syncer := NewSyncer(integrations, &fakeRowRepo{}, &fakePluginRepo{usable: map[string]bool{models.PluginCF7: true}}, &fakeWriter{})

	err := syncer.SyncSubmission(context.Background(), models.PluginCF7, "cf7-sync-3", "e1", map[string]string{"your-name": "x"})
	if !errors.Is(err, ErrNoIntegration) {
		t.Fatalf("err = %v, want ErrNoIntegration", err)
	}
}

func TestSyncOrderFiltersOnStatus(t *testing.T) {
	matching := testIntegration(3, models.PluginWooCommerce, "shop_order")
	matching.OrderStatuses = models.StringList{"processing", "completed"}
	matching.GoogleSheetColumnMap = models.ColumnMap{
		{Key: 0, GoogleSheetIndex: "A1", SourceFieldIndex: strPtr("name")},
		{Key: 1, GoogleSheetIndex: "B1", SourceFieldIndex: strPtr("status")},
	}

	integrations := &fakeIntegrationRepo{integrations: []models.Integration{matching}}
	writer := &fakeWriter{}
	syncer := NewSyncer(integrations, &fakeRowRepo{}, &fakePluginRepo{usable: map[string]bool{models.PluginWooCommerce: true}}, writer)

	order := &WooOrder{
		ID:     4711,
		Status: "processing",
		LineItems: []WooLineItem{
			{Name: "Widget", Quantity: 2, ProductID: 10, SubtotalTax: "0.40"},
			{Name: "Gadget", Quantity: 1, ProductID: 11, SubtotalTax: "0.00"},
		},
	}
	if err := syncer.SyncOrder(context.Background(), order); err != nil {
		t.Fatalf("SyncOrder() error = %v", err)
	}
	if len(writer.values) != 2 || writer.values[0] != "Widget | Gadget" || writer.values[1] != "processing" {
		t.Fatalf("appended values = %v", writer.values)
	}

	// A status outside the configured list syncs nothing.
	writer.calls = 0
	order.Status = "refunded"
	err := syncer.SyncOrder(context.Background(), order)
	if !errors.Is(err, ErrNoIntegration) {
		t.Fatalf("err = %v, want ErrNoIntegration", err)
	}
	if writer.calls != 0 {
		t.Fatalf("writer called %d times for filtered status", writer.calls)
	}
}

func TestSyncSubmissionPropagatesAppendError(t *testing.T) {
	integrations := &fakeIntegrationRepo{
		integrations: []models.Integration{testIntegration(4, models.PluginGravityForms, "gf-sync-1")},
	}
	writer := &fakeWriter{err: errors.New("quota exceeded")}
	syncer := NewSyncer(integrations, &fakeRowRepo{}, &fakePluginRepo{usable: map[string]bool{models.PluginGravityForms: true}}, writer)

	err := syncer.SyncSubmission(context.Background(), models.PluginGravityForms, "gf-sync-1", "e1", map[string]string{"your-name": "x"})
	if err == nil || err.Error() != "quota exceeded" {
		t.Fatalf("err = %v", err)
	}
}
