package repository

import (
	"time"

	"github.com/saifgs/sheetbridge/app/models"
	"gorm.io/gorm"
)

// IntegrationListFilter narrows the integration listing. Zero values mean
// "no filter". The cache key for the read-through list cache is derived from
// the full combination of these fields.
type IntegrationListFilter struct {
	Title    string
	PluginID string
	DateFrom time.Time
	DateTo   time.Time
	Offset   int
	Limit    int
}

// IntegrationRepository defines the interface for integration-related database operations
type IntegrationRepository interface {
	Create(integration *models.Integration) error
	GetByID(id uint) (*models.Integration, error)
	Update(integration *models.Integration) error
	Delete(ids []uint) error
	List(filter IntegrationListFilter) ([]models.Integration, int64, error)
	FindForSource(pluginID, sourceID string) ([]models.Integration, error)
}

// IntegrationRowRepository defines the interface for the append audit table
type IntegrationRowRepository interface {
	Create(row *models.IntegrationRow) error
	GetByIntegrationID(integrationID uint, offset, limit int) ([]models.IntegrationRow, error)
	CountByIntegrationID(integrationID uint) (int64, error)
}

// PluginRepository defines the interface for the supported-plugin catalog
type PluginRepository interface {
	GetAll() ([]models.SupportedPlugin, error)
	GetByKey(key string) (*models.SupportedPlugin, error)
	SetUsability(key string, usable bool) error
	Seed(plugins []models.SupportedPlugin) error
}

// EntryRepository defines the interface for mirrored CF7 submissions
type EntryRepository interface {
	Create(entry *models.Entry, meta map[string]string) error
	GetByID(id uint) (*models.Entry, error)
	GetByFormID(formID string, offset, limit int) ([]models.Entry, error)
	CountByFormID(formID string) (int64, error)
	FormIDs() ([]string, error)
}

// SettingRepository defines the interface for the flat option store
type SettingRepository interface {
	GetValue(key string) (string, error)
	SetValue(key, value string) error
	DeleteValue(key string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	Integration    IntegrationRepository
	IntegrationRow IntegrationRowRepository
	Plugin         PluginRepository
	Entry          EntryRepository
	Setting        SettingRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Integration:    NewIntegrationRepository(db),
		IntegrationRow: NewIntegrationRowRepository(db),
		Plugin:         NewPluginRepository(db),
		Entry:          NewEntryRepository(db),
		Setting:        NewSettingRepository(db),
	}
}
