package repository

import (
	"github.com/saifgs/sheetbridge/app/models"
	"gorm.io/gorm"
)

// integrationRepository implements the IntegrationRepository interface
type integrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository creates a new integration repository instance
func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

// Create creates a new integration in the database
func (r *integrationRepository) Create(integration *models.Integration) error {
	return r.db.Create(integration).Error
}

// GetByID retrieves an integration by its ID
func (r *integrationRepository) GetByID(id uint) (*models.Integration, error) {
	var integration models.Integration
	err := r.db.First(&integration, id).Error
	if err != nil {
		return nil, err
	}
	return &integration, nil
}

// Update updates an existing integration in the database
func (r *integrationRepository) Update(integration *models.Integration) error {
	return r.db.Save(integration).Error
}

// Delete removes the given integrations by ID
func (r *integrationRepository) Delete(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&models.Integration{}, ids).Error
}

// List retrieves integrations matching the filter, newest first, plus the
// total count before pagination.
func (r *integrationRepository) List(filter IntegrationListFilter) ([]models.Integration, int64, error) {
	query := r.db.Model(&models.Integration{})
	if filter.Title != "" {
		query = query.Where("title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.PluginID != "" {
		query = query.Where("plugin_id = ?", filter.PluginID)
	}
	if !filter.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var integrations []models.Integration
	err := query.Order("created_at DESC").Find(&integrations).Error
	return integrations, total, err
}

// FindForSource retrieves all enabled integrations for one (plugin, source)
// pair. Disabled integrations never trigger a sync.
func (r *integrationRepository) FindForSource(pluginID, sourceID string) ([]models.Integration, error) {
	var integrations []models.Integration
	err := r.db.Where("plugin_id = ? AND source_id = ? AND disable_integration = ?", pluginID, sourceID, false).
		Find(&integrations).Error
	return integrations, err
}
