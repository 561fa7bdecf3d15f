package repository

import (
	"github.com/saifgs/sheetbridge/app/models"
	"gorm.io/gorm"
)

// integrationRowRepository implements the IntegrationRowRepository interface
type integrationRowRepository struct {
	db *gorm.DB
}

// NewIntegrationRowRepository creates a new integration row repository instance
func NewIntegrationRowRepository(db *gorm.DB) IntegrationRowRepository {
	return &integrationRowRepository{db: db}
}

// Create appends one audit record for a successful sheet append
func (r *integrationRowRepository) Create(row *models.IntegrationRow) error {
	return r.db.Create(row).Error
}

// GetByIntegrationID retrieves audit rows for an integration with pagination
func (r *integrationRowRepository) GetByIntegrationID(integrationID uint, offset, limit int) ([]models.IntegrationRow, error) {
	var rows []models.IntegrationRow
	err := r.db.Where("integration_id = ?", integrationID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, err
}

// CountByIntegrationID returns the number of audit rows for an integration
func (r *integrationRowRepository) CountByIntegrationID(integrationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.IntegrationRow{}).Where("integration_id = ?", integrationID).Count(&count).Error
	return count, err
}
