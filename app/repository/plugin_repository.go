package repository

import (
	"errors"

	"github.com/saifgs/sheetbridge/app/models"
	"gorm.io/gorm"
)

// pluginRepository implements the PluginRepository interface
type pluginRepository struct {
	db *gorm.DB
}

// NewPluginRepository creates a new plugin catalog repository instance
func NewPluginRepository(db *gorm.DB) PluginRepository {
	return &pluginRepository{db: db}
}

// GetAll retrieves the full supported-plugin catalog
func (r *pluginRepository) GetAll() ([]models.SupportedPlugin, error) {
	var plugins []models.SupportedPlugin
	err := r.db.Order("id ASC").Find(&plugins).Error
	return plugins, err
}

// GetByKey retrieves one catalog row by plugin key
func (r *pluginRepository) GetByKey(key string) (*models.SupportedPlugin, error) {
	var plugin models.SupportedPlugin
	err := r.db.Where("`key` = ?", key).First(&plugin).Error
	if err != nil {
		return nil, err
	}
	return &plugin, nil
}

// SetUsability toggles whether the adapter for the given plugin key runs
func (r *pluginRepository) SetUsability(key string, usable bool) error {
	result := r.db.Model(&models.SupportedPlugin{}).Where("`key` = ?", key).
		Update("usability_status", usable)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Seed inserts catalog rows that do not exist yet, matching by key
func (r *pluginRepository) Seed(plugins []models.SupportedPlugin) error {
	for _, plugin := range plugins {
		var existing models.SupportedPlugin
		err := r.db.Where("`key` = ?", plugin.Key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := r.db.Create(&plugin).Error; err != nil {
			return err
		}
	}
	return nil
}
