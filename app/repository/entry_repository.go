package repository

import (
	"sort"

	"github.com/saifgs/sheetbridge/app/models"
	"gorm.io/gorm"
)

// entryRepository implements the EntryRepository interface
type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository instance
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

// Create persists one submission mirror together with its field values.
// Entry and meta rows are written in a single transaction.
func (r *entryRepository) Create(entry *models.Entry, meta map[string]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		keys := make([]string, 0, len(meta))
		for key := range meta {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			row := models.EntryMeta{
				EntryID:   entry.ID,
				MetaKey:   key,
				MetaValue: meta[key],
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves one entry with its meta rows
func (r *entryRepository) GetByID(id uint) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.Preload("Meta").First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByFormID retrieves entries for one form with pagination, newest first
func (r *entryRepository) GetByFormID(formID string, offset, limit int) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.Preload("Meta").Where("form_id = ?", formID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

// CountByFormID returns the number of mirrored entries for one form
func (r *entryRepository) CountByFormID(formID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Entry{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

// FormIDs returns the distinct form ids that have mirrored entries
func (r *entryRepository) FormIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Entry{}).Distinct("form_id").Order("form_id ASC").Pluck("form_id", &ids).Error
	return ids, err
}
