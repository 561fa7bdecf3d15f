package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ColumnMapEntry pairs one sheet column with one source field. A nil
// SourceFieldIndex means the column was never mapped, which is different
// from a field that maps to an empty value.
type ColumnMapEntry struct {
	Key                    int     `json:"key"`
	GoogleSheetIndex       string  `json:"google_sheet_index"`
	SourceFieldIndex       *string `json:"source_field_index"`
	SourceFieldIndexToggle bool    `json:"source_field_index_toggle"`
}

// ColumnMap is the ordered column mapping stored as JSON text. Map order
// defines the output column order.
type ColumnMap []ColumnMapEntry

// Value implements the driver.Valuer interface
func (m ColumnMap) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (m *ColumnMap) Scan(value interface{}) error {
	if value == nil {
		*m = ColumnMap{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source for ColumnMap")
	}
	return json.Unmarshal(bytes, m)
}

// StringList stores a list of strings (WooCommerce order statuses) as JSON text.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source for StringList")
	}
	return json.Unmarshal(bytes, l)
}

// Contains reports whether s is in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Integration links one source plugin entity (a form or WooCommerce orders)
// to one Google Sheet tab, including the column mapping.
type Integration struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	Title                  string     `gorm:"type:varchar(255);not null" json:"title"`
	PluginID               string     `gorm:"type:varchar(50);index:idx_plugin_source;not null" json:"plugin_id"`
	SourceID               string     `gorm:"type:varchar(191);index:idx_plugin_source;not null" json:"source_id"`
	OrderStatuses          StringList `gorm:"type:text" json:"order_status"`
	GoogleWorkSheetID      string     `gorm:"type:varchar(191);not null" json:"google_work_sheet_id"`
	GoogleSheetTabID       string     `gorm:"type:varchar(191);not null" json:"google_sheet_tab_id"`
	GoogleSheetColumnMap   ColumnMap  `gorm:"type:text" json:"google_sheet_column_map"`
	GoogleSheetColumnRange string     `gorm:"type:varchar(50)" json:"google_sheet_column_range"`
	DisableIntegration     bool       `gorm:"default:false" json:"disable_integration"`
	SyncedCount            int64      `gorm:"default:0" json:"synced_count"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// TableName returns the table name for Integration
func (Integration) TableName() string {
	return "integrations"
}
