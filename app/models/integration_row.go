package models

import "time"

// IntegrationRow is the audit record written once per successful sheet
// append. Rows are append-only and never updated.
type IntegrationRow struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	IntegrationID    uint      `gorm:"index;not null" json:"integration_id"`
	SheetID          string    `gorm:"type:varchar(191);not null" json:"sheet_id"`
	SheetTabID       string    `gorm:"type:varchar(191);not null" json:"sheet_tab_id"`
	SheetTabRowRange string    `gorm:"type:varchar(100)" json:"sheet_tab_row_range"`
	SourceRowID      string    `gorm:"type:varchar(191)" json:"source_row_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the table name for IntegrationRow
func (IntegrationRow) TableName() string {
	return "integration_rows"
}
