package models

import "time"

// Entry is a locally persisted mirror of one Contact Form 7 submission,
// independent of whether the sheet sync succeeded.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FormID    string    `gorm:"type:varchar(191);index;not null" json:"form_id"`
	CreatedAt time.Time `json:"created_at"`

	Meta []EntryMeta `gorm:"foreignKey:EntryID" json:"meta,omitempty"`
}

// TableName returns the table name for Entry
func (Entry) TableName() string {
	return "entries"
}

// EntryMeta holds one field of a mirrored submission.
type EntryMeta struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	EntryID   uint   `gorm:"index;not null" json:"entry_id"`
	MetaKey   string `gorm:"type:varchar(191);not null" json:"meta_key"`
	MetaValue string `gorm:"type:text" json:"meta_value"`
}

// TableName returns the table name for EntryMeta
func (EntryMeta) TableName() string {
	return "entry_meta"
}
