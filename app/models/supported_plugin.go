package models

// Plugin keys used across adapters, integrations and webhook routes.
const (
	PluginCF7          = "cf7"
	PluginWPForms      = "wpforms"
	PluginGravityForms = "gravityforms"
	PluginWooCommerce  = "woocommerce"
)

// SupportedPlugin is one row of the static source-plugin catalog. The admin
// toggles UsabilityStatus to gate whether the matching adapter runs.
type SupportedPlugin struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	Title              string `gorm:"type:varchar(255);not null" json:"title"`
	Key                string `gorm:"type:varchar(50);uniqueIndex;not null" json:"key"`
	UsabilityStatus    bool   `gorm:"default:false" json:"usability_status"`
	AvailabilityStatus bool   `gorm:"default:true" json:"availability_status"`
	ImageURL           string `gorm:"type:varchar(255)" json:"image_url"`
	URL                string `gorm:"type:varchar(255)" json:"url"`
	Description        string `gorm:"type:text" json:"description"`
}

// TableName returns the table name for SupportedPlugin
func (SupportedPlugin) TableName() string {
	return "supported_plugins"
}
