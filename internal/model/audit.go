package model

import "time"

// Audit entry categories.
const (
	AuditCategoryCritical  = "Critical"
	AuditCategoryTour      = "Tour"
	AuditCategoryFleet     = "Fleet"
	AuditCategoryTask      = "Task"
	AuditCategoryInventory = "Inventory"
	AuditCategoryPersonnel = "Personnel"
)

// AuditEntry is one row of the append-only action log. The store keeps only
// the newest 500 entries; older rows are dropped on append.
type AuditEntry struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	Action    string    `gorm:"size:128;not null" json:"action"`
	Category  string    `gorm:"size:64;not null" json:"category"`
	Details   string    `gorm:"type:text" json:"details"`
}
