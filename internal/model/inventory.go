package model

import "time"

// InventoryItem is a consumable stock record. Name is the lookup key for
// tour provisioning, so it carries a unique index. CurrentStock never goes
// negative; deductions are clamped at zero.
type InventoryItem struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Category     string    `gorm:"size:64" json:"category"`
	CurrentStock int       `json:"currentStock"`
	MinStock     int       `json:"minStock"`
	Unit         string    `gorm:"size:32" json:"unit"`
	LastUpdated  time.Time `json:"lastUpdated"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
