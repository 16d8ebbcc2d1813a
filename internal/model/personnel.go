package model

import "time"

// Personnel represents a crew member.
//
// Records are created active and deactivated with a reason code rather than
// deleted; an explicit admin purge is the only hard delete.
type Personnel struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Role          string    `gorm:"size:64" json:"role"`
	IsActive      bool      `json:"isActive"`
	LicenseExpiry time.Time `json:"licenseExpiry"`
	ArchiveReason string    `gorm:"size:256" json:"archiveReason,omitempty"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// TableName overrides gorm's pluralization ("personnels").
func (Personnel) TableName() string { return "personnel" }
