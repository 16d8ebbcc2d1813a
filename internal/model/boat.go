package model

import "time"

// BoatStatus enumerates the operational states of a vessel.
type BoatStatus string

const (
	BoatAvailable     BoatStatus = "Available"
	BoatStandBy       BoatStatus = "StandBy"
	BoatInTour        BoatStatus = "InTour"
	BoatCleanup       BoatStatus = "Cleanup"
	BoatInMaintenance BoatStatus = "InMaintenance"
	BoatInRepairs     BoatStatus = "InRepairs"
	BoatNotAvailable  BoatStatus = "NotAvailable"
)

// ValidBoatStatus reports whether s is one of the recognized states.
func ValidBoatStatus(s BoatStatus) bool {
	switch s {
	case BoatAvailable, BoatStandBy, BoatInTour, BoatCleanup,
		BoatInMaintenance, BoatInRepairs, BoatNotAvailable:
		return true
	}
	return false
}

// Boat represents a vessel in the fleet.
//
// Status is mutable: an operator can set it directly, and the maintenance
// and tour engines overwrite it on task/tour events. Engine-derived writes
// are restricted to InMaintenance and Available so that manually selected
// states survive a rules pass.
type Boat struct {
	ID              string     `gorm:"primaryKey;size:64" json:"id"`
	Name            string     `gorm:"size:128;not null" json:"name"`
	HIN             string     `gorm:"column:hin;size:64" json:"hin"`
	Capacity        int        `json:"capacity"`
	LicenseNumber   string     `gorm:"size:64" json:"licenseNumber"`
	LicenseExpiry   time.Time  `json:"licenseExpiry"`
	LastServiceDate *time.Time `json:"lastServiceDate,omitempty"`
	Status          BoatStatus `gorm:"size:32;not null" json:"status"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`
}
