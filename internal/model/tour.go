package model

import "time"

// TourStatus enumerates the lifecycle states of a tour.
type TourStatus string

const (
	TourDraft      TourStatus = "Draft"
	TourDispatched TourStatus = "Dispatched"
	TourCompleted  TourStatus = "Completed"
	TourCancelled  TourStatus = "Cancelled"
)

// Tour is a single trip. It is created on dispatch, mutated to Completed on
// reconciliation and immutable history afterward except for corrective edits.
//
// The three hour-meter pairs (HMI/HMD/HMC) are distinct physical meters whose
// deltas across the tour represent engine run-hours.
type Tour struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	BoatID        string     `gorm:"index;size:64;not null" json:"boatId"`
	CaptainID     string     `gorm:"size:64" json:"captainId"`
	MateIDs       string     `gorm:"size:512" json:"mateIds"` // comma-joined personnel ids
	Date          time.Time  `gorm:"index" json:"date"`
	DepartureTime *time.Time `json:"departureTime,omitempty"`
	ArrivalTime   *time.Time `json:"arrivalTime,omitempty"`
	Pax           int        `gorm:"column:pax" json:"pax"`
	StartGas      float64    `json:"startGas"`
	EndGas        float64    `json:"endGas"`
	HMIStart      float64    `gorm:"column:hmi_start" json:"hmiStart"`
	HMIEnd        float64    `gorm:"column:hmi_end" json:"hmiEnd"`
	HMDStart      float64    `gorm:"column:hmd_start" json:"hmdStart"`
	HMDEnd        float64    `gorm:"column:hmd_end" json:"hmdEnd"`
	HMCStart      float64    `gorm:"column:hmc_start" json:"hmcStart"`
	HMCEnd        float64    `gorm:"column:hmc_end" json:"hmcEnd"`
	SafetySignedBy string    `gorm:"size:128" json:"safetySignedBy"`
	Status        TourStatus `gorm:"size:32;not null;index" json:"status"`
	CreatedAt     time.Time  `json:"-"`
	UpdatedAt     time.Time  `json:"-"`

	// Associations
	Provisions []ProvisionLine `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE" json:"provisions"`
}

// DepartureAt returns the moment the tour left the dock, falling back to the
// tour date when no departure timestamp was recorded.
func (t Tour) DepartureAt() time.Time {
	if t.DepartureTime != nil {
		return *t.DepartureTime
	}
	return t.Date
}

// ProvisionLine records how much of one consumable left with the tour and
// how much came back. ArrivalQty is nil when no return count was taken; the
// reconciler treats that as zero leftover.
type ProvisionLine struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	TourID       string `gorm:"index;size:64;not null" json:"tourId"`
	ItemName     string `gorm:"size:128;not null" json:"itemName"`
	Category     string `gorm:"size:64" json:"category"`
	DepartureQty int    `json:"departureQty"`
	ArrivalQty   *int   `json:"arrivalQty,omitempty"`
}
