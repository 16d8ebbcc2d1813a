package model

import "time"

// AlertSubscription holds a browser push subscription and the alert
// categories it wants delivered (comma-joined, e.g. "LowStock,ServiceAlert").
type AlertSubscription struct {
	Endpoint   string    `gorm:"primaryKey" json:"endpoint"`
	P256DH     string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth       string    `gorm:"not null" json:"auth"`
	Categories string    `gorm:"size:256" json:"categories"`
	CreatedAt  time.Time `gorm:"not null" json:"-"`
}
