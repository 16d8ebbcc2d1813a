package model

import "time"

// OutboxRecord is a pending remote write. Every local state change enqueues
// one in the same transaction; a worker drains them with at-least-once
// retries. Upserts at the bridge are keyed by the record id, so redelivery
// is harmless.
type OutboxRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Collection string    `gorm:"size:64;not null;index"`
	RecordID   string    `gorm:"size:64;not null;index"`
	Payload    string    `gorm:"type:text;not null"`
	Attempts   int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}
