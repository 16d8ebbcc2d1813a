package model

import "time"

// TaskStatus enumerates maintenance task states. Pending and Ongoing are
// mutually reachable; Completed is terminal.
type TaskStatus string

const (
	TaskPending   TaskStatus = "Pending"
	TaskOngoing   TaskStatus = "Ongoing"
	TaskCompleted TaskStatus = "Completed"
)

// TaskPriority enumerates maintenance task priorities.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "Low"
	PriorityMedium   TaskPriority = "Medium"
	PriorityHigh     TaskPriority = "High"
	PriorityCritical TaskPriority = "Critical"
)

// Task is a scheduled maintenance job on a vessel, created manually or
// auto-generated by the engine-hour tracker.
type Task struct {
	ID            string       `gorm:"primaryKey;size:64" json:"id"`
	BoatID        string       `gorm:"index;size:64;not null" json:"boatId"`
	TaskType      string       `gorm:"size:128;not null" json:"taskType"`
	Priority      TaskPriority `gorm:"size:16;not null" json:"priority"`
	ScheduledDate time.Time    `json:"scheduledDate"`
	DueDate       time.Time    `json:"dueDate"`
	AssigneeIDs   string       `gorm:"size:512" json:"assigneeIds"` // comma-joined personnel ids
	Notes         string       `gorm:"type:text" json:"notes"`
	Status        TaskStatus   `gorm:"size:32;not null;index" json:"status"`
	CreatedAt     time.Time    `json:"-"`
	UpdatedAt     time.Time    `json:"-"`
}
