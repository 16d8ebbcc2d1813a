// Package maintenance governs task status transitions and the derived boat
// status they imply.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"fleet-ops-backend/internal/audit"
	"fleet-ops-backend/internal/model"
	"fleet-ops-backend/internal/store"
)

// ErrInvalidTransition is returned for a transition the state machine does
// not allow, including any attempt to reopen a completed task.
var ErrInvalidTransition = errors.New("invalid task status transition")

// Manager applies task lifecycle changes and keeps the owning boat's status
// in step. Unknown task or boat ids degrade to logged no-ops; they are never
// fatal.
type Manager struct {
	store store.Store
	audit *audit.Recorder
}

// NewManager creates a maintenance manager.
func NewManager(s store.Store, rec *audit.Recorder) *Manager {
	return &Manager{store: s, audit: rec}
}

// CreateTask persists a new task and places its boat under maintenance.
func (m *Manager) CreateTask(ctx context.Context, task *model.Task) error {
	if task.Status == "" {
		task.Status = model.TaskPending
	}
	if task.Status == model.TaskCompleted {
		return fmt.Errorf("%w: tasks cannot be created completed", ErrInvalidTransition)
	}
	if err := m.store.SaveTask(ctx, task); err != nil {
		return err
	}
	m.deriveInMaintenance(ctx, task.BoatID)
	m.audit.Record(ctx, "Task Created", model.AuditCategoryTask,
		fmt.Sprintf("%s for boat %s, priority %s", task.TaskType, task.BoatID, task.Priority))
	return nil
}

// Transition moves a task to the next status and applies the derived boat
// status effects.
//
// Pending and Ongoing are mutually reachable; Completed is terminal. On
// completion the task's due date is rewritten to the completion date so
// rolling time-windowed views count it as done today, then the boat is
// released to Available if no other open task remains.
func (m *Manager) Transition(ctx context.Context, taskID string, next model.TaskStatus, now time.Time) error {
	task, err := m.store.TaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Ignoring status change for unknown task %s", taskID)
			return nil
		}
		return err
	}

	if !allowed(task.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, task.Status, next)
	}

	prev := task.Status
	task.Status = next
	if next == model.TaskCompleted {
		task.DueDate = now
	}
	if err := m.store.SaveTask(ctx, task); err != nil {
		return err
	}

	switch next {
	case model.TaskPending, model.TaskOngoing:
		m.deriveInMaintenance(ctx, task.BoatID)
	case model.TaskCompleted:
		m.releaseIfClear(ctx, task.BoatID)
	}

	m.audit.Record(ctx, "Task Status Changed", model.AuditCategoryTask,
		fmt.Sprintf("%s: %s -> %s", task.TaskType, prev, next))
	return nil
}

func allowed(from, to model.TaskStatus) bool {
	switch from {
	case model.TaskPending:
		return to == model.TaskOngoing || to == model.TaskCompleted
	case model.TaskOngoing:
		return to == model.TaskPending || to == model.TaskCompleted
	}
	return false
}

// deriveInMaintenance sets the boat to InMaintenance unless it already is.
// Derived writes never touch the other operator-selected states.
func (m *Manager) deriveInMaintenance(ctx context.Context, boatID string) {
	boat, err := m.store.BoatByID(ctx, boatID)
	if err != nil {
		log.Printf("Skipping status derivation for unknown boat %s: %v", boatID, err)
		return
	}
	if boat.Status == model.BoatInMaintenance {
		return
	}
	boat.Status = model.BoatInMaintenance
	if err := m.store.SaveBoat(ctx, boat); err != nil {
		log.Printf("Error setting boat %s to InMaintenance: %v", boatID, err)
	}
}

// releaseIfClear returns the boat to Available once its last open task
// completes. Only an InMaintenance boat is released; an operator-chosen
// state (InRepairs, NotAvailable, ...) is left alone.
func (m *Manager) releaseIfClear(ctx context.Context, boatID string) {
	open, err := m.store.OpenTasksForBoat(ctx, boatID)
	if err != nil {
		log.Printf("Error checking open tasks for boat %s: %v", boatID, err)
		return
	}
	if len(open) > 0 {
		return
	}
	boat, err := m.store.BoatByID(ctx, boatID)
	if err != nil {
		log.Printf("Skipping release for unknown boat %s: %v", boatID, err)
		return
	}
	if boat.Status != model.BoatInMaintenance {
		return
	}
	boat.Status = model.BoatAvailable
	if err := m.store.SaveBoat(ctx, boat); err != nil {
		log.Printf("Error releasing boat %s to Available: %v", boatID, err)
	}
}
