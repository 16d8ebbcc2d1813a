// Package enginehours accumulates engine run-hours from completed tours and
// decides when the 50-hour service task is due.
package enginehours

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-ops-backend/internal/model"
)

const (
	// ServiceThresholdHours is the cumulative run-hour count past which an
	// automatic critical service task is generated.
	ServiceThresholdHours = 50.0

	// ServiceTaskMarker identifies an auto-generated service task; an open
	// task whose type contains it suppresses further auto-generation.
	ServiceTaskMarker = "50Hr Limit"

	// ServiceTaskType is the type of the auto-generated task.
	ServiceTaskType = "Service Required (50Hr Limit)"
)

// MeterPolicy derives a run-hour delta for one tour from its three hour
// meters. The two known deployments of the original registers disagreed on
// which meters count, so the choice is pluggable.
type MeterPolicy func(t model.Tour) float64

// PrimaryMeterOnly sums only the first meter pair.
func PrimaryMeterOnly(t model.Tour) float64 {
	return t.HMIEnd - t.HMIStart
}

// MaxOfThreeMeters takes the largest of the three meter deltas. An unwired
// or stuck meter reads zero, so the max is the best lower bound on actual
// run time. This is the default.
func MaxOfThreeMeters(t model.Tour) float64 {
	d := t.HMIEnd - t.HMIStart
	if v := t.HMDEnd - t.HMDStart; v > d {
		d = v
	}
	if v := t.HMCEnd - t.HMCStart; v > d {
		d = v
	}
	return d
}

// PolicyByName resolves a configured policy name, defaulting to
// MaxOfThreeMeters for anything unrecognized.
func PolicyByName(name string) MeterPolicy {
	if name == "primary" {
		return PrimaryMeterOnly
	}
	return MaxOfThreeMeters
}

// Accumulated sums run-hours on boat across its completed tours since the
// last service date. A boat that was never serviced accrues from epoch zero,
// i.e. its full tour history counts. The boundary is inclusive: a tour on
// the service date itself counts.
func Accumulated(boat model.Boat, tours []model.Tour, policy MeterPolicy) float64 {
	lastService := time.Unix(0, 0).UTC()
	if boat.LastServiceDate != nil {
		lastService = *boat.LastServiceDate
	}

	var total float64
	for _, t := range tours {
		if t.BoatID != boat.ID || t.Status != model.TourCompleted {
			continue
		}
		if t.Date.Before(lastService) {
			continue
		}
		d := policy(t)
		if d < 0 {
			// A meter swap mid-season can read backwards; ignore it.
			continue
		}
		total += d
	}
	return total
}

// Evaluation is the tracker's decision for one boat.
type Evaluation struct {
	Hours   float64
	TaskDue bool
}

// Evaluate computes accumulated hours and whether a service task should be
// created. Idempotent: while an auto-generated task is still open for the
// boat, TaskDue stays false no matter how high the hour count climbs.
func Evaluate(boat model.Boat, tours []model.Tour, tasks []model.Task, policy MeterPolicy) Evaluation {
	ev := Evaluation{Hours: Accumulated(boat, tours, policy)}
	if ev.Hours < ServiceThresholdHours {
		return ev
	}
	for _, task := range tasks {
		if task.BoatID != boat.ID || task.Status == model.TaskCompleted {
			continue
		}
		if strings.Contains(task.TaskType, ServiceTaskMarker) {
			return ev
		}
	}
	ev.TaskDue = true
	return ev
}

// NewServiceTask builds the auto-generated critical task: scheduled and due
// today, unassigned, with the hour count and last-service reference in the
// notes.
func NewServiceTask(boat model.Boat, hours float64, now time.Time) model.Task {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	lastService := "never"
	if boat.LastServiceDate != nil {
		lastService = boat.LastServiceDate.Format("2006-01-02")
	}
	return model.Task{
		ID:            uuid.NewString(),
		BoatID:        boat.ID,
		TaskType:      ServiceTaskType,
		Priority:      model.PriorityCritical,
		ScheduledDate: today,
		DueDate:       today,
		Notes:         fmt.Sprintf("Accumulated %.1f engine hours since last service (%s).", hours, lastService),
		Status:        model.TaskPending,
	}
}
