package enginehours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleet-ops-backend/internal/model"
)

func completedTour(boatID string, date time.Time, hmiDelta float64) model.Tour {
	return model.Tour{
		BoatID:   boatID,
		Date:     date,
		HMIStart: 100,
		HMIEnd:   100 + hmiDelta,
		Status:   model.TourCompleted,
	}
}

func TestAccumulatedWithoutServiceDateCountsFullHistory(t *testing.T) {
	boat := model.Boat{ID: "b1"}
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	tours := []model.Tour{
		completedTour("b1", base, 20),
		completedTour("b1", base.AddDate(0, 0, 7), 20),
		completedTour("b1", base.AddDate(0, 0, 14), 12),
	}

	assert.InDelta(t, 52, Accumulated(boat, tours, PrimaryMeterOnly), 0.001)
}

func TestAccumulatedServiceDateBoundaryInclusive(t *testing.T) {
	service := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	boat := model.Boat{ID: "b1", LastServiceDate: &service}
	tours := []model.Tour{
		completedTour("b1", service.AddDate(0, 0, -1), 30), // before service, excluded
		completedTour("b1", service, 10),                   // on the service date, counts
		completedTour("b1", service.AddDate(0, 0, 3), 5),
	}

	assert.InDelta(t, 15, Accumulated(boat, tours, PrimaryMeterOnly), 0.001)
}

func TestAccumulatedSkipsOtherBoatsAndOpenTours(t *testing.T) {
	boat := model.Boat{ID: "b1"}
	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	dispatched := completedTour("b1", date, 40)
	dispatched.Status = model.TourDispatched

	tours := []model.Tour{
		completedTour("b2", date, 40),
		dispatched,
		completedTour("b1", date, 8),
	}

	assert.InDelta(t, 8, Accumulated(boat, tours, PrimaryMeterOnly), 0.001)
}

func TestMeterPolicies(t *testing.T) {
	tr := model.Tour{
		HMIStart: 10, HMIEnd: 12, // delta 2
		HMDStart: 40, HMDEnd: 45, // delta 5
		HMCStart: 70, HMCEnd: 73, // delta 3
	}

	assert.InDelta(t, 2, PrimaryMeterOnly(tr), 0.001)
	assert.InDelta(t, 5, MaxOfThreeMeters(tr), 0.001)
}

func TestPolicyByName(t *testing.T) {
	tr := model.Tour{HMIStart: 0, HMIEnd: 1, HMDStart: 0, HMDEnd: 9}

	assert.InDelta(t, 1, PolicyByName("primary")(tr), 0.001)
	assert.InDelta(t, 9, PolicyByName("max3")(tr), 0.001)
	assert.InDelta(t, 9, PolicyByName("")(tr), 0.001, "unrecognized names fall back to max3")
}

func TestEvaluateBelowThreshold(t *testing.T) {
	boat := model.Boat{ID: "b1"}
	tours := []model.Tour{completedTour("b1", time.Now(), 49.9)}

	ev := Evaluate(boat, tours, nil, PrimaryMeterOnly)
	assert.False(t, ev.TaskDue)
	assert.InDelta(t, 49.9, ev.Hours, 0.001)
}

func TestEvaluateThresholdCreatesTask(t *testing.T) {
	boat := model.Boat{ID: "b1"}
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	tours := []model.Tour{
		completedTour("b1", base, 20),
		completedTour("b1", base.AddDate(0, 0, 1), 20),
		completedTour("b1", base.AddDate(0, 0, 2), 12),
	}

	ev := Evaluate(boat, tours, nil, PrimaryMeterOnly)
	assert.True(t, ev.TaskDue)
	assert.InDelta(t, 52, ev.Hours, 0.001)
}

// Re-running the tracker while the auto-generated task is still open must
// not produce a second task.
func TestEvaluateIdempotentWhileTaskOpen(t *testing.T) {
	boat := model.Boat{ID: "b1"}
	tours := []model.Tour{completedTour("b1", time.Now(), 60)}

	for _, status := range []model.TaskStatus{model.TaskPending, model.TaskOngoing} {
		tasks := []model.Task{{BoatID: "b1", TaskType: ServiceTaskType, Status: status}}
		ev := Evaluate(boat, tours, tasks, PrimaryMeterOnly)
		assert.False(t, ev.TaskDue, "open %s task must suppress auto-generation", status)
	}
}

func TestEvaluateCompletedMarkerTaskDoesNotSuppress(t *testing.T) {
	boat := model.Boat{ID: "b1"}
	tours := []model.Tour{completedTour("b1", time.Now(), 60)}
	tasks := []model.Task{{BoatID: "b1", TaskType: ServiceTaskType, Status: model.TaskCompleted}}

	ev := Evaluate(boat, tours, tasks, PrimaryMeterOnly)
	assert.True(t, ev.TaskDue)
}

func TestNewServiceTask(t *testing.T) {
	service := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	boat := model.Boat{ID: "b1", LastServiceDate: &service}
	now := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	task := NewServiceTask(boat, 52.5, now)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "b1", task.BoatID)
	assert.Equal(t, ServiceTaskType, task.TaskType)
	assert.Equal(t, model.PriorityCritical, task.Priority)
	assert.Equal(t, model.TaskPending, task.Status)
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, today, task.ScheduledDate)
	assert.Equal(t, today, task.DueDate)
	assert.Empty(t, task.AssigneeIDs)
	assert.Contains(t, task.Notes, "52.5")
	assert.Contains(t, task.Notes, "2025-04-01")
}
