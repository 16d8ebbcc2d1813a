package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-ops-backend/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLicenseExpiryThresholds(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		expiry   time.Time
		alert    bool
		severity Severity
		daysLeft int
	}{
		{"expires today", day(2025, 6, 1), true, SeverityCritical, 0},
		{"expired yesterday", day(2025, 5, 31), true, SeverityCritical, -1},
		{"expires in 30 days", day(2025, 7, 1), true, SeverityWarning, 30},
		{"expires in 31 days", day(2025, 7, 2), false, "", 0},
		{"expires in 1 day", day(2025, 6, 2), true, SeverityWarning, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			boats := []model.Boat{{ID: "b1", Name: "Mariner", LicenseExpiry: tc.expiry}}
			alerts := Scan(boats, nil, nil, nil, now)
			if !tc.alert {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, AlertBoat, alerts[0].Type)
			assert.Equal(t, "Mariner", alerts[0].Name)
			assert.Equal(t, tc.severity, alerts[0].Severity)
			assert.Equal(t, tc.daysLeft, alerts[0].DaysLeft)
		})
	}
}

func TestPersonnelLicenseOnlyActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	expired := day(2025, 5, 20)

	personnel := []model.Personnel{
		{ID: "p1", Name: "Active", IsActive: true, LicenseExpiry: expired},
		{ID: "p2", Name: "Archived", IsActive: false, LicenseExpiry: expired},
	}

	alerts := Scan(nil, personnel, nil, nil, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertStaff, alerts[0].Type)
	assert.Equal(t, "Active", alerts[0].Name)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
}

func TestDispatchedTourOverdue(t *testing.T) {
	// Dispatched at 08:00; scanned at 17:01 the same day.
	departure := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 17, 1, 0, 0, time.UTC)

	tours := []model.Tour{{
		ID:            "t1",
		BoatID:        "b1",
		Date:          day(2025, 6, 1),
		DepartureTime: &departure,
		Status:        model.TourDispatched,
	}}

	alerts := Scan(nil, nil, tours, nil, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertTour, alerts[0].Type)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, 9, alerts[0].DaysLeft, "DaysLeft carries whole hours elapsed for tour alerts")
}

func TestDispatchedTourNotYetOverdue(t *testing.T) {
	departure := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 16, 59, 0, 0, time.UTC)

	tours := []model.Tour{{ID: "t1", DepartureTime: &departure, Status: model.TourDispatched}}
	assert.Empty(t, Scan(nil, nil, tours, nil, now))
}

func TestCompletedToursNeverAlert(t *testing.T) {
	departure := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	tours := []model.Tour{
		{ID: "t1", DepartureTime: &departure, Status: model.TourCompleted},
		{ID: "t2", DepartureTime: &departure, Status: model.TourCancelled},
	}
	assert.Empty(t, Scan(nil, nil, tours, nil, now))
}

func TestTaskDueThresholds(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		due      time.Time
		status   model.TaskStatus
		alert    bool
		severity Severity
	}{
		{"overdue", day(2025, 5, 30), model.TaskPending, true, SeverityCritical},
		{"due today", day(2025, 6, 1), model.TaskOngoing, true, SeverityWarning},
		{"due in 2 days", day(2025, 6, 3), model.TaskPending, true, SeverityWarning},
		{"due in 3 days", day(2025, 6, 4), model.TaskPending, false, ""},
		{"completed is ignored", day(2025, 5, 1), model.TaskCompleted, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := []model.Task{{ID: "k1", TaskType: "Winterize", DueDate: tc.due, Status: tc.status}}
			alerts := Scan(nil, nil, nil, tasks, now)
			if !tc.alert {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, AlertTask, alerts[0].Type)
			assert.Equal(t, tc.severity, alerts[0].Severity)
		})
	}
}

// Scan must be pure: identical inputs give identical output lists in the
// same order, and the inputs are never mutated.
func TestScanIsPureAndDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	departure := time.Date(2025, 5, 31, 8, 0, 0, 0, time.UTC)

	boats := []model.Boat{
		{ID: "b1", Name: "Mariner", LicenseExpiry: day(2025, 6, 10), Status: model.BoatAvailable},
		{ID: "b2", Name: "Osprey", LicenseExpiry: day(2025, 5, 1), Status: model.BoatInTour},
	}
	personnel := []model.Personnel{{ID: "p1", Name: "Skipper", IsActive: true, LicenseExpiry: day(2025, 6, 5)}}
	tours := []model.Tour{{ID: "t1", DepartureTime: &departure, Status: model.TourDispatched}}
	tasks := []model.Task{{ID: "k1", TaskType: "Impeller", DueDate: day(2025, 6, 2), Status: model.TaskPending}}

	first := Scan(boats, personnel, tours, tasks, now)
	second := Scan(boats, personnel, tours, tasks, now)

	assert.Equal(t, first, second)
	assert.Equal(t, "Mariner", boats[0].Name)
	assert.Equal(t, model.BoatInTour, boats[1].Status)

	// Fixed ordering: boats, personnel, tours, tasks.
	require.Len(t, first, 5)
	assert.Equal(t, AlertBoat, first[0].Type)
	assert.Equal(t, AlertBoat, first[1].Type)
	assert.Equal(t, AlertStaff, first[2].Type)
	assert.Equal(t, AlertTour, first[3].Type)
	assert.Equal(t, AlertTask, first[4].Type)
}
