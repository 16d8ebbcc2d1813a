// Package compliance derives the prioritized alert feed from a full fleet
// snapshot. Scan is a pure function: it never mutates its inputs and is safe
// to call on every refresh or poll.
package compliance

import (
	"math"
	"time"

	"fleet-ops-backend/internal/model"
)

// AlertType identifies which entity kind an alert concerns.
type AlertType string

const (
	AlertBoat  AlertType = "Boat"
	AlertStaff AlertType = "Staff"
	AlertTour  AlertType = "Tour"
	AlertTask  AlertType = "Task"
)

// Severity ranks an alert.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
)

// Alert is one derived compliance finding. It is never persisted.
//
// DaysLeft is days until (negative: since) the relevant deadline, except for
// Tour alerts where it carries whole hours elapsed since departure.
type Alert struct {
	Type     AlertType `json:"type"`
	Name     string    `json:"name"`
	Severity Severity  `json:"severity"`
	DaysLeft int       `json:"daysLeft"`
}

const (
	licenseWarningDays = 30
	taskWarningDays    = 2
	tourOverdueAfter   = 9 * time.Hour
)

// Scan walks every entity and returns the alert list in a fixed order:
// boats, active personnel, dispatched tours, open tasks, each in input
// order. No deduplication or severity sort is applied; callers may re-sort.
func Scan(boats []model.Boat, personnel []model.Personnel, tours []model.Tour, tasks []model.Task, now time.Time) []Alert {
	today := truncateToDay(now)
	var alerts []Alert

	for _, b := range boats {
		if a, ok := licenseAlert(AlertBoat, b.Name, b.LicenseExpiry, today); ok {
			alerts = append(alerts, a)
		}
	}

	for _, p := range personnel {
		if !p.IsActive {
			continue
		}
		if a, ok := licenseAlert(AlertStaff, p.Name, p.LicenseExpiry, today); ok {
			alerts = append(alerts, a)
		}
	}

	for _, t := range tours {
		if t.Status != model.TourDispatched {
			continue
		}
		elapsed := now.Sub(t.DepartureAt())
		if elapsed > tourOverdueAfter {
			alerts = append(alerts, Alert{
				Type:     AlertTour,
				Name:     t.ID,
				Severity: SeverityCritical,
				DaysLeft: int(elapsed.Hours()),
			})
		}
	}

	for _, task := range tasks {
		if task.Status == model.TaskCompleted {
			continue
		}
		diff := daysUntil(task.DueDate, today)
		switch {
		case diff < 0:
			alerts = append(alerts, Alert{Type: AlertTask, Name: task.TaskType, Severity: SeverityCritical, DaysLeft: diff})
		case diff <= taskWarningDays:
			alerts = append(alerts, Alert{Type: AlertTask, Name: task.TaskType, Severity: SeverityWarning, DaysLeft: diff})
		}
	}

	return alerts
}

func licenseAlert(kind AlertType, name string, expiry time.Time, today time.Time) (Alert, bool) {
	diff := daysUntil(expiry, today)
	switch {
	case diff <= 0:
		return Alert{Type: kind, Name: name, Severity: SeverityCritical, DaysLeft: diff}, true
	case diff <= licenseWarningDays:
		return Alert{Type: kind, Name: name, Severity: SeverityWarning, DaysLeft: diff}, true
	}
	return Alert{}, false
}

// daysUntil is ceil((deadline - today) / 24h), matching the day-granular
// license and due-date thresholds.
func daysUntil(deadline, today time.Time) int {
	return int(math.Ceil(deadline.Sub(today).Hours() / 24))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
