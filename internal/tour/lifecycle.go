// Package tour orchestrates trip dispatch and completion, chaining the
// provision reconciler and the engine-hour tracker and appending audit
// entries along the way.
package tour

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-ops-backend/internal/audit"
	"fleet-ops-backend/internal/enginehours"
	"fleet-ops-backend/internal/maintenance"
	"fleet-ops-backend/internal/model"
	"fleet-ops-backend/internal/notification"
	"fleet-ops-backend/internal/provision"
	"fleet-ops-backend/internal/store"
)

// Validation rejections, reported synchronously to the caller with no state
// change.
var (
	ErrMissingBoat    = errors.New("dispatch requires a boat")
	ErrMissingCaptain = errors.New("dispatch requires a captain")
	ErrSafetyUnsigned = errors.New("pre-departure safety checklist is not signed")
	ErrUnknownBoat    = errors.New("unknown boat")
	ErrUnknownTour    = errors.New("unknown tour")
	ErrNotDispatched  = errors.New("tour is not in Dispatched status")
)

// Manager runs the tour lifecycle.
type Manager struct {
	store  store.Store
	audit  *audit.Recorder
	maint  *maintenance.Manager
	policy enginehours.MeterPolicy
	notify func(notification.Alert)
}

// NewManager creates a tour lifecycle manager. notify may be nil when no
// push delivery is wired (tests, sync-disabled deployments).
func NewManager(s store.Store, rec *audit.Recorder, maint *maintenance.Manager, policy enginehours.MeterPolicy, notify func(notification.Alert)) *Manager {
	if policy == nil {
		policy = enginehours.MaxOfThreeMeters
	}
	return &Manager{store: s, audit: rec, maint: maint, policy: policy, notify: notify}
}

// ProvisionInput is one consumable loaded for the trip.
type ProvisionInput struct {
	ItemName     string `json:"itemName"`
	Category     string `json:"category"`
	DepartureQty int    `json:"departureQty"`
}

// DispatchRequest carries everything a dispatch needs.
type DispatchRequest struct {
	BoatID         string           `json:"boatId"`
	CaptainID      string           `json:"captainId"`
	MateIDs        string           `json:"mateIds"`
	Date           time.Time        `json:"date"`
	DepartureTime  *time.Time       `json:"departureTime"`
	Pax            int              `json:"pax"`
	StartGas       float64          `json:"startGas"`
	HMIStart       float64          `json:"hmiStart"`
	HMDStart       float64          `json:"hmdStart"`
	HMCStart       float64          `json:"hmcStart"`
	SafetySignedBy string           `json:"safetySignedBy"`
	Provisions     []ProvisionInput `json:"provisions"`
}

// Dispatch creates a tour in Dispatched status. It is rejected without a
// boat, a captain, or a signed safety checklist; the caller redirects to the
// checklist in that last case.
func (m *Manager) Dispatch(ctx context.Context, req DispatchRequest) (*model.Tour, error) {
	if req.BoatID == "" {
		return nil, ErrMissingBoat
	}
	if req.CaptainID == "" {
		return nil, ErrMissingCaptain
	}
	if req.SafetySignedBy == "" {
		return nil, ErrSafetyUnsigned
	}

	boat, err := m.store.BoatByID(ctx, req.BoatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownBoat
		}
		return nil, err
	}

	now := time.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	departure := req.DepartureTime
	if departure == nil {
		departure = &now
	}

	t := &model.Tour{
		ID:             uuid.NewString(),
		BoatID:         req.BoatID,
		CaptainID:      req.CaptainID,
		MateIDs:        req.MateIDs,
		Date:           date,
		DepartureTime:  departure,
		Pax:            req.Pax,
		StartGas:       req.StartGas,
		HMIStart:       req.HMIStart,
		HMDStart:       req.HMDStart,
		HMCStart:       req.HMCStart,
		SafetySignedBy: req.SafetySignedBy,
		Status:         model.TourDispatched,
	}
	for _, p := range req.Provisions {
		t.Provisions = append(t.Provisions, model.ProvisionLine{
			ItemName:     p.ItemName,
			Category:     p.Category,
			DepartureQty: p.DepartureQty,
		})
	}

	if err := m.store.SaveTour(ctx, t); err != nil {
		return nil, err
	}

	// Dispatch is an operator action, so it may move the boat to InTour;
	// the derived engines never write this state.
	boat.Status = model.BoatInTour
	if err := m.store.SaveBoat(ctx, boat); err != nil {
		log.Printf("Error setting boat %s to InTour: %v", boat.ID, err)
	}

	m.audit.Record(ctx, "Tour Dispatched", model.AuditCategoryTour,
		fmt.Sprintf("Boat %s, captain %s, %d pax", boat.Name, req.CaptainID, req.Pax))
	return t, nil
}

// ArrivalInput is a returned-quantity count for one provision line, matched
// by item name. Lines with no count are treated as zero leftover.
type ArrivalInput struct {
	ItemName   string `json:"itemName"`
	ArrivalQty int    `json:"arrivalQty"`
}

// CompleteRequest carries the arrival-side readings of a trip.
type CompleteRequest struct {
	ArrivalTime *time.Time     `json:"arrivalTime"`
	EndGas      float64        `json:"endGas"`
	HMIEnd      float64        `json:"hmiEnd"`
	HMDEnd      float64        `json:"hmdEnd"`
	HMCEnd      float64        `json:"hmcEnd"`
	Arrivals    []ArrivalInput `json:"arrivals"`
}

// Complete transitions a dispatched tour to Completed, depletes inventory
// for its provisions, re-evaluates the boat's engine hours and appends the
// completion audit entry.
func (m *Manager) Complete(ctx context.Context, tourID string, req CompleteRequest) (*model.Tour, error) {
	t, err := m.store.TourByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownTour
		}
		return nil, err
	}
	if t.Status != model.TourDispatched {
		return nil, fmt.Errorf("%w: %s", ErrNotDispatched, t.Status)
	}

	now := time.Now().UTC()
	arrival := req.ArrivalTime
	if arrival == nil {
		arrival = &now
	}

	t.Status = model.TourCompleted
	t.ArrivalTime = arrival
	t.EndGas = req.EndGas
	t.HMIEnd = req.HMIEnd
	t.HMDEnd = req.HMDEnd
	t.HMCEnd = req.HMCEnd
	applyArrivals(t, req.Arrivals)

	if err := m.store.SaveTour(ctx, t); err != nil {
		return nil, err
	}

	m.releaseFromTour(ctx, t.BoatID)
	m.reconcileProvisions(ctx, t, now)
	m.trackEngineHours(ctx, t.BoatID, now)

	m.audit.Record(ctx, "Tour Completed", model.AuditCategoryTour,
		fmt.Sprintf("Tour %s: %.1f gas consumed", t.ID, t.StartGas-t.EndGas))
	return t, nil
}

// Cancel aborts a dispatched tour without reconciliation.
func (m *Manager) Cancel(ctx context.Context, tourID string) error {
	t, err := m.store.TourByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownTour
		}
		return err
	}
	if t.Status != model.TourDispatched {
		return fmt.Errorf("%w: %s", ErrNotDispatched, t.Status)
	}
	t.Status = model.TourCancelled
	if err := m.store.SaveTour(ctx, t); err != nil {
		return err
	}
	m.releaseFromTour(ctx, t.BoatID)
	m.audit.Record(ctx, "Tour Cancelled", model.AuditCategoryTour, fmt.Sprintf("Tour %s cancelled", t.ID))
	return nil
}

func applyArrivals(t *model.Tour, arrivals []ArrivalInput) {
	byName := make(map[string]int, len(arrivals))
	for _, a := range arrivals {
		byName[a.ItemName] = a.ArrivalQty
	}
	for i := range t.Provisions {
		if qty, ok := byName[t.Provisions[i].ItemName]; ok {
			q := qty
			t.Provisions[i].ArrivalQty = &q
		}
	}
}

// releaseFromTour returns a boat from InTour to Available when its trip
// ends. Other states are operator-owned and left alone; the engine-hour
// tracker may still move the boat to InMaintenance right after.
func (m *Manager) releaseFromTour(ctx context.Context, boatID string) {
	boat, err := m.store.BoatByID(ctx, boatID)
	if err != nil {
		log.Printf("Skipping boat release for unknown boat %s: %v", boatID, err)
		return
	}
	if boat.Status != model.BoatInTour {
		return
	}
	boat.Status = model.BoatAvailable
	if err := m.store.SaveBoat(ctx, boat); err != nil {
		log.Printf("Error releasing boat %s from tour: %v", boatID, err)
	}
}

// reconcileProvisions applies consumption deltas to inventory and raises
// low-stock alerts. Items the store cannot apply are logged, never fatal.
func (m *Manager) reconcileProvisions(ctx context.Context, t *model.Tour, now time.Time) {
	items, err := m.store.InventoryItems(ctx)
	if err != nil {
		log.Printf("Error loading inventory for tour %s reconciliation: %v", t.ID, err)
		return
	}

	deltas := provision.Reconcile(t.Provisions, items)
	if len(deltas) == 0 {
		return
	}

	changes := make([]store.StockChange, 0, len(deltas))
	for _, d := range deltas {
		changes = append(changes, store.StockChange{ItemID: d.ItemID, NewStock: d.NewStock})
	}
	if err := m.store.UpdateStockLevels(ctx, changes, now); err != nil {
		log.Printf("Error applying stock changes for tour %s: %v", t.ID, err)
		return
	}

	for _, d := range deltas {
		if !d.LowStock {
			continue
		}
		detail := fmt.Sprintf("%s stock at %d, minimum %d", d.ItemName, d.NewStock, d.MinStock)
		m.audit.Record(ctx, "Low Stock Alert", model.AuditCategoryCritical, detail)
		if m.notify != nil {
			m.notify(notification.Alert{
				Category: notification.CategoryLowStock,
				Title:    "Low Stock Alert",
				Body:     detail,
			})
		}
	}
}

// trackEngineHours re-evaluates accumulated run-hours for the tour's boat
// and generates the 50-hour service task when due.
func (m *Manager) trackEngineHours(ctx context.Context, boatID string, now time.Time) {
	boat, err := m.store.BoatByID(ctx, boatID)
	if err != nil {
		log.Printf("Skipping engine-hour evaluation for unknown boat %s: %v", boatID, err)
		return
	}
	tours, err := m.store.Tours(ctx)
	if err != nil {
		log.Printf("Error loading tours for engine-hour evaluation: %v", err)
		return
	}
	tasks, err := m.store.Tasks(ctx)
	if err != nil {
		log.Printf("Error loading tasks for engine-hour evaluation: %v", err)
		return
	}

	ev := enginehours.Evaluate(*boat, tours, tasks, m.policy)
	if !ev.TaskDue {
		return
	}

	task := enginehours.NewServiceTask(*boat, ev.Hours, now)
	if err := m.maint.CreateTask(ctx, &task); err != nil {
		log.Printf("Error creating auto service task for boat %s: %v", boat.ID, err)
		return
	}

	detail := fmt.Sprintf("Boat %s at %.1f engine hours", boat.Name, ev.Hours)
	m.audit.Record(ctx, "Service Alert Generated", model.AuditCategoryCritical, detail)
	if m.notify != nil {
		m.notify(notification.Alert{
			Category: notification.CategoryServiceAlert,
			Title:    "Service Alert Generated",
			Body:     detail,
		})
	}
}
