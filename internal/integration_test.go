package internal

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fleet-ops-backend/internal/audit"
	"fleet-ops-backend/internal/compliance"
	"fleet-ops-backend/internal/db"
	"fleet-ops-backend/internal/enginehours"
	"fleet-ops-backend/internal/maintenance"
	"fleet-ops-backend/internal/model"
	"fleet-ops-backend/internal/notification"
	"fleet-ops-backend/internal/remote"
	"fleet-ops-backend/internal/store"
	"fleet-ops-backend/internal/tour"
)

// TestFleetDayLifecycle walks one operating day end to end: a boat is
// dispatched, returns low on provisions and over the engine-hour threshold,
// the derived engines react, and the maintenance cycle releases the boat
// again. Database state is verified at each step.
func TestFleetDayLifecycle(t *testing.T) {
	// --- Test Setup ---

	testDB, err := gorm.Open(sqlite.Open("file:fleetday?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	gormStore := store.NewGormStore(testDB)
	recorder := audit.NewRecorder(gormStore)
	maintMgr := maintenance.NewManager(gormStore, recorder)

	var pushed []notification.Alert
	tourMgr := tour.NewManager(gormStore, recorder, maintMgr, enginehours.MaxOfThreeMeters, func(a notification.Alert) {
		pushed = append(pushed, a)
	})

	ctx := context.Background()

	// Seed the fleet: one boat near the service threshold, one captain, one
	// consumable that will dip below its minimum.
	require.NoError(t, gormStore.SaveBoat(ctx, &model.Boat{
		ID: "b1", Name: "Mariner", Capacity: 20,
		LicenseExpiry: time.Now().UTC().Add(90 * 24 * time.Hour),
		Status:        model.BoatAvailable,
	}))
	require.NoError(t, gormStore.SavePersonnel(ctx, &model.Personnel{
		ID: "p1", Name: "Alex Reyes", Role: "Captain", IsActive: true,
		LicenseExpiry: time.Now().UTC().Add(90 * 24 * time.Hour),
	}))
	require.NoError(t, gormStore.SaveInventoryItem(ctx, &model.InventoryItem{
		ID: "i1", Name: "Water Bottles", CurrentStock: 20, MinStock: 15, Unit: "bottle",
	}))
	// 46 run-hours of prior history on the primary meter.
	require.NoError(t, gormStore.SaveTour(ctx, &model.Tour{
		ID: "history", BoatID: "b1", Date: time.Now().UTC().Add(-14 * 24 * time.Hour),
		Status: model.TourCompleted, HMIStart: 0, HMIEnd: 46,
	}))

	var tourID string

	t.Run("Dispatch", func(t *testing.T) {
		tr, err := tourMgr.Dispatch(ctx, tour.DispatchRequest{
			BoatID:         "b1",
			CaptainID:      "p1",
			Pax:            14,
			StartGas:       100,
			HMIStart:       46,
			SafetySignedBy: "p1",
			Provisions:     []tour.ProvisionInput{{ItemName: "Water Bottles", DepartureQty: 10}},
		})
		require.NoError(t, err)
		tourID = tr.ID

		boat, err := gormStore.BoatByID(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, model.BoatInTour, boat.Status)
	})

	t.Run("Complete", func(t *testing.T) {
		// 3 bottles come back and the meter adds 6 hours, crossing 50.
		_, err := tourMgr.Complete(ctx, tourID, tour.CompleteRequest{
			EndGas:   78,
			HMIEnd:   52,
			Arrivals: []tour.ArrivalInput{{ItemName: "Water Bottles", ArrivalQty: 3}},
		})
		require.NoError(t, err)

		// Stock depleted below minimum: 20 - 7 = 13 < 15.
		items, err := gormStore.InventoryItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 13, items[0].CurrentStock)

		// The 50-hour service task exists and the boat went straight from
		// the tour into maintenance.
		open, err := gormStore.OpenTasksForBoat(ctx, "b1")
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, enginehours.ServiceTaskType, open[0].TaskType)

		boat, err := gormStore.BoatByID(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, model.BoatInMaintenance, boat.Status)

		// Both derived alerts were pushed.
		categories := map[string]bool{}
		for _, a := range pushed {
			categories[a.Category] = true
		}
		assert.True(t, categories[notification.CategoryLowStock])
		assert.True(t, categories[notification.CategoryServiceAlert])
	})

	t.Run("Maintenance cycle", func(t *testing.T) {
		open, err := gormStore.OpenTasksForBoat(ctx, "b1")
		require.NoError(t, err)
		require.Len(t, open, 1)
		taskID := open[0].ID

		require.NoError(t, maintMgr.Transition(ctx, taskID, model.TaskOngoing, time.Now().UTC()))
		require.NoError(t, maintMgr.Transition(ctx, taskID, model.TaskCompleted, time.Now().UTC()))

		boat, err := gormStore.BoatByID(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, model.BoatAvailable, boat.Status)
	})

	t.Run("Audit trail", func(t *testing.T) {
		entries, err := recorder.Tail(ctx, 0)
		require.NoError(t, err)

		actions := map[string]bool{}
		for _, e := range entries {
			actions[e.Action] = true
		}
		for _, want := range []string{
			"Tour Dispatched", "Tour Completed", "Low Stock Alert",
			"Service Alert Generated", "Task Status Changed",
		} {
			assert.True(t, actions[want], "missing audit action %q", want)
		}
	})

	t.Run("Compliance scan over final state", func(t *testing.T) {
		snap, err := gormStore.Snapshot(ctx)
		require.NoError(t, err)
		alerts := compliance.Scan(snap.Boats, snap.Personnel, snap.Tours, snap.Tasks, time.Now().UTC())
		assert.Empty(t, alerts, "licenses are far out and no tour is overdue")
	})

	t.Run("Outbox mirrors every local write", func(t *testing.T) {
		fc := &recordingClient{}
		worker := remote.NewOutboxWorker(gormStore, fc, time.Second)
		worker.DrainOnce(ctx)

		rows, err := gormStore.PendingOutbox(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.NotEmpty(t, fc.collections["boats"])
		assert.NotEmpty(t, fc.collections["tours"])
		assert.NotEmpty(t, fc.collections["inventory"])
		assert.NotEmpty(t, fc.collections["tasks"])
		assert.NotEmpty(t, fc.collections["logs"])
	})
}

// recordingClient counts pushes per collection and accepts everything.
type recordingClient struct {
	collections map[string]int
}

func (r *recordingClient) Push(_ context.Context, collection string, _ json.RawMessage) bool {
	if r.collections == nil {
		r.collections = map[string]int{}
	}
	r.collections[collection]++
	return true
}

func (r *recordingClient) Pull(context.Context) *remote.Snapshot { return nil }
