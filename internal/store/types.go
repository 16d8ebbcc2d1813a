package store

import "fleet-ops-backend/internal/model"

// Collection names as the remote bridge knows them. Outbox rows and pull
// payloads are keyed by these.
const (
	CollectionBoats     = "boats"
	CollectionPersonnel = "personnel"
	CollectionTours     = "tours"
	CollectionTasks     = "tasks"
	CollectionInventory = "inventory"
	CollectionLogs      = "logs"
)

// AuditCap bounds the append-only action log; the oldest rows are dropped
// on every append past this count.
const AuditCap = 500

// StockChange is one inventory adjustment produced by tour reconciliation.
type StockChange struct {
	ItemID   string
	NewStock int
}

// FleetSnapshot is a read-only view of every tracked collection, loaded in
// one pass for the compliance scanner and the alert feed.
type FleetSnapshot struct {
	Boats     []model.Boat
	Personnel []model.Personnel
	Tours     []model.Tour
	Tasks     []model.Task
	Inventory []model.InventoryItem
}
