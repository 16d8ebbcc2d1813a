package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleet-ops-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	Boats(ctx context.Context) ([]model.Boat, error)
	BoatByID(ctx context.Context, id string) (*model.Boat, error)
	SaveBoat(ctx context.Context, boat *model.Boat) error

	Personnel(ctx context.Context) ([]model.Personnel, error)
	PersonnelByID(ctx context.Context, id string) (*model.Personnel, error)
	SavePersonnel(ctx context.Context, p *model.Personnel) error
	PurgePersonnel(ctx context.Context, id string) error

	InventoryItems(ctx context.Context) ([]model.InventoryItem, error)
	SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error
	UpdateStockLevels(ctx context.Context, changes []StockChange, now time.Time) error

	Tours(ctx context.Context) ([]model.Tour, error)
	TourByID(ctx context.Context, id string) (*model.Tour, error)
	SaveTour(ctx context.Context, tour *model.Tour) error

	Tasks(ctx context.Context) ([]model.Task, error)
	TaskByID(ctx context.Context, id string) (*model.Task, error)
	OpenTasksForBoat(ctx context.Context, boatID string) ([]model.Task, error)
	SaveTask(ctx context.Context, task *model.Task) error

	AppendAudit(ctx context.Context, entry *model.AuditEntry) error
	AuditTail(ctx context.Context, limit int) ([]model.AuditEntry, error)

	Snapshot(ctx context.Context) (*FleetSnapshot, error)

	PendingOutbox(ctx context.Context, limit int) ([]model.OutboxRecord, error)
	MarkOutboxAttempt(ctx context.Context, id int64) error
	DeleteOutbox(ctx context.Context, id int64) error

	MergeBoats(ctx context.Context, boats []model.Boat) error
	MergePersonnel(ctx context.Context, people []model.Personnel) error
	MergeInventory(ctx context.Context, items []model.InventoryItem) error
	MergeTours(ctx context.Context, tours []model.Tour) error
	MergeTasks(ctx context.Context, tasks []model.Task) error
	MergeAuditEntries(ctx context.Context, entries []model.AuditEntry) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// enqueueOutbox records a pending remote write inside the caller's
// transaction so the local change and its mirror never diverge.
func enqueueOutbox(tx *gorm.DB, collection, recordID string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload for %s/%s: %w", collection, recordID, err)
	}
	row := model.OutboxRecord{
		Collection: collection,
		RecordID:   recordID,
		Payload:    string(payload),
		CreatedAt:  time.Now().UTC(),
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to enqueue outbox record for %s/%s: %w", collection, recordID, err)
	}
	return nil
}

func upsert(tx *gorm.DB, record any) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
}

// --- Boats ---

func (s *gormStore) Boats(ctx context.Context) ([]model.Boat, error) {
	var boats []model.Boat
	if err := s.db.WithContext(ctx).Order("name").Find(&boats).Error; err != nil {
		return nil, err
	}
	return boats, nil
}

func (s *gormStore) BoatByID(ctx context.Context, id string) (*model.Boat, error) {
	var boat model.Boat
	if err := s.db.WithContext(ctx).First(&boat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &boat, nil
}

func (s *gormStore) SaveBoat(ctx context.Context, boat *model.Boat) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, boat); err != nil {
			return fmt.Errorf("failed to save boat %s: %w", boat.ID, err)
		}
		return enqueueOutbox(tx, CollectionBoats, boat.ID, boat)
	})
}

// --- Personnel ---

func (s *gormStore) Personnel(ctx context.Context) ([]model.Personnel, error) {
	var people []model.Personnel
	if err := s.db.WithContext(ctx).Order("name").Find(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

func (s *gormStore) PersonnelByID(ctx context.Context, id string) (*model.Personnel, error) {
	var p model.Personnel
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) SavePersonnel(ctx context.Context, p *model.Personnel) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, p); err != nil {
			return fmt.Errorf("failed to save personnel %s: %w", p.ID, err)
		}
		return enqueueOutbox(tx, CollectionPersonnel, p.ID, p)
	})
}

// PurgePersonnel hard-deletes a crew record. Deactivation is the normal
// path; this exists for explicit admin purges only.
func (s *gormStore) PurgePersonnel(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&model.Personnel{}, "id = ?", id).Error
}

// --- Inventory ---

func (s *gormStore) InventoryItems(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := s.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *gormStore) SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, item); err != nil {
			return fmt.Errorf("failed to save inventory item %s: %w", item.ID, err)
		}
		return enqueueOutbox(tx, CollectionInventory, item.ID, item)
	})
}

// UpdateStockLevels applies reconciliation results transactionally, one
// outbox row per touched item.
func (s *gormStore) UpdateStockLevels(ctx context.Context, changes []StockChange, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, change := range changes {
			var item model.InventoryItem
			if err := tx.First(&item, "id = ?", change.ItemID).Error; err != nil {
				return fmt.Errorf("failed to load inventory item %s: %w", change.ItemID, err)
			}
			item.CurrentStock = change.NewStock
			item.LastUpdated = now
			if err := tx.Save(&item).Error; err != nil {
				return fmt.Errorf("failed to update stock for item %s: %w", change.ItemID, err)
			}
			if err := enqueueOutbox(tx, CollectionInventory, item.ID, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Tours ---

func (s *gormStore) Tours(ctx context.Context) ([]model.Tour, error) {
	var tours []model.Tour
	if err := s.db.WithContext(ctx).Preload("Provisions").Order("date").Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}

func (s *gormStore) TourByID(ctx context.Context, id string) (*model.Tour, error) {
	var tour model.Tour
	if err := s.db.WithContext(ctx).Preload("Provisions").First(&tour, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

// SaveTour upserts the tour and rewrites its provision lines wholesale; the
// lines have no identity beyond their owning tour.
func (s *gormStore) SaveTour(ctx context.Context, tour *model.Tour) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Provisions").Clauses(clause.OnConflict{UpdateAll: true}).Create(tour).Error; err != nil {
			return fmt.Errorf("failed to save tour %s: %w", tour.ID, err)
		}
		if err := tx.Where("tour_id = ?", tour.ID).Delete(&model.ProvisionLine{}).Error; err != nil {
			return fmt.Errorf("failed to clear provision lines for tour %s: %w", tour.ID, err)
		}
		if len(tour.Provisions) > 0 {
			for i := range tour.Provisions {
				tour.Provisions[i].ID = 0
				tour.Provisions[i].TourID = tour.ID
			}
			if err := tx.Create(&tour.Provisions).Error; err != nil {
				return fmt.Errorf("failed to save provision lines for tour %s: %w", tour.ID, err)
			}
		}
		return enqueueOutbox(tx, CollectionTours, tour.ID, tour)
	})
}

// --- Tasks ---

func (s *gormStore) Tasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.WithContext(ctx).Order("due_date").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *gormStore) TaskByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *gormStore) OpenTasksForBoat(ctx context.Context, boatID string) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.WithContext(ctx).
		Where("boat_id = ? AND status <> ?", boatID, model.TaskCompleted).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *gormStore) SaveTask(ctx context.Context, task *model.Task) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, task); err != nil {
			return fmt.Errorf("failed to save task %s: %w", task.ID, err)
		}
		return enqueueOutbox(tx, CollectionTasks, task.ID, task)
	})
}

// --- Audit log ---

// AppendAudit inserts an entry and trims the log to the newest AuditCap
// rows in the same transaction.
func (s *gormStore) AppendAudit(ctx context.Context, entry *model.AuditEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}
		trim := `DELETE FROM audit_entries WHERE id NOT IN (
			SELECT id FROM audit_entries ORDER BY timestamp DESC, id DESC LIMIT ?)`
		if err := tx.Exec(trim, AuditCap).Error; err != nil {
			return fmt.Errorf("failed to trim audit log: %w", err)
		}
		return enqueueOutbox(tx, CollectionLogs, entry.ID, entry)
	})
}

func (s *gormStore) AuditTail(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 || limit > AuditCap {
		limit = AuditCap
	}
	var entries []model.AuditEntry
	err := s.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// --- Snapshot ---

func (s *gormStore) Snapshot(ctx context.Context) (*FleetSnapshot, error) {
	snap := &FleetSnapshot{}
	var err error
	if snap.Boats, err = s.Boats(ctx); err != nil {
		return nil, fmt.Errorf("failed to load boats: %w", err)
	}
	if snap.Personnel, err = s.Personnel(ctx); err != nil {
		return nil, fmt.Errorf("failed to load personnel: %w", err)
	}
	if snap.Tours, err = s.Tours(ctx); err != nil {
		return nil, fmt.Errorf("failed to load tours: %w", err)
	}
	if snap.Tasks, err = s.Tasks(ctx); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if snap.Inventory, err = s.InventoryItems(ctx); err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	return snap, nil
}

// --- Outbox ---

func (s *gormStore) PendingOutbox(ctx context.Context, limit int) ([]model.OutboxRecord, error) {
	var rows []model.OutboxRecord
	q := s.db.WithContext(ctx).Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *gormStore) MarkOutboxAttempt(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).
		Model(&model.OutboxRecord{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

func (s *gormStore) DeleteOutbox(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&model.OutboxRecord{}, id).Error
}

// pendingIDs returns the record ids of a collection that still have
// unflushed local writes. Refresh merges must not overwrite those.
func (s *gormStore) pendingIDs(ctx context.Context, collection string) (map[string]bool, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&model.OutboxRecord{}).
		Where("collection = ?", collection).
		Distinct().
		Pluck("record_id", &ids).Error
	if err != nil {
		return nil, err
	}
	pending := make(map[string]bool, len(ids))
	for _, id := range ids {
		pending[id] = true
	}
	return pending, nil
}

// --- Refresh merges ---
//
// A pull from the bridge unconditionally overwrites local rows, except for
// records with a pending outbox write: those keep the local value until the
// outbox worker has flushed it.

func (s *gormStore) MergeBoats(ctx context.Context, boats []model.Boat) error {
	pending, err := s.pendingIDs(ctx, CollectionBoats)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range boats {
			if pending[boats[i].ID] {
				continue
			}
			if err := upsert(tx, &boats[i]); err != nil {
				return fmt.Errorf("failed to merge boat %s: %w", boats[i].ID, err)
			}
		}
		return nil
	})
}

func (s *gormStore) MergePersonnel(ctx context.Context, people []model.Personnel) error {
	pending, err := s.pendingIDs(ctx, CollectionPersonnel)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range people {
			if pending[people[i].ID] {
				continue
			}
			if err := upsert(tx, &people[i]); err != nil {
				return fmt.Errorf("failed to merge personnel %s: %w", people[i].ID, err)
			}
		}
		return nil
	})
}

func (s *gormStore) MergeInventory(ctx context.Context, items []model.InventoryItem) error {
	pending, err := s.pendingIDs(ctx, CollectionInventory)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if pending[items[i].ID] {
				continue
			}
			if err := upsert(tx, &items[i]); err != nil {
				return fmt.Errorf("failed to merge inventory item %s: %w", items[i].ID, err)
			}
		}
		return nil
	})
}

func (s *gormStore) MergeTours(ctx context.Context, tours []model.Tour) error {
	pending, err := s.pendingIDs(ctx, CollectionTours)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tours {
			tour := &tours[i]
			if pending[tour.ID] {
				continue
			}
			if err := tx.Omit("Provisions").Clauses(clause.OnConflict{UpdateAll: true}).Create(tour).Error; err != nil {
				return fmt.Errorf("failed to merge tour %s: %w", tour.ID, err)
			}
			if err := tx.Where("tour_id = ?", tour.ID).Delete(&model.ProvisionLine{}).Error; err != nil {
				return fmt.Errorf("failed to clear provision lines for tour %s: %w", tour.ID, err)
			}
			if len(tour.Provisions) > 0 {
				for j := range tour.Provisions {
					tour.Provisions[j].ID = 0
					tour.Provisions[j].TourID = tour.ID
				}
				if err := tx.Create(&tour.Provisions).Error; err != nil {
					return fmt.Errorf("failed to merge provision lines for tour %s: %w", tour.ID, err)
				}
			}
		}
		return nil
	})
}

func (s *gormStore) MergeTasks(ctx context.Context, tasks []model.Task) error {
	pending, err := s.pendingIDs(ctx, CollectionTasks)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tasks {
			if pending[tasks[i].ID] {
				continue
			}
			if err := upsert(tx, &tasks[i]); err != nil {
				return fmt.Errorf("failed to merge task %s: %w", tasks[i].ID, err)
			}
		}
		return nil
	})
}

func (s *gormStore) MergeAuditEntries(ctx context.Context, entries []model.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entries[i]).Error; err != nil {
				return fmt.Errorf("failed to merge audit entry %s: %w", entries[i].ID, err)
			}
		}
		trim := `DELETE FROM audit_entries WHERE id NOT IN (
			SELECT id FROM audit_entries ORDER BY timestamp DESC, id DESC LIMIT ?)`
		return tx.Exec(trim, AuditCap).Error
	})
}
