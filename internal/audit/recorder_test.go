package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fleet-ops-backend/internal/db"
	"fleet-ops-backend/internal/model"
	"fleet-ops-backend/internal/store"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return NewRecorder(store.NewGormStore(gdb))
}

func TestRecordAppendsEntry(t *testing.T) {
	rec := newTestRecorder(t)

	rec.Record(context.Background(), "Tour Dispatched", model.AuditCategoryTour, "Harbor loop with boat b1")

	entries, err := rec.Tail(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Tour Dispatched", entries[0].Action)
	assert.Equal(t, model.AuditCategoryTour, entries[0].Category)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestTailNewestFirst(t *testing.T) {
	rec := newTestRecorder(t)

	rec.Record(context.Background(), "first", model.AuditCategoryFleet, "")
	rec.Record(context.Background(), "second", model.AuditCategoryFleet, "")
	rec.Record(context.Background(), "third", model.AuditCategoryFleet, "")

	entries, err := rec.Tail(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Action)
	assert.Equal(t, "second", entries[1].Action)
}
