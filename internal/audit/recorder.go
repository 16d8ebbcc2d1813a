// Package audit provides the append-only action log shared by the
// consistency engines. Failures to record are logged and swallowed; the
// audit trail is best-effort and never blocks a state change.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"fleet-ops-backend/internal/model"
	"fleet-ops-backend/internal/store"
)

// Recorder appends entries to the capped action log.
type Recorder struct {
	store store.Store
}

// NewRecorder creates a recorder on top of the given store.
func NewRecorder(s store.Store) *Recorder {
	return &Recorder{store: s}
}

// Record appends one entry. Errors are logged, not returned.
func (r *Recorder) Record(ctx context.Context, action, category, details string) {
	entry := model.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Category:  category,
		Details:   details,
	}
	if err := r.store.AppendAudit(ctx, &entry); err != nil {
		log.Printf("Error appending audit entry %q: %v", action, err)
	}
}

// Tail returns the newest entries, newest first.
func (r *Recorder) Tail(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	return r.store.AuditTail(ctx, limit)
}
