package remote

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fleet-ops-backend/internal/store"
)

const outboxBatchSize = 100

// OutboxWorker drains pending local writes to the bridge. A failed push
// stays in the outbox and is retried on the next tick; the record id keys
// the remote upsert, so redelivery is idempotent.
type OutboxWorker struct {
	store    store.Store
	client   Client
	interval time.Duration
}

// NewOutboxWorker creates the drain worker.
func NewOutboxWorker(s store.Store, c Client, interval time.Duration) *OutboxWorker {
	return &OutboxWorker{store: s, client: c, interval: interval}
}

// Run drains the outbox on a fixed tick until the context ends.
func (w *OutboxWorker) Run(ctx context.Context) {
	log.Println("Starting outbox worker...")
	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Outbox worker shutting down.")
			return
		case <-timer.C:
			w.DrainOnce(ctx)
			timer.Reset(w.interval)
		}
	}
}

// DrainOnce pushes every pending row in order. Rows are deleted only after
// a successful push; the sequence of writes for one logical change reaches
// the bridge in the order it was enqueued.
func (w *OutboxWorker) DrainOnce(ctx context.Context) {
	rows, err := w.store.PendingOutbox(ctx, outboxBatchSize)
	if err != nil {
		log.Printf("Error loading outbox: %v", err)
		return
	}

	for _, row := range rows {
		if ok := w.client.Push(ctx, row.Collection, json.RawMessage(row.Payload)); !ok {
			if err := w.store.MarkOutboxAttempt(ctx, row.ID); err != nil {
				log.Printf("Error recording outbox attempt for row %d: %v", row.ID, err)
			}
			// Stop at the first failure to preserve write ordering.
			log.Printf("Push for %s/%s failed (attempt %d), will retry", row.Collection, row.RecordID, row.Attempts+1)
			return
		}
		if err := w.store.DeleteOutbox(ctx, row.ID); err != nil {
			log.Printf("Error deleting flushed outbox row %d: %v", row.ID, err)
			return
		}
	}
}
