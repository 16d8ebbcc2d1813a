package remote

import (
	"context"
	"log"
	"time"

	"fleet-ops-backend/internal/store"
)

// Refresher pulls the full remote snapshot on a fixed interval and merges
// it over local state. Collections missing from a partial response are left
// unchanged; records with a pending outbox write keep their local value.
type Refresher struct {
	store    store.Store
	client   Client
	interval time.Duration

	// afterRefresh, when set, runs after every successful merge. The
	// compliance scan-and-notify pass hangs off this hook.
	afterRefresh func(ctx context.Context)
}

// NewRefresher creates the periodic refresher.
func NewRefresher(s store.Store, c Client, interval time.Duration, afterRefresh func(ctx context.Context)) *Refresher {
	return &Refresher{store: s, client: c, interval: interval, afterRefresh: afterRefresh}
}

// Run refreshes immediately, then on every tick until the context ends.
func (r *Refresher) Run(ctx context.Context) {
	log.Println("Starting remote refresher...")
	r.RefreshOnce(ctx)

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Remote refresher shutting down.")
			return
		case <-timer.C:
			r.RefreshOnce(ctx)
			timer.Reset(r.interval)
		}
	}
}

// RefreshOnce performs a single pull-and-merge cycle. A failed pull leaves
// local state untouched; stale-but-available beats clobbered.
func (r *Refresher) RefreshOnce(ctx context.Context) {
	snap := r.client.Pull(ctx)
	if snap == nil {
		log.Println("Refresh cycle skipped: pull returned no snapshot.")
		return
	}

	if snap.Boats != nil {
		if err := r.store.MergeBoats(ctx, snap.Boats); err != nil {
			log.Printf("Error merging boats: %v", err)
		}
	}
	if snap.Personnel != nil {
		if err := r.store.MergePersonnel(ctx, snap.Personnel); err != nil {
			log.Printf("Error merging personnel: %v", err)
		}
	}
	if snap.Inventory != nil {
		if err := r.store.MergeInventory(ctx, snap.Inventory); err != nil {
			log.Printf("Error merging inventory: %v", err)
		}
	}
	if snap.Tours != nil {
		if err := r.store.MergeTours(ctx, snap.Tours); err != nil {
			log.Printf("Error merging tours: %v", err)
		}
	}
	if snap.Tasks != nil {
		if err := r.store.MergeTasks(ctx, snap.Tasks); err != nil {
			log.Printf("Error merging tasks: %v", err)
		}
	}
	if snap.Logs != nil {
		if err := r.store.MergeAuditEntries(ctx, snap.Logs); err != nil {
			log.Printf("Error merging audit entries: %v", err)
		}
	}

	if r.afterRefresh != nil {
		r.afterRefresh(ctx)
	}
	log.Println("Refresh cycle finished.")
}
