package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"fleet-ops-backend/internal/audit"
	"fleet-ops-backend/internal/maintenance"
	"fleet-ops-backend/internal/remote"
	"fleet-ops-backend/internal/store"
	"fleet-ops-backend/internal/tour"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	audit   *audit.Recorder
	tours   *tour.Manager
	maint   *maintenance.Manager
	bridge  remote.Client
	webpush *webpush.Options
}

// NewHandler creates a new API handler. bridge may be nil when remote sync
// is disabled.
func NewHandler(s store.Store, rec *audit.Recorder, tours *tour.Manager, maint *maintenance.Manager, bridge remote.Client, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		audit:   rec,
		tours:   tours,
		maint:   maint,
		bridge:  bridge,
		webpush: webpushOptions,
	}
}
