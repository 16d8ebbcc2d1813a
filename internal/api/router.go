package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"fleet-ops-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cacheTTL time.Duration, limitPerSec float64) *gin.Engine {
	r := gin.Default()

	if limitPerSec <= 0 {
		limitPerSec = 10
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	rateLimiter := mw.RateLimiter(rate.Limit(limitPerSec), 5)
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/boats", caching, h.GetBoats)
		api.POST("/boats", h.CreateBoat)
		api.PATCH("/boats/:boat_id/status", h.SetBoatStatus)

		api.GET("/personnel", h.GetPersonnel)
		api.POST("/personnel", h.CreatePersonnel)
		api.POST("/personnel/:personnel_id/deactivate", h.DeactivatePersonnel)

		api.GET("/tours", h.GetTours)
		api.POST("/tours/dispatch", h.DispatchTour)
		api.POST("/tours/:tour_id/complete", h.CompleteTour)
		api.POST("/tours/:tour_id/cancel", h.CancelTour)

		api.GET("/tasks", h.GetTasks)
		api.POST("/tasks", h.CreateTask)
		api.POST("/tasks/:task_id/status", h.SetTaskStatus)

		api.GET("/inventory", h.GetInventory)
		api.PUT("/inventory", h.PutInventoryItem)

		// Alerts are recomputed per request; the scan is pure, so a short
		// cache in front of it is safe.
		api.GET("/alerts", caching, h.GetAlerts)
		api.GET("/audit", h.GetAuditLog)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
