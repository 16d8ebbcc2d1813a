package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleet-ops-backend/internal/compliance"
)

// GetAlerts handles GET /api/alerts: a fresh compliance scan over the full
// fleet snapshot. The scan is pure, so the route sits behind the response
// cache without affecting correctness.
func (h *Handler) GetAlerts(c *gin.Context) {
	snap, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load fleet snapshot"})
		return
	}

	alerts := compliance.Scan(snap.Boats, snap.Personnel, snap.Tours, snap.Tasks, time.Now().UTC())
	if alerts == nil {
		alerts = []compliance.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

// GetAuditLog handles GET /api/audit, the newest entries first.
func (h *Handler) GetAuditLog(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	entries, err := h.audit.Tail(c.Request.Context(), limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
