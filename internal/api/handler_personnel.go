package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-ops-backend/internal/model"
	"fleet-ops-backend/internal/store"
)

// GetPersonnel handles GET /api/personnel.
func (h *Handler) GetPersonnel(c *gin.Context) {
	people, err := h.store.Personnel(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve personnel"})
		return
	}
	c.JSON(http.StatusOK, people)
}

type createPersonnelRequest struct {
	Name          string `json:"name" binding:"required"`
	Role          string `json:"role"`
	LicenseExpiry string `json:"licenseExpiry"`
}

// CreatePersonnel handles POST /api/personnel. Crew records are the one
// entity whose remote sync failure is surfaced to the caller instead of
// being swallowed into the retry queue.
func (h *Handler) CreatePersonnel(c *gin.Context) {
	var req createPersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expiry, ok := parseDay(req.LicenseExpiry)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "licenseExpiry must be YYYY-MM-DD"})
		return
	}

	p := model.Personnel{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Role:          req.Role,
		IsActive:      true,
		LicenseExpiry: expiry,
	}
	if err := h.store.SavePersonnel(c.Request.Context(), &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit.Record(c.Request.Context(), "Personnel Added", model.AuditCategoryPersonnel, p.Name)

	h.respondWithSyncStatus(c, http.StatusCreated, p)
}

type deactivatePersonnelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DeactivatePersonnel handles POST /api/personnel/:personnel_id/deactivate.
func (h *Handler) DeactivatePersonnel(c *gin.Context) {
	var req deactivatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.store.PersonnelByID(c.Request.Context(), c.Param("personnel_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "personnel not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	p.IsActive = false
	p.ArchiveReason = req.Reason
	if err := h.store.SavePersonnel(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit.Record(c.Request.Context(), "Personnel Deactivated", model.AuditCategoryPersonnel,
		fmt.Sprintf("%s: %s", p.Name, req.Reason))

	h.respondWithSyncStatus(c, http.StatusOK, *p)
}

// respondWithSyncStatus attempts an immediate bridge push for a personnel
// record and tells the caller when it failed. The write is already durable
// locally and queued for retry either way.
func (h *Handler) respondWithSyncStatus(c *gin.Context, status int, p model.Personnel) {
	if h.bridge == nil {
		c.JSON(status, p)
		return
	}
	payload, err := json.Marshal(p)
	if err == nil && h.bridge.Push(c.Request.Context(), store.CollectionPersonnel, payload) {
		c.JSON(status, p)
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"record": p,
		"error":  "personnel record saved locally but remote sync failed; it will be retried",
	})
}
