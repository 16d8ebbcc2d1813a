package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-ops-backend/internal/model"
)

// BoatResponse is the API view of a vessel plus its open-task count.
type BoatResponse struct {
	model.Boat
	OpenTasks int `json:"openTasks"`
}

// GetBoats handles GET /api/boats.
func (h *Handler) GetBoats(c *gin.Context) {
	boats, err := h.store.Boats(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boats"})
		return
	}

	responses := make([]BoatResponse, 0, len(boats))
	for _, b := range boats {
		open, err := h.store.OpenTasksForBoat(c.Request.Context(), b.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to count open tasks"})
			return
		}
		responses = append(responses, BoatResponse{Boat: b, OpenTasks: len(open)})
	}
	c.JSON(http.StatusOK, responses)
}

type createBoatRequest struct {
	Name          string `json:"name" binding:"required"`
	HIN           string `json:"hin"`
	Capacity      int    `json:"capacity"`
	LicenseNumber string `json:"licenseNumber"`
	LicenseExpiry string `json:"licenseExpiry"`
}

// CreateBoat handles POST /api/boats.
func (h *Handler) CreateBoat(c *gin.Context) {
	var req createBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expiry, ok := parseDay(req.LicenseExpiry)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "licenseExpiry must be YYYY-MM-DD"})
		return
	}

	boat := model.Boat{
		ID:            uuid.NewString(),
		Name:          req.Name,
		HIN:           req.HIN,
		Capacity:      req.Capacity,
		LicenseNumber: req.LicenseNumber,
		LicenseExpiry: expiry,
		Status:        model.BoatAvailable,
	}
	if err := h.store.SaveBoat(c.Request.Context(), &boat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit.Record(c.Request.Context(), "Boat Added", model.AuditCategoryFleet, boat.Name)
	c.JSON(http.StatusCreated, boat)
}

type setBoatStatusRequest struct {
	Status model.BoatStatus `json:"status" binding:"required"`
}

// SetBoatStatus handles PATCH /api/boats/:boat_id/status, the manual
// operator override. Any of the seven states is allowed here; the derived
// engines may later overwrite to InMaintenance or Available.
func (h *Handler) SetBoatStatus(c *gin.Context) {
	var req setBoatStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidBoatStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown boat status %q", req.Status)})
		return
	}

	boat, err := h.store.BoatByID(c.Request.Context(), c.Param("boat_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "boat not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	prev := boat.Status
	boat.Status = req.Status
	if err := h.store.SaveBoat(c.Request.Context(), boat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit.Record(c.Request.Context(), "Boat Status Changed", model.AuditCategoryFleet,
		fmt.Sprintf("%s: %s -> %s", boat.Name, prev, req.Status))
	c.JSON(http.StatusOK, boat)
}
