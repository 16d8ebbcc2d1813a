package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleet-ops-backend/internal/model"
)

// GetInventory handles GET /api/inventory.
func (h *Handler) GetInventory(c *gin.Context) {
	items, err := h.store.InventoryItems(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory"})
		return
	}
	c.JSON(http.StatusOK, items)
}

type upsertItemRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	CurrentStock int    `json:"currentStock"`
	MinStock     int    `json:"minStock"`
	Unit         string `json:"unit"`
}

// PutInventoryItem handles PUT /api/inventory, creating or restocking an
// item. Stock is clamped at zero on the way in.
func (h *Handler) PutInventoryItem(c *gin.Context) {
	var req upsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CurrentStock < 0 {
		req.CurrentStock = 0
	}

	item := model.InventoryItem{
		ID:           req.ID,
		Name:         req.Name,
		Category:     req.Category,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
		Unit:         req.Unit,
		LastUpdated:  time.Now().UTC(),
	}
	if err := h.store.SaveInventoryItem(c.Request.Context(), &item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.audit.Record(c.Request.Context(), "Inventory Updated", model.AuditCategoryInventory, item.Name)
	c.JSON(http.StatusOK, item)
}
