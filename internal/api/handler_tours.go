package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-ops-backend/internal/tour"
)

// GetTours handles GET /api/tours.
func (h *Handler) GetTours(c *gin.Context) {
	tours, err := h.store.Tours(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tours"})
		return
	}
	c.JSON(http.StatusOK, tours)
}

// DispatchTour handles POST /api/tours/dispatch. A dispatch without a
// signed safety checklist is rejected with a redirect hint so the client
// can route the user to the checklist first.
func (h *Handler) DispatchTour(c *gin.Context) {
	var req tour.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.tours.Dispatch(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, t)
	case errors.Is(err, tour.ErrSafetyUnsigned):
		c.JSON(http.StatusPreconditionFailed, gin.H{
			"error":    err.Error(),
			"redirect": "/safety-checklist",
		})
	case errors.Is(err, tour.ErrMissingBoat), errors.Is(err, tour.ErrMissingCaptain), errors.Is(err, tour.ErrUnknownBoat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CompleteTour handles POST /api/tours/:tour_id/complete.
func (h *Handler) CompleteTour(c *gin.Context) {
	var req tour.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.tours.Complete(c.Request.Context(), c.Param("tour_id"), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, t)
	case errors.Is(err, tour.ErrUnknownTour):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, tour.ErrNotDispatched):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CancelTour handles POST /api/tours/:tour_id/cancel.
func (h *Handler) CancelTour(c *gin.Context) {
	err := h.tours.Cancel(c.Request.Context(), c.Param("tour_id"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, tour.ErrUnknownTour):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, tour.ErrNotDispatched):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
