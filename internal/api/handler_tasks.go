package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleet-ops-backend/internal/maintenance"
	"fleet-ops-backend/internal/model"
)

// GetTasks handles GET /api/tasks.
func (h *Handler) GetTasks(c *gin.Context) {
	tasks, err := h.store.Tasks(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type createTaskRequest struct {
	BoatID        string             `json:"boatId" binding:"required"`
	TaskType      string             `json:"taskType" binding:"required"`
	Priority      model.TaskPriority `json:"priority"`
	ScheduledDate string             `json:"scheduledDate"`
	DueDate       string             `json:"dueDate"`
	AssigneeIDs   string             `json:"assigneeIds"`
	Notes         string             `json:"notes"`
}

// CreateTask handles POST /api/tasks, the manual task entry path.
func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduled, ok := parseDay(req.ScheduledDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduledDate must be YYYY-MM-DD"})
		return
	}
	due, ok := parseDay(req.DueDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dueDate must be YYYY-MM-DD"})
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}

	task := model.Task{
		ID:            uuid.NewString(),
		BoatID:        req.BoatID,
		TaskType:      req.TaskType,
		Priority:      req.Priority,
		ScheduledDate: scheduled,
		DueDate:       due,
		AssigneeIDs:   req.AssigneeIDs,
		Notes:         req.Notes,
		Status:        model.TaskPending,
	}
	if err := h.maint.CreateTask(c.Request.Context(), &task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, task)
}

type setTaskStatusRequest struct {
	Status model.TaskStatus `json:"status" binding:"required"`
}

// SetTaskStatus handles POST /api/tasks/:task_id/status. An unknown task id
// is a logged no-op and still returns 200.
func (h *Handler) SetTaskStatus(c *gin.Context) {
	var req setTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.maint.Transition(c.Request.Context(), c.Param("task_id"), req.Status, time.Now().UTC())
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, maintenance.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
