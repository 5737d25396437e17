package handlers

import (
	"net/http"

	"task-tracker/backend/internal/middleware"
	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/policy"
	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input services.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
		return
	}
	task, err := h.taskService.CreateTask(h.db, middleware.Caller(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(h.db, middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch services.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
		return
	}
	task, err := h.taskService.UpdateTask(h.db, middleware.Caller(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ReplaceTask is the PUT variant: every mutable field is required and the
// task is rewritten wholesale. Unlike Users, a full replace of an owned Task
// is permitted.
func (h *TaskHandler) ReplaceTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Done        bool   `json:"done"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data", "details": err.Error()})
		return
	}
	patch := services.TaskPatch{
		Title:       &input.Title,
		Description: &input.Description,
		Done:        &input.Done,
	}
	task, err := h.taskService.UpdateTask(h.db, middleware.Caller(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(h.db, middleware.Caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// ListTasks handles GET /api/tasks/ with the done, owner and view query
// parameters. The owner filter only takes effect for superusers; the scope
// logic discards it otherwise.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter, err := parseTaskFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	tasks, err := h.taskService.ListTasks(h.db, middleware.Caller(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) ListAllTasks(c *gin.Context) {
	tasks, err := h.taskService.ListAllTasks(h.db, middleware.Caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func parseTaskFilter(c *gin.Context) (policy.TaskFilter, error) {
	var filter policy.TaskFilter

	if raw, supplied := c.GetQuery("done"); supplied {
		done, err := policy.ParseDone(raw)
		if err != nil {
			return filter, err
		}
		filter.Done = &done
	}
	if raw, supplied := c.GetQuery("owner"); supplied {
		owner, err := uuid.FromString(raw)
		if err != nil {
			return filter, &services.ValidationError{Field: "owner", Message: "owner must be a valid id"}
		}
		filter.Owner = &owner
	}
	filter.Board = c.Query("view") == "board"

	return filter, nil
}
