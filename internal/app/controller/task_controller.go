package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
)

type TaskController struct {
	taskService service.TaskService
}

func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	BusinessID  *uint      `json:"business_id"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
}

// List returns the workspace's tasks
// GET /api/v1/tasks
func (ctrl *TaskController) List(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)

	filter := repository.TaskFilter{}
	if raw := c.Query("business_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			v := uint(id)
			filter.BusinessID = &v
		}
	}
	if raw := c.Query("done"); raw != "" {
		v := raw == "true"
		filter.Done = &v
	}
	filter.DueBefore = parseTimeQuery(c, "due_before")

	tasks, err := ctrl.taskService.List(workspaceID, filter)
	if err != nil {
		errors.InternalError(c, "Kunne ikke hente oppgaver")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// Create creates a task
// POST /api/v1/tasks
func (ctrl *TaskController) Create(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig oppgavedata")
		return
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		BusinessID:  req.BusinessID,
		DueDate:     req.DueDate,
		Priority:    model.TaskPriority(req.Priority),
	}
	if req.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	if err := ctrl.taskService.Create(workspaceID, task); err != nil {
		switch err {
		case service.ErrInvalidPriority:
			errors.BadRequest(c, errors.ValidationInvalidInput, "Ukjent prioritet")
		case service.ErrBusinessNotFound:
			errors.NotFound(c, errors.BusinessNotFound, "Fant ikke bedriften oppgaven skal knyttes til")
		default:
			errors.InternalError(c, "Kunne ikke opprette oppgaven")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// Update applies a partial update
// PUT /api/v1/tasks/:id
func (ctrl *TaskController) Update(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input service.TaskUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig oppgavedata")
		return
	}

	task, err := ctrl.taskService.Update(workspaceID, id, input)
	if err != nil {
		switch err {
		case service.ErrTaskNotFound:
			errors.NotFound(c, errors.TaskNotFound, "Fant ikke oppgaven")
		case service.ErrInvalidPriority:
			errors.BadRequest(c, errors.ValidationInvalidInput, "Ukjent prioritet")
		default:
			errors.InternalError(c, "Kunne ikke oppdatere oppgaven")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// SetDone toggles completion
// PATCH /api/v1/tasks/:id/done
func (ctrl *TaskController) SetDone(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Done bool `json:"done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Ugyldig forespørsel")
		return
	}

	task, err := ctrl.taskService.SetDone(workspaceID, id, req.Done)
	if err != nil {
		if err == service.ErrTaskNotFound {
			errors.NotFound(c, errors.TaskNotFound, "Fant ikke oppgaven")
			return
		}
		errors.InternalError(c, "Kunne ikke oppdatere oppgaven")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Delete removes a task
// DELETE /api/v1/tasks/:id
func (ctrl *TaskController) Delete(c *gin.Context) {
	workspaceID, _ := middleware.GetWorkspaceID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.taskService.Delete(workspaceID, id); err != nil {
		if err == service.ErrTaskNotFound {
			errors.NotFound(c, errors.TaskNotFound, "Fant ikke oppgaven")
			return
		}
		errors.InternalError(c, "Kunne ikke slette oppgaven")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
