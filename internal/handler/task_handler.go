package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DeliveryDate string `json:"delivery_date"`
	Project      string `json:"project" validate:"required,uuid"`
}

// UpdateTaskRequest represents a task update. Omitted fields keep their
// current value and the project never changes.
type UpdateTaskRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DeliveryDate string `json:"delivery_date"`
}

// Create godoc
// @Summary Create a task in a project
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	projectID, err := parseUUID(req.Project, "project id")
	if err != nil {
		return err
	}
	due, err := parseDate(req.DeliveryDate)
	if err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), user.ID, service.TaskInput{
		Name:         req.Name,
		Description:  req.Description,
		Priority:     model.TaskPriority(req.Priority),
		DeliveryDate: due,
		ProjectID:    projectID,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

// Get godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseUUID(c.Param("id"), "task id")
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), user.ID, taskID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

// Update godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseUUID(c.Param("id"), "task id")
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	due, err := parseDate(req.DeliveryDate)
	if err != nil {
		return err
	}

	task, err := h.taskService.Update(c.Request().Context(), user.ID, taskID, service.TaskInput{
		Name:         req.Name,
		Description:  req.Description,
		Priority:     model.TaskPriority(req.Priority),
		DeliveryDate: due,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

// Delete godoc
// @Summary Delete a task
// @Description Returns the deleted task.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseUUID(c.Param("id"), "task id")
	if err != nil {
		return err
	}

	task, err := h.taskService.Delete(c.Request().Context(), user.ID, taskID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

// ToggleState godoc
// @Summary Toggle a task's completion state
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/estado/{id} [post]
func (h *TaskHandler) ToggleState(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseUUID(c.Param("id"), "task id")
	if err != nil {
		return err
	}

	task, err := h.taskService.ToggleState(c.Request().Context(), user.ID, taskID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}
