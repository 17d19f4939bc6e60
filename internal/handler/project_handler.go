package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/service"
)

// ProjectHandler handles project and collaborator endpoints.
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest represents a project creation request.
type CreateProjectRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Client       string `json:"client" validate:"required"`
	DeliveryDate string `json:"delivery_date"`
}

// UpdateProjectRequest represents a project update. Omitted fields keep
// their current value.
type UpdateProjectRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Client       string `json:"client"`
	DeliveryDate string `json:"delivery_date"`
}

// RemoveCollaboratorRequest names the collaborator to remove.
type RemoveCollaboratorRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Project data"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	due, err := parseDate(req.DeliveryDate)
	if err != nil {
		return err
	}

	project, err := h.projectService.Create(c.Request().Context(), user.ID, service.ProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		Client:       req.Client,
		DeliveryDate: due,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newProjectResponse(project))
}

// List godoc
// @Summary List projects the user created or collaborates on
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProjectResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	projects, err := h.projectService.List(c.Request().Context(), user.ID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newProjectListResponse(projects))
}

// Get godoc
// @Summary Project detail with collaborators and tasks
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} ProjectDetailResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := parseUUID(c.Param("id"), "project id")
	if err != nil {
		return err
	}

	project, err := h.projectService.Get(c.Request().Context(), user.ID, projectID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newProjectDetailResponse(project))
}

// Update godoc
// @Summary Update project metadata
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body UpdateProjectRequest true "Fields to change"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := parseUUID(c.Param("id"), "project id")
	if err != nil {
		return err
	}

	var req UpdateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	due, err := parseDate(req.DeliveryDate)
	if err != nil {
		return err
	}

	project, err := h.projectService.Update(c.Request().Context(), user.ID, projectID, service.ProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		Client:       req.Client,
		DeliveryDate: due,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, newProjectResponse(project))
}

// Delete godoc
// @Summary Delete a project with its tasks
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := parseUUID(c.Param("id"), "project id")
	if err != nil {
		return err
	}

	if err := h.projectService.Delete(c.Request().Context(), user.ID, projectID); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "project deleted"})
}

// FindCollaborator godoc
// @Summary Look up a user by email before adding them
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EmailRequest true "Candidate email"
// @Success 200 {object} model.UserSummary
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/collaborators [post]
func (h *ProjectHandler) FindCollaborator(c echo.Context) error {
	var req EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.projectService.FindCollaborator(c.Request().Context(), req.Email)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, user.Summary())
}

// AddCollaborator godoc
// @Summary Add a collaborator by email
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body EmailRequest true "Collaborator email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /projects/{id}/collaborators [post]
func (h *ProjectHandler) AddCollaborator(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := parseUUID(c.Param("id"), "project id")
	if err != nil {
		return err
	}

	var req EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.projectService.AddCollaborator(c.Request().Context(), user.ID, projectID, req.Email); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "collaborator added"})
}

// RemoveCollaborator godoc
// @Summary Remove a collaborator
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body RemoveCollaboratorRequest true "Collaborator id"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id}/collaborators [delete]
func (h *ProjectHandler) RemoveCollaborator(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	projectID, err := parseUUID(c.Param("id"), "project id")
	if err != nil {
		return err
	}

	var req RemoveCollaboratorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	collaboratorID, err := parseUUID(req.ID, "collaborator id")
	if err != nil {
		return err
	}

	if err := h.projectService.RemoveCollaborator(c.Request().Context(), user.ID, projectID, collaboratorID); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "collaborator removed"})
}
