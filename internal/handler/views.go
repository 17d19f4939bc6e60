package handler

import (
	"time"

	"github.com/google/uuid"

	"taskboard/internal/model"
)

// ProjectResponse is the API view of a project.
type ProjectResponse struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	DeliveryDate  time.Time           `json:"delivery_date"`
	Client        string              `json:"client"`
	Creator       uuid.UUID           `json:"creator"`
	Collaborators []model.UserSummary `json:"collaborators"`
}

// ProjectDetailResponse adds the ordered task list. Tasks is always an
// array, empty when the project has none.
type ProjectDetailResponse struct {
	ProjectResponse
	Tasks []TaskResponse `json:"tasks"`
}

// TaskResponse is the API view of a task.
type TaskResponse struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Priority     model.TaskPriority `json:"priority"`
	DeliveryDate time.Time          `json:"delivery_date"`
	Project      uuid.UUID          `json:"project"`
	State        bool               `json:"state"`
	CompletedBy  *model.UserSummary `json:"completed_by"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

func newProjectResponse(p *model.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		DeliveryDate:  p.DeliveryDate,
		Client:        p.Client,
		Creator:       p.CreatorID,
		Collaborators: make([]model.UserSummary, 0, len(p.Collaborators)),
	}
	for _, c := range p.Collaborators {
		if c.User != nil {
			resp.Collaborators = append(resp.Collaborators, c.User.Summary())
			continue
		}
		resp.Collaborators = append(resp.Collaborators, model.UserSummary{ID: c.UserID})
	}
	return resp
}

func newProjectDetailResponse(p *model.Project) ProjectDetailResponse {
	resp := ProjectDetailResponse{
		ProjectResponse: newProjectResponse(p),
		Tasks:           make([]TaskResponse, 0, len(p.TaskRefs)),
	}
	for _, ref := range p.TaskRefs {
		if ref.Task != nil {
			resp.Tasks = append(resp.Tasks, newTaskResponse(ref.Task))
		}
	}
	return resp
}

func newProjectListResponse(projects []model.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, newProjectResponse(&projects[i]))
	}
	return out
}

func newTaskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		Priority:     t.Priority,
		DeliveryDate: t.DeliveryDate,
		Project:      t.ProjectID,
		State:        t.State,
	}
	switch {
	case t.CompletedBy != nil:
		resp.CompletedBy = &model.UserSummary{ID: t.CompletedBy.ID, Name: t.CompletedBy.Name}
	case t.CompletedByID != nil:
		resp.CompletedBy = &model.UserSummary{ID: *t.CompletedByID}
	}
	return resp
}
