package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/access"
	"taskboard/internal/cache"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// TaskInput carries task fields. ProjectID is only read on create; a task
// never moves between projects.
type TaskInput struct {
	Name         string
	Description  string
	Priority     model.TaskPriority
	DeliveryDate *time.Time
	ProjectID    uuid.UUID
}

// TaskService handles task operations.
type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, in TaskInput) (*model.Task, error)
	Get(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, in TaskInput) (*model.Task, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error)
	ToggleState(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error)
}

type taskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	cache       *cache.Client
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, cache *cache.Client) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		cache:       cache,
	}
}

// Create adds a task to the end of its project's task sequence. Only the
// project creator may create tasks.
func (s *taskService) Create(ctx context.Context, userID uuid.UUID, in TaskInput) (*model.Task, error) {
	project, err := s.projectRepo.FindByID(ctx, in.ProjectID)
	if err != nil {
		return nil, projectLookupError(err)
	}
	if err := access.RequireModify(userID, project); err != nil {
		return nil, err
	}

	task := &model.Task{
		Name:        in.Name,
		Description: in.Description,
		Priority:    in.Priority,
		ProjectID:   project.ID,
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityLow
	}
	if in.DeliveryDate != nil {
		task.DeliveryDate = *in.DeliveryDate
	} else {
		task.DeliveryDate = time.Now()
	}

	if err := s.taskRepo.CreateInProject(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.invalidate(ctx, project.ID)
	return task, nil
}

// Get returns a task to anyone who can view its project.
func (s *taskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireView(userID, task.Project); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, userID, taskID uuid.UUID, in TaskInput) (*model.Task, error) {
	task, err := s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireModify(userID, task.Project); err != nil {
		return nil, err
	}

	if in.Name != "" {
		task.Name = in.Name
	}
	if in.Description != "" {
		task.Description = in.Description
	}
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	if in.DeliveryDate != nil {
		task.DeliveryDate = *in.DeliveryDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.invalidate(ctx, task.ProjectID)
	return task, nil
}

// Delete removes the task and its entry in the project's task sequence. The
// deleted task is returned so callers can announce it.
func (s *taskService) Delete(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireModify(userID, task.Project); err != nil {
		return nil, err
	}

	if err := s.taskRepo.DeleteFromProject(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}
	s.invalidate(ctx, task.ProjectID)
	return task, nil
}

// ToggleState flips the task state and records the user as the one who last
// changed it. The creator and every collaborator may toggle.
func (s *taskService) ToggleState(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	var projectID uuid.UUID
	err := s.taskRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.TaskRepository) error {
		task, err := repo.FindByIDForUpdate(ctx, taskID)
		if err != nil {
			return taskLookupError(err)
		}
		if err := access.RequireToggle(userID, task); err != nil {
			return err
		}

		task.State = !task.State
		task.CompletedByID = &userID
		projectID = task.ProjectID
		return repo.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, projectID)

	return s.find(ctx, taskID)
}

func (s *taskService) find(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, taskLookupError(err)
	}
	if task.Project == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return task, nil
}

func (s *taskService) invalidate(ctx context.Context, projectID uuid.UUID) {
	_ = s.cache.Delete(ctx, projectCacheKey(projectID))
}

func taskLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrTaskNotFound
	}
	return fmt.Errorf("find task: %w", err)
}
