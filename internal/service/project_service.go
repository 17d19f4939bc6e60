package service

import (
	"context"
	"encoding/json"
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

const projectCacheTTL = 2 * time.Minute

// ProjectInput carries project metadata. Empty fields keep the stored value
// on update.
type ProjectInput struct {
	Name         string
	Description  string
	Client       string
	DeliveryDate *time.Time
}

// ProjectService exposes project and membership operations. Every
// operation takes the id of the authenticated user.
type ProjectService interface {
	Create(ctx context.Context, userID uuid.UUID, in ProjectInput) (*model.Project, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, userID, projectID uuid.UUID, in ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error
	FindCollaborator(ctx context.Context, email string) (*model.User, error)
	AddCollaborator(ctx context.Context, userID, projectID uuid.UUID, email string) error
	RemoveCollaborator(ctx context.Context, userID, projectID, collaboratorID uuid.UUID) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	cache       *cache.Client
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, cache *cache.Client) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		cache:       cache,
	}
}

func projectCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("project:%s", id)
}

func (s *projectService) Create(ctx context.Context, userID uuid.UUID, in ProjectInput) (*model.Project, error) {
	project := &model.Project{
		Name:        in.Name,
		Description: in.Description,
		Client:      in.Client,
		CreatorID:   userID,
	}
	if in.DeliveryDate != nil {
		project.DeliveryDate = *in.DeliveryDate
	} else {
		project.DeliveryDate = time.Now()
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	projects, err := s.projectRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Get returns the project with its collaborators and ordered tasks. Access
// is decided on the stored membership; the cached detail only serves the
// payload.
func (s *projectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error) {
	current, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, projectLookupError(err)
	}
	if err := access.RequireView(userID, current); err != nil {
		return nil, err
	}
	return s.detail(ctx, current)
}

// detail serves a cached copy only when it carries the current collaborator
// set. A copy written back after a membership change is replaced.
func (s *projectService) detail(ctx context.Context, current *model.Project) (*model.Project, error) {
	key := projectCacheKey(current.ID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached model.Project
		if err := json.Unmarshal(data, &cached); err == nil && sameMembers(&cached, current) {
			return &cached, nil
		}
	}

	project, err := s.projectRepo.FindDetail(ctx, current.ID)
	if err != nil {
		return nil, projectLookupError(err)
	}

	if payload, err := json.Marshal(project); err == nil {
		_ = s.cache.Set(ctx, key, payload, projectCacheTTL)
	}
	return project, nil
}

func sameMembers(a, b *model.Project) bool {
	if a.CreatorID != b.CreatorID {
		return false
	}
	members := access.MembershipOf(a)
	ids := b.CollaboratorIDs()
	if members.Len() != len(ids) {
		return false
	}
	for _, id := range ids {
		if !members.IsCollaborator(id) {
			return false
		}
	}
	return true
}

func (s *projectService) Update(ctx context.Context, userID, projectID uuid.UUID, in ProjectInput) (*model.Project, error) {
	project, err := s.modifiable(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		project.Name = in.Name
	}
	if in.Description != "" {
		project.Description = in.Description
	}
	if in.Client != "" {
		project.Client = in.Client
	}
	if in.DeliveryDate != nil {
		project.DeliveryDate = *in.DeliveryDate
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	s.invalidate(ctx, projectID)
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := s.modifiable(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return projectLookupError(err)
	}
	s.invalidate(ctx, projectID)
	return nil
}

func (s *projectService) FindCollaborator(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// AddCollaborator admits the user registered under email. The creator and
// existing collaborators are rejected.
func (s *projectService) AddCollaborator(ctx context.Context, userID, projectID uuid.UUID, email string) error {
	project, err := s.modifiable(ctx, userID, projectID)
	if err != nil {
		return err
	}

	candidate, err := s.FindCollaborator(ctx, email)
	if err != nil {
		return err
	}

	if err := access.MembershipOf(project).Admit(candidate.ID); err != nil {
		return err
	}

	if err := s.projectRepo.AddCollaborator(ctx, projectID, candidate.ID); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateCollaborator) {
			return err
		}
		return fmt.Errorf("add collaborator: %w", err)
	}
	s.invalidate(ctx, projectID)
	return nil
}

// RemoveCollaborator succeeds whether or not the user was a collaborator.
func (s *projectService) RemoveCollaborator(ctx context.Context, userID, projectID, collaboratorID uuid.UUID) error {
	if _, err := s.modifiable(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.projectRepo.RemoveCollaborator(ctx, projectID, collaboratorID); err != nil {
		return fmt.Errorf("remove collaborator: %w", err)
	}
	s.invalidate(ctx, projectID)
	return nil
}

// modifiable loads the project from the store and checks the user created it.
func (s *projectService) modifiable(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, projectLookupError(err)
	}
	if err := access.RequireModify(userID, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) invalidate(ctx context.Context, projectID uuid.UUID) {
	_ = s.cache.Delete(ctx, projectCacheKey(projectID))
}

func projectLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrProjectNotFound
	}
	return fmt.Errorf("find project: %w", err)
}
