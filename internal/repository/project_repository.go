package repository

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

// ProjectRepository defines project persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	// FindByID loads a project with its collaborator set.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	// FindDetail loads a project with collaborators and its ordered tasks.
	FindDetail(ctx context.Context, id uuid.UUID) (*model.Project, error)
	// ListForUser lists projects the user created or collaborates on.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	// Delete removes the project, its tasks, task references and collaborators.
	Delete(ctx context.Context, id uuid.UUID) error
	AddCollaborator(ctx context.Context, projectID, userID uuid.UUID) error
	// RemoveCollaborator is a no-op when the user is not a collaborator.
	RemoveCollaborator(ctx context.Context, projectID, userID uuid.UUID) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create creates a new project.
func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

// Update saves the whole project record. Associations are managed through
// their own operations and are never written here.
func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

// FindByID finds a project by ID.
func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Preload("Collaborators").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindDetail finds a project by ID with everything a project page needs.
func (r *projectRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Preload("Collaborators", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Collaborators.User").
		Preload("TaskRefs").
		Preload("TaskRefs.Task").
		Preload("TaskRefs.Task.CompletedBy").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	slices.SortFunc(project.TaskRefs, func(a, b model.ProjectTask) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		default:
			return 0
		}
	})
	return &project, nil
}

// ListForUser lists every project visible to the user, newest first.
func (r *projectRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	memberOf := r.db.Model(&model.ProjectCollaborator{}).
		Select("project_id").
		Where("user_id = ?", userID)
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", userID).
		Or("id IN (?)", memberOf).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete removes the project and everything it owns in one transaction.
func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectCollaborator{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddCollaborator inserts the (project, user) pair. A concurrent duplicate
// insert surfaces as ErrDuplicateCollaborator.
func (r *projectRepository) AddCollaborator(ctx context.Context, projectID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Create(&model.ProjectCollaborator{
		ProjectID: projectID,
		UserID:    userID,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateCollaborator
	}
	return err
}

// RemoveCollaborator deletes the pair if present.
func (r *projectRepository) RemoveCollaborator(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectCollaborator{}).Error
}
