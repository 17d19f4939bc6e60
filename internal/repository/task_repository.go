package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	// FindByID loads a task with its project (and the project's
	// collaborators) and the user who last changed its state.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Task, error)
	// CreateInProject inserts the task and appends it to its project's task
	// sequence in one transaction.
	CreateInProject(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	// DeleteFromProject removes the task and its project reference in one
	// transaction.
	DeleteFromProject(ctx context.Context, task *model.Task) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TaskRepository) error) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// FindByID finds a task by ID.
func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Project.Collaborators").
		Preload("CompletedBy").
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByIDForUpdate finds a task by ID with a row-level lock.
func (r *taskRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Project").
		Preload("Project.Collaborators").
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateInProject creates the task and its sequence entry atomically.
func (r *taskRepository) CreateInProject(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}

		var last int64
		if err := tx.Model(&model.ProjectTask{}).
			Where("project_id = ?", task.ProjectID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return err
		}

		return tx.Create(&model.ProjectTask{
			ProjectID: task.ProjectID,
			TaskID:    task.ID,
			Position:  last + 1,
		}).Error
	})
}

// Update saves the whole task record.
func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// DeleteFromProject deletes the sequence entry and the task atomically.
func (r *taskRepository) DeleteFromProject(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND task_id = ?", task.ProjectID, task.ID).
			Delete(&model.ProjectTask{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", task.ID).Delete(&model.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// WithTransaction executes a function within a database transaction.
func (r *taskRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TaskRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &taskRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
