package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a unit of work owned by exactly one creator and optionally
// shared with collaborators.
type Project struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	DeliveryDate time.Time `json:"delivery_date"`
	Client       string    `json:"client" gorm:"size:255;not null"`
	CreatorID    uuid.UUID `json:"creator" gorm:"type:char(36);not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Collaborators []ProjectCollaborator `json:"collaborators,omitempty" gorm:"foreignKey:ProjectID"`
	TaskRefs      []ProjectTask         `json:"task_refs,omitempty" gorm:"foreignKey:ProjectID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CollaboratorIDs returns the ids of the loaded collaborators.
func (p *Project) CollaboratorIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Collaborators))
	for _, c := range p.Collaborators {
		ids = append(ids, c.UserID)
	}
	return ids
}

// TaskIDs returns the ordered task references of the project.
func (p *Project) TaskIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.TaskRefs))
	for _, ref := range p.TaskRefs {
		ids = append(ids, ref.TaskID)
	}
	return ids
}

// ProjectCollaborator is a member of a project's collaborator set.
// The (project, user) pair is unique.
type ProjectCollaborator struct {
	ProjectID uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey;index"`
	CreatedAt time.Time `json:"-"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName pins the join table name.
func (ProjectCollaborator) TableName() string { return "project_collaborators" }

// ProjectTask is an entry in a project's ordered task sequence.
type ProjectTask struct {
	ProjectID uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	TaskID    uuid.UUID `json:"task_id" gorm:"type:char(36);primaryKey;uniqueIndex"`
	Position  int64     `json:"position" gorm:"not null;index"`

	Task *Task `json:"task,omitempty" gorm:"foreignKey:TaskID"`
}

// TableName pins the sequence table name.
func (ProjectTask) TableName() string { return "project_tasks" }
