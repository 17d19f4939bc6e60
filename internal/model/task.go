package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskPriority ranks a task inside its project.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is a unit of work bound to exactly one project for its whole lifetime.
type Task struct {
	ID            uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string       `json:"name" gorm:"size:255;not null"`
	Description   string       `json:"description" gorm:"type:text;not null"`
	Priority      TaskPriority `json:"priority" gorm:"type:varchar(10);not null;default:'low'"`
	DeliveryDate  time.Time    `json:"delivery_date"`
	ProjectID     uuid.UUID    `json:"project" gorm:"type:char(36);not null;index"`
	State         bool         `json:"state" gorm:"default:false"`
	CompletedByID *uuid.UUID   `json:"-" gorm:"type:char(36)"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	// Relations
	Project     *Project `json:"-" gorm:"foreignKey:ProjectID"`
	CompletedBy *User    `json:"completed_by,omitempty" gorm:"foreignKey:CompletedByID"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
