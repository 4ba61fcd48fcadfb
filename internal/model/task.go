package model

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Task keeps UserID meaningful only while Unassigned is false.
// CreatedBy is fixed at creation.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title       string     `gorm:"not null" validate:"required"`
	Description string
	DueDate     *time.Time
	Priority    Priority   `gorm:"type:varchar(16);not null" validate:"required,oneof=low medium high urgent"`
	Status      Status     `gorm:"type:varchar(16);not null" validate:"required,oneof=pending in-progress completed archived"`
	UserID      *uuid.UUID `gorm:"type:uuid;index"`
	Unassigned  bool       `gorm:"not null"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;index" validate:"required"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssigneeID returns the current assignee, or nil when the task is unassigned.
func (t *Task) AssigneeID() *uuid.UUID {
	if t.Unassigned || t.UserID == nil {
		return nil
	}
	return t.UserID
}

// TaskFilter selects tasks for listing. Zero values mean "no constraint".
type TaskFilter struct {
	UserID   *uuid.UUID
	Status   Status
	Priority Priority
	Search   string
}
