package entity

import (
	"time"

	"team-calendar-api/core/entity"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type Task struct {
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Deadline    *time.Time `db:"deadline" json:"deadline,omitempty"`
	Status      TaskStatus `db:"status" json:"status"`
	CreatorID   uuid.UUID  `db:"creator_id" json:"creator_id"`
	AssigneeID  *uuid.UUID `db:"assignee_id" json:"assignee_id,omitempty"`
	TeamID      uuid.UUID  `db:"team_id" json:"team_id"`

	entity.BaseEntity
}
