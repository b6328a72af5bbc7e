package repository

import (
	"context"
	"time"

	"team-calendar-api/core/database"
	"team-calendar-api/modules/task/entity"

	"github.com/google/uuid"
)

type TaskRepository interface {
	CreateTask(ctx context.Context, task *entity.Task) (*entity.Task, error)
	// GetTasksByTeamAndDeadline returns team tasks with from <= deadline < to,
	// ordered by deadline.
	GetTasksByTeamAndDeadline(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]entity.Task, error)
}

func NewTaskRepository(store database.Store) TaskRepository {
	if store.IsMemory() {
		return NewMemoryTaskRepository(store.Memory)
	}
	return NewPostgresTaskRepository(store.SQL)
}
