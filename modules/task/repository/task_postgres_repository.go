package repository

import (
	"context"
	"time"

	"team-calendar-api/core/database"
	"team-calendar-api/core/logger"
	"team-calendar-api/modules/task/entity"

	"github.com/google/uuid"
)

type postgresTaskRepository struct {
	DB database.IDatabase
}

func NewPostgresTaskRepository(db database.IDatabase) TaskRepository {
	return &postgresTaskRepository{DB: db}
}

func (r *postgresTaskRepository) CreateTask(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	query := `
		INSERT INTO tasks (title, description, deadline, status, creator_id, assignee_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, title, description, deadline, status, creator_id, assignee_id, team_id, created_at, updated_at
	`
	var created entity.Task
	err := r.DB.GetContext(ctx, &created, query,
		task.Title, task.Description, task.Deadline, task.Status,
		task.CreatorID, task.AssigneeID, task.TeamID)
	if err != nil {
		logger.Error("TaskRepository:CreateTask", "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *postgresTaskRepository) GetTasksByTeamAndDeadline(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]entity.Task, error) {
	query := `
		SELECT id, title, description, deadline, status, creator_id, assignee_id, team_id, created_at, updated_at
		FROM tasks
		WHERE team_id = $1
		AND deadline >= $2
		AND deadline < $3
		ORDER BY deadline ASC, id ASC
	`
	tasks := []entity.Task{}
	if err := r.DB.SelectContext(ctx, &tasks, query, teamID, from, to); err != nil {
		logger.Error("TaskRepository:GetTasksByTeamAndDeadline", "error", err)
		return nil, err
	}
	return tasks, nil
}
