package repository

import (
	"context"
	"sort"
	"time"

	"team-calendar-api/core/database"
	"team-calendar-api/modules/task/entity"

	"github.com/google/uuid"
)

type memoryTaskRepository struct {
	db *database.MemoryDB
}

func NewMemoryTaskRepository(db *database.MemoryDB) TaskRepository {
	return &memoryTaskRepository{db: db}
}

func (r *memoryTaskRepository) CreateTask(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	created := *task
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	if created.Status == "" {
		created.Status = entity.TaskStatusOpen
	}
	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now

	err := r.db.WithTx(ctx, func(txn *database.MemTxn) error {
		return txn.Insert(database.TableTasks, &created)
	})
	if err != nil {
		return nil, err
	}
	out := created
	return &out, nil
}

func (r *memoryTaskRepository) GetTasksByTeamAndDeadline(_ context.Context, teamID uuid.UUID, from, to time.Time) ([]entity.Task, error) {
	txn := r.db.Txn(false)
	it, err := txn.Get(database.TableTasks, database.IndexTeamID, teamID)
	if err != nil {
		return nil, err
	}

	tasks := []entity.Task{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		task := raw.(*entity.Task)
		if task.Deadline == nil {
			continue
		}
		if task.Deadline.Before(from) || !task.Deadline.Before(to) {
			continue
		}
		tasks = append(tasks, *task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Deadline.Before(*tasks[j].Deadline)
	})
	return tasks, nil
}
