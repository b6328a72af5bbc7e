package task

import (
	"team-calendar-api/core/database"
	"team-calendar-api/modules/task/repository"
)

// Init builds the task store read by the calendar.
func Init(store database.Store) repository.TaskRepository {
	return repository.NewTaskRepository(store)
}
