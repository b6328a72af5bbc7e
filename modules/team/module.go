package team

import (
	"team-calendar-api/core/cache"
	"team-calendar-api/core/database"
	"team-calendar-api/modules/team/repository"
	"team-calendar-api/modules/team/service"
)

// Init builds the team directory. It has no routes: teams and users are
// managed outside this service.
func Init(store database.Store, c cache.Cache) *service.DirectoryService {
	repo := repository.NewTeamRepository(store)
	return service.NewDirectoryService(repo, c)
}
