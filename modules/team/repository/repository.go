package repository

import (
	"context"

	"team-calendar-api/core/database"
	"team-calendar-api/modules/team/entity"

	"github.com/google/uuid"
)

// TeamRepository is the team/user directory store.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team *entity.Team) (*entity.Team, error)
	GetTeamByID(ctx context.Context, id uuid.UUID) (*entity.Team, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// GetTeamMemberIDs returns the subset of userIDs that are active members
	// of teamID.
	GetTeamMemberIDs(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error)
}

func NewTeamRepository(store database.Store) TeamRepository {
	if store.IsMemory() {
		return NewMemoryTeamRepository(store.Memory)
	}
	return NewPostgresTeamRepository(store.SQL)
}
