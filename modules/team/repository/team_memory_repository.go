package repository

import (
	"context"
	"time"

	"team-calendar-api/core/database"
	"team-calendar-api/modules/team/entity"

	"github.com/google/uuid"
)

type memoryTeamRepository struct {
	db *database.MemoryDB
}

func NewMemoryTeamRepository(db *database.MemoryDB) TeamRepository {
	return &memoryTeamRepository{db: db}
}

func (r *memoryTeamRepository) CreateTeam(ctx context.Context, team *entity.Team) (*entity.Team, error) {
	created := *team
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now

	err := r.db.WithTx(ctx, func(txn *database.MemTxn) error {
		return txn.Insert(database.TableTeams, &created)
	})
	if err != nil {
		return nil, err
	}
	out := created
	return &out, nil
}

func (r *memoryTeamRepository) GetTeamByID(_ context.Context, id uuid.UUID) (*entity.Team, error) {
	txn := r.db.Txn(false)
	raw, err := txn.First(database.TableTeams, database.IndexID, id)
	if err != nil || raw == nil {
		return nil, err
	}
	team := *raw.(*entity.Team)
	return &team, nil
}

func (r *memoryTeamRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	created := *user
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now

	err := r.db.WithTx(ctx, func(txn *database.MemTxn) error {
		return txn.Insert(database.TableUsers, &created)
	})
	if err != nil {
		return nil, err
	}
	out := created
	return &out, nil
}

func (r *memoryTeamRepository) GetUserByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	txn := r.db.Txn(false)
	raw, err := txn.First(database.TableUsers, database.IndexID, id)
	if err != nil || raw == nil {
		return nil, err
	}
	user := *raw.(*entity.User)
	return &user, nil
}

func (r *memoryTeamRepository) GetTeamMemberIDs(_ context.Context, teamID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	txn := r.db.Txn(false)
	members := []uuid.UUID{}
	for _, id := range userIDs {
		raw, err := txn.First(database.TableUsers, database.IndexID, id)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			continue
		}
		user := raw.(*entity.User)
		if user.IsActive && user.BelongsTo(teamID) {
			members = append(members, user.ID)
		}
	}
	return members, nil
}
