package repository

import (
	"context"
	"database/sql"
	"errors"

	"team-calendar-api/core/database"
	"team-calendar-api/core/logger"
	"team-calendar-api/modules/team/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresTeamRepository struct {
	DB database.IDatabase
}

func NewPostgresTeamRepository(db database.IDatabase) TeamRepository {
	return &postgresTeamRepository{DB: db}
}

func (r *postgresTeamRepository) CreateTeam(ctx context.Context, team *entity.Team) (*entity.Team, error) {
	query := `
		INSERT INTO teams (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at, updated_at
	`
	var created entity.Team
	if err := r.DB.GetContext(ctx, &created, query, team.Name, team.Description); err != nil {
		logger.Error("TeamRepository:CreateTeam", "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *postgresTeamRepository) GetTeamByID(ctx context.Context, id uuid.UUID) (*entity.Team, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM teams WHERE id = $1`

	var team entity.Team
	if err := r.DB.GetContext(ctx, &team, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("TeamRepository:GetTeamByID", "error", err)
		return nil, err
	}
	return &team, nil
}

func (r *postgresTeamRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, role, is_active, team_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, role, is_active, team_id, created_at, updated_at
	`
	var created entity.User
	if err := r.DB.GetContext(ctx, &created, query, user.Email, user.Role, user.IsActive, user.TeamID); err != nil {
		logger.Error("TeamRepository:CreateUser", "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *postgresTeamRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, role, is_active, team_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user entity.User
	if err := r.DB.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("TeamRepository:GetUserByID", "error", err)
		return nil, err
	}
	return &user, nil
}

func (r *postgresTeamRepository) GetTeamMemberIDs(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(userIDs) == 0 {
		return []uuid.UUID{}, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT id
		FROM users
		WHERE team_id = $1
		AND is_active = TRUE
		AND id = ANY($2::uuid[])
	`
	members := []uuid.UUID{}
	if err := r.DB.SelectContext(ctx, &members, query, teamID, pq.Array(ids)); err != nil {
		logger.Error("TeamRepository:GetTeamMemberIDs", "error", err)
		return nil, err
	}
	return members, nil
}
