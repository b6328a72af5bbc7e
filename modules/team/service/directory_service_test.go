package service

import (
	"context"
	"testing"
	"time"

	"team-calendar-api/core/cache"
	"team-calendar-api/core/database"
	coreEntity "team-calendar-api/core/entity"
	"team-calendar-api/core/errors"
	"team-calendar-api/modules/team/entity"
	"team-calendar-api/modules/team/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	repository.TeamRepository
	userReads int
}

func (r *countingRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.userReads++
	return r.TeamRepository.GetUserByID(ctx, id)
}

type directoryFixture struct {
	repo    *countingRepo
	svc     *DirectoryService
	team    *entity.Team
	member  *entity.User
	retired *entity.User
	nomad   *entity.User
	foreign *entity.User
}

func newDirectoryFixture(t *testing.T) *directoryFixture {
	t.Helper()
	ctx := context.Background()

	mem, err := database.NewMemoryDB()
	require.NoError(t, err)
	repo := &countingRepo{TeamRepository: repository.NewTeamRepository(database.Store{Memory: mem})}

	team, err := repo.CreateTeam(ctx, &entity.Team{Name: "platform"})
	require.NoError(t, err)
	other, err := repo.CreateTeam(ctx, &entity.Team{Name: "sales"})
	require.NoError(t, err)

	newUser := func(email string, teamID *uuid.UUID, active bool) *entity.User {
		u, err := repo.CreateUser(ctx, &entity.User{Email: email, Role: coreEntity.RoleUser, IsActive: active, TeamID: teamID})
		require.NoError(t, err)
		return u
	}

	return &directoryFixture{
		repo:    repo,
		svc:     NewDirectoryService(repo, cache.NewMemoryCache(time.Minute)),
		team:    team,
		member:  newUser("member@example.com", &team.ID, true),
		retired: newUser("retired@example.com", &team.ID, false),
		nomad:   newUser("nomad@example.com", nil, true),
		foreign: newUser("foreign@example.com", &other.ID, true),
	}
}

func TestGetUserCachesLookups(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	first, appErr := f.svc.GetUser(ctx, f.member.ID)
	require.Nil(t, appErr)
	second, appErr := f.svc.GetUser(ctx, f.member.ID)
	require.Nil(t, appErr)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "member@example.com", second.Email)
	assert.Equal(t, 1, f.repo.userReads)

	f.svc.Invalidate(ctx, f.member.ID)
	_, appErr = f.svc.GetUser(ctx, f.member.ID)
	require.Nil(t, appErr)
	assert.Equal(t, 2, f.repo.userReads)
}

func TestGetUserNotFound(t *testing.T) {
	f := newDirectoryFixture(t)

	_, appErr := f.svc.GetUser(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestResolvePrincipal(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	principal, appErr := f.svc.ResolvePrincipal(ctx, f.member.ID)
	require.Nil(t, appErr)
	assert.Equal(t, f.member.ID, principal.ID)
	require.NotNil(t, principal.TeamID)
	assert.Equal(t, f.team.ID, *principal.TeamID)
	assert.Equal(t, coreEntity.RoleUser, principal.Role)

	principal, appErr = f.svc.ResolvePrincipal(ctx, f.nomad.ID)
	require.Nil(t, appErr)
	assert.Nil(t, principal.TeamID)

	_, appErr = f.svc.ResolvePrincipal(ctx, f.retired.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)

	_, appErr = f.svc.ResolvePrincipal(ctx, uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestFilterTeamMembers(t *testing.T) {
	f := newDirectoryFixture(t)

	got, err := f.svc.FilterTeamMembers(context.Background(), f.team.ID, []uuid.UUID{
		f.member.ID, f.member.ID, f.retired.ID, f.nomad.ID, f.foreign.ID, uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.member.ID}, got)
}
