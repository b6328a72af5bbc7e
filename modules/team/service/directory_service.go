package service

import (
	"context"
	"encoding/json"

	"team-calendar-api/core/cache"
	"team-calendar-api/core/constants"
	coreEntity "team-calendar-api/core/entity"
	"team-calendar-api/core/errors"
	"team-calendar-api/core/logger"
	"team-calendar-api/core/utils"
	"team-calendar-api/modules/team/entity"
	"team-calendar-api/modules/team/repository"

	"github.com/google/uuid"
)

// DirectoryService resolves users to teams and checks team membership.
type DirectoryService struct {
	repo  repository.TeamRepository
	cache cache.Cache
}

func NewDirectoryService(repo repository.TeamRepository, c cache.Cache) *DirectoryService {
	return &DirectoryService{repo: repo, cache: c}
}

// GetUser returns the directory entry for id. Lookups are cached for
// constants.DirectoryCacheTTL; membership checks below always hit the store.
func (s *DirectoryService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError) {
	key := constants.RedisKeyDirectoryUser + id.String()

	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err != nil {
			logger.Warn("DirectoryService:GetUser:CacheGet", "user_id", id, "error", err)
		} else if ok {
			var user entity.User
			if err := json.Unmarshal([]byte(raw), &user); err == nil {
				return &user, nil
			}
		}
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get user failed", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(user); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), constants.DirectoryCacheTTL); err != nil {
				logger.Warn("DirectoryService:GetUser:CacheSet", "user_id", id, "error", err)
			}
		}
	}
	return user, nil
}

// ResolvePrincipal maps a token subject to the caller used by the HTTP
// layer. Inactive users are rejected.
func (s *DirectoryService) ResolvePrincipal(ctx context.Context, id uuid.UUID) (*coreEntity.AuthUser, *errors.AppError) {
	user, appErr := s.GetUser(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if !user.IsActive {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user is inactive", nil)
	}
	return &coreEntity.AuthUser{ID: user.ID, TeamID: user.TeamID, Role: user.Role}, nil
}

// Invalidate drops a cached directory entry, e.g. after a team change.
func (s *DirectoryService) Invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, constants.RedisKeyDirectoryUser+id.String()); err != nil {
		logger.Warn("DirectoryService:Invalidate", "user_id", id, "error", err)
	}
}

// FilterTeamMembers returns the ids from userIDs that are active members of
// teamID. Duplicates in userIDs are ignored.
func (s *DirectoryService) FilterTeamMembers(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.GetTeamMemberIDs(ctx, teamID, utils.UniqueUUIDs(userIDs))
}
