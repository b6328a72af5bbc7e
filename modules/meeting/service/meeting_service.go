package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"team-calendar-api/core/constants"
	coreEntity "team-calendar-api/core/entity"
	"team-calendar-api/core/errors"
	"team-calendar-api/core/logger"
	"team-calendar-api/core/params"
	"team-calendar-api/core/utils"
	"team-calendar-api/modules/meeting/dto"
	"team-calendar-api/modules/meeting/entity"
	"team-calendar-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// MemberDirectory answers team membership questions for participant
// validation.
type MemberDirectory interface {
	FilterTeamMembers(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error)
}

// MeetingServiceInterface defines the service contract
type MeetingServiceInterface interface {
	CreateMeeting(ctx context.Context, organizer *coreEntity.AuthUser, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	GetMeeting(ctx context.Context, id uuid.UUID, caller *coreEntity.AuthUser) (*dto.MeetingResponse, *errors.AppError)
	GetUserMeetings(ctx context.Context, userID uuid.UUID, p params.QueryParams) ([]dto.MeetingResponse, *errors.AppError)
	UpdateMeeting(ctx context.Context, id uuid.UUID, caller *coreEntity.AuthUser, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	CancelMeeting(ctx context.Context, id uuid.UUID, caller *coreEntity.AuthUser) (*dto.MeetingResponse, *errors.AppError)
}

// MeetingService schedules meetings. Every create, update and cancel runs as
// a single unit of work, so the conflict check and the write it guards are
// never interleaved with another scheduling request for the same users.
type MeetingService struct {
	repo      repository.MeetingRepository
	directory MemberDirectory
	checker   *ConflictChecker
}

func NewMeetingService(repo repository.MeetingRepository, directory MemberDirectory) *MeetingService {
	return &MeetingService{
		repo:      repo,
		directory: directory,
		checker:   NewConflictChecker(),
	}
}

// CreateMeeting validates the request, checks every participant for
// conflicts and stores the meeting with its participants.
func (s *MeetingService) CreateMeeting(ctx context.Context, organizer *coreEntity.AuthUser, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if !organizer.HasTeam() {
		return nil, errors.NewAppError(errors.ErrForbidden, "user does not belong to a team", nil)
	}
	teamID := *organizer.TeamID

	title, appErr := validateTitle(req.Title)
	if appErr != nil {
		return nil, appErr
	}
	description, appErr := validateDescription(req.Description)
	if appErr != nil {
		return nil, appErr
	}
	window := entity.TimeRange{Start: req.StartAt.UTC(), End: req.EndAt.UTC()}
	if !window.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidTimeRange, "end time must be after start time", nil)
	}

	participantIDs := utils.UniqueUUIDs(req.Participants)
	if appErr := s.validateParticipants(ctx, teamID, participantIDs); appErr != nil {
		return nil, appErr
	}

	var created *entity.Meeting
	err := s.repo.WithTx(ctx, func(tx repository.MeetingRepository) error {
		if err := tx.LockParticipants(ctx, participantIDs); err != nil {
			return err
		}
		if appErr := s.checkConflicts(ctx, tx, participantIDs, window, nil); appErr != nil {
			return appErr
		}

		m, err := tx.CreateMeeting(ctx, &entity.Meeting{
			Title:       title,
			Description: description,
			StartAt:     window.Start,
			EndAt:       window.End,
			OrganizerID: organizer.ID,
			TeamID:      teamID,
		})
		if err != nil {
			return err
		}
		if err := tx.AddParticipants(ctx, m.ID, participantIDs); err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, toAppError(err, errors.ErrCreateFailed, "failed to create meeting")
	}

	logger.Info("MeetingService:CreateMeeting", "meeting_id", created.ID, "organizer_id", organizer.ID, "participants", len(participantIDs))
	return dto.ToMeetingResponse(created, participantIDs), nil
}

// GetMeeting returns a meeting visible to its organizer and participants.
func (s *MeetingService) GetMeeting(ctx context.Context, id uuid.UUID, caller *coreEntity.AuthUser) (*dto.MeetingResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	meeting, err := s.repo.GetMeetingByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}

	participants, err := s.repo.GetParticipantIDs(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get meeting participants", err)
	}

	if caller == nil || (caller.ID != meeting.OrganizerID && !containsUUID(participants, caller.ID)) {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to view this meeting", nil)
	}

	return dto.ToMeetingResponse(meeting, participants), nil
}

// GetUserMeetings lists the meetings userID takes part in, ordered by start
// time. Cancelled meetings are left out unless p.IncludeCancelled is set.
func (s *MeetingService) GetUserMeetings(ctx context.Context, userID uuid.UUID, p params.QueryParams) ([]dto.MeetingResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	p.Normalize()
	meetings, err := s.repo.GetMeetingsByParticipant(ctx, userID, p.Skip, p.Limit, p.IncludeCancelled)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get meetings", err)
	}

	ids := make([]uuid.UUID, len(meetings))
	for i := range meetings {
		ids[i] = meetings[i].ID
	}
	participants, err := s.repo.GetParticipantIDsByMeetingIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get meeting participants", err)
	}

	result := make([]dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, *dto.ToMeetingResponse(&meetings[i], participants[meetings[i].ID]))
	}
	return result, nil
}

// UpdateMeeting applies a partial update. When the time range or the
// participant set changes, the effective participants are checked for
// conflicts with the meeting itself excluded.
func (s *MeetingService) UpdateMeeting(ctx context.Context, id uuid.UUID, caller *coreEntity.AuthUser, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if caller == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}

	var (
		updated      *entity.Meeting
		participants []uuid.UUID
	)
	err := s.repo.WithTx(ctx, func(tx repository.MeetingRepository) error {
		meeting, err := tx.GetMeetingByID(ctx, id)
		if err != nil {
			return err
		}
		if meeting == nil {
			return errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
		}
		if meeting.OrganizerID != caller.ID {
			return errors.NewAppError(errors.ErrForbidden, "only the organizer can update this meeting", nil)
		}
		if meeting.IsCancelled {
			return errors.NewAppError(errors.ErrMeetingCancelled, "cancelled meetings cannot be updated", nil)
		}

		next := *meeting
		if req.Title != nil {
			title, appErr := validateTitle(*req.Title)
			if appErr != nil {
				return appErr
			}
			next.Title = title
		}
		if req.Description != nil {
			description, appErr := validateDescription(req.Description)
			if appErr != nil {
				return appErr
			}
			next.Description = description
		}
		if req.StartAt != nil {
			next.StartAt = req.StartAt.UTC()
		}
		if req.EndAt != nil {
			next.EndAt = req.EndAt.UTC()
		}
		window := next.Range()
		if !window.Valid() {
			return errors.NewAppError(errors.ErrInvalidTimeRange, "end time must be after start time", nil)
		}
		timeChanged := !next.StartAt.Equal(meeting.StartAt) || !next.EndAt.Equal(meeting.EndAt)

		replace := req.Participants != nil
		if replace {
			participants = utils.UniqueUUIDs(*req.Participants)
			if appErr := s.validateParticipants(ctx, meeting.TeamID, participants); appErr != nil {
				return appErr
			}
		} else {
			participants, err = tx.GetParticipantIDs(ctx, id)
			if err != nil {
				return err
			}
		}

		if timeChanged || replace {
			if err := tx.LockParticipants(ctx, participants); err != nil {
				return err
			}
			if appErr := s.checkConflicts(ctx, tx, participants, window, &meeting.ID); appErr != nil {
				return appErr
			}
		}

		updated, err = tx.UpdateMeeting(ctx, &next)
		if err != nil {
			return err
		}
		if updated == nil {
			return errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
		}
		if replace {
			if err := tx.DeleteParticipants(ctx, id); err != nil {
				return err
			}
			if err := tx.AddParticipants(ctx, id, participants); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, toAppError(err, errors.ErrUpdateFailed, "failed to update meeting")
	}

	logger.Info("MeetingService:UpdateMeeting", "meeting_id", id, "organizer_id", caller.ID)
	return dto.ToMeetingResponse(updated, participants), nil
}

// CancelMeeting marks a meeting cancelled. Cancelling twice is a no-op.
func (s *MeetingService) CancelMeeting(ctx context.Context, id uuid.UUID, caller *coreEntity.AuthUser) (*dto.MeetingResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if caller == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}

	var (
		meeting      *entity.Meeting
		participants []uuid.UUID
	)
	err := s.repo.WithTx(ctx, func(tx repository.MeetingRepository) error {
		var err error
		meeting, err = tx.GetMeetingByID(ctx, id)
		if err != nil {
			return err
		}
		if meeting == nil {
			return errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
		}
		if meeting.OrganizerID != caller.ID {
			return errors.NewAppError(errors.ErrForbidden, "only the organizer can cancel this meeting", nil)
		}

		if !meeting.IsCancelled {
			if err := tx.CancelMeeting(ctx, id); err != nil {
				return err
			}
			if meeting, err = tx.GetMeetingByID(ctx, id); err != nil {
				return err
			}
		}

		participants, err = tx.GetParticipantIDs(ctx, id)
		return err
	})
	if err != nil {
		return nil, toAppError(err, errors.ErrUpdateFailed, "failed to cancel meeting")
	}

	logger.Info("MeetingService:CancelMeeting", "meeting_id", id, "organizer_id", caller.ID)
	return dto.ToMeetingResponse(meeting, participants), nil
}

// validateParticipants requires every id to be an active member of teamID.
func (s *MeetingService) validateParticipants(ctx context.Context, teamID uuid.UUID, userIDs []uuid.UUID) *errors.AppError {
	if len(userIDs) == 0 {
		return nil
	}
	members, err := s.directory.FilterTeamMembers(ctx, teamID, userIDs)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to validate participants", err)
	}
	if len(members) == len(userIDs) {
		return nil
	}

	logger.Warn("MeetingService:validateParticipants", "team_id", teamID, "requested", len(userIDs), "members", len(members))
	return errors.NewAppError(errors.ErrParticipantValidation,
		fmt.Sprintf("%d participant(s) not found in the team", len(userIDs)-len(members)), nil)
}

func (s *MeetingService) checkConflicts(ctx context.Context, src ConflictSource, userIDs []uuid.UUID, window entity.TimeRange, excludeID *uuid.UUID) *errors.AppError {
	conflict, err := s.checker.FirstConflict(ctx, src, userIDs, window.Start, window.End, excludeID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to check schedule conflicts", err)
	}
	if conflict == nil {
		return nil
	}
	logger.Warn("MeetingService:checkConflicts", "user_id", conflict.UserID, "meeting_id", conflict.Meeting.ID)
	return errors.NewAppError(errors.ErrTimeConflict,
		fmt.Sprintf("participant %s already has a meeting at this time", conflict.UserID), nil)
}

func validateTitle(title string) (string, *errors.AppError) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if utf8.RuneCountInString(title) > constants.MeetingTitleMaxLength {
		return "", errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("title must be at most %d characters", constants.MeetingTitleMaxLength), nil)
	}
	return title, nil
}

// validateDescription treats a blank description as absent.
func validateDescription(description *string) (*string, *errors.AppError) {
	if description == nil {
		return nil, nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(d) > constants.MeetingDescriptionMaxLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("description must be at most %d characters", constants.MeetingDescriptionMaxLength), nil)
	}
	return &d, nil
}

// toAppError keeps AppErrors raised inside a unit of work and wraps anything
// else as code.
func toAppError(err error, code errors.ErrorCode, message string) *errors.AppError {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return errors.NewAppError(code, message, err)
}

func containsUUID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
