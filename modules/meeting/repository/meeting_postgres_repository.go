package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"team-calendar-api/core/database"
	"team-calendar-api/core/logger"
	"team-calendar-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const meetingColumns = `m.id, m.title, m.description, m.start_at, m.end_at, m.is_cancelled,
		m.organizer_id, m.team_id, m.created_at, m.updated_at`

// participantLockNamespace prefixes advisory lock keys taken per user.
const participantLockNamespace = "meeting_participant"

var errLockOutsideTx = errors.New("participant locks require a transaction")

type postgresMeetingRepository struct {
	DB *database.Database
	q  sqlx.ExtContext
	tx *sqlx.Tx
}

func NewPostgresMeetingRepository(db *database.Database) MeetingRepository {
	return &postgresMeetingRepository{DB: db, q: db.SQLx()}
}

// ===================== Unit of work =====================

func (r *postgresMeetingRepository) WithTx(ctx context.Context, fn func(tx MeetingRepository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	return r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&postgresMeetingRepository{DB: r.DB, q: tx, tx: tx})
	})
}

func (r *postgresMeetingRepository) LockParticipants(ctx context.Context, userIDs []uuid.UUID) error {
	if r.tx == nil {
		return errLockOutsideTx
	}
	if err := database.AdvisoryLockKeys(ctx, r.tx, participantLockNamespace, uuidStrings(userIDs)); err != nil {
		logger.Error("MeetingRepository:LockParticipants", "error", err)
		return err
	}
	return nil
}

// ===================== Meetings =====================

func (r *postgresMeetingRepository) CreateMeeting(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error) {
	query := `
		INSERT INTO meetings AS m (title, description, start_at, end_at, organizer_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + meetingColumns

	var created entity.Meeting
	err := sqlx.GetContext(ctx, r.q, &created, query,
		meeting.Title, meeting.Description, meeting.StartAt.UTC(), meeting.EndAt.UTC(),
		meeting.OrganizerID, meeting.TeamID)
	if err != nil {
		logger.Error("MeetingRepository:CreateMeeting", "error", err)
		return nil, err
	}
	return &created, nil
}

// GetMeetingByID locks the row when called inside a transaction so that a
// concurrent update or cancel waits for this unit of work.
func (r *postgresMeetingRepository) GetMeetingByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings m WHERE m.id = $1`
	if r.tx != nil {
		query += ` FOR UPDATE`
	}

	var meeting entity.Meeting
	err := sqlx.GetContext(ctx, r.q, &meeting, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetMeetingByID", "error", err)
		return nil, err
	}
	return &meeting, nil
}

func (r *postgresMeetingRepository) UpdateMeeting(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error) {
	query := `
		UPDATE meetings AS m
		SET title = $2, description = $3, start_at = $4, end_at = $5, updated_at = NOW()
		WHERE m.id = $1
		RETURNING ` + meetingColumns

	var updated entity.Meeting
	err := sqlx.GetContext(ctx, r.q, &updated, query,
		meeting.ID, meeting.Title, meeting.Description, meeting.StartAt.UTC(), meeting.EndAt.UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("MeetingRepository:UpdateMeeting", "error", err)
		return nil, err
	}
	return &updated, nil
}

func (r *postgresMeetingRepository) CancelMeeting(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE meetings SET is_cancelled = TRUE, updated_at = NOW() WHERE id = $1 AND is_cancelled = FALSE`
	if _, err := r.q.ExecContext(ctx, query, id); err != nil {
		logger.Error("MeetingRepository:CancelMeeting", "error", err)
		return err
	}
	return nil
}

// ===================== Participants =====================

func (r *postgresMeetingRepository) AddParticipants(ctx context.Context, meetingID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO meeting_participants (meeting_id, user_id)
		SELECT $1, u FROM unnest($2::uuid[]) AS u
		ON CONFLICT (meeting_id, user_id) DO NOTHING
	`
	if _, err := r.q.ExecContext(ctx, query, meetingID, pq.Array(uuidStrings(userIDs))); err != nil {
		logger.Error("MeetingRepository:AddParticipants", "error", err)
		return err
	}
	return nil
}

func (r *postgresMeetingRepository) DeleteParticipants(ctx context.Context, meetingID uuid.UUID) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM meeting_participants WHERE meeting_id = $1`, meetingID); err != nil {
		logger.Error("MeetingRepository:DeleteParticipants", "error", err)
		return err
	}
	return nil
}

func (r *postgresMeetingRepository) GetParticipantIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT user_id FROM meeting_participants WHERE meeting_id = $1 ORDER BY created_at ASC, user_id ASC`

	ids := []uuid.UUID{}
	if err := sqlx.SelectContext(ctx, r.q, &ids, query, meetingID); err != nil {
		logger.Error("MeetingRepository:GetParticipantIDs", "error", err)
		return nil, err
	}
	return ids, nil
}

func (r *postgresMeetingRepository) GetParticipantIDsByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(meetingIDs))
	if len(meetingIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT meeting_id, user_id, created_at FROM meeting_participants
		WHERE meeting_id = ANY($1::uuid[])
		ORDER BY created_at ASC, user_id ASC
	`
	var rows []entity.MeetingParticipant
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, pq.Array(uuidStrings(meetingIDs))); err != nil {
		logger.Error("MeetingRepository:GetParticipantIDsByMeetingIDs", "error", err)
		return nil, err
	}
	for _, row := range rows {
		result[row.MeetingID] = append(result[row.MeetingID], row.UserID)
	}
	return result, nil
}

// ===================== Queries =====================

func (r *postgresMeetingRepository) GetParticipantMeetingsInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings m
		JOIN meeting_participants mp ON mp.meeting_id = m.id
		WHERE mp.user_id = $1
		AND m.is_cancelled = FALSE
		AND m.start_at < $3
		AND m.end_at > $2
		ORDER BY m.start_at ASC, m.id ASC
	`
	meetings := []entity.Meeting{}
	if err := sqlx.SelectContext(ctx, r.q, &meetings, query, userID, start.UTC(), end.UTC()); err != nil {
		logger.Error("MeetingRepository:GetParticipantMeetingsInRange", "error", err)
		return nil, err
	}
	return meetings, nil
}

func (r *postgresMeetingRepository) GetMeetingsByParticipant(ctx context.Context, userID uuid.UUID, skip, limit int, includeCancelled bool) ([]entity.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings m
		JOIN meeting_participants mp ON mp.meeting_id = m.id
		WHERE mp.user_id = $1
		AND ($2 OR m.is_cancelled = FALSE)
		ORDER BY m.start_at ASC, m.id ASC
		OFFSET $3 LIMIT $4
	`
	meetings := []entity.Meeting{}
	if err := sqlx.SelectContext(ctx, r.q, &meetings, query, userID, includeCancelled, skip, limit); err != nil {
		logger.Error("MeetingRepository:GetMeetingsByParticipant", "error", err)
		return nil, err
	}
	return meetings, nil
}

func (r *postgresMeetingRepository) GetTeamMeetingsInRange(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]entity.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings m
		WHERE m.team_id = $1
		AND m.is_cancelled = FALSE
		AND m.start_at < $3
		AND m.end_at > $2
		ORDER BY m.start_at ASC, m.id ASC
	`
	meetings := []entity.Meeting{}
	if err := sqlx.SelectContext(ctx, r.q, &meetings, query, teamID, from.UTC(), to.UTC()); err != nil {
		logger.Error("MeetingRepository:GetTeamMeetingsInRange", "error", err)
		return nil, err
	}
	return meetings, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
