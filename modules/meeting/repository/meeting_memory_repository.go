package repository

import (
	"bytes"
	"context"
	"sort"
	"time"

	"team-calendar-api/core/database"
	"team-calendar-api/modules/meeting/entity"

	"github.com/google/uuid"
)

// memoryMeetingRepository stores meetings in go-memdb. Stored rows are never
// mutated in place; updates insert a fresh copy.
type memoryMeetingRepository struct {
	db  *database.MemoryDB
	txn *database.MemTxn
}

func NewMemoryMeetingRepository(db *database.MemoryDB) MeetingRepository {
	return &memoryMeetingRepository{db: db}
}

func (r *memoryMeetingRepository) WithTx(ctx context.Context, fn func(tx MeetingRepository) error) error {
	if r.txn != nil {
		return fn(r)
	}
	return r.db.WithTx(ctx, func(txn *database.MemTxn) error {
		return fn(&memoryMeetingRepository{db: r.db, txn: txn})
	})
}

// LockParticipants is a no-op: memdb admits one write transaction at a time.
func (r *memoryMeetingRepository) LockParticipants(_ context.Context, _ []uuid.UUID) error {
	return nil
}

func (r *memoryMeetingRepository) read() *database.MemTxn {
	if r.txn != nil {
		return r.txn
	}
	return r.db.Txn(false)
}

func (r *memoryMeetingRepository) write(ctx context.Context, fn func(txn *database.MemTxn) error) error {
	if r.txn != nil {
		return fn(r.txn)
	}
	return r.db.WithTx(ctx, fn)
}

// ===================== Meetings =====================

func (r *memoryMeetingRepository) CreateMeeting(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error) {
	created := *meeting
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	created.StartAt, created.EndAt = created.StartAt.UTC(), created.EndAt.UTC()
	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now

	err := r.write(ctx, func(txn *database.MemTxn) error {
		return txn.Insert(database.TableMeetings, &created)
	})
	if err != nil {
		return nil, err
	}
	out := created
	return &out, nil
}

func (r *memoryMeetingRepository) GetMeetingByID(_ context.Context, id uuid.UUID) (*entity.Meeting, error) {
	return getMeeting(r.read(), id)
}

func (r *memoryMeetingRepository) UpdateMeeting(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error) {
	var updated *entity.Meeting
	err := r.write(ctx, func(txn *database.MemTxn) error {
		current, err := getMeeting(txn, meeting.ID)
		if err != nil || current == nil {
			return err
		}
		next := *current
		next.Title = meeting.Title
		next.Description = meeting.Description
		next.StartAt, next.EndAt = meeting.StartAt.UTC(), meeting.EndAt.UTC()
		next.UpdatedAt = time.Now().UTC()
		if err := txn.Insert(database.TableMeetings, &next); err != nil {
			return err
		}
		out := next
		updated = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *memoryMeetingRepository) CancelMeeting(ctx context.Context, id uuid.UUID) error {
	return r.write(ctx, func(txn *database.MemTxn) error {
		current, err := getMeeting(txn, id)
		if err != nil || current == nil || current.IsCancelled {
			return err
		}
		next := *current
		next.IsCancelled = true
		next.UpdatedAt = time.Now().UTC()
		return txn.Insert(database.TableMeetings, &next)
	})
}

// ===================== Participants =====================

func (r *memoryMeetingRepository) AddParticipants(ctx context.Context, meetingID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.write(ctx, func(txn *database.MemTxn) error {
		for _, userID := range userIDs {
			existing, err := txn.First(database.TableMeetingParticipants, database.IndexID, meetingID, userID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			row := &entity.MeetingParticipant{MeetingID: meetingID, UserID: userID, CreatedAt: now}
			if err := txn.Insert(database.TableMeetingParticipants, row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *memoryMeetingRepository) DeleteParticipants(ctx context.Context, meetingID uuid.UUID) error {
	return r.write(ctx, func(txn *database.MemTxn) error {
		_, err := txn.DeleteAll(database.TableMeetingParticipants, database.IndexMeetingID, meetingID)
		return err
	})
}

func (r *memoryMeetingRepository) GetParticipantIDs(_ context.Context, meetingID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := participantsOf(r.read(), meetingID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	return ids, nil
}

func (r *memoryMeetingRepository) GetParticipantIDsByMeetingIDs(_ context.Context, meetingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	txn := r.read()
	result := make(map[uuid.UUID][]uuid.UUID, len(meetingIDs))
	for _, meetingID := range meetingIDs {
		rows, err := participantsOf(txn, meetingID)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			result[meetingID] = append(result[meetingID], row.UserID)
		}
	}
	return result, nil
}

// ===================== Queries =====================

func (r *memoryMeetingRepository) GetParticipantMeetingsInRange(_ context.Context, userID uuid.UUID, start, end time.Time) ([]entity.Meeting, error) {
	meetings, err := meetingsOfParticipant(r.read(), userID)
	if err != nil {
		return nil, err
	}
	window := entity.TimeRange{Start: start, End: end}
	out := meetings[:0]
	for _, m := range meetings {
		if !m.IsCancelled && m.Range().Overlaps(window) {
			out = append(out, m)
		}
	}
	sortMeetings(out)
	return out, nil
}

func (r *memoryMeetingRepository) GetMeetingsByParticipant(_ context.Context, userID uuid.UUID, skip, limit int, includeCancelled bool) ([]entity.Meeting, error) {
	meetings, err := meetingsOfParticipant(r.read(), userID)
	if err != nil {
		return nil, err
	}
	out := meetings[:0]
	for _, m := range meetings {
		if includeCancelled || !m.IsCancelled {
			out = append(out, m)
		}
	}
	sortMeetings(out)
	return paginate(out, skip, limit), nil
}

func (r *memoryMeetingRepository) GetTeamMeetingsInRange(_ context.Context, teamID uuid.UUID, from, to time.Time) ([]entity.Meeting, error) {
	it, err := r.read().Get(database.TableMeetings, database.IndexTeamID, teamID)
	if err != nil {
		return nil, err
	}
	window := entity.TimeRange{Start: from, End: to}
	meetings := []entity.Meeting{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		m := raw.(*entity.Meeting)
		if !m.IsCancelled && m.Range().Overlaps(window) {
			meetings = append(meetings, *m)
		}
	}
	sortMeetings(meetings)
	return meetings, nil
}

// ===================== Helpers =====================

func getMeeting(txn *database.MemTxn, id uuid.UUID) (*entity.Meeting, error) {
	raw, err := txn.First(database.TableMeetings, database.IndexID, id)
	if err != nil || raw == nil {
		return nil, err
	}
	m := *raw.(*entity.Meeting)
	return &m, nil
}

func participantsOf(txn *database.MemTxn, meetingID uuid.UUID) ([]entity.MeetingParticipant, error) {
	it, err := txn.Get(database.TableMeetingParticipants, database.IndexMeetingID, meetingID)
	if err != nil {
		return nil, err
	}
	rows := []entity.MeetingParticipant{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rows = append(rows, *raw.(*entity.MeetingParticipant))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return lessUUID(rows[i].UserID, rows[j].UserID)
	})
	return rows, nil
}

func meetingsOfParticipant(txn *database.MemTxn, userID uuid.UUID) ([]entity.Meeting, error) {
	it, err := txn.Get(database.TableMeetingParticipants, database.IndexUserID, userID)
	if err != nil {
		return nil, err
	}
	meetings := []entity.Meeting{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		row := raw.(*entity.MeetingParticipant)
		m, err := getMeeting(txn, row.MeetingID)
		if err != nil {
			return nil, err
		}
		if m != nil {
			meetings = append(meetings, *m)
		}
	}
	return meetings, nil
}

func sortMeetings(meetings []entity.Meeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		if !meetings[i].StartAt.Equal(meetings[j].StartAt) {
			return meetings[i].StartAt.Before(meetings[j].StartAt)
		}
		return lessUUID(meetings[i].ID, meetings[j].ID)
	})
}

func paginate(meetings []entity.Meeting, skip, limit int) []entity.Meeting {
	if skip >= len(meetings) {
		return []entity.Meeting{}
	}
	end := len(meetings)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return meetings[skip:end]
}

func lessUUID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
