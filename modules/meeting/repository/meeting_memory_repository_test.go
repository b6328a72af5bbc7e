package repository

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"team-calendar-api/core/database"
	"team-calendar-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hour(h int) time.Time {
	return time.Date(2030, time.March, 4, h, 0, 0, 0, time.UTC)
}

func newMemoryRepo(t *testing.T) MeetingRepository {
	t.Helper()
	mem, err := database.NewMemoryDB()
	require.NoError(t, err)
	return NewMeetingRepository(database.Store{Memory: mem})
}

func seedMeeting(t *testing.T, repo MeetingRepository, teamID uuid.UUID, start, end time.Time, participants ...uuid.UUID) *entity.Meeting {
	t.Helper()
	ctx := context.Background()
	m, err := repo.CreateMeeting(ctx, &entity.Meeting{
		Title:       "sync",
		StartAt:     start,
		EndAt:       end,
		OrganizerID: uuid.New(),
		TeamID:      teamID,
	})
	require.NoError(t, err)
	require.NoError(t, repo.AddParticipants(ctx, m.ID, participants))
	return m
}

func meetingIDs(meetings []entity.Meeting) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestMemoryMeetingRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t)
	teamID, user := uuid.New(), uuid.New()

	m := seedMeeting(t, repo, teamID, hour(9), hour(10), user)
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.False(t, m.CreatedAt.IsZero())

	got, err := repo.GetMeetingByID(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sync", got.Title)

	missing, err := repo.GetMeetingByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	desc := "moved"
	got.Title, got.Description = "planning", &desc
	got.StartAt, got.EndAt = hour(11), hour(12)
	updated, err := repo.UpdateMeeting(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "planning", updated.Title)
	assert.Equal(t, hour(11), updated.StartAt)
	assert.Equal(t, m.OrganizerID, updated.OrganizerID)

	require.NoError(t, repo.CancelMeeting(ctx, m.ID))
	require.NoError(t, repo.CancelMeeting(ctx, m.ID))
	got, err = repo.GetMeetingByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCancelled)
}

func TestMemoryMeetingRepositoryParticipants(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t)
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	m := seedMeeting(t, repo, uuid.New(), hour(9), hour(10), a, b)
	require.NoError(t, repo.AddParticipants(ctx, m.ID, []uuid.UUID{a}))

	ids, err := repo.GetParticipantIDs(ctx, m.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, ids)

	require.NoError(t, repo.DeleteParticipants(ctx, m.ID))
	require.NoError(t, repo.AddParticipants(ctx, m.ID, []uuid.UUID{c}))

	byMeeting, err := repo.GetParticipantIDsByMeetingIDs(ctx, []uuid.UUID{m.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c}, byMeeting[m.ID])
	assert.Len(t, byMeeting, 1)
}

func TestMemoryMeetingRepositoryParticipantRange(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t)
	teamID, user := uuid.New(), uuid.New()

	early := seedMeeting(t, repo, teamID, hour(8), hour(9), user)
	mid := seedMeeting(t, repo, teamID, hour(9), hour(11), user)
	cancelled := seedMeeting(t, repo, teamID, hour(9), hour(10), user)
	seedMeeting(t, repo, teamID, hour(9), hour(10), uuid.New())
	require.NoError(t, repo.CancelMeeting(ctx, cancelled.ID))

	got, err := repo.GetParticipantMeetingsInRange(ctx, user, hour(9), hour(10))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{mid.ID}, meetingIDs(got))

	got, err = repo.GetParticipantMeetingsInRange(ctx, user, hour(7), hour(12))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{early.ID, mid.ID}, meetingIDs(got))
}

func TestMemoryMeetingRepositoryListing(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t)
	teamID, user := uuid.New(), uuid.New()

	third := seedMeeting(t, repo, teamID, hour(14), hour(15), user)
	first := seedMeeting(t, repo, teamID, hour(9), hour(10), user)
	second := seedMeeting(t, repo, teamID, hour(11), hour(12), user)
	cancelled := seedMeeting(t, repo, teamID, hour(10), hour(11), user)
	require.NoError(t, repo.CancelMeeting(ctx, cancelled.ID))

	got, err := repo.GetMeetingsByParticipant(ctx, user, 0, 10, false)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, meetingIDs(got))

	got, err = repo.GetMeetingsByParticipant(ctx, user, 0, 10, true)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, cancelled.ID, second.ID, third.ID}, meetingIDs(got))

	got, err = repo.GetMeetingsByParticipant(ctx, user, 1, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID}, meetingIDs(got))

	got, err = repo.GetMeetingsByParticipant(ctx, user, 5, 10, false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryMeetingRepositoryTeamRange(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t)
	teamID := uuid.New()

	overnight := seedMeeting(t, repo, teamID, hour(0).Add(-time.Hour), hour(1))
	inside := seedMeeting(t, repo, teamID, hour(12), hour(13))
	seedMeeting(t, repo, teamID, hour(0).Add(-2*time.Hour), hour(0))
	seedMeeting(t, repo, uuid.New(), hour(12), hour(13))
	cancelled := seedMeeting(t, repo, teamID, hour(15), hour(16))
	require.NoError(t, repo.CancelMeeting(ctx, cancelled.ID))

	got, err := repo.GetTeamMeetingsInRange(ctx, teamID, hour(0), hour(0).Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{overnight.ID, inside.ID}, meetingIDs(got))
}

func TestMemoryMeetingRepositoryWithTx(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t)
	teamID, user := uuid.New(), uuid.New()
	boom := stderrors.New("boom")

	var createdID uuid.UUID
	err := repo.WithTx(ctx, func(tx MeetingRepository) error {
		m, err := tx.CreateMeeting(ctx, &entity.Meeting{Title: "draft", StartAt: hour(9), EndAt: hour(10), TeamID: teamID})
		if err != nil {
			return err
		}
		createdID = m.ID
		if err := tx.AddParticipants(ctx, m.ID, []uuid.UUID{user}); err != nil {
			return err
		}
		visible, err := tx.GetMeetingByID(ctx, m.ID)
		require.NoError(t, err)
		require.NotNil(t, visible)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetMeetingByID(ctx, createdID)
	require.NoError(t, err)
	assert.Nil(t, got)
	ids, err := repo.GetParticipantIDs(ctx, createdID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	err = repo.WithTx(ctx, func(tx MeetingRepository) error {
		require.NoError(t, tx.LockParticipants(ctx, []uuid.UUID{user}))
		return tx.WithTx(ctx, func(inner MeetingRepository) error {
			_, err := inner.CreateMeeting(ctx, &entity.Meeting{Title: "kept", StartAt: hour(9), EndAt: hour(10), TeamID: teamID})
			return err
		})
	})
	require.NoError(t, err)

	got2, err := repo.GetTeamMeetingsInRange(ctx, teamID, hour(0), hour(23))
	require.NoError(t, err)
	require.Len(t, got2, 1)
	assert.Equal(t, "kept", got2[0].Title)
}
